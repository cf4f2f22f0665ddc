package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize     = 16     // Recommended minimum salt size in bytes
	KeySize      = 32     // AES-256 key size
	BlockSize    = 16     // AES block size, also the IV size
	DefaultIters = 100000 // Default PBKDF2 iterations for interactive use
)

var (
	ErrInvalidIterations = errors.New("iterations must be positive")
	ErrInvalidPadding    = errors.New("invalid padding")
)

// KDF handles key derivation from passwords
type KDF struct {
	Salt       []byte
	Iterations int
}

// NewKDF creates a new KDF with a random salt
func NewKDF() (*KDF, error) {
	salt, err := GenerateRandom(SaltSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	return &KDF{
		Salt:       salt,
		Iterations: DefaultIters,
	}, nil
}

// Validate reports whether the parameters can be used for derivation.
// The salt is not checked; its policy belongs to the caller.
func (k *KDF) Validate() error {
	if k.Iterations < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidIterations, k.Iterations)
	}
	return nil
}

// DeriveKey derives a KeySize encryption key from a password using
// PBKDF2-HMAC-SHA256
func (k *KDF) DeriveKey(password []byte) ([]byte, error) {
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return pbkdf2.Key(password, k.Salt, k.Iterations, KeySize, sha256.New), nil
}

// Pad appends PKCS#7 padding. The result is always at least one byte
// longer than data and a multiple of blockSize.
func Pad(data []byte, blockSize int) []byte {
	checkBlockSize(blockSize)

	padLen := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// Unpad strips PKCS#7 padding. The check runs over the whole final block
// without data-dependent branches, and every failure returns
// ErrInvalidPadding.
func Unpad(data []byte, blockSize int) ([]byte, error) {
	checkBlockSize(blockSize)
	n := len(data)
	if n == 0 || n%blockSize != 0 {
		return nil, ErrInvalidPadding
	}

	padLen := int(data[n-1])
	good := subtle.ConstantTimeLessOrEq(1, padLen) & subtle.ConstantTimeLessOrEq(padLen, blockSize)
	for i := 0; i < blockSize; i++ {
		inPad := subtle.ConstantTimeLessOrEq(i+1, padLen)
		match := subtle.ConstantTimeByteEq(data[n-1-i], byte(padLen))
		good &= subtle.ConstantTimeSelect(inPad, match, 1)
	}
	if good != 1 {
		return nil, ErrInvalidPadding
	}

	return data[:n-padLen], nil
}

func checkBlockSize(blockSize int) {
	if blockSize < 1 || blockSize > 255 {
		panic("crypto: PKCS#7 block size must be between 1 and 255")
	}
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// ReadRandom reads exactly n bytes from r
func ReadRandom(r io.Reader, n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return b, nil
}

// GenerateRandom generates n random bytes from crypto/rand
func GenerateRandom(n int) ([]byte, error) {
	return ReadRandom(rand.Reader, n)
}
