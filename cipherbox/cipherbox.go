package cipherbox

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"io"
	"sync"

	"github.com/illarion/cipherbox/internal/crypto"
)

const (
	// KeySize is the derived key size in bytes.
	KeySize = crypto.KeySize
	// IVSize is the size of the IV that prefixes every sealed message.
	IVSize = aes.BlockSize
	// DefaultIterations is the recommended PBKDF2 iteration count for
	// interactive use.
	DefaultIterations = crypto.DefaultIters
)

// Box encrypts and decrypts messages under a key derived from a password.
// Encrypt and Decrypt are safe for concurrent use.
type Box struct {
	mu     sync.RWMutex
	key    []byte
	block  cipher.Block
	random io.Reader
}

// New derives a key from password and salt with PBKDF2-HMAC-SHA256 and
// returns a Box holding it. iterations must be at least 1. The salt is not
// validated; callers should use 16 or more random bytes.
func New(password, salt []byte, iterations int, opts ...Option) (*Box, error) {
	const op = "new"

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	kdf := &crypto.KDF{Salt: salt, Iterations: iterations}
	key, err := kdf.DeriveKey(password)
	if err != nil {
		return nil, newError(op, KeyDerivation, err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		crypto.ClearBytes(key)
		return nil, newError(op, KeyDerivation, err)
	}

	return &Box{
		key:    key,
		block:  block,
		random: o.random,
	}, nil
}

// Suite returns the algorithms the Box uses.
func (b *Box) Suite() Suite {
	return DefaultSuite
}

// Encrypt seals plaintext under a fresh random IV and returns
// base64(IV || AES-256-CBC(PKCS#7(plaintext))).
func (b *Box) Encrypt(plaintext []byte) (string, error) {
	const op = "encrypt"

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.block == nil {
		return "", newError(op, Destroyed, nil)
	}

	padded := crypto.Pad(plaintext, aes.BlockSize)
	defer crypto.ClearBytes(padded)

	sealed := make([]byte, IVSize+len(padded))
	iv, err := crypto.ReadRandom(b.random, IVSize)
	if err != nil {
		return "", newError(op, Random, err)
	}
	copy(sealed, iv)

	cipher.NewCBCEncrypter(b.block, iv).CryptBlocks(sealed[IVSize:], padded)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Every failure after the IV is split off
// (length, padding, wrong key) returns the same Decryption error.
func (b *Box) Decrypt(sealed string) ([]byte, error) {
	const op = "decrypt"

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.block == nil {
		return nil, newError(op, Destroyed, nil)
	}

	data, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return nil, newError(op, Decode, err)
	}
	if len(data) < IVSize {
		return nil, newError(op, MalformedInput, nil)
	}

	iv, ciphertext := data[:IVSize], data[IVSize:]
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, newError(op, Decryption, nil)
	}

	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(b.block, iv).CryptBlocks(padded, ciphertext)

	plaintext, err := crypto.Unpad(padded, aes.BlockSize)
	if err != nil {
		crypto.ClearBytes(padded)
		return nil, newError(op, Decryption, nil)
	}
	return plaintext, nil
}

// Destroy zeroes the key. Encrypt and Decrypt fail with ErrDestroyed
// afterwards. Calling Destroy more than once is a no-op.
func (b *Box) Destroy() {
	b.mu.Lock()
	defer b.mu.Unlock()

	crypto.ClearBytes(b.key)
	b.key = nil
	b.block = nil
}
