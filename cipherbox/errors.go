package cipherbox

import (
	"errors"
	"fmt"
)

// Kind classifies a cipherbox failure.
type Kind uint8

const (
	// KeyDerivation means the derivation parameters were rejected.
	KeyDerivation Kind = iota + 1
	// Decode means the sealed text is not valid base64.
	Decode
	// MalformedInput means the decoded data is too short to hold an IV.
	MalformedInput
	// Decryption means the ciphertext could not be decrypted: wrong key,
	// corruption, tampering or a bad length. It carries no further detail.
	Decryption
	// Random means the random source failed while generating an IV.
	Random
	// Destroyed means the Box was used after Destroy.
	Destroyed
)

func (k Kind) String() string {
	switch k {
	case KeyDerivation:
		return "key derivation failed"
	case Decode:
		return "invalid encoding"
	case MalformedInput:
		return "malformed input"
	case Decryption:
		return "decryption failed"
	case Random:
		return "random source failed"
	case Destroyed:
		return "box destroyed"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Error is the error type returned by every Box operation.
type Error struct {
	// Op is the operation that failed: "new", "encrypt" or "decrypt".
	Op string
	// Kind classifies the failure.
	Kind Kind
	// Err is the underlying cause. Always nil for Decryption.
	Err error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return "cipherbox: " + e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("cipherbox: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("cipherbox: %s: %s", e.Op, e.Kind)
}

// Unwrap returns the underlying cause of the error.
func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same Kind, so the package sentinels
// work with errors.Is regardless of Op.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// Sentinels for use with errors.Is.
var (
	ErrKeyDerivation  = &Error{Kind: KeyDerivation}
	ErrDecode         = &Error{Kind: Decode}
	ErrMalformedInput = &Error{Kind: MalformedInput}
	ErrDecryption     = &Error{Kind: Decryption}
	ErrRandom         = &Error{Kind: Random}
	ErrDestroyed      = &Error{Kind: Destroyed}
)

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(op string, kind Kind, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: err}
}
