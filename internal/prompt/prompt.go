// Package prompt reads passwords for the cipherbox command.
package prompt

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/illarion/cipherbox/internal/crypto"
	"golang.org/x/term"
)

// EnvPassword is the environment variable checked before prompting
const EnvPassword = "CIPHERBOX_PASSWORD"

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrEmptyPassword    = errors.New("password cannot be empty")
)

// ReadPassword reads a password from the terminal without echoing
func ReadPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // New line after password

	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}

	return password, nil
}

// ReadPasswordConfirm reads a password twice and ensures they match
func ReadPasswordConfirm() ([]byte, error) {
	password1, err := ReadPassword("Enter password: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password1)

	password2, err := ReadPassword("Confirm password: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password2)

	if !crypto.ConstantTimeCompare(password1, password2) {
		return nil, ErrPasswordMismatch
	}

	// Return a copy of the password
	result := make([]byte, len(password1))
	copy(result, password1)
	return result, nil
}

// FromEnv reads the password from CIPHERBOX_PASSWORD, or returns nil
func FromEnv() []byte {
	password := os.Getenv(EnvPassword)
	if password == "" {
		return nil
	}
	// Return a copy to avoid issues when clearing the bytes
	result := make([]byte, len(password))
	copy(result, password)
	return result
}

// Password returns the password from the environment, falling back to a
// terminal prompt. With confirm set, the prompt asks twice.
// The caller is responsible for calling crypto.ClearBytes on the result.
func Password(prompt string, confirm bool) ([]byte, error) {
	if password := FromEnv(); password != nil {
		return password, nil
	}

	if !term.IsTerminal(int(syscall.Stdin)) {
		return nil, fmt.Errorf("no terminal to prompt on; set %s", EnvPassword)
	}

	var (
		password []byte
		err      error
	)
	if confirm {
		password, err = ReadPasswordConfirm()
	} else {
		password, err = ReadPassword(prompt)
	}
	if err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, ErrEmptyPassword
	}
	return password, nil
}
