package cmd

import (
	"fmt"
)

// Encrypt seals the input and writes the base64 result to opts.Out
func Encrypt(opts *Options) error {
	box, err := openBox(opts, true)
	if err != nil {
		return err
	}
	defer box.Destroy()

	plaintext, err := opts.readInput()
	if err != nil {
		return err
	}

	sealed, err := box.Encrypt(plaintext)
	if err != nil {
		return err
	}

	opts.Logger.Debug().
		Int("plaintext_bytes", len(plaintext)).
		Int("sealed_chars", len(sealed)).
		Msg("encrypted")

	_, err = fmt.Fprintln(opts.Out, sealed)
	return err
}
