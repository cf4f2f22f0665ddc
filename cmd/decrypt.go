package cmd

import (
	"github.com/illarion/cipherbox/internal/crypto"
)

// Decrypt opens a sealed message and writes the plaintext to opts.Out
func Decrypt(opts *Options) error {
	box, err := openBox(opts, false)
	if err != nil {
		return err
	}
	defer box.Destroy()

	input, err := opts.readInput()
	if err != nil {
		return err
	}

	plaintext, err := box.Decrypt(trimSealed(input))
	if err != nil {
		opts.Logger.Debug().Int("sealed_chars", len(input)).Err(err).Msg("decrypt failed")
		return err
	}
	defer crypto.ClearBytes(plaintext)

	opts.Logger.Debug().
		Int("sealed_chars", len(input)).
		Int("plaintext_bytes", len(plaintext)).
		Msg("decrypted")

	_, err = opts.Out.Write(plaintext)
	return err
}
