package cmd

import (
	"encoding/base64"
	"fmt"

	"github.com/illarion/cipherbox/internal/crypto"
)

// Salt writes size random bytes, base64 encoded, to opts.Out
func Salt(opts *Options, size int) error {
	if size < 1 {
		return fmt.Errorf("salt size must be positive, got %d", size)
	}
	if size < crypto.SaltSize {
		opts.Logger.Warn().Int("size", size).Msgf("salts shorter than %d bytes are not recommended", crypto.SaltSize)
	}

	salt, err := crypto.GenerateRandom(size)
	if err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	_, err = fmt.Fprintln(opts.Out, base64.StdEncoding.EncodeToString(salt))
	return err
}
