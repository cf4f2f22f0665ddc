package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/illarion/cipherbox/cipherbox"
	"github.com/illarion/cipherbox/internal/config"
	"github.com/illarion/cipherbox/internal/crypto"
	"github.com/illarion/cipherbox/internal/prompt"
	"github.com/rs/zerolog"
)

// Options carries what every command needs
type Options struct {
	Config *config.Config
	Logger zerolog.Logger
	// Input is a file to read from; "-" or empty means Args, then stdin
	Input string
	Args  []string
	Stdin io.Reader
	Out   io.Writer
}

// readInput returns the command payload: positional arguments joined with
// spaces, else the named file, else stdin
func (o *Options) readInput() ([]byte, error) {
	if len(o.Args) > 0 {
		return []byte(strings.Join(o.Args, " ")), nil
	}
	if o.Input != "" && o.Input != "-" {
		data, err := os.ReadFile(o.Input)
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(o.Stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}

// openBox derives the key from the configured salt and iterations and a
// password from the environment or terminal
func openBox(opts *Options, confirm bool) (*cipherbox.Box, error) {
	salt, err := opts.Config.SaltBytes()
	if err != nil {
		return nil, err
	}
	if len(salt) < crypto.SaltSize {
		opts.Logger.Warn().Int("salt_bytes", len(salt)).Msgf("salt shorter than %d bytes", crypto.SaltSize)
	}

	password, err := prompt.Password("Enter password: ", confirm)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password)

	start := time.Now()
	box, err := cipherbox.New(password, salt, opts.Config.Iterations)
	if err != nil {
		return nil, err
	}
	opts.Logger.Debug().
		Int("iterations", opts.Config.Iterations).
		Dur("took", time.Since(start)).
		Str("suite", box.Suite().String()).
		Msg("key derived")

	return box, nil
}

// trimSealed strips surrounding whitespace, such as the newline left by
// piping encrypt output back into decrypt
func trimSealed(data []byte) string {
	return string(bytes.TrimSpace(data))
}

// HandleError prints a message for err and exits
func HandleError(err error) {
	switch cipherbox.KindOf(err) {
	case cipherbox.KeyDerivation:
		fmt.Fprintf(os.Stderr, "Error: cannot derive key: %s\n", errors.Unwrap(err))
		fmt.Fprintf(os.Stderr, "Check -iterations (must be at least 1)\n")
	case cipherbox.Decode:
		fmt.Fprintf(os.Stderr, "Error: input is not valid base64\n")
	case cipherbox.MalformedInput:
		fmt.Fprintf(os.Stderr, "Error: input is too short to be a sealed message\n")
	case cipherbox.Decryption:
		fmt.Fprintf(os.Stderr, "Error: decryption failed (wrong password, salt or corrupted data?)\n")
	case cipherbox.Random:
		fmt.Fprintf(os.Stderr, "Error: failed to generate IV: %s\n", errors.Unwrap(err))
	default:
		if errors.Is(err, config.ErrMissingSalt) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			fmt.Fprintf(os.Stderr, "Generate one with 'cipherbox salt'\n")
			break
		}
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}
