package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/illarion/cipherbox/cmd"
	"github.com/illarion/cipherbox/internal/config"
	"github.com/illarion/cipherbox/internal/crypto"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "encrypt":
		runEncrypt(os.Args[2:])
	case "decrypt":
		runDecrypt(os.Args[2:])
	case "salt":
		runSalt(os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// commonFlags registers the flags shared by every command. Flags that were
// set on the command line override the environment after parsing.
type commonFlags struct {
	fs         *flag.FlagSet
	envFile    *string
	iterations *int
	salt       *string
	logLevel   *string
	input      *string
}

func newCommonFlags(name string) *commonFlags {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	return &commonFlags{
		fs:         fs,
		envFile:    fs.String("env-file", "", "Load settings from this .env file"),
		iterations: fs.Int("iterations", crypto.DefaultIters, "PBKDF2 iterations"),
		salt:       fs.String("salt", "", "Base64 salt for key derivation"),
		logLevel:   fs.String("log-level", "warn", "Log level (trace, debug, info, warn, error)"),
		input:      fs.String("in", "", "Read input from file instead of arguments or stdin"),
	}
}

func (c *commonFlags) parse(args []string) *cmd.Options {
	if err := c.fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*c.envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	c.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "iterations":
			cfg.Iterations = *c.iterations
		case "salt":
			cfg.Salt = *c.salt
		case "log-level":
			cfg.LogLevel = *c.logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	return &cmd.Options{
		Config: cfg,
		Logger: cmd.NewLogger(cfg, os.Stderr),
		Input:  *c.input,
		Args:   c.fs.Args(),
		Stdin:  os.Stdin,
		Out:    os.Stdout,
	}
}

func runEncrypt(args []string) {
	opts := newCommonFlags("encrypt").parse(args)
	if err := cmd.Encrypt(opts); err != nil {
		cmd.HandleError(err)
	}
}

func runDecrypt(args []string) {
	opts := newCommonFlags("decrypt").parse(args)
	if err := cmd.Decrypt(opts); err != nil {
		cmd.HandleError(err)
	}
}

func runSalt(args []string) {
	flags := newCommonFlags("salt")
	size := flags.fs.Int("size", crypto.SaltSize, "Salt size in bytes")
	opts := flags.parse(args)

	if err := cmd.Salt(opts, *size); err != nil {
		cmd.HandleError(err)
	}
}

func printUsage() {
	fmt.Println("cipherbox - Password-based AES-256-CBC encryption")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  cipherbox <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  encrypt     Encrypt text and print a base64 sealed message")
	fmt.Println("  decrypt     Decrypt a sealed message")
	fmt.Println("  salt        Generate a random base64 salt")
	fmt.Println("  help        Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  cipherbox salt                              # Generate a salt")
	fmt.Println("  cipherbox encrypt -salt <salt> \"secret\"     # Encrypt text")
	fmt.Println("  cipherbox decrypt -salt <salt> <sealed>     # Decrypt it again")
	fmt.Println()
	fmt.Println("Use 'cipherbox help <command>' for more information about a command.")
}

func printCommonFlags() {
	fmt.Println("Flags:")
	fmt.Println("  -salt <b64>       Salt for key derivation (or CIPHERBOX_SALT)")
	fmt.Println("  -iterations <n>   PBKDF2 iterations, default " + strconv.Itoa(crypto.DefaultIters) + " (or CIPHERBOX_ITERATIONS)")
	fmt.Println("  -in <file>        Read input from file")
	fmt.Println("  -env-file <file>  Load settings from a .env file (default: ./.env if present)")
	fmt.Println("  -log-level <lvl>  Log level for stderr diagnostics (or CIPHERBOX_LOG_LEVEL)")
	fmt.Println()
	fmt.Println("The password is read from CIPHERBOX_PASSWORD, or prompted for.")
}

func printCommandHelp(command string) {
	switch command {
	case "encrypt":
		fmt.Println("cipherbox encrypt [flags] [text...]")
		fmt.Println()
		fmt.Println("Encrypts text from arguments, -in, or stdin.")
		fmt.Println("Prints base64(IV || ciphertext) on a single line.")
		fmt.Println("Each run uses a fresh random IV, so output differs every time.")
		fmt.Println()
		printCommonFlags()
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  cipherbox encrypt -salt <salt> \"secret\"")
		fmt.Println("  cipherbox encrypt -salt <salt> -in notes.txt > notes.sealed")
	case "decrypt":
		fmt.Println("cipherbox decrypt [flags] [sealed]")
		fmt.Println()
		fmt.Println("Decrypts a sealed message from arguments, -in, or stdin.")
		fmt.Println("Salt, iterations and password must match those used to encrypt.")
		fmt.Println()
		printCommonFlags()
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  cipherbox decrypt -salt <salt> -in notes.sealed")
	case "salt":
		fmt.Println("cipherbox salt [-size n]")
		fmt.Println()
		fmt.Println("Prints a random salt, base64 encoded.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -size <n>   Salt size in bytes (default 16)")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
