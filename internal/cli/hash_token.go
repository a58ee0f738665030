package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookstock/internal/auth"
)

// HashTokenCommand prints a bcrypt hash suitable for AUTH_API_TOKEN_HASH.
// With -generate a random token is created and printed alongside its hash.
type HashTokenCommand struct {
	Token    string
	Generate bool
	Cost     int
	Out      io.Writer
}

func NewHashTokenCommand() *HashTokenCommand {
	return &HashTokenCommand{}
}

func (cmd *HashTokenCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("hash-token", flag.ContinueOnError)

	fs.StringVar(&cmd.Token, "token", "", "API token to hash")
	fs.BoolVar(&cmd.Generate, "generate", false, "Generate a random token instead of hashing -token")
	fs.IntVar(&cmd.Cost, "cost", 0, "bcrypt cost (0 uses the library default)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s hash-token (-token <token> | -generate) [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print a bcrypt hash for the AUTH_API_TOKEN_HASH setting.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Token == "" && !cmd.Generate {
		return fmt.Errorf("either -token or -generate is required")
	}
	if cmd.Token != "" && cmd.Generate {
		return fmt.Errorf("-token and -generate are mutually exclusive")
	}
	return nil
}

func (cmd *HashTokenCommand) Run() error {
	out := outputOrStdout(cmd.Out)

	if cmd.Generate {
		token, hash, err := auth.GenerateAPIToken(cmd.Cost)
		if err != nil {
			return fmt.Errorf("failed to generate token: %w", err)
		}
		fmt.Fprintf(out, "token: %s\n", token)
		fmt.Fprintf(out, "hash:  %s\n", hash)
		return nil
	}

	hash, err := auth.HashToken(cmd.Token, cmd.Cost)
	if err != nil {
		return fmt.Errorf("failed to hash token: %w", err)
	}
	fmt.Fprintln(out, hash)
	return nil
}
