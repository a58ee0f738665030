package cli

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/mrlokans/bookstock/internal/config"
	"github.com/mrlokans/bookstock/internal/entities"
	"github.com/mrlokans/bookstock/internal/services"
)

// BookCreator is the part of the book service used by imports.
type BookCreator interface {
	CreateBook(fields map[string]any) (*entities.Book, error)
}

// ImportResult summarizes one import run.
type ImportResult struct {
	Created int
	Failed  int
	Errors  []RowError
}

// RowError is a failure for a single entry of the input array. Row is 1-based.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// ImportCommand bulk-creates books from a JSON array of book objects.
type ImportCommand struct {
	FilePath     string
	DatabasePath string
	DryRun       bool
	Out          io.Writer
}

func NewImportCommand() *ImportCommand {
	return &ImportCommand{}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to a JSON file holding an array of books (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the SQLite inventory database")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Validate entries without writing them")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create books from a JSON array. Each entry uses the same fields as POST /books.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s import -file books.json -dry-run\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}
	return nil
}

func (cmd *ImportCommand) Run() error {
	out := outputOrStdout(cmd.Out)

	fmt.Fprintln(out, "Book Import")
	fmt.Fprintln(out, "===========")
	if cmd.DryRun {
		fmt.Fprintln(out, "DRY RUN MODE - No changes will be made")
	}

	file, err := os.Open(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer file.Close()

	var creator BookCreator = validateOnly{}
	if !cmd.DryRun {
		service, closeDB, err := openBookService(cmd.DatabasePath)
		if err != nil {
			return err
		}
		defer closeDB()
		creator = service
	}

	result, err := ImportBooks(file, creator)
	if err != nil {
		return err
	}

	for _, rowErr := range result.Errors {
		fmt.Fprintf(out, "  %v\n", rowErr)
	}

	verb := "Imported"
	if cmd.DryRun {
		verb = "Validated"
	}
	fmt.Fprintf(out, "\n%s %s books, %s failed\n", verb,
		humanize.Comma(int64(result.Created)), humanize.Comma(int64(result.Failed)))
	return nil
}

// ImportBooks decodes a JSON array of objects from r and creates each entry.
// Invalid entries are recorded in the result and do not stop the import.
func ImportBooks(r io.Reader, creator BookCreator) (ImportResult, error) {
	var entries []map[string]any
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return ImportResult{}, fmt.Errorf("failed to decode import file: %w", err)
	}

	var result ImportResult
	for i, fields := range entries {
		if fields == nil {
			fields = map[string]any{}
		}
		if _, err := creator.CreateBook(fields); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RowError{Row: i + 1, Err: err})
			continue
		}
		result.Created++
	}
	return result, nil
}

// validateOnly checks entries without touching a store.
type validateOnly struct{}

func (validateOnly) CreateBook(fields map[string]any) (*entities.Book, error) {
	input, err := services.ParseBookInput(fields)
	if err != nil {
		return nil, err
	}
	book := entities.NewBook(input.Fields())
	return &book, nil
}
