package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/mrlokans/bookstock/internal/config"
)

// DemoSearchQuery is the query the demo searches for after creating the
// sample book.
const DemoSearchQuery = "Go"

func sampleBook() map[string]any {
	return map[string]any{
		"title":       "Modern Go Development",
		"author":      "John Doe",
		"isbn":        "978-0123456789",
		"price":       29.99,
		"quantity":    10,
		"description": "A comprehensive guide to modern Go development practices.",
	}
}

// DemoCommand runs a scripted walkthrough against a local inventory: create
// a sample book, search for it and print stats. Each step reports its own
// error and the walkthrough continues.
type DemoCommand struct {
	DatabasePath string
	Out          io.Writer
}

func NewDemoCommand() *DemoCommand {
	return &DemoCommand{}
}

func (cmd *DemoCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the SQLite inventory database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s demo [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a sample book, search for it and print inventory stats.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *DemoCommand) Run() error {
	out := outputOrStdout(cmd.Out)

	fmt.Fprintln(out, "=== Book Inventory Demo ===")

	service, closeDB, err := openBookService(cmd.DatabasePath)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return nil
	}
	defer closeDB()

	fmt.Fprintln(out, "Creating sample book...")
	book, err := service.CreateBook(sampleBook())
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
	} else {
		fmt.Fprintf(out, "Book created with ID: %d\n", book.ID)
		fmt.Fprintf(out, "  %q by %s, $%s, %s in stock\n",
			book.Title, book.Author,
			humanize.FormatFloat("#,###.##", book.Price),
			countNoun(book.Quantity, "copy"))
	}

	fmt.Fprintln(out, "Searching for books...")
	found, err := service.SearchBooks(DemoSearchQuery)
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
	} else {
		fmt.Fprintf(out, "Found %s matching '%s'\n", countNoun(len(found), "book"), DemoSearchQuery)
		for _, b := range found {
			fmt.Fprintf(out, "  #%d %s (added %s)\n", b.ID, b.Title, humanize.Time(b.CreatedAt))
		}
	}

	fmt.Fprintln(out, "Book stats:")
	stats, err := service.GetBookStats()
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return nil
	}
	fmt.Fprintf(out, "  total_books: %s\n", humanize.Comma(stats.TotalBooks))
	fmt.Fprintf(out, "  timestamp:   %s\n", stats.Timestamp)

	return nil
}
