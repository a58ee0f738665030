package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/gedex/inflector"

	"github.com/mrlokans/bookstock/internal/config"
	"github.com/mrlokans/bookstock/internal/database"
	"github.com/mrlokans/bookstock/internal/database/books"
	"github.com/mrlokans/bookstock/internal/services"
)

// openBookService opens the SQLite inventory at path, migrates it and returns
// a service over it. The returned func closes the database.
func openBookService(path string) (*services.BookService, func(), error) {
	db, err := database.NewDatabase(config.Database{Driver: config.DriverSQLite, Path: path})
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, nil, err
	}

	service := services.NewBookService(books.NewRepository(db.DB), config.Pagination{})
	return service, func() { db.Close() }, nil
}

func outputOrStdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

// countNoun formats n with the singular or plural form of noun.
func countNoun(n int, noun string) string {
	if n != 1 {
		noun = inflector.Pluralize(noun)
	}
	return fmt.Sprintf("%d %s", n, noun)
}
