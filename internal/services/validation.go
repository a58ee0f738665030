package services

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"

	"github.com/mrlokans/bookstock/internal/entities"
)

// MinSearchLength is the minimum trimmed length of a search query.
const MinSearchLength = 2

var isbnPattern = regexp.MustCompile(`^[0-9-]{10,20}$`)

// requiredFields are checked in this order; the first failure is the one
// reported by ValidationError.Error.
var requiredFields = []string{"title", "author", "isbn", "price", "quantity"}

const (
	msgPriceInvalid    = "Price must be a valid positive number"
	msgQuantityInvalid = "Quantity must be a valid positive integer"
	msgISBNInvalid     = "ISBN format is invalid"
	msgSearchTooShort  = "Search query must be at least 2 characters long"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("isbn_format", func(fl validator.FieldLevel) bool {
		return isbnPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register isbn_format: %v", err))
	}
	return v
}

// ValidISBN reports whether isbn is 10-20 digits and hyphens.
func ValidISBN(isbn string) bool {
	return validate.Var(isbn, "isbn_format") == nil
}

// BookInput is the typed, validated form of an untyped book payload.
type BookInput struct {
	Title       string
	Author      string
	ISBN        string
	Price       float64
	Quantity    int
	Description string
}

// Fields converts the input into entity fields.
func (in BookInput) Fields() entities.BookFields {
	return entities.BookFields{
		Title:       in.Title,
		Author:      in.Author,
		ISBN:        in.ISBN,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Description: in.Description,
	}
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

// requiredText converts a scalar to trimmed text. Arrays, objects and blank
// values are rejected.
func requiredText(v any) (string, bool) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// toNumber accepts Go numerics and numeric strings. Booleans, NaN and
// infinities are rejected.
func toNumber(v any) (float64, bool) {
	var f float64
	var err error
	switch t := v.(type) {
	case bool, nil:
		return 0, false
	case string:
		f, err = cast.ToFloat64E(strings.TrimSpace(t))
	default:
		f, err = cast.ToFloat64E(t)
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseBookInput converts an untyped payload into a BookInput. Every failing
// field is reported, in check order: required fields, price, quantity, isbn.
func ParseBookInput(fields map[string]any) (BookInput, error) {
	verr := &ValidationError{}

	text := make(map[string]string, 3)
	for _, name := range requiredFields {
		switch name {
		case "title", "author", "isbn":
			s, ok := requiredText(fields[name])
			if !ok {
				verr.add(name, fmt.Sprintf("Field '%s' is required", name))
			}
			text[name] = s
		default:
			if isBlank(fields[name]) {
				verr.add(name, fmt.Sprintf("Field '%s' is required", name))
			}
		}
	}

	in := BookInput{
		Title:       text["title"],
		Author:      text["author"],
		ISBN:        text["isbn"],
		Description: cast.ToString(fields["description"]),
	}

	if !verr.has("price") {
		price, ok := toNumber(fields["price"])
		if !ok || validate.Var(price, "gte=0") != nil {
			verr.add("price", msgPriceInvalid)
		} else {
			in.Price = math.Round(price*100) / 100
		}
	}

	if !verr.has("quantity") {
		qty, ok := toNumber(fields["quantity"])
		if !ok || qty != math.Trunc(qty) || qty > math.MaxInt32 || validate.Var(qty, "gte=0") != nil {
			verr.add("quantity", msgQuantityInvalid)
		} else {
			in.Quantity = int(qty)
		}
	}

	if !verr.has("isbn") && !ValidISBN(in.ISBN) {
		verr.add("isbn", msgISBNInvalid)
	}

	if err := verr.errOrNil(); err != nil {
		return BookInput{}, err
	}
	return in, nil
}

// normalizeSearchQuery trims q and rejects queries shorter than MinSearchLength.
func normalizeSearchQuery(q string) (string, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < MinSearchLength {
		return "", newValidationError("search", msgSearchTooShort)
	}
	return q, nil
}
