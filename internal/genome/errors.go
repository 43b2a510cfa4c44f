package genome

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyTable indicates a header without names or a table without individuals.
	ErrEmptyTable = errors.New("genome: table has no names or no individuals")

	// ErrMalformedRow indicates a row whose value count differs from the header.
	ErrMalformedRow = errors.New("genome: row value count does not match header")

	// ErrUnrepresentable indicates a table that cannot be written back in the text format.
	ErrUnrepresentable = errors.New("genome: value or name cannot be represented in table format")
)

// ParseError locates a bad token in a table. Row and Column are 1-based and
// count individuals and values respectively.
type ParseError struct {
	Table  string
	Row    int
	Column int
	Token  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s row %d: %v", e.Table, e.Row, e.Err)
	}
	return fmt.Sprintf("%s row %d column %d (%q): %v", e.Table, e.Row, e.Column, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
