package domain

import (
	"fmt"
	"strings"
)

// ReadError reports an upload that could not be interpreted as a table.
// It is fatal to a run.
type ReadError struct {
	Source string
	Err    error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("could not read %s as a table: %v", e.Source, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// SchemaError reports required ledger columns that are absent.
// It is fatal to a run.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("ledger is missing required columns: %s", strings.Join(e.Missing, ", "))
}

// RowError reports a single row that was skipped. It never aborts a run.
type RowError struct {
	Source string // "ledger" or "statement"
	Row    int
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s row %d: %v", e.Source, e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ParseError reports a value that is not a valid amount or date.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("cannot parse %q", e.Input)
	}
	return fmt.Sprintf("cannot parse %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
