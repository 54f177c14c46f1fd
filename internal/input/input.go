// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package input collects raw keywords from one of three sources: manually
// entered fields, the first column of a CSV file, or pasted text. Collection
// only filters blanks; normalization and deduplication happen later.
package input

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/keyword-engine/pkg/types"
)

// MaxManualFields is the number of manual entry fields offered.
const MaxManualFields = 4

var (
	// ErrTooManyFields is returned when more than MaxManualFields are given.
	ErrTooManyFields = errors.New("too many manual keyword fields")

	// ErrNoColumns is returned when a CSV file has no usable first column.
	ErrNoColumns = errors.New("csv has no usable first column")

	// ErrUnknownMode is returned for an unrecognized input mode.
	ErrUnknownMode = errors.New("unknown input mode")
)

// Source carries the user's input for exactly one mode.
type Source struct {
	Mode types.InputMode

	// Fields holds the manual entries (ModeManual).
	Fields []string

	// CSV is the uploaded file (ModeCSV).
	CSV    io.Reader
	CSVOpt CSVOptions

	// Text is the pasted block (ModePaste).
	Text string
}

// Collect dispatches to the collector for s.Mode.
func Collect(s Source) ([]string, error) {
	switch s.Mode {
	case types.ModeManual:
		return Manual(s.Fields)
	case types.ModeCSV:
		if s.CSV == nil {
			return nil, nil
		}
		return CSV(s.CSV, s.CSVOpt)
	case types.ModePaste:
		return Paste(s.Text), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, s.Mode)
	}
}

// Manual keeps the non-blank entries of up to MaxManualFields fields.
func Manual(fields []string) ([]string, error) {
	if len(fields) > MaxManualFields {
		return nil, fmt.Errorf("%w: got %d, max %d", ErrTooManyFields, len(fields), MaxManualFields)
	}
	var out []string
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			out = append(out, f)
		}
	}
	return out, nil
}

// Paste splits text on newlines, trims each line, and drops blank lines.
func Paste(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// CSVOptions controls how a CSV file is read.
type CSVOptions struct {
	// NoHeader treats the first row as data instead of a header.
	NoHeader bool

	// Comma overrides the field delimiter (default ',').
	Comma rune
}

// CSV returns the non-empty cells of the first column. The first row is a
// header unless opts.NoHeader is set. A file with no rows, or whose rows
// have no fields, returns ErrNoColumns.
func CSV(r io.Reader, opts CSVOptions) ([]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	var out []string
	rows := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		rows++
		if len(rec) == 0 {
			continue
		}
		if rows == 1 && !opts.NoHeader {
			continue
		}
		if cell := strings.TrimSpace(rec[0]); cell != "" {
			out = append(out, cell)
		}
	}
	if rows == 0 {
		return nil, ErrNoColumns
	}
	return out, nil
}
