// Package tokenizer converts decoded text into an ordered table of rows and
// fields. It is the only component that touches untrusted input character by
// character, so it is written to never fail: malformed quoting degrades to
// warnings, never to errors.
package tokenizer

import (
	"fmt"
	"strings"

	"feedscope/internal/config"
)

// quoteChar is fixed: the doubled-quote escape convention is the only quoting
// dialect the tokenizer understands.
const quoteChar = '"'

// RawTable is the tokenizer's output: an ordered sequence of rows, each an
// ordered sequence of field strings. Rows may be ragged. A RawTable is never
// mutated after Tokenize returns.
type RawTable struct {
	Rows     [][]string
	Warnings []string
}

// Tokenize splits text into rows and fields using a two-state quote-aware
// scanner.
//
// Options:
//
//	"delimiter"  string — field separator; empty/absent means auto-detect
//	"trim_space" bool   — trim leading/trailing whitespace per field (default true)
//
// Behavior, in the order the state machine applies it:
//   - a quote while unquoted enters the quoted state
//   - a doubled quote while quoted emits one literal quote
//   - a single quote while quoted returns to the unquoted state
//   - delimiter/newline while quoted are literal field content
//   - delimiter while unquoted ends the field; newline ends the row
//   - CRLF and lone CR both count as row breaks while unquoted
//   - end of input while quoted emits the unterminated field and its row,
//     and records a warning
//
// Blank lines are skipped. The whole input never fails: every anomaly is a
// warning on the returned table.
func Tokenize(text string, opt config.Options) RawTable {
	delim := opt.Rune("delimiter", 0)
	if delim == 0 {
		delim = DetectDelimiter(text)
	}
	trim := opt.Bool("trim_space", true)

	var (
		table    RawTable
		field    strings.Builder
		fields   []string
		quoted   bool
		sawQuote bool // current row contained at least one quote
	)

	endField := func() {
		v := field.String()
		if trim {
			v = strings.TrimSpace(v)
		}
		fields = append(fields, v)
		field.Reset()
	}

	endRow := func() {
		// A row break with nothing accumulated is a blank line, not an
		// empty single-field row.
		if len(fields) == 0 && field.Len() == 0 && !sawQuote {
			return
		}
		endField()
		table.Rows = append(table.Rows, fields)
		fields = nil
		sawQuote = false
	}

	d := byte(delim)
	for i := 0; i < len(text); i++ {
		c := text[i]

		if quoted {
			if c == quoteChar {
				if i+1 < len(text) && text[i+1] == quoteChar {
					// Escaped quote: emit one literal quote, stay quoted.
					field.WriteByte(quoteChar)
					i++
					continue
				}
				quoted = false
				continue
			}
			// Delimiters and line breaks are literal inside quotes.
			field.WriteByte(c)
			continue
		}

		switch c {
		case quoteChar:
			quoted = true
			sawQuote = true
		case d:
			endField()
		case '\n':
			endRow()
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			endRow()
		default:
			field.WriteByte(c)
		}
	}

	if quoted {
		table.Warnings = append(table.Warnings,
			fmt.Sprintf("row %d: unterminated quoted field; content kept as-is", len(table.Rows)+1))
		endRow()
	} else if field.Len() > 0 || len(fields) > 0 || sawQuote {
		// Input without a trailing newline still yields its last row.
		endRow()
	}

	return table
}

// RaggedWarnings compares every row's width against the resolved header width
// and returns one warning per mismatching row. Ragged rows are retained in
// the table; this only reports them.
//
// rowOffset is added to the 1-based row index in messages so that callers can
// report positions in the original file (e.g. offset 1 when a header row was
// consumed).
func RaggedWarnings(rows [][]string, want int, rowOffset int) []string {
	var out []string
	for i, r := range rows {
		if len(r) != want {
			out = append(out, fmt.Sprintf("row %d: has %d fields, header has %d", i+1+rowOffset, len(r), want))
		}
	}
	return out
}
