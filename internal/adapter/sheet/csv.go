package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DefaultComma is the delimiter used by the survey platform's CSV exports.
const DefaultComma = ';'

// CSVOptions controls how delimited files are decoded.
type CSVOptions struct {
	// Comma is the field delimiter. Zero means DefaultComma.
	Comma rune
	// Charset is a WHATWG encoding label such as "utf-8" or "windows-1252".
	// Empty means UTF-8.
	Charset string
}

// ReadCSV loads a delimited file whose first record is the header.
func ReadCSV(r io.Reader, opts CSVOptions) (*Table, error) {
	enc, err := lookupCharset(opts.Charset)
	if err != nil {
		return nil, err
	}
	if enc != nil {
		r = transform.NewReader(r, enc.NewDecoder())
	}

	cr := csv.NewReader(r)
	cr.Comma = comma(opts.Comma)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return newTable(records), nil
}

// WriteCSV writes t as UTF-8 using the configured delimiter.
func WriteCSV(w io.Writer, t *Table, opts CSVOptions) error {
	cw := csv.NewWriter(w)
	cw.Comma = comma(opts.Comma)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

func comma(c rune) rune {
	if c == 0 {
		return DefaultComma
	}
	return c
}

// lookupCharset resolves a charset label. UTF-8 needs no decoding and
// returns a nil Encoding.
func lookupCharset(label string) (encoding.Encoding, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", label, err)
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return nil, nil
	}
	return enc, nil
}
