package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"gocompare/domain/table"
)

const (
	// CSVFilename is the attachment name of the CSV download.
	CSVFilename = "difference_analysis.csv"
	// CSVContentType advertises UTF-8 with a byte-order mark.
	CSVContentType = "text/csv;charset=utf-8-sig"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV writes the table as comma-separated UTF-8 text prefixed with a byte-order mark.
func WriteCSV(w io.Writer, t *table.Table) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write byte-order mark: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(t.Records()); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// ReadCSV parses a file written by WriteCSV back into a table.
func ReadCSV(r io.Reader) (*table.Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(raw, utf8BOM)))
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse table: %w", err)
	}
	if len(rows) == 0 {
		return nil, table.ErrMalformedHeader
	}
	return table.FromRecords(rows[0], rows[1:])
}
