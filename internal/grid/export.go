package grid

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
)

// WriteDelimited encodes the full filtered set (not just the current page) as
// delimited text. The header row holds the visible columns' header names in
// primary order; each record holds those columns' values.
func WriteDelimited(w io.Writer, s GridState, delim rune) error {
	cols := VisibleColumnDefs(s)

	cw := csv.NewWriter(w)
	cw.Comma = delim

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.HeaderName
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(cols))
	for _, row := range s.FilteredData {
		for i, c := range cols {
			record[i] = Stringify(row[c.Field])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %s: %w", RowID(row), err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON encodes the full filtered set with every field, ignoring column
// visibility.
func WriteJSON(w io.Writer, s GridState) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	rows := s.FilteredData
	if rows == nil {
		rows = []Row{}
	}
	return enc.Encode(rows)
}
