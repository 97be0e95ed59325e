package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/datagrid/internal/grid"
	"github.com/JonMunkholm/datagrid/internal/source"
)

func render(w io.Writer, st grid.GridState, format string) error {
	switch format {
	case "csv":
		return grid.WriteDelimited(w, st, ',')
	case "tsv":
		return grid.WriteDelimited(w, st, '\t')
	case "json":
		return grid.WriteJSON(w, st)
	default:
		return renderTable(w, st)
	}
}

// renderTable prints the current page with columns in lane order.
func renderTable(w io.Writer, st grid.GridState) error {
	if st.Error != "" {
		return fmt.Errorf("%s", st.Error)
	}
	p := st.Pagination
	if p.Total == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	lanes := grid.LayoutLanes(st)
	cols := append(append(append([]grid.Column{}, lanes.Left...), lanes.Center...), lanes.Right...)

	t := newTable(w)

	header := make(table.Row, 0, len(cols))
	for _, c := range cols {
		if c.DataType() == grid.TypeActions {
			continue
		}
		header = append(header, c.HeaderName)
	}
	t.AppendHeader(header)

	for _, row := range grid.CurrentPage(st) {
		r := make(table.Row, 0, len(header))
		for _, c := range cols {
			if c.DataType() == grid.TypeActions {
				continue
			}
			r = append(r, grid.Stringify(row[c.Field]))
		}
		t.AppendRow(r)
	}

	from, to := grid.PageBounds(p.Total, p.Page, p.PageSize)
	t.SetCaption("Showing %d to %d of %d (page %d of %d)",
		from, to, p.Total, p.Page, grid.TotalPages(p.Total, p.PageSize))
	t.Render()
	return nil
}

func newColumnsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "columns",
		Short: "List the columns of the generated users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t := newTable(cmd.OutOrStdout())
			t.AppendHeader(table.Row{"Field", "Header", "Type", "Width", "Sortable", "Filterable"})
			for _, c := range source.DefaultColumns() {
				t.AppendRow(table.Row{c.Field, c.HeaderName, c.DataType(), c.Width, c.IsSortable(), c.IsFilterable()})
			}
			t.Render()
			return nil
		},
	}
}

// newTable returns a light-style table that prints headers as given.
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Header = text.FormatDefault
	return t
}
