package views

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/datagrid/internal/grid"
)

// rowHeights are the pixel heights per density.
var rowHeights = map[grid.Density]int{
	grid.DensityCompact:     36,
	grid.DensityStandard:    52,
	grid.DensityComfortable: 68,
}

// GridPage renders a full HTML page for one grid.
func GridPage(g Grid) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<title>Grid ` + templ.EscapeString(g.ID) + `</title></head><body>`)
		writeGrid(&b, g)
		b.WriteString(`</body></html>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// GridPartial renders the grid without the page shell.
func GridPartial(g Grid) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		writeGrid(&b, g)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ErrorAlert renders an error fragment with the support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div class="grid-error" role="alert"><strong>`)
		b.WriteString(templ.EscapeString(message))
		b.WriteString(`</strong>`)
		if action != "" {
			b.WriteString(` <span>` + templ.EscapeString(action) + `</span>`)
		}
		b.WriteString(` <code>` + templ.EscapeString(code) + `</code></div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeGrid(b *strings.Builder, g Grid) {
	height := rowHeights[g.Density]
	if height == 0 {
		height = rowHeights[grid.DensityStandard]
	}

	b.WriteString(`<div class="data-grid" id="grid-` + templ.EscapeString(g.ID) + `"`)
	b.WriteString(` data-density="` + templ.EscapeString(string(g.Density)) + `">`)

	if g.Error != "" {
		b.WriteString(`<div class="grid-error" role="alert">` + templ.EscapeString(g.Error) + `</div>`)
	}
	if g.Loading {
		b.WriteString(`<div class="grid-loading">Loading…</div>`)
	}

	cols := g.lanedColumns()
	b.WriteString(`<table><thead><tr>`)
	for _, c := range cols {
		b.WriteString(`<th class="lane-` + c.lane + `" style="width:` + strconv.Itoa(c.Width) + `px"`)
		if dir, ok := grid.SortDirection(g.SortModel, c.Field); ok {
			b.WriteString(` aria-sort="` + ariaSort(dir) + `"`)
		}
		b.WriteString(`>` + templ.EscapeString(c.HeaderName) + `</th>`)
	}
	b.WriteString(`</tr></thead><tbody>`)

	selected := make(map[string]bool, len(g.SelectedRows))
	for _, id := range g.SelectedRows {
		selected[id] = true
	}

	if len(g.Rows) == 0 && !g.Loading {
		b.WriteString(`<tr><td class="grid-empty" colspan="` + strconv.Itoa(len(cols)) + `">No rows</td></tr>`)
	}
	for _, row := range g.Rows {
		id := grid.RowID(row)
		b.WriteString(`<tr data-id="` + templ.EscapeString(id) + `" style="height:` + strconv.Itoa(height) + `px"`)
		if selected[id] {
			b.WriteString(` class="selected"`)
		}
		b.WriteString(`>`)
		for _, c := range cols {
			b.WriteString(`<td class="lane-` + c.lane + `">`)
			if c.DataType() != grid.TypeActions {
				b.WriteString(templ.EscapeString(grid.Stringify(row[c.Field])))
			}
			b.WriteString(`</td>`)
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody></table>`)

	writePager(b, g.Pagination)
	b.WriteString(`</div>`)
}

func writePager(b *strings.Builder, p Pager) {
	b.WriteString(`<nav class="grid-pager"><span>Showing ` + strconv.Itoa(p.From) + ` to ` +
		strconv.Itoa(p.To) + ` of ` + strconv.Itoa(p.Total) + `</span>`)
	for _, n := range p.Pages {
		if n == p.Page {
			b.WriteString(` <strong aria-current="page">` + strconv.Itoa(n) + `</strong>`)
			continue
		}
		b.WriteString(` <span class="page">` + strconv.Itoa(n) + `</span>`)
	}
	b.WriteString(`</nav>`)
}

func ariaSort(d grid.Direction) string {
	if d == grid.Desc {
		return "descending"
	}
	return "ascending"
}
