// Package views holds the grid's render model and its HTML components.
package views

import (
	"maps"
	"slices"

	"github.com/JonMunkholm/datagrid/internal/grid"
)

// PagerWidth is how many page links the pager shows.
const PagerWidth = 5

// Grid is what a client needs to draw one grid: the current page in lane
// order plus the models that produced it.
type Grid struct {
	ID              string           `json:"id"`
	Rows            []grid.Row       `json:"rows"`
	Columns         grid.Lanes       `json:"columns"`
	Pagination      Pager            `json:"pagination"`
	SortModel       grid.SortModel   `json:"sortModel"`
	FilterModel     grid.FilterModel `json:"filterModel"`
	SearchQuery     string           `json:"searchQuery"`
	SelectedRows    []string         `json:"selectedRows"`
	PageAllSelected bool             `json:"pageAllSelected"`
	Density         grid.Density     `json:"density"`
	Loading         bool             `json:"loading"`
	Error           string           `json:"error,omitempty"`
	EditingCell     *grid.CellRef    `json:"editingCell,omitempty"`
}

// Pager is the pagination footer.
type Pager struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int   `json:"total"`
	TotalPages int   `json:"totalPages"`
	From       int   `json:"from"`
	To         int   `json:"to"`
	Pages      []int `json:"pages"`
}

// NewGrid builds the render model for a session snapshot.
func NewGrid(id string, s grid.GridState) Grid {
	p := s.Pagination
	totalPages := grid.TotalPages(p.Total, p.PageSize)
	from, to := grid.PageBounds(p.Total, p.Page, p.PageSize)

	selected := slices.Sorted(maps.Keys(s.SelectedRows))
	if selected == nil {
		selected = []string{}
	}
	rows := grid.CurrentPage(s)
	if rows == nil {
		rows = []grid.Row{}
	}

	return Grid{
		ID:      id,
		Rows:    rows,
		Columns: grid.LayoutLanes(s),
		Pagination: Pager{
			Page:       p.Page,
			PageSize:   p.PageSize,
			Total:      p.Total,
			TotalPages: totalPages,
			From:       from,
			To:         to,
			Pages:      grid.PageWindow(p.Page, totalPages, PagerWidth),
		},
		SortModel:       s.SortModel,
		FilterModel:     s.FilterModel,
		SearchQuery:     s.SearchQuery,
		SelectedRows:    selected,
		PageAllSelected: grid.PageAllSelected(s),
		Density:         s.Density,
		Loading:         s.Loading,
		Error:           s.Error,
		EditingCell:     s.EditingCell,
	}
}

// lanedColumns returns the visible columns left to right with the lane each
// renders in.
func (g Grid) lanedColumns() []lanedColumn {
	out := make([]lanedColumn, 0, len(g.Columns.Left)+len(g.Columns.Center)+len(g.Columns.Right))
	for _, c := range g.Columns.Left {
		out = append(out, lanedColumn{Column: c, lane: "left"})
	}
	for _, c := range g.Columns.Center {
		out = append(out, lanedColumn{Column: c, lane: "center"})
	}
	for _, c := range g.Columns.Right {
		out = append(out, lanedColumn{Column: c, lane: "right"})
	}
	return out
}

type lanedColumn struct {
	grid.Column
	lane string
}
