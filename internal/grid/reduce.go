package grid

import (
	"maps"
	"slices"
)

// Reduce applies one action to s and returns the resulting snapshot.
// It is a pure total function: s is never mutated and no action fails.
// A nil action returns s unchanged.
func Reduce(s GridState, a Action) GridState {
	if a == nil {
		return s
	}
	return a.apply(s)
}

// rederive re-runs the full pipeline from the raw rows.
func rederive(s GridState) GridState {
	s.FilteredData = DeriveView(s.Data, s.FilterModel, s.SearchQuery, s.SortModel)
	s.Pagination.Total = len(s.FilteredData)
	return s
}

func (a SetData) apply(s GridState) GridState {
	s.Data = a.Rows
	if s.Data == nil {
		s.Data = []Row{}
	}
	return rederive(s)
}

func (a SetLoading) apply(s GridState) GridState {
	s.Loading = a.Loading
	return s
}

func (a SetError) apply(s GridState) GridState {
	s.Error = a.Message
	s.Loading = false
	return s
}

func (a SetColumns) apply(s GridState) GridState {
	s.Columns = slices.Clone(a.Columns)
	if s.Columns == nil {
		s.Columns = []Column{}
	}
	s.VisibleColumns = make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		if c.IsVisible() {
			s.VisibleColumns = append(s.VisibleColumns, c.Field)
		}
	}
	return s
}

func (a ToggleColumnVisibility) apply(s GridState) GridState {
	return toggleVisibility(s, a.Field)
}

func (a ReorderColumns) apply(s GridState) GridState {
	return reorderColumns(s, a.From, a.To)
}

func (a ResizeColumn) apply(s GridState) GridState {
	return resizeColumn(s, a.Field, a.Width)
}

func (a SetSort) apply(s GridState) GridState {
	s.SortModel = slices.Clone(a.Model)
	if s.SortModel == nil {
		s.SortModel = SortModel{}
	}
	s.FilteredData = SortRows(s.FilteredData, s.SortModel)
	return s
}

func (a ToggleSortColumn) apply(s GridState) GridState {
	if c, ok := s.Column(a.Field); ok && !c.IsSortable() {
		return s
	}
	return SetSort{Model: ToggleSort(s.SortModel, a.Field)}.apply(s)
}

func (a SetFilter) apply(s GridState) GridState {
	s.FilterModel = maps.Clone(s.FilterModel)
	if s.FilterModel == nil {
		s.FilterModel = FilterModel{}
	}
	s.FilterModel[a.Field] = FilterItem{Value: a.Value, Operator: a.Operator}
	return rederive(s)
}

func (ClearFilters) apply(s GridState) GridState {
	s.FilterModel = FilterModel{}
	return rederive(s)
}

func (a SetSearch) apply(s GridState) GridState {
	s.SearchQuery = a.Query
	s = rederive(s)
	s.Pagination.Page = 1
	return s
}

func (a SetPagination) apply(s GridState) GridState {
	if a.Page != nil {
		s.Pagination.Page = max(1, *a.Page)
	}
	if a.PageSize != nil && *a.PageSize > 0 {
		s.Pagination.PageSize = *a.PageSize
	}
	return s
}

func (a SelectRow) apply(s GridState) GridState {
	sel := maps.Clone(s.SelectedRows)
	if sel == nil {
		sel = map[string]struct{}{}
	}
	if _, ok := sel[a.ID]; ok {
		delete(sel, a.ID)
	} else {
		sel[a.ID] = struct{}{}
	}
	s.SelectedRows = sel
	return s
}

func (a SelectAllRows) apply(s GridState) GridState {
	sel := maps.Clone(s.SelectedRows)
	if sel == nil {
		sel = map[string]struct{}{}
	}
	for _, id := range CurrentPageIDs(s) {
		if a.Select {
			sel[id] = struct{}{}
		} else {
			delete(sel, id)
		}
	}
	s.SelectedRows = sel
	return s
}

func (ClearSelection) apply(s GridState) GridState {
	s.SelectedRows = map[string]struct{}{}
	return s
}

func (a SetDensity) apply(s GridState) GridState {
	if !a.Density.Valid() {
		return s
	}
	s.Density = a.Density
	return s
}

func (a StartEditCell) apply(s GridState) GridState {
	c, ok := s.Column(a.Field)
	if !ok || c.DataType() == TypeActions {
		return s
	}
	s.EditingCell = &CellRef{RowID: a.RowID, Field: a.Field}
	return s
}

func (EndEditCell) apply(s GridState) GridState {
	s.EditingCell = nil
	return s
}

func (a PinColumn) apply(s GridState) GridState {
	return pinColumn(s, a.Field, a.Side)
}

func (a ApplyPreferences) apply(s GridState) GridState {
	p := a.Preferences
	if p.Density.Valid() {
		s.Density = p.Density
	}
	if p.PageSize > 0 {
		s.Pagination.PageSize = p.PageSize
	}
	if !a.Layout || len(s.Columns) == 0 {
		return s
	}
	if p.VisibleColumns != nil {
		s.VisibleColumns = knownFields(s, p.VisibleColumns)
	}
	if p.PinnedColumns.Left != nil || p.PinnedColumns.Right != nil {
		s.PinnedColumns = PinnedColumns{Left: []string{}, Right: []string{}}
		for _, f := range knownFields(s, p.PinnedColumns.Left) {
			s = pinColumn(s, f, PinLeft)
		}
		for _, f := range knownFields(s, p.PinnedColumns.Right) {
			if s.PinnedColumns.Side(f) == PinNone {
				s = pinColumn(s, f, PinRight)
			}
		}
	}
	return s
}

// knownFields keeps the fields that name a column, dropping duplicates.
func knownFields(s GridState, fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := s.Column(f); ok && !contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}
