package grid

// Action is one state transition. The set of actions is closed: only the types
// in this package implement it.
type Action interface {
	// Type is the action's wire name, e.g. "SET_FILTER".
	Type() string
	apply(GridState) GridState
}

// SetData replaces the raw rows and re-derives the view with the current
// filter, search, and sort. The selection set is not pruned.
type SetData struct{ Rows []Row }

// SetLoading sets the loading flag.
type SetLoading struct{ Loading bool }

// SetError sets the user-visible error message and clears loading.
// An empty message clears the error.
type SetError struct{ Message string }

// SetColumns replaces the columns. Visible columns reset to those not
// explicitly hidden, in array order.
type SetColumns struct{ Columns []Column }

// ToggleColumnVisibility shows or hides a known column.
type ToggleColumnVisibility struct{ Field string }

// ReorderColumns moves the column at From to To. Both must be valid indices.
type ReorderColumns struct{ From, To int }

// ResizeColumn sets a column's width without clamping.
type ResizeColumn struct {
	Field string
	Width int
}

// SetSort replaces the sort model and re-sorts the current view in place.
type SetSort struct{ Model SortModel }

// ToggleSortColumn cycles field through ascending, descending, and unsorted.
type ToggleSortColumn struct{ Field string }

// SetFilter upserts the filter for one field and re-runs the pipeline.
type SetFilter struct {
	Field    string
	Value    any
	Operator Operator
}

// ClearFilters removes every filter and re-runs the pipeline.
type ClearFilters struct{}

// SetSearch replaces the search term, re-runs the pipeline, and returns to page 1.
type SetSearch struct{ Query string }

// SetPagination merges the non-nil fields into the pagination state.
// It does not re-derive the view.
type SetPagination struct {
	Page     *int
	PageSize *int
}

// SelectRow toggles one row id in the selection set.
type SelectRow struct{ ID string }

// SelectAllRows adds (Select) or removes the ids of the current page only.
type SelectAllRows struct{ Select bool }

// ClearSelection empties the selection set.
type ClearSelection struct{}

// SetDensity sets the row-rendering density.
type SetDensity struct{ Density Density }

// StartEditCell puts one cell in edit mode, replacing any active edit.
type StartEditCell struct {
	RowID string
	Field string
}

// EndEditCell leaves edit mode.
type EndEditCell struct{}

// PinColumn moves a field to the given pin lane, or unpins it with PinNone.
type PinColumn struct {
	Field string
	Side  PinSide
}

// ApplyPreferences restores saved preferences. Density and page size are
// always applied; visibility and pinning only when Layout is set.
type ApplyPreferences struct {
	Preferences Preferences
	Layout      bool
}

func (SetData) Type() string                { return "SET_DATA" }
func (SetLoading) Type() string             { return "SET_LOADING" }
func (SetError) Type() string               { return "SET_ERROR" }
func (SetColumns) Type() string             { return "SET_COLUMNS" }
func (ToggleColumnVisibility) Type() string { return "TOGGLE_COLUMN_VISIBILITY" }
func (ReorderColumns) Type() string         { return "REORDER_COLUMNS" }
func (ResizeColumn) Type() string           { return "RESIZE_COLUMN" }
func (SetSort) Type() string                { return "SET_SORT" }
func (ToggleSortColumn) Type() string       { return "TOGGLE_SORT" }
func (SetFilter) Type() string              { return "SET_FILTER" }
func (ClearFilters) Type() string           { return "CLEAR_FILTERS" }
func (SetSearch) Type() string              { return "SET_SEARCH" }
func (SetPagination) Type() string          { return "SET_PAGINATION" }
func (SelectRow) Type() string              { return "SELECT_ROW" }
func (SelectAllRows) Type() string          { return "SELECT_ALL_ROWS" }
func (ClearSelection) Type() string         { return "CLEAR_SELECTION" }
func (SetDensity) Type() string             { return "SET_DENSITY" }
func (StartEditCell) Type() string          { return "START_EDIT_CELL" }
func (EndEditCell) Type() string            { return "END_EDIT_CELL" }
func (PinColumn) Type() string              { return "PIN_COLUMN" }
func (ApplyPreferences) Type() string       { return "APPLY_PREFERENCES" }
