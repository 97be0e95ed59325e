package grid

// Row is one record: a mapping from field name to scalar value.
// Rows are treated as immutable once ingested.
type Row map[string]any

// IDField is the row field that carries identity.
const IDField = "id"

// RowID returns the row's identity coerced to a string.
func RowID(row Row) string {
	return Stringify(row[IDField])
}

// MinColumnWidth is the smallest width the UI should dispatch for a column.
const MinColumnWidth = 50

// ColumnType is the data type a column projects.
type ColumnType string

const (
	TypeString  ColumnType = "string"
	TypeNumber  ColumnType = "number"
	TypeDate    ColumnType = "date"
	TypeSelect  ColumnType = "select"
	TypeActions ColumnType = "actions"
)

// Column describes one field projection.
type Column struct {
	Field        string     `json:"field"`
	HeaderName   string     `json:"headerName"`
	Width        int        `json:"width"`
	MinWidth     int        `json:"minWidth,omitempty"`
	MaxWidth     int        `json:"maxWidth,omitempty"`
	Sortable     *bool      `json:"sortable,omitempty"`
	Filterable   *bool      `json:"filterable,omitempty"`
	Resizable    *bool      `json:"resizable,omitempty"`
	Type         ColumnType `json:"type,omitempty"`
	ValueOptions []string   `json:"valueOptions,omitempty"`
	Visible      *bool      `json:"visible,omitempty"`
}

// IsSortable reports whether the column is sortable (default true).
func (c Column) IsSortable() bool { return c.Sortable == nil || *c.Sortable }

// IsFilterable reports whether the column is filterable (default true).
func (c Column) IsFilterable() bool { return c.Filterable == nil || *c.Filterable }

// IsResizable reports whether the column is resizable (default true).
func (c Column) IsResizable() bool { return c.Resizable == nil || *c.Resizable }

// IsVisible reports whether the column starts visible (default true).
func (c Column) IsVisible() bool { return c.Visible == nil || *c.Visible }

// DataType returns the column type, defaulting to TypeString.
func (c Column) DataType() ColumnType {
	if c.Type == "" {
		return TypeString
	}
	return c.Type
}

// ClampWidth bounds a requested width by the column's limits and MinColumnWidth.
// The store never clamps; callers clamp before dispatching a resize.
func ClampWidth(c Column, width int) int {
	lo := MinColumnWidth
	if c.MinWidth > lo {
		lo = c.MinWidth
	}
	if width < lo {
		width = lo
	}
	if c.MaxWidth > 0 && width > c.MaxWidth {
		width = c.MaxWidth
	}
	return width
}

// Bool returns a pointer to b, for the optional Column flags.
func Bool(b bool) *bool { return &b }

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortItem is one sort key.
type SortItem struct {
	Field string    `json:"field"`
	Sort  Direction `json:"sort"`
}

// SortModel is an ordered list of sort keys; the first key wins and later
// keys break ties.
type SortModel []SortItem

// Operator is a filter comparison operator.
type Operator string

const (
	OpContains   Operator = "contains"
	OpEquals     Operator = "equals"
	OpStartsWith Operator = "startsWith"
	OpEndsWith   Operator = "endsWith"
	OpGreater    Operator = "gt"
	OpLess       Operator = "lt"
	OpGreaterEq  Operator = "gte"
	OpLessEq     Operator = "lte"
)

// Valid reports whether op is one of the known operators.
func (op Operator) Valid() bool {
	switch op {
	case OpContains, OpEquals, OpStartsWith, OpEndsWith,
		OpGreater, OpLess, OpGreaterEq, OpLessEq:
		return true
	}
	return false
}

// IsNumeric reports whether op compares operands as numbers.
func (op Operator) IsNumeric() bool {
	switch op {
	case OpGreater, OpLess, OpGreaterEq, OpLessEq:
		return true
	}
	return false
}

// FilterItem is the filter applied to a single field.
type FilterItem struct {
	Value    any      `json:"value"`
	Operator Operator `json:"operator"`
}

// Active reports whether the filter takes part in evaluation.
// Entries with a nil or empty-string value stay in the model but are inert.
func (f FilterItem) Active() bool {
	if f.Value == nil {
		return false
	}
	if s, ok := f.Value.(string); ok && s == "" {
		return false
	}
	return true
}

// FilterModel maps field name to its filter. An absent entry means no filter.
type FilterModel map[string]FilterItem

// Pagination is the 1-based paging state. Total is the filtered set size.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
	Total    int `json:"total"`
}

// PinSide is the lane a pinned column renders in.
type PinSide string

const (
	PinNone  PinSide = ""
	PinLeft  PinSide = "left"
	PinRight PinSide = "right"
)

// PinnedColumns holds the two pin lanes. A field appears in at most one.
type PinnedColumns struct {
	Left  []string `json:"left"`
	Right []string `json:"right"`
}

// Side returns the lane the field is pinned to, or PinNone.
func (p PinnedColumns) Side(field string) PinSide {
	if contains(p.Left, field) {
		return PinLeft
	}
	if contains(p.Right, field) {
		return PinRight
	}
	return PinNone
}

// Density is the row-rendering density.
type Density string

const (
	DensityCompact     Density = "compact"
	DensityStandard    Density = "standard"
	DensityComfortable Density = "comfortable"
)

// Valid reports whether d is a known density.
func (d Density) Valid() bool {
	switch d {
	case DensityCompact, DensityStandard, DensityComfortable:
		return true
	}
	return false
}

// CellRef identifies one cell.
type CellRef struct {
	RowID string `json:"rowId"`
	Field string `json:"field"`
}

// GridState is a complete snapshot of the grid.
//
// Snapshots share backing arrays with their predecessors where a field did not
// change, so callers must treat every slice and map as read-only.
type GridState struct {
	Data           []Row
	FilteredData   []Row
	Columns        []Column
	VisibleColumns []string
	PinnedColumns  PinnedColumns
	SortModel      SortModel
	FilterModel    FilterModel
	SelectedRows   map[string]struct{}
	Pagination     Pagination
	Loading        bool
	Error          string
	SearchQuery    string
	Density        Density
	EditingCell    *CellRef
}

// DefaultPageSize is the page size of a fresh session.
const DefaultPageSize = 25

// NewState returns the empty defaults a session starts with.
func NewState(pageSize int) GridState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return GridState{
		Data:           []Row{},
		FilteredData:   []Row{},
		Columns:        []Column{},
		VisibleColumns: []string{},
		PinnedColumns:  PinnedColumns{Left: []string{}, Right: []string{}},
		SortModel:      SortModel{},
		FilterModel:    FilterModel{},
		SelectedRows:   map[string]struct{}{},
		Pagination:     Pagination{Page: 1, PageSize: pageSize},
		Density:        DensityStandard,
	}
}

// IsSelected reports whether the row id is in the selection set.
func (s GridState) IsSelected(id string) bool {
	_, ok := s.SelectedRows[id]
	return ok
}

// Column returns the column for field.
func (s GridState) Column(field string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Field == field {
			return c, true
		}
	}
	return Column{}, false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
