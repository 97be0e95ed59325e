package grid

import "slices"

// Column layout has four independent axes: primary order (the Columns slice),
// the visible subset, the pin lane, and per-column width. Pinning never moves
// a column in the primary order.

func toggleVisibility(s GridState, field string) GridState {
	if _, ok := s.Column(field); !ok {
		return s
	}
	if i := slices.Index(s.VisibleColumns, field); i >= 0 {
		s.VisibleColumns = slices.Delete(slices.Clone(s.VisibleColumns), i, i+1)
		return s
	}
	s.VisibleColumns = append(slices.Clone(s.VisibleColumns), field)
	return s
}

func reorderColumns(s GridState, from, to int) GridState {
	n := len(s.Columns)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return s
	}
	cols := slices.Clone(s.Columns)
	moved := cols[from]
	cols = slices.Delete(cols, from, from+1)
	cols = slices.Insert(cols, to, moved)
	s.Columns = cols
	return s
}

func resizeColumn(s GridState, field string, width int) GridState {
	i := slices.IndexFunc(s.Columns, func(c Column) bool { return c.Field == field })
	if i < 0 {
		return s
	}
	cols := slices.Clone(s.Columns)
	cols[i].Width = width
	s.Columns = cols
	return s
}

func pinColumn(s GridState, field string, side PinSide) GridState {
	if _, ok := s.Column(field); !ok {
		return s
	}
	if side != PinNone && side != PinLeft && side != PinRight {
		return s
	}
	pinned := PinnedColumns{
		Left:  without(s.PinnedColumns.Left, field),
		Right: without(s.PinnedColumns.Right, field),
	}
	switch side {
	case PinLeft:
		pinned.Left = append(pinned.Left, field)
	case PinRight:
		pinned.Right = append(pinned.Right, field)
	}
	s.PinnedColumns = pinned
	return s
}

// without returns a new slice holding list minus every occurrence of v.
func without(list []string, v string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

// VisibleColumnDefs returns the visible columns in primary order.
func VisibleColumnDefs(s GridState) []Column {
	cols := make([]Column, 0, len(s.VisibleColumns))
	for _, c := range s.Columns {
		if contains(s.VisibleColumns, c.Field) {
			cols = append(cols, c)
		}
	}
	return cols
}

// Lanes partitions visible columns by where they render.
type Lanes struct {
	Left   []Column `json:"left"`
	Center []Column `json:"center"`
	Right  []Column `json:"right"`
}

// LayoutLanes assigns each visible column to its pin lane. Within a lane,
// columns keep their primary order.
func LayoutLanes(s GridState) Lanes {
	lanes := Lanes{Left: []Column{}, Center: []Column{}, Right: []Column{}}
	for _, c := range VisibleColumnDefs(s) {
		switch s.PinnedColumns.Side(c.Field) {
		case PinLeft:
			lanes.Left = append(lanes.Left, c)
		case PinRight:
			lanes.Right = append(lanes.Right, c)
		default:
			lanes.Center = append(lanes.Center, c)
		}
	}
	return lanes
}
