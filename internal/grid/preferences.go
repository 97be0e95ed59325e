package grid

import "slices"

// Preferences are the per-user layout settings that outlive a session.
type Preferences struct {
	VisibleColumns []string      `json:"visibleColumns"`
	PinnedColumns  PinnedColumns `json:"pinnedColumns"`
	Density        Density       `json:"density"`
	PageSize       int           `json:"pageSize"`
}

// PreferencesOf extracts the persisted settings from a snapshot.
func PreferencesOf(s GridState) Preferences {
	return Preferences{
		VisibleColumns: s.VisibleColumns,
		PinnedColumns:  s.PinnedColumns,
		Density:        s.Density,
		PageSize:       s.Pagination.PageSize,
	}
}

// Equal reports whether two preference sets hold the same values.
func (p Preferences) Equal(o Preferences) bool {
	return p.Density == o.Density &&
		p.PageSize == o.PageSize &&
		slices.Equal(p.VisibleColumns, o.VisibleColumns) &&
		slices.Equal(p.PinnedColumns.Left, o.PinnedColumns.Left) &&
		slices.Equal(p.PinnedColumns.Right, o.PinnedColumns.Right)
}
