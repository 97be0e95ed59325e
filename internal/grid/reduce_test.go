package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testColumns() []Column {
	return []Column{
		{Field: "id", HeaderName: "ID", Width: 70, Type: TypeNumber},
		{Field: "name", HeaderName: "Name", Width: 150},
		{Field: "department", HeaderName: "Department", Width: 130, Type: TypeSelect},
		{Field: "salary", HeaderName: "Salary", Width: 120, Type: TypeNumber},
		{Field: "notes", HeaderName: "Notes", Width: 200, Visible: Bool(false), Sortable: Bool(false)},
		{Field: "actions", HeaderName: "Actions", Width: 100, Type: TypeActions},
	}
}

func loaded(t *testing.T) GridState {
	t.Helper()
	s := NewState(DefaultPageSize)
	s = Reduce(s, SetColumns{Columns: testColumns()})
	return Reduce(s, SetData{Rows: people()})
}

func TestReduce_NilActionIsIdentity(t *testing.T) {
	s := loaded(t)
	assert.Equal(t, s, Reduce(s, nil))
}

func TestReduce_SetDataDerivesView(t *testing.T) {
	s := NewState(10)
	s = Reduce(s, SetFilter{Field: "department", Value: "Sales", Operator: OpEquals})
	s = Reduce(s, SetSort{Model: SortModel{{Field: "salary", Sort: Desc}}})
	s = Reduce(s, SetData{Rows: people()})

	assert.Equal(t, []string{"5", "1"}, ids(s.FilteredData))
	assert.Equal(t, 2, s.Pagination.Total)
	assert.Len(t, s.Data, 5)

	s = Reduce(s, SetData{Rows: nil})
	assert.NotNil(t, s.Data)
	assert.Empty(t, s.FilteredData)
	assert.Zero(t, s.Pagination.Total)
}

func TestReduce_SetDataKeepsSelection(t *testing.T) {
	s := loaded(t)
	s = Reduce(s, SelectRow{ID: "4"})
	s = Reduce(s, SetData{Rows: people()[:2]})
	assert.True(t, s.IsSelected("4"), "selection is not pruned on reload")
}

func TestReduce_LoadingAndError(t *testing.T) {
	s := Reduce(NewState(0), SetLoading{Loading: true})
	assert.True(t, s.Loading)

	s = Reduce(s, SetError{Message: LoadErrorMessage})
	assert.Equal(t, LoadErrorMessage, s.Error)
	assert.False(t, s.Loading, "setting an error ends loading")

	s = Reduce(s, SetError{})
	assert.Empty(t, s.Error)
}

func TestReduce_SetColumnsVisibility(t *testing.T) {
	s := loaded(t)
	assert.Equal(t, []string{"id", "name", "department", "salary", "actions"}, s.VisibleColumns)
}

func TestReduce_SetSortKeepsTotal(t *testing.T) {
	s := loaded(t)
	s = Reduce(s, SetSearch{Query: "engineering"})
	require.Equal(t, 2, s.Pagination.Total)

	s = Reduce(s, SetSort{Model: SortModel{{Field: "name", Sort: Asc}}})
	assert.Equal(t, []string{"3", "2"}, ids(s.FilteredData))
	assert.Equal(t, 2, s.Pagination.Total)
}

func TestReduce_ToggleSortColumn(t *testing.T) {
	s := loaded(t)

	s = Reduce(s, ToggleSortColumn{Field: "salary"})
	assert.Equal(t, SortModel{{Field: "salary", Sort: Asc}}, s.SortModel)
	s = Reduce(s, ToggleSortColumn{Field: "salary"})
	assert.Equal(t, SortModel{{Field: "salary", Sort: Desc}}, s.SortModel)
	s = Reduce(s, ToggleSortColumn{Field: "salary"})
	assert.Empty(t, s.SortModel)

	s = Reduce(s, ToggleSortColumn{Field: "notes"})
	assert.Empty(t, s.SortModel, "non-sortable column ignores toggles")
}

func TestReduce_FilterKeepsPage(t *testing.T) {
	s := loaded(t)
	s = Reduce(s, SetPagination{Page: intp(3)})
	s = Reduce(s, SetFilter{Field: "name", Value: "a", Operator: OpContains})

	assert.Equal(t, 3, s.Pagination.Page)
	assert.Equal(t, 3, s.Pagination.Total)

	s = Reduce(s, SetFilter{Field: "name", Value: "", Operator: OpContains})
	assert.Equal(t, 5, s.Pagination.Total)
	assert.Contains(t, s.FilterModel, "name", "cleared value stays in the model")

	s = Reduce(s, SetFilter{Field: "salary", Value: 80000, Operator: OpGreater})
	s = Reduce(s, ClearFilters{})
	assert.Empty(t, s.FilterModel)
	assert.Equal(t, 5, s.Pagination.Total)
}

func TestReduce_FilterDoesNotMutatePrevious(t *testing.T) {
	prev := loaded(t)
	next := Reduce(prev, SetFilter{Field: "name", Value: "bob", Operator: OpContains})

	assert.Empty(t, prev.FilterModel)
	assert.Len(t, prev.FilteredData, 5)
	assert.Len(t, next.FilteredData, 1)
}

func TestReduce_SearchResetsPage(t *testing.T) {
	s := loaded(t)
	s = Reduce(s, SetPagination{Page: intp(5)})
	require.Equal(t, 5, s.Pagination.Page)

	s = Reduce(s, SetSearch{Query: "x"})
	assert.Equal(t, 1, s.Pagination.Page)
	assert.Equal(t, "x", s.SearchQuery)
}

func TestReduce_SetPagination(t *testing.T) {
	s := loaded(t)

	s = Reduce(s, SetPagination{PageSize: intp(50)})
	assert.Equal(t, 50, s.Pagination.PageSize)
	assert.Equal(t, 1, s.Pagination.Page)

	s = Reduce(s, SetPagination{Page: intp(-3), PageSize: intp(0)})
	assert.Equal(t, 1, s.Pagination.Page)
	assert.Equal(t, 50, s.Pagination.PageSize)
	assert.Equal(t, 5, s.Pagination.Total, "total is always derived")
}

func TestReduce_Selection(t *testing.T) {
	s := loaded(t)

	s = Reduce(s, SelectRow{ID: "2"})
	assert.True(t, s.IsSelected("2"))
	s = Reduce(s, SelectRow{ID: "2"})
	assert.False(t, s.IsSelected("2"))

	s = Reduce(s, SelectRow{ID: "99"})
	s = Reduce(s, ClearSelection{})
	assert.Empty(t, s.SelectedRows)
}

func TestReduce_SelectAllRowsScopedToPage(t *testing.T) {
	s := NewState(3)
	s = Reduce(s, SetData{Rows: people()})
	s = Reduce(s, SelectRow{ID: "5"})

	s = Reduce(s, SelectAllRows{Select: true})
	for _, id := range []string{"1", "2", "3", "5"} {
		assert.True(t, s.IsSelected(id), "id %s", id)
	}
	assert.False(t, s.IsSelected("4"))

	s = Reduce(s, SelectAllRows{Select: false})
	assert.Equal(t, map[string]struct{}{"5": {}}, s.SelectedRows)
}

func TestReduce_Density(t *testing.T) {
	s := Reduce(NewState(0), SetDensity{Density: DensityCompact})
	assert.Equal(t, DensityCompact, s.Density)

	s = Reduce(s, SetDensity{Density: "huge"})
	assert.Equal(t, DensityCompact, s.Density)
}

func TestReduce_EditCell(t *testing.T) {
	s := loaded(t)

	s = Reduce(s, StartEditCell{RowID: "1", Field: "name"})
	require.NotNil(t, s.EditingCell)
	assert.Equal(t, CellRef{RowID: "1", Field: "name"}, *s.EditingCell)

	// only one cell edits at a time
	s = Reduce(s, StartEditCell{RowID: "2", Field: "salary"})
	assert.Equal(t, CellRef{RowID: "2", Field: "salary"}, *s.EditingCell)

	same := Reduce(s, StartEditCell{RowID: "2", Field: "actions"})
	assert.Equal(t, s.EditingCell, same.EditingCell)
	same = Reduce(s, StartEditCell{RowID: "2", Field: "nope"})
	assert.Equal(t, s.EditingCell, same.EditingCell)

	s = Reduce(s, EndEditCell{})
	assert.Nil(t, s.EditingCell)
}

func TestReduce_ApplyPreferences(t *testing.T) {
	prefs := Preferences{
		VisibleColumns: []string{"name", "salary", "ghost"},
		PinnedColumns:  PinnedColumns{Left: []string{"name"}, Right: []string{"salary", "name"}},
		Density:        DensityComfortable,
		PageSize:       50,
	}

	t.Run("layout", func(t *testing.T) {
		s := Reduce(loaded(t), ApplyPreferences{Preferences: prefs, Layout: true})
		assert.Equal(t, DensityComfortable, s.Density)
		assert.Equal(t, 50, s.Pagination.PageSize)
		assert.Equal(t, []string{"name", "salary"}, s.VisibleColumns)
		assert.Equal(t, []string{"name"}, s.PinnedColumns.Left)
		assert.Equal(t, []string{"salary"}, s.PinnedColumns.Right)
	})

	t.Run("density and page size only", func(t *testing.T) {
		before := loaded(t)
		s := Reduce(before, ApplyPreferences{Preferences: prefs})
		assert.Equal(t, DensityComfortable, s.Density)
		assert.Equal(t, 50, s.Pagination.PageSize)
		assert.Equal(t, before.VisibleColumns, s.VisibleColumns)
		assert.Empty(t, s.PinnedColumns.Left)
	})

	t.Run("invalid values ignored", func(t *testing.T) {
		s := Reduce(loaded(t), ApplyPreferences{Preferences: Preferences{Density: "x", PageSize: -1}, Layout: true})
		assert.Equal(t, DensityStandard, s.Density)
		assert.Equal(t, DefaultPageSize, s.Pagination.PageSize)
	})
}

func TestPreferencesOf(t *testing.T) {
	s := loaded(t)
	s = Reduce(s, PinColumn{Field: "id", Side: PinLeft})
	p := PreferencesOf(s)

	assert.Equal(t, s.VisibleColumns, p.VisibleColumns)
	assert.Equal(t, []string{"id"}, p.PinnedColumns.Left)
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.True(t, p.Equal(PreferencesOf(s)))

	moved := Reduce(s, SetDensity{Density: DensityCompact})
	assert.False(t, p.Equal(PreferencesOf(moved)))
}
