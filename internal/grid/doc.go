// Package grid provides the tabular data engine behind the data grid.
//
// The package has no transport, storage, or rendering dependencies. It takes a
// row set plus sort, filter, and search parameters and derives the view the
// consumer renders, and it owns the bookkeeping for selection, column layout,
// and cell-edit sessions that must stay consistent as those inputs change.
//
// # Layers
//
// The package is organized leaves first:
//
//   - Values: [Compare], [Matches], [ToNumber], and [Stringify] implement
//     per-field comparison and per-operator predicate evaluation.
//   - Sorting: [SortRows] applies a multi-key [SortModel] with a stable sort.
//   - Filtering: [FilterRows] applies a [FilterModel] (AND semantics) and then
//     a case-insensitive global search term.
//   - View: [DeriveView] composes filter then sort; [Paginate] slices a page.
//   - State: [Reduce] is the closed set of state transitions over [GridState];
//     [Store] owns the current snapshot and serializes dispatch.
//   - Layout: [LayoutLanes] partitions visible columns into pin lanes.
//
// # State Transitions
//
// Every [Action] produces a new complete [GridState]. Derived fields
// (FilteredData, Pagination.Total) are recomputed in the same transition as
// the fields they depend on, so no snapshot is ever stale:
//
//	store := grid.NewStore(grid.NewState(25))
//	store.Dispatch(ctx,
//	    grid.SetColumns{Columns: cols},
//	    grid.SetData{Rows: rows},
//	    grid.SetFilter{Field: "department", Value: "Engineering", Operator: grid.OpEquals},
//	    grid.SetSort{Model: grid.SortModel{{Field: "salary", Sort: grid.Desc}}},
//	)
//	page := grid.CurrentPage(store.State())
//
// Transitions never fail. Unknown fields and out-of-range indices are no-ops.
//
// # Loading
//
// [Loader] pulls the full row set from a [Fetcher] and commits it through
// [Store.Commit] guarded by a load generation, so a response that arrives
// after a newer load was started is dropped instead of overwriting newer state.
package grid
