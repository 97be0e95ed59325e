package grid

import (
	"sort"
	"strings"
)

// FilterRows returns the rows that pass every active filter in model and,
// when query is non-empty, contain query (case-insensitive) in at least one
// field's string form.
//
// Filters combine with AND, so their order does not matter. The input slice is
// never mutated; with no active filter and an empty query it is returned as is.
func FilterRows(rows []Row, model FilterModel, query string) []Row {
	filtered := rows

	for _, field := range activeFields(model) {
		f := model[field]
		filtered = keep(filtered, func(row Row) bool {
			return Matches(row[field], f.Operator, f.Value)
		})
	}

	if query != "" {
		needle := strings.ToLower(query)
		filtered = keep(filtered, func(row Row) bool {
			return rowContains(row, needle)
		})
	}

	return filtered
}

// activeFields returns the fields with an active filter, sorted so evaluation
// is deterministic.
func activeFields(model FilterModel) []string {
	fields := make([]string, 0, len(model))
	for field, f := range model {
		if f.Active() {
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)
	return fields
}

// keep returns a new slice with the rows pred accepts.
func keep(rows []Row, pred func(Row) bool) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if pred(row) {
			out = append(out, row)
		}
	}
	return out
}

func rowContains(row Row, needle string) bool {
	for _, v := range row {
		if strings.Contains(lower(v), needle) {
			return true
		}
	}
	return false
}

// HasActiveFilters reports whether any filter in model takes part in evaluation.
func HasActiveFilters(model FilterModel) bool {
	for _, f := range model {
		if f.Active() {
			return true
		}
	}
	return false
}
