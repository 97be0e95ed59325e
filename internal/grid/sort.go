package grid

import "slices"

// SortRows returns rows ordered by model.
//
// An empty model returns rows itself. Otherwise the result is a new slice
// sorted stably: the first key decides, later keys break ties in order, and
// rows equal on every key keep their input order. The input is never mutated.
func SortRows(rows []Row, model SortModel) []Row {
	if len(model) == 0 {
		return rows
	}

	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b Row) int {
		for _, key := range model {
			c := Compare(a[key.Field], b[key.Field])
			if c == 0 {
				continue
			}
			if key.Sort == Desc {
				return -c
			}
			return c
		}
		return 0
	})
	return sorted
}

// ToggleSort returns the model a header click on field produces: no sort
// becomes ascending, ascending becomes descending, descending clears. The
// result holds at most one key and replaces any prior sort entirely.
func ToggleSort(model SortModel, field string) SortModel {
	for _, key := range model {
		if key.Field != field {
			continue
		}
		if key.Sort == Asc {
			return SortModel{{Field: field, Sort: Desc}}
		}
		return SortModel{}
	}
	return SortModel{{Field: field, Sort: Asc}}
}

// SortDirection returns the direction field is sorted in, if any.
func SortDirection(model SortModel, field string) (Direction, bool) {
	for _, key := range model {
		if key.Field == field {
			return key.Sort, true
		}
	}
	return "", false
}
