package source

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/JonMunkholm/datagrid/internal/grid"
)

// Value sets the generator draws from.
var (
	Roles       = []string{"Developer", "Designer", "Manager", "Analyst", "Intern"}
	Departments = []string{"Engineering", "Design", "Marketing", "Sales", "HR"}
	Statuses    = []string{"active", "inactive"}
)

const (
	minSalary       = 40000
	salarySpan      = 100000
	firstYear       = 2020
	yearSpan        = 4
	avatarURL       = "https://api.dicebear.com/7.x/avataaars/svg?seed=%d"
	defaultPageSize = 25
)

// GenerateUsers returns n user rows. The same seed always yields the same rows.
func GenerateUsers(n int, seed uint64) []grid.Row {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	users := make([]grid.Row, n)
	for i := range users {
		id := i + 1
		role := Roles[rng.IntN(len(Roles))]
		dept := Departments[rng.IntN(len(Departments))]
		salary := rng.IntN(salarySpan) + minSalary
		joined := time.Date(firstYear+rng.IntN(yearSpan), time.Month(rng.IntN(12)+1), rng.IntN(28)+1, 0, 0, 0, 0, time.UTC)
		status := Statuses[rng.IntN(len(Statuses))]

		users[i] = grid.Row{
			"id":         id,
			"name":       fmt.Sprintf("User %d", id),
			"email":      fmt.Sprintf("user%d@company.com", id),
			"role":       role,
			"department": dept,
			"salary":     salary,
			"joinDate":   joined.Format(time.DateOnly),
			"status":     status,
			"avatar":     fmt.Sprintf(avatarURL, id),
		}
	}
	return users
}

// Mock serves a fixed set of rows from memory.
type Mock struct {
	rows []grid.Row

	// Latency, when set, delays every fetch to mimic a network round trip.
	Latency time.Duration
}

// NewMock returns a Mock over n generated users.
func NewMock(n int, seed uint64) *Mock {
	return &Mock{rows: GenerateUsers(n, seed)}
}

// NewMockRows returns a Mock over the given rows.
func NewMockRows(rows []grid.Row) *Mock {
	return &Mock{rows: rows}
}

// Len returns how many rows the mock holds.
func (m *Mock) Len() int { return len(m.rows) }

// Fetch applies search, filters, sort and paging to the held rows.
//
// Search and filters are case-insensitive substring matches on the string form
// of a value. A filter whose value is empty, zero or false is skipped.
func (m *Mock) Fetch(ctx context.Context, opts grid.FetchOptions) (*grid.FetchResult, error) {
	if m.Latency > 0 {
		t := time.NewTimer(m.Latency)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page := opts.Page
	if page <= 0 {
		page = 1
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	rows := m.rows
	if opts.Search != "" {
		needle := strings.ToLower(opts.Search)
		rows = filter(rows, func(row grid.Row) bool {
			for _, v := range row {
				if strings.Contains(strings.ToLower(grid.Stringify(v)), needle) {
					return true
				}
			}
			return false
		})
	}

	fields := make([]string, 0, len(opts.Filters))
	for field := range opts.Filters {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	for _, field := range fields {
		value := opts.Filters[field]
		if f, ok := value.(grid.FilterItem); ok {
			value = f.Value
		}
		if !truthy(value) {
			continue
		}
		needle := strings.ToLower(grid.Stringify(value))
		rows = filter(rows, func(row grid.Row) bool {
			return strings.Contains(strings.ToLower(grid.Stringify(row[field])), needle)
		})
	}

	if opts.SortBy != "" {
		rows = grid.SortRows(rows, grid.SortModel{{Field: opts.SortBy, Sort: direction(opts.SortOrder)}})
	}

	total := len(rows)
	return &grid.FetchResult{
		Data:       slices.Clone(grid.Paginate(rows, page, pageSize)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: grid.TotalPages(total, pageSize),
	}, nil
}

func filter(rows []grid.Row, keep func(grid.Row) bool) []grid.Row {
	out := make([]grid.Row, 0, len(rows))
	for _, row := range rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

// truthy reports whether a filter value should narrow the result.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	}
	n := grid.ToNumber(v)
	return n != 0 && !math.IsNaN(n)
}

func direction(d grid.Direction) grid.Direction {
	if d == grid.Desc {
		return grid.Desc
	}
	return grid.Asc
}
