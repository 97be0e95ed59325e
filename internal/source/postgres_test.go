package source

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/datagrid/internal/grid"
)

func TestBuildQueries(t *testing.T) {
	p, err := NewPostgres(nil, "users", []Field{
		{Name: "id"},
		{Name: "name", Text: true},
		{Name: "department", Text: true},
		{Name: "salary"},
		{Name: "joinDate"},
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		opts       grid.FetchOptions
		page, size int
		wantCount  string
		wantSelect string
		wantArgs   []any
	}{
		{
			name:       "no conditions",
			page:       1,
			size:       25,
			wantCount:  `SELECT COUNT(*) FROM "users"`,
			wantSelect: `SELECT "id", "name", "department", "salary", "join_date" FROM "users" ORDER BY "id" ASC LIMIT $1 OFFSET $2`,
			wantArgs:   []any{25, 0},
		},
		{
			name:       "search and sort",
			opts:       grid.FetchOptions{Search: "50%", SortBy: "joinDate", SortOrder: grid.Desc},
			page:       3,
			size:       10,
			wantCount:  `SELECT COUNT(*) FROM "users" WHERE ("name" ILIKE $1 OR "department" ILIKE $1)`,
			wantSelect: `SELECT "id", "name", "department", "salary", "join_date" FROM "users" WHERE ("name" ILIKE $1 OR "department" ILIKE $1) ORDER BY "join_date" DESC LIMIT $2 OFFSET $3`,
			wantArgs:   []any{`%50\%%`, 10, 20},
		},
		{
			name: "filters in field order, unknown and empty skipped",
			opts: grid.FetchOptions{
				SortBy: "nope",
				Filters: map[string]any{
					"salary":     grid.FilterItem{Value: "50000", Operator: grid.OpGreaterEq},
					"department": "eng",
					"name":       "",
					"ghost":      "x",
				},
			},
			page:       1,
			size:       5,
			wantCount:  `SELECT COUNT(*) FROM "users" WHERE "department"::text ILIKE $1 AND "salary" >= $2::numeric`,
			wantSelect: `SELECT "id", "name", "department", "salary", "join_date" FROM "users" WHERE "department"::text ILIKE $1 AND "salary" >= $2::numeric ORDER BY "id" ASC LIMIT $3 OFFSET $4`,
			wantArgs:   []any{"%eng%", 50000.0, 5, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, sel, args := p.buildQueries(tt.opts, tt.page, tt.size)
			if count != tt.wantCount {
				t.Errorf("count query:\n got %s\nwant %s", count, tt.wantCount)
			}
			if sel != tt.wantSelect {
				t.Errorf("select query:\n got %s\nwant %s", sel, tt.wantSelect)
			}
			if !slices.Equal(args, tt.wantArgs) {
				t.Errorf("args = %#v, want %#v", args, tt.wantArgs)
			}
		})
	}
}

func TestBuildSingleFilter(t *testing.T) {
	tests := []struct {
		name        string
		item        grid.FilterItem
		argIdx      int
		wantSQL     string
		wantArgs    []any
		wantNextIdx int
	}{
		{"contains", grid.FilterItem{Value: "john", Operator: grid.OpContains}, 1, `"col"::text ILIKE $1`, []any{"%john%"}, 2},
		{"starts with", grid.FilterItem{Value: "ad_", Operator: grid.OpStartsWith}, 3, `"col"::text ILIKE $3`, []any{`ad\_%`}, 4},
		{"ends with", grid.FilterItem{Value: ".com", Operator: grid.OpEndsWith}, 1, `"col"::text ILIKE $1`, []any{"%.com"}, 2},
		{"equals", grid.FilterItem{Value: 42, Operator: grid.OpEquals}, 2, `"col"::text = $2`, []any{"42"}, 3},
		{"greater", grid.FilterItem{Value: "100", Operator: grid.OpGreater}, 1, `"col" > $1::numeric`, []any{100.0}, 2},
		{"less", grid.FilterItem{Value: 7, Operator: grid.OpLess}, 1, `"col" < $1::numeric`, []any{7.0}, 2},
		{"non-numeric comparison skipped", grid.FilterItem{Value: "abc", Operator: grid.OpLessEq}, 1, "", nil, 1},
		{"unknown operator skipped", grid.FilterItem{Value: "x", Operator: "regex"}, 4, "", nil, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, next := buildSingleFilter("col", tt.item, tt.argIdx)
			if sql != tt.wantSQL {
				t.Errorf("sql = %q, want %q", sql, tt.wantSQL)
			}
			if !slices.Equal(args, tt.wantArgs) {
				t.Errorf("args = %#v, want %#v", args, tt.wantArgs)
			}
			if next != tt.wantNextIdx {
				t.Errorf("next = %d, want %d", next, tt.wantNextIdx)
			}
		})
	}
}

func TestToDBColumnName(t *testing.T) {
	tests := map[string]string{
		"id":          "id",
		"joinDate":    "join_date",
		"Join Date":   "join_date",
		"ID":          "id",
		"address2Zip": "address2_zip",
		"user_name":   "user_name",
	}
	for in, want := range tests {
		if got := toDBColumnName(in); got != want {
			t.Errorf("toDBColumnName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestQuoteIdentifier(t *testing.T) {
	if got := quoteIdentifier(`we"ird`); got != `"we""ird"` {
		t.Errorf("quoteIdentifier = %s", got)
	}
}

func TestNormalize(t *testing.T) {
	day := time.Date(2022, 3, 4, 0, 0, 0, 0, time.UTC)
	if got := normalize(day); got != "2022-03-04" {
		t.Errorf("date = %v", got)
	}
	stamp := time.Date(2022, 3, 4, 5, 6, 7, 0, time.UTC)
	if got := normalize(stamp); got != "2022-03-04T05:06:07Z" {
		t.Errorf("timestamp = %v", got)
	}
	id := [16]byte{0x12, 0x34}
	if got := normalize(id); got != "12340000-0000-0000-0000-000000000000" {
		t.Errorf("uuid = %v", got)
	}
	if got := normalize([]byte("raw")); got != "raw" {
		t.Errorf("bytes = %v", got)
	}
	if got := normalize(int32(5)); got != int32(5) {
		t.Errorf("int32 = %v", got)
	}
}

// fakeDB serves canned results to Postgres.Fetch.
type fakeDB struct {
	total    int64
	rows     [][]any
	countErr error
	queries  []string
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	f.queries = append(f.queries, sql)
	return fakeRow{total: f.total, err: f.countErr}
}

func (f *fakeDB) Query(_ context.Context, sql string, _ ...any) (pgx.Rows, error) {
	f.queries = append(f.queries, sql)
	return &fakeRows{rows: f.rows, idx: -1}, nil
}

type fakeRow struct {
	total int64
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int64) = r.total
	return nil
}

type fakeRows struct {
	rows [][]any
	idx  int
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Next() bool                                   { r.idx++; return r.idx < len(r.rows) }
func (r *fakeRows) Scan(...any) error                            { return errors.New("not supported") }
func (r *fakeRows) Values() ([]any, error)                       { return r.rows[r.idx], nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func TestPostgres_Fetch(t *testing.T) {
	db := &fakeDB{
		total: 12,
		rows: [][]any{
			{int32(11), "Kim", time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC)},
			{int32(12), "Lee", time.Date(2022, 5, 6, 0, 0, 0, 0, time.UTC)},
		},
	}
	p, err := NewPostgres(db, "users", []Field{{Name: "id"}, {Name: "name", Text: true}, {Name: "joinDate"}})
	if err != nil {
		t.Fatal(err)
	}

	res, err := p.Fetch(context.Background(), grid.FetchOptions{Page: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if res.Total != 12 || res.TotalPages != 2 || res.Page != 2 || res.PageSize != 10 {
		t.Errorf("unexpected paging: %+v", res)
	}
	if len(res.Data) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(res.Data))
	}
	if res.Data[1]["name"] != "Lee" || res.Data[1]["joinDate"] != "2022-05-06" || grid.RowID(res.Data[1]) != "12" {
		t.Errorf("unexpected row: %v", res.Data[1])
	}
	if len(db.queries) != 2 {
		t.Errorf("expected count + select, got %d queries", len(db.queries))
	}
}

func TestPostgres_FetchCountError(t *testing.T) {
	db := &fakeDB{countErr: errors.New("relation does not exist")}
	p, _ := NewPostgres(db, "users", DefaultFields())

	_, err := p.Fetch(context.Background(), grid.FetchOptions{})
	if err == nil || !errors.Is(err, db.countErr) {
		t.Fatalf("expected wrapped count error, got %v", err)
	}
}

func TestNewPostgres_Validates(t *testing.T) {
	if _, err := NewPostgres(nil, "", DefaultFields()); err == nil {
		t.Error("expected error for empty table")
	}
	if _, err := NewPostgres(nil, "users", nil); err == nil {
		t.Error("expected error for no fields")
	}
}
