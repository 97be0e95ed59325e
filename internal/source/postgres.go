package source

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/datagrid/internal/grid"
)

// Querier is the subset of *pgxpool.Pool the Postgres source needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Field maps one row field to a table column.
type Field struct {
	Name     string // key in grid.Row
	DBColumn string // defaults to the snake_case form of Name
	Text     bool   // included in search
}

func (f Field) column() string {
	if f.DBColumn != "" {
		return f.DBColumn
	}
	return toDBColumnName(f.Name)
}

// DefaultFields are the user table columns matching DefaultColumns.
func DefaultFields() []Field {
	return []Field{
		{Name: "id"},
		{Name: "name", Text: true},
		{Name: "email", Text: true},
		{Name: "role", Text: true},
		{Name: "department", Text: true},
		{Name: "salary"},
		{Name: "joinDate"},
		{Name: "status", Text: true},
		{Name: "avatar"},
	}
}

// Postgres pages rows out of a single table.
type Postgres struct {
	db     Querier
	table  string
	fields []Field
}

// NewPostgres returns a source over table. fields lists the selected columns
// in order; the first one is the default sort key.
func NewPostgres(db Querier, table string, fields []Field) (*Postgres, error) {
	if table == "" {
		return nil, fmt.Errorf("source table is required")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("table %s: at least one field is required", table)
	}
	return &Postgres{db: db, table: table, fields: fields}, nil
}

// Fetch runs a count and a page query with the same WHERE clause.
func (p *Postgres) Fetch(ctx context.Context, opts grid.FetchOptions) (*grid.FetchResult, error) {
	page := opts.Page
	if page <= 0 {
		page = 1
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	countSQL, selectSQL, args := p.buildQueries(opts, page, pageSize)

	var total int64
	if err := p.db.QueryRow(ctx, countSQL, args[:len(args)-2]...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count rows: %w", err)
	}

	rows, err := p.db.Query(ctx, selectSQL, args...)
	if err != nil {
		return nil, fmt.Errorf("query rows: %w", err)
	}
	defer rows.Close()

	data := make([]grid.Row, 0, pageSize)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row values: %w", err)
		}
		row := make(grid.Row, len(p.fields))
		for i, f := range p.fields {
			if i < len(values) {
				row[f.Name] = normalize(values[i])
			}
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return &grid.FetchResult{
		Data:       data,
		Total:      int(total),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: grid.TotalPages(int(total), pageSize),
	}, nil
}

// buildQueries returns the count and page queries. args holds the WHERE
// arguments followed by LIMIT and OFFSET; the count query uses all but the
// last two.
func (p *Postgres) buildQueries(opts grid.FetchOptions, page, pageSize int) (string, string, []any) {
	wb := newWhereBuilder()
	wb.addSearch(opts.Search, p.fields)
	wb.addFilters(opts.Filters, p.fields)
	where, args := wb.build()

	table := quoteIdentifier(p.table)
	countSQL := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", table, where)

	cols := make([]string, len(p.fields))
	for i, f := range p.fields {
		cols[i] = quoteIdentifier(f.column())
	}

	order := fmt.Sprintf("%s ASC", cols[0])
	if f, ok := p.field(opts.SortBy); ok {
		dir := "ASC"
		if opts.SortOrder == grid.Desc {
			dir = "DESC"
		}
		order = fmt.Sprintf("%s %s", quoteIdentifier(f.column()), dir)
	}

	idx := wb.nextArgIndex()
	selectSQL := fmt.Sprintf(
		"SELECT %s FROM %s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		strings.Join(cols, ", "),
		table,
		where,
		order,
		idx,
		idx+1,
	)
	args = append(args, pageSize, (page-1)*pageSize)
	return countSQL, selectSQL, args
}

func (p *Postgres) field(name string) (Field, bool) {
	if name == "" {
		return Field{}, false
	}
	for _, f := range p.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// whereBuilder accumulates AND-ed conditions with positional arguments.
type whereBuilder struct {
	conditions []string
	args       []any
	argIdx     int
}

func newWhereBuilder() *whereBuilder {
	return &whereBuilder{argIdx: 1}
}

// addSearch matches query against every text field with one shared argument.
func (wb *whereBuilder) addSearch(query string, fields []Field) {
	if query == "" {
		return
	}
	var ors []string
	for _, f := range fields {
		if f.Text {
			ors = append(ors, fmt.Sprintf("%s ILIKE $%d", quoteIdentifier(f.column()), wb.argIdx))
		}
	}
	if len(ors) == 0 {
		return
	}
	wb.conditions = append(wb.conditions, "("+strings.Join(ors, " OR ")+")")
	wb.args = append(wb.args, "%"+escapeLike(query)+"%")
	wb.argIdx++
}

// addFilters adds one condition per active filter on a known field. A plain
// value filters by substring; a grid.FilterItem uses its operator.
func (wb *whereBuilder) addFilters(filters map[string]any, fields []Field) {
	for _, f := range fields {
		raw, ok := filters[f.Name]
		if !ok {
			continue
		}
		item, isItem := raw.(grid.FilterItem)
		if !isItem {
			item = grid.FilterItem{Value: raw, Operator: grid.OpContains}
		}
		if !truthy(item.Value) {
			continue
		}
		sql, args, next := buildSingleFilter(f.column(), item, wb.argIdx)
		if sql == "" {
			continue
		}
		wb.conditions = append(wb.conditions, sql)
		wb.args = append(wb.args, args...)
		wb.argIdx = next
	}
}

func (wb *whereBuilder) build() (string, []any) {
	if len(wb.conditions) == 0 {
		return "", wb.args
	}
	return " WHERE " + strings.Join(wb.conditions, " AND "), wb.args
}

func (wb *whereBuilder) nextArgIndex() int { return wb.argIdx }

// buildSingleFilter generates SQL for a single filter. String operators compare
// the column's text form case-insensitively; numeric operators cast the
// argument so text values such as "50000" still compare as numbers.
func buildSingleFilter(column string, f grid.FilterItem, argIdx int) (string, []any, int) {
	col := quoteIdentifier(column)
	text := escapeLike(grid.Stringify(f.Value))

	switch f.Operator {
	case grid.OpContains:
		return fmt.Sprintf("%s::text ILIKE $%d", col, argIdx), []any{"%" + text + "%"}, argIdx + 1
	case grid.OpStartsWith:
		return fmt.Sprintf("%s::text ILIKE $%d", col, argIdx), []any{text + "%"}, argIdx + 1
	case grid.OpEndsWith:
		return fmt.Sprintf("%s::text ILIKE $%d", col, argIdx), []any{"%" + text}, argIdx + 1
	case grid.OpEquals:
		return fmt.Sprintf("%s::text = $%d", col, argIdx), []any{grid.Stringify(f.Value)}, argIdx + 1
	case grid.OpGreater, grid.OpLess, grid.OpGreaterEq, grid.OpLessEq:
		n := grid.ToNumber(f.Value)
		if math.IsNaN(n) {
			return "", nil, argIdx
		}
		return fmt.Sprintf("%s %s $%d::numeric", col, sqlComparison[f.Operator], argIdx), []any{n}, argIdx + 1
	default:
		return "", nil, argIdx
	}
}

var sqlComparison = map[grid.Operator]string{
	grid.OpGreater:   ">",
	grid.OpLess:      "<",
	grid.OpGreaterEq: ">=",
	grid.OpLessEq:    "<=",
}

// quoteIdentifier quotes a SQL identifier to prevent injection.
func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// toDBColumnName converts a row field name to a column name.
// "joinDate" -> "join_date", "Join Date" -> "join_date".
func toDBColumnName(name string) string {
	var b strings.Builder
	var prev rune
	for _, r := range name {
		switch {
		case r == ' ':
			b.WriteByte('_')
		case unicode.IsUpper(r):
			if unicode.IsLower(prev) || unicode.IsDigit(prev) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prev = r
	}
	return b.String()
}

// normalize turns driver values into the scalars the grid compares.
func normalize(v any) any {
	switch t := v.(type) {
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format(time.DateOnly)
		}
		return t.Format(time.RFC3339)
	case [16]byte:
		return uuid.UUID(t).String()
	case []byte:
		return string(t)
	case pgtype.Numeric:
		f, err := t.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	default:
		return v
	}
}
