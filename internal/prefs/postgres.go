package prefs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/datagrid/internal/grid"
)

// DB is the subset of *pgxpool.Pool the Postgres backend needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres stores preferences as JSONB rows keyed by preference key.
type Postgres struct {
	db    DB
	table string
}

// NewPostgres returns a backend over table. Call EnsureSchema once before use
// if the table may not exist.
func NewPostgres(db DB, table string) *Postgres {
	return &Postgres{db: db, table: table}
}

// EnsureSchema creates the preferences table if needed.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	sql := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`, quoteIdentifier(p.table))

	if _, err := p.db.Exec(ctx, sql); err != nil {
		return fmt.Errorf("create %s: %w", p.table, err)
	}
	return nil
}

func (p *Postgres) Load(ctx context.Context, key string) (grid.Preferences, bool, error) {
	sql := fmt.Sprintf("SELECT value FROM %s WHERE key = $1", quoteIdentifier(p.table))

	var raw []byte
	err := p.db.QueryRow(ctx, sql, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return grid.Preferences{}, false, nil
	}
	if err != nil {
		return grid.Preferences{}, false, fmt.Errorf("load preferences %q: %w", key, err)
	}

	prefs, err := decode(raw)
	if err != nil {
		return grid.Preferences{}, false, err
	}
	return prefs, true, nil
}

func (p *Postgres) Save(ctx context.Context, key string, prefs grid.Preferences) error {
	raw, err := encode(prefs)
	if err != nil {
		return err
	}

	sql := fmt.Sprintf(`INSERT INTO %s (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		quoteIdentifier(p.table))

	if _, err := p.db.Exec(ctx, sql, key, raw); err != nil {
		return fmt.Errorf("save preferences %q: %w", key, err)
	}
	return nil
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
