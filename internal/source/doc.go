// Package source provides the data providers a grid loads rows from.
//
// Each provider implements grid.Fetcher. Mock serves a deterministic set of
// generated users held in memory; Postgres pages through a table with a
// parameterized WHERE, ORDER BY and LIMIT/OFFSET query.
//
// Both honor the full FetchOptions contract (search, substring filters,
// single-key sort, page slicing) even though the grid engine only asks for
// page 1 with a large page size and does the rest locally.
package source
