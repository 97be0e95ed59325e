package grid

import (
	"context"
	"errors"
	"fmt"
)

// FetchOptions are the parameters of one page fetch from a data provider.
type FetchOptions struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder Direction
	Search    string
	Filters   map[string]any
}

// FetchResult is one page returned by a data provider.
type FetchResult struct {
	Data       []Row `json:"data"`
	Total      int   `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

//go:generate mockgen -destination=gridmock/fetcher.go -package=gridmock github.com/JonMunkholm/datagrid/internal/grid Fetcher

// Fetcher is the external data provider the grid loads rows from.
type Fetcher interface {
	Fetch(ctx context.Context, opts FetchOptions) (*FetchResult, error)
}

// ErrStaleLoad is returned by Loader.Load when a newer load started before
// this one finished. The stale result is discarded.
var ErrStaleLoad = errors.New("load superseded by a newer load")

// LoadErrorMessage is the user-visible error set when a load fails.
const LoadErrorMessage = "Failed to load data"

// DefaultLoadLimit is how many rows a load pulls when Limit is unset.
const DefaultLoadLimit = 1000

// Loader pulls the full row set into a Store.
//
// The engine paginates locally: Limit is passed to the fetcher as the page
// size of a single request and acts as a cap on loaded rows.
type Loader struct {
	Store   *Store
	Fetcher Fetcher
	// Columns, when non-nil, are set at the start of the load.
	Columns []Column
	Limit   int
}

// Load runs one load. On success the rows are committed; on failure the
// store's error is set and the fetch error is returned. Either outcome is
// dropped with ErrStaleLoad if another load began in the meantime.
func (l *Loader) Load(ctx context.Context) error {
	start := []Action{SetError{}, SetLoading{Loading: true}}
	if l.Columns != nil {
		start = append(start, SetColumns{Columns: l.Columns})
	}
	gen := l.Store.BeginLoad(ctx, start...)

	limit := l.Limit
	if limit <= 0 {
		limit = DefaultLoadLimit
	}

	res, err := l.Fetcher.Fetch(ctx, FetchOptions{Page: 1, PageSize: limit})
	if err == nil && res == nil {
		err = errors.New("fetcher returned no result")
	}
	if err != nil {
		if _, ok := l.Store.Commit(ctx, gen, SetError{Message: LoadErrorMessage}); !ok {
			return ErrStaleLoad
		}
		return fmt.Errorf("fetch rows: %w", err)
	}

	if _, ok := l.Store.Commit(ctx, gen, SetData{Rows: res.Data}, SetLoading{Loading: false}); !ok {
		return ErrStaleLoad
	}
	return nil
}
