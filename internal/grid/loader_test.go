package grid_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/JonMunkholm/datagrid/internal/grid"
	"github.com/JonMunkholm/datagrid/internal/grid/gridmock"
)

var loaderColumns = []grid.Column{
	{Field: "id", HeaderName: "ID", Width: 70},
	{Field: "name", HeaderName: "Name", Width: 150},
}

func TestLoader_Load(t *testing.T) {
	rows := []grid.Row{{"id": 1, "name": "Ann"}, {"id": 2, "name": "Ben"}}

	testCases := []struct {
		name      string
		result    *grid.FetchResult
		fetchErr  error
		wantErr   bool
		wantRows  int
		wantError string
	}{
		{
			name:     "success",
			result:   &grid.FetchResult{Data: rows, Total: 2, Page: 1, PageSize: 500, TotalPages: 1},
			wantRows: 2,
		},
		{
			name:      "fetch error",
			fetchErr:  errors.New("connection refused"),
			wantErr:   true,
			wantError: grid.LoadErrorMessage,
		},
		{
			name:      "nil result",
			wantErr:   true,
			wantError: grid.LoadErrorMessage,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			fetcher := gridmock.NewMockFetcher(ctrl)
			fetcher.EXPECT().
				Fetch(gomock.Any(), grid.FetchOptions{Page: 1, PageSize: 500}).
				Return(tc.result, tc.fetchErr).
				Times(1)

			store := grid.NewStore(grid.NewState(0))
			loader := &grid.Loader{Store: store, Fetcher: fetcher, Columns: loaderColumns, Limit: 500}

			err := loader.Load(context.Background())
			s := store.State()

			if tc.wantErr {
				require.Error(t, err)
				assert.NotErrorIs(t, err, grid.ErrStaleLoad)
			} else {
				require.NoError(t, err)
			}
			assert.False(t, s.Loading)
			assert.Equal(t, tc.wantError, s.Error)
			assert.Len(t, s.Data, tc.wantRows)
			assert.Equal(t, tc.wantRows, s.Pagination.Total)
			assert.Equal(t, []string{"id", "name"}, s.VisibleColumns)
		})
	}
}

func TestLoader_DefaultLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := gridmock.NewMockFetcher(ctrl)
	fetcher.EXPECT().
		Fetch(gomock.Any(), grid.FetchOptions{Page: 1, PageSize: grid.DefaultLoadLimit}).
		Return(&grid.FetchResult{}, nil)

	loader := &grid.Loader{Store: grid.NewStore(grid.NewState(0)), Fetcher: fetcher}
	require.NoError(t, loader.Load(context.Background()))
}

func TestLoader_ReloadKeepsLayout(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	fetcher := gridmock.NewMockFetcher(ctrl)
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(&grid.FetchResult{}, nil).Times(2)

	store := grid.NewStore(grid.NewState(0))
	require.NoError(t, (&grid.Loader{Store: store, Fetcher: fetcher, Columns: loaderColumns}).Load(ctx))
	store.Dispatch(ctx, grid.ToggleColumnVisibility{Field: "name"})

	require.NoError(t, (&grid.Loader{Store: store, Fetcher: fetcher}).Load(ctx))
	assert.Equal(t, []string{"id"}, store.State().VisibleColumns)
}

func TestLoader_StaleResponseDropped(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	fetcher := gridmock.NewMockFetcher(ctrl)
	store := grid.NewStore(grid.NewState(0))

	newer := []grid.Row{{"id": "new"}}
	older := []grid.Row{{"id": "old-1"}, {"id": "old-2"}}

	inner := &grid.Loader{Store: store, Fetcher: fetcher}
	gomock.InOrder(
		// the first fetch starts a second load before it responds
		fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, _ grid.FetchOptions) (*grid.FetchResult, error) {
				require.NoError(t, inner.Load(ctx))
				return &grid.FetchResult{Data: older}, nil
			}),
		fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).
			Return(&grid.FetchResult{Data: newer}, nil),
	)

	err := (&grid.Loader{Store: store, Fetcher: fetcher}).Load(ctx)
	assert.ErrorIs(t, err, grid.ErrStaleLoad)

	s := store.State()
	require.Len(t, s.Data, 1)
	assert.Equal(t, "new", grid.RowID(s.Data[0]))
	assert.False(t, s.Loading)
}
