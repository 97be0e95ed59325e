package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/datagrid/internal/grid"
	"github.com/JonMunkholm/datagrid/internal/logging"
	"github.com/JonMunkholm/datagrid/internal/source"
)

type viewOptions struct {
	rows     int
	seed     uint64
	filters  []string
	search   string
	sorts    []string
	hide     []string
	page     int
	pageSize int
	format   string
}

func newViewCmd(logLevel *string) *cobra.Command {
	opts := viewOptions{}

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Load generated users and print a page",
		Example: `  gridctl view --filter department=Engineering --sort salary:desc --page-size 10
  gridctl view --filter salary=gt:100000 --search manager --format csv`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			actions, err := opts.actions()
			if err != nil {
				return err
			}

			logger := logging.New(cmd.ErrOrStderr(), *logLevel, "text")
			store := grid.NewStore(grid.NewState(opts.pageSize), grid.WithLogger(logger))
			loader := grid.Loader{
				Store:   store,
				Fetcher: source.NewMock(opts.rows, opts.seed),
				Columns: source.DefaultColumns(),
				Limit:   opts.rows,
			}
			if err := loader.Load(cmd.Context()); err != nil {
				return err
			}

			st := store.Dispatch(cmd.Context(), actions...)
			return render(cmd.OutOrStdout(), st, opts.format)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.rows, "rows", 1000, "number of users to generate")
	f.Uint64Var(&opts.seed, "seed", 42, "generator seed")
	f.StringArrayVar(&opts.filters, "filter", nil, "filter as field=value or field=operator:value (repeatable)")
	f.StringVar(&opts.search, "search", "", "global search text")
	f.StringArrayVar(&opts.sorts, "sort", nil, "sort key as field or field:asc|desc (repeatable)")
	f.StringSliceVar(&opts.hide, "hide", nil, "columns to hide")
	f.IntVar(&opts.page, "page", 1, "page to show")
	f.IntVar(&opts.pageSize, "page-size", grid.DefaultPageSize, "rows per page")
	f.StringVar(&opts.format, "format", "table", "output format: table, csv, tsv, json")

	return cmd
}

// actions turns the flags into the actions applied after the load.
func (o viewOptions) actions() ([]grid.Action, error) {
	if o.rows < 0 {
		return nil, fmt.Errorf("--rows must not be negative")
	}
	switch o.format {
	case "table", "csv", "tsv", "json":
	default:
		return nil, fmt.Errorf("unsupported export format %q", o.format)
	}

	var actions []grid.Action
	for _, field := range o.hide {
		actions = append(actions, grid.ToggleColumnVisibility{Field: strings.TrimSpace(field)})
	}
	for _, raw := range o.filters {
		a, err := parseFilter(raw)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}
	if o.search != "" {
		actions = append(actions, grid.SetSearch{Query: o.search})
	}
	if len(o.sorts) > 0 {
		model, err := parseSort(o.sorts)
		if err != nil {
			return nil, err
		}
		actions = append(actions, grid.SetSort{Model: model})
	}
	page := o.page
	actions = append(actions, grid.SetPagination{Page: &page})
	return actions, nil
}

// parseFilter reads "field=value" (contains) or "field=operator:value".
// Numeric text becomes a number so equals compares numerically.
func parseFilter(raw string) (grid.SetFilter, error) {
	field, rest, ok := strings.Cut(raw, "=")
	if !ok || field == "" {
		return grid.SetFilter{}, fmt.Errorf("invalid filter %q: want field=value or field=operator:value", raw)
	}

	op, value := grid.OpContains, rest
	if prefix, v, ok := strings.Cut(rest, ":"); ok && grid.Operator(prefix).Valid() {
		op, value = grid.Operator(prefix), v
	}

	var v any = value
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		v = json.Number(value)
	}
	return grid.SetFilter{Field: field, Value: v, Operator: op}, nil
}

func parseSort(keys []string) (grid.SortModel, error) {
	model := make(grid.SortModel, 0, len(keys))
	for _, key := range keys {
		field, dir, _ := strings.Cut(key, ":")
		d := grid.Asc
		switch strings.ToLower(dir) {
		case "", "asc":
		case "desc":
			d = grid.Desc
		default:
			return nil, fmt.Errorf("invalid sort direction %q", dir)
		}
		model = append(model, grid.SortItem{Field: field, Sort: d})
	}
	return model, nil
}
