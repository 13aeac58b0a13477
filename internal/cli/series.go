package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/epsql/internal/engine"
	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/queryir"
	"github.com/roach88/epsql/internal/sqlfile"
)

// Point is one sample of a series.
type Point struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// SeriesView is a rebuilt time series with the catalog row it came from.
type SeriesView struct {
	Environment string  `json:"environment"`
	Frequency   string  `json:"frequency"`
	Name        string  `json:"name"`
	KeyValue    string  `json:"key_value,omitempty"`
	Units       string  `json:"units"`
	Interval    string  `json:"interval,omitempty"`
	Points      []Point `json:"points"`
}

func newSeriesView(rq engine.ResolvedQuery, key string, ts ir.TimeSeries) SeriesView {
	view := SeriesView{
		Environment: rq.Environment,
		Frequency:   rq.Frequency,
		Name:        rq.Name,
		KeyValue:    key,
		Units:       ts.Units,
		Points:      make([]Point, 0, ts.Len()),
	}
	if ts.IsInterval() {
		view.Interval = ts.Interval.String()
	}
	for i, at := range ts.Timestamps() {
		view.Points = append(view.Points, Point{Time: at, Value: ts.Values[i]})
	}
	return view
}

// readResolved builds every key value of a resolved query.
func readResolved(ctx context.Context, f *sqlfile.File, rq engine.ResolvedQuery) ([]SeriesView, error) {
	views := make([]SeriesView, 0, len(rq.KeyValues))
	for _, key := range rq.KeyValues {
		ts, ok, err := f.TimeSeries(ctx, rq.Environment, rq.Frequency, rq.Name, key)
		if err != nil {
			return nil, err
		}
		if ok {
			views = append(views, newSeriesView(rq, key, ts))
		}
	}
	return views, nil
}

func writeSeriesText(w io.Writer, views []SeriesView) {
	for _, v := range views {
		label := fmt.Sprintf("%s/%s/%s", v.Environment, v.Frequency, v.Name)
		if v.KeyValue != "" {
			label += " [" + v.KeyValue + "]"
		}
		fmt.Fprintf(w, "=== %s (%s) ===\n", label, v.Units)
		for _, p := range v.Points {
			fmt.Fprintf(w, "%s\t%s\n", p.Time.Format(time.DateTime), formatNumber(p.Value))
		}
	}
}

// NewSeriesCommand creates the series command.
func NewSeriesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "series <environment> <frequency> <name> [key]",
		Short: "Print a time series",
		Long: `Rebuild a time series from the stored calendar and print its samples.

Environment, name and key match without regard to case. The frequency may
be a stored label ("Run Period") or a frequency name ("RunPeriod"); Annual
also finds series stored under "Run Period". Without a key every key
value of the series is printed.

Example:
  epsql series --db eplusout.sql "RUN PERIOD 1" Hourly Electricity:Facility
  epsql series --db eplusout.sql "RUN PERIOD 1" Hourly "Zone Mean Air Temperature" "ZONE ONE"`,
		Args:          cobra.RangeArgs(3, 4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeries(rootOpts, cmd, args)
		},
	}
}

func runSeries(opts *RootOptions, cmd *cobra.Command, args []string) error {
	out := opts.formatter(cmd)
	f, err := opts.open(cmd, out)
	if err != nil {
		return err
	}
	defer opts.closeFile(f)

	q := queryir.Query{
		Environment: queryir.EnvironmentName(args[0]),
		Frequency:   args[1],
		Name:        queryir.Name(args[2]),
	}
	if len(args) == 4 {
		q.KeyValues = queryir.KeyValueList{args[3]}
	}

	ctx := commandContext(cmd)
	views := []SeriesView{}
	for _, rq := range f.Expand(q) {
		vs, err := readResolved(ctx, f, rq)
		if err != nil {
			return out.Fail(ExitCommandError, ErrCodeReadFailed, "failed to read series", err)
		}
		views = append(views, vs...)
	}
	if len(views) == 0 {
		return out.Fail(ExitFailure, ErrCodeNotFound, "no series matches "+q.String(), nil)
	}

	return out.Render(views, f.Session(), func(w io.Writer) error {
		writeSeriesText(w, views)
		return nil
	})
}

// QueryResult is the outcome of one query of a query file.
type QueryResult struct {
	Query    string       `json:"query"`
	Resolved []string     `json:"resolved"`
	Series   []SeriesView `json:"series,omitempty"`
}

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	*RootOptions
	ResolveOnly bool
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "query <file>",
		Short: "Evaluate a query file",
		Long: `Expand every query of a yaml or CUE query file against the result file
and print the series each one resolves to.

A query names an environment (or environment_type), a frequency, a name
(or name_pattern, a full-match regular expression) and key_values (or
key_value_pattern). Omitted fields match everything.

Example:
  epsql query --db eplusout.sql queries.yaml
  epsql query --db eplusout.sql queries.cue --resolve-only --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.ResolveOnly, "resolve-only", false, "print the resolved queries without reading series")

	return cmd
}

func runQuery(opts *QueryOptions, path string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	queries, err := LoadQueries(path)
	if err != nil {
		code := ErrCodeQueryFile
		if loadErr, ok := err.(*LoadError); ok {
			code = loadErr.Code
		}
		return out.Fail(ExitCommandError, code, "invalid query file", err)
	}
	out.VerboseLog("Loaded %d query(ies) from %s", len(queries), path)

	f, err := opts.open(cmd, out)
	if err != nil {
		return err
	}
	defer opts.closeFile(f)

	ctx := commandContext(cmd)
	results := make([]QueryResult, 0, len(queries))
	found := false
	for _, q := range queries {
		result := QueryResult{Query: q.String(), Resolved: []string{}}
		for _, rq := range f.Expand(q) {
			result.Resolved = append(result.Resolved, rq.String())
			if opts.ResolveOnly {
				continue
			}
			views, err := readResolved(ctx, f, rq)
			if err != nil {
				return out.Fail(ExitCommandError, ErrCodeReadFailed, "failed to read series", err)
			}
			result.Series = append(result.Series, views...)
		}
		found = found || len(result.Resolved) > 0
		results = append(results, result)
	}

	if err := out.Render(results, f.Session(), func(w io.Writer) error {
		for _, r := range results {
			fmt.Fprintf(w, "query: %s\n", r.Query)
			if len(r.Resolved) == 0 {
				fmt.Fprintln(w, "  (no matches)")
			}
			for _, rq := range r.Resolved {
				fmt.Fprintf(w, "  -> %s\n", rq)
			}
			writeSeriesText(w, r.Series)
		}
		return nil
	}); err != nil {
		return err
	}

	if !found {
		return NewExitError(ExitFailure, "no query matched any series")
	}
	return nil
}
