package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/sqlfile"
)

// MapView summarizes one daylighting illuminance map.
type MapView struct {
	Index   int      `json:"index"`
	Name    string   `json:"name"`
	Zones   []string `json:"zones"`
	Reports int      `json:"reports"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
}

// GridView is one illuminance map report.
type GridView struct {
	Name string `json:"name"`
	Time string `json:"time"`
	ir.IlluminanceGrid
}

// NewMapsCommand creates the maps command.
func NewMapsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "maps",
		Short: "List daylighting illuminance maps",
		Long: `List the daylighting illuminance maps of the file with their zones, the
number of hourly reports and the overall illuminance range.

Example:
  epsql maps --db eplusout.sql`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMaps(rootOpts, cmd)
		},
	}
}

func runMaps(opts *RootOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	f, err := opts.open(cmd, out)
	if err != nil {
		return err
	}
	defer opts.closeFile(f)

	views, err := listMaps(cmd, f)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeReadFailed, "failed to read illuminance maps", err)
	}

	return out.Render(views, f.Session(), func(w io.Writer) error {
		if len(views) == 0 {
			fmt.Fprintln(w, "No illuminance maps")
			return nil
		}
		for _, v := range views {
			fmt.Fprintf(w, "%d\t%s\tzones=%s\treports=%d", v.Index, v.Name, strings.Join(v.Zones, ","), v.Reports)
			if v.Min != nil && v.Max != nil {
				fmt.Fprintf(w, "\trange=%s..%s", formatNumber(*v.Min), formatNumber(*v.Max))
			}
			fmt.Fprintln(w)
		}
		return nil
	})
}

func listMaps(cmd *cobra.Command, f *sqlfile.File) ([]MapView, error) {
	ctx := commandContext(cmd)
	names, err := f.IlluminanceMapNames(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]MapView, 0, len(names))
	for _, name := range names {
		index, ok, err := f.IlluminanceMapIndex(ctx, name)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		view := MapView{Index: index, Name: name}
		if view.Zones, err = f.IlluminanceMapZoneNames(ctx, index); err != nil {
			return nil, err
		}
		reports, err := f.IlluminanceMapReportIndices(ctx, index)
		if err != nil {
			return nil, err
		}
		view.Reports = len(reports)
		lo, hi, ok, err := f.IlluminanceMapMinMax(ctx, index)
		if err != nil {
			return nil, err
		}
		if ok {
			view.Min, view.Max = &lo, &hi
		}
		views = append(views, view)
	}
	return views, nil
}

// MapOptions holds flags for the map command.
type MapOptions struct {
	*RootOptions
	At string
}

// NewMapCommand creates the map command.
func NewMapCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MapOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "map <name>",
		Short: "Print one illuminance map report",
		Long: `Print the illuminance grid of a map at one hourly report. The map name
matches without regard to case. --at takes "2006-01-02 15:04:05" or
RFC 3339; minutes are ignored. Without --at the first report is printed.

Example:
  epsql map --db eplusout.sql "ZONE ONE DAYLIGHT MAP"
  epsql map --db eplusout.sql "ZONE ONE DAYLIGHT MAP" --at "2009-01-01 12:00:00"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMap(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.At, "at", "", "report time")

	return cmd
}

func runMap(opts *MapOptions, name string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	var at time.Time
	if opts.At != "" {
		t, err := parseReportTime(opts.At)
		if err != nil {
			return out.Fail(ExitCommandError, ErrCodeInvalidArgs, "invalid --at", err)
		}
		at = t
	}

	f, err := opts.open(cmd, out)
	if err != nil {
		return err
	}
	defer opts.closeFile(f)

	ctx := commandContext(cmd)
	index, ok, err := f.IlluminanceMapIndex(ctx, name)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeReadFailed, "failed to read illuminance map", err)
	}
	if !ok {
		return out.Fail(ExitFailure, ErrCodeNotFound, "no illuminance map "+name, nil)
	}

	if at.IsZero() {
		reports, err := f.IlluminanceMapReportDates(ctx, index)
		if err != nil {
			return out.Fail(ExitCommandError, ErrCodeReadFailed, "failed to read illuminance map", err)
		}
		if len(reports) == 0 {
			return out.Fail(ExitFailure, ErrCodeNotFound, "illuminance map "+name+" has no reports", nil)
		}
		at = reports[0].Time
	}

	grid, ok, err := f.IlluminanceMapAt(ctx, name, at)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeReadFailed, "failed to read illuminance map", err)
	}
	if !ok {
		return out.Fail(ExitFailure, ErrCodeNotFound, fmt.Sprintf("no report of %s at %s", name, at.Format(time.DateTime)), nil)
	}

	view := GridView{Name: name, Time: at.Format(time.DateTime), IlluminanceGrid: grid}
	return out.Render(view, f.Session(), func(w io.Writer) error {
		writeGridText(w, view)
		return nil
	})
}

func parseReportTime(s string) (time.Time, error) {
	for _, layout := range []string{time.DateTime, time.RFC3339, "2006-01-02 15:04", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as a time", s)
}

// writeGridText prints the grid with Y decreasing down the rows, as the
// map appears in plan.
func writeGridText(w io.Writer, g GridView) {
	fmt.Fprintf(w, "%s at %s\n", g.Name, g.Time)
	fmt.Fprint(w, "y\\x")
	for _, x := range g.X {
		fmt.Fprintf(w, "\t%s", formatNumber(x))
	}
	fmt.Fprintln(w)
	for j := len(g.Y) - 1; j >= 0; j-- {
		fmt.Fprint(w, formatNumber(g.Y[j]))
		for i := range g.X {
			fmt.Fprintf(w, "\t%s", formatNumber(g.At(i, j)))
		}
		fmt.Fprintln(w)
	}
}

// NewIndexesCommand creates the indexes command.
func NewIndexesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indexes",
		Short: "Create or remove the lookup indexes",
		Long: `Create or remove the indexes that speed up series and map lookups.
Existing indexes are kept; missing ones are skipped on removal.

Example:
  epsql indexes create --db eplusout.sql
  epsql indexes remove --db eplusout.sql`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "create",
		Short:         "Create the lookup indexes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndexes(rootOpts, cmd, "created", (*sqlfile.File).CreateIndexes)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "remove",
		Short:         "Remove the lookup indexes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndexes(rootOpts, cmd, "removed", (*sqlfile.File).RemoveIndexes)
		},
	})

	return cmd
}

// IndexResult lists the indexes an indexes subcommand touched.
type IndexResult struct {
	Action  string   `json:"action"`
	Indexes []string `json:"indexes"`
}

func runIndexes(opts *RootOptions, cmd *cobra.Command, action string, apply func(*sqlfile.File, context.Context) []string) error {
	out := opts.formatter(cmd)
	f, err := opts.open(cmd, out)
	if err != nil {
		return err
	}
	defer opts.closeFile(f)

	result := IndexResult{Action: action, Indexes: apply(f, commandContext(cmd))}
	if result.Indexes == nil {
		result.Indexes = []string{}
	}
	return out.Render(result, f.Session(), func(w io.Writer) error {
		for _, name := range result.Indexes {
			fmt.Fprintf(w, "%s %s\n", action, name)
		}
		return nil
	})
}
