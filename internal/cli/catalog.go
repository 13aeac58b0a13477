package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/epsql/internal/sqlfile"
)

// EnvironmentView is one environment period.
type EnvironmentView struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// NewEnvsCommand creates the envs command.
func NewEnvsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "envs",
		Short: "List environment periods",
		Long: `List the environment periods (design days and run periods) recorded in
the file, with their type.

Example:
  epsql envs --db eplusout.sql`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnvs(rootOpts, cmd)
		},
	}
}

func runEnvs(opts *RootOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	f, err := opts.open(cmd, out)
	if err != nil {
		return err
	}
	defer opts.closeFile(f)

	ctx := commandContext(cmd)
	envs := []EnvironmentView{}
	for _, name := range f.AvailableEnvironments() {
		view := EnvironmentView{Name: name}
		typ, ok, err := f.EnvironmentType(ctx, name)
		if err != nil {
			return out.Fail(ExitCommandError, ErrCodeReadFailed, "failed to read environment type", err)
		}
		if ok {
			view.Type = typ.String()
		}
		envs = append(envs, view)
	}

	return out.Render(envs, f.Session(), func(w io.Writer) error {
		for _, e := range envs {
			if e.Type == "" {
				fmt.Fprintln(w, e.Name)
				continue
			}
			fmt.Fprintf(w, "%s\t%s\n", e.Name, e.Type)
		}
		return nil
	})
}

// NewFreqsCommand creates the freqs command.
func NewFreqsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "freqs <environment>",
		Short: "List reporting frequencies of an environment",
		Long: `List the reporting frequency labels recorded for an environment, as
stored. Environment names match without regard to case.

Example:
  epsql freqs --db eplusout.sql "RUN PERIOD 1"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd, "frequencies in "+args[0], func(f *sqlfile.File) []string {
				return f.AvailableFrequencies(args[0])
			})
		},
	}
}

// NewNamesCommand creates the names command.
func NewNamesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "names <environment> <frequency>",
		Short: "List series names of an environment at a frequency",
		Long: `List the series names recorded for an environment at a stored
reporting frequency label.

Example:
  epsql names --db eplusout.sql "RUN PERIOD 1" Hourly`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd, fmt.Sprintf("series in %s at %s", args[0], args[1]), func(f *sqlfile.File) []string {
				return f.AvailableNames(args[0], args[1])
			})
		},
	}
}

// NewKeysCommand creates the keys command.
func NewKeysCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keys <environment> <frequency> <name>",
		Short: "List key values of a series",
		Long: `List the key values (zones, surfaces, components) a series is recorded
for. Meters have a single empty key, printed as "(meter)".

Example:
  epsql keys --db eplusout.sql "RUN PERIOD 1" Hourly "Zone Mean Air Temperature"`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(rootOpts, cmd, fmt.Sprintf("key values of %s", args[2]), func(f *sqlfile.File) []string {
				return f.AvailableKeyValues(args[0], args[1], args[2])
			})
		},
	}
}

// runList prints one catalog listing. An empty listing is a miss.
func runList(opts *RootOptions, cmd *cobra.Command, what string, list func(*sqlfile.File) []string) error {
	out := opts.formatter(cmd)
	f, err := opts.open(cmd, out)
	if err != nil {
		return err
	}
	defer opts.closeFile(f)

	items := list(f)
	if len(items) == 0 {
		return out.Fail(ExitFailure, ErrCodeNotFound, "no "+what, nil)
	}

	return out.Render(items, f.Session(), func(w io.Writer) error {
		for _, item := range items {
			if item == "" {
				item = "(meter)"
			}
			fmt.Fprintln(w, item)
		}
		return nil
	})
}
