package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/epsql/internal/version"
)

// InfoResult describes an open result file.
type InfoResult struct {
	Path              string        `json:"path"`
	EnergyPlusVersion string        `json:"energyplus_version"`
	Flags             version.Flags `json:"flags"`
	Environments      int           `json:"environments"`
	Series            int           `json:"series"`
	Names             int           `json:"names"`
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the producer version and schema flags",
		Long: `Show the EnergyPlus version that wrote the file, the schema capability
flags derived from it, and the size of the series catalog.

Example:
  epsql info --db eplusout.sql
  epsql info --db eplusout.sql --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(rootOpts, cmd)
		},
	}
}

func runInfo(opts *RootOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	f, err := opts.open(cmd, out)
	if err != nil {
		return err
	}
	defer opts.closeFile(f)

	dict := f.Dictionary()
	result := InfoResult{
		Path:              f.Path(),
		EnergyPlusVersion: f.EnergyPlusVersion(),
		Flags:             f.Flags(),
		Environments:      len(dict.AvailableEnvironments()),
		Series:            dict.Len(),
		Names:             len(dict.AvailableTimeSeries()),
	}

	return out.Render(result, f.Session(), func(w io.Writer) error {
		flags := result.Flags
		fmt.Fprintf(w, "File:          %s\n", result.Path)
		fmt.Fprintf(w, "EnergyPlus:    %s\n", result.EnergyPlusVersion)
		fmt.Fprintf(w, "Version:       %s (supported: %t)\n", flags.Version, flags.Supported)
		fmt.Fprintf(w, "Time.Year:     %t\n", flags.HasYear)
		fmt.Fprintf(w, "Map year:      %t\n", flags.HasIlluminanceMapYear)
		fmt.Fprintf(w, "Map ref pts:   %s\n", refPtLayout(flags))
		fmt.Fprintf(w, "Environments:  %d\n", result.Environments)
		fmt.Fprintf(w, "Series:        %d (%d names)\n", result.Series, result.Names)
		return nil
	})
}

func refPtLayout(f version.Flags) string {
	if f.IlluminanceMapHasOnly2RefPts {
		return "ReferencePt1/ReferencePt2"
	}
	return "ReferencePts"
}
