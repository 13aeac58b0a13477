package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/sqlfile"
)

// SummaryResult holds the building-level totals of a result file. Absent
// values are nil.
type SummaryResult struct {
	Meters                   []sqlfile.SummaryRow `json:"meters"`
	HoursSimulated           *float64             `json:"hours_simulated,omitempty"`
	NetSiteEnergy            *float64             `json:"net_site_energy_gj,omitempty"`
	NetSourceEnergy          *float64             `json:"net_source_energy_gj,omitempty"`
	TotalSiteEnergy          *float64             `json:"total_site_energy_gj,omitempty"`
	TotalSourceEnergy        *float64             `json:"total_source_energy_gj,omitempty"`
	HoursHeatingSetpointMiss *float64             `json:"hours_heating_setpoint_not_met,omitempty"`
	HoursCoolingSetpointMiss *float64             `json:"hours_cooling_setpoint_not_met,omitempty"`
	AnnualUtilityCost        *float64             `json:"annual_total_utility_cost,omitempty"`
	EndUseTotals             []FuelTotal          `json:"end_use_totals"`
}

// FuelTotal is the annual end-use total of one fuel.
type FuelTotal struct {
	Fuel  string  `json:"fuel"`
	Units string  `json:"units"`
	Total float64 `json:"total"`
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show meter totals and tabular summary values",
		Long: `Show the totals of every Sum-type meter and the building-level values
of the tabular reports: hours simulated, site and source energy, unmet
setpoint hours, utility cost and end-use totals per fuel.

Values the file does not record are omitted.

Example:
  epsql summary --db eplusout.sql
  epsql summary --db eplusout.sql --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(rootOpts, cmd)
		},
	}
}

func runSummary(opts *RootOptions, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	f, err := opts.open(cmd, out)
	if err != nil {
		return err
	}
	defer opts.closeFile(f)

	result, err := collectSummary(commandContext(cmd), f)
	if err != nil {
		return out.Fail(ExitCommandError, ErrCodeReadFailed, "failed to read summary", err)
	}

	return out.Render(result, f.Session(), func(w io.Writer) error {
		writeSummaryText(w, result)
		return nil
	})
}

type optionalValue struct {
	dst  **float64
	read func(context.Context) (float64, bool, error)
}

func collectSummary(ctx context.Context, f *sqlfile.File) (SummaryResult, error) {
	meters, err := f.SummaryData(ctx)
	if err != nil {
		return SummaryResult{}, err
	}
	result := SummaryResult{Meters: meters, EndUseTotals: []FuelTotal{}}

	values := []optionalValue{
		{&result.HoursSimulated, f.HoursSimulated},
		{&result.NetSiteEnergy, f.NetSiteEnergy},
		{&result.NetSourceEnergy, f.NetSourceEnergy},
		{&result.TotalSiteEnergy, f.TotalSiteEnergy},
		{&result.TotalSourceEnergy, f.TotalSourceEnergy},
		{&result.HoursHeatingSetpointMiss, f.HoursHeatingSetpointNotMet},
		{&result.HoursCoolingSetpointMiss, f.HoursCoolingSetpointNotMet},
		{&result.AnnualUtilityCost, f.AnnualTotalUtilityCost},
	}
	for _, v := range values {
		value, ok, err := v.read(ctx)
		if err != nil {
			return SummaryResult{}, err
		}
		if ok {
			*v.dst = &value
		}
	}

	for _, fuel := range ir.AllFuels() {
		total, ok, err := f.EndUseTotal(ctx, fuel)
		if err != nil {
			return SummaryResult{}, err
		}
		if ok {
			result.EndUseTotals = append(result.EndUseTotals, FuelTotal{
				Fuel:  fuel.Label(),
				Units: fuel.Units(),
				Total: total,
			})
		}
	}
	return result, nil
}

func writeSummaryText(w io.Writer, r SummaryResult) {
	if len(r.Meters) > 0 {
		fmt.Fprintln(w, "Meters:")
		for _, m := range r.Meters {
			fmt.Fprintf(w, "  %-24s %-12s %s %s\n",
				m.Fuel+":"+m.InstallLocation, m.Frequency, formatNumber(m.Value), m.Units)
		}
	}

	lines := []struct {
		label string
		value *float64
	}{
		{"Hours simulated", r.HoursSimulated},
		{"Net site energy [GJ]", r.NetSiteEnergy},
		{"Net source energy [GJ]", r.NetSourceEnergy},
		{"Total site energy [GJ]", r.TotalSiteEnergy},
		{"Total source energy [GJ]", r.TotalSourceEnergy},
		{"Heating setpoint not met [h]", r.HoursHeatingSetpointMiss},
		{"Cooling setpoint not met [h]", r.HoursCoolingSetpointMiss},
		{"Annual utility cost", r.AnnualUtilityCost},
	}
	for _, l := range lines {
		if l.value != nil {
			fmt.Fprintf(w, "%-30s %s\n", l.label+":", formatNumber(*l.value))
		}
	}

	if len(r.EndUseTotals) > 0 {
		fmt.Fprintln(w, "End uses:")
		for _, t := range r.EndUseTotals {
			fmt.Fprintf(w, "  %-24s %s %s\n", t.Fuel, formatNumber(t.Total), t.Units)
		}
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
