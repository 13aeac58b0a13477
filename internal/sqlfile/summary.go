package sqlfile

import (
	"context"
	"strings"
	"time"

	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/querysql"
	"github.com/roach88/epsql/internal/store"
)

const (
	reportUtilityPerformance = "AnnualBuildingUtilityPerformanceSummary"
	reportInputVerification  = "InputVerificationandResultsSummary"
	reportEconomics          = "Economics Results Summary Report"
	reportSystem             = "SystemSummary"
	reportEnvelope           = "EnvelopeSummary"

	entireFacility = "Entire Facility"

	hoursPerYear = 8760
)

// TabularValue returns the numeric cell matched by p.
func (f *File) TabularValue(ctx context.Context, p querysql.TabularPredicate) (float64, bool, error) {
	_, s := f.current()
	q, params := p.Compile()
	st, err := s.Prepare(ctx, q, store.Texts(params...)...)
	if err != nil {
		return 0, false, err
	}
	defer st.Close()
	return st.FirstFloat(ctx)
}

// tabularRowName returns the row name of the cell matched by p.
func (f *File) tabularRowName(ctx context.Context, p querysql.TabularPredicate) (string, bool, error) {
	_, s := f.current()
	q, params := p.CompileRowName()
	st, err := s.Prepare(ctx, q, store.Texts(params...)...)
	if err != nil {
		return "", false, err
	}
	defer st.Close()
	return st.FirstString(ctx)
}

// firstValue returns the first predicate that matches.
func (f *File) firstValue(ctx context.Context, preds ...querysql.TabularPredicate) (float64, bool, error) {
	for _, p := range preds {
		v, ok, err := f.TabularValue(ctx, p)
		if err != nil || ok {
			return v, ok, err
		}
	}
	return 0, false, nil
}

// EndUse returns the annual end use of fuel in category, in GJ (m3 for
// water).
func (f *File) EndUse(ctx context.Context, fuel ir.FuelType, category ir.EndUseCategory) (float64, bool, error) {
	return f.TabularValue(ctx, querysql.TabularPredicate{
		ReportName: reportUtilityPerformance,
		ReportFor:  entireFacility,
		TableName:  "End Uses",
		RowName:    category.Label(),
		ColumnName: fuel.Label(),
		Units:      fuel.Units(),
	})
}

// EndUseTotal returns the total end use of fuel.
func (f *File) EndUseTotal(ctx context.Context, fuel ir.FuelType) (float64, bool, error) {
	return f.EndUse(ctx, fuel, ir.TotalEndUses)
}

// DistrictHeating returns district heating water plus steam in category.
// It is absent only when both are.
func (f *File) DistrictHeating(ctx context.Context, category ir.EndUseCategory) (float64, bool, error) {
	water, okWater, err := f.EndUse(ctx, ir.DistrictHeatingWater, category)
	if err != nil {
		return 0, false, err
	}
	steam, okSteam, err := f.EndUse(ctx, ir.DistrictHeatingSteam, category)
	if err != nil {
		return 0, false, err
	}
	return water + steam, okWater || okSteam, nil
}

// monthlyColumn is the meter column of the monthly energy reports, e.g.
// "INTERIORLIGHTS:ELECTRICITY".
func monthlyColumn(fuel ir.FuelType, category ir.EndUseCategory) string {
	return category.MeterPrefix() + ":" + strings.TrimSuffix(fuel.MeterName(), ":FACILITY")
}

func monthlyReport(fuel ir.FuelType) string {
	return "BUILDING ENERGY PERFORMANCE - " + strings.ToUpper(fuel.Label())
}

// EnergyConsumptionByMonth returns the energy of fuel in category for one
// month, in J.
func (f *File) EnergyConsumptionByMonth(ctx context.Context, fuel ir.FuelType, category ir.EndUseCategory, month time.Month) (float64, bool, error) {
	if category == ir.TotalEndUses {
		return 0, false, nil
	}
	return f.TabularValue(ctx, querysql.TabularPredicate{
		ReportName: monthlyReport(fuel),
		ReportFor:  "Meter",
		RowName:    month.String(),
		ColumnName: monthlyColumn(fuel, category),
		Units:      "J",
	})
}

// PeakEnergyDemandByMonth returns the peak demand of fuel in category for
// one month, in W.
func (f *File) PeakEnergyDemandByMonth(ctx context.Context, fuel ir.FuelType, category ir.EndUseCategory, month time.Month) (float64, bool, error) {
	if category == ir.TotalEndUses {
		return 0, false, nil
	}
	return f.TabularValue(ctx, querysql.TabularPredicate{
		ReportName: monthlyReport(fuel) + " PEAK DEMAND",
		ReportFor:  "Meter",
		RowName:    month.String(),
		ColumnName: monthlyColumn(fuel, category) + " {AT MAX/MIN}",
		Units:      "W",
	})
}

// HoursSimulated returns the simulated hours from the input verification
// report, or from the span of calendar rows carrying meter data.
func (f *File) HoursSimulated(ctx context.Context) (float64, bool, error) {
	v, ok, err := f.TabularValue(ctx, querysql.TabularPredicate{
		ReportName: reportInputVerification,
		ReportFor:  entireFacility,
		TableName:  "General",
		RowName:    "Hours Simulated",
		Units:      "hrs",
	})
	if err != nil || ok {
		return v, ok, err
	}

	_, s := f.current()
	st, err := s.Prepare(ctx, querysql.HoursSimulatedFromCalendar)
	if err != nil {
		return 0, false, err
	}
	defer st.Close()
	return st.FirstFloat(ctx)
}

// checkHours warns when a site or source total does not cover one year.
func (f *File) checkHours(ctx context.Context, what string) {
	hours, ok, err := f.HoursSimulated(ctx)
	switch {
	case err != nil:
		f.logger.Warn("reading hours simulated failed", "total", what, "error", err)
	case !ok:
		f.logger.Warn("reporting total with unknown number of simulation hours", "total", what)
	case hours != hoursPerYear:
		f.logger.Warn("reporting total over a partial year", "total", what, "hours", hours)
	}
}

func (f *File) siteAndSource(ctx context.Context, row string) (float64, bool, error) {
	f.checkHours(ctx, row)
	return f.TabularValue(ctx, querysql.TabularPredicate{
		ReportName: reportUtilityPerformance,
		ReportFor:  entireFacility,
		TableName:  "Site and Source Energy",
		RowName:    row,
		ColumnName: "Total Energy",
		Units:      "GJ",
	})
}

// NetSiteEnergy returns the net site energy in GJ. Without the tabular
// report it sums the facility meters.
func (f *File) NetSiteEnergy(ctx context.Context) (float64, bool, error) {
	v, ok, err := f.siteAndSource(ctx, "Net Site Energy")
	if err != nil || ok {
		return v, ok, err
	}

	f.logger.Warn("tabular results not found, summing meters for net site energy")
	_, s := f.current()
	st, err := s.Prepare(ctx, querysql.NetSiteEnergyFromMeters)
	if err != nil {
		return 0, false, err
	}
	defer st.Close()
	return st.FirstFloat(ctx)
}

// NetSourceEnergy returns the net source energy in GJ.
func (f *File) NetSourceEnergy(ctx context.Context) (float64, bool, error) {
	return f.siteAndSource(ctx, "Net Source Energy")
}

// TotalSiteEnergy returns the total site energy in GJ.
func (f *File) TotalSiteEnergy(ctx context.Context) (float64, bool, error) {
	return f.siteAndSource(ctx, "Total Site Energy")
}

// TotalSourceEnergy returns the total source energy in GJ.
func (f *File) TotalSourceEnergy(ctx context.Context) (float64, bool, error) {
	return f.siteAndSource(ctx, "Total Source Energy")
}

func (f *File) setpointNotMet(ctx context.Context, column string) (float64, bool, error) {
	return f.TabularValue(ctx, querysql.TabularPredicate{
		ReportName: reportSystem,
		ReportFor:  entireFacility,
		TableName:  "Time Setpoint Not Met",
		RowName:    "Facility",
		ColumnName: column,
		Units:      "hr",
	})
}

// HoursHeatingSetpointNotMet returns the facility hours with the heating
// setpoint unmet.
func (f *File) HoursHeatingSetpointNotMet(ctx context.Context) (float64, bool, error) {
	return f.setpointNotMet(ctx, "During Heating")
}

// HoursCoolingSetpointNotMet returns the facility hours with the cooling
// setpoint unmet.
func (f *File) HoursCoolingSetpointNotMet(ctx context.Context) (float64, bool, error) {
	return f.setpointNotMet(ctx, "During Cooling")
}

// annualCost reads a column of the Annual Cost table. Producers label the
// cost row either "Cost" with units "~~$~~" or "Cost (~~$~~)".
func (f *File) annualCost(ctx context.Context, column string) (float64, bool, error) {
	base := querysql.TabularPredicate{
		ReportName: reportEconomics,
		ReportFor:  entireFacility,
		TableName:  "Annual Cost",
		ColumnName: column,
	}
	withUnits := base
	withUnits.RowName, withUnits.Units = "Cost", "~~$~~"
	inRow := base
	inRow.RowName = "Cost (~~$~~)"
	return f.firstValue(ctx, withUnits, inRow)
}

// AnnualTotalCost returns the annual cost of fuel. Electricity and natural
// gas have their own Annual Cost columns; every other fuel is found
// through the tariff that meters it.
func (f *File) AnnualTotalCost(ctx context.Context, fuel ir.FuelType) (float64, bool, error) {
	switch fuel {
	case ir.Electricity, ir.NaturalGas:
		return f.annualCost(ctx, fuel.Label())
	}

	tariff := querysql.TabularPredicate{
		ReportName: reportEconomics,
		ReportFor:  entireFacility,
		TableName:  "Tariff Summary",
	}
	byMeter := tariff
	byMeter.Value = fuel.MeterName()
	row, ok, err := f.tabularRowName(ctx, byMeter)
	if err != nil || !ok {
		return 0, false, err
	}

	cost := tariff
	cost.RowName = row
	cost.ColumnName = "Annual Cost (~~$~~)"
	return f.TabularValue(ctx, cost)
}

func (f *File) costPerArea(ctx context.Context, fuel ir.FuelType, areaRow string) (float64, bool, error) {
	area, ok, err := f.TabularValue(ctx, querysql.TabularPredicate{
		ReportName: reportUtilityPerformance,
		ReportFor:  entireFacility,
		TableName:  "Building Area",
		RowName:    areaRow,
		ColumnName: "Area",
		Units:      "m2",
	})
	if err != nil || !ok || area <= 0 {
		return 0, false, err
	}
	cost, ok, err := f.AnnualTotalCost(ctx, fuel)
	if err != nil || !ok {
		return 0, false, err
	}
	return cost / area, true, nil
}

// AnnualTotalCostPerBldgArea returns the annual cost of fuel per total
// building area.
func (f *File) AnnualTotalCostPerBldgArea(ctx context.Context, fuel ir.FuelType) (float64, bool, error) {
	return f.costPerArea(ctx, fuel, "Total Building Area")
}

// AnnualTotalCostPerNetConditionedBldgArea returns the annual cost of fuel
// per net conditioned building area.
func (f *File) AnnualTotalCostPerNetConditionedBldgArea(ctx context.Context, fuel ir.FuelType) (float64, bool, error) {
	return f.costPerArea(ctx, fuel, "Net Conditioned Building Area")
}

// AnnualTotalUtilityCost sums the annual cost of every fuel. It is absent
// when the sum is zero.
func (f *File) AnnualTotalUtilityCost(ctx context.Context) (float64, bool, error) {
	total := 0.0
	for _, fuel := range ir.AllFuels() {
		cost, ok, err := f.AnnualTotalCost(ctx, fuel)
		if err != nil {
			return 0, false, err
		}
		if ok {
			total += cost
		}
	}
	return total, total != 0, nil
}

// EconomicsEnergyCost returns the total of the Annual Cost table.
func (f *File) EconomicsEnergyCost(ctx context.Context) (float64, bool, error) {
	return f.annualCost(ctx, "Total")
}

// ExteriorFenestrationValue returns a column of the exterior fenestration
// table for a sub surface. Sub surface names are stored upper-cased.
func (f *File) ExteriorFenestrationValue(ctx context.Context, subSurface, column string) (float64, bool, error) {
	return f.TabularValue(ctx, querysql.TabularPredicate{
		ReportName: reportEnvelope,
		ReportFor:  entireFacility,
		TableName:  "Exterior Fenestration",
		RowName:    ir.UpperName(subSurface),
		ColumnName: column,
	})
}

// AssemblyUFactor returns the assembly U-factor of a sub surface.
func (f *File) AssemblyUFactor(ctx context.Context, subSurface string) (float64, bool, error) {
	return f.ExteriorFenestrationValue(ctx, subSurface, "Assembly U-Factor")
}

// AssemblySHGC returns the assembly solar heat gain coefficient of a sub
// surface.
func (f *File) AssemblySHGC(ctx context.Context, subSurface string) (float64, bool, error) {
	return f.ExteriorFenestrationValue(ctx, subSurface, "Assembly SHGC")
}

// AssemblyVisibleTransmittance returns the assembly visible transmittance
// of a sub surface.
func (f *File) AssemblyVisibleTransmittance(ctx context.Context, subSurface string) (float64, bool, error) {
	return f.ExteriorFenestrationValue(ctx, subSurface, "Assembly Visible Transmittance")
}
