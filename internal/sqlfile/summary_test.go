package sqlfile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/querysql"
	"github.com/roach88/epsql/internal/testutil"
)

func facility(table, row, column, units, value string) testutil.TabularRow {
	return testutil.TabularRow{
		ReportName: "AnnualBuildingUtilityPerformanceSummary",
		ReportFor:  "Entire Facility",
		TableName:  table,
		RowName:    row,
		ColumnName: column,
		Units:      units,
		Value:      value,
	}
}

func economics(table, row, column, units, value string) testutil.TabularRow {
	return testutil.TabularRow{
		ReportName: "Economics Results Summary Report",
		ReportFor:  "Entire Facility",
		TableName:  table,
		RowName:    row,
		ColumnName: column,
		Units:      units,
		Value:      value,
	}
}

func tabularFixture(t *testing.T) *File {
	t.Helper()
	r := testutil.NewResultFile(t, testutil.DefaultSpec(1))
	r.AddTabular(
		facility("End Uses", "Heating", "Electricity", "GJ", "12.5"),
		facility("End Uses", "Heating", "District Heating Water", "GJ", "3.0"),
		facility("End Uses", "Heating", "District Heating Steam", "GJ", "1.5"),
		facility("End Uses", "Cooling", "District Heating Steam", "GJ", "2.0"),
		facility("End Uses", "Total End Uses", "Electricity", "GJ", "40.25"),
		facility("End Uses", "Water Systems", "Water", "m3", "  88.0 "),
		facility("Site and Source Energy", "Net Site Energy", "Total Energy", "GJ", "140.0"),
		facility("Site and Source Energy", "Total Source Energy", "Total Energy", "GJ", "420.0"),
		facility("Building Area", "Total Building Area", "Area", "m2", "100.0"),
		facility("Building Area", "Net Conditioned Building Area", "Area", "m2", "0.0"),
		testutil.TabularRow{
			ReportName: "InputVerificationandResultsSummary",
			ReportFor:  "Entire Facility",
			TableName:  "General",
			RowName:    "Hours Simulated",
			Units:      "hrs",
			ColumnName: "Value",
			Value:      "8760.00",
		},
		testutil.TabularRow{
			ReportName: "BUILDING ENERGY PERFORMANCE - ELECTRICITY",
			ReportFor:  "Meter",
			TableName:  "Custom Monthly Report",
			RowName:    "March",
			ColumnName: "INTERIORLIGHTS:ELECTRICITY",
			Units:      "J",
			Value:      "3.6E+09",
		},
		testutil.TabularRow{
			ReportName: "BUILDING ENERGY PERFORMANCE - NATURAL GAS PEAK DEMAND",
			ReportFor:  "Meter",
			TableName:  "Custom Monthly Report",
			RowName:    "January",
			ColumnName: "HEATING:NATURALGAS {AT MAX/MIN}",
			Units:      "W",
			Value:      "5400.5",
		},
		testutil.TabularRow{
			ReportName: "SystemSummary",
			ReportFor:  "Entire Facility",
			TableName:  "Time Setpoint Not Met",
			RowName:    "Facility",
			ColumnName: "During Heating",
			Units:      "hr",
			Value:      "11.25",
		},
		testutil.TabularRow{
			ReportName: "EnvelopeSummary",
			ReportFor:  "Entire Facility",
			TableName:  "Exterior Fenestration",
			RowName:    "SOUTH WINDOW",
			ColumnName: "Assembly U-Factor",
			Units:      "W/m2-K",
			Value:      "2.35",
		},
		testutil.TabularRow{
			ReportName: "EnvelopeSummary",
			ReportFor:  "Entire Facility",
			TableName:  "Exterior Fenestration",
			RowName:    "SOUTH WINDOW",
			ColumnName: "Assembly SHGC",
			Value:      "0.39",
		},
		economics("Annual Cost", "Cost", "Electricity", "~~$~~", "1000.00"),
		economics("Annual Cost", "Cost (~~$~~)", "Natural Gas", "", "200.00"),
		economics("Annual Cost", "Cost (~~$~~)", "Total", "", "1521.50"),
		economics("Tariff Summary", "PROPANE TARIFF", "Meter", "", "PROPANE:FACILITY"),
		economics("Tariff Summary", "PROPANE TARIFF", "Annual Cost (~~$~~)", "", "321.50"),
	)
	return openFixture(t, r)
}

type accessor func(context.Context) (float64, bool, error)

func TestTabularAccessors(t *testing.T) {
	f := tabularFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		get    accessor
		want   float64
		absent bool
	}{
		{
			name: "end use",
			get:  func(ctx context.Context) (float64, bool, error) { return f.EndUse(ctx, ir.Electricity, ir.Heating) },
			want: 12.5,
		},
		{
			name: "end use total",
			get:  func(ctx context.Context) (float64, bool, error) { return f.EndUseTotal(ctx, ir.Electricity) },
			want: 40.25,
		},
		{
			name: "water is in cubic meters",
			get:  func(ctx context.Context) (float64, bool, error) { return f.EndUse(ctx, ir.Water, ir.WaterSystems) },
			want: 88,
		},
		{
			name:   "missing end use",
			get:    func(ctx context.Context) (float64, bool, error) { return f.EndUse(ctx, ir.Coal, ir.Heating) },
			absent: true,
		},
		{
			name: "district heating sums water and steam",
			get:  func(ctx context.Context) (float64, bool, error) { return f.DistrictHeating(ctx, ir.Heating) },
			want: 4.5,
		},
		{
			name: "district heating with steam only",
			get:  func(ctx context.Context) (float64, bool, error) { return f.DistrictHeating(ctx, ir.Cooling) },
			want: 2,
		},
		{
			name:   "district heating absent",
			get:    func(ctx context.Context) (float64, bool, error) { return f.DistrictHeating(ctx, ir.Fans) },
			absent: true,
		},
		{
			name: "monthly consumption",
			get: func(ctx context.Context) (float64, bool, error) {
				return f.EnergyConsumptionByMonth(ctx, ir.Electricity, ir.InteriorLighting, time.March)
			},
			want: 3.6e9,
		},
		{
			name: "monthly consumption other month",
			get: func(ctx context.Context) (float64, bool, error) {
				return f.EnergyConsumptionByMonth(ctx, ir.Electricity, ir.InteriorLighting, time.April)
			},
			absent: true,
		},
		{
			name: "monthly total end uses are not reported",
			get: func(ctx context.Context) (float64, bool, error) {
				return f.EnergyConsumptionByMonth(ctx, ir.Electricity, ir.TotalEndUses, time.March)
			},
			absent: true,
		},
		{
			name: "monthly peak demand",
			get: func(ctx context.Context) (float64, bool, error) {
				return f.PeakEnergyDemandByMonth(ctx, ir.NaturalGas, ir.Heating, time.January)
			},
			want: 5400.5,
		},
		{
			name: "hours simulated",
			get:  f.HoursSimulated,
			want: 8760,
		},
		{
			name: "net site energy",
			get:  f.NetSiteEnergy,
			want: 140,
		},
		{
			name: "total source energy",
			get:  f.TotalSourceEnergy,
			want: 420,
		},
		{
			name:   "net source energy absent",
			get:    f.NetSourceEnergy,
			absent: true,
		},
		{
			name: "heating setpoint not met",
			get:  f.HoursHeatingSetpointNotMet,
			want: 11.25,
		},
		{
			name:   "cooling setpoint not met absent",
			get:    f.HoursCoolingSetpointNotMet,
			absent: true,
		},
		{
			name: "cost row with units column",
			get:  func(ctx context.Context) (float64, bool, error) { return f.AnnualTotalCost(ctx, ir.Electricity) },
			want: 1000,
		},
		{
			name: "cost row with units in the name",
			get:  func(ctx context.Context) (float64, bool, error) { return f.AnnualTotalCost(ctx, ir.NaturalGas) },
			want: 200,
		},
		{
			name: "cost through the tariff summary",
			get:  func(ctx context.Context) (float64, bool, error) { return f.AnnualTotalCost(ctx, ir.Propane) },
			want: 321.5,
		},
		{
			name:   "fuel without a tariff",
			get:    func(ctx context.Context) (float64, bool, error) { return f.AnnualTotalCost(ctx, ir.Diesel) },
			absent: true,
		},
		{
			name: "cost per building area",
			get: func(ctx context.Context) (float64, bool, error) {
				return f.AnnualTotalCostPerBldgArea(ctx, ir.Electricity)
			},
			want: 10,
		},
		{
			name: "cost per zero conditioned area",
			get: func(ctx context.Context) (float64, bool, error) {
				return f.AnnualTotalCostPerNetConditionedBldgArea(ctx, ir.Electricity)
			},
			absent: true,
		},
		{
			name: "utility cost sums every fuel",
			get:  f.AnnualTotalUtilityCost,
			want: 1521.5,
		},
		{
			name: "economics energy cost",
			get:  f.EconomicsEnergyCost,
			want: 1521.5,
		},
		{
			name: "sub surface names are upper-cased",
			get:  func(ctx context.Context) (float64, bool, error) { return f.AssemblyUFactor(ctx, "South Window") },
			want: 2.35,
		},
		{
			name: "assembly SHGC",
			get:  func(ctx context.Context) (float64, bool, error) { return f.AssemblySHGC(ctx, "south window") },
			want: 0.39,
		},
		{
			name: "assembly visible transmittance absent",
			get: func(ctx context.Context) (float64, bool, error) {
				return f.AssemblyVisibleTransmittance(ctx, "SOUTH WINDOW")
			},
			absent: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := tt.get(ctx)
			require.NoError(t, err)
			if tt.absent {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestTabularValue_NonNumericCellIsAbsent(t *testing.T) {
	f := tabularFixture(t)

	_, ok, err := f.TabularValue(context.Background(), querysql.TabularPredicate{
		ReportName: "Economics Results Summary Report",
		TableName:  "Tariff Summary",
		ColumnName: "Meter",
	})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHoursSimulated_FromCalendar(t *testing.T) {
	f := openFixture(t, meterFixture(t))

	hours, ok, err := f.HoursSimulated(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 24.0, hours)
}

func TestHoursSimulated_NoMeters(t *testing.T) {
	f := openFixture(t, testutil.NewResultFile(t, testutil.DefaultSpec(1)))

	_, ok, err := f.HoursSimulated(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNetSiteEnergy_FromMeters(t *testing.T) {
	r := testutil.NewResultFile(t, testutil.DefaultSpec(1))
	r.AddSeries(testutil.HourlyMeter("Electricity:Facility", 24, 125e6))
	r.AddSeries(testutil.HourlyMeter("EnergyTransfer:Facility", 24, 1e9))
	f := openFixture(t, r)

	gj, ok, err := f.NetSiteEnergy(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 3.0, gj, 1e-9)
}

func TestAnnualTotalUtilityCost_NoCosts(t *testing.T) {
	f := openFixture(t, meterFixture(t))

	_, ok, err := f.AnnualTotalUtilityCost(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}
