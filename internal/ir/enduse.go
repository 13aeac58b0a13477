package ir

import "strings"

// FuelType is a fuel column of the annual end-use tables.
type FuelType int

const (
	Electricity FuelType = iota + 1
	NaturalGas
	Gasoline
	Diesel
	Coal
	FuelOilNo1
	FuelOilNo2
	Propane
	OtherFuel1
	OtherFuel2
	DistrictCooling
	DistrictHeatingWater
	DistrictHeatingSteam
	Water
)

var fuelLabels = map[FuelType]string{
	Electricity:          "Electricity",
	NaturalGas:           "Natural Gas",
	Gasoline:             "Gasoline",
	Diesel:               "Diesel",
	Coal:                 "Coal",
	FuelOilNo1:           "Fuel Oil No 1",
	FuelOilNo2:           "Fuel Oil No 2",
	Propane:              "Propane",
	OtherFuel1:           "Other Fuel 1",
	OtherFuel2:           "Other Fuel 2",
	DistrictCooling:      "District Cooling",
	DistrictHeatingWater: "District Heating Water",
	DistrictHeatingSteam: "District Heating Steam",
	Water:                "Water",
}

// AllFuels lists every fuel in table column order.
func AllFuels() []FuelType {
	return []FuelType{
		Electricity, NaturalGas, Gasoline, Diesel, Coal, FuelOilNo1, FuelOilNo2,
		Propane, OtherFuel1, OtherFuel2, DistrictCooling, DistrictHeatingWater,
		DistrictHeatingSteam, Water,
	}
}

// Label is the column name used in the end-use tables.
func (f FuelType) Label() string {
	return fuelLabels[f]
}

func (f FuelType) String() string {
	return f.Label()
}

// Units is the fixed unit of end-use totals for this fuel.
func (f FuelType) Units() string {
	if f == Water {
		return "m3"
	}
	return "GJ"
}

// MeterName is the facility meter the fuel is reported under
// (e.g. "NATURALGAS:FACILITY").
func (f FuelType) MeterName() string {
	return strings.ToUpper(strings.ReplaceAll(f.Label(), " ", "")) + ":FACILITY"
}

// ParseFuelType accepts the column label, ignoring case and spaces.
func ParseFuelType(s string) (FuelType, bool) {
	want := squash(s)
	for _, f := range AllFuels() {
		if squash(f.Label()) == want {
			return f, true
		}
	}
	return 0, false
}

// EndUseCategory is a row of the annual end-use tables.
type EndUseCategory int

const (
	Heating EndUseCategory = iota + 1
	Cooling
	InteriorLighting
	ExteriorLighting
	InteriorEquipment
	ExteriorEquipment
	Fans
	Pumps
	HeatRejection
	Humidification
	HeatRecovery
	WaterSystems
	Refrigeration
	Generators
	TotalEndUses
)

type categoryInfo struct {
	label string // row name in "End Uses"
	meter string // prefix used by the monthly meter columns
}

var categories = map[EndUseCategory]categoryInfo{
	Heating:           {"Heating", "Heating"},
	Cooling:           {"Cooling", "Cooling"},
	InteriorLighting:  {"Interior Lighting", "InteriorLights"},
	ExteriorLighting:  {"Exterior Lighting", "ExteriorLights"},
	InteriorEquipment: {"Interior Equipment", "InteriorEquipment"},
	ExteriorEquipment: {"Exterior Equipment", "ExteriorEquipment"},
	Fans:              {"Fans", "Fans"},
	Pumps:             {"Pumps", "Pumps"},
	HeatRejection:     {"Heat Rejection", "HeatRejection"},
	Humidification:    {"Humidification", "Humidifier"},
	HeatRecovery:      {"Heat Recovery", "HeatRecovery"},
	WaterSystems:      {"Water Systems", "WaterSystems"},
	Refrigeration:     {"Refrigeration", "Refrigeration"},
	Generators:        {"Generators", "Generators"},
	TotalEndUses:      {"Total End Uses", ""},
}

// AllCategories lists every end-use row, totals last.
func AllCategories() []EndUseCategory {
	return []EndUseCategory{
		Heating, Cooling, InteriorLighting, ExteriorLighting, InteriorEquipment,
		ExteriorEquipment, Fans, Pumps, HeatRejection, Humidification,
		HeatRecovery, WaterSystems, Refrigeration, Generators, TotalEndUses,
	}
}

// Label is the row name used in the end-use tables.
func (c EndUseCategory) Label() string {
	return categories[c].label
}

func (c EndUseCategory) String() string {
	return c.Label()
}

// MeterPrefix is the prefix of the monthly meter columns
// (e.g. "INTERIORLIGHTS" in "INTERIORLIGHTS:ELECTRICITY").
func (c EndUseCategory) MeterPrefix() string {
	return strings.ToUpper(categories[c].meter)
}

// ParseEndUseCategory accepts the row label, ignoring case and spaces.
func ParseEndUseCategory(s string) (EndUseCategory, bool) {
	want := squash(s)
	for _, c := range AllCategories() {
		if squash(c.Label()) == want {
			return c, true
		}
	}
	return 0, false
}
