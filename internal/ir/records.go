package ir

import "time"

// SimulationSpec describes the simulation header a new result file is
// seeded with.
type SimulationSpec struct {
	// EnvironmentName names the single environment period. Empty means
	// "RUN PERIOD 1".
	EnvironmentName string `json:"environment_name" yaml:"environment_name"`

	// EnvironmentType defaults to WeatherRunPeriod when zero.
	EnvironmentType EnvironmentType `json:"environment_type" yaml:"environment_type"`

	// StartDate and EndDate bound the calendar, both inclusive. Only the
	// date part is used; 24 hourly Time rows are written per day.
	StartDate time.Time `json:"start_date" yaml:"start_date"`
	EndDate   time.Time `json:"end_date" yaml:"end_date"`

	// Holidays are written with DayType "Holiday".
	Holidays []time.Time `json:"holidays,omitempty" yaml:"holidays,omitempty"`

	// Timestamp is recorded in the Simulations row. Zero means now.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// IsHoliday reports whether d falls on one of the spec's holidays.
func (s SimulationSpec) IsHoliday(d time.Time) bool {
	for _, h := range s.Holidays {
		if h.Year() == d.Year() && h.YearDay() == d.YearDay() {
			return true
		}
	}
	return false
}

// SeriesRecord is a time series together with the catalog columns it is
// written under.
type SeriesRecord struct {
	IsMeter      bool               `json:"is_meter" yaml:"is_meter"`
	Type         string             `json:"type" yaml:"type"`
	IndexGroup   string             `json:"index_group" yaml:"index_group"`
	TimestepType string             `json:"timestep_type" yaml:"timestep_type"`
	KeyValue     string             `json:"key_value" yaml:"key_value"`
	Name         string             `json:"name" yaml:"name"`
	Frequency    ReportingFrequency `json:"frequency" yaml:"frequency"`
	ScheduleName string             `json:"schedule_name,omitempty" yaml:"schedule_name,omitempty"`
	Units        string             `json:"units" yaml:"units"`
	Series       TimeSeries         `json:"series" yaml:"series"`
}

// Zone is one row of the Zones table.
type Zone struct {
	Name                  string  `json:"name" yaml:"name"`
	RelNorth              float64 `json:"rel_north" yaml:"rel_north"`
	OriginX               float64 `json:"origin_x" yaml:"origin_x"`
	OriginY               float64 `json:"origin_y" yaml:"origin_y"`
	OriginZ               float64 `json:"origin_z" yaml:"origin_z"`
	CentroidX             float64 `json:"centroid_x" yaml:"centroid_x"`
	CentroidY             float64 `json:"centroid_y" yaml:"centroid_y"`
	CentroidZ             float64 `json:"centroid_z" yaml:"centroid_z"`
	OfType                int     `json:"of_type" yaml:"of_type"`
	Multiplier            float64 `json:"multiplier" yaml:"multiplier"`
	ListMultiplier        float64 `json:"list_multiplier" yaml:"list_multiplier"`
	MinimumX              float64 `json:"minimum_x" yaml:"minimum_x"`
	MaximumX              float64 `json:"maximum_x" yaml:"maximum_x"`
	MinimumY              float64 `json:"minimum_y" yaml:"minimum_y"`
	MaximumY              float64 `json:"maximum_y" yaml:"maximum_y"`
	MinimumZ              float64 `json:"minimum_z" yaml:"minimum_z"`
	MaximumZ              float64 `json:"maximum_z" yaml:"maximum_z"`
	CeilingHeight         float64 `json:"ceiling_height" yaml:"ceiling_height"`
	Volume                float64 `json:"volume" yaml:"volume"`
	InsideConvectionAlgo  int     `json:"inside_convection_algo" yaml:"inside_convection_algo"`
	OutsideConvectionAlgo int     `json:"outside_convection_algo" yaml:"outside_convection_algo"`
	FloorArea             float64 `json:"floor_area" yaml:"floor_area"`
	ExtGrossWallArea      float64 `json:"ext_gross_wall_area" yaml:"ext_gross_wall_area"`
	ExtNetWallArea        float64 `json:"ext_net_wall_area" yaml:"ext_net_wall_area"`
	ExtWindowArea         float64 `json:"ext_window_area" yaml:"ext_window_area"`
	IsPartOfTotalArea     bool    `json:"is_part_of_total_area" yaml:"is_part_of_total_area"`
}

// IlluminanceMapRecord is a daylighting map with one grid per timestamp.
// Maps[k] is sampled at Times[k] and must be len(X) by len(Y).
type IlluminanceMapRecord struct {
	ZoneName    string        `json:"zone_name" yaml:"zone_name"`
	Name        string        `json:"name" yaml:"name"`
	Environment string        `json:"environment" yaml:"environment"`
	Times       []time.Time   `json:"times" yaml:"times"`
	X           []float64     `json:"x" yaml:"x"`
	Y           []float64     `json:"y" yaml:"y"`
	Z           float64       `json:"z" yaml:"z"`
	Maps        [][][]float64 `json:"maps" yaml:"maps"`
}
