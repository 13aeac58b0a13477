package version

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Flags is the schema capability state of one open connection. It is computed
// once by Detect and passed by value to every SQL builder.
type Flags struct {
	// Raw is the EnergyPlusVersion column as stored.
	Raw string `json:"raw"`

	// Version is the parsed producer version; zero when Raw did not parse.
	Version Version `json:"version"`

	// Supported is false for versions outside the known range and for
	// unparseable version strings.
	Supported bool `json:"supported"`

	// HasYear is true when the Time table carries a populated Year column.
	HasYear bool `json:"has_year"`

	// HasIlluminanceMapYear is true when DaylightMapHourlyReports has Year.
	HasIlluminanceMapYear bool `json:"has_illuminance_map_year"`

	// IlluminanceMapHasOnly2RefPts selects the ReferencePt1/ReferencePt2
	// columns over the comma separated ReferencePts column.
	IlluminanceMapHasOnly2RefPts bool `json:"illuminance_map_has_only_2_ref_pts"`

	// RunPeriodIntervalFromCalendar marks producers whose run period rows
	// carry no usable Interval.
	RunPeriodIntervalFromCalendar bool `json:"run_period_interval_from_calendar"`
}

// WriterFlags are the flags of a file this module creates.
func WriterFlags() Flags {
	return Flags{
		Raw:                   Current.String(),
		Version:               Current,
		Supported:             true,
		HasYear:               true,
		HasIlluminanceMapYear: true,
	}
}

// Querier is the subset of *sql.DB and *sql.Conn that Detect needs.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ErrNoVersion is returned when the file has no producer version. Such a
// file is not a result file.
var ErrNoVersion = errors.New("result file has no EnergyPlus version")

const (
	selectVersion     = "SELECT EnergyPlusVersion FROM Simulations ORDER BY SimulationIndex LIMIT 1"
	selectMaxYear     = "SELECT MAX(Year) FROM Time"
	countNonRunPeriod = "SELECT COUNT(ReportingFrequency) FROM ReportDataDictionary WHERE ReportingFrequency NOT LIKE '%Run Period%'"
)

// Detect reads the producer version and inspects the calendar to build the
// connection's Flags.
//
// An unparseable version is not an error: it is logged, Supported is false and
// the remaining flags fall back to the current schema.
func Detect(ctx context.Context, q Querier, logger *slog.Logger) (Flags, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var raw sql.NullString
	if err := q.QueryRowContext(ctx, selectVersion).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Flags{}, ErrNoVersion
		}
		return Flags{}, fmt.Errorf("read version: %w", err)
	}
	if strings.TrimSpace(raw.String) == "" {
		return Flags{}, ErrNoVersion
	}

	flags := Flags{Raw: raw.String}
	v, err := Parse(raw.String)
	if err != nil {
		logger.Warn("unparseable EnergyPlus version, treating file as unsupported",
			"version", raw.String, "error", err)
		v = Current
	} else {
		flags.Version = v
		flags.Supported = v.Supported()
		if !flags.Supported {
			logger.Warn("using unsupported EnergyPlus version", "version", v.String())
		}
	}

	flags.HasIlluminanceMapYear = v.AtLeast(illuminanceYear)
	flags.IlluminanceMapHasOnly2RefPts = flags.HasIlluminanceMapYear && v.Less(illuminanceNRefPt)
	flags.RunPeriodIntervalFromCalendar = v.Compare(calendarRunPeriod) == 0

	if v.AtLeast(yearColumn) {
		hasYear, err := detectYear(ctx, q, logger, v)
		if err != nil {
			return Flags{}, err
		}
		flags.HasYear = hasYear
	}

	return flags, nil
}

// detectYear reports whether the Year column is populated. Some producers
// declare it and always write zero.
func detectYear(ctx context.Context, q Querier, logger *slog.Logger, v Version) (bool, error) {
	var maxYear sql.NullInt64
	if err := q.QueryRowContext(ctx, selectMaxYear).Scan(&maxYear); err != nil {
		return false, fmt.Errorf("check Time.Year: %w", err)
	}
	if maxYear.Valid && maxYear.Int64 > 0 {
		return true, nil
	}

	var others sql.NullInt64
	if err := q.QueryRowContext(ctx, countNonRunPeriod).Scan(&others); err != nil {
		logger.Debug("counting non run period series failed", "error", err)
	}
	if others.Int64 > 0 {
		logger.Warn("EnergyPlus version should have a Year field but it is always zero",
			"version", v.String())
	} else {
		logger.Info("result file has no Year field since no output was requested below Run Period frequency",
			"version", v.String())
	}
	return false, nil
}
