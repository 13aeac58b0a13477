package sqlfile

import (
	"context"

	"github.com/roach88/epsql/internal/ir"
)

// AddEnvironment appends a simulation with one environment period and its
// hourly calendar, then rescans the catalog. It returns the period index.
func (f *File) AddEnvironment(ctx context.Context, spec ir.SimulationSpec) (int, error) {
	_, s := f.current()
	idx, err := s.AddSimulation(ctx, f.Flags(), spec)
	if err != nil {
		return 0, err
	}
	return idx, f.rebuild(ctx)
}

// InsertTimeSeries writes a series against the existing calendar and
// rescans the catalog. It returns the new catalog index.
func (f *File) InsertTimeSeries(ctx context.Context, rec ir.SeriesRecord) (int, error) {
	_, s := f.current()
	idx, err := s.InsertTimeSeries(ctx, f.Flags(), rec)
	if err != nil {
		return 0, err
	}
	return idx, f.rebuild(ctx)
}

// InsertZone writes a zone and returns its index.
func (f *File) InsertZone(ctx context.Context, z ir.Zone) (int, error) {
	_, s := f.current()
	return s.InsertZone(ctx, z)
}

// InsertIlluminanceMap writes a map and its hourly reports and returns the
// map number. The zone must already exist.
func (f *File) InsertIlluminanceMap(ctx context.Context, rec ir.IlluminanceMapRecord) (int, error) {
	_, s := f.current()
	return s.InsertIlluminanceMap(ctx, f.Flags(), rec)
}
