// Package sqlfile is the entry point for reading and writing a result file.
//
// A File ties one store connection to the capability Flags detected from
// it, the Dictionary built from its catalog and the engine that answers
// time-series queries. Every other accessor (tabular summaries,
// illuminance maps, the write path) hangs off the same File so that SQL is
// always generated under the flags of the file it runs against.
//
// Opening:
//
//	f, err := sqlfile.Open(ctx, "eplusout.sql", sqlfile.Options{})
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	ts, ok, err := f.TimeSeries(ctx, "RUN PERIOD 1", "Hourly", "Electricity:Facility", "")
//
// Misses are not errors: accessors return ok=false or an empty slice when
// the file holds no matching data, and reserve errors for connection and
// statement failures.
package sqlfile
