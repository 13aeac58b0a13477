package engine

import (
	"context"
	"fmt"

	"github.com/roach88/epsql/internal/dictionary"
	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/queryir"
	"github.com/roach88/epsql/internal/querysql"
	"github.com/roach88/epsql/internal/store"
)

// Lookup resolves a literal (environment, frequency, name, key) tuple with
// the fallbacks Expand applies to literal names. The key value is matched
// the same way as the name.
func (e *Engine) Lookup(env, freq, name, key string) (dictionary.Entry, bool) {
	envName, ok := e.resolveEnvironment(env)
	if !ok {
		return dictionary.Entry{}, false
	}
	for _, label := range e.frequencyLabels(envName, freq) {
		storedName, ok := matchFold(name, e.dict.AvailableNames(envName, label))
		if !ok {
			continue
		}
		storedKey, ok := matchFold(key, e.dict.AvailableKeyValues(envName, label, storedName))
		if !ok {
			continue
		}
		if entry, ok := e.dict.Lookup(envName, label, storedName, storedKey); ok {
			return entry, true
		}
	}
	e.logger.Debug("series not in dictionary",
		"environment", env, "frequency", freq, "name", name, "key", key)
	return dictionary.Entry{}, false
}

// TimeSeries returns the series of an entry, building and caching it on
// first use.
func (e *Engine) TimeSeries(ctx context.Context, entry dictionary.Entry) (ir.TimeSeries, bool, error) {
	if ts, ok := e.cache.Get(entry.ID); ok {
		return ts, true, nil
	}
	ts, ok, err := e.BuildSeries(ctx, entry)
	if err != nil || !ok {
		return ir.TimeSeries{}, false, err
	}
	e.cache.Put(entry.ID, ts)
	return ts, true, nil
}

// SeriesFor returns one series by literal identifiers.
func (e *Engine) SeriesFor(ctx context.Context, env, freq, name, key string) (ir.TimeSeries, bool, error) {
	entry, ok := e.Lookup(env, freq, name, key)
	if !ok {
		return ir.TimeSeries{}, false, nil
	}
	return e.TimeSeries(ctx, entry)
}

// SeriesAll returns the series of every key value of a literal name.
func (e *Engine) SeriesAll(ctx context.Context, env, freq, name string) ([]ir.TimeSeries, error) {
	out := []ir.TimeSeries{}
	envName, ok := e.resolveEnvironment(env)
	if !ok {
		return out, nil
	}
	label, storedName, ok := e.resolveName(envName, freq, name)
	if !ok {
		return out, nil
	}
	for _, key := range e.dict.AvailableKeyValues(envName, label, storedName) {
		entry, ok := e.dict.Lookup(envName, label, storedName, key)
		if !ok {
			continue
		}
		ts, ok, err := e.TimeSeries(ctx, entry)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, ts)
		}
	}
	return out, nil
}

// SeriesForQuery expands q and reads the result. Exactly one resolved
// query is required; none or several are logged and yield no series.
func (e *Engine) SeriesForQuery(ctx context.Context, q queryir.Query) ([]ir.TimeSeries, error) {
	resolved := e.Expand(q)
	switch len(resolved) {
	case 1:
		return e.SeriesForResolved(ctx, resolved[0])
	case 0:
		e.logger.Info("no series match query", "query", q.String())
	default:
		e.logger.Info("query expands to more than one series set", "query", q.String(), "resolved", len(resolved))
	}
	return []ir.TimeSeries{}, nil
}

// SeriesForResolved reads every key value of a vetted query.
func (e *Engine) SeriesForResolved(ctx context.Context, rq ResolvedQuery) ([]ir.TimeSeries, error) {
	if !rq.vetted {
		return nil, notVetted(rq)
	}
	out := make([]ir.TimeSeries, 0, len(rq.KeyValues))
	for _, key := range rq.KeyValues {
		entry, ok := e.dict.Lookup(rq.Environment, rq.Frequency, rq.Name, key)
		if !ok {
			continue
		}
		ts, ok, err := e.TimeSeries(ctx, entry)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, ts)
		}
	}
	return out, nil
}

// RunPeriodValue returns the single run period sample of a series.
func (e *Engine) RunPeriodValue(ctx context.Context, env, name, key string) (float64, bool, error) {
	entry, ok := e.Lookup(env, runPeriodLabel, name, key)
	if !ok {
		return 0, false, nil
	}
	st, err := e.store.Prepare(ctx, querysql.RunPeriodValue(entry.Source),
		store.Int(entry.RecordIndex), store.Int(entry.EnvIndex))
	if err != nil {
		return 0, false, fmt.Errorf("run period value %s: %w", entry, err)
	}
	defer st.Close()
	return st.FirstFloat(ctx)
}
