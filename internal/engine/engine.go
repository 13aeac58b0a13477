package engine

import (
	"log/slog"

	"github.com/roach88/epsql/internal/dictionary"
	"github.com/roach88/epsql/internal/store"
	"github.com/roach88/epsql/internal/version"
)

// Engine answers time-series queries for one open result file.
//
// Thread-safety model:
//   - Expand and the dictionary reads: safe from any goroutine
//   - BuildSeries and TimeSeries: serialized by the store's single connection
//   - the series cache: guarded by its own mutex
type Engine struct {
	store  *store.Store
	flags  version.Flags
	dict   *dictionary.Dictionary
	cache  *SeriesCache
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Default: the store's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithCache shares a series cache. Default: a new empty cache.
func WithCache(c *SeriesCache) Option {
	return func(e *Engine) {
		e.cache = c
	}
}

// New creates an Engine over an open store, its detected flags and its
// dictionary.
func New(s *store.Store, flags version.Flags, dict *dictionary.Dictionary, opts ...Option) *Engine {
	e := &Engine{
		store: s,
		flags: flags,
		dict:  dict,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = s.Logger()
	}
	if e.cache == nil {
		e.cache = NewSeriesCache()
	}
	return e
}

// Dictionary returns the dictionary the engine expands against.
func (e *Engine) Dictionary() *dictionary.Dictionary {
	return e.dict
}

// Flags returns the capability flags SQL is generated under.
func (e *Engine) Flags() version.Flags {
	return e.flags
}

// Cache returns the series cache.
func (e *Engine) Cache() *SeriesCache {
	return e.cache
}
