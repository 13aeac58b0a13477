package sqlfile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/epsql/internal/dictionary"
	"github.com/roach88/epsql/internal/engine"
	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/store"
	"github.com/roach88/epsql/internal/version"
)

// Options configures a File.
type Options struct {
	// BusyTimeout bounds the wait on a locked file. Zero means
	// store.DefaultBusyTimeout.
	BusyTimeout time.Duration

	// CreateIndexes adds the optional read indexes at open.
	CreateIndexes bool

	// Logger is tagged with the session id and path. Nil means
	// slog.Default().
	Logger *slog.Logger
}

// File is an open result file.
//
// The dictionary and engine are swapped as a unit whenever the catalog
// changes (an insert or Reopen); readers take the pair under a read lock.
type File struct {
	path    string
	opts    Options
	session string
	logger  *slog.Logger
	cache   *engine.SeriesCache

	mu     sync.RWMutex
	store  *store.Store
	flags  version.Flags
	dict   *dictionary.Dictionary
	engine *engine.Engine
}

// Open opens an existing result file for reading. A missing file, a file
// that is not SQLite, or one without a producer version is
// connection-fatal.
func Open(ctx context.Context, path string, opts Options) (*File, error) {
	f := newFile(path, opts)
	s, err := store.Open(ctx, path, f.storeOptions())
	if err != nil {
		return nil, err
	}
	if err := f.attach(ctx, s); err != nil {
		s.Close()
		return nil, err
	}
	return f, nil
}

// Create opens path for writing. A new file gets the result file schema,
// a Simulations row, one environment period and its hourly calendar from
// spec; an existing file is opened as is. The file is then reopened so
// its flags are detected from data.
func Create(ctx context.Context, path string, spec ir.SimulationSpec, opts Options) (*File, error) {
	f := newFile(path, opts)
	s, created, err := store.Create(ctx, path, f.storeOptions())
	if err != nil {
		return nil, err
	}
	if created {
		if _, err := s.AddSimulation(ctx, version.WriterFlags(), spec); err != nil {
			s.Close()
			return nil, fmt.Errorf("create %s: %w", path, err)
		}
		f.logger.Info("created result file", "environment", spec.EnvironmentName)
	}
	if err := s.Close(); err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return Open(ctx, path, opts)
}

func newFile(path string, opts Options) *File {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	session := newSessionID()
	return &File{
		path:    path,
		opts:    opts,
		session: session,
		logger:  logger.With("session", session, "path", path),
		cache:   engine.NewSeriesCache(),
	}
}

func (f *File) storeOptions() store.Options {
	return store.Options{BusyTimeout: f.opts.BusyTimeout, Logger: f.logger}
}

// attach detects flags on s and builds the dictionary and engine over it.
func (f *File) attach(ctx context.Context, s *store.Store) error {
	flags, dict, err := f.scan(ctx, s)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.swap(s, flags, dict)
	return nil
}

// scan detects flags on s and builds its dictionary. It touches no File
// state beyond the options and logger.
func (f *File) scan(ctx context.Context, s *store.Store) (version.Flags, *dictionary.Dictionary, error) {
	flags, err := version.Detect(ctx, s.DB(), f.logger)
	if err != nil {
		op := "detect version"
		if errors.Is(err, version.ErrNoVersion) {
			op = "validate result file"
		}
		return version.Flags{}, nil, &store.Error{Code: store.ErrCodeConnectionFatal, Op: op, Path: f.path, Step: store.StepError, Err: err}
	}

	if f.opts.CreateIndexes {
		applied := s.CreateIndexes(ctx)
		f.logger.Debug("created indexes", "indexes", applied)
	}

	dict, err := dictionary.Build(ctx, s, f.logger)
	if err != nil {
		return version.Flags{}, nil, err
	}
	return flags, dict, nil
}

// swap installs a scanned connection. Callers hold f.mu.
func (f *File) swap(s *store.Store, flags version.Flags, dict *dictionary.Dictionary) {
	f.store = s
	f.flags = flags
	f.install(dict)

	f.logger.Debug("opened result file",
		"version", flags.Version.String(),
		"supported", flags.Supported,
		"has_year", flags.HasYear,
		"series", dict.Len())
}

// install swaps in a new dictionary. Cached series are keyed by entry id,
// so the cache is emptied with it. Callers hold f.mu.
func (f *File) install(dict *dictionary.Dictionary) {
	f.cache.Reset()
	f.dict = dict
	f.engine = engine.New(f.store, f.flags, dict, engine.WithLogger(f.logger), engine.WithCache(f.cache))
}

// rebuild rescans the catalog after a write.
func (f *File) rebuild(ctx context.Context) error {
	f.mu.RLock()
	s := f.store
	f.mu.RUnlock()

	dict, err := dictionary.Build(ctx, s, f.logger)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.install(dict)
	return nil
}

// current returns the engine and store in use.
func (f *File) current() (*engine.Engine, *store.Store) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.engine, f.store
}

// Close closes the connection. The File is unusable afterwards.
func (f *File) Close() error {
	f.mu.RLock()
	s := f.store
	f.mu.RUnlock()
	if s == nil {
		return nil
	}
	return s.Close()
}

// Reopen closes and reopens the connection, recomputing flags and the
// dictionary and dropping every cached series. The File is locked for the
// whole swap, so a read that starts meanwhile waits for the new connection.
// A read already under way may still see the old one closed. On failure
// the closed connection stays installed until the next successful Reopen.
func (f *File) Reopen(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.store != nil {
		if err := f.store.Close(); err != nil {
			f.logger.Warn("close before reopen failed", "error", err)
		}
	}
	s, err := store.Open(ctx, f.path, f.storeOptions())
	if err != nil {
		return err
	}
	flags, dict, err := f.scan(ctx, s)
	if err != nil {
		s.Close()
		return err
	}
	f.swap(s, flags, dict)
	f.logger.Info("reopened result file")
	return nil
}

// Path returns the file path.
func (f *File) Path() string {
	return f.path
}

// Session returns the id tagged on every log entry of this File.
func (f *File) Session() string {
	return f.session
}

// Flags returns the capability flags detected at open.
func (f *File) Flags() version.Flags {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.flags
}

// EnergyPlusVersion returns the producer version string as stored.
func (f *File) EnergyPlusVersion() string {
	return f.Flags().Raw
}

// Dictionary returns the current series catalog.
func (f *File) Dictionary() *dictionary.Dictionary {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dict
}

// Cache returns the series cache shared by every engine of this File.
func (f *File) Cache() *engine.SeriesCache {
	return f.cache
}

// Store returns the underlying connection.
func (f *File) Store() *store.Store {
	_, s := f.current()
	return s
}

// CreateIndexes adds the optional read indexes and returns the names
// applied. Failures are logged, never returned.
func (f *File) CreateIndexes(ctx context.Context) []string {
	return f.Store().CreateIndexes(ctx)
}

// RemoveIndexes drops the optional read indexes and returns the names
// dropped.
func (f *File) RemoveIndexes(ctx context.Context) []string {
	return f.Store().RemoveIndexes(ctx)
}
