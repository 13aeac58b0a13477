package dictionary

import (
	"fmt"
	"log/slog"

	"github.com/roach88/epsql/internal/ir"
	"github.com/roach88/epsql/internal/querysql"
)

// EntryID identifies an Entry within one Dictionary.
type EntryID int

// Environment is one row of the environment period catalog.
type Environment struct {
	Index int
	// Name is upper-cased.
	Name string
	Type ir.EnvironmentType
}

// Record is one row of a series catalog.
type Record struct {
	Source    querysql.Source
	Index     int
	Name      string
	KeyValue  string
	Frequency string
	Units     string
}

// Entry is one catalog record within one environment period.
type Entry struct {
	ID          EntryID
	Source      querysql.Source
	RecordIndex int
	EnvIndex    int
	Environment string
	Frequency   string
	Name        string
	KeyValue    string
	Units       string
}

// IsMeter reports whether the entry comes from the meter catalog.
func (e Entry) IsMeter() bool {
	return e.Source == querysql.MeterSource
}

func (e Entry) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", e.Environment, e.Frequency, e.Name, e.KeyValue)
}

type pairKey struct {
	source querysql.Source
	record int
	env    int
}

type envFreqKey struct {
	env, freq string
}

type envFreqNameKey struct {
	env, freq, name string
}

type compositeKey struct {
	env, freq, name, key string
}

// Dictionary is the in-memory series index.
type Dictionary struct {
	entries []Entry
	envs    []Environment

	envByName     map[string]int
	byPair        map[pairKey]EntryID
	byComposite   map[compositeKey]EntryID
	byEnv         map[string][]EntryID
	byEnvFreq     map[envFreqKey][]EntryID
	byEnvFreqName map[envFreqNameKey][]EntryID
	byName        map[string][]EntryID
	byKeyValue    map[string][]EntryID
	byFrequency   map[string][]EntryID
}

// New builds a Dictionary from catalog rows. Environment names are
// upper-cased; the other fields are kept as stored, trimmed and in NFC.
// A repeated environment name or a repeated composite key keeps the first
// occurrence and logs a warning.
func New(envs []Environment, records []Record, logger *slog.Logger) *Dictionary {
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dictionary{
		entries:       make([]Entry, 0, len(envs)*len(records)),
		envs:          make([]Environment, 0, len(envs)),
		envByName:     make(map[string]int, len(envs)),
		byPair:        make(map[pairKey]EntryID),
		byComposite:   make(map[compositeKey]EntryID),
		byEnv:         make(map[string][]EntryID),
		byEnvFreq:     make(map[envFreqKey][]EntryID),
		byEnvFreqName: make(map[envFreqNameKey][]EntryID),
		byName:        make(map[string][]EntryID),
		byKeyValue:    make(map[string][]EntryID),
		byFrequency:   make(map[string][]EntryID),
	}

	for _, env := range envs {
		env.Name = ir.UpperName(env.Name)
		if _, dup := d.envByName[env.Name]; dup {
			logger.Warn("duplicate environment name", "environment", env.Name, "index", env.Index)
			continue
		}
		d.envByName[env.Name] = len(d.envs)
		d.envs = append(d.envs, env)
	}

	for _, rec := range records {
		name := ir.Canonical(rec.Name)
		key := ir.Canonical(rec.KeyValue)
		freq := ir.Canonical(rec.Frequency)
		for _, env := range d.envs {
			pk := pairKey{source: rec.Source, record: rec.Index, env: env.Index}
			if _, dup := d.byPair[pk]; dup {
				continue
			}
			ck := compositeKey{env: env.Name, freq: freq, name: name, key: key}
			if _, dup := d.byComposite[ck]; dup {
				logger.Warn("catalog entry shadowed by an earlier record",
					"environment", env.Name,
					"frequency", freq,
					"name", name,
					"key", key,
					"source", rec.Source,
					"index", rec.Index,
					"kept_index", d.entries[d.byComposite[ck]].RecordIndex)
				continue
			}

			id := EntryID(len(d.entries))
			d.entries = append(d.entries, Entry{
				ID:          id,
				Source:      rec.Source,
				RecordIndex: rec.Index,
				EnvIndex:    env.Index,
				Environment: env.Name,
				Frequency:   freq,
				Name:        name,
				KeyValue:    key,
				Units:       rec.Units,
			})

			d.byPair[pk] = id
			d.byComposite[ck] = id
			d.byEnv[env.Name] = append(d.byEnv[env.Name], id)
			efk := envFreqKey{env: env.Name, freq: freq}
			d.byEnvFreq[efk] = append(d.byEnvFreq[efk], id)
			efnk := envFreqNameKey{env: env.Name, freq: freq, name: name}
			d.byEnvFreqName[efnk] = append(d.byEnvFreqName[efnk], id)
			d.byName[name] = append(d.byName[name], id)
			d.byKeyValue[key] = append(d.byKeyValue[key], id)
			d.byFrequency[freq] = append(d.byFrequency[freq], id)
		}
	}

	return d
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Entries returns a copy of every entry in ID order.
func (d *Dictionary) Entries() []Entry {
	return append([]Entry{}, d.entries...)
}

// Entry returns the entry with the given ID.
func (d *Dictionary) Entry(id EntryID) (Entry, bool) {
	if id < 0 || int(id) >= len(d.entries) {
		return Entry{}, false
	}
	return d.entries[id], true
}

// Lookup finds the entry for an exact (environment, frequency, name, key)
// tuple. The environment is matched upper-cased; the other fields must
// match as stored.
func (d *Dictionary) Lookup(env, freq, name, key string) (Entry, bool) {
	id, ok := d.byComposite[compositeKey{
		env:  ir.UpperName(env),
		freq: ir.Canonical(freq),
		name: ir.Canonical(name),
		key:  ir.Canonical(key),
	}]
	if !ok {
		return Entry{}, false
	}
	return d.entries[id], true
}

// LookupRecord finds the entry for a catalog record in one environment
// period.
func (d *Dictionary) LookupRecord(src querysql.Source, recordIndex, envIndex int) (Entry, bool) {
	id, ok := d.byPair[pairKey{source: src, record: recordIndex, env: envIndex}]
	if !ok {
		return Entry{}, false
	}
	return d.entries[id], true
}

// Environments returns the environment periods in catalog order.
func (d *Dictionary) Environments() []Environment {
	return append([]Environment{}, d.envs...)
}

// EnvironmentIndex returns the period index for an environment name.
func (d *Dictionary) EnvironmentIndex(name string) (int, bool) {
	pos, ok := d.envByName[ir.UpperName(name)]
	if !ok {
		return 0, false
	}
	return d.envs[pos].Index, true
}

// EnvironmentType returns the type recorded for an environment name.
func (d *Dictionary) EnvironmentType(name string) (ir.EnvironmentType, bool) {
	pos, ok := d.envByName[ir.UpperName(name)]
	if !ok || !d.envs[pos].Type.Valid() {
		return 0, false
	}
	return d.envs[pos].Type, true
}

// EnvironmentsOfType returns the names of every environment of type t.
func (d *Dictionary) EnvironmentsOfType(t ir.EnvironmentType) []string {
	out := []string{}
	for _, env := range d.envs {
		if env.Type == t {
			out = append(out, env.Name)
		}
	}
	return out
}

// AvailableEnvironments returns every environment name in catalog order.
func (d *Dictionary) AvailableEnvironments() []string {
	out := make([]string, 0, len(d.envs))
	for _, env := range d.envs {
		out = append(out, env.Name)
	}
	return out
}

// AvailableFrequencies returns the distinct frequencies recorded in env.
func (d *Dictionary) AvailableFrequencies(env string) []string {
	return d.distinct(d.byEnv[ir.UpperName(env)], func(e Entry) string { return e.Frequency })
}

// AvailableNames returns the distinct series names recorded in env at freq.
func (d *Dictionary) AvailableNames(env, freq string) []string {
	ids := d.byEnvFreq[envFreqKey{env: ir.UpperName(env), freq: ir.Canonical(freq)}]
	return d.distinct(ids, func(e Entry) string { return e.Name })
}

// AvailableKeyValues returns the distinct key values of name in env at freq.
func (d *Dictionary) AvailableKeyValues(env, freq, name string) []string {
	ids := d.byEnvFreqName[envFreqNameKey{
		env:  ir.UpperName(env),
		freq: ir.Canonical(freq),
		name: ir.Canonical(name),
	}]
	return d.distinct(ids, func(e Entry) string { return e.KeyValue })
}

// AvailableTimeSeries returns every distinct series name.
func (d *Dictionary) AvailableTimeSeries() []string {
	ids := make([]EntryID, len(d.entries))
	for i := range d.entries {
		ids[i] = EntryID(i)
	}
	return d.distinct(ids, func(e Entry) string { return e.Name })
}

// EntriesByName returns every entry with the stored name.
func (d *Dictionary) EntriesByName(name string) []Entry {
	return d.collect(d.byName[ir.Canonical(name)])
}

// EntriesByKeyValue returns every entry with the stored key value.
func (d *Dictionary) EntriesByKeyValue(key string) []Entry {
	return d.collect(d.byKeyValue[ir.Canonical(key)])
}

// EntriesByFrequency returns every entry recorded at freq.
func (d *Dictionary) EntriesByFrequency(freq string) []Entry {
	return d.collect(d.byFrequency[ir.Canonical(freq)])
}

// EntriesByEnvironment returns every entry in env.
func (d *Dictionary) EntriesByEnvironment(env string) []Entry {
	return d.collect(d.byEnv[ir.UpperName(env)])
}

func (d *Dictionary) collect(ids []EntryID) []Entry {
	out := make([]Entry, 0, len(ids))
	for _, id := range ids {
		out = append(out, d.entries[id])
	}
	return out
}

// distinct projects ids through field and drops repeats, keeping first-seen
// order.
func (d *Dictionary) distinct(ids []EntryID, field func(Entry) string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := []string{}
	for _, id := range ids {
		v := field(d.entries[id])
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
