package engine

import (
	"fmt"
	"strings"

	"github.com/roach88/epsql/internal/queryir"
)

// ResolvedQuery is a Query after expansion: one environment, one stored
// frequency label, one series name and the stored key values to read.
type ResolvedQuery struct {
	Environment string
	Frequency   string
	Name        string
	KeyValues   []string

	vetted bool
}

// Vetted reports whether Expand produced the query.
func (rq ResolvedQuery) Vetted() bool {
	return rq.vetted
}

func (rq ResolvedQuery) String() string {
	return fmt.Sprintf("%s/%s/%s[%s]", rq.Environment, rq.Frequency, rq.Name, strings.Join(rq.KeyValues, ", "))
}

func (rq ResolvedQuery) key() string {
	return rq.Environment + "\x00" + rq.Frequency + "\x00" + rq.Name
}

// candidate is a query part way through expansion. Fields are filled in
// stage order.
type candidate struct {
	env    string
	labels []string
	label  string
	name   string
}

// Expand resolves q against the dictionary. An empty result is a normal
// outcome. Results are ordered by environment, frequency, then name, as
// the dictionary lists them.
func (e *Engine) Expand(q queryir.Query) []ResolvedQuery {
	cands := e.expandEnvironment(q)
	cands = e.expandFrequency(q, cands)
	cands = e.expandName(q, cands)
	out := e.expandKeyValues(q, cands)

	e.logger.Debug("query expanded", "query", q.String(), "resolved", len(out))
	return out
}

func (e *Engine) expandEnvironment(q queryir.Query) []candidate {
	var envs []string
	switch env := q.Environment.(type) {
	case nil:
		envs = e.dict.AvailableEnvironments()
	case queryir.EnvironmentName:
		if name, ok := e.resolveEnvironment(string(env)); ok {
			envs = []string{name}
		}
	case queryir.EnvironmentOfType:
		envs = e.dict.EnvironmentsOfType(env.Type)
	}

	out := make([]candidate, 0, len(envs))
	for _, env := range envs {
		out = append(out, candidate{env: env})
	}
	return out
}

func (e *Engine) expandFrequency(q queryir.Query, in []candidate) []candidate {
	out := make([]candidate, 0, len(in))
	for _, c := range in {
		if q.Frequency == "" {
			for _, label := range e.dict.AvailableFrequencies(c.env) {
				out = append(out, candidate{env: c.env, labels: []string{label}})
			}
			continue
		}
		labels := e.frequencyLabels(c.env, q.Frequency)
		if len(labels) == 0 {
			continue
		}
		out = append(out, candidate{env: c.env, labels: labels})
	}
	return out
}

func (e *Engine) expandName(q queryir.Query, in []candidate) []candidate {
	out := make([]candidate, 0, len(in))
	for _, c := range in {
		switch name := q.Name.(type) {
		case queryir.Name:
			freq := q.Frequency
			if freq == "" {
				freq = c.labels[0]
			}
			label, stored, ok := e.resolveNameIn(c, freq, string(name))
			if !ok {
				continue
			}
			out = append(out, candidate{env: c.env, label: label, name: stored})
		case queryir.NamePattern:
			label := c.labels[0]
			for _, n := range e.dict.AvailableNames(c.env, label) {
				if name.Matches(n) {
					out = append(out, candidate{env: c.env, label: label, name: n})
				}
			}
		default:
			label := c.labels[0]
			for _, n := range e.dict.AvailableNames(c.env, label) {
				out = append(out, candidate{env: c.env, label: label, name: n})
			}
		}
	}
	return out
}

// resolveNameIn resolves a literal name within the labels a candidate
// already carries.
func (e *Engine) resolveNameIn(c candidate, freq, name string) (string, string, bool) {
	label, stored, ok := e.resolveName(c.env, freq, name)
	if !ok {
		return "", "", false
	}
	for _, l := range c.labels {
		if l == label {
			return label, stored, true
		}
	}
	return "", "", false
}

func (e *Engine) expandKeyValues(q queryir.Query, in []candidate) []ResolvedQuery {
	out := make([]ResolvedQuery, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, c := range in {
		available := e.dict.AvailableKeyValues(c.env, c.label, c.name)

		var keys []string
		switch kv := q.KeyValues.(type) {
		case queryir.KeyValueList:
			keys = keepKeys(kv, available)
		case queryir.KeyValuePattern:
			for _, k := range available {
				if kv.Matches(k) {
					keys = append(keys, k)
				}
			}
		default:
			keys = available
		}
		if len(keys) == 0 {
			continue
		}

		rq := ResolvedQuery{
			Environment: c.env,
			Frequency:   c.label,
			Name:        c.name,
			KeyValues:   keys,
			vetted:      true,
		}
		if _, dup := seen[rq.key()]; dup {
			continue
		}
		seen[rq.key()] = struct{}{}
		out = append(out, rq)
	}
	return out
}

// keepKeys returns the available keys the requested list names, in
// request order and as stored, without repeats.
func keepKeys(requested, available []string) []string {
	var keys []string
	seen := make(map[string]struct{}, len(requested))
	for _, want := range requested {
		k, ok := matchFold(want, available)
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}
