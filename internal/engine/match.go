package engine

import (
	"github.com/roach88/epsql/internal/ir"
)

// runPeriodLabel is the label "Annual" and "Environment" requests are
// retried under.
var runPeriodLabel = ir.RunPeriod.Label()

// isAnnualAlias reports whether freq is one of the labels older callers
// used for run period output.
func isAnnualAlias(freq string) bool {
	return ir.EqualFold(freq, "Annual") || ir.EqualFold(freq, "Environment")
}

// frequencyLabels returns, in retry order, the stored labels of env a
// requested frequency may resolve to: the label itself, the run period
// label for annual aliases, then any label with the same canonical
// frequency. Labels not recorded in env are left out.
func (e *Engine) frequencyLabels(env, freq string) []string {
	available := e.dict.AvailableFrequencies(env)
	has := func(label string) bool {
		for _, a := range available {
			if a == label {
				return true
			}
		}
		return false
	}

	var out []string
	add := func(label string) {
		for _, o := range out {
			if o == label {
				return
			}
		}
		out = append(out, label)
	}

	freq = ir.Canonical(freq)
	if has(freq) {
		add(freq)
	}
	if isAnnualAlias(freq) && has(runPeriodLabel) {
		add(runPeriodLabel)
	}
	if want, ok := ir.ParseReportingFrequency(freq); ok {
		for _, label := range available {
			if got, ok := ir.ParseReportingFrequency(label); ok && got == want {
				add(label)
			}
		}
	}
	return out
}

// matchFold finds want among candidates: exact, then upper-cased, then
// case-insensitively. It returns the candidate as stored.
func matchFold(want string, candidates []string) (string, bool) {
	want = ir.Canonical(want)
	for _, c := range candidates {
		if c == want {
			return c, true
		}
	}
	upper := ir.UpperName(want)
	for _, c := range candidates {
		if c == upper {
			return c, true
		}
	}
	for _, c := range candidates {
		if ir.EqualFold(c, want) {
			return c, true
		}
	}
	return "", false
}

// resolveEnvironment returns the stored name of env.
func (e *Engine) resolveEnvironment(env string) (string, bool) {
	if _, ok := e.dict.EnvironmentIndex(env); !ok {
		return "", false
	}
	return ir.UpperName(env), true
}

// resolveName finds a literal series name in env, trying each label of
// freq in retry order. It returns the stored label and name.
func (e *Engine) resolveName(env, freq, name string) (label, stored string, ok bool) {
	labels := e.frequencyLabels(env, freq)
	for i, label := range labels {
		if stored, ok := matchFold(name, e.dict.AvailableNames(env, label)); ok {
			if i > 0 || stored != ir.Canonical(name) {
				e.logger.Debug("series name resolved by fallback",
					"environment", env,
					"frequency", freq,
					"name", name,
					"resolved_frequency", label,
					"resolved_name", stored)
			}
			return label, stored, true
		}
	}
	return "", "", false
}
