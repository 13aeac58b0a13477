package harness

// Trace event types.
const (
	EventQuery  = "query"
	EventSeries = "series"
)

// TraceEvent records one query or one series read by a query.
type TraceEvent struct {
	Type     string  `json:"type"` // "query" or "series"
	Query    string  `json:"query,omitempty"`
	Resolved string  `json:"resolved,omitempty"`
	KeyValue string  `json:"key_value,omitempty"`
	Units    string  `json:"units,omitempty"`
	Samples  int     `json:"samples,omitempty"`
	First    string  `json:"first,omitempty"`
	Last     string  `json:"last,omitempty"`
	Sum      float64 `json:"sum,omitempty"`
	Seq      int64   `json:"seq"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success.
	// True if every expect clause and assertion holds.
	Pass bool `json:"pass"`

	// Trace contains every query and series read, in order.
	// Used for resolved_* assertions and golden comparison.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	seq int64
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddQueryTrace adds a query to the trace.
func (r *Result) AddQueryTrace(query string) {
	r.seq++
	r.Trace = append(r.Trace, TraceEvent{
		Type:  EventQuery,
		Query: query,
		Seq:   r.seq,
	})
}

// AddSeriesTrace adds a series read to the trace. ev.Type and ev.Seq are
// set here.
func (r *Result) AddSeriesTrace(ev TraceEvent) {
	r.seq++
	ev.Type = EventSeries
	ev.Seq = r.seq
	r.Trace = append(r.Trace, ev)
}

// Resolved lists the distinct resolved queries of the trace in first-seen
// order.
func (r *Result) Resolved() []string {
	seen := make(map[string]bool)
	var out []string
	for _, ev := range r.Trace {
		if ev.Type == EventSeries && !seen[ev.Resolved] {
			seen[ev.Resolved] = true
			out = append(out, ev.Resolved)
		}
	}
	return out
}
