package harness

import (
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/engine"
	"github.com/sramisetty/VoiceCricketScorer-sub001/internal/report"
)

// TraceEvent records how one step ended.
type TraceEvent struct {
	Step       int      `json:"step"`
	Action     string   `json:"action"`
	Detail     string   `json:"detail,omitempty"`
	Error      string   `json:"error,omitempty"`
	Reason     string   `json:"reason,omitempty"`
	Emissions  []string `json:"emissions,omitempty"`
	Commentary []string `json:"commentary,omitempty"`
	Seq        int64    `json:"seq"`
}

// Accepted reports whether the step was applied.
func (e TraceEvent) Accepted() bool {
	return e.Error == ""
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace has one entry per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors describes every failed expectation. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	Snapshot *engine.Snapshot `json:"snapshot,omitempty"`
	Outcome  report.Result    `json:"outcome"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Emitted returns every emission kind in trace order.
func (r *Result) Emitted() []string {
	var kinds []string
	for _, e := range r.Trace {
		kinds = append(kinds, e.Emissions...)
	}
	return kinds
}
