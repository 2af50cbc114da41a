package harness

import "github.com/roach88/statebind/internal/ir"

// TraceEvent is one journaled action as seen by a scenario.
type TraceEvent struct {
	Seq     int64        `json:"seq"`
	Type    ir.ActionRef `json:"type"`
	Payload ir.Object    `json:"payload"`
	ID      string       `json:"id"`
}

// View is the outcome of resolving one set of selector keys.
type View struct {
	Keys   []string  `json:"keys"`
	Values ir.Object `json:"values"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every flow expectation, view and assertion held.
	Pass bool `json:"pass"`

	// Trace holds the journal contents in seq order.
	Trace []TraceEvent `json:"trace"`

	// Views holds one entry per resolved view, in scenario order.
	Views []View `json:"views"`

	// Errors holds one message per failed expectation.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Views:  []View{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
