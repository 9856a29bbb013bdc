package harness

import "github.com/GEMS-Gallery/taxheaven-0191b8fa7adc/internal/taxpayer"

// TraceEvent records what one flow step did.
type TraceEvent struct {
	Seq     int          `json:"seq"`
	Action  string       `json:"action"`
	Status  string       `json:"status"`
	TID     taxpayer.TID `json:"tid,omitempty"`
	Reason  string       `json:"reason,omitempty"`
	Busy    []bool       `json:"busy"`
	Version int64        `json:"version"`
	Records int          `json:"records"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace holds one event per flow step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors lists expect and assertion failures.
	Errors []string `json:"errors,omitempty"`

	// Records is the controller's record list after the last step.
	Records []taxpayer.Record `json:"records"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Trace:   []TraceEvent{},
		Errors:  []string{},
		Records: []taxpayer.Record{},
	}
}

// AddError adds a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
