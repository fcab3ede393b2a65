package controller

import (
	"time"

	"github.com/brewlogic/brewfleet-core/internal/capability"
)

// Outcome records the result of one capability invocation within a run.
type Outcome struct {
	Capability capability.Capability `json:"capability"`
	OK         bool                  `json:"ok"`
	Error      string                `json:"error,omitempty"`
	ElapsedMS  int64                 `json:"elapsed_ms"`
}

// outcomeFromResult converts a capability Result into a report entry.
func outcomeFromResult(res capability.Result) Outcome {
	o := Outcome{
		Capability: res.Capability,
		OK:         res.OK(),
		ElapsedMS:  res.Elapsed.Milliseconds(),
	}
	if res.Err != nil {
		o.Error = res.Err.Error()
	}
	return o
}

// OperationReport aggregates everything observed during one Operate call:
// the machine description, the mandatory brew outcome, and one entry per
// optional capability attempted, in registration order.
type OperationReport struct {
	Description []string  `json:"description"`
	Brew        Outcome   `json:"brew"`
	Optional    []Outcome `json:"optional,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
}

// BrewFailed reports whether the mandatory brew step failed.
// When true, no optional capabilities were attempted.
func (r *OperationReport) BrewFailed() bool {
	return !r.Brew.OK
}

// OptionalFailures returns the number of optional capabilities that failed.
func (r *OperationReport) OptionalFailures() int {
	n := 0
	for _, o := range r.Optional {
		if !o.OK {
			n++
		}
	}
	return n
}

// Failed reports whether any step of the run failed.
func (r *OperationReport) Failed() bool {
	return r.BrewFailed() || r.OptionalFailures() > 0
}
