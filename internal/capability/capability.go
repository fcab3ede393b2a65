package capability

import (
	"context"
	"time"
)

// Capability identifies what a machine can do.
type Capability string

// Capability identifiers.
const (
	// CapBrew is the mandatory capability; every valid machine supports it.
	CapBrew Capability = "brew"

	// CapGrind grinds beans before brewing (grinder model lines).
	CapGrind Capability = "grind"

	// CapReorder reorders beans through the machine's WiFi module.
	CapReorder Capability = "reorder"
)

// All returns all capability identifiers known to this build.
// Additional identifiers may be registered by callers; this list only
// covers the built-in set.
func All() []Capability {
	return []Capability{CapBrew, CapGrind, CapReorder}
}

// Result is the outcome of a single capability invocation.
//
// Err is nil on success. Elapsed records how long the invocation took,
// including any simulated hardware delay.
type Result struct {
	Capability Capability    `json:"capability"`
	Err        error         `json:"-"`
	Elapsed    time.Duration `json:"elapsed"`
}

// OK reports whether the invocation completed successfully.
func (r Result) OK() bool {
	return r.Err == nil
}

// Invoker is a single executable capability implementation.
//
// Invoke blocks until the capability completes or ctx is cancelled.
// Implementations must return errors rather than panic; an execution
// failure is wrapped in ErrExecutionFailed by the helpers in this package.
type Invoker interface {
	ID() Capability
	Invoke(ctx context.Context) Result
}

// funcInvoker adapts a plain function to the Invoker interface.
type funcInvoker struct {
	id Capability
	fn func(ctx context.Context) error
}

// Func builds an Invoker from a function. The returned invoker measures
// elapsed time and wraps any non-nil error in ErrExecutionFailed so callers
// can classify failures with errors.Is.
func Func(id Capability, fn func(ctx context.Context) error) Invoker {
	return &funcInvoker{id: id, fn: fn}
}

func (f *funcInvoker) ID() Capability {
	return f.id
}

func (f *funcInvoker) Invoke(ctx context.Context) Result {
	start := time.Now()
	err := f.fn(ctx)
	if err != nil {
		err = wrapExecution(f.id, err)
	}
	return Result{
		Capability: f.id,
		Err:        err,
		Elapsed:    time.Since(start),
	}
}
