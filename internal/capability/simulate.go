package capability

import (
	"context"
	"time"
)

// Default simulated hardware delays. These stand in for the time a real
// machine spends brewing, grinding or talking to the supplier API.
const (
	DefaultBrewDelay    = 200 * time.Millisecond
	DefaultGrindDelay   = 120 * time.Millisecond
	DefaultReorderDelay = 80 * time.Millisecond
)

// SimOptions configures the simulated capability implementations.
//
// A zero value uses the package defaults. Fault, when set, is consulted
// before each invocation and lets tests and soak runs inject execution
// failures for specific capabilities.
type SimOptions struct {
	BrewDelay    time.Duration
	GrindDelay   time.Duration
	ReorderDelay time.Duration

	// Fault returns a non-nil error to make the invocation of the given
	// capability fail after its delay has elapsed.
	Fault func(id Capability) error
}

// Simulator builds simulated Invokers for the built-in capability set.
type Simulator struct {
	opts SimOptions
}

// NewSimulator creates a Simulator with the given options, filling in
// defaults for unset delays.
func NewSimulator(opts SimOptions) *Simulator {
	if opts.BrewDelay <= 0 {
		opts.BrewDelay = DefaultBrewDelay
	}
	if opts.GrindDelay <= 0 {
		opts.GrindDelay = DefaultGrindDelay
	}
	if opts.ReorderDelay <= 0 {
		opts.ReorderDelay = DefaultReorderDelay
	}
	return &Simulator{opts: opts}
}

// Brew returns a simulated brew invoker.
func (s *Simulator) Brew() Invoker {
	return s.invoker(CapBrew, s.opts.BrewDelay)
}

// Grind returns a simulated grind invoker.
func (s *Simulator) Grind() Invoker {
	return s.invoker(CapGrind, s.opts.GrindDelay)
}

// Reorder returns a simulated bean reorder invoker.
func (s *Simulator) Reorder() Invoker {
	return s.invoker(CapReorder, s.opts.ReorderDelay)
}

// Build returns the simulated invoker for the given capability identifier,
// or false if the simulator has no implementation for it.
func (s *Simulator) Build(id Capability) (Invoker, bool) {
	switch id {
	case CapBrew:
		return s.Brew(), true
	case CapGrind:
		return s.Grind(), true
	case CapReorder:
		return s.Reorder(), true
	}
	return nil, false
}

// invoker builds a Func invoker that sleeps for the configured delay and
// then applies the fault hook, if any.
func (s *Simulator) invoker(id Capability, delay time.Duration) Invoker {
	return Func(id, func(ctx context.Context) error {
		if err := sleep(ctx, delay); err != nil {
			return err
		}
		if s.opts.Fault != nil {
			if err := s.opts.Fault(id); err != nil {
				return err
			}
		}
		return nil
	})
}

// sleep blocks for d or until ctx is cancelled, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
