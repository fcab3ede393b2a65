package machine

import (
	"context"
	"fmt"
	"strings"

	"github.com/brewlogic/brewfleet-core/internal/capability"
)

// Identity length limits, matching the fleet database schema.
const (
	maxMakeLength  = 100
	maxModelLength = 100
)

// Machine describes one coffee machine: identity plus the ordered set of
// capabilities it supports. Machines are immutable after construction.
type Machine struct {
	mk    string
	model string

	// order preserves capability registration order for Describe and the
	// controller's invocation loop.
	order    []capability.Capability
	bindings map[capability.Capability]capability.Invoker
}

// New constructs a Machine from its identity and capability bindings.
//
// The capability set is fixed at construction time. Construction fails with
// ErrInvalidConfiguration when:
//   - make or model is empty or too long,
//   - no brew capability is bound (brew is mandatory),
//   - the same capability is bound more than once.
func New(mk, model string, invokers ...capability.Invoker) (*Machine, error) {
	if err := validateIdentity(mk, model); err != nil {
		return nil, err
	}

	m := &Machine{
		mk:       mk,
		model:    model,
		order:    make([]capability.Capability, 0, len(invokers)),
		bindings: make(map[capability.Capability]capability.Invoker, len(invokers)),
	}

	for _, inv := range invokers {
		if inv == nil {
			return nil, fmt.Errorf("%w: nil capability binding", ErrInvalidConfiguration)
		}
		id := inv.ID()
		if id == "" {
			return nil, fmt.Errorf("%w: capability with empty identifier", ErrInvalidConfiguration)
		}
		if _, dup := m.bindings[id]; dup {
			return nil, fmt.Errorf("%w: duplicate capability %q", ErrInvalidConfiguration, id)
		}
		m.order = append(m.order, id)
		m.bindings[id] = inv
	}

	if _, ok := m.bindings[capability.CapBrew]; !ok {
		return nil, fmt.Errorf("%w: brew capability is mandatory", ErrInvalidConfiguration)
	}

	return m, nil
}

// Make returns the manufacturer name.
func (m *Machine) Make() string {
	return m.mk
}

// Model returns the model name.
func (m *Machine) Model() string {
	return m.model
}

// Supports reports whether the machine declares the given capability.
func (m *Machine) Supports(id capability.Capability) bool {
	_, ok := m.bindings[id]
	return ok
}

// Capabilities returns the supported capability identifiers in registration
// order. The returned slice is a copy; callers can safely modify it.
func (m *Machine) Capabilities() []capability.Capability {
	caps := make([]capability.Capability, len(m.order))
	copy(caps, m.order)
	return caps
}

// Invoke runs the named capability and returns its Result.
//
// Invoking a capability the machine does not possess returns a Result
// carrying ErrNotSupported; it never panics.
func (m *Machine) Invoke(ctx context.Context, id capability.Capability) capability.Result {
	inv, ok := m.bindings[id]
	if !ok {
		return capability.NotSupported(id)
	}
	return inv.Invoke(ctx)
}

// Describe summarises the machine: an identity line first, then one line
// per capability in registration order.
func (m *Machine) Describe() []string {
	lines := make([]string, 0, 1+len(m.order))
	lines = append(lines, fmt.Sprintf("%s %s", m.mk, m.model))
	for _, id := range m.order {
		lines = append(lines, fmt.Sprintf("capability: %s", id))
	}
	return lines
}

// validateIdentity checks make and model constraints.
func validateIdentity(mk, model string) error {
	if strings.TrimSpace(mk) == "" {
		return fmt.Errorf("%w: make cannot be empty", ErrInvalidConfiguration)
	}
	if len(mk) > maxMakeLength {
		return fmt.Errorf("%w: make exceeds %d characters", ErrInvalidConfiguration, maxMakeLength)
	}
	if strings.TrimSpace(model) == "" {
		return fmt.Errorf("%w: model cannot be empty", ErrInvalidConfiguration)
	}
	if len(model) > maxModelLength {
		return fmt.Errorf("%w: model exceeds %d characters", ErrInvalidConfiguration, maxModelLength)
	}
	return nil
}
