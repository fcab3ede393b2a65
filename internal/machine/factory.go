package machine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/brewlogic/brewfleet-core/internal/capability"
)

// Built-in bundle kinds. A kind names a model line: the capability bundle
// the factory wires into machines created under that name.
const (
	KindBasic       = "basic"        // brew only
	KindGrinder     = "grinder"      // brew + integrated grinder
	KindWiFi        = "wifi"         // brew + WiFi bean reordering
	KindGrinderWiFi = "grinder-wifi" // brew + grinder + WiFi reordering
)

// InvokerBuilder supplies capability implementations for the factory.
// capability.Simulator satisfies this interface.
type InvokerBuilder interface {
	// Build returns the invoker for the given capability, or false if no
	// implementation is available.
	Build(id capability.Capability) (capability.Invoker, bool)
}

// Factory constructs machines from registered capability bundles,
// decoupling machine creation from machine usage.
//
// All methods are safe for concurrent use.
type Factory struct {
	builder InvokerBuilder

	mu      sync.RWMutex
	bundles map[string][]capability.Capability
}

// NewFactory creates a Factory with the built-in bundles registered.
// The builder supplies the capability implementations wired into each
// machine; injecting it here keeps simulated delays configurable.
func NewFactory(builder InvokerBuilder) *Factory {
	f := &Factory{
		builder: builder,
		bundles: make(map[string][]capability.Capability),
	}

	// Built-in model lines. Registration order within each bundle is the
	// order capabilities are invoked in; brew always leads.
	f.bundles[KindBasic] = []capability.Capability{capability.CapBrew}
	f.bundles[KindGrinder] = []capability.Capability{capability.CapBrew, capability.CapGrind}
	f.bundles[KindWiFi] = []capability.Capability{capability.CapBrew, capability.CapReorder}
	f.bundles[KindGrinderWiFi] = []capability.Capability{
		capability.CapBrew, capability.CapGrind, capability.CapReorder,
	}

	return f
}

// RegisterBundle registers a new kind with its ordered capability set.
//
// Adding a model line is purely additive: no consumer of Machine changes.
// Returns ErrKindExists for duplicate names and ErrInvalidConfiguration for
// bundles that omit the mandatory brew capability.
func (f *Factory) RegisterBundle(kind string, caps ...capability.Capability) error {
	if kind == "" {
		return fmt.Errorf("%w: kind cannot be empty", ErrInvalidConfiguration)
	}

	hasBrew := false
	for _, c := range caps {
		if c == capability.CapBrew {
			hasBrew = true
		}
	}
	if !hasBrew {
		return fmt.Errorf("%w: bundle %q omits the brew capability", ErrInvalidConfiguration, kind)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.bundles[kind]; exists {
		return fmt.Errorf("%w: %q", ErrKindExists, kind)
	}

	bundle := make([]capability.Capability, len(caps))
	copy(bundle, caps)
	f.bundles[kind] = bundle
	return nil
}

// Create constructs a machine of the given kind.
//
// Returns ErrUnknownKind if the kind has not been registered; no Machine is
// constructed in that case. Identity and capability invariants are enforced
// by New.
func (f *Factory) Create(kind, mk, model string) (*Machine, error) {
	f.mu.RLock()
	bundle, ok := f.bundles[kind]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	invokers := make([]capability.Invoker, 0, len(bundle))
	for _, id := range bundle {
		inv, ok := f.builder.Build(id)
		if !ok {
			return nil, fmt.Errorf("%w: no implementation for capability %q", ErrInvalidConfiguration, id)
		}
		invokers = append(invokers, inv)
	}

	return New(mk, model, invokers...)
}

// Kinds returns the registered bundle names, sorted.
func (f *Factory) Kinds() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	kinds := make([]string, 0, len(f.bundles))
	for k := range f.bundles {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Bundle returns the ordered capability set registered for a kind.
// The returned slice is a copy; callers can safely modify it.
func (f *Factory) Bundle(kind string) ([]capability.Capability, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	bundle, ok := f.bundles[kind]
	if !ok {
		return nil, false
	}
	caps := make([]capability.Capability, len(bundle))
	copy(caps, bundle)
	return caps, true
}
