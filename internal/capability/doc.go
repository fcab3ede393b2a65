// Package capability defines the capability model for BrewFleet Core.
//
// A capability is a named, independently invocable behaviour a machine may
// support. Every machine supports the mandatory brew capability; everything
// else (grinding, bean reordering over WiFi) is optional and discovered by
// identifier, never by concrete type inspection.
//
// # Key Types
//
//   - Capability: a capability identifier (brew, grind, reorder)
//   - Invoker: a single executable capability implementation
//   - Result: outcome of one invocation, with elapsed-time metadata
//
// # Extending
//
// New capabilities are additive. Declaring a new identifier and providing an
// Invoker for it requires no change to existing implementations or to the
// controller - the open/closed contract the registry design exists for.
//
//	const CapDescale = capability.Capability("descale")
//
//	inv := capability.Func(CapDescale, func(ctx context.Context) error {
//	    return pump.Flush(ctx)
//	})
//
// # Thread Safety
//
// Invokers constructed by this package are stateless and safe for concurrent
// use. Invocations for a single machine are nevertheless sequential by
// design; the controller never runs two capabilities of one machine at once.
package capability
