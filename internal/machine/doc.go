// Package machine provides the coffee machine descriptor and factory for
// BrewFleet Core.
//
// A Machine is an immutable value object: make and model identity plus an
// ordered set of capability bindings fixed at construction time. Consumers
// never ask "is this a grinding machine" - they ask which capabilities the
// machine declares and invoke them by identifier.
//
// The Factory decouples machine creation from machine usage. Model lines are
// registered as named bundles (kind -> ordered capability set), so a new
// combination such as a grinder with a WiFi reorder module is a registration,
// not a change to any consumer.
//
// # Usage
//
//	factory := machine.NewFactory(capability.NewSimulator(capability.SimOptions{}))
//
//	m, err := factory.Create("grinder", "Breville", "Barista Express")
//	if err != nil {
//	    return err
//	}
//
//	m.Supports(capability.CapGrind) // true
//	m.Describe()                    // ["Breville Barista Express", "capability: brew", ...]
//
// # Invariants
//
//   - Every Machine supports the brew capability; New fails otherwise.
//   - Capability order is registration order, preserved by Describe and
//     the controller's invocation loop.
//   - Machines are immutable after construction; there is no dynamic
//     capability addition or removal.
package machine
