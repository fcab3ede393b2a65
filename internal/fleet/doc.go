// Package fleet manages the persistent roster of coffee machines and
// their operation history.
//
// The package is layered:
//
//   - Record is the persisted identity of a machine: which kind (factory
//     bundle) it is, plus make and model. Capability wiring is NOT stored;
//     it is reconstructed from the kind via the factory on every operation.
//   - Repository persists records (SQLite implementation provided).
//   - Registry wraps a Repository with an in-memory cache for fast lookups.
//   - HistoryRepository keeps an append-only log of operation reports with
//     count-based retention per machine.
//   - Service ties registry, factory, and controller together: it resolves
//     a machine ID to a live Machine, runs the operation sequence, and
//     fans the report out to history, MQTT, and telemetry.
//
// Registry and Service methods are safe for concurrent use.
package fleet
