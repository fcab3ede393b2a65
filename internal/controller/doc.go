// Package controller orchestrates the standard usage sequence for a coffee
// machine, whatever its capability bundle.
//
// Operate runs the same sequence for every machine: describe, brew, then
// invoke each remaining capability in registration order. There is no
// type-specific branching anywhere - the controller only asks which
// capabilities the machine declares.
//
// Per call the sequence forms a small state machine:
//
//	Idle -> Describing -> Brewing -> BrewFailed (terminal, optionals skipped)
//	                              -> InvokingOptionals(0..N) -> Done
//
// Brew is mandatory and its failure aborts the run. Optional capability
// failures are recorded in the report and the remaining optionals still run
// (continue-on-error). Every failure surfaces in the OperationReport; nothing
// is logged and swallowed.
package controller
