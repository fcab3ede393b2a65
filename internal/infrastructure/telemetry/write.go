package telemetry

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Operation outcome labels for the operation measurement.
const (
	// OutcomeOK means the brew and all optional capabilities succeeded.
	OutcomeOK = "ok"

	// OutcomeBrewFailed means the mandatory brew failed.
	OutcomeBrewFailed = "brew_failed"

	// OutcomePartial means the brew succeeded but at least one optional
	// capability failed.
	OutcomePartial = "partial"
)

// invocationOutcome converts an invocation success flag to a tag value.
func invocationOutcome(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

// WriteInvocation records a single capability invocation.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Example:
//
//	client.WriteInvocation("machine-42", "brew", true, 210*time.Millisecond)
func (c *Client) WriteInvocation(machineID, capability string, ok bool, elapsed time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"capability_invocation",
		map[string]string{
			"machine_id": machineID,
			"capability": capability,
			"outcome":    invocationOutcome(ok),
		},
		map[string]interface{}{
			"duration_ms": elapsed.Milliseconds(),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteOperation records a completed operation sequence.
//
// outcome should be one of OutcomeOK, OutcomeBrewFailed, or OutcomePartial.
//
// Example:
//
//	client.WriteOperation("machine-42", "grinder", telemetry.OutcomeOK, elapsed, 0)
func (c *Client) WriteOperation(machineID, kind, outcome string, elapsed time.Duration, optionalFailures int) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"operation",
		map[string]string{
			"machine_id": machineID,
			"kind":       kind,
			"outcome":    outcome,
		},
		map[string]interface{}{
			"duration_ms":       elapsed.Milliseconds(),
			"optional_failures": optionalFailures,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	c.writeAPI.WritePoint(write.NewPoint(measurement, tags, fields, time.Now()))
}
