// Package telemetry provides InfluxDB metric recording for BrewFleet Core.
//
// This package manages:
//   - Connection to InfluxDB v2 with token authentication
//   - Non-blocking batched writes of operation metrics
//   - Health monitoring
//
// Telemetry is optional and disabled by default (influxdb.enabled: false
// in config.yaml). When disabled, Connect returns ErrDisabled and callers
// run without a telemetry client.
//
// # Measurements
//
//	capability_invocation — one point per capability invocation
//	  tags:   machine_id, capability, outcome (ok|error)
//	  fields: duration_ms
//
//	operation — one point per full operation sequence
//	  tags:   machine_id, kind, outcome (ok|brew_failed|partial)
//	  fields: duration_ms, optional_failures
//
// # Usage
//
//	client, err := telemetry.Connect(cfg.InfluxDB)
//	if err != nil {
//	    // ErrDisabled is expected when telemetry is off
//	}
//	defer client.Close()
//
//	client.WriteInvocation("machine-42", "brew", true, 210*time.Millisecond)
//
// Writes are batched and asynchronous; use SetOnError to observe write
// failures.
package telemetry
