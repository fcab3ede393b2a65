// Package mqtt provides MQTT client connectivity for BrewFleet Core.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// BrewFleet uses MQTT as an optional command-and-report surface. Remote
// operators publish operate commands for a machine; the core publishes
// the resulting operation report. The surface is disabled by default
// (mqtt.enabled: false in config.yaml).
//
//	Operator tooling ↔ MQTT Broker ↔ BrewFleet Core
//
// # Topic Hierarchy
//
//	brewfleet/command/{machine-id}/operate   — operate a machine
//	brewfleet/report/{machine-id}            — operation report (retained)
//	brewfleet/system/status                  — core online/offline (retained, LWT)
//
// # Security Considerations
//
//   - TLS is recommended for production deployments (cfg.Broker.TLS=true)
//   - Credentials come from config or BREWFLEET_MQTT_USERNAME/PASSWORD
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to all operate commands
//	err = client.Subscribe(mqtt.Topics{}.AllOperateCommands(), 1,
//	    func(topic string, payload []byte) error {
//	        machineID, _ := mqtt.ParseOperateTopic(topic)
//	        // ... run the operation ...
//	        return nil
//	    })
package mqtt
