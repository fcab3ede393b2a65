package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes for the BrewFleet MQTT surface.
//
// Scheme: brewfleet/{category}/{machine-id}[/{action}]
const (
	// TopicPrefix is the base for all BrewFleet topics.
	TopicPrefix = "brewfleet"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "brewfleet/system"
)

// Topics provides builders for BrewFleet MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	reportTopic := topics.MachineReport("machine-42")
//	// Returns: "brewfleet/report/machine-42"
type Topics struct{}

// MachineOperate returns the topic carrying operate commands for a machine.
//
// Example: brewfleet/command/machine-42/operate
func (Topics) MachineOperate(machineID string) string {
	return fmt.Sprintf("%s/command/%s/operate", TopicPrefix, machineID)
}

// MachineReport returns the topic carrying operation reports for a machine.
// Reports are published retained so late subscribers see the last run.
//
// Example: brewfleet/report/machine-42
func (Topics) MachineReport(machineID string) string {
	return fmt.Sprintf("%s/report/%s", TopicPrefix, machineID)
}

// SystemStatus returns the core online/offline status topic.
//
// Example: brewfleet/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllOperateCommands returns a pattern matching operate commands for
// every machine.
//
// Pattern: brewfleet/command/+/operate
func (Topics) AllOperateCommands() string {
	return fmt.Sprintf("%s/command/+/operate", TopicPrefix)
}

// AllReports returns a pattern matching operation reports for every machine.
//
// Pattern: brewfleet/report/+
func (Topics) AllReports() string {
	return fmt.Sprintf("%s/report/+", TopicPrefix)
}

// ParseOperateTopic extracts the machine ID from an operate command topic.
// Returns false if the topic is not of the form
// brewfleet/command/{machine-id}/operate.
func ParseOperateTopic(topic string) (machineID string, ok bool) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 {
		return "", false
	}
	if parts[0] != TopicPrefix || parts[1] != "command" || parts[3] != "operate" {
		return "", false
	}
	if parts[2] == "" || parts[2] == "+" || parts[2] == "#" {
		return "", false
	}
	return parts[2], true
}
