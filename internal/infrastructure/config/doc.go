// Package config loads and validates BrewFleet Core configuration.
//
// Configuration comes from three layers, later layers overriding earlier:
//
//  1. Hardcoded defaults
//  2. YAML file values
//  3. BREWFLEET_* environment variables
//
// The zero-infrastructure path works out of the box: MQTT and InfluxDB are
// disabled by default, so a bare config file with a fleet id and database
// path is a valid deployment.
package config
