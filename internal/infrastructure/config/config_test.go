package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return configPath
}

func TestLoad_ValidConfig(t *testing.T) {
	content := `
fleet:
  id: "test-fleet"
  name: "Test Fleet"
database:
  path: "/tmp/test.db"
  wal_mode: true
  busy_timeout: 5
mqtt:
  enabled: false
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
simulation:
  brew_delay_ms: 50
  grind_delay_ms: 25
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Fleet.ID != "test-fleet" {
		t.Errorf("Fleet.ID = %q, want %q", cfg.Fleet.ID, "test-fleet")
	}
	if cfg.Database.Path != "/tmp/test.db" {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, "/tmp/test.db")
	}
	if cfg.MQTT.Enabled {
		t.Error("MQTT.Enabled = true, want false")
	}
	if got := cfg.BrewDelay(); got != 50*time.Millisecond {
		t.Errorf("BrewDelay() = %v, want 50ms", got)
	}
	if got := cfg.GrindDelay(); got != 25*time.Millisecond {
		t.Errorf("GrindDelay() = %v, want 25ms", got)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	// Minimal file: everything else comes from defaults.
	cfg, err := Load(writeConfig(t, "fleet:\n  id: \"f1\"\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path == "" {
		t.Error("default database path not applied")
	}
	if cfg.MQTT.Broker.Port != 1883 {
		t.Errorf("MQTT.Broker.Port = %d, want 1883", cfg.MQTT.Broker.Port)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Fleet.HistoryRetention != 100 {
		t.Errorf("Fleet.HistoryRetention = %d, want 100", cfg.Fleet.HistoryRetention)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "invalid: [yaml: content"))
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BREWFLEET_DATABASE_PATH", "/env/override.db")
	t.Setenv("BREWFLEET_LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, "fleet:\n  id: \"f1\"\ndatabase:\n  path: \"/file/value.db\"\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Database.Path != "/env/override.db" {
		t.Errorf("Database.Path = %q, want env override", cfg.Database.Path)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing fleet id",
			mutate:  func(c *Config) { c.Fleet.ID = "" },
			wantErr: true,
		},
		{
			name:    "missing database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantErr: true,
		},
		{
			name:    "invalid qos",
			mutate:  func(c *Config) { c.MQTT.QoS = 3 },
			wantErr: true,
		},
		{
			name:    "mqtt enabled without host",
			mutate:  func(c *Config) { c.MQTT.Enabled = true; c.MQTT.Broker.Host = "" },
			wantErr: true,
		},
		{
			name:    "influxdb enabled without url",
			mutate:  func(c *Config) { c.InfluxDB.Enabled = true; c.InfluxDB.Token = "tok" },
			wantErr: true,
		},
		{
			name: "influxdb enabled with url and token",
			mutate: func(c *Config) {
				c.InfluxDB.Enabled = true
				c.InfluxDB.URL = "http://localhost:8086"
				c.InfluxDB.Token = "tok"
			},
		},
		{
			name:    "negative simulation delay",
			mutate:  func(c *Config) { c.Simulation.BrewDelayMS = -1 },
			wantErr: true,
		},
		{
			name:    "negative history retention",
			mutate:  func(c *Config) { c.Fleet.HistoryRetention = -5 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
