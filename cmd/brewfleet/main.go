// BrewFleet Core - Coffee Machine Fleet Controller
//
// This is the main entry point for the BrewFleet Core application.
// BrewFleet drives a fleet of simulated coffee machines through their
// capability registries: every machine brews, and optional extras
// (grinding, bean reordering) are discovered and invoked per machine
// kind rather than hardcoded per model.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/brewlogic/brewfleet-core/migrations"

	"github.com/brewlogic/brewfleet-core/internal/capability"
	"github.com/brewlogic/brewfleet-core/internal/controller"
	"github.com/brewlogic/brewfleet-core/internal/fleet"
	"github.com/brewlogic/brewfleet-core/internal/infrastructure/config"
	"github.com/brewlogic/brewfleet-core/internal/infrastructure/database"
	"github.com/brewlogic/brewfleet-core/internal/infrastructure/logging"
	"github.com/brewlogic/brewfleet-core/internal/infrastructure/mqtt"
	"github.com/brewlogic/brewfleet-core/internal/infrastructure/telemetry"
	"github.com/brewlogic/brewfleet-core/internal/machine"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting BrewFleet Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Initialise fleet registry
	fleetRepo := fleet.NewSQLiteRepository(db.DB)
	registry := fleet.NewRegistry(fleetRepo)
	registry.SetLogger(log)

	if refreshErr := registry.RefreshCache(ctx); refreshErr != nil {
		return fmt.Errorf("loading fleet registry: %w", refreshErr)
	}
	log.Info("fleet registry initialised",
		"fleet", cfg.Fleet.ID,
		"machines", registry.Count(),
	)

	// Build the machine factory over the simulated hardware
	sim := capability.NewSimulator(capability.SimOptions{
		BrewDelay:    cfg.BrewDelay(),
		GrindDelay:   cfg.GrindDelay(),
		ReorderDelay: cfg.ReorderDelay(),
	})
	factory := machine.NewFactory(sim)
	log.Info("machine factory initialised", "kinds", factory.Kinds())

	ctrl := controller.New()
	ctrl.SetLogger(log)

	// Fleet service ties registry, factory, and controller together
	svc := fleet.NewService(registry, factory, ctrl)
	svc.SetLogger(log)
	svc.SetHistory(fleet.NewSQLiteHistoryRepository(db.DB), cfg.Fleet.HistoryRetention)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		svc.SetPublisher(mqttClient)

		if subErr := subscribeOperateCommands(ctx, mqttClient, svc, cfg, log); subErr != nil {
			return fmt.Errorf("subscribing to operate commands: %w", subErr)
		}
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB telemetry (optional)
	var telemetryClient *telemetry.Client
	if cfg.InfluxDB.Enabled {
		telemetryClient, err = telemetry.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := telemetryClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		telemetryClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})

		svc.SetMetrics(telemetryClient)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, telemetryClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. InfluxDB (if enabled)
	// 2. MQTT (if enabled)
	// 3. Database

	log.Info("BrewFleet Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses BREWFLEET_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("BREWFLEET_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// subscribeOperateCommands wires the operate command topic to the fleet
// service. Any message on brewfleet/command/{machine-id}/operate runs
// the standard operation sequence on that machine; the payload is
// ignored, the topic carries the intent.
func subscribeOperateCommands(ctx context.Context, client *mqtt.Client, svc *fleet.Service, cfg *config.Config, log *logging.Logger) error {
	topic := mqtt.Topics{}.AllOperateCommands()
	qos := byte(cfg.MQTT.QoS) // validated 0-2 by config.Load

	return client.Subscribe(topic, qos, func(msgTopic string, _ []byte) error {
		machineID, ok := mqtt.ParseOperateTopic(msgTopic)
		if !ok {
			return fmt.Errorf("malformed operate topic: %s", msgTopic)
		}

		log.Info("operate command received", "machine_id", machineID)

		if _, err := svc.Operate(ctx, machineID); err != nil {
			return fmt.Errorf("operating machine %q: %w", machineID, err)
		}
		return nil
	})
}

// healthCheck verifies all infrastructure connections are healthy.
// The MQTT and telemetry clients may be nil when those surfaces are disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, telemetryClient *telemetry.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}

	if mqttClient != nil {
		if err := mqttClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("mqtt: %w", err)
		}
	}

	if telemetryClient != nil {
		if err := telemetryClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}
