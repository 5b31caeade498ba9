// Gray Logic Voice - smart home directive router
//
// This is the main entry point for the Gray Logic Voice service. It answers
// voice assistant smart home directives (payload versions 2 and 3) from an
// appliance catalog, and exposes an admin API for the catalog, linked
// accounts and the directive audit trail.
//
// Usage:
//
//	graylogic-voice                      run the service
//	graylogic-voice token -role admin    print an admin API token
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/nerrad567/gray-logic-voice/internal/api"
	"github.com/nerrad567/gray-logic-voice/internal/audit"
	"github.com/nerrad567/gray-logic-voice/internal/auth"
	"github.com/nerrad567/gray-logic-voice/internal/device"
	"github.com/nerrad567/gray-logic-voice/internal/identity"
	"github.com/nerrad567/gray-logic-voice/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-voice/internal/infrastructure/database"
	"github.com/nerrad567/gray-logic-voice/internal/infrastructure/influxdb"
	"github.com/nerrad567/gray-logic-voice/internal/infrastructure/logging"
	"github.com/nerrad567/gray-logic-voice/internal/infrastructure/mqtt"
	"github.com/nerrad567/gray-logic-voice/internal/smarthome"
	"github.com/nerrad567/gray-logic-voice/internal/smarthome/validation"
	"github.com/nerrad567/gray-logic-voice/migrations"
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
	if len(os.Args) > 1 && os.Args[1] == "token" {
		if err := runToken(os.Args[2:], os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Cancel on Ctrl+C and SIGTERM for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// It returns nil on clean shutdown.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Gray Logic Voice",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
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

	if migrateErr := db.Migrate(ctx, migrations.FS); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Background workers stop before the database closes.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	var workers sync.WaitGroup
	defer func() {
		stopWorkers()
		workers.Wait()
	}()

	applianceRepo := device.NewSQLiteRepository(db.DB)
	source, appliances := catalogSource(cfg, applianceRepo)

	catalog, err := device.LoadCatalog(ctx, source)
	if err != nil {
		return fmt.Errorf("loading appliance catalog: %w", err)
	}
	log.Info("appliance catalog loaded",
		"appliances", catalog.Len(),
		"file", cfg.Skill.CatalogFile,
	)

	accounts := identity.NewSQLiteStore(db.DB)

	var validator smarthome.Validator
	if cfg.Skill.ValidateResponses {
		v, vErr := validation.New()
		if vErr != nil {
			return fmt.Errorf("compiling response schema: %w", vErr)
		}
		validator = v
	}

	auditRepo := audit.NewSQLiteRepository(db.DB)
	auditRecorder := audit.NewRecorder(auditRepo, log, 0)
	startWorker(&workers, func() { auditRecorder.Run(workerCtx) })

	recorders := smarthome.Recorders{auditRecorder}

	var reloads device.ReloadObservers

	influxClient, err := startInfluxDB(cfg, log)
	if err != nil {
		return err
	}
	if influxClient != nil {
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		recorders = append(recorders, influxClient)
		reloads = append(reloads, influxClient)
	}

	mqttClient, err := startMQTT(cfg, log)
	if err != nil {
		return err
	}
	if mqttClient != nil {
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()

		events := mqtt.NewEventPublisher(mqttClient, log)
		startWorker(&workers, func() { events.Run(workerCtx) })
		recorders = append(recorders, events)
		reloads = append(reloads, events)

		// #nosec G115 -- qos validated to 0-2 by config
		qos := byte(cfg.MQTT.QoS)
		reloadTopic := mqtt.Topics{}.CatalogReload()
		if subErr := mqtt.SubscribeCatalogReload(mqttClient, qos, catalog, source, reloads); subErr != nil {
			return fmt.Errorf("subscribing to catalog reload: %w", subErr)
		}
		// Stop taking reload triggers before the database closes.
		defer func() {
			if unsubErr := mqttClient.Unsubscribe(reloadTopic); unsubErr != nil {
				log.Warn("unsubscribing from catalog reload", "error", unsubErr)
			}
		}()
		log.Info("catalog reload trigger subscribed",
			"topic", reloadTopic,
			"subscriptions", mqttClient.SubscriptionCount(),
		)
	}

	hub := api.NewHub(cfg.WebSocket, log)
	recorders = append(recorders, hub)

	dispatcher, err := smarthome.NewDispatcher(smarthome.Deps{
		Catalog:   catalog,
		Identity:  accounts,
		Validator: validator,
		Recorder:  recorders,
		Logger:    log.With("component", "smarthome"),
		Camera: smarthome.CameraSettings{
			StreamPath:         cfg.Skill.Camera.StreamPath,
			ImagePath:          cfg.Skill.Camera.ImagePath,
			Expiry:             time.Duration(cfg.Skill.Camera.ExpirySeconds) * time.Second,
			IdleTimeoutSeconds: cfg.Skill.Camera.IdleTimeoutSeconds,
		},
		LookupTimeout: cfg.GetLookupTimeout(),
	})
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}
	log.Info("directive routes registered", "routes", len(dispatcher.Routes()))

	health := map[string]api.HealthChecker{"database": db}
	if mqttClient != nil {
		health["mqtt"] = mqttClient
	}
	if influxClient != nil {
		health["influxdb"] = influxClient
	}

	server, err := api.New(api.Deps{
		Config:     cfg.API,
		WS:         cfg.WebSocket,
		Security:   cfg.Security,
		Logger:     log,
		Dispatcher: dispatcher,
		Source:     source,
		Reloads:    reloads,
		Appliances: appliances,
		Accounts:   accounts,
		Audit:      auditRepo,
		Hub:        hub,
		Health:     health,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(workerCtx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if err := healthCheck(ctx, health); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred calls run in reverse order:
	// 1. API server
	// 2. MQTT reload trigger, then MQTT (if enabled)
	// 3. InfluxDB (if enabled)
	// 4. Background workers (audit drain)
	// 5. Database

	log.Info("Gray Logic Voice stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses GRAYLOGIC_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("GRAYLOGIC_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// catalogSource picks where the catalog is read from. A configured file
// wins; the appliances table is then read-only through the API.
func catalogSource(cfg *config.Config, repo *device.SQLiteRepository) (device.Source, device.Repository) {
	if cfg.Skill.CatalogFile != "" {
		return device.FileSource{Path: cfg.Skill.CatalogFile}, nil
	}
	return repo, repo
}

func startWorker(wg *sync.WaitGroup, fn func()) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		fn()
	}()
}

// startMQTT connects to the broker when MQTT is enabled.
// It returns a nil client when disabled.
func startMQTT(cfg *config.Config, log *logging.Logger) (*mqtt.Client, error) {
	if !cfg.MQTT.Enabled {
		log.Info("MQTT disabled")
		return nil, nil
	}

	client, err := mqtt.Connect(cfg.MQTT)
	if err != nil {
		return nil, fmt.Errorf("connecting to MQTT: %w", err)
	}
	client.SetLogger(log)
	client.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	client.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})

	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)
	return client, nil
}

// startInfluxDB connects to InfluxDB when enabled.
// It returns a nil client when disabled.
func startInfluxDB(cfg *config.Config, log *logging.Logger) (*influxdb.Client, error) {
	if !cfg.InfluxDB.Enabled {
		log.Info("InfluxDB disabled")
		return nil, nil
	}

	client, err := influxdb.Connect(cfg.InfluxDB)
	if err != nil {
		return nil, fmt.Errorf("connecting to InfluxDB: %w", err)
	}
	client.SetOnError(func(err error) {
		log.Error("InfluxDB write error", "error", err)
	})

	log.Info("InfluxDB connected",
		"url", cfg.InfluxDB.URL,
		"org", cfg.InfluxDB.Org,
		"bucket", cfg.InfluxDB.Bucket,
	)
	return client, nil
}

// healthCheck verifies each registered component. It returns the first
// failure.
func healthCheck(ctx context.Context, checks map[string]api.HealthChecker) error {
	for _, name := range []string{"database", "mqtt", "influxdb"} {
		check, ok := checks[name]
		if !ok {
			continue
		}
		if err := check.HealthCheck(ctx); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// runToken mints an admin API token signed with the configured secret.
func runToken(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(out)
	subject := fs.String("subject", "operator", "token subject")
	role := fs.String("role", string(auth.RoleViewer), "viewer or admin")
	ttl := fs.Duration("ttl", 12*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	token, err := auth.GenerateAccessToken(*subject, auth.Role(*role), cfg.Security.JWT.Secret, *ttl)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}

	_, err = fmt.Fprintln(out, token)
	return err
}
