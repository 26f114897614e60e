package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"

	"perimap.peribus.org/internal/app"
	"perimap.peribus.org/internal/appconf"
	"perimap.peribus.org/internal/clock"
	"perimap.peribus.org/internal/config"
	"perimap.peribus.org/internal/gtfs"
	"perimap.peribus.org/internal/logging"
	"perimap.peribus.org/internal/metrics"
	"perimap.peribus.org/internal/publisher"
	"perimap.peribus.org/internal/restapi"
	"perimap.peribus.org/internal/schedule"
	"perimap.peribus.org/internal/sim"
	"perimap.peribus.org/internal/status"
)

type flags struct {
	port          int
	env           string
	apiKeys       string
	adminApiKeys  string
	gtfsSource    string
	gtfsDataPath  string
	networkConfig string
	natsURL       string
	tickInterval  time.Duration
	clockMode     string
	timezone      string
	verbose       bool
}

func main() {
	// A .env file is optional; flags and the environment win.
	_ = godotenv.Load()

	var f flags
	flag.IntVar(&f.port, "port", envInt("PORT", 4000), "API server port")
	flag.StringVar(&f.env, "env", envString("APP_ENV", "development"), "Environment (development|test|production)")
	flag.StringVar(&f.apiKeys, "api-keys", envString("API_KEYS", "test"), "Comma separated API keys")
	flag.StringVar(&f.adminApiKeys, "admin-api-keys", envString("ADMIN_API_KEYS", ""), "Comma separated admin API keys")
	flag.StringVar(&f.gtfsSource, "gtfs-source", envString("GTFS_SOURCE", "peribus.zip"), "Path or URL of the static GTFS zip")
	flag.StringVar(&f.gtfsDataPath, "gtfs-data-path", envString("GTFS_DATA_PATH", "perimap.db"), "Path of the SQLite dataset database")
	flag.StringVar(&f.networkConfig, "network-config", envString("NETWORK_CONFIG", ""), "Path of the network presentation YAML")
	flag.StringVar(&f.natsURL, "nats-url", envString("NATS_URL", ""), "NATS server URL (empty disables publishing)")
	flag.DurationVar(&f.tickInterval, "tick-interval", 2*time.Second, "Pipeline tick interval")
	flag.StringVar(&f.clockMode, "clock-mode", envString("CLOCK_MODE", "real"), "Clock mode (real|simulated)")
	flag.StringVar(&f.timezone, "timezone", envString("TIMEZONE", "Europe/Paris"), "Service-day timezone")
	flag.BoolVar(&f.verbose, "verbose", false, "Verbose logging")
	flag.Parse()

	logLevel := slog.LevelInfo
	if f.verbose {
		logLevel = slog.LevelDebug
	}
	logger := logging.NewStructuredLogger(os.Stdout, logLevel)

	if err := run(f, logger); err != nil {
		logger.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run(f flags, logger *slog.Logger) error {
	env := appconf.EnvFlagToEnvironment(f.env)

	loc, err := time.LoadLocation(f.timezone)
	if err != nil {
		return fmt.Errorf("unknown timezone %q: %w", f.timezone, err)
	}

	gtfsConfig := gtfs.Config{
		GtfsSource:   f.gtfsSource,
		GTFSDataPath: f.gtfsDataPath,
		Env:          env,
		Verbose:      f.verbose,
	}
	manager, err := gtfs.InitManager(gtfsConfig, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize GTFS dataset: %w", err)
	}
	defer logging.SafeCloseWithLogging(manager, logger, "gtfs dataset")

	logger.Info("dataset loaded",
		"source", manager.Source(),
		"stops", len(manager.AllStops()),
		"routes", len(manager.AllRoutes()),
		"trips", len(manager.AllTrips()))

	network, err := config.LoadNetwork(f.networkConfig)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector(f.tickInterval)

	var pub sim.PositionPublisher
	if f.natsURL != "" {
		natsPub, err := publisher.NewNATSPublisher(f.natsURL, logger, collector)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsPub.Close()
		pub = natsPub
	}

	mode := clock.ModeReal
	if f.clockMode == "simulated" {
		mode = clock.ModeSimulated
	}
	timekeeper := clock.NewTimekeeper(mode, f.tickInterval, loc, logger)

	scheduler := schedule.NewScheduler(manager, logger)
	statuses := status.NewStore()
	pipeline := sim.NewPipeline(scheduler, statuses, collector, pub, logger)
	timekeeper.AddListener(pipeline.OnTick)

	// Fill the first frame before the server answers requests.
	pipeline.OnTick(timekeeper.Now())

	application := &app.Application{
		Config: app.Config{
			Port:         f.port,
			Env:          env,
			ApiKeys:      splitKeys(f.apiKeys),
			AdminApiKeys: splitKeys(f.adminApiKeys),
		},
		GtfsConfig:  gtfsConfig,
		Logger:      logger,
		GtfsManager: manager,
		Scheduler:   scheduler,
		Pipeline:    pipeline,
		Clock:       timekeeper,
		Statuses:    statuses,
		Metrics:     collector,
		Network:     network,
	}

	router := httprouter.New()
	restapi.NewRestAPI(application).SetRoutes(router)
	handler := restapi.NewRequestLoggingMiddleware(logger)(router)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", f.port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go timekeeper.Run(ctx)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", env.String(), "clock_mode", string(mode))
		serverErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func splitKeys(raw string) []string {
	if raw == "" {
		return nil
	}
	keys := strings.Split(raw, ",")
	result := make([]string, 0, len(keys))
	for _, key := range keys {
		if key = strings.TrimSpace(key); key != "" {
			result = append(result, key)
		}
	}
	return result
}

func envString(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return fallback
	}
	return n
}
