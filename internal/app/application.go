package app

import (
	"log/slog"

	"perimap.peribus.org/internal/appconf"
	"perimap.peribus.org/internal/clock"
	"perimap.peribus.org/internal/config"
	"perimap.peribus.org/internal/gtfs"
	"perimap.peribus.org/internal/metrics"
	"perimap.peribus.org/internal/schedule"
	"perimap.peribus.org/internal/sim"
	"perimap.peribus.org/internal/status"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config      Config
	GtfsConfig  gtfs.Config
	Logger      *slog.Logger
	GtfsManager *gtfs.Manager
	Scheduler   *schedule.Scheduler
	Pipeline    *sim.Pipeline
	Clock       *clock.Timekeeper
	Statuses    *status.Store
	Metrics     *metrics.Collector
	Network     *config.Network
}

// Config holds the server-level configuration settings, read from
// command-line flags at startup.
type Config struct {
	Port         int
	Env          appconf.Environment
	ApiKeys      []string
	AdminApiKeys []string
}
