package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the process metrics on a private registry, so the
// /metrics endpoint only exposes what the dashboard itself records.
type Collector struct {
	reg *prometheus.Registry

	ActiveTrips    prometheus.Gauge
	ActiveVehicles prometheus.Gauge

	TicksTotal prometheus.Counter

	NATSPublished   prometheus.Counter
	NATSPublishErrs prometheus.Counter
	NATSConnected   prometheus.Gauge

	TickDuration prometheus.Histogram

	ClockSpeed   prometheus.Gauge
	TickInterval prometheus.Gauge // seconds
}

func NewCollector(tickInterval time.Duration) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		ActiveTrips: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "perimap_active_trips",
			Help: "Number of trips inside their operating window.",
		}),
		ActiveVehicles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "perimap_active_vehicles",
			Help: "Number of vehicles currently rendered as moving.",
		}),
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "perimap_ticks_total",
			Help: "Total pipeline ticks processed.",
		}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "perimap_nats_published_total",
			Help: "Total NATS messages published.",
		}),
		NATSPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "perimap_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "perimap_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "perimap_tick_duration_seconds",
			Help:    "Duration of one pipeline tick.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
		ClockSpeed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "perimap_clock_speed_multiplier",
			Help: "Current simulated-clock speed multiplier.",
		}),
		TickInterval: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "perimap_tick_interval_seconds",
			Help: "Configured tick interval in seconds.",
		}),
	}

	reg.MustRegister(
		c.ActiveTrips, c.ActiveVehicles, c.TicksTotal,
		c.NATSPublished, c.NATSPublishErrs, c.NATSConnected,
		c.TickDuration, c.ClockSpeed, c.TickInterval,
	)

	c.ClockSpeed.Set(1)
	c.TickInterval.Set(tickInterval.Seconds())

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// The publisher reports through this narrow surface.

func (c *Collector) NATSPublishedInc()  { c.NATSPublished.Inc() }
func (c *Collector) NATSPublishErrInc() { c.NATSPublishErrs.Inc() }

func (c *Collector) NATSSetConnected(connected bool) {
	if connected {
		c.NATSConnected.Set(1)
	} else {
		c.NATSConnected.Set(0)
	}
}
