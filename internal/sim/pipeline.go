// Package sim runs the per-tick computation: resolve the active trips,
// interpolate vehicle positions, and expose the result as an immutable
// frame the HTTP handlers read without blocking the next tick.
package sim

import (
	"log/slog"
	"sync"
	"time"

	"perimap.peribus.org/internal/clock"
	"perimap.peribus.org/internal/metrics"
	"perimap.peribus.org/internal/models"
	"perimap.peribus.org/internal/publisher"
	"perimap.peribus.org/internal/schedule"
	"perimap.peribus.org/internal/status"
)

// Frame is one completed tick's output. Handlers copy the struct under
// a read lock and then work on it freely.
type Frame struct {
	Seconds     int
	Date        time.Time
	Vehicles    []models.VehiclePosition
	GeneratedAt time.Time
}

// PositionPublisher is the optional streaming sink for per-vehicle
// positions.
type PositionPublisher interface {
	PublishPosition(msg publisher.PositionMessage) error
}

type Pipeline struct {
	scheduler *schedule.Scheduler
	statuses  *status.Store
	collector *metrics.Collector
	pub       PositionPublisher
	logger    *slog.Logger

	mu    sync.RWMutex
	frame Frame
}

// NewPipeline wires the tick computation. The collector and publisher
// may be nil.
func NewPipeline(scheduler *schedule.Scheduler, statuses *status.Store, collector *metrics.Collector, pub PositionPublisher, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		scheduler: scheduler,
		statuses:  statuses,
		collector: collector,
		pub:       pub,
		logger:    logger,
	}
}

// OnTick recomputes the frame for the given instant. It is the listener
// registered on the Timekeeper. A failure on one vehicle never aborts
// the tick; bad records are simply absent from the frame.
func (p *Pipeline) OnTick(tick clock.Tick) {
	start := time.Now()

	activeTrips := p.scheduler.ActiveTrips(tick.Seconds, tick.Date)
	vehicles := p.scheduler.CalculateAllPositions(activeTrips, tick.Seconds)

	if p.statuses != nil {
		for i := range vehicles {
			vehicles[i].Status = p.statuses.Severity(vehicles[i].Route.ID)
		}
	}

	frame := Frame{
		Seconds:     tick.Seconds,
		Date:        tick.Date,
		Vehicles:    vehicles,
		GeneratedAt: start,
	}

	p.mu.Lock()
	p.frame = frame
	p.mu.Unlock()

	if p.pub != nil {
		p.publish(frame)
	}

	if p.collector != nil {
		p.collector.TicksTotal.Inc()
		p.collector.ActiveTrips.Set(float64(len(activeTrips)))
		p.collector.ActiveVehicles.Set(float64(len(vehicles)))
		p.collector.TickDuration.Observe(time.Since(start).Seconds())
	}
}

func (p *Pipeline) publish(frame Frame) {
	for _, v := range frame.Vehicles {
		msg := publisher.PositionMessage{
			TripID:      v.TripID,
			RouteID:     v.Route.ID,
			RouteName:   v.Route.ShortName,
			Destination: v.Destination,
			Lat:         v.Position.Lat,
			Lon:         v.Position.Lon,
			Progress:    v.Segment.Progress,
			Seconds:     frame.Seconds,
			Status:      v.Status,
		}
		if err := p.pub.PublishPosition(msg); err != nil && p.logger != nil {
			p.logger.Warn("position publish failed", "trip_id", v.TripID, "error", err)
		}
	}
}

// Frame returns the latest completed frame.
func (p *Pipeline) Frame() Frame {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.frame
}
