package schedule

import (
	"fmt"

	"perimap.peribus.org/internal/models"
)

// Progress returns the fraction of a segment completed at currentSeconds,
// clamped to [0,1]. A zero-duration segment is a data anomaly and reports
// progress 0 instead of dividing by zero.
func Progress(departureSeconds, arrivalSeconds, currentSeconds int) float64 {
	duration := arrivalSeconds - departureSeconds
	if duration <= 0 {
		return 0
	}

	elapsed := float64(currentSeconds-departureSeconds) / float64(duration)
	if elapsed < 0 {
		return 0
	}
	if elapsed > 1 {
		return 1
	}
	return elapsed
}

// Position interpolates the vehicle's coordinates linearly between the
// segment's two stops, weighted by its progress. Vehicles are drawn on the
// straight line between stops; the route polyline is only used for the
// static route trace.
func Position(segment *models.Segment) models.Location {
	lat := segment.From.Lat + (segment.To.Lat-segment.From.Lat)*segment.Progress
	lon := segment.From.Lon + (segment.To.Lon-segment.From.Lon)*segment.Progress
	return models.Location{Lat: lat, Lon: lon}
}

// NextStopETA returns the remaining time until the segment's next stop,
// clamped to non-negative, with a rider-facing "Xm Ys" rendering.
func NextStopETA(segment *models.Segment, currentSeconds int) models.ETA {
	remaining := segment.ArrivalSeconds - currentSeconds
	if remaining < 0 {
		remaining = 0
	}
	return models.ETA{
		Seconds:   remaining,
		Formatted: fmt.Sprintf("%dm %ds", remaining/60, remaining%60),
	}
}

// CalculateAllPositions resolves the motion state of every candidate trip
// and interpolates a position for the moving ones. Trips whose vehicle is
// dwelling at a stop, or whose data is unusable, are omitted from the
// result entirely; one bad trip never disturbs the rest of the tick.
func (s *Scheduler) CalculateAllPositions(activeTrips []models.ActiveTrip, currentSeconds int) []models.VehiclePosition {
	positions := make([]models.VehiclePosition, 0, len(activeTrips))
	for _, at := range activeTrips {
		segment := s.FindCurrentState(at.StopTimes, currentSeconds)
		if segment == nil {
			continue
		}

		positions = append(positions, models.VehiclePosition{
			TripID:      at.TripID,
			Route:       at.Route,
			Position:    Position(segment),
			Segment:     segment,
			Destination: s.TripDestination(at.StopTimes),
			Status:      models.StatusNormal,
		})
	}
	return positions
}
