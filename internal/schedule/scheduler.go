// Package schedule implements the temporal-state engine of the dashboard:
// deciding which services run on a date, which trips are currently on the
// road, and where along their current leg each vehicle is.
package schedule

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"perimap.peribus.org/internal/models"
)

// Dataset is the read-only slice of the GTFS dataset the engine consumes.
// *gtfs.Manager satisfies it.
type Dataset interface {
	GetStop(stopID string) *models.Stop
	GetRoute(routeID string) *models.Route
	AllTrips() []*models.Trip
	StopTimesForTrip(tripID string) []models.StopTime
	Calendar() []models.ServiceCalendar
	CalendarDates() []models.CalendarException
}

// Scheduler resolves the scheduled state of the network at an instant.
// It holds no state of its own beyond the dataset reference; every
// method is a pure function of its inputs and the immutable dataset.
type Scheduler struct {
	dataset Dataset
	logger  *slog.Logger
}

func NewScheduler(dataset Dataset, logger *slog.Logger) *Scheduler {
	return &Scheduler{dataset: dataset, logger: logger}
}

// ActiveServiceIDs returns the set of service ids running on the given
// date: the weekly calendar entries covering the date, minus REMOVED
// exceptions, plus ADDED exceptions. An ADDED exception always wins; a
// REMOVED exception only suppresses the weekly pattern.
func (s *Scheduler) ActiveServiceIDs(date time.Time) map[string]bool {
	dateStr := models.DateString(date)
	weekday := date.Weekday()

	removed := make(map[string]bool)
	for _, exc := range s.dataset.CalendarDates() {
		if exc.Date == dateStr && exc.Type == models.ServiceRemoved {
			removed[exc.ServiceID] = true
		}
	}

	active := make(map[string]bool)
	for _, entry := range s.dataset.Calendar() {
		if !entry.RunsOn(weekday) {
			continue
		}
		if dateStr < entry.StartDate || dateStr > entry.EndDate {
			continue
		}
		if removed[entry.ServiceID] {
			continue
		}
		active[entry.ServiceID] = true
	}

	for _, exc := range s.dataset.CalendarDates() {
		if exc.Date == dateStr && exc.Type == models.ServiceAdded {
			active[exc.ServiceID] = true
		}
	}

	return active
}

// MatchesServiceID reports whether a trip's service id belongs to an
// active service. Some exports of this network's feed append a
// colon-delimited suffix to trip-level service ids, so a prefix match on
// "id:" is accepted alongside strict equality. This tolerance is specific
// to the target feed, not part of the GTFS standard.
func MatchesServiceID(tripServiceID, activeServiceID string) bool {
	return tripServiceID == activeServiceID ||
		strings.HasPrefix(tripServiceID, activeServiceID+":")
}

func matchesAnyService(tripServiceID string, active map[string]bool) bool {
	if active[tripServiceID] {
		return true
	}
	for serviceID := range active {
		if MatchesServiceID(tripServiceID, serviceID) {
			return true
		}
	}
	return false
}

// ActiveTrips returns every trip whose service runs on the given date and
// whose operating window (first-stop arrival through last-stop arrival,
// inclusive) contains currentSeconds. Trips with fewer than two stop-times
// cannot define a movement segment and are excluded. The result is a
// superset of the vehicles in motion: callers resolve the motion state of
// each record with FindCurrentState.
func (s *Scheduler) ActiveTrips(currentSeconds int, date time.Time) []models.ActiveTrip {
	active := s.ActiveServiceIDs(date)
	if len(active) == 0 {
		if s.logger != nil {
			s.logger.Warn("no active service for date", "date", models.DateString(date))
		}
		return nil
	}

	var result []models.ActiveTrip
	for _, trip := range s.dataset.AllTrips() {
		if !matchesAnyService(trip.ServiceID, active) {
			continue
		}

		stopTimes := s.dataset.StopTimesForTrip(trip.ID)
		if len(stopTimes) < 2 {
			continue
		}

		start := stopTimes[0].ArrivalSeconds
		end := stopTimes[len(stopTimes)-1].ArrivalSeconds
		if currentSeconds < start || currentSeconds > end {
			continue
		}

		route := s.dataset.GetRoute(trip.RouteID)
		if route == nil {
			// Malformed feed row; drop the trip rather than fail the tick.
			continue
		}

		result = append(result, models.ActiveTrip{
			TripID:    trip.ID,
			Trip:      trip,
			StopTimes: stopTimes,
			Route:     route,
		})
	}

	return result
}

// FindCurrentState locates the movement segment containing currentSeconds:
// the consecutive stop-time pair where prev.departure <= t <= curr.arrival.
// The upper bound is inclusive so a vehicle is still reported moving at the
// exact second it reaches a stop instead of vanishing for one tick. A
// vehicle dwelling at a stop between arrival and a later departure has no
// segment and yields nil, as does a trip outside its operating window or
// one referencing unknown stops.
//
// Stop-times are sorted by sequence, so the containing pair is found by
// binary search rather than rescanning the whole sequence each tick.
func (s *Scheduler) FindCurrentState(stopTimes []models.StopTime, currentSeconds int) *models.Segment {
	if len(stopTimes) < 2 {
		return nil
	}

	// First pair index whose arrival bounds currentSeconds from above.
	idx := 1 + sort.Search(len(stopTimes)-1, func(k int) bool {
		return stopTimes[k+1].ArrivalSeconds >= currentSeconds
	})
	if idx >= len(stopTimes) {
		return nil
	}

	prev := stopTimes[idx-1]
	curr := stopTimes[idx]
	if prev.DepartureSeconds > currentSeconds {
		// Before the first departure, or dwelling at the previous stop.
		return nil
	}

	from := s.dataset.GetStop(prev.StopID)
	to := s.dataset.GetStop(curr.StopID)
	if from == nil || to == nil {
		return nil
	}

	return &models.Segment{
		From:             from,
		To:               to,
		DepartureSeconds: prev.DepartureSeconds,
		ArrivalSeconds:   curr.ArrivalSeconds,
		Progress:         Progress(prev.DepartureSeconds, curr.ArrivalSeconds, currentSeconds),
	}
}

// TripDestination returns the display name of a trip's final stop.
func (s *Scheduler) TripDestination(stopTimes []models.StopTime) string {
	if len(stopTimes) == 0 {
		return "Unknown destination"
	}

	last := stopTimes[len(stopTimes)-1]
	if stop := s.dataset.GetStop(last.StopID); stop != nil {
		return stop.Name
	}
	return last.StopID
}
