package gtfs

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jamespfennell/gtfs"

	"perimap.peribus.org/gtfsdb"
	"perimap.peribus.org/internal/models"
)

// Tables is the raw relational view of a loaded feed, before indexing.
// Tests and alternate loaders construct it directly.
type Tables struct {
	Stops         []*models.Stop
	Routes        []*models.Route
	Trips         []*models.Trip
	StopTimes     []models.StopTime
	Calendar      []models.ServiceCalendar
	CalendarDates []models.CalendarException
}

// Manager owns the parsed GTFS dataset and its derived indices. Loaded
// once at startup and immutable afterwards, so the tick pipeline reads it
// without locking.
type Manager struct {
	gtfsSource  string
	isLocalFile bool
	lastUpdated time.Time
	logger      *slog.Logger

	GtfsDB *gtfsdb.Client

	stops  map[string]*models.Stop
	routes map[string]*models.Route
	trips  map[string]*models.Trip

	allStops  []*models.Stop
	allRoutes []*models.Route
	allTrips  []*models.Trip

	stopTimesByTrip map[string][]models.StopTime
	stopTimesByStop map[string][]models.StopTime

	calendar      []models.ServiceCalendar
	calendarDates []models.CalendarException

	masterStops    []models.MasterStop
	groupedStopMap map[string][]string
}

// InitManager loads the static feed from the configured source, builds
// the in-memory indices, and imports the dataset into the sqlite database
// backing the station-board queries.
func InitManager(config Config, logger *slog.Logger) (*Manager, error) {
	isLocalFile := IsLocalSource(config.GtfsSource)

	staticData, err := loadStaticFeed(config.GtfsSource, isLocalFile)
	if err != nil {
		return nil, err
	}

	tables := tablesFromStatic(staticData, logger)
	manager := NewManagerFromTables(tables, logger)
	manager.gtfsSource = config.GtfsSource
	manager.isLocalFile = isLocalFile

	dbConfig := gtfsdb.NewConfig(config.GTFSDataPath, config.Env, config.Verbose)
	client, err := gtfsdb.NewClient(dbConfig, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create GTFS database client: %w", err)
	}
	if err := client.ImportTables(context.Background(), gtfsdb.Tables{
		Stops:     tables.Stops,
		Routes:    tables.Routes,
		Trips:     tables.Trips,
		StopTimes: tables.StopTimes,
		Calendar:  tables.Calendar,
		Dates:     tables.CalendarDates,
	}); err != nil {
		return nil, fmt.Errorf("error importing GTFS data into database: %w", err)
	}
	manager.GtfsDB = client

	return manager, nil
}

// NewManagerFromTables builds a Manager over already-assembled tables.
func NewManagerFromTables(tables Tables, logger *slog.Logger) *Manager {
	m := &Manager{
		logger:          logger,
		lastUpdated:     time.Now(),
		stops:           make(map[string]*models.Stop, len(tables.Stops)),
		routes:          make(map[string]*models.Route, len(tables.Routes)),
		trips:           make(map[string]*models.Trip, len(tables.Trips)),
		allStops:        tables.Stops,
		allRoutes:       tables.Routes,
		allTrips:        tables.Trips,
		stopTimesByTrip: make(map[string][]models.StopTime),
		stopTimesByStop: make(map[string][]models.StopTime),
		calendar:        tables.Calendar,
		calendarDates:   tables.CalendarDates,
	}

	for _, s := range tables.Stops {
		m.stops[s.ID] = s
	}
	for _, r := range tables.Routes {
		m.routes[r.ID] = r
	}
	for _, t := range tables.Trips {
		m.trips[t.ID] = t
	}

	for _, st := range tables.StopTimes {
		m.stopTimesByTrip[st.TripID] = append(m.stopTimesByTrip[st.TripID], st)
		m.stopTimesByStop[st.StopID] = append(m.stopTimesByStop[st.StopID], st)
	}
	for tripID := range m.stopTimesByTrip {
		sts := m.stopTimesByTrip[tripID]
		sort.Slice(sts, func(i, j int) bool {
			return sts[i].StopSequence < sts[j].StopSequence
		})
	}

	m.masterStops, m.groupedStopMap = GroupStops(tables.Stops)

	return m
}

// tablesFromStatic converts the parsed feed into domain tables. The
// merged per-service exception dates are flattened back into individual
// calendar_dates rows so the calendar resolver can work over them.
func tablesFromStatic(staticData *gtfs.Static, logger *slog.Logger) Tables {
	var tables Tables

	for i := range staticData.Stops {
		s := &staticData.Stops[i]
		if s.Latitude == nil || s.Longitude == nil {
			// A stop without coordinates cannot be rendered; segments
			// touching it are skipped downstream.
			if logger != nil {
				logger.Warn("skipping stop without coordinates", "stop_id", s.Id)
			}
			continue
		}
		parentID := ""
		if s.Parent != nil {
			parentID = s.Parent.Id
		}
		tables.Stops = append(tables.Stops, &models.Stop{
			ID:            s.Id,
			Code:          s.Code,
			Name:          s.Name,
			Lat:           *s.Latitude,
			Lon:           *s.Longitude,
			LocationType:  int(s.Type),
			ParentStation: parentID,
		})
	}

	for i := range staticData.Routes {
		r := &staticData.Routes[i]
		route := models.NewRoute(r.Id, r.ShortName, r.LongName, r.Color, r.TextColor)
		tables.Routes = append(tables.Routes, &route)
	}

	for i := range staticData.Services {
		s := &staticData.Services[i]
		tables.Calendar = append(tables.Calendar, models.ServiceCalendar{
			ServiceID: s.Id,
			Monday:    s.Monday,
			Tuesday:   s.Tuesday,
			Wednesday: s.Wednesday,
			Thursday:  s.Thursday,
			Friday:    s.Friday,
			Saturday:  s.Saturday,
			Sunday:    s.Sunday,
			StartDate: models.DateString(s.StartDate),
			EndDate:   models.DateString(s.EndDate),
		})
		for _, d := range s.AddedDates {
			tables.CalendarDates = append(tables.CalendarDates, models.CalendarException{
				ServiceID: s.Id,
				Date:      models.DateString(d),
				Type:      models.ServiceAdded,
			})
		}
		for _, d := range s.RemovedDates {
			tables.CalendarDates = append(tables.CalendarDates, models.CalendarException{
				ServiceID: s.Id,
				Date:      models.DateString(d),
				Type:      models.ServiceRemoved,
			})
		}
	}

	for i := range staticData.Trips {
		t := &staticData.Trips[i]
		tables.Trips = append(tables.Trips, &models.Trip{
			ID:        t.ID,
			RouteID:   t.Route.Id,
			ServiceID: t.Service.Id,
			Headsign:  t.Headsign,
		})
		for _, st := range t.StopTimes {
			tables.StopTimes = append(tables.StopTimes, models.StopTime{
				TripID:           t.ID,
				StopID:           st.Stop.Id,
				StopSequence:     st.StopSequence,
				ArrivalSeconds:   int(st.ArrivalTime / time.Second),
				DepartureSeconds: int(st.DepartureTime / time.Second),
			})
		}
	}

	return tables
}

// TimeToSeconds converts an HH:MM:SS string to seconds since midnight,
// tolerating hour values of 24 and above. Malformed strings degrade to 0
// with a warning rather than failing the caller.
func (m *Manager) TimeToSeconds(s string) int {
	seconds, err := ParseGTFSTime(s)
	if err != nil {
		if m.logger != nil {
			m.logger.Warn("malformed GTFS time", "value", s)
		}
		return 0
	}
	return seconds
}

// GetStop returns the stop with the given id, or nil.
func (m *Manager) GetStop(stopID string) *models.Stop {
	return m.stops[stopID]
}

// GetRoute returns the route with the given id, or nil.
func (m *Manager) GetRoute(routeID string) *models.Route {
	return m.routes[routeID]
}

// GetTrip returns the trip with the given id, or nil.
func (m *Manager) GetTrip(tripID string) *models.Trip {
	return m.trips[tripID]
}

// StopTimesForTrip returns the trip's stop-times sorted by stop sequence.
func (m *Manager) StopTimesForTrip(tripID string) []models.StopTime {
	return m.stopTimesByTrip[tripID]
}

// StopTimesForStop returns every scheduled visit to the given physical stop.
func (m *Manager) StopTimesForStop(stopID string) []models.StopTime {
	return m.stopTimesByStop[stopID]
}

func (m *Manager) AllStops() []*models.Stop   { return m.allStops }
func (m *Manager) AllRoutes() []*models.Route { return m.allRoutes }
func (m *Manager) AllTrips() []*models.Trip   { return m.allTrips }

// MasterStops returns the rider-facing stop groupings.
func (m *Manager) MasterStops() []models.MasterStop { return m.masterStops }

// GroupedStopMap maps each master stop id to its member stop ids.
func (m *Manager) GroupedStopMap() map[string][]string { return m.groupedStopMap }

// Calendar returns the weekly service patterns.
func (m *Manager) Calendar() []models.ServiceCalendar { return m.calendar }

// CalendarDates returns the single-date service exceptions.
func (m *Manager) CalendarDates() []models.CalendarException { return m.calendarDates }

// MemberStopIDs expands a master-stop id into its member stop ids. An id
// that is not a master stop expands to itself, so platform-level lookups
// keep working.
func (m *Manager) MemberStopIDs(masterStopID string) []string {
	if members, ok := m.groupedStopMap[masterStopID]; ok {
		return members
	}
	if _, ok := m.stops[masterStopID]; ok {
		return []string{masterStopID}
	}
	return nil
}

// DailyServiceBounds returns the earliest departure and latest arrival
// over every trip able to move a vehicle (at least two stop-times).
func (m *Manager) DailyServiceBounds() (earliest, latest int) {
	earliest, latest = -1, -1
	for _, sts := range m.stopTimesByTrip {
		if len(sts) < 2 {
			continue
		}
		start := sts[0].DepartureSeconds
		end := sts[len(sts)-1].ArrivalSeconds
		if earliest == -1 || start < earliest {
			earliest = start
		}
		if end > latest {
			latest = end
		}
	}
	if earliest == -1 {
		earliest = 0
	}
	if latest == -1 {
		latest = 86400
	}
	return earliest, latest
}

// NextActiveSecond returns the first trip start strictly after the given
// second, wrapping to the first start of the day when nothing is left.
func (m *Manager) NextActiveSecond(currentSeconds int) int {
	next := -1
	for _, sts := range m.stopTimesByTrip {
		if len(sts) < 2 {
			continue
		}
		start := sts[0].DepartureSeconds
		if start > currentSeconds && (next == -1 || start < next) {
			next = start
		}
	}
	if next == -1 {
		earliest, _ := m.DailyServiceBounds()
		return earliest
	}
	return next
}

// LastUpdated reports when the dataset was loaded.
func (m *Manager) LastUpdated() time.Time { return m.lastUpdated }

// Source reports where the dataset came from.
func (m *Manager) Source() string { return m.gtfsSource }

// Close releases the sqlite handle, if one was opened.
func (m *Manager) Close() error {
	if m.GtfsDB != nil {
		return m.GtfsDB.Close()
	}
	return nil
}
