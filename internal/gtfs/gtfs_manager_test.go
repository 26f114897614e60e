package gtfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perimap.peribus.org/internal/models"
)

func testTables() Tables {
	return Tables{
		Stops: []*models.Stop{
			{ID: "A", Name: "Tourny", Lat: 45.184, Lon: 0.721},
			{ID: "B", Name: "Gare SNCF", Lat: 45.187, Lon: 0.712},
		},
		Routes: []*models.Route{{ID: "r1", ShortName: "A"}},
		Trips:  []*models.Trip{{ID: "t1", RouteID: "r1", ServiceID: "WD"}},
		StopTimes: []models.StopTime{
			// Deliberately out of sequence order.
			{TripID: "t1", StopID: "B", StopSequence: 2, ArrivalSeconds: 29100, DepartureSeconds: 29100},
			{TripID: "t1", StopID: "A", StopSequence: 1, ArrivalSeconds: 28800, DepartureSeconds: 28800},
		},
		Calendar: []models.ServiceCalendar{{ServiceID: "WD", Monday: true, StartDate: "20250101", EndDate: "20251231"}},
		CalendarDates: []models.CalendarException{
			{ServiceID: "WD", Date: "20250602", Type: models.ServiceRemoved},
		},
	}
}

func TestNewManagerFromTables(t *testing.T) {
	m := NewManagerFromTables(testTables(), nil)

	assert.Equal(t, "Tourny", m.GetStop("A").Name)
	assert.Nil(t, m.GetStop("missing"))
	assert.Equal(t, "A", m.GetRoute("r1").ShortName)
	assert.Equal(t, "WD", m.GetTrip("t1").ServiceID)

	assert.Len(t, m.AllStops(), 2)
	assert.Len(t, m.AllRoutes(), 1)
	assert.Len(t, m.AllTrips(), 1)
	assert.Len(t, m.Calendar(), 1)
	assert.Len(t, m.CalendarDates(), 1)
}

func TestStopTimesForTripSortedBySequence(t *testing.T) {
	m := NewManagerFromTables(testTables(), nil)

	sts := m.StopTimesForTrip("t1")
	require.Len(t, sts, 2)
	assert.Equal(t, "A", sts[0].StopID)
	assert.Equal(t, "B", sts[1].StopID)

	assert.Empty(t, m.StopTimesForTrip("missing"))
}

func TestStopTimesForStop(t *testing.T) {
	m := NewManagerFromTables(testTables(), nil)

	sts := m.StopTimesForStop("A")
	require.Len(t, sts, 1)
	assert.Equal(t, "t1", sts[0].TripID)
}

func TestMemberStopIDs(t *testing.T) {
	tables := testTables()
	tables.Stops = append(tables.Stops,
		&models.Stop{ID: "station", Name: "Hub", LocationType: models.LocationTypeStation},
		&models.Stop{ID: "quay", Name: "Hub quay", ParentStation: "station"},
	)
	m := NewManagerFromTables(tables, nil)

	assert.ElementsMatch(t, []string{"station", "quay"}, m.MemberStopIDs("station"))
	assert.Equal(t, []string{"A"}, m.MemberStopIDs("A"))
	assert.Nil(t, m.MemberStopIDs("missing"))
}

func TestTimeToSeconds(t *testing.T) {
	m := NewManagerFromTables(Tables{}, nil)

	assert.Equal(t, 28800, m.TimeToSeconds("08:00:00"))
	assert.Equal(t, 90600, m.TimeToSeconds("25:10:00"))
	assert.Equal(t, 0, m.TimeToSeconds("garbage"))
}

func TestDailyServiceBounds(t *testing.T) {
	tables := testTables()
	tables.Trips = append(tables.Trips, &models.Trip{ID: "t2", RouteID: "r1", ServiceID: "WD"})
	tables.StopTimes = append(tables.StopTimes,
		models.StopTime{TripID: "t2", StopID: "A", StopSequence: 1, ArrivalSeconds: 21600, DepartureSeconds: 21600},
		models.StopTime{TripID: "t2", StopID: "B", StopSequence: 2, ArrivalSeconds: 90600, DepartureSeconds: 90600},
		// Single stop-time trips never move a vehicle and are ignored.
		models.StopTime{TripID: "stub", StopID: "A", StopSequence: 1, ArrivalSeconds: 10, DepartureSeconds: 10},
	)
	m := NewManagerFromTables(tables, nil)

	earliest, latest := m.DailyServiceBounds()
	assert.Equal(t, 21600, earliest)
	assert.Equal(t, 90600, latest)
}

func TestDailyServiceBoundsEmptyDataset(t *testing.T) {
	m := NewManagerFromTables(Tables{}, nil)

	earliest, latest := m.DailyServiceBounds()
	assert.Equal(t, 0, earliest)
	assert.Equal(t, 86400, latest)
}

func TestNextActiveSecond(t *testing.T) {
	tables := testTables()
	tables.Trips = append(tables.Trips, &models.Trip{ID: "t2", RouteID: "r1", ServiceID: "WD"})
	tables.StopTimes = append(tables.StopTimes,
		models.StopTime{TripID: "t2", StopID: "A", StopSequence: 1, ArrivalSeconds: 36000, DepartureSeconds: 36000},
		models.StopTime{TripID: "t2", StopID: "B", StopSequence: 2, ArrivalSeconds: 36300, DepartureSeconds: 36300},
	)
	m := NewManagerFromTables(tables, nil)

	// Before both trip starts.
	assert.Equal(t, 28800, m.NextActiveSecond(0))
	// Between the two starts.
	assert.Equal(t, 36000, m.NextActiveSecond(28800))
	// Past the last start wraps to the first of the day.
	assert.Equal(t, 28800, m.NextActiveSecond(80000))
}
