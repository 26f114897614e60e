package restapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"perimap.peribus.org/gtfsdb"
	"perimap.peribus.org/internal/app"
	"perimap.peribus.org/internal/appconf"
	"perimap.peribus.org/internal/clock"
	"perimap.peribus.org/internal/config"
	"perimap.peribus.org/internal/gtfs"
	"perimap.peribus.org/internal/models"
	"perimap.peribus.org/internal/schedule"
	"perimap.peribus.org/internal/sim"
	"perimap.peribus.org/internal/status"
)

var testMonday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func testTables() gtfs.Tables {
	return gtfs.Tables{
		Stops: []*models.Stop{
			{ID: "station", Name: "Gare SNCF", Lat: 45.187, Lon: 0.712, LocationType: models.LocationTypeStation},
			{ID: "quay", Name: "Gare SNCF quai 1", Lat: 45.1871, Lon: 0.7121, ParentStation: "station"},
			{ID: "tourny", Name: "Tourny", Lat: 45.184, Lon: 0.721},
		},
		Routes: []*models.Route{
			{ID: "r1", ShortName: "A", LongName: "Ligne A", Color: "004F9F", TextColor: "FFFFFF"},
		},
		Trips: []*models.Trip{
			{ID: "t1", RouteID: "r1", ServiceID: "WD", Headsign: "Gare SNCF"},
		},
		StopTimes: []models.StopTime{
			{TripID: "t1", StopID: "tourny", StopSequence: 1, ArrivalSeconds: 28800, DepartureSeconds: 28800},
			{TripID: "t1", StopID: "quay", StopSequence: 2, ArrivalSeconds: 29100, DepartureSeconds: 29100},
		},
		Calendar: []models.ServiceCalendar{{
			ServiceID: "WD",
			Monday:    true, Tuesday: true, Wednesday: true, Thursday: true, Friday: true,
			StartDate: "20250101", EndDate: "20251231",
		}},
	}
}

func buildTestAPI(t *testing.T) (*RestAPI, *httprouter.Router) {
	t.Helper()

	tables := testTables()
	manager := gtfs.NewManagerFromTables(tables, nil)

	client, err := gtfsdb.NewClient(gtfsdb.NewConfig(":memory:", appconf.Test, false), nil)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() }) // nolint:errcheck
	require.NoError(t, client.ImportTables(context.Background(), gtfsdb.Tables{
		Stops:     tables.Stops,
		Routes:    tables.Routes,
		Trips:     tables.Trips,
		StopTimes: tables.StopTimes,
		Calendar:  tables.Calendar,
		Dates:     tables.CalendarDates,
	}))
	manager.GtfsDB = client

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	scheduler := schedule.NewScheduler(manager, logger)

	timekeeper := clock.NewTimekeeper(clock.ModeSimulated, time.Second, time.UTC, nil)
	timekeeper.Set(28980, testMonday)
	timekeeper.Pause()

	statuses := status.NewStore()
	pipeline := sim.NewPipeline(scheduler, statuses, nil, nil, logger)
	pipeline.OnTick(timekeeper.Now())

	api := NewRestAPI(&app.Application{
		Config: app.Config{
			Port:         4000,
			Env:          appconf.Test,
			ApiKeys:      []string{"TEST"},
			AdminApiKeys: []string{"ADMIN"},
		},
		Logger:      logger,
		GtfsManager: manager,
		Scheduler:   scheduler,
		Pipeline:    pipeline,
		Clock:       timekeeper,
		Statuses:    statuses,
		Network: &config.Network{
			Categories: []config.Category{
				{ID: "urban", Name: "Lignes urbaines", Lines: []string{"A"}},
			},
			LongNameOverrides: map[string]string{"A": "Tourny - Gare SNCF"},
			TimetablePDFs:     map[string]string{"A": "https://example.org/ligne-a.pdf"},
		},
	})

	router := httprouter.New()
	api.SetRoutes(router)
	return api, router
}

func serveRequest(t *testing.T, router *httprouter.Router, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	r := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, r)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.ResponseModel {
	t.Helper()

	var model models.ResponseModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &model))
	return model
}

func dataField(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	model := decodeEnvelope(t, rec)
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data is not an object: %v", model.Data)
	return data
}

func TestEndpointsRequireValidAPIKey(t *testing.T) {
	_, router := buildTestAPI(t)

	for _, target := range []string{
		"/api/where/vehicles.json",
		"/api/where/routes.json?key=wrong",
		"/api/where/current-time.json",
	} {
		rec := serveRequest(t, router, http.MethodGet, target, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}
}

func TestAdminEndpointsRejectReadOnlyKey(t *testing.T) {
	_, router := buildTestAPI(t)

	rec := serveRequest(t, router, http.MethodPost, "/api/admin/clock?key=TEST",
		`{"action":"pause"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
