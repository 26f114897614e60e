package restapi

import (
	"net/http"
	"testing"

	gtfsrt "github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

func TestLineStatusLifecycle(t *testing.T) {
	api, router := buildTestAPI(t)

	// Initially empty.
	rec := serveRequest(t, router, http.MethodGet, "/api/where/line-statuses.json?key=TEST", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, listField(t, dataField(t, rec)))

	// Set a delay on route A.
	rec = serveRequest(t, router, http.MethodPost, "/api/admin/line-status?key=ADMIN",
		`{"routeId":"r1","severity":"delay","message":"roadworks"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	entry := dataField(t, rec)
	assert.Equal(t, "r1", entry["routeId"])
	assert.Equal(t, "delay", entry["severity"])
	assert.NotEmpty(t, entry["id"])

	// Visible in the public listing.
	rec = serveRequest(t, router, http.MethodGet, "/api/where/line-statuses.json?key=TEST", "")
	require.Len(t, listField(t, dataField(t, rec)), 1)

	// The next tick stamps the severity onto the vehicle.
	api.Pipeline.OnTick(api.Clock.Now())
	rec = serveRequest(t, router, http.MethodGet, "/api/where/vehicles.json?key=TEST", "")
	vehicles := dataField(t, rec)["vehicles"].([]interface{})
	require.Len(t, vehicles, 1)
	assert.Equal(t, "delay", vehicles[0].(map[string]interface{})["status"])

	// Clear it.
	rec = serveRequest(t, router, http.MethodDelete, "/api/admin/line-status/r1?key=ADMIN", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = serveRequest(t, router, http.MethodDelete, "/api/admin/line-status/r1?key=ADMIN", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetLineStatusValidation(t *testing.T) {
	_, router := buildTestAPI(t)

	rec := serveRequest(t, router, http.MethodPost, "/api/admin/line-status?key=ADMIN",
		`{"routeId":"r1","severity":"exploded"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serveRequest(t, router, http.MethodPost, "/api/admin/line-status?key=ADMIN",
		`{"routeId":"ghost","severity":"delay"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serveRequest(t, router, http.MethodPost, "/api/admin/line-status?key=ADMIN",
		`not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClockHandlerSet(t *testing.T) {
	api, router := buildTestAPI(t)

	rec := serveRequest(t, router, http.MethodPost, "/api/admin/clock?key=ADMIN",
		`{"action":"set","time":"09:30:00","date":"2025-06-03"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataField(t, rec)
	assert.Equal(t, float64(34200), data["seconds"])

	tick := api.Clock.Now()
	assert.Equal(t, 34200, tick.Seconds)
	assert.Equal(t, "2025-06-03", tick.Date.Format("2006-01-02"))
}

func TestClockHandlerAdvance(t *testing.T) {
	api, router := buildTestAPI(t)

	rec := serveRequest(t, router, http.MethodPost, "/api/admin/clock?key=ADMIN",
		`{"action":"advance","seconds":120}`)
	require.Equal(t, http.StatusOK, rec.Code)

	data := dataField(t, rec)
	assert.Equal(t, float64(29100), data["seconds"])
	assert.Equal(t, 29100, api.Clock.Now().Seconds)
}

func TestClockHandlerSpeedAndPause(t *testing.T) {
	api, router := buildTestAPI(t)

	rec := serveRequest(t, router, http.MethodPost, "/api/admin/clock?key=ADMIN",
		`{"action":"speed","speed":60}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 60.0, api.Clock.Speed())

	rec = serveRequest(t, router, http.MethodPost, "/api/admin/clock?key=ADMIN",
		`{"action":"play"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, api.Clock.Playing())

	rec = serveRequest(t, router, http.MethodPost, "/api/admin/clock?key=ADMIN",
		`{"action":"pause"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, api.Clock.Playing())
}

func TestClockHandlerRejectsBadInput(t *testing.T) {
	_, router := buildTestAPI(t)

	for _, body := range []string{
		`{"action":"warp"}`,
		`{"action":"set","time":"25:99:00"}`,
		`{"action":"set"}`,
		`{"action":"advance"}`,
		`{"action":"speed","speed":-2}`,
		`{"action":"mode","mode":"sundial"}`,
	} {
		rec := serveRequest(t, router, http.MethodPost, "/api/admin/clock?key=ADMIN", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestVehiclePositionsFeed(t *testing.T) {
	_, router := buildTestAPI(t)

	rec := serveRequest(t, router, http.MethodGet, "/api/gtfs-rt/vehicle-positions.pb?key=TEST", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-protobuf", rec.Header().Get("Content-Type"))

	feed := &gtfsrt.FeedMessage{}
	require.NoError(t, proto.Unmarshal(rec.Body.Bytes(), feed))

	assert.Equal(t, "2.0", feed.Header.GetGtfsRealtimeVersion())
	require.Len(t, feed.Entity, 1)

	vehicle := feed.Entity[0].GetVehicle()
	require.NotNil(t, vehicle)
	assert.Equal(t, "t1", vehicle.GetTrip().GetTripId())
	assert.Equal(t, "r1", vehicle.GetTrip().GetRouteId())
	assert.Equal(t, "quay", vehicle.GetStopId())
	assert.InDelta(t, 45.186, vehicle.GetPosition().GetLatitude(), 0.01)
}
