package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecordsTickActivity(t *testing.T) {
	c := NewCollector(time.Second)

	c.TicksTotal.Inc()
	c.TicksTotal.Inc()
	c.ActiveVehicles.Set(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.TicksTotal))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.ActiveVehicles))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.TickInterval))
}

func TestHandlerServesPrivateRegistry(t *testing.T) {
	c := NewCollector(time.Second)
	c.ActiveTrips.Set(3)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "perimap_active_trips 3")
	assert.NotContains(t, body, "go_goroutines")
}
