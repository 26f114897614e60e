package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type handlerFunc func(w http.ResponseWriter, r *http.Request)

func validateAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

func validateAdminAPIKey(api *RestAPI, finalHandler handlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAdminAPIKey(r) {
			api.invalidAPIKeyResponse(w, r)
			return
		}
		finalHandler(w, r)
	})
}

// SetRoutes registers every endpoint on the router. httprouter stores
// path parameters in the request context, where the handlers read them
// through utils.ExtractIDFromParams.
func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.Handler(http.MethodGet, "/api/where/vehicles.json", validateAPIKey(api, api.vehiclesHandler))
	router.Handler(http.MethodGet, "/api/where/routes.json", validateAPIKey(api, api.routesHandler))
	router.Handler(http.MethodGet, "/api/where/stops.json", validateAPIKey(api, api.stopsHandler))
	router.Handler(http.MethodGet, "/api/where/departures/:id", validateAPIKey(api, api.departuresHandler))
	router.Handler(http.MethodGet, "/api/where/trip/:id", validateAPIKey(api, api.tripHandler))
	router.Handler(http.MethodGet, "/api/where/current-time.json", validateAPIKey(api, api.currentTimeHandler))
	router.Handler(http.MethodGet, "/api/where/line-statuses.json", validateAPIKey(api, api.lineStatusesHandler))

	router.Handler(http.MethodGet, "/api/gtfs-rt/vehicle-positions.pb", validateAPIKey(api, api.vehiclePositionsFeedHandler))

	router.Handler(http.MethodPost, "/api/admin/line-status", validateAdminAPIKey(api, api.setLineStatusHandler))
	router.Handler(http.MethodDelete, "/api/admin/line-status/:id", validateAdminAPIKey(api, api.deleteLineStatusHandler))
	router.Handler(http.MethodPost, "/api/admin/clock", validateAdminAPIKey(api, api.clockHandler))

	if api.Metrics != nil {
		router.Handler(http.MethodGet, "/metrics", api.Metrics.Handler())
	}
}
