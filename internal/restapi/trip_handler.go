package restapi

import (
	"net/http"

	"perimap.peribus.org/internal/gtfs"
	"perimap.peribus.org/internal/models"
	"perimap.peribus.org/internal/utils"
)

type tripStopEntry struct {
	StopID         string `json:"stopId"`
	Name           string `json:"name"`
	ArrivalSeconds int    `json:"arrivalSeconds"`
	ArrivalTime    string `json:"arrivalTime"`
}

// tripHandler returns one trip's schedule: its route, destination, ordered
// stop list, and the interpolated vehicle position when the trip is underway.
func (api *RestAPI) tripHandler(w http.ResponseWriter, r *http.Request) {
	tripID := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateID(tripID); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"id": {err.Error()},
		})
		return
	}

	trip := api.GtfsManager.GetTrip(tripID)
	if trip == nil {
		api.sendNotFound(w, r)
		return
	}

	stopTimes := api.GtfsManager.StopTimesForTrip(tripID)
	stops := make([]tripStopEntry, 0, len(stopTimes))
	for _, st := range stopTimes {
		entry := tripStopEntry{
			StopID:         st.StopID,
			ArrivalSeconds: st.ArrivalSeconds,
			ArrivalTime:    gtfs.FormatSeconds(st.ArrivalSeconds),
		}
		if stop := api.GtfsManager.GetStop(st.StopID); stop != nil {
			entry.Name = stop.Name
		}
		stops = append(stops, entry)
	}

	var vehicle *models.VehiclePosition
	for _, v := range api.Pipeline.Frame().Vehicles {
		if v.TripID == tripID {
			pos := v
			vehicle = &pos
			break
		}
	}

	api.sendResponse(w, r, models.NewOKResponse(struct {
		Trip        *models.Trip            `json:"trip"`
		Route       *models.Route           `json:"route"`
		Destination string                  `json:"destination"`
		Stops       []tripStopEntry         `json:"stops"`
		Vehicle     *models.VehiclePosition `json:"vehicle"`
	}{
		Trip:        trip,
		Route:       api.GtfsManager.GetRoute(trip.RouteID),
		Destination: api.Scheduler.TripDestination(stopTimes),
		Stops:       stops,
		Vehicle:     vehicle,
	}))
}
