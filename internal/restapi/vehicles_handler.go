package restapi

import (
	"net/http"

	"perimap.peribus.org/internal/models"
	"perimap.peribus.org/internal/schedule"
	"perimap.peribus.org/internal/utils"
)

// vehicleEntry is one vehicle in the vehicles.json payload.
type vehicleEntry struct {
	models.VehiclePosition

	Eta models.ETA `json:"eta"`
}

// vehiclesHandler returns the latest frame's vehicles. An optional
// routeIds query parameter narrows the list to specific routes.
func (api *RestAPI) vehiclesHandler(w http.ResponseWriter, r *http.Request) {
	routeIDs := utils.QueryList(r, "routeIds")
	wanted := make(map[string]bool, len(routeIDs))
	for _, id := range routeIDs {
		if err := utils.ValidateID(id); err != nil {
			api.validationErrorResponse(w, r, map[string][]string{
				"routeIds": {err.Error()},
			})
			return
		}
		wanted[id] = true
	}

	frame := api.Pipeline.Frame()

	entries := make([]vehicleEntry, 0, len(frame.Vehicles))
	for _, v := range frame.Vehicles {
		if len(wanted) > 0 && !wanted[v.Route.ID] {
			continue
		}
		entries = append(entries, vehicleEntry{
			VehiclePosition: v,
			Eta:             schedule.NextStopETA(v.Segment, frame.Seconds),
		})
	}

	api.sendResponse(w, r, models.NewOKResponse(struct {
		Seconds  int            `json:"seconds"`
		Date     string         `json:"date"`
		Vehicles []vehicleEntry `json:"vehicles"`
	}{
		Seconds:  frame.Seconds,
		Date:     frame.Date.Format("2006-01-02"),
		Vehicles: entries,
	}))
}
