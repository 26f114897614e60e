package restapi

import (
	"net/http"

	"perimap.peribus.org/internal/gtfs"
	"perimap.peribus.org/internal/models"
	"perimap.peribus.org/internal/schedule"
	"perimap.peribus.org/internal/utils"
)

// departuresHandler serves the station board for a master stop: the next
// departures across all of its member stops, on services running today.
func (api *RestAPI) departuresHandler(w http.ResponseWriter, r *http.Request) {
	stopID := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateID(stopID); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"id": {err.Error()},
		})
		return
	}

	memberIDs := api.GtfsManager.MemberStopIDs(stopID)
	if memberIDs == nil {
		api.sendNotFound(w, r)
		return
	}

	limit := utils.QueryInt(r, "limit", 10)
	if limit < 1 || limit > 50 {
		limit = 10
	}

	tick := api.Clock.Now()
	activeServices := api.Scheduler.ActiveServiceIDs(tick.Date)

	// Overfetch: rows on services not running today are filtered below.
	rows, err := api.GtfsManager.GtfsDB.UpcomingDeparturesForStops(r.Context(), memberIDs, tick.Seconds, limit*6)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	departures := make([]models.Departure, 0, limit)
	for _, row := range rows {
		if !serviceRunsToday(row.ServiceID, activeServices) {
			continue
		}

		departure := models.Departure{
			TripID:           row.TripID,
			StopID:           row.StopID,
			DepartureSeconds: row.DepartureSeconds,
			DepartureTime:    gtfs.FormatSeconds(row.DepartureSeconds),
			RouteShortName:   row.RouteShortName,
			Destination:      row.LastStopName,
		}
		if row.Headsign != "" {
			departure.Destination = row.Headsign
		}
		if route := api.GtfsManager.GetRoute(row.RouteID); route != nil {
			departure.RouteColor = route.Color
			departure.RouteTextColor = route.TextColor
		}

		departures = append(departures, departure)
		if len(departures) == limit {
			break
		}
	}

	api.sendResponse(w, r, models.NewListResponse(departures))
}

func serviceRunsToday(serviceID string, active map[string]bool) bool {
	if active[serviceID] {
		return true
	}
	for activeID := range active {
		if schedule.MatchesServiceID(serviceID, activeID) {
			return true
		}
	}
	return false
}
