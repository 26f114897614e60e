package restapi

import (
	"net/http"
	"sort"

	"perimap.peribus.org/internal/models"
)

// routesHandler returns every route decorated with the network
// presentation config: category, curated long name, timetable link.
func (api *RestAPI) routesHandler(w http.ResponseWriter, r *http.Request) {
	routes := api.GtfsManager.AllRoutes()

	details := make([]models.RouteDetails, 0, len(routes))
	for _, route := range routes {
		d := models.RouteDetails{Route: *route}
		if api.Network != nil {
			d.LongName = api.Network.LongName(route.ShortName, route.LongName)
			d.TimetableURL = api.Network.TimetableURL(route.ShortName)
			if cat := api.Network.CategoryFor(route.ShortName); cat != nil {
				d.Category = cat.ID
			}
		}
		details = append(details, d)
	}

	sort.Slice(details, func(i, j int) bool {
		if details[i].ShortName != details[j].ShortName {
			return details[i].ShortName < details[j].ShortName
		}
		return details[i].ID < details[j].ID
	})

	api.sendResponse(w, r, models.NewListResponse(details))
}
