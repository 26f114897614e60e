package restapi

import (
	"net/http"

	"perimap.peribus.org/internal/models"
	"perimap.peribus.org/internal/utils"
)

// stopsHandler returns the master stops, or a name/code search when a
// q parameter is present. Search goes through the SQLite dataset; the
// plain listing is served from memory.
func (api *RestAPI) stopsHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if err := utils.ValidateQuery(query); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"q": {err.Error()},
		})
		return
	}

	if query == "" {
		api.sendResponse(w, r, models.NewListResponse(api.GtfsManager.MasterStops()))
		return
	}

	limit := utils.QueryInt(r, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	hits, err := api.GtfsManager.GtfsDB.SearchStops(r.Context(), query, limit)
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewListResponse(hits))
}
