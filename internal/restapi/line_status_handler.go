package restapi

import (
	"encoding/json"
	"net/http"

	"perimap.peribus.org/internal/models"
	"perimap.peribus.org/internal/utils"
)

// lineStatusesHandler lists every operator-set line status.
func (api *RestAPI) lineStatusesHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewListResponse(api.Statuses.List()))
}

type setLineStatusRequest struct {
	RouteID  string `json:"routeId"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// setLineStatusHandler records a disruption for a route. The severity
// is reflected on every vehicle of that route from the next tick on.
func (api *RestAPI) setLineStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req setLineStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"body": {"malformed JSON body"},
		})
		return
	}

	fieldErrors := make(map[string][]string)
	if err := utils.ValidateID(req.RouteID); err != nil {
		fieldErrors["routeId"] = []string{err.Error()}
	}
	if !models.ValidSeverity(req.Severity) {
		fieldErrors["severity"] = []string{"unknown severity"}
	}
	if len(req.Message) > 500 {
		fieldErrors["message"] = []string{"message too long (max 500 characters)"}
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	if api.GtfsManager.GetRoute(req.RouteID) == nil {
		api.sendNotFound(w, r)
		return
	}

	entry, ok := api.Statuses.Set(req.RouteID, req.Severity, req.Message)
	if !ok {
		api.validationErrorResponse(w, r, map[string][]string{
			"severity": {"unknown severity"},
		})
		return
	}

	api.Logger.Info("line status set",
		"route_id", entry.RouteID, "severity", entry.Severity)
	api.sendResponse(w, r, models.NewOKResponse(entry))
}

// deleteLineStatusHandler clears the disruption entry for a route.
func (api *RestAPI) deleteLineStatusHandler(w http.ResponseWriter, r *http.Request) {
	routeID := utils.ExtractIDFromParams(r, "id")
	if err := utils.ValidateID(routeID); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"id": {err.Error()},
		})
		return
	}

	if !api.Statuses.Delete(routeID) {
		api.sendNotFound(w, r)
		return
	}

	api.Logger.Info("line status cleared", "route_id", routeID)
	api.sendResponse(w, r, models.NewOKResponse(struct{}{}))
}
