package restapi

import (
	"net/http"
	"time"

	"perimap.peribus.org/internal/models"
)

// currentTimeHandler reports the dashboard clock, which in simulated
// mode can be any moment of any service day.
func (api *RestAPI) currentTimeHandler(w http.ResponseWriter, r *http.Request) {
	tick := api.Clock.Now()
	instant := tick.Date.Add(time.Duration(tick.Seconds) * time.Second)

	api.sendResponse(w, r, models.NewOKResponse(
		models.NewCurrentTimeModel(instant, tick.Seconds, string(api.Clock.Mode())),
	))
}
