package restapi

import (
	"encoding/json"
	"net/http"
	"time"

	"perimap.peribus.org/internal/clock"
	"perimap.peribus.org/internal/gtfs"
	"perimap.peribus.org/internal/models"
)

type clockRequest struct {
	Action  string  `json:"action"` // set | advance | play | pause | speed | mode
	Time    string  `json:"time"`   // HH:MM:SS, for set
	Date    string  `json:"date"`   // YYYY-MM-DD, for set
	Speed   float64 `json:"speed"`  // for speed
	Mode    string  `json:"mode"`   // real | simulated, for mode
	Seconds *int    `json:"seconds"`
}

// clockHandler steers the simulated clock: reposition it, pause it,
// change its speed, or hand control back to the wall clock.
func (api *RestAPI) clockHandler(w http.ResponseWriter, r *http.Request) {
	var req clockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.validationErrorResponse(w, r, map[string][]string{
			"body": {"malformed JSON body"},
		})
		return
	}

	switch req.Action {
	case "set":
		seconds, fieldErrors := api.resolveSetSeconds(req)
		if len(fieldErrors) > 0 {
			api.validationErrorResponse(w, r, fieldErrors)
			return
		}
		date := api.Clock.Now().Date
		if req.Date != "" {
			parsed, err := time.Parse("2006-01-02", req.Date)
			if err != nil {
				api.validationErrorResponse(w, r, map[string][]string{
					"date": {"date must be YYYY-MM-DD"},
				})
				return
			}
			date = parsed
		}
		api.Clock.Set(seconds, date)

	case "advance":
		if req.Seconds == nil {
			api.validationErrorResponse(w, r, map[string][]string{
				"seconds": {"seconds is required"},
			})
			return
		}
		if api.Clock.Mode() != clock.ModeSimulated {
			api.validationErrorResponse(w, r, map[string][]string{
				"action": {"advance requires simulated mode"},
			})
			return
		}
		api.Clock.Advance(*req.Seconds)

	case "play":
		api.Clock.Play()

	case "pause":
		api.Clock.Pause()

	case "speed":
		if req.Speed <= 0 {
			api.validationErrorResponse(w, r, map[string][]string{
				"speed": {"speed must be positive"},
			})
			return
		}
		api.Clock.SetSpeed(req.Speed)
		if api.Metrics != nil {
			api.Metrics.ClockSpeed.Set(req.Speed)
		}

	case "mode":
		mode := clock.Mode(req.Mode)
		if mode != clock.ModeReal && mode != clock.ModeSimulated {
			api.validationErrorResponse(w, r, map[string][]string{
				"mode": {"mode must be real or simulated"},
			})
			return
		}
		api.Clock.SetMode(mode)

	default:
		api.validationErrorResponse(w, r, map[string][]string{
			"action": {"unknown action"},
		})
		return
	}

	tick := api.Clock.Now()
	instant := tick.Date.Add(time.Duration(tick.Seconds) * time.Second)
	api.sendResponse(w, r, models.NewOKResponse(
		models.NewCurrentTimeModel(instant, tick.Seconds, string(api.Clock.Mode())),
	))
}

func (api *RestAPI) resolveSetSeconds(req clockRequest) (int, map[string][]string) {
	if req.Seconds != nil {
		if *req.Seconds < 0 {
			return 0, map[string][]string{"seconds": {"seconds must be non-negative"}}
		}
		return *req.Seconds, nil
	}
	if req.Time == "" {
		return 0, map[string][]string{"time": {"either time or seconds is required"}}
	}
	seconds, err := gtfs.ParseGTFSTime(req.Time)
	if err != nil {
		return 0, map[string][]string{"time": {"time must be HH:MM:SS"}}
	}
	return seconds, nil
}
