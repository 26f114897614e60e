// Package restapi exposes the dashboard's HTTP surface: the read-only
// map endpoints, the station board, the GTFS-RT export, and the admin
// endpoints that steer the clock and line statuses.
package restapi

import (
	"perimap.peribus.org/internal/app"
)

type RestAPI struct {
	*app.Application
}

func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{Application: app}
}
