package models

// Departure is one upcoming departure from a station, ready for the
// station-board display.
type Departure struct {
	TripID           string `json:"tripId"`
	StopID           string `json:"stopId"`
	DepartureSeconds int    `json:"departureSeconds"`
	DepartureTime    string `json:"departureTime"`
	RouteShortName   string `json:"routeShortName"`
	RouteColor       string `json:"routeColor"`
	RouteTextColor   string `json:"routeTextColor"`
	Destination      string `json:"destination"`
}
