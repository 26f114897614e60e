package models

// Trip is one scheduled vehicle journey on a route, tied to a service id.
type Trip struct {
	ID        string `json:"id"`
	RouteID   string `json:"routeId"`
	ServiceID string `json:"serviceId"`
	Headsign  string `json:"headsign,omitempty"`
}

// StopTime is one scheduled visit of a trip to a stop. Arrival and
// departure are seconds since midnight of the service day and may exceed
// 86400 for trips running past midnight.
type StopTime struct {
	TripID           string `json:"tripId"`
	StopID           string `json:"stopId"`
	StopSequence     int    `json:"stopSequence"`
	ArrivalSeconds   int    `json:"arrivalSeconds"`
	DepartureSeconds int    `json:"departureSeconds"`
}
