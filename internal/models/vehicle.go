package models

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Segment describes the two consecutive stop-times a vehicle is currently
// between, with its fractional progress along that leg.
type Segment struct {
	From             *Stop   `json:"from"`
	To               *Stop   `json:"to"`
	DepartureSeconds int     `json:"departureSeconds"`
	ArrivalSeconds   int     `json:"arrivalSeconds"`
	Progress         float64 `json:"progress"`
}

// ActiveTrip is a trip whose operating window contains the current
// instant. Recomputed every tick, never persisted.
type ActiveTrip struct {
	TripID    string
	Trip      *Trip
	StopTimes []StopTime
	Route     *Route
}

// VehiclePosition is the interpolated state of one in-motion vehicle.
type VehiclePosition struct {
	TripID      string   `json:"tripId"`
	Route       *Route   `json:"route"`
	Position    Location `json:"position"`
	Segment     *Segment `json:"segment"`
	Destination string   `json:"destination"`
	Status      string   `json:"status"`
}

// ETA is the remaining time to a segment's next stop.
type ETA struct {
	Seconds   int    `json:"seconds"`
	Formatted string `json:"formatted"`
}
