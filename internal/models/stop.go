package models

// Location types from stops.txt. Anything other than a plain stop or a
// station is irrelevant to this network's feed.
const (
	LocationTypeStop    = 0
	LocationTypeStation = 1
)

// Stop is a physical boarding location. Immutable after dataset load.
type Stop struct {
	ID            string  `json:"id"`
	Code          string  `json:"code,omitempty"`
	Name          string  `json:"name"`
	Lat           float64 `json:"lat"`
	Lon           float64 `json:"lon"`
	LocationType  int     `json:"locationType"`
	ParentStation string  `json:"parent,omitempty"`
}

func (s *Stop) IsStation() bool {
	return s.LocationType == LocationTypeStation
}

// MasterStop is the rider-facing grouping of one or more physical stops
// (all platforms of a station, or a lone roadside stop by itself).
type MasterStop struct {
	Stop
	ChildStopIDs []string `json:"childStopIds"`
}
