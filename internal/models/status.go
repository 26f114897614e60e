package models

import "time"

// Severity levels for line disruption statuses, matching the values the
// operator's info-trafic console publishes.
const (
	StatusNormal    = "normal"
	StatusDelay     = "delay"
	StatusCancelled = "cancelled"
	StatusWorks     = "works"
)

// ValidSeverity reports whether s is a known disruption severity.
func ValidSeverity(s string) bool {
	switch s {
	case StatusNormal, StatusDelay, StatusCancelled, StatusWorks:
		return true
	}
	return false
}

// LineStatus is one disruption entry for a route.
type LineStatus struct {
	ID        string    `json:"id"`
	RouteID   string    `json:"routeId"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}
