// Package status keeps the operator-set line statuses shown on the
// dashboard: delays, cancellations, and planned works per route.
package status

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"perimap.peribus.org/internal/models"
)

// Store is an in-memory line-status registry. Entries do not survive a
// restart; the dashboard treats an absent entry as normal service.
type Store struct {
	mu      sync.RWMutex
	entries map[string]models.LineStatus
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]models.LineStatus),
		now:     time.Now,
	}
}

// Set records a status for a route and returns the stored entry. A
// second status for the same route replaces the first.
func (s *Store) Set(routeID, severity, message string) (models.LineStatus, bool) {
	if !models.ValidSeverity(severity) {
		return models.LineStatus{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := models.LineStatus{
		ID:        uuid.NewString(),
		RouteID:   routeID,
		Severity:  severity,
		Message:   message,
		UpdatedAt: s.now(),
	}
	s.entries[routeID] = entry
	return entry, true
}

// Delete removes the status for a route. It reports whether one existed.
func (s *Store) Delete(routeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.entries[routeID]
	delete(s.entries, routeID)
	return ok
}

// ForRoute returns the route's status, defaulting to normal service.
func (s *Store) ForRoute(routeID string) models.LineStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if entry, ok := s.entries[routeID]; ok {
		return entry
	}
	return models.LineStatus{RouteID: routeID, Severity: models.StatusNormal}
}

// Severity returns just the severity string for a route.
func (s *Store) Severity(routeID string) string {
	return s.ForRoute(routeID).Severity
}

// List returns every stored entry ordered by route id.
func (s *Store) List() []models.LineStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.LineStatus, 0, len(s.entries))
	for _, entry := range s.entries {
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].RouteID < result[j].RouteID
	})
	return result
}
