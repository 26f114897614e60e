package status

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perimap.peribus.org/internal/models"
)

func TestSetAndLookup(t *testing.T) {
	s := NewStore()

	entry, ok := s.Set("r1", models.StatusDelay, "roadworks on Cours Montaigne")
	require.True(t, ok)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.UpdatedAt.IsZero())

	got := s.ForRoute("r1")
	assert.Equal(t, models.StatusDelay, got.Severity)
	assert.Equal(t, "roadworks on Cours Montaigne", got.Message)
	assert.Equal(t, models.StatusDelay, s.Severity("r1"))
}

func TestUnknownRouteDefaultsToNormal(t *testing.T) {
	s := NewStore()

	got := s.ForRoute("r9")
	assert.Equal(t, models.StatusNormal, got.Severity)
	assert.Empty(t, got.ID)
}

func TestSetRejectsInvalidSeverity(t *testing.T) {
	s := NewStore()

	_, ok := s.Set("r1", "exploded", "nope")
	assert.False(t, ok)
	assert.Empty(t, s.List())
}

func TestSetReplacesExistingEntry(t *testing.T) {
	s := NewStore()

	s.Set("r1", models.StatusDelay, "first")
	s.Set("r1", models.StatusCancelled, "second")

	require.Len(t, s.List(), 1)
	assert.Equal(t, models.StatusCancelled, s.ForRoute("r1").Severity)
}

func TestDelete(t *testing.T) {
	s := NewStore()

	s.Set("r1", models.StatusWorks, "summer works")
	assert.True(t, s.Delete("r1"))
	assert.False(t, s.Delete("r1"))
	assert.Equal(t, models.StatusNormal, s.Severity("r1"))
}

func TestListOrderedByRoute(t *testing.T) {
	s := NewStore()

	s.Set("r2", models.StatusDelay, "")
	s.Set("r1", models.StatusWorks, "")

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "r1", list[0].RouteID)
	assert.Equal(t, "r2", list[1].RouteID)
}

func TestConcurrentAccess(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Set("r1", models.StatusDelay, "busy")
			s.ForRoute("r1")
			s.List()
		}()
	}
	wg.Wait()

	assert.Equal(t, models.StatusDelay, s.Severity("r1"))
}
