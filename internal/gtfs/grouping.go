package gtfs

import "perimap.peribus.org/internal/models"

// GroupStops derives the rider-facing master stops from the physical stop
// list. Stations absorb their platforms; stops referenced as a parent
// absorb their children even when the feed forgot to flag them as
// stations; everything else stands alone. Every physical stop lands in
// exactly one master stop's member list.
func GroupStops(stops []*models.Stop) ([]models.MasterStop, map[string][]string) {
	referencedAsParent := make(map[string]bool)
	byID := make(map[string]*models.Stop, len(stops))
	for _, s := range stops {
		byID[s.ID] = s
		if s.ParentStation != "" {
			referencedAsParent[s.ParentStation] = true
		}
	}

	grouped := make(map[string][]string)
	var masterIDs []string

	isMaster := func(s *models.Stop) bool {
		if s.ParentStation != "" {
			return false
		}
		return s.IsStation() || referencedAsParent[s.ID]
	}

	for _, s := range stops {
		if isMaster(s) {
			grouped[s.ID] = []string{s.ID}
			masterIDs = append(masterIDs, s.ID)
		}
	}

	for _, s := range stops {
		if s.ParentStation == "" {
			continue
		}
		if _, ok := grouped[s.ParentStation]; ok {
			grouped[s.ParentStation] = append(grouped[s.ParentStation], s.ID)
			continue
		}
		// Orphaned parent reference: the parent id never appears in
		// stops.txt. The child keeps working as its own master stop.
		grouped[s.ID] = []string{s.ID}
		masterIDs = append(masterIDs, s.ID)
	}

	for _, s := range stops {
		if s.ParentStation != "" || isMaster(s) {
			continue
		}
		grouped[s.ID] = []string{s.ID}
		masterIDs = append(masterIDs, s.ID)
	}

	masters := make([]models.MasterStop, 0, len(masterIDs))
	for _, id := range masterIDs {
		master := models.MasterStop{ChildStopIDs: grouped[id]}
		if s, ok := byID[id]; ok {
			master.Stop = *s
		} else {
			master.Stop = models.Stop{ID: id}
		}
		masters = append(masters, master)
	}

	return masters, grouped
}
