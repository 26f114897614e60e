package gtfsdb

import (
	"context"
	"fmt"
	"strings"
)

// DepartureRow is one scheduled departure from a stop, joined with its
// trip and route. Service-day filtering happens in the caller, which
// knows which service ids run today.
type DepartureRow struct {
	TripID           string
	RouteID          string
	RouteShortName   string
	ServiceID        string
	Headsign         string
	StopID           string
	DepartureSeconds int
	LastStopName     string
}

// UpcomingDeparturesForStops returns departures from any of the given
// stops at or after afterSeconds, ordered by departure time. Departures
// from a trip's final stop are excluded: nothing leaves from there.
func (c *Client) UpcomingDeparturesForStops(ctx context.Context, stopIDs []string, afterSeconds, limit int) ([]DepartureRow, error) {
	if len(stopIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT st.trip_id, t.route_id, COALESCE(r.route_short_name, ''),
		       t.service_id, COALESCE(t.trip_headsign, ''), st.stop_id,
		       st.departure_seconds,
		       COALESCE((
		           SELECT s2.stop_name FROM stop_times st2
		           JOIN stops s2 ON s2.stop_id = st2.stop_id
		           WHERE st2.trip_id = st.trip_id
		           ORDER BY st2.stop_sequence DESC LIMIT 1
		       ), '')
		FROM stop_times st
		JOIN trips t ON t.trip_id = st.trip_id
		JOIN routes r ON r.route_id = t.route_id
		WHERE st.stop_id IN (%s)
		  AND st.departure_seconds >= ?
		  AND st.stop_sequence < (
		      SELECT MAX(st3.stop_sequence) FROM stop_times st3
		      WHERE st3.trip_id = st.trip_id
		  )
		ORDER BY st.departure_seconds ASC
		LIMIT ?;
	`, placeholders(len(stopIDs)))

	args := make([]any, 0, len(stopIDs)+2)
	for _, id := range stopIDs {
		args = append(args, id)
	}
	args = append(args, afterSeconds, limit)

	rows, err := c.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying departures: %w", err)
	}
	defer rows.Close() // nolint:errcheck

	var result []DepartureRow
	for rows.Next() {
		var d DepartureRow
		if err := rows.Scan(&d.TripID, &d.RouteID, &d.RouteShortName, &d.ServiceID,
			&d.Headsign, &d.StopID, &d.DepartureSeconds, &d.LastStopName); err != nil {
			return nil, fmt.Errorf("error scanning departure row: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

// RouteIDsForStops returns the distinct route ids with at least one trip
// calling at any of the given stops.
func (c *Client) RouteIDsForStops(ctx context.Context, stopIDs []string) ([]string, error) {
	if len(stopIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT t.route_id
		FROM stop_times st
		JOIN trips t ON t.trip_id = st.trip_id
		WHERE st.stop_id IN (%s)
		ORDER BY t.route_id;
	`, placeholders(len(stopIDs)))

	args := make([]any, 0, len(stopIDs))
	for _, id := range stopIDs {
		args = append(args, id)
	}

	rows, err := c.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying routes for stops: %w", err)
	}
	defer rows.Close() // nolint:errcheck

	var result []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning route id: %w", err)
		}
		result = append(result, id)
	}
	return result, rows.Err()
}

// StopRow is a stop search hit.
type StopRow struct {
	ID   string  `json:"id"`
	Code string  `json:"code,omitempty"`
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// SearchStops returns stops whose name or code contains the query,
// case-insensitively, ordered by name.
func (c *Client) SearchStops(ctx context.Context, q string, limit int) ([]StopRow, error) {
	pattern := "%" + strings.TrimSpace(q) + "%"

	rows, err := c.DB.QueryContext(ctx, `
		SELECT stop_id, COALESCE(stop_code, ''), stop_name, stop_lat, stop_lon
		FROM stops
		WHERE stop_name LIKE ? COLLATE NOCASE OR stop_code LIKE ? COLLATE NOCASE
		ORDER BY stop_name ASC
		LIMIT ?;
	`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("error searching stops: %w", err)
	}
	defer rows.Close() // nolint:errcheck

	var result []StopRow
	for rows.Next() {
		var s StopRow
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Lat, &s.Lon); err != nil {
			return nil, fmt.Errorf("error scanning stop row: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// TripStopNames returns the ordered stop names of a trip, for the trip
// detail view.
func (c *Client) TripStopNames(ctx context.Context, tripID string) ([]string, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT s.stop_name
		FROM stop_times st
		JOIN stops s ON s.stop_id = st.stop_id
		WHERE st.trip_id = ?
		ORDER BY st.stop_sequence ASC;
	`, tripID)
	if err != nil {
		return nil, fmt.Errorf("error querying trip stops: %w", err)
	}
	defer rows.Close() // nolint:errcheck

	var result []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("error scanning stop name: %w", err)
		}
		result = append(result, name)
	}
	return result, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
