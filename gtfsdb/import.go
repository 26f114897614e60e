package gtfsdb

import (
	"context"
	"fmt"

	"perimap.peribus.org/internal/models"
)

// Tables is the dataset handed over for import, one slice per GTFS file.
type Tables struct {
	Stops     []*models.Stop
	Routes    []*models.Route
	Trips     []*models.Trip
	StopTimes []models.StopTime
	Calendar  []models.ServiceCalendar
	Dates     []models.CalendarException
}

// ImportTables replaces the database contents with the given dataset.
// Each table is loaded in its own transaction with a prepared statement.
func (c *Client) ImportTables(ctx context.Context, tables Tables) error {
	if err := c.insertStops(ctx, tables.Stops); err != nil {
		return err
	}
	if err := c.insertRoutes(ctx, tables.Routes); err != nil {
		return err
	}
	if err := c.insertTrips(ctx, tables.Trips); err != nil {
		return err
	}
	if err := c.insertStopTimes(ctx, tables.StopTimes); err != nil {
		return err
	}
	if err := c.insertCalendar(ctx, tables.Calendar); err != nil {
		return err
	}
	return c.insertCalendarDates(ctx, tables.Dates)
}

func (c *Client) batchInsert(ctx context.Context, query string, count int, bind func(i int) []any) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		tx.Rollback() // nolint:errcheck
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close() // nolint:errcheck

	for i := 0; i < count; i++ {
		if _, err := stmt.ExecContext(ctx, bind(i)...); err != nil {
			tx.Rollback() // nolint:errcheck
			return fmt.Errorf("error inserting row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

func (c *Client) insertStops(ctx context.Context, stops []*models.Stop) error {
	return c.batchInsert(ctx, `
		INSERT OR REPLACE INTO stops (
			stop_id, stop_code, stop_name, stop_lat, stop_lon,
			location_type, parent_station
		) VALUES (?, ?, ?, ?, ?, ?, ?);
	`, len(stops), func(i int) []any {
		s := stops[i]
		return []any{s.ID, s.Code, s.Name, s.Lat, s.Lon, s.LocationType, s.ParentStation}
	})
}

func (c *Client) insertRoutes(ctx context.Context, routes []*models.Route) error {
	return c.batchInsert(ctx, `
		INSERT OR REPLACE INTO routes (
			route_id, route_short_name, route_long_name, route_color, route_text_color
		) VALUES (?, ?, ?, ?, ?);
	`, len(routes), func(i int) []any {
		r := routes[i]
		return []any{r.ID, r.ShortName, r.LongName, r.Color, r.TextColor}
	})
}

func (c *Client) insertTrips(ctx context.Context, trips []*models.Trip) error {
	return c.batchInsert(ctx, `
		INSERT OR REPLACE INTO trips (
			trip_id, route_id, service_id, trip_headsign
		) VALUES (?, ?, ?, ?);
	`, len(trips), func(i int) []any {
		t := trips[i]
		return []any{t.ID, t.RouteID, t.ServiceID, t.Headsign}
	})
}

func (c *Client) insertStopTimes(ctx context.Context, stopTimes []models.StopTime) error {
	return c.batchInsert(ctx, `
		INSERT OR REPLACE INTO stop_times (
			trip_id, stop_id, stop_sequence, arrival_seconds, departure_seconds
		) VALUES (?, ?, ?, ?, ?);
	`, len(stopTimes), func(i int) []any {
		st := stopTimes[i]
		return []any{st.TripID, st.StopID, st.StopSequence, st.ArrivalSeconds, st.DepartureSeconds}
	})
}

func (c *Client) insertCalendar(ctx context.Context, calendar []models.ServiceCalendar) error {
	return c.batchInsert(ctx, `
		INSERT OR REPLACE INTO calendar (
			service_id, monday, tuesday, wednesday, thursday, friday,
			saturday, sunday, start_date, end_date
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`, len(calendar), func(i int) []any {
		cal := calendar[i]
		return []any{
			cal.ServiceID,
			boolToInt(cal.Monday), boolToInt(cal.Tuesday), boolToInt(cal.Wednesday),
			boolToInt(cal.Thursday), boolToInt(cal.Friday), boolToInt(cal.Saturday),
			boolToInt(cal.Sunday),
			cal.StartDate, cal.EndDate,
		}
	})
}

func (c *Client) insertCalendarDates(ctx context.Context, dates []models.CalendarException) error {
	return c.batchInsert(ctx, `
		INSERT OR REPLACE INTO calendar_dates (
			service_id, date, exception_type
		) VALUES (?, ?, ?);
	`, len(dates), func(i int) []any {
		d := dates[i]
		return []any{d.ServiceID, d.Date, int(d.Type)}
	})
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
