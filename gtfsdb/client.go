package gtfsdb

import (
	"database/sql"
	"log/slog"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Client wraps the SQLite database that backs the station-board and
// stop-search queries. The in-memory indices serve the tick loop; this
// serves the ad hoc lookups that want SQL.
type Client struct {
	config Config
	DB     *sql.DB
	logger *slog.Logger
}

// NewClient opens (or creates) the database and ensures the schema exists.
func NewClient(config Config, logger *slog.Logger) (*Client, error) {
	db, err := createDB(config)
	if err != nil {
		return nil, err
	}
	if config.verbose && logger != nil {
		logger.Info("created GTFS database tables", "path", config.DBPath)
	}

	return &Client{
		config: config,
		DB:     db,
		logger: logger,
	}, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}
