package gtfs

import "perimap.peribus.org/internal/appconf"

// Config holds the settings for loading the static feed.
type Config struct {
	// GtfsSource is a URL or a local path to a GTFS zip file.
	GtfsSource string
	// GTFSDataPath is the sqlite database path backing the station-board
	// queries (":memory:" in tests).
	GTFSDataPath string
	Env          appconf.Environment
	Verbose      bool
}
