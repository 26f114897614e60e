package models

import "time"

// CurrentTimeModel reports the dashboard clock: epoch milliseconds plus
// the simulation's seconds-since-midnight, so clients can tell a
// simulated clock apart from the wall clock.
type CurrentTimeModel struct {
	ReadableTime string `json:"readableTime"`
	Time         int64  `json:"time"`
	Seconds      int    `json:"seconds"`
	Mode         string `json:"mode"`
}

// NewCurrentTimeModel creates a CurrentTimeModel from a tick snapshot.
func NewCurrentTimeModel(date time.Time, seconds int, mode string) CurrentTimeModel {
	return CurrentTimeModel{
		ReadableTime: date.Format(time.RFC3339),
		Time:         date.UnixNano() / int64(time.Millisecond),
		Seconds:      seconds,
		Mode:         mode,
	}
}
