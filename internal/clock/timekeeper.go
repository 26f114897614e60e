// Package clock provides the time source the tick pipeline runs on. It
// either follows the wall clock or simulates a controllable service day,
// which is how the dashboard replays any moment of the timetable.
package clock

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const secondsPerDay = 86400

// Mode selects where time comes from.
type Mode string

const (
	ModeReal      Mode = "real"
	ModeSimulated Mode = "simulated"
)

// Tick is one observed instant: seconds since midnight of the service
// day, and the service date itself.
type Tick struct {
	Seconds int
	Date    time.Time
}

// Timekeeper produces Ticks at a fixed interval and lets the admin API
// reposition, pause, and accelerate simulated time. All methods are safe
// for concurrent use.
type Timekeeper struct {
	mu        sync.RWMutex
	mode      Mode
	loc       *time.Location
	interval  time.Duration
	speed     float64
	playing   bool
	simClock  float64
	simDate   time.Time
	listeners []func(Tick)
	logger    *slog.Logger
}

// NewTimekeeper starts at the current wall-clock instant in the given
// location, playing at 1x. A nil location means the system local zone.
func NewTimekeeper(mode Mode, interval time.Duration, loc *time.Location, logger *slog.Logger) *Timekeeper {
	if loc == nil {
		loc = time.Local
	}
	now := time.Now().In(loc)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	return &Timekeeper{
		mode:     mode,
		loc:      loc,
		interval: interval,
		speed:    1,
		playing:  true,
		simClock: now.Sub(midnight).Seconds(),
		simDate:  midnight,
		logger:   logger,
	}
}

// Now returns the current instant without advancing simulated time.
func (tk *Timekeeper) Now() Tick {
	tk.mu.RLock()
	defer tk.mu.RUnlock()
	return tk.currentLocked()
}

func (tk *Timekeeper) currentLocked() Tick {
	if tk.mode == ModeReal {
		now := time.Now().In(tk.loc)
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, tk.loc)
		return Tick{Seconds: int(now.Sub(midnight).Seconds()), Date: midnight}
	}
	return Tick{Seconds: int(tk.simClock), Date: tk.simDate}
}

// Step advances simulated time by one interval scaled by the speed
// multiplier, rolling over to the next service date at midnight, and
// returns the resulting instant. In real mode, or while paused, it only
// reads the clock.
func (tk *Timekeeper) Step() Tick {
	tk.mu.Lock()
	defer tk.mu.Unlock()

	if tk.mode == ModeSimulated && tk.playing {
		tk.simClock += tk.interval.Seconds() * tk.speed
		for tk.simClock >= secondsPerDay {
			tk.simClock -= secondsPerDay
			tk.simDate = tk.simDate.AddDate(0, 0, 1)
		}
	}
	return tk.currentLocked()
}

// Set repositions simulated time and switches to simulated mode.
func (tk *Timekeeper) Set(seconds int, date time.Time) {
	tk.mu.Lock()
	defer tk.mu.Unlock()

	if seconds < 0 {
		seconds = 0
	}
	tk.mode = ModeSimulated
	tk.simClock = float64(seconds % secondsPerDay)
	tk.simDate = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, tk.loc)
	if tk.logger != nil {
		tk.logger.Info("clock repositioned", "seconds", seconds, "date", tk.simDate.Format("2006-01-02"))
	}
}

// Advance jumps simulated time forward by delta seconds.
func (tk *Timekeeper) Advance(delta int) {
	tk.mu.Lock()
	defer tk.mu.Unlock()

	if tk.mode != ModeSimulated {
		return
	}
	tk.simClock += float64(delta)
	for tk.simClock >= secondsPerDay {
		tk.simClock -= secondsPerDay
		tk.simDate = tk.simDate.AddDate(0, 0, 1)
	}
	if tk.simClock < 0 {
		tk.simClock = 0
	}
}

// Play resumes simulated time.
func (tk *Timekeeper) Play() {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	tk.playing = true
}

// Pause freezes simulated time in place.
func (tk *Timekeeper) Pause() {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	tk.playing = false
}

// Playing reports whether simulated time is advancing.
func (tk *Timekeeper) Playing() bool {
	tk.mu.RLock()
	defer tk.mu.RUnlock()
	return tk.playing
}

// SetSpeed sets the simulated-time multiplier. Non-positive values are
// ignored.
func (tk *Timekeeper) SetSpeed(speed float64) {
	if speed <= 0 {
		return
	}
	tk.mu.Lock()
	defer tk.mu.Unlock()
	tk.speed = speed
}

// Speed returns the simulated-time multiplier.
func (tk *Timekeeper) Speed() float64 {
	tk.mu.RLock()
	defer tk.mu.RUnlock()
	return tk.speed
}

// SetMode switches between real and simulated time.
func (tk *Timekeeper) SetMode(mode Mode) {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	tk.mode = mode
}

// Mode returns the current time source.
func (tk *Timekeeper) Mode() Mode {
	tk.mu.RLock()
	defer tk.mu.RUnlock()
	return tk.mode
}

// AddListener registers a callback invoked on every tick of Run.
// Listeners must be registered before Run starts.
func (tk *Timekeeper) AddListener(fn func(Tick)) {
	tk.mu.Lock()
	defer tk.mu.Unlock()
	tk.listeners = append(tk.listeners, fn)
}

// Run drives the tick loop until the context is cancelled. Each tick
// advances simulated time by one interval and notifies every listener.
func (tk *Timekeeper) Run(ctx context.Context) {
	ticker := time.NewTicker(tk.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick := tk.Step()

			tk.mu.RLock()
			listeners := tk.listeners
			tk.mu.RUnlock()

			for _, fn := range listeners {
				fn(tick)
			}
		}
	}
}
