package driver

import (
	"context"
	"reflect"
	"time"

	"github.com/plus3/hiddengems/gem"
	"github.com/rs/zerolog"
)

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	Frames          int64
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger handed to systems and used for session events.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// Scheduler drives a gem.Session in real time. It owns the pause, fast fall
// and flash hold state, drains queued input once per frame and runs its
// systems in order.
//
// Apart from Commands, a Scheduler is not safe for concurrent use: Once,
// Reset and Session must be called from the goroutine that runs the loop.
type Scheduler struct {
	session     *gem.Session
	control     Control
	commands    *Commands
	input       []Command
	systems     []System
	systemStats []*systemStatsInternal
	frames      int64
	logger      zerolog.Logger
}

// NewScheduler creates a scheduler for session with no systems registered.
// Session may be nil when the session is built with FlashObserver; call
// Reset with it before the first Once.
func NewScheduler(session *gem.Session, opts ...Option) *Scheduler {
	s := &Scheduler{
		session:  session,
		commands: newCommands(),
		systems:  make([]System, 0),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register appends a system to the frame.
func (s *Scheduler) Register(system System) {
	s.systems = append(s.systems, system)

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}

	s.systemStats = append(s.systemStats, &systemStatsInternal{
		name:        systemType.Name(),
		minDuration: time.Duration(1<<63 - 1),
	})
}

// Commands returns the input buffer. It is safe to queue from any goroutine.
func (s *Scheduler) Commands() *Commands { return s.commands }

// Session returns the session being driven.
func (s *Scheduler) Session() *gem.Session { return s.session }

// Paused reports whether the loop is paused.
func (s *Scheduler) Paused() bool { return s.control.Paused() }

// FastFalling reports whether fast fall is active.
func (s *Scheduler) FastFalling() bool { return s.control.FastFalling() }

// Holding reports whether a match flash is suspending the fall.
func (s *Scheduler) Holding() bool { return s.control.Holding() }

// Hold suspends falling for d of unpaused frame time. Front ends call it
// from a gem.Observer when matches clear, so the flagged cells stay visible
// before the next piece appears. Overlapping holds do not add up.
func (s *Scheduler) Hold(d time.Duration) {
	s.control.holdFor(d.Seconds())
}

// Reset switches to a new session, dropping queued input, the control state
// and the accumulated time of every system.
func (s *Scheduler) Reset(session *gem.Session) {
	s.session = session
	s.control = Control{}
	s.commands.clear()
	for _, system := range s.systems {
		if r, ok := system.(Resetter); ok {
			r.Reset()
		}
	}
	s.logger.Info().Msg("session reset")
}

// Once runs every registered system once with the given delta time in
// seconds.
func (s *Scheduler) Once(dt float64) {
	s.input = s.commands.drain(s.input)
	s.control.elapse(dt)

	frame := &Frame{
		DeltaTime: dt,
		Session:   s.session,
		Control:   &s.control,
		Input:     s.input,
		Logger:    s.logger,
	}

	level, over := s.session.Level(), s.session.IsOver()

	for i, system := range s.systems {
		start := time.Now()
		system.Execute(frame)
		duration := time.Since(start)

		stats := s.systemStats[i]
		stats.executionCount++
		stats.lastDuration = duration
		stats.totalDuration += duration

		if duration < stats.minDuration {
			stats.minDuration = duration
		}
		if duration > stats.maxDuration {
			stats.maxDuration = duration
		}
	}
	s.frames++

	if l := s.session.Level(); l != level {
		s.logger.Info().Int("level", l).Int("score", s.session.Score()).Msg("level up")
	}
	if !over && s.session.IsOver() {
		s.logger.Info().
			Int("score", s.session.Score()).
			Int("pieces", s.session.Pieces()).
			Int("chains", s.session.Chains()).
			Msg("game over")
	}
}

// Run executes all systems repeatedly at the given interval until the context is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}

// GetStats returns statistics about system execution.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{
		SystemCount: len(s.systems),
		Frames:      s.frames,
		Systems:     make([]SystemStats, len(s.systemStats)),
	}

	var totalExecs int64
	for i, internal := range s.systemStats {
		avgDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    internal.minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		totalExecs += internal.executionCount
	}

	stats.TotalExecutions = totalExecs
	return stats
}
