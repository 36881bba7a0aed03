package driver

import (
	"time"

	"github.com/plus3/hiddengems/config"
	"github.com/plus3/hiddengems/gem"
)

// NewDefault returns a scheduler with the standard systems registered in
// order: input, held shift, fast fall, normal fall.
func NewDefault(session *gem.Session, timing config.Timing, opts ...Option) *Scheduler {
	s := NewScheduler(session, opts...)
	s.Register(&CommandSystem{})
	s.Register(&ShiftSystem{Interval: timing.ShiftRepeat})
	s.Register(&FastFallSystem{Interval: timing.FastFall})
	s.Register(&FallSystem{Interval: timing.FallInterval})
	return s
}

// CommandSystem applies the frame input. Moves are dropped while paused or
// during a flash hold.
type CommandSystem struct{}

func (s *CommandSystem) Execute(frame *Frame) {
	session, control := frame.Session, frame.Control

	for _, cmd := range frame.Input {
		switch cmd.Kind {
		case CmdTogglePause:
			control.TogglePause()
			frame.Logger.Debug().Bool("paused", control.Paused()).Msg("pause toggled")
		case CmdStartFastFall:
			control.startFastFall()
		case CmdStopFastFall:
			control.stopFastFall()
		case CmdHoldShift:
			control.shift = cmd.Shift
		case CmdMoveLeft:
			if control.Active() {
				session.MoveLeft()
			}
		case CmdMoveRight:
			if control.Active() {
				session.MoveRight()
			}
		case CmdRotate:
			if control.Active() {
				session.Rotate()
			}
		}
	}
}

// ShiftSystem repeats the held lateral move every Interval. The first repeat
// comes one Interval after the direction was set.
type ShiftSystem struct {
	Interval time.Duration

	dir     Direction
	elapsed float64
}

func (s *ShiftSystem) Execute(frame *Frame) {
	dir := frame.Control.Shift()
	if dir != s.dir {
		s.dir = dir
		s.elapsed = 0
	}
	if dir == NoShift || !frame.Control.Active() || s.Interval <= 0 {
		return
	}

	interval := s.Interval.Seconds()
	s.elapsed += frame.DeltaTime
	for s.elapsed >= interval {
		s.elapsed -= interval
		if dir == ShiftLeft {
			frame.Session.MoveLeft()
		} else {
			frame.Session.MoveRight()
		}
	}
}

func (s *ShiftSystem) Reset() {
	s.dir = NoShift
	s.elapsed = 0
}

// FastFallSystem moves the falling piece down every Interval while fast fall
// is active. It never spawns a piece.
type FastFallSystem struct {
	Interval time.Duration

	elapsed float64
}

func (s *FastFallSystem) Execute(frame *Frame) {
	control := frame.Control
	if !control.FastFalling() || !control.Active() || frame.Session.IsOver() || s.Interval <= 0 {
		s.elapsed = 0
		return
	}

	interval := s.Interval.Seconds()
	s.elapsed += frame.DeltaTime
	for s.elapsed >= interval {
		s.elapsed -= interval
		frame.Session.FastTick()
		if !control.Active() {
			s.elapsed = 0
			return
		}
	}
}

func (s *FastFallSystem) Reset() { s.elapsed = 0 }

// FallSystem is the normal-speed clock. It ticks the session every
// Interval(level), which spawns a piece when none is falling.
type FallSystem struct {
	Interval func(level int) time.Duration

	elapsed float64
}

func (s *FallSystem) Execute(frame *Frame) {
	session, control := frame.Session, frame.Control
	if session.IsOver() {
		return
	}
	if !control.Active() {
		if control.Holding() {
			s.elapsed = 0
		}
		return
	}

	s.elapsed += frame.DeltaTime
	for {
		interval := s.Interval(session.Level()).Seconds()
		if interval <= 0 || s.elapsed < interval {
			return
		}
		s.elapsed -= interval
		session.Tick()

		if session.IsOver() {
			return
		}
		if !control.Active() {
			s.elapsed = 0
			return
		}
	}
}

func (s *FallSystem) Reset() { s.elapsed = 0 }

// FlashObserver returns a gem.Observer that holds the fall for d whenever a
// cascade step clears cells. Pass it to gem.NewSession with gem.WithObserver.
func (s *Scheduler) FlashObserver(d time.Duration) gem.Observer {
	return &flashHold{scheduler: s, d: d}
}

type flashHold struct {
	gem.NopObserver
	scheduler *Scheduler
	d         time.Duration
}

func (f *flashHold) MatchesCleared(int, []gem.Position) {
	f.scheduler.Hold(f.d)
}
