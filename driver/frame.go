package driver

import (
	"github.com/plus3/hiddengems/gem"
	"github.com/rs/zerolog"
)

// Frame is what every system sees during one Scheduler.Once call.
type Frame struct {
	DeltaTime float64
	Session   *gem.Session
	Control   *Control

	// Input holds the commands queued since the previous frame, oldest first.
	Input []Command

	Logger zerolog.Logger
}

// Control is the frame loop state that lives outside the session: pause,
// fast fall, the held shift direction and the flash hold.
type Control struct {
	paused   bool
	fastFall bool
	dropHeld bool
	shift    Direction
	hold     float64
}

func (c *Control) Paused() bool      { return c.paused }
func (c *Control) FastFalling() bool { return c.fastFall }
func (c *Control) Shift() Direction  { return c.shift }

// Holding reports whether falling is suspended for a match flash.
func (c *Control) Holding() bool { return c.hold > 0 }

// Active reports whether the falling piece may move this frame.
func (c *Control) Active() bool { return !c.paused && c.hold <= 0 }

// TogglePause pauses or resumes. Pausing cancels fast fall; resuming brings
// it back only while the soft drop key is still held.
func (c *Control) TogglePause() {
	c.paused = !c.paused
	if c.paused {
		c.fastFall = false
	} else {
		c.fastFall = c.dropHeld
	}
}

func (c *Control) startFastFall() {
	c.dropHeld = true
	if !c.paused {
		c.fastFall = true
	}
}

func (c *Control) stopFastFall() {
	c.dropHeld = false
	c.fastFall = false
}

func (c *Control) holdFor(seconds float64) {
	if seconds > c.hold {
		c.hold = seconds
	}
}

// elapse counts dt against the flash hold. The hold does not run down while
// paused.
func (c *Control) elapse(dt float64) {
	if c.paused || c.hold <= 0 {
		return
	}
	c.hold -= dt
	if c.hold < 0 {
		c.hold = 0
	}
}
