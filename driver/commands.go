package driver

import "sync"

// Direction is the lateral direction of a held shift.
type Direction int8

const (
	NoShift    Direction = 0
	ShiftLeft  Direction = -1
	ShiftRight Direction = 1
)

func (d Direction) String() string {
	switch d {
	case ShiftLeft:
		return "left"
	case ShiftRight:
		return "right"
	default:
		return "none"
	}
}

// CommandKind identifies a queued player action.
type CommandKind uint8

const (
	CmdMoveLeft CommandKind = iota
	CmdMoveRight
	CmdRotate
	CmdStartFastFall
	CmdStopFastFall
	CmdTogglePause
	CmdHoldShift
)

var commandNames = [...]string{
	CmdMoveLeft:      "move-left",
	CmdMoveRight:     "move-right",
	CmdRotate:        "rotate",
	CmdStartFastFall: "start-fast-fall",
	CmdStopFastFall:  "stop-fast-fall",
	CmdTogglePause:   "toggle-pause",
	CmdHoldShift:     "hold-shift",
}

func (k CommandKind) String() string {
	if int(k) < len(commandNames) {
		return commandNames[k]
	}
	return "unknown"
}

// Command is one queued action. Shift is only set for CmdHoldShift.
type Command struct {
	Kind  CommandKind
	Shift Direction
}

// Commands buffers player input between frames. Input handlers may queue
// from any goroutine; the scheduler drains the buffer at the start of each
// frame and applies it in order.
type Commands struct {
	mu    sync.Mutex
	queue []Command
}

func newCommands() *Commands {
	return &Commands{}
}

func (c *Commands) push(cmd Command) {
	c.mu.Lock()
	c.queue = append(c.queue, cmd)
	c.mu.Unlock()
}

// MoveLeft queues a one-column shift to the left.
func (c *Commands) MoveLeft() { c.push(Command{Kind: CmdMoveLeft}) }

// MoveRight queues a one-column shift to the right.
func (c *Commands) MoveRight() { c.push(Command{Kind: CmdMoveRight}) }

// Rotate queues a color rotation of the falling piece.
func (c *Commands) Rotate() { c.push(Command{Kind: CmdRotate}) }

// StartFastFall marks the soft drop key as held.
func (c *Commands) StartFastFall() { c.push(Command{Kind: CmdStartFastFall}) }

// StopFastFall marks the soft drop key as released.
func (c *Commands) StopFastFall() { c.push(Command{Kind: CmdStopFastFall}) }

// TogglePause queues a pause or resume.
func (c *Commands) TogglePause() { c.push(Command{Kind: CmdTogglePause}) }

// HoldShift sets the direction that repeats while a lateral key is held.
// NoShift releases it.
func (c *Commands) HoldShift(dir Direction) {
	c.push(Command{Kind: CmdHoldShift, Shift: dir})
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// drain moves the queued commands into buf and resets the queue.
func (c *Commands) drain(buf []Command) []Command {
	c.mu.Lock()
	buf = append(buf[:0], c.queue...)
	c.queue = c.queue[:0]
	c.mu.Unlock()
	return buf
}

// clear drops every queued command.
func (c *Commands) clear() {
	c.mu.Lock()
	c.queue = c.queue[:0]
	c.mu.Unlock()
}
