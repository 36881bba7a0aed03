package driver

// System is one stage of the frame loop. Systems run in registration order
// and may keep their own state, such as time accumulators, between frames.
type System interface {
	Execute(frame *Frame)
}

// Resetter is implemented by systems whose state must be dropped when the
// scheduler switches to a new session.
type Resetter interface {
	Reset()
}
