// Package debugui provides Dear ImGui windows for inspecting a running game:
// the session state and board, scheduler timings and a log of session events.
// Windows are rendered by ImguiSystem, which runs as a driver system between
// the backend's BeginFrame and EndFrame.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hiddengems/driver"
)

// Window is a Dear ImGui window drawn once per frame.
type Window interface {
	Render(frame *driver.Frame)
}

// WindowFunc adapts a plain function to Window.
type WindowFunc func(frame *driver.Frame)

func (f WindowFunc) Render(frame *driver.Frame) { f(frame) }

// ImguiSystem renders its windows each frame and records whether ImGui wants
// the mouse or keyboard, so front ends can skip game input while a widget
// has focus.
type ImguiSystem struct {
	Windows []Window

	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// Add appends windows in draw order.
func (s *ImguiSystem) Add(windows ...Window) {
	s.Windows = append(s.Windows, windows...)
}

// Execute updates the input capture state and renders every window.
func (s *ImguiSystem) Execute(frame *driver.Frame) {
	io := imgui.CurrentIO()
	s.WantCaptureMouse = io.WantCaptureMouse()
	s.WantCaptureKeyboard = io.WantCaptureKeyboard()

	for _, w := range s.Windows {
		w.Render(frame)
	}
}

// Install registers an ImguiSystem carrying the standard windows on sched and
// returns it along with the event log, which the caller must attach to the
// session as an observer.
func Install(sched *driver.Scheduler) (*ImguiSystem, *EventLog) {
	events := NewEventLog(200)
	system := &ImguiSystem{}
	system.Add(
		NewSessionInspector(),
		NewPerformanceStats(120, sched),
		events,
	)
	sched.Register(system)
	return system, events
}
