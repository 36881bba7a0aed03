package debugui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/hiddengems/driver"
	"github.com/plus3/hiddengems/gem"
)

var (
	textPending = imgui.NewVec4(1.0, 0.3, 1.0, 1.0)
	textEmpty   = imgui.NewVec4(0.35, 0.35, 0.35, 1.0)
	textPaused  = imgui.NewVec4(1.0, 0.8, 0.0, 1.0)
	textRunning = imgui.NewVec4(0.0, 1.0, 0.0, 1.0)
)

// ColorVec4 returns the ImGui text color of a gem.
func ColorVec4(c gem.Color) imgui.Vec4 {
	switch c {
	case gem.Red:
		return imgui.NewVec4(0.9, 0.2, 0.2, 1.0)
	case gem.Green:
		return imgui.NewVec4(0.2, 0.8, 0.3, 1.0)
	case gem.Blue:
		return imgui.NewVec4(0.3, 0.5, 1.0, 1.0)
	case gem.Yellow:
		return imgui.NewVec4(1.0, 0.9, 0.2, 1.0)
	case gem.Purple:
		return imgui.NewVec4(0.6, 0.3, 0.9, 1.0)
	default:
		return textEmpty
	}
}

// SessionInspector shows the counters, control state and board of the
// driven session and lets the user pause or step it.
type SessionInspector struct {
	showBoard bool
}

func NewSessionInspector() *SessionInspector {
	return &SessionInspector{showBoard: true}
}

func (si *SessionInspector) Render(frame *driver.Frame) {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(280, 520), imgui.CondOnce)

	if !imgui.BeginV("Session", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	session, control := frame.Session, frame.Control
	snap := session.Snapshot()

	imgui.Text(fmt.Sprintf("State: %s", snap.State))
	imgui.Text(fmt.Sprintf("Score: %d  Level: %d", snap.Score, snap.Level))
	imgui.Text(fmt.Sprintf("Pieces: %d  Chains: %d", snap.Pieces, snap.Chains))
	imgui.Text(fmt.Sprintf("Longest cascade: %d", session.LongestCascade()))
	imgui.Separator()

	if control.Paused() {
		imgui.TextColored(textPaused, "PAUSED")
	} else {
		imgui.TextColored(textRunning, "RUNNING")
	}
	imgui.SameLine()
	label := "Pause"
	if control.Paused() {
		label = "Resume"
	}
	if imgui.Button(label) {
		control.TogglePause()
	}
	imgui.Text(fmt.Sprintf("Fast fall: %t  Shift: %s  Hold: %t", control.FastFalling(), control.Shift(), control.Holding()))
	if control.Paused() && imgui.Button("Step") {
		session.Tick()
	}
	imgui.Separator()

	imgui.Text("Next:")
	for _, c := range snap.Next {
		imgui.SameLine()
		imgui.TextColored(ColorVec4(c), string(c.Letter()))
	}
	if snap.Falling != nil {
		imgui.Text(fmt.Sprintf("Falling at row %d col %d", snap.Falling.Row, snap.Falling.Col))
	}

	imgui.Checkbox("Board", &si.showBoard)
	if si.showBoard {
		si.renderBoard(snap.Composite())
	}

	imgui.End()
}

func (si *SessionInspector) renderBoard(grid *gem.Grid) {
	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsSizingFixedFit
	if !imgui.BeginTableV("Board", int32(grid.Cols()), tableFlags, imgui.NewVec2(0, 0), 0) {
		return
	}

	for row := 0; row < grid.Rows(); row++ {
		imgui.TableNextRow()
		for col := 0; col < grid.Cols(); col++ {
			imgui.TableNextColumn()
			cell := grid.Get(row, col)
			switch {
			case cell.IsEmpty():
				imgui.TextColored(textEmpty, ".")
			case cell.IsPending():
				imgui.TextColored(textPending, string(cell.Color.Letter()))
			default:
				imgui.TextColored(ColorVec4(cell.Color), string(cell.Color.Letter()))
			}
		}
	}

	imgui.EndTable()
}
