// Package ebiten hosts the debugui windows inside an ebiten game.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
)

// ImguiBackend owns the ImGui context of the game window. Its Draw and Layout
// must be forwarded from the ebiten.Game methods of the same name.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// NewImguiBackend creates the backend window. The imgui.ini file is disabled
// so window layout is not written next to the binary.
func NewImguiBackend(title string, width, height int) *ImguiBackend {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return &ImguiBackend{EbitenBackend: backend}
}

// Frame runs update between BeginFrame and EndFrame. Every ImGui call of
// the frame must happen inside update.
func (b *ImguiBackend) Frame(update func()) {
	b.BeginFrame()
	update()
	b.EndFrame()
}
