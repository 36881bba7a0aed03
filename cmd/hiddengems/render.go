package main

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/hiddengems/gem"
)

var (
	backgroundColor = color.RGBA{8, 24, 12, 255}
	boardColor      = color.RGBA{143, 188, 143, 255}
	borderColor     = color.RGBA{57, 255, 20, 255}
	gridLineColor   = color.RGBA{0, 0, 0, 255}
	flashColor      = color.RGBA{255, 0, 255, 255}
	textColor       = color.RGBA{46, 204, 113, 255}
)

var gemColors = map[gem.Color]color.RGBA{
	gem.Red:    {220, 40, 40, 255},
	gem.Green:  {40, 180, 70, 255},
	gem.Blue:   {50, 90, 230, 255},
	gem.Yellow: {240, 220, 40, 255},
	gem.Purple: {150, 60, 200, 255},
}

// boardLayout positions the board in the left part of the screen and the
// side panel to its right.
type boardLayout struct {
	cell    float32
	offsetX float32
	offsetY float32
}

func layoutFor(screen *ebiten.Image, rows, cols int) boardLayout {
	w, h := float32(screen.Bounds().Dx()), float32(screen.Bounds().Dy())
	cell := min((h*0.9)/float32(rows), (w*0.55)/float32(cols))
	return boardLayout{
		cell:    cell,
		offsetX: (w*0.6 - cell*float32(cols)) / 2,
		offsetY: (h - cell*float32(rows)) / 2,
	}
}

func (l boardLayout) cellRect(row, col int) (x, y float32) {
	return l.offsetX + float32(col)*l.cell, l.offsetY + float32(row)*l.cell
}

func (g *Game) draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	snap := g.sched.Session().Snapshot()
	grid := snap.Composite()
	layout := layoutFor(screen, grid.Rows(), grid.Cols())

	boardW, boardH := layout.cell*float32(grid.Cols()), layout.cell*float32(grid.Rows())
	vector.DrawFilledRect(screen, layout.offsetX-4, layout.offsetY-4, boardW+8, boardH+8, borderColor, false)
	vector.DrawFilledRect(screen, layout.offsetX, layout.offsetY, boardW, boardH, boardColor, false)

	for row := 0; row < grid.Rows(); row++ {
		for col := 0; col < grid.Cols(); col++ {
			x, y := layout.cellRect(row, col)
			if cell := grid.Get(row, col); !cell.IsEmpty() {
				drawGem(screen, x, y, layout.cell, gemColors[cell.Color])
			}
			vector.StrokeRect(screen, x, y, layout.cell, layout.cell, 1, gridLineColor, false)
		}
	}

	// Cleared cells blink while the fall is held.
	if g.sched.Holding() && (g.ticks/6)%2 == 0 {
		for _, pos := range g.flash.cells {
			x, y := layout.cellRect(pos.Row, pos.Col)
			vector.StrokeRect(screen, x+2, y+2, layout.cell-4, layout.cell-4, 3, flashColor, false)
		}
	}

	g.drawPanel(screen, snap, layout)
}

func drawGem(screen *ebiten.Image, x, y, size float32, c color.RGBA) {
	vector.DrawFilledRect(screen, x+1, y+1, size-2, size-2, c, false)
	shine := color.RGBA{255, 255, 255, 90}
	vector.DrawFilledCircle(screen, x+size*0.35, y+size*0.35, size*0.12, shine, true)
}

func (g *Game) drawPanel(screen *ebiten.Image, snap gem.Snapshot, layout boardLayout) {
	panelX := layout.offsetX + layout.cell*float32(snap.Grid.Cols()) + 40
	x, y := int(panelX), int(layout.offsetY)

	ebitenutil.DebugPrintAt(screen, "NEXT", x, y)
	for i, c := range snap.Next {
		drawGem(screen, panelX, float32(y+20)+float32(i)*layout.cell, layout.cell, gemColors[c])
	}
	y += 40 + int(layout.cell)*gem.PieceSize

	lines := []string{
		fmt.Sprintf("SCORE  %d", snap.Score),
		fmt.Sprintf("LEVEL  %d", snap.Level),
		fmt.Sprintf("PIECES %d", snap.Pieces),
		fmt.Sprintf("BEST   %d", g.best()),
	}
	for _, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, x, y)
		y += 20
	}

	y += 20
	switch {
	case snap.State == gem.GameOver:
		ebitenutil.DebugPrintAt(screen, "GAME OVER - press R", x, y)
	case g.sched.Paused():
		ebitenutil.DebugPrintAt(screen, "PAUSED", x, y)
	case g.sched.FastFalling():
		vector.DrawFilledRect(screen, panelX, float32(y), 8, 8, textColor, false)
	}
}
