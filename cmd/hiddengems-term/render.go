package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/hiddengems/gem"
)

// Each board cell is two terminal columns wide so the board looks square.
const cellWidth = 2

var (
	defaultStyle = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	borderStyle  = defaultStyle.Foreground(tcell.ColorGreen)
	flashStyle   = defaultStyle.Background(tcell.ColorFuchsia).Foreground(tcell.ColorWhite)
	pendingStyle = defaultStyle.Foreground(tcell.ColorGray)
)

var gemColors = map[gem.Color]tcell.Color{
	gem.Red:    tcell.ColorRed,
	gem.Green:  tcell.ColorGreen,
	gem.Blue:   tcell.ColorBlue,
	gem.Yellow: tcell.ColorYellow,
	gem.Purple: tcell.ColorPurple,
}

// cellGlyph returns the rune and style used for one half of a board cell.
func cellGlyph(cell gem.Cell) (rune, tcell.Style) {
	switch {
	case cell.IsGem():
		return '█', defaultStyle.Foreground(gemColors[cell.Color])
	case cell.IsPending():
		return '░', pendingStyle
	default:
		return '·', defaultStyle.Foreground(tcell.ColorDarkGray)
	}
}

// statusLine describes what the player can do right now.
func statusLine(state gem.State, paused, fastFall bool) string {
	switch {
	case state == gem.GameOver:
		return "GAME OVER - r to restart"
	case paused:
		return "PAUSED - enter to resume"
	case fastFall:
		return "DROPPING"
	default:
		return ""
	}
}

// panelLines are the text rows shown below the next piece.
func panelLines(snap gem.Snapshot, best int) []string {
	return []string{
		fmt.Sprintf("SCORE  %d", snap.Score),
		fmt.Sprintf("LEVEL  %d", snap.Level),
		fmt.Sprintf("PIECES %d", snap.Pieces),
		fmt.Sprintf("CHAINS %d", snap.Chains),
		fmt.Sprintf("BEST   %d", best),
	}
}

func (g *Game) best() int {
	return max(g.highScore, g.sched.Session().Score())
}

func (g *Game) draw() {
	g.screen.Clear()

	snap := g.sched.Session().Snapshot()
	grid := snap.Composite()
	rows, cols := grid.Rows(), grid.Cols()

	const originX, originY = 2, 1

	// Border
	for row := -1; row <= rows; row++ {
		g.screen.SetContent(originX-1, originY+row, '│', nil, borderStyle)
		g.screen.SetContent(originX+cols*cellWidth, originY+row, '│', nil, borderStyle)
	}
	for x := originX - 1; x <= originX+cols*cellWidth; x++ {
		g.screen.SetContent(x, originY-1, '─', nil, borderStyle)
		g.screen.SetContent(x, originY+rows, '─', nil, borderStyle)
	}

	flashing := map[gem.Position]bool{}
	if g.sched.Holding() && (g.ticks/8)%2 == 0 {
		for _, pos := range g.flash.cells {
			flashing[pos] = true
		}
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			r, style := cellGlyph(grid.Get(row, col))
			if flashing[gem.Position{Row: row, Col: col}] {
				r, style = ' ', flashStyle
			}
			for i := 0; i < cellWidth; i++ {
				g.screen.SetContent(originX+col*cellWidth+i, originY+row, r, nil, style)
			}
		}
	}

	panelX := originX + cols*cellWidth + 3
	y := originY
	g.drawText(panelX, y, "NEXT", defaultStyle)
	for i, c := range snap.Next {
		r, style := cellGlyph(gem.GemCell(c))
		for j := 0; j < cellWidth; j++ {
			g.screen.SetContent(panelX+j, y+1+i, r, nil, style)
		}
	}
	y += gem.PieceSize + 2

	for _, line := range panelLines(snap, g.best()) {
		g.drawText(panelX, y, line, defaultStyle)
		y++
	}

	if status := statusLine(snap.State, g.sched.Paused(), g.sched.FastFalling()); status != "" {
		g.drawText(panelX, y+1, status, defaultStyle.Bold(true))
	}

	g.screen.Show()
}

func (g *Game) drawText(x, y int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		g.screen.SetContent(x+i, y, r, nil, style)
	}
}
