package gem

// PieceSize is the number of gems in a falling piece.
const PieceSize = 3

// MoveResult is the outcome of Piece.MoveDown.
type MoveResult uint8

const (
	// Advanced means the piece moved down one row.
	Advanced MoveResult = iota
	// Landed means the piece could not move and was written into the grid.
	Landed
)

func (r MoveResult) String() string {
	if r == Landed {
		return "landed"
	}
	return "advanced"
}

// Piece is a vertical triple of gems. Row is the row of the topmost gem; the
// gems occupy rows Row, Row+1 and Row+2 of column Col. Colors[0] is the top.
//
// A Piece only knows about the grid it is handed; it holds no reference to a
// session or a renderer.
type Piece struct {
	Row    int
	Col    int
	Colors [PieceSize]Color
}

// Cells returns the grid positions the piece covers, top to bottom.
func (p *Piece) Cells() [PieceSize]Position {
	var cells [PieceSize]Position
	for i := range cells {
		cells[i] = Position{Row: p.Row + i, Col: p.Col}
	}
	return cells
}

// fits reports whether every cell of the piece, shifted by (dRow, dCol), is in
// bounds and empty.
func (p *Piece) fits(grid *Grid, dRow, dCol int) bool {
	col := p.Col + dCol
	for i := 0; i < PieceSize; i++ {
		row := p.Row + i + dRow
		if !grid.InBounds(row, col) || !grid.IsEmpty(row, col) {
			return false
		}
	}
	return true
}

// CanMoveDown reports whether the cell below each gem is in bounds and empty.
func (p *Piece) CanMoveDown(grid *Grid) bool {
	return p.fits(grid, 1, 0)
}

// MoveDown advances the piece one row, or locks it into the grid when it
// cannot move. Either the whole piece moves or the whole piece locks.
func (p *Piece) MoveDown(grid *Grid) MoveResult {
	if p.CanMoveDown(grid) {
		p.Row++
		return Advanced
	}
	p.PlaceOnBoard(grid)
	return Landed
}

func (p *Piece) CanMoveLeft(grid *Grid) bool {
	return p.fits(grid, 0, -1)
}

func (p *Piece) CanMoveRight(grid *Grid) bool {
	return p.fits(grid, 0, 1)
}

// MoveLeft shifts the piece one column left if that is legal. A blocked move
// leaves the piece untouched. It reports whether the piece moved.
func (p *Piece) MoveLeft(grid *Grid) bool {
	if !p.CanMoveLeft(grid) {
		return false
	}
	p.Col--
	return true
}

// MoveRight shifts the piece one column right if that is legal. A blocked
// move leaves the piece untouched. It reports whether the piece moved.
func (p *Piece) MoveRight(grid *Grid) bool {
	if !p.CanMoveRight(grid) {
		return false
	}
	p.Col++
	return true
}

// RotateColors cycles the color order by one: the top gem moves to the bottom
// and the others move up. Three rotations restore the original order. The
// position is unchanged.
func (p *Piece) RotateColors() {
	first := p.Colors[0]
	copy(p.Colors[:], p.Colors[1:])
	p.Colors[PieceSize-1] = first
}

// PlaceOnBoard writes the gems into the grid at the piece's current position.
func (p *Piece) PlaceOnBoard(grid *Grid) {
	for i, color := range p.Colors {
		grid.Set(p.Row+i, p.Col, GemCell(color))
	}
}
