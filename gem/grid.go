package gem

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultRows and DefaultCols are the board dimensions of the reference game.
	DefaultRows = 20
	DefaultCols = 8

	// FullColumnRun is the number of uninterrupted gems in one column that
	// ends the game.
	FullColumnRun = 17
)

// ErrOutOfBounds is wrapped by the value grid accessors panic with.
var ErrOutOfBounds = errors.New("gem: coordinate out of bounds")

// OutOfBoundsError describes an access outside the grid.
type OutOfBoundsError struct {
	Row, Col   int
	Rows, Cols int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("gem: cell (%d,%d) outside %dx%d grid", e.Row, e.Col, e.Rows, e.Cols)
}

func (e *OutOfBoundsError) Unwrap() error { return ErrOutOfBounds }

// Position addresses a grid cell. Row 0 is the top row.
type Position struct {
	Row, Col int
}

// Grid is a fixed-size matrix of cells stored row-major.
type Grid struct {
	rows    int
	cols    int
	fullRun int
	cells   []Cell
}

// NewGrid creates an empty grid. It panics on non-positive dimensions.
func NewGrid(rows, cols int) *Grid {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("gem: invalid grid size %dx%d", rows, cols))
	}
	return &Grid{
		rows:    rows,
		cols:    cols,
		fullRun: FullColumnRun,
		cells:   make([]Cell, rows*cols),
	}
}

// ParseGrid builds a grid from one line per row. '.' is empty, an upper-case
// color letter is a gem and a lower-case color letter is a pending-clear gem.
// Blank lines and surrounding whitespace are ignored.
func ParseGrid(s string) (*Grid, error) {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return nil, errors.New("gem: empty grid description")
	}

	g := NewGrid(len(lines), len(lines[0]))
	for r, line := range lines {
		if len(line) != g.cols {
			return nil, fmt.Errorf("gem: row %d has %d cells, want %d", r, len(line), g.cols)
		}
		for c := 0; c < len(line); c++ {
			ch := line[c]
			if ch == '.' {
				continue
			}
			pending := ch >= 'a' && ch <= 'z'
			if pending {
				ch -= 'a' - 'A'
			}
			color, ok := ColorFromLetter(ch)
			if !ok {
				return nil, fmt.Errorf("gem: unknown cell %q at (%d,%d)", line[c], r, c)
			}
			cell := GemCell(color)
			if pending {
				cell.State = PendingClear
			}
			g.cells[r*g.cols+c] = cell
		}
	}
	return g, nil
}

// MustParseGrid is like ParseGrid but panics on error.
func MustParseGrid(s string) *Grid {
	g, err := ParseGrid(s)
	if err != nil {
		panic(err)
	}
	return g
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// FullRun returns the column run length that ColumnHeightFull reports on.
func (g *Grid) FullRun() int { return g.fullRun }

// InBounds reports whether (row, col) addresses a cell of the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g *Grid) index(row, col int) int {
	if !g.InBounds(row, col) {
		panic(&OutOfBoundsError{Row: row, Col: col, Rows: g.rows, Cols: g.cols})
	}
	return row*g.cols + col
}

// Get returns the cell at (row, col). It panics with an *OutOfBoundsError
// when the coordinate is outside the grid.
func (g *Grid) Get(row, col int) Cell {
	return g.cells[g.index(row, col)]
}

// Set stores cell at (row, col). It panics with an *OutOfBoundsError when the
// coordinate is outside the grid.
func (g *Grid) Set(row, col int, cell Cell) {
	g.cells[g.index(row, col)] = cell
}

// IsOccupied reports whether the cell holds a gem. Pending-clear cells count
// as occupied for collision purposes.
func (g *Grid) IsOccupied(row, col int) bool {
	return !g.cells[g.index(row, col)].IsEmpty()
}

// IsEmpty reports whether the cell holds nothing.
func (g *Grid) IsEmpty(row, col int) bool {
	return g.cells[g.index(row, col)].IsEmpty()
}

// ColumnHeightFull reports whether col contains at least FullRun settled gems
// in an uninterrupted vertical run. The count restarts at every cell that is
// not a settled gem, so a tall column with a single gap does not qualify.
func (g *Grid) ColumnHeightFull(col int) bool {
	run := 0
	for row := 0; row < g.rows; row++ {
		if g.Get(row, col).IsGem() {
			run++
			if run >= g.fullRun {
				return true
			}
		} else {
			run = 0
		}
	}
	return false
}

// AnyColumnFull reports whether ColumnHeightFull holds for any column.
func (g *Grid) AnyColumnFull() bool {
	for col := 0; col < g.cols; col++ {
		if g.ColumnHeightFull(col) {
			return true
		}
	}
	return false
}

// Count returns the number of non-empty cells.
func (g *Grid) Count() int {
	n := 0
	for _, cell := range g.cells {
		if !cell.IsEmpty() {
			n++
		}
	}
	return n
}

// ColumnHeight returns the number of rows from the topmost non-empty cell of
// col down to the bottom, or 0 for an empty column.
func (g *Grid) ColumnHeight(col int) int {
	for row := 0; row < g.rows; row++ {
		if !g.Get(row, col).IsEmpty() {
			return g.rows - row
		}
	}
	return 0
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	clone := *g
	clone.cells = make([]Cell, len(g.cells))
	copy(clone.cells, g.cells)
	return &clone
}

// Equal reports whether both grids have the same size and contents.
func (g *Grid) Equal(other *Grid) bool {
	if g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for i := range g.cells {
		if g.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// String renders the grid in the format accepted by ParseGrid.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow(g.rows * (g.cols + 1))
	for row := 0; row < g.rows; row++ {
		for col := 0; col < g.cols; col++ {
			cell := g.cells[row*g.cols+col]
			switch cell.State {
			case Empty:
				sb.WriteByte('.')
			case PendingClear:
				sb.WriteByte(cell.Color.Letter() + ('a' - 'A'))
			default:
				sb.WriteByte(cell.Color.Letter())
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
