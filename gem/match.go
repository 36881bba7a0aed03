package gem

import (
	"slices"

	"github.com/kamstrup/intmap"
)

// MinRun is the shortest straight line of equal gems that clears.
const MinRun = 3

// direction is a (row, col) step between consecutive cells of a run.
type direction struct {
	dRow, dCol int
}

// The four scan directions: horizontal, vertical, diagonal down-right and
// diagonal down-left.
var directions = [...]direction{
	{0, 1},
	{1, 0},
	{1, 1},
	{1, -1},
}

// MatchSet is the set of cells belonging to at least one run. Cells are kept
// as row-major indices so overlapping runs collapse to a single entry.
type MatchSet struct {
	cols  int
	cells *intmap.Set[int]
}

func newMatchSet(cols, capacity int) *MatchSet {
	return &MatchSet{
		cols:  cols,
		cells: intmap.NewSet[int](capacity),
	}
}

// Len returns the number of distinct matched cells.
func (m *MatchSet) Len() int {
	if m == nil {
		return 0
	}
	return m.cells.Len()
}

// Empty reports whether no cell matched.
func (m *MatchSet) Empty() bool {
	return m.Len() == 0
}

// Has reports whether (row, col) is part of a match.
func (m *MatchSet) Has(row, col int) bool {
	if m == nil {
		return false
	}
	return m.cells.Has(row*m.cols + col)
}

// Positions returns the matched cells in row-major order.
func (m *MatchSet) Positions() []Position {
	if m == nil {
		return nil
	}
	indices := make([]int, 0, m.cells.Len())
	for idx := range m.cells.All() {
		indices = append(indices, idx)
	}
	slices.Sort(indices)

	positions := make([]Position, len(indices))
	for i, idx := range indices {
		positions[i] = Position{Row: idx / m.cols, Col: idx % m.cols}
	}
	return positions
}

func (m *MatchSet) add(row, col int) {
	m.cells.Add(row*m.cols + col)
}

// FindMatches scans the grid for runs of MinRun equal settled gems in the
// four directions and flags every matched cell as PendingClear. All four
// scans read the grid as it was before the call, so a cell flagged by one
// direction still counts for the others. Pending-clear and empty cells never
// match.
func FindMatches(grid *Grid) *MatchSet {
	matches := newMatchSet(grid.cols, 16)

	for _, dir := range directions {
		for row := 0; row < grid.rows; row++ {
			for col := 0; col < grid.cols; col++ {
				if runAt(grid, row, col, dir) {
					for i := 0; i < MinRun; i++ {
						matches.add(row+i*dir.dRow, col+i*dir.dCol)
					}
				}
			}
		}
	}

	for idx := range matches.cells.All() {
		grid.cells[idx].State = PendingClear
	}
	return matches
}

// runAt reports whether MinRun cells starting at (row, col) and stepping by
// dir are in bounds and hold the same settled gem color.
func runAt(grid *Grid, row, col int, dir direction) bool {
	endRow := row + (MinRun-1)*dir.dRow
	endCol := col + (MinRun-1)*dir.dCol
	if !grid.InBounds(endRow, endCol) {
		return false
	}
	first := grid.cells[row*grid.cols+col]
	if !first.IsGem() {
		return false
	}
	for i := 1; i < MinRun; i++ {
		if !first.matches(grid.Get(row+i*dir.dRow, col+i*dir.dCol)) {
			return false
		}
	}
	return true
}
