package gem

// StepResult is the outcome of ResolveStep.
type StepResult uint8

const (
	// Stable means no match was found and the grid was not changed.
	Stable StepResult = iota
	// Cleared means at least one run was removed and the grid compacted.
	Cleared
)

func (r StepResult) String() string {
	if r == Cleared {
		return "cleared"
	}
	return "stable"
}

// ResolveMarked empties every pending-clear cell and returns how many were
// removed.
func ResolveMarked(grid *Grid) int {
	removed := 0
	for i, cell := range grid.cells {
		if cell.IsPending() {
			grid.cells[i] = EmptyCell
			removed++
		}
	}
	return removed
}

// Collapse compacts each column independently: non-empty cells slide to the
// bottom keeping their top-to-bottom order, and the cells above them become
// empty. Collapse is idempotent.
func Collapse(grid *Grid) {
	for col := 0; col < grid.cols; col++ {
		dst := grid.rows - 1
		for row := grid.rows - 1; row >= 0; row-- {
			idx := row*grid.cols + col
			cell := grid.cells[idx]
			if cell.IsEmpty() {
				continue
			}
			if row != dst {
				grid.cells[dst*grid.cols+col] = cell
				grid.cells[idx] = EmptyCell
			}
			dst--
		}
	}
}

// ResolveStep runs one clearing pass: FindMatches, and when anything matched,
// ResolveMarked followed by Collapse. The returned set holds the cells that
// were cleared; it is empty when the result is Stable. A Stable step leaves
// the grid unchanged.
func ResolveStep(grid *Grid) (StepResult, *MatchSet) {
	matches := FindMatches(grid)
	if matches.Empty() {
		return Stable, matches
	}
	ResolveMarked(grid)
	Collapse(grid)
	return Cleared, matches
}

// ResolveAll repeats ResolveStep until the grid is stable and returns the
// number of Cleared steps. It terminates within rows*cols steps because every
// Cleared step removes at least MinRun cells.
func ResolveAll(grid *Grid) int {
	steps := 0
	for {
		result, _ := ResolveStep(grid)
		if result == Stable {
			return steps
		}
		steps++
	}
}
