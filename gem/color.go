package gem

import "math/rand/v2"

// Color is one of the gem colors of the palette. The zero value is not a
// valid gem color.
type Color uint8

const (
	NoColor Color = iota
	Red
	Green
	Blue
	Yellow
	Purple
)

// Palette lists every color a gem can have, in a stable order.
var Palette = [...]Color{Red, Green, Blue, Yellow, Purple}

var colorNames = [...]string{
	NoColor: "none",
	Red:     "red",
	Green:   "green",
	Blue:    "blue",
	Yellow:  "yellow",
	Purple:  "purple",
}

var colorLetters = [...]byte{
	NoColor: '?',
	Red:     'R',
	Green:   'G',
	Blue:    'B',
	Yellow:  'Y',
	Purple:  'P',
}

// Valid reports whether c is a member of the palette.
func (c Color) Valid() bool {
	return c >= Red && c <= Purple
}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "invalid"
}

// Letter returns the single-letter code used by Grid.String and ParseGrid.
func (c Color) Letter() byte {
	if int(c) < len(colorLetters) {
		return colorLetters[c]
	}
	return '?'
}

// ColorFromLetter maps a letter produced by Letter back to its color.
func ColorFromLetter(b byte) (Color, bool) {
	for _, c := range Palette {
		if colorLetters[c] == b {
			return c, true
		}
	}
	return NoColor, false
}

func randomColor(rng *rand.Rand) Color {
	return Palette[rng.IntN(len(Palette))]
}

// CellState tags what a grid cell currently holds.
type CellState uint8

const (
	// Empty is an unoccupied cell.
	Empty CellState = iota
	// Occupied holds a settled gem.
	Occupied
	// PendingClear holds a gem flagged by FindMatches and not yet removed.
	PendingClear
)

func (s CellState) String() string {
	switch s {
	case Empty:
		return "empty"
	case Occupied:
		return "gem"
	case PendingClear:
		return "pending-clear"
	default:
		return "invalid"
	}
}

// Cell is the content of a single grid position. A pending-clear cell keeps
// its color so a renderer can still show which gem is being cleared, but it
// never takes part in matching.
type Cell struct {
	State CellState
	Color Color
}

// EmptyCell is the zero Cell.
var EmptyCell = Cell{}

// GemCell returns a settled cell holding c.
func GemCell(c Color) Cell {
	return Cell{State: Occupied, Color: c}
}

// IsEmpty reports whether the cell holds nothing.
func (c Cell) IsEmpty() bool { return c.State == Empty }

// IsGem reports whether the cell holds a settled, matchable gem.
func (c Cell) IsGem() bool { return c.State == Occupied }

// IsPending reports whether the cell is flagged for clearing.
func (c Cell) IsPending() bool { return c.State == PendingClear }

// matches reports whether two cells are settled gems of the same color.
func (c Cell) matches(other Cell) bool {
	return c.State == Occupied && other.State == Occupied && c.Color == other.Color
}
