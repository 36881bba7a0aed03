package gem

import (
	"errors"
	"fmt"
)

// ErrInvalidRules is wrapped by the error NewSession returns for bad Rules.
var ErrInvalidRules = errors.New("gem: invalid rules")

// Rules are the tunable constants of a session.
type Rules struct {
	Rows int
	Cols int

	// FullColumnRun is the uninterrupted column run that ends the game.
	FullColumnRun int

	// PointsPerLevel is the score needed for each level increase.
	PointsPerLevel int

	// MaxLevel caps the level counter.
	MaxLevel int
}

// DefaultRules returns the reference game: a 20x8 board, game over at a run
// of 17, a level every 20 points, at most 5 levels.
func DefaultRules() Rules {
	return Rules{
		Rows:           DefaultRows,
		Cols:           DefaultCols,
		FullColumnRun:  FullColumnRun,
		PointsPerLevel: 20,
		MaxLevel:       5,
	}
}

// Validate reports the first rule that cannot be played.
func (r Rules) Validate() error {
	switch {
	case r.Rows < PieceSize:
		return fmt.Errorf("%w: %d rows cannot hold a piece", ErrInvalidRules, r.Rows)
	case r.Cols < 1:
		return fmt.Errorf("%w: %d columns", ErrInvalidRules, r.Cols)
	case r.FullColumnRun < 1 || r.FullColumnRun > r.Rows:
		return fmt.Errorf("%w: full column run %d outside [1,%d]", ErrInvalidRules, r.FullColumnRun, r.Rows)
	case r.PointsPerLevel < 1:
		return fmt.Errorf("%w: points per level %d", ErrInvalidRules, r.PointsPerLevel)
	case r.MaxLevel < 0:
		return fmt.Errorf("%w: max level %d", ErrInvalidRules, r.MaxLevel)
	}
	return nil
}

// SpawnColumn is the column new pieces appear in.
func (r Rules) SpawnColumn() int {
	return r.Cols / 2
}
