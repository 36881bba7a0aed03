package sim

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/plus3/hiddengems/gem"
)

// Move is a placement for the falling piece: rotate it Rotations times, then
// shift it to Col and drop it.
type Move struct {
	Col       int
	Rotations int
}

// Policy picks a move for the falling piece. The grid passed to Choose is a
// copy the policy may modify.
type Policy interface {
	Name() string
	Choose(grid *gem.Grid, piece gem.Piece) Move
}

// PolicyFactory builds a fresh policy for one game. Policies are not shared
// between workers.
type PolicyFactory func(seed uint64) Policy

// PolicyByName returns the factory for "random" or "greedy".
func PolicyByName(name string) (PolicyFactory, error) {
	switch name {
	case "random":
		return func(seed uint64) Policy { return NewRandom(seed) }, nil
	case "greedy":
		return func(uint64) Policy { return NewGreedy() }, nil
	default:
		return nil, fmt.Errorf("sim: unknown policy %q", name)
	}
}

// Random drops every piece in a uniformly chosen column with a uniformly
// chosen rotation.
type Random struct {
	rng *rand.Rand
}

func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed, ^seed))}
}

func (r *Random) Name() string { return "random" }

func (r *Random) Choose(grid *gem.Grid, _ gem.Piece) Move {
	return Move{
		Col:       r.rng.IntN(grid.Cols()),
		Rotations: r.rng.IntN(gem.PieceSize),
	}
}

// Greedy tries every reachable column and rotation one piece ahead and keeps
// the placement with the best Evaluate score.
type Greedy struct {
	// ChainWeight rewards each cleared cascade step.
	ChainWeight float64
	// HeightWeight penalizes the tallest column after the cascade.
	HeightWeight float64
	// FillWeight penalizes the number of gems left on the board.
	FillWeight float64
}

func NewGreedy() *Greedy {
	return &Greedy{ChainWeight: 10, HeightWeight: 1, FillWeight: 0.1}
}

func (g *Greedy) Name() string { return "greedy" }

// lossScore rates a placement that ends the game.
const lossScore = -1e9

func (g *Greedy) Choose(grid *gem.Grid, piece gem.Piece) Move {
	best := Move{Col: piece.Col}
	bestScore := math.Inf(-1)

	for _, col := range columnsByDistance(piece.Col, grid.Cols()) {
		for rot := 0; rot < gem.PieceSize; rot++ {
			move := Move{Col: col, Rotations: rot}
			score, ok := g.Evaluate(grid, piece, move)
			if ok && score > bestScore {
				best, bestScore = move, score
			}
		}
	}
	return best
}

// Evaluate plays move on a copy of grid and scores the resulting board. It
// reports false when the piece cannot reach the column.
func (g *Greedy) Evaluate(grid *gem.Grid, piece gem.Piece, move Move) (float64, bool) {
	board := grid.Clone()
	steps, ok := Drop(board, piece, move)
	if !ok {
		return 0, false
	}
	if board.AnyColumnFull() {
		return lossScore, true
	}

	tallest := 0
	for col := 0; col < board.Cols(); col++ {
		tallest = max(tallest, board.ColumnHeight(col))
	}
	return g.ChainWeight*float64(steps) -
		g.HeightWeight*float64(tallest) -
		g.FillWeight*float64(board.Count()), true
}

// Drop applies move to piece on grid, locks it and resolves the cascade. It
// returns the number of cleared steps, or false when a wall or the stack
// blocks the path to the target column.
func Drop(grid *gem.Grid, piece gem.Piece, move Move) (int, bool) {
	for range move.Rotations {
		piece.RotateColors()
	}
	for piece.Col > move.Col {
		if !piece.MoveLeft(grid) {
			return 0, false
		}
	}
	for piece.Col < move.Col {
		if !piece.MoveRight(grid) {
			return 0, false
		}
	}
	for piece.MoveDown(grid) != gem.Landed {
	}
	return gem.ResolveAll(grid), true
}

// columnsByDistance lists every column ordered by distance from start, left
// before right, so ties keep the piece close to where it is.
func columnsByDistance(start, cols int) []int {
	order := []int{start}
	for dist := 1; len(order) < cols; dist++ {
		if start-dist >= 0 {
			order = append(order, start-dist)
		}
		if start+dist < cols {
			order = append(order, start+dist)
		}
	}
	return order
}
