package gem

import (
	"errors"
	"math/rand/v2"
)

// ErrEmptySequence is returned by NewSession for a Sequence without pieces.
// Sequence.NextColors panics with it.
var ErrEmptySequence = errors.New("gem: empty sequence")

// Generator produces the colors of upcoming pieces, top first.
type Generator interface {
	NextColors() [PieceSize]Color
}

// RandomGenerator draws every gem independently and uniformly from the
// palette.
type RandomGenerator struct {
	rng *rand.Rand
}

// NewRandomGenerator returns a generator backed by rng.
func NewRandomGenerator(rng *rand.Rand) *RandomGenerator {
	return &RandomGenerator{rng: rng}
}

// NewSeededGenerator returns a reproducible generator.
func NewSeededGenerator(seed uint64) *RandomGenerator {
	return NewRandomGenerator(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

func (g *RandomGenerator) NextColors() [PieceSize]Color {
	var colors [PieceSize]Color
	for i := range colors {
		colors[i] = randomColor(g.rng)
	}
	return colors
}

// Sequence replays a fixed list of pieces, starting over at the end. It must
// hold at least one piece.
type Sequence struct {
	Pieces [][PieceSize]Color
	next   int
}

func (s *Sequence) NextColors() [PieceSize]Color {
	if len(s.Pieces) == 0 {
		panic(ErrEmptySequence)
	}
	colors := s.Pieces[s.next%len(s.Pieces)]
	s.next++
	return colors
}
