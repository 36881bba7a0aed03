package gem

import "math/rand/v2"

// State is the phase of a session.
type State uint8

const (
	// Idle means no piece is falling; the next Tick spawns one.
	Idle State = iota
	// Falling means a piece is under player control.
	Falling
	// Locking is the instant a piece has landed, before matching starts.
	Locking
	// Resolving covers the clear and collapse cascade after a lock.
	Resolving
	// GameOver is terminal. A new Session is needed to play again.
	GameOver
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Falling:
		return "falling"
	case Locking:
		return "locking"
	case Resolving:
		return "resolving"
	case GameOver:
		return "game-over"
	default:
		return "invalid"
	}
}

// Option configures a Session.
type Option func(*Session)

// WithSeed makes the color sequence of the session reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Session) {
		s.gen = NewSeededGenerator(seed)
	}
}

// WithGenerator takes piece colors from gen.
func WithGenerator(gen Generator) Option {
	return func(s *Session) {
		s.gen = gen
	}
}

// WithObserver registers o to receive session events.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		s.observer = o
	}
}

// Session runs one game: it owns the grid, the falling piece, the look-ahead
// piece, the score and the level. It is not safe for concurrent use.
type Session struct {
	rules    Rules
	grid     *Grid
	falling  *Piece
	next     [PieceSize]Color
	state    State
	score    int
	level    int
	pieces   int
	chains   int
	longest  int
	gen      Generator
	observer Observer
}

// NewSession creates a session in the Idle state with the first look-ahead
// piece already generated.
func NewSession(rules Rules, opts ...Option) (*Session, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		rules:    rules,
		grid:     NewGrid(rules.Rows, rules.Cols),
		state:    Idle,
		observer: NopObserver{},
	}
	s.grid.fullRun = rules.FullColumnRun

	for _, opt := range opts {
		opt(s)
	}
	if s.gen == nil {
		s.gen = NewRandomGenerator(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	}
	if seq, ok := s.gen.(*Sequence); ok && len(seq.Pieces) == 0 {
		return nil, ErrEmptySequence
	}

	s.next = s.gen.NextColors()
	return s, nil
}

func (s *Session) Rules() Rules { return s.rules }
func (s *Session) State() State { return s.state }
func (s *Session) Score() int   { return s.score }
func (s *Session) Level() int   { return s.level }

// Pieces returns how many pieces have been spawned.
func (s *Session) Pieces() int { return s.pieces }

// Chains returns the total number of cleared steps so far.
func (s *Session) Chains() int { return s.chains }

// LongestCascade returns the most cleared steps produced by a single lock.
func (s *Session) LongestCascade() int { return s.longest }

// IsOver reports whether the session reached GameOver.
func (s *Session) IsOver() bool { return s.state == GameOver }

// Next returns the colors of the piece that spawns next, top first.
func (s *Session) Next() [PieceSize]Color { return s.next }

// Falling returns a copy of the falling piece, if there is one.
func (s *Session) Falling() (Piece, bool) {
	if s.falling == nil {
		return Piece{}, false
	}
	return *s.falling, true
}

// SpawnIfIdle spawns the look-ahead piece when no piece is falling and
// reports whether it did.
func (s *Session) SpawnIfIdle() bool {
	if s.state != Idle {
		return false
	}
	s.spawn()
	return true
}

// Tick is the normal-speed driver step: it spawns a piece when idle and
// otherwise moves the falling piece down one row, locking and resolving it
// when it cannot move.
func (s *Session) Tick() {
	switch s.state {
	case Idle:
		s.spawn()
	case Falling:
		s.advance()
	}
}

// FastTick moves the falling piece down one row. It never spawns.
func (s *Session) FastTick() {
	if s.state == Falling {
		s.advance()
	}
}

// MoveLeft shifts the falling piece left. Blocked moves and moves without a
// falling piece are ignored. It reports whether the piece moved.
func (s *Session) MoveLeft() bool {
	if s.state != Falling {
		return false
	}
	return s.falling.MoveLeft(s.grid)
}

// MoveRight shifts the falling piece right. Blocked moves and moves without a
// falling piece are ignored. It reports whether the piece moved.
func (s *Session) MoveRight() bool {
	if s.state != Falling {
		return false
	}
	return s.falling.MoveRight(s.grid)
}

// Rotate cycles the colors of the falling piece and reports whether there
// was one.
func (s *Session) Rotate() bool {
	if s.state != Falling {
		return false
	}
	s.falling.RotateColors()
	return true
}

func (s *Session) spawn() {
	piece := Piece{Row: 0, Col: s.rules.SpawnColumn(), Colors: s.next}
	s.next = s.gen.NextColors()
	s.pieces++

	for _, pos := range piece.Cells() {
		if !s.grid.IsEmpty(pos.Row, pos.Col) {
			s.endGame()
			return
		}
	}

	s.falling = &piece
	s.state = Falling
	s.observer.PieceSpawned(piece)
}

func (s *Session) advance() {
	if s.falling.MoveDown(s.grid) == Landed {
		s.onLanded()
	}
}

// onLanded runs the whole cascade of a lock as one transaction: the next
// spawn cannot happen before the grid is stable again.
func (s *Session) onLanded() {
	piece := *s.falling
	s.falling = nil
	s.state = Locking
	s.observer.PieceLocked(piece)

	s.state = Resolving
	limit := s.grid.rows * s.grid.cols
	step := 0
	for step < limit {
		result, cleared := ResolveStep(s.grid)
		if result == Stable {
			break
		}
		step++
		s.chains++
		s.addPoint()
		s.observer.MatchesCleared(step, cleared.Positions())
		if s.grid.AnyColumnFull() {
			break
		}
	}
	if step > s.longest {
		s.longest = step
	}

	if s.grid.AnyColumnFull() {
		s.endGame()
		return
	}
	s.state = Idle
}

// addPoint scores one cleared step and raises the level every
// PointsPerLevel points until MaxLevel.
func (s *Session) addPoint() {
	s.score++
	if s.score/s.rules.PointsPerLevel > s.level && s.level < s.rules.MaxLevel {
		s.level++
		s.observer.LevelUp(s.level)
	}
}

func (s *Session) endGame() {
	s.falling = nil
	s.state = GameOver
	s.observer.GameOver(s.score)
}

// Snapshot is a read-only copy of everything a renderer needs.
type Snapshot struct {
	Grid    *Grid
	Falling *Piece
	Next    [PieceSize]Color
	State   State
	Score   int
	Level   int
	Pieces  int
	Chains  int
}

// Snapshot copies the current session state. Later session operations do
// not affect the returned value.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Grid:   s.grid.Clone(),
		Next:   s.next,
		State:  s.state,
		Score:  s.score,
		Level:  s.level,
		Pieces: s.pieces,
		Chains: s.chains,
	}
	if s.falling != nil {
		piece := *s.falling
		snap.Falling = &piece
	}
	return snap
}

// Composite returns the grid with the falling piece drawn into it.
func (snap Snapshot) Composite() *Grid {
	grid := snap.Grid.Clone()
	if snap.Falling != nil {
		snap.Falling.PlaceOnBoard(grid)
	}
	return grid
}
