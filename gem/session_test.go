package gem_test

import (
	"errors"
	"testing"

	"github.com/plus3/hiddengems/gem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	gem.NopObserver
	spawned  []gem.Piece
	locked   []gem.Piece
	cleared  [][]gem.Position
	steps    []int
	levels   []int
	gameOver []int
}

func (o *recordingObserver) PieceSpawned(p gem.Piece) { o.spawned = append(o.spawned, p) }
func (o *recordingObserver) PieceLocked(p gem.Piece)  { o.locked = append(o.locked, p) }
func (o *recordingObserver) LevelUp(level int)        { o.levels = append(o.levels, level) }
func (o *recordingObserver) GameOver(score int)       { o.gameOver = append(o.gameOver, score) }

func (o *recordingObserver) MatchesCleared(step int, cells []gem.Position) {
	o.steps = append(o.steps, step)
	o.cleared = append(o.cleared, cells)
}

func triple(a, b, c gem.Color) [gem.PieceSize]gem.Color {
	return [gem.PieceSize]gem.Color{a, b, c}
}

func newTestSession(t *testing.T, rules gem.Rules, pieces ...[gem.PieceSize]gem.Color) (*gem.Session, *recordingObserver) {
	t.Helper()
	observer := &recordingObserver{}
	session, err := gem.NewSession(rules,
		gem.WithGenerator(&gem.Sequence{Pieces: pieces}),
		gem.WithObserver(observer),
	)
	require.NoError(t, err)
	return session, observer
}

// dropFalling fast-ticks until the falling piece has locked.
func dropFalling(t *testing.T, s *gem.Session) {
	t.Helper()
	for i := 0; s.State() == gem.Falling; i++ {
		require.Less(t, i, s.Rules().Rows, "piece never locked")
		s.FastTick()
	}
}

func TestNewSessionRejectsInvalidRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*gem.Rules)
	}{
		{"too few rows", func(r *gem.Rules) { r.Rows = 2; r.FullColumnRun = 2 }},
		{"no columns", func(r *gem.Rules) { r.Cols = 0 }},
		{"run longer than board", func(r *gem.Rules) { r.FullColumnRun = 21 }},
		{"zero points per level", func(r *gem.Rules) { r.PointsPerLevel = 0 }},
		{"negative max level", func(r *gem.Rules) { r.MaxLevel = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := gem.DefaultRules()
			tt.mutate(&rules)

			_, err := gem.NewSession(rules)
			assert.True(t, errors.Is(err, gem.ErrInvalidRules), "got %v", err)
		})
	}
}

func TestNewSessionRejectsEmptySequence(t *testing.T) {
	var err error
	require.NotPanics(t, func() {
		_, err = gem.NewSession(gem.DefaultRules(), gem.WithGenerator(&gem.Sequence{}))
	})
	assert.ErrorIs(t, err, gem.ErrEmptySequence)

	assert.PanicsWithValue(t, gem.ErrEmptySequence, func() {
		(&gem.Sequence{}).NextColors()
	})
}

func TestSessionStartsIdleWithLookAhead(t *testing.T) {
	s, _ := newTestSession(t, gem.DefaultRules(), triple(gem.Red, gem.Green, gem.Blue), triple(gem.Yellow, gem.Yellow, gem.Purple))

	assert.Equal(t, gem.Idle, s.State())
	assert.Equal(t, triple(gem.Red, gem.Green, gem.Blue), s.Next())
	_, falling := s.Falling()
	assert.False(t, falling)

	assert.False(t, s.MoveLeft())
	assert.False(t, s.MoveRight())
	assert.False(t, s.Rotate())
	s.FastTick()
	assert.Equal(t, gem.Idle, s.State(), "fast tick never spawns")
}

func TestSessionSpawn(t *testing.T) {
	s, observer := newTestSession(t, gem.DefaultRules(), triple(gem.Red, gem.Green, gem.Blue), triple(gem.Yellow, gem.Yellow, gem.Purple))

	assert.True(t, s.SpawnIfIdle())
	assert.False(t, s.SpawnIfIdle())

	piece, ok := s.Falling()
	require.True(t, ok)
	assert.Equal(t, 0, piece.Row)
	assert.Equal(t, 4, piece.Col)
	assert.Equal(t, triple(gem.Red, gem.Green, gem.Blue), piece.Colors)
	assert.Equal(t, triple(gem.Yellow, gem.Yellow, gem.Purple), s.Next())
	assert.Equal(t, gem.Falling, s.State())
	assert.Equal(t, 1, s.Pieces())
	assert.Len(t, observer.spawned, 1)
}

func TestSessionTickDrivesPieceToLock(t *testing.T) {
	s, observer := newTestSession(t, gem.DefaultRules(), triple(gem.Red, gem.Red, gem.Green), triple(gem.Blue, gem.Yellow, gem.Purple))

	s.Tick()
	require.Equal(t, gem.Falling, s.State())

	ticks := 0
	for s.State() == gem.Falling {
		s.Tick()
		ticks++
	}

	assert.Equal(t, 18, ticks, "17 advances and one lock")
	assert.Equal(t, gem.Idle, s.State())
	require.Len(t, observer.locked, 1)
	assert.Equal(t, 17, observer.locked[0].Row)

	snap := s.Snapshot()
	assert.Equal(t, gem.GemCell(gem.Red), snap.Grid.Get(17, 4))
	assert.Equal(t, gem.GemCell(gem.Red), snap.Grid.Get(18, 4))
	assert.Equal(t, gem.GemCell(gem.Green), snap.Grid.Get(19, 4))

	s.Tick()
	assert.Equal(t, gem.Falling, s.State(), "the tick after a lock spawns")
	assert.Equal(t, 2, s.Pieces())
}

func TestSessionBottomRowMatch(t *testing.T) {
	s, observer := newTestSession(t, gem.DefaultRules(),
		triple(gem.Red, gem.Red, gem.Green),
		triple(gem.Blue, gem.Yellow, gem.Red),
		triple(gem.Yellow, gem.Blue, gem.Red),
		triple(gem.Purple, gem.Purple, gem.Green),
	)

	// First piece: rotate twice so red sits at the bottom, then drop it.
	s.Tick()
	require.True(t, s.Rotate())
	require.True(t, s.Rotate())
	dropFalling(t, s)

	s.Tick()
	require.True(t, s.MoveLeft())
	dropFalling(t, s)
	assert.Equal(t, 0, s.Score())

	s.Tick()
	require.True(t, s.MoveRight())
	dropFalling(t, s)

	assert.Equal(t, 1, s.Score())
	assert.Equal(t, gem.Idle, s.State())
	require.Len(t, observer.cleared, 1)
	assert.Equal(t, positions([2]int{19, 3}, [2]int{19, 4}, [2]int{19, 5}), observer.cleared[0])

	grid := s.Snapshot().Grid
	assert.Equal(t, "...BGY..\n...YRB..\n", grid.String()[18*9:])
	assert.Equal(t, 6, grid.Count())
}

func TestSessionScoresOncePerStep(t *testing.T) {
	rules := gem.Rules{Rows: 6, Cols: 1, FullColumnRun: 6, PointsPerLevel: 1, MaxLevel: 1}
	s, observer := newTestSession(t, rules, triple(gem.Red, gem.Red, gem.Red))

	s.Tick()
	dropFalling(t, s)

	assert.Equal(t, 1, s.Score(), "three cleared cells score one point")
	assert.Equal(t, 1, s.Level())
	assert.Equal(t, []int{1}, observer.levels)
	assert.Equal(t, 0, s.Snapshot().Grid.Count())

	s.Tick()
	dropFalling(t, s)

	assert.Equal(t, 2, s.Score())
	assert.Equal(t, 1, s.Level(), "level is capped")
	assert.Equal(t, []int{1}, observer.levels)
}

func TestSessionLevelProgression(t *testing.T) {
	rules := gem.Rules{Rows: 6, Cols: 1, FullColumnRun: 6, PointsPerLevel: 2, MaxLevel: 5}
	s, observer := newTestSession(t, rules, triple(gem.Blue, gem.Blue, gem.Blue))

	for i := 0; i < 7; i++ {
		s.Tick()
		dropFalling(t, s)
	}

	assert.Equal(t, 7, s.Score())
	assert.Equal(t, 3, s.Level())
	assert.Equal(t, []int{1, 2, 3}, observer.levels)
}

func TestSessionCascadeScoresEachStep(t *testing.T) {
	rules := gem.Rules{Rows: 7, Cols: 3, FullColumnRun: 7, PointsPerLevel: 20, MaxLevel: 5}
	s, observer := newTestSession(t, rules,
		triple(gem.Green, gem.Red, gem.Red),
		triple(gem.Yellow, gem.Blue, gem.Red),
		triple(gem.Green, gem.Blue, gem.Purple),
		triple(gem.Green, gem.Purple, gem.Yellow),
	)

	s.Tick()
	require.True(t, s.MoveLeft())
	dropFalling(t, s)

	s.Tick()
	require.True(t, s.MoveLeft())
	dropFalling(t, s)

	s.Tick()
	require.True(t, s.MoveRight())
	dropFalling(t, s)

	require.Equal(t, 0, s.Score())
	require.Equal(t, "...\nY..\nB..\nR..\nG.G\nR.B\nR.P\n", s.Snapshot().Grid.String())

	// Landing in the middle completes the green row. The red above it then
	// falls onto the two reds below and clears as a column.
	s.Tick()
	dropFalling(t, s)

	assert.Equal(t, 2, s.Score())
	assert.Equal(t, 2, s.Chains())
	assert.Equal(t, 2, s.LongestCascade())
	assert.Equal(t, []int{1, 2}, observer.steps)
	assert.Equal(t, positions([2]int{4, 0}, [2]int{4, 1}, [2]int{4, 2}), observer.cleared[0])
	assert.Equal(t, positions([2]int{4, 0}, [2]int{5, 0}, [2]int{6, 0}), observer.cleared[1])
	assert.Equal(t, "...\n...\n...\n...\n...\nYPB\nBYP\n", s.Snapshot().Grid.String())
	assert.Equal(t, gem.Idle, s.State())
}

func TestSessionGameOverOnFullColumn(t *testing.T) {
	rules := gem.Rules{Rows: 6, Cols: 1, FullColumnRun: 5, PointsPerLevel: 20, MaxLevel: 5}
	s, observer := newTestSession(t, rules,
		triple(gem.Red, gem.Green, gem.Blue),
		triple(gem.Yellow, gem.Purple, gem.Red),
	)

	s.Tick()
	dropFalling(t, s)
	assert.Equal(t, gem.Idle, s.State())

	s.Tick()
	dropFalling(t, s)

	assert.Equal(t, gem.GameOver, s.State())
	assert.True(t, s.IsOver())
	assert.Equal(t, []int{0}, observer.gameOver)

	s.Tick()
	s.FastTick()
	assert.False(t, s.SpawnIfIdle())
	assert.Equal(t, gem.GameOver, s.State(), "game over is terminal")
	assert.Equal(t, 2, s.Pieces())
}

func TestSessionGameOverDuringCascade(t *testing.T) {
	rules := gem.Rules{Rows: 10, Cols: 5, FullColumnRun: 7, PointsPerLevel: 20, MaxLevel: 5}
	s, observer := newTestSession(t, rules,
		triple(gem.Green, gem.Blue, gem.Red),
		triple(gem.Yellow, gem.Purple, gem.Blue),
		triple(gem.Purple, gem.Yellow, gem.Red),
		triple(gem.Yellow, gem.Green, gem.Red),
		triple(gem.Purple, gem.Green, gem.Yellow),
		triple(gem.Red, gem.Blue, gem.Purple),
		triple(gem.Red, gem.Red, gem.Green),
		triple(gem.Red, gem.Red, gem.Green),
		triple(gem.Blue, gem.Green, gem.Red),
	)

	place := func(col int) {
		t.Helper()
		s.Tick()
		require.Equal(t, gem.Falling, s.State())
		for piece, _ := s.Falling(); piece.Col > col; piece.Col-- {
			require.True(t, s.MoveLeft())
		}
		for piece, _ := s.Falling(); piece.Col < col; piece.Col++ {
			require.True(t, s.MoveRight())
		}
		dropFalling(t, s)
		require.Equal(t, gem.Idle, s.State())
	}

	// The bottom row clears once, leaving the spawn column a gem shorter
	// than its neighbors to the right.
	for _, col := range []int{2, 2, 0, 1, 4, 4, 3, 3} {
		place(col)
	}
	require.Equal(t, 1, s.Score())
	require.Equal(t, ".....\n.....\n.....\n.....\n...RR\n..YRB\n..PGP\n..BRP\nPYGRG\nYGBGY\n", s.Snapshot().Grid.String())

	// The last piece completes the red row at its bottom. After the clear the
	// spawn column still holds an uninterrupted run of seven.
	s.Tick()
	dropFalling(t, s)

	assert.Equal(t, gem.GameOver, s.State())
	assert.Equal(t, 2, s.Score())
	assert.Equal(t, []int{1, 1}, observer.steps)
	assert.ElementsMatch(t, positions([2]int{4, 2}, [2]int{4, 3}, [2]int{4, 4}), observer.cleared[1])
	assert.Equal(t, []int{2}, observer.gameOver)
	assert.True(t, s.Snapshot().Grid.ColumnHeightFull(2))

	before := s.Snapshot()
	s.Tick()
	s.FastTick()
	assert.False(t, s.SpawnIfIdle())
	after := s.Snapshot()
	assert.Equal(t, gem.GameOver, after.State)
	assert.Equal(t, before.Pieces, after.Pieces)
	assert.Equal(t, before.Score, after.Score)
	assert.True(t, before.Grid.Equal(after.Grid))
	assert.Len(t, observer.spawned, 9)
}

func TestSessionGameOverOnBlockedSpawn(t *testing.T) {
	rules := gem.Rules{Rows: 4, Cols: 1, FullColumnRun: 4, PointsPerLevel: 20, MaxLevel: 5}
	s, observer := newTestSession(t, rules,
		triple(gem.Red, gem.Green, gem.Blue),
		triple(gem.Yellow, gem.Purple, gem.Red),
	)

	s.Tick()
	dropFalling(t, s)
	require.Equal(t, gem.Idle, s.State())

	s.Tick()
	assert.Equal(t, gem.GameOver, s.State())
	assert.Len(t, observer.gameOver, 1)
	assert.Equal(t, 3, s.Snapshot().Grid.Count(), "the blocked piece is not placed")
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _ := newTestSession(t, gem.DefaultRules(), triple(gem.Red, gem.Green, gem.Blue))
	s.Tick()

	snap := s.Snapshot()
	require.NotNil(t, snap.Falling)
	s.FastTick()
	s.MoveLeft()

	assert.Equal(t, 0, snap.Falling.Row)
	assert.Equal(t, 4, snap.Falling.Col)

	composite := snap.Composite()
	assert.Equal(t, gem.GemCell(gem.Red), composite.Get(0, 4))
	assert.Equal(t, gem.GemCell(gem.Blue), composite.Get(2, 4))
	assert.Equal(t, 0, snap.Grid.Count())
}
