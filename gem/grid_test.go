package gem_test

import (
	"errors"
	"testing"

	"github.com/plus3/hiddengems/gem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridIsEmpty(t *testing.T) {
	grid := gem.NewGrid(gem.DefaultRows, gem.DefaultCols)

	assert.Equal(t, 20, grid.Rows())
	assert.Equal(t, 8, grid.Cols())
	assert.Equal(t, 0, grid.Count())

	for row := 0; row < grid.Rows(); row++ {
		for col := 0; col < grid.Cols(); col++ {
			assert.True(t, grid.IsEmpty(row, col))
		}
	}
}

func TestGridSetGet(t *testing.T) {
	grid := gem.NewGrid(5, 4)

	grid.Set(4, 3, gem.GemCell(gem.Yellow))
	assert.Equal(t, gem.GemCell(gem.Yellow), grid.Get(4, 3))
	assert.True(t, grid.IsOccupied(4, 3))
	assert.Equal(t, 1, grid.Count())

	grid.Set(4, 3, gem.EmptyCell)
	assert.False(t, grid.IsOccupied(4, 3))
}

func TestGridPendingCountsAsOccupied(t *testing.T) {
	grid := gem.MustParseGrid(`
		r.
		..
	`)

	assert.True(t, grid.Get(0, 0).IsPending())
	assert.True(t, grid.IsOccupied(0, 0))
	assert.False(t, grid.IsEmpty(0, 0))
}

func TestGridOutOfBounds(t *testing.T) {
	grid := gem.NewGrid(3, 3)

	coords := [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}, {10, 10}}
	for _, c := range coords {
		assert.False(t, grid.InBounds(c[0], c[1]))

		func() {
			defer func() {
				r := recover()
				require.NotNil(t, r, "expected panic for (%d,%d)", c[0], c[1])

				err, ok := r.(error)
				require.True(t, ok)
				assert.True(t, errors.Is(err, gem.ErrOutOfBounds))

				var oob *gem.OutOfBoundsError
				require.True(t, errors.As(err, &oob))
				assert.Equal(t, c[0], oob.Row)
				assert.Equal(t, c[1], oob.Col)
			}()
			grid.Get(c[0], c[1])
		}()
	}

	assert.Panics(t, func() { grid.Set(3, 3, gem.GemCell(gem.Red)) })
	assert.Panics(t, func() { grid.IsOccupied(-1, 2) })
}

func TestColumnHeightFull(t *testing.T) {
	fill := func(grid *gem.Grid, col, from, to int) {
		for row := from; row <= to; row++ {
			grid.Set(row, col, gem.GemCell(gem.Palette[row%len(gem.Palette)]))
		}
	}

	t.Run("uninterrupted run of 17", func(t *testing.T) {
		grid := gem.NewGrid(gem.DefaultRows, gem.DefaultCols)
		fill(grid, 2, 3, 19)
		assert.True(t, grid.ColumnHeightFull(2))
		assert.True(t, grid.AnyColumnFull())
		assert.False(t, grid.ColumnHeightFull(1))
	})

	t.Run("run of 16", func(t *testing.T) {
		grid := gem.NewGrid(gem.DefaultRows, gem.DefaultCols)
		fill(grid, 0, 4, 19)
		assert.False(t, grid.ColumnHeightFull(0))
		assert.False(t, grid.AnyColumnFull())
	})

	t.Run("19 gems split by one gap", func(t *testing.T) {
		grid := gem.NewGrid(gem.DefaultRows, gem.DefaultCols)
		fill(grid, 5, 0, 9)
		fill(grid, 5, 11, 19)
		assert.Equal(t, 19, grid.Count())
		assert.False(t, grid.ColumnHeightFull(5))
	})

	t.Run("run starting at the top", func(t *testing.T) {
		grid := gem.NewGrid(gem.DefaultRows, gem.DefaultCols)
		fill(grid, 7, 0, 16)
		assert.True(t, grid.ColumnHeightFull(7))
	})

	t.Run("pending cell breaks the run", func(t *testing.T) {
		grid := gem.NewGrid(gem.DefaultRows, gem.DefaultCols)
		fill(grid, 1, 2, 19)
		grid.Set(10, 1, gem.Cell{State: gem.PendingClear, Color: gem.Red})
		assert.False(t, grid.ColumnHeightFull(1))
	})
}

func TestParseGridRoundTrip(t *testing.T) {
	const layout = "R.G\n.bY\nPPP\n"

	grid, err := gem.ParseGrid(layout)
	require.NoError(t, err)

	assert.Equal(t, 3, grid.Rows())
	assert.Equal(t, 3, grid.Cols())
	assert.Equal(t, gem.GemCell(gem.Red), grid.Get(0, 0))
	assert.Equal(t, gem.Cell{State: gem.PendingClear, Color: gem.Blue}, grid.Get(1, 1))
	assert.Equal(t, layout, grid.String())
}

func TestParseGridErrors(t *testing.T) {
	tests := []struct {
		name   string
		layout string
	}{
		{"empty", "  \n "},
		{"ragged", "RR\nR"},
		{"unknown letter", "RX"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := gem.ParseGrid(tt.layout)
			assert.Error(t, err)
		})
	}
}

func TestGridCloneIsIndependent(t *testing.T) {
	grid := gem.MustParseGrid("R.\n.G")
	clone := grid.Clone()
	assert.True(t, grid.Equal(clone))

	clone.Set(0, 1, gem.GemCell(gem.Blue))
	assert.False(t, grid.Equal(clone))
	assert.True(t, grid.IsEmpty(0, 1))
}

func TestColumnHeight(t *testing.T) {
	grid := gem.MustParseGrid(`
		...
		.R.
		.G.
		YB.
	`)

	assert.Equal(t, 1, grid.ColumnHeight(0))
	assert.Equal(t, 3, grid.ColumnHeight(1))
	assert.Equal(t, 0, grid.ColumnHeight(2))
}
