package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/plus3/hiddengems/gem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunReportsConfigErrors(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "game.log")

	var stderr bytes.Buffer
	code := run([]string{"-config", filepath.Join(dir, "missing.yaml"), "-log", logPath}, &stderr)

	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "Failed to load config")
	assert.Contains(t, stderr.String(), "missing.yaml")

	logged, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(logged), `"message":"Failed to load config"`)
}

func TestRunRejectsUnknownFlags(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, 2, run([]string{"-bogus"}, &stderr))
	assert.Contains(t, stderr.String(), "bogus")
}

func TestFastDrop(t *testing.T) {
	newSession := func(t *testing.T) *gem.Session {
		gen := &gem.Sequence{Pieces: [][gem.PieceSize]gem.Color{{gem.Red, gem.Green, gem.Blue}}}
		s, err := gem.NewSession(gem.DefaultRules(), gem.WithGenerator(gen))
		require.NoError(t, err)
		return s
	}
	land := func(s *gem.Session) {
		for s.State() == gem.Falling {
			s.FastTick()
		}
	}

	t.Run("falling piece", func(t *testing.T) {
		s := newSession(t)
		require.True(t, s.SpawnIfIdle())

		var drop fastDrop
		drop.start(s)
		assert.True(t, drop.active())

		land(s)
		assert.False(t, drop.done(s), "still waiting for the next spawn")
		require.True(t, s.SpawnIfIdle())
		assert.True(t, drop.done(s))
	})

	t.Run("pressed between pieces", func(t *testing.T) {
		s := newSession(t)
		require.True(t, s.SpawnIfIdle())
		land(s)
		require.Equal(t, gem.Idle, s.State())

		var drop fastDrop
		drop.start(s)

		require.True(t, s.SpawnIfIdle())
		assert.False(t, drop.done(s), "the drop applies to the piece that just spawned")

		land(s)
		require.True(t, s.SpawnIfIdle())
		assert.True(t, drop.done(s))
	})

	t.Run("stopped", func(t *testing.T) {
		s := newSession(t)
		require.True(t, s.SpawnIfIdle())

		var drop fastDrop
		drop.start(s)
		drop.stop()
		land(s)
		require.True(t, s.SpawnIfIdle())
		assert.False(t, drop.active())
		assert.False(t, drop.done(s))
	})
}
