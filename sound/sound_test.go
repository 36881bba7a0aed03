package sound_test

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/plus3/hiddengems/gem"
	"github.com/plus3/hiddengems/sound"
	"github.com/stretchr/testify/assert"
)

// drain streams s to the end and returns every sample.
func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestToneLengthAndRange(t *testing.T) {
	rate := beep.SampleRate(44100)
	tone := sound.NewTone(rate, 440, 100*time.Millisecond, 0.5)

	samples := drain(tone)

	assert.Equal(t, rate.N(100*time.Millisecond), len(samples))
	assert.Equal(t, tone.Len(), len(samples))
	for i, s := range samples {
		if s[0] < -0.5 || s[0] > 0.5 || s[0] != s[1] {
			t.Fatalf("sample %d out of range: %v", i, s)
		}
	}
	assert.Equal(t, 0.0, samples[0][0], "attack starts from silence")
	assert.NoError(t, tone.Err())

	n, ok := tone.Stream(make([][2]float64, 16))
	assert.Equal(t, 0, n)
	assert.False(t, ok, "a drained tone stays drained")
}

func TestArpeggioPlaysEveryNote(t *testing.T) {
	rate := beep.SampleRate(8000)
	samples := drain(sound.Arpeggio(rate, 50*time.Millisecond, 440, 550, 660))
	assert.Equal(t, 3*rate.N(50*time.Millisecond), len(samples))
}

func TestGameOverCueLength(t *testing.T) {
	rate := beep.SampleRate(8000)
	samples := drain(sound.GameOverCue(rate))
	assert.Equal(t, rate.N(600*time.Millisecond), len(samples))
}

func TestChimeFrequencyRisesAndCaps(t *testing.T) {
	assert.InDelta(t, 523.25, sound.ChimeFrequency(1), 1e-9)
	assert.InDelta(t, 523.25, sound.ChimeFrequency(0), 1e-9)
	assert.InDelta(t, 1046.5, sound.ChimeFrequency(4), 1e-6, "three major thirds make an octave")

	for step := 2; step <= 8; step++ {
		assert.Greater(t, sound.ChimeFrequency(step), sound.ChimeFrequency(step-1))
	}
	assert.Equal(t, sound.ChimeFrequency(8), sound.ChimeFrequency(20))
}

func TestPlayerWithoutSpeakerIgnoresEvents(t *testing.T) {
	player := sound.NewPlayer()

	assert.NotPanics(t, func() {
		player.PieceLocked(gem.Piece{})
		player.MatchesCleared(1, nil)
		player.LevelUp(1)
		player.GameOver(10)
		player.SetMuted(true)
		player.Close()
	})
}
