// Package sound plays short synthesized cues for session events: a chime
// per cleared cascade step that rises with the step, an arpeggio on level
// up and a falling tone on game over.
package sound

import (
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/plus3/hiddengems/gem"
)

const SampleRate = beep.SampleRate(44100)

const (
	baseFrequency = 523.25 // C5
	maxChimeSteps = 8
)

// ChimeFrequency is the pitch of the chime for a cascade step. Each step is
// a major third above the previous one, up to maxChimeSteps.
func ChimeFrequency(step int) float64 {
	step = min(max(step, 1), maxChimeSteps)
	return baseFrequency * math.Pow(2, float64(step-1)*4/12)
}

// Player is a gem.Observer that turns session events into sounds. Until
// Initialize succeeds every event is ignored, so a game can run without an
// audio device.
type Player struct {
	gem.NopObserver

	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
	muted       bool
}

func NewPlayer() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker and starts the mixer.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close silences the mixer and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}

// SetMuted drops every later event while muted is true.
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	p.muted = muted
	p.mu.Unlock()
}

func (p *Player) play(s beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || p.muted {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

func (p *Player) PieceLocked(gem.Piece) {
	p.play(NewTone(SampleRate, 196, 30*time.Millisecond, 0.15))
}

func (p *Player) MatchesCleared(step int, _ []gem.Position) {
	p.play(NewTone(SampleRate, ChimeFrequency(step), 140*time.Millisecond, 0.3))
}

func (p *Player) LevelUp(int) {
	p.play(Arpeggio(SampleRate, 90*time.Millisecond, baseFrequency, baseFrequency*1.26, baseFrequency*1.5, baseFrequency*2))
}

func (p *Player) GameOver(int) {
	p.play(GameOverCue(SampleRate))
}

// Arpeggio plays each frequency in turn for d.
func Arpeggio(sr beep.SampleRate, d time.Duration, freqs ...float64) beep.Streamer {
	notes := make([]beep.Streamer, len(freqs))
	for i, f := range freqs {
		notes[i] = NewTone(sr, f, d, 0.25)
	}
	return beep.Seq(notes...)
}

// GameOverCue is three falling notes over a low drone.
func GameOverCue(sr beep.SampleRate) beep.Streamer {
	falling := Arpeggio(sr, 200*time.Millisecond, 392, 311.13, 261.63)

	drone, err := generators.SineTone(sr, 65.41)
	if err != nil {
		return falling
	}
	quiet := &effects.Gain{Streamer: beep.Take(sr.N(600*time.Millisecond), drone), Gain: -0.9}

	mix := &beep.Mixer{}
	mix.Add(falling, quiet)
	return beep.Take(sr.N(600*time.Millisecond), mix)
}

// Tone is a sine note with a short linear attack and a linear release to
// silence at its end.
type Tone struct {
	sr     beep.SampleRate
	freq   float64
	amp    float64
	pos    int
	total  int
	attack int
}

func NewTone(sr beep.SampleRate, freq float64, d time.Duration, amp float64) *Tone {
	return &Tone{
		sr:     sr,
		freq:   freq,
		amp:    amp,
		total:  sr.N(d),
		attack: sr.N(5 * time.Millisecond),
	}
}

// Len is the number of samples the tone streams.
func (t *Tone) Len() int { return t.total }

func (t *Tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.pos >= t.total {
			return n, n > 0
		}

		env := 1.0
		if t.attack > 0 && t.pos < t.attack {
			env = float64(t.pos) / float64(t.attack)
		}
		env *= 1 - float64(t.pos)/float64(t.total)

		x := float64(t.pos) / float64(t.sr)
		sample := t.amp * env * math.Sin(2*math.Pi*t.freq*x)
		samples[i][0] = sample
		samples[i][1] = sample
		t.pos++
		n++
	}
	return n, true
}

func (t *Tone) Err() error { return nil }
