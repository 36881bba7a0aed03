// Package sim plays sessions without a front end. A Policy stands in for the
// player and a Simulator runs many seeded games on a pool of workers.
package sim

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/plus3/hiddengems/gem"
	"github.com/rs/zerolog"
)

// ErrNoGames is returned by Run when the simulator has nothing to play.
var ErrNoGames = errors.New("sim: no games to play")

// Play drives s with p until the game is over or maxPieces pieces have been
// spawned. A maxPieces of zero means no limit.
func Play(ctx context.Context, s *gem.Session, p Policy, maxPieces int) error {
	for !s.IsOver() {
		if maxPieces > 0 && s.Pieces() >= maxPieces {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		s.SpawnIfIdle()
		piece, ok := s.Falling()
		if !ok {
			continue
		}

		move := p.Choose(s.Snapshot().Grid, piece)
		for range move.Rotations {
			s.Rotate()
		}
		for piece.Col > move.Col && s.MoveLeft() {
			piece.Col--
		}
		for piece.Col < move.Col && s.MoveRight() {
			piece.Col++
		}
		for s.State() == gem.Falling {
			s.FastTick()
		}
	}
	return nil
}

// GameResult is the outcome of one simulated game.
type GameResult struct {
	Seed           uint64
	Score          int
	Level          int
	Pieces         int
	Chains         int
	LongestCascade int
	Over           bool
}

type Option func(*Simulator)

// WithGames sets how many games Run plays.
func WithGames(n int) Option {
	return func(s *Simulator) { s.games = n }
}

// WithWorkers sets the number of goroutines playing games.
func WithWorkers(n int) Option {
	return func(s *Simulator) { s.workers = n }
}

// WithMaxPieces stops each game after n spawned pieces.
func WithMaxPieces(n int) Option {
	return func(s *Simulator) { s.maxPieces = n }
}

// WithSeed makes Run reproducible. Game i uses seed+i.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) { s.seed = seed }
}

// WithProgress draws a progress bar on w.
func WithProgress(w io.Writer) Option {
	return func(s *Simulator) { s.progress = w }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Simulator) { s.logger = logger }
}

// Simulator plays independent games with one policy and collects their
// results.
type Simulator struct {
	rules     gem.Rules
	policy    PolicyFactory
	games     int
	workers   int
	maxPieces int
	seed      uint64
	progress  io.Writer
	logger    zerolog.Logger
}

func NewSimulator(rules gem.Rules, policy PolicyFactory, opts ...Option) *Simulator {
	s := &Simulator{
		rules:   rules,
		policy:  policy,
		games:   100,
		workers: 1,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seed == 0 {
		s.seed = rand.Uint64()
	}
	return s
}

// Run plays every game and summarizes them. Results are ordered by game
// index whatever the number of workers.
func (s *Simulator) Run(ctx context.Context) (*Report, error) {
	if s.games < 1 {
		return nil, ErrNoGames
	}
	if err := s.rules.Validate(); err != nil {
		return nil, err
	}
	workers := min(max(s.workers, 1), s.games)

	policyName := s.policy(s.seed).Name()
	s.logger.Info().
		Str("policy", policyName).
		Int("games", s.games).
		Int("workers", workers).
		Uint64("seed", s.seed).
		Msg("simulation started")

	results := make([]GameResult, s.games)
	errs := make([]error, workers)
	jobs := make(chan int, workers)

	bar := pb.New(s.games)
	if s.progress == nil {
		bar.SetWriter(io.Discard)
	} else {
		bar.SetWriter(s.progress)
	}
	bar.Start()

	wg := new(sync.WaitGroup)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer wg.Done()
			for i := range jobs {
				result, err := s.playOne(ctx, s.seed+uint64(i))
				if err != nil {
					errs[w] = err
					continue
				}
				results[i] = result
				bar.Increment()
			}
		}(w)
	}

Feed:
	for i := 0; i < s.games; i++ {
		select {
		case <-ctx.Done():
			break Feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	used := time.Since(bar.StartTime())
	bar.Finish()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	report := NewReport(policyName, results, used)
	s.logger.Info().
		Float64("mean_score", report.Score.Mean).
		Int("best_score", int(report.Score.Max)).
		Dur("elapsed", used).
		Msg("simulation finished")
	return report, nil
}

func (s *Simulator) playOne(ctx context.Context, seed uint64) (GameResult, error) {
	session, err := gem.NewSession(s.rules, gem.WithSeed(seed))
	if err != nil {
		return GameResult{}, err
	}
	if err := Play(ctx, session, s.policy(seed), s.maxPieces); err != nil {
		return GameResult{}, err
	}

	s.logger.Debug().Uint64("seed", seed).Int("score", session.Score()).Msg("game finished")
	return GameResult{
		Seed:           seed,
		Score:          session.Score(),
		Level:          session.Level(),
		Pieces:         session.Pieces(),
		Chains:         session.Chains(),
		LongestCascade: session.LongestCascade(),
		Over:           session.IsOver(),
	}, nil
}
