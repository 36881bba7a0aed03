// Command hiddengems-term plays the game in a terminal.
//
// Controls: Left/Right move, Up or Space rotates, Down toggles fast drop,
// Enter or p pauses, r restarts after game over, Esc or q quits.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/plus3/hiddengems/config"
	"github.com/plus3/hiddengems/driver"
	"github.com/plus3/hiddengems/gem"
	"github.com/plus3/hiddengems/sound"
	"github.com/rs/zerolog"
)

const frameInterval = 16 * time.Millisecond

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run plays until the user quits and returns the exit code. Start-up errors
// go to both the log file and stderr.
func run(args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("hiddengems-term", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "YAML config file (defaults to $HIDDENGEMS_CONFIG)")
	logPath := flags.String("log", "hiddengems.log", "log file, the terminal is owned by the game")
	seed := flags.Uint64("seed", 0, "piece color seed, 0 for random")
	mute := flags.Bool("mute", false, "disable sound")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	_ = godotenv.Load()

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to open log: %v\n", err)
		return 1
	}
	defer logFile.Close()

	logger := zerolog.New(logFile).With().Timestamp().Logger()
	if lvl, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && lvl != zerolog.NoLevel {
		logger = logger.Level(lvl)
	} else {
		logger = logger.Level(zerolog.InfoLevel)
	}

	fail := func(msg string, err error) int {
		logger.Error().Err(err).Msg(msg)
		fmt.Fprintf(stderr, "%s: %v\n", msg, err)
		return 1
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return fail("Failed to load config", err)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	game, err := newGame(cfg, logger, !*mute)
	if err != nil {
		return fail("Failed to initialize", err)
	}
	defer game.cleanup()

	game.run()
	return 0
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.FromEnv()
}

// Game owns the terminal screen and drives a scheduler from a ticker.
type Game struct {
	screen tcell.Screen
	cfg    *config.Config
	sched  *driver.Scheduler
	flash  *flashTracker
	player *sound.Player
	logger zerolog.Logger

	ticks     int
	drop      fastDrop
	highScore int
}

func newGame(cfg *config.Config, logger zerolog.Logger, audio bool) (*Game, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.HideCursor()

	g := &Game{
		screen: screen,
		cfg:    cfg,
		flash:  &flashTracker{},
		player: sound.NewPlayer(),
		logger: logger,
	}
	g.sched = driver.NewDefault(nil, cfg.Timing, driver.WithLogger(logger))

	if audio {
		if err := g.player.Initialize(); err != nil {
			// The game runs without sound.
			logger.Warn().Err(err).Msg("audio initialization failed")
		}
	}

	if err := g.restart(); err != nil {
		screen.Fini()
		return nil, err
	}
	return g, nil
}

func (g *Game) restart() error {
	if s := g.sched.Session(); s != nil {
		g.highScore = max(g.highScore, s.Score())
	}

	observer := gem.MultiObserver(g.sched.FlashObserver(g.cfg.Timing.MatchFlash), g.flash, g.player)
	opts := append(g.cfg.SessionOptions(), gem.WithObserver(observer))
	session, err := gem.NewSession(g.cfg.Rules(), opts...)
	if err != nil {
		return err
	}

	g.flash.reset()
	g.drop.stop()
	g.sched.Reset(session)
	session.SpawnIfIdle()
	return nil
}

func (g *Game) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	lastTime := time.Now()
	for {
		select {
		case ev := <-eventChan:
			if !g.handleInput(ev) {
				return
			}

		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			g.ticks++

			g.sched.Once(dt)
			g.releaseFastFall()
			g.draw()
		}
	}
}

// releaseFastFall ends a fast drop once its piece has locked.
func (g *Game) releaseFastFall() {
	if g.drop.done(g.sched.Session()) {
		g.sched.Commands().StopFastFall()
		g.drop.stop()
	}
}

// fastDrop tracks a Down toggle. Terminals do not report key releases, so a
// drop lasts for one piece: the falling one, or the next to spawn when
// nothing is falling.
type fastDrop struct {
	piece int
}

func (d *fastDrop) active() bool { return d.piece != 0 }

func (d *fastDrop) start(s *gem.Session) {
	d.piece = s.Pieces()
	if s.State() != gem.Falling {
		d.piece++
	}
}

func (d *fastDrop) stop() { d.piece = 0 }

// done reports whether a piece after the dropped one has spawned.
func (d *fastDrop) done(s *gem.Session) bool {
	return d.active() && s.Pieces() > d.piece
}

func (g *Game) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}

		session := g.sched.Session()
		if session.IsOver() {
			if ev.Key() == tcell.KeyRune && ev.Rune() == 'r' {
				if err := g.restart(); err != nil {
					g.logger.Error().Err(err).Msg("restart")
					return false
				}
			}
			return true
		}

		cmds := g.sched.Commands()
		switch ev.Key() {
		case tcell.KeyLeft:
			cmds.MoveLeft()
		case tcell.KeyRight:
			cmds.MoveRight()
		case tcell.KeyUp:
			cmds.Rotate()
		case tcell.KeyDown:
			if !g.drop.active() {
				cmds.StartFastFall()
				g.drop.start(session)
			} else {
				cmds.StopFastFall()
				g.drop.stop()
			}
		case tcell.KeyEnter:
			cmds.TogglePause()
		case tcell.KeyRune:
			switch ev.Rune() {
			case ' ':
				cmds.Rotate()
			case 'p':
				cmds.TogglePause()
			}
		}

	case *tcell.EventResize:
		g.screen.Sync()
	}

	return true
}

func (g *Game) cleanup() {
	g.player.Close()
	g.screen.Fini()
	g.logger.Info().Int("high_score", max(g.highScore, g.sched.Session().Score())).Msg("bye")
}

// flashTracker remembers the cells cleared by the current cascade.
type flashTracker struct {
	gem.NopObserver
	cells []gem.Position
}

func (f *flashTracker) PieceLocked(gem.Piece) { f.cells = f.cells[:0] }

func (f *flashTracker) MatchesCleared(_ int, cells []gem.Position) {
	f.cells = append(f.cells, cells...)
}

func (f *flashTracker) reset() { f.cells = f.cells[:0] }
