package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/hiddengems/config"
	"github.com/plus3/hiddengems/debugui"
	debugui_ebiten "github.com/plus3/hiddengems/debugui/ebiten"
	"github.com/plus3/hiddengems/driver"
	"github.com/plus3/hiddengems/gem"
	"github.com/rs/zerolog"
)

// Game implements ebiten.Game on top of a driver.Scheduler.
type Game struct {
	cfg    *config.Config
	sched  *driver.Scheduler
	flash  *flashTracker
	logger zerolog.Logger

	// Set only with -debug.
	backend *debugui_ebiten.ImguiBackend
	overlay *debugui.ImguiSystem
	events  *debugui.EventLog

	ticks     int
	highScore int
}

func newGame(cfg *config.Config, logger zerolog.Logger, debug bool) (*Game, error) {
	g := &Game{
		cfg:    cfg,
		logger: logger,
		flash:  &flashTracker{},
	}
	g.sched = driver.NewDefault(nil, cfg.Timing, driver.WithLogger(logger))

	if debug {
		g.backend = debugui_ebiten.NewImguiBackend(windowTitle, ScreenWidth, ScreenHeight)
		g.overlay, g.events = debugui.Install(g.sched)
	}

	if err := g.restart(); err != nil {
		return nil, err
	}
	return g, nil
}

// best is the highest score of this run, including the current session.
func (g *Game) best() int {
	if s := g.sched.Session(); s != nil {
		return max(g.highScore, s.Score())
	}
	return g.highScore
}

// restart starts a new session on the same scheduler.
func (g *Game) restart() error {
	g.highScore = g.best()

	observers := []gem.Observer{
		g.sched.FlashObserver(g.cfg.Timing.MatchFlash),
		g.flash,
	}
	if g.events != nil {
		g.events.Clear()
		observers = append(observers, g.events)
	}

	opts := append(g.cfg.SessionOptions(), gem.WithObserver(gem.MultiObserver(observers...)))
	session, err := gem.NewSession(g.cfg.Rules(), opts...)
	if err != nil {
		return err
	}

	g.flash.reset()
	g.sched.Reset(session)
	session.SpawnIfIdle()
	g.logger.Debug().Int("best", g.highScore).Msg("new game")
	return nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if g.backend == nil {
		return g.update()
	}

	var err error
	g.backend.Frame(func() {
		err = g.update()
	})
	return err
}

func (g *Game) update() error {
	g.ticks++

	if g.overlay == nil || !g.overlay.WantCaptureKeyboard {
		if err := g.handleInput(); err != nil {
			return err
		}
	}

	g.sched.Once(1.0 / float64(ebiten.TPS()))
	return nil
}

func (g *Game) handleInput() error {
	if g.sched.Session().IsOver() {
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			return g.restart()
		}
		return nil
	}

	cmds := g.sched.Commands()

	leftPressed := inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft)
	rightPressed := inpututil.IsKeyJustPressed(ebiten.KeyArrowRight)
	if leftPressed {
		cmds.MoveLeft()
	}
	if rightPressed {
		cmds.MoveRight()
	}

	switch {
	case leftPressed:
		cmds.HoldShift(driver.ShiftLeft)
	case rightPressed:
		cmds.HoldShift(driver.ShiftRight)
	case inpututil.IsKeyJustReleased(ebiten.KeyArrowLeft), inpututil.IsKeyJustReleased(ebiten.KeyArrowRight):
		cmds.HoldShift(heldDirection())
	}

	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyArrowUp) {
		cmds.Rotate()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyArrowDown) {
		cmds.StartFastFall()
	}
	if inpututil.IsKeyJustReleased(ebiten.KeyArrowDown) {
		cmds.StopFastFall()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyP) {
		cmds.TogglePause()
	}
	return nil
}

// heldDirection reports which lateral key is still down after a release.
func heldDirection() driver.Direction {
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowLeft):
		return driver.ShiftLeft
	case ebiten.IsKeyPressed(ebiten.KeyArrowRight):
		return driver.ShiftRight
	default:
		return driver.NoShift
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.draw(screen)

	if g.backend != nil {
		g.backend.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.backend != nil {
		g.backend.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// flashTracker remembers the cells cleared by the current cascade so they
// can be drawn flashing while the scheduler holds the fall.
type flashTracker struct {
	gem.NopObserver
	cells []gem.Position
}

func (f *flashTracker) PieceLocked(gem.Piece) { f.cells = f.cells[:0] }

func (f *flashTracker) MatchesCleared(_ int, cells []gem.Position) {
	f.cells = append(f.cells, cells...)
}

func (f *flashTracker) reset() { f.cells = f.cells[:0] }
