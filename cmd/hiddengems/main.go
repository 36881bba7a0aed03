// Command hiddengems is the desktop version of the game.
//
// Controls: arrows move and fast-drop, Space or Up rotates, Enter or P
// pauses, R restarts after game over, Esc quits.
package main

import (
	"flag"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"
	"github.com/plus3/hiddengems/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	ScreenWidth  = 800
	ScreenHeight = 600
	windowTitle  = "Hidden Gems"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults to $HIDDENGEMS_CONFIG)")
	debug := flag.Bool("debug", false, "show the ImGui inspector")
	seed := flag.Uint64("seed", 0, "piece color seed, 0 for random")
	flag.Parse()

	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	if !*debug {
		ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
		ebiten.SetWindowTitle(windowTitle)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	game, err := newGame(cfg, log.Logger, *debug)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start game")
	}

	log.Info().
		Int("rows", cfg.Board.Rows).
		Int("cols", cfg.Board.Cols).
		Uint64("seed", cfg.Seed).
		Bool("debug", *debug).
		Msg("starting hiddengems")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal().Err(err).Msg("game exited")
	}
	log.Info().Int("high_score", game.best()).Msg("bye")
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.FromEnv()
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
