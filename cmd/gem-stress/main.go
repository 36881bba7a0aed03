// Command gem-stress plays many headless games with a bot policy and prints
// score statistics and simulator throughput.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/joho/godotenv"
	"github.com/plus3/hiddengems/config"
	"github.com/plus3/hiddengems/sim"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults to $HIDDENGEMS_CONFIG)")
	games := flag.Int("games", 1000, "The number of games to play.")
	workers := flag.Int("workers", runtime.NumCPU(), "The number of games played in parallel.")
	policyName := flag.String("policy", "greedy", "Bot policy: random or greedy.")
	maxPieces := flag.Int("pieces", 2000, "Stop each game after this many pieces, 0 for no limit.")
	seed := flag.Uint64("seed", 0, "Base seed, 0 for random.")
	timeout := flag.Duration("timeout", 0, "Abort the run after this long, 0 for no limit.")
	progress := flag.Bool("progress", true, "Show a progress bar.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
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
	if *seed == 0 {
		*seed = cfg.Seed
	}

	policy, err := sim.PolicyByName(*policyName)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid policy")
	}

	opts := []sim.Option{
		sim.WithGames(*games),
		sim.WithWorkers(*workers),
		sim.WithMaxPieces(*maxPieces),
		sim.WithSeed(*seed),
		sim.WithLogger(log.Logger),
	}
	if *progress {
		opts = append(opts, sim.WithProgress(os.Stderr))
	}
	simulator := sim.NewSimulator(cfg.Rules(), policy, opts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	report := &Report{
		Workers:        *workers,
		MaxPieces:      *maxPieces,
		Rows:           cfg.Board.Rows,
		Cols:           cfg.Board.Cols,
		GCPauseMetrics: *gcPauseMetrics,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	startTime := time.Now()
	result, err := simulator.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("simulation failed")
	}
	report.TotalTime = time.Since(startTime)
	report.Sim = result
	runtime.ReadMemStats(&report.MemStatsEnd)

	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("failed to generate report")
	}
	fmt.Println("--- End of Report ---")
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
