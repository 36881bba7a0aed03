package sim

import (
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of one per-game measurement.
type Summary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Median float64
	P90    float64
	Max    float64
}

// Summarize computes a Summary of xs. The sample standard deviation of fewer
// than two values is zero.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	sorted := slices.Clone(xs)
	slices.Sort(sorted)

	sum := Summary{
		Mean:   stat.Mean(sorted, nil),
		Min:    sorted[0],
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:    stat.Quantile(0.9, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		sum.StdDev = stat.StdDev(sorted, nil)
	}
	return sum
}

// Report aggregates the games of one simulator run.
type Report struct {
	Policy  string
	Games   int
	Elapsed time.Duration
	Results []GameResult

	Score  Summary
	Pieces Summary
	Chains Summary

	// GamesOver counts games that ended in GameOver rather than at the piece
	// limit.
	GamesOver      int
	LongestCascade int
	MaxLevel       int
}

func NewReport(policy string, results []GameResult, elapsed time.Duration) *Report {
	r := &Report{
		Policy:  policy,
		Games:   len(results),
		Elapsed: elapsed,
		Results: results,
	}

	scores := make([]float64, len(results))
	pieces := make([]float64, len(results))
	chains := make([]float64, len(results))
	for i, res := range results {
		scores[i] = float64(res.Score)
		pieces[i] = float64(res.Pieces)
		chains[i] = float64(res.Chains)
		if res.Over {
			r.GamesOver++
		}
		r.LongestCascade = max(r.LongestCascade, res.LongestCascade)
		r.MaxLevel = max(r.MaxLevel, res.Level)
	}

	r.Score = Summarize(scores)
	r.Pieces = Summarize(pieces)
	r.Chains = Summarize(chains)
	return r
}

// PiecesPerSecond is the simulation throughput.
func (r *Report) PiecesPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	total := 0
	for _, res := range r.Results {
		total += res.Pieces
	}
	return float64(total) / r.Elapsed.Seconds()
}
