package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/hiddengems/sim"
)

type Report struct {
	// Configuration
	Workers   int
	MaxPieces int
	Rows      int
	Cols      int

	// Results
	Sim            *sim.Report
	TotalTime      time.Duration
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Hidden Gems Stress Report

## Configuration
- **Policy:** {{.Sim.Policy}}
- **Games:** {{.Sim.Games}}
- **Workers:** {{.Workers}}
- **Board:** {{.Rows}}x{{.Cols}}
- **Piece Limit:** {{if .MaxPieces}}{{.MaxPieces}}{{else}}none{{end}}

## Results
- **Games Over:** {{.Sim.GamesOver}} of {{.Sim.Games}}
- **Longest Cascade:** {{.Sim.LongestCascade}}
- **Highest Level:** {{.Sim.MaxLevel}}

| Measure | Mean | StdDev | Min | Median | P90 | Max |
|---|---|---|---|---|---|---|
{{template "row" row "Score" .Sim.Score}}
{{template "row" row "Pieces" .Sim.Pieces}}
{{template "row" row "Chains" .Sim.Chains}}

## Performance
- **Total Test Time:** {{.TotalTime}}
- **Simulation Time:** {{.Sim.Elapsed}}
- **Pieces/sec:** {{printf "%.0f" .Sim.PiecesPerSecond}}

## Memory Usage
- Heap Alloc:     {{mb .MemStatsStart.HeapAlloc}} MB (start) -> {{mb .MemStatsEnd.HeapAlloc}} MB (end)
- Total Alloc:    {{mb .MemStatsStart.TotalAlloc}} MB (start) -> {{mb .MemStatsEnd.TotalAlloc}} MB (end)
- Num GC:         {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
{{end}}`

	const rowTemplate = `{{define "row"}}| {{.Name}} | {{f .Sum.Mean}} | {{f .Sum.StdDev}} | {{f .Sum.Min}} | {{f .Sum.Median}} | {{f .Sum.P90}} | {{f .Sum.Max}} |{{end}}`

	type row struct {
		Name string
		Sum  sim.Summary
	}

	fm := template.FuncMap{
		"mb": func(v uint64) string {
			return fmt.Sprintf("%.2f", float64(v)/1024/1024)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
		"f": func(v float64) string {
			return fmt.Sprintf("%.1f", v)
		},
		"row": func(name string, sum sim.Summary) row {
			return row{Name: name, Sum: sum}
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate + rowTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
