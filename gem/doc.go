// Package gem implements the board simulation of a falling-gem match puzzle.
//
// Vertical triples of colored gems fall down a fixed grid. A triple can be
// shifted sideways, dropped faster, or have its color order rotated. When a
// triple lands it may complete straight runs of three or more equal gems in a
// row, a column, or either diagonal. Those cells are cleared, the remaining
// cells of every column compact downward, and the process repeats until the
// board is stable.
//
// The package owns no timers and performs no I/O. A single driver (see the
// driver package) calls Session.Tick, Session.FastTick and the move commands,
// and a renderer reads Session.Snapshot. Everything here is synchronous and
// must be used from one goroutine.
//
// The building blocks are usable on their own:
//
//	grid := gem.NewGrid(20, 8)
//	grid.Set(19, 3, gem.GemCell(gem.Red))
//	matches := gem.FindMatches(grid)
//	result, _ := gem.ResolveStep(grid)
package gem
