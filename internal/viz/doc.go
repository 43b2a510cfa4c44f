// Package viz renders scan results for the terminal.
//
//   - [RenderSummary]: a boxed overview of a run, printed after a scan
//   - [EffectPlot]: an ASCII chart of one value per marker for a trait
//   - [Browser]: a Bubble Tea table for paging and sorting stored fits
//
// # Key Bindings
//
//	↑/k ↓/j   - Move selection
//	PgUp/PgDn - Move one page
//	g/G       - Jump to first/last fit
//	s         - Cycle sort order (marker, |slope|, R²)
//	t         - Cycle trait filter
//	f         - Hide or show failed fits
//	c         - Cycle color themes
//	q         - Quit
package viz
