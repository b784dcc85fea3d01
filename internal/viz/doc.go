// Package viz provides the terminal live view for n-body scenarios.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: real-time view of one universe, stepped by a [sim.Clock]
//   - [RunInteractive]: scenario menu that launches the live view
//   - [Canvas]: Braille-based pixel canvas with per-cell colour
//   - [Camera]: rotating perspective projection
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	[ ]   - Halve/double simulation speed
//	+ -   - Zoom
//	x y z - Rotate (shift reverses)
//	0     - Reset camera
//	C     - Toggle trails
//	Q     - Quit
package viz
