// Package viz draws a running integration in the terminal.
//
// [Model] is a Bubble Tea program that advances a stepper with
// driver.AdvanceUntil once per frame and renders the state on a braille
// [Canvas], next to an energy plot.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to the initial state
//	+/-   - Double/halve simulated time per frame
//	Q     - Quit
package viz
