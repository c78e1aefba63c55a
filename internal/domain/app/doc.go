// Package app manages the shell application lifecycle.
//
// Quit runs a small state machine:
//
//	Idle -> Confirming -> TearingDown
//
// Quit from Idle asks the content to close its window (file.close_window).
// The content may save and call Quit again, or decline, in which case
// teardown starts at once. AbortQuit returns a Confirming shell to Idle;
// once teardown has begun it has no effect.
//
// The manager also persists the zoom level, hands out files passed on the
// command line or dropped on the window, and reports user directories and
// the UI language.
package app
