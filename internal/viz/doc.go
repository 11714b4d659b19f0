// Package viz draws scenes in the terminal.
//
// [Canvas] is a braille dot grid, and [Renderer] projects a scene onto it
// with world y pointing up. [Model] is a Bubble Tea program that steps a
// scene in real time, and [Picker] is a menu in front of it.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	S     - Single step while paused
//	R     - Rebuild the scene and its hooks
//	T     - Cycle color themes
//	?     - Show help overlay
//	[]    - Time travel (rewind/forward)
//
// Static objects that are touched are drawn filled; rigidbodies get a
// cross through their diagonals.
package viz
