// Package game runs the expert-versus-player scan game.
//
// An [Engine] owns the immutable model and control law for one grid size.
// Game progress lives in a [State] value; [Engine.Apply] validates the
// player's island and, only then, advances the expert and player
// trajectories together and returns the next State:
//
//	eng, _ := game.NewEngine(3)
//	s := eng.Initial()
//	s, res, err := eng.Apply(s, 1)
//
// [Session] wraps an Engine and a current State for callers that prefer a
// mutable handle (CLI, TUI, HTTP).
//
// # Thread Safety
//
// Engines are read-only after construction and may be shared. Sessions are
// NOT safe for concurrent use; serialize calls per session.
package game
