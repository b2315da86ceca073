// Package game provides the tick-driven loop that drives the agent and the
// terminal viewer.
package game

// State represents whether the loop advances the agent.
type State int

const (
	// StateRunning ticks the agent on every frame.
	StateRunning State = iota
	// StatePaused keeps drawing and accepting selections but does not tick.
	StatePaused
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}
