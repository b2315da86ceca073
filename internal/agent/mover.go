package agent

import "github.com/samdwyer/bspwalk/internal/geom"

// Mover advances a position toward a target by one tick's worth of movement.
type Mover interface {
	// Step moves pos toward target and reports whether pos reached it.
	Step(pos *geom.Point, target geom.Point) bool
}

// LinearMover moves each axis at most Speed world units per step. A Speed of
// zero or less jumps straight to the target.
type LinearMover struct {
	Speed int
}

// Step implements Mover.
func (m LinearMover) Step(pos *geom.Point, target geom.Point) bool {
	if m.Speed <= 0 {
		*pos = target
		return true
	}
	pos.X = approach(pos.X, target.X, m.Speed)
	pos.Y = approach(pos.Y, target.Y, m.Speed)
	return *pos == target
}

func approach(from, to, step int) int {
	switch {
	case to > from:
		return min(from+step, to)
	case to < from:
		return max(from-step, to)
	default:
		return from
	}
}
