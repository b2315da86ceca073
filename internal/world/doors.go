package world

import "github.com/samdwyer/bspwalk/internal/geom"

// Wall is the shape of the overlap between two rooms.
type Wall int

const (
	// NoWall is an overlap that cannot hold a door: a corner touch, or an
	// overlap too large or too small on both axes.
	NoWall Wall = iota
	// VerticalWall is a thin, tall overlap. Its doors share the overlap's X.
	VerticalWall
	// HorizontalWall is a wide, thin overlap. Its doors share the overlap's Y.
	HorizontalWall
)

// String returns a human-readable wall name.
func (w Wall) String() string {
	switch w {
	case VerticalWall:
		return "vertical"
	case HorizontalWall:
		return "horizontal"
	default:
		return "none"
	}
}

// ClassifyWall returns the wall shape of the overlap of a and b together with
// the overlap itself. The result does not depend on argument order.
func ClassifyWall(a, b geom.Rect, minimumRoomSize int) (Wall, geom.Rect) {
	overlap := geom.Intersect(a, b)
	if overlap.Empty() {
		return NoWall, overlap
	}
	switch {
	case overlap.Width <= minimumRoomSize && overlap.Height >= minimumRoomSize:
		return VerticalWall, overlap
	case overlap.Height <= minimumRoomSize && overlap.Width >= minimumRoomSize:
		return HorizontalWall, overlap
	default:
		return NoWall, overlap
	}
}

// freeSpan returns the start and length of the axis a door can slide along.
func freeSpan(overlap geom.Rect, w Wall) (start, span int) {
	if w == VerticalWall {
		return overlap.Y, overlap.Height
	}
	return overlap.X, overlap.Width
}

// doorOnWall picks a random door location along the free axis of overlap,
// keeping offset cells clear at both ends. It reports false when the
// remaining span is empty.
func doorOnWall(overlap geom.Rect, w Wall, offset int, rng RandomSource) (geom.Point, bool) {
	start, span := freeSpan(overlap, w)
	lo := start + offset
	hi := start + span - offset
	if lo >= hi {
		return geom.Point{}, false
	}
	free := rng.IntRange(lo, hi)
	if w == VerticalWall {
		return geom.Point{X: overlap.X, Y: free}, true
	}
	return geom.Point{X: free, Y: overlap.Y}, true
}

// adaptiveOffset shrinks offset to at most half of the span.
func adaptiveOffset(offset, span int) int {
	return min(offset, span/2)
}

// placeDoors places at most one door for every pair of rooms whose overlap
// forms a wall.
func placeDoors(rooms []*Room, minimumRoomSize, cornerOffset int, rng RandomSource) []*Door {
	var doors []*Door
	for i := 0; i < len(rooms)-1; i++ {
		for j := i + 1; j < len(rooms); j++ {
			w, overlap := ClassifyWall(rooms[i].Area, rooms[j].Area, minimumRoomSize)
			if w == NoWall {
				continue
			}
			_, span := freeSpan(overlap, w)
			loc, ok := doorOnWall(overlap, w, adaptiveOffset(cornerOffset, span), rng)
			if !ok {
				continue
			}
			doors = append(doors, NewDoor(loc))
		}
	}
	return doors
}

// placeFallbackDoors gives every doorless room one door on the first overlap
// with another room that has room for one. It returns the number of doors
// added and the rooms that are still doorless.
func placeFallbackDoors(d *Dungeon, rng RandomSource) (int, []*Room) {
	added := 0
	var doorless []*Room
	for _, room := range d.Rooms {
		if d.DoorsInRoom(room) > 0 {
			continue
		}
		placed := false
		for _, other := range d.Rooms {
			if other == room || !room.Area.Intersects(other.Area) {
				continue
			}
			overlap := geom.Intersect(room.Area, other.Area)
			w := HorizontalWall
			if overlap.Width < overlap.Height {
				w = VerticalWall
			}
			loc, ok := doorOnWall(overlap, w, fallbackCornerOffset, rng)
			if !ok {
				continue
			}
			d.Doors = append(d.Doors, NewDoor(loc))
			added++
			placed = true
			break
		}
		if !placed {
			doorless = append(doorless, room)
		}
	}
	return added, doorless
}
