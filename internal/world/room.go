package world

import "github.com/samdwyer/bspwalk/internal/geom"

// Room is one leaf of the partition. Rooms are handled by pointer: two rooms
// with equal areas are still different rooms.
type Room struct {
	Area geom.Rect
}

// NewRoom creates a room covering the given area.
func NewRoom(area geom.Rect) *Room {
	return &Room{Area: area}
}

// Center returns the center coordinates of the room.
func (r *Room) Center() (float64, float64) {
	return r.Area.Center()
}

// Contains returns true if the given point is inside the room.
func (r *Room) Contains(p geom.Point) bool {
	return r.Area.Contains(p)
}

// Door is a connector placed on the wall shared by two rooms.
type Door struct {
	Location geom.Point
}

// NewDoor creates a door at the given grid location.
func NewDoor(location geom.Point) *Door {
	return &Door{Location: location}
}
