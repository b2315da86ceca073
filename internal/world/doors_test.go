package world

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/bspwalk/internal/geom"
)

func TestClassifyWallIsSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 500; i++ {
		a := geom.R(rng.Intn(40), rng.Intn(40), 1+rng.Intn(30), 1+rng.Intn(30))
		b := geom.R(rng.Intn(40), rng.Intn(40), 1+rng.Intn(30), 1+rng.Intn(30))
		w1, o1 := ClassifyWall(a, b, 8)
		w2, o2 := ClassifyWall(b, a, 8)
		require.Equal(t, w1, w2, "classification of %v and %v", a, b)
		require.Equal(t, o1, o2)
	}
}

func TestClassifyWall(t *testing.T) {
	w, o := ClassifyWall(geom.R(0, 0, 10, 20), geom.R(9, 0, 10, 20), 8)
	assert.Equal(t, VerticalWall, w)
	assert.Equal(t, geom.R(9, 0, 1, 20), o)

	w, _ = ClassifyWall(geom.R(0, 0, 20, 10), geom.R(0, 9, 20, 10), 8)
	assert.Equal(t, HorizontalWall, w)

	// Corner touch.
	w, _ = ClassifyWall(geom.R(0, 0, 10, 10), geom.R(9, 9, 10, 10), 8)
	assert.Equal(t, NoWall, w)

	// Disjoint.
	w, o = ClassifyWall(geom.R(0, 0, 10, 10), geom.R(20, 0, 10, 10), 8)
	assert.Equal(t, NoWall, w)
	assert.True(t, o.Empty())

	// Too short to count as a wall.
	w, _ = ClassifyWall(geom.R(0, 0, 10, 5), geom.R(9, 0, 10, 5), 8)
	assert.Equal(t, NoWall, w)
}

func TestDoorOnWallStaysInsideAndOffCorners(t *testing.T) {
	rng := NewRandom(11)
	walls := []struct {
		overlap geom.Rect
		wall    Wall
	}{
		{geom.R(9, 0, 1, 20), VerticalWall},
		{geom.R(3, 14, 12, 1), HorizontalWall},
		{geom.R(30, 5, 1, 8), VerticalWall},
	}
	for _, tt := range walls {
		start, span := freeSpan(tt.overlap, tt.wall)
		for i := 0; i < 200; i++ {
			p, ok := doorOnWall(tt.overlap, tt.wall, DefaultCornerOffset, rng)
			require.True(t, ok)
			require.True(t, tt.overlap.Contains(p), "door %v outside %v", p, tt.overlap)

			free := p.Y
			if tt.wall == HorizontalWall {
				free = p.X
			}
			assert.GreaterOrEqual(t, free, start+DefaultCornerOffset)
			assert.Less(t, free, start+span-DefaultCornerOffset)
		}
	}
}

func TestDoorOnWallDegenerateSpan(t *testing.T) {
	_, ok := doorOnWall(geom.R(0, 0, 1, 3), VerticalWall, 2, NewRandom(1))
	assert.False(t, ok)

	// The adaptive offset still admits a door on a short wall.
	_, span := freeSpan(geom.R(0, 0, 1, 3), VerticalWall)
	p, ok := doorOnWall(geom.R(0, 0, 1, 3), VerticalWall, adaptiveOffset(2, span), NewRandom(1))
	require.True(t, ok)
	assert.Equal(t, geom.Point{X: 0, Y: 1}, p)
}

func TestAdaptiveOffset(t *testing.T) {
	assert.Equal(t, 2, adaptiveOffset(2, 20))
	assert.Equal(t, 1, adaptiveOffset(2, 3))
	assert.Equal(t, 0, adaptiveOffset(2, 1))
}

func TestRemoveExtremeAreas(t *testing.T) {
	small := NewRoom(geom.R(0, 0, 2, 2))
	mid := NewRoom(geom.R(0, 0, 3, 3))
	midTwin := NewRoom(geom.R(5, 5, 3, 3))
	big := NewRoom(geom.R(0, 0, 4, 4))
	bigTwin := NewRoom(geom.R(9, 9, 4, 4))

	kept, removed := removeExtremeAreas([]*Room{big, small, mid, bigTwin, midTwin})
	assert.Equal(t, []*Room{mid, midTwin}, kept)
	assert.Equal(t, 3, removed)

	same := []*Room{NewRoom(geom.R(0, 0, 2, 2)), NewRoom(geom.R(2, 0, 2, 2))}
	kept, removed = removeExtremeAreas(same)
	assert.Len(t, kept, 2)
	assert.Zero(t, removed)
}

func TestFallbackDoors(t *testing.T) {
	a := NewRoom(geom.R(0, 0, 10, 10))
	b := NewRoom(geom.R(9, 0, 10, 10))
	isolated := NewRoom(geom.R(40, 40, 6, 6))
	d := &Dungeon{Rooms: []*Room{a, b, isolated}}

	added, doorless := placeFallbackDoors(d, lowSource{})
	assert.Equal(t, 1, added, "the door for the first room also serves the second")
	assert.Equal(t, []*Room{isolated}, doorless)
	assert.Equal(t, 2, d.RoomIndex(doorless[0]))
	require.Len(t, d.Doors, 1)
	assert.Equal(t, geom.Point{X: 9, Y: 1}, d.Doors[0].Location)
	assert.Equal(t, 1, d.DoorsInRoom(a))
	assert.Equal(t, 1, d.DoorsInRoom(b))
	assert.Equal(t, 0, d.DoorsInRoom(isolated))
}
