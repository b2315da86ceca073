package navgraph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/bspwalk/internal/geom"
	"github.com/samdwyer/bspwalk/internal/world"
)

func twoRoomDungeon() *world.Dungeon {
	return &world.Dungeon{
		ID:   "two-rooms",
		Size: geom.R(0, 0, 19, 10),
		Rooms: []*world.Room{
			world.NewRoom(geom.R(0, 0, 10, 10)),
			world.NewRoom(geom.R(9, 0, 10, 10)),
		},
		Doors: []*world.Door{world.NewDoor(geom.Point{X: 9, Y: 4})},
	}
}

func TestBuildPositionsAndOrder(t *testing.T) {
	g, err := Build(context.Background(), twoRoomDungeon(), 2)
	require.NoError(t, err)
	require.Equal(t, 3, g.Len())

	assert.Equal(t, Node{ID: 0, Kind: RoomNode, Source: 0, Position: geom.Point{X: 10, Y: 10}}, g.Node(0))
	assert.Equal(t, Node{ID: 1, Kind: RoomNode, Source: 1, Position: geom.Point{X: 28, Y: 10}}, g.Node(1))
	assert.Equal(t, Node{ID: 2, Kind: DoorNode, Source: 0, Position: geom.Point{X: 19, Y: 9}}, g.Node(2))
}

func TestBuildLinearChain(t *testing.T) {
	g, err := Build(context.Background(), twoRoomDungeon(), 1)
	require.NoError(t, err)

	assert.Equal(t, []NodeID{1}, g.Neighbors(0))
	assert.Equal(t, []NodeID{0, 2}, g.Neighbors(1))
	assert.Equal(t, []NodeID{1}, g.Neighbors(2))
	assert.Equal(t, 2, g.EdgeCount())
}

func TestBuildDoorAdjacency(t *testing.T) {
	g, err := Build(context.Background(), twoRoomDungeon(), 1, WithPolicy(PolicyDoorAdjacency))
	require.NoError(t, err)

	assert.False(t, g.Connected(0, 1), "rooms only meet through their door")
	assert.True(t, g.Connected(2, 0))
	assert.True(t, g.Connected(2, 1))

	path, err := FindPath(context.Background(), g, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, Path{0, 2, 1}, path)
}

func TestBuildRejectsBadInput(t *testing.T) {
	_, err := Build(context.Background(), nil, 1)
	assert.ErrorIs(t, err, ErrNilDungeon)

	_, err = Build(context.Background(), twoRoomDungeon(), 0)
	assert.ErrorIs(t, err, ErrInvalidScale)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("Doors")
	require.NoError(t, err)
	assert.Equal(t, PolicyDoorAdjacency, p)

	p, err = ParsePolicy("linear")
	require.NoError(t, err)
	assert.Equal(t, PolicyLinearChain, p)

	_, err = ParsePolicy("spiral")
	assert.Error(t, err)
}

func TestGridConversions(t *testing.T) {
	assert.Equal(t, geom.Point{X: 22, Y: 6}, CellCenter(geom.Point{X: 5, Y: 1}, 4))
	assert.Equal(t, geom.Point{X: 5, Y: 1}, ToGrid(geom.Point{X: 22, Y: 6}, 4))
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	gen := world.NewGenerator(geom.R(0, 0, 64, 64), world.NewRandom(2024), world.WithVariant(world.VariantTrimmed))
	d, err := gen.Generate(ctx, 8)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(d.Rooms), 2)

	for i, door := range d.Doors {
		assert.Len(t, d.RoomsContaining(door.Location), 2, "door %d", i)
	}

	g, err := Build(ctx, d, 16)
	require.NoError(t, err)
	require.Equal(t, len(d.Rooms)+len(d.Doors), g.Len())

	first, last := NodeID(0), NodeID(g.Len()-1)
	path, err := FindPath(ctx, g, first, last)
	require.NoError(t, err)
	require.NotNil(t, path)
	assert.Equal(t, g.Len(), path.Len(), "the chain visits every node")
	reach := g.Reachable(first)
	assert.Equal(t, g.Len(), reach.Size())

	doors, err := Build(ctx, d, 16, WithPolicy(PolicyDoorAdjacency))
	require.NoError(t, err)
	for i := range d.Doors {
		assert.Len(t, doors.Neighbors(NodeID(len(d.Rooms)+i)), 2)
	}
}
