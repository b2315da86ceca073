package navgraph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/bspwalk/internal/geom"
	"github.com/samdwyer/bspwalk/internal/telemetry"
	"github.com/samdwyer/bspwalk/internal/world"
)

var (
	// ErrNilDungeon is returned by Build when no dungeon is given.
	ErrNilDungeon = errors.New("navgraph: nil dungeon")
	// ErrInvalidScale is returned by Build for a non-positive scale.
	ErrInvalidScale = errors.New("navgraph: scale must be positive")
)

// Policy decides which nodes Build connects.
type Policy int

const (
	// PolicyLinearChain connects node k to node k+1 in build order. Every node
	// is reachable from every other, but the links ignore where doors are.
	PolicyLinearChain Policy = iota
	// PolicyDoorAdjacency connects each door node to the nodes of the rooms
	// that contain the door.
	PolicyDoorAdjacency
)

// String returns a human-readable policy name.
func (p Policy) String() string {
	switch p {
	case PolicyLinearChain:
		return "linear"
	case PolicyDoorAdjacency:
		return "doors"
	default:
		return "unknown"
	}
}

// ParsePolicy parses the name produced by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "linear", "chain":
		return PolicyLinearChain, nil
	case "doors", "door-adjacency":
		return PolicyDoorAdjacency, nil
	default:
		return 0, fmt.Errorf("navgraph: unknown policy %q", s)
	}
}

type buildConfig struct {
	policy Policy
}

// BuildOption configures Build.
type BuildOption func(*buildConfig)

// WithPolicy selects the connection policy. The default is PolicyLinearChain.
func WithPolicy(p Policy) BuildOption {
	return func(c *buildConfig) { c.policy = p }
}

// Build creates one node per room, then one node per door, in dungeon order,
// and connects them according to the policy. Positions are in world units:
// grid coordinates multiplied by scale.
func Build(ctx context.Context, d *world.Dungeon, scale float64, opts ...BuildOption) (*Graph, error) {
	if d == nil {
		return nil, ErrNilDungeon
	}
	if scale <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidScale, scale)
	}
	cfg := buildConfig{policy: PolicyLinearChain}
	for _, opt := range opts {
		opt(&cfg)
	}

	tracer := telemetry.Tracer("navgraph")
	_, span := tracer.Start(ctx, "navgraph.build")
	defer span.End()

	g := New()
	for i, room := range d.Rooms {
		g.AddNode(RoomNode, i, RoomCenter(room, scale))
	}
	for i, door := range d.Doors {
		g.AddNode(DoorNode, i, CellCenter(door.Location, scale))
	}

	switch cfg.policy {
	case PolicyDoorAdjacency:
		connectDoors(g, d)
	default:
		for k := 0; k+1 < g.Len(); k++ {
			_ = g.Connect(NodeID(k), NodeID(k+1))
		}
	}

	span.SetAttributes(
		attribute.String("dungeon.id", d.ID),
		attribute.String("navgraph.policy", cfg.policy.String()),
		attribute.Int("navgraph.node_count", g.Len()),
		attribute.Int("navgraph.edge_count", g.EdgeCount()),
	)
	return g, nil
}

// connectDoors links each door node to the room nodes of the rooms holding the
// door. Room nodes come first, so room i has node id i.
func connectDoors(g *Graph, d *world.Dungeon) {
	for i, door := range d.Doors {
		doorNode := NodeID(len(d.Rooms) + i)
		for _, room := range d.RoomsContaining(door.Location) {
			_ = g.Connect(doorNode, NodeID(room))
		}
	}
}

// RoomCenter returns the world position of a room's center.
func RoomCenter(room *world.Room, scale float64) geom.Point {
	cx, cy := room.Center()
	return geom.Point{X: int(cx * scale), Y: int(cy * scale)}
}

// CellCenter returns the world position of the center of grid cell p.
func CellCenter(p geom.Point, scale float64) geom.Point {
	return geom.Point{
		X: int((float64(p.X) + 0.5) * scale),
		Y: int((float64(p.Y) + 0.5) * scale),
	}
}

// ToGrid converts a world position back to the grid cell holding it.
func ToGrid(p geom.Point, scale float64) geom.Point {
	return geom.Point{X: int(float64(p.X) / scale), Y: int(float64(p.Y) / scale)}
}
