// Package navgraph turns a generated dungeon into a graph of waypoint nodes and
// finds shortest-hop paths over it.
package navgraph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zyedidia/generic/mapset"

	"github.com/samdwyer/bspwalk/internal/geom"
)

var (
	// ErrEmptyGraph is returned when a path is requested on a graph without nodes.
	ErrEmptyGraph = errors.New("navgraph: graph has no nodes")
	// ErrUnknownNode is returned for a node id that is not in the graph.
	ErrUnknownNode = errors.New("navgraph: unknown node")
)

// NodeID is a stable index into a Graph's node arena.
type NodeID int

// NodeKind tells what a node was built from.
type NodeKind int

const (
	// RoomNode sits at the center of a room.
	RoomNode NodeKind = iota
	// DoorNode sits on a door.
	DoorNode
)

// String returns a human-readable kind name.
func (k NodeKind) String() string {
	switch k {
	case RoomNode:
		return "room"
	case DoorNode:
		return "door"
	default:
		return "unknown"
	}
}

// Node is a waypoint in world units.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	Source   int // Index of the room or door this node was built from
	Position geom.Point
}

// Graph owns a set of nodes and their undirected connections. Connections are
// stored as adjacency lists in insertion order.
type Graph struct {
	nodes []Node
	adj   [][]NodeID
	edges int
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{}
}

// AddNode appends a node and returns its id.
func (g *Graph) AddNode(kind NodeKind, source int, pos geom.Point) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, Node{ID: id, Kind: kind, Source: source, Position: pos})
	g.adj = append(g.adj, nil)
	return id
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.nodes)
}

// Has reports whether id names a node of g.
func (g *Graph) Has(id NodeID) bool {
	return id >= 0 && int(id) < g.Len()
}

// Node returns the node with the given id. It panics on an unknown id, like
// indexing a slice.
func (g *Graph) Node(id NodeID) Node {
	return g.nodes[id]
}

// Nodes returns a copy of all nodes in id order.
func (g *Graph) Nodes() []Node {
	return slices.Clone(g.nodes)
}

// Neighbors returns the nodes connected to id in insertion order. The slice
// must not be modified.
func (g *Graph) Neighbors(id NodeID) []NodeID {
	if !g.Has(id) {
		return nil
	}
	return g.adj[id]
}

// EdgeCount returns the number of undirected connections.
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Connected reports whether a and b are connected.
func (g *Graph) Connected(a, b NodeID) bool {
	return slices.Contains(g.Neighbors(a), b)
}

// Connect links a and b in both directions. Self loops and repeated
// connections are ignored.
func (g *Graph) Connect(a, b NodeID) error {
	if !g.Has(a) || !g.Has(b) {
		return fmt.Errorf("%w: connect %d-%d", ErrUnknownNode, a, b)
	}
	if a == b || g.Connected(a, b) {
		return nil
	}
	g.adj[a] = append(g.adj[a], b)
	g.adj[b] = append(g.adj[b], a)
	g.edges++
	return nil
}

// Disconnect removes the connection between a and b in both directions.
func (g *Graph) Disconnect(a, b NodeID) {
	if !g.Connected(a, b) {
		return
	}
	g.adj[a] = slices.DeleteFunc(g.adj[a], func(n NodeID) bool { return n == b })
	g.adj[b] = slices.DeleteFunc(g.adj[b], func(n NodeID) bool { return n == a })
	g.edges--
}

// NodeAt returns the node closest to p within radius world units.
func (g *Graph) NodeAt(p geom.Point, radius int) (NodeID, bool) {
	best, bestDist := NodeID(-1), 0
	for _, n := range g.nodes {
		dx, dy := n.Position.X-p.X, n.Position.Y-p.Y
		d := dx*dx + dy*dy
		if d > radius*radius {
			continue
		}
		if best < 0 || d < bestDist {
			best, bestDist = n.ID, d
			if d == 0 {
				break
			}
		}
	}
	return best, best >= 0
}

// Reachable returns every node connected to start by some path, start included.
func (g *Graph) Reachable(start NodeID) mapset.Set[NodeID] {
	seen := mapset.New[NodeID]()
	if !g.Has(start) {
		return seen
	}
	seen.Put(start)
	queue := []NodeID{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range g.adj[current] {
			if !seen.Has(next) {
				seen.Put(next)
				queue = append(queue, next)
			}
		}
	}
	return seen
}
