package ws

import (
	"encoding/json"

	"github.com/samdwyer/bspwalk/internal/agent"
	"github.com/samdwyer/bspwalk/internal/geom"
	"github.com/samdwyer/bspwalk/internal/navgraph"
	"github.com/samdwyer/bspwalk/internal/world"
)

// Message types.
const (
	TypeLayout = "Layout"
	TypeAgent  = "Agent"
	TypeSelect = "Select"
	TypeError  = "Error"
)

// Envelope wraps every message on the wire.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// RectLite is a room rectangle in grid cells.
type RectLite struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PointLite is a grid or world coordinate.
type PointLite struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NodeLite is a graph node with its position in world units and the ids of
// its neighbours in connection order.
type NodeLite struct {
	ID        int       `json:"id"`
	Kind      string    `json:"kind"`
	Position  PointLite `json:"position"`
	Neighbors []int     `json:"neighbors"`
}

// Layout is sent once per connection.
type Layout struct {
	DungeonID string      `json:"dungeonId"`
	Width     int         `json:"width"`
	Height    int         `json:"height"`
	Scale     float64     `json:"scale"`
	Variant   string      `json:"variant"`
	Rooms     []RectLite  `json:"rooms"`
	Doors     []PointLite `json:"doors"`
	Nodes     []NodeLite  `json:"nodes"`
}

// AgentState is broadcast after every agent update.
type AgentState struct {
	State    string    `json:"state"`
	Current  int       `json:"current"`
	Position PointLite `json:"position"`
	Path     []int     `json:"path,omitempty"`
	Index    int       `json:"index"`
}

// Select asks the agent to walk to a node.
type Select struct {
	Node int `json:"node"`
}

// ErrorMessage reports a rejected request to the client that sent it.
type ErrorMessage struct {
	Message string `json:"message"`
}

func point(p geom.Point) PointLite { return PointLite{X: p.X, Y: p.Y} }

// NewLayout describes a dungeon and its graph.
func NewLayout(d *world.Dungeon, g *navgraph.Graph, scale float64) Layout {
	l := Layout{
		DungeonID: d.ID,
		Width:     d.Size.Width,
		Height:    d.Size.Height,
		Scale:     scale,
		Variant:   d.Variant.String(),
	}
	for _, room := range d.Rooms {
		a := room.Area
		l.Rooms = append(l.Rooms, RectLite{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height})
	}
	for _, door := range d.Doors {
		l.Doors = append(l.Doors, point(door.Location))
	}
	for _, n := range g.Nodes() {
		nl := NodeLite{ID: int(n.ID), Kind: n.Kind.String(), Position: point(n.Position), Neighbors: []int{}}
		for _, m := range g.Neighbors(n.ID) {
			nl.Neighbors = append(nl.Neighbors, int(m))
		}
		l.Nodes = append(l.Nodes, nl)
	}
	return l
}

// NewAgentState captures the agent's bookkeeping.
func NewAgentState(a *agent.Agent) AgentState {
	s := AgentState{
		State:    a.State().String(),
		Current:  int(a.CurrentNode()),
		Position: point(a.Position()),
		Index:    a.Index(),
	}
	for _, id := range a.Path() {
		s.Path = append(s.Path, int(id))
	}
	return s
}

// Encode wraps payload in an envelope of the given type.
func Encode(typ string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Type: typ, Payload: raw})
}
