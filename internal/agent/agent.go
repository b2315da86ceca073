// Package agent provides the navigation agent that walks node graph paths.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/bspwalk/internal/geom"
	"github.com/samdwyer/bspwalk/internal/navgraph"
	"github.com/samdwyer/bspwalk/internal/telemetry"
	"github.com/samdwyer/bspwalk/internal/world"
)

// ErrNoPath is returned by Select when the target cannot be reached.
var ErrNoPath = errors.New("agent: no path to target")

// State represents where the agent is in consuming its path.
type State int

const (
	// StateIdle means the agent has no path.
	StateIdle State = iota
	// StateFollowing means the agent is walking toward a node on its path.
	StateFollowing
	// StateArrived means the agent reached the last node of its path.
	StateArrived
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFollowing:
		return "following"
	case StateArrived:
		return "arrived"
	default:
		return "unknown"
	}
}

// Agent walks a node graph. It is not safe for concurrent use: one goroutine
// owns it, either the host loop or Run.
type Agent struct {
	graph    *navgraph.Graph
	mover    Mover
	log      logr.Logger
	onUpdate func(*Agent)

	current  navgraph.NodeID
	position geom.Point
	path     navgraph.Path
	index    int
}

// Option configures an Agent.
type Option func(*Agent)

// WithLogger sets the logger used to report selections.
func WithLogger(l logr.Logger) Option {
	return func(a *Agent) { a.log = l }
}

// WithUpdateHook registers fn to be called by Run after every handled
// selection or tick.
func WithUpdateHook(fn func(*Agent)) Option {
	return func(a *Agent) { a.onUpdate = fn }
}

// New creates an idle agent standing on start.
func New(g *navgraph.Graph, start navgraph.NodeID, mover Mover, opts ...Option) (*Agent, error) {
	if g.Len() == 0 {
		return nil, navgraph.ErrEmptyGraph
	}
	if !g.Has(start) {
		return nil, fmt.Errorf("%w: start %d", navgraph.ErrUnknownNode, start)
	}
	if mover == nil {
		mover = LinearMover{}
	}
	a := &Agent{
		graph:    g,
		mover:    mover,
		log:      logr.Discard(),
		current:  start,
		position: g.Node(start).Position,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// NewAtRandomNode creates an idle agent standing on a node picked by rng.
func NewAtRandomNode(g *navgraph.Graph, rng world.RandomSource, mover Mover, opts ...Option) (*Agent, error) {
	if g.Len() == 0 {
		return nil, navgraph.ErrEmptyGraph
	}
	return New(g, navgraph.NodeID(rng.IntRange(0, g.Len())), mover, opts...)
}

// State returns the agent's current state.
func (a *Agent) State() State {
	switch {
	case a.path == nil:
		return StateIdle
	case a.index < len(a.path):
		return StateFollowing
	default:
		return StateArrived
	}
}

// CurrentNode returns the last node the agent reached.
func (a *Agent) CurrentNode() navgraph.NodeID { return a.current }

// Position returns the agent's world position.
func (a *Agent) Position() geom.Point { return a.position }

// Path returns a copy of the active path, or nil.
func (a *Agent) Path() navgraph.Path {
	if a.path == nil {
		return nil
	}
	return append(navgraph.Path(nil), a.path...)
}

// Index returns the position in the path of the node being walked to.
func (a *Agent) Index() int { return a.index }

// Remaining returns the nodes of the path not reached yet.
func (a *Agent) Remaining() navgraph.Path {
	if a.index >= len(a.path) {
		return nil
	}
	return append(navgraph.Path(nil), a.path[a.index:]...)
}

// Select finds a path from the current node to target and replaces the active
// path with it. When no path exists the agent keeps its state and ErrNoPath is
// returned.
func (a *Agent) Select(ctx context.Context, target navgraph.NodeID) error {
	tracer := telemetry.Tracer("agent")
	ctx, span := tracer.Start(ctx, "agent.select")
	defer span.End()
	span.SetAttributes(
		attribute.Int("agent.current", int(a.current)),
		attribute.Int("agent.target", int(target)),
	)

	path, err := navgraph.FindPath(ctx, a.graph, a.current, target)
	if err != nil {
		span.RecordError(err)
		return err
	}
	if path == nil {
		a.log.Info("no path found to the selected node", "from", a.current, "to", target)
		span.SetAttributes(attribute.Bool("agent.path_found", false))
		return fmt.Errorf("%w: %d to %d", ErrNoPath, a.current, target)
	}

	a.path = path
	a.index = 0
	a.log.V(1).Info("new path set", "from", a.current, "to", target, "hops", len(path)-1)
	span.SetAttributes(
		attribute.Bool("agent.path_found", true),
		attribute.Int("agent.path_length", len(path)),
	)
	return nil
}

// Tick moves the agent one step toward the next node of its path. It reports
// whether a node was reached during this tick.
func (a *Agent) Tick() bool {
	if a.State() != StateFollowing {
		return false
	}
	target := a.path[a.index]
	if !a.mover.Step(&a.position, a.graph.Node(target).Position) {
		return false
	}
	a.current = target
	a.index++
	if a.index == len(a.path) {
		a.log.V(1).Info("arrived", "node", a.current)
	}
	return true
}

// Run handles node selections and ticks until ctx is done or either channel
// is closed. Each message is handled to completion before the next is read.
// Failed selections are logged and leave the agent unchanged.
func (a *Agent) Run(ctx context.Context, selections <-chan navgraph.NodeID, ticks <-chan time.Time) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case target, ok := <-selections:
			if !ok {
				return nil
			}
			if err := a.Select(ctx, target); err != nil && !errors.Is(err, ErrNoPath) {
				a.log.Error(err, "selection rejected", "target", target)
			}
		case _, ok := <-ticks:
			if !ok {
				return nil
			}
			a.Tick()
		}
		if a.onUpdate != nil {
			a.onUpdate(a)
		}
	}
}
