package navgraph

import (
	"context"
	"fmt"
	"slices"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/bspwalk/internal/telemetry"
)

// Path is an ordered list of nodes from a start to a goal, both included.
// A nil Path means no route exists.
type Path []NodeID

// Len returns the number of nodes on the path.
func (p Path) Len() int { return len(p) }

// Contains reports whether id is on the path.
func (p Path) Contains(id NodeID) bool { return slices.Contains(p, id) }

// FindPath returns a shortest-hop path from start to goal using breadth-first
// search. A nil path with a nil error means goal cannot be reached. An empty
// graph or an unknown start or goal is an error.
func FindPath(ctx context.Context, g *Graph, start, goal NodeID) (Path, error) {
	if g.Len() == 0 {
		return nil, ErrEmptyGraph
	}
	if !g.Has(start) {
		return nil, fmt.Errorf("%w: start %d", ErrUnknownNode, start)
	}
	if !g.Has(goal) {
		return nil, fmt.Errorf("%w: goal %d", ErrUnknownNode, goal)
	}

	tracer := telemetry.Tracer("navgraph")
	_, span := tracer.Start(ctx, "navgraph.find_path")
	defer span.End()
	span.SetAttributes(
		attribute.Int("path.start", int(start)),
		attribute.Int("path.goal", int(goal)),
	)

	path := bfs(g, start, goal)
	span.SetAttributes(
		attribute.Bool("path.found", path != nil),
		attribute.Int("path.length", len(path)),
	)
	return path, nil
}

// bfs runs the search. cameFrom doubles as the visited set; start maps to -1.
func bfs(g *Graph, start, goal NodeID) Path {
	if start == goal {
		return Path{start}
	}

	cameFrom := map[NodeID]NodeID{start: -1}
	queue := []NodeID{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range g.adj[current] {
			if _, seen := cameFrom[next]; seen {
				continue
			}
			cameFrom[next] = current
			if next == goal {
				return walkBack(cameFrom, goal)
			}
			queue = append(queue, next)
		}
	}
	return nil
}

func walkBack(cameFrom map[NodeID]NodeID, goal NodeID) Path {
	var path Path
	for step := goal; step >= 0; step = cameFrom[step] {
		path = append(path, step)
	}
	slices.Reverse(path)
	return path
}
