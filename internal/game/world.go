package game

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/bspwalk/internal/agent"
	"github.com/samdwyer/bspwalk/internal/config"
	"github.com/samdwyer/bspwalk/internal/geom"
	"github.com/samdwyer/bspwalk/internal/navgraph"
	"github.com/samdwyer/bspwalk/internal/telemetry"
	"github.com/samdwyer/bspwalk/internal/world"
)

// World is everything one run generates: the dungeon, its node graph and the
// agent walking it.
type World struct {
	Config  config.Config
	Dungeon *world.Dungeon
	Graph   *navgraph.Graph
	Agent   *agent.Agent
}

// NewWorld generates a dungeon, builds its graph and places an agent on a
// random node. Generation completes before the graph is built.
func NewWorld(ctx context.Context, cfg config.Config, logger logr.Logger, opts ...agent.Option) (*World, error) {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.init")
	defer span.End()

	rng := world.NewRandom(cfg.Seed)
	gen := world.NewGenerator(geom.R(0, 0, cfg.Width, cfg.Height), rng,
		world.WithVariant(cfg.Variant),
		world.WithLogger(logger.WithName("world")),
	)
	d, err := gen.Generate(ctx, cfg.MinimumRoomSize)
	if err != nil {
		return nil, fmt.Errorf("generate dungeon: %w", err)
	}

	g, err := navgraph.Build(ctx, d, cfg.Scale, navgraph.WithPolicy(cfg.Policy))
	if err != nil {
		return nil, fmt.Errorf("build node graph: %w", err)
	}

	opts = append([]agent.Option{agent.WithLogger(logger.WithName("agent"))}, opts...)
	a, err := agent.NewAtRandomNode(g, rng, agent.LinearMover{Speed: cfg.Speed}, opts...)
	if err != nil {
		return nil, fmt.Errorf("place agent: %w", err)
	}

	logger.Info("world ready",
		"dungeon", d.ID, "rooms", len(d.Rooms), "doors", len(d.Doors),
		"nodes", g.Len(), "edges", g.EdgeCount(), "start", a.CurrentNode())

	span.SetAttributes(
		attribute.String("dungeon.id", d.ID),
		attribute.Int("dungeon.rooms", len(d.Rooms)),
		attribute.Int("navgraph.nodes", g.Len()),
		attribute.Int("agent.start", int(a.CurrentNode())),
	)

	return &World{Config: cfg, Dungeon: d, Graph: g, Agent: a}, nil
}
