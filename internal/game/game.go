package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-logr/logr"

	"github.com/samdwyer/bspwalk/internal/agent"
	"github.com/samdwyer/bspwalk/internal/config"
	"github.com/samdwyer/bspwalk/internal/navgraph"
	"github.com/samdwyer/bspwalk/internal/ui"
)

// Game holds the viewer state around one World.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	world    *World
	log      logr.Logger
	state    State
	status   string
	running  bool
}

// New creates a game on a fresh terminal screen.
func New(ctx context.Context, cfg config.Config, logger logr.Logger) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	g, err := NewWithScreen(ctx, cfg, logger, screen)
	if err != nil {
		screen.Close()
		return nil, err
	}
	return g, nil
}

// NewWithScreen creates a game drawing to screen.
func NewWithScreen(ctx context.Context, cfg config.Config, logger logr.Logger, screen *ui.Screen) (*Game, error) {
	w, err := NewWorld(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Game{
		screen:   screen,
		renderer: ui.NewRenderer(screen, w.Dungeon, w.Graph, cfg.Scale),
		world:    w,
		log:      logger.WithName("game"),
		state:    StateRunning,
		status:   "click a node to walk there, n: next node, p: pause, q: quit",
		running:  true,
	}, nil
}

// World returns the generated world.
func (g *Game) World() *World { return g.world }

// Run executes the main loop until the user quits or ctx is done.
func (g *Game) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	events := g.screen.Events(done)

	ticker := time.NewTicker(g.world.Config.TickInterval)
	defer ticker.Stop()

	for g.running {
		g.renderer.Render(g.world.Agent, g.statusLine())

		select {
		case <-ctx.Done():
			g.running = false
		case ev, ok := <-events:
			if !ok {
				g.running = false
				break
			}
			g.handleEvent(ctx, ev)
		case <-ticker.C:
			if g.state == StateRunning {
				g.world.Agent.Tick()
			}
		}
	}

	// Cleanup
	g.screen.Close()
	return nil
}

func (g *Game) statusLine() string {
	a := g.world.Agent
	return fmt.Sprintf("[%s] agent %s at node %d | %s", g.state, a.State(), a.CurrentNode(), g.status)
}

// handleEvent processes a single input event.
func (g *Game) handleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			g.selectAt(ctx, x, y)
		}
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			g.running = false
		case 'p', 'P':
			g.togglePause()
		case 'n', 'N':
			next := (int(g.world.Agent.CurrentNode()) + 1) % g.world.Graph.Len()
			g.selectNode(ctx, navgraph.NodeID(next))
		}
	}
}

func (g *Game) togglePause() {
	if g.state == StatePaused {
		g.state = StateRunning
	} else {
		g.state = StatePaused
	}
}

// selectAt selects the node under terminal cell (x, y), if any.
func (g *Game) selectAt(ctx context.Context, x, y int) {
	id, ok := g.world.Graph.NodeAt(g.renderer.CellAt(x, y), g.renderer.PickRadius())
	if !ok {
		return
	}
	g.selectNode(ctx, id)
}

// selectNode asks the agent for a new path and reports the outcome.
func (g *Game) selectNode(ctx context.Context, id navgraph.NodeID) {
	err := g.world.Agent.Select(ctx, id)
	switch {
	case err == nil:
		g.status = fmt.Sprintf("new path set to node %d", id)
	case errors.Is(err, agent.ErrNoPath):
		g.status = fmt.Sprintf("no path found to node %d", id)
	default:
		g.log.Error(err, "selection rejected", "node", id)
		g.status = err.Error()
	}
}
