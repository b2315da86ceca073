package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/bspwalk/internal/agent"
	"github.com/samdwyer/bspwalk/internal/geom"
	"github.com/samdwyer/bspwalk/internal/navgraph"
	"github.com/samdwyer/bspwalk/internal/world"
)

const (
	roomNodeRune = 'o'
	pathRune     = '*'
	agentRune    = '@'
)

// Renderer draws a dungeon, its node graph and the agent, one grid cell per
// terminal cell.
type Renderer struct {
	screen *Screen
	scale  float64
	tiles  [][]world.Tile
	graph  *navgraph.Graph
}

// NewRenderer creates a renderer for a dungeon whose graph uses scale world
// units per grid cell.
func NewRenderer(screen *Screen, d *world.Dungeon, g *navgraph.Graph, scale float64) *Renderer {
	return &Renderer{
		screen: screen,
		scale:  scale,
		tiles:  d.Tiles(),
		graph:  g,
	}
}

// Render draws the map, the active path and the agent, then the status line.
func (r *Renderer) Render(a *agent.Agent, status string) {
	r.screen.Clear()

	// Draw dungeon tiles
	for y, row := range r.tiles {
		for x, tile := range row {
			r.screen.SetContent(x, y, tile.Rune(), r.getTileStyle(tile))
		}
	}

	// Room nodes on top of floors
	nodeStyle := tcell.StyleDefault.Foreground(tcell.ColorTeal)
	for _, n := range r.graph.Nodes() {
		if n.Kind == navgraph.RoomNode {
			r.drawAt(n.Position, roomNodeRune, nodeStyle)
		}
	}

	// Remaining path
	pathStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	for _, id := range a.Remaining() {
		r.drawAt(r.graph.Node(id).Position, pathRune, pathStyle)
	}

	// Draw agent on top
	agentStyle := tcell.StyleDefault.
		Foreground(tcell.ColorYellow).
		Bold(true)
	r.drawAt(a.Position(), agentRune, agentStyle)

	r.RenderMessage(status, len(r.tiles))
	r.screen.Show()
}

// CellAt converts a terminal cell to the world position at its center.
func (r *Renderer) CellAt(x, y int) geom.Point {
	return navgraph.CellCenter(geom.Point{X: x, Y: y}, r.scale)
}

// PickRadius is the distance in world units within which a click selects a node.
func (r *Renderer) PickRadius() int {
	return max(1, int(r.scale))
}

func (r *Renderer) drawAt(pos geom.Point, ch rune, style tcell.Style) {
	cell := navgraph.ToGrid(pos, r.scale)
	r.screen.SetContent(cell.X, cell.Y, ch, style)
}

// getTileStyle returns the appropriate style for a tile type.
func (r *Renderer) getTileStyle(tile world.Tile) tcell.Style {
	switch tile {
	case world.TileWall:
		return tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	case world.TileFloor:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	case world.TileDoor:
		return tcell.StyleDefault.Foreground(tcell.ColorOrange)
	default:
		return tcell.StyleDefault
	}
}

// RenderMessage displays a message at the given row.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	r.screen.DrawString(0, y, msg, style)
}
