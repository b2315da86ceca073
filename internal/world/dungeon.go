package world

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/bspwalk/internal/geom"
	"github.com/samdwyer/bspwalk/internal/telemetry"
)

const (
	// Default dungeon dimensions
	DefaultWidth  = 64
	DefaultHeight = 64

	// DefaultMinimumRoomSize is the smallest side a room may be split down to.
	DefaultMinimumRoomSize = 8

	// DefaultCornerOffset keeps doors this many cells away from wall ends.
	DefaultCornerOffset = 2

	// fallbackCornerOffset is the fixed margin used for fallback doors.
	fallbackCornerOffset = 1
)

var (
	// ErrInvalidMinimumRoomSize is returned for a minimum room size below 1.
	ErrInvalidMinimumRoomSize = errors.New("world: minimum room size must be positive")
	// ErrInvalidArea is returned when the area to partition is empty.
	ErrInvalidArea = errors.New("world: dungeon area is empty")
)

// Variant selects how the room set is post-processed after partitioning.
type Variant int

const (
	// VariantTrimmed removes the rooms with the smallest and the largest area.
	VariantTrimmed Variant = iota
	// VariantConnected keeps every room and adds a fallback door to rooms
	// that did not get one.
	VariantConnected
)

// String returns a human-readable variant name.
func (v Variant) String() string {
	switch v {
	case VariantTrimmed:
		return "trimmed"
	case VariantConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// ParseVariant parses the name produced by Variant.String.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trimmed", "a":
		return VariantTrimmed, nil
	case "connected", "b":
		return VariantConnected, nil
	default:
		return 0, fmt.Errorf("world: unknown variant %q", s)
	}
}

// Dungeon is the result of a generation run. It is read-only once returned.
type Dungeon struct {
	ID              string
	Size            geom.Rect
	MinimumRoomSize int
	Variant         Variant
	Rooms           []*Room
	Doors           []*Door
}

// RoomIndex returns the index of room in d.Rooms, or -1.
func (d *Dungeon) RoomIndex(room *Room) int {
	return slices.Index(d.Rooms, room)
}

// RoomsContaining returns the indices of all rooms whose area holds p.
// A door on a seam is held by the two rooms sharing that seam.
func (d *Dungeon) RoomsContaining(p geom.Point) []int {
	var out []int
	for i, room := range d.Rooms {
		if room.Contains(p) {
			out = append(out, i)
		}
	}
	return out
}

// DoorsInRoom counts the doors located inside room.
func (d *Dungeon) DoorsInRoom(room *Room) int {
	count := 0
	for _, door := range d.Doors {
		if room.Contains(door.Location) {
			count++
		}
	}
	return count
}

// Tiles rasterizes the dungeon: room outlines become walls, interiors floor,
// door locations doors and uncovered cells empty.
func (d *Dungeon) Tiles() [][]Tile {
	tiles := make([][]Tile, d.Size.Height)
	for y := range tiles {
		tiles[y] = make([]Tile, d.Size.Width)
		for x := range tiles[y] {
			tiles[y][x] = TileEmpty
		}
	}

	set := func(x, y int, t Tile) {
		x -= d.Size.X
		y -= d.Size.Y
		if y >= 0 && y < len(tiles) && x >= 0 && x < len(tiles[y]) {
			tiles[y][x] = t
		}
	}

	for _, room := range d.Rooms {
		a := room.Area
		for y := a.Y; y < a.Bottom(); y++ {
			for x := a.X; x < a.Right(); x++ {
				if x == a.X || x == a.Right()-1 || y == a.Y || y == a.Bottom()-1 {
					set(x, y, TileWall)
				} else {
					set(x, y, TileFloor)
				}
			}
		}
	}
	for _, door := range d.Doors {
		set(door.Location.X, door.Location.Y, TileDoor)
	}
	return tiles
}

// Generator partitions an area into rooms and places doors between them.
type Generator struct {
	size         geom.Rect
	rng          RandomSource
	variant      Variant
	cornerOffset int
	log          logr.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithVariant selects the post-processing variant.
func WithVariant(v Variant) Option {
	return func(g *Generator) { g.variant = v }
}

// WithCornerOffset sets the margin kept between doors and wall ends.
func WithCornerOffset(n int) Option {
	return func(g *Generator) {
		if n >= 0 {
			g.cornerOffset = n
		}
	}
}

// WithLogger sets the logger used for generation diagnostics.
func WithLogger(l logr.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// NewGenerator creates a generator for the given area drawing all random
// values from rng.
func NewGenerator(size geom.Rect, rng RandomSource, opts ...Option) *Generator {
	g := &Generator{
		size:         size,
		rng:          rng,
		variant:      VariantTrimmed,
		cornerOffset: DefaultCornerOffset,
		log:          logr.Discard(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate creates the dungeon layout using BSP.
func (g *Generator) Generate(ctx context.Context, minimumRoomSize int) (*Dungeon, error) {
	if minimumRoomSize <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMinimumRoomSize, minimumRoomSize)
	}
	if g.size.Empty() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArea, g.size)
	}

	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "dungeon.generate")
	defer span.End()

	startTime := time.Now()

	d := &Dungeon{
		ID:              uuid.NewString(),
		Size:            g.size,
		MinimumRoomSize: minimumRoomSize,
		Variant:         g.variant,
	}

	// Partition the whole area
	p := newPartition(g.size, minimumRoomSize, g.rng)
	p.divide(p.root())
	d.Rooms = p.leafRooms()

	if len(d.Rooms) == 1 {
		g.log.Info("minimum room size leaves the area unsplit",
			"dungeon", d.ID, "area", g.size.String(), "minimumRoomSize", minimumRoomSize)
	}

	removed := 0
	if g.variant == VariantTrimmed {
		d.Rooms, removed = removeExtremeAreas(d.Rooms)
	}

	d.Doors = placeDoors(d.Rooms, minimumRoomSize, g.cornerOffset, g.rng)

	fallback := 0
	if g.variant == VariantConnected {
		var doorless []*Room
		fallback, doorless = placeFallbackDoors(d, g.rng)
		for _, room := range doorless {
			g.log.V(1).Info("room left without a door", "dungeon", d.ID, "room", d.RoomIndex(room), "area", room.Area.String())
		}
	}

	g.log.V(1).Info("dungeon generated",
		"dungeon", d.ID, "rooms", len(d.Rooms), "doors", len(d.Doors), "removed", removed, "fallbackDoors", fallback)

	// Record telemetry
	span.SetAttributes(
		attribute.String("dungeon.id", d.ID),
		attribute.Int("dungeon.width", g.size.Width),
		attribute.Int("dungeon.height", g.size.Height),
		attribute.Int("dungeon.minimum_room_size", minimumRoomSize),
		attribute.String("dungeon.variant", g.variant.String()),
		attribute.Int("dungeon.room_count", len(d.Rooms)),
		attribute.Int("dungeon.door_count", len(d.Doors)),
		attribute.Int("dungeon.removed_rooms", removed),
		attribute.Int("dungeon.fallback_doors", fallback),
		attribute.Int64("dungeon.generation_ms", time.Since(startTime).Milliseconds()),
	)

	return d, nil
}

// bspCell is one record of the partition arena. A split cell points at its two
// children and is no longer part of the active set.
type bspCell struct {
	area     geom.Rect
	children [2]int
	split    bool
}

// partition holds the arena of cells and the ordered active (leaf) set.
type partition struct {
	cells  []bspCell
	active []int
	min    int
	rng    RandomSource
}

func newPartition(area geom.Rect, minimumRoomSize int, rng RandomSource) *partition {
	p := &partition{min: minimumRoomSize, rng: rng}
	p.active = append(p.active, p.add(area))
	return p
}

func (p *partition) root() int { return 0 }

func (p *partition) add(area geom.Rect) int {
	p.cells = append(p.cells, bspCell{area: area})
	return len(p.cells) - 1
}

// divide picks a split orientation at random and splits cell i.
func (p *partition) divide(i int) {
	if p.rng.IntRange(0, 2) == 0 {
		p.divideHorizontal(i)
	} else {
		p.divideVertical(i)
	}
}

// splitRange returns the bounds for a split of a span starting at start. The
// second child starts one cell before the split, so the split must sit at
// least two cells in for that child to be smaller than its parent.
func (p *partition) splitRange(start, length int) (lo, hi int, ok bool) {
	lo = start + max(p.min, 2)
	hi = start + length - p.min
	return lo, hi, length/2 >= p.min && lo <= hi
}

// divideHorizontal splits along X. The right child starts one cell before
// the split so both children share a one cell wide wall.
func (p *partition) divideHorizontal(i int) {
	a := p.cells[i].area
	lo, hi, ok := p.splitRange(a.X, a.Width)
	if !ok {
		return
	}
	splitX := p.rng.IntRange(lo, hi)
	left := geom.R(a.X, a.Y, splitX-a.X, a.Height)
	right := geom.R(splitX-1, a.Y, a.Right()-splitX+1, a.Height)
	p.replace(i, left, right)
}

// divideVertical splits along Y with the same shared wall convention.
func (p *partition) divideVertical(i int) {
	a := p.cells[i].area
	lo, hi, ok := p.splitRange(a.Y, a.Height)
	if !ok {
		return
	}
	splitY := p.rng.IntRange(lo, hi)
	top := geom.R(a.X, a.Y, a.Width, splitY-a.Y)
	bottom := geom.R(a.X, splitY-1, a.Width, a.Bottom()-splitY+1)
	p.replace(i, top, bottom)
}

// replace swaps cell i for its two children in the active set and keeps
// dividing each child.
func (p *partition) replace(i int, first, second geom.Rect) {
	l := p.add(first)
	r := p.add(second)
	p.cells[i].children = [2]int{l, r}
	p.cells[i].split = true

	p.active = append(p.active, l, r)
	if at := slices.Index(p.active, i); at >= 0 {
		p.active = slices.Delete(p.active, at, at+1)
	}

	p.divide(l)
	p.divide(r)
}

// leafRooms returns one room per active cell in active-set order.
func (p *partition) leafRooms() []*Room {
	rooms := make([]*Room, 0, len(p.active))
	for _, i := range p.active {
		rooms = append(rooms, NewRoom(p.cells[i].area))
	}
	return rooms
}

// removeExtremeAreas drops every room whose area equals the smallest or the
// largest area in the set. If that would drop every room the set is kept.
func removeExtremeAreas(rooms []*Room) ([]*Room, int) {
	if len(rooms) == 0 {
		return rooms, 0
	}
	minArea, maxArea := rooms[0].Area.Area(), rooms[0].Area.Area()
	for _, room := range rooms[1:] {
		a := room.Area.Area()
		minArea = min(minArea, a)
		maxArea = max(maxArea, a)
	}

	kept := slices.DeleteFunc(slices.Clone(rooms), func(room *Room) bool {
		a := room.Area.Area()
		return a == minArea || a == maxArea
	})
	if len(kept) == 0 {
		return rooms, 0
	}
	return kept, len(rooms) - len(kept)
}
