// Package world provides dungeon generation: recursive space partitioning into
// rooms and door placement on the walls rooms share.
package world

// Tile represents a single map cell when a dungeon is rasterized.
type Tile rune

const (
	// TileEmpty is a cell no room covers.
	TileEmpty Tile = ' '
	// TileWall is a cell on the outline of a room.
	TileWall Tile = '#'
	// TileFloor is a cell inside a room.
	TileFloor Tile = '.'
	// TileDoor is a cell holding a door.
	TileDoor Tile = '+'
)

// IsPassable returns true if the tile can be walked on.
func (t Tile) IsPassable() bool {
	return t == TileFloor || t == TileDoor
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return rune(t)
}
