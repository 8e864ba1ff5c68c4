/*
Package catalog implements the lookup tables a track refers to by index:
themes, overlay tile sizes and patterns, and the size of the object view
area data.
*/
package catalog

// DefaultObjectAreaSize is the size in bytes of the object view area data
const DefaultObjectAreaSize = 10

// OverlayTileSize is the size in tiles of an overlay tile pattern
type OverlayTileSize struct {
	Width, Height int
}

// OverlayTileSizes is the catalog of overlay tile sizes
type OverlayTileSizes []OverlayTileSize

// OverlayTilePattern is a group of tiles drawn on top of the track map
type OverlayTilePattern struct {
	Name string
	// Size is an index into the overlay tile sizes
	Size int
}

// OverlayTilePatterns is the catalog of overlay tile patterns
type OverlayTilePatterns []OverlayTilePattern

// Game holds every catalog needed to read and write a track
type Game struct {
	themes         *Themes
	sizes          OverlayTileSizes
	patterns       OverlayTilePatterns
	objectAreaSize int
}

// NewGame returns a game context made from the given catalogs
func NewGame(themes *Themes, sizes OverlayTileSizes, patterns OverlayTilePatterns, objectAreaSize int) *Game {
	return &Game{
		themes:         themes,
		sizes:          sizes,
		patterns:       patterns,
		objectAreaSize: objectAreaSize,
	}
}

// Default returns the catalogs of the original game
func Default() *Game {
	themes := NewThemes(
		"Ghost Valley",
		"Mario Circuit",
		"Donut Plains",
		"Choco Island",
		"Vanilla Lake",
		"Koopa Beach",
		"Bowser Castle",
		"Rainbow Road",
	)

	sizes := OverlayTileSizes{
		{Width: 1, Height: 1},
		{Width: 2, Height: 2},
		{Width: 4, Height: 2},
		{Width: 2, Height: 4},
	}

	patterns := OverlayTilePatterns{
		{Name: "Pipe", Size: 1},
		{Name: "Thwomp", Size: 1},
		{Name: "Oil slick", Size: 2},
		{Name: "Puddle", Size: 2},
		{Name: "Zipper horizontal", Size: 2},
		{Name: "Zipper vertical", Size: 3},
		{Name: "Coin", Size: 0},
		{Name: "Question block", Size: 1},
		{Name: "Jump bar horizontal", Size: 2},
		{Name: "Jump bar vertical", Size: 3},
		{Name: "Mud", Size: 1},
		{Name: "Ice block", Size: 1},
	}

	return NewGame(themes, sizes, patterns, DefaultObjectAreaSize)
}

// Themes returns the theme catalog
func (g *Game) Themes() *Themes {
	return g.themes
}

// OverlayTileSizes returns the overlay tile size catalog
func (g *Game) OverlayTileSizes() OverlayTileSizes {
	return g.sizes
}

// OverlayTilePatterns returns the overlay tile pattern catalog
func (g *Game) OverlayTilePatterns() OverlayTilePatterns {
	return g.patterns
}

// ObjectAreaSize returns the size in bytes of the object view area data
func (g *Game) ObjectAreaSize() int {
	return g.objectAreaSize
}
