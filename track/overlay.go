package track

import (
	"errors"
	"fmt"

	"github.com/bodgit/mkt/catalog"
)

const (
	// OverlayTilesSize is the size in bytes of the overlay tile data
	OverlayTilesSize = 128
	// MaxOverlayTiles is the number of overlay tiles that fit in the data
	MaxOverlayTiles = OverlayTilesSize / overlayTileBytes

	overlayTileBytes = 3
	overlayEnd       = 0xff
)

var (
	// ErrUnknownOverlayPattern is returned when an overlay tile refers to
	// a pattern missing from the catalog
	ErrUnknownOverlayPattern = errors.New("track: unknown overlay tile pattern")
	// ErrTooManyOverlayTiles is returned when there are more overlay tiles
	// than fit in the data
	ErrTooManyOverlayTiles = errors.New("track: too many overlay tiles")
	// ErrOverlayOutOfBounds is returned when an overlay tile does not fit
	// within the map
	ErrOverlayOutOfBounds = errors.New("track: overlay tile out of bounds")
)

// OverlayTile is a tile pattern drawn over the map at a given location
type OverlayTile struct {
	Pattern int
	X, Y    int
}

// OverlayTiles is the list of overlay tiles of a track
type OverlayTiles []OverlayTile

func checkOverlayTile(t OverlayTile, sizes catalog.OverlayTileSizes, patterns catalog.OverlayTilePatterns) error {
	if t.Pattern < 0 || t.Pattern >= len(patterns) || t.Pattern == overlayEnd {
		return fmt.Errorf("%w: %d", ErrUnknownOverlayPattern, t.Pattern)
	}
	p := patterns[t.Pattern]
	if p.Size < 0 || p.Size >= len(sizes) {
		return fmt.Errorf("%w: %q has size %d", ErrUnknownOverlayPattern, p.Name, p.Size)
	}
	size := sizes[p.Size]
	if t.X < 0 || t.Y < 0 || t.X+size.Width > MapSize || t.Y+size.Height > MapSize {
		return fmt.Errorf("%w: %q at %d, %d", ErrOverlayOutOfBounds, p.Name, t.X, t.Y)
	}
	return nil
}

// DecodeOverlayTiles reads overlay tiles from b, resolving each pattern
// through the catalogs
func DecodeOverlayTiles(b []byte, sizes catalog.OverlayTileSizes, patterns catalog.OverlayTilePatterns) (OverlayTiles, error) {
	var tiles OverlayTiles
	for i := 0; i+overlayTileBytes <= len(b) && b[i] != overlayEnd; i += overlayTileBytes {
		t := OverlayTile{
			Pattern: int(b[i]),
			X:       int(b[i+1]),
			Y:       int(b[i+2]),
		}
		if err := checkOverlayTile(t, sizes, patterns); err != nil {
			return nil, err
		}
		tiles = append(tiles, t)
	}
	return tiles, nil
}

// Encode returns the overlay tiles in their stored form, padded with 0xFF
func (o OverlayTiles) Encode(sizes catalog.OverlayTileSizes, patterns catalog.OverlayTilePatterns) ([]byte, error) {
	if len(o) > MaxOverlayTiles {
		return nil, fmt.Errorf("%w: %d", ErrTooManyOverlayTiles, len(o))
	}

	b := make([]byte, OverlayTilesSize)
	for i := range b {
		b[i] = overlayEnd
	}

	for i, t := range o {
		if err := checkOverlayTile(t, sizes, patterns); err != nil {
			return nil, err
		}
		b[i*overlayTileBytes] = byte(t.Pattern)
		b[i*overlayTileBytes+1] = byte(t.X)
		b[i*overlayTileBytes+2] = byte(t.Y)
	}

	return b, nil
}
