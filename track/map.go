package track

const (
	// MapSize is the width and height of a track in tiles
	MapSize = 128
	// MapSquareSize is the number of tiles in a track
	MapSquareSize = MapSize * MapSize
)

// Map is the tile map of a track, one byte per tile in row order
type Map [MapSquareSize]byte

// NewMap returns a map read from b. Missing tiles are zero.
func NewMap(b []byte) Map {
	var m Map
	copy(m[:], b)
	return m
}

// At returns the tile at x, y
func (m *Map) At(x, y int) byte {
	return m[y*MapSize+x]
}

// Set sets the tile at x, y
func (m *Map) Set(x, y int, tile byte) {
	m[y*MapSize+x] = tile
}

// Bytes returns a copy of the map data
func (m *Map) Bytes() []byte {
	return append([]byte(nil), m[:]...)
}
