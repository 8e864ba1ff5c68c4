package track

import "github.com/bodgit/mkt/ai"

const (
	// MaxObjects is the number of objects on a track
	MaxObjects = 22
	// ObjectsSize is the size in bytes of the object position data
	ObjectsSize = MaxObjects * 2
	// PaletteIndexesSize is the number of object palettes
	PaletteIndexesSize = 4
)

// ObjectPosition is the location of an object in tiles
type ObjectPosition struct {
	X, Y byte
}

// PaletteIndexes selects the palettes used to draw objects
type PaletteIndexes [PaletteIndexesSize]byte

// ObjectAreas holds the view area borders that decide which objects are
// active
type ObjectAreas []byte

// Bytes returns a copy of the area data
func (a ObjectAreas) Bytes() []byte {
	return append([]byte(nil), a...)
}

// Objects is the object configuration of a track
type Objects struct {
	Positions   [MaxObjects]ObjectPosition
	Areas       ObjectAreas
	AI          []ai.Record
	Tileset     byte
	Interaction byte
	Routine     byte
	Palettes    PaletteIndexes
	Flashing    bool
}

// NewObjectPositions reads up to MaxObjects positions from b
func NewObjectPositions(b []byte) [MaxObjects]ObjectPosition {
	var p [MaxObjects]ObjectPosition
	for i := range p {
		if i*2+1 >= len(b) {
			break
		}
		p[i] = ObjectPosition{X: b[i*2], Y: b[i*2+1]}
	}
	return p
}

// Bytes returns the object position data
func (o *Objects) Bytes() []byte {
	b := make([]byte, ObjectsSize)
	for i, p := range o.Positions {
		b[i*2] = p.X
		b[i*2+1] = p.Y
	}
	return b
}
