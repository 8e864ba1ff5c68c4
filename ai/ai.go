/*
Package ai implements the conversion between the AI zones of a track and the
fixed row layout used to store them in a MAKE track file.

Each zone is stored in its own 32 byte row. The first three bytes hold the
target, rotated so that the last target byte comes first, and bytes 16 onwards
hold the area: a shape byte followed by four bytes for a rectangle or three
bytes for any other shape. The remaining bytes of each row are unused. A row
starting with 0xFF marks the end of the zones.
*/
package ai

import (
	"errors"
	"fmt"
)

const (
	// RowSize is the number of bytes per zone row
	RowSize = 32
	// Rows is the number of rows in the AI block
	Rows = 127
	// BlockSize is the size of the AI block
	BlockSize = RowSize * Rows
	// TargetSize is the number of bytes per target
	TargetSize = 3

	areaOffset = 16
	sentinel   = 0xff
)

var (
	// ErrTooManyRecords is returned when there are more zones than rows
	ErrTooManyRecords = errors.New("ai: too many records")
	// ErrMalformedRecordStream is returned when the area or target data
	// cannot be split into whole records
	ErrMalformedRecordStream = errors.New("ai: malformed record stream")
)

// targetLayout maps each logical target byte to its position within a row
var targetLayout = [TargetSize]int{1, 2, 0}

// Shape is the area shape discriminant
type Shape byte

// Area shapes
const (
	Rectangle           Shape = 0x00
	TriangleTopLeft     Shape = 0x02
	TriangleTopRight    Shape = 0x04
	TriangleBottomRight Shape = 0x06
	TriangleBottomLeft  Shape = 0x08
)

// payload returns the number of bytes following the shape byte
func (s Shape) payload() int {
	if s == Rectangle {
		return 4
	}
	return 3
}

func (s Shape) String() string {
	switch s {
	case Rectangle:
		return "rectangle"
	case TriangleTopLeft:
		return "triangle top left"
	case TriangleTopRight:
		return "triangle top right"
	case TriangleBottomRight:
		return "triangle bottom right"
	case TriangleBottomLeft:
		return "triangle bottom left"
	}
	return fmt.Sprintf("shape 0x%02x", byte(s))
}

// Target is the point the AI drives towards and its speed
type Target struct {
	X, Y  byte
	Speed byte
}

func (t Target) bytes() [TargetSize]byte {
	return [TargetSize]byte{t.X, t.Y, t.Speed}
}

// Area is the zone in which a target applies. Triangles only use Width,
// which holds their size.
type Area struct {
	Shape  Shape
	X, Y   byte
	Width  byte
	Height byte
}

// Size returns the triangle size
func (a Area) Size() byte {
	return a.Width
}

func (a Area) bytes() []byte {
	if a.Shape == Rectangle {
		return []byte{byte(a.Shape), a.X, a.Y, a.Width, a.Height}
	}
	return []byte{byte(a.Shape), a.X, a.Y, a.Width}
}

// Record is a single AI zone
type Record struct {
	Target Target
	Area   Area
}

// Unpack reads the rows of block up to the first sentinel row and returns
// the concatenated targets and area records
func Unpack(block []byte) ([]byte, []byte) {
	var targets, areas []byte

	for i := 0; i+RowSize <= len(block); i += RowSize {
		row := block[i : i+RowSize]
		if row[0] == sentinel {
			break
		}

		for _, p := range targetLayout {
			targets = append(targets, row[p])
		}

		shape := Shape(row[areaOffset])
		areas = append(areas, row[areaOffset:areaOffset+1+shape.payload()]...)
	}

	return targets, areas
}

// count validates the area records and returns how many there are
func count(areas []byte) (int, error) {
	n := 0
	for i := 0; i < len(areas); n++ {
		end := i + 1 + Shape(areas[i]).payload()
		if end > len(areas) {
			return 0, fmt.Errorf("%w: record %d needs %d bytes, %d left", ErrMalformedRecordStream, n, end-i, len(areas)-i)
		}
		i = end
	}
	return n, nil
}

// Pack writes the targets and area records into the rows of block. Rows
// after the last record are reset to 0xFF. block is not modified if an error
// is returned.
func Pack(block, targets, areas []byte) error {
	n, err := count(areas)
	if err != nil {
		return err
	}
	if rows := len(block) / RowSize; n > rows {
		return fmt.Errorf("%w: %d records, %d rows", ErrTooManyRecords, n, rows)
	}
	if len(targets) != n*TargetSize {
		return fmt.Errorf("%w: %d target bytes for %d records", ErrMalformedRecordStream, len(targets), n)
	}
	for i := 0; i < n; i++ {
		if targets[i*TargetSize+indexOf(0)] == sentinel {
			return fmt.Errorf("%w: target %d would end the table", ErrMalformedRecordStream, i)
		}
	}

	index := 0
	for x := 0; x < n; x++ {
		row := block[x*RowSize : (x+1)*RowSize]

		for i, p := range targetLayout {
			row[p] = targets[x*TargetSize+i]
		}

		size := 1 + Shape(areas[index]).payload()
		copy(row[areaOffset:], areas[index:index+size])
		index += size
	}

	for i := n * RowSize; i < len(block); i++ {
		block[i] = sentinel
	}

	return nil
}

// indexOf returns the logical target byte stored at row position p
func indexOf(p int) int {
	for i, q := range targetLayout {
		if q == p {
			return i
		}
	}
	return -1
}

// Parse splits the target and area data into records
func Parse(targets, areas []byte) ([]Record, error) {
	n, err := count(areas)
	if err != nil {
		return nil, err
	}
	if len(targets) != n*TargetSize {
		return nil, fmt.Errorf("%w: %d target bytes for %d records", ErrMalformedRecordStream, len(targets), n)
	}

	records := make([]Record, 0, n)
	for i, index := 0, 0; i < n; i++ {
		t := targets[i*TargetSize:]
		size := 1 + Shape(areas[index]).payload()
		records = append(records, Record{
			Target: Target{X: t[0], Y: t[1], Speed: t[2]},
			Area:   newArea(areas[index : index+size]),
		})
		index += size
	}

	return records, nil
}

func newArea(b []byte) Area {
	var a [5]byte
	copy(a[:], b)
	return Area{
		Shape:  Shape(a[0]),
		X:      a[1],
		Y:      a[2],
		Width:  a[3],
		Height: a[4],
	}
}

// Bytes returns the concatenated targets and area records of records
func Bytes(records []Record) ([]byte, []byte) {
	targets := make([]byte, 0, len(records)*TargetSize)
	areas := make([]byte, 0, len(records)*5)
	for _, r := range records {
		t := r.Target.bytes()
		targets = append(targets, t[:]...)
		areas = append(areas, r.Area.bytes()...)
	}
	return targets, areas
}

// Decode returns the records stored in block
func Decode(block []byte) []Record {
	var records []Record

	for i := 0; i+RowSize <= len(block); i += RowSize {
		row := block[i : i+RowSize]
		if row[0] == sentinel {
			break
		}

		var t [TargetSize]byte
		for j, p := range targetLayout {
			t[j] = row[p]
		}

		shape := Shape(row[areaOffset])
		records = append(records, Record{
			Target: Target{X: t[0], Y: t[1], Speed: t[2]},
			Area:   newArea(row[areaOffset : areaOffset+1+shape.payload()]),
		})
	}

	return records
}

// Encode writes records into block
func Encode(block []byte, records []Record) error {
	if rows := len(block) / RowSize; len(records) > rows {
		return fmt.Errorf("%w: %d records, %d rows", ErrTooManyRecords, len(records), rows)
	}
	targets, areas := Bytes(records)
	return Pack(block, targets, areas)
}
