package track

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/bodgit/mkt/ai"
)

const snapshotVersion = 1

var snapshotMagic = [4]byte{'M', 'K', 'T', 'S'}

var errBadSnapshot = errors.New("track: invalid snapshot")

type snapshotHeader struct {
	Magic   [4]byte
	Version uint8
}

type snapshotFixed struct {
	Map                  Map
	StartPosition        GPStartPosition
	LapLine              [LapLineSize]byte
	BattleStartP1        [BattleStartPositionSize]byte
	BattleStartP2        [BattleStartPositionSize]byte
	Positions            [ObjectsSize]byte
	Tileset              uint8
	Interaction          uint8
	Routine              uint8
	Palettes             PaletteIndexes
	Flashing             uint8
	ItemProbabilityIndex uint8
}

func writeBlob(w io.Writer, b []byte) error {
	if len(b) > math.MaxUint16 {
		return fmt.Errorf("%w: %d byte blob", ErrValueOutOfRange, len(b))
	}
	if err := binary.Write(w, binary.BigEndian, uint16(len(b))); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readBlob(r io.Reader) ([]byte, error) {
	var n uint16
	if err := binary.Read(r, binary.BigEndian, &n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

// MarshalBinary encodes everything but the name and theme of the track into
// binary form and returns the result
func (t *Track) MarshalBinary() ([]byte, error) {
	if t.ItemProbabilityIndex < 0 || t.ItemProbabilityIndex > MaxItemProbabilityIndex {
		return nil, fmt.Errorf("%w: item probability index %d", ErrValueOutOfRange, t.ItemProbabilityIndex)
	}

	b := new(bytes.Buffer)

	if err := binary.Write(b, binary.BigEndian, snapshotHeader{Magic: snapshotMagic, Version: snapshotVersion}); err != nil {
		return nil, err
	}

	var positions [ObjectsSize]byte
	copy(positions[:], t.Objects.Bytes())

	fixed := snapshotFixed{
		Map:                  t.Map,
		StartPosition:        t.StartPosition,
		LapLine:              t.LapLine.Bytes(),
		BattleStartP1:        t.BattleStartP1.Bytes(),
		BattleStartP2:        t.BattleStartP2.Bytes(),
		Positions:            positions,
		Tileset:              t.Objects.Tileset,
		Interaction:          t.Objects.Interaction,
		Routine:              t.Objects.Routine,
		Palettes:             t.Objects.Palettes,
		ItemProbabilityIndex: uint8(t.ItemProbabilityIndex),
	}
	if t.Objects.Flashing {
		fixed.Flashing = 1
	}
	if err := binary.Write(b, binary.BigEndian, &fixed); err != nil {
		return nil, err
	}

	// Overlay tiles are stored without resolving their patterns
	overlay := make([]byte, 0, len(t.OverlayTiles)*overlayTileBytes)
	for _, o := range t.OverlayTiles {
		overlay = append(overlay, byte(o.Pattern), byte(o.X), byte(o.Y))
	}

	targets, areas := ai.Bytes(t.AI)

	for _, blob := range [][]byte{overlay, t.Objects.Areas, targets, areas} {
		if err := writeBlob(b, blob); err != nil {
			return nil, err
		}
	}

	return b.Bytes(), nil
}

// UnmarshalBinary decodes the track from binary form. The name and theme are
// left untouched.
func (t *Track) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)

	var header snapshotHeader
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return err
	}
	if header.Magic != snapshotMagic || header.Version != snapshotVersion {
		return errBadSnapshot
	}

	var fixed snapshotFixed
	if err := binary.Read(r, binary.BigEndian, &fixed); err != nil {
		return err
	}

	var blobs [4][]byte
	for i := range blobs {
		b, err := readBlob(r)
		if err != nil {
			return err
		}
		blobs[i] = b
	}
	if r.Len() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", errBadSnapshot, r.Len())
	}

	if len(blobs[0])%overlayTileBytes != 0 {
		return fmt.Errorf("%w: overlay data is %d bytes", errBadSnapshot, len(blobs[0]))
	}
	var overlay OverlayTiles
	for i := 0; i < len(blobs[0]); i += overlayTileBytes {
		overlay = append(overlay, OverlayTile{
			Pattern: int(blobs[0][i]),
			X:       int(blobs[0][i+1]),
			Y:       int(blobs[0][i+2]),
		})
	}

	records, err := ai.Parse(blobs[2], blobs[3])
	if err != nil {
		return err
	}

	t.Map = fixed.Map
	t.OverlayTiles = overlay
	t.StartPosition = fixed.StartPosition
	t.LapLine = NewLapLine(fixed.LapLine)
	t.BattleStartP1 = NewBattleStartPosition(fixed.BattleStartP1)
	t.BattleStartP2 = NewBattleStartPosition(fixed.BattleStartP2)
	t.Objects = Objects{
		Positions:   NewObjectPositions(fixed.Positions[:]),
		Areas:       ObjectAreas(blobs[1]),
		AI:          records,
		Tileset:     fixed.Tileset,
		Interaction: fixed.Interaction,
		Routine:     fixed.Routine,
		Palettes:    fixed.Palettes,
		Flashing:    fixed.Flashing != 0,
	}
	t.AI = records
	t.ItemProbabilityIndex = int(fixed.ItemProbabilityIndex)

	return nil
}
