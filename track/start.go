package track

import "encoding/binary"

// BattleStartPositionSize is the size in bytes of a battle start position
const BattleStartPositionSize = 4

// GPStartPosition is the grand prix starting grid position
type GPStartPosition struct {
	X, Y int16
	// SecondRowOffset is the horizontal offset of the second row of
	// drivers
	SecondRowOffset int16
}

// BattleStartPosition is the start position of one player in battle mode
type BattleStartPosition struct {
	X, Y uint16
}

// NewBattleStartPosition returns the position stored in b
func NewBattleStartPosition(b [BattleStartPositionSize]byte) BattleStartPosition {
	return BattleStartPosition{
		X: binary.LittleEndian.Uint16(b[0:2]),
		Y: binary.LittleEndian.Uint16(b[2:4]),
	}
}

// Bytes returns the position in its stored form
func (p BattleStartPosition) Bytes() [BattleStartPositionSize]byte {
	var b [BattleStartPositionSize]byte
	binary.LittleEndian.PutUint16(b[0:2], p.X)
	binary.LittleEndian.PutUint16(b[2:4], p.Y)
	return b
}
