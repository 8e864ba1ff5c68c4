package track

// LapLineSize is the size in bytes of the lap line data
const LapLineSize = 6

// LapLine is the line drivers cross to complete a lap and the area in which
// crossing it is detected
type LapLine struct {
	Y          uint16
	AreaX      byte
	AreaY      byte
	AreaWidth  byte
	AreaHeight byte
}

// NewLapLine returns the lap line stored in b
func NewLapLine(b [LapLineSize]byte) LapLine {
	return LapLine{
		Y:          uint16(b[0]) | uint16(b[1])<<8,
		AreaX:      b[2],
		AreaY:      b[3],
		AreaWidth:  b[4],
		AreaHeight: b[5],
	}
}

// Bytes returns the lap line in its stored form
func (l LapLine) Bytes() [LapLineSize]byte {
	return [LapLineSize]byte{
		byte(l.Y),
		byte(l.Y >> 8),
		l.AreaX,
		l.AreaY,
		l.AreaWidth,
		l.AreaHeight,
	}
}
