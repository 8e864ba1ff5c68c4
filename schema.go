package mkt

import (
	"bytes"

	"github.com/bodgit/mkt/ai"
	"github.com/bodgit/mkt/field"
	"github.com/bodgit/mkt/track"
)

// Field handles, in the order the fields are declared and written
const (
	startX field.ID = iota
	startY
	startW
	lapLineAreaX
	lapLineAreaY
	lapLineAreaW
	lapLineAreaH
	lapLineY
	themeRegion
	battleStart1
	battleStart2
	objTileset
	objInteract
	objRoutine
	objPalettes
	objFlashing
	itemProba
	tileMap
	overlayTiles
	aiArea
	objects
	objectAreas
)

const objectsCapacity = 64

func filled(n int, b byte) []byte {
	return bytes.Repeat([]byte{b}, n)
}

// newSchema returns every known field with its default value. The object
// view area data is sized by the game catalog.
func newSchema(game Game) []field.Field {
	return []field.Field{
		startX:       {Name: "SP_STX", Capacity: 2},
		startY:       {Name: "SP_STY", Capacity: 2},
		startW:       {Name: "SP_STW", Capacity: 2},
		lapLineAreaX: {Name: "SP_LSPX", Capacity: 2},
		lapLineAreaY: {Name: "SP_LSPY", Capacity: 2},
		lapLineAreaW: {Name: "SP_LSPW", Capacity: 2},
		lapLineAreaH: {Name: "SP_LSPH", Capacity: 2},
		lapLineY:     {Name: "SP_LSLY", Capacity: 2},
		themeRegion:  {Name: "SP_REGION", Capacity: 2, Default: []byte{0x00, 0x02}},
		battleStart1: {Name: "EE_BATTLESTART1", Capacity: 4, Default: []byte{0x00, 0x02, 0x78, 0x02}},
		battleStart2: {Name: "EE_BATTLESTART2", Capacity: 4, Default: []byte{0x00, 0x02, 0x88, 0x01}},
		objTileset:   {Name: "EE_OBJTILESET", Capacity: 2},
		objInteract:  {Name: "EE_OBJINTERACT", Capacity: 2},
		objRoutine:   {Name: "EE_OBJROUTINE", Capacity: 2},
		objPalettes:  {Name: "EE_OBJPALETTES", Capacity: 4},
		objFlashing:  {Name: "EE_OBJFLASHING", Capacity: 2},
		itemProba:    {Name: "EE_ITEMPROBA", Capacity: 2},
		tileMap:      {Name: "MAP", Capacity: track.MapSquareSize},
		overlayTiles: {Name: "GPEX", Capacity: track.OverlayTilesSize, Default: filled(track.OverlayTilesSize, 0xff)},
		aiArea:       {Name: "AREA", Capacity: ai.BlockSize, Default: filled(ai.BlockSize, 0xff)},
		objects:      {Name: "OBJ", Capacity: objectsCapacity},
		objectAreas:  {Name: "AREA_BORDER", Capacity: game.ObjectAreaSize(), Default: filled(game.ObjectAreaSize(), 0xff)},
	}
}

// byteRef locates a single byte within a field
type byteRef struct {
	id    field.ID
	index int
}

// lapLineLayout maps each byte of track.LapLine to the field holding it
var lapLineLayout = [track.LapLineSize]byteRef{
	{lapLineY, 1},
	{lapLineY, 0},
	{lapLineAreaX, 1},
	{lapLineAreaY, 1},
	{lapLineAreaW, 1},
	{lapLineAreaH, 1},
}

// objectLayout maps the object properties to the fields holding them
var objectLayout = [3 + track.PaletteIndexesSize + 1]byteRef{
	{objTileset, 1},
	{objInteract, 1},
	{objRoutine, 1},
	{objPalettes, 0},
	{objPalettes, 1},
	{objPalettes, 2},
	{objPalettes, 3},
	{objFlashing, 1},
}

func gather(t *field.Table, layout []byteRef) []byte {
	b := make([]byte, len(layout))
	for i, r := range layout {
		b[i] = t.Bytes(r.id)[r.index]
	}
	return b
}

// scatter writes b across the fields in layout. Bytes of those fields not
// covered by the layout are zeroed.
func scatter(t *field.Table, layout []byteRef, b []byte) {
	pending := make(map[field.ID][]byte)
	var order []field.ID
	for i, r := range layout {
		buf, ok := pending[r.id]
		if !ok {
			buf = make([]byte, len(t.Bytes(r.id)))
			pending[r.id] = buf
			order = append(order, r.id)
		}
		buf[r.index] = b[i]
	}
	for _, id := range order {
		mustPut(t, id, pending[id])
	}
}

func mustPut(t *field.Table, id field.ID, b []byte) {
	if err := t.Put(id, b); err != nil {
		panic(err)
	}
}
