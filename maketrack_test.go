package mkt

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bodgit/mkt/ai"
	"github.com/bodgit/mkt/catalog"
	"github.com/bodgit/mkt/field"
	"github.com/bodgit/mkt/hexfile"
	"github.com/bodgit/mkt/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMakeTrack(t *testing.T) *MakeTrack {
	m, err := NewMakeTrack(catalog.Default(), nil)
	require.NoError(t, err)
	return m
}

func rawField(t *testing.T, m *MakeTrack, name string) []byte {
	b, err := m.Field(name)
	require.NoError(t, err)
	return b
}

func testTrack(t *testing.T, game *catalog.Game) *track.Track {
	theme, err := game.Themes().Theme(catalog.ChocoIsland)
	require.NoError(t, err)

	tr := &track.Track{
		Name:          "Choco Island 3",
		Theme:         theme,
		OverlayTiles:  track.OverlayTiles{{Pattern: 10, X: 40, Y: 50}, {Pattern: 4, X: 90, Y: 12}},
		StartPosition: track.GPStartPosition{X: 0x390, Y: 0x2a8, SecondRowOffset: -16},
		LapLine:       track.LapLine{Y: 0x2a0, AreaX: 0x70, AreaY: 0x52, AreaWidth: 0x09, AreaHeight: 0x02},
		BattleStartP1: track.BattleStartPosition{X: 0x1f0, Y: 0x300},
		BattleStartP2: track.BattleStartPosition{X: 0x210, Y: 0x100},
		AI: []ai.Record{
			{Target: ai.Target{X: 0x30, Y: 0x20, Speed: 2}, Area: ai.Area{Shape: ai.Rectangle, X: 0x2c, Y: 0x1c, Width: 0x08, Height: 0x08}},
			{Target: ai.Target{X: 0x40, Y: 0x10, Speed: 3}, Area: ai.Area{Shape: ai.TriangleTopRight, X: 0x3c, Y: 0x0c, Width: 0x06}},
			{Target: ai.Target{X: 0x50, Y: 0x18, Speed: 1}, Area: ai.Area{Shape: ai.Rectangle, X: 0x4a, Y: 0x10, Width: 0x0c, Height: 0x0a}},
		},
		ItemProbabilityIndex: 3,
		Objects: track.Objects{
			Areas:       track.ObjectAreas{0x10, 0x20, 0x30, 0x40, 0xff, 0x11, 0x21, 0x31, 0x41, 0xff},
			Tileset:     3,
			Interaction: 1,
			Routine:     2,
			Palettes:    track.PaletteIndexes{0, 1, 2, 3},
			Flashing:    true,
		},
	}
	for i := 0; i < track.MapSquareSize; i++ {
		tr.Map[i] = byte(i * 7)
	}
	for i := range tr.Objects.Positions {
		tr.Objects.Positions[i] = track.ObjectPosition{X: byte(i * 5), Y: byte(i * 3)}
	}
	return tr
}

func TestDefaults(t *testing.T) {
	m := newMakeTrack(t)

	theme, err := m.Theme()
	require.NoError(t, err)
	assert.Equal(t, "Mario Circuit", theme.Name)

	assert.Equal(t, track.BattleStartPosition{X: 0x200, Y: 0x278}, m.BattleStartP1())
	assert.Equal(t, track.BattleStartPosition{X: 0x200, Y: 0x188}, m.BattleStartP2())
	assert.Equal(t, track.GPStartPosition{}, m.StartPosition())
	assert.Empty(t, m.AI())
	assert.Equal(t, 0, m.ItemProbabilityIndex())

	overlay, err := m.OverlayTiles()
	require.NoError(t, err)
	assert.Empty(t, overlay)

	assert.Equal(t, bytes.Repeat([]byte{0xff}, catalog.DefaultObjectAreaSize), rawField(t, m, "AREA_BORDER"))
	assert.Equal(t, make([]byte, objectsCapacity), rawField(t, m, "OBJ"))
	assert.Len(t, rawField(t, m, "AREA"), 4064)
	assert.Len(t, rawField(t, m, "MAP"), 128*128)
}

func TestStartPosition(t *testing.T) {
	m := newMakeTrack(t)
	p := track.GPStartPosition{X: 0x0123, Y: -2, SecondRowOffset: 0x7fff}
	m.SetStartPosition(p)

	assert.Equal(t, []byte{0x01, 0x23}, rawField(t, m, "SP_STX"))
	assert.Equal(t, []byte{0xff, 0xfe}, rawField(t, m, "SP_STY"))
	assert.Equal(t, []byte{0x7f, 0xff}, rawField(t, m, "SP_STW"))
	assert.Equal(t, p, m.StartPosition())
}

func TestLapLine(t *testing.T) {
	m := newMakeTrack(t)
	require.NoError(t, m.SetField("SP_LSPX", []byte{0xee, 0xee}))

	l := track.LapLine{Y: 0x0312, AreaX: 0x0a, AreaY: 0x0b, AreaWidth: 0x0c, AreaHeight: 0x0d}
	m.SetLapLine(l)

	assert.Equal(t, []byte{0x03, 0x12}, rawField(t, m, "SP_LSLY"))
	assert.Equal(t, []byte{0x00, 0x0a}, rawField(t, m, "SP_LSPX"))
	assert.Equal(t, []byte{0x00, 0x0b}, rawField(t, m, "SP_LSPY"))
	assert.Equal(t, []byte{0x00, 0x0c}, rawField(t, m, "SP_LSPW"))
	assert.Equal(t, []byte{0x00, 0x0d}, rawField(t, m, "SP_LSPH"))
	assert.Equal(t, l, m.LapLine())
}

func TestLayoutsAreSymmetric(t *testing.T) {
	for name, layout := range map[string][]byteRef{
		"lap line": lapLineLayout[:],
		"objects":  objectLayout[:],
	} {
		m := newMakeTrack(t)
		want := make([]byte, len(layout))
		for i := range want {
			want[i] = byte(0xa0 + i)
		}
		scatter(m.fields, layout, want)
		assert.Equal(t, want, gather(m.fields, layout), name)
	}
}

func TestTheme(t *testing.T) {
	m := newMakeTrack(t)
	themes := catalog.Default().Themes()

	theme, err := themes.Theme(catalog.BowserCastle)
	require.NoError(t, err)
	require.NoError(t, m.SetTheme(theme))
	assert.Equal(t, []byte{0x00, catalog.BowserCastle << 1}, rawField(t, m, "SP_REGION"))

	got, err := m.Theme()
	require.NoError(t, err)
	assert.Equal(t, theme.Name, got.Name)

	err = m.SetTheme(&catalog.Theme{Name: "Moo Moo Farm"})
	assert.True(t, errors.Is(err, catalog.ErrUnknownTheme))
	assert.Equal(t, []byte{0x00, catalog.BowserCastle << 1}, rawField(t, m, "SP_REGION"))

	require.NoError(t, m.SetField("SP_REGION", []byte{0x00, 0x20}))
	_, err = m.Theme()
	assert.True(t, errors.Is(err, catalog.ErrInvalidThemeIndex))
}

func TestItemProbabilityIndex(t *testing.T) {
	m := newMakeTrack(t)
	require.NoError(t, m.SetItemProbabilityIndex(5))
	assert.Equal(t, []byte{0x00, 0x0a}, rawField(t, m, "EE_ITEMPROBA"))
	assert.Equal(t, 5, m.ItemProbabilityIndex())

	require.NoError(t, m.SetItemProbabilityIndex(track.MaxItemProbabilityIndex))
	assert.Equal(t, []byte{0x00, 0xfe}, rawField(t, m, "EE_ITEMPROBA"))

	for _, i := range []int{-1, track.MaxItemProbabilityIndex + 1, 300} {
		err := m.SetItemProbabilityIndex(i)
		assert.True(t, errors.Is(err, track.ErrValueOutOfRange), err)
	}
	assert.Equal(t, track.MaxItemProbabilityIndex, m.ItemProbabilityIndex())
}

func TestObjects(t *testing.T) {
	m := newMakeTrack(t)
	require.NoError(t, m.SetField("OBJ", bytes.Repeat([]byte{0x11}, objectsCapacity)))

	o := m.Objects()
	assert.Equal(t, track.ObjectPosition{X: 0x11, Y: 0x11}, o.Positions[track.MaxObjects-1])

	o.Tileset = 4
	o.Interaction = 5
	o.Routine = 6
	o.Palettes = track.PaletteIndexes{7, 8, 9, 10}
	o.Flashing = true
	o.AI = []ai.Record{{Target: ai.Target{X: 1, Y: 2, Speed: 3}, Area: ai.Area{Shape: ai.TriangleTopLeft, X: 4, Y: 5, Width: 6}}}
	require.NoError(t, m.SetObjects(o))

	obj := rawField(t, m, "OBJ")
	assert.Equal(t, bytes.Repeat([]byte{0x11}, track.ObjectsSize), obj[:track.ObjectsSize])
	assert.Equal(t, make([]byte, objectsCapacity-track.ObjectsSize), obj[track.ObjectsSize:])

	assert.Equal(t, []byte{0x00, 0x04}, rawField(t, m, "EE_OBJTILESET"))
	assert.Equal(t, []byte{0x00, 0x05}, rawField(t, m, "EE_OBJINTERACT"))
	assert.Equal(t, []byte{0x00, 0x06}, rawField(t, m, "EE_OBJROUTINE"))
	assert.Equal(t, []byte{7, 8, 9, 10}, rawField(t, m, "EE_OBJPALETTES"))
	assert.Equal(t, []byte{0x00, 0x01}, rawField(t, m, "EE_OBJFLASHING"))

	assert.Equal(t, o, m.Objects())

	o.Areas = o.Areas[:3]
	err := m.SetObjects(o)
	assert.True(t, errors.Is(err, field.ErrLengthMismatch))
}

func TestSetAI(t *testing.T) {
	m := newMakeTrack(t)

	records := testTrack(t, catalog.Default()).AI
	require.NoError(t, m.SetAI(records))
	assert.Equal(t, records, m.AI())

	area := rawField(t, m, "AREA")
	assert.Equal(t, []byte{0x02, 0x30, 0x20}, area[:3])

	many := make([]ai.Record, ai.Rows+1)
	err := m.SetAI(many)
	assert.True(t, errors.Is(err, ai.ErrTooManyRecords))
	assert.Equal(t, area, rawField(t, m, "AREA"))
}

func TestReadWrite(t *testing.T) {
	game := catalog.Default()

	m, err := NewMakeTrack(game, nil)
	require.NoError(t, err)
	require.NoError(t, m.CopyFrom(testTrack(t, game)))

	b := new(bytes.Buffer)
	require.NoError(t, m.Write(b))
	text := b.String()

	n, err := NewMakeTrack(game, nil)
	require.NoError(t, err)
	require.NoError(t, n.Read(strings.NewReader(text)))

	b.Reset()
	require.NoError(t, n.Write(b))
	assert.Equal(t, text, b.String())
}

func TestReadInvalidLength(t *testing.T) {
	m := newMakeTrack(t)
	require.NoError(t, m.SetField("SP_STX", []byte{0x01, 0x02}))

	err := m.Read(strings.NewReader("#SP_STY 0304\n#SP_STX 123\n"))
	assert.True(t, errors.Is(err, hexfile.ErrInvalidLength))
	assert.Equal(t, []byte{0x01, 0x02}, rawField(t, m, "SP_STX"))
	assert.Equal(t, []byte{0x00, 0x00}, rawField(t, m, "SP_STY"))
}

func TestImportExport(t *testing.T) {
	game := catalog.Default()
	dir := t.TempDir()
	file := filepath.Join(dir, "track.mkt")

	track1 := testTrack(t, game)
	require.NoError(t, Export(file, track1, game, nil))

	track2 := &track.Track{Name: "Mario Circuit 1"}
	track2.Map.Set(0, 0, 0x99)
	require.NoError(t, Import(file, track2, game, nil))

	assert.Equal(t, track1.Map.Bytes(), track2.Map.Bytes())

	id1, err := game.Themes().ID(track1.Theme)
	require.NoError(t, err)
	id2, err := game.Themes().ID(track2.Theme)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)

	assert.Equal(t, "Mario Circuit 1", track2.Name)
	assert.Equal(t, track1.OverlayTiles, track2.OverlayTiles)
	assert.Equal(t, track1.StartPosition, track2.StartPosition)
	assert.Equal(t, track1.LapLine, track2.LapLine)
	assert.Equal(t, track1.BattleStartP1, track2.BattleStartP1)
	assert.Equal(t, track1.BattleStartP2, track2.BattleStartP2)
	assert.Equal(t, track1.AI, track2.AI)
	assert.Equal(t, track1.AI, track2.Objects.AI)
	assert.Equal(t, track1.ItemProbabilityIndex, track2.ItemProbabilityIndex)
	assert.Equal(t, track1.Objects.Positions, track2.Objects.Positions)
	assert.Equal(t, track1.Objects.Areas, track2.Objects.Areas)
	assert.Equal(t, track1.Objects.Palettes, track2.Objects.Palettes)
	assert.True(t, track2.Objects.Flashing)

	// Re-exporting the imported track reproduces the same file
	again := filepath.Join(dir, "again.mkt")
	require.NoError(t, Export(again, track2, game, nil))

	b1, err := os.ReadFile(file)
	require.NoError(t, err)
	b2, err := os.ReadFile(again)
	require.NoError(t, err)
	assert.Equal(t, b1, b2)
}

func TestExportError(t *testing.T) {
	game := catalog.Default()
	file := filepath.Join(t.TempDir(), "track.mkt")

	tr := testTrack(t, game)
	tr.Theme = &catalog.Theme{Name: "Moo Moo Farm"}

	err := Export(file, tr, game, nil)
	assert.True(t, errors.Is(err, catalog.ErrUnknownTheme))

	_, err = os.Stat(file)
	assert.True(t, os.IsNotExist(err))
}

func TestImportError(t *testing.T) {
	game := catalog.Default()
	file := filepath.Join(t.TempDir(), "track.mkt")
	require.NoError(t, os.WriteFile(file, []byte("#SP_REGION 0040\n"), 0644))

	tr := testTrack(t, game)
	before := *tr

	err := Import(file, tr, game, nil)
	assert.True(t, errors.Is(err, catalog.ErrInvalidThemeIndex))
	assert.Equal(t, before, *tr)

	_, err = os.Stat(filepath.Join(t.TempDir(), "missing.mkt"))
	require.Error(t, err)
	assert.Error(t, Import(filepath.Join(t.TempDir(), "missing.mkt"), tr, game, nil))
}
