package mkt

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/bodgit/mkt/ai"
	"github.com/bodgit/mkt/catalog"
	"github.com/bodgit/mkt/field"
	"github.com/bodgit/mkt/hexfile"
	"github.com/bodgit/mkt/track"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Game provides the catalogs a track refers to
type Game interface {
	Themes() *catalog.Themes
	OverlayTileSizes() catalog.OverlayTileSizes
	OverlayTilePatterns() catalog.OverlayTilePatterns
	ObjectAreaSize() int
}

// MakeTrack holds the fields of a MAKE track file and provides typed access
// to them. A MakeTrack is not safe for concurrent use.
type MakeTrack struct {
	game   Game
	fields *field.Table
	sugar  *zap.SugaredLogger
}

// NewMakeTrack returns a MakeTrack with every field set to its default value
func NewMakeTrack(game Game, logger *zap.Logger) (*MakeTrack, error) {
	fields, err := field.NewTable(newSchema(game)...)
	if err != nil {
		return nil, err
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &MakeTrack{
		game:   game,
		fields: fields,
		sugar:  logger.Sugar().With("session", uuid.New().String()),
	}, nil
}

// Read replaces the fields with those read from r. Fields missing from r
// keep their current value. On error no field is modified.
func (m *MakeTrack) Read(r io.Reader) error {
	unknown, err := hexfile.Decode(r, m.fields)
	if err != nil {
		return err
	}
	for _, name := range unknown {
		m.sugar.Debugw("Skipped unknown field", "field", name)
	}
	return nil
}

// Load reads the MAKE track file at path
func (m *MakeTrack) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := m.Read(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	m.sugar.Debugw("Loaded track file", "file", path)

	return nil
}

// Write writes every field to w
func (m *MakeTrack) Write(w io.Writer) error {
	return hexfile.Encode(w, m.fields)
}

// Save writes the fields as a MAKE track file at path. Nothing is written if
// the fields cannot be encoded.
func (m *MakeTrack) Save(path string) error {
	b := new(bytes.Buffer)
	if err := m.Write(b); err != nil {
		return err
	}

	if err := os.WriteFile(path, b.Bytes(), 0644); err != nil {
		return err
	}

	m.sugar.Debugw("Saved track file", "file", path)

	return nil
}

// Field returns the raw contents of the named field
func (m *MakeTrack) Field(name string) ([]byte, error) {
	return m.fields.Get(name)
}

// SetField replaces the raw contents of the named field
func (m *MakeTrack) SetField(name string, b []byte) error {
	return m.fields.Set(name, b)
}

// Map returns the tile map
func (m *MakeTrack) Map() track.Map {
	return track.NewMap(m.fields.Bytes(tileMap))
}

// SetMap sets the tile map
func (m *MakeTrack) SetMap(tiles track.Map) {
	mustPut(m.fields, tileMap, tiles.Bytes())
}

// Theme returns the theme
func (m *MakeTrack) Theme() (*catalog.Theme, error) {
	return m.game.Themes().Theme(int(m.fields.Bytes(themeRegion)[1] >> 1))
}

// SetTheme sets the theme
func (m *MakeTrack) SetTheme(theme *catalog.Theme) error {
	id, err := m.game.Themes().ID(theme)
	if err != nil {
		return err
	}
	mustPut(m.fields, themeRegion, []byte{0, id})
	return nil
}

// OverlayTiles returns the overlay tiles
func (m *MakeTrack) OverlayTiles() (track.OverlayTiles, error) {
	return track.DecodeOverlayTiles(m.fields.Bytes(overlayTiles), m.game.OverlayTileSizes(), m.game.OverlayTilePatterns())
}

// SetOverlayTiles sets the overlay tiles
func (m *MakeTrack) SetOverlayTiles(tiles track.OverlayTiles) error {
	b, err := tiles.Encode(m.game.OverlayTileSizes(), m.game.OverlayTilePatterns())
	if err != nil {
		return err
	}
	mustPut(m.fields, overlayTiles, b)
	return nil
}

func (m *MakeTrack) int16(id field.ID) int16 {
	return int16(binary.BigEndian.Uint16(m.fields.Bytes(id)))
}

func (m *MakeTrack) putInt16(id field.ID, v int16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	mustPut(m.fields, id, b[:])
}

// StartPosition returns the grand prix start position
func (m *MakeTrack) StartPosition() track.GPStartPosition {
	return track.GPStartPosition{
		X:               m.int16(startX),
		Y:               m.int16(startY),
		SecondRowOffset: m.int16(startW),
	}
}

// SetStartPosition sets the grand prix start position
func (m *MakeTrack) SetStartPosition(p track.GPStartPosition) {
	m.putInt16(startX, p.X)
	m.putInt16(startY, p.Y)
	m.putInt16(startW, p.SecondRowOffset)
}

// LapLine returns the lap line
func (m *MakeTrack) LapLine() track.LapLine {
	var b [track.LapLineSize]byte
	copy(b[:], gather(m.fields, lapLineLayout[:]))
	return track.NewLapLine(b)
}

// SetLapLine sets the lap line
func (m *MakeTrack) SetLapLine(l track.LapLine) {
	b := l.Bytes()
	scatter(m.fields, lapLineLayout[:], b[:])
}

func (m *MakeTrack) battleStart(id field.ID) track.BattleStartPosition {
	var b [track.BattleStartPositionSize]byte
	copy(b[:], m.fields.Bytes(id))
	return track.NewBattleStartPosition(b)
}

// BattleStartP1 returns the battle start position of player 1
func (m *MakeTrack) BattleStartP1() track.BattleStartPosition {
	return m.battleStart(battleStart1)
}

// SetBattleStartP1 sets the battle start position of player 1
func (m *MakeTrack) SetBattleStartP1(p track.BattleStartPosition) {
	b := p.Bytes()
	mustPut(m.fields, battleStart1, b[:])
}

// BattleStartP2 returns the battle start position of player 2
func (m *MakeTrack) BattleStartP2() track.BattleStartPosition {
	return m.battleStart(battleStart2)
}

// SetBattleStartP2 sets the battle start position of player 2
func (m *MakeTrack) SetBattleStartP2(p track.BattleStartPosition) {
	b := p.Bytes()
	mustPut(m.fields, battleStart2, b[:])
}

// AI returns the AI zones
func (m *MakeTrack) AI() []ai.Record {
	return ai.Decode(m.fields.Bytes(aiArea))
}

// SetAI sets the AI zones
func (m *MakeTrack) SetAI(records []ai.Record) error {
	block := m.fields.Bytes(aiArea)
	if err := ai.Encode(block, records); err != nil {
		return err
	}
	mustPut(m.fields, aiArea, block)
	return nil
}

// Objects returns the object configuration
func (m *MakeTrack) Objects() track.Objects {
	p := gather(m.fields, objectLayout[:])
	return track.Objects{
		Positions:   track.NewObjectPositions(m.fields.Bytes(objects)),
		Areas:       track.ObjectAreas(m.fields.Bytes(objectAreas)),
		AI:          m.AI(),
		Tileset:     p[0],
		Interaction: p[1],
		Routine:     p[2],
		Palettes:    track.PaletteIndexes{p[3], p[4], p[5], p[6]},
		Flashing:    p[7] != 0,
	}
}

// SetObjects sets the object configuration. The object data is truncated or
// zero-filled to fit. The AI zones are only written if o.AI is not nil.
func (m *MakeTrack) SetObjects(o track.Objects) error {
	if n := m.game.ObjectAreaSize(); len(o.Areas) != n {
		return fmt.Errorf("%w: object areas are %d bytes, want %d", field.ErrLengthMismatch, len(o.Areas), n)
	}

	var block []byte
	if o.AI != nil {
		block = m.fields.Bytes(aiArea)
		if err := ai.Encode(block, o.AI); err != nil {
			return err
		}
	}

	data := make([]byte, objectsCapacity)
	copy(data, o.Bytes())
	mustPut(m.fields, objects, data)
	mustPut(m.fields, objectAreas, o.Areas.Bytes())

	var flashing byte
	if o.Flashing {
		flashing = 1
	}
	scatter(m.fields, objectLayout[:], []byte{
		o.Tileset,
		o.Interaction,
		o.Routine,
		o.Palettes[0],
		o.Palettes[1],
		o.Palettes[2],
		o.Palettes[3],
		flashing,
	})

	if block != nil {
		mustPut(m.fields, aiArea, block)
	}

	return nil
}

// ItemProbabilityIndex returns the item probability set index
func (m *MakeTrack) ItemProbabilityIndex() int {
	return int(m.fields.Bytes(itemProba)[1] >> 1)
}

// SetItemProbabilityIndex sets the item probability set index
func (m *MakeTrack) SetItemProbabilityIndex(i int) error {
	if i < 0 || i > track.MaxItemProbabilityIndex {
		return fmt.Errorf("%w: item probability index %d", track.ErrValueOutOfRange, i)
	}
	mustPut(m.fields, itemProba, []byte{0, byte(i << 1)})
	return nil
}
