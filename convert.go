package mkt

import (
	"github.com/bodgit/mkt/track"
	"go.uber.org/zap"
)

// CopyTo reads every field into t. The name of t is kept. t is not modified
// if an error is returned.
func (m *MakeTrack) CopyTo(t *track.Track) error {
	theme, err := m.Theme()
	if err != nil {
		return err
	}

	overlay, err := m.OverlayTiles()
	if err != nil {
		return err
	}

	*t = track.Track{
		Name:                 t.Name,
		Theme:                theme,
		Map:                  m.Map(),
		OverlayTiles:         overlay,
		StartPosition:        m.StartPosition(),
		LapLine:              m.LapLine(),
		BattleStartP1:        m.BattleStartP1(),
		BattleStartP2:        m.BattleStartP2(),
		Objects:              m.Objects(),
		AI:                   m.AI(),
		ItemProbabilityIndex: m.ItemProbabilityIndex(),
	}

	return nil
}

// CopyFrom writes every value of t into the fields. No field is modified if
// an error is returned.
func (m *MakeTrack) CopyFrom(t *track.Track) error {
	scratch := *m
	scratch.fields = m.fields.Clone()

	if err := scratch.SetTheme(t.Theme); err != nil {
		return err
	}
	if err := scratch.SetOverlayTiles(t.OverlayTiles); err != nil {
		return err
	}

	scratch.SetMap(t.Map)
	scratch.SetStartPosition(t.StartPosition)
	scratch.SetLapLine(t.LapLine)
	scratch.SetBattleStartP1(t.BattleStartP1)
	scratch.SetBattleStartP2(t.BattleStartP2)
	if err := scratch.SetItemProbabilityIndex(t.ItemProbabilityIndex); err != nil {
		return err
	}

	objects := t.Objects
	objects.AI = nil
	if len(objects.Areas) == 0 {
		objects.Areas = track.ObjectAreas(scratch.fields.Bytes(objectAreas))
	}
	if err := scratch.SetObjects(objects); err != nil {
		return err
	}
	if err := scratch.SetAI(t.AI); err != nil {
		return err
	}

	m.fields = scratch.fields

	return nil
}

// Import reads the MAKE track file at path into t. t is not modified if an
// error is returned.
func Import(path string, t *track.Track, game Game, logger *zap.Logger) error {
	m, err := NewMakeTrack(game, logger)
	if err != nil {
		return err
	}
	if err := m.Load(path); err != nil {
		return err
	}
	return m.CopyTo(t)
}

// Export writes t as a MAKE track file at path. Nothing is written if an
// error is returned.
func Export(path string, t *track.Track, game Game, logger *zap.Logger) error {
	m, err := NewMakeTrack(game, logger)
	if err != nil {
		return err
	}
	if err := m.CopyFrom(t); err != nil {
		return err
	}
	return m.Save(path)
}
