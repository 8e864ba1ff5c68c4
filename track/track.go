/*
Package track implements the values that make up a single race track: its
tile map, start positions, lap line, objects, overlay tiles and AI zones.
*/
package track

import (
	"errors"

	"github.com/bodgit/mkt/ai"
	"github.com/bodgit/mkt/catalog"
)

// MaxItemProbabilityIndex is the highest item probability set index that can
// be stored
const MaxItemProbabilityIndex = 127

// ErrValueOutOfRange is returned when a value does not fit its stored form
var ErrValueOutOfRange = errors.New("track: value out of range")

// Track is an editable race track
type Track struct {
	Name                 string
	Theme                *catalog.Theme
	Map                  Map
	OverlayTiles         OverlayTiles
	StartPosition        GPStartPosition
	LapLine              LapLine
	BattleStartP1        BattleStartPosition
	BattleStartP2        BattleStartPosition
	Objects              Objects
	AI                   []ai.Record
	ItemProbabilityIndex int
}
