package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThemes(t *testing.T) {
	themes := Default().Themes()
	require.Equal(t, 8, themes.Len())

	theme, err := themes.Theme(MarioCircuit)
	require.NoError(t, err)
	assert.Equal(t, "Mario Circuit", theme.String())

	id, err := themes.ID(theme)
	require.NoError(t, err)
	assert.Equal(t, byte(0x02), id)

	id, err = themes.ID(&Theme{Name: "Rainbow Road"})
	require.NoError(t, err)
	assert.Equal(t, byte(RainbowRoad<<1), id)

	_, err = themes.Theme(8)
	assert.True(t, errors.Is(err, ErrInvalidThemeIndex))
	_, err = themes.Theme(-1)
	assert.True(t, errors.Is(err, ErrInvalidThemeIndex))

	_, err = themes.ID(&Theme{Name: "Moo Moo Farm"})
	assert.True(t, errors.Is(err, ErrUnknownTheme))
	_, err = themes.ID(nil)
	assert.True(t, errors.Is(err, ErrUnknownTheme))

	theme, err = themes.ByName("Koopa Beach")
	require.NoError(t, err)
	i, err := themes.Index(theme)
	require.NoError(t, err)
	assert.Equal(t, KoopaBeach, i)
}

func TestDefault(t *testing.T) {
	g := Default()
	assert.Equal(t, DefaultObjectAreaSize, g.ObjectAreaSize())
	for _, p := range g.OverlayTilePatterns() {
		assert.True(t, p.Size >= 0 && p.Size < len(g.OverlayTileSizes()), p.Name)
	}
}
