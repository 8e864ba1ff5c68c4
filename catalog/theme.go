package catalog

import (
	"errors"
	"fmt"
)

// Theme indices of the original game
const (
	GhostValley = iota
	MarioCircuit
	DonutPlains
	ChocoIsland
	VanillaLake
	KoopaBeach
	BowserCastle
	RainbowRoad
)

var (
	// ErrUnknownTheme is returned when a theme is not in the catalog
	ErrUnknownTheme = errors.New("catalog: unknown theme")
	// ErrInvalidThemeIndex is returned when a theme index is out of range
	ErrInvalidThemeIndex = errors.New("catalog: invalid theme index")
)

// Theme is a track theme. Themes are identified by their position in a
// catalog.
type Theme struct {
	Name string
}

func (t *Theme) String() string {
	return t.Name
}

// Themes is an ordered catalog of themes
type Themes struct {
	themes []*Theme
}

// NewThemes returns a catalog with a theme for each name
func NewThemes(names ...string) *Themes {
	t := &Themes{
		themes: make([]*Theme, len(names)),
	}
	for i, name := range names {
		t.themes[i] = &Theme{Name: name}
	}
	return t
}

// Len returns the number of themes
func (t *Themes) Len() int {
	return len(t.themes)
}

// All returns every theme in catalog order
func (t *Themes) All() []*Theme {
	return append([]*Theme(nil), t.themes...)
}

// Theme returns the theme at index i
func (t *Themes) Theme(i int) (*Theme, error) {
	if i < 0 || i >= len(t.themes) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidThemeIndex, i)
	}
	return t.themes[i], nil
}

// Index returns the position of theme in the catalog
func (t *Themes) Index(theme *Theme) (int, error) {
	if theme == nil {
		return -1, ErrUnknownTheme
	}
	for i, th := range t.themes {
		if th == theme || th.Name == theme.Name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownTheme, theme.Name)
}

// ID returns the value stored in track data for theme, which is its index
// shifted left by one
func (t *Themes) ID(theme *Theme) (byte, error) {
	i, err := t.Index(theme)
	if err != nil {
		return 0, err
	}
	return byte(i << 1), nil
}

// ByName returns the theme with the given name
func (t *Themes) ByName(name string) (*Theme, error) {
	for _, th := range t.themes {
		if th.Name == name {
			return th, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
}
