/*
Package mkt is a library for converting race tracks to and from MAKE track
files, the text interchange format used by track editors of a 16-bit racing
game.

A MakeTrack holds the fields of a single file and exposes them as typed
values; Import and Export convert between a file and a track.Track. An Editor
keeps tracks in a sqlite library and converts whole directories at a time.
*/
package mkt

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/mkt/catalog"
	"github.com/bodgit/mkt/library"
	"github.com/bodgit/mkt/track"
	"go.uber.org/zap"
)

// Extension is the file extension of MAKE track files
const Extension = ".mkt"

// Editor converts tracks between MAKE track files and a track library
type Editor struct {
	db     *library.DB
	game   *catalog.Game
	logger *zap.Logger
	sugar  *zap.SugaredLogger
}

// New opens the track library at file
func New(file string, game *catalog.Game, logger *zap.Logger) (*Editor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := library.Open(file, game.Themes())
	if err != nil {
		return nil, err
	}

	return &Editor{
		db:     db,
		game:   game,
		logger: logger,
		sugar:  logger.Sugar(),
	}, nil
}

// Close closes the track library
func (e *Editor) Close() error {
	return e.db.Close()
}

// ErrDuplicateName is returned when two files would be imported under the
// same track name, or two tracks would be exported to the same file
var ErrDuplicateName = errors.New("mkt: duplicate track name")

// Import reads the MAKE track file and stores it in the library under name.
// If name is empty the file name without its extension is used.
func (e *Editor) Import(file, name string) error {
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}

	b, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	return e.importBytes(file, name, b, checksum(b))
}

// importBytes stores the contents b of file under name. crc is the checksum
// of b.
func (e *Editor) importBytes(file, name string, b []byte, crc string) error {
	m, err := NewMakeTrack(e.game, e.logger)
	if err != nil {
		return err
	}
	if err := m.Read(bytes.NewReader(b)); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	t := &track.Track{
		Name: name,
	}
	if err := m.CopyTo(t); err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	if err := e.db.Put(t, crc); err != nil {
		return err
	}

	e.sugar.Infow("Imported track", "file", file, "name", name, "crc", crc)

	return nil
}

// Export writes the named track from the library as a MAKE track file
func (e *Editor) Export(name, file string) error {
	t, err := e.db.Get(name)
	if err != nil {
		return err
	}

	if err := Export(file, t, e.game, e.logger); err != nil {
		return err
	}

	e.sugar.Infow("Exported track", "name", name, "file", file)

	return nil
}

// List returns every track in the library
func (e *Editor) List() ([]library.Entry, error) {
	return e.db.List()
}

// Delete removes the named track from the library
func (e *Editor) Delete(name string) error {
	return e.db.Delete(name)
}

// fileName returns a file name for the named track
func fileName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(name)) + Extension
}
