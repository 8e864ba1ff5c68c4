/*
Package library implements a sqlite database of tracks.

Each track is stored as a zstd compressed snapshot alongside its name, its
theme and the checksum of the file it was imported from. Themes are stored in
their own table keyed by their index in the theme catalog.
*/
package library

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/bodgit/mkt/catalog"
	"github.com/bodgit/mkt/track"
	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
)

var (
	// ErrNotFound is returned when a track does not exist
	ErrNotFound = errors.New("library: track not found")
	// ErrThemeMismatch is returned when the stored themes do not match
	// the theme catalog
	ErrThemeMismatch = errors.New("library: theme catalog mismatch")
)

// Entry describes a stored track
type Entry struct {
	Name  string
	Theme *catalog.Theme
	CRC   string
}

// DB is a track library
type DB struct {
	db     *sql.DB
	themes *catalog.Themes
	enc    *zstd.Encoder
	dec    *zstd.Decoder
}

// Open opens or creates the library at file using the given theme catalog
func Open(file string, themes *catalog.Themes) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", file))
	if err != nil {
		return nil, err
	}
	// Writers from concurrent imports are serialized rather than failing
	// with a locked database
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS theme (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS track (id INTEGER PRIMARY KEY NOT NULL, name TEXT NOT NULL UNIQUE, theme_id INTEGER, crc TEXT, data BLOB NOT NULL, FOREIGN KEY(theme_id) REFERENCES theme(id))"); err != nil {
		db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, err
	}

	l := &DB{
		db:     db,
		themes: themes,
		enc:    enc,
		dec:    dec,
	}

	if err := l.addThemes(); err != nil {
		l.Close()
		return nil, err
	}

	return l, nil
}

func (db *DB) addThemes() error {
	for i, theme := range db.themes.All() {
		var name string
		switch err := db.db.QueryRow("SELECT name FROM theme WHERE id = ?", i).Scan(&name); err {
		case sql.ErrNoRows:
			if _, err := db.db.Exec("INSERT INTO theme (id, name) VALUES (?, ?)", i, theme.Name); err != nil {
				return err
			}
		case nil:
			if name != theme.Name {
				return fmt.Errorf("%w: theme %d is %q, catalog has %q", ErrThemeMismatch, i, name, theme.Name)
			}
		default:
			return err
		}
	}
	return nil
}

// Close closes the library
func (db *DB) Close() error {
	db.dec.Close()
	if err := db.enc.Close(); err != nil {
		db.db.Close()
		return err
	}
	return db.db.Close()
}

// Put stores t, replacing any track with the same name. crc is the checksum
// of the file t was read from, if any.
func (db *DB) Put(t *track.Track, crc string) error {
	if t.Name == "" {
		return errors.New("library: track has no name")
	}

	var theme sql.NullInt64
	if t.Theme != nil {
		i, err := db.themes.Index(t.Theme)
		if err != nil {
			return err
		}
		theme.Int64 = int64(i)
		theme.Valid = true
	}

	var checksum sql.NullString
	if crc != "" {
		checksum.String = crc
		checksum.Valid = true
	}

	b, err := t.MarshalBinary()
	if err != nil {
		return err
	}

	if _, err := db.db.Exec("INSERT OR REPLACE INTO track (name, theme_id, crc, data) VALUES (?, ?, ?, ?)", t.Name, theme, checksum, db.enc.EncodeAll(b, nil)); err != nil {
		return err
	}

	return nil
}

func (db *DB) theme(id sql.NullInt64) (*catalog.Theme, error) {
	if !id.Valid {
		return nil, nil
	}
	return db.themes.Theme(int(id.Int64))
}

// Get returns the named track
func (db *DB) Get(name string) (*track.Track, error) {
	var theme sql.NullInt64
	var data []byte
	switch err := db.db.QueryRow("SELECT theme_id, data FROM track WHERE name = ?", name).Scan(&theme, &data); err {
	case sql.ErrNoRows:
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	case nil:
	default:
		return nil, err
	}

	b, err := db.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, err
	}

	t := &track.Track{
		Name: name,
	}
	if err := t.UnmarshalBinary(b); err != nil {
		return nil, fmt.Errorf("%q: %w", name, err)
	}

	if t.Theme, err = db.theme(theme); err != nil {
		return nil, err
	}

	return t, nil
}

// FindByCRC returns the name of the track imported from a file with the
// given checksum, or an empty string if there is none
func (db *DB) FindByCRC(crc string) (string, error) {
	var name string
	switch err := db.db.QueryRow("SELECT name FROM track WHERE crc = ?", crc).Scan(&name); err {
	case sql.ErrNoRows:
		return "", nil
	case nil:
		return name, nil
	default:
		return "", err
	}
}

// List returns every stored track ordered by name
func (db *DB) List() ([]Entry, error) {
	rows, err := db.db.Query("SELECT name, theme_id, crc FROM track ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var theme sql.NullInt64
		var crc sql.NullString
		if err := rows.Scan(&e.Name, &theme, &crc); err != nil {
			return nil, err
		}
		if e.Theme, err = db.theme(theme); err != nil {
			return nil, err
		}
		e.CRC = crc.String
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Delete removes the named track
func (db *DB) Delete(name string) error {
	result, err := db.db.Exec("DELETE FROM track WHERE name = ?", name)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}
