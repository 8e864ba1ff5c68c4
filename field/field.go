/*
Package field implements the ordered table of named, fixed capacity byte
buffers that backs a MAKE track file.

Fields with a capacity of four bytes or fewer are scalars and are written as a
single line, anything larger is a block written as a multi-line hex dump. The
capacity of a field is fixed when it is declared and every write must supply
exactly that many bytes.
*/
package field

import (
	"errors"
	"fmt"
)

// MaxScalar is the largest capacity of a scalar field
const MaxScalar = 4

var (
	// ErrUnknownField is returned when a field name has not been declared
	ErrUnknownField = errors.New("field: unknown field")
	// ErrLengthMismatch is returned when a write does not match the
	// declared capacity
	ErrLengthMismatch = errors.New("field: length mismatch")
	// ErrDuplicateField is returned when a field name is declared twice
	ErrDuplicateField = errors.New("field: duplicate field")
	// ErrInvalidCapacity is returned when a field is declared with a
	// capacity of zero or less
	ErrInvalidCapacity = errors.New("field: invalid capacity")
)

// ID is a handle to a declared field. Handles are allocated in declaration
// order starting from zero.
type ID int

// Field describes a named field. A nil Default means the field defaults to
// all zeroes.
type Field struct {
	Name     string
	Capacity int
	Default  []byte
}

// Scalar reports whether the field is written as a single line
func (f Field) Scalar() bool {
	return f.Capacity <= MaxScalar
}

func (f Field) defaultBytes() []byte {
	b := make([]byte, f.Capacity)
	copy(b, f.Default)
	return b
}

type entry struct {
	field Field
	data  []byte
}

// Table is an insertion-ordered mapping of field names to buffers
type Table struct {
	entries []entry
	index   map[string]ID
}

// NewTable returns a table with each field declared in the order given
func NewTable(fields ...Field) (*Table, error) {
	t := &Table{
		index: make(map[string]ID, len(fields)),
	}
	for _, f := range fields {
		if _, err := t.Declare(f.Name, f.Capacity, f.Default); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Declare registers a new field initialized to its default value
func (t *Table) Declare(name string, capacity int, def []byte) (ID, error) {
	if t.index == nil {
		t.index = make(map[string]ID)
	}
	if _, ok := t.index[name]; ok {
		return 0, fmt.Errorf("%w: %s", ErrDuplicateField, name)
	}
	if capacity <= 0 {
		return 0, fmt.Errorf("%w: %s has capacity %d", ErrInvalidCapacity, name, capacity)
	}
	if def != nil && len(def) != capacity {
		return 0, fmt.Errorf("%w: %s default is %d bytes, want %d", ErrLengthMismatch, name, len(def), capacity)
	}

	f := Field{
		Name:     name,
		Capacity: capacity,
	}
	if def != nil {
		f.Default = append([]byte(nil), def...)
	}

	id := ID(len(t.entries))
	t.entries = append(t.entries, entry{field: f, data: f.defaultBytes()})
	t.index[name] = id

	return id, nil
}

// Len returns the number of declared fields
func (t *Table) Len() int {
	return len(t.entries)
}

// Lookup returns the declaration of the named field
func (t *Table) Lookup(name string) (Field, bool) {
	id, ok := t.index[name]
	if !ok {
		return Field{}, false
	}
	return t.entries[id].field, true
}

// Fields returns every declared field in declaration order
func (t *Table) Fields() []Field {
	fields := make([]Field, len(t.entries))
	for i, e := range t.entries {
		fields[i] = e.field
	}
	return fields
}

// Get returns a copy of the named field's contents
func (t *Table) Get(name string) ([]byte, error) {
	id, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return t.Bytes(id), nil
}

// Set replaces the contents of the named field
func (t *Table) Set(name string, b []byte) error {
	id, ok := t.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	return t.Put(id, b)
}

// Bytes returns a copy of the contents of the field with the given handle
func (t *Table) Bytes(id ID) []byte {
	return append([]byte(nil), t.entries[id].data...)
}

// Put replaces the contents of the field with the given handle
func (t *Table) Put(id ID, b []byte) error {
	e := &t.entries[id]
	if len(b) != e.field.Capacity {
		return fmt.Errorf("%w: %s is %d bytes, got %d", ErrLengthMismatch, e.field.Name, e.field.Capacity, len(b))
	}
	copy(e.data, b)
	return nil
}

// Reset restores every field to its default value
func (t *Table) Reset() {
	for i := range t.entries {
		t.entries[i].data = t.entries[i].field.defaultBytes()
	}
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	dup := &Table{
		entries: make([]entry, len(t.entries)),
		index:   make(map[string]ID, len(t.index)),
	}
	for i, e := range t.entries {
		dup.entries[i] = entry{
			field: e.field,
			data:  append([]byte(nil), e.data...),
		}
	}
	for k, v := range t.index {
		dup.index[k] = v
	}
	return dup
}
