/*
Package hexfile implements the line-oriented hex text format used by MAKE
track files.

Every field starts with a header line of '#' immediately followed by the
field name. Scalar fields carry their value on the same line after a single
space:

	#SP_STX 0200

Block fields have the name alone and are followed by one data line per 32
bytes, the last line holding whatever remains:

	#OBJ
	#0000000000000000000000000000000000000000000000000000000000000000
	#0000000000000000000000000000000000000000000000000000000000000000

Any line not starting with '#' is ignored.
*/
package hexfile

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bodgit/mkt/field"
)

const (
	// LineLength is the number of bytes per block data line
	LineLength = 32

	// Comment is written at the top of every file
	Comment = "; Generated with mkt"
)

var (
	// ErrInvalidLength is returned when the data for a field does not
	// match its capacity
	ErrInvalidLength = errors.New("hexfile: invalid data length")
	// ErrInvalidHex is returned when a line contains non-hex characters
	ErrInvalidHex = errors.New("hexfile: invalid hex string")
)

type update struct {
	name string
	data []byte
}

type decoder struct {
	s       *bufio.Scanner
	t       *field.Table
	line    string
	peeked  bool
	eof     bool
	updates []update
	unknown []string
}

func (d *decoder) next() bool {
	if d.peeked {
		d.peeked = false
		return true
	}
	if d.eof || !d.s.Scan() {
		d.eof = true
		return false
	}
	d.line = strings.TrimRight(d.s.Text(), "\r")
	return true
}

func (d *decoder) unread() {
	d.peeked = true
}

func isHeader(line string) bool {
	return len(line) > 0 && line[0] == '#'
}

func isHex(s string) bool {
	if len(s) == 0 {
		return false
	}
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

func decodeHex(name, s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: %s has %d hex characters", ErrInvalidLength, name, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidHex, name, err)
	}
	return b, nil
}

func (d *decoder) scalar(f field.Field, value string) error {
	value = strings.TrimSpace(value)
	if len(value) != f.Capacity<<1 {
		return fmt.Errorf("%w: %s expects %d hex characters, got %d", ErrInvalidLength, f.Name, f.Capacity<<1, len(value))
	}
	b, err := decodeHex(f.Name, value)
	if err != nil {
		return err
	}
	d.updates = append(d.updates, update{name: f.Name, data: b})
	return nil
}

func (d *decoder) block(f field.Field) error {
	b := make([]byte, 0, f.Capacity)
	for d.next() {
		if !isHeader(d.line) {
			break
		}
		line, err := decodeHex(f.Name, d.line[1:])
		if err != nil {
			return err
		}
		if len(b)+len(line) > f.Capacity {
			return fmt.Errorf("%w: %s exceeds %d bytes", ErrInvalidLength, f.Name, f.Capacity)
		}
		b = append(b, line...)
	}
	if err := d.s.Err(); err != nil {
		return err
	}
	if len(b) != f.Capacity {
		return fmt.Errorf("%w: %s has %d bytes, want %d", ErrInvalidLength, f.Name, len(b), f.Capacity)
	}
	d.updates = append(d.updates, update{name: f.Name, data: b})
	return nil
}

// skip consumes the data lines following an unknown block header
func (d *decoder) skip() {
	for d.next() {
		if !isHeader(d.line) || !isHex(d.line[1:]) {
			d.unread()
			return
		}
	}
}

func (d *decoder) decode() error {
	for d.next() {
		if !isHeader(d.line) {
			continue
		}

		name, value := d.line[1:], ""
		inline := false
		if i := strings.IndexByte(name, ' '); i != -1 {
			name, value, inline = name[:i], name[i+1:], true
		}

		f, ok := d.t.Lookup(name)
		if !ok {
			d.unknown = append(d.unknown, name)
			if !inline {
				d.skip()
			}
			continue
		}

		var err error
		if f.Scalar() {
			err = d.scalar(f, value)
		} else {
			err = d.block(f)
			if err == nil && !d.eof {
				// The line that ended the block may be another header
				d.unread()
			}
		}
		if err != nil {
			return err
		}
	}
	return d.s.Err()
}

// Decode reads fields from r into t. Unknown field names are skipped and
// returned. If an error occurs t is left unmodified.
func Decode(r io.Reader, t *field.Table) ([]string, error) {
	d := decoder{
		s: bufio.NewScanner(r),
		t: t,
	}
	if err := d.decode(); err != nil {
		return nil, err
	}

	for _, u := range d.updates {
		if err := t.Set(u.name, u.data); err != nil {
			return nil, err
		}
	}

	return d.unknown, nil
}

func appendBlock(b *bytes.Buffer, data []byte) {
	for i := 0; i < len(data); i += LineLength {
		j := i + LineLength
		if j > len(data) {
			j = len(data)
		}
		fmt.Fprintf(b, "#%X\n", data[i:j])
	}
}

// Encode writes every field of t to w in declaration order
func Encode(w io.Writer, t *field.Table) error {
	b := new(bytes.Buffer)

	fmt.Fprintf(b, "%s\n\n", Comment)

	for _, f := range t.Fields() {
		data, err := t.Get(f.Name)
		if err != nil {
			return err
		}
		if f.Scalar() {
			fmt.Fprintf(b, "#%s %X\n", f.Name, data)
			continue
		}
		fmt.Fprintf(b, "\n#%s\n", f.Name)
		appendBlock(b, data)
	}

	_, err := b.WriteTo(w)
	return err
}
