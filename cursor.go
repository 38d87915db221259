package dml

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// Cursor is a forward-only reader over an in-memory buffer.
// Every read is bounds checked and fails with ErrOutOfBounds
// instead of returning a short value.
type Cursor struct {
	buf    []byte
	offset int
}

func NewCursor(b []byte) *Cursor {
	return &Cursor{buf: b}
}

func (c *Cursor) Offset() int {
	return c.offset
}

func (c *Cursor) Remaining() int {
	return len(c.buf) - c.offset
}

func (c *Cursor) Exhausted() bool {
	return c.offset >= len(c.buf)
}

// ReadBytes consumes exactly n bytes. The returned slice aliases the buffer.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, errors.Wrapf(
			ErrOutOfBounds,
			"need %d bytes at offset %d, %d left",
			n, c.offset, c.Remaining(),
		)
	}

	b := c.buf[c.offset : c.offset+n]
	c.offset += n
	return b, nil
}

// Sub consumes n bytes and returns a cursor bounded to them.
func (c *Cursor) Sub(n int) (*Cursor, error) {
	b, err := c.ReadBytes(n)
	if err != nil {
		return nil, err
	}
	return NewCursor(b), nil
}

func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) ReadInt8() (int8, error) {
	v, err := c.ReadUint8()
	return int8(v), err
}

func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *Cursor) ReadInt32() (int32, error) {
	v, err := c.ReadUint32()
	return int32(v), err
}

func (c *Cursor) ReadUint64() (uint64, error) {
	b, err := c.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (c *Cursor) ReadFloat32() (float32, error) {
	v, err := c.ReadUint32()
	return math.Float32frombits(v), err
}

func (c *Cursor) ReadFloat64() (float64, error) {
	v, err := c.ReadUint64()
	return math.Float64frombits(v), err
}
