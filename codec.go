package dml

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/unicode"
)

const maxLen16 = math.MaxUint16

type (
	decodeFn func(c *Cursor) (Value, int, error)
	encodeFn func(v Value, buf *bytes.Buffer) (int, error)
	parseFn  func(text string) (Value, error)
)

type codec struct {
	decode decodeFn
	encode encodeFn
	parse  parseFn
}

// codecs is indexed by Type and never modified after initialisation.
var codecs = [typeCount]codec{
	TypeGID: {
		decode: func(c *Cursor) (Value, int, error) {
			v, err := c.ReadUint64()
			return GID(v), 8, err
		},
		encode: func(v Value, buf *bytes.Buffer) (int, error) {
			g, ok := v.(GID)
			if !ok {
				return 0, mismatch(TypeGID, v)
			}
			return writeUint64(buf, uint64(g)), nil
		},
		parse: func(text string) (Value, error) {
			v, err := parseUint(text, 64)
			return GID(v), err
		},
	},
	TypeINT: {
		decode: func(c *Cursor) (Value, int, error) {
			v, err := c.ReadInt32()
			return Int(v), 4, err
		},
		encode: func(v Value, buf *bytes.Buffer) (int, error) {
			i, ok := v.(Int)
			if !ok {
				return 0, mismatch(TypeINT, v)
			}
			return writeUint32(buf, uint32(i)), nil
		},
		parse: func(text string) (Value, error) {
			v, err := parseInt(text, 32)
			return Int(v), err
		},
	},
	TypeUINT: {
		decode: func(c *Cursor) (Value, int, error) {
			v, err := c.ReadUint32()
			return Uint(v), 4, err
		},
		encode: func(v Value, buf *bytes.Buffer) (int, error) {
			u, ok := v.(Uint)
			if !ok {
				return 0, mismatch(TypeUINT, v)
			}
			return writeUint32(buf, uint32(u)), nil
		},
		parse: func(text string) (Value, error) {
			v, err := parseUint(text, 32)
			return Uint(v), err
		},
	},
	TypeFLT: {
		decode: func(c *Cursor) (Value, int, error) {
			v, err := c.ReadFloat32()
			return Float(v), 4, err
		},
		encode: func(v Value, buf *bytes.Buffer) (int, error) {
			f, ok := v.(Float)
			if !ok {
				return 0, mismatch(TypeFLT, v)
			}
			return writeUint32(buf, math.Float32bits(float32(f))), nil
		},
		parse: func(text string) (Value, error) {
			v, err := parseFloat(text, 32)
			return Float(v), err
		},
	},
	TypeBYT: {
		decode: func(c *Cursor) (Value, int, error) {
			v, err := c.ReadInt8()
			return Byte(v), 1, err
		},
		encode: func(v Value, buf *bytes.Buffer) (int, error) {
			b, ok := v.(Byte)
			if !ok {
				return 0, mismatch(TypeBYT, v)
			}
			buf.WriteByte(byte(b))
			return 1, nil
		},
		parse: func(text string) (Value, error) {
			v, err := parseInt(text, 8)
			return Byte(v), err
		},
	},
	TypeUBYT: {
		decode: func(c *Cursor) (Value, int, error) {
			v, err := c.ReadUint8()
			return UByte(v), 1, err
		},
		encode: func(v Value, buf *bytes.Buffer) (int, error) {
			b, ok := v.(UByte)
			if !ok {
				return 0, mismatch(TypeUBYT, v)
			}
			buf.WriteByte(byte(b))
			return 1, nil
		},
		parse: func(text string) (Value, error) {
			v, err := parseUint(text, 8)
			return UByte(v), err
		},
	},
	TypeUSHRT: {
		decode: func(c *Cursor) (Value, int, error) {
			v, err := c.ReadUint16()
			return UShort(v), 2, err
		},
		encode: func(v Value, buf *bytes.Buffer) (int, error) {
			s, ok := v.(UShort)
			if !ok {
				return 0, mismatch(TypeUSHRT, v)
			}
			return writeUint16(buf, uint16(s)), nil
		},
		parse: func(text string) (Value, error) {
			v, err := parseUint(text, 16)
			return UShort(v), err
		},
	},
	TypeDBL: {
		decode: func(c *Cursor) (Value, int, error) {
			v, err := c.ReadFloat64()
			return Double(v), 8, err
		},
		encode: func(v Value, buf *bytes.Buffer) (int, error) {
			d, ok := v.(Double)
			if !ok {
				return 0, mismatch(TypeDBL, v)
			}
			return writeUint64(buf, math.Float64bits(float64(d))), nil
		},
		parse: func(text string) (Value, error) {
			v, err := parseFloat(text, 64)
			return Double(v), err
		},
	},
	TypeSTR: {
		decode: func(c *Cursor) (Value, int, error) {
			b, n, err := readPrefixed(c)
			if err != nil {
				return nil, n, err
			}
			if !utf8.Valid(b) {
				return nil, n, errors.Wrapf(ErrFormat, "STR at offset %d is not valid utf-8", c.Offset()-len(b))
			}
			return Str(b), n, nil
		},
		encode: func(v Value, buf *bytes.Buffer) (int, error) {
			s, ok := v.(Str)
			if !ok {
				return 0, mismatch(TypeSTR, v)
			}
			return writePrefixed(buf, []byte(s))
		},
		parse: func(text string) (Value, error) {
			return Str(text), nil
		},
	},
	TypeWSTR: {
		decode: func(c *Cursor) (Value, int, error) {
			b, n, err := readPrefixed(c)
			if err != nil {
				return nil, n, err
			}
			if len(b)%2 != 0 {
				return nil, n, errors.Wrapf(ErrFormat, "WSTR byte length %d is odd", len(b))
			}
			s, err := utf16le.NewDecoder().Bytes(b)
			if err != nil {
				return nil, n, errors.Wrap(ErrFormat, err.Error())
			}
			// the decoder substitutes U+FFFD for unpaired surrogates
			back, err := utf16le.NewEncoder().Bytes(s)
			if err != nil || !bytes.Equal(back, b) {
				return nil, n, errors.Wrapf(
					ErrFormat,
					"WSTR at offset %d is not valid utf-16le",
					c.Offset()-len(b),
				)
			}
			return WStr(s), n, nil
		},
		encode: func(v Value, buf *bytes.Buffer) (int, error) {
			s, ok := v.(WStr)
			if !ok {
				return 0, mismatch(TypeWSTR, v)
			}
			b, err := utf16le.NewEncoder().Bytes([]byte(s))
			if err != nil {
				return 0, errors.Wrapf(ErrInvalidValue, "WSTR %q: %s", string(s), err.Error())
			}
			return writePrefixed(buf, b)
		},
		parse: func(text string) (Value, error) {
			return WStr(text), nil
		},
	},
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// DecodeValue reads one value of type t and reports the bytes consumed.
func DecodeValue(t Type, c *Cursor) (Value, int, error) {
	if !t.Valid() {
		return nil, 0, errors.Wrapf(ErrUnknownType, "type tag %d", uint8(t))
	}
	return codecs[t].decode(c)
}

// EncodeValue appends the wire form of v to buf and reports the bytes written.
func EncodeValue(v Value, buf *bytes.Buffer) (int, error) {
	if v == nil {
		return 0, errors.Wrap(ErrInvalidValue, "nil value")
	}
	t := v.Type()
	return codecs[t].encode(v, buf)
}

// ParseValue coerces text to a value of type t. Blank text becomes
// the zero value for numeric types.
func ParseValue(t Type, text string) (Value, error) {
	if !t.Valid() {
		return nil, errors.Wrapf(ErrUnknownType, "type tag %d", uint8(t))
	}
	if !t.Textual() && strings.TrimSpace(text) == "" {
		return Zero(t), nil
	}
	v, err := codecs[t].parse(text)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidValue, "%q is not a valid %s: %s", text, t, err.Error())
	}
	return v, nil
}

func readPrefixed(c *Cursor) ([]byte, int, error) {
	l, err := c.ReadUint16()
	if err != nil {
		return nil, 0, err
	}
	b, err := c.ReadBytes(int(l))
	if err != nil {
		return nil, 2, err
	}
	return b, 2 + int(l), nil
}

func writePrefixed(buf *bytes.Buffer, b []byte) (int, error) {
	if len(b) > maxLen16 {
		return 0, errors.Wrapf(ErrValueTooLong, "%d bytes", len(b))
	}
	writeUint16(buf, uint16(len(b)))
	buf.Write(b)
	return 2 + len(b), nil
}

func writeUint16(buf *bytes.Buffer, v uint16) int {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
	return 2
}

func writeUint32(buf *bytes.Buffer, v uint32) int {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
	return 4
}

func writeUint64(buf *bytes.Buffer, v uint64) int {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	buf.Write(b[:])
	return 8
}

func parseInt(text string, bits int) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(text), 10, bits)
}

func parseUint(text string, bits int) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(text), 10, bits)
}

func parseFloat(text string, bits int) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(text), bits)
}

func mismatch(t Type, v Value) error {
	return errors.Wrapf(ErrInvalidValue, "%s codec got a %s value", t, v.Type())
}
