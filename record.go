package dml

import (
	"bytes"

	"github.com/pkg/errors"
)

// Record is an ordered list of fields. It only has meaning relative to
// its table's template.
type Record []Field

func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	cp := make(Record, len(r))
	for i := range r {
		cp[i] = r[i].Clone()
	}
	return cp
}

// decodeRecord reads one value per template column from a payload of size bytes.
// Columns and values are correlated by position only.
func decodeRecord(c *Cursor, rt *RecordTemplate, size int) (Record, error) {
	if size < 0 {
		return nil, errors.Wrapf(ErrFormat, "record length %d is shorter than its header", size+blockHeaderSize)
	}

	start := c.Offset()
	sub, err := c.Sub(size)
	if err != nil {
		return nil, errors.Wrapf(err, "%s record at offset %d", rt.Target, start)
	}

	rec := make(Record, 0, len(rt.Columns))
	for _, col := range rt.Columns {
		v, _, err := DecodeValue(col.Type, sub)
		if err != nil {
			return nil, errors.Wrapf(err, "%s record at offset %d, field %s", rt.Target, start, col.Name)
		}

		rec = append(rec, Field{
			Name:       col.Name,
			Type:       col.Type,
			Value:      v,
			Attributes: DefaultAttributes(col.Name, col.Type),
		})
	}

	if !sub.Exhausted() {
		return nil, errors.Wrapf(
			ErrFormat,
			"%s record at offset %d has %d trailing bytes",
			rt.Target, start, sub.Remaining(),
		)
	}

	return rec, nil
}

// encode writes a complete data service block for r.
func (r Record) encode(buf *bytes.Buffer) error {
	var payload bytes.Buffer
	for _, f := range r {
		if !f.Type.Valid() {
			return errors.Wrapf(ErrUnknownType, "field %s: type tag %d", f.Name, uint8(f.Type))
		}
		v := f.Value
		if v == nil {
			v = Zero(f.Type)
		}
		if v.Type() != f.Type {
			return errors.Wrapf(ErrInvalidValue, "field %s is %s but value is %s", f.Name, f.Type, v.Type())
		}
		if _, err := EncodeValue(v, &payload); err != nil {
			return errors.Wrapf(err, "field %s", f.Name)
		}
	}

	return writeBlock(buf, blockData, payload.Bytes())
}
