package dml

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

const (
	targetTableField = "_TargetTable"
	fieldTerminator  = 0x28
)

// Column is one schema entry of a template.
type Column struct {
	Name string
	Type Type
}

// RecordTemplate is the inline schema of a table: its target name and
// the ordered columns every data record follows.
type RecordTemplate struct {
	Target  string
	Columns []Column
}

// TemplateOf derives a template from the name and type order of rec.
func TemplateOf(target string, rec Record) *RecordTemplate {
	cols := make([]Column, len(rec))
	for i, f := range rec {
		cols[i] = Column{Name: f.Name, Type: f.Type}
	}
	return &RecordTemplate{Target: target, Columns: cols}
}

// Fingerprint hashes the column names and types, ignoring the target.
func (rt *RecordTemplate) Fingerprint() uint64 {
	d := xxhash.New()
	for _, col := range rt.Columns {
		_, _ = d.WriteString(col.Name)
		_, _ = d.Write([]byte{0, byte(col.Type), 0})
	}
	return d.Sum64()
}

// Conforms reports whether rec has exactly the template's names and types in order.
func (rt *RecordTemplate) Conforms(rec Record) bool {
	if len(rec) != len(rt.Columns) {
		return false
	}
	for i, col := range rt.Columns {
		if rec[i].Name != col.Name || rec[i].Type != col.Type {
			return false
		}
	}
	return true
}

// decodeTemplate reads a template payload of exactly size bytes.
// The caller has already consumed the markers and the length header.
func decodeTemplate(c *Cursor, size int) (*RecordTemplate, error) {
	if size < 0 {
		return nil, errors.Wrapf(ErrFormat, "template length %d is shorter than its header", size+blockHeaderSize)
	}

	start := c.Offset()
	sub, err := c.Sub(size)
	if err != nil {
		return nil, errors.Wrapf(err, "template at offset %d", start)
	}

	rt := &RecordTemplate{}
	hasTarget := false

	for sub.Offset() < size {
		name, err := readName(sub)
		if err != nil {
			return nil, errors.Wrapf(err, "template at offset %d", start)
		}

		tag, err := sub.ReadUint8()
		if err != nil {
			return nil, errors.Wrapf(err, "template field %s", name)
		}

		t, err := TypeFromByte(tag)
		if err != nil {
			return nil, errors.Wrapf(err, "template field %s", name)
		}

		// terminator
		if _, err := sub.ReadUint8(); err != nil {
			return nil, errors.Wrapf(err, "template field %s", name)
		}

		if name == targetTableField {
			target, err := readName(sub)
			if err != nil {
				return nil, errors.Wrap(err, "template target table")
			}
			rt.Target = target
			hasTarget = true
			break
		}

		rt.Columns = append(rt.Columns, Column{Name: name, Type: t})
	}

	if sub.Offset() != size {
		return nil, errors.Wrapf(
			ErrFormat,
			"template at offset %d declares %d bytes but %d were consumed",
			start, size, sub.Offset(),
		)
	}

	if !hasTarget {
		return nil, errors.Wrapf(ErrFormat, "template at offset %d has no %s trailer", start, targetTableField)
	}

	return rt, nil
}

// encode writes a complete template service block.
func (rt *RecordTemplate) encode(buf *bytes.Buffer) error {
	var payload bytes.Buffer
	for _, col := range rt.Columns {
		if err := writeColumn(&payload, col.Name, col.Type); err != nil {
			return err
		}
	}

	if err := writeColumn(&payload, targetTableField, TypeSTR); err != nil {
		return err
	}
	if _, err := writePrefixed(&payload, []byte(rt.Target)); err != nil {
		return errors.Wrapf(err, "target table name %s", rt.Target)
	}

	return writeBlock(buf, blockTemplate, payload.Bytes())
}

func writeColumn(buf *bytes.Buffer, name string, t Type) error {
	if _, err := writePrefixed(buf, []byte(name)); err != nil {
		return errors.Wrapf(err, "column name %s", name)
	}
	buf.WriteByte(byte(t))
	buf.WriteByte(fieldTerminator)
	return nil
}

func readName(c *Cursor) (string, error) {
	v, _, err := codecs[TypeSTR].decode(c)
	if err != nil {
		return "", err
	}
	return string(v.(Str)), nil
}
