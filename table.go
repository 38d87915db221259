package dml

import (
	"bytes"

	"github.com/pkg/errors"
)

// Table is a target name and its records. All records share one schema.
type Table struct {
	Target  string
	Records []Record
}

func NewTable(target string, records ...Record) *Table {
	return &Table{Target: target, Records: records}
}

func (t *Table) Len() int {
	return len(t.Records)
}

// Template is the schema of the first record. Tables without records have none.
func (t *Table) Template() (*RecordTemplate, error) {
	if len(t.Records) == 0 {
		return nil, errors.Wrapf(ErrEmptyTable, "%s", t.Target)
	}
	return TemplateOf(t.Target, t.Records[0]), nil
}

func (t *Table) Clone() *Table {
	cp := &Table{Target: t.Target, Records: make([]Record, len(t.Records))}
	for i := range t.Records {
		cp.Records[i] = t.Records[i].Clone()
	}
	return cp
}

// decodeTable reads a record count followed by count+1 service blocks,
// exactly one of which is the template.
func decodeTable(c *Cursor) (*Table, *RecordTemplate, error) {
	start := c.Offset()
	count, err := c.ReadUint32()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "table header at offset %d", start)
	}

	var rt *RecordTemplate
	var records []Record

	blocks := uint64(count) + 1
	for i := uint64(0); i < blocks; i++ {
		if c.Exhausted() {
			break
		}

		offset := c.Offset()
		kind, size, err := readBlockHeader(c)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "service block at offset %d", offset)
		}

		switch kind {
		case blockTemplate:
			if rt != nil {
				return nil, nil, errors.Wrapf(
					ErrFormat,
					"second template at offset %d for table %s",
					offset, rt.Target,
				)
			}
			rt, err = decodeTemplate(c, size)
			if err != nil {
				return nil, nil, err
			}
		case blockData:
			if rt == nil {
				return nil, nil, errors.Wrapf(ErrMissingTemplate, "data block at offset %d", offset)
			}
			rec, err := decodeRecord(c, rt, size)
			if err != nil {
				return nil, nil, err
			}
			records = append(records, rec)
		default:
			return nil, nil, errors.Wrapf(ErrFormat, "unknown service block kind %d at offset %d", uint8(kind), offset)
		}
	}

	if rt == nil {
		return nil, nil, errors.Wrapf(ErrMissingTemplate, "table at offset %d", start)
	}

	if uint64(len(records)) != uint64(count) {
		return nil, nil, errors.Wrapf(
			ErrCountMismatch,
			"table %s declares %d records, decoded %d",
			rt.Target, count, len(records),
		)
	}

	return &Table{Target: rt.Target, Records: records}, rt, nil
}

// encode writes the record count, the template derived from the first
// record and one data block per record.
func (t *Table) encode(buf *bytes.Buffer) error {
	rt, err := t.Template()
	if err != nil {
		return err
	}

	fp := rt.Fingerprint()
	for i, rec := range t.Records {
		if !rt.Conforms(rec) {
			got := TemplateOf(t.Target, rec)
			return errors.Wrapf(
				ErrFormat,
				"table %s record %d schema %016x differs from first record schema %016x",
				t.Target, i, got.Fingerprint(), fp,
			)
		}
	}

	writeUint32(buf, uint32(len(t.Records)))

	if err := rt.encode(buf); err != nil {
		return errors.Wrapf(err, "table %s template", t.Target)
	}

	for i, rec := range t.Records {
		if err := rec.encode(buf); err != nil {
			return errors.Wrapf(err, "table %s record %d", t.Target, i)
		}
	}

	return nil
}
