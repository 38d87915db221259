package dml

import (
	"bytes"
	"encoding/binary"
)

// fixture assembles wire bytes by hand so that decoder tests do not depend
// on the encoder.
type fixture struct {
	bytes.Buffer
}

func (f *fixture) u8(v uint8) *fixture {
	f.WriteByte(v)
	return f
}

func (f *fixture) u16(v uint16) *fixture {
	_ = binary.Write(&f.Buffer, binary.LittleEndian, v)
	return f
}

func (f *fixture) u32(v uint32) *fixture {
	_ = binary.Write(&f.Buffer, binary.LittleEndian, v)
	return f
}

func (f *fixture) str(s string) *fixture {
	f.u16(uint16(len(s)))
	f.WriteString(s)
	return f
}

func (f *fixture) column(name string, t Type) *fixture {
	return f.str(name).u8(uint8(t)).u8(fieldTerminator)
}

func (f *fixture) block(kind blockKind, payload []byte) *fixture {
	f.u8(blockMarker).u8(uint8(kind)).u16(uint16(len(payload) + blockHeaderSize))
	f.Write(payload)
	return f
}

func templatePayload(target string, cols ...Column) []byte {
	p := &fixture{}
	for _, c := range cols {
		p.column(c.Name, c.Type)
	}
	p.column(targetTableField, TypeSTR).str(target)
	return p.Bytes()
}

// questsTable is a table with one control column and one text column.
func questsTable(records int) []byte {
	f := &fixture{}
	f.u32(uint32(records))
	f.block(blockTemplate, templatePayload("Quests",
		Column{Name: "_Flags", Type: TypeUBYT},
		Column{Name: "Name", Type: TypeSTR},
	))
	for i := 0; i < records; i++ {
		rec := &fixture{}
		rec.u8(uint8(i)).str("quest")
		f.block(blockData, rec.Bytes())
	}
	return f.Bytes()
}

func sampleDatabase() *Database {
	return NewDatabase(
		NewTable("Items",
			Record{
				MustField("ID", TypeGID, GID(1<<40+7)),
				MustField("Count", TypeINT, Int(-12)),
				MustField("Price", TypeUINT, Uint(4000000000)),
				MustField("Weight", TypeFLT, Float(1.5)),
				MustField("Delta", TypeBYT, Byte(-3)),
				MustField("_Flags", TypeUBYT, UByte(200)),
				MustField("Slot", TypeUSHRT, UShort(65535)),
				MustField("Ratio", TypeDBL, Double(0.1)),
				MustField("Name", TypeSTR, Str("Sword of Ünicode")),
				MustField("Title", TypeWSTR, WStr("Меч 剣")),
			},
			Record{
				MustField("ID", TypeGID, GID(2)),
				MustField("Count", TypeINT, Int(0)),
				MustField("Price", TypeUINT, Uint(0)),
				MustField("Weight", TypeFLT, Float(-0.25)),
				MustField("Delta", TypeBYT, Byte(127)),
				MustField("_Flags", TypeUBYT, UByte(0)),
				MustField("Slot", TypeUSHRT, UShort(0)),
				MustField("Ratio", TypeDBL, Double(-123456.789)),
				MustField("Name", TypeSTR, Str("")),
				MustField("Title", TypeWSTR, WStr("")),
			},
		),
		NewTable("Zones",
			Record{
				MustField("Zone", TypeSTR, Str("WizardCity")),
			},
		),
	)
}
