package dml

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTemplate(t *testing.T) {
	t.Run("it reads columns up to the target table trailer", func(t *testing.T) {
		payload := templatePayload("Quests",
			Column{Name: "_Flags", Type: TypeUBYT},
			Column{Name: "Name", Type: TypeSTR},
		)
		require.Len(t, payload, 42)

		c := NewCursor(payload)
		rt, err := decodeTemplate(c, len(payload))
		require.NoError(t, err)
		assert.Equal(t, "Quests", rt.Target)
		assert.Equal(t, []Column{{Name: "_Flags", Type: TypeUBYT}, {Name: "Name", Type: TypeSTR}}, rt.Columns)
		assert.True(t, c.Exhausted())
	})

	t.Run("it rejects unknown type tags", func(t *testing.T) {
		p := &fixture{}
		p.str("Odd").u8(42).u8(fieldTerminator)
		p.column(targetTableField, TypeSTR).str("T")

		_, err := decodeTemplate(NewCursor(p.Bytes()), p.Len())
		assert.True(t, errors.Is(err, ErrUnknownType))
	})

	t.Run("it requires the target table trailer", func(t *testing.T) {
		p := &fixture{}
		p.column("ID", TypeGID)

		_, err := decodeTemplate(NewCursor(p.Bytes()), p.Len())
		assert.True(t, errors.Is(err, ErrFormat))
	})

	t.Run("bytes after the trailer are a format error", func(t *testing.T) {
		payload := append(templatePayload("T", Column{Name: "ID", Type: TypeGID}), 0x00, 0x00)

		_, err := decodeTemplate(NewCursor(payload), len(payload))
		assert.True(t, errors.Is(err, ErrFormat))
	})

	t.Run("a declared length that cuts a field short is out of bounds", func(t *testing.T) {
		payload := templatePayload("T", Column{Name: "ID", Type: TypeGID})

		_, err := decodeTemplate(NewCursor(payload), len(payload)-2)
		assert.True(t, errors.Is(err, ErrOutOfBounds))
	})

	t.Run("a negative payload size is a format error", func(t *testing.T) {
		_, err := decodeTemplate(NewCursor(nil), -2)
		assert.True(t, errors.Is(err, ErrFormat))
	})
}

func TestEncodeTemplate(t *testing.T) {
	rt := &RecordTemplate{
		Target: "Quests",
		Columns: []Column{
			{Name: "_Flags", Type: TypeUBYT},
			{Name: "Name", Type: TypeSTR},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, rt.encode(&buf))

	want := &fixture{}
	want.block(blockTemplate, templatePayload("Quests", rt.Columns...))
	assert.Equal(t, want.Bytes(), buf.Bytes())

	t.Run("the trailer literal matches the wire layout", func(t *testing.T) {
		trailer := append([]byte{0x0c, 0x00}, "_TargetTable"...)
		trailer = append(trailer, 0x09, 0x28, 0x06, 0x00)
		trailer = append(trailer, "Quests"...)
		assert.True(t, bytes.HasSuffix(buf.Bytes(), trailer))
	})
}

func TestTemplateFingerprint(t *testing.T) {
	a := &RecordTemplate{Target: "A", Columns: []Column{{Name: "ID", Type: TypeGID}, {Name: "N", Type: TypeSTR}}}
	b := &RecordTemplate{Target: "B", Columns: []Column{{Name: "ID", Type: TypeGID}, {Name: "N", Type: TypeSTR}}}
	c := &RecordTemplate{Target: "A", Columns: []Column{{Name: "ID", Type: TypeGID}, {Name: "N", Type: TypeWSTR}}}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
