package dml

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Printf(format string, v ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, v...))
}

func TestDecode(t *testing.T) {
	t.Run("it decodes a hand assembled table", func(t *testing.T) {
		db, err := Decode(questsTable(2), nil)
		require.NoError(t, err)
		require.Equal(t, 1, db.Len())

		table, ok := db.Get("Quests")
		require.True(t, ok)
		require.Len(t, table.Records, 2)

		rec := table.Records[1]
		assert.Equal(t, "_Flags", rec[0].Name)
		assert.Equal(t, UByte(1), rec[0].Value)
		assert.Equal(t, Attributes{{Key: "TYPE", Value: "UBYT"}, {Key: "NOXFER", Value: "TRUE"}}, rec[0].Attributes)
		assert.Equal(t, Str("quest"), rec[1].Value)
		assert.Equal(t, Attributes{{Key: "TYPE", Value: "STR"}}, rec[1].Attributes)
	})

	t.Run("a table with no records only has its template", func(t *testing.T) {
		db, err := Decode(questsTable(0), nil)
		require.NoError(t, err)
		table, ok := db.Get("Quests")
		require.True(t, ok)
		assert.Empty(t, table.Records)
	})

	t.Run("empty input is an empty database", func(t *testing.T) {
		db, err := Decode(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, db.Len())
	})

	t.Run("missing data blocks are a count mismatch", func(t *testing.T) {
		b := questsTable(1)
		// declare two records while only one follows the template
		b[0] = 2

		_, err := Decode(b, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrCountMismatch), err.Error())
	})

	t.Run("data before the template is rejected", func(t *testing.T) {
		f := &fixture{}
		f.u32(1)
		f.block(blockData, []byte{0x01})

		_, err := Decode(f.Bytes(), nil)
		assert.True(t, errors.Is(err, ErrMissingTemplate))
	})

	t.Run("a second template in one table is rejected", func(t *testing.T) {
		f := &fixture{}
		f.u32(1)
		f.block(blockTemplate, templatePayload("T", Column{Name: "A", Type: TypeUBYT}))
		f.block(blockTemplate, templatePayload("T", Column{Name: "A", Type: TypeUBYT}))

		_, err := Decode(f.Bytes(), nil)
		assert.True(t, errors.Is(err, ErrFormat))
	})

	t.Run("unknown block kinds are rejected", func(t *testing.T) {
		f := &fixture{}
		f.u32(0)
		f.block(blockKind(7), nil)

		_, err := Decode(f.Bytes(), nil)
		assert.True(t, errors.Is(err, ErrFormat))
	})

	t.Run("record values must fill the data block exactly", func(t *testing.T) {
		f := &fixture{}
		f.u32(1)
		f.block(blockTemplate, templatePayload("T", Column{Name: "A", Type: TypeUBYT}))
		f.block(blockData, []byte{0x01, 0x02})

		_, err := Decode(f.Bytes(), nil)
		assert.True(t, errors.Is(err, ErrFormat))
	})

	t.Run("record values overrunning the data block are out of bounds", func(t *testing.T) {
		f := &fixture{}
		f.u32(1)
		f.block(blockTemplate, templatePayload("T", Column{Name: "A", Type: TypeUINT}))
		f.block(blockData, []byte{0x01, 0x02})

		_, err := Decode(f.Bytes(), nil)
		assert.True(t, errors.Is(err, ErrOutOfBounds))
	})

	t.Run("a truncated table header is out of bounds", func(t *testing.T) {
		_, err := Decode([]byte{0x01, 0x00}, nil)
		assert.True(t, errors.Is(err, ErrOutOfBounds))
	})
}

func TestDecodeDuplicateTables(t *testing.T) {
	first := questsTable(1)
	second := questsTable(2)
	b := append(append([]byte{}, first...), second...)

	t.Run("the last table wins and a warning is logged", func(t *testing.T) {
		log := &recordingLogger{}
		db, err := Decode(b, &Config{Logger: log})
		require.NoError(t, err)

		table, ok := db.Get("Quests")
		require.True(t, ok)
		assert.Len(t, table.Records, 2)
		require.Len(t, log.lines, 1)
		assert.Contains(t, log.lines[0], "Quests")
	})

	t.Run("the reject policy fails", func(t *testing.T) {
		_, err := Decode(b, &Config{Duplicates: RejectDuplicates})
		assert.True(t, errors.Is(err, ErrDuplicateTable))
	})

	t.Run("an unknown policy is a configuration error", func(t *testing.T) {
		_, err := Decode(b, &Config{Duplicates: "merge"})
		assert.Error(t, err)
	})
}

func TestEncode(t *testing.T) {
	t.Run("it writes the layout the decoder expects", func(t *testing.T) {
		db := NewDatabase(NewTable("Quests",
			Record{MustField("_Flags", TypeUBYT, UByte(0)), MustField("Name", TypeSTR, Str("quest"))},
			Record{MustField("_Flags", TypeUBYT, UByte(1)), MustField("Name", TypeSTR, Str("quest"))},
		))

		b, err := Encode(db)
		require.NoError(t, err)
		assert.Equal(t, questsTable(2), b)
	})

	t.Run("binary round trip keeps tables records and values", func(t *testing.T) {
		db := sampleDatabase()

		b, err := Encode(db)
		require.NoError(t, err)

		decoded, err := Decode(b, nil)
		require.NoError(t, err)

		assert.Equal(t, []string{"Items", "Zones"}, tableNames(decoded))
		for _, want := range db.Tables() {
			got, ok := decoded.Get(want.Target)
			require.True(t, ok)
			assert.Equal(t, want.Records, got.Records)
		}

		again, err := Encode(decoded)
		require.NoError(t, err)
		assert.True(t, bytes.Equal(b, again))
	})

	t.Run("a table without records cannot be encoded", func(t *testing.T) {
		_, err := Encode(NewDatabase(NewTable("Empty")))
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEmptyTable))
	})

	t.Run("records must share the first record schema", func(t *testing.T) {
		db := NewDatabase(NewTable("Mixed",
			Record{MustField("A", TypeINT, Int(1))},
			Record{MustField("A", TypeUINT, Uint(1))},
		))

		_, err := Encode(db)
		assert.True(t, errors.Is(err, ErrFormat))
	})

	t.Run("oversized records are rejected", func(t *testing.T) {
		long := Str(bytes.Repeat([]byte{'x'}, maxLen16-4))
		db := NewDatabase(NewTable("Big", Record{MustField("Blob", TypeSTR, long)}))

		_, err := Encode(db)
		assert.True(t, errors.Is(err, ErrValueTooLong))
	})
}

func tableNames(db *Database) []string {
	var names []string
	for _, t := range db.Tables() {
		names = append(names, t.Target)
	}
	return names
}
