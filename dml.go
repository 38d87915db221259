// Package dml converts DML binary table databases to a textual tree form
// and back.
//
// A DML file is a sequence of tables. Each table starts with its record
// count and carries an inline template (the schema) followed by one data
// block per record:
//
//	File         := Table*
//	Table        := record_count:u32 ServiceBlock{record_count+1}
//	ServiceBlock := 0x02 kind:u8 len:u16 payload
//
// All integers are little-endian.
package dml

import (
	"bytes"

	"github.com/pkg/errors"
)

// Decode parses a complete binary database held in b.
func Decode(b []byte, cfg *Config) (*Database, error) {
	cfg, err := resolveConfig(cfg)
	if err != nil {
		return nil, err
	}

	c := NewCursor(b)
	tc := newTableCollector(cfg)

	for !c.Exhausted() {
		t, rt, err := decodeTable(c)
		if err != nil {
			return nil, err
		}

		if err := tc.add(t, rt.Fingerprint()); err != nil {
			return nil, err
		}
	}

	return tc.db, nil
}

// tableCollector applies the duplicate table policy while a database is
// assembled from a binary stream or a tree.
type tableCollector struct {
	cfg          *Config
	db           *Database
	fingerprints map[string]uint64
}

func newTableCollector(cfg *Config) *tableCollector {
	return &tableCollector{
		cfg:          cfg,
		db:           newDatabase(),
		fingerprints: make(map[string]uint64),
	}
}

func (tc *tableCollector) add(t *Table, fp uint64) error {
	if prev, ok := tc.fingerprints[t.Target]; ok {
		if tc.cfg.Duplicates == RejectDuplicates {
			return errors.Wrapf(ErrDuplicateTable, "%s", t.Target)
		}
		tc.cfg.Logger.Printf(
			"dml: table %s appears again (schema %016x, previous %016x), keeping the last one",
			t.Target, fp, prev,
		)
	}

	tc.fingerprints[t.Target] = fp
	tc.db.put(t)
	return nil
}

// Encode serializes db in table insertion order. Every table needs at
// least one record because its template is taken from the first one.
func Encode(db *Database) ([]byte, error) {
	var buf bytes.Buffer
	for _, t := range db.tables {
		if err := t.encode(&buf); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
