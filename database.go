package dml

import (
	"github.com/tidwall/btree"
)

// Database maps target names to tables and remembers the order in which
// tables were first added; that order is the encoding order.
type Database struct {
	tables []*Table
	names  *btree.BTree
}

type tableSlot struct {
	name string
	pos  int
}

func byName(a, b interface{}) bool {
	return a.(*tableSlot).name < b.(*tableSlot).name
}

// NewDatabase builds a database from deep copies of tables, so later
// changes to the caller's records do not reach it.
func NewDatabase(tables ...*Table) *Database {
	db := newDatabase()
	for _, t := range tables {
		db.Put(t)
	}
	return db
}

func newDatabase() *Database {
	return &Database{names: btree.NewNonConcurrent(byName)}
}

// Put stores a deep copy of t under its target name. An existing table with
// the same name is replaced in place and true is returned.
func (db *Database) Put(t *Table) bool {
	return db.put(t.Clone())
}

// put stores t as is; decoders hand over tables nobody else references.
func (db *Database) put(t *Table) bool {
	if found := db.names.Get(&tableSlot{name: t.Target}); found != nil {
		slot := found.(*tableSlot)
		db.tables[slot.pos] = t
		return true
	}

	db.names.Set(&tableSlot{name: t.Target, pos: len(db.tables)})
	db.tables = append(db.tables, t)
	return false
}

func (db *Database) Get(name string) (*Table, bool) {
	found := db.names.Get(&tableSlot{name: name})
	if found == nil {
		return nil, false
	}
	return db.tables[found.(*tableSlot).pos], true
}

func (db *Database) Len() int {
	return len(db.tables)
}

// Tables returns the tables in insertion order.
func (db *Database) Tables() []*Table {
	out := make([]*Table, len(db.tables))
	copy(out, db.tables)
	return out
}

// Clone deep copies every table.
func (db *Database) Clone() *Database {
	cp := newDatabase()
	for _, t := range db.tables {
		cp.put(t.Clone())
	}
	return cp
}
