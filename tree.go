package dml

import (
	"github.com/pkg/errors"
)

const recordLabel = "RECORD"

// Node is an element of the textual tree form. The tree has three levels
// below the root: tables, RECORD elements and field leaves.
type Node struct {
	Label      string     `json:"label"`
	Attributes Attributes `json:"attributes,omitempty"`
	Text       string     `json:"text,omitempty"`
	Children   []*Node    `json:"children,omitempty"`
}

// ToTree renders db under a root element called name.
func ToTree(db *Database, name string) *Node {
	root := &Node{Label: name, Children: make([]*Node, 0, db.Len())}
	for _, t := range db.tables {
		tn := &Node{Label: t.Target, Children: make([]*Node, 0, len(t.Records))}
		for _, rec := range t.Records {
			rn := &Node{Label: recordLabel, Children: make([]*Node, 0, len(rec))}
			for _, f := range rec {
				attrs := f.Attributes
				if len(attrs) == 0 {
					attrs = DefaultAttributes(f.Name, f.Type)
				}
				rn.Children = append(rn.Children, &Node{
					Label:      f.Name,
					Attributes: append(Attributes(nil), attrs...),
					Text:       f.Text(),
				})
			}
			tn.Children = append(tn.Children, rn)
		}
		root.Children = append(root.Children, tn)
	}
	return root
}

// FromTree rebuilds a database from a tree produced by ToTree or read
// from a document. Every leaf must carry a known TYPE attribute.
// Repeated table elements follow cfg.Duplicates.
func FromTree(root *Node, cfg *Config) (*Database, error) {
	cfg, err := resolveConfig(cfg)
	if err != nil {
		return nil, err
	}

	tc := newTableCollector(cfg)
	for _, tn := range root.Children {
		t := &Table{Target: tn.Label, Records: make([]Record, 0, len(tn.Children))}
		for i, rn := range tn.Children {
			rec := make(Record, 0, len(rn.Children))
			for _, leaf := range rn.Children {
				f, err := leafField(leaf)
				if err != nil {
					return nil, errors.Wrapf(err, "table %s record %d", tn.Label, i)
				}
				rec = append(rec, f)
			}
			t.Records = append(t.Records, rec)
		}

		var fp uint64
		if rt, err := t.Template(); err == nil {
			fp = rt.Fingerprint()
		}
		if err := tc.add(t, fp); err != nil {
			return nil, err
		}
	}
	return tc.db, nil
}

func leafField(leaf *Node) (Field, error) {
	name, ok := leaf.Attributes.Get(AttrType)
	if !ok {
		return Field{}, errors.Wrapf(
			ErrUnknownType,
			"element %s has no %s attribute, attributes: %v",
			leaf.Label, AttrType, leaf.Attributes.Keys(),
		)
	}

	t, err := ParseType(name)
	if err != nil {
		return Field{}, errors.Wrapf(err, "element %s, attributes: %v", leaf.Label, leaf.Attributes.Keys())
	}

	return ParseField(leaf.Label, t, leaf.Text, leaf.Attributes)
}
