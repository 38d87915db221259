package dml

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// MarshalJSON writes attributes as an object, keeping their order.
func (a Attributes) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(attr.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(attr.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// WriteJSON writes the tree as an indented JSON document.
func WriteJSON(w io.Writer, root *Node, indent string) error {
	b, err := json.MarshalIndent(root, "", indent)
	if err != nil {
		return errors.Wrap(err, "could not marshal tree")
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// ReadJSON parses a JSON tree document. Object member order is preserved.
func ReadJSON(r io.Reader) (*Node, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not read json tree")
	}

	if !gjson.ValidBytes(b) {
		return nil, errors.Wrap(ErrFormat, "invalid json")
	}

	doc := gjson.ParseBytes(b)
	if !doc.IsObject() {
		return nil, errors.Wrap(ErrFormat, "json tree root must be an object")
	}

	return jsonNode(doc, "$")
}

func jsonNode(res gjson.Result, path string) (*Node, error) {
	label := res.Get("label")
	if label.Type != gjson.String {
		return nil, errors.Wrapf(ErrFormat, "node %s has no string label", path)
	}

	n := &Node{Label: label.String()}

	if attrs := res.Get("attributes"); attrs.Exists() {
		if !attrs.IsObject() {
			return nil, errors.Wrapf(ErrFormat, "attributes of %s must be an object", n.Label)
		}
		attrs.ForEach(func(key, value gjson.Result) bool {
			n.Attributes = append(n.Attributes, Attr{Key: key.String(), Value: value.String()})
			return true
		})
	}

	n.Text = res.Get("text").String()

	if children := res.Get("children"); children.Exists() {
		if !children.IsArray() {
			return nil, errors.Wrapf(ErrFormat, "children of %s must be an array", n.Label)
		}
		var err error
		children.ForEach(func(_, child gjson.Result) bool {
			var cn *Node
			cn, err = jsonNode(child, path+"/"+n.Label)
			if err != nil {
				return false
			}
			n.Children = append(n.Children, cn)
			return true
		})
		if err != nil {
			return nil, err
		}
	}

	return n, nil
}
