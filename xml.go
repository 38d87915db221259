package dml

import (
	"bytes"
	"encoding/xml"
	"io"

	"github.com/pkg/errors"
)

const xmlHeader = `<?xml version="1.0" encoding="utf-8"?>` + "\n"

// WriteXML writes the tree as an indented XML document.
func WriteXML(w io.Writer, root *Node, indent string) error {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", indent)
	if err := encodeNode(enc, root); err != nil {
		return err
	}
	if err := enc.Flush(); err != nil {
		return errors.Wrap(err, "could not flush xml")
	}
	buf.WriteByte('\n')

	_, err := w.Write(buf.Bytes())
	return err
}

func encodeNode(enc *xml.Encoder, n *Node) error {
	start := xml.StartElement{Name: xml.Name{Local: n.Label}}
	for _, a := range n.Attributes {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Key}, Value: a.Value})
	}

	if err := enc.EncodeToken(start); err != nil {
		return errors.Wrapf(err, "could not write element %s", n.Label)
	}

	if len(n.Children) == 0 && n.Text != "" {
		if err := enc.EncodeToken(xml.CharData(n.Text)); err != nil {
			return errors.Wrapf(err, "could not write text of %s", n.Label)
		}
	}

	for _, child := range n.Children {
		if err := encodeNode(enc, child); err != nil {
			return err
		}
	}

	if err := enc.EncodeToken(start.End()); err != nil {
		return errors.Wrapf(err, "could not close element %s", n.Label)
	}
	return nil
}

// ReadXML parses a document into a tree. Text of elements that have
// children is discarded.
func ReadXML(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)

	var root *Node
	var stack []*Node

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(ErrFormat, err.Error())
		}

		switch el := tok.(type) {
		case xml.StartElement:
			n := &Node{Label: el.Name.Local}
			for _, a := range el.Attr {
				n.Attributes = append(n.Attributes, Attr{Key: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.Wrapf(ErrFormat, "second root element %s", n.Label)
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			n := stack[len(stack)-1]
			if len(n.Children) > 0 {
				n.Text = ""
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(el)
			}
		}
	}

	if root == nil {
		return nil, errors.Wrap(ErrFormat, "document has no root element")
	}
	return root, nil
}
