package dml

import (
	"strings"

	"github.com/jinzhu/copier"
	"github.com/pkg/errors"
)

const (
	AttrType   = "TYPE"
	AttrNoXfer = "NOXFER"
)

// Attr is a single rendering attribute of a field.
type Attr struct {
	Key   string
	Value string
}

// Attributes keep their insertion order so that tree output is stable.
type Attributes []Attr

func (a Attributes) Get(key string) (string, bool) {
	for _, attr := range a {
		if attr.Key == key {
			return attr.Value, true
		}
	}
	return "", false
}

func (a Attributes) Set(key, value string) Attributes {
	for i := range a {
		if a[i].Key == key {
			a[i].Value = value
			return a
		}
	}
	return append(a, Attr{Key: key, Value: value})
}

func (a Attributes) Keys() []string {
	keys := make([]string, len(a))
	for i := range a {
		keys[i] = a[i].Key
	}
	return keys
}

// Field is a named, typed value.
type Field struct {
	Name       string
	Type       Type
	Value      Value
	Attributes Attributes
}

// NoXfer reports whether the field is a control field not meant for normal transfer.
func NoXfer(name string) bool {
	return strings.HasPrefix(name, "_")
}

// DefaultAttributes returns TYPE and, for underscore names, NOXFER.
func DefaultAttributes(name string, t Type) Attributes {
	attrs := Attributes{{Key: AttrType, Value: t.String()}}
	if NoXfer(name) {
		attrs = append(attrs, Attr{Key: AttrNoXfer, Value: "TRUE"})
	}
	return attrs
}

// NewField builds a field with default attributes. The value must match t.
func NewField(name string, t Type, v Value) (Field, error) {
	if !t.Valid() {
		return Field{}, errors.Wrapf(ErrUnknownType, "field %s: type tag %d", name, uint8(t))
	}
	if v == nil {
		v = Zero(t)
	}
	if v.Type() != t {
		return Field{}, errors.Wrapf(ErrInvalidValue, "field %s is %s but value is %s", name, t, v.Type())
	}
	return Field{Name: name, Type: t, Value: v, Attributes: DefaultAttributes(name, t)}, nil
}

// MustField is NewField that panics on error; meant for literals and tests.
func MustField(name string, t Type, v Value) Field {
	f, err := NewField(name, t, v)
	if err != nil {
		panic(err)
	}
	return f
}

// ParseField coerces text to t and keeps the given attributes, forcing TYPE
// to agree with t.
func ParseField(name string, t Type, text string, attrs Attributes) (Field, error) {
	v, err := ParseValue(t, text)
	if err != nil {
		return Field{}, errors.Wrapf(err, "field %s", name)
	}
	f := Field{Name: name, Type: t, Value: v}
	if len(attrs) == 0 {
		f.Attributes = DefaultAttributes(name, t)
	} else {
		f.Attributes = append(Attributes(nil), attrs...).Set(AttrType, t.String())
	}
	return f, nil
}

// Text renders the value in canonical text form.
func (f Field) Text() string {
	if f.Value == nil {
		return ""
	}
	return f.Value.String()
}

func (f Field) Clone() Field {
	cp := Field{Name: f.Name, Type: f.Type, Value: f.Value}
	if f.Attributes == nil {
		return cp
	}
	if err := copier.CopyWithOption(&cp.Attributes, &f.Attributes, copier.Option{DeepCopy: true}); err != nil {
		panic("could not copy attributes of field " + f.Name + ": " + err.Error())
	}
	return cp
}
