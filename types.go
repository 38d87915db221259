package dml

import (
	"strconv"

	"github.com/pkg/errors"
)

// Type is the wire tag of a field value.
type Type uint8

const (
	TypeGID Type = iota + 1
	TypeINT
	TypeUINT
	TypeFLT
	TypeBYT
	TypeUBYT
	TypeUSHRT
	TypeDBL
	TypeSTR
	TypeWSTR
)

const typeCount = int(TypeWSTR) + 1

var typeNames = [typeCount]string{
	TypeGID:   "GID",
	TypeINT:   "INT",
	TypeUINT:  "UINT",
	TypeFLT:   "FLT",
	TypeBYT:   "BYT",
	TypeUBYT:  "UBYT",
	TypeUSHRT: "USHRT",
	TypeDBL:   "DBL",
	TypeSTR:   "STR",
	TypeWSTR:  "WSTR",
}

func (t Type) Valid() bool {
	return t >= TypeGID && t <= TypeWSTR
}

func (t Type) String() string {
	if !t.Valid() {
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
	return typeNames[t]
}

// Textual reports whether values of t are text rather than numbers.
func (t Type) Textual() bool {
	return t == TypeSTR || t == TypeWSTR
}

func TypeFromByte(b byte) (Type, error) {
	t := Type(b)
	if !t.Valid() {
		return 0, errors.Wrapf(ErrUnknownType, "type tag %d", b)
	}
	return t, nil
}

func ParseType(name string) (Type, error) {
	for t := TypeGID; t <= TypeWSTR; t++ {
		if typeNames[t] == name {
			return t, nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownType, "type name %q", name)
}
