package dml

import (
	"math"
	"strconv"
)

// Value is a field value. The concrete type always matches one wire Type:
// GID, Int, Uint, Float, Byte, UByte, UShort, Double, Str or WStr.
type Value interface {
	Type() Type
	// String renders the value in its canonical text form.
	String() string
	isValue()
}

type (
	GID    uint64
	Int    int32
	Uint   uint32
	Float  float32
	Byte   int8
	UByte  uint8
	UShort uint16
	Double float64
	Str    string
	WStr   string
)

func (GID) Type() Type    { return TypeGID }
func (Int) Type() Type    { return TypeINT }
func (Uint) Type() Type   { return TypeUINT }
func (Float) Type() Type  { return TypeFLT }
func (Byte) Type() Type   { return TypeBYT }
func (UByte) Type() Type  { return TypeUBYT }
func (UShort) Type() Type { return TypeUSHRT }
func (Double) Type() Type { return TypeDBL }
func (Str) Type() Type    { return TypeSTR }
func (WStr) Type() Type   { return TypeWSTR }

func (v GID) String() string    { return strconv.FormatUint(uint64(v), 10) }
func (v Int) String() string    { return strconv.FormatInt(int64(v), 10) }
func (v Uint) String() string   { return strconv.FormatUint(uint64(v), 10) }
func (v Float) String() string  { return formatFloat(float64(v), 32) }
func (v Byte) String() string   { return strconv.FormatInt(int64(v), 10) }
func (v UByte) String() string  { return strconv.FormatUint(uint64(v), 10) }
func (v UShort) String() string { return strconv.FormatUint(uint64(v), 10) }
func (v Double) String() string { return formatFloat(float64(v), 64) }
func (v Str) String() string    { return string(v) }
func (v WStr) String() string   { return string(v) }

func (GID) isValue()    {}
func (Int) isValue()    {}
func (Uint) isValue()   {}
func (Float) isValue()  {}
func (Byte) isValue()   {}
func (UByte) isValue()  {}
func (UShort) isValue() {}
func (Double) isValue() {}
func (Str) isValue()    {}
func (WStr) isValue()   {}

// Zero returns the zero value of t, or nil for an unknown type.
func Zero(t Type) Value {
	switch t {
	case TypeGID:
		return GID(0)
	case TypeINT:
		return Int(0)
	case TypeUINT:
		return Uint(0)
	case TypeFLT:
		return Float(0)
	case TypeBYT:
		return Byte(0)
	case TypeUBYT:
		return UByte(0)
	case TypeUSHRT:
		return UShort(0)
	case TypeDBL:
		return Double(0)
	case TypeSTR:
		return Str("")
	case TypeWSTR:
		return WStr("")
	}
	return nil
}

// formatFloat prints the shortest decimal that parses back to the same
// float of the given bit size, switching to exponent form only for very
// large or very small magnitudes.
func formatFloat(f float64, bits int) string {
	abs := math.Abs(f)
	if abs != 0 && !math.IsInf(f, 0) && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, bits)
	}
	return strconv.FormatFloat(f, 'f', -1, bits)
}
