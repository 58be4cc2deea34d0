package types

import "math"

// DataType is the declared numeric or string type of a port or value.
type DataType string

const (
	TypeI32 DataType = "i32"
	TypeF32 DataType = "f32"
	TypeF64 DataType = "f64"
	TypeString DataType = "string"
)

// IsNumeric reports whether t participates in arithmetic.
func (t DataType) IsNumeric() bool {
	switch t {
	case TypeI32, TypeF32, TypeF64:
		return true
	default:
		return false
	}
}

// Value is the tagged scalar carried on every port. Only the numeric
// variants (i32, f32, f64) participate in computation; string values are
// pass-through and never appear on a compute path.
type Value struct {
	typ DataType
	i32 int32
	f32 float32
	f64 float64
	str string
}

// Type returns the value's tagged variant.
func (v Value) Type() DataType { return v.typ }

// I32 returns the raw i32 payload (only meaningful when Type() == TypeI32).
func (v Value) I32() int32 { return v.i32 }

// F32 returns the raw f32 payload (only meaningful when Type() == TypeF32).
func (v Value) F32() float32 { return v.f32 }

// F64 returns the raw f64 payload (only meaningful when Type() == TypeF64).
func (v Value) F64() float64 { return v.f64 }

// Str returns the raw string payload (only meaningful when Type() == TypeString).
func (v Value) Str() string { return v.str }

// I32Value constructs an i32-tagged Value.
func I32Value(n int32) Value { return Value{typ: TypeI32, i32: n} }

// F32Value constructs an f32-tagged Value.
func F32Value(n float32) Value { return Value{typ: TypeF32, f32: n} }

// F64Value constructs an f64-tagged Value.
func F64Value(n float64) Value { return Value{typ: TypeF64, f64: n} }

// StringValue constructs a string-tagged Value.
func StringValue(s string) Value { return Value{typ: TypeString, str: s} }

// Zero returns the type-appropriate zero value for t.
func Zero(t DataType) Value {
	switch t {
	case TypeI32:
		return I32Value(0)
	case TypeF32:
		return F32Value(0)
	case TypeF64:
		return F64Value(0)
	default:
		return StringValue("")
	}
}

// One returns the type-appropriate value "one" for t, used by Timer's
// pulse output.
func One(t DataType) Value {
	switch t {
	case TypeI32:
		return I32Value(1)
	case TypeF32:
		return F32Value(1)
	case TypeF64:
		return F64Value(1)
	default:
		return StringValue("")
	}
}

// CoerceTo converts v to the declared type t: integer<->float truncates
// toward zero on the way to an integer, and f32<->f64 conversions use
// standard IEEE-754 rounding. Strings never participate in numeric
// coercion; coercing a string value returns it unchanged regardless of
// t, since a numeric<->non-numeric connection is rejected at load and
// this path is therefore never exercised on a real edge.
func (v Value) CoerceTo(t DataType) Value {
	if v.typ == t {
		return v
	}
	if v.typ == TypeString || t == TypeString {
		return v
	}
	switch t {
	case TypeI32:
		switch v.typ {
		case TypeF32:
			return I32Value(int32(v.f32))
		case TypeF64:
			return I32Value(int32(v.f64))
		}
	case TypeF32:
		switch v.typ {
		case TypeI32:
			return F32Value(float32(v.i32))
		case TypeF64:
			return F32Value(float32(v.f64))
		}
	case TypeF64:
		switch v.typ {
		case TypeI32:
			return F64Value(float64(v.i32))
		case TypeF32:
			return F64Value(float64(v.f32))
		}
	}
	return v
}

// AsF64 coerces v to f64 and returns the raw float, regardless of v's
// current type. Used by node kinds whose compute type is f64 to read an
// arbitrarily-typed input uniformly.
func (v Value) AsF64() float64 {
	return v.CoerceTo(TypeF64).f64
}

// Equal compares two values of the same declared type for change
// detection. Integers compare exactly; strings compare byte-for-byte.
// Floats compare by value, except that two NaN payloads of the same
// width are treated as equal to each other, preventing a NaN output
// from propagating on every generation forever.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}
	switch v.typ {
	case TypeI32:
		return v.i32 == other.i32
	case TypeF32:
		if isNaN32(v.f32) && isNaN32(other.f32) {
			return true
		}
		return v.f32 == other.f32
	case TypeF64:
		if math.IsNaN(v.f64) && math.IsNaN(other.f64) {
			return true
		}
		return v.f64 == other.f64
	default:
		return v.str == other.str
	}
}

func isNaN32(f float32) bool {
	return f != f
}
