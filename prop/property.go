// Package prop implements the typed property bag used throughout the
// orchestrator wherever a map of heterogeneous configuration values is
// needed: simulation parameters, per-LP-type parameters, and scheduler
// annotations all sit on top of it.
package prop

import "fmt"

// Kind identifies which scalar type a Property holds.
type Kind int

// The four scalar kinds a Property may carry, each in scalar or vector form.
const (
	Bool Kind = iota
	Int
	Double
	String
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Double:
		return "double"
	case String:
		return "string"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Property is a tagged-variant holding either a single scalar value or a
// homogeneous ordered sequence of one of {bool, int, double, string}.
//
// Exactly one of the typed slices is populated at any time, selected by
// Kind; IsVector distinguishes a scalar (length-1, IsVector == false) from
// an explicit single-element vector. Reading or writing the wrong Kind, or
// indexing out of range, is a programming error and panics rather than
// returning a zero value, since the spec treats this as misuse, not a
// recoverable condition.
type Property struct {
	kind     Kind
	isVector bool

	bools    []bool
	ints     []int64
	doubles  []float64
	strings  []string
}

// NewBool builds a scalar boolean Property.
func NewBool(v bool) Property { return Property{kind: Bool, bools: []bool{v}} }

// NewInt builds a scalar integer Property.
func NewInt(v int64) Property { return Property{kind: Int, ints: []int64{v}} }

// NewDouble builds a scalar floating-point Property.
func NewDouble(v float64) Property { return Property{kind: Double, doubles: []float64{v}} }

// NewString builds a scalar string Property.
func NewString(v string) Property { return Property{kind: String, strings: []string{v}} }

// NewBoolVector builds a vector boolean Property.
func NewBoolVector(v []bool) Property {
	return Property{kind: Bool, isVector: true, bools: append([]bool(nil), v...)}
}

// NewIntVector builds a vector integer Property.
func NewIntVector(v []int64) Property {
	return Property{kind: Int, isVector: true, ints: append([]int64(nil), v...)}
}

// NewDoubleVector builds a vector floating-point Property.
func NewDoubleVector(v []float64) Property {
	return Property{kind: Double, isVector: true, doubles: append([]float64(nil), v...)}
}

// NewStringVector builds a vector string Property.
func NewStringVector(v []string) Property {
	return Property{kind: String, isVector: true, strings: append([]string(nil), v...)}
}

// Kind reports the element type carried by the Property.
func (p Property) Kind() Kind { return p.kind }

// IsVector reports whether the Property was constructed as a vector, as
// opposed to a bare scalar.
func (p Property) IsVector() bool { return p.isVector }

// Len returns the element count.
func (p Property) Len() int {
	switch p.kind {
	case Bool:
		return len(p.bools)
	case Int:
		return len(p.ints)
	case Double:
		return len(p.doubles)
	case String:
		return len(p.strings)
	default:
		return 0
	}
}

func (p Property) mustKind(k Kind) {
	if p.kind != k {
		panic(fmt.Sprintf("prop: expected %s property, got %s", k, p.kind))
	}
}

func (p Property) mustIndex(i int) {
	if i < 0 || i >= p.Len() {
		panic(fmt.Sprintf("prop: index %d out of range [0,%d)", i, p.Len()))
	}
}

// Bool returns the scalar (index 0) boolean value.
func (p Property) Bool() bool { return p.BoolAt(0) }

// BoolAt returns the boolean value at index i.
func (p Property) BoolAt(i int) bool {
	p.mustKind(Bool)
	p.mustIndex(i)
	return p.bools[i]
}

// Int returns the scalar (index 0) integer value.
func (p Property) Int() int64 { return p.IntAt(0) }

// IntAt returns the integer value at index i.
func (p Property) IntAt(i int) int64 {
	p.mustKind(Int)
	p.mustIndex(i)
	return p.ints[i]
}

// Double returns the scalar (index 0) floating-point value.
func (p Property) Double() float64 { return p.DoubleAt(0) }

// DoubleAt returns the floating-point value at index i.
func (p Property) DoubleAt(i int) float64 {
	p.mustKind(Double)
	p.mustIndex(i)
	return p.doubles[i]
}

// String returns the scalar (index 0) string value.
func (p Property) String() string { return p.StringAt(0) }

// StringAt returns the string value at index i.
func (p Property) StringAt(i int) string {
	p.mustKind(String)
	p.mustIndex(i)
	return p.strings[i]
}

// Bools returns the full boolean vector. The caller must not mutate it.
func (p Property) Bools() []bool { p.mustKind(Bool); return p.bools }

// Ints returns the full integer vector. The caller must not mutate it.
func (p Property) Ints() []int64 { p.mustKind(Int); return p.ints }

// Doubles returns the full floating-point vector. The caller must not mutate it.
func (p Property) Doubles() []float64 { p.mustKind(Double); return p.doubles }

// Strings returns the full string vector. The caller must not mutate it.
func (p Property) Strings() []string { p.mustKind(String); return p.strings }
