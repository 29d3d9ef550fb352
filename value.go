// Package duper implements the Duper value model: a tagged, schema-optional
// data value that may carry a nominal identifier over any of its inner
// shapes — objects, arrays, tuples, strings, bytes, the temporal family,
// integers, floats, booleans, and null.
//
// A Value is deliberately a plain, comparable-by-convention Go struct
// rather than an interface hierarchy with one concrete type per variant:
// Inner is the one place that needs open variants, modeled as a small
// closed interface with an unexported marker method.
package duper

import "github.com/duperfmt/duper/temporal"

// Value is the universal data unit: an optional Identifier plus an Inner
// payload.
type Value struct {
	Identifier string // "" means no identifier; use HasIdent to disambiguate from Identifier("")
	HasIdent   bool
	Inner      Inner
}

// WithIdentifier returns a copy of v carrying the given identifier.
func (v Value) WithIdentifier(id string) Value {
	v.Identifier = id
	v.HasIdent = true
	return v
}

// WithoutIdentifier returns a copy of v with no identifier. Nested values
// (object/array/tuple elements) are untouched; see WithoutIdentifierRecursive
// to strip an entire tree.
func (v Value) WithoutIdentifier() Value {
	v.Identifier = ""
	v.HasIdent = false
	return v
}

// WithoutIdentifierRecursive returns a copy of v, and every value nested
// inside it, with no identifier. Renderers that print one value per call
// (the canonical serializer) need this to honor a strip-identifiers option
// at every depth, not just the root.
func (v Value) WithoutIdentifierRecursive() Value {
	v = v.WithoutIdentifier()
	switch inner := v.Inner.(type) {
	case Object:
		entries := make([]Entry, len(inner.Entries))
		for i, e := range inner.Entries {
			entries[i] = Entry{Key: e.Key, Value: e.Value.WithoutIdentifierRecursive()}
		}
		v.Inner = Object{Entries: entries}
	case Array:
		elems := make([]Value, len(inner.Elems))
		for i, e := range inner.Elems {
			elems[i] = e.WithoutIdentifierRecursive()
		}
		v.Inner = Array{Elems: elems}
	case Tuple:
		elems := make([]Value, len(inner.Elems))
		for i, e := range inner.Elems {
			elems[i] = e.WithoutIdentifierRecursive()
		}
		v.Inner = Tuple{Elems: elems}
	}
	return v
}

// Ident returns v's identifier and whether one is present.
func (v Value) Ident() (string, bool) {
	return v.Identifier, v.HasIdent
}

// Inner is the payload of a Value: exactly one of Object, Array, Tuple,
// String, Bytes, Temporal, Integer, Float, Boolean, or Null.
type Inner interface {
	innerTag()
}

// Entry is a single (key, value) pair of an Object. Order is
// preservation-only; semantic equality of Objects is order-insensitive
// (§3.2).
type Entry struct {
	Key   string
	Value Value
}

type (
	// Object holds an ordered sequence of uniquely-keyed entries.
	Object struct{ Entries []Entry }
	// Array holds a homogeneous-by-convention, heterogeneous-in-practice
	// ordered sequence.
	Array struct{ Elems []Value }
	// Tuple holds a positional sequence of any arity, including 0 and 1.
	Tuple struct{ Elems []Value }
	// String holds UTF-8 text.
	String struct{ Text string }
	// Bytes holds an arbitrary byte sequence.
	Bytes struct{ Data []byte }
	// Temporal holds one of the eight ISO-8601 sub-variants, or the
	// Unspecified carrier, as validated carrier text.
	Temporal struct {
		Variant temporal.Variant
		Carrier string
	}
	// Integer holds a signed 64-bit integer.
	Integer struct{ N int64 }
	// Float holds a 64-bit IEEE-754 float, including NaN and infinities.
	Float struct{ F float64 }
	// Boolean holds true or false.
	Boolean struct{ B bool }
	// Null holds no payload.
	Null struct{}
)

func (Object) innerTag()   {}
func (Array) innerTag()    {}
func (Tuple) innerTag()    {}
func (String) innerTag()   {}
func (Bytes) innerTag()    {}
func (Temporal) innerTag() {}
func (Integer) innerTag()  {}
func (Float) innerTag()    {}
func (Boolean) innerTag()  {}
func (Null) innerTag()     {}

// Convenience constructors for untagged values; use Value.WithIdentifier
// to attach an identifier afterward.

func NewObject(entries []Entry) Value   { return Value{Inner: Object{Entries: entries}} }
func NewArray(elems []Value) Value      { return Value{Inner: Array{Elems: elems}} }
func NewTuple(elems []Value) Value      { return Value{Inner: Tuple{Elems: elems}} }
func NewString(s string) Value          { return Value{Inner: String{Text: s}} }
func NewBytes(b []byte) Value           { return Value{Inner: Bytes{Data: b}} }
func NewInteger(n int64) Value          { return Value{Inner: Integer{N: n}} }
func NewFloat(f float64) Value          { return Value{Inner: Float{F: f}} }
func NewBoolean(b bool) Value           { return Value{Inner: Boolean{B: b}} }
func NewNull() Value                    { return Value{Inner: Null{}} }
func NewTemporal(v temporal.Variant, carrier string) Value {
	return Value{Inner: Temporal{Variant: v, Carrier: carrier}}
}
