// Package duperq implements the query/filter/format engine (§4.H-§4.K):
// an accessor algebra for navigating a duper.Value, a filter algebra of
// typed predicates with a cast table, a format-string template engine,
// and a streaming stage pipeline that composes the three.
package duperq

import (
	"math"
	"strings"

	duper "github.com/duperfmt/duper"
	"github.com/duperfmt/duper/temporal"
)

// Type names one of the cast targets of §4.I.1's cast table, including
// the Number union and one entry per temporal sub-variant so `Is(type)`
// (§4.I) can distinguish TemporalInstant from plain Temporal.
type Type int

const (
	TypeObject Type = iota
	TypeArray
	TypeTuple
	TypeString
	TypeBytes
	TypeTemporalInstant
	TypeTemporalZonedDateTime
	TypeTemporalPlainDate
	TypeTemporalPlainTime
	TypeTemporalPlainDateTime
	TypeTemporalPlainYearMonth
	TypeTemporalPlainMonthDay
	TypeTemporalDuration
	TypeTemporalUnspecified
	TypeTemporal // matches any sub-variant, for Is(Temporal)
	TypeInteger
	TypeFloat
	TypeNumber // Integer ∪ Float
	TypeBoolean
	TypeNull
)

func (t Type) String() string {
	switch t {
	case TypeObject:
		return "Object"
	case TypeArray:
		return "Array"
	case TypeTuple:
		return "Tuple"
	case TypeString:
		return "String"
	case TypeBytes:
		return "Bytes"
	case TypeTemporalInstant:
		return "TemporalInstant"
	case TypeTemporalZonedDateTime:
		return "TemporalZonedDateTime"
	case TypeTemporalPlainDate:
		return "TemporalPlainDate"
	case TypeTemporalPlainTime:
		return "TemporalPlainTime"
	case TypeTemporalPlainDateTime:
		return "TemporalPlainDateTime"
	case TypeTemporalPlainYearMonth:
		return "TemporalPlainYearMonth"
	case TypeTemporalPlainMonthDay:
		return "TemporalPlainMonthDay"
	case TypeTemporalDuration:
		return "TemporalDuration"
	case TypeTemporalUnspecified:
		return "TemporalUnspecified"
	case TypeTemporal:
		return "Temporal"
	case TypeInteger:
		return "Integer"
	case TypeFloat:
		return "Float"
	case TypeNumber:
		return "Number"
	case TypeBoolean:
		return "Boolean"
	case TypeNull:
		return "Null"
	default:
		return "?"
	}
}

func variantOf(t Type) (temporal.Variant, bool) {
	switch t {
	case TypeTemporalInstant:
		return temporal.Instant, true
	case TypeTemporalZonedDateTime:
		return temporal.ZonedDateTime, true
	case TypeTemporalPlainDate:
		return temporal.PlainDate, true
	case TypeTemporalPlainTime:
		return temporal.PlainTime, true
	case TypeTemporalPlainDateTime:
		return temporal.PlainDateTime, true
	case TypeTemporalPlainYearMonth:
		return temporal.PlainYearMonth, true
	case TypeTemporalPlainMonthDay:
		return temporal.PlainMonthDay, true
	case TypeTemporalDuration:
		return temporal.Duration, true
	case TypeTemporalUnspecified:
		return temporal.Unspecified, true
	default:
		return temporal.Unspecified, false
	}
}

// Is reports whether value's runtime shape matches t, per §4.I's
// `Is(type)` leaf predicate: Number matches either numeric inner variant,
// Temporal matches any sub-variant, and TemporalX matches only a
// successfully re-parsed X (mirroring the cast table's "parse-match" note
// for Is rather than requiring the stored Variant tag to equal X exactly,
// since an Unspecified-tagged carrier may still validate as a specific
// sub-variant).
func Is(value duper.Value, t Type) bool {
	switch t {
	case TypeObject:
		_, ok := value.Inner.(duper.Object)
		return ok
	case TypeArray:
		_, ok := value.Inner.(duper.Array)
		return ok
	case TypeTuple:
		_, ok := value.Inner.(duper.Tuple)
		return ok
	case TypeString:
		_, ok := value.Inner.(duper.String)
		return ok
	case TypeBytes:
		_, ok := value.Inner.(duper.Bytes)
		return ok
	case TypeInteger:
		_, ok := value.Inner.(duper.Integer)
		return ok
	case TypeFloat:
		_, ok := value.Inner.(duper.Float)
		return ok
	case TypeNumber:
		switch value.Inner.(type) {
		case duper.Integer, duper.Float:
			return true
		}
		return false
	case TypeBoolean:
		_, ok := value.Inner.(duper.Boolean)
		return ok
	case TypeNull:
		_, ok := value.Inner.(duper.Null)
		return ok
	case TypeTemporal:
		_, ok := value.Inner.(duper.Temporal)
		return ok
	default:
		if _, ok := variantOf(t); !ok {
			return false
		}
		return Cast(value, t) != nil
	}
}

// Cast converts value to type t per §4.I.1's cast table, returning nil
// when the conversion is unsupported or fails (e.g. invalid UTF-8 for
// Bytes→String, a temporal carrier that fails its target grammar).
func Cast(value duper.Value, t Type) *duper.Value {
	switch t {
	case TypeObject:
		if _, ok := value.Inner.(duper.Object); ok {
			return &value
		}
	case TypeArray:
		switch inner := value.Inner.(type) {
		case duper.Array:
			return &value
		case duper.Tuple:
			out := value
			out.Inner = duper.Array{Elems: inner.Elems}
			return &out
		}
	case TypeTuple:
		switch inner := value.Inner.(type) {
		case duper.Tuple:
			return &value
		case duper.Array:
			out := value
			out.Inner = duper.Tuple{Elems: inner.Elems}
			return &out
		}
	case TypeString:
		switch inner := value.Inner.(type) {
		case duper.String:
			return &value
		case duper.Bytes:
			if !isValidUTF8(inner.Data) {
				return nil
			}
			out := value
			out.Inner = duper.String{Text: string(inner.Data)}
			return &out
		case duper.Temporal:
			out := value
			out.Inner = duper.String{Text: inner.Carrier}
			return &out
		}
	case TypeBytes:
		switch inner := value.Inner.(type) {
		case duper.Bytes:
			return &value
		case duper.String:
			out := value
			out.Inner = duper.Bytes{Data: []byte(inner.Text)}
			return &out
		case duper.Temporal:
			out := value
			out.Inner = duper.Bytes{Data: []byte(inner.Carrier)}
			return &out
		}
	case TypeInteger:
		switch inner := value.Inner.(type) {
		case duper.Integer:
			return &value
		case duper.Float:
			if isNonFinite(inner.F) {
				return nil
			}
			out := value
			out.Inner = duper.Integer{N: int64(inner.F)}
			return &out
		}
	case TypeFloat:
		switch inner := value.Inner.(type) {
		case duper.Float:
			return &value
		case duper.Integer:
			out := value
			out.Inner = duper.Float{F: float64(inner.N)}
			return &out
		}
	case TypeNumber:
		switch value.Inner.(type) {
		case duper.Integer, duper.Float:
			return &value
		}
	case TypeBoolean:
		out := value
		out.Inner = duper.Boolean{B: IsTruthyValue(value)}
		return &out
	case TypeNull:
		out := value
		out.Inner = duper.Null{}
		return &out
	default:
		variant, ok := variantOf(t)
		if !ok {
			return nil
		}
		return castToTemporal(value, variant)
	}
	return nil
}

func castToTemporal(value duper.Value, variant temporal.Variant) *duper.Value {
	var carrier string
	switch inner := value.Inner.(type) {
	case duper.String:
		carrier = inner.Text
	case duper.Bytes:
		if !isValidUTF8(inner.Data) {
			return nil
		}
		carrier = string(inner.Data)
	case duper.Temporal:
		carrier = inner.Carrier
	default:
		return nil
	}
	if !temporal.Validate(variant, carrier) {
		return nil
	}
	out := value
	out.Inner = duper.Temporal{Variant: variant, Carrier: carrier}
	return &out
}

func isValidUTF8(b []byte) bool {
	return strings.ToValidUTF8(string(b), "�") == string(b)
}

func isNonFinite(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}
