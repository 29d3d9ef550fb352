package duper

import (
	"bytes"
	"math"
)

// Equal reports whether a and b are structurally equal per §3.2/§4.D:
// identifier-sensitive, object-order-insensitive with exact key matching,
// and float-bit-exact for non-NaN values (NaN never equals anything,
// including another NaN).
func Equal(a, b Value) bool {
	if a.HasIdent != b.HasIdent || (a.HasIdent && a.Identifier != b.Identifier) {
		return false
	}
	return innerEqual(a.Inner, b.Inner)
}

func innerEqual(a, b Inner) bool {
	switch av := a.(type) {
	case Object:
		bv, ok := b.(Object)
		if !ok || len(av.Entries) != len(bv.Entries) {
			return false
		}
		matched := make([]bool, len(bv.Entries))
		for _, ae := range av.Entries {
			found := false
			for i, be := range bv.Entries {
				if matched[i] || be.Key != ae.Key {
					continue
				}
				if Equal(ae.Value, be.Value) {
					matched[i] = true
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Equal(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case Tuple:
		bv, ok := b.(Tuple)
		if !ok || len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Equal(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case String:
		bv, ok := b.(String)
		return ok && av.Text == bv.Text
	case Bytes:
		bv, ok := b.(Bytes)
		return ok && bytes.Equal(av.Data, bv.Data)
	case Temporal:
		bv, ok := b.(Temporal)
		return ok && av.Variant == bv.Variant && av.Carrier == bv.Carrier
	case Integer:
		bv, ok := b.(Integer)
		return ok && av.N == bv.N
	case Float:
		bv, ok := b.(Float)
		return ok && floatBitEqual(av.F, bv.F)
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av.B == bv.B
	case Null:
		_, ok := b.(Null)
		return ok
	default:
		return false
	}
}

// floatBitEqual implements §3.2's "float-bit-exact for non-NaN (NaN ≠ NaN)"
// rule: two NaNs are never equal, and +0/-0 (same == value, different bit
// pattern) are treated as distinct, matching round-trip identity rather
// than IEEE-754 comparison semantics.
func floatBitEqual(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	return math.Float64bits(a) == math.Float64bits(b)
}
