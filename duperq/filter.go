package duperq

import (
	"regexp"

	duper "github.com/duperfmt/duper"
	"github.com/duperfmt/duper/temporal"
)

// Predicate is a filter over a single value (§4.I). Eval never errors: a
// predicate that cannot type-check against its operand (e.g. ordering a
// PlainMonthDay) simply evaluates to false, matching the cast table's
// "if cast fails the predicate is false" rule generalized to every leaf.
type Predicate interface {
	Eval(v duper.Value) bool
}

// True always matches.
type True struct{}

func (True) Eval(duper.Value) bool { return true }

// Eq matches values structurally equal to Want, per duper.Equal's
// identifier-sensitive rule — except that §4.I says the identifier only
// participates in the comparison when Want itself names one explicitly,
// so an unidentified pattern matches any identifier.
type Eq struct{ Want duper.Value }

func (f Eq) Eval(v duper.Value) bool { return eqFilterValue(f.Want, v) }

// Ne is the negation of Eq.
type Ne struct{ Want duper.Value }

func (f Ne) Eval(v duper.Value) bool { return !eqFilterValue(f.Want, v) }

func eqFilterValue(want, v duper.Value) bool {
	if want.HasIdent && (!v.HasIdent || want.Identifier != v.Identifier) {
		return false
	}
	unidentified := want
	unidentified.HasIdent = false
	unidentified.Identifier = ""
	vUnidentified := v
	vUnidentified.HasIdent = false
	vUnidentified.Identifier = ""
	return duper.Equal(unidentified, vUnidentified)
}

// Ordering is the comparison kind used by Lt/Le/Gt/Ge.
type Ordering int

const (
	OrdLt Ordering = iota
	OrdLe
	OrdGt
	OrdGe
)

// Cmp implements the four ordered comparisons against Want, promoting
// integer↔float and comparing temporals within their variant (§4.I).
// PlainMonthDay and cross-kind comparisons have no ordering and evaluate
// to false.
type Cmp struct {
	Op   Ordering
	Want duper.Value
}

func (f Cmp) Eval(v duper.Value) bool {
	c, ok := compareValues(v, f.Want)
	if !ok {
		return false
	}
	switch f.Op {
	case OrdLt:
		return c < 0
	case OrdLe:
		return c <= 0
	case OrdGt:
		return c > 0
	case OrdGe:
		return c >= 0
	}
	return false
}

func compareValues(a, b duper.Value) (int, bool) {
	switch av := a.Inner.(type) {
	case duper.Integer:
		switch bv := b.Inner.(type) {
		case duper.Integer:
			return cmpInt(av.N, bv.N), true
		case duper.Float:
			return cmpFloat(float64(av.N), bv.F), true
		}
	case duper.Float:
		switch bv := b.Inner.(type) {
		case duper.Integer:
			return cmpFloat(av.F, float64(bv.N)), true
		case duper.Float:
			return cmpFloat(av.F, bv.F), true
		}
	case duper.Temporal:
		if bv, ok := b.Inner.(duper.Temporal); ok && av.Variant == bv.Variant {
			return temporal.Compare(av.Variant, av.Carrier, bv.Carrier)
		}
	case duper.String:
		if bv, ok := b.Inner.(duper.String); ok {
			return cmpString(av.Text, bv.Text), true
		}
	}
	return 0, false
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// IsType matches values whose runtime type is T (§4.I's `Is(type)`); see
// the package-level Is function in types.go for the type-check itself.
type IsType struct{ T Type }

func (f IsType) Eval(v duper.Value) bool { return Is(v, f.T) }

// Regex matches a string/bytes/temporal-carrier value against Pattern.
type Regex struct{ Pattern *regexp.Regexp }

func (f Regex) Eval(v duper.Value) bool {
	switch inner := v.Inner.(type) {
	case duper.String:
		return f.Pattern.MatchString(inner.Text)
	case duper.Bytes:
		return f.Pattern.Match(inner.Data)
	case duper.Temporal:
		return f.Pattern.MatchString(inner.Carrier)
	}
	return false
}

// RegexIdentifier matches a value's identifier against Pattern.
type RegexIdentifier struct{ Pattern *regexp.Regexp }

func (f RegexIdentifier) Eval(v duper.Value) bool {
	return v.HasIdent && f.Pattern.MatchString(v.Identifier)
}

// LenOp is the comparison operator Len applies to a container/string
// length.
type LenOp int

const (
	LenEq LenOp = iota
	LenNe
	LenLt
	LenLe
	LenGt
	LenGe
)

// Len applies Op to the length of v's object/array/tuple/string/bytes
// payload; any other kind fails to type-check and evaluates to false.
type Len struct {
	Op LenOp
	N  int
}

func (f Len) Eval(v duper.Value) bool {
	n, ok := lengthOf(v)
	if !ok {
		return false
	}
	switch f.Op {
	case LenEq:
		return n == f.N
	case LenNe:
		return n != f.N
	case LenLt:
		return n < f.N
	case LenLe:
		return n <= f.N
	case LenGt:
		return n > f.N
	case LenGe:
		return n >= f.N
	}
	return false
}

func lengthOf(v duper.Value) (int, bool) {
	switch inner := v.Inner.(type) {
	case duper.Object:
		return len(inner.Entries), true
	case duper.Array:
		return len(inner.Elems), true
	case duper.Tuple:
		return len(inner.Elems), true
	case duper.String:
		return len([]rune(inner.Text)), true
	case duper.Bytes:
		return len(inner.Data), true
	}
	return 0, false
}

// Exists is true iff Acc yields at least one result from v.
type Exists struct{ Acc Accessor }

func (f Exists) Eval(v duper.Value) bool { return len(f.Acc.Access(v)) > 0 }

// IsTruthy is false for an empty container/string/bytes, a zero number,
// false, or null; true otherwise (§4.I).
type IsTruthy struct{}

func (IsTruthy) Eval(v duper.Value) bool { return IsTruthyValue(v) }

func isTruthyImpl(v duper.Value) bool {
	switch inner := v.Inner.(type) {
	case duper.Object:
		return len(inner.Entries) > 0
	case duper.Array:
		return len(inner.Elems) > 0
	case duper.Tuple:
		return len(inner.Elems) > 0
	case duper.String:
		return inner.Text != ""
	case duper.Bytes:
		return len(inner.Data) > 0
	case duper.Integer:
		return inner.N != 0
	case duper.Float:
		return inner.F != 0
	case duper.Boolean:
		return inner.B
	case duper.Null:
		return false
	case duper.Temporal:
		return true
	default:
		return true
	}
}

// IsTruthy exported as a function for use by the cast table (Cast(...,
// Boolean)), mirroring the Rust original's IsTruthyFilter::filter being
// called directly from DuperType::cast.
func IsTruthyValue(v duper.Value) bool { return isTruthyImpl(v) }

// Not negates Inner.
type Not struct{ Inner Predicate }

func (f Not) Eval(v duper.Value) bool { return !f.Inner.Eval(v) }

// And is a short-circuiting conjunction.
type And struct{ Preds []Predicate }

func (f And) Eval(v duper.Value) bool {
	for _, p := range f.Preds {
		if !p.Eval(v) {
			return false
		}
	}
	return true
}

// Or is a short-circuiting disjunction.
type Or struct{ Preds []Predicate }

func (f Or) Eval(v duper.Value) bool {
	for _, p := range f.Preds {
		if p.Eval(v) {
			return true
		}
	}
	return false
}

// CastPredicate applies Inner after converting v through the cast table
// (§4.I.1); a failed cast makes the predicate false.
type CastPredicate struct {
	T     Type
	Inner Predicate
}

func (f CastPredicate) Eval(v duper.Value) bool {
	cast := Cast(v, f.T)
	if cast == nil {
		return false
	}
	return f.Inner.Eval(*cast)
}

// AccessorPredicate is the existential form: true iff any value Acc
// yields from v satisfies Inner.
type AccessorPredicate struct {
	Acc   Accessor
	Inner Predicate
}

func (f AccessorPredicate) Eval(v duper.Value) bool {
	for _, c := range f.Acc.Access(v) {
		if f.Inner.Eval(c) {
			return true
		}
	}
	return false
}
