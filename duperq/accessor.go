package duperq

import duper "github.com/duperfmt/duper"

// Accessor is a function from a value to a lazy sequence of value
// references (§4.H). Go has no native lazy generator, so Access returns a
// slice rather than an iterator; every accessor here is evaluated against
// an already-materialized Value tree (never an unbounded stream), so the
// allocation this costs is bounded by the tree itself. Order across
// compositions is left-to-right; duplicates are not deduplicated.
type Accessor interface {
	Access(v duper.Value) []duper.Value
}

// Field yields the entry with key K, 0 or 1 results, if v is an object.
type Field struct{ Key string }

func (f Field) Access(v duper.Value) []duper.Value {
	obj, ok := v.Inner.(duper.Object)
	if !ok {
		return nil
	}
	for _, e := range obj.Entries {
		if e.Key == f.Key {
			return []duper.Value{e.Value}
		}
	}
	return nil
}

// Index yields the element at position I (0-based) if v is array/tuple
// and I is in range.
type Index struct{ I int }

func (a Index) Access(v duper.Value) []duper.Value {
	elems, ok := elemsOf(v)
	if !ok || a.I < 0 || a.I >= len(elems) {
		return nil
	}
	return []duper.Value{elems[a.I]}
}

// ReverseIndex indexes from the end, 1-based (ReverseIndex{1} is the last
// element).
type ReverseIndex struct{ I int }

func (a ReverseIndex) Access(v duper.Value) []duper.Value {
	elems, ok := elemsOf(v)
	if !ok || a.I <= 0 || a.I > len(elems) {
		return nil
	}
	return []duper.Value{elems[len(elems)-a.I]}
}

// Range yields a slice of elements; a nil Start/End bound is unbounded in
// that direction. Negative bounds and out-of-range windows yield zero
// results rather than erroring (§4.H).
type Range struct {
	Start     *int
	End       *int
	Inclusive bool
}

func (r Range) Access(v duper.Value) []duper.Value {
	elems, ok := elemsOf(v)
	if !ok {
		return nil
	}
	start := 0
	if r.Start != nil {
		if *r.Start < 0 {
			return nil
		}
		start = *r.Start
	}
	end := len(elems)
	if r.End != nil {
		if *r.End < 0 {
			return nil
		}
		end = *r.End
		if r.Inclusive {
			end++
		}
	}
	if start > end || start > len(elems) {
		return nil
	}
	if end > len(elems) {
		end = len(elems)
	}
	return append([]duper.Value(nil), elems[start:end]...)
}

// Any yields all direct children: object values, or array/tuple elements.
type Any struct{}

func (Any) Access(v duper.Value) []duper.Value {
	switch inner := v.Inner.(type) {
	case duper.Object:
		out := make([]duper.Value, len(inner.Entries))
		for i, e := range inner.Entries {
			out[i] = e.Value
		}
		return out
	case duper.Array:
		return append([]duper.Value(nil), inner.Elems...)
	case duper.Tuple:
		return append([]duper.Value(nil), inner.Elems...)
	}
	return nil
}

// Filter yields the direct children of v (as Any would) that satisfy F.
type Filter struct{ F Predicate }

func (f Filter) Access(v duper.Value) []duper.Value {
	children := Any{}.Access(v)
	var out []duper.Value
	for _, c := range children {
		if f.F.Eval(c) {
			out = append(out, c)
		}
	}
	return out
}

// Flattened composes accessors as a cross-product pipeline: the result of
// a[0] is fed into a[1], and so on.
type Flattened struct{ Accessors []Accessor }

func (f Flattened) Access(v duper.Value) []duper.Value {
	cur := []duper.Value{v}
	for _, acc := range f.Accessors {
		var next []duper.Value
		for _, c := range cur {
			next = append(next, acc.Access(c)...)
		}
		cur = next
	}
	return cur
}

func elemsOf(v duper.Value) ([]duper.Value, bool) {
	switch inner := v.Inner.(type) {
	case duper.Array:
		return inner.Elems, true
	case duper.Tuple:
		return inner.Elems, true
	}
	return nil, false
}
