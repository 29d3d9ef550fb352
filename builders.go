package duper

import "fmt"

// DuplicateKeyError reports that an object builder was given two entries
// with the same key (§4.D, §8 "object key uniqueness").
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate object key: %q", e.Key)
}

// NewObjectChecked builds an Object value from entries, failing with a
// *DuplicateKeyError if any two entries share a key. This is the builder
// invariant check referenced by §4.D ("Object::try_from(pairs) fails if
// duplicate keys"); the parser enforces the same invariant independently
// at parse time with source position information (§4.C.4).
func NewObjectChecked(entries []Entry) (Value, error) {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Key]; dup {
			return Value{}, &DuplicateKeyError{Key: e.Key}
		}
		seen[e.Key] = struct{}{}
	}
	return NewObject(entries), nil
}

// NewTupleAny builds a Tuple value of any arity, including the empty
// tuple `(,)` and the single-element tuple `(x,)` (§3.2, §4.D).
func NewTupleAny(elems []Value) Value {
	return NewTuple(elems)
}
