package duper

// PromoteToOwned returns a deep copy of v that holds no aliases into any
// byte slice the caller might mutate or free afterward — the Go analogue
// of the Rust core's Cow::into_owned (§3.4, §4.D). Go strings are already
// immutable, so String/Key/Identifier payloads need no copying; only Bytes
// payloads (backed by a mutable []byte, potentially a sub-slice of the
// original parse buffer) are duplicated.
func (v Value) PromoteToOwned() Value {
	v.Inner = promoteInner(v.Inner)
	return v
}

func promoteInner(inner Inner) Inner {
	switch t := inner.(type) {
	case Object:
		entries := make([]Entry, len(t.Entries))
		for i, e := range t.Entries {
			entries[i] = Entry{Key: e.Key, Value: e.Value.PromoteToOwned()}
		}
		return Object{Entries: entries}
	case Array:
		elems := make([]Value, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = e.PromoteToOwned()
		}
		return Array{Elems: elems}
	case Tuple:
		elems := make([]Value, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = e.PromoteToOwned()
		}
		return Tuple{Elems: elems}
	case Bytes:
		owned := make([]byte, len(t.Data))
		copy(owned, t.Data)
		return Bytes{Data: owned}
	default:
		return inner
	}
}
