// Package mapper implements the serde-style bridge between the value
// model and Go's reflect-based struct world (§4.G): Marshal/Unmarshal
// between duper.Value and arbitrary Go values, plus a Registry used to
// resolve a Value's identifier to a concrete Go type when deserializing
// into an interface field — Go's nearest equivalent to serde's
// internally-tagged enum dispatch, since Go has no closed sum-type/enum
// construct of its own.
//
// Registry resolves fully-qualified identifier strings through an
// adaptive radix tree rather than a plain map — a trie is the natural
// fit for looking up short identifiers that frequently share prefixes.
package mapper

import (
	"fmt"
	"reflect"
	"sync"

	art "github.com/kralicky/go-adaptive-radix-tree"
)

// Registry maps Duper identifiers (§3.1) to the concrete Go type that
// should be constructed when deserializing a tagged value carrying that
// identifier into an interface-typed field.
type Registry struct {
	mu   sync.RWMutex
	tree art.Tree
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tree: art.New()}
}

// Register associates identifier with the type of sample, so that a
// later New(identifier) call can construct a fresh zero value of that
// type. sample may be a zero value of the target type, e.g.
// Register("Point", Point{}).
func (r *Registry) Register(identifier string, sample any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tree.Insert(art.Key(identifier), reflect.TypeOf(sample))
}

// Lookup returns the Go type registered under identifier, if any.
func (r *Registry) Lookup(identifier string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, found := r.tree.Search(art.Key(identifier))
	if !found {
		return nil, false
	}
	t, ok := v.(reflect.Type)
	return t, ok
}

// New constructs a fresh, addressable zero value of the type registered
// under identifier.
func (r *Registry) New(identifier string) (reflect.Value, error) {
	t, ok := r.Lookup(identifier)
	if !ok {
		return reflect.Value{}, fmt.Errorf("mapper: no type registered for identifier %q", identifier)
	}
	return reflect.New(t).Elem(), nil
}
