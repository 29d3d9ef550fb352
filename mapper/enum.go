package mapper

import (
	"fmt"
	"reflect"

	duper "github.com/duperfmt/duper"
)

// Variant is implemented by each case of a Go "enum" (§4.G, §5): Go has no
// closed sum-type construct, so the idiom is a marker interface — the
// enum's own type, used as a struct field's static type — plus one
// concrete struct (or slice/array, for a tuple variant) type per case,
// the same shape the teacher uses for protobuf oneofs in ast/wrappers.go.
// VariantName is the tag Marshal writes and Unmarshal (given a Registry)
// reads back to pick the case.
type Variant interface {
	VariantName() string
}

// NamedType opts a defined (non-anonymous) Go type into the newtype- and
// unit-struct identifier-attachment rules (§4.G) without requiring a full
// Marshaler/Unmarshaler: TypeName is attached as the value's identifier,
// wrapping the type's single exported field directly (a "newtype struct")
// or null if it has none (a "unit struct"). A NamedType with more than one
// field still gets TypeName as an identifier, wrapping the ordinary
// Object a plain struct would produce.
type NamedType interface {
	TypeName() string
}

// marshalVariant renders rv — a concrete Variant implementation reached
// through an interface-typed field whose static type was named ifaceName
// — per §4.G: a unit variant (no fields) becomes Identifier("VariantName");
// a struct or tuple variant nests its fields under the variant name inside
// a single-entry Object, Identifier({VariantName: payload}).
func marshalVariant(ifaceName string, rv reflect.Value) (duper.Value, error) {
	name := rv.Interface().(Variant).VariantName()

	switch rv.Kind() {
	case reflect.Struct:
		if rv.NumField() == 0 {
			return duper.NewString(name).WithIdentifier(ifaceName), nil
		}
		fields, err := marshalStruct(rv)
		if err != nil {
			return duper.Value{}, err
		}
		return duper.NewObject([]duper.Entry{{Key: name, Value: fields}}).WithIdentifier(ifaceName), nil

	case reflect.Slice, reflect.Array:
		elems := make([]duper.Value, rv.Len())
		for i := range elems {
			ev, err := marshalReflect(rv.Index(i))
			if err != nil {
				return duper.Value{}, err
			}
			elems[i] = ev
		}
		return duper.NewObject([]duper.Entry{{Key: name, Value: duper.NewTuple(elems)}}).WithIdentifier(ifaceName), nil
	}
	return duper.Value{}, fmt.Errorf("mapper: cannot marshal variant %s of kind %s", name, rv.Kind())
}

// unmarshalVariant populates rv, an interface-kind destination, from value
// using reg to resolve the variant's identifier to a concrete Go type —
// the deserializing half of §4.G's internally-tagged enum dispatch, the
// nearest Go equivalent of serde's dispatch-by-identifier.
func unmarshalVariant(value duper.Value, rv reflect.Value, reg *Registry) error {
	if reg == nil {
		return fmt.Errorf("mapper: cannot unmarshal into interface %s without a Registry (see UnmarshalWithRegistry)", rv.Type())
	}

	switch inner := value.Inner.(type) {
	case duper.String:
		// Unit variant: Identifier("VariantName"), no payload to unmarshal.
		return constructVariant(inner.Text, nil, rv, reg)

	case duper.Object:
		if len(inner.Entries) == 1 {
			entry := inner.Entries[0]
			return constructVariant(entry.Key, &entry.Value, rv, reg)
		}
	}
	return fmt.Errorf("mapper: cannot determine variant shape for interface %s", rv.Type())
}

// constructVariant builds a fresh value of the Go type reg has registered
// under name, populates it from payload (if any), and assigns it into rv.
func constructVariant(name string, payload *duper.Value, rv reflect.Value, reg *Registry) error {
	nv, err := reg.New(name)
	if err != nil {
		return fmt.Errorf("mapper: interface %s: %w", rv.Type(), err)
	}
	if payload != nil {
		if err := unmarshalReflect(*payload, nv, reg); err != nil {
			return fmt.Errorf("mapper: interface %s variant %s: %w", rv.Type(), name, err)
		}
	}

	assignable := nv
	if !assignable.Type().AssignableTo(rv.Type()) {
		if nv.CanAddr() && nv.Addr().Type().AssignableTo(rv.Type()) {
			assignable = nv.Addr()
		} else {
			return fmt.Errorf("mapper: registered type %s for identifier %q does not implement %s", nv.Type(), name, rv.Type())
		}
	}
	rv.Set(assignable)
	return nil
}
