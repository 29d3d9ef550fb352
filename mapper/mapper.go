package mapper

import (
	"fmt"
	"reflect"
	"sort"

	duper "github.com/duperfmt/duper"
	"github.com/duperfmt/duper/format"
	"github.com/duperfmt/duper/parser"
)

// Marshaler lets a Go type take over its own Value representation,
// mirroring serde's manual Serialize impls.
type Marshaler interface {
	MarshalDuper() (duper.Value, error)
}

// Unmarshaler lets a Go type take over populating itself from a Value.
type Unmarshaler interface {
	UnmarshalDuper(duper.Value) error
}

// Tag is the struct tag key Marshal/Unmarshal consult for field names:
// `duper:"name"`. A field with tag "-" is skipped. An untagged exported
// field uses its Go name verbatim.
const Tag = "duper"

// Marshal converts v into a duper.Value (§4.G's Serialize operation).
// Structs become Object; slices/arrays of non-byte element become
// Array; []byte becomes Bytes; maps with string keys become Object with
// sorted keys for determinism; everything else follows Go's natural
// kind-to-Inner mapping. A nil pointer, nil interface, or nil map/slice
// becomes Null.
func Marshal(v any) (duper.Value, error) {
	if v == nil {
		return duper.NewNull(), nil
	}
	if m, ok := v.(Marshaler); ok {
		return m.MarshalDuper()
	}
	return marshalReflect(reflect.ValueOf(v))
}

func marshalReflect(rv reflect.Value) (duper.Value, error) {
	// ifaceName remembers the name of the last interface type seen while
	// unwrapping, e.g. a struct field declared as `Shape`: that's the
	// enum's own name, the identifier a Variant payload gets wrapped in
	// (§4.G). It's lost the instant rv.Elem() steps onto the concrete
	// dynamic value, so it has to be captured here, before that happens.
	ifaceName := ""
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return duper.NewNull(), nil
		}
		if rv.Kind() == reflect.Interface {
			if n := rv.Type().Name(); n != "" {
				ifaceName = n
			}
		}
		if m, ok := rv.Interface().(Marshaler); ok {
			return m.MarshalDuper()
		}
		rv = rv.Elem()
	}

	if ifaceName != "" {
		if _, ok := rv.Interface().(Variant); ok {
			return marshalVariant(ifaceName, rv)
		}
	}

	switch rv.Kind() {
	case reflect.Struct:
		return marshalNamedOrPlainStruct(rv)
	case reflect.Map:
		if rv.IsNil() {
			return duper.NewNull(), nil
		}
		return marshalMap(rv)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return duper.NewNull(), nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			data := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(data), rv)
			return duper.NewBytes(data), nil
		}
		elems := make([]duper.Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ev, err := marshalReflect(rv.Index(i))
			if err != nil {
				return duper.Value{}, err
			}
			elems[i] = ev
		}
		return duper.NewArray(elems), nil
	case reflect.String:
		return duper.NewString(rv.String()), nil
	case reflect.Bool:
		return duper.NewBoolean(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return duper.NewInteger(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return duper.NewInteger(int64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return duper.NewFloat(rv.Float()), nil
	}
	return duper.Value{}, fmt.Errorf("mapper: cannot marshal kind %s", rv.Kind())
}

// marshalNamedOrPlainStruct applies the NamedType newtype/unit-struct
// identifier-attachment rule (§4.G) when rv's type opts in, otherwise
// renders rv as an ordinary Object via marshalStruct.
func marshalNamedOrPlainStruct(rv reflect.Value) (duper.Value, error) {
	nt, ok := rv.Interface().(NamedType)
	if !ok {
		return marshalStruct(rv)
	}
	name := nt.TypeName()

	if rv.NumField() == 0 {
		return duper.NewNull().WithIdentifier(name), nil
	}
	if rv.NumField() == 1 && rv.Type().Field(0).IsExported() {
		inner, err := marshalReflect(rv.Field(0))
		if err != nil {
			return duper.Value{}, err
		}
		return inner.WithIdentifier(name), nil
	}
	obj, err := marshalStruct(rv)
	if err != nil {
		return duper.Value{}, err
	}
	return obj.WithIdentifier(name), nil
}

func marshalStruct(rv reflect.Value) (duper.Value, error) {
	rt := rv.Type()
	var entries []duper.Entry
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name, skip := fieldName(f)
		if skip {
			continue
		}
		fv, err := marshalReflect(rv.Field(i))
		if err != nil {
			return duper.Value{}, fmt.Errorf("mapper: field %s: %w", f.Name, err)
		}
		entries = append(entries, duper.Entry{Key: name, Value: fv})
	}
	return duper.NewObject(entries), nil
}

func marshalMap(rv reflect.Value) (duper.Value, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return duper.Value{}, fmt.Errorf("mapper: cannot marshal map with non-string key %s", rv.Type().Key())
	}
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	entries := make([]duper.Entry, 0, len(keys))
	for _, k := range keys {
		ev, err := marshalReflect(rv.MapIndex(k))
		if err != nil {
			return duper.Value{}, err
		}
		entries = append(entries, duper.Entry{Key: k.String(), Value: ev})
	}
	return duper.NewObject(entries), nil
}

func fieldName(f reflect.StructField) (name string, skip bool) {
	tag, ok := f.Tag.Lookup(Tag)
	if !ok {
		return f.Name, false
	}
	if tag == "-" {
		return "", true
	}
	if tag == "" {
		return f.Name, false
	}
	return tag, false
}

// Unmarshal populates out (a non-nil pointer) from value (§4.G's
// Deserialize operation), transparently accepting both Array and Tuple
// for a Go slice/array destination field, matching the "seq-requesting
// visitors receive both arrays and tuples" rule. An interface-typed
// destination field needs a Registry to resolve its dynamic type; use
// UnmarshalWithRegistry for those.
func Unmarshal(value duper.Value, out any) error {
	return UnmarshalWithRegistry(value, out, nil)
}

// UnmarshalWithRegistry is Unmarshal, but resolves any enum/newtype
// payload behind an interface-typed field to a concrete Go type via reg
// (§4.G's internally-tagged enum dispatch).
func UnmarshalWithRegistry(value duper.Value, out any, reg *Registry) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("mapper: Unmarshal requires a non-nil pointer, got %T", out)
	}
	if u, ok := out.(Unmarshaler); ok {
		return u.UnmarshalDuper(value)
	}
	return unmarshalReflect(value, rv.Elem(), reg)
}

func unmarshalReflect(value duper.Value, rv reflect.Value, reg *Registry) error {
	if _, isNull := value.Inner.(duper.Null); isNull {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return unmarshalReflect(value, rv.Elem(), reg)

	case reflect.Interface:
		return unmarshalVariant(value, rv, reg)

	case reflect.Struct:
		if rv.CanAddr() && rv.Type().NumField() == 1 && rv.Type().Field(0).IsExported() {
			if _, ok := rv.Addr().Interface().(NamedType); ok {
				return unmarshalReflect(value, rv.Field(0), reg)
			}
		}
		obj, ok := value.Inner.(duper.Object)
		if !ok {
			return fmt.Errorf("mapper: expected Object for struct %s, got %T", rv.Type(), value.Inner)
		}
		return unmarshalStruct(obj, rv, reg)

	case reflect.Map:
		obj, ok := value.Inner.(duper.Object)
		if !ok {
			return fmt.Errorf("mapper: expected Object for map, got %T", value.Inner)
		}
		return unmarshalMap(obj, rv, reg)

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b, ok := value.Inner.(duper.Bytes)
			if !ok {
				return fmt.Errorf("mapper: expected Bytes, got %T", value.Inner)
			}
			rv.SetBytes(append([]byte(nil), b.Data...))
			return nil
		}
		elems, ok := elemsOf(value)
		if !ok {
			return fmt.Errorf("mapper: expected Array or Tuple, got %T", value.Inner)
		}
		out := reflect.MakeSlice(rv.Type(), len(elems), len(elems))
		for i, e := range elems {
			if err := unmarshalReflect(e, out.Index(i), reg); err != nil {
				return err
			}
		}
		rv.Set(out)
		return nil

	case reflect.String:
		s, ok := value.Inner.(duper.String)
		if !ok {
			return fmt.Errorf("mapper: expected String, got %T", value.Inner)
		}
		rv.SetString(s.Text)
		return nil

	case reflect.Bool:
		b, ok := value.Inner.(duper.Boolean)
		if !ok {
			return fmt.Errorf("mapper: expected Boolean, got %T", value.Inner)
		}
		rv.SetBool(b.B)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := value.Inner.(duper.Integer)
		if !ok {
			return fmt.Errorf("mapper: expected Integer, got %T", value.Inner)
		}
		rv.SetInt(n.N)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := value.Inner.(duper.Integer)
		if !ok {
			return fmt.Errorf("mapper: expected Integer, got %T", value.Inner)
		}
		rv.SetUint(uint64(n.N))
		return nil

	case reflect.Float32, reflect.Float64:
		switch inner := value.Inner.(type) {
		case duper.Float:
			rv.SetFloat(inner.F)
		case duper.Integer:
			rv.SetFloat(float64(inner.N))
		default:
			return fmt.Errorf("mapper: expected Float, got %T", value.Inner)
		}
		return nil
	}
	return fmt.Errorf("mapper: cannot unmarshal into kind %s", rv.Kind())
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

func unmarshalStruct(obj duper.Object, rv reflect.Value, reg *Registry) error {
	byKey := make(map[string]duper.Value, len(obj.Entries))
	for _, e := range obj.Entries {
		byKey[e.Key] = e.Value
	}
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name, skip := fieldName(f)
		if skip {
			continue
		}
		fv, present := byKey[name]
		if !present {
			continue
		}
		if err := unmarshalReflect(fv, rv.Field(i), reg); err != nil {
			return fmt.Errorf("mapper: field %s: %w", f.Name, err)
		}
	}
	return nil
}

func unmarshalMap(obj duper.Object, rv reflect.Value, reg *Registry) error {
	if rv.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("mapper: cannot unmarshal map with non-string key %s", rv.Type().Key())
	}
	out := reflect.MakeMapWithSize(rv.Type(), len(obj.Entries))
	for _, e := range obj.Entries {
		elem := reflect.New(rv.Type().Elem()).Elem()
		if err := unmarshalReflect(e.Value, elem, reg); err != nil {
			return err
		}
		out.SetMapIndex(reflect.ValueOf(e.Key).Convert(rv.Type().Key()), elem)
	}
	rv.Set(out)
	return nil
}

// ToString renders v as canonical one-line text (§4.G's to_string).
func ToString(v duper.Value) string { return format.Canonical(v, false) }

// ToStringMinified renders v with no optional whitespace (to_string_minified).
func ToStringMinified(v duper.Value) string { return format.Canonical(v, true) }

// ToStringPretty renders v multi-line at the given indent (to_string_pretty).
func ToStringPretty(v duper.Value, indent int) string {
	return format.NewPrettyPrinter(format.PrettyOptions{Indent: indent}).Print(v)
}

// FromString parses text and maps the result into out (§4.G's
// from_string: parse + map in one step).
func FromString(text string, out any) error {
	return FromStringWithRegistry(text, out, nil)
}

// FromStringWithRegistry is FromString, but resolves interface-typed
// fields via reg, the same way UnmarshalWithRegistry does.
func FromStringWithRegistry(text string, out any, reg *Registry) error {
	v, err := parser.Parse([]byte(text), "<mapper>")
	if err != nil {
		return err
	}
	return UnmarshalWithRegistry(v, out, reg)
}

// FromValue maps an already-parsed value into out without parsing
// (from_value).
func FromValue(v duper.Value, out any) error { return Unmarshal(v, out) }

// FromValueWithRegistry is FromValue, but resolves interface-typed
// fields via reg, the same way UnmarshalWithRegistry does.
func FromValueWithRegistry(v duper.Value, out any, reg *Registry) error {
	return UnmarshalWithRegistry(v, out, reg)
}
