package duper

import "github.com/duperfmt/duper/temporal"

// Visitor is the uniform traversal interface over a Value (§4.F): one
// method per Inner variant, each given the optional identifier and the
// payload by value/reference. Accept does not recurse automatically —
// container methods (VisitObject, VisitArray, VisitTuple) must call Accept
// on their children themselves, so a visitor can control order or
// short-circuit.
type Visitor[Out any] interface {
	VisitObject(ident *string, entries []Entry) Out
	VisitArray(ident *string, elems []Value) Out
	VisitTuple(ident *string, elems []Value) Out
	VisitString(ident *string, text string) Out
	VisitBytes(ident *string, data []byte) Out
	VisitTemporal(ident *string, variant temporal.Variant, carrier string) Out
	VisitInteger(ident *string, n int64) Out
	VisitFloat(ident *string, f float64) Out
	VisitBoolean(ident *string, b bool) Out
	VisitNull(ident *string) Out
}

// Accept dispatches value to the matching method of v.
func Accept[Out any](v Visitor[Out], value Value) Out {
	var ident *string
	if value.HasIdent {
		id := value.Identifier
		ident = &id
	}
	switch t := value.Inner.(type) {
	case Object:
		return v.VisitObject(ident, t.Entries)
	case Array:
		return v.VisitArray(ident, t.Elems)
	case Tuple:
		return v.VisitTuple(ident, t.Elems)
	case String:
		return v.VisitString(ident, t.Text)
	case Bytes:
		return v.VisitBytes(ident, t.Data)
	case Temporal:
		return v.VisitTemporal(ident, t.Variant, t.Carrier)
	case Integer:
		return v.VisitInteger(ident, t.N)
	case Float:
		return v.VisitFloat(ident, t.F)
	case Boolean:
		return v.VisitBoolean(ident, t.B)
	case Null:
		return v.VisitNull(ident)
	default:
		panic("duper: value has unknown Inner variant")
	}
}
