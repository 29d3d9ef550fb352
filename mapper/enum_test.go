package mapper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	duper "github.com/duperfmt/duper"
	"github.com/duperfmt/duper/mapper"
)

// Shape is the enum interface: every case below implements Variant and is
// reachable only through a Shape-typed field.
type Shape interface {
	mapper.Variant
}

type circle struct {
	Radius float64 `duper:"radius"`
}

func (circle) VariantName() string { return "Circle" }

type rectangle struct {
	Width  float64 `duper:"width"`
	Height float64 `duper:"height"`
}

func (rectangle) VariantName() string { return "Rectangle" }

type point2D []float64

func (point2D) VariantName() string { return "Point" }

type unbounded struct{}

func (unbounded) VariantName() string { return "Unbounded" }

type shapeHolder struct {
	S Shape `duper:"s"`
}

func shapeRegistry() *mapper.Registry {
	reg := mapper.NewRegistry()
	reg.Register("Circle", circle{})
	reg.Register("Rectangle", rectangle{})
	reg.Register("Point", point2D{})
	reg.Register("Unbounded", unbounded{})
	return reg
}

func TestMarshalStructVariant(t *testing.T) {
	t.Parallel()
	v, err := mapper.Marshal(shapeHolder{S: circle{Radius: 2.5}})
	require.NoError(t, err)

	field := v.Inner.(duper.Object).Entries[0].Value
	ident, ok := field.Ident()
	require.True(t, ok)
	assert.Equal(t, "Shape", ident)

	payload := field.Inner.(duper.Object)
	require.Len(t, payload.Entries, 1)
	assert.Equal(t, "Circle", payload.Entries[0].Key)

	radius := payload.Entries[0].Value.Inner.(duper.Object).Entries[0]
	assert.Equal(t, "radius", radius.Key)
	assert.Equal(t, 2.5, radius.Value.Inner.(duper.Float).F)
}

func TestMarshalTupleVariant(t *testing.T) {
	t.Parallel()
	v, err := mapper.Marshal(shapeHolder{S: point2D{1, 2}})
	require.NoError(t, err)

	field := v.Inner.(duper.Object).Entries[0].Value
	ident, ok := field.Ident()
	require.True(t, ok)
	assert.Equal(t, "Shape", ident)

	payload := field.Inner.(duper.Object)
	require.Len(t, payload.Entries, 1)
	assert.Equal(t, "Point", payload.Entries[0].Key)

	tup := payload.Entries[0].Value.Inner.(duper.Tuple)
	require.Len(t, tup.Elems, 2)
	assert.Equal(t, 1.0, tup.Elems[0].Inner.(duper.Float).F)
	assert.Equal(t, 2.0, tup.Elems[1].Inner.(duper.Float).F)
}

func TestMarshalUnitVariant(t *testing.T) {
	t.Parallel()
	v, err := mapper.Marshal(shapeHolder{S: unbounded{}})
	require.NoError(t, err)

	field := v.Inner.(duper.Object).Entries[0].Value
	ident, ok := field.Ident()
	require.True(t, ok)
	assert.Equal(t, "Shape", ident)
	assert.Equal(t, "Unbounded", field.Inner.(duper.String).Text)
}

func TestUnmarshalStructVariantWithRegistry(t *testing.T) {
	t.Parallel()
	reg := shapeRegistry()

	var out shapeHolder
	err := mapper.FromStringWithRegistry(`{s: Shape({Rectangle: {width: 3, height: 4}})}`, &out, reg)
	require.NoError(t, err)
	assert.Equal(t, rectangle{Width: 3, Height: 4}, out.S)
}

func TestUnmarshalTupleVariantWithRegistry(t *testing.T) {
	t.Parallel()
	reg := shapeRegistry()

	var out shapeHolder
	err := mapper.FromStringWithRegistry(`{s: Shape({Point: (1.0, 2.0)})}`, &out, reg)
	require.NoError(t, err)
	assert.Equal(t, point2D{1, 2}, out.S)
}

func TestUnmarshalUnitVariantWithRegistry(t *testing.T) {
	t.Parallel()
	reg := shapeRegistry()

	var out shapeHolder
	err := mapper.FromStringWithRegistry(`{s: Shape("Unbounded")}`, &out, reg)
	require.NoError(t, err)
	assert.Equal(t, unbounded{}, out.S)
}

func TestUnmarshalInterfaceWithoutRegistryErrors(t *testing.T) {
	t.Parallel()
	var out shapeHolder
	err := mapper.FromString(`{s: Shape({Circle: {radius: 1}})}`, &out)
	assert.Error(t, err)
}

// userID is a newtype: a single-field struct that opts into identifier
// attachment via NamedType instead of being serialized as an Object.
type userID struct {
	Value string
}

func (userID) TypeName() string { return "UserID" }

// empty is a unit struct: no fields, identifier attached to null.
type empty struct{}

func (empty) TypeName() string { return "Empty" }

func TestMarshalNewtypeStruct(t *testing.T) {
	t.Parallel()
	v, err := mapper.Marshal(userID{Value: "abc123"})
	require.NoError(t, err)
	ident, ok := v.Ident()
	require.True(t, ok)
	assert.Equal(t, "UserID", ident)
	assert.Equal(t, "abc123", v.Inner.(duper.String).Text)
}

func TestUnmarshalNewtypeStruct(t *testing.T) {
	t.Parallel()
	var out userID
	require.NoError(t, mapper.FromString(`UserID("abc123")`, &out))
	assert.Equal(t, userID{Value: "abc123"}, out)
}

func TestMarshalUnmarshalUnitStruct(t *testing.T) {
	t.Parallel()
	v, err := mapper.Marshal(empty{})
	require.NoError(t, err)
	ident, ok := v.Ident()
	require.True(t, ok)
	assert.Equal(t, "Empty", ident)
	assert.IsType(t, duper.Null{}, v.Inner)

	var out empty
	require.NoError(t, mapper.FromString(`Empty(null)`, &out))
	assert.Equal(t, empty{}, out)
}
