package duper_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	duper "github.com/duperfmt/duper"
)

func TestEqualIsIdentifierSensitive(t *testing.T) {
	t.Parallel()
	a := duper.NewInteger(1).WithIdentifier("Foo")
	b := duper.NewInteger(1).WithIdentifier("Bar")
	c := duper.NewInteger(1)
	assert.False(t, duper.Equal(a, b))
	assert.False(t, duper.Equal(a, c))
	assert.True(t, duper.Equal(a, a))
}

func TestWithoutIdentifierRecursiveStripsEveryDepth(t *testing.T) {
	t.Parallel()
	v := duper.NewObject([]duper.Entry{
		{Key: "id", Value: duper.NewString("x").WithIdentifier("Id")},
		{Key: "nested", Value: duper.NewArray([]duper.Value{
			duper.NewInteger(1).WithIdentifier("Count"),
			duper.NewTuple([]duper.Value{duper.NewBoolean(true).WithIdentifier("Flag")}).WithIdentifier("Pair"),
		})},
	}).WithIdentifier("Outer")

	stripped := v.WithoutIdentifierRecursive()
	_, hasIdent := stripped.Ident()
	assert.False(t, hasIdent)

	obj := stripped.Inner.(duper.Object)
	_, idHasIdent := obj.Entries[0].Value.Ident()
	assert.False(t, idHasIdent)

	arr := obj.Entries[1].Value.Inner.(duper.Array)
	_, countHasIdent := arr.Elems[0].Ident()
	assert.False(t, countHasIdent)

	tup := arr.Elems[1]
	_, tupHasIdent := tup.Ident()
	assert.False(t, tupHasIdent)
	tupInner := tup.Inner.(duper.Tuple)
	_, flagHasIdent := tupInner.Elems[0].Ident()
	assert.False(t, flagHasIdent)

	assert.True(t, duper.Equal(v, v))
}

func TestEqualObjectIsOrderInsensitive(t *testing.T) {
	t.Parallel()
	a := duper.NewObject([]duper.Entry{
		{Key: "x", Value: duper.NewInteger(1)},
		{Key: "y", Value: duper.NewInteger(2)},
	})
	b := duper.NewObject([]duper.Entry{
		{Key: "y", Value: duper.NewInteger(2)},
		{Key: "x", Value: duper.NewInteger(1)},
	})
	assert.True(t, duper.Equal(a, b))
}

func TestEqualFloatNaNNeverEqual(t *testing.T) {
	t.Parallel()
	nan1 := duper.NewFloat(math.NaN())
	nan2 := duper.NewFloat(math.NaN())
	assert.False(t, duper.Equal(nan1, nan2))
}

func TestEqualFloatSignedZeroDistinct(t *testing.T) {
	t.Parallel()
	pos := duper.NewFloat(0.0)
	neg := duper.NewFloat(math.Copysign(0, -1))
	assert.False(t, duper.Equal(pos, neg))
}

func TestNewObjectCheckedRejectsDuplicateKeys(t *testing.T) {
	t.Parallel()
	_, err := duper.NewObjectChecked([]duper.Entry{
		{Key: "x", Value: duper.NewInteger(1)},
		{Key: "x", Value: duper.NewInteger(2)},
	})
	require.Error(t, err)
	var dup *duper.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "x", dup.Key)
}

func TestNewTupleAnyAcceptsEmptyAndSingleton(t *testing.T) {
	t.Parallel()
	empty := duper.NewTupleAny(nil)
	single := duper.NewTupleAny([]duper.Value{duper.NewInteger(1)})
	assert.Equal(t, duper.Tuple{}, empty.Inner)
	assert.Equal(t, 1, len(single.Inner.(duper.Tuple).Elems))
}

func TestValidateIdentifier(t *testing.T) {
	t.Parallel()
	assert.NoError(t, duper.ValidateIdentifier("Foo_Bar123"))
	assert.Error(t, duper.ValidateIdentifier("foo"))
	assert.Error(t, duper.ValidateIdentifier(""))
}

func TestPromoteToOwnedCopiesBytes(t *testing.T) {
	t.Parallel()
	buf := []byte{1, 2, 3}
	v := duper.NewBytes(buf).PromoteToOwned()
	buf[0] = 99
	assert.Equal(t, byte(1), v.Inner.(duper.Bytes).Data[0])
}
