package duperq_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	duper "github.com/duperfmt/duper"
	"github.com/duperfmt/duper/duperq"
	"github.com/duperfmt/duper/parser"
)

func mustParse(t *testing.T, src string) duper.Value {
	t.Helper()
	v, err := parser.Parse([]byte(src), "t")
	require.NoError(t, err)
	return v
}

func TestFieldAccessor(t *testing.T) {
	t.Parallel()
	v := mustParse(t, `{x: 1, y: 2}`)
	got := duperq.Field{Key: "y"}.Access(v)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].Inner.(duper.Integer).N)

	assert.Empty(t, duperq.Field{Key: "z"}.Access(v))
}

func TestIndexAndReverseIndex(t *testing.T) {
	t.Parallel()
	v := mustParse(t, `[10, 20, 30]`)
	got := duperq.Index{I: 1}.Access(v)
	require.Len(t, got, 1)
	assert.Equal(t, int64(20), got[0].Inner.(duper.Integer).N)

	got = duperq.ReverseIndex{I: 1}.Access(v)
	require.Len(t, got, 1)
	assert.Equal(t, int64(30), got[0].Inner.(duper.Integer).N)

	assert.Empty(t, duperq.Index{I: 5}.Access(v))
	assert.Empty(t, duperq.ReverseIndex{I: 0}.Access(v))
}

func TestRangeAccessor(t *testing.T) {
	t.Parallel()
	v := mustParse(t, `[1, 2, 3, 4, 5]`)
	two, four := 1, 3
	got := duperq.Range{Start: &two, End: &four}.Access(v)
	require.Len(t, got, 2)
	assert.Equal(t, int64(2), got[0].Inner.(duper.Integer).N)
	assert.Equal(t, int64(3), got[1].Inner.(duper.Integer).N)

	gotIncl := duperq.Range{Start: &two, End: &four, Inclusive: true}.Access(v)
	require.Len(t, gotIncl, 3)

	unbounded := duperq.Range{}.Access(v)
	assert.Len(t, unbounded, 5)
}

func TestAnyAccessor(t *testing.T) {
	t.Parallel()
	obj := mustParse(t, `{a: 1, b: 2}`)
	assert.Len(t, duperq.Any{}.Access(obj), 2)

	arr := mustParse(t, `[1, 2, 3]`)
	assert.Len(t, duperq.Any{}.Access(arr), 3)

	assert.Empty(t, duperq.Any{}.Access(duper.NewInteger(5)))
}

func TestFlattenedAccessor(t *testing.T) {
	t.Parallel()
	v := mustParse(t, `{items: [{n: 1}, {n: 2}]}`)
	flat := duperq.Flattened{Accessors: []duperq.Accessor{
		duperq.Field{Key: "items"},
		duperq.Any{},
		duperq.Field{Key: "n"},
	}}
	got := flat.Access(v)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].Inner.(duper.Integer).N)
	assert.Equal(t, int64(2), got[1].Inner.(duper.Integer).N)
}

func TestFilterAccessor(t *testing.T) {
	t.Parallel()
	v := mustParse(t, `[1, 2, 3, 4]`)
	got := duperq.Filter{F: duperq.Cmp{Op: duperq.OrdGt, Want: duper.NewInteger(2)}}.Access(v)
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[0].Inner.(duper.Integer).N)
	assert.Equal(t, int64(4), got[1].Inner.(duper.Integer).N)
}
