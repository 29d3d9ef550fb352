package duperq_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	duper "github.com/duperfmt/duper"
	"github.com/duperfmt/duper/duperq"
)

func TestParseAccessorDotField(t *testing.T) {
	t.Parallel()
	acc, err := duperq.ParseAccessor(".name")
	require.NoError(t, err)
	v := duper.NewObject([]duper.Entry{{Key: "name", Value: duper.NewString("ada")}})
	got := acc.Access(v)
	require.Len(t, got, 1)
	assert.Equal(t, "ada", got[0].Inner.(duper.String).Text)
}

func TestParseAccessorIndexAndRange(t *testing.T) {
	t.Parallel()
	arr := duper.NewArray([]duper.Value{duper.NewInteger(1), duper.NewInteger(2), duper.NewInteger(3)})

	acc, err := duperq.ParseAccessor("[1]")
	require.NoError(t, err)
	got := acc.Access(arr)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].Inner.(duper.Integer).N)

	acc, err = duperq.ParseAccessor("[-1]")
	require.NoError(t, err)
	got = acc.Access(arr)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].Inner.(duper.Integer).N)

	acc, err = duperq.ParseAccessor("[0..2]")
	require.NoError(t, err)
	assert.Len(t, acc.Access(arr), 2)

	acc, err = duperq.ParseAccessor("[]")
	require.NoError(t, err)
	assert.Len(t, acc.Access(arr), 3)
}

func TestParseAccessorChain(t *testing.T) {
	t.Parallel()
	v := duper.NewObject([]duper.Entry{{
		Key: "items",
		Value: duper.NewArray([]duper.Value{
			duper.NewObject([]duper.Entry{{Key: "n", Value: duper.NewInteger(1)}}),
			duper.NewObject([]duper.Entry{{Key: "n", Value: duper.NewInteger(2)}}),
		}),
	}})
	acc, err := duperq.ParseAccessor(".items[].n")
	require.NoError(t, err)
	got := acc.Access(v)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].Inner.(duper.Integer).N)
	assert.Equal(t, int64(2), got[1].Inner.(duper.Integer).N)
}

func TestParseQueryFilterStage(t *testing.T) {
	t.Parallel()
	pl, err := duperq.ParseQuery(`filter .n > 1`)
	require.NoError(t, err)
	require.Len(t, pl.Stages, 1)
	fs, ok := pl.Stages[0].(duperq.FilterStage)
	require.True(t, ok)

	v := duper.NewObject([]duper.Entry{{Key: "n", Value: duper.NewInteger(2)}})
	assert.True(t, fs.Pred.Eval(v))
	v2 := duper.NewObject([]duper.Entry{{Key: "n", Value: duper.NewInteger(0)}})
	assert.False(t, fs.Pred.Eval(v2))
}

func TestParseQueryTakeStage(t *testing.T) {
	t.Parallel()
	pl, err := duperq.ParseQuery(`take 3`)
	require.NoError(t, err)
	require.Len(t, pl.Stages, 1)
	ts, ok := pl.Stages[0].(duperq.TakeStage)
	require.True(t, ok)
	assert.Equal(t, 3, ts.N)
}

func TestParseQueryChainedStagesAndOutput(t *testing.T) {
	t.Parallel()
	pl, err := duperq.ParseQuery(`filter len(.items) > 0 | take 2 | pretty-print`)
	require.NoError(t, err)
	require.Len(t, pl.Stages, 2)
	_, ok := pl.Output.(duperq.PrettyOutput)
	assert.True(t, ok)
}

func TestParseQueryAndOrNot(t *testing.T) {
	t.Parallel()
	pl, err := duperq.ParseQuery(`filter .a > 0 && !(.b == 1)`)
	require.NoError(t, err)
	fs := pl.Stages[0].(duperq.FilterStage)

	match := duper.NewObject([]duper.Entry{
		{Key: "a", Value: duper.NewInteger(1)},
		{Key: "b", Value: duper.NewInteger(2)},
	})
	assert.True(t, fs.Pred.Eval(match))

	noMatch := duper.NewObject([]duper.Entry{
		{Key: "a", Value: duper.NewInteger(1)},
		{Key: "b", Value: duper.NewInteger(1)},
	})
	assert.False(t, fs.Pred.Eval(noMatch))
}

func TestParseQueryIsType(t *testing.T) {
	t.Parallel()
	pl, err := duperq.ParseQuery(`filter .v is Integer`)
	require.NoError(t, err)
	fs := pl.Stages[0].(duperq.FilterStage)
	assert.True(t, fs.Pred.Eval(duper.NewObject([]duper.Entry{{Key: "v", Value: duper.NewInteger(1)}})))
	assert.False(t, fs.Pred.Eval(duper.NewObject([]duper.Entry{{Key: "v", Value: duper.NewString("x")}})))
}

func TestParseQueryFormatOutput(t *testing.T) {
	t.Parallel()
	pl, err := duperq.ParseQuery(`format "value: ${.n}"`)
	require.NoError(t, err)
	fo, ok := pl.Output.(duperq.FormatOutput)
	require.True(t, ok)
	v := duper.NewObject([]duper.Entry{{Key: "n", Value: duper.NewInteger(5)}})
	assert.Equal(t, "value: 5", fo.Template.Render(v))
}

func TestParseQueryExists(t *testing.T) {
	t.Parallel()
	pl, err := duperq.ParseQuery(`filter exists(.missing)`)
	require.NoError(t, err)
	fs := pl.Stages[0].(duperq.FilterStage)
	assert.False(t, fs.Pred.Eval(duper.NewObject(nil)))
}

// TestParseQueryMatchesIdentifiedUuidField exercises a realistic fixture:
// an object field tagged Uuid(...), matched by identifier via ==.
func TestParseQueryMatchesIdentifiedUuidField(t *testing.T) {
	t.Parallel()
	id := uuid.New().String()
	record := duper.NewObject([]duper.Entry{
		{Key: "session", Value: duper.NewString(id).WithIdentifier("Uuid")},
	})

	pl, err := duperq.ParseQuery(`filter identifier(.session) == Uuid`)
	require.NoError(t, err)
	fs := pl.Stages[0].(duperq.FilterStage)
	assert.True(t, fs.Pred.Eval(record))

	other := duper.NewObject([]duper.Entry{
		{Key: "session", Value: duper.NewString(id)},
	})
	assert.False(t, fs.Pred.Eval(other))
}
