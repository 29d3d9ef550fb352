package format_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	duper "github.com/duperfmt/duper"
	"github.com/duperfmt/duper/format"
	"github.com/duperfmt/duper/parser"
)

func TestCanonicalRoundTrip(t *testing.T) {
	t.Parallel()
	src := `Point({x: 1, y: 2})`
	v, err := parser.Parse([]byte(src), "t")
	assert.NoError(t, err)
	out := format.Canonical(v, false)
	v2, err := parser.Parse([]byte(out), "t")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(v, v2))
}

func TestCanonicalMinifiedOmitsSpaces(t *testing.T) {
	t.Parallel()
	v := duper.NewObject([]duper.Entry{
		{Key: "x", Value: duper.NewInteger(1)},
		{Key: "y", Value: duper.NewInteger(2)},
	})
	assert.Equal(t, "{x:1,y:2}", format.Canonical(v, true))
	assert.Equal(t, "{x: 1, y: 2}", format.Canonical(v, false))
}

func TestCanonicalTupleForms(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "(,)", format.Canonical(duper.NewTupleAny(nil), false))
	assert.Equal(t, "(1,)", format.Canonical(duper.NewTupleAny([]duper.Value{duper.NewInteger(1)}), false))
	assert.Equal(t, "(1, 2)", format.Canonical(duper.NewTupleAny([]duper.Value{duper.NewInteger(1), duper.NewInteger(2)}), false))
}

func TestCanonicalBytesPrefersShorterEncoding(t *testing.T) {
	t.Parallel()
	short := duper.NewBytes([]byte("AB"))
	out := format.Canonical(short, false)
	assert.Contains(t, out, `b"`)
}

func TestPrettyPrinterEmptyContainers(t *testing.T) {
	t.Parallel()
	pp := format.NewPrettyPrinter(format.PrettyOptions{})
	assert.Equal(t, "{}", pp.Print(duper.NewObject(nil)))
	assert.Equal(t, "[]", pp.Print(duper.NewArray(nil)))
	assert.Equal(t, "(,)", pp.Print(duper.NewTupleAny(nil)))
}

func TestPrettyPrinterStripIdentifiers(t *testing.T) {
	t.Parallel()
	v := duper.NewInteger(5).WithIdentifier("Count")
	pp := format.NewPrettyPrinter(format.PrettyOptions{StripIdentifiers: true})
	assert.Equal(t, "5", pp.Print(v))
}

func TestPrettyPrinterWrapsLongIdentifiedString(t *testing.T) {
	t.Parallel()
	long := ""
	for i := 0; i < 70; i++ {
		long += "a"
	}
	v := duper.NewString(long).WithIdentifier("Description")
	pp := format.NewPrettyPrinter(format.PrettyOptions{})
	out := pp.Print(v)
	assert.Contains(t, out, "Description(\n")
}
