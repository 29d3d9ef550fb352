package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	duper "github.com/duperfmt/duper"
	"github.com/duperfmt/duper/parser"
	"github.com/duperfmt/duper/reporter"
	"github.com/duperfmt/duper/temporal"
)

func parse(t *testing.T, src string) duper.Value {
	t.Helper()
	v, err := parser.Parse([]byte(src), "test.duper")
	require.NoError(t, err)
	return v
}

func TestParsePrimitives(t *testing.T) {
	t.Parallel()
	assert.True(t, duper.Equal(parse(t, "true"), duper.NewBoolean(true)))
	assert.True(t, duper.Equal(parse(t, "false"), duper.NewBoolean(false)))
	assert.True(t, duper.Equal(parse(t, "null"), duper.NewNull()))
	assert.True(t, duper.Equal(parse(t, "42"), duper.NewInteger(42)))
	assert.True(t, duper.Equal(parse(t, "-42"), duper.NewInteger(-42)))
	assert.True(t, duper.Equal(parse(t, "3.5"), duper.NewFloat(3.5)))
	assert.True(t, duper.Equal(parse(t, "0x1F"), duper.NewInteger(31)))
	assert.True(t, duper.Equal(parse(t, "0b101"), duper.NewInteger(5)))
	assert.True(t, duper.Equal(parse(t, "0o17"), duper.NewInteger(15)))
	assert.True(t, duper.Equal(parse(t, "1_000"), duper.NewInteger(1000)))
}

func TestParseString(t *testing.T) {
	t.Parallel()
	assert.True(t, duper.Equal(parse(t, `"hello\nworld"`), duper.NewString("hello\nworld")))
	assert.True(t, duper.Equal(parse(t, `r#"raw \n content"#`), duper.NewString(`raw \n content`)))
}

func TestParseBytes(t *testing.T) {
	t.Parallel()
	assert.True(t, duper.Equal(parse(t, `b"\x41\x42"`), duper.NewBytes([]byte("AB"))))
	assert.True(t, duper.Equal(parse(t, `b64"QUI="`), duper.NewBytes([]byte("AB"))))
}

func TestParseIdentifiedValue(t *testing.T) {
	t.Parallel()
	v := parse(t, `Point({x: 1, y: 2})`)
	assert.Equal(t, "Point", v.Identifier)
	obj := v.Inner.(duper.Object)
	require.Len(t, obj.Entries, 2)
	assert.Equal(t, "x", obj.Entries[0].Key)
}

func TestParseTupleForms(t *testing.T) {
	t.Parallel()
	empty := parse(t, "(,)")
	assert.Len(t, empty.Inner.(duper.Tuple).Elems, 0)

	single := parse(t, "(1,)")
	assert.Len(t, single.Inner.(duper.Tuple).Elems, 1)

	pair := parse(t, "(1, 2)")
	assert.Len(t, pair.Inner.(duper.Tuple).Elems, 2)
}

func TestParseArray(t *testing.T) {
	t.Parallel()
	v := parse(t, "[1, 2, 3,]")
	assert.Len(t, v.Inner.(duper.Array).Elems, 3)
}

func TestParseTemporal(t *testing.T) {
	t.Parallel()
	v := parse(t, "Instant'2024-01-15T10:30:00Z'")
	tmp := v.Inner.(duper.Temporal)
	assert.Equal(t, temporal.Instant, tmp.Variant)
	assert.Equal(t, "2024-01-15T10:30:00Z", tmp.Carrier)
}

func TestParseTemporalNestedInIdentifierWrap(t *testing.T) {
	t.Parallel()
	v := parse(t, "CreatedAt(Instant'2024-01-15T10:30:00Z')")
	assert.True(t, v.HasIdent)
	assert.Equal(t, "CreatedAt", v.Identifier)
	tmp := v.Inner.(duper.Temporal)
	assert.Equal(t, temporal.Instant, tmp.Variant)
	assert.Equal(t, "2024-01-15T10:30:00Z", tmp.Carrier)
}

func TestParseUnspecifiedTemporal(t *testing.T) {
	t.Parallel()
	v := parse(t, "'2024-01-15'")
	tmp := v.Inner.(duper.Temporal)
	assert.Equal(t, temporal.Unspecified, tmp.Variant)
}

func TestParseDuplicateKeyIsError(t *testing.T) {
	t.Parallel()
	_, err := parser.Parse([]byte(`{x: 1, x: 2}`), "test.duper")
	require.Error(t, err)
	var withPos reporter.ErrorWithPos
	require.ErrorAs(t, err, &withPos)
	var dup *reporter.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "x", dup.Key)
}

func TestParseComments(t *testing.T) {
	t.Parallel()
	v := parse(t, "// leading comment\n42 /* trailing */")
	assert.True(t, duper.Equal(v, duper.NewInteger(42)))
}

func TestParseInvalidTemporalIsError(t *testing.T) {
	t.Parallel()
	_, err := parser.Parse([]byte(`Instant'not-a-date'`), "test.duper")
	require.Error(t, err)
	var invalid *reporter.InvalidTemporalError
	require.ErrorAs(t, err, &invalid)
}
