package duperq_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	duper "github.com/duperfmt/duper"
	"github.com/duperfmt/duper/duperq"
)

func TestTemplateLiteralAndInterpolation(t *testing.T) {
	t.Parallel()
	tmpl, err := duperq.ParseTemplate(`name=${.name}, age=${.age}`)
	require.NoError(t, err)
	v := duper.NewObject([]duper.Entry{
		{Key: "name", Value: duper.NewString("Ada")},
		{Key: "age", Value: duper.NewInteger(36)},
	})
	assert.Equal(t, `name="Ada", age=36`, tmpl.Render(v))
}

func TestTemplateMissingPath(t *testing.T) {
	t.Parallel()
	tmpl, err := duperq.ParseTemplate(`${.missing}`)
	require.NoError(t, err)
	assert.Equal(t, "<MISSING>", tmpl.Render(duper.NewObject(nil)))
}

func TestTemplateInvalidCast(t *testing.T) {
	t.Parallel()
	tmpl, err := duperq.ParseTemplate(`${.v:Integer}`)
	require.NoError(t, err)
	v := duper.NewObject([]duper.Entry{{Key: "v", Value: duper.NewString("not a number")}})
	assert.Equal(t, "<INVALID CAST>", tmpl.Render(v))
}

func TestTemplateCastSucceeds(t *testing.T) {
	t.Parallel()
	tmpl, err := duperq.ParseTemplate(`${.v:Float}`)
	require.NoError(t, err)
	v := duper.NewObject([]duper.Entry{{Key: "v", Value: duper.NewInteger(5)}})
	assert.Equal(t, "5.0", tmpl.Render(v))
}

func TestTemplateNoOuterIdentifierWrapping(t *testing.T) {
	t.Parallel()
	tmpl, err := duperq.ParseTemplate(`${.v}`)
	require.NoError(t, err)
	v := duper.NewObject([]duper.Entry{{Key: "v", Value: duper.NewInteger(5).WithIdentifier("Count")}})
	assert.Equal(t, "5", tmpl.Render(v))
}
