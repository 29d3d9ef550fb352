package reporter_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	duper "github.com/duperfmt/duper"
	"github.com/duperfmt/duper/reporter"
)

func TestErrorIncludesPosition(t *testing.T) {
	pos := duper.SourcePos{Filename: "doc.duper", Line: 3, Col: 5}
	err := reporter.Error(pos, &reporter.DuplicateKeyError{Key: "id"})
	assert.Equal(t, `doc.duper:3:5: duplicate object key "id"`, err.Error())
	assert.Equal(t, pos, err.GetPosition())

	var dup *reporter.DuplicateKeyError
	assert.True(t, errors.As(err, &dup))
	assert.Equal(t, "id", dup.Key)
}

func TestErrorWithZeroPositionOmitsPrefix(t *testing.T) {
	err := reporter.Error(duper.SourcePos{}, &reporter.InternalError{Message: "boom"})
	assert.Equal(t, "internal error: boom", err.Error())
}

func TestErrorf(t *testing.T) {
	err := reporter.Errorf(duper.SourcePos{Line: 1, Col: 1}, "unexpected %s", "token")
	assert.Equal(t, "1:1: unexpected token", err.Error())
}

func TestHandlerFailFastByDefault(t *testing.T) {
	h := reporter.NewHandler(nil, nil)
	first := reporter.Error(duper.SourcePos{Line: 1, Col: 1}, &reporter.ParseError{Expected: []string{"true", "false"}})
	assert.Error(t, h.HandleError(first))
	assert.Equal(t, []reporter.ErrorWithPos{first}, h.Errors())
}

func TestHandlerAccumulatesWhenReporterContinues(t *testing.T) {
	var seen []reporter.ErrorWithPos
	h := reporter.NewHandler(
		func(err reporter.ErrorWithPos) error { return nil },
		func(err reporter.ErrorWithPos) { seen = append(seen, err) },
	)

	e1 := reporter.Error(duper.SourcePos{Line: 1, Col: 1}, &reporter.DuplicateKeyError{Key: "a"})
	e2 := reporter.Error(duper.SourcePos{Line: 2, Col: 1}, &reporter.DuplicateKeyError{Key: "b"})
	assert.NoError(t, h.HandleError(e1))
	assert.NoError(t, h.HandleError(e2))
	assert.Equal(t, []reporter.ErrorWithPos{e1, e2}, h.Errors())

	h.HandleWarning(e1)
	assert.Equal(t, []reporter.ErrorWithPos{e1}, h.Warnings())
	assert.Equal(t, []reporter.ErrorWithPos{e1}, seen)
}

func TestJoinOrErrorMessages(t *testing.T) {
	one := &reporter.ParseError{}
	assert.Equal(t, "parse error", one.Error())

	two := &reporter.ParseError{Expected: []string{"true"}}
	assert.Equal(t, "parse error, expected true", two.Error())

	three := &reporter.ParseError{Expected: []string{"true", "false", "null"}}
	assert.Equal(t, "parse error, expected true, false or null", three.Error())
}
