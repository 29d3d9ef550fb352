package duperq

import (
	"fmt"
	"regexp"

	duper "github.com/duperfmt/duper"
)

// qParser is a hand-written recursive-descent parser over §6.2's query
// grammar, the same style as the document parser in package parser
// (no parser-combinator library exists anywhere in the corpus to ground
// on instead).
type qParser struct {
	toks []qToken
	pos  int
}

func newQParser(src string) (*qParser, error) {
	toks, err := newQLexer(src).tokenize()
	if err != nil {
		return nil, err
	}
	return &qParser{toks: toks}, nil
}

func (p *qParser) cur() qToken  { return p.toks[p.pos] }
func (p *qParser) eof() bool    { return p.cur().kind == qEOF }
func (p *qParser) advance() qToken {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *qParser) errHere(msg string, args ...any) error {
	return errQuery(p.cur().pos, msg, args...)
}

// isPunct reports whether the current token is punctuation text s,
// without consuming it.
func (p *qParser) isPunct(s string) bool {
	t := p.cur()
	return t.kind == qPunct && t.text == s
}

func (p *qParser) isIdent(s string) bool {
	t := p.cur()
	return t.kind == qIdent && t.text == s
}

func (p *qParser) expectPunct(s string) error {
	if !p.isPunct(s) {
		return p.errHere("expected %q", s)
	}
	p.advance()
	return nil
}

// ParseQuery compiles a full §6.2 query string — stage ("|" stage)*
// ("|" output)? — into a Pipeline.
func ParseQuery(src string) (*Pipeline, error) {
	p, err := newQParser(src)
	if err != nil {
		return nil, err
	}
	pl := &Pipeline{Output: CanonicalOutput{}}
	for {
		if p.isIdent("pretty-print") {
			p.advance()
			pl.Output = PrettyOutput{}
			break
		}
		if p.isIdent("format") {
			p.advance()
			if p.cur().kind != qString {
				return nil, p.errHere("expected format template string")
			}
			tmplSrc := p.advance().text
			tmpl, err := ParseTemplate(tmplSrc)
			if err != nil {
				return nil, err
			}
			pl.Output = FormatOutput{Template: tmpl}
			break
		}
		stage, err := p.parseStage()
		if err != nil {
			return nil, err
		}
		pl.Stages = append(pl.Stages, stage)
		if p.isPunct("|") {
			p.advance()
			continue
		}
		break
	}
	if !p.eof() {
		return nil, p.errHere("unexpected trailing input")
	}
	return pl, nil
}

func (p *qParser) parseStage() (Stage, error) {
	switch {
	case p.isIdent("filter"):
		p.advance()
		pred, err := p.parseFilter()
		if err != nil {
			return nil, err
		}
		return FilterStage{Pred: pred}, nil
	case p.isIdent("take"):
		p.advance()
		if p.cur().kind != qInteger {
			return nil, p.errHere("expected integer after take")
		}
		n := p.advance().ival
		return TakeStage{N: int(n)}, nil
	}
	return nil, p.errHere("expected filter or take")
}

// parseFilter == or_expr.
func (p *qParser) parseFilter() (Predicate, error) { return p.parseOr() }

func (p *qParser) parseOr() (Predicate, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	preds := []Predicate{left}
	for p.isPunct("||") || p.isIdent("or") {
		p.advance()
		next, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		preds = append(preds, next)
	}
	if len(preds) == 1 {
		return preds[0], nil
	}
	return Or{Preds: preds}, nil
}

func (p *qParser) parseAnd() (Predicate, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	preds := []Predicate{left}
	for p.isPunct("&&") || p.isIdent("and") {
		p.advance()
		next, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		preds = append(preds, next)
	}
	if len(preds) == 1 {
		return preds[0], nil
	}
	return And{Preds: preds}, nil
}

func (p *qParser) parseUnary() (Predicate, error) {
	if p.isPunct("!") || p.isIdent("not") {
		p.advance()
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return Not{Inner: inner}, nil
	}
	return p.parseAtom()
}

func (p *qParser) parseAtom() (Predicate, error) {
	if p.isPunct("(") {
		p.advance()
		inner, err := p.parseFilter()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return inner, nil
	}
	return p.parseLeaf()
}

func (p *qParser) parseLeaf() (Predicate, error) {
	switch {
	case p.isIdent("len"):
		p.advance()
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		acc, err := p.parseAccessor()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		opTok, err := p.parseOpToken()
		if err != nil {
			return nil, err
		}
		lenOp, err := ParseLenOp(opTok)
		if err != nil {
			return nil, p.errHere("%v", err)
		}
		if p.cur().kind != qInteger {
			return nil, p.errHere("expected integer after len comparison")
		}
		n := p.advance().ival
		return AccessorPredicate{Acc: acc, Inner: Len{Op: lenOp, N: int(n)}}, nil

	case p.isIdent("identifier"):
		p.advance()
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		acc, err := p.parseAccessor()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		if p.isPunct("=~") {
			p.advance()
			if p.cur().kind != qString {
				return nil, p.errHere("expected regex string")
			}
			pattern, err := regexp.Compile(p.advance().text)
			if err != nil {
				return nil, p.errHere("invalid regex: %v", err)
			}
			return AccessorPredicate{Acc: acc, Inner: RegexIdentifier{Pattern: pattern}}, nil
		}
		opTok, err := p.parseOpToken()
		if err != nil {
			return nil, err
		}
		var want *string
		if p.isIdent("null") {
			p.advance()
		} else if p.cur().kind == qIdent {
			s := p.advance().text
			want = &s
		} else {
			return nil, p.errHere("expected identifier or null")
		}
		pred := identifierEqPredicate(want)
		if opTok == "!=" || opTok == "<>" {
			pred = Not{Inner: pred}
		}
		return AccessorPredicate{Acc: acc, Inner: pred}, nil

	case p.isIdent("exists"):
		p.advance()
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		acc, err := p.parseAccessor()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return Exists{Acc: acc}, nil
	}

	acc, err := p.parseAccessor()
	if err != nil {
		return nil, err
	}
	if p.isIdent("is") {
		p.advance()
		if p.cur().kind != qIdent {
			return nil, p.errHere("expected type name after is")
		}
		typ, err := ParseType(p.advance().text)
		if err != nil {
			return nil, p.errHere("%v", err)
		}
		return AccessorPredicate{Acc: acc, Inner: IsType{T: typ}}, nil
	}
	if p.isOpAhead() {
		opTok, err := p.parseOpToken()
		if err != nil {
			return nil, err
		}
		if opTok == "=~" {
			if p.cur().kind != qString {
				return nil, p.errHere("expected regex string")
			}
			pattern, err := regexp.Compile(p.advance().text)
			if err != nil {
				return nil, p.errHere("invalid regex: %v", err)
			}
			return AccessorPredicate{Acc: acc, Inner: Regex{Pattern: pattern}}, nil
		}
		want, err := p.parseLiteralValue()
		if err != nil {
			return nil, err
		}
		return AccessorPredicate{Acc: acc, Inner: comparisonPredicate(opTok, want)}, nil
	}
	return AccessorPredicate{Acc: acc, Inner: IsTruthy{}}, nil
}

func identifierEqPredicate(want *string) Predicate {
	if want == nil {
		return identNullPredicate{}
	}
	return identEqPredicate{ident: *want}
}

type identEqPredicate struct{ ident string }

func (p identEqPredicate) Eval(v duper.Value) bool { return v.HasIdent && v.Identifier == p.ident }

type identNullPredicate struct{}

func (identNullPredicate) Eval(v duper.Value) bool { return !v.HasIdent }

func comparisonPredicate(op string, want duper.Value) Predicate {
	switch op {
	case "==", "=":
		return Eq{Want: want}
	case "!=", "<>":
		return Ne{Want: want}
	}
	if ord, ok := ParseOrdering(op); ok {
		return Cmp{Op: ord, Want: want}
	}
	return Eq{Want: want}
}

func (p *qParser) isOpAhead() bool {
	t := p.cur()
	if t.kind != qPunct {
		return false
	}
	switch t.text {
	case "==", "=", "!=", "<>", "<", "<=", ">", ">=", "=~":
		return true
	}
	return false
}

func (p *qParser) parseOpToken() (string, error) {
	if !p.isOpAhead() {
		return "", p.errHere("expected comparison operator")
	}
	return p.advance().text, nil
}

// parseLiteralValue parses a literal operand for a comparison (§6.2's
// "literal"): string, integer, float, boolean, or null. Identified
// tagged-value and temporal literals are out of scope for query
// comparisons — §6.2 does not grant leaf literals an accessor-style
// identifier prefix.
func (p *qParser) parseLiteralValue() (duper.Value, error) {
	t := p.cur()
	switch {
	case t.kind == qString:
		p.advance()
		return duper.NewString(t.text), nil
	case t.kind == qInteger:
		p.advance()
		return duper.NewInteger(t.ival), nil
	case t.kind == qFloat:
		p.advance()
		return duper.NewFloat(t.fval), nil
	case p.isIdent("true"):
		p.advance()
		return duper.NewBoolean(true), nil
	case p.isIdent("false"):
		p.advance()
		return duper.NewBoolean(false), nil
	case p.isIdent("null"):
		p.advance()
		return duper.NewNull(), nil
	}
	return duper.Value{}, p.errHere("expected a literal value")
}

// ParseAccessor parses a standalone accessor (no leading stage/filter
// context), as used inside a §4.J format-string interpolation.
func ParseAccessor(src string) (Accessor, error) {
	p, err := newQParser(src)
	if err != nil {
		return nil, err
	}
	acc, err := p.parseAccessor()
	if err != nil {
		return nil, err
	}
	if !p.eof() {
		return nil, p.errHere("unexpected trailing input in accessor")
	}
	return acc, nil
}

func (p *qParser) parseAccessor() (Accessor, error) {
	var steps []Accessor
	for {
		step, ok, err := p.parseStep()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		steps = append(steps, step)
	}
	if len(steps) == 0 {
		return nil, p.errHere("expected an accessor")
	}
	if len(steps) == 1 {
		return steps[0], nil
	}
	return Flattened{Accessors: steps}, nil
}

func (p *qParser) parseStep() (Accessor, bool, error) {
	switch {
	case p.isPunct("."):
		p.advance()
		if p.cur().kind != qIdent {
			return nil, false, p.errHere("expected field name after '.'")
		}
		return Field{Key: p.advance().text}, true, nil

	case p.isPunct("["):
		p.advance()
		if p.isPunct("]") {
			p.advance()
			return Any{}, true, nil
		}
		// integer index, reverse index, range, or filter.
		if p.cur().kind == qInteger || p.isPunct("-") || p.isPunct("..") || p.isPunct("..=") {
			return p.parseIndexOrRange()
		}
		filt, err := p.parseFilter()
		if err != nil {
			return nil, false, err
		}
		if err := p.expectPunct("]"); err != nil {
			return nil, false, err
		}
		return Filter{F: filt}, true, nil
	}
	return nil, false, nil
}

func (p *qParser) parseIndexOrRange() (Accessor, bool, error) {
	var start *int
	if p.cur().kind == qInteger {
		n := int(p.advance().ival)
		start = &n
	}
	if p.isPunct("..") || p.isPunct("..=") {
		inclusive := p.isPunct("..=")
		p.advance()
		var end *int
		if p.cur().kind == qInteger {
			n := int(p.advance().ival)
			end = &n
		}
		if err := p.expectPunct("]"); err != nil {
			return nil, false, err
		}
		return Range{Start: start, End: end, Inclusive: inclusive}, true, nil
	}
	if start == nil {
		return nil, false, p.errHere("expected integer, range, or filter inside '[...]'")
	}
	if err := p.expectPunct("]"); err != nil {
		return nil, false, err
	}
	if *start < 0 {
		return ReverseIndex{I: -*start}, true, nil
	}
	return Index{I: *start}, true, nil
}

// ParseType parses a §6.2 `type` name into a Type.
func ParseType(name string) (Type, error) {
	switch name {
	case "Object":
		return TypeObject, nil
	case "Array":
		return TypeArray, nil
	case "Tuple":
		return TypeTuple, nil
	case "String":
		return TypeString, nil
	case "Bytes":
		return TypeBytes, nil
	case "Integer":
		return TypeInteger, nil
	case "Float":
		return TypeFloat, nil
	case "Number":
		return TypeNumber, nil
	case "Boolean":
		return TypeBoolean, nil
	case "Null":
		return TypeNull, nil
	case "Temporal":
		return TypeTemporal, nil
	case "Instant":
		return TypeTemporalInstant, nil
	case "ZonedDateTime":
		return TypeTemporalZonedDateTime, nil
	case "PlainDate":
		return TypeTemporalPlainDate, nil
	case "PlainTime":
		return TypeTemporalPlainTime, nil
	case "PlainDateTime":
		return TypeTemporalPlainDateTime, nil
	case "PlainYearMonth":
		return TypeTemporalPlainYearMonth, nil
	case "PlainMonthDay":
		return TypeTemporalPlainMonthDay, nil
	case "Duration":
		return TypeTemporalDuration, nil
	}
	return 0, fmt.Errorf("unknown type %q", name)
}
