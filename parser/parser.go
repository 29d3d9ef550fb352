package parser

import (
	"encoding/base64"
	"fmt"
	"io"
	"strconv"

	duper "github.com/duperfmt/duper"
	"github.com/duperfmt/duper/escape"
	"github.com/duperfmt/duper/reporter"
	"github.com/duperfmt/duper/temporal"
)

// Parse parses a complete Duper document (§4.C.2): input must be the
// entire UTF-8 source, and the result is either a single duper.Value or a
// reporter.ErrorWithPos identifying the byte offset, line, column, and
// expected-alternative set at the point parsing failed. There is no error
// recovery in this core parser; it fails on the first error, per §4.C.2 —
// an error-tolerant tree-walker for IDE diagnostics is a separate,
// out-of-scope layer.
func Parse(source []byte, filename string) (duper.Value, error) {
	p := &parser{lex: newLexer(source, filename)}
	if err := p.lex.skipWhitespaceAndComments(); err != nil {
		return duper.Value{}, p.wrapf(err)
	}
	v, err := p.parseValue()
	if err != nil {
		return duper.Value{}, err
	}
	if err := p.lex.skipWhitespaceAndComments(); err != nil {
		return duper.Value{}, p.wrapf(err)
	}
	if !p.lex.in.eof() {
		return duper.Value{}, p.errExpected("end of input")
	}
	return v, nil
}

type parser struct {
	lex *lexer
}

func (p *parser) pos() duper.SourcePos {
	return duper.SourcePos{
		Filename: p.lex.filename,
		Offset:   p.lex.in.offset(),
		Line:     p.lex.line,
		Col:      p.lex.col,
	}
}

func (p *parser) wrapf(err error) error {
	return reporter.Error(p.pos(), err)
}

func (p *parser) errExpected(alts ...string) error {
	return reporter.Error(p.pos(), &reporter.ParseError{Expected: alts})
}

// wrapEscape converts a failed escape.DecodeString/DecodeBytes call into
// the §7 InvalidEscapeError kind rather than surfacing escape's own
// DecodeError type directly, so callers matching on reporter error kinds
// see one consistent kind regardless of which decoder rejected the input.
func (p *parser) wrapEscape(err error) error {
	derr, ok := err.(*escape.DecodeError)
	if !ok {
		return p.wrapf(err)
	}
	kind := "byte"
	if derr.Kind == escape.InvalidUnicode {
		kind = "unicode"
	}
	return p.wrapf(&reporter.InvalidEscapeError{Kind: kind, Hex: derr.Hex})
}

func (p *parser) skipWS() error {
	return p.lex.skipWhitespaceAndComments()
}

// peek returns the next significant rune without consuming it, after
// skipping whitespace/comments. ok is false at EOF.
func (p *parser) peek() (rune, bool, error) {
	if err := p.skipWS(); err != nil {
		return 0, false, p.wrapf(err)
	}
	r, ok := p.lex.in.peekRune()
	return r, ok, nil
}

// parseValue implements `value := (identifier "(" inner ")") | inner`
// (§4.C.1). The disambiguation between a bare inner and an
// identifier-wrapped inner is resolved by reading an optional leading
// identifier and checking whether a `(` or `'` immediately follows it
// (§4.C.2's disambiguation rules).
func (p *parser) parseValue() (duper.Value, error) {
	r, ok, err := p.peek()
	if err != nil {
		return duper.Value{}, err
	}
	if !ok {
		return duper.Value{}, p.errExpected("value")
	}

	if isIdentStart(r) {
		startPos, startLine, startCol := p.lex.in.pos, p.lex.line, p.lex.col
		id := p.readIdentifier()
		// Temporal: identifier directly followed by "'" (no whitespace).
		if r2, ok2 := p.lex.in.peekRune(); ok2 && r2 == '\'' {
			return p.parseTemporalWithIdent(id)
		}
		if err := p.skipWS(); err != nil {
			return duper.Value{}, p.wrapf(err)
		}
		r3, ok3 := p.lex.in.peekRune()
		if ok3 && r3 == '(' {
			p.advanceRune() // consume '('
			if err := ValidateIdentifier(id); err != nil {
				return duper.Value{}, p.wrapf(err)
			}
			inner, err := p.parseInner()
			if err != nil {
				return duper.Value{}, err
			}
			if err := p.expectRune(')'); err != nil {
				return duper.Value{}, err
			}
			return inner.WithIdentifier(id), nil
		}
		// Not followed by '(' or '\'': rewind and let parseInner handle the
		// bare identifier. The keywords true/false/null/nan/inf start
		// lower-case, so they never take this branch.
		p.lex.in.pos, p.lex.line, p.lex.col = startPos, startLine, startCol
	}

	return p.parseInner()
}

func (p *parser) advanceRune() {
	p.lex.advance()
}

func (p *parser) expectRune(want rune) error {
	if err := p.skipWS(); err != nil {
		return p.wrapf(err)
	}
	r, err := p.lex.advance()
	if err == io.EOF || r != want {
		if err != io.EOF {
			p.lex.unreadRune(r)
		}
		return p.errExpected(string(want))
	}
	return nil
}

func (p *parser) readIdentifier() string {
	r, _ := p.lex.advance()
	return p.lex.scanIdentLike(r, isIdentCont)
}

// parseInner implements the `inner` production: object, array, tuple,
// string, bytes, temporal (unidentified, using the Unspecified acceptor),
// number, boolean, or null.
func (p *parser) parseInner() (duper.Value, error) {
	r, ok, err := p.peek()
	if err != nil {
		return duper.Value{}, err
	}
	if !ok {
		return duper.Value{}, p.errExpected("value")
	}

	switch {
	case r == '{':
		return p.parseObject()
	case r == '[':
		return p.parseArray()
	case r == '(':
		return p.parseTuple()
	case r == '\'':
		return p.parseTemporalWithIdent("")
	case r == '"':
		return p.parseQuotedStringValue()
	case r == 'r':
		return p.parseROrRaw()
	case r == 'b':
		return p.parseBPrefixed()
	case isDigit(r), r == '-':
		return p.parseNumberValue()
	case isIdentStart(r):
		// A self-identified temporal can appear here too, e.g. nested one
		// level inside an outer identifier-wrap: CreatedAt(Instant'...').
		// Only dispatch to parseKeyword once we've ruled that out, mirroring
		// parseValue's own identifier+"'" lookahead (§4.C.1).
		startPos, startLine, startCol := p.lex.in.pos, p.lex.line, p.lex.col
		id := p.readIdentifier()
		if r2, ok2 := p.lex.in.peekRune(); ok2 && r2 == '\'' {
			return p.parseTemporalWithIdent(id)
		}
		p.lex.in.pos, p.lex.line, p.lex.col = startPos, startLine, startCol
		return p.parseKeyword()
	case isPlainKeyStart(r):
		return p.parseKeyword()
	}
	return duper.Value{}, p.errExpected("object", "array", "tuple", "string", "bytes", "temporal", "number", "boolean", "null")
}

// parseKeyword handles the bareword literals true/false/null/nan/inf that
// are not behind any sigil, plus -inf (handled in parseNumberValue).
func (p *parser) parseKeyword() (duper.Value, error) {
	r, _ := p.lex.advance()
	word := p.lex.scanIdentLike(r, isIdentCont)
	switch word {
	case "true":
		return duper.NewBoolean(true), nil
	case "false":
		return duper.NewBoolean(false), nil
	case "null":
		return duper.NewNull(), nil
	case "nan":
		return duper.NewFloat(nan()), nil
	case "inf":
		return duper.NewFloat(inf(1)), nil
	}
	return duper.Value{}, p.errExpected("true", "false", "null")
}

func (p *parser) parseObject() (duper.Value, error) {
	p.advanceRune() // consume '{'
	var entries []duper.Entry
	for {
		r, ok, err := p.peek()
		if err != nil {
			return duper.Value{}, err
		}
		if !ok {
			return duper.Value{}, p.errExpected("}")
		}
		if r == '}' {
			p.advanceRune()
			break
		}
		if len(entries) > 0 {
			if err := p.expectRune(','); err != nil {
				return duper.Value{}, err
			}
			r2, ok2, err2 := p.peek()
			if err2 != nil {
				return duper.Value{}, err2
			}
			if ok2 && r2 == '}' {
				p.advanceRune()
				break
			}
		}
		key, kpos, err := p.parseKey()
		if err != nil {
			return duper.Value{}, err
		}
		if err := p.expectRune(':'); err != nil {
			return duper.Value{}, err
		}
		if err := p.skipWS(); err != nil {
			return duper.Value{}, p.wrapf(err)
		}
		val, err := p.parseValue()
		if err != nil {
			return duper.Value{}, err
		}
		for _, e := range entries {
			if e.Key == key {
				return duper.Value{}, reporter.Error(kpos, &reporter.DuplicateKeyError{Key: key})
			}
		}
		entries = append(entries, duper.Entry{Key: key, Value: val})
	}
	return duper.NewObject(entries), nil
}

// parseKey implements `key := plain_key | quoted_string | raw_string`.
func (p *parser) parseKey() (string, duper.SourcePos, error) {
	pos := p.pos()
	r, ok, err := p.peek()
	if err != nil {
		return "", pos, err
	}
	if !ok {
		return "", pos, p.errExpected("key")
	}
	switch {
	case isPlainKeyStart(r):
		r0, _ := p.lex.advance()
		return p.lex.scanIdentLike(r0, isPlainKeyCont), pos, nil
	case r == '"':
		p.advanceRune()
		raw, err := p.lex.scanQuotedString()
		if err != nil {
			return "", pos, p.wrapf(err)
		}
		decoded, derr := escape.DecodeString(raw)
		if derr != nil {
			return "", pos, p.wrapEscape(derr)
		}
		return decoded, pos, nil
	case r == 'r':
		v, err := p.parseROrRaw()
		if err != nil {
			return "", pos, err
		}
		if s, okS := v.Inner.(duper.String); okS {
			return s.Text, pos, nil
		}
		return "", pos, p.errExpected("key")
	}
	return "", pos, p.errExpected("key")
}

func (p *parser) parseArray() (duper.Value, error) {
	p.advanceRune() // consume '['
	var elems []duper.Value
	for {
		r, ok, err := p.peek()
		if err != nil {
			return duper.Value{}, err
		}
		if !ok {
			return duper.Value{}, p.errExpected("]")
		}
		if r == ']' {
			p.advanceRune()
			break
		}
		if len(elems) > 0 {
			if err := p.expectRune(','); err != nil {
				return duper.Value{}, err
			}
			r2, ok2, err2 := p.peek()
			if err2 != nil {
				return duper.Value{}, err2
			}
			if ok2 && r2 == ']' {
				p.advanceRune()
				break
			}
		}
		if err := p.skipWS(); err != nil {
			return duper.Value{}, p.wrapf(err)
		}
		v, err := p.parseValue()
		if err != nil {
			return duper.Value{}, err
		}
		elems = append(elems, v)
	}
	return duper.NewArray(elems), nil
}

// parseTuple implements the three tuple forms: empty `(,)`, singleton
// `(x,)`, and n≥2 `(x, y, ...)` with an optional trailing comma (§4.C.1).
func (p *parser) parseTuple() (duper.Value, error) {
	p.advanceRune() // consume '('
	if err := p.skipWS(); err != nil {
		return duper.Value{}, p.wrapf(err)
	}
	if r, ok := p.lex.in.peekRune(); ok && r == ',' {
		p.advanceRune()
		if err := p.expectRune(')'); err != nil {
			return duper.Value{}, err
		}
		return duper.NewTupleAny(nil), nil
	}

	var elems []duper.Value
	first, err := p.parseValue()
	if err != nil {
		return duper.Value{}, err
	}
	elems = append(elems, first)
	if err := p.expectRune(','); err != nil {
		return duper.Value{}, err
	}
	for {
		r, ok, err := p.peek()
		if err != nil {
			return duper.Value{}, err
		}
		if !ok {
			return duper.Value{}, p.errExpected(")")
		}
		if r == ')' {
			p.advanceRune()
			break
		}
		v, err := p.parseValue()
		if err != nil {
			return duper.Value{}, err
		}
		elems = append(elems, v)
		r2, ok2, err2 := p.peek()
		if err2 != nil {
			return duper.Value{}, err2
		}
		if ok2 && r2 == ',' {
			p.advanceRune()
			continue
		}
		if err := p.expectRune(')'); err != nil {
			return duper.Value{}, err
		}
		break
	}
	return duper.NewTupleAny(elems), nil
}

// parseTemporalWithIdent implements `temporal := identifier? "'" ... "'"`.
// ident is "" when no leading identifier was read, in which case the
// Unspecified acceptor validates the carrier.
func (p *parser) parseTemporalWithIdent(ident string) (duper.Value, error) {
	variant := temporal.Unspecified
	if ident != "" {
		v, ok := temporal.VariantByIdentifier(ident)
		if !ok {
			return duper.Value{}, p.errExpected("temporal variant identifier")
		}
		variant = v
	}
	if err := p.expectRune('\''); err != nil {
		return duper.Value{}, err
	}
	carrier, err := p.scanTemporalCarrier()
	if err != nil {
		return duper.Value{}, p.wrapf(err)
	}
	if !temporal.Validate(variant, carrier) {
		return duper.Value{}, p.wrapf(&reporter.InvalidTemporalError{Variant: variant.String(), Text: carrier})
	}
	return duper.NewTemporal(variant, carrier), nil
}

func (p *parser) scanTemporalCarrier() (string, error) {
	var carrier []rune
	for {
		r, err := p.lex.advance()
		if err == io.EOF {
			return "", fmt.Errorf("unterminated temporal literal")
		}
		if r == '\'' {
			return string(carrier), nil
		}
		carrier = append(carrier, r)
	}
}

func (p *parser) parseQuotedStringValue() (duper.Value, error) {
	p.advanceRune() // consume '"'
	raw, err := p.lex.scanQuotedString()
	if err != nil {
		return duper.Value{}, p.wrapf(err)
	}
	decoded, derr := escape.DecodeString(raw)
	if derr != nil {
		return duper.Value{}, p.wrapEscape(derr)
	}
	return duper.NewString(decoded), nil
}

// parseROrRaw handles both the raw_string production (`r#*"..."#*`) and
// the `rb` raw-bytes prefix; both begin with 'r'.
func (p *parser) parseROrRaw() (duper.Value, error) {
	p.advanceRune() // consume 'r'
	r, ok := p.lex.in.peekRune()
	if ok && r == 'b' {
		p.advanceRune()
		hashes := p.lex.countHashes()
		if err := p.expectRune('"'); err != nil {
			return duper.Value{}, err
		}
		content, err := p.lex.scanRawDelimited(hashes)
		if err != nil {
			return duper.Value{}, p.wrapf(err)
		}
		return duper.NewBytes([]byte(content)), nil
	}
	hashes := p.lex.countHashes()
	if err := p.expectRune('"'); err != nil {
		return duper.Value{}, err
	}
	content, err := p.lex.scanRawDelimited(hashes)
	if err != nil {
		return duper.Value{}, p.wrapf(err)
	}
	return duper.NewString(content), nil
}

// parseBPrefixed handles `b"..."` and `b64"..."`, both starting with 'b'.
func (p *parser) parseBPrefixed() (duper.Value, error) {
	p.advanceRune() // consume 'b'
	r, ok := p.lex.in.peekRune()
	if ok && r == '6' {
		p.advanceRune()
		if err := p.expectRune('4'); err != nil {
			return duper.Value{}, err
		}
		if err := p.expectRune('"'); err != nil {
			return duper.Value{}, err
		}
		content, err := p.lex.scanBase64()
		if err != nil {
			return duper.Value{}, p.wrapf(err)
		}
		data, derr := base64.StdEncoding.DecodeString(content)
		if derr != nil {
			return duper.Value{}, p.wrapf(fmt.Errorf("invalid base64 bytes literal: %w", derr))
		}
		return duper.NewBytes(data), nil
	}
	if err := p.expectRune('"'); err != nil {
		return duper.Value{}, err
	}
	raw, err := p.lex.scanQuotedString()
	if err != nil {
		return duper.Value{}, p.wrapf(err)
	}
	data, derr := escape.DecodeBytes(raw)
	if derr != nil {
		return duper.Value{}, p.wrapEscape(derr)
	}
	return duper.NewBytes(data), nil
}

func (p *parser) parseNumberValue() (duper.Value, error) {
	r, _ := p.lex.advance()
	if r == '-' {
		if r2, ok := p.lex.in.peekRune(); ok && r2 == 'i' {
			id := p.readIdentifier()
			if id == "inf" {
				return duper.NewFloat(inf(-1)), nil
			}
			return duper.Value{}, p.errExpected("-inf")
		}
	}
	tok, err := p.lex.scanNumber(r)
	if err != nil {
		return duper.Value{}, p.wrapf(err)
	}
	if tok.kind == tokFloat {
		f, perr := strconv.ParseFloat(tok.text, 64)
		if perr != nil {
			return duper.Value{}, p.wrapf(perr)
		}
		return duper.NewFloat(f), nil
	}
	n, perr := strconv.ParseInt(tok.text, 10, 64)
	if perr != nil {
		return duper.Value{}, p.wrapf(&reporter.OutOfRangeIntegerError{Text: tok.text})
	}
	return duper.NewInteger(n), nil
}

// ValidateIdentifier re-exports duper.ValidateIdentifier under the name
// the rest of this package's call sites expect.
func ValidateIdentifier(id string) error { return duper.ValidateIdentifier(id) }
