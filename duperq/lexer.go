package duperq

import (
	"fmt"
	"strconv"
	"strings"

	duper "github.com/duperfmt/duper"
	"github.com/duperfmt/duper/reporter"
)

// qpos builds the source position reported for a query-string offset;
// queries are single-line so line/col are not tracked separately.
func qpos(offset int) duper.SourcePos {
	return duper.SourcePos{Filename: "<query>", Offset: offset, Line: 1, Col: offset + 1}
}

func errQuery(offset int, format string, args ...any) error {
	return reporter.Error(qpos(offset), &reporter.QueryError{Offset: offset, Msg: fmt.Sprintf(format, args...)})
}

// qTokKind enumerates the query language's lexical classes (§6.2).
type qTokKind int

const (
	qEOF qTokKind = iota
	qIdent
	qInteger
	qFloat
	qString
	qPunct
)

type qToken struct {
	kind qTokKind
	text string
	ival int64
	fval float64
	pos  int
}

// qLexer tokenizes a §6.2 query string. It is deliberately simpler than
// the document parser's lexer (parser/lexer.go): queries are short,
// single-line inputs with no comments or multi-line literals.
type qLexer struct {
	src  string
	pos  int
	toks []qToken
}

func newQLexer(src string) *qLexer { return &qLexer{src: src} }

func (l *qLexer) tokenize() ([]qToken, error) {
	for {
		l.skipSpace()
		if l.pos >= len(l.src) {
			l.toks = append(l.toks, qToken{kind: qEOF, pos: l.pos})
			return l.toks, nil
		}
		start := l.pos
		c := l.src[l.pos]
		switch {
		case c == '"':
			text, err := l.scanString()
			if err != nil {
				return nil, err
			}
			l.toks = append(l.toks, qToken{kind: qString, text: text, pos: start})
		case isQIdentStart(c):
			l.pos++
			for l.pos < len(l.src) && isQIdentCont(l.src[l.pos]) {
				l.pos++
			}
			l.toks = append(l.toks, qToken{kind: qIdent, text: l.src[start:l.pos], pos: start})
		case isQDigit(c) || (c == '-' && l.pos+1 < len(l.src) && isQDigit(l.src[l.pos+1])):
			l.pos++
			for l.pos < len(l.src) && (isQDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
				l.pos++
			}
			isFloat := false
			if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isQDigit(l.src[l.pos+1]) {
				isFloat = true
				l.pos++
				for l.pos < len(l.src) && (isQDigit(l.src[l.pos]) || l.src[l.pos] == '_') {
					l.pos++
				}
			}
			if l.pos < len(l.src) && (l.src[l.pos] == 'e' || l.src[l.pos] == 'E') {
				save := l.pos
				l.pos++
				if l.pos < len(l.src) && (l.src[l.pos] == '+' || l.src[l.pos] == '-') {
					l.pos++
				}
				if l.pos < len(l.src) && isQDigit(l.src[l.pos]) {
					isFloat = true
					for l.pos < len(l.src) && isQDigit(l.src[l.pos]) {
						l.pos++
					}
				} else {
					l.pos = save
				}
			}
			raw := strings.ReplaceAll(l.src[start:l.pos], "_", "")
			if isFloat {
				f, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return nil, errQuery(start, "invalid float literal %q", raw)
				}
				l.toks = append(l.toks, qToken{kind: qFloat, text: raw, fval: f, pos: start})
				continue
			}
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, errQuery(start, "invalid integer literal %q", raw)
			}
			l.toks = append(l.toks, qToken{kind: qInteger, text: raw, ival: n, pos: start})
		default:
			p, ok := l.scanPunct()
			if !ok {
				return nil, errQuery(start, "unexpected character %q", string(c))
			}
			l.toks = append(l.toks, qToken{kind: qPunct, text: p, pos: start})
		}
	}
}

func (l *qLexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

func (l *qLexer) scanString() (string, error) {
	start := l.pos
	l.pos++ // opening quote
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return "", errQuery(start, "unterminated string literal")
		}
		c := l.src[l.pos]
		if c == '"' {
			l.pos++
			return b.String(), nil
		}
		if c == '\\' && l.pos+1 < len(l.src) {
			b.WriteByte(c)
			b.WriteByte(l.src[l.pos+1])
			l.pos += 2
			continue
		}
		b.WriteByte(c)
		l.pos++
	}
}

// multi-char punctuation, longest first.
var qPunctList = []string{
	"..=", "==", "!=", "<>", "<=", ">=", "&&", "||", "=~", "..",
	"|", ".", "[", "]", "(", ")", ":", ",", "!", "<", ">", "=", "+", "-",
}

func (l *qLexer) scanPunct() (string, bool) {
	for _, p := range qPunctList {
		if strings.HasPrefix(l.src[l.pos:], p) {
			l.pos += len(p)
			return p, true
		}
	}
	return "", false
}

func isQIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isQIdentCont(c byte) bool {
	return isQIdentStart(c) || isQDigit(c) || c == '-'
}

func isQDigit(c byte) bool { return c >= '0' && c <= '9' }
