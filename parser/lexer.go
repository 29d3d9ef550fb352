// Package parser implements the Duper surface grammar (§4.C): a
// hand-written lexer and recursive-descent parser that produce a
// duper.Value directly, with no intermediate grammar-AST layer — Duper's
// grammar productions collapse one-to-one onto the value model (§4.D), so
// there is nothing for a separate AST to represent that Value doesn't
// already capture.
//
// The rune-at-a-time scanning style and save/restore backtracking marks
// follow a runeReader shape; the string-literal escape loop follows the
// same scan-then-decode split. No goyacc token/grammar machinery is used
// here; this is a direct recursive-descent parser rather than an LALR table.
package parser

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// runeReader scans a UTF-8 buffer a rune at a time, supporting a single
// save/restore mark for lookahead-and-backtrack parsing decisions (e.g.
// distinguishing `(` tuple-open from an identified inner's `(`).
type runeReader struct {
	data []byte
	pos  int

	savedPos int
}

func newRuneReader(data []byte) *runeReader {
	return &runeReader{data: data}
}

func (rr *runeReader) save() {
	rr.savedPos = rr.pos
}

func (rr *runeReader) restore() {
	rr.pos = rr.savedPos
}

// readRune returns the next rune, its width in bytes, and io.EOF at the
// end of input.
func (rr *runeReader) readRune() (r rune, size int, err error) {
	if rr.pos >= len(rr.data) {
		return 0, 0, io.EOF
	}
	r, sz := utf8.DecodeRune(rr.data[rr.pos:])
	rr.pos += sz
	return r, sz, nil
}

func (rr *runeReader) unreadRune(size int) {
	rr.pos -= size
}

// peekRune looks at the next rune without consuming it.
func (rr *runeReader) peekRune() (rune, bool) {
	r, sz, err := rr.readRune()
	if err != nil {
		return 0, false
	}
	rr.unreadRune(sz)
	return r, true
}

func (rr *runeReader) offset() int { return rr.pos }

func (rr *runeReader) eof() bool { return rr.pos >= len(rr.data) }

// tokenKind enumerates the lexical classes the parser consumes. There is
// no distinct token for every punctuation rune; single-rune punctuation is
// carried directly as its rune value in token.text.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokPlainKey
	tokString
	tokRawString
	tokBytes
	tokBase64Bytes
	tokTemporal
	tokInteger
	tokFloat
	tokBoolean
	tokNull
	tokPunct // single rune: { } [ ] ( ) , :
)

type token struct {
	kind   tokenKind
	text   string // decoded text for literals; raw spelling for ident/punct
	ident  string // for tokTemporal, an optional leading identifier
	offset int
	line   int
	col    int
}

// lexer produces tokens from a Duper source buffer, skipping whitespace
// and comments between them (§4.C.1). It tracks line/column incrementally
// on every rune consumed, rather than reindexing on every error.
type lexer struct {
	in       *runeReader
	filename string
	line     int
	col      int
	lineIdx  *lineIndexBuilder
}

func newLexer(data []byte, filename string) *lexer {
	return &lexer{
		in:       newRuneReader(data),
		filename: filename,
		line:     1,
		col:      1,
		lineIdx:  newLineIndexBuilder(),
	}
}

func (l *lexer) posAt(offset int) position {
	return position{filename: l.filename, offset: offset, line: l.line, col: l.col}
}

// position is the lexer's internal cursor snapshot; the parser converts it
// to a duper.SourcePos (via reporter) only when constructing a diagnostic.
type position struct {
	filename string
	offset   int
	line     int
	col      int
}

type lineIndexBuilder struct {
	offsets []int
}

func newLineIndexBuilder() *lineIndexBuilder {
	return &lineIndexBuilder{offsets: []int{0}}
}

func (b *lineIndexBuilder) addLine(offset int) {
	b.offsets = append(b.offsets, offset)
}

func (l *lexer) advance() (rune, error) {
	r, sz, err := l.in.readRune()
	if err != nil {
		return 0, err
	}
	if r == '\n' {
		l.lineIdx.addLine(l.in.offset())
		l.line++
		l.col = 1
	} else {
		l.col += sz
	}
	return r, nil
}

func (l *lexer) unreadRune(r rune) {
	sz := utf8.RuneLen(r)
	l.in.unreadRune(sz)
	if r == '\n' {
		l.line--
	} else {
		l.col -= sz
	}
}

// skipWhitespaceAndComments discards runs of whitespace, `//` line
// comments, and `/* */` block comments between tokens (§4.C.1). Comments
// are discarded outright here; a diagnostics-aware tokenizer that
// preserves them for IDE tooling is out of scope (§4.C.1, §9).
func (l *lexer) skipWhitespaceAndComments() error {
	for {
		r, err := l.advance()
		if err == io.EOF {
			return nil
		}
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			continue
		case r == '/':
			r2, err2 := l.advance()
			if err2 == io.EOF {
				l.unreadRune(r)
				return nil
			}
			switch r2 {
			case '/':
				if err := l.skipLineComment(); err != nil {
					return err
				}
			case '*':
				if err := l.skipBlockComment(); err != nil {
					return err
				}
			default:
				l.unreadRune(r2)
				l.unreadRune(r)
				return nil
			}
		default:
			l.unreadRune(r)
			return nil
		}
	}
}

func (l *lexer) skipLineComment() error {
	for {
		r, err := l.advance()
		if err == io.EOF {
			return nil
		}
		if r == '\n' {
			return nil
		}
	}
}

func (l *lexer) skipBlockComment() error {
	for {
		r, err := l.advance()
		if err == io.EOF {
			return fmt.Errorf("unterminated block comment")
		}
		if r == '*' {
			r2, err2 := l.advance()
			if err2 == io.EOF {
				return fmt.Errorf("unterminated block comment")
			}
			if r2 == '/' {
				return nil
			}
			l.unreadRune(r2)
		}
	}
}

func isIdentStart(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func isIdentCont(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
}

func isPlainKeyStart(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || r == '_'
}

func isPlainKeyCont(r rune) bool {
	return isPlainKeyStart(r) || (r >= '0' && r <= '9')
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
