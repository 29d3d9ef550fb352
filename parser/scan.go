package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/duperfmt/duper/reporter"
)

// scanQuotedString scans the content of a "..." literal starting just
// after the opening quote, returning the raw (still-escaped) content.
// Escape decoding is deferred to the escape package so the lexer stays a
// pure scanner, separate from quote-matching and any strconv-level decoding.
func (l *lexer) scanQuotedString() (string, error) {
	var b strings.Builder
	for {
		r, err := l.advance()
		if err == io.EOF {
			return "", fmt.Errorf("unterminated string literal")
		}
		if r == '"' {
			return b.String(), nil
		}
		if r == '\\' {
			b.WriteRune(r)
			r2, err2 := l.advance()
			if err2 == io.EOF {
				return "", fmt.Errorf("unterminated string literal")
			}
			b.WriteRune(r2)
			continue
		}
		if r == '\n' {
			return "", fmt.Errorf("unterminated string literal (bare newline)")
		}
		b.WriteRune(r)
	}
}

// scanRawDelimited scans a raw-string/raw-bytes body: N '#' characters have
// already been counted by the caller; this reads until `"` followed by N
// `#`s, treating everything in between literally (§4.C.1's raw_string /
// rb raw_content production — no escape processing at all).
func (l *lexer) scanRawDelimited(hashCount int) (string, error) {
	var b strings.Builder
	for {
		r, err := l.advance()
		if err == io.EOF {
			return "", fmt.Errorf("unterminated raw string literal")
		}
		if r != '"' {
			b.WriteRune(r)
			continue
		}
		// Tentatively consumed a quote; check for hashCount following '#'s.
		l.in.save()
		savedLine, savedCol := l.line, l.col
		matched := 0
		for matched < hashCount {
			r2, err2 := l.advance()
			if err2 == io.EOF || r2 != '#' {
				break
			}
			matched++
		}
		if matched == hashCount {
			return b.String(), nil
		}
		l.in.restore()
		l.line, l.col = savedLine, savedCol
		b.WriteRune('"')
	}
}

// countHashes consumes a run of '#' characters, returning how many were
// found.
func (l *lexer) countHashes() int {
	n := 0
	for {
		r, err := l.advance()
		if err == io.EOF {
			return n
		}
		if r != '#' {
			l.unreadRune(r)
			return n
		}
		n++
	}
}

// scanBase64 scans the body of a b64"..." literal up to the closing quote;
// the content is the base64 alphabet plus '=' padding, validated by the
// caller via encoding/base64.
func (l *lexer) scanBase64() (string, error) {
	var b strings.Builder
	for {
		r, err := l.advance()
		if err == io.EOF {
			return "", fmt.Errorf("unterminated base64 bytes literal")
		}
		if r == '"' {
			return b.String(), nil
		}
		b.WriteRune(r)
	}
}

// scanIdentLike scans a maximal run of identifier-continuation runes
// starting from the already-consumed first rune, returning the full text.
func (l *lexer) scanIdentLike(first rune, cont func(rune) bool) string {
	var b strings.Builder
	b.WriteRune(first)
	for {
		r, err := l.advance()
		if err == io.EOF {
			return b.String()
		}
		if !cont(r) {
			l.unreadRune(r)
			return b.String()
		}
		b.WriteRune(r)
	}
}

// scanNumber scans an integer or float literal starting from the
// already-consumed first rune (a digit or leading '-'), per §4.C.1 and
// §4.C.3: hex/octal/binary radixes, underscore digit separators, and the
// float-vs-integer distinction by presence of '.' or exponent.
func (l *lexer) scanNumber(first rune) (tok token, err error) {
	var b strings.Builder
	b.WriteRune(first)

	negative := first == '-'
	isFloat := false

	// Radix prefix: 0x / 0o / 0b, only directly after a bare "0".
	if first == '0' {
		if r, ok := l.in.peekRune(); ok && (r == 'x' || r == 'o' || r == 'b') {
			l.advance()
			b.WriteRune(r)
			for {
				r2, err2 := l.advance()
				if err2 == io.EOF {
					break
				}
				if isHexOrUnderscore(r2) {
					b.WriteRune(r2)
					continue
				}
				l.unreadRune(r2)
				break
			}
			return l.finishIntLiteral(b.String())
		}
	}
	if negative {
		r, err2 := l.advance()
		if err2 == io.EOF {
			return token{}, fmt.Errorf("dangling '-'")
		}
		if r == '0' {
			if r2, ok := l.in.peekRune(); ok && (r2 == 'x' || r2 == 'o' || r2 == 'b') {
				l.advance()
				b.WriteRune(r)
				b.WriteRune(r2)
				for {
					r3, err3 := l.advance()
					if err3 == io.EOF {
						break
					}
					if isHexOrUnderscore(r3) {
						b.WriteRune(r3)
						continue
					}
					l.unreadRune(r3)
					break
				}
				return l.finishIntLiteral(b.String())
			}
		}
		b.WriteRune(r)
	}

	for {
		r, err2 := l.advance()
		if err2 == io.EOF {
			break
		}
		if isDigit(r) || r == '_' {
			b.WriteRune(r)
			continue
		}
		if r == '.' {
			// A trailing "." on a tuple/array boundary (e.g. "1.method")
			// never occurs in this grammar; '.' always begins a fraction.
			isFloat = true
			b.WriteRune(r)
			for {
				r2, err3 := l.advance()
				if err3 == io.EOF {
					break
				}
				if isDigit(r2) || r2 == '_' {
					b.WriteRune(r2)
					continue
				}
				l.unreadRune(r2)
				break
			}
			r, err2 = l.advance()
			if err2 == io.EOF {
				break
			}
		}
		if r == 'e' || r == 'E' {
			isFloat = true
			b.WriteRune(r)
			if r2, ok := l.in.peekRune(); ok && (r2 == '+' || r2 == '-') {
				l.advance()
				b.WriteRune(r2)
			}
			for {
				r2, err3 := l.advance()
				if err3 == io.EOF {
					break
				}
				if isDigit(r2) {
					b.WriteRune(r2)
					continue
				}
				l.unreadRune(r2)
				break
			}
			continue
		}
		l.unreadRune(r)
		break
	}

	if isFloat {
		_, perr := strconv.ParseFloat(strings.ReplaceAll(b.String(), "_", ""), 64)
		if perr != nil {
			return token{}, fmt.Errorf("invalid float literal %q: %w", b.String(), perr)
		}
		return token{kind: tokFloat, text: b.String(), offset: l.in.offset()}, nil
	}
	return l.finishIntLiteral(b.String())
}

func isHexOrUnderscore(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F') || r == '_'
}

func (l *lexer) finishIntLiteral(raw string) (token, error) {
	clean := strings.ReplaceAll(raw, "_", "")
	var n int64
	var err error
	switch {
	case strings.HasPrefix(clean, "0x"), strings.HasPrefix(clean, "-0x"):
		neg := strings.HasPrefix(clean, "-")
		digits := strings.TrimPrefix(strings.TrimPrefix(clean, "-"), "0x")
		u, e := strconv.ParseUint(digits, 16, 64)
		n, err = signedFromUint(u, neg, e)
	case strings.HasPrefix(clean, "0o"), strings.HasPrefix(clean, "-0o"):
		neg := strings.HasPrefix(clean, "-")
		digits := strings.TrimPrefix(strings.TrimPrefix(clean, "-"), "0o")
		u, e := strconv.ParseUint(digits, 8, 64)
		n, err = signedFromUint(u, neg, e)
	case strings.HasPrefix(clean, "0b"), strings.HasPrefix(clean, "-0b"):
		neg := strings.HasPrefix(clean, "-")
		digits := strings.TrimPrefix(strings.TrimPrefix(clean, "-"), "0b")
		u, e := strconv.ParseUint(digits, 2, 64)
		n, err = signedFromUint(u, neg, e)
	default:
		n, err = strconv.ParseInt(clean, 10, 64)
	}
	if err != nil {
		return token{}, &reporter.OutOfRangeIntegerError{Text: raw}
	}
	return token{kind: tokInteger, text: strconv.FormatInt(n, 10), offset: l.in.offset()}, nil
}

func signedFromUint(u uint64, neg bool, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	if neg {
		if u > 1<<63 {
			return 0, fmt.Errorf("out of range")
		}
		return -int64(u), nil
	}
	if u > uint64(1<<63-1) {
		return 0, fmt.Errorf("out of range")
	}
	return int64(u), nil
}
