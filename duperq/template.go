package duperq

import (
	"strings"

	duper "github.com/duperfmt/duper"
	"github.com/duperfmt/duper/escape"
	"github.com/duperfmt/duper/format"
)

// Template is a compiled §4.J format string: literal text interleaved
// with ${accessor[:type]} interpolations.
type Template struct {
	parts []templatePart
}

type templatePart struct {
	literal string // valid when acc == nil
	acc     Accessor
	typ     Type
	hasType bool
}

// Render evaluates every interpolation against v and concatenates the
// result, substituting the accessor's first result (after an optional
// cast) rendered with a minimal-noise visitor: no outer identifier
// wrapping, but children are still fully formatted (§4.J). A path with
// no results renders <MISSING>; a present result whose cast fails
// renders <INVALID CAST>.
func (t *Template) Render(v duper.Value) string {
	var b strings.Builder
	for _, p := range t.parts {
		if p.acc == nil {
			b.WriteString(p.literal)
			continue
		}
		results := p.acc.Access(v)
		if len(results) == 0 {
			b.WriteString("<MISSING>")
			continue
		}
		first := results[0]
		if p.hasType {
			cast := Cast(first, p.typ)
			if cast == nil {
				b.WriteString("<INVALID CAST>")
				continue
			}
			first = *cast
		}
		b.WriteString(renderMinimal(first))
	}
	return b.String()
}

// renderMinimal formats v without an outer identifier, per §4.J.
func renderMinimal(v duper.Value) string {
	v.HasIdent = false
	v.Identifier = ""
	return format.Canonical(v, false)
}

// ParseTemplate compiles a §4.J fmt_string body (without its surrounding
// quotes) into a Template, resolving each ${...} interpolation's
// accessor and optional type via ParseAccessor/ParseType from query.go.
// Escapes in literal runs follow §4.A string decoding (escape.DecodeString).
func ParseTemplate(body string) (*Template, error) {
	var parts []templatePart
	var lit strings.Builder
	flushLit := func() {
		if lit.Len() > 0 {
			parts = append(parts, templatePart{literal: lit.String()})
			lit.Reset()
		}
	}

	i := 0
	for i < len(body) {
		if body[i] == '$' && i+1 < len(body) && body[i+1] == '{' {
			end := strings.IndexByte(body[i+2:], '}')
			if end < 0 {
				return nil, errQuery(i, "unterminated ${...} interpolation")
			}
			end += i + 2
			flushLit()
			expr := body[i+2 : end]
			accSrc, typSrc, hasType := splitAccessorType(expr)
			acc, err := ParseAccessor(accSrc)
			if err != nil {
				return nil, err
			}
			part := templatePart{acc: acc}
			if hasType {
				typ, err := ParseType(typSrc)
				if err != nil {
					return nil, err
				}
				part.typ = typ
				part.hasType = true
			}
			parts = append(parts, part)
			i = end + 1
			continue
		}
		lit.WriteByte(body[i])
		i++
	}
	flushLit()

	decoded := make([]templatePart, len(parts))
	for i, p := range parts {
		if p.acc == nil {
			text, err := escape.DecodeString(p.literal)
			if err != nil {
				decoded[i] = p
				continue
			}
			p.literal = text
		}
		decoded[i] = p
	}
	return &Template{parts: decoded}, nil
}

// splitAccessorType splits "accessor:Type" on the last top-level colon;
// an accessor step like [0] or a regex string may itself contain a
// colon-free body, so a simple LastIndex is sufficient here since neither
// accessor steps nor type names ever contain ':'.
func splitAccessorType(expr string) (accessor, typ string, hasType bool) {
	idx := strings.LastIndexByte(expr, ':')
	if idx < 0 {
		return expr, "", false
	}
	return expr[:idx], expr[idx+1:], true
}
