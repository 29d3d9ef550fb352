package format

import (
	"strconv"
	"strings"

	duper "github.com/duperfmt/duper"
	"github.com/duperfmt/duper/temporal"
)

// PrettyOptions configures PrettyPrinter.
type PrettyOptions struct {
	// Indent is the number of spaces added per nesting level. Zero
	// defaults to 2, matching the Rust original's hardcoded width.
	Indent int
	// StripIdentifiers omits every identifier, producing a schema-free
	// rendering (§4.E).
	StripIdentifiers bool
}

// PrettyPrinter renders a duper.Value one element per line, per §4.E.
type PrettyPrinter struct {
	opts  PrettyOptions
	depth int
}

// NewPrettyPrinter creates a PrettyPrinter with the given options.
func NewPrettyPrinter(opts PrettyOptions) *PrettyPrinter {
	if opts.Indent <= 0 {
		opts.Indent = 2
	}
	return &PrettyPrinter{opts: opts}
}

// Print renders v.
func (p *PrettyPrinter) Print(v duper.Value) string {
	return duper.Accept[string](p, v)
}

func (p *PrettyPrinter) indentString() string {
	return strings.Repeat(" ", p.depth*p.opts.Indent)
}

func (p *PrettyPrinter) identOf(ident *string) (string, bool) {
	if ident == nil || p.opts.StripIdentifiers {
		return "", false
	}
	return *ident, true
}

func (p *PrettyPrinter) VisitObject(ident *string, entries []duper.Entry) string {
	id, hasIdent := p.identOf(ident)
	var b strings.Builder
	if hasIdent {
		b.WriteString(id)
	}
	if len(entries) == 0 {
		if hasIdent {
			b.WriteString("({})")
		} else {
			b.WriteString("{}")
		}
		return b.String()
	}
	if hasIdent {
		b.WriteString("({\n")
	} else {
		b.WriteString("{\n")
	}
	p.depth++
	for _, e := range entries {
		b.WriteString(p.indentString())
		b.WriteString(formatKey(e.Key))
		b.WriteString(": ")
		b.WriteString(duper.Accept[string](p, e.Value))
		b.WriteString(",\n")
	}
	p.depth--
	b.WriteString(p.indentString())
	if hasIdent {
		b.WriteString("})")
	} else {
		b.WriteString("}")
	}
	return b.String()
}

func (p *PrettyPrinter) VisitArray(ident *string, elems []duper.Value) string {
	id, hasIdent := p.identOf(ident)
	var b strings.Builder
	if hasIdent {
		b.WriteString(id)
	}
	if len(elems) == 0 {
		if hasIdent {
			b.WriteString("([])")
		} else {
			b.WriteString("[]")
		}
		return b.String()
	}
	if hasIdent {
		b.WriteString("([\n")
	} else {
		b.WriteString("[\n")
	}
	p.depth++
	for _, e := range elems {
		b.WriteString(p.indentString())
		b.WriteString(duper.Accept[string](p, e))
		b.WriteString(",\n")
	}
	p.depth--
	b.WriteString(p.indentString())
	if hasIdent {
		b.WriteString("])")
	} else {
		b.WriteString("]")
	}
	return b.String()
}

func (p *PrettyPrinter) VisitTuple(ident *string, elems []duper.Value) string {
	id, hasIdent := p.identOf(ident)
	var b strings.Builder
	if hasIdent {
		b.WriteString(id)
	}
	switch len(elems) {
	case 0:
		if hasIdent {
			b.WriteString("((,))")
		} else {
			b.WriteString("(,)")
		}
	case 1:
		if hasIdent {
			b.WriteString("((")
			b.WriteString(duper.Accept[string](p, elems[0]))
			b.WriteString(",))")
		} else {
			b.WriteString("(")
			b.WriteString(duper.Accept[string](p, elems[0]))
			b.WriteString(",)")
		}
	default:
		if hasIdent {
			b.WriteString("((\n")
		} else {
			b.WriteString("(\n")
		}
		p.depth++
		for _, e := range elems {
			b.WriteString(p.indentString())
			b.WriteString(duper.Accept[string](p, e))
			b.WriteString(",\n")
		}
		p.depth--
		b.WriteString(p.indentString())
		if hasIdent {
			b.WriteString("))")
		} else {
			b.WriteString(")")
		}
	}
	return b.String()
}

// wrapScalar implements the 60-char wrap rule (§4.E): an identified
// string/bytes whose rendered body plus identifier exceeds 60 characters
// at the current indent is split onto its own indented line inside the
// identifier's parentheses.
func (p *PrettyPrinter) wrapScalar(id, body string) string {
	if len(id)+len(body)+p.depth*p.opts.Indent <= 60 {
		return id + "(" + body + ")"
	}
	p.depth++
	inner := p.indentString() + body
	p.depth--
	return id + "(\n" + inner + "\n" + p.indentString() + ")"
}

func (p *PrettyPrinter) VisitString(ident *string, text string) string {
	id, hasIdent := p.identOf(ident)
	body := formatString(text)
	if !hasIdent {
		return body
	}
	return p.wrapScalar(id, body)
}

func (p *PrettyPrinter) VisitBytes(ident *string, data []byte) string {
	id, hasIdent := p.identOf(ident)
	body := formatBytes(data)
	if !hasIdent {
		return body
	}
	return p.wrapScalar(id, body)
}

func (p *PrettyPrinter) VisitTemporal(ident *string, variant temporal.Variant, carrier string) string {
	id, hasIdent := p.identOf(ident)
	body := "'" + carrier + "'"
	if !hasIdent {
		if variant == temporal.Unspecified {
			return body
		}
		return variant.String() + body
	}
	return id + body
}

func (p *PrettyPrinter) VisitInteger(ident *string, n int64) string {
	id, hasIdent := p.identOf(ident)
	body := strconv.FormatInt(n, 10)
	if !hasIdent {
		return body
	}
	return id + "(" + body + ")"
}

func (p *PrettyPrinter) VisitFloat(ident *string, f float64) string {
	id, hasIdent := p.identOf(ident)
	body := formatFloat(f)
	if !hasIdent {
		return body
	}
	return id + "(" + body + ")"
}

func (p *PrettyPrinter) VisitBoolean(ident *string, b bool) string {
	id, hasIdent := p.identOf(ident)
	body := strconv.FormatBool(b)
	if !hasIdent {
		return body
	}
	return id + "(" + body + ")"
}

func (p *PrettyPrinter) VisitNull(ident *string) string {
	id, hasIdent := p.identOf(ident)
	if !hasIdent {
		return "null"
	}
	return id + "(null)"
}

var _ duper.Visitor[string] = (*PrettyPrinter)(nil)
