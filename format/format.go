// Package format implements the canonical serializer and PrettyPrinter
// (§4.E), both built on the duper.Visitor[string] protocol: a visitor
// that returns a per-node string and lets the caller drive recursion
// through Accept, rather than a bespoke switch per printer.
//
// The PrettyPrinter's bracketing, indentation, and 60-character
// wrap-threshold rules follow §4.E directly; the canonical one-line
// serializer is the same rendering collapsed to a single line, with its
// own minified/non-minified comma-and-colon spacing rule.
package format

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"

	duper "github.com/duperfmt/duper"
	"github.com/duperfmt/duper/escape"
	"github.com/duperfmt/duper/temporal"
)

// Canonical renders v as the one-line canonical form (§4.E): comma then
// single space between elements, single space after a colon. Pass
// minified=true to omit both of those optional spaces.
func Canonical(v duper.Value, minified bool) string {
	c := &canonicalPrinter{minified: minified}
	return duper.Accept[string](c, v)
}

type canonicalPrinter struct {
	minified bool
}

func (c *canonicalPrinter) sep() string {
	if c.minified {
		return ","
	}
	return ", "
}

func (c *canonicalPrinter) colon() string {
	if c.minified {
		return ":"
	}
	return ": "
}

func (c *canonicalPrinter) wrap(ident *string, body string) string {
	if ident == nil {
		return body
	}
	return *ident + "(" + body + ")"
}

func (c *canonicalPrinter) VisitObject(ident *string, entries []duper.Entry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = formatKey(e.Key) + c.colon() + duper.Accept[string](c, e.Value)
	}
	return c.wrap(ident, "{"+strings.Join(parts, c.sep())+"}")
}

func (c *canonicalPrinter) VisitArray(ident *string, elems []duper.Value) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = duper.Accept[string](c, e)
	}
	return c.wrap(ident, "["+strings.Join(parts, c.sep())+"]")
}

func (c *canonicalPrinter) VisitTuple(ident *string, elems []duper.Value) string {
	switch len(elems) {
	case 0:
		return c.wrap(ident, "(,)")
	case 1:
		return c.wrap(ident, "("+duper.Accept[string](c, elems[0])+",)")
	default:
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = duper.Accept[string](c, e)
		}
		return c.wrap(ident, "("+strings.Join(parts, c.sep())+")")
	}
}

func (c *canonicalPrinter) VisitString(ident *string, text string) string {
	return c.wrap(ident, formatString(text))
}

func (c *canonicalPrinter) VisitBytes(ident *string, data []byte) string {
	return c.wrap(ident, formatBytes(data))
}

func (c *canonicalPrinter) VisitTemporal(ident *string, variant temporal.Variant, carrier string) string {
	body := "'" + carrier + "'"
	if ident != nil {
		return *ident + body
	}
	if variant == temporal.Unspecified {
		return body
	}
	return variant.String() + body
}

func (c *canonicalPrinter) VisitInteger(ident *string, n int64) string {
	return c.wrap(ident, strconv.FormatInt(n, 10))
}

func (c *canonicalPrinter) VisitFloat(ident *string, f float64) string {
	return c.wrap(ident, formatFloat(f))
}

func (c *canonicalPrinter) VisitBoolean(ident *string, b bool) string {
	return c.wrap(ident, strconv.FormatBool(b))
}

func (c *canonicalPrinter) VisitNull(ident *string) string {
	return c.wrap(ident, "null")
}

var _ duper.Visitor[string] = (*canonicalPrinter)(nil)

// formatKey renders an object key (§3.3): a plain key when it satisfies
// duper.IsPlainKey, otherwise a quoted string.
func formatKey(key string) string {
	if duper.IsPlainKey(key) {
		return key
	}
	return formatString(key)
}

// formatString picks the quoted form; Duper always prefers a quoted
// string over a raw string for output (§4.E: "Strings prefer quoted
// form"), reserving raw strings for hand-written source.
func formatString(s string) string {
	return `"` + escape.EncodeString(s) + `"`
}

// formatBytes picks whichever of the Base64 or escaped-quoted encodings
// is shorter (§4.E); ties favor the escaped form, since it stays closer
// to source the author may have hand-written.
func formatBytes(data []byte) string {
	b64 := `b64"` + base64.StdEncoding.EncodeToString(data) + `"`
	escaped := `b"` + escape.EncodeBytes(data) + `"`
	if len(b64) < len(escaped) {
		return b64
	}
	return escaped
}

// formatFloat renders f per §4.C.1's float grammar: "nan", "inf", "-inf"
// for the non-finite cases, and Go's shortest round-trip decimal
// otherwise, always including a decimal point or an exponent so the
// literal re-lexes as a float rather than an integer.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

