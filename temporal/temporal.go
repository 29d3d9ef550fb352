// Package temporal implements the ISO-8601/IXDTF acceptors for the eight
// Duper temporal sub-variants plus the Unspecified union acceptor (§4.B).
// Validation is regular-language: each variant is a regexp over the
// carrier text. The standard library's time and regexp packages are used
// throughout, since no ISO-8601 parsing library appears anywhere in the
// retrieved example corpus to ground a third-party choice on.
package temporal

import (
	"regexp"
)

// Variant names a temporal sub-variant, selected by the identifier that
// precedes the quoted carrier text (or Unspecified, when none is given).
type Variant int

const (
	Unspecified Variant = iota
	Instant
	ZonedDateTime
	PlainDate
	PlainTime
	PlainDateTime
	PlainYearMonth
	PlainMonthDay
	Duration
)

func (v Variant) String() string {
	switch v {
	case Instant:
		return "Instant"
	case ZonedDateTime:
		return "ZonedDateTime"
	case PlainDate:
		return "PlainDate"
	case PlainTime:
		return "PlainTime"
	case PlainDateTime:
		return "PlainDateTime"
	case PlainYearMonth:
		return "PlainYearMonth"
	case PlainMonthDay:
		return "PlainMonthDay"
	case Duration:
		return "Duration"
	default:
		return "Unspecified"
	}
}

// VariantByIdentifier maps the leading identifier of a temporal literal
// (e.g. "Instant" in Instant'...') to its Variant. ok is false for any
// identifier that doesn't name one of the eight sub-variants (the literal
// is then not a temporal at all).
func VariantByIdentifier(id string) (Variant, bool) {
	switch id {
	case "Instant":
		return Instant, true
	case "ZonedDateTime":
		return ZonedDateTime, true
	case "PlainDate":
		return PlainDate, true
	case "PlainTime":
		return PlainTime, true
	case "PlainDateTime":
		return PlainDateTime, true
	case "PlainYearMonth":
		return PlainYearMonth, true
	case "PlainMonthDay":
		return PlainMonthDay, true
	case "Duration":
		return Duration, true
	default:
		return Unspecified, false
	}
}

const (
	reDate      = `\d{4}-\d{2}-\d{2}`
	reTime      = `\d{2}:\d{2}(:\d{2}(\.\d+)?)?`
	reOffset    = `(Z|[+-]\d{2}:\d{2}(:\d{2})?)`
	reTZAnnot   = `(\[[A-Za-z0-9_./+-]+\])?`
	reCalAnnot  = `(\[u-ca=[A-Za-z0-9]+\])?`
	reYearMonth = `\d{4}-\d{2}`
	reMonthDay  = `(--)?\d{2}-\d{2}`
	reDuration  = `-?P(\d+Y)?(\d+M)?(\d+W)?(\d+D)?(T(\d+H)?(\d+M)?(\d+(\.\d+)?S)?)?`
)

var patterns = map[Variant]*regexp.Regexp{
	Instant:        regexp.MustCompile(`^` + reDate + `T` + reTime + reOffset + `$`),
	ZonedDateTime:  regexp.MustCompile(`^` + reDate + `T` + reTime + reOffset + reTZAnnot + reCalAnnot + `$`),
	PlainDate:      regexp.MustCompile(`^` + reDate + reCalAnnot + `$`),
	PlainTime:      regexp.MustCompile(`^` + reTime + `$`),
	PlainDateTime:  regexp.MustCompile(`^` + reDate + `T` + reTime + reCalAnnot + `$`),
	PlainYearMonth: regexp.MustCompile(`^` + reYearMonth + reCalAnnot + `$`),
	PlainMonthDay:  regexp.MustCompile(`^` + reMonthDay + reCalAnnot + `$`),
	Duration:       regexp.MustCompile(`^` + reDuration + `$`),
}

// Validate reports whether text satisfies v's grammar. Unspecified accepts
// the union of every other variant's grammar, per §4.B.
func Validate(v Variant, text string) bool {
	if v == Unspecified {
		for _, re := range patterns {
			if re.MatchString(text) {
				return true
			}
		}
		// A bare duration (starting with P or -P) never matches the date/
		// time patterns by coincidence; this loop covers it via
		// patterns[Duration].
		return false
	}
	re, ok := patterns[v]
	if !ok {
		return false
	}
	return re.MatchString(text)
}

// HasOrdering reports whether v supports the ordered comparisons (Lt, Le,
// Gt, Ge) used by the filter algebra (§4.I). PlainMonthDay has no natural
// total order (it deliberately omits a year) and fails type-checking in a
// cmp context.
func HasOrdering(v Variant) bool {
	return v != PlainMonthDay && v != Unspecified
}
