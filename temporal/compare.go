package temporal

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Compare orders two carrier strings of the same variant, per §4.I: Instant
// and ZonedDateTime compare by instant, PlainDate/PlainDateTime/
// PlainYearMonth/PlainTime compare by ISO ordering, Duration compares by
// total elapsed time. ok is false if either string fails to parse under
// v's grammar, or if v has no ordering (PlainMonthDay, Unspecified).
func Compare(v Variant, a, b string) (cmp int, ok bool) {
	if !HasOrdering(v) {
		return 0, false
	}
	switch v {
	case Instant, ZonedDateTime:
		ta, ok1 := parseInstantLike(a)
		tb, ok2 := parseInstantLike(b)
		if !ok1 || !ok2 {
			return 0, false
		}
		return timeCmp(ta, tb), true
	case PlainDate, PlainDateTime, PlainYearMonth:
		ta, ok1 := parseISOLike(v, a)
		tb, ok2 := parseISOLike(v, b)
		if !ok1 || !ok2 {
			return 0, false
		}
		return timeCmp(ta, tb), true
	case PlainTime:
		da, ok1 := parseClock(a)
		db, ok2 := parseClock(b)
		if !ok1 || !ok2 {
			return 0, false
		}
		switch {
		case da < db:
			return -1, true
		case da > db:
			return 1, true
		default:
			return 0, true
		}
	case Duration:
		da, ok1 := parseDuration(a)
		db, ok2 := parseDuration(b)
		if !ok1 || !ok2 {
			return 0, false
		}
		switch {
		case da < db:
			return -1, true
		case da > db:
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}

func timeCmp(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	default:
		return 0
	}
}

var annotation = regexp.MustCompile(`\[[^\]]*\]`)

func stripAnnotations(s string) string {
	return annotation.ReplaceAllString(s, "")
}

func parseInstantLike(s string) (time.Time, bool) {
	s = stripAnnotations(s)
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseISOLike(v Variant, s string) (time.Time, bool) {
	s = stripAnnotations(s)
	var layouts []string
	switch v {
	case PlainDate:
		layouts = []string{"2006-01-02"}
	case PlainDateTime:
		layouts = []string{"2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", "2006-01-02T15:04"}
	case PlainYearMonth:
		layouts = []string{"2006-01"}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseClock(s string) (time.Duration, bool) {
	for _, layout := range []string{"15:04:05.999999999", "15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second +
				time.Duration(t.Nanosecond()), true
		}
	}
	return 0, false
}

var durationParts = regexp.MustCompile(`^(-)?P(?:(\d+)Y)?(?:(\d+)M)?(?:(\d+)W)?(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// parseDuration approximates an ISO-8601 duration as total seconds, using
// the common 365-day year / 30-day month convention. temporal_rs's actual
// balanced-duration comparison is componentwise; this module has no
// equivalent library to ground that on (§3, Domain stack), so ordering
// here is a reasonable approximation rather than calendar-exact.
func parseDuration(s string) (float64, bool) {
	m := durationParts.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	sign := 1.0
	if m[1] == "-" {
		sign = -1.0
	}
	years := atoiOr0(m[2])
	months := atoiOr0(m[3])
	weeks := atoiOr0(m[4])
	days := atoiOr0(m[5])
	hours := atoiOr0(m[6])
	minutes := atoiOr0(m[7])
	seconds := atofOr0(m[8])

	total := float64(years)*365*24*3600 +
		float64(months)*30*24*3600 +
		float64(weeks)*7*24*3600 +
		float64(days)*24*3600 +
		float64(hours)*3600 +
		float64(minutes)*60 +
		seconds
	return sign * total, true
}

func atoiOr0(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

func atofOr0(s string) float64 {
	if s == "" {
		return 0
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// Equal reports whether a and b, both of variant v, denote the same value.
func Equal(v Variant, a, b string) (bool, bool) {
	if v == Duration || HasOrdering(v) {
		if c, ok := Compare(v, a, b); ok {
			return c == 0, true
		}
	}
	switch v {
	case PlainMonthDay:
		na, oka := normalizeMonthDay(a)
		nb, okb := normalizeMonthDay(b)
		if !oka || !okb {
			return false, false
		}
		return na == nb, true
	}
	return false, false
}

func normalizeMonthDay(s string) (string, bool) {
	s = stripAnnotations(s)
	s = strings.TrimPrefix(s, "--")
	if !Validate(PlainMonthDay, s) && !Validate(PlainMonthDay, "--"+s) {
		return "", false
	}
	return s, true
}
