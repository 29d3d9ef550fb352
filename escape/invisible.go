package escape

import "unicode"

// IsInvisible reports whether r belongs to one of the "invisible Unicode"
// classes from §4.A: general categories Cc/Cf/Cs/Mn/Me/Mc/Zl/Zp/Co/Cn, plus
// whitespace other than the plain space, plus a fixed list of zero-width
// and interlinear-annotation characters.
//
// Go's unicode package has no single table for Cn (unassigned) or a direct
// Co (private use) range list separate from unicode.Co, so both are
// consulted explicitly; Cs (surrogate) never appears in a decoded Go
// string (surrogates aren't valid runes) but is included for symmetry with
// the full category list above.
func IsInvisible(r rune) bool {
	switch {
	case unicode.Is(unicode.Cc, r),
		unicode.Is(unicode.Cf, r),
		unicode.Is(unicode.Mn, r),
		unicode.Is(unicode.Me, r),
		unicode.Is(unicode.Mc, r),
		unicode.Is(unicode.Zl, r),
		unicode.Is(unicode.Zp, r),
		unicode.Is(unicode.Co, r):
		return true
	case isSurrogate(r), isUnassigned(r):
		return true
	}
	switch r {
	case '\u200b', '\u200c', '\u200d', // zero-width space/non-joiner/joiner
		'\u2060', // word joiner
		'\ufeff': // BOM
		return true
	}
	if r >= 0xFFF9 && r <= 0xFFFB { // interlinear annotation chars
		return true
	}
	return unicode.IsSpace(r) && r != ' '
}

func isSurrogate(r rune) bool {
	return r >= 0xD800 && r <= 0xDFFF
}

// isUnassigned reports whether r is outside every defined Unicode
// category table Go ships (a crude Cn approximation): not a letter,
// number, punctuation, symbol, mark, space, or control character.
func isUnassigned(r rune) bool {
	if r > unicode.MaxRune {
		return true
	}
	return !unicode.IsGraphic(r) && !unicode.IsControl(r) && !unicode.IsSpace(r) &&
		!unicode.Is(unicode.Co, r)
}
