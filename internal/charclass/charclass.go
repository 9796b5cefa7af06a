// Package charclass implements the single-character predicates the scanner
// uses to classify bytes without allocating. Tables are sized for ASCII;
// anything from 0x7f up is treated as an identifier rune so that
// the scanner's regex-equivalent `[$\w\x7f-￿]` behavior holds without a
// second code path.
package charclass

var (
	isSpaceTab   [128]bool
	isDigitTable [128]bool
	isIdentStart [128]bool
	isIdentPart  [128]bool
	isQuoteDelim [128]bool
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isSpaceTab[i] = ch == ' ' || ch == '\t'
		isDigitTable[i] = ch >= '0' && ch <= '9'
		letter := (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
		isIdentStart[i] = letter || ch == '_' || ch == '$' || ch == 0x7f
		isIdentPart[i] = isIdentStart[i] || isDigitTable[i]
		isQuoteDelim[i] = ch == '"' || ch == '\''
	}
}

// IsSpaceOrTab reports whether r is horizontal whitespace (never newline).
func IsSpaceOrTab(r rune) bool {
	if r < 128 {
		return isSpaceTab[r]
	}
	return false
}

// IsDigit reports whether r is an ASCII decimal digit.
func IsDigit(r rune) bool {
	if r < 128 {
		return isDigitTable[r]
	}
	return false
}

// IsIdentStart reports whether r may begin an identifier: `^(?!\d)[$\w\x7f-￿]`.
func IsIdentStart(r rune) bool {
	if r < 128 {
		return isIdentStart[r]
	}
	return r >= 0x7f
}

// IsIdentPart reports whether r may continue an identifier once started.
func IsIdentPart(r rune) bool {
	if r < 128 {
		return isIdentPart[r]
	}
	return r >= 0x7f
}

// IsQuote reports whether r opens a string literal.
func IsQuote(r rune) bool {
	if r < 128 {
		return isQuoteDelim[r]
	}
	return false
}

// IsNewline reports whether r is the scanner's single recognized newline rune.
func IsNewline(r rune) bool {
	return r == '\n'
}
