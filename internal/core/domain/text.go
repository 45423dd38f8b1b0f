package domain

import (
	"strings"
	"unicode"
)

// IsRTL reports whether text contains Hebrew characters.
func IsRTL(text string) bool {
	for _, r := range text {
		if (r >= 0x0590 && r <= 0x05FF) || (r >= 0xFB1D && r <= 0xFB4F) {
			return true
		}
	}
	return false
}

// Direction returns "rtl" for right-to-left text and "ltr" otherwise.
func Direction(text string) string {
	if IsRTL(text) {
		return "rtl"
	}
	return "ltr"
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.FieldsFunc(text, unicode.IsSpace))
}
