// Package textmatch implements the keyword matching shared by intent routing
// and evidence scoring. Callers pass lowercase text and lowercase keywords.
package textmatch

import "strings"

// Contains reports whether text contains kw. Keywords made of ASCII must sit
// on token boundaries, so "ma" does not fire inside "market"; other keywords
// (CJK) match as plain substrings.
func Contains(text, kw string) bool {
	return Index(text, kw) >= 0
}

// Index returns the byte offset of the first match of kw under the rules of
// Contains, or -1.
func Index(text, kw string) int {
	if kw == "" {
		return -1
	}
	if !isASCII(kw) {
		return strings.Index(text, kw)
	}
	for from := 0; ; {
		idx := strings.Index(text[from:], kw)
		if idx < 0 {
			return -1
		}
		start := from + idx
		if boundaryBefore(text, start) && boundaryAfter(text, start+len(kw)) {
			return start
		}
		from = start + 1
	}
}

// Count returns how many distinct keywords occur in text.
func Count(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if Contains(text, kw) {
			n++
		}
	}
	return n
}

func Any(text string, keywords []string) bool {
	for _, kw := range keywords {
		if Contains(text, kw) {
			return true
		}
	}
	return false
}

// Normalize lowercases text for matching.
func Normalize(text string) string {
	return strings.ToLower(text)
}

func boundaryBefore(s string, i int) bool {
	return i == 0 || !isWordByte(s[i-1])
}

func boundaryAfter(s string, i int) bool {
	return i >= len(s) || !isWordByte(s[i])
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9'
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
