package splitter

import "unicode/utf8"

// A boundaryFinder proposes a cut offset in (0, limit] for an oversized
// paragraph, or -1 when it finds no acceptable boundary. Finders are tried
// in order, most desirable first.
type boundaryFinder func(s string, limit int) int

var boundaryFinders = []boundaryFinder{
	sentenceBoundary,
	whitespaceBoundary,
	hardBoundary,
}

// findCut returns the offset at which an oversized paragraph should be cut,
// scanning backward from limit. hardBoundary always succeeds, so the result
// is always in (0, limit].
func findCut(s string, limit int) int {
	for _, find := range boundaryFinders {
		if cut := find(s, limit); cut > 0 {
			return cut
		}
	}
	return limit
}

// sentenceBoundary finds the last sentence-ending punctuation followed by
// whitespace at or before limit. The cut lands just after the punctuation,
// leaving the whitespace at the head of the remainder.
func sentenceBoundary(s string, limit int) int {
	for i := limit; i > 0; i-- {
		if i < len(s) && isSentenceEnd(s[i-1]) && isSpace(s[i]) {
			return i
		}
	}
	return -1
}

// whitespaceBoundary finds the last whitespace at or before limit, so the
// cut never lands mid-word.
func whitespaceBoundary(s string, limit int) int {
	for i := limit; i > 0; i-- {
		if isSpace(s[i-1]) {
			return i
		}
	}
	return -1
}

// hardBoundary cuts exactly at limit, backing up only as far as needed to
// avoid splitting a multi-byte rune.
func hardBoundary(s string, limit int) int {
	cut := limit
	for cut > 1 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return cut
}

func isSentenceEnd(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
