package doctree

import "unicode/utf16"

// UTF16Len counts s in UTF-16 code units, the unit DOM text offsets use.
func UTF16Len(s string) int {
	n := 0
	for _, r := range s {
		n += runeUnits(r)
	}
	return n
}

// SliceUTF16 returns s between UTF-16 offsets from and to. Offsets are clamped to
// the string, and an offset inside a surrogate pair moves to the end of that pair.
func SliceUTF16(s string, from, to int) string {
	if from < 0 {
		from = 0
	}
	if to <= from {
		return ""
	}
	start, end := -1, len(s)
	pos := 0
	for i, r := range s {
		if start < 0 && pos >= from {
			start = i
		}
		if pos >= to {
			end = i
			break
		}
		pos += runeUnits(r)
	}
	if start < 0 {
		return ""
	}
	return s[start:end]
}

func runeUnits(r rune) int {
	if n := utf16.RuneLen(r); n > 0 {
		return n
	}
	return 1
}
