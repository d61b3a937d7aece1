package wrap

import "unicode/utf8"

// SpaceClassifier reports whether a rune separates words. The classifier is
// supplied by the owner so word breaking can follow locale conventions.
type SpaceClassifier func(r rune) bool

// wordEnd returns the offset after the word at offset. A word is a maximal
// run of non-space characters together with its trailing spaces. Both
// offsets are relative to lineStart; the result clamps at the line end
// rather than failing.
func wordEnd(line string, lineStart, offset int, isSpace SpaceClassifier) int {
	n := len(line)
	off := lineStart + offset
	if off >= n {
		return n - lineStart
	}
	// step past the current character, then over spaces under the cursor
	off += runeLenAt(line, off)
	for off < n {
		r, size := utf8.DecodeRuneInString(line[off:])
		if !isSpace(r) {
			break
		}
		off += size
	}
	for off < n {
		r, size := utf8.DecodeRuneInString(line[off:])
		if isSpace(r) {
			break
		}
		off += size
	}
	for off < n {
		r, size := utf8.DecodeRuneInString(line[off:])
		if !isSpace(r) {
			break
		}
		off += size
	}
	return off - lineStart
}

// wordStart returns the start offset of the word at offset, retreating
// over trailing spaces and then over the preceding non-space run. Both
// offsets are relative to lineStart; the result clamps at lineStart.
func wordStart(line string, lineStart, offset int, isSpace SpaceClassifier) int {
	off := lineStart + offset
	if off > lineStart {
		// step back over the previous character, then over spaces
		_, off = prevRune(line, off)
		for off > lineStart {
			r, _ := utf8.DecodeRuneInString(line[off:])
			if !isSpace(r) {
				break
			}
			_, off = prevRune(line, off)
		}
	}
	for off > lineStart {
		r, prev := prevRune(line, off)
		if isSpace(r) {
			break
		}
		off = prev
	}
	return off - lineStart
}

// runeLenAt returns the byte length of the rune at off, at least 1 so that
// scans over malformed input still advance.
func runeLenAt(line string, off int) int {
	_, size := utf8.DecodeRuneInString(line[off:])
	if size < 1 {
		return 1
	}
	return size
}

// prevRune returns the rune ending at off and the offset of its start.
func prevRune(line string, off int) (rune, int) {
	r, size := utf8.DecodeLastRuneInString(line[:off])
	if size < 1 {
		return r, off - 1
	}
	return r, off - size
}
