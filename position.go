package tpeg

import "unicode/utf8"

// Position is a location in the input. Offset is a byte offset, Line is
// 1-based, Column is a 0-based rune count within the line. Positions are
// value types; stepping always computes a new one.
type Position struct {
	Offset int
	Line   int
	Column int
}

// StartPosition returns the position of the first character of any input.
func StartPosition() Position {
	return Position{Offset: 0, Line: 1, Column: 0}
}

// StepPosition advances pos over a single rune. A newline resets the
// column and bumps the line; everything else is one column wide, however
// many bytes it takes.
func StepPosition(r rune, pos Position) Position {
	w := utf8.RuneLen(r)
	if w < 0 {
		w = 1
	}
	if r == '\n' {
		return Position{Offset: pos.Offset + w, Line: pos.Line + 1, Column: 0}
	}
	return Position{Offset: pos.Offset + w, Line: pos.Line, Column: pos.Column + 1}
}

// AdvancePos folds StepPosition over every rune of s.
func AdvancePos(s string, pos Position) Position {
	for _, r := range s {
		pos = StepPosition(r, pos)
	}
	return pos
}

// decodeRuneAt reads the rune starting at the given byte offset. It is the
// one place the engine splits input into code points; literal matching,
// anyChar and position stepping all go through it so that multi-byte runes
// are never torn apart. ok is false at or past end of input.
func decodeRuneAt(input string, offset int) (r rune, width int, ok bool) {
	if offset < 0 || offset >= len(input) {
		return 0, 0, false
	}
	r, width = utf8.DecodeRuneInString(input[offset:])
	return r, width, true
}
