package tpeg

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const endOfInput = "end of input"

// AnyChar matches exactly one rune, surrogate-safe, and yields it as a
// string.
func AnyChar() Parser[string] {
	return func(input string, pos Position) Result[string] {
		r, w, ok := decodeRuneAt(input, pos.Offset)
		if !ok {
			return failf[string](pos, []string{"any character"}, endOfInput,
				"unexpected end of input")
		}
		c := input[pos.Offset : pos.Offset+w]
		return Succeed(c, pos, StepPosition(r, pos))
	}
}

// isSimple reports whether s can be matched by plain byte comparison:
// ASCII only, no newlines, so column arithmetic stays trivial.
func isSimple(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf || s[i] == '\n' {
			return false
		}
	}
	return true
}

// Literal matches s exactly. Simple strings take a byte-comparison fast
// path; anything with multi-byte runes or newlines walks code points.
// Both paths produce identical results wherever both apply.
func Literal(s string) Parser[string] {
	if isSimple(s) {
		return literalSimple(s)
	}
	return literalGeneral(s)
}

func literalSimple(s string) Parser[string] {
	return func(input string, pos Position) Result[string] {
		if pos.Offset+len(s) > len(input) {
			rem := len(input) - pos.Offset
			if rem < 0 {
				rem = 0
			}
			// could still mismatch before running out; check first
			if strings.HasPrefix(input[pos.Offset:], s[:rem]) {
				return failf[string](pos, []string{s}, endOfInput,
					"unexpected end of input while matching %q", s)
			}
			return literalMismatch(s, input, pos)
		}
		if input[pos.Offset:pos.Offset+len(s)] == s {
			next := Position{Offset: pos.Offset + len(s), Line: pos.Line, Column: pos.Column + len(s)}
			return Succeed(s, pos, next)
		}
		return literalMismatch(s, input, pos)
	}
}

func literalGeneral(s string) Parser[string] {
	return func(input string, pos Position) Result[string] {
		cur := pos
		for _, want := range s {
			got, _, ok := decodeRuneAt(input, cur.Offset)
			if !ok {
				return failf[string](pos, []string{s}, endOfInput,
					"unexpected end of input while matching %q", s)
			}
			if got != want {
				return failf[string](cur, []string{string(want)}, string(got),
					"expected %q but found %q", string(want), string(got))
			}
			cur = StepPosition(got, cur)
		}
		return Succeed(s, pos, cur)
	}
}

// literalMismatch walks s against the input rune by rune to locate and
// describe the first differing character. The fast path defers to it on
// rejection so both strategies report byte-identical errors.
func literalMismatch(s, input string, pos Position) Result[string] {
	cur := pos
	for _, want := range s {
		got, _, ok := decodeRuneAt(input, cur.Offset)
		if !ok {
			return failf[string](pos, []string{s}, endOfInput,
				"unexpected end of input while matching %q", s)
		}
		if got != want {
			return failf[string](cur, []string{string(want)}, string(got),
				"expected %q but found %q", string(want), string(got))
		}
		cur = StepPosition(got, cur)
	}
	// unreachable when called on a known mismatch
	return Succeed(s, pos, cur)
}

// CharRange matches one rune in [lo, hi].
func CharRange(lo, hi rune) Parser[string] {
	label := fmt.Sprintf("%c-%c", lo, hi)
	return func(input string, pos Position) Result[string] {
		r, w, ok := decodeRuneAt(input, pos.Offset)
		if !ok {
			return failf[string](pos, []string{label}, endOfInput,
				"unexpected end of input")
		}
		if r < lo || r > hi {
			return failf[string](pos, []string{label}, string(r),
				"expected character in range %s but found %q", label, string(r))
		}
		return Succeed(input[pos.Offset:pos.Offset+w], pos, StepPosition(r, pos))
	}
}

// OneOf matches any single rune of chars.
func OneOf(chars string) Parser[string] {
	return func(input string, pos Position) Result[string] {
		r, w, ok := decodeRuneAt(input, pos.Offset)
		if !ok {
			return failf[string](pos, []string{chars}, endOfInput,
				"unexpected end of input")
		}
		if !strings.ContainsRune(chars, r) {
			return failf[string](pos, []string{chars}, string(r),
				"expected one of %q but found %q", chars, string(r))
		}
		return Succeed(input[pos.Offset:pos.Offset+w], pos, StepPosition(r, pos))
	}
}

// EOF succeeds, zero-width, only at the end of input.
func EOF() Parser[any] {
	return func(input string, pos Position) Result[any] {
		if r, _, ok := decodeRuneAt(input, pos.Offset); ok {
			return failf[any](pos, []string{endOfInput}, string(r),
				"expected end of input but found %q", string(r))
		}
		return Succeed[any](nil, pos, pos)
	}
}
