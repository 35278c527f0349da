package tpeg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainOptions() *FormatOptions {
	o := DefaultFormatOptions()
	o.Colorize = false
	return &o
}

func TestFormatParseError(t *testing.T) {
	input := "let x = 1\nlet y = ?\nlet z = 3"
	perr := &ParseError{
		Message:    "expected a digit",
		Pos:        Position{Offset: 18, Line: 2, Column: 8},
		Expected:   []string{"0-9"},
		Found:      "?",
		ParserName: "number",
		Context:    []string{"in oneOrMore"},
	}

	out, err := FormatParseError(perr, input, plainOptions())
	require.NoError(t, err)

	// ordering: header, breadcrumbs, parser name, expected/found, message
	idx := func(s string) int { return strings.Index(out, s) }
	assert.Contains(t, out, "Parse error at line 2, column 8")
	assert.True(t, idx("Parse error") < idx("in oneOrMore"))
	assert.True(t, idx("in oneOrMore") < idx("parser: number"))
	assert.True(t, idx("parser: number") < idx("expected: 0-9"))
	assert.True(t, idx("expected: 0-9") < idx("found: ?"))
	assert.True(t, idx("found: ?") < idx("message: expected a digit"))

	// source block with line numbers, marked error line, caret
	assert.Contains(t, out, "  1 | let x = 1")
	assert.Contains(t, out, "> 2 | let y = ?")
	assert.Contains(t, out, "  3 | let z = 3")
	caretLine := "    | " + strings.Repeat(" ", 8) + "^"
	assert.Contains(t, out, caretLine)
}

func TestFormatParseErrorWideCaret(t *testing.T) {
	// double-width characters before the column shift the caret by two
	input := "ああ?"
	perr := &ParseError{
		Message: "unexpected character",
		Pos:     Position{Offset: 6, Line: 1, Column: 2},
	}
	out, err := FormatParseError(perr, input, plainOptions())
	require.NoError(t, err)
	assert.Contains(t, out, strings.Repeat(" ", 4)+"^")
}

func TestFormatParseErrorClamping(t *testing.T) {
	o := plainOptions()
	o.ContextLines = 99   // clamped to 10
	o.MaxLineLength = 10  // clamped to 40
	perr := &ParseError{Message: "boom", Pos: Position{Offset: 0, Line: 1, Column: 0}}

	out, err := FormatParseError(perr, strings.Repeat("x", 200), o)
	require.NoError(t, err)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len([]rune(line)), 50)
	}
	assert.Contains(t, out, "…")
}

func TestFormatParseErrorLocale(t *testing.T) {
	perr := &ParseError{
		Message:  "bad",
		Pos:      Position{Offset: 0, Line: 1, Column: 0},
		Expected: []string{"0-9"},
	}

	o := plainOptions()
	o.Locale = "ja"
	out, err := FormatParseError(perr, "x", o)
	require.NoError(t, err)
	assert.Contains(t, out, "パースエラー")
	assert.Contains(t, out, "期待された値")

	// unknown locale falls back to en with a warning
	o = plainOptions()
	o.Locale = "fr"
	out, err = FormatParseError(perr, "x", o)
	require.NoError(t, err)
	assert.Contains(t, out, `unsupported locale "fr"`)
	assert.Contains(t, out, "Parse error at line 1")
}

func TestFormatParseErrorToggles(t *testing.T) {
	perr := &ParseError{Message: "bad", Pos: Position{Offset: 0, Line: 1, Column: 0}}

	o := plainOptions()
	o.ShowPosition = false
	out, err := FormatParseError(perr, "abc", o)
	require.NoError(t, err)
	assert.NotContains(t, out, "| abc")

	o = plainOptions()
	o.HighlightErrors = false
	out, err = FormatParseError(perr, "abc", o)
	require.NoError(t, err)
	assert.NotContains(t, out, "^")

	o = plainOptions()
	o.ShowLineNumbers = false
	out, err = FormatParseError(perr, "abc", o)
	require.NoError(t, err)
	assert.NotContains(t, out, "1 |")
}

func TestFormatParseErrorColorize(t *testing.T) {
	perr := &ParseError{Message: "bad", Pos: Position{Offset: 0, Line: 1, Column: 0}}

	out, err := FormatParseError(perr, "abc", plainOptions())
	require.NoError(t, err)
	assert.NotContains(t, out, "\x1b[")

	o := DefaultFormatOptions()
	o.Colorize = true
	out, err = FormatParseError(perr, "abc", &o)
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[")
}

func TestFormatParseErrorMalformed(t *testing.T) {
	_, err := FormatParseError(nil, "x", nil)
	assert.Error(t, err)

	_, err = FormatParseError(&ParseError{Pos: Position{Offset: -1, Line: 1}}, "x", nil)
	assert.Error(t, err)

	_, err = FormatParseError(&ParseError{Pos: Position{Line: 0}}, "x", nil)
	assert.Error(t, err)
}

func TestFormatParseErrorMissingSource(t *testing.T) {
	// error line beyond the input: no source block, no crash
	perr := &ParseError{Message: "bad", Pos: Position{Offset: 50, Line: 9, Column: 0}}
	out, err := FormatParseError(perr, "one line", plainOptions())
	require.NoError(t, err)
	assert.Contains(t, out, "Parse error at line 9")
	assert.NotContains(t, out, "|")
}

func TestFormatParseResult(t *testing.T) {
	ok := Parse(Literal("a"), "a")
	out, err := FormatParseResult(ok, "a", plainOptions())
	require.NoError(t, err)
	assert.Equal(t, "", out)

	bad := Parse(Literal("a"), "b")
	out, err = FormatParseResult(bad, "b", plainOptions())
	require.NoError(t, err)
	assert.Contains(t, out, "Parse error")
}

func TestReportParseError(t *testing.T) {
	var buf bytes.Buffer

	ReportParseError(Parse(Literal("a"), "a"), "a", plainOptions(), &buf)
	assert.Zero(t, buf.Len())

	ReportParseError(Parse(Literal("a"), "b"), "b", plainOptions(), &buf)
	assert.Contains(t, buf.String(), "Parse error")

	// formatting failure falls back to raw data instead of panicking
	buf.Reset()
	r := Fail[string](&ParseError{Message: "broken", Pos: Position{Line: 0}})
	ReportParseError(r, "b", plainOptions(), &buf)
	assert.Contains(t, buf.String(), "unformattable")
	assert.Contains(t, buf.String(), "broken")
}
