package tpeg

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

// FormatOptions controls error rendering. Zero values are not useful
// defaults; start from DefaultFormatOptions and adjust. Out-of-range
// numeric fields are clamped, an unknown Locale falls back to "en" with a
// warning line in the output.
type FormatOptions struct {
	ContextLines    int    // source lines before/after the error line, 0-10
	HighlightErrors bool   // caret line under the error column
	ShowPosition    bool   // include the source context block
	Colorize        bool   // ANSI colors in the output
	Locale          string // "en" or "ja"
	MaxLineLength   int    // truncate longer source lines, 40-500
	ShowLineNumbers bool
}

// DefaultFormatOptions returns the documented defaults.
func DefaultFormatOptions() FormatOptions {
	return FormatOptions{
		ContextLines:    2,
		HighlightErrors: true,
		ShowPosition:    true,
		Colorize:        true,
		Locale:          "en",
		MaxLineLength:   120,
		ShowLineNumbers: true,
	}
}

type localeStrings struct {
	header     string // line, column
	context    string
	parserName string
	expected   string
	found      string
	message    string
	badLocale  string
}

var locales = map[string]localeStrings{
	"en": {
		header:     "Parse error at line %d, column %d",
		context:    "in %s",
		parserName: "parser: %s",
		expected:   "expected: %s",
		found:      "found: %s",
		message:    "message: %s",
		badLocale:  "warning: unsupported locale %q, falling back to \"en\"",
	},
	"ja": {
		header:     "パースエラー: 行 %d, 列 %d",
		context:    "%s 内",
		parserName: "パーサー: %s",
		expected:   "期待された値: %s",
		found:      "実際の値: %s",
		message:    "メッセージ: %s",
		badLocale:  "warning: unsupported locale %q, falling back to \"en\"",
	},
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FormatParseError renders err against its input as a human-readable
// diagnostic. It is purely advisory: it never changes parse outcomes. A
// malformed error (nil, or with impossible coordinates) is rejected with
// an error rather than rendered wrongly.
func FormatParseError(perr *ParseError, input string, opts *FormatOptions) (string, error) {
	if perr == nil {
		return "", errors.New("tpeg: cannot format nil ParseError")
	}
	if perr.Pos.Offset < 0 || perr.Pos.Line < 1 || perr.Pos.Column < 0 {
		return "", fmt.Errorf("tpeg: malformed ParseError position %+v", perr.Pos)
	}

	o := DefaultFormatOptions()
	if opts != nil {
		o = *opts
	}
	o.ContextLines = clampInt(o.ContextLines, 0, 10)
	o.MaxLineLength = clampInt(o.MaxLineLength, 40, 500)

	var warnings []string
	loc, ok := locales[o.Locale]
	if !ok {
		loc = locales["en"]
		warnings = append(warnings, fmt.Sprintf(loc.badLocale, o.Locale))
		o.Locale = "en"
	}

	style := newStyler(o.Colorize)

	var b strings.Builder
	for _, w := range warnings {
		b.WriteString(style.warn(w))
		b.WriteByte('\n')
	}
	b.WriteString(style.header(fmt.Sprintf(loc.header, perr.Pos.Line, perr.Pos.Column)))
	b.WriteByte('\n')
	for _, frame := range perr.Context {
		fmt.Fprintf(&b, "  %s\n", fmt.Sprintf(loc.context, frame))
	}
	if perr.ParserName != "" {
		fmt.Fprintf(&b, "  %s\n", fmt.Sprintf(loc.parserName, perr.ParserName))
	}
	if len(perr.Expected) > 0 {
		fmt.Fprintf(&b, "  %s\n", fmt.Sprintf(loc.expected, style.expected(strings.Join(perr.Expected, ", "))))
	}
	if perr.Found != "" {
		fmt.Fprintf(&b, "  %s\n", fmt.Sprintf(loc.found, style.found(perr.Found)))
	}
	if perr.Message != "" {
		fmt.Fprintf(&b, "  %s\n", fmt.Sprintf(loc.message, perr.Message))
	}

	if o.ShowPosition {
		writeSourceBlock(&b, perr, input, o, style)
	}
	return b.String(), nil
}

// writeSourceBlock appends the framed source excerpt with the error line
// emphasized and an optional caret. Missing source context (error line
// outside the input) degrades to no block at all.
func writeSourceBlock(b *strings.Builder, perr *ParseError, input string, o FormatOptions, style styler) {
	if input == "" {
		return
	}
	lines := strings.Split(input, "\n")
	errLine := perr.Pos.Line
	if errLine > len(lines) {
		return
	}
	first := errLine - o.ContextLines
	if first < 1 {
		first = 1
	}
	last := errLine + o.ContextLines
	if last > len(lines) {
		last = len(lines)
	}

	gutterWidth := len(fmt.Sprintf("%d", last))
	b.WriteByte('\n')
	for n := first; n <= last; n++ {
		text := runewidth.Truncate(lines[n-1], o.MaxLineLength, "…")
		marker := "  "
		if n == errLine {
			marker = "> "
			text = style.errLine(text)
		}
		if o.ShowLineNumbers {
			fmt.Fprintf(b, "%s%*d | %s\n", marker, gutterWidth, n, text)
		} else {
			fmt.Fprintf(b, "%s%s\n", marker, text)
		}
		if n == errLine && o.HighlightErrors {
			pad := caretPad(lines[n-1], perr.Pos.Column, o.MaxLineLength)
			if o.ShowLineNumbers {
				fmt.Fprintf(b, "  %s | %s%s\n", strings.Repeat(" ", gutterWidth), strings.Repeat(" ", pad), style.caret("^"))
			} else {
				fmt.Fprintf(b, "  %s%s\n", strings.Repeat(" ", pad), style.caret("^"))
			}
		}
	}
}

// caretPad computes the display width of the text left of the error
// column, so the caret lines up even under double-width characters.
func caretPad(line string, column, maxWidth int) int {
	runes := []rune(line)
	if column > len(runes) {
		column = len(runes)
	}
	pad := runewidth.StringWidth(string(runes[:column]))
	if pad >= maxWidth {
		pad = maxWidth - 1
	}
	if pad < 0 {
		pad = 0
	}
	return pad
}

// styler wraps termenv so color can be switched off completely.
type styler struct {
	profile termenv.Profile
}

func newStyler(colorize bool) styler {
	if colorize {
		return styler{profile: termenv.ANSI}
	}
	return styler{profile: termenv.Ascii}
}

func (s styler) paint(text string, color string, bold bool) string {
	st := s.profile.String(text).Foreground(s.profile.Color(color))
	if bold {
		st = st.Bold()
	}
	return st.String()
}

func (s styler) header(t string) string   { return s.paint(t, "9", true) }
func (s styler) expected(t string) string { return s.paint(t, "10", false) }
func (s styler) found(t string) string    { return s.paint(t, "11", false) }
func (s styler) errLine(t string) string  { return s.paint(t, "15", true) }
func (s styler) caret(t string) string    { return s.paint(t, "9", true) }
func (s styler) warn(t string) string     { return s.paint(t, "11", false) }

// FormatParseResult renders a failed result, or returns "" for success.
func FormatParseResult[T any](r Result[T], input string, opts *FormatOptions) (string, error) {
	if r.Success {
		return "", nil
	}
	return FormatParseError(r.Err, input, opts)
}

// ReportParseError writes a failed result's diagnostic to w (stderr when
// nil) and stays silent on success. It never fails: if formatting itself
// rejects the error, the raw error data is written instead.
func ReportParseError[T any](r Result[T], input string, opts *FormatOptions, w io.Writer) {
	if r.Success {
		return
	}
	if w == nil {
		w = os.Stderr
	}
	out, err := FormatParseResult(r, input, opts)
	if err != nil {
		fmt.Fprintf(w, "parse error (unformattable): %+v\n", r.Err)
		return
	}
	fmt.Fprint(w, out)
}
