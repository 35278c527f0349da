// Package csv is an RFC 4180 style CSV grammar built on the combinator
// engine: comma-separated fields, double-quoted fields with "" escapes,
// records separated by \n or \r\n.
package csv

import (
	"strings"

	tpeg "github.com/SuzumiyaAoba/tpeg-sub002"
)

// noneOf matches one rune not in chars, via negative lookahead.
func noneOf(chars string) tpeg.Parser[string] {
	return tpeg.Map(
		tpeg.Sequence(
			tpeg.ToAny(tpeg.NotPredicate(tpeg.OneOf(chars))),
			tpeg.ToAny(tpeg.AnyChar()),
		),
		func(v []any) string { return v[1].(string) },
	)
}

func join(parts []string) string { return strings.Join(parts, "") }

func field() tpeg.Parser[string] {
	bare := tpeg.Map(tpeg.ZeroOrMore(noneOf(",\"\r\n")), join)

	quotedChar := tpeg.Choice(
		tpeg.Map(tpeg.Literal(`""`), func(string) string { return `"` }),
		noneOf(`"`),
	)
	quoted := tpeg.Map(
		tpeg.Sequence(
			tpeg.ToAny(tpeg.Literal(`"`)),
			tpeg.ToAny(tpeg.ZeroOrMore(quotedChar)),
			tpeg.ToAny(tpeg.Literal(`"`)),
		),
		func(v []any) string { return join(v[1].([]string)) },
	)

	return tpeg.Named("field", tpeg.Choice(quoted, bare))
}

func record() tpeg.Parser[[]string] {
	f := field()
	rest := tpeg.Map(
		tpeg.Sequence(tpeg.ToAny(tpeg.Literal(",")), tpeg.ToAny(f)),
		func(v []any) string { return v[1].(string) },
	)
	return tpeg.Map(
		tpeg.Sequence(tpeg.ToAny(f), tpeg.ToAny(tpeg.ZeroOrMore(rest))),
		func(v []any) []string {
			return append([]string{v[0].(string)}, v[1].([]string)...)
		},
	)
}

// Document parses a whole CSV input into records of fields.
func Document() tpeg.Parser[[][]string] {
	newline := tpeg.Choice(tpeg.Literal("\r\n"), tpeg.Literal("\n"))
	rec := record()
	// a record can be empty, so a trailing newline would otherwise spawn
	// a phantom record; only continue when more input follows
	rest := tpeg.Map(
		tpeg.Sequence(
			tpeg.ToAny(newline),
			tpeg.ToAny(tpeg.NotPredicate(tpeg.EOF())),
			tpeg.ToAny(rec),
		),
		func(v []any) []string { return v[2].([]string) },
	)
	return tpeg.Map(
		tpeg.Sequence(
			tpeg.ToAny(rec),
			tpeg.ToAny(tpeg.ZeroOrMore(rest)),
			tpeg.ToAny(tpeg.Maybe(newline)),
		),
		func(v []any) [][]string {
			return append([][]string{v[0].([]string)}, v[1].([][]string)...)
		},
	)
}

// Parse reads input as CSV, requiring the whole string to match. A
// trailing newline does not produce a phantom empty record.
func Parse(input string) ([][]string, error) {
	p := tpeg.Map(
		tpeg.Sequence(tpeg.ToAny(Document()), tpeg.ToAny(tpeg.EOF())),
		func(v []any) [][]string { return v[0].([][]string) },
	)
	r := tpeg.Parse(p, input)
	if !r.Success {
		return nil, r.Err
	}
	return r.Val, nil
}
