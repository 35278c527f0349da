// Package json is a JSON grammar built on the combinator engine. Values
// decode to any: map[string]any, []any, float64, string, bool and nil,
// matching the shapes of encoding/json.
package json

import (
	"strconv"
	"strings"

	tpeg "github.com/SuzumiyaAoba/tpeg-sub002"
)

func ref[T any](p *tpeg.Parser[T]) tpeg.Parser[T] {
	return func(input string, pos tpeg.Position) tpeg.Result[T] {
		return (*p)(input, pos)
	}
}

func noneOf(chars string) tpeg.Parser[string] {
	return tpeg.Map(
		tpeg.Sequence(
			tpeg.ToAny(tpeg.NotPredicate(tpeg.OneOf(chars))),
			tpeg.ToAny(tpeg.AnyChar()),
		),
		func(v []any) string { return v[1].(string) },
	)
}

var spaces = tpeg.ZeroOrMore(tpeg.OneOf(" \t\r\n"))

// token wraps p to eat trailing whitespace.
func token[T any](p tpeg.Parser[T]) tpeg.Parser[T] {
	return func(input string, pos tpeg.Position) tpeg.Result[T] {
		r := p(input, pos)
		if !r.Success {
			return r
		}
		w := spaces(input, r.Next)
		return tpeg.Succeed(r.Val, r.Current, w.Next)
	}
}

func stringLit() tpeg.Parser[string] {
	hex := tpeg.Choice(
		tpeg.CharRange('0', '9'),
		tpeg.CharRange('a', 'f'),
		tpeg.CharRange('A', 'F'),
	)
	unicodeEscape := tpeg.Map(
		tpeg.Sequence(
			tpeg.ToAny(tpeg.Literal("u")),
			tpeg.ToAny(tpeg.Quantified(hex, 4, 4)),
		),
		func(v []any) string {
			code, _ := strconv.ParseUint(strings.Join(v[1].([]string), ""), 16, 32)
			return string(rune(code))
		},
	)
	simpleEscape := tpeg.Map(tpeg.OneOf(`"\/bfnrt`), func(c string) string {
		switch c {
		case "b":
			return "\b"
		case "f":
			return "\f"
		case "n":
			return "\n"
		case "r":
			return "\r"
		case "t":
			return "\t"
		}
		return c
	})
	escape := tpeg.Map(
		tpeg.Sequence(
			tpeg.ToAny(tpeg.Literal(`\`)),
			tpeg.ToAny(tpeg.Choice(unicodeEscape, simpleEscape)),
		),
		func(v []any) string { return v[1].(string) },
	)
	char := tpeg.Choice(escape, noneOf("\"\\"))
	return tpeg.Named("string", tpeg.Map(
		tpeg.Sequence(
			tpeg.ToAny(tpeg.Literal(`"`)),
			tpeg.ToAny(tpeg.ZeroOrMore(char)),
			tpeg.ToAny(tpeg.Literal(`"`)),
		),
		func(v []any) string { return strings.Join(v[1].([]string), "") },
	))
}

func number() tpeg.Parser[float64] {
	digits := tpeg.Map(tpeg.OneOrMore(tpeg.CharRange('0', '9')), func(ds []string) string {
		return strings.Join(ds, "")
	})
	frac := tpeg.Map(
		tpeg.Sequence(tpeg.ToAny(tpeg.Literal(".")), tpeg.ToAny(digits)),
		func(v []any) string { return "." + v[1].(string) },
	)
	exp := tpeg.Map(
		tpeg.Sequence(
			tpeg.ToAny(tpeg.OneOf("eE")),
			tpeg.ToAny(tpeg.Maybe(tpeg.OneOf("+-"))),
			tpeg.ToAny(digits),
		),
		func(v []any) string { return "e" + v[1].(string) + v[2].(string) },
	)
	return tpeg.Named("number", tpeg.Map(
		tpeg.Sequence(
			tpeg.ToAny(tpeg.Maybe(tpeg.Literal("-"))),
			tpeg.ToAny(digits),
			tpeg.ToAny(tpeg.Maybe(frac)),
			tpeg.ToAny(tpeg.Maybe(exp)),
		),
		func(v []any) float64 {
			text := v[0].(string) + v[1].(string) + v[2].(string) + v[3].(string)
			f, _ := strconv.ParseFloat(text, 64)
			return f
		},
	))
}

// Value builds the parser for one JSON value, surrounding whitespace
// included.
func Value() tpeg.Parser[any] {
	var value tpeg.Parser[any]

	str := stringLit()

	pair := tpeg.Map(
		tpeg.Sequence(
			tpeg.ToAny(token(str)),
			tpeg.ToAny(token(tpeg.Literal(":"))),
			tpeg.ToAny(ref(&value)),
		),
		func(v []any) [2]any { return [2]any{v[0].(string), v[2]} },
	)

	object := tpeg.Named("object", tpeg.Map(
		tpeg.Sequence(
			tpeg.ToAny(token(tpeg.Literal("{"))),
			tpeg.ToAny(sepBy(pair, token(tpeg.Literal(",")))),
			tpeg.ToAny(tpeg.Literal("}")),
		),
		func(v []any) any {
			m := map[string]any{}
			for _, p := range v[1].([][2]any) {
				m[p[0].(string)] = p[1]
			}
			return m
		},
	))

	array := tpeg.Named("array", tpeg.Map(
		tpeg.Sequence(
			tpeg.ToAny(token(tpeg.Literal("["))),
			tpeg.ToAny(sepBy(ref(&value), token(tpeg.Literal(",")))),
			tpeg.ToAny(tpeg.Literal("]")),
		),
		func(v []any) any {
			items := v[1].([]any)
			out := make([]any, len(items))
			copy(out, items)
			return out
		},
	))

	value = token(tpeg.Choice(
		object,
		array,
		tpeg.ToAny(str),
		tpeg.ToAny(number()),
		tpeg.Map(tpeg.Literal("true"), func(string) any { return true }),
		tpeg.Map(tpeg.Literal("false"), func(string) any { return false }),
		tpeg.Map(tpeg.Literal("null"), func(string) any { return nil }),
	))

	return tpeg.Map(
		tpeg.Sequence(tpeg.ToAny(spaces), tpeg.ToAny(value)),
		func(v []any) any { return v[1] },
	)
}

// sepBy parses zero or more p separated by sep. A separator without a
// following element is left unconsumed, so trailing commas fail at the
// closing delimiter.
func sepBy[T, S any](p tpeg.Parser[T], sep tpeg.Parser[S]) tpeg.Parser[[]T] {
	return func(input string, pos tpeg.Position) tpeg.Result[[]T] {
		out := []T{}
		first := p(input, pos)
		if !first.Success {
			return tpeg.Succeed(out, pos, pos)
		}
		out = append(out, first.Val)
		cur := first.Next
		for {
			s := sep(input, cur)
			if !s.Success {
				break
			}
			r := p(input, s.Next)
			if !r.Success {
				break
			}
			out = append(out, r.Val)
			cur = r.Next
		}
		return tpeg.Succeed(out, pos, cur)
	}
}

// Parse decodes one JSON document, requiring the whole input to match.
func Parse(input string) (any, error) {
	p := tpeg.Map(
		tpeg.Sequence(tpeg.ToAny(Value()), tpeg.ToAny(tpeg.EOF())),
		func(v []any) any { return v[0] },
	)
	r := tpeg.Parse(p, input)
	if !r.Success {
		return nil, r.Err
	}
	return r.Val, nil
}
