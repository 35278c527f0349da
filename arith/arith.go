// Package arith is a small arithmetic grammar built on the combinator
// engine: +, -, *, / over integers with the usual precedence and
// parentheses.
package arith

import (
	tpeg "github.com/SuzumiyaAoba/tpeg-sub002"
)

// ref defers resolution of a mutually recursive rule until parse time.
func ref[T any](p *tpeg.Parser[T]) tpeg.Parser[T] {
	return func(input string, pos tpeg.Position) tpeg.Result[T] {
		return (*p)(input, pos)
	}
}

type opRhs struct {
	op  string
	val int
}

// binOp parses operand (op operand)* and folds left.
func binOp(operand tpeg.Parser[int], ops string) tpeg.Parser[int] {
	rhs := tpeg.Map(
		tpeg.Sequence(tpeg.ToAny(tpeg.OneOf(ops)), tpeg.ToAny(operand)),
		func(v []any) opRhs {
			return opRhs{op: v[0].(string), val: v[1].(int)}
		},
	)
	return tpeg.Map(
		tpeg.Sequence(tpeg.ToAny(operand), tpeg.ToAny(tpeg.ZeroOrMore(rhs))),
		func(v []any) int {
			acc := v[0].(int)
			for _, r := range v[1].([]opRhs) {
				switch r.op {
				case "+":
					acc += r.val
				case "-":
					acc -= r.val
				case "*":
					acc *= r.val
				case "/":
					acc /= r.val
				}
			}
			return acc
		},
	)
}

// Expression builds the parser. Evaluation happens during the parse;
// the value of a match is the arithmetic result.
func Expression() tpeg.Parser[int] {
	var expr tpeg.Parser[int]

	number := tpeg.Named("number", tpeg.Map(
		tpeg.OneOrMore(tpeg.CharRange('0', '9')),
		func(digits []string) int {
			n := 0
			for _, d := range digits {
				n = n*10 + int(d[0]-'0')
			}
			return n
		},
	))

	paren := tpeg.Map(
		tpeg.Sequence(
			tpeg.ToAny(tpeg.Literal("(")),
			tpeg.ToAny(ref(&expr)),
			tpeg.ToAny(tpeg.Literal(")")),
		),
		func(v []any) int { return v[1].(int) },
	)

	factor := tpeg.Choice(number, paren)
	term := binOp(factor, "*/")
	expr = binOp(term, "+-")

	return expr
}

// Eval parses and evaluates input, requiring the whole string to match.
func Eval(input string) (int, error) {
	p := tpeg.Map(
		tpeg.Sequence(tpeg.ToAny(Expression()), tpeg.ToAny(tpeg.EOF())),
		func(v []any) int { return v[0].(int) },
	)
	r := tpeg.Parse(p, input)
	if !r.Success {
		return 0, r.Err
	}
	return r.Val, nil
}
