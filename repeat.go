package tpeg

import "fmt"

// Unbounded marks a Quantified repetition with no upper limit.
const Unbounded = -1

// loopErr reports that a repetition body succeeded without consuming
// input, which would otherwise spin forever. This is a grammar bug, not
// an input error.
func loopErr(pos Position) *ParseError {
	return &ParseError{
		Message: "infinite loop detected: parser succeeded without consuming input",
		Pos:     pos,
	}
}

// ZeroOrMore applies p until it fails and collects the values. It cannot
// fail on input; the stopping failure is discarded. A zero-width success
// of p is rejected as an infinite loop.
func ZeroOrMore[T any](p Parser[T]) Parser[[]T] {
	return func(input string, pos Position) Result[[]T] {
		vals := []T{}
		cur := pos
		for {
			r := p(input, cur)
			if !r.Success {
				return Succeed(vals, pos, cur)
			}
			if r.Next.Offset <= cur.Offset {
				return Fail[[]T](loopErr(cur))
			}
			vals = append(vals, r.Val)
			cur = r.Next
		}
	}
}

// OneOrMore is ZeroOrMore requiring the first application to succeed. A
// first-attempt failure is surfaced with context; later failures just end
// the loop.
func OneOrMore[T any](p Parser[T]) Parser[[]T] {
	return func(input string, pos Position) Result[[]T] {
		first := p(input, pos)
		if !first.Success {
			return Fail[[]T](first.Err.WithContext("in oneOrMore"))
		}
		if first.Next.Offset <= pos.Offset {
			return Fail[[]T](loopErr(pos))
		}
		vals := []T{first.Val}
		cur := first.Next
		for {
			r := p(input, cur)
			if !r.Success {
				return Succeed(vals, pos, cur)
			}
			if r.Next.Offset <= cur.Offset {
				return Fail[[]T](loopErr(cur))
			}
			vals = append(vals, r.Val)
			cur = r.Next
		}
	}
}

// Quantified matches between min and max repetitions of p, max being
// Unbounded for no upper limit. The first min repetitions are mandatory
// and a failure there is fatal; the rest are optional.
func Quantified[T any](p Parser[T], min, max int) Parser[[]T] {
	return func(input string, pos Position) Result[[]T] {
		if min < 0 {
			return failf[[]T](pos, nil, "", "invalid quantifier: min must be >= 0, got %d", min)
		}
		if max != Unbounded && max < min {
			return failf[[]T](pos, nil, "", "invalid quantifier: max (%d) must be >= min (%d)", max, min)
		}
		vals := make([]T, 0, min)
		cur := pos
		for i := 0; i < min; i++ {
			r := p(input, cur)
			if !r.Success {
				frame := fmt.Sprintf("failed at required repetition %d/%d", i+1, min)
				return Fail[[]T](r.Err.WithContext(frame))
			}
			if r.Next.Offset <= cur.Offset {
				return Fail[[]T](loopErr(cur))
			}
			vals = append(vals, r.Val)
			cur = r.Next
		}
		for max == Unbounded || len(vals) < max {
			r := p(input, cur)
			if !r.Success {
				break
			}
			if r.Next.Offset <= cur.Offset {
				return Fail[[]T](loopErr(cur))
			}
			vals = append(vals, r.Val)
			cur = r.Next
		}
		return Succeed(vals, pos, cur)
	}
}
