package tpeg

// Sequence runs each parser where the previous one stopped. The first
// failure propagates untouched; success yields the values in order.
func Sequence(parsers ...Parser[any]) Parser[[]any] {
	return func(input string, pos Position) Result[[]any] {
		vals := make([]any, 0, len(parsers))
		cur := pos
		for _, p := range parsers {
			r := p(input, cur)
			if !r.Success {
				return Fail[[]any](r.Err)
			}
			vals = append(vals, r.Val)
			cur = r.Next
		}
		return Succeed(vals, pos, cur)
	}
}

// Choice tries each alternative at the same starting position and returns
// the first success. On total failure it keeps the error that got furthest
// into the input; on equal offsets the earlier alternative wins.
func Choice[T any](parsers ...Parser[T]) Parser[T] {
	return func(input string, pos Position) Result[T] {
		var best *ParseError
		for _, p := range parsers {
			r := p(input, pos)
			if r.Success {
				return r
			}
			if best == nil || r.Err.Pos.Offset > best.Pos.Offset {
				best = r.Err
			}
		}
		if best == nil {
			return failf[T](pos, nil, "", "choice with no alternatives")
		}
		return Fail[T](best)
	}
}

// Maybe runs p and turns its failure into a zero-width success with the
// zero value. The inner failure is never surfaced.
func Maybe[T any](p Parser[T]) Parser[T] {
	var zero T
	return WithDefault(p, zero)
}

// WithDefault is Maybe with a caller-chosen fallback value.
func WithDefault[T any](p Parser[T], def T) Parser[T] {
	return func(input string, pos Position) Result[T] {
		r := p(input, pos)
		if r.Success {
			return r
		}
		return Succeed(def, pos, pos)
	}
}
