package tpeg

// AndPredicate is positive lookahead: it succeeds, zero-width, when p
// would match here. Failures of p are reported with lookahead context.
func AndPredicate[T any](p Parser[T]) Parser[any] {
	return func(input string, pos Position) Result[any] {
		r := p(input, pos)
		if !r.Success {
			return Fail[any](r.Err.WithContext("in positive lookahead"))
		}
		return Succeed[any](nil, pos, pos)
	}
}

// NotPredicate is negative lookahead: zero-width success exactly when p
// fails here.
func NotPredicate[T any](p Parser[T]) Parser[any] {
	return func(input string, pos Position) Result[any] {
		r := p(input, pos)
		if r.Success {
			return failf[any](pos, []string{"pattern not to match"}, "matching pattern",
				"expected pattern not to match")
		}
		return Succeed[any](nil, pos, pos)
	}
}
