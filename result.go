package tpeg

import "fmt"

// ParseError describes a failed match. Pos points at the character that
// broke the parse, Expected/Found feed diagnostics, and Context is a stack
// of breadcrumbs accumulated outermost-first as the error travels up
// through wrapping combinators.
type ParseError struct {
	Message    string
	Pos        Position
	Expected   []string
	Found      string
	ParserName string
	Context    []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// WithContext returns a copy of e with one more breadcrumb pushed on the
// front of the context stack. The receiver is left alone so shared errors
// never alias.
func (e *ParseError) WithContext(frame string) *ParseError {
	err := *e
	err.Context = append([]string{frame}, e.Context...)
	return &err
}

// withName returns a copy of e carrying the parser name, unless an inner
// parser already claimed it.
func (e *ParseError) withName(name string) *ParseError {
	if e.ParserName != "" {
		return e
	}
	err := *e
	err.ParserName = name
	return &err
}

// Result is the outcome of running a parser: either a value spanning
// Current..Next, or an error. Exactly one of Val/Err is meaningful,
// discriminated by Success.
type Result[T any] struct {
	Success bool
	Val     T
	Current Position
	Next    Position
	Err     *ParseError
}

// Succeed builds a success spanning current..next.
func Succeed[T any](val T, current, next Position) Result[T] {
	return Result[T]{Success: true, Val: val, Current: current, Next: next}
}

// Fail builds a failure carrying err.
func Fail[T any](err *ParseError) Result[T] {
	return Result[T]{Success: false, Err: err}
}

// failf builds a failure with a formatted message at pos.
func failf[T any](pos Position, expected []string, found string, format string, args ...any) Result[T] {
	return Fail[T](&ParseError{
		Message:  fmt.Sprintf(format, args...),
		Pos:      pos,
		Expected: expected,
		Found:    found,
	})
}

// Parser is the whole interface: a pure function from input and position
// to a result. Two calls with the same arguments must produce equal
// results.
type Parser[T any] func(input string, pos Position) Result[T]

// Parse runs p over input from the start position and returns the raw
// result. It does not require p to consume the whole input; compose with
// EOF for that.
func Parse[T any](p Parser[T], input string) Result[T] {
	return p(input, StartPosition())
}

// Map transforms the value of a successful parse; failures pass through.
func Map[T, U any](p Parser[T], fn func(T) U) Parser[U] {
	return func(input string, pos Position) Result[U] {
		r := p(input, pos)
		if !r.Success {
			return Fail[U](r.Err)
		}
		return Succeed(fn(r.Val), r.Current, r.Next)
	}
}

// Named tags failures of p with a parser name for diagnostics.
func Named[T any](name string, p Parser[T]) Parser[T] {
	return func(input string, pos Position) Result[T] {
		r := p(input, pos)
		if !r.Success {
			r.Err = r.Err.withName(name)
		}
		return r
	}
}

// ToAny erases a parser's value type so it can sit in a Sequence.
func ToAny[T any](p Parser[T]) Parser[any] {
	return func(input string, pos Position) Result[any] {
		r := p(input, pos)
		if !r.Success {
			return Fail[any](r.Err)
		}
		return Succeed[any](r.Val, r.Current, r.Next)
	}
}
