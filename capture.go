package tpeg

// Value is the outcome of capture-aware combinators. It is either
// positional (an ordered tuple, like Sequence produces) or labeled (a
// label-to-value record). Which one is decided when the combinator is
// built, not probed from the value's shape at run time.
type Value struct {
	labeled bool
	items   []any
	fields  map[string]any
	order   []string
}

// Positional builds a tuple value.
func Positional(items ...any) Value {
	return Value{items: items}
}

// Labeled builds a single-field record value.
func Labeled(label string, v any) Value {
	return Value{
		labeled: true,
		fields:  map[string]any{label: v},
		order:   []string{label},
	}
}

// IsLabeled reports whether the value is a record rather than a tuple.
func (v Value) IsLabeled() bool { return v.labeled }

// Items returns the tuple elements; nil for labeled values.
func (v Value) Items() []any { return v.items }

// Get looks up a label in a record value.
func (v Value) Get(label string) (any, bool) {
	if !v.labeled {
		return nil, false
	}
	val, ok := v.fields[label]
	return val, ok
}

// Labels returns the record's labels in insertion order.
func (v Value) Labels() []string { return v.order }

// Unwrap flattens for callers that want plain data: a one-element tuple
// becomes its element, other tuples a []any, records stay a Value.
func (v Value) Unwrap() any {
	if v.labeled {
		return v
	}
	if len(v.items) == 1 {
		return v.items[0]
	}
	return v.items
}

// merge folds other into v, last write wins per label, first occurrence
// keeps its place in the order.
func (v *Value) merge(other Value) {
	for _, label := range other.order {
		if _, seen := v.fields[label]; !seen {
			v.order = append(v.order, label)
		}
		v.fields[label] = other.fields[label]
	}
}

// Capture labels p's value, making it a one-field record.
func Capture[T any](label string, p Parser[T]) Parser[Value] {
	return func(input string, pos Position) Result[Value] {
		r := p(input, pos)
		if !r.Success {
			return Fail[Value](r.Err)
		}
		return Succeed(Labeled(label, r.Val), r.Current, r.Next)
	}
}

// Item lifts a plain parser into the capture algebra as a positional
// value, so it can sit inside CaptureSequence without a label.
func Item[T any](p Parser[T]) Parser[Value] {
	return func(input string, pos Position) Result[Value] {
		r := p(input, pos)
		if !r.Success {
			return Fail[Value](r.Err)
		}
		return Succeed(Positional(r.Val), r.Current, r.Next)
	}
}

// CaptureSequence runs the parsers like Sequence. When every element is
// labeled the records are merged left to right into one; any positional
// element demotes the whole result to a tuple, mirroring Sequence.
func CaptureSequence(parsers ...Parser[Value]) Parser[Value] {
	return func(input string, pos Position) Result[Value] {
		results := make([]Value, 0, len(parsers))
		cur := pos
		allLabeled := true
		for _, p := range parsers {
			r := p(input, cur)
			if !r.Success {
				return Fail[Value](r.Err)
			}
			if !r.Val.labeled {
				allLabeled = false
			}
			results = append(results, r.Val)
			cur = r.Next
		}
		if allLabeled {
			merged := Value{labeled: true, fields: map[string]any{}}
			for _, v := range results {
				merged.merge(v)
			}
			return Succeed(merged, pos, cur)
		}
		items := make([]any, len(results))
		for i, v := range results {
			items[i] = v.Unwrap()
		}
		return Succeed(Positional(items...), pos, cur)
	}
}

// CaptureChoice is Choice over capture-aware parsers; the winning
// alternative's shape is preserved as-is.
func CaptureChoice(parsers ...Parser[Value]) Parser[Value] {
	return Choice(parsers...)
}
