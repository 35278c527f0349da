package json

import (
	"testing"

	tpeg "github.com/SuzumiyaAoba/tpeg-sub002"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScalars(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{`"hello"`, "hello"},
		{`""`, ""},
		{`"a\nb"`, "a\nb"},
		{`"say \"hi\""`, `say "hi"`},
		{`"é"`, "é"},
		{`0`, float64(0)},
		{`42`, float64(42)},
		{`-3.5`, -3.5},
		{`1e3`, float64(1000)},
		{`2.5e-1`, 0.25},
		{`true`, true},
		{`false`, false},
		{`null`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseComposite(t *testing.T) {
	got, err := Parse(`{"name": "bob", "age": 42, "tags": ["a", "b"], "extra": null}`)
	require.NoError(t, err)
	want := map[string]any{
		"name":  "bob",
		"age":   float64(42),
		"tags":  []any{"a", "b"},
		"extra": nil,
	}
	assert.Equal(t, want, got)

	got, err = Parse(` [ 1 , [ ] , { } ] `)
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), []any{}, map[string]any{}}, got)
}

func TestParseNested(t *testing.T) {
	got, err := Parse(`{"a": {"b": {"c": [1, 2, 3]}}}`)
	require.NoError(t, err)
	inner := got.(map[string]any)["a"].(map[string]any)["b"].(map[string]any)["c"]
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, inner)
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"", "{", "[1,", "[1,]", `{"a"}`, `{"a":}`, "tru", `"unterminated`, "01x",
	} {
		_, err := Parse(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestParseErrorPosition(t *testing.T) {
	r := tpeg.Parse(Value(), "[1, \n 2, oops]")
	if r.Success {
		// Value alone may stop early; the full Parse must fail
		_, err := Parse("[1, \n 2, oops]")
		require.Error(t, err)
		return
	}
	assert.Equal(t, 2, r.Err.Pos.Line)
}
