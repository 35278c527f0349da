package tpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func syntaxError() *ParseError {
	return &ParseError{
		Message:  "expected a digit",
		Pos:      Position{Offset: 3, Line: 1, Column: 3},
		Expected: []string{"0-9"},
		Found:    "x",
	}
}

func TestCreateEnhancedError(t *testing.T) {
	h := NewErrorHandler(DefaultErrorHandlerConfig())

	e := h.CreateEnhancedError(syntaxError(), SeverityMedium, CategorySyntax, "try quoting the value")
	assert.True(t, e.Recoverable)
	assert.Equal(t, CategorySyntax, e.Category)
	assert.Contains(t, e.Suggestions, "check for missing or mismatched delimiters")
	assert.Contains(t, e.Suggestions, "try quoting the value")

	// critical errors are never recoverable
	e = h.CreateEnhancedError(syntaxError(), SeverityCritical, CategorySystem)
	assert.False(t, e.Recoverable)
}

func TestAttemptRecoveryStrategies(t *testing.T) {
	h := NewErrorHandler(DefaultErrorHandlerConfig())
	pos := Position{Offset: 3, Line: 1, Column: 3}

	tests := []struct {
		strategy RecoveryStrategy
		warning  string
	}{
		{StrategySkip, "Some input was skipped during recovery"},
		{StrategyReplace, "Original value was replaced during recovery"},
		{StrategyIgnore, "Error was ignored during recovery"},
	}
	for _, tt := range tests {
		t.Run(tt.strategy.String(), func(t *testing.T) {
			e := h.CreateEnhancedError(syntaxError(), SeverityLow, CategorySyntax)
			s := tt.strategy
			rr := h.AttemptRecovery(e, "12x", pos, &RecoveryContext{SuggestedStrategy: &s})
			require.True(t, rr.Recovered)
			assert.Equal(t, tt.strategy, rr.Strategy)
			assert.Contains(t, rr.Warnings, tt.warning)
		})
	}

	// abort recovers nothing
	e := h.CreateEnhancedError(syntaxError(), SeverityLow, CategorySyntax)
	s := StrategyAbort
	rr := h.AttemptRecovery(e, "12x", pos, &RecoveryContext{SuggestedStrategy: &s})
	assert.False(t, rr.Recovered)
}

func TestReplaceFallbackValue(t *testing.T) {
	h := NewErrorHandler(ErrorHandlerConfig{
		EnableRecovery:      true,
		MaxRecoveryAttempts: 3,
		DefaultStrategy:     StrategyReplace,
	})

	// numeric expectation gets a numeric fallback
	e := h.CreateEnhancedError(syntaxError(), SeverityLow, CategorySyntax)
	rr := h.AttemptRecovery(e, "12x", Position{3, 1, 3}, nil)
	require.True(t, rr.Recovered)
	assert.Equal(t, 0, rr.Value)

	stringErr := &ParseError{
		Message:  "expected keyword",
		Pos:      Position{Offset: 0, Line: 1, Column: 0},
		Expected: []string{"true"},
	}
	e = h.CreateEnhancedError(stringErr, SeverityLow, CategorySyntax)
	rr = h.AttemptRecovery(e, "x", Position{0, 1, 0}, nil)
	require.True(t, rr.Recovered)
	assert.Equal(t, "", rr.Value)
}

func TestMaxRecoveryAttempts(t *testing.T) {
	cfg := DefaultErrorHandlerConfig()
	cfg.MaxRecoveryAttempts = 1
	h := NewErrorHandler(cfg)
	pos := Position{Offset: 3, Line: 1, Column: 3}

	e := h.CreateEnhancedError(syntaxError(), SeverityLow, CategorySyntax)
	rr := h.AttemptRecovery(e, "12x", pos, nil)
	assert.True(t, rr.Recovered)

	// the attempt counter is per error instance
	rr = h.AttemptRecovery(e, "12x", pos, nil)
	require.False(t, rr.Recovered)
	assert.Contains(t, rr.Message, "Maximum recovery attempts exceeded")

	other := h.CreateEnhancedError(syntaxError(), SeverityLow, CategorySyntax)
	rr = h.AttemptRecovery(other, "12x", pos, nil)
	assert.True(t, rr.Recovered)
}

func TestRecoveryDisabled(t *testing.T) {
	h := NewErrorHandler(ErrorHandlerConfig{EnableRecovery: false})
	e := h.CreateEnhancedError(syntaxError(), SeverityLow, CategorySyntax)
	rr := h.AttemptRecovery(e, "12x", Position{3, 1, 3}, nil)
	assert.False(t, rr.Recovered)
	assert.Contains(t, rr.Message, "disabled")
}

func TestUnrecoverableError(t *testing.T) {
	h := NewErrorHandler(DefaultErrorHandlerConfig())
	e := h.CreateEnhancedError(syntaxError(), SeverityCritical, CategorySystem)
	rr := h.AttemptRecovery(e, "12x", Position{3, 1, 3}, nil)
	assert.False(t, rr.Recovered)
	assert.Contains(t, rr.Message, "not recoverable")
}

func TestHandlerStats(t *testing.T) {
	h := NewErrorHandler(DefaultErrorHandlerConfig())
	pos := Position{0, 1, 0}

	for i := 0; i < 3; i++ {
		e := h.CreateEnhancedError(syntaxError(), SeverityLow, CategorySyntax)
		h.AttemptRecovery(e, "x", pos, nil)
	}
	e := h.CreateEnhancedError(syntaxError(), SeverityHigh, CategorySemantic)
	h.AttemptRecovery(e, "x", pos, nil)

	s := h.Stats()
	assert.Equal(t, 4, s.TotalErrors)
	assert.Equal(t, 3, s.BySeverity[SeverityLow])
	assert.Equal(t, 1, s.BySeverity[SeverityHigh])
	assert.Equal(t, 3, s.ByCategory[CategorySyntax])
	assert.Equal(t, 1, s.ByCategory[CategorySemantic])

	h.ClearHistory()
	s = h.Stats()
	assert.Zero(t, s.TotalErrors)
	assert.Empty(t, s.BySeverity)
	assert.Empty(t, s.ByCategory)
}

func TestWithErrorHandling(t *testing.T) {
	h := NewErrorHandler(ErrorHandlerConfig{
		EnableRecovery:      true,
		MaxRecoveryAttempts: 3,
		DefaultStrategy:     StrategyReplace,
	})

	digit := Map(CharRange('0', '9'), func(s string) int { return int(s[0] - '0') })
	p := WithErrorHandling(digit, h, SeverityLow, CategorySyntax)

	// success passes through untouched
	r := Parse(p, "7")
	require.True(t, r.Success)
	assert.Equal(t, 7, r.Val)

	// failure recovers transparently with the fallback value, zero-width
	r = Parse(p, "x")
	require.True(t, r.Success)
	assert.Equal(t, 0, r.Val)
	assert.Equal(t, StartPosition(), r.Next)
	assert.Equal(t, 1, h.Stats().TotalErrors)

	// recovery failure leaves the original error intact
	h2 := NewErrorHandler(ErrorHandlerConfig{EnableRecovery: false})
	p2 := WithErrorHandling(digit, h2, SeverityLow, CategorySyntax)
	r = Parse(p2, "x")
	require.False(t, r.Success)
	assert.Equal(t, []string{"0-9"}, r.Err.Expected)
}
