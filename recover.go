package tpeg

import (
	"fmt"
	"strings"
	"sync"
)

// Severity ranks how bad an error is; critical errors are never
// recoverable.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Category classifies the origin of an error.
type Category int

const (
	CategorySyntax Category = iota
	CategorySemantic
	CategoryResource
	CategorySystem
)

func (c Category) String() string {
	switch c {
	case CategorySyntax:
		return "syntax"
	case CategorySemantic:
		return "semantic"
	case CategoryResource:
		return "resource"
	case CategorySystem:
		return "system"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// RecoveryStrategy selects what AttemptRecovery does with a recoverable
// error.
type RecoveryStrategy int

const (
	StrategySkip RecoveryStrategy = iota
	StrategyReplace
	StrategyIgnore
	StrategyAbort
)

func (s RecoveryStrategy) String() string {
	switch s {
	case StrategySkip:
		return "skip"
	case StrategyReplace:
		return "replace"
	case StrategyIgnore:
		return "ignore"
	case StrategyAbort:
		return "abort"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

var categorySuggestions = map[Category][]string{
	CategorySyntax: {
		"check for missing or mismatched delimiters",
		"verify the expected token at the reported position",
	},
	CategorySemantic: {
		"check that the captured values have the expected types",
		"verify label names used in captures",
	},
	CategoryResource: {
		"reduce the input size",
		"raise the configured limits",
	},
	CategorySystem: {
		"retry the operation",
		"report this as a bug if it persists",
	},
}

// EnhancedError wraps a ParseError for the recovery layer.
type EnhancedError struct {
	Base        *ParseError
	Severity    Severity
	Category    Category
	Recoverable bool
	Suggestions []string
}

func (e *EnhancedError) Error() string {
	return fmt.Sprintf("[%s/%s] %s", e.Severity, e.Category, e.Base.Error())
}

// RecoveryResult reports what a recovery attempt did.
type RecoveryResult struct {
	Recovered bool
	Strategy  RecoveryStrategy
	Value     any
	Warnings  []string
	Message   string
}

// RecoveryContext lets a call site steer one recovery attempt.
type RecoveryContext struct {
	SuggestedStrategy *RecoveryStrategy
}

// ErrorHandlerConfig configures an ErrorHandler.
type ErrorHandlerConfig struct {
	EnableRecovery      bool
	MaxRecoveryAttempts int
	DefaultStrategy     RecoveryStrategy
}

// DefaultErrorHandlerConfig enables recovery with three attempts per
// error and the skip strategy.
func DefaultErrorHandlerConfig() ErrorHandlerConfig {
	return ErrorHandlerConfig{
		EnableRecovery:      true,
		MaxRecoveryAttempts: 3,
		DefaultStrategy:     StrategySkip,
	}
}

// HandlerStats is a snapshot of an ErrorHandler's counters.
type HandlerStats struct {
	TotalErrors int
	BySeverity  map[Severity]int
	ByCategory  map[Category]int
}

// ErrorHandler owns the mutable recovery state: running statistics and a
// per-error attempt counter. It is the only mutable piece of the engine;
// one handler must not be shared across concurrent parses unless this
// internal locking is acceptable.
type ErrorHandler struct {
	config ErrorHandlerConfig

	mu          sync.Mutex
	totalErrors int
	bySeverity  map[Severity]int
	byCategory  map[Category]int
	attempts    map[*EnhancedError]int
}

// NewErrorHandler creates a handler with the given configuration.
func NewErrorHandler(config ErrorHandlerConfig) *ErrorHandler {
	return &ErrorHandler{
		config:     config,
		bySeverity: map[Severity]int{},
		byCategory: map[Category]int{},
		attempts:   map[*EnhancedError]int{},
	}
}

// CreateEnhancedError classifies a ParseError for recovery, attaching the
// category's fixed suggestions plus any extras. Critical errors are
// marked unrecoverable.
func (h *ErrorHandler) CreateEnhancedError(base *ParseError, sev Severity, cat Category, extra ...string) *EnhancedError {
	suggestions := append([]string{}, categorySuggestions[cat]...)
	suggestions = append(suggestions, extra...)
	return &EnhancedError{
		Base:        base,
		Severity:    sev,
		Category:    cat,
		Recoverable: sev != SeverityCritical,
		Suggestions: suggestions,
	}
}

// AttemptRecovery tries to recover from err at pos. Every call updates
// the handler's statistics. Recovery fails outright when disabled, when
// the error is unrecoverable, or when this error instance has used up its
// attempts.
func (h *ErrorHandler) AttemptRecovery(err *EnhancedError, input string, pos Position, ctx *RecoveryContext) RecoveryResult {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.totalErrors++
	h.bySeverity[err.Severity]++
	h.byCategory[err.Category]++

	if !h.config.EnableRecovery {
		return RecoveryResult{Recovered: false, Strategy: StrategyAbort,
			Message: "recovery is disabled"}
	}
	if !err.Recoverable {
		return RecoveryResult{Recovered: false, Strategy: StrategyAbort,
			Message: fmt.Sprintf("error is not recoverable (severity %s)", err.Severity)}
	}
	h.attempts[err]++
	if h.attempts[err] > h.config.MaxRecoveryAttempts {
		return RecoveryResult{Recovered: false, Strategy: StrategyAbort,
			Message: fmt.Sprintf("Maximum recovery attempts exceeded (%d)", h.config.MaxRecoveryAttempts)}
	}

	strategy := h.config.DefaultStrategy
	if ctx != nil && ctx.SuggestedStrategy != nil {
		strategy = *ctx.SuggestedStrategy
	}

	switch strategy {
	case StrategySkip:
		return RecoveryResult{
			Recovered: true,
			Strategy:  StrategySkip,
			Value:     nil,
			Warnings:  []string{"Some input was skipped during recovery"},
		}
	case StrategyReplace:
		return RecoveryResult{
			Recovered: true,
			Strategy:  StrategyReplace,
			Value:     fallbackValue(err.Base),
			Warnings:  []string{"Original value was replaced during recovery"},
		}
	case StrategyIgnore:
		return RecoveryResult{
			Recovered: true,
			Strategy:  StrategyIgnore,
			Value:     nil,
			Warnings:  []string{"Error was ignored during recovery"},
		}
	default:
		return RecoveryResult{Recovered: false, Strategy: StrategyAbort,
			Message: "recovery aborted"}
	}
}

// fallbackValue guesses a type-appropriate replacement from what the
// parser said it expected.
func fallbackValue(base *ParseError) any {
	if base == nil {
		return nil
	}
	for _, e := range base.Expected {
		lower := strings.ToLower(e)
		if strings.ContainsAny(e, "0123456789") || strings.Contains(lower, "number") || strings.Contains(lower, "digit") {
			return 0
		}
	}
	if len(base.Expected) > 0 {
		return ""
	}
	return nil
}

// ClearHistory resets all statistics and attempt counters.
func (h *ErrorHandler) ClearHistory() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.totalErrors = 0
	h.bySeverity = map[Severity]int{}
	h.byCategory = map[Category]int{}
	h.attempts = map[*EnhancedError]int{}
}

// Stats returns a copy of the current counters.
func (h *ErrorHandler) Stats() HandlerStats {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := HandlerStats{
		TotalErrors: h.totalErrors,
		BySeverity:  map[Severity]int{},
		ByCategory:  map[Category]int{},
	}
	for k, v := range h.bySeverity {
		s.BySeverity[k] = v
	}
	for k, v := range h.byCategory {
		s.ByCategory[k] = v
	}
	return s
}

// WithErrorHandling wraps p so that its failures run through recovery.
// When recovery succeeds the parser reports a zero-width success with the
// recovered value (if it fits T, the zero value otherwise); when it fails
// the original failure stands.
func WithErrorHandling[T any](p Parser[T], h *ErrorHandler, sev Severity, cat Category) Parser[T] {
	return func(input string, pos Position) Result[T] {
		r := p(input, pos)
		if r.Success {
			return r
		}
		enhanced := h.CreateEnhancedError(r.Err, sev, cat)
		rr := h.AttemptRecovery(enhanced, input, pos, nil)
		if !rr.Recovered {
			return r
		}
		var val T
		if v, ok := rr.Value.(T); ok {
			val = v
		}
		return Succeed(val, pos, pos)
	}
}
