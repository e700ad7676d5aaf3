package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Analyzer sends a prompt to the external text-generation service and
// returns the reply text unparsed.
type Analyzer interface {
	Analyze(ctx context.Context, prompt AnalysisPrompt) (string, error)
	Provider() string
}

type AnalyzerErrorKind string

const (
	KindConfiguration   AnalyzerErrorKind = "configuration"
	KindRateLimited     AnalyzerErrorKind = "rate_limited"
	KindPaymentRequired AnalyzerErrorKind = "payment_required"
	KindUpstream        AnalyzerErrorKind = "upstream"
	KindNetwork         AnalyzerErrorKind = "network"
)

var (
	ErrConfiguration   = errors.New("analyzer is not configured")
	ErrRateLimited     = errors.New("rate limit exceeded")
	ErrPaymentRequired = errors.New("payment required")
	ErrUpstream        = errors.New("AI gateway error")
)

// AnalyzerError is returned for every failed analyzer call. errors.Is matches
// it against the sentinel for its kind.
type AnalyzerError struct {
	Kind       AnalyzerErrorKind
	StatusCode int
	Message    string
	Body       string
	Err        error
}

func (e *AnalyzerError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("analyzer %s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("analyzer %s error: %s", e.Kind, e.Message)
}

func (e *AnalyzerError) Unwrap() error {
	return e.Err
}

func (e *AnalyzerError) Is(target error) bool {
	switch target {
	case ErrConfiguration:
		return e.Kind == KindConfiguration
	case ErrRateLimited:
		return e.Kind == KindRateLimited
	case ErrPaymentRequired:
		return e.Kind == KindPaymentRequired
	case ErrUpstream:
		return e.Kind == KindUpstream || e.Kind == KindNetwork
	}
	return false
}

// Retryable reports whether another attempt may succeed. Only transport
// failures and 5xx responses qualify.
func (e *AnalyzerError) Retryable() bool {
	switch e.Kind {
	case KindNetwork:
		return true
	case KindUpstream:
		return e.StatusCode >= 500
	}
	return false
}

func NewConfigurationError(message string) *AnalyzerError {
	return &AnalyzerError{Kind: KindConfiguration, Message: message}
}

// Messages returned to API callers for upstream failures.
const (
	rateLimitedMessage     = "Rate limit exceeded, please try again later."
	paymentRequiredMessage = "Payment required, please add credits."
	upstreamMessage        = "AI gateway error"
)

// NewStatusError classifies a non-success HTTP status from the analyzer.
func NewStatusError(code int, body string) *AnalyzerError {
	switch code {
	case 429:
		return &AnalyzerError{Kind: KindRateLimited, StatusCode: code, Message: rateLimitedMessage, Body: body}
	case 402:
		return &AnalyzerError{Kind: KindPaymentRequired, StatusCode: code, Message: paymentRequiredMessage, Body: body}
	default:
		return &AnalyzerError{Kind: KindUpstream, StatusCode: code, Message: upstreamMessage, Body: body}
	}
}

func NewNetworkError(err error) *AnalyzerError {
	return &AnalyzerError{Kind: KindNetwork, Message: "failed to reach analyzer", Err: err}
}

// retryPolicy runs an analyzer attempt up to maxAttempts times, backing off
// between transient failures.
type retryPolicy struct {
	maxAttempts int
	delay       time.Duration
	log         *zap.Logger
}

func (p retryPolicy) do(ctx context.Context, attempt func(ctx context.Context) (string, error)) (string, error) {
	maxAttempts := p.maxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	delay := p.delay

	var lastErr error
	for i := 1; i <= maxAttempts; i++ {
		text, err := attempt(ctx)
		if err == nil {
			return text, nil
		}
		lastErr = err

		var aerr *AnalyzerError
		if !errors.As(err, &aerr) || !aerr.Retryable() || i == maxAttempts {
			break
		}

		p.log.Warn("analyzer attempt failed, retrying",
			zap.Int("attempt", i),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return "", NewNetworkError(ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}

	return "", lastErr
}
