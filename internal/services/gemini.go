package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type GeminiConfig struct {
	APIKey      string
	Model       string
	MaxAttempts int
	RetryDelay  time.Duration
	Timeout     time.Duration
}

// geminiContentGenerator is the slice of *genai.Models the analyzer uses.
type geminiContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type geminiAnalyzer struct {
	models    geminiContentGenerator
	modelName string
	timeout   time.Duration
	retry     retryPolicy
	log       *zap.Logger
}

// NewGeminiAnalyzer calls Gemini directly through the genai SDK. Without an
// API key no client is created and every Analyze call reports a
// configuration error.
func NewGeminiAnalyzer(ctx context.Context, cfg GeminiConfig, log *zap.Logger) (Analyzer, error) {
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}

	g := &geminiAnalyzer{
		modelName: cfg.Model,
		timeout:   cfg.Timeout,
		retry:     retryPolicy{maxAttempts: cfg.MaxAttempts, delay: cfg.RetryDelay, log: log},
		log:       log,
	}

	if cfg.APIKey == "" {
		return g, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	g.models = client.Models

	return g, nil
}

func (g *geminiAnalyzer) Provider() string {
	return "gemini"
}

// Analyze implements Analyzer.
func (g *geminiAnalyzer) Analyze(ctx context.Context, prompt AnalysisPrompt) (string, error) {
	if g.models == nil {
		return "", NewConfigurationError("GEMINI_API_KEY is not configured")
	}

	temperature := float32(0.3)
	config := &genai.GenerateContentConfig{
		Temperature:       &temperature,
		MaxOutputTokens:   4096,
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
	}

	return g.retry.do(ctx, func(ctx context.Context) (string, error) {
		if g.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}

		resp, err := g.models.GenerateContent(ctx, g.modelName, genai.Text(prompt.User), config)
		if err != nil {
			g.log.Error("gemini API error", zap.Error(err))
			return "", classifyGeminiError(err)
		}
		if resp == nil {
			g.log.Warn("gemini returned nil response")
			return "", nil
		}

		return resp.Text(), nil
	})
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return geminiStatusError(apiErr, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return geminiStatusError(*apiErrPtr, err)
	}
	return NewNetworkError(err)
}

func geminiStatusError(apiErr genai.APIError, cause error) error {
	aerr := NewStatusError(apiErr.Code, apiErr.Message)
	aerr.Err = cause
	return aerr
}
