package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const maxErrorBody = 4096

type GatewayConfig struct {
	APIKey      string
	URL         string
	Model       string
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type gatewayAnalyzer struct {
	cfg   GatewayConfig
	http  *http.Client
	retry retryPolicy
	log   *zap.Logger
}

// NewGatewayAnalyzer talks to an OpenAI-compatible chat-completions endpoint.
// A missing API key is only reported when Analyze is called.
func NewGatewayAnalyzer(cfg GatewayConfig, log *zap.Logger) Analyzer {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &gatewayAnalyzer{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		retry: retryPolicy{maxAttempts: cfg.MaxAttempts, delay: cfg.RetryDelay, log: log},
		log:   log,
	}
}

func (g *gatewayAnalyzer) Provider() string {
	return "gateway"
}

// Analyze implements Analyzer.
func (g *gatewayAnalyzer) Analyze(ctx context.Context, prompt AnalysisPrompt) (string, error) {
	if g.cfg.APIKey == "" {
		return "", NewConfigurationError("ANALYZER_API_KEY is not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model: g.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	return g.retry.do(ctx, func(ctx context.Context) (string, error) {
		return g.call(ctx, body)
	})
}

func (g *gatewayAnalyzer) call(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := g.http.Do(req)
	if err != nil {
		g.log.Error("analyzer request failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		return "", NewNetworkError(err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			g.log.Warn("failed to close analyzer response body", zap.Error(err))
		}
	}()

	g.log.Debug("analyzer request completed",
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		g.log.Error("analyzer returned error status",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(errBody)),
		)
		return "", NewStatusError(resp.StatusCode, string(errBody))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", &AnalyzerError{
			Kind:       KindUpstream,
			StatusCode: resp.StatusCode,
			Message:    "undecodable analyzer response",
			Err:        err,
		}
	}

	// A reply without content is handed to the normalizer as empty text.
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == nil {
		g.log.Warn("analyzer reply has no content")
		return "", nil
	}

	return *parsed.Choices[0].Message.Content, nil
}
