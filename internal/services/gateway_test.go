package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testPrompt = AnalysisPrompt{System: "system text", User: "user text"}

func newTestGateway(url, key string) Analyzer {
	return NewGatewayAnalyzer(GatewayConfig{
		APIKey:      key,
		URL:         url,
		Model:       "google/gemini-2.5-flash",
		Timeout:     2 * time.Second,
		MaxAttempts: 2,
		RetryDelay:  time.Millisecond,
	}, zap.NewNop())
}

func TestGatewayAnalyzer_Success(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body chatRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "google/gemini-2.5-flash", body.Model)
		assert.Equal(t, []chatMessage{
			{Role: "system", Content: "system text"},
			{Role: "user", Content: "user text"},
		}, body.Messages)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"status\":\"valid\"}"}}]}`))
	}))
	defer server.Close()

	text, err := newTestGateway(server.URL, "secret").Analyze(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.Equal(t, `{"status":"valid"}`, text)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGatewayAnalyzer_StatusClassification(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		sentinel      error
		kind          AnalyzerErrorKind
		expectedCalls int32
	}{
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited, KindRateLimited, 1},
		{"payment required", http.StatusPaymentRequired, ErrPaymentRequired, KindPaymentRequired, 1},
		{"bad request", http.StatusBadRequest, ErrUpstream, KindUpstream, 1},
		{"server error retried", http.StatusInternalServerError, ErrUpstream, KindUpstream, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("upstream says no"))
			}))
			defer server.Close()

			_, err := newTestGateway(server.URL, "secret").Analyze(context.Background(), testPrompt)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)

			var aerr *AnalyzerError
			require.ErrorAs(t, err, &aerr)
			assert.Equal(t, tt.kind, aerr.Kind)
			assert.Equal(t, tt.status, aerr.StatusCode)
			assert.Equal(t, "upstream says no", aerr.Body)
			assert.Equal(t, tt.expectedCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestGatewayAnalyzer_RetriesTransientFailure(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	defer server.Close()

	text, err := newTestGateway(server.URL, "secret").Analyze(context.Background(), testPrompt)
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGatewayAnalyzer_MissingKey(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	_, err := newTestGateway(server.URL, "").Analyze(context.Background(), testPrompt)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestGatewayAnalyzer_EmptyReplies(t *testing.T) {
	for name, body := range map[string]string{
		"no choices":   `{"choices":[]}`,
		"null content": `{"choices":[{"message":{"content":null}}]}`,
		"empty object": `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			text, err := newTestGateway(server.URL, "secret").Analyze(context.Background(), testPrompt)
			require.NoError(t, err)
			assert.Empty(t, text)
		})
	}
}

func TestGatewayAnalyzer_UndecodableBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>gateway</html>"))
	}))
	defer server.Close()

	_, err := newTestGateway(server.URL, "secret").Analyze(context.Background(), testPrompt)
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestGatewayAnalyzer_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestGateway(url, "secret").Analyze(context.Background(), testPrompt)
	require.Error(t, err)

	var aerr *AnalyzerError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, KindNetwork, aerr.Kind)
	assert.True(t, aerr.Retryable())
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestRetryPolicy_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	policy := retryPolicy{maxAttempts: 5, delay: time.Hour, log: zap.NewNop()}

	attempts := 0
	_, err := policy.do(ctx, func(context.Context) (string, error) {
		attempts++
		cancel()
		return "", NewStatusError(http.StatusBadGateway, "")
	})

	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, context.Canceled)
}
