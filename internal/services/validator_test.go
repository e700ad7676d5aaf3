package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/submission-validator/internal/models"
)

type fakeAnalyzer struct {
	mu      sync.Mutex
	text    string
	err     error
	prompts []AnalysisPrompt
	block   chan struct{}
}

func (f *fakeAnalyzer) Analyze(_ context.Context, prompt AnalysisPrompt) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	return f.text, f.err
}

func (f *fakeAnalyzer) Provider() string {
	return "fake"
}

func (f *fakeAnalyzer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func newTestValidator(t *testing.T, analyzer Analyzer) ValidatorService {
	t.Helper()
	return NewValidatorService(
		newDefaultRegistry(t),
		NewPromptBuilder(DefaultExcerptLimit),
		analyzer,
		newTestNormalizer(t),
		zap.NewNop(),
	)
}

func TestValidator_AnalyzedReport(t *testing.T) {
	analyzer := &fakeAnalyzer{text: "```json\n" + validReportJSON + "\n```"}
	v := newTestValidator(t, analyzer)

	result, err := v.Validate(context.Background(), models.ValidationRequest{
		FileName:         "resume.pdf",
		MimeType:         "application/pdf",
		SizeBytes:        1_000_000,
		DeclaredCategory: "resume",
	})
	require.NoError(t, err)
	assert.Equal(t, ConfidenceAnalyzed, result.Confidence)
	assert.Equal(t, models.ReportStatusValid, result.Report.Status)
	assert.Equal(t, 87.0, result.Report.Score)

	require.Equal(t, 1, analyzer.calls())
	assert.Contains(t, analyzer.prompts[0].User, "- Format Valid: true")
}

func TestValidator_RefusalFallsBack(t *testing.T) {
	v := newTestValidator(t, &fakeAnalyzer{text: "Sorry, I cannot help."})

	result, err := v.Validate(context.Background(), models.ValidationRequest{
		FileName:         "report.txt",
		MimeType:         "text/plain",
		SizeBytes:        10_000,
		DeclaredCategory: "thesis",
	})
	require.NoError(t, err)
	assert.Equal(t, ConfidenceDegraded, result.Confidence)
	assert.Equal(t, models.ReportStatusWarning, result.Report.Status)
	assert.False(t, result.Report.FormatAnalysis.IsAcceptable)
	assert.Equal(t, []string{"application/pdf"}, result.Report.FormatAnalysis.RecommendedFormats)
}

func TestValidator_AnalyzerErrorsSurface(t *testing.T) {
	for name, analyzeErr := range map[string]error{
		"configuration":    NewConfigurationError("ANALYZER_API_KEY is not configured"),
		"rate limited":     NewStatusError(429, ""),
		"payment required": NewStatusError(402, ""),
		"upstream":         NewStatusError(500, "boom"),
	} {
		t.Run(name, func(t *testing.T) {
			v := newTestValidator(t, &fakeAnalyzer{err: analyzeErr})

			_, err := v.Validate(context.Background(), models.ValidationRequest{FileName: "a.pdf", DeclaredCategory: "resume"})
			assert.ErrorIs(t, err, analyzeErr)
		})
	}
}

func TestValidator_RejectsInvalidRequest(t *testing.T) {
	analyzer := &fakeAnalyzer{text: validReportJSON}
	v := newTestValidator(t, analyzer)

	_, err := v.Validate(context.Background(), models.ValidationRequest{FileName: "  ", SizeBytes: 1})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = v.Validate(context.Background(), models.ValidationRequest{FileName: "a.pdf", SizeBytes: -1})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	assert.Equal(t, 0, analyzer.calls())
}

func TestValidator_TruncatesExcerpt(t *testing.T) {
	analyzer := &fakeAnalyzer{text: validReportJSON}
	v := NewValidatorService(
		newDefaultRegistry(t),
		NewPromptBuilder(5),
		analyzer,
		newTestNormalizer(t),
		zap.NewNop(),
	)

	_, err := v.Validate(context.Background(), models.ValidationRequest{
		FileName:       "notes.txt",
		ContentExcerpt: "abcdefghij",
	})
	require.NoError(t, err)
	assert.Contains(t, analyzer.prompts[0].User, "abcde\n")
	assert.NotContains(t, analyzer.prompts[0].User, "abcdef")
}
