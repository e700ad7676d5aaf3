package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"alfredoptarigan/submission-validator/internal/metrics"
	"alfredoptarigan/submission-validator/internal/models"
)

var ErrInvalidRequest = errors.New("invalid validation request")

type ValidatorService interface {
	Validate(ctx context.Context, req models.ValidationRequest) (NormalizedReport, error)
}

type validatorService struct {
	registry      *Registry
	promptBuilder *PromptBuilder
	analyzer      Analyzer
	normalizer    *ReportNormalizer
	log           *zap.Logger
}

func NewValidatorService(
	registry *Registry,
	promptBuilder *PromptBuilder,
	analyzer Analyzer,
	normalizer *ReportNormalizer,
	log *zap.Logger,
) ValidatorService {
	return &validatorService{
		registry:      registry,
		promptBuilder: promptBuilder,
		analyzer:      analyzer,
		normalizer:    normalizer,
		log:           log,
	}
}

// Validate runs one submission through pre-validation, analysis and
// normalization. Analyzer errors are returned as *AnalyzerError; malformed
// analyzer output still produces a report.
func (v *validatorService) Validate(ctx context.Context, req models.ValidationRequest) (NormalizedReport, error) {
	if strings.TrimSpace(req.FileName) == "" {
		return NormalizedReport{}, fmt.Errorf("%w: fileName is required", ErrInvalidRequest)
	}
	if req.SizeBytes < 0 {
		return NormalizedReport{}, fmt.Errorf("%w: fileSize must not be negative", ErrInvalidRequest)
	}

	req.ContentExcerpt = TruncateExcerpt(req.ContentExcerpt, v.promptBuilder.excerptLimit)

	profile := v.registry.Lookup(req.DeclaredCategory)
	pre := PreValidate(req, profile)

	v.log.Info("🔍 Validating submission",
		zap.String("file_name", req.FileName),
		zap.String("mime_type", req.MimeType),
		zap.Int64("size_bytes", req.SizeBytes),
		zap.String("declared_category", req.DeclaredCategory),
		zap.String("profile", profile.Key),
		zap.Bool("format_valid", pre.FormatValid),
		zap.Bool("size_valid", pre.SizeValid),
	)

	prompt := v.promptBuilder.BuildAnalysisPrompt(req, profile, pre)

	start := time.Now()
	raw, err := v.analyzer.Analyze(ctx, prompt)
	metrics.AnalyzerDuration.WithLabelValues(v.analyzer.Provider()).Observe(time.Since(start).Seconds())

	if err != nil {
		kind := "unknown"
		var aerr *AnalyzerError
		if errors.As(err, &aerr) {
			kind = string(aerr.Kind)
		}
		metrics.AnalyzerFailures.WithLabelValues(kind).Inc()
		v.log.Error("❌ Analyzer call failed",
			zap.String("provider", v.analyzer.Provider()),
			zap.String("kind", kind),
			zap.Error(err),
		)
	}

	normalized, err := v.normalizer.Normalize(raw, err, req, profile, pre)
	if err != nil {
		return NormalizedReport{}, err
	}

	metrics.ValidationsTotal.WithLabelValues(profile.Key, string(normalized.Confidence)).Inc()
	v.log.Info("✅ Validation complete",
		zap.String("status", string(normalized.Report.Status)),
		zap.Float64("score", normalized.Report.Score),
		zap.String("confidence", string(normalized.Confidence)),
	)

	return normalized, nil
}
