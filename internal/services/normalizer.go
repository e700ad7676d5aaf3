package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"alfredoptarigan/submission-validator/internal/models"
)

// DegradedAnalysisIssue marks a report that was synthesized locally because
// the analyzer output could not be used.
const DegradedAnalysisIssue = "AI analysis incomplete - basic validation performed"

type Confidence string

const (
	ConfidenceAnalyzed Confidence = "analyzed"
	ConfidenceDegraded Confidence = "degraded"
)

// NormalizedReport pairs a report with how much of it came from the analyzer.
// Both confidences satisfy the same report contract.
type NormalizedReport struct {
	Report     *models.ValidationReport
	Confidence Confidence
}

type ReportNormalizer struct {
	schema *gojsonschema.Schema
	log    *zap.Logger
}

func NewReportNormalizer(log *zap.Logger) (*ReportNormalizer, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(reportSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile report schema: %w", err)
	}
	return &ReportNormalizer{schema: schema, log: log}, nil
}

// Normalize turns an analyzer outcome into a report. Analyzer errors are
// returned unchanged; unusable text yields the fallback report.
func (n *ReportNormalizer) Normalize(
	raw string,
	analyzeErr error,
	req models.ValidationRequest,
	profile models.SubmissionTypeProfile,
	pre models.PreValidation,
) (NormalizedReport, error) {
	if analyzeErr != nil {
		return NormalizedReport{}, analyzeErr
	}

	report, err := n.parse(raw)
	if err != nil {
		n.log.Warn("⚠️  Failed to parse analyzer response, using fallback report",
			zap.Error(err),
			zap.Int("response_length", len(raw)),
		)
		return NormalizedReport{
			Report:     FallbackReport(req, profile, pre),
			Confidence: ConfidenceDegraded,
		}, nil
	}

	return NormalizedReport{Report: report, Confidence: ConfidenceAnalyzed}, nil
}

func (n *ReportNormalizer) parse(raw string) (*models.ValidationReport, error) {
	cleaned := StripCodeFences(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty analyzer response")
	}

	result, err := n.schema.Validate(gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("report schema validation failed: %v", errs)
	}

	var report models.ValidationReport
	if err := json.Unmarshal([]byte(cleaned), &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// FallbackReport builds the deterministic report used when analyzer output
// is unusable. It depends only on its arguments.
func FallbackReport(req models.ValidationRequest, profile models.SubmissionTypeProfile, pre models.PreValidation) *models.ValidationReport {
	formatDetails := "Format may not be optimal"
	if pre.FormatValid {
		formatDetails = "Format is acceptable"
	}
	sizeDetails := "File may be too large"
	if pre.SizeValid {
		sizeDetails = "Size is within limits"
	}

	recommended := profile.AllowedFormats
	if len(recommended) > 3 {
		recommended = recommended[:3]
	}

	return &models.ValidationReport{
		Status: models.ReportStatusWarning,
		Score:  50,
		DocumentAnalysis: &models.DocumentAnalysis{
			DetectedType:          req.MimeType,
			MatchesSubmissionType: true,
			MatchPercentage:       50,
			Analysis:              "Unable to fully analyze document content",
		},
		FormatAnalysis: models.FormatAnalysis{
			IsAcceptable:       pre.FormatValid,
			CurrentFormat:      req.MimeType,
			Details:            formatDetails,
			RecommendedFormats: cloneStrings(recommended),
		},
		NamingConvention: models.NamingConvention{
			IsAcceptable:  true,
			Issues:        []string{},
			SuggestedName: req.FileName,
		},
		SizeAssessment: models.SizeAssessment{
			IsAcceptable:       pre.SizeValid,
			Details:            sizeDetails,
			CurrentSize:        fmt.Sprintf("%.2f MB", float64(req.SizeBytes)/megabyte),
			MaxRecommendedSize: fmt.Sprintf("%.0f MB", float64(profile.MaxSizeBytes)/megabyte),
		},
		Issues:      []string{DegradedAnalysisIssue},
		Corrections: []string{},
		BestPractices: []string{
			"Ensure file follows submission guidelines",
			"Use appropriate file naming",
			"Keep file size reasonable",
		},
	}
}

// StripCodeFences removes a markdown fence wrapped around the whole text,
// including an optional language tag. Text without fences is only trimmed.
func StripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)

	if rest, ok := strings.CutPrefix(s, "```"); ok {
		if tag, body, found := strings.Cut(rest, "\n"); found && !strings.ContainsAny(tag, "{[") {
			rest = body
		} else {
			rest = strings.TrimPrefix(rest, "json")
		}
		s = strings.TrimSpace(rest)
	}
	if rest, ok := strings.CutSuffix(s, "```"); ok {
		s = strings.TrimSpace(rest)
	}

	return s
}
