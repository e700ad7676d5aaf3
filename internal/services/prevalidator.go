package services

import (
	"path/filepath"
	"strings"

	"alfredoptarigan/submission-validator/internal/models"
)

// PreValidate runs the deterministic format and size checks. Its result is
// computed before the analyzer is called and feeds the fallback report.
func PreValidate(req models.ValidationRequest, profile models.SubmissionTypeProfile) models.PreValidation {
	return models.PreValidation{
		FormatValid: formatAllowed(req.FileName, req.MimeType, profile.AllowedFormats),
		SizeValid:   req.SizeBytes <= profile.MaxSizeBytes,
	}
}

func formatAllowed(fileName, mimeType string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}

	ext := FileExtension(fileName)
	for _, format := range allowed {
		if mimeType == format {
			return true
		}
		if ext != "" && strings.Contains(strings.ToLower(format), ext) {
			return true
		}
	}
	return false
}

// FileExtension returns the lower-cased extension without the dot, or "" when
// the name has none.
func FileExtension(fileName string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
}
