package models

// ValidationRequest is built fresh for every validation attempt.
type ValidationRequest struct {
	FileName         string
	MimeType         string
	SizeBytes        int64
	DeclaredCategory string
	ContentExcerpt   string
}

type PreValidation struct {
	FormatValid bool `json:"formatValid"`
	SizeValid   bool `json:"sizeValid"`
}

type ReportStatus string

const (
	ReportStatusValid   ReportStatus = "valid"
	ReportStatusInvalid ReportStatus = "invalid"
	ReportStatusWarning ReportStatus = "warning"
)

// ValidationReport is the response contract shared by analyzed and
// fallback reports.
type ValidationReport struct {
	Status           ReportStatus      `json:"status"`
	Score            float64           `json:"score"`
	DocumentAnalysis *DocumentAnalysis `json:"documentAnalysis,omitempty"`
	FormatAnalysis   FormatAnalysis    `json:"formatAnalysis"`
	NamingConvention NamingConvention  `json:"namingConvention"`
	SizeAssessment   SizeAssessment    `json:"sizeAssessment"`
	Issues           []string          `json:"issues"`
	Corrections      []string          `json:"corrections"`
	BestPractices    []string          `json:"bestPractices"`
}

type DocumentAnalysis struct {
	DetectedType          string  `json:"detectedType"`
	MatchesSubmissionType bool    `json:"matchesSubmissionType"`
	MatchPercentage       float64 `json:"matchPercentage"`
	Analysis              string  `json:"analysis"`
}

type FormatAnalysis struct {
	IsAcceptable       bool     `json:"isAcceptable"`
	CurrentFormat      string   `json:"currentFormat"`
	Details            string   `json:"details"`
	RecommendedFormats []string `json:"recommendedFormats"`
}

type NamingConvention struct {
	IsAcceptable  bool     `json:"isAcceptable"`
	Issues        []string `json:"issues"`
	SuggestedName string   `json:"suggestedName"`
}

type SizeAssessment struct {
	IsAcceptable       bool   `json:"isAcceptable"`
	Details            string `json:"details"`
	CurrentSize        string `json:"currentSize"`
	MaxRecommendedSize string `json:"maxRecommendedSize"`
}
