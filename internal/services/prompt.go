package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/submission-validator/internal/models"
)

const DefaultExcerptLimit = 2000

const systemInstruction = "You are a professional document submission validator. Analyze submissions thoroughly and provide actionable feedback. Always respond with valid JSON only, no markdown formatting."

// AnalysisPrompt is the chat payload sent to the analyzer.
type AnalysisPrompt struct {
	System string
	User   string
}

type PromptBuilder struct {
	excerptLimit int
}

func NewPromptBuilder(excerptLimit int) *PromptBuilder {
	if excerptLimit <= 0 {
		excerptLimit = DefaultExcerptLimit
	}
	return &PromptBuilder{excerptLimit: excerptLimit}
}

// BuildAnalysisPrompt creates the validation prompt. The output depends only
// on its arguments.
func (pb *PromptBuilder) BuildAnalysisPrompt(req models.ValidationRequest, profile models.SubmissionTypeProfile, pre models.PreValidation) AnalysisPrompt {
	category := req.DeclaredCategory
	if category == "" {
		category = profile.Key
	}

	formats := strings.Join(profile.AllowedFormats, ", ")
	if formats == "" {
		formats = "Any format accepted"
	}

	var preview string
	if excerpt := TruncateExcerpt(req.ContentExcerpt, pb.excerptLimit); excerpt != "" {
		preview = fmt.Sprintf("## FILE CONTENT PREVIEW (First %d characters)\n%s\n", pb.excerptLimit, excerpt)
	}

	user := fmt.Sprintf(`You are an expert document submission validator for academic and corporate environments. Perform a comprehensive analysis of this submission.

## FILE INFORMATION
- File Name: %s
- File Type: %s
- File Size: %.2f KB (%.2f MB)
- Submission Type: %s
- File Extension: %s

## SUBMISSION TYPE REQUIREMENTS
- Expected Formats: %s
- Maximum Size: %.0f MB
- Naming Convention: %s
- Content Expectations: %s

## INITIAL CHECKS
- Format Valid: %t
- Size Valid: %t

%s
## YOUR ANALYSIS TASKS

### 1. Document Analysis
- What type of content is in the file based on the name and type?
- Does it match the selected submission type (%s)?
- Rate the match between content and submission type (0-100%%)

### 2. Format Assessment
- Is the file format appropriate for %s?
- What would be better formats if current is not ideal?
- Any compatibility concerns?

### 3. Naming Convention Analysis
- Does the filename follow professional standards?
- What issues exist in the current naming?
- Provide a suggested better filename

### 4. Size Assessment
- Is the file size appropriate for this type?
- Any concerns about the file being too large or too small?

### 5. Quality Improvements
- What specific improvements would make this submission better?
- What are common issues to avoid for this submission type?
- Best practices to follow

Respond with a single JSON object ONLY, no prose and no markdown code fences, with this exact structure:
%s`,
		req.FileName,
		req.MimeType,
		float64(req.SizeBytes)/1024, float64(req.SizeBytes)/megabyte,
		category,
		FileExtension(req.FileName),
		formats,
		float64(profile.MaxSizeBytes)/megabyte,
		profile.NamingConvention,
		profile.ContentExpectations,
		pre.FormatValid,
		pre.SizeValid,
		preview,
		category,
		category,
		reportShape,
	)

	return AnalysisPrompt{
		System: systemInstruction,
		User:   user,
	}
}

// TruncateExcerpt keeps at most limit characters of text.
func TruncateExcerpt(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

const reportShape = `{
  "status": "valid" | "invalid" | "warning",
  "score": number (0-100),
  "documentAnalysis": {
    "detectedType": string,
    "matchesSubmissionType": boolean,
    "matchPercentage": number,
    "analysis": string
  },
  "formatAnalysis": {
    "isAcceptable": boolean,
    "currentFormat": string,
    "details": string,
    "recommendedFormats": string[]
  },
  "namingConvention": {
    "isAcceptable": boolean,
    "issues": string[],
    "suggestedName": string
  },
  "sizeAssessment": {
    "isAcceptable": boolean,
    "details": string,
    "currentSize": string,
    "maxRecommendedSize": string
  },
  "issues": string[],
  "corrections": string[],
  "bestPractices": string[]
}`
