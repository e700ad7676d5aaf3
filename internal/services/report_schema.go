package services

// reportSchema is the JSON schema an analyzer reply must satisfy before it is
// accepted as a ValidationReport. Extra properties are tolerated.
const reportSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": [
    "status",
    "score",
    "formatAnalysis",
    "namingConvention",
    "sizeAssessment",
    "issues",
    "corrections",
    "bestPractices"
  ],
  "properties": {
    "status": {"type": "string", "enum": ["valid", "invalid", "warning"]},
    "score": {"type": "number", "minimum": 0, "maximum": 100},
    "documentAnalysis": {
      "type": "object",
      "required": ["detectedType", "matchesSubmissionType", "matchPercentage", "analysis"],
      "properties": {
        "detectedType": {"type": "string"},
        "matchesSubmissionType": {"type": "boolean"},
        "matchPercentage": {"type": "number", "minimum": 0, "maximum": 100},
        "analysis": {"type": "string"}
      }
    },
    "formatAnalysis": {
      "type": "object",
      "required": ["isAcceptable", "details", "recommendedFormats"],
      "properties": {
        "isAcceptable": {"type": "boolean"},
        "currentFormat": {"type": "string"},
        "details": {"type": "string"},
        "recommendedFormats": {"type": "array", "items": {"type": "string"}}
      }
    },
    "namingConvention": {
      "type": "object",
      "required": ["isAcceptable", "issues", "suggestedName"],
      "properties": {
        "isAcceptable": {"type": "boolean"},
        "issues": {"type": "array", "items": {"type": "string"}},
        "suggestedName": {"type": "string"}
      }
    },
    "sizeAssessment": {
      "type": "object",
      "required": ["isAcceptable", "details", "maxRecommendedSize"],
      "properties": {
        "isAcceptable": {"type": "boolean"},
        "details": {"type": "string"},
        "currentSize": {"type": "string"},
        "maxRecommendedSize": {"type": "string"}
      }
    },
    "issues": {"type": "array", "items": {"type": "string"}},
    "corrections": {"type": "array", "items": {"type": "string"}},
    "bestPractices": {"type": "array", "items": {"type": "string"}}
  }
}`
