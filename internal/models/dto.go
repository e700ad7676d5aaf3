package models

// ValidateSubmissionRequest is the inbound body of POST /validate-submission.
type ValidateSubmissionRequest struct {
	FileName       string `json:"fileName"`
	FileType       string `json:"fileType"`
	FileSize       int64  `json:"fileSize"`
	SubmissionType string `json:"submissionType"`
	FileContent    string `json:"fileContent,omitempty"`
}

type SelectFileRequest struct {
	FileName    string `json:"fileName"`
	FileType    string `json:"fileType"`
	FileSize    int64  `json:"fileSize"`
	FileContent string `json:"fileContent,omitempty"`
}

type SelectCategoryRequest struct {
	SubmissionType string `json:"submissionType"`
	CustomType     string `json:"customType,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
