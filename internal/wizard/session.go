package wizard

import (
	"fmt"
	"strings"
	"time"

	"alfredoptarigan/submission-validator/internal/models"
)

type File struct {
	Name           string `json:"fileName"`
	MimeType       string `json:"fileType"`
	SizeBytes      int64  `json:"fileSize"`
	ContentExcerpt string `json:"fileContent,omitempty"`
}

// Session is the wizard state for one user. Methods mutate the receiver and
// never perform I/O; callers persist the result through a session store.
type Session struct {
	ID         string                   `json:"id"`
	OwnerID    string                   `json:"ownerId"`
	State      State                    `json:"state"`
	File       *File                    `json:"file,omitempty"`
	Category   string                   `json:"submissionType,omitempty"`
	CustomType string                   `json:"customType,omitempty"`
	Report     *models.ValidationReport `json:"report,omitempty"`
	LastError  string                   `json:"lastError,omitempty"`
	CreatedAt  time.Time                `json:"createdAt"`
	UpdatedAt  time.Time                `json:"updatedAt"`
}

// NewSession starts a session owned by the caller identified by ownerID.
func NewSession(id, ownerID string, now time.Time) *Session {
	return &Session{
		ID:        id,
		OwnerID:   ownerID,
		State:     StateSelectingFile,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) SelectFile(f File) error {
	if s.State != StateSelectingFile {
		return &TransitionError{From: s.State, Action: "select a file"}
	}
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("%w: file name is required", ErrInvalidFile)
	}
	if f.SizeBytes < 0 {
		return fmt.Errorf("%w: file size must not be negative", ErrInvalidFile)
	}

	s.File = &f
	s.Category = ""
	s.CustomType = ""
	s.Report = nil
	s.LastError = ""
	s.State = StateSelectingCategory
	return nil
}

// SelectCategory picks a registry key. Picking OthersCategory keeps the
// session in StateSelectingCategory until DescribeCustomType is called.
func (s *Session) SelectCategory(key string) error {
	if s.State != StateSelectingCategory {
		return &TransitionError{From: s.State, Action: "select a category"}
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}

	s.Category = key
	s.CustomType = ""
	if key != OthersCategory {
		s.State = StateReadyToValidate
	}
	return nil
}

func (s *Session) DescribeCustomType(text string) error {
	if s.State != StateSelectingCategory || s.Category != OthersCategory {
		return &TransitionError{From: s.State, Action: "describe a custom category"}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("%w: custom category description is required", ErrInvalidInput)
	}

	s.CustomType = text
	s.State = StateReadyToValidate
	return nil
}

func (s *Session) Back() error {
	switch s.State {
	case StateSelectingCategory:
		s.State = StateSelectingFile
	case StateReadyToValidate:
		s.State = StateSelectingCategory
	default:
		return &TransitionError{From: s.State, Action: "go back"}
	}
	return nil
}

// EffectiveCategory is what gets declared to the validator: the free-text
// description for OthersCategory, the registry key otherwise.
func (s *Session) EffectiveCategory() string {
	if s.Category == OthersCategory && s.CustomType != "" {
		return s.CustomType
	}
	return s.Category
}

// BeginValidation enters StateValidating and returns the request to run.
func (s *Session) BeginValidation() (models.ValidationRequest, error) {
	if s.State == StateValidating {
		return models.ValidationRequest{}, ErrValidationInFlight
	}
	if s.State != StateReadyToValidate || s.File == nil {
		return models.ValidationRequest{}, &TransitionError{From: s.State, Action: "start validation"}
	}

	s.State = StateValidating
	s.LastError = ""
	return models.ValidationRequest{
		FileName:         s.File.Name,
		MimeType:         s.File.MimeType,
		SizeBytes:        s.File.SizeBytes,
		DeclaredCategory: s.EffectiveCategory(),
		ContentExcerpt:   s.File.ContentExcerpt,
	}, nil
}

func (s *Session) Complete(report *models.ValidationReport) error {
	if s.State != StateValidating {
		return &TransitionError{From: s.State, Action: "complete validation"}
	}
	s.Report = report
	s.State = StateResults
	return nil
}

// Fail returns the session to StateReadyToValidate so the same selection can
// be retried.
func (s *Session) Fail(cause error) error {
	if s.State != StateValidating {
		return &TransitionError{From: s.State, Action: "fail validation"}
	}
	s.LastError = cause.Error()
	s.State = StateReadyToValidate
	return nil
}

func (s *Session) Reset() error {
	if s.State == StateValidating {
		return ErrValidationInFlight
	}
	s.File = nil
	s.Category = ""
	s.CustomType = ""
	s.Report = nil
	s.LastError = ""
	s.State = StateSelectingFile
	return nil
}
