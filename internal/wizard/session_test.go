package wizard

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/submission-validator/internal/models"
)

func newReadySession(t *testing.T, category string) *Session {
	t.Helper()
	s := NewSession("s-1", "owner-1", time.Unix(0, 0))
	require.NoError(t, s.SelectFile(File{Name: "resume.pdf", MimeType: "application/pdf", SizeBytes: 1_000_000}))
	require.NoError(t, s.SelectCategory(category))
	return s
}

func TestSession_HappyPath(t *testing.T) {
	s := newReadySession(t, "resume")
	assert.Equal(t, StateReadyToValidate, s.State)

	req, err := s.BeginValidation()
	require.NoError(t, err)
	assert.Equal(t, StateValidating, s.State)
	assert.Equal(t, models.ValidationRequest{
		FileName:         "resume.pdf",
		MimeType:         "application/pdf",
		SizeBytes:        1_000_000,
		DeclaredCategory: "resume",
	}, req)

	report := &models.ValidationReport{Status: models.ReportStatusValid, Score: 90}
	require.NoError(t, s.Complete(report))
	assert.Equal(t, StateResults, s.State)
	assert.Same(t, report, s.Report)

	require.NoError(t, s.Reset())
	assert.Equal(t, StateSelectingFile, s.State)
	assert.Nil(t, s.File)
	assert.Nil(t, s.Report)
	assert.Empty(t, s.Category)
}

func TestSession_OthersRequiresDescription(t *testing.T) {
	s := newReadySession(t, OthersCategory)
	assert.Equal(t, StateSelectingCategory, s.State)

	_, err := s.BeginValidation()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	assert.ErrorIs(t, s.DescribeCustomType("   "), ErrInvalidInput)
	assert.Equal(t, StateSelectingCategory, s.State)

	require.NoError(t, s.DescribeCustomType(" lab report "))
	assert.Equal(t, StateReadyToValidate, s.State)

	req, err := s.BeginValidation()
	require.NoError(t, err)
	assert.Equal(t, "lab report", req.DeclaredCategory)
}

func TestSession_DescribeCustomTypeNeedsOthers(t *testing.T) {
	s := NewSession("s-1", "owner-1", time.Now())
	require.NoError(t, s.SelectFile(File{Name: "a.pdf"}))
	assert.ErrorIs(t, s.DescribeCustomType("lab report"), ErrInvalidTransition)
}

func TestSession_SingleFlight(t *testing.T) {
	s := newReadySession(t, "thesis")
	_, err := s.BeginValidation()
	require.NoError(t, err)

	_, err = s.BeginValidation()
	assert.ErrorIs(t, err, ErrValidationInFlight)
	assert.ErrorIs(t, s.Reset(), ErrValidationInFlight)
	assert.ErrorIs(t, s.Back(), ErrInvalidTransition)
	assert.Equal(t, StateValidating, s.State)
}

func TestSession_FailReturnsToReady(t *testing.T) {
	s := newReadySession(t, "thesis")
	_, err := s.BeginValidation()
	require.NoError(t, err)

	require.NoError(t, s.Fail(errors.New("rate limited")))
	assert.Equal(t, StateReadyToValidate, s.State)
	assert.Equal(t, "rate limited", s.LastError)

	_, err = s.BeginValidation()
	require.NoError(t, err)
	assert.Empty(t, s.LastError)
}

func TestSession_Back(t *testing.T) {
	s := newReadySession(t, "resume")

	require.NoError(t, s.Back())
	assert.Equal(t, StateSelectingCategory, s.State)
	require.NoError(t, s.Back())
	assert.Equal(t, StateSelectingFile, s.State)
	assert.ErrorIs(t, s.Back(), ErrInvalidTransition)

	require.NoError(t, s.SelectFile(File{Name: "cv.docx", SizeBytes: 10}))
	assert.Equal(t, "cv.docx", s.File.Name)
	assert.Empty(t, s.Category)
}

func TestSession_SelectFileGuards(t *testing.T) {
	s := NewSession("s-1", "owner-1", time.Now())

	assert.ErrorIs(t, s.SelectFile(File{Name: "  "}), ErrInvalidFile)
	assert.ErrorIs(t, s.SelectFile(File{Name: "a.pdf", SizeBytes: -1}), ErrInvalidFile)
	assert.Equal(t, StateSelectingFile, s.State)

	require.NoError(t, s.SelectFile(File{Name: "a.pdf"}))
	assert.ErrorIs(t, s.SelectFile(File{Name: "b.pdf"}), ErrInvalidTransition)
}

func TestSession_OutOfOrderActions(t *testing.T) {
	s := NewSession("s-1", "owner-1", time.Now())

	assert.ErrorIs(t, s.SelectCategory("resume"), ErrInvalidTransition)
	assert.ErrorIs(t, s.Complete(&models.ValidationReport{}), ErrInvalidTransition)
	assert.ErrorIs(t, s.Fail(errors.New("x")), ErrInvalidTransition)
	_, err := s.BeginValidation()
	assert.ErrorIs(t, err, ErrInvalidTransition)

	var terr *TransitionError
	require.ErrorAs(t, s.SelectCategory("resume"), &terr)
	assert.Equal(t, StateSelectingFile, terr.From)
}

func TestSession_ResetFromAnyIdleState(t *testing.T) {
	s := newReadySession(t, "resume")
	require.NoError(t, s.Reset())
	assert.Equal(t, StateSelectingFile, s.State)
}

func TestSession_BlankInputIsNotATransitionError(t *testing.T) {
	s := NewSession("s-1", "owner-1", time.Now())
	require.NoError(t, s.SelectFile(File{Name: "a.pdf"}))

	err := s.SelectCategory("  ")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StateSelectingCategory, s.State)
}
