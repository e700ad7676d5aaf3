package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alfredoptarigan/submission-validator/internal/models"
	"alfredoptarigan/submission-validator/internal/repositories"
	"alfredoptarigan/submission-validator/internal/wizard"
)

const testOwner = "owner-1"

func newTestSessionService(t *testing.T, analyzer Analyzer) SessionService {
	t.Helper()
	return NewSessionService(repositories.NewMemorySessionStore(), newTestValidator(t, analyzer), zap.NewNop())
}

func readySession(t *testing.T, svc SessionService, category, customType string) string {
	t.Helper()
	ctx := context.Background()

	session, err := svc.Create(ctx, testOwner)
	require.NoError(t, err)
	assert.Equal(t, wizard.StateSelectingFile, session.State)

	_, err = svc.SelectFile(ctx, testOwner, session.ID, wizard.File{Name: "resume.pdf", MimeType: "application/pdf", SizeBytes: 1_000_000})
	require.NoError(t, err)

	session, err = svc.SelectCategory(ctx, testOwner, session.ID, category, customType)
	require.NoError(t, err)
	require.Equal(t, wizard.StateReadyToValidate, session.State)
	return session.ID
}

func TestSessionService_ValidateCompletes(t *testing.T) {
	svc := newTestSessionService(t, &fakeAnalyzer{text: validReportJSON})
	id := readySession(t, svc, "resume", "")

	session, confidence, err := svc.Validate(context.Background(), testOwner, id)
	require.NoError(t, err)
	assert.Equal(t, ConfidenceAnalyzed, confidence)
	assert.Equal(t, wizard.StateResults, session.State)
	require.NotNil(t, session.Report)
	assert.Equal(t, 87.0, session.Report.Score)

	stored, err := svc.Get(context.Background(), testOwner, id)
	require.NoError(t, err)
	assert.Equal(t, wizard.StateResults, stored.State)

	session, err = svc.Reset(context.Background(), testOwner, id)
	require.NoError(t, err)
	assert.Equal(t, wizard.StateSelectingFile, session.State)
	assert.Nil(t, session.Report)
}

func TestSessionService_OthersDeclaresCustomType(t *testing.T) {
	analyzer := &fakeAnalyzer{text: "not json"}
	svc := newTestSessionService(t, analyzer)
	id := readySession(t, svc, wizard.OthersCategory, "lab report")

	session, confidence, err := svc.Validate(context.Background(), testOwner, id)
	require.NoError(t, err)
	assert.Equal(t, ConfidenceDegraded, confidence)
	assert.Equal(t, models.ReportStatusWarning, session.Report.Status)
	assert.Contains(t, analyzer.prompts[0].User, "- Submission Type: lab report")
}

func TestSessionService_AnalyzerFailureReturnsToReady(t *testing.T) {
	svc := newTestSessionService(t, &fakeAnalyzer{err: NewStatusError(429, "")})
	id := readySession(t, svc, "resume", "")

	session, _, err := svc.Validate(context.Background(), testOwner, id)
	assert.ErrorIs(t, err, ErrRateLimited)
	require.NotNil(t, session)
	assert.Equal(t, wizard.StateReadyToValidate, session.State)
	assert.NotEmpty(t, session.LastError)
	assert.Nil(t, session.Report)
}

func TestSessionService_SingleFlight(t *testing.T) {
	analyzer := &fakeAnalyzer{text: validReportJSON, block: make(chan struct{})}
	svc := newTestSessionService(t, analyzer)
	id := readySession(t, svc, "resume", "")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _, err := svc.Validate(context.Background(), testOwner, id)
		assert.NoError(t, err)
	}()

	require.Eventually(t, func() bool { return analyzer.calls() == 1 }, time.Second, 5*time.Millisecond)

	_, _, err := svc.Validate(context.Background(), testOwner, id)
	assert.ErrorIs(t, err, wizard.ErrValidationInFlight)

	_, err = svc.Reset(context.Background(), testOwner, id)
	assert.ErrorIs(t, err, wizard.ErrValidationInFlight)

	close(analyzer.block)
	wg.Wait()

	stored, err := svc.Get(context.Background(), testOwner, id)
	require.NoError(t, err)
	assert.Equal(t, wizard.StateResults, stored.State)
	assert.Equal(t, 1, analyzer.calls())
}

func TestSessionService_Guards(t *testing.T) {
	svc := newTestSessionService(t, &fakeAnalyzer{text: validReportJSON})
	ctx := context.Background()

	_, err := svc.Get(ctx, testOwner, "missing")
	assert.ErrorIs(t, err, repositories.ErrSessionNotFound)

	session, err := svc.Create(ctx, testOwner)
	require.NoError(t, err)

	_, _, err = svc.Validate(ctx, testOwner, session.ID)
	assert.ErrorIs(t, err, wizard.ErrInvalidTransition)

	_, err = svc.SelectCategory(ctx, testOwner, session.ID, "resume", "")
	assert.ErrorIs(t, err, wizard.ErrInvalidTransition)

	_, err = svc.SelectFile(ctx, testOwner, session.ID, wizard.File{Name: "", SizeBytes: 1})
	assert.ErrorIs(t, err, wizard.ErrInvalidFile)

	_, err = svc.SelectFile(ctx, testOwner, session.ID, wizard.File{Name: "a.pdf", SizeBytes: 1})
	require.NoError(t, err)

	session, err = svc.SelectCategory(ctx, testOwner, session.ID, wizard.OthersCategory, "")
	require.NoError(t, err)
	assert.Equal(t, wizard.StateSelectingCategory, session.State)

	session, err = svc.Back(ctx, testOwner, session.ID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StateSelectingFile, session.State)
}

func TestSessionService_OtherOwnerSeesNothing(t *testing.T) {
	svc := newTestSessionService(t, &fakeAnalyzer{text: validReportJSON})
	id := readySession(t, svc, "resume", "")
	ctx := context.Background()

	_, err := svc.Get(ctx, "intruder", id)
	assert.ErrorIs(t, err, repositories.ErrSessionNotFound)

	_, err = svc.Back(ctx, "intruder", id)
	assert.ErrorIs(t, err, repositories.ErrSessionNotFound)

	_, _, err = svc.Validate(ctx, "intruder", id)
	assert.ErrorIs(t, err, repositories.ErrSessionNotFound)

	_, err = svc.Reset(ctx, "intruder", id)
	assert.ErrorIs(t, err, repositories.ErrSessionNotFound)

	stored, err := svc.Get(ctx, testOwner, id)
	require.NoError(t, err)
	assert.Equal(t, wizard.StateReadyToValidate, stored.State)
	assert.Equal(t, testOwner, stored.OwnerID)

	_, err = svc.Create(ctx, "")
	assert.ErrorIs(t, err, wizard.ErrInvalidInput)
}
