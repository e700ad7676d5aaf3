package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/submission-validator/internal/metrics"
	"alfredoptarigan/submission-validator/internal/models"
	"alfredoptarigan/submission-validator/internal/repositories"
	"alfredoptarigan/submission-validator/internal/wizard"
)

// SessionService drives wizard sessions stored in a SessionStore. Every
// transition is applied through the store's atomic Update, so two validate
// calls on one session cannot both enter wizard.StateValidating.
//
// Sessions belong to the caller that created them. Any other owner gets
// repositories.ErrSessionNotFound.
type SessionService interface {
	Create(ctx context.Context, owner string) (*wizard.Session, error)
	Get(ctx context.Context, owner, id string) (*wizard.Session, error)
	SelectFile(ctx context.Context, owner, id string, file wizard.File) (*wizard.Session, error)
	SelectCategory(ctx context.Context, owner, id, category, customType string) (*wizard.Session, error)
	Back(ctx context.Context, owner, id string) (*wizard.Session, error)
	Validate(ctx context.Context, owner, id string) (*wizard.Session, Confidence, error)
	Reset(ctx context.Context, owner, id string) (*wizard.Session, error)
}

type sessionService struct {
	store     repositories.SessionStore
	validator ValidatorService
	log       *zap.Logger
	now       func() time.Time
}

func NewSessionService(store repositories.SessionStore, validator ValidatorService, log *zap.Logger) SessionService {
	return &sessionService{
		store:     store,
		validator: validator,
		log:       log,
		now:       time.Now,
	}
}

func (s *sessionService) Create(ctx context.Context, owner string) (*wizard.Session, error) {
	if owner == "" {
		return nil, fmt.Errorf("%w: session owner is required", wizard.ErrInvalidInput)
	}

	session := wizard.NewSession(uuid.New().String(), owner, s.now())
	if err := s.store.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	metrics.WizardTransitions.WithLabelValues(string(session.State)).Inc()
	s.log.Debug("wizard session created", zap.String("session_id", session.ID))
	return session, nil
}

func (s *sessionService) Get(ctx context.Context, owner, id string) (*wizard.Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.OwnerID != owner {
		return nil, repositories.ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionService) SelectFile(ctx context.Context, owner, id string, file wizard.File) (*wizard.Session, error) {
	return s.transition(ctx, owner, id, func(session *wizard.Session) error {
		return session.SelectFile(file)
	})
}

// SelectCategory picks a category. For wizard.OthersCategory a non-empty
// customType completes the free-text step in the same call.
func (s *sessionService) SelectCategory(ctx context.Context, owner, id, category, customType string) (*wizard.Session, error) {
	return s.transition(ctx, owner, id, func(session *wizard.Session) error {
		if err := session.SelectCategory(category); err != nil {
			return err
		}
		if session.Category == wizard.OthersCategory && customType != "" {
			return session.DescribeCustomType(customType)
		}
		return nil
	})
}

func (s *sessionService) Back(ctx context.Context, owner, id string) (*wizard.Session, error) {
	return s.transition(ctx, owner, id, func(session *wizard.Session) error {
		return session.Back()
	})
}

func (s *sessionService) Reset(ctx context.Context, owner, id string) (*wizard.Session, error) {
	return s.transition(ctx, owner, id, func(session *wizard.Session) error {
		return session.Reset()
	})
}

// Validate runs the selected file through the validator. On failure the
// session returns to wizard.StateReadyToValidate with LastError set and the
// validator's error is returned alongside the session.
func (s *sessionService) Validate(ctx context.Context, owner, id string) (*wizard.Session, Confidence, error) {
	var req models.ValidationRequest
	if _, err := s.transition(ctx, owner, id, func(session *wizard.Session) error {
		r, err := session.BeginValidation()
		if err != nil {
			return err
		}
		req = r
		return nil
	}); err != nil {
		return nil, "", err
	}

	result, validateErr := s.validator.Validate(ctx, req)

	// The outcome must be recorded even if the caller has gone away,
	// otherwise the session stays in StateValidating.
	finishCtx := context.WithoutCancel(ctx)

	if validateErr != nil {
		session, err := s.transition(finishCtx, owner, id, func(session *wizard.Session) error {
			return session.Fail(validateErr)
		})
		if err != nil {
			s.log.Error("failed to record validation failure",
				zap.String("session_id", id),
				zap.Error(err),
			)
		}
		return session, "", validateErr
	}

	session, err := s.transition(finishCtx, owner, id, func(session *wizard.Session) error {
		return session.Complete(result.Report)
	})
	if err != nil {
		return nil, "", err
	}
	return session, result.Confidence, nil
}

func (s *sessionService) transition(ctx context.Context, owner, id string, fn func(*wizard.Session) error) (*wizard.Session, error) {
	now := s.now()
	session, err := s.store.Update(ctx, id, func(session *wizard.Session) error {
		if session.OwnerID != owner {
			return repositories.ErrSessionNotFound
		}
		if err := fn(session); err != nil {
			return err
		}
		session.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.WizardTransitions.WithLabelValues(string(session.State)).Inc()
	return session, nil
}
