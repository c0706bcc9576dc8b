package applications

import (
	"context"
	"errors"
	"fmt"

	"github.com/friplass/booking-api/internal/domain"
	appRepo "github.com/friplass/booking-api/internal/infra/storage/application"
)

// Service exposes the session-scoped application operations: listing and
// managing drafts and answering eligibility questions about them.
type Service struct {
	repo      ApplicationRepository
	evaluator DirectBookingEvaluator
	logger    Logger
}

// NewService creates the applications service.
func NewService(repo ApplicationRepository, evaluator DirectBookingEvaluator, logger Logger) *Service {
	return &Service{
		repo:      repo,
		evaluator: evaluator,
		logger:    logger,
	}
}

// GetPartials lists the session's drafts, oldest first.
func (s *Service) GetPartials(ctx context.Context, sessionID string) ([]*domain.Application, error) {
	apps, err := s.repo.GetPartialsBySession(ctx, sessionID)
	if err != nil {
		s.logger.Error("GetPartials: repository error for session: %v", err)
		return nil, fmt.Errorf("%w: GetPartials - repository error: %v", ErrInternal, err)
	}
	return apps, nil
}

// GetByID loads one application. The session must own it: either it is the
// session's draft, or a finalized application reached through its secret is
// handled elsewhere.
func (s *Service) GetByID(ctx context.Context, id int64, sessionID string) (*domain.Application, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appRepo.ErrApplicationNotFound) {
			s.logger.Warn("GetByID: application id=%d not found", id)
			return nil, ErrApplicationNotFound
		}
		s.logger.Error("GetByID: repository error for application id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if app.SessionID == nil || *app.SessionID != sessionID {
		s.logger.Warn("GetByID: session does not own application id=%d", id)
		return nil, ErrAccessDenied
	}
	return app, nil
}

// CreatePartial opens a new draft for the session.
func (s *Service) CreatePartial(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	if app.SessionID == nil || *app.SessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	if app.BuildingID == 0 {
		return nil, fmt.Errorf("%w: building id is required", ErrInvalidInput)
	}
	if len(app.Dates) == 0 {
		return nil, fmt.Errorf("%w: at least one date is required", ErrInvalidInput)
	}
	for _, d := range app.Dates {
		if !d.From.Before(d.To) {
			return nil, fmt.Errorf("%w: date range must have from before to", ErrInvalidInput)
		}
	}

	created, err := s.repo.CreatePartial(ctx, app)
	if err != nil {
		s.logger.Error("CreatePartial: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreatePartial - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreatePartial: created draft id=%d for building=%d", created.ID, created.BuildingID)
	return created, nil
}

// DeletePartial removes the session's draft. Finalized applications cannot
// be deleted this way.
func (s *Service) DeletePartial(ctx context.Context, id int64, sessionID string) error {
	app, err := s.GetByID(ctx, id, sessionID)
	if err != nil {
		return err
	}
	if !app.IsDraft() {
		return ErrNotDraft
	}

	if err := s.repo.DeletePartial(ctx, id); err != nil {
		if errors.Is(err, appRepo.ErrNotDraft) {
			return ErrNotDraft
		}
		if errors.Is(err, appRepo.ErrApplicationNotFound) {
			return ErrApplicationNotFound
		}
		s.logger.Error("DeletePartial: repository error for application id=%d: %v", id, err)
		return fmt.Errorf("%w: DeletePartial - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeletePartial: deleted draft id=%d", id)
	return nil
}

// IsDirectBookingEligible answers the eligibility question for one of the
// session's applications without committing anything.
func (s *Service) IsDirectBookingEligible(ctx context.Context, id int64, sessionID, ssn string) (bool, error) {
	app, err := s.GetByID(ctx, id, sessionID)
	if err != nil {
		return false, err
	}

	eligible, err := s.evaluator.IsEligible(ctx, app, ssn)
	if err != nil {
		s.logger.Error("IsDirectBookingEligible: evaluator error for application id=%d: %v", id, err)
		return false, fmt.Errorf("%w: IsDirectBookingEligible - evaluator error: %v", ErrInternal, err)
	}
	if !eligible {
		return false, nil
	}

	// Eligibility includes the dates: a range checkout would refuse is not
	// direct-bookable either.
	collides, err := s.evaluator.HasCollision(ctx, app)
	if err != nil {
		s.logger.Error("IsDirectBookingEligible: collision check failed for application id=%d: %v", id, err)
		return false, fmt.Errorf("%w: IsDirectBookingEligible - collision check: %v", ErrInternal, err)
	}
	return !collides, nil
}
