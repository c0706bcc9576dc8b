package checkout

import (
	"context"
	"fmt"

	"github.com/friplass/booking-api/internal/domain"
	"github.com/friplass/booking-api/pkg/ptr"
)

// UseCase finalizes every draft a session holds in one atomic batch.
//
// For each draft the outcome is one of three states:
//   - ACCEPTED: every resource allows direct booking, the customer is under
//     all booking limits, and no requested date collides. A confirmed event
//     is created per date.
//   - REJECTED (skipped): direct booking would apply but a date collides.
//   - NEW: direct booking does not apply; the application goes to manual
//     review.
//
// The whole batch runs inside one serializable transaction with the drafts
// row-locked, so two sessions racing for the same slot cannot both end up
// ACCEPTED.
type UseCase struct {
	appRepo      ApplicationRepository
	scheduleRepo ScheduleRepository
	evaluator    DirectBookingEvaluator
	txManager    TransactionManager
	notifier     Notifier
	logger       Logger
}

// NewUseCase creates the checkout use case.
func NewUseCase(
	appRepo ApplicationRepository,
	scheduleRepo ScheduleRepository,
	evaluator DirectBookingEvaluator,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		appRepo:      appRepo,
		scheduleRepo: scheduleRepo,
		evaluator:    evaluator,
		txManager:    txManager,
		notifier:     notifier,
		logger:       logger,
	}
}

// Execute runs the checkout. On success every draft of the session is
// finalized and the response lists the per-application outcomes.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("Checkout: starting for session, customer_type=%s", req.CustomerType)

	if req.SessionID == "" {
		return nil, ErrSessionRequired
	}
	if issues := validateRequest(req); len(issues) > 0 {
		uc.logger.Warn("Checkout: validation failed with %d issue(s)", len(issues))
		return nil, &ValidationError{Issues: issues}
	}

	var response *Response
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		var txErr error
		response, txErr = uc.executeInTx(txCtx, req)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	uc.notifyResults(req, response)

	uc.logger.Info("Checkout: finalized %d application(s), parent=%d",
		len(response.Applications), response.ParentID)
	return response, nil
}

func (uc *UseCase) executeInTx(ctx context.Context, req *Request) (*Response, error) {
	apps, err := uc.appRepo.GetPartialsBySession(ctx, req.SessionID)
	if err != nil {
		uc.logger.Error("Checkout: failed to load drafts: %v", err)
		return nil, fmt.Errorf("%w: Execute - load drafts: %v", ErrInternal, err)
	}
	if len(apps) == 0 {
		uc.logger.Warn("Checkout: session has no drafts")
		return nil, ErrNoPartials
	}

	// The anchor groups the batch: either the caller-provided application or
	// the first draft. The anchor itself keeps a nil parent.
	anchorID := apps[0].ID
	if req.ParentID != nil {
		anchorID = *req.ParentID
	}

	response := &Response{ParentID: anchorID}

	for _, app := range apps {
		result, err := uc.finalizeOne(ctx, req, app, anchorID)
		if err != nil {
			return nil, err
		}
		response.Applications = append(response.Applications, result)
	}

	return response, nil
}

// finalizeOne decides and persists the outcome for a single draft.
func (uc *UseCase) finalizeOne(ctx context.Context, req *Request, app *domain.Application, anchorID int64) (ApplicationResult, error) {
	stampContact(app, req)

	status := domain.StatusNew
	skipped := false
	var eventIDs []int64

	eligible, err := uc.evaluator.IsEligible(ctx, app, req.CustomerSSN)
	if err != nil {
		return ApplicationResult{}, fmt.Errorf("%w: Execute - eligibility check for application=%d: %v", ErrInternal, app.ID, err)
	}

	if eligible {
		collides, err := uc.evaluator.HasCollision(ctx, app)
		if err != nil {
			return ApplicationResult{}, fmt.Errorf("%w: Execute - collision check for application=%d: %v", ErrInternal, app.ID, err)
		}
		if collides {
			// The slot was taken between draft and checkout. Refuse rather
			// than queue, so the customer can immediately pick another time.
			status = domain.StatusRejected
			skipped = true
			uc.logger.Info("Checkout: application=%d rejected, requested time already taken", app.ID)
		} else {
			status = domain.StatusAccepted
		}
	}

	stamp := buildStamp(req, status, anchorID, app.ID)
	if err := uc.appRepo.Finalize(ctx, app.ID, stamp); err != nil {
		uc.logger.Error("Checkout: failed to finalize application=%d: %v", app.ID, err)
		return ApplicationResult{}, fmt.Errorf("%w: Execute - finalize application=%d: %v", ErrInternal, app.ID, err)
	}
	app.Status = status

	if status == domain.StatusAccepted {
		eventIDs, err = uc.materializeEvents(ctx, app)
		if err != nil {
			return ApplicationResult{}, err
		}
	}

	return ApplicationResult{
		ID:         app.ID,
		Status:     status,
		Skipped:    skipped,
		BuildingID: app.BuildingID,
		EventIDs:   eventIDs,
	}, nil
}

// materializeEvents creates one confirmed event per requested date and
// repoints the application's purchase orders at the first of them.
func (uc *UseCase) materializeEvents(ctx context.Context, app *domain.Application) ([]int64, error) {
	eventIDs := make([]int64, 0, len(app.Dates))
	for _, date := range app.Dates {
		eventID, err := uc.scheduleRepo.CreateEventFromApplication(ctx, app, date)
		if err != nil {
			uc.logger.Error("Checkout: failed to create event for application=%d: %v", app.ID, err)
			return nil, fmt.Errorf("%w: Execute - create event for application=%d: %v", ErrInternal, app.ID, err)
		}
		eventIDs = append(eventIDs, eventID)
	}

	if len(eventIDs) > 0 {
		if err := uc.scheduleRepo.AttachPurchaseOrdersToEvent(ctx, app.ID, eventIDs[0]); err != nil {
			uc.logger.Error("Checkout: failed to attach purchase orders for application=%d: %v", app.ID, err)
			return nil, fmt.Errorf("%w: Execute - attach purchase orders for application=%d: %v", ErrInternal, app.ID, err)
		}
	}

	uc.logger.Info("Checkout: application=%d accepted, created %d event(s)", app.ID, len(eventIDs))
	return eventIDs, nil
}

// Validate is the dry run: the same form validation and the same
// eligibility and collision questions, with nothing written.
func (uc *UseCase) Validate(ctx context.Context, req *Request) (*ValidateResponse, error) {
	if req.SessionID == "" {
		return nil, ErrSessionRequired
	}

	response := &ValidateResponse{Valid: true}
	if issues := validateRequest(req); len(issues) > 0 {
		response.Valid = false
		response.Issues = issues
	}

	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		apps, err := uc.appRepo.GetPartialsBySession(txCtx, req.SessionID)
		if err != nil {
			return fmt.Errorf("%w: Validate - load drafts: %v", ErrInternal, err)
		}
		if len(apps) == 0 {
			return ErrNoPartials
		}

		// During Execute the drafts are finalized one by one inside a single
		// transaction, so every non-rejected sibling counts toward the rolling
		// limit of the drafts after it. The dry run mirrors that by carrying a
		// pending count per resource across the batch.
		pending := make(map[int64]int)

		for _, app := range apps {
			stampContact(app, req)

			eligible, err := uc.evaluator.IsEligible(txCtx, app, req.CustomerSSN)
			if err != nil {
				return fmt.Errorf("%w: Validate - eligibility check for application=%d: %v", ErrInternal, app.ID, err)
			}

			collides := false
			if eligible {
				collides, err = uc.evaluator.HasCollision(txCtx, app)
				if err != nil {
					return fmt.Errorf("%w: Validate - collision check for application=%d: %v", ErrInternal, app.ID, err)
				}
			}

			limits, err := uc.evaluator.BookingLimits(txCtx, app, req.CustomerSSN)
			if err != nil {
				return fmt.Errorf("%w: Validate - booking limits for application=%d: %v", ErrInternal, app.ID, err)
			}
			for i := range limits {
				limits[i].Used += pending[limits[i].ResourceID]
				if eligible && limits[i].Used >= limits[i].Limit {
					eligible = false
				}
			}

			rejected := eligible && collides
			if !rejected {
				for _, resourceID := range app.ResourceIDs {
					pending[resourceID]++
				}
			}

			response.Applications = append(response.Applications, ValidateApplicationResult{
				ID:                   app.ID,
				WouldBeDirectBooking: eligible && !collides,
				HasCollision:         collides,
				BookingLimits:        limits,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return response, nil
}

func (uc *UseCase) notifyResults(req *Request, response *Response) {
	for _, result := range response.Applications {
		// A rejected draft stays with the customer to rebook; only the
		// finalized outcomes are announced.
		if result.Skipped {
			continue
		}
		uc.notifier.Publish(NotificationEvent{
			ApplicationID: result.ID,
			Status:        result.Status,
			ContactName:   req.ContactName,
			ContactEmail:  req.ContactEmail,
			EventTitle:    req.EventTitle,
			BuildingID:    result.BuildingID,
			EventIDs:      result.EventIDs,
		})
	}
}

// stampContact copies the checkout form onto the draft in memory so the
// eligibility evaluation and event creation see the final data.
func stampContact(app *domain.Application, req *Request) {
	app.ContactName = req.ContactName
	app.ContactEmail = req.ContactEmail
	app.ContactPhone = req.ContactPhone
	app.ResponsibleStreet = req.Street
	app.ResponsibleZipCode = req.ZipCode
	app.ResponsibleCity = req.City
	app.Name = req.EventTitle
	app.Organizer = req.OrganizerName

	ct := req.CustomerType
	app.CustomerIdentifierType = &ct
	switch req.CustomerType {
	case domain.CustomerTypeSSN:
		app.CustomerSSN = ptr.Ptr(req.CustomerSSN)
		app.CustomerOrganizationNumber = nil
		app.CustomerOrganizationName = nil
	case domain.CustomerTypeOrganization:
		app.CustomerSSN = nil
		app.CustomerOrganizationNumber = ptr.Ptr(req.OrganizationNumber)
		app.CustomerOrganizationName = ptr.Ptr(req.OrganizationName)
	}
}

func buildStamp(req *Request, status domain.ApplicationStatus, anchorID, appID int64) domain.FinalizationStamp {
	stamp := domain.FinalizationStamp{
		Status:                 status,
		CustomerIdentifierType: req.CustomerType,
		ContactName:            req.ContactName,
		ContactEmail:           req.ContactEmail,
		ContactPhone:           req.ContactPhone,
		ResponsibleStreet:      req.Street,
		ResponsibleZipCode:     req.ZipCode,
		ResponsibleCity:        req.City,
		Name:                   req.EventTitle,
		Organizer:              req.OrganizerName,
	}

	// The anchor keeps a nil parent; every sibling points at it.
	if appID != anchorID {
		stamp.ParentID = ptr.Ptr(anchorID)
	}

	switch req.CustomerType {
	case domain.CustomerTypeSSN:
		stamp.CustomerSSN = ptr.Ptr(req.CustomerSSN)
	case domain.CustomerTypeOrganization:
		stamp.CustomerOrganizationNumber = ptr.Ptr(req.OrganizationNumber)
		stamp.CustomerOrganizationName = ptr.Ptr(req.OrganizationName)
	}

	return stamp
}
