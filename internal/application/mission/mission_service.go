package mission

import (
	"context"
	"errors"

	"github.com/foresy/backend/internal/domain/mission"
	"github.com/foresy/backend/internal/domain/shared"
	"github.com/foresy/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service handles mission business operations
type Service struct {
	repo   mission.Repository
	logger *zap.Logger
}

// NewService creates a new mission Service
func NewService(repo mission.Repository, logger *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Create registers a new mission in LEAD status
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateMissionRequest) (*MissionResponse, error) {
	currency := valueobject.DefaultCurrency
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}

	m, err := mission.NewMission(userID, req.Name, mission.PricingMode(req.PricingMode), req.DailyRate, req.FixedPrice, currency)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, s.wrap(err, "save mission")
	}

	resp := ToMissionResponse(m)
	return &resp, nil
}

// Get returns a single mission owned by the user
func (s *Service) Get(ctx context.Context, missionID, userID uuid.UUID) (*MissionResponse, error) {
	m, err := s.authorized(ctx, missionID, userID)
	if err != nil {
		return nil, err
	}

	resp := ToMissionResponse(m)
	return &resp, nil
}

// List returns the user's missions
func (s *Service) List(ctx context.Context, userID uuid.UUID, req ListMissionsRequest) (*shared.Paginated[MissionResponse], error) {
	filter := mission.Filter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
			Search:   req.Search,
		},
	}
	if req.Status != nil {
		status := mission.Status(*req.Status)
		if !status.IsValid() {
			return nil, shared.NewValidationError("INVALID_STATUS", "Status filter is not valid")
		}
		filter.Status = &status
	}
	if req.PricingMode != nil {
		mode := mission.PricingMode(*req.PricingMode)
		if !mode.IsValid() {
			return nil, shared.NewValidationError("INVALID_PRICING_MODE", "Pricing mode filter is not valid")
		}
		filter.PricingMode = &mode
	}
	filter.Normalize()

	page, err := s.repo.FindByOwner(ctx, userID, filter)
	if err != nil {
		return nil, s.wrap(err, "list missions")
	}

	items := make([]MissionResponse, 0, len(page.Items))
	for _, m := range page.Items {
		items = append(items, ToMissionResponse(m))
	}

	return shared.NewPaginated(items, page.Total, filter.Page, filter.PageSize), nil
}

// Update changes a mission's commercial terms while still negotiable
func (s *Service) Update(ctx context.Context, missionID, userID uuid.UUID, req UpdateMissionRequest) (*MissionResponse, error) {
	m, err := s.authorized(ctx, missionID, userID)
	if err != nil {
		return nil, err
	}

	if err := m.Update(req.Name, mission.PricingMode(req.PricingMode), req.DailyRate, req.FixedPrice); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, s.wrap(err, "save mission")
	}

	resp := ToMissionResponse(m)
	return &resp, nil
}

// Transition advances a mission to the requested status
func (s *Service) Transition(ctx context.Context, missionID, userID uuid.UUID, req TransitionMissionRequest) (*MissionResponse, error) {
	m, err := s.authorized(ctx, missionID, userID)
	if err != nil {
		return nil, err
	}

	if err := m.TransitionTo(mission.Status(req.Status)); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, s.wrap(err, "save mission")
	}

	resp := ToMissionResponse(m)
	return &resp, nil
}

// Delete removes a mission that never went under contract
func (s *Service) Delete(ctx context.Context, missionID, userID uuid.UUID) error {
	m, err := s.authorized(ctx, missionID, userID)
	if err != nil {
		return err
	}

	if !m.CanModify() {
		return shared.NewConflictError("MISSION_FROZEN", "Cannot delete a mission that is already under contract")
	}
	if err := s.repo.Delete(ctx, m.ID); err != nil {
		return s.wrap(err, "delete mission")
	}

	return nil
}

func (s *Service) authorized(ctx context.Context, missionID, userID uuid.UUID) (*mission.Mission, error) {
	m, err := s.repo.FindByID(ctx, missionID)
	if err != nil {
		return nil, s.wrap(err, "load mission")
	}
	if !m.IsOwnedBy(userID) {
		return nil, shared.NewDomainError(shared.KindUnauthorized, "NOT_MISSION_OWNER", "User does not have access to this mission")
	}
	return m, nil
}

func (s *Service) wrap(err error, op string) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	s.logger.Error("mission operation failed",
		zap.String("op", op),
		zap.Error(err),
	)
	return shared.NewDomainError(shared.KindInternal, "INTERNAL_ERROR", "An unexpected error occurred")
}
