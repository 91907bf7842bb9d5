package activity

import (
	"context"
	"errors"
	"fmt"

	"github.com/foresy/backend/internal/domain/activity"
	"github.com/foresy/backend/internal/domain/shared"
	"github.com/foresy/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReportService handles the report lifecycle: opening a monthly report,
// reading it back and moving it through draft, submitted and locked.
type ReportService struct {
	db     *gorm.DB
	repos  RepositoryFactory
	policy *activity.Policy
	logger *zap.Logger
}

// NewReportService creates a new ReportService
func NewReportService(db *gorm.DB, repos RepositoryFactory, policy *activity.Policy, logger *zap.Logger) *ReportService {
	return &ReportService{
		db:     db,
		repos:  repos,
		policy: policy,
		logger: logger,
	}
}

// Create opens a new draft report for the given month. A user holds at
// most one report per period.
func (s *ReportService) Create(ctx context.Context, userID uuid.UUID, req CreateReportRequest) (*ReportResponse, error) {
	currency := valueobject.DefaultCurrency
	if req.Currency != "" {
		currency = valueobject.Currency(req.Currency)
	}

	var resp *ReportResponse

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := s.repos(tx)

		existing, err := repos.Reports.FindByOwnerAndPeriod(ctx, userID, req.Month, req.Year)
		if err != nil && !isNotFound(err) {
			return s.wrap(err, "check period")
		}
		if existing != nil {
			return shared.NewConflictError("REPORT_EXISTS",
				fmt.Sprintf("A report for %04d-%02d already exists", req.Year, req.Month))
		}

		report, err := activity.NewReport(userID, req.Month, req.Year, currency)
		if err != nil {
			return err
		}
		if err := repos.Reports.Save(ctx, report); err != nil {
			return s.wrap(err, "save report")
		}

		r := ToReportResponse(report)
		resp = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// Get returns a single report owned by the user
func (s *ReportService) Get(ctx context.Context, reportID, userID uuid.UUID) (*ReportResponse, error) {
	repos := s.repos(s.db)

	report, err := repos.Reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, s.wrap(err, "load report")
	}
	if err := s.policy.AuthorizeReport(report, userID); err != nil {
		return nil, err
	}

	resp := ToReportResponse(report)
	return &resp, nil
}

// List returns the user's reports, newest period first by default
func (s *ReportService) List(ctx context.Context, userID uuid.UUID, req ListReportsRequest) (*shared.Paginated[ReportResponse], error) {
	repos := s.repos(s.db)

	filter := activity.ReportFilter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
		},
		Year:  req.Year,
		Month: req.Month,
	}
	if req.Status != nil {
		status := activity.ReportStatus(*req.Status)
		if !status.IsValid() {
			return nil, shared.NewValidationError("INVALID_STATUS", "Status filter is not valid")
		}
		filter.Status = &status
	}
	filter.Normalize()

	page, err := repos.Reports.FindByOwner(ctx, userID, filter)
	if err != nil {
		return nil, s.wrap(err, "list reports")
	}

	items := make([]ReportResponse, 0, len(page.Items))
	for _, r := range page.Items {
		items = append(items, ToReportResponse(r))
	}

	return shared.NewPaginated(items, page.Total, filter.Page, filter.PageSize), nil
}

// Submit moves a draft report to SUBMITTED. Empty reports cannot be
// submitted; at least one active entry is required.
func (s *ReportService) Submit(ctx context.Context, reportID, userID uuid.UUID) (*ReportResponse, error) {
	return s.transition(ctx, reportID, userID, func(report *activity.Report, repos Repositories) error {
		totals, err := repos.Entries.TotalsForReport(ctx, report.ID)
		if err != nil {
			return s.wrap(err, "aggregate totals")
		}
		if totals.TotalDays.IsZero() {
			return shared.NewConflictError("EMPTY_REPORT", "Cannot submit a report without entries")
		}
		return report.Submit()
	})
}

// Lock moves a submitted report to LOCKED, its terminal state
func (s *ReportService) Lock(ctx context.Context, reportID, userID uuid.UUID) (*ReportResponse, error) {
	return s.transition(ctx, reportID, userID, func(report *activity.Report, repos Repositories) error {
		return report.Lock()
	})
}

func (s *ReportService) transition(ctx context.Context, reportID, userID uuid.UUID, apply func(*activity.Report, Repositories) error) (*ReportResponse, error) {
	var resp *ReportResponse

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := s.repos(tx)

		report, err := repos.Reports.FindByIDForUpdate(ctx, reportID)
		if err != nil {
			return s.wrap(err, "load report")
		}
		if err := s.policy.AuthorizeReport(report, userID); err != nil {
			return err
		}
		if err := apply(report, repos); err != nil {
			return err
		}
		if err := repos.Reports.Update(ctx, report); err != nil {
			return s.wrap(err, "save report")
		}

		r := ToReportResponse(report)
		resp = &r
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (s *ReportService) wrap(err error, op string) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	s.logger.Error("report operation failed",
		zap.String("op", op),
		zap.Error(err),
	)
	return shared.NewDomainError(shared.KindInternal, "INTERNAL_ERROR", "An unexpected error occurred")
}

func isNotFound(err error) bool {
	var domainErr *shared.DomainError
	return errors.As(err, &domainErr) && domainErr.Kind == shared.KindNotFound
}
