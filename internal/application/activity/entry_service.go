package activity

import (
	"context"
	"errors"

	"github.com/foresy/backend/internal/domain/activity"
	"github.com/foresy/backend/internal/domain/mission"
	"github.com/foresy/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories bundles the persistence interfaces an entry mutation
// touches. The factory binds them to one transaction handle so that
// guards, writes, link maintenance and recalculation commit atomically.
type Repositories struct {
	Reports  activity.ReportRepository
	Entries  activity.EntryRepository
	Links    activity.ReportMissionLinkRepository
	Missions mission.Repository
}

// RepositoryFactory builds repositories bound to the given transaction
type RepositoryFactory func(tx *gorm.DB) Repositories

// EntryService orchestrates entry create, update, destroy and list.
// Every mutation runs policy checks, the duplicate check, the write,
// association maintenance and totals recalculation in one transaction.
type EntryService struct {
	db     *gorm.DB
	repos  RepositoryFactory
	policy *activity.Policy
	logger *zap.Logger
}

// NewEntryService creates a new EntryService
func NewEntryService(db *gorm.DB, repos RepositoryFactory, policy *activity.Policy, logger *zap.Logger) *EntryService {
	return &EntryService{
		db:     db,
		repos:  repos,
		policy: policy,
		logger: logger,
	}
}

// Create adds an entry to a draft report
func (s *EntryService) Create(ctx context.Context, reportID, userID uuid.UUID, req CreateEntryRequest) (*EntryMutationResponse, error) {
	// Normalize before the duplicate check so the lookup matches what
	// gets stored in the DATE column.
	entryDate := activity.NormalizeEntryDate(req.EntryDate)

	var resp *EntryMutationResponse

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := s.repos(tx)

		report, err := repos.Reports.FindByIDForUpdate(ctx, reportID)
		if err != nil {
			return s.wrap(err, "load report")
		}
		if err := s.policy.AuthorizeReport(report, userID); err != nil {
			return err
		}
		if err := s.policy.EnsureReportEditable(report); err != nil {
			return err
		}

		m, err := repos.Missions.FindByID(ctx, req.MissionID)
		if err != nil {
			return s.wrap(err, "load mission")
		}
		if err := s.policy.AuthorizeMission(m, userID); err != nil {
			return err
		}

		if err := s.policy.ValidateEntryFields(report, entryDate, req.Quantity, req.UnitPrice, req.Description, true); err != nil {
			return err
		}

		duplicate, err := repos.Entries.ExistsActiveDuplicate(ctx, report.ID, m.ID, entryDate, nil)
		if err != nil {
			return s.wrap(err, "duplicate check")
		}
		if duplicate {
			return shared.NewConflictError("DUPLICATE_ENTRY", "An active entry for this mission and date already exists")
		}

		entry, err := activity.NewEntry(report.ID, m.ID, entryDate, req.Quantity, req.UnitPrice, req.Description)
		if err != nil {
			return err
		}
		if err := repos.Entries.Save(ctx, entry); err != nil {
			return s.wrap(err, "save entry")
		}

		if err := repos.Links.Ensure(ctx, report.ID, m.ID); err != nil {
			return s.wrap(err, "link mission")
		}

		if err := s.recalculate(ctx, repos, report); err != nil {
			return err
		}

		resp = &EntryMutationResponse{
			Entry:  ToEntryResponse(entry),
			Report: ToReportResponse(report),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// Update applies a partial change to an existing entry
func (s *EntryService) Update(ctx context.Context, entryID, userID uuid.UUID, req UpdateEntryRequest) (*EntryMutationResponse, error) {
	if req.IsEmpty() {
		return nil, shared.NewValidationError("EMPTY_UPDATE", "At least one field must be provided")
	}

	var resp *EntryMutationResponse

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := s.repos(tx)

		entry, err := repos.Entries.FindByID(ctx, entryID)
		if err != nil {
			return s.wrap(err, "load entry")
		}
		if entry.IsDeleted() {
			return shared.NewDomainError(shared.KindNotFound, "ENTRY_NOT_FOUND", "Entry not found")
		}

		report, err := repos.Reports.FindByIDForUpdate(ctx, entry.ReportID)
		if err != nil {
			return s.wrap(err, "load report")
		}
		if err := s.policy.AuthorizeReport(report, userID); err != nil {
			return err
		}
		if err := s.policy.EnsureReportEditable(report); err != nil {
			return err
		}

		oldMissionID := entry.MissionID

		newMissionID := entry.MissionID
		if req.MissionID != nil {
			newMissionID = *req.MissionID
			m, err := repos.Missions.FindByID(ctx, newMissionID)
			if err != nil {
				return s.wrap(err, "load mission")
			}
			if err := s.policy.AuthorizeMission(m, userID); err != nil {
				return err
			}
		}

		newDate := entry.EntryDate
		if req.EntryDate != nil {
			newDate = activity.NormalizeEntryDate(*req.EntryDate)
		}
		newQuantity := entry.Quantity
		if req.Quantity != nil {
			newQuantity = *req.Quantity
		}
		newUnitPrice := entry.UnitPrice
		if req.UnitPrice != nil {
			newUnitPrice = *req.UnitPrice
		}
		newDescription := entry.Description
		if req.Description != nil {
			newDescription = *req.Description
		}

		if err := s.policy.ValidateEntryFields(report, newDate, newQuantity, newUnitPrice, newDescription, false); err != nil {
			return err
		}

		if newMissionID != oldMissionID || !newDate.Equal(entry.EntryDate) {
			duplicate, err := repos.Entries.ExistsActiveDuplicate(ctx, report.ID, newMissionID, newDate, &entry.ID)
			if err != nil {
				return s.wrap(err, "duplicate check")
			}
			if duplicate {
				return shared.NewConflictError("DUPLICATE_ENTRY", "An active entry for this mission and date already exists")
			}
		}

		if err := entry.Update(newDate, newQuantity, newUnitPrice, newDescription); err != nil {
			return err
		}
		if newMissionID != oldMissionID {
			if err := entry.Reassign(newMissionID); err != nil {
				return err
			}
		}
		if err := repos.Entries.Update(ctx, entry); err != nil {
			return s.wrap(err, "save entry")
		}

		if newMissionID != oldMissionID {
			if err := repos.Links.Ensure(ctx, report.ID, newMissionID); err != nil {
				return s.wrap(err, "link mission")
			}
			if err := s.pruneLink(ctx, repos, report.ID, oldMissionID); err != nil {
				return err
			}
		}

		if err := s.recalculate(ctx, repos, report); err != nil {
			return err
		}

		resp = &EntryMutationResponse{
			Entry:  ToEntryResponse(entry),
			Report: ToReportResponse(report),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// Destroy soft deletes an entry, keeping the row for history
func (s *EntryService) Destroy(ctx context.Context, entryID, userID uuid.UUID) (*EntryMutationResponse, error) {
	var resp *EntryMutationResponse

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := s.repos(tx)

		entry, err := repos.Entries.FindByID(ctx, entryID)
		if err != nil {
			return s.wrap(err, "load entry")
		}
		if entry.IsDeleted() {
			return shared.NewDomainError(shared.KindNotFound, "ENTRY_NOT_FOUND", "Entry not found")
		}

		report, err := repos.Reports.FindByIDForUpdate(ctx, entry.ReportID)
		if err != nil {
			return s.wrap(err, "load report")
		}
		if err := s.policy.AuthorizeReport(report, userID); err != nil {
			return err
		}
		if err := s.policy.EnsureReportEditable(report); err != nil {
			return err
		}

		// snapshot before the delete so the caller sees what was removed
		prior := ToEntryResponse(entry)

		if err := entry.SoftDelete(); err != nil {
			return err
		}
		if err := repos.Entries.Update(ctx, entry); err != nil {
			return s.wrap(err, "save entry")
		}

		if err := s.pruneLink(ctx, repos, report.ID, entry.MissionID); err != nil {
			return err
		}

		if err := s.recalculate(ctx, repos, report); err != nil {
			return err
		}

		prior.DeletedAt = entry.DeletedAt
		resp = &EntryMutationResponse{
			Entry:  prior,
			Report: ToReportResponse(report),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// List returns a filtered, sorted page of the report's active entries
func (s *EntryService) List(ctx context.Context, reportID, userID uuid.UUID, req ListEntriesRequest) (*ListEntriesResponse, error) {
	repos := s.repos(s.db)

	report, err := repos.Reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, s.wrap(err, "load report")
	}
	if err := s.policy.AuthorizeReport(report, userID); err != nil {
		return nil, err
	}

	filter := activity.EntryFilter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			OrderBy:  req.OrderBy,
			OrderDir: req.OrderDir,
			Search:   req.Search,
		},
		MissionID:    req.MissionID,
		DateFrom:     req.DateFrom,
		DateTo:       req.DateTo,
		QuantityMin:  req.QuantityMin,
		QuantityMax:  req.QuantityMax,
		UnitPriceMin: req.UnitPriceMin,
		UnitPriceMax: req.UnitPriceMax,
	}
	filter.Normalize()

	page, err := repos.Entries.FindByReport(ctx, report.ID, filter)
	if err != nil {
		return nil, s.wrap(err, "list entries")
	}

	entries := make([]EntryResponse, 0, len(page.Items))
	for _, e := range page.Items {
		entries = append(entries, ToEntryResponse(e))
	}

	return &ListEntriesResponse{
		Entries:  entries,
		Total:    page.Total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Report:   ToReportResponse(report),
	}, nil
}

// recalculate refreshes the report totals from its active entries
func (s *EntryService) recalculate(ctx context.Context, repos Repositories, report *activity.Report) error {
	totals, err := repos.Entries.TotalsForReport(ctx, report.ID)
	if err != nil {
		return s.wrap(err, "aggregate totals")
	}
	report.ApplyTotals(totals.TotalDays, totals.TotalAmount)
	if err := repos.Reports.Update(ctx, report); err != nil {
		return s.wrap(err, "save report totals")
	}
	return nil
}

// pruneLink drops the report-mission link once no active entry of the
// report references the mission anymore
func (s *EntryService) pruneLink(ctx context.Context, repos Repositories, reportID, missionID uuid.UUID) error {
	count, err := repos.Entries.CountActiveByReportAndMission(ctx, reportID, missionID)
	if err != nil {
		return s.wrap(err, "count mission references")
	}
	if count == 0 {
		if err := repos.Links.Remove(ctx, reportID, missionID); err != nil {
			return s.wrap(err, "unlink mission")
		}
	}
	return nil
}

// wrap passes domain errors through untouched and converts anything
// else to an internal error with the cause logged, never exposed
func (s *EntryService) wrap(err error, op string) error {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	s.logger.Error("entry operation failed",
		zap.String("op", op),
		zap.Error(err),
	)
	return shared.NewDomainError(shared.KindInternal, "INTERNAL_ERROR", "An unexpected error occurred")
}
