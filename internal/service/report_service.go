package service

import (
	"context"
	"errors"

	"follicle/internal/models"
	"follicle/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportService implements abuse reports against posts and comments.
type ReportService struct {
	reportRepo   repository.ReportRepository
	reactionRepo repository.ReactionRepository
	isAdmin      func(ctx context.Context, userID uint) (bool, error)
}

type CreateReportInput struct {
	ReporterID uint
	TargetKind models.TargetKind
	TargetID   uint
	Reason     string
	Detail     string
}

// NewReportService creates a new report service.
func NewReportService(
	reportRepo repository.ReportRepository,
	reactionRepo repository.ReactionRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *ReportService {
	return &ReportService{reportRepo: reportRepo, reactionRepo: reactionRepo, isAdmin: isAdmin}
}

func (s *ReportService) CreateReport(ctx context.Context, in CreateReportInput) (*models.Report, error) {
	if !models.ValidReportReason(in.Reason) {
		return nil, models.NewValidationError("Unknown report reason")
	}
	if in.TargetKind != models.TargetPost && in.TargetKind != models.TargetComment {
		return nil, models.NewValidationError("Report target must be a post or a comment")
	}
	const maxDetailLen = 2000
	if len(in.Detail) > maxDetailLen {
		return nil, models.NewValidationError("Detail too long (max 2000 characters)")
	}

	exists, err := s.reactionRepo.TargetExists(ctx, models.ReactionTarget{Kind: in.TargetKind, ID: in.TargetID})
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError(string(in.TargetKind), in.TargetID)
	}

	report := &models.Report{
		CaseRef:    uuid.New().String(),
		ReporterID: in.ReporterID,
		TargetKind: in.TargetKind,
		TargetID:   in.TargetID,
		Reason:     in.Reason,
		Detail:     in.Detail,
		Status:     models.ReportStatusOpen,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ReportService) ListReports(ctx context.Context, adminID uint, status string, limit, offset int) ([]*models.Report, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.reportRepo.ListByStatus(ctx, status, limit, offset)
}

// ResolveReport closes a report as reviewed or dismissed. Open is the only
// state a report can be resolved from.
func (s *ReportService) ResolveReport(ctx context.Context, adminID, reportID uint, status string) (*models.Report, error) {
	if status != models.ReportStatusReviewed && status != models.ReportStatusDismissed {
		return nil, models.NewValidationError("Resolution must be reviewed or dismissed")
	}
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("report", reportID)
	}
	if err != nil {
		return nil, err
	}
	if report.Status != models.ReportStatusOpen {
		return nil, models.NewInvalidStateError("Report is already resolved")
	}

	if err := s.reportRepo.UpdateStatus(ctx, reportID, status); err != nil {
		return nil, err
	}
	report.Status = status
	return report, nil
}

func (s *ReportService) requireAdmin(ctx context.Context, userID uint) error {
	if s.isAdmin == nil {
		return models.NewForbiddenError("Moderator access required")
	}
	admin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewForbiddenError("Moderator access required")
	}
	return nil
}
