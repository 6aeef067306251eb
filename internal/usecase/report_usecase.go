package usecase

import (
	"context"
	"strings"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
	"github.com/rohit30san/thapar-olx/internal/domain/service"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/ratelimit"
	"github.com/rohit30san/thapar-olx/pkg/errors"
	"github.com/rohit30san/thapar-olx/pkg/logger"
)

type ReportUseCase struct {
	reportRepo  repository.ReportRepository
	userRepo    repository.UserRepository
	policy      *service.Policy
	rateLimiter *ratelimit.RateLimiter
}

func NewReportUseCase(
	reportRepo repository.ReportRepository,
	userRepo repository.UserRepository,
	policy *service.Policy,
	rateLimiter *ratelimit.RateLimiter,
) *ReportUseCase {
	return &ReportUseCase{
		reportRepo:  reportRepo,
		userRepo:    userRepo,
		policy:      policy,
		rateLimiter: rateLimiter,
	}
}

func (uc *ReportUseCase) ReportSeller(ctx context.Context, actor *entity.Actor, sellerID, reason string) (*entity.Report, error) {
	if !actor.EmailVerified {
		return nil, errors.Unverified()
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errors.BadRequest("Please describe the problem", nil)
	}
	if sellerID == actor.ID {
		return nil, errors.BadRequest("You cannot report yourself", nil)
	}
	if _, err := uc.userRepo.GetByID(ctx, sellerID); err != nil {
		return nil, err
	}

	if allowed, _ := uc.rateLimiter.Allow(actor.ID, ratelimit.ActionReport); !allowed {
		return nil, errors.TooManyRequests("You have sent too many reports. Please try again later")
	}

	report := &entity.Report{
		SellerID:      sellerID,
		ReporterID:    actor.ID,
		ReporterEmail: actor.Email,
		Reason:        reason,
		Status:        entity.ReportOpen,
	}
	if err := uc.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}

	logger.Info("Report %s filed against seller %s by %s", report.ID, sellerID, actor.ID)
	return report, nil
}

// ListReports is admin only. An empty status lists every report.
func (uc *ReportUseCase) ListReports(ctx context.Context, admin *entity.Actor, status string) ([]*entity.Report, error) {
	if !uc.policy.IsAdmin(admin) {
		return nil, errors.PermissionDenied("Only the administrator can view reports")
	}
	switch status {
	case "", entity.ReportOpen, entity.ReportResolved:
	default:
		return nil, errors.BadRequest("Unknown report status: "+status, nil)
	}
	return uc.reportRepo.List(ctx, status)
}

func (uc *ReportUseCase) ResolveReport(ctx context.Context, admin *entity.Actor, reportID string) (*entity.Report, error) {
	if !uc.policy.IsAdmin(admin) {
		return nil, errors.PermissionDenied("Only the administrator can resolve reports")
	}

	if err := uc.reportRepo.UpdateStatus(ctx, reportID, entity.ReportResolved); err != nil {
		return nil, err
	}
	return uc.reportRepo.GetByID(ctx, reportID)
}
