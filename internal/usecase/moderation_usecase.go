package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
	"github.com/rohit30san/thapar-olx/internal/domain/service"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/metrics"
	"github.com/rohit30san/thapar-olx/pkg/errors"
	"github.com/rohit30san/thapar-olx/pkg/logger"
)

// Steps of the listing removal cascade, in execution order.
const (
	StepListingDelete       = "listing_delete"
	StepDealCleanup         = "deal_cleanup"
	StepConversationCleanup = "conversation_cleanup"
	StepSellerNotice        = "seller_notice"
)

// cleanupParallelism bounds concurrent deletes in one fan-out.
const cleanupParallelism = 8

type ModerationUseCase struct {
	userRepo      repository.UserRepository
	listingRepo   repository.ListingRepository
	dealRepo      repository.DealRepository
	reportRepo    repository.ReportRepository
	convRepo      repository.ConversationRepository
	conversations *ConversationUseCase
	policy        *service.Policy
	publisher     service.EventPublisher
	metrics       *metrics.Metrics
	platformName  string
}

func NewModerationUseCase(
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	dealRepo repository.DealRepository,
	reportRepo repository.ReportRepository,
	convRepo repository.ConversationRepository,
	conversations *ConversationUseCase,
	policy *service.Policy,
	publisher service.EventPublisher,
	m *metrics.Metrics,
	platformName string,
) *ModerationUseCase {
	if publisher == nil {
		publisher = service.NoopPublisher()
	}
	return &ModerationUseCase{
		userRepo:      userRepo,
		listingRepo:   listingRepo,
		dealRepo:      dealRepo,
		reportRepo:    reportRepo,
		convRepo:      convRepo,
		conversations: conversations,
		policy:        policy,
		publisher:     publisher,
		metrics:       m,
		platformName:  platformName,
	}
}

type RemoveListingInput struct {
	ListingID string
	// SellerID and Title are read from the listing when left empty. Pass them
	// to re-run a cascade whose listing is already gone.
	SellerID string
	Title    string
}

type RemovalReport struct {
	ListingID            string `json:"listing_id"`
	DealsDeleted         int    `json:"deals_deleted"`
	ConversationsDeleted int    `json:"conversations_deleted"`
	MessagesDeleted      int    `json:"messages_deleted"`
	NoticeConversationID string `json:"notice_conversation_id,omitempty"`
}

type DashboardStats struct {
	Users          int               `json:"users"`
	Listings       int               `json:"listings"`
	OpenDeals      int               `json:"open_deals"`
	OpenReports    int               `json:"open_reports"`
	RecentListings []*entity.Listing `json:"recent_listings"`
	DisabledUsers  []*entity.User    `json:"disabled_users"`
}

func (uc *ModerationUseCase) requireAdmin(actor *entity.Actor) error {
	if actor != nil && actor.Role == entity.RoleAdmin && !actor.EmailVerified {
		return errors.Unverified()
	}
	if !uc.policy.IsAdmin(actor) {
		return errors.PermissionDenied("Only the administrator can do this")
	}
	return nil
}

// RemoveListing deletes a listing and everything hanging off it, then tells
// the seller. The listing goes first and each later step runs only when the
// previous one succeeded. Nothing is rolled back: a failure is reported with
// its step and the whole call can be repeated.
func (uc *ModerationUseCase) RemoveListing(ctx context.Context, admin *entity.Actor, input RemoveListingInput) (*RemovalReport, error) {
	if err := uc.requireAdmin(admin); err != nil {
		return nil, err
	}
	if input.ListingID == "" {
		return nil, errors.BadRequest("Listing id is required", nil)
	}

	if input.SellerID == "" || input.Title == "" {
		listing, err := uc.listingRepo.GetByID(ctx, input.ListingID)
		if err != nil {
			return nil, err
		}
		if input.SellerID == "" {
			input.SellerID = listing.SellerID
		}
		if input.Title == "" {
			input.Title = listing.Title
		}
	}

	report := &RemovalReport{ListingID: input.ListingID}

	if err := uc.listingRepo.Delete(ctx, input.ListingID); err != nil {
		return nil, errors.WithStep(StepListingDelete, err)
	}
	uc.metrics.ListingRemoved()

	deals, err := uc.deleteDeals(ctx, input.ListingID)
	report.DealsDeleted = deals
	if err != nil {
		return report, uc.cascadeFailure(input.ListingID, StepDealCleanup, err)
	}

	convs, msgs, err := uc.deleteConversations(ctx, input.ListingID)
	report.ConversationsDeleted = convs
	report.MessagesDeleted = msgs
	if err != nil {
		return report, uc.cascadeFailure(input.ListingID, StepConversationCleanup, err)
	}

	if input.SellerID != admin.ID {
		conversationID, err := uc.noticeSeller(ctx, admin.ID, input.SellerID, input.Title)
		if err != nil {
			return report, uc.cascadeFailure(input.ListingID, StepSellerNotice, err)
		}
		report.NoticeConversationID = conversationID
	}

	logger.Info("Listing %s removed by admin %s: %d deals, %d conversations, %d messages deleted",
		input.ListingID, admin.ID, report.DealsDeleted, report.ConversationsDeleted, report.MessagesDeleted)

	uc.publish(ctx, service.SubjectListingRemoved, service.ModerationEvent{
		AdminID:   admin.ID,
		ListingID: input.ListingID,
		UserID:    input.SellerID,
		At:        time.Now(),
	})

	return report, nil
}

func (uc *ModerationUseCase) deleteDeals(ctx context.Context, listingID string) (int, error) {
	deals, err := uc.dealRepo.ListByListing(ctx, listingID)
	if err != nil {
		return 0, err
	}

	var deleted int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cleanupParallelism)
	for _, d := range deals {
		id := d.ID
		g.Go(func() error {
			if err := uc.dealRepo.Delete(gctx, id); err != nil {
				return err
			}
			atomic.AddInt64(&deleted, 1)
			return nil
		})
	}
	err = g.Wait()
	return int(deleted), err
}

// deleteConversations removes every conversation of the listing. Messages of
// a conversation are deleted before the conversation record.
func (uc *ModerationUseCase) deleteConversations(ctx context.Context, listingID string) (int, int, error) {
	conversations, err := uc.convRepo.ListByListing(ctx, listingID)
	if err != nil {
		return 0, 0, err
	}

	var convsDeleted, msgsDeleted int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cleanupParallelism)
	for _, c := range conversations {
		conversationID := c.ID
		g.Go(func() error {
			messages, err := uc.convRepo.ListMessages(gctx, conversationID)
			if err != nil {
				return err
			}

			mg, mctx := errgroup.WithContext(gctx)
			mg.SetLimit(cleanupParallelism)
			for _, m := range messages {
				messageID := m.ID
				mg.Go(func() error {
					if err := uc.convRepo.DeleteMessage(mctx, conversationID, messageID); err != nil {
						return err
					}
					atomic.AddInt64(&msgsDeleted, 1)
					return nil
				})
			}
			if err := mg.Wait(); err != nil {
				return err
			}

			if err := uc.convRepo.Delete(gctx, conversationID); err != nil {
				return err
			}
			atomic.AddInt64(&convsDeleted, 1)
			return nil
		})
	}
	err = g.Wait()
	return int(convsDeleted), int(msgsDeleted), err
}

func (uc *ModerationUseCase) noticeSeller(ctx context.Context, adminID, sellerID, title string) (string, error) {
	conversation, err := uc.conversations.ResolveConversation(ctx, adminID, "", adminID, sellerID)
	if err != nil {
		return "", err
	}

	text := fmt.Sprintf("Your listing \"%s\" was removed by the admin for violating %s rules.", title, uc.platformName)
	if _, err := uc.conversations.AppendSystemMessage(ctx, conversation.ID, adminID, text); err != nil {
		return conversation.ID, err
	}
	return conversation.ID, nil
}

func (uc *ModerationUseCase) cascadeFailure(listingID, step string, err error) error {
	uc.metrics.StepFailed("remove_listing", step)
	logger.LogStepError(listingID, step, err)
	return errors.PartialFailure(step, "Listing removed, but cleanup stopped at "+step+". Run the removal again to finish", err)
}

// SetUserDisabled flags or unflags an account. Listings and deals are left alone.
func (uc *ModerationUseCase) SetUserDisabled(ctx context.Context, admin *entity.Actor, userID string, disabled bool) (*entity.User, error) {
	if err := uc.requireAdmin(admin); err != nil {
		return nil, err
	}

	if err := uc.userRepo.SetDisabled(ctx, userID, disabled); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	logger.Info("User %s disabled=%t by admin %s", userID, disabled, admin.ID)
	uc.publish(ctx, service.SubjectUserDisabled, service.ModerationEvent{
		AdminID:  admin.ID,
		UserID:   userID,
		Disabled: &disabled,
		At:       time.Now(),
	})

	return user, nil
}

// HideAllListingsForSeller marks every listing of sellerID as removed and
// returns how many changed. Reports against the seller are not touched.
func (uc *ModerationUseCase) HideAllListingsForSeller(ctx context.Context, admin *entity.Actor, sellerID string) (int, error) {
	if err := uc.requireAdmin(admin); err != nil {
		return 0, err
	}
	if sellerID == "" {
		return 0, errors.BadRequest("Seller id is required", nil)
	}

	listings, err := uc.listingRepo.List(ctx, repository.ListingFilter{SellerID: sellerID})
	if err != nil {
		return 0, err
	}

	var hidden int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cleanupParallelism)
	for _, l := range listings {
		if l.Status == entity.ListingRemoved {
			continue
		}
		id := l.ID
		g.Go(func() error {
			if err := uc.listingRepo.UpdateStatus(gctx, id, entity.ListingRemoved); err != nil {
				return err
			}
			atomic.AddInt64(&hidden, 1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("Hiding listings for seller %s stopped after %d: %v", sellerID, hidden, err)
		return int(hidden), err
	}

	uc.publish(ctx, service.SubjectListingsHidden, service.ModerationEvent{
		AdminID: admin.ID,
		UserID:  sellerID,
		Count:   int(hidden),
		At:      time.Now(),
	})

	return int(hidden), nil
}

func (uc *ModerationUseCase) ListDisabledUsers(ctx context.Context, admin *entity.Actor) ([]*entity.User, error) {
	if err := uc.requireAdmin(admin); err != nil {
		return nil, err
	}
	return uc.userRepo.ListDisabled(ctx)
}

func (uc *ModerationUseCase) Dashboard(ctx context.Context, admin *entity.Actor) (*DashboardStats, error) {
	if err := uc.requireAdmin(admin); err != nil {
		return nil, err
	}

	var (
		users       []*entity.User
		listings    []*entity.Listing
		openDeals   []*entity.Deal
		openReports []*entity.Report
		disabled    []*entity.User
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		users, err = uc.userRepo.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		listings, err = uc.listingRepo.List(gctx, repository.ListingFilter{})
		return err
	})
	g.Go(func() (err error) {
		openDeals, err = uc.dealRepo.ListByStatus(gctx, entity.DealPending, entity.DealAccepted)
		return err
	})
	g.Go(func() (err error) {
		openReports, err = uc.reportRepo.List(gctx, entity.ReportOpen)
		return err
	})
	g.Go(func() (err error) {
		disabled, err = uc.userRepo.ListDisabled(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	recent := listings
	if len(recent) > 5 {
		recent = recent[:5]
	}

	return &DashboardStats{
		Users:          len(users),
		Listings:       len(listings),
		OpenDeals:      len(openDeals),
		OpenReports:    len(openReports),
		RecentListings: recent,
		DisabledUsers:  disabled,
	}, nil
}

func (uc *ModerationUseCase) publish(ctx context.Context, subject string, event service.ModerationEvent) {
	if err := uc.publisher.Publish(ctx, subject, event); err != nil {
		logger.Warn("Failed to publish %s: %v", subject, err)
	}
}
