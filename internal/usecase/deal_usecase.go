package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
	"github.com/rohit30san/thapar-olx/internal/domain/service"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/metrics"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/ratelimit"
	"github.com/rohit30san/thapar-olx/pkg/errors"
	"github.com/rohit30san/thapar-olx/pkg/logger"
)

// Downstream steps of a deal write. The deal record itself is the unit of
// record; these run after it and are retried one at a time.
const (
	StepListingSync         = "listing_sync"
	StepConversationResolve = "conversation_resolve"
	StepSystemMessage       = "system_message"
)

const dealRequestMessage = "Buyer started a deal (Buy now) for this item."

// dealTransitions maps current status -> next status -> role allowed to move it.
var dealTransitions = map[string]map[string]string{
	entity.DealPending: {
		entity.DealAccepted: entity.DealRoleSeller,
		entity.DealRejected: entity.DealRoleSeller,
	},
	entity.DealAccepted: {
		entity.DealCompleted: entity.DealRoleSeller,
		entity.DealCancelled: entity.DealRoleBuyer,
	},
}

// dealStatusMessages is the chat line posted when a deal reaches a status.
var dealStatusMessages = map[string]string{
	entity.DealPending:   dealRequestMessage,
	entity.DealAccepted:  "Seller has accepted your deal request.",
	entity.DealRejected:  "Seller has rejected your deal request.",
	entity.DealCompleted: "Seller marked the deal as completed.",
	entity.DealCancelled: "Buyer cancelled the deal.",
}

// dealStatusActors is the role whose action produced each status.
var dealStatusActors = map[string]string{
	entity.DealPending:   entity.DealRoleBuyer,
	entity.DealAccepted:  entity.DealRoleSeller,
	entity.DealRejected:  entity.DealRoleSeller,
	entity.DealCompleted: entity.DealRoleSeller,
	entity.DealCancelled: entity.DealRoleBuyer,
}

type DealUseCase struct {
	dealRepo      repository.DealRepository
	listingRepo   repository.ListingRepository
	conversations *ConversationUseCase
	publisher     service.EventPublisher
	rateLimiter   *ratelimit.RateLimiter
	metrics       *metrics.Metrics
	paymentMethod string
}

func NewDealUseCase(
	dealRepo repository.DealRepository,
	listingRepo repository.ListingRepository,
	conversations *ConversationUseCase,
	publisher service.EventPublisher,
	rateLimiter *ratelimit.RateLimiter,
	m *metrics.Metrics,
	paymentMethod string,
) *DealUseCase {
	if publisher == nil {
		publisher = service.NoopPublisher()
	}
	if paymentMethod == "" {
		paymentMethod = "UPI / Cash"
	}
	return &DealUseCase{
		dealRepo:      dealRepo,
		listingRepo:   listingRepo,
		conversations: conversations,
		publisher:     publisher,
		rateLimiter:   rateLimiter,
		metrics:       m,
		paymentMethod: paymentMethod,
	}
}

type DealResponse struct {
	*entity.Deal
	Role         string `json:"role"`
	ListingTitle string `json:"listing_title,omitempty"`
	ListingImage string `json:"listing_image,omitempty"`
}

// CreateDeal opens a buy request for listingID. The listing is left as is
// until the seller acts. A non-nil deal with a PARTIAL_FAILURE error means the
// deal exists but the chat announcement did not go through.
func (uc *DealUseCase) CreateDeal(ctx context.Context, actor *entity.Actor, listingID string) (*entity.Deal, error) {
	if !actor.EmailVerified {
		return nil, errors.Unverified()
	}

	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID == actor.ID {
		return nil, errors.BadRequest("You cannot buy your own listing", nil)
	}
	switch listing.Status {
	case entity.ListingSold:
		return nil, errors.BadRequest("This item has already been sold", nil)
	case entity.ListingRemoved:
		return nil, errors.BadRequest("This listing is no longer available", nil)
	}

	existing, err := uc.dealRepo.ListByListingAndBuyer(ctx, listingID, actor.ID)
	if err != nil {
		return nil, err
	}
	for _, d := range existing {
		if d.IsOpen() {
			return nil, errors.DuplicateOpenDeal()
		}
	}

	if allowed, wait := uc.rateLimiter.Allow(actor.ID, ratelimit.ActionCreateDeal); !allowed {
		logger.Warn("CreateDeal rate limited: user %s must wait %v", actor.ID, wait)
		return nil, errors.TooManyRequests("Too many deal requests. Please try again later")
	}

	deal := &entity.Deal{
		ListingID:     listing.ID,
		BuyerID:       actor.ID,
		SellerID:      listing.SellerID,
		Price:         listing.Price,
		Status:        entity.DealPending,
		PaymentMethod: uc.paymentMethod,
	}
	if err := uc.dealRepo.Create(ctx, deal); err != nil {
		return nil, err
	}

	uc.metrics.DealCreated()
	uc.publish(ctx, service.SubjectDealCreated, deal, "", actor.ID)

	if err := uc.announce(ctx, deal, actor.ID, dealRequestMessage); err != nil {
		return deal, uc.partial("create_deal", deal, err)
	}

	return deal, nil
}

// TransitionDeal moves a deal to newStatus on behalf of actor. Validation
// happens before any write. After the deal update the listing sync and the
// chat line are best effort: failures are reported with the deal, never
// rolled back.
func (uc *DealUseCase) TransitionDeal(ctx context.Context, actor *entity.Actor, dealID, newStatus string) (*entity.Deal, error) {
	if !actor.EmailVerified {
		return nil, errors.Unverified()
	}

	deal, err := uc.dealRepo.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	role := deal.RoleOf(actor.ID)
	if role == "" {
		return nil, errors.PermissionDenied("You are not part of this deal")
	}

	allowedRole, ok := dealTransitions[deal.Status][newStatus]
	if !ok {
		return nil, errors.InvalidTransition(deal.Status, newStatus)
	}
	if allowedRole != role {
		return nil, errors.PermissionDenied("Only the " + allowedRole + " can mark this deal " + newStatus)
	}

	from := deal.Status
	if err := uc.dealRepo.UpdateStatus(ctx, deal.ID, newStatus); err != nil {
		return nil, err
	}
	deal.Status = newStatus
	deal.UpdatedAt = time.Now()

	uc.metrics.DealTransitioned(newStatus)
	uc.publish(ctx, service.SubjectDealTransitioned, deal, from, actor.ID)

	// Listing sync and the chat line do not depend on each other, so a
	// failure in one does not skip the other.
	var failed []error
	if err := uc.syncListing(ctx, deal); err != nil {
		failed = append(failed, err)
	}
	if err := uc.announce(ctx, deal, actor.ID, dealStatusMessages[newStatus]); err != nil {
		failed = append(failed, err)
	}

	if len(failed) > 0 {
		return deal, uc.partial("transition_deal", deal, failed...)
	}
	return deal, nil
}

// RetryDealSync re-runs a single downstream step for the deal's current status.
func (uc *DealUseCase) RetryDealSync(ctx context.Context, actor *entity.Actor, dealID, step string) (*entity.Deal, error) {
	deal, err := uc.dealRepo.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	role := deal.RoleOf(actor.ID)
	if role == "" {
		return nil, errors.PermissionDenied("You are not part of this deal")
	}

	switch step {
	case StepListingSync:
		if role != entity.DealRoleSeller {
			return nil, errors.PermissionDenied("Only the seller can update the listing")
		}
		err = uc.syncListing(ctx, deal)
	case StepSystemMessage, StepConversationResolve:
		if dealStatusActors[deal.Status] != role {
			return nil, errors.PermissionDenied("Only the " + dealStatusActors[deal.Status] + " can post this update")
		}
		err = uc.announce(ctx, deal, actor.ID, dealStatusMessages[deal.Status])
	default:
		return nil, errors.BadRequest("Unknown step: "+step, nil)
	}

	if err != nil {
		return deal, uc.partial("retry_deal_sync", deal, err)
	}
	return deal, nil
}

func (uc *DealUseCase) GetDeal(ctx context.Context, userID, dealID string) (*DealResponse, error) {
	deal, err := uc.dealRepo.GetByID(ctx, dealID)
	if err != nil {
		return nil, err
	}

	role := deal.RoleOf(userID)
	if role == "" {
		return nil, errors.PermissionDenied("You are not part of this deal")
	}
	return uc.decorate(ctx, deal, role), nil
}

// ListUserDeals merges the deals where userID buys and sells, newest first.
func (uc *DealUseCase) ListUserDeals(ctx context.Context, userID string) ([]*DealResponse, error) {
	buying, err := uc.dealRepo.ListByBuyer(ctx, userID)
	if err != nil {
		return nil, err
	}
	selling, err := uc.dealRepo.ListBySeller(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*DealResponse, 0, len(buying)+len(selling))
	for _, d := range buying {
		responses = append(responses, uc.decorate(ctx, d, entity.DealRoleBuyer))
	}
	for _, d := range selling {
		responses = append(responses, uc.decorate(ctx, d, entity.DealRoleSeller))
	}

	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].CreatedAt.After(responses[j].CreatedAt)
	})
	return responses, nil
}

// syncListing applies the listing side effect of the deal's status. Only
// completed and rejected touch the listing.
func (uc *DealUseCase) syncListing(ctx context.Context, deal *entity.Deal) error {
	var status string
	switch deal.Status {
	case entity.DealCompleted:
		status = entity.ListingSold
	case entity.DealRejected:
		status = entity.ListingAvailable
	default:
		return nil
	}

	if err := uc.listingRepo.UpdateStatus(ctx, deal.ListingID, status); err != nil {
		return errors.WithStep(StepListingSync, err)
	}
	return nil
}

// announce resolves the buyer/seller thread for the deal and posts text into it.
func (uc *DealUseCase) announce(ctx context.Context, deal *entity.Deal, actorID, text string) error {
	if text == "" {
		return nil
	}

	conversation, err := uc.conversations.ResolveConversation(ctx, actorID, deal.ListingID, deal.BuyerID, deal.SellerID)
	if err != nil {
		return errors.WithStep(StepConversationResolve, err)
	}

	if _, err := uc.conversations.AppendSystemMessage(ctx, conversation.ID, actorID, text); err != nil {
		return errors.WithStep(StepSystemMessage, err)
	}
	return nil
}

// partial folds downstream step failures into one PARTIAL_FAILURE whose Step
// lists every failed step.
func (uc *DealUseCase) partial(operation string, deal *entity.Deal, failures ...error) error {
	steps := make([]string, 0, len(failures))
	for _, err := range failures {
		step := errors.StepOf(err)
		steps = append(steps, step)
		uc.metrics.StepFailed(operation, step)
		logger.LogStepError(deal.ID, step, err)
	}

	return errors.PartialFailure(
		strings.Join(steps, ","),
		"Deal saved, but some updates did not go through. Retry: "+strings.Join(steps, ", "),
		failures[0],
	)
}

func (uc *DealUseCase) publish(ctx context.Context, subject string, deal *entity.Deal, from, actorID string) {
	event := service.DealEvent{
		DealID:    deal.ID,
		ListingID: deal.ListingID,
		BuyerID:   deal.BuyerID,
		SellerID:  deal.SellerID,
		From:      from,
		To:        deal.Status,
		ActorID:   actorID,
		At:        time.Now(),
	}
	if err := uc.publisher.Publish(ctx, subject, event); err != nil {
		logger.Warn("Failed to publish %s for deal %s: %v", subject, deal.ID, err)
	}
}

func (uc *DealUseCase) decorate(ctx context.Context, deal *entity.Deal, role string) *DealResponse {
	resp := &DealResponse{Deal: deal, Role: role}
	if listing, err := uc.listingRepo.GetByID(ctx, deal.ListingID); err == nil {
		resp.ListingTitle = listing.Title
		resp.ListingImage = listing.FirstImage()
	}
	return resp
}
