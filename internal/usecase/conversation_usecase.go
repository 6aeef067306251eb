package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/metrics"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/ratelimit"
	"github.com/rohit30san/thapar-olx/pkg/errors"
	"github.com/rohit30san/thapar-olx/pkg/logger"
)

type ConversationUseCase struct {
	conversationRepo repository.ConversationRepository
	listingRepo      repository.ListingRepository
	userRepo         repository.UserRepository
	rateLimiter      *ratelimit.RateLimiter
	metrics          *metrics.Metrics
}

func NewConversationUseCase(
	conversationRepo repository.ConversationRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	rateLimiter *ratelimit.RateLimiter,
	m *metrics.Metrics,
) *ConversationUseCase {
	return &ConversationUseCase{
		conversationRepo: conversationRepo,
		listingRepo:      listingRepo,
		userRepo:         userRepo,
		rateLimiter:      rateLimiter,
		metrics:          m,
	}
}

type ConversationResponse struct {
	*entity.Conversation
	OtherUserID   string `json:"other_user_id"`
	OtherUserName string `json:"other_user_name,omitempty"`
	ListingTitle  string `json:"listing_title,omitempty"`
	ListingImage  string `json:"listing_image,omitempty"`
}

// ResolveConversation finds the thread for listingID between userA and userB,
// creating it when none exists. An empty listingID selects the admin thread.
//
// The lookup uses the participant index only and filters in process. Two
// callers racing on the same pair can both miss and both create.
func (uc *ConversationUseCase) ResolveConversation(ctx context.Context, actorID, listingID, userA, userB string) (*entity.Conversation, error) {
	if userA == "" || userB == "" {
		return nil, errors.BadRequest("Both participants are required", nil)
	}
	if userA == userB {
		return nil, errors.BadRequest("A conversation needs two different participants", nil)
	}
	if actorID != userA && actorID != userB {
		return nil, errors.PermissionDenied("You can only open conversations you take part in")
	}

	candidates, err := uc.conversationRepo.ListByParticipant(ctx, actorID)
	if err != nil {
		return nil, err
	}

	var found *entity.Conversation
	for _, c := range candidates {
		if !c.Matches(listingID, userA, userB) {
			continue
		}
		// Earliest wins so a raced duplicate never changes the answer.
		if found == nil || c.CreatedAt.Before(found.CreatedAt) {
			found = c
		}
	}
	if found != nil {
		return found, nil
	}

	conversation := &entity.Conversation{
		ListingID:    listingID,
		Participants: []string{userA, userB},
	}
	if err := uc.conversationRepo.Create(ctx, conversation); err != nil {
		return nil, err
	}
	uc.metrics.ConversationCreated()
	logger.Debug("Conversation %s created for listing %q between %s and %s", conversation.ID, listingID, userA, userB)

	return conversation, nil
}

// AppendSystemMessage adds a system line to a conversation on behalf of senderID.
func (uc *ConversationUseCase) AppendSystemMessage(ctx context.Context, conversationID, senderID, text string) (*entity.Message, error) {
	message := &entity.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
		Type:           entity.MessageSystem,
	}
	if err := uc.conversationRepo.AddMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

// MessageSeller opens (or reopens) the buyer's thread with the seller of a listing.
func (uc *ConversationUseCase) MessageSeller(ctx context.Context, actor *entity.Actor, listingID string) (*entity.Conversation, error) {
	if !actor.EmailVerified {
		return nil, errors.Unverified()
	}

	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if listing.SellerID == actor.ID {
		return nil, errors.BadRequest("You cannot message yourself about your own listing", nil)
	}

	return uc.ResolveConversation(ctx, actor.ID, listing.ID, actor.ID, listing.SellerID)
}

func (uc *ConversationUseCase) ListConversations(ctx context.Context, userID string) ([]*ConversationResponse, error) {
	conversations, err := uc.conversationRepo.ListByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]*ConversationResponse, 0, len(conversations))
	for i := len(conversations) - 1; i >= 0; i-- {
		responses = append(responses, uc.decorate(ctx, conversations[i], userID))
	}
	return responses, nil
}

func (uc *ConversationUseCase) GetConversation(ctx context.Context, userID, conversationID string) (*ConversationResponse, error) {
	conversation, err := uc.participantConversation(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}
	return uc.decorate(ctx, conversation, userID), nil
}

func (uc *ConversationUseCase) ListMessages(ctx context.Context, userID, conversationID string) ([]*entity.Message, error) {
	if _, err := uc.participantConversation(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return uc.conversationRepo.ListMessages(ctx, conversationID)
}

func (uc *ConversationUseCase) SendMessage(ctx context.Context, actor *entity.Actor, conversationID, text string) (*entity.Message, error) {
	if !actor.EmailVerified {
		return nil, errors.Unverified()
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.BadRequest("Message cannot be empty", nil)
	}

	if allowed, wait := uc.rateLimiter.Allow(actor.ID, ratelimit.ActionSendMessage); !allowed {
		logger.Warn("SendMessage rate limited: user %s must wait %v", actor.ID, wait)
		return nil, errors.TooManyRequests("You are sending messages too quickly. Please wait " + wait.Round(time.Second).String())
	}

	if _, err := uc.participantConversation(ctx, actor.ID, conversationID); err != nil {
		return nil, err
	}

	message := &entity.Message{
		ConversationID: conversationID,
		SenderID:       actor.ID,
		Text:           text,
		Type:           entity.MessageUser,
	}
	if err := uc.conversationRepo.AddMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}

func (uc *ConversationUseCase) participantConversation(ctx context.Context, userID, conversationID string) (*entity.Conversation, error) {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conversation.HasParticipant(userID) {
		return nil, errors.PermissionDenied("You are not a participant of this conversation")
	}
	return conversation, nil
}

// decorate joins display fields. Lookup failures leave the fields blank.
func (uc *ConversationUseCase) decorate(ctx context.Context, conversation *entity.Conversation, userID string) *ConversationResponse {
	resp := &ConversationResponse{
		Conversation: conversation,
		OtherUserID:  conversation.Other(userID),
	}

	if other, err := uc.userRepo.GetByID(ctx, resp.OtherUserID); err == nil {
		resp.OtherUserName = other.DisplayName
		if resp.OtherUserName == "" {
			resp.OtherUserName = entity.FallbackDisplayName(other.Email)
		}
	}

	if conversation.ListingID != "" {
		if listing, err := uc.listingRepo.GetByID(ctx, conversation.ListingID); err == nil {
			resp.ListingTitle = listing.Title
			resp.ListingImage = listing.FirstImage()
		}
	}

	return resp
}
