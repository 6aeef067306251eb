package repository

import (
	"context"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
)

type ConversationRepository interface {
	Create(ctx context.Context, conversation *entity.Conversation) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	// ListByParticipant is the only indexed lookup: participants array-contains userID.
	ListByParticipant(ctx context.Context, userID string) ([]*entity.Conversation, error)
	ListByListing(ctx context.Context, listingID string) ([]*entity.Conversation, error)
	Delete(ctx context.Context, id string) error

	AddMessage(ctx context.Context, message *entity.Message) error
	// ListMessages returns messages ordered by createdAt ascending.
	ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error)
	DeleteMessage(ctx context.Context, conversationID, messageID string) error

	SubscribeByParticipant(ctx context.Context, userID string, onChange func([]*entity.Conversation)) (Subscription, error)
	SubscribeMessages(ctx context.Context, conversationID string, onChange func([]*entity.Message)) (Subscription, error)
}
