package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
)

type firestoreConversationRepository struct {
	client *firestore.Client
}

func NewFirestoreConversationRepository(client *firestore.Client) repository.ConversationRepository {
	return &firestoreConversationRepository{
		client: client,
	}
}

func setConversationID(c *entity.Conversation, id string) { c.ID = id }

func (r *firestoreConversationRepository) messages(conversationID string) *firestore.CollectionRef {
	return r.client.Collection(conversationsCollection).Doc(conversationID).Collection(messagesCollection)
}

func (r *firestoreConversationRepository) Create(ctx context.Context, conversation *entity.Conversation) error {
	if conversation.ID == "" {
		conversation.ID = uuid.New().String()
	}
	wr, err := r.client.Collection(conversationsCollection).Doc(conversation.ID).Set(ctx, conversation)
	commitTime(wr, &conversation.CreatedAt)
	return storeError("Conversation", err)
}

func (r *firestoreConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	doc, err := r.client.Collection(conversationsCollection).Doc(id).Get(ctx)
	if err != nil {
		return nil, storeError("Conversation", err)
	}

	conversation, err := decodeOne[entity.Conversation](doc, "conversation")
	if err != nil {
		return nil, err
	}
	conversation.ID = doc.Ref.ID
	return conversation, nil
}

func (r *firestoreConversationRepository) ListByParticipant(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	q := r.client.Collection(conversationsCollection).Where("participants", "array-contains", userID)
	conversations, err := decodeAll[entity.Conversation](q.Documents(ctx), "conversation", setConversationID)
	if err != nil {
		return nil, err
	}
	sortConversations(conversations)
	return conversations, nil
}

func (r *firestoreConversationRepository) ListByListing(ctx context.Context, listingID string) ([]*entity.Conversation, error) {
	q := r.client.Collection(conversationsCollection).Where("listingId", "==", listingID)
	return decodeAll[entity.Conversation](q.Documents(ctx), "conversation", setConversationID)
}

// Delete removes the conversation document only. Firestore keeps the messages
// subcollection alive, so callers clear it first.
func (r *firestoreConversationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection(conversationsCollection).Doc(id).Delete(ctx)
	return storeError("Conversation", err)
}

func (r *firestoreConversationRepository) AddMessage(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	wr, err := r.messages(message.ConversationID).Doc(message.ID).Set(ctx, message)
	commitTime(wr, &message.CreatedAt)
	return storeError("Message", err)
}

func (r *firestoreConversationRepository) messageQuery(conversationID string) firestore.Query {
	return r.messages(conversationID).OrderBy("createdAt", firestore.Asc)
}

func messageIDSetter(conversationID string) func(*entity.Message, string) {
	return func(m *entity.Message, id string) {
		m.ID = id
		m.ConversationID = conversationID
	}
}

func (r *firestoreConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	return decodeAll[entity.Message](r.messageQuery(conversationID).Documents(ctx), "message", messageIDSetter(conversationID))
}

func (r *firestoreConversationRepository) DeleteMessage(ctx context.Context, conversationID, messageID string) error {
	_, err := r.messages(conversationID).Doc(messageID).Delete(ctx)
	return storeError("Message", err)
}

func (r *firestoreConversationRepository) SubscribeByParticipant(ctx context.Context, userID string, onChange func([]*entity.Conversation)) (repository.Subscription, error) {
	q := r.client.Collection(conversationsCollection).Where("participants", "array-contains", userID)
	return watchQuery(ctx, q, "conversation", setConversationID, func(conversations []*entity.Conversation) {
		sortConversations(conversations)
		onChange(conversations)
	})
}

func (r *firestoreConversationRepository) SubscribeMessages(ctx context.Context, conversationID string, onChange func([]*entity.Message)) (repository.Subscription, error) {
	return watchQuery(ctx, r.messageQuery(conversationID), "message", messageIDSetter(conversationID), onChange)
}

// sortConversations orders oldest first. The participant query cannot be
// ordered server side without a composite index.
func sortConversations(conversations []*entity.Conversation) {
	sort.SliceStable(conversations, func(i, j int) bool {
		return conversations[i].CreatedAt.Before(conversations[j].CreatedAt)
	})
}
