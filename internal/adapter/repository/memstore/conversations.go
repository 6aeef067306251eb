package memstore

import (
	"context"
	"sort"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
	"github.com/rohit30san/thapar-olx/pkg/errors"
)

type ConversationRepository struct {
	s *Store
}

func cloneConversation(c *entity.Conversation) *entity.Conversation {
	cp := *c
	cp.Participants = append([]string(nil), c.Participants...)
	return &cp
}

func cloneMessage(m *entity.Message) *entity.Message {
	cp := *m
	return &cp
}

func (r *ConversationRepository) Create(ctx context.Context, conversation *entity.Conversation) error {
	r.s.mu.Lock()
	if conversation.ID == "" {
		conversation.ID = newID()
	}
	conversation.CreatedAt = r.s.now()
	r.s.conversations[conversation.ID] = cloneConversation(conversation)
	r.s.mu.Unlock()

	r.s.notify(kindConversation)
	return nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.conversations[id]
	if !ok {
		return nil, errors.NotFound("Conversation", nil)
	}
	return cloneConversation(c), nil
}

func (r *ConversationRepository) filter(match func(*entity.Conversation) bool) []*entity.Conversation {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entity.Conversation
	for _, c := range r.s.conversations {
		if match(c) {
			out = append(out, cloneConversation(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (r *ConversationRepository) ListByParticipant(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	return r.filter(func(c *entity.Conversation) bool { return c.HasParticipant(userID) }), nil
}

func (r *ConversationRepository) ListByListing(ctx context.Context, listingID string) ([]*entity.Conversation, error) {
	return r.filter(func(c *entity.Conversation) bool { return c.ListingID == listingID }), nil
}

// Delete removes only the conversation record. Like the document store,
// messages underneath it survive unless deleted first.
func (r *ConversationRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	delete(r.s.conversations, id)
	r.s.mu.Unlock()

	r.s.notify(kindConversation)
	return nil
}

func (r *ConversationRepository) AddMessage(ctx context.Context, message *entity.Message) error {
	r.s.mu.Lock()
	if message.ID == "" {
		message.ID = newID()
	}
	message.CreatedAt = r.s.now()
	if r.s.messages[message.ConversationID] == nil {
		r.s.messages[message.ConversationID] = make(map[string]*entity.Message)
	}
	r.s.messages[message.ConversationID][message.ID] = cloneMessage(message)
	r.s.mu.Unlock()

	r.s.notify(kindMessage)
	return nil
}

func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entity.Message
	for _, m := range r.s.messages[conversationID] {
		out = append(out, cloneMessage(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *ConversationRepository) DeleteMessage(ctx context.Context, conversationID, messageID string) error {
	r.s.mu.Lock()
	if msgs, ok := r.s.messages[conversationID]; ok {
		delete(msgs, messageID)
		if len(msgs) == 0 {
			delete(r.s.messages, conversationID)
		}
	}
	r.s.mu.Unlock()

	r.s.notify(kindMessage)
	return nil
}

// MessageCount counts messages stored under conversationID, including
// messages orphaned by a deleted conversation.
func (r *ConversationRepository) MessageCount(conversationID string) int {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.messages[conversationID])
}

func (r *ConversationRepository) SubscribeByParticipant(ctx context.Context, userID string, onChange func([]*entity.Conversation)) (repository.Subscription, error) {
	return r.s.watch(kindConversation, func() {
		convs, _ := r.ListByParticipant(ctx, userID)
		onChange(convs)
	}), nil
}

func (r *ConversationRepository) SubscribeMessages(ctx context.Context, conversationID string, onChange func([]*entity.Message)) (repository.Subscription, error) {
	return r.s.watch(kindMessage, func() {
		msgs, _ := r.ListMessages(ctx, conversationID)
		onChange(msgs)
	}), nil
}
