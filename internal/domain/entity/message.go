package entity

import "time"

const (
	MessageUser   = "user"
	MessageSystem = "system"
)

// Message belongs to a Conversation and is append-only.
type Message struct {
	ID             string    `json:"id" firestore:"id"`
	ConversationID string    `json:"conversation_id" firestore:"-"`
	SenderID       string    `json:"sender_id" firestore:"senderId"`
	Text           string    `json:"text" firestore:"text"`
	Type           string    `json:"type" firestore:"type"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
}
