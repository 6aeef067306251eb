package websocket

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/repository"
	"github.com/rohit30san/thapar-olx/internal/usecase"
	"github.com/rohit30san/thapar-olx/pkg/errors"
	"github.com/rohit30san/thapar-olx/pkg/logger"
)

// Client -> server message types
const (
	TypeSubscribe   = "subscribe"
	TypeUnsubscribe = "unsubscribe"
	TypePing        = "ping"
)

// Server -> client message types
const (
	TypeSnapshot     = "snapshot"
	TypeUnsubscribed = "unsubscribed"
	TypeError        = "error"
	TypePong         = "pong"
)

const (
	FeedListings      = "listings"
	FeedConversations = "conversations"
	FeedMessages      = "messages"
	FeedBadges        = "badges"
)

// FeedSource opens the live queries a client can subscribe to.
type FeedSource interface {
	WatchListings(ctx context.Context, filter repository.ListingFilter, onChange func([]*entity.Listing)) (repository.Subscription, error)
	WatchConversations(ctx context.Context, userID string, onChange func([]*entity.Conversation)) (repository.Subscription, error)
	WatchMessages(ctx context.Context, userID, conversationID string, onChange func([]*entity.Message)) (repository.Subscription, error)
	WatchBadges(ctx context.Context, actor *entity.Actor, onChange func(usecase.Badges)) (repository.Subscription, error)
}

type ClientMessage struct {
	Type string `json:"type"`
	Feed string `json:"feed"`
	// ID lets a client keep several subscriptions to the same feed apart.
	ID             string `json:"id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
	Category       string `json:"category,omitempty"`
	SellerID       string `json:"seller_id,omitempty"`
	Status         string `json:"status,omitempty"`
	Limit          int    `json:"limit,omitempty"`
}

// key identifies the subscription a message refers to.
func (m ClientMessage) key() string {
	if m.ID != "" {
		return m.ID
	}
	if m.Feed == FeedMessages {
		return m.Feed + ":" + m.ConversationID
	}
	return m.Feed
}

type ServerMessage struct {
	Type  string      `json:"type"`
	Feed  string      `json:"feed,omitempty"`
	ID    string      `json:"id,omitempty"`
	Data  interface{} `json:"data,omitempty"`
	Code  string      `json:"code,omitempty"`
	Error string      `json:"error,omitempty"`
}

type MessageHandler struct {
	feeds FeedSource
}

func NewMessageHandler(feeds FeedSource) *MessageHandler {
	return &MessageHandler{
		feeds: feeds,
	}
}

// HandleClientMessage is passed to Client.ReadPump.
func (h *MessageHandler) HandleClientMessage(client *Client, raw []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.sendError(client, msg, errors.BadRequest("Invalid message format", err))
		return
	}

	switch msg.Type {
	case TypeSubscribe:
		h.subscribe(client, msg)
	case TypeUnsubscribe:
		client.release(msg.key())
		h.send(client, ServerMessage{Type: TypeUnsubscribed, Feed: msg.Feed, ID: msg.key()})
	case TypePing:
		h.send(client, ServerMessage{Type: TypePong})
	default:
		h.sendError(client, msg, errors.BadRequest("Unknown message type: "+msg.Type, nil))
	}
}

func (h *MessageHandler) subscribe(client *Client, msg ClientMessage) {
	key := msg.key()
	push := func(data interface{}) {
		h.send(client, ServerMessage{Type: TypeSnapshot, Feed: msg.Feed, ID: key, Data: data})
	}

	var (
		sub repository.Subscription
		err error
	)

	ctx := client.Context()
	switch msg.Feed {
	case FeedListings:
		filter := repository.ListingFilter{
			SellerID: msg.SellerID,
			Category: msg.Category,
			Status:   msg.Status,
			Limit:    msg.Limit,
		}
		sub, err = h.feeds.WatchListings(ctx, filter, func(listings []*entity.Listing) {
			push(listings)
		})

	case FeedConversations:
		sub, err = h.feeds.WatchConversations(ctx, client.Actor.ID, func(convs []*entity.Conversation) {
			push(convs)
		})

	case FeedMessages:
		if msg.ConversationID == "" {
			err = errors.BadRequest("conversation_id is required", nil)
			break
		}
		sub, err = h.feeds.WatchMessages(ctx, client.Actor.ID, msg.ConversationID, func(messages []*entity.Message) {
			push(messages)
		})

	case FeedBadges:
		sub, err = h.feeds.WatchBadges(ctx, client.Actor, func(b usecase.Badges) {
			push(b)
		})

	default:
		err = errors.BadRequest("Unknown feed: "+msg.Feed, nil)
	}

	if err != nil {
		h.sendError(client, msg, err)
		return
	}

	client.hold(key, sub)
}

func (h *MessageHandler) send(client *Client, msg ServerMessage) {
	frame, err := json.Marshal(msg)
	if err != nil {
		logger.Error("WebSocket: failed to encode %s frame: %v", msg.Type, err)
		return
	}
	client.enqueue(frame)
}

func (h *MessageHandler) sendError(client *Client, msg ClientMessage, err error) {
	out := ServerMessage{Type: TypeError, Feed: msg.Feed, ID: msg.key()}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		out.Code = appErr.Code
		out.Error = appErr.Message
	} else {
		out.Code = errors.CodeInternal
		out.Error = "Internal server error"
		logger.Error("WebSocket: subscribe %s failed for %s: %v", msg.Feed, client.Actor.ID, err)
	}

	h.send(client, out)
}
