package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/rohit30san/thapar-olx/internal/usecase"
	"github.com/rohit30san/thapar-olx/pkg/response"
)

type ConversationHandler struct {
	conversationUseCase *usecase.ConversationUseCase
}

func NewConversationHandler(conversationUseCase *usecase.ConversationUseCase) *ConversationHandler {
	return &ConversationHandler{
		conversationUseCase: conversationUseCase,
	}
}

// MessageSeller opens (or reopens) the thread with the seller of a listing.
func (h *ConversationHandler) MessageSeller(c echo.Context) error {
	conversation, err := h.conversationUseCase.MessageSeller(c.Request().Context(), actorOf(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conversation)
}

type resolveConversationRequest struct {
	ListingID string `json:"listing_id"`
	UserA     string `json:"user_a" validate:"required"`
	UserB     string `json:"user_b" validate:"required"`
}

func (h *ConversationHandler) ResolveConversation(c echo.Context) error {
	var req resolveConversationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	conversation, err := h.conversationUseCase.ResolveConversation(c.Request().Context(), actorOf(c).ID, req.ListingID, req.UserA, req.UserB)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conversation)
}

func (h *ConversationHandler) ListConversations(c echo.Context) error {
	conversations, err := h.conversationUseCase.ListConversations(c.Request().Context(), actorOf(c).ID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conversations)
}

func (h *ConversationHandler) GetConversation(c echo.Context) error {
	conversation, err := h.conversationUseCase.GetConversation(c.Request().Context(), actorOf(c).ID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, conversation)
}

func (h *ConversationHandler) ListMessages(c echo.Context) error {
	messages, err := h.conversationUseCase.ListMessages(c.Request().Context(), actorOf(c).ID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, messages)
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

func (h *ConversationHandler) SendMessage(c echo.Context) error {
	var req sendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.conversationUseCase.SendMessage(c.Request().Context(), actorOf(c), c.Param("id"), req.Text)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, message)
}
