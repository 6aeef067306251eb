package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rohit30san/thapar-olx/internal/adapter/api/handler"
	"github.com/rohit30san/thapar-olx/internal/adapter/api/middleware"
)

func SetupConversationRouter(e *echo.Echo, conversationHandler *handler.ConversationHandler, authMiddleware *middleware.AuthMiddleware) {
	conversations := e.Group("/v1/conversations")
	conversations.Use(authMiddleware.Authenticate)

	conversations.GET("", conversationHandler.ListConversations)
	conversations.POST("", conversationHandler.ResolveConversation)
	conversations.GET("/:id", conversationHandler.GetConversation)
	conversations.GET("/:id/messages", conversationHandler.ListMessages)
	conversations.POST("/:id/messages", conversationHandler.SendMessage)
}
