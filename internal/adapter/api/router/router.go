package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rohit30san/thapar-olx/internal/adapter/api/handler"
	"github.com/rohit30san/thapar-olx/internal/adapter/api/middleware"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/ratelimit"
)

// Handlers groups everything the routers mount.
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Listing      *handler.ListingHandler
	Deal         *handler.DealHandler
	Conversation *handler.ConversationHandler
	Review       *handler.ReviewHandler
	Report       *handler.ReportHandler
	Admin        *handler.AdminHandler
	WebSocket    *handler.WebSocketHandler
	Health       *handler.HealthHandler
	// Dev is only set when running on the in-memory store.
	Dev *handler.DevHandler
}

func Setup(
	e *echo.Echo,
	h Handlers,
	authMiddleware *middleware.AuthMiddleware,
	adminMiddleware *middleware.AdminMiddleware,
	rl *ratelimit.RateLimiter,
) {
	SetupHealthRouter(e, h.Health)
	SetupAuthRouter(e, h.Auth, authMiddleware, rl)
	SetupUserRouter(e, h.User, authMiddleware)
	SetupListingRouter(e, h.Listing, h.Deal, h.Conversation, authMiddleware)
	SetupDealRouter(e, h.Deal, authMiddleware)
	SetupConversationRouter(e, h.Conversation, authMiddleware)
	SetupReviewRouter(e, h.Review, h.Report, authMiddleware)
	SetupAdminRouter(e, h.Admin, h.Report, authMiddleware, adminMiddleware)
	SetupWebSocketRouter(e, h.WebSocket, authMiddleware)
	if h.Dev != nil {
		SetupDevRouter(e, h.Dev)
	}
}
