package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/domain/service"
	"github.com/rohit30san/thapar-olx/pkg/errors"
	"github.com/rohit30san/thapar-olx/pkg/response"
)

type AdminMiddleware struct {
	policy *service.Policy
}

func NewAdminMiddleware(policy *service.Policy) *AdminMiddleware {
	return &AdminMiddleware{
		policy: policy,
	}
}

// AdminOnly must run after AuthMiddleware.Authenticate.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor := ActorFrom(c)
		if actor == nil {
			return response.Error(c, errors.Unauthorized("Authentication required", nil))
		}

		if actor.Role == entity.RoleAdmin && !actor.EmailVerified {
			return response.Error(c, errors.Unverified())
		}
		if !m.policy.IsAdmin(actor) {
			return response.Error(c, errors.Forbidden("Admin privileges required", nil))
		}

		return next(c)
	}
}
