package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/internal/usecase"
	"github.com/rohit30san/thapar-olx/pkg/errors"
	"github.com/rohit30san/thapar-olx/pkg/response"
)

const (
	ContextUID   = "uid"
	ContextActor = "actor"
)

type AuthMiddleware struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthMiddleware(authUseCase *usecase.AuthUseCase) *AuthMiddleware {
	return &AuthMiddleware{
		authUseCase: authUseCase,
	}
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		idToken, err := bearerToken(c)
		if err != nil {
			return response.Error(c, err)
		}

		actor, err := m.authUseCase.Authenticate(c.Request().Context(), idToken)
		if err != nil {
			return response.Error(c, err)
		}

		c.Set(ContextUID, actor.ID)
		c.Set(ContextActor, actor)
		return next(c)
	}
}

// bearerToken reads the Authorization header. Browsers cannot set headers on
// a websocket handshake, so the token query parameter is accepted as well.
func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		if token := c.QueryParam("token"); token != "" {
			return token, nil
		}
		return "", errors.Unauthorized("Authorization header is required", nil)
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errors.Unauthorized("Invalid authorization format", nil)
	}
	return parts[1], nil
}

// ActorFrom returns the caller stored by Authenticate.
func ActorFrom(c echo.Context) *entity.Actor {
	actor, _ := c.Get(ContextActor).(*entity.Actor)
	return actor
}
