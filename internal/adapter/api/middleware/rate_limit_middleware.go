package middleware

import (
	"fmt"
	"math"

	"github.com/labstack/echo/v4"

	"github.com/rohit30san/thapar-olx/internal/infrastructure/ratelimit"
	"github.com/rohit30san/thapar-olx/pkg/errors"
	"github.com/rohit30san/thapar-olx/pkg/logger"
	"github.com/rohit30san/thapar-olx/pkg/response"
)

// RateLimitByIP throttles unauthenticated endpoints per client IP.
func RateLimitByIP(rl *ratelimit.RateLimiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()

			if allowed, wait := rl.Allow(ip, action); !allowed {
				logger.Warn("RATE LIMIT: blocked %s from IP %s (retry in %v)", action, ip, wait)
				c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", int(math.Ceil(wait.Seconds()))))
				return response.Error(c, errors.TooManyRequests("Rate limit exceeded"))
			}

			return next(c)
		}
	}
}
