package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rohit30san/thapar-olx/internal/adapter/api/middleware"
	"github.com/rohit30san/thapar-olx/internal/domain/entity"
	"github.com/rohit30san/thapar-olx/pkg/errors"
	"github.com/rohit30san/thapar-olx/pkg/response"
)

// actorOf returns the authenticated caller. Routes using it sit behind
// AuthMiddleware.Authenticate.
func actorOf(c echo.Context) *entity.Actor {
	return middleware.ActorFrom(c)
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	return c.Validate(req)
}

// respondWrite answers a multi-step write. A committed record with a
// PARTIAL_FAILURE is reported together with the failed step.
func respondWrite(c echo.Context, data interface{}, err error, created bool) error {
	if err != nil {
		if data != nil && errors.Is(err, errors.CodePartialFailure) {
			return response.Partial(c, data, err)
		}
		return response.Error(c, err)
	}
	if created {
		return response.Created(c, data)
	}
	return response.Success(c, data)
}

func queryInt(c echo.Context, name string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || v < 0 {
		return def
	}
	return v
}
