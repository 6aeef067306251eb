package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rohit30san/thapar-olx/internal/domain/repository"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/firebase"
	"github.com/rohit30san/thapar-olx/internal/infrastructure/storage"
	"github.com/rohit30san/thapar-olx/pkg/errors"
	"github.com/rohit30san/thapar-olx/pkg/response"
)

// DevHandler backs local runs on the in-memory store, where there is no
// Firebase project to mint tokens or follow verification links.
type DevHandler struct {
	identity *firebase.DevIdentityProvider
	userRepo repository.UserRepository
	uploads  *storage.MemoryAssetStore
}

func NewDevHandler(identity *firebase.DevIdentityProvider, userRepo repository.UserRepository, uploads *storage.MemoryAssetStore) *DevHandler {
	return &DevHandler{
		identity: identity,
		userRepo: userRepo,
		uploads:  uploads,
	}
}

type devTokenRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Verified bool   `json:"verified"`
}

func (h *DevHandler) IssueToken(c echo.Context) error {
	var req devTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"token": firebase.DevToken(req.UserID, req.Email, req.Verified),
	})
}

// Verify is the target of the verification link sent on signup.
func (h *DevHandler) Verify(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return response.Error(c, errors.BadRequest("email is required", nil))
	}

	user, err := h.userRepo.GetByEmail(c.Request().Context(), email)
	if err != nil {
		return response.Error(c, err)
	}

	h.identity.MarkVerified(user.ID)
	return response.Success(c, map[string]interface{}{
		"user_id":  user.ID,
		"verified": true,
	})
}

// ServeUpload returns an image kept by the in-memory asset store.
func (h *DevHandler) ServeUpload(c echo.Context) error {
	data, ok := h.uploads.ObjectByName(c.Param("*"))
	if !ok {
		return response.Error(c, errors.NotFound("Upload", nil))
	}
	return c.Blob(http.StatusOK, http.DetectContentType(data), data)
}
