package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/rohit30san/thapar-olx/internal/usecase"
	"github.com/rohit30san/thapar-olx/pkg/response"
)

type AdminHandler struct {
	moderationUseCase *usecase.ModerationUseCase
}

func NewAdminHandler(moderationUseCase *usecase.ModerationUseCase) *AdminHandler {
	return &AdminHandler{
		moderationUseCase: moderationUseCase,
	}
}

func (h *AdminHandler) GetDashboardStats(c echo.Context) error {
	stats, err := h.moderationUseCase.Dashboard(c.Request().Context(), actorOf(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, stats)
}

// removeListingRequest is optional. Passing the seller and title lets a
// retry finish the cascade after the listing itself is already gone.
type removeListingRequest struct {
	SellerID string `json:"seller_id"`
	Title    string `json:"title"`
}

func (h *AdminHandler) RemoveListing(c echo.Context) error {
	var req removeListingRequest
	if c.Request().ContentLength > 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return response.Error(c, err)
		}
	}

	report, err := h.moderationUseCase.RemoveListing(c.Request().Context(), actorOf(c), usecase.RemoveListingInput{
		ListingID: c.Param("id"),
		SellerID:  req.SellerID,
		Title:     req.Title,
	})
	if report == nil {
		return respondWrite(c, nil, err, false)
	}
	return respondWrite(c, report, err, false)
}

type setUserDisabledRequest struct {
	Disabled *bool `json:"disabled" validate:"required"`
}

func (h *AdminHandler) SetUserDisabled(c echo.Context) error {
	var req setUserDisabledRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.moderationUseCase.SetUserDisabled(c.Request().Context(), actorOf(c), c.Param("id"), *req.Disabled)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *AdminHandler) HideSellerListings(c echo.Context) error {
	hidden, err := h.moderationUseCase.HideAllListingsForSeller(c.Request().Context(), actorOf(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]int{"hidden": hidden})
}

func (h *AdminHandler) ListDisabledUsers(c echo.Context) error {
	users, err := h.moderationUseCase.ListDisabledUsers(c.Request().Context(), actorOf(c))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, users)
}
