package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/rohit30san/thapar-olx/internal/usecase"
	"github.com/rohit30san/thapar-olx/pkg/response"
)

type DealHandler struct {
	dealUseCase *usecase.DealUseCase
}

func NewDealHandler(dealUseCase *usecase.DealUseCase) *DealHandler {
	return &DealHandler{
		dealUseCase: dealUseCase,
	}
}

// CreateDeal is the "Buy now" action on a listing.
func (h *DealHandler) CreateDeal(c echo.Context) error {
	deal, err := h.dealUseCase.CreateDeal(c.Request().Context(), actorOf(c), c.Param("id"))
	// keep a nil *Deal from becoming a non-nil interface
	if deal == nil {
		return respondWrite(c, nil, err, true)
	}
	return respondWrite(c, deal, err, true)
}

type transitionDealRequest struct {
	Status string `json:"status" validate:"required"`
}

func (h *DealHandler) TransitionDeal(c echo.Context) error {
	var req transitionDealRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	deal, err := h.dealUseCase.TransitionDeal(c.Request().Context(), actorOf(c), c.Param("id"), req.Status)
	if deal == nil {
		return respondWrite(c, nil, err, false)
	}
	return respondWrite(c, deal, err, false)
}

type retryDealSyncRequest struct {
	Step string `json:"step" validate:"required,oneof=listing_sync conversation_resolve system_message"`
}

func (h *DealHandler) RetryDealSync(c echo.Context) error {
	var req retryDealSyncRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	deal, err := h.dealUseCase.RetryDealSync(c.Request().Context(), actorOf(c), c.Param("id"), req.Step)
	if deal == nil {
		return respondWrite(c, nil, err, false)
	}
	return respondWrite(c, deal, err, false)
}

func (h *DealHandler) GetDeal(c echo.Context) error {
	deal, err := h.dealUseCase.GetDeal(c.Request().Context(), actorOf(c).ID, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, deal)
}

func (h *DealHandler) ListMyDeals(c echo.Context) error {
	deals, err := h.dealUseCase.ListUserDeals(c.Request().Context(), actorOf(c).ID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, deals)
}
