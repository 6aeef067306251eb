package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/rohit30san/thapar-olx/internal/usecase"
	"github.com/rohit30san/thapar-olx/pkg/response"
	"github.com/rohit30san/thapar-olx/pkg/utils"
)

type ReportHandler struct {
	reportUseCase *usecase.ReportUseCase
}

func NewReportHandler(reportUseCase *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{
		reportUseCase: reportUseCase,
	}
}

type reportSellerRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

func (h *ReportHandler) ReportSeller(c echo.Context) error {
	var req reportSellerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	report, err := h.reportUseCase.ReportSeller(c.Request().Context(), actorOf(c), c.Param("id"), req.Reason)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, report)
}

func (h *ReportHandler) ListReports(c echo.Context) error {
	reports, err := h.reportUseCase.ListReports(c.Request().Context(), actorOf(c), c.QueryParam("status"))
	if err != nil {
		return response.Error(c, err)
	}

	p := utils.GetPaginationParams(c)
	return response.Paginated(c, utils.Paginate(reports, p), int64(len(reports)), p.Page, p.PageSize)
}

func (h *ReportHandler) ResolveReport(c echo.Context) error {
	report, err := h.reportUseCase.ResolveReport(c.Request().Context(), actorOf(c), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, report)
}
