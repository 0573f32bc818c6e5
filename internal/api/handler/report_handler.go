package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"store-ops/internal/dto"
	"store-ops/internal/service"
	"store-ops/pkg/response"
)

// ReportHandler 未管理门店日报 HTTP 处理器
type ReportHandler struct {
	reportSvc service.UnmanagedReportService
	statusSvc service.StoreStatusService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.UnmanagedReportService, statusSvc service.StoreStatusService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc, statusSvc: statusSvc}
}

// GetUnmanaged 读取公司某日的未管理门店日报
// GET /api/v1/business/reports/unmanaged?date=YYYY-MM-DD
func (h *ReportHandler) GetUnmanaged(c *gin.Context) {
	var req dto.UnmanagedReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.FailWith(c, response.CodeBadRequest, "date 格式应为 YYYY-MM-DD")
		return
	}
	companyID, ok := resolveCompanyID(c, h.statusSvc)
	if !ok {
		return
	}

	resp, err := h.reportSvc.GetReport(c.Request.Context(), companyID, req.Date)
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.OK(c, resp)
}

// RunUnmanaged 定时任务入口，汇总昨天的未管理门店
// POST /api/v1/cron/unmanaged-stores
func (h *ReportHandler) RunUnmanaged(c *gin.Context) {
	resp, err := h.reportSvc.RunDailyAggregation(c.Request.Context(), c.Query("date"))
	if err != nil {
		h.handleReportError(c, err)
		return
	}
	response.OK(c, resp)
}

func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidReportDate):
		response.Fail(c, response.CodeInvalidDate)
	case errors.Is(err, service.ErrNoCompany):
		response.Fail(c, response.CodeNoCompany)
	case errors.Is(err, service.ErrCompanyListFailed):
		response.Fail(c, response.CodeCompanyListDown)
	default:
		response.InternalError(c)
	}
}
