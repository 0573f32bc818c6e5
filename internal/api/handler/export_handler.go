package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"store-ops/internal/service"
	"store-ops/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
	statusSvc service.StoreStatusService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService, statusSvc service.StoreStatusService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc, statusSvc: statusSvc}
}

// ExportStoreStatus 导出门店状态看板
// GET /api/v1/business/stores/status/export
func (h *ExportHandler) ExportStoreStatus(c *gin.Context) {
	companyID, ok := resolveCompanyID(c, h.statusSvc)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportStoreStatus(c.Request.Context(), companyID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Fail(c, response.CodeExportFailed)
	default:
		handleStoreStatusError(c, err)
	}
}
