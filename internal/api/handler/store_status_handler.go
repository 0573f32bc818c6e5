package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"store-ops/internal/service"
	"store-ops/pkg/response"
)

// StoreStatusHandler 门店状态看板 HTTP 处理器
type StoreStatusHandler struct {
	statusSvc service.StoreStatusService
}

// NewStoreStatusHandler 创建 StoreStatusHandler
func NewStoreStatusHandler(statusSvc service.StoreStatusService) *StoreStatusHandler {
	return &StoreStatusHandler{statusSvc: statusSvc}
}

// resolveCompanyID Token 未携带 company_id 时按用户记录解析
func resolveCompanyID(c *gin.Context, statusSvc service.StoreStatusService) (string, bool) {
	if companyID := GetCompanyID(c); companyID != "" {
		return companyID, true
	}
	userID, ok := MustGetUserID(c)
	if !ok {
		return "", false
	}
	companyID, err := statusSvc.ResolveCompany(c.Request.Context(), userID)
	if err != nil {
		handleStoreStatusError(c, err)
		return "", false
	}
	return companyID, true
}

// GetCompanyStatuses 公司全部门店当前状态
// GET /api/v1/business/stores/status
func (h *StoreStatusHandler) GetCompanyStatuses(c *gin.Context) {
	companyID, ok := resolveCompanyID(c, h.statusSvc)
	if !ok {
		return
	}

	board, err := h.statusSvc.ComputeCompanyStoreStatuses(c.Request.Context(), companyID)
	if err != nil {
		handleStoreStatusError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

// GetManagerStatuses 店长负责门店的当前状态
// GET /api/v1/store-manager/stores/status
func (h *StoreStatusHandler) GetManagerStatuses(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	companyID, ok := resolveCompanyID(c, h.statusSvc)
	if !ok {
		return
	}

	board, err := h.statusSvc.ComputeManagerStoreStatuses(c.Request.Context(), companyID, userID)
	if err != nil {
		handleStoreStatusError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func handleStoreStatusError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoCompany):
		response.Fail(c, response.CodeNoCompany)
	case errors.Is(err, service.ErrStoreListUnavailable):
		response.Fail(c, response.CodeStoreListDown)
	default:
		response.InternalError(c)
	}
}
