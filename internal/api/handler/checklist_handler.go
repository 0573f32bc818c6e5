package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"store-ops/internal/dto"
	"store-ops/internal/service"
	"store-ops/pkg/response"
)

// ChecklistHandler 清单进度 HTTP 处理器
type ChecklistHandler struct {
	checklistSvc service.ChecklistService
}

// NewChecklistHandler 创建 ChecklistHandler
func NewChecklistHandler(checklistSvc service.ChecklistService) *ChecklistHandler {
	return &ChecklistHandler{checklistSvc: checklistSvc}
}

// GetProgress 单个清单的完成度
// GET /api/v1/checklists/:id/progress?stage=before|after
func (h *ChecklistHandler) GetProgress(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	var req dto.ChecklistProgressRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.FailWith(c, response.CodeBadRequest, "stage 只能为 before 或 after")
		return
	}

	viewer := service.ChecklistViewer{UserID: userID, Role: role, CompanyID: GetCompanyID(c)}
	resp, err := h.checklistSvc.EvaluateChecklist(c.Request.Context(), c.Param("id"), req.Stage, viewer)
	if err != nil {
		h.handleChecklistError(c, err)
		return
	}
	response.OK(c, resp)
}

// GetStaffProgress 当前员工出勤门店的清单进度
// GET /api/v1/staff/checklist-progress
func (h *ChecklistHandler) GetStaffProgress(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	resp, err := h.checklistSvc.GetStaffProgress(c.Request.Context(), userID)
	if err != nil {
		h.handleChecklistError(c, err)
		return
	}
	response.OK(c, resp)
}

func (h *ChecklistHandler) handleChecklistError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrChecklistNotFound):
		response.Fail(c, response.CodeChecklistAbsent)
	case errors.Is(err, service.ErrInvalidChecklistStage):
		response.Fail(c, response.CodeInvalidStage)
	case errors.Is(err, service.ErrChecklistMalformed):
		response.Fail(c, response.CodeChecklistBroken)
	default:
		response.InternalError(c)
	}
}
