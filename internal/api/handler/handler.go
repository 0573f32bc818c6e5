package handler

import "store-ops/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	StoreStatus *StoreStatusHandler
	Checklist   *ChecklistHandler
	Report      *ReportHandler
	Export      *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		StoreStatus: NewStoreStatusHandler(svc.StoreStatus),
		Checklist:   NewChecklistHandler(svc.Checklist),
		Report:      NewReportHandler(svc.UnmanagedReport, svc.StoreStatus),
		Export:      NewExportHandler(svc.Export, svc.StoreStatus),
	}
}
