package service

import (
	"go.uber.org/zap"

	"store-ops/config"
	"store-ops/internal/repository"
	"store-ops/pkg/calendar"
)

// Service 所有 Service 的聚合入口
type Service struct {
	StoreStatus     StoreStatusService
	Checklist       ChecklistService
	UnmanagedReport UnmanagedReportService
	Export          ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	cal *calendar.Resolver,
	logger *zap.Logger,
) *Service {
	storeStatus := NewStoreStatusService(cfg, repo, cal, logger)
	return &Service{
		StoreStatus:     storeStatus,
		Checklist:       NewChecklistService(repo, cal, logger),
		UnmanagedReport: NewUnmanagedReportService(cfg, repo, cal, logger),
		Export:          NewExportService(storeStatus, cal, logger),
	}
}
