package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"store-ops/internal/model"
)

// ProblemReportRepository 问题上报数据访问接口
type ProblemReportRepository interface {
	ListByStoresSince(ctx context.Context, storeIDs []string, since time.Time) ([]model.ProblemReport, error)
}

type problemReportRepo struct {
	db *gorm.DB
}

// NewProblemReportRepo 创建 ProblemReportRepository 实例
func NewProblemReportRepo(db *gorm.DB) ProblemReportRepository {
	return &problemReportRepo{db: db}
}

func (r *problemReportRepo) ListByStoresSince(ctx context.Context, storeIDs []string, since time.Time) ([]model.ProblemReport, error) {
	if len(storeIDs) == 0 {
		return nil, nil
	}
	var reports []model.ProblemReport
	err := r.db.WithContext(ctx).
		Select("id", "store_id", "category", "title", "status", "business_confirmed_at", "created_at").
		Where("store_id IN ? AND created_at >= ?", storeIDs, since).
		Order("created_at DESC").
		Find(&reports).Error
	return reports, err
}

// ── LostItem ──

// LostItemRepository 失物数据访问接口
type LostItemRepository interface {
	ListByStoresSince(ctx context.Context, storeIDs []string, since time.Time) ([]model.LostItem, error)
}

type lostItemRepo struct {
	db *gorm.DB
}

// NewLostItemRepo 创建 LostItemRepository 实例
func NewLostItemRepo(db *gorm.DB) LostItemRepository {
	return &lostItemRepo{db: db}
}

// ListByStoresSince 窗口内创建或更新过的失物
func (r *lostItemRepo) ListByStoresSince(ctx context.Context, storeIDs []string, since time.Time) ([]model.LostItem, error) {
	if len(storeIDs) == 0 {
		return nil, nil
	}
	var items []model.LostItem
	err := r.db.WithContext(ctx).
		Where("store_id IN ?", storeIDs).
		Where("created_at >= ? OR updated_at >= ?", since, since).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}
