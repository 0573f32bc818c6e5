package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"store-ops/internal/model"
)

// RequestRepository 维护请求数据访问接口
type RequestRepository interface {
	ListByStoresSince(ctx context.Context, storeIDs []string, since time.Time) ([]model.Request, error)
	CountByStoresStatus(ctx context.Context, storeIDs []string, status string) (map[string]int, error)
}

type requestRepo struct {
	db *gorm.DB
}

// NewRequestRepo 创建 RequestRepository 实例
func NewRequestRepo(db *gorm.DB) RequestRepository {
	return &requestRepo{db: db}
}

func (r *requestRepo) ListByStoresSince(ctx context.Context, storeIDs []string, since time.Time) ([]model.Request, error) {
	if len(storeIDs) == 0 {
		return nil, nil
	}
	var requests []model.Request
	err := r.db.WithContext(ctx).
		Where("store_id IN ? AND created_at >= ?", storeIDs, since).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// CountByStoresStatus 按门店统计指定状态的请求数
func (r *requestRepo) CountByStoresStatus(ctx context.Context, storeIDs []string, status string) (map[string]int, error) {
	counts := make(map[string]int)
	if len(storeIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		StoreID string
		Total   int
	}
	err := r.db.WithContext(ctx).
		Model(&model.Request{}).
		Select("store_id, COUNT(*) AS total").
		Where("store_id IN ? AND status = ?", storeIDs, status).
		Group("store_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.StoreID] = row.Total
	}
	return counts, nil
}

// ── SupplyRequest ──

// SupplyRequestRepository 物资请求数据访问接口
type SupplyRequestRepository interface {
	ListByStoresSince(ctx context.Context, storeIDs []string, since time.Time) ([]model.SupplyRequest, error)
}

type supplyRequestRepo struct {
	db *gorm.DB
}

// NewSupplyRequestRepo 创建 SupplyRequestRepository 实例
func NewSupplyRequestRepo(db *gorm.DB) SupplyRequestRepository {
	return &supplyRequestRepo{db: db}
}

func (r *supplyRequestRepo) ListByStoresSince(ctx context.Context, storeIDs []string, since time.Time) ([]model.SupplyRequest, error) {
	if len(storeIDs) == 0 {
		return nil, nil
	}
	var requests []model.SupplyRequest
	err := r.db.WithContext(ctx).
		Where("store_id IN ? AND created_at >= ?", storeIDs, since).
		Where("status IN ?", []string{
			model.RequestStatusReceived,
			model.RequestStatusInProgress,
			model.RequestStatusManagerInProgress,
		}).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}
