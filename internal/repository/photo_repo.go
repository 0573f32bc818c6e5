package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"store-ops/internal/model"
)

// PhotoRepository 清扫/商品照片数据访问接口
type PhotoRepository interface {
	// ListCleaningByStores [from, to) 内的清扫照片，不含库存类
	ListCleaningByStores(ctx context.Context, storeIDs []string, from, to time.Time) ([]model.CleaningPhoto, error)
	ListProductByStoresSince(ctx context.Context, storeIDs []string, since time.Time, types []string) ([]model.ProductPhoto, error)
}

type photoRepo struct {
	db *gorm.DB
}

// NewPhotoRepo 创建 PhotoRepository 实例
func NewPhotoRepo(db *gorm.DB) PhotoRepository {
	return &photoRepo{db: db}
}

func (r *photoRepo) ListCleaningByStores(ctx context.Context, storeIDs []string, from, to time.Time) ([]model.CleaningPhoto, error) {
	if len(storeIDs) == 0 {
		return nil, nil
	}
	var photos []model.CleaningPhoto
	err := r.db.WithContext(ctx).
		Where("store_id IN ? AND created_at >= ? AND created_at < ?", storeIDs, from, to).
		Where("area_category <> ?", "inventory").
		Order("created_at DESC").
		Find(&photos).Error
	return photos, err
}

func (r *photoRepo) ListProductByStoresSince(ctx context.Context, storeIDs []string, since time.Time, types []string) ([]model.ProductPhoto, error) {
	if len(storeIDs) == 0 {
		return nil, nil
	}
	var photos []model.ProductPhoto
	err := r.db.WithContext(ctx).
		Select("id", "store_id", "type", "created_at").
		Where("store_id IN ? AND created_at >= ? AND type IN ?", storeIDs, since, types).
		Order("created_at DESC").
		Find(&photos).Error
	return photos, err
}
