package repository

import (
	"context"

	"gorm.io/gorm"

	"store-ops/internal/model"
)

// ChecklistRepository 清单数据访问接口
type ChecklistRepository interface {
	GetByID(ctx context.Context, id string) (*model.Checklist, error)
	// ListByStoresForDates 当日实例与模板一次取回
	ListByStoresForDates(ctx context.Context, storeIDs []string, workDates []string, templateDate string) ([]model.Checklist, error)
	ListAssigned(ctx context.Context, storeIDs []string, userID string, workDates []string) ([]model.Checklist, error)
}

type checklistRepo struct {
	db *gorm.DB
}

// NewChecklistRepo 创建 ChecklistRepository 实例
func NewChecklistRepo(db *gorm.DB) ChecklistRepository {
	return &checklistRepo{db: db}
}

func (r *checklistRepo) GetByID(ctx context.Context, id string) (*model.Checklist, error) {
	var checklist model.Checklist
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&checklist).Error
	if err != nil {
		return nil, err
	}
	return &checklist, nil
}

func (r *checklistRepo) ListByStoresForDates(ctx context.Context, storeIDs []string, workDates []string, templateDate string) ([]model.Checklist, error) {
	if len(storeIDs) == 0 {
		return nil, nil
	}
	var checklists []model.Checklist
	err := r.db.WithContext(ctx).
		Where("store_id IN ?", storeIDs).
		Where(r.db.Where("work_date IN ?", workDates).
			Or("work_date = ? AND assigned_user_id IS NULL", templateDate)).
		Order("updated_at DESC").
		Find(&checklists).Error
	return checklists, err
}

func (r *checklistRepo) ListAssigned(ctx context.Context, storeIDs []string, userID string, workDates []string) ([]model.Checklist, error) {
	if len(storeIDs) == 0 {
		return nil, nil
	}
	var checklists []model.Checklist
	err := r.db.WithContext(ctx).
		Where("store_id IN ? AND assigned_user_id = ? AND work_date IN ?", storeIDs, userID, workDates).
		Order("updated_at DESC").
		Find(&checklists).Error
	return checklists, err
}
