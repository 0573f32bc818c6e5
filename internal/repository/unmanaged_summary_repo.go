package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"store-ops/internal/model"
)

// UnmanagedSummaryRepository 未管理门店日报数据访问接口
type UnmanagedSummaryRepository interface {
	Upsert(ctx context.Context, summary *model.UnmanagedStoreSummary) error
	ListByCompanyDate(ctx context.Context, companyID, reportDate string) ([]model.UnmanagedStoreSummary, error)
}

type unmanagedSummaryRepo struct {
	db *gorm.DB
}

// NewUnmanagedSummaryRepo 创建 UnmanagedSummaryRepository 实例
func NewUnmanagedSummaryRepo(db *gorm.DB) UnmanagedSummaryRepository {
	return &unmanagedSummaryRepo{db: db}
}

// Upsert 按 (company_id, report_date, store_type) 覆盖写入
func (r *unmanagedSummaryRepo) Upsert(ctx context.Context, summary *model.UnmanagedStoreSummary) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "company_id"}, {Name: "report_date"}, {Name: "store_type"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_stores", "managed_count", "unmanaged_count",
				"unmanaged_store_ids", "aggregated_at", "updated_at",
			}),
		}).
		Create(summary).Error
}

func (r *unmanagedSummaryRepo) ListByCompanyDate(ctx context.Context, companyID, reportDate string) ([]model.UnmanagedStoreSummary, error) {
	var summaries []model.UnmanagedStoreSummary
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND report_date = ?", companyID, reportDate).
		Order("store_type ASC").
		Find(&summaries).Error
	return summaries, err
}
