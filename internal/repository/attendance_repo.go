package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"store-ops/internal/model"
)

// AttendanceRepository 出勤数据访问接口
type AttendanceRepository interface {
	// ListByStoresForDays work_date 命中任一日期，或 clock_in_at 落在 [from, to) 内
	ListByStoresForDays(ctx context.Context, storeIDs []string, workDates []string, from, to time.Time) ([]model.Attendance, error)
	// ListOpenByUser 用户尚未下班的出勤
	ListOpenByUser(ctx context.Context, userID string, workDates []string) ([]model.Attendance, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) ListByStoresForDays(ctx context.Context, storeIDs []string, workDates []string, from, to time.Time) ([]model.Attendance, error) {
	if len(storeIDs) == 0 {
		return nil, nil
	}
	var records []model.Attendance
	err := r.db.WithContext(ctx).
		Where("store_id IN ?", storeIDs).
		Where(r.db.Where("work_date IN ?", workDates).
			Or("clock_in_at >= ? AND clock_in_at < ?", from, to)).
		Order("clock_in_at DESC").
		Find(&records).Error
	return records, err
}

func (r *attendanceRepo) ListOpenByUser(ctx context.Context, userID string, workDates []string) ([]model.Attendance, error) {
	var records []model.Attendance
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND work_date IN ? AND clock_out_at IS NULL", userID, workDates).
		Order("clock_in_at DESC").
		Find(&records).Error
	return records, err
}
