//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"store-ops/internal/model"
	"store-ops/internal/repository"
	"store-ops/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=store_ops password=store_ops_password dbname=store_ops_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 使用与线上一致的迁移文件建表
	if err := database.RunMigrations(testDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "执行迁移失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// setupTestData 创建公司、员工与两家门店，返回清理函数
func setupTestData(t *testing.T) (company *model.Company, user *model.User, stores []model.Store, cleanup func()) {
	t.Helper()
	ctx := context.Background()

	company = &model.Company{Name: fmt.Sprintf("测试公司-%d", time.Now().UnixNano())}
	if err := testDB.WithContext(ctx).Create(company).Error; err != nil {
		t.Fatalf("创建公司失败: %v", err)
	}

	user = &model.User{Name: "테스트", Role: model.RoleStaff, CompanyID: &company.ID}
	if err := testDB.WithContext(ctx).Create(user).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	days := "월수금"
	stores = []model.Store{
		{CompanyID: company.ID, Name: "A점", ManagementDays: &days},
		{CompanyID: company.ID, Name: "B점", ManagementDays: &days, IsNightShift: true},
	}
	if err := testDB.WithContext(ctx).Create(&stores).Error; err != nil {
		t.Fatalf("创建门店失败: %v", err)
	}

	cleanup = func() {
		ids := []string{stores[0].ID, stores[1].ID}
		testDB.Exec("DELETE FROM attendance WHERE store_id IN ?", ids)
		testDB.Exec("DELETE FROM store_assign WHERE store_id IN ?", ids)
		testDB.Exec("DELETE FROM unmanaged_stores_summary WHERE company_id = ?", company.ID)
		testDB.Exec("DELETE FROM stores WHERE company_id = ?", company.ID)
		testDB.Exec("DELETE FROM users WHERE id = ?", user.ID)
		testDB.Exec("DELETE FROM companies WHERE id = ?", company.ID)
	}
	return
}

// ═══════════════════════════════════════════════════════════
// StoreRepository
// ═══════════════════════════════════════════════════════════

func TestStoreRepo_ListByCompany_ExcludesSoftDeleted(t *testing.T) {
	company, _, stores, cleanup := setupTestData(t)
	defer cleanup()

	ctx := context.Background()
	repo := repository.NewStoreRepo(testDB)

	if err := testDB.WithContext(ctx).Delete(&stores[1]).Error; err != nil {
		t.Fatalf("软删除门店失败: %v", err)
	}

	result, err := repo.ListByCompany(ctx, company.ID)
	if err != nil {
		t.Fatalf("ListByCompany 失败: %v", err)
	}
	if len(result) != 1 || result[0].ID != stores[0].ID {
		t.Errorf("期望仅返回未删除门店，实际: %+v", result)
	}
}

func TestStoreRepo_ListCompanyIDs(t *testing.T) {
	company, _, _, cleanup := setupTestData(t)
	defer cleanup()

	ids, err := repository.NewStoreRepo(testDB).ListCompanyIDs(context.Background())
	if err != nil {
		t.Fatalf("ListCompanyIDs 失败: %v", err)
	}
	count := 0
	for _, id := range ids {
		if id == company.ID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("公司 ID 应去重后出现一次，实际: %d", count)
	}
}

// ═══════════════════════════════════════════════════════════
// AttendanceRepository
// ═══════════════════════════════════════════════════════════

func TestAttendanceRepo_ListByStoresForDays(t *testing.T) {
	_, user, stores, cleanup := setupTestData(t)
	defer cleanup()

	ctx := context.Background()
	repo := repository.NewAttendanceRepo(testDB)

	from := time.Date(2026, 10, 14, 15, 0, 0, 0, time.UTC) // KST 10-15 00:00
	to := from.Add(24 * time.Hour)

	records := []model.Attendance{
		// work_date 命中
		{StoreID: stores[0].ID, UserID: user.ID, WorkDate: time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), ClockInAt: from.Add(2 * time.Hour)},
		// work_date 为 UTC 日期，但 clock_in 落在窗口内
		{StoreID: stores[1].ID, UserID: user.ID, WorkDate: time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), ClockInAt: from.Add(time.Hour)},
		// 窗口外
		{StoreID: stores[0].ID, UserID: user.ID, WorkDate: time.Date(2026, 10, 13, 0, 0, 0, 0, time.UTC), ClockInAt: from.Add(-30 * time.Hour)},
	}
	if err := testDB.WithContext(ctx).Create(&records).Error; err != nil {
		t.Fatalf("创建出勤失败: %v", err)
	}

	result, err := repo.ListByStoresForDays(ctx, []string{stores[0].ID, stores[1].ID}, []string{"2026-10-15"}, from, to)
	if err != nil {
		t.Fatalf("ListByStoresForDays 失败: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("期望 2 条出勤，实际: %d", len(result))
	}
	if !result[0].ClockInAt.After(result[1].ClockInAt) {
		t.Error("结果应按 clock_in_at 倒序")
	}

	open, err := repo.ListOpenByUser(ctx, user.ID, []string{"2026-10-15", "2026-10-14"})
	if err != nil {
		t.Fatalf("ListOpenByUser 失败: %v", err)
	}
	if len(open) != 2 {
		t.Errorf("期望 2 条未下班出勤，实际: %d", len(open))
	}
}

// ═══════════════════════════════════════════════════════════
// UnmanagedSummaryRepository
// ═══════════════════════════════════════════════════════════

func TestUnmanagedSummaryRepo_UpsertIdempotent(t *testing.T) {
	company, _, stores, cleanup := setupTestData(t)
	defer cleanup()

	ctx := context.Background()
	repo := repository.NewUnmanagedSummaryRepo(testDB)
	reportDate := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	first := &model.UnmanagedStoreSummary{
		CompanyID:         company.ID,
		ReportDate:        reportDate,
		StoreType:         model.StoreTypeGeneral,
		TotalStores:       1,
		UnmanagedCount:    1,
		UnmanagedStoreIDs: model.StringArray{stores[0].ID},
		AggregatedAt:      time.Now().UTC(),
	}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("首次写入失败: %v", err)
	}

	second := &model.UnmanagedStoreSummary{
		CompanyID:         company.ID,
		ReportDate:        reportDate,
		StoreType:         model.StoreTypeGeneral,
		TotalStores:       1,
		ManagedCount:      1,
		UnmanagedStoreIDs: model.StringArray{},
		AggregatedAt:      time.Now().UTC(),
	}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("重复写入失败: %v", err)
	}

	rows, err := repo.ListByCompanyDate(ctx, company.ID, "2026-10-15")
	if err != nil {
		t.Fatalf("ListByCompanyDate 失败: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("同一公司/日期/类型应只有一行，实际: %d", len(rows))
	}
	if rows[0].ManagedCount != 1 || rows[0].UnmanagedCount != 0 || len(rows[0].UnmanagedStoreIDs) != 0 {
		t.Errorf("应被第二次写入覆盖: %+v", rows[0])
	}
}
