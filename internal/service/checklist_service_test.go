package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"store-ops/internal/model"
	"store-ops/pkg/calendar"
)

func setupTestChecklistService(asOf time.Time) (*checklistService, *mockRepos) {
	repos := newMockRepos()
	svc := NewChecklistService(repos.repository(), calendar.KST(), zap.NewNop()).(*checklistService)
	svc.now = func() time.Time { return asOf }
	return svc, repos
}

var ownerViewer = ChecklistViewer{UserID: "owner", Role: model.RoleBusinessOwner, CompanyID: testCompanyID}

// ── EvaluateChecklist ──

func TestChecklistService_EvaluateChecklist_NotFound(t *testing.T) {
	svc, _ := setupTestChecklistService(kstTime(15, 14, 0))

	_, err := svc.EvaluateChecklist(context.Background(), "missing", "", ownerViewer)
	if !errors.Is(err, ErrChecklistNotFound) {
		t.Errorf("期望 ErrChecklistNotFound，实际: %v", err)
	}
}

func TestChecklistService_EvaluateChecklist_InvalidStage(t *testing.T) {
	svc, _ := setupTestChecklistService(kstTime(15, 14, 0))

	_, err := svc.EvaluateChecklist(context.Background(), "cl1", "during", ownerViewer)
	if !errors.Is(err, ErrInvalidChecklistStage) {
		t.Errorf("期望 ErrInvalidChecklistStage，实际: %v", err)
	}
}

func TestChecklistService_EvaluateChecklist_Malformed(t *testing.T) {
	svc, repos := setupTestChecklistService(kstTime(15, 14, 0))
	repos.store.stores = []model.Store{{ID: "s1", CompanyID: testCompanyID}}
	repos.checklist.checklists = []model.Checklist{
		{ID: "cl1", StoreID: "s1", Items: datatypes.JSON(`[{"area":"입구"}]`)},
	}

	_, err := svc.EvaluateChecklist(context.Background(), "cl1", "before", ownerViewer)
	if !errors.Is(err, ErrChecklistMalformed) {
		t.Errorf("期望 ErrChecklistMalformed，实际: %v", err)
	}
}

func TestChecklistService_EvaluateChecklist_Success(t *testing.T) {
	svc, repos := setupTestChecklistService(kstTime(15, 14, 0))
	repos.store.stores = []model.Store{{ID: "s1", CompanyID: testCompanyID}}
	repos.checklist.checklists = []model.Checklist{
		{ID: "cl1", StoreID: "s1", Items: datatypes.JSON(`[{"area":"입구","type":"before_after_photo","before_photo_url":"x"}]`)},
	}

	resp, err := svc.EvaluateChecklist(context.Background(), "cl1", "before", ownerViewer)
	if err != nil {
		t.Fatalf("意外错误: %v", err)
	}
	if resp.Total != 2 || resp.Completed != 1 || resp.Percentage != 50 {
		t.Errorf("进度错误: %+v", resp)
	}
	if !resp.StageComplete {
		t.Error("清扫前阶段应已完成")
	}
	if resp.NextStage != string(StageAfter) {
		t.Errorf("下一阶段期望 after，实际: %s", resp.NextStage)
	}
}

func seedScopedChecklist(repos *mockRepos) {
	repos.store.stores = []model.Store{
		{ID: "s1", CompanyID: testCompanyID},
		{ID: "s9", CompanyID: "c2"},
	}
	repos.checklist.checklists = []model.Checklist{
		{ID: "cl1", StoreID: "s1", AssignedUserID: strPtr("u1"), Items: datatypes.JSON(`[{"area":"바닥","type":"check","checked":true}]`)},
		{ID: "cl9", StoreID: "s9", Items: datatypes.JSON(`[{"area":"바닥","type":"check"}]`)},
	}
	repos.storeAssign.assigns = []model.StoreAssign{{StoreID: "s1", UserID: "m1"}}
	repos.user.users["owner2"] = &model.User{ID: "owner2", CompanyID: strPtr(testCompanyID)}
}

func TestChecklistService_EvaluateChecklist_Scope(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		viewer  ChecklistViewer
		allowed bool
	}{
		{"经营者查看本公司门店", "cl1", ownerViewer, true},
		{"经营者查看他公司门店", "cl9", ownerViewer, false},
		{"Token 无公司时按用户记录解析", "cl1", ChecklistViewer{UserID: "owner2", Role: model.RoleBusinessOwner}, true},
		{"Token 无公司时他公司门店", "cl9", ChecklistViewer{UserID: "owner2", Role: model.RoleBusinessOwner}, false},
		{"无公司的经营者", "cl1", ChecklistViewer{UserID: "ghost", Role: model.RoleBusinessOwner}, false},
		{"店长查看分配的门店", "cl1", ChecklistViewer{UserID: "m1", Role: model.RoleStoreManager, CompanyID: testCompanyID}, true},
		{"店长查看未分配的门店", "cl9", ChecklistViewer{UserID: "m1", Role: model.RoleStoreManager}, false},
		{"员工查看指派给自己的清单", "cl1", ChecklistViewer{UserID: "u1", Role: model.RoleStaff}, true},
		{"员工查看他人清单", "cl1", ChecklistViewer{UserID: "u2", Role: model.RoleStaff}, false},
		{"员工跨公司", "cl1", ChecklistViewer{UserID: "u1", Role: model.RoleStaff, CompanyID: "c2"}, false},
		{"未知角色", "cl1", ChecklistViewer{UserID: "u1", Role: "guest", CompanyID: testCompanyID}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repos := setupTestChecklistService(kstTime(15, 14, 0))
			seedScopedChecklist(repos)

			resp, err := svc.EvaluateChecklist(context.Background(), tt.id, "", tt.viewer)
			if tt.allowed {
				if err != nil {
					t.Fatalf("意外错误: %v", err)
				}
				if resp.ChecklistID != tt.id {
					t.Errorf("清单 ID 期望 %s，实际: %s", tt.id, resp.ChecklistID)
				}
				return
			}
			if !errors.Is(err, ErrChecklistNotFound) {
				t.Errorf("无权查看时期望 ErrChecklistNotFound，实际: %v", err)
			}
			if resp != nil {
				t.Errorf("无权查看时不应返回进度: %+v", resp)
			}
		})
	}
}

func TestChecklistService_EvaluateChecklist_MalformedHiddenAcrossCompany(t *testing.T) {
	svc, repos := setupTestChecklistService(kstTime(15, 14, 0))
	repos.store.stores = []model.Store{{ID: "s9", CompanyID: "c2"}}
	repos.checklist.checklists = []model.Checklist{
		{ID: "cl9", StoreID: "s9", Items: datatypes.JSON(`not json`)},
	}

	_, err := svc.EvaluateChecklist(context.Background(), "cl9", "", ownerViewer)
	if !errors.Is(err, ErrChecklistNotFound) {
		t.Errorf("他公司的损坏清单也应按不存在处理，实际: %v", err)
	}
}

func TestChecklistService_EvaluateChecklist_AssignLookupError(t *testing.T) {
	svc, repos := setupTestChecklistService(kstTime(15, 14, 0))
	seedScopedChecklist(repos)
	repos.storeAssign.err = errMockDB

	_, err := svc.EvaluateChecklist(context.Background(), "cl1", "", ChecklistViewer{UserID: "m1", Role: model.RoleStoreManager})
	if !errors.Is(err, errMockDB) {
		t.Errorf("期望透传数据库错误，实际: %v", err)
	}
}

// ── GetStaffProgress ──

func TestChecklistService_GetStaffProgress_NoOpenAttendance(t *testing.T) {
	svc, repos := setupTestChecklistService(kstTime(15, 14, 0))
	repos.attendance.records = []model.Attendance{
		{StoreID: "s1", UserID: "u1", WorkDate: workDate(2026, 10, 15), ClockInAt: kstTime(15, 9, 0), ClockOutAt: timePtr(kstTime(15, 12, 0))},
	}

	result, err := svc.GetStaffProgress(context.Background(), "u1")
	if err != nil {
		t.Fatalf("意外错误: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("已下班时不应返回门店，实际: %d", len(result))
	}
}

func TestChecklistService_GetStaffProgress_Success(t *testing.T) {
	// 凌晨 02:00，昨天上班的夜班记录仍然有效
	svc, repos := setupTestChecklistService(kstTime(16, 2, 0))
	repos.store.stores = []model.Store{{ID: "s1", CompanyID: testCompanyID, Name: "강남점"}}
	repos.attendance.records = []model.Attendance{
		{StoreID: "s1", UserID: "u1", WorkDate: workDate(2026, 10, 15), ClockInAt: kstTime(15, 22, 0)},
	}
	repos.checklist.checklists = []model.Checklist{
		{ID: "done", StoreID: "s1", AssignedUserID: strPtr("u1"), WorkDate: workDate(2026, 10, 15),
			Items: datatypes.JSON(`[{"area":"바닥","type":"check","checked":true}]`)},
		{ID: "half", StoreID: "s1", AssignedUserID: strPtr("u1"), WorkDate: workDate(2026, 10, 15),
			Items: datatypes.JSON(`[{"area":"입구","type":"before_after_photo","after_photo_url":"a"}]`)},
		{ID: "bad", StoreID: "s1", AssignedUserID: strPtr("u1"), WorkDate: workDate(2026, 10, 15),
			Items: datatypes.JSON(`[{"area":"입구","type":"?"}]`)},
		{ID: "other", StoreID: "s1", AssignedUserID: strPtr("u2"), WorkDate: workDate(2026, 10, 15),
			Items: datatypes.JSON(`[{"area":"바닥","type":"check"}]`)},
	}
	repos.request.requests = []model.Request{
		{StoreID: "s1", Status: model.RequestStatusInProgress},
		{StoreID: "s1", Status: model.RequestStatusInProgress},
		{StoreID: "s1", Status: model.RequestStatusCompleted},
	}

	result, err := svc.GetStaffProgress(context.Background(), "u1")
	if err != nil {
		t.Fatalf("意外错误: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("期望 1 个门店，实际: %d", len(result))
	}
	p := result[0]
	if p.StoreName != "강남점" {
		t.Errorf("门店名期望 강남점，实际: %s", p.StoreName)
	}
	if p.Total != 3 || p.Completed != 2 || p.Percentage != 67 {
		t.Errorf("进度错误: total=%d completed=%d pct=%d", p.Total, p.Completed, p.Percentage)
	}
	if p.IncompleteChecklists != 1 {
		t.Errorf("未完成清单期望 1，实际: %d", p.IncompleteChecklists)
	}
	if p.IncompleteRequests != 2 {
		t.Errorf("处理中请求期望 2，实际: %d", p.IncompleteRequests)
	}
}

func TestChecklistService_GetStaffProgress_SingleStoreQuery(t *testing.T) {
	svc, repos := setupTestChecklistService(kstTime(15, 14, 0))
	repos.store.stores = []model.Store{
		{ID: "s1", CompanyID: testCompanyID, Name: "강남점"},
		{ID: "s2", CompanyID: testCompanyID, Name: "역삼점"},
		{ID: "s3", CompanyID: testCompanyID, Name: "선릉점"},
	}
	repos.attendance.records = []model.Attendance{
		{StoreID: "s1", UserID: "u1", WorkDate: workDate(2026, 10, 15), ClockInAt: kstTime(15, 9, 0)},
		{StoreID: "s2", UserID: "u1", WorkDate: workDate(2026, 10, 15), ClockInAt: kstTime(15, 10, 0)},
		{StoreID: "s3", UserID: "u1", WorkDate: workDate(2026, 10, 15), ClockInAt: kstTime(15, 11, 0)},
	}

	result, err := svc.GetStaffProgress(context.Background(), "u1")
	if err != nil {
		t.Fatalf("意外错误: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("期望 3 个门店，实际: %d", len(result))
	}
	names := map[string]string{}
	for _, p := range result {
		names[p.StoreID] = p.StoreName
	}
	if names["s1"] != "강남점" || names["s2"] != "역삼점" || names["s3"] != "선릉점" {
		t.Errorf("门店名错误: %v", names)
	}
	if n := atomic.LoadInt32(&repos.store.listByIDsCalls); n != 1 {
		t.Errorf("门店应一次批量查询，实际: %d 次", n)
	}
	if n := atomic.LoadInt32(&repos.store.getByIDCalls); n != 0 {
		t.Errorf("不应逐个查询门店，实际: %d 次", n)
	}
}

func TestChecklistService_GetStaffProgress_StoreLookupFailureKeepsProgress(t *testing.T) {
	svc, repos := setupTestChecklistService(kstTime(15, 14, 0))
	repos.store.err = errMockDB
	repos.attendance.records = []model.Attendance{
		{StoreID: "s1", UserID: "u1", WorkDate: workDate(2026, 10, 15), ClockInAt: kstTime(15, 9, 0)},
	}

	result, err := svc.GetStaffProgress(context.Background(), "u1")
	if err != nil {
		t.Fatalf("门店名查询失败不应报错: %v", err)
	}
	if len(result) != 1 || result[0].StoreName != "" {
		t.Errorf("期望 1 个无名门店，实际: %+v", result)
	}
}
