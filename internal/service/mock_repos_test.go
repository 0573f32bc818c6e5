package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"store-ops/internal/model"
	"store-ops/internal/repository"
)

var errMockDB = errors.New("mock db error")

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	err   error
	calls int32
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) ListByIDs(_ context.Context, ids []string) ([]model.User, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.err != nil {
		return nil, m.err
	}
	var result []model.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			result = append(result, *u)
		}
	}
	return result, nil
}

// ── Mock StoreRepository ──

type mockStoreRepo struct {
	stores []model.Store
	err    error

	getByIDCalls   int32
	listByIDsCalls int32
}

func newMockStoreRepo() *mockStoreRepo {
	return &mockStoreRepo{}
}

func (m *mockStoreRepo) GetByID(_ context.Context, id string) (*model.Store, error) {
	atomic.AddInt32(&m.getByIDCalls, 1)
	for i := range m.stores {
		if m.stores[i].ID == id {
			return &m.stores[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStoreRepo) ListByCompany(_ context.Context, companyID string) ([]model.Store, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []model.Store
	for _, s := range m.stores {
		if s.CompanyID == companyID {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockStoreRepo) ListByIDs(_ context.Context, companyID string, ids []string) ([]model.Store, error) {
	atomic.AddInt32(&m.listByIDsCalls, 1)
	if m.err != nil {
		return nil, m.err
	}
	want := make(map[string]bool)
	for _, id := range ids {
		want[id] = true
	}
	var result []model.Store
	for _, s := range m.stores {
		if (companyID == "" || s.CompanyID == companyID) && want[s.ID] {
			result = append(result, s)
		}
	}
	return result, nil
}

func (m *mockStoreRepo) ListCompanyIDs(_ context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	seen := make(map[string]bool)
	var ids []string
	for _, s := range m.stores {
		if !seen[s.CompanyID] {
			seen[s.CompanyID] = true
			ids = append(ids, s.CompanyID)
		}
	}
	return ids, nil
}

// ── Mock StoreAssignRepository ──

type mockStoreAssignRepo struct {
	assigns []model.StoreAssign
	err     error
	calls   int32
}

func (m *mockStoreAssignRepo) ListByStores(_ context.Context, _ []string) ([]model.StoreAssign, error) {
	atomic.AddInt32(&m.calls, 1)
	return m.assigns, m.err
}

func (m *mockStoreAssignRepo) ListStoreIDsByUser(_ context.Context, userID string) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	var ids []string
	for _, a := range m.assigns {
		if a.UserID == userID {
			ids = append(ids, a.StoreID)
		}
	}
	return ids, nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records []model.Attendance
	err     error
	calls   int32
}

func (m *mockAttendanceRepo) ListByStoresForDays(_ context.Context, _ []string, _ []string, _, _ time.Time) ([]model.Attendance, error) {
	atomic.AddInt32(&m.calls, 1)
	return m.records, m.err
}

func (m *mockAttendanceRepo) ListOpenByUser(_ context.Context, userID string, workDates []string) ([]model.Attendance, error) {
	if m.err != nil {
		return nil, m.err
	}
	dates := make(map[string]bool)
	for _, d := range workDates {
		dates[d] = true
	}
	var result []model.Attendance
	for _, a := range m.records {
		if a.UserID == userID && a.ClockOutAt == nil && dates[a.WorkDateString()] {
			result = append(result, a)
		}
	}
	return result, nil
}

// ── Mock ChecklistRepository ──

type mockChecklistRepo struct {
	checklists []model.Checklist
	err        error
	calls      int32
}

func (m *mockChecklistRepo) GetByID(_ context.Context, id string) (*model.Checklist, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.checklists {
		if m.checklists[i].ID == id {
			return &m.checklists[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockChecklistRepo) ListByStoresForDates(_ context.Context, _ []string, _ []string, _ string) ([]model.Checklist, error) {
	atomic.AddInt32(&m.calls, 1)
	return m.checklists, m.err
}

func (m *mockChecklistRepo) ListAssigned(_ context.Context, storeIDs []string, userID string, workDates []string) ([]model.Checklist, error) {
	if m.err != nil {
		return nil, m.err
	}
	stores := make(map[string]bool)
	for _, id := range storeIDs {
		stores[id] = true
	}
	dates := make(map[string]bool)
	for _, d := range workDates {
		dates[d] = true
	}
	var result []model.Checklist
	for _, c := range m.checklists {
		if stores[c.StoreID] && c.AssignedUserID != nil && *c.AssignedUserID == userID && dates[c.WorkDateString()] {
			result = append(result, c)
		}
	}
	return result, nil
}

// ── Mock ProblemReport / LostItem ──

type mockProblemReportRepo struct {
	reports []model.ProblemReport
	err     error
	calls   int32
}

func (m *mockProblemReportRepo) ListByStoresSince(_ context.Context, _ []string, _ time.Time) ([]model.ProblemReport, error) {
	atomic.AddInt32(&m.calls, 1)
	return m.reports, m.err
}

type mockLostItemRepo struct {
	items []model.LostItem
	err   error
	calls int32
}

func (m *mockLostItemRepo) ListByStoresSince(_ context.Context, _ []string, _ time.Time) ([]model.LostItem, error) {
	atomic.AddInt32(&m.calls, 1)
	return m.items, m.err
}

// ── Mock Request / SupplyRequest ──

type mockRequestRepo struct {
	requests []model.Request
	err      error
	calls    int32
}

func (m *mockRequestRepo) ListByStoresSince(_ context.Context, _ []string, _ time.Time) ([]model.Request, error) {
	atomic.AddInt32(&m.calls, 1)
	return m.requests, m.err
}

func (m *mockRequestRepo) CountByStoresStatus(_ context.Context, storeIDs []string, status string) (map[string]int, error) {
	if m.err != nil {
		return nil, m.err
	}
	stores := make(map[string]bool)
	for _, id := range storeIDs {
		stores[id] = true
	}
	counts := make(map[string]int)
	for _, r := range m.requests {
		if stores[r.StoreID] && r.Status == status {
			counts[r.StoreID]++
		}
	}
	return counts, nil
}

type mockSupplyRequestRepo struct {
	requests []model.SupplyRequest
	err      error
	calls    int32
}

func (m *mockSupplyRequestRepo) ListByStoresSince(_ context.Context, _ []string, _ time.Time) ([]model.SupplyRequest, error) {
	atomic.AddInt32(&m.calls, 1)
	return m.requests, m.err
}

// ── Mock PhotoRepository ──

type mockPhotoRepo struct {
	cleaning    []model.CleaningPhoto
	products    []model.ProductPhoto
	cleaningErr error
	productErr  error
	calls       int32
}

// ListCleaningByStores 与真实查询一样按 [from, to) 过滤
func (m *mockPhotoRepo) ListCleaningByStores(_ context.Context, _ []string, from, to time.Time) ([]model.CleaningPhoto, error) {
	atomic.AddInt32(&m.calls, 1)
	if m.cleaningErr != nil {
		return nil, m.cleaningErr
	}
	var result []model.CleaningPhoto
	for _, p := range m.cleaning {
		if !p.CreatedAt.Before(from) && p.CreatedAt.Before(to) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockPhotoRepo) ListProductByStoresSince(_ context.Context, _ []string, _ time.Time, _ []string) ([]model.ProductPhoto, error) {
	atomic.AddInt32(&m.calls, 1)
	return m.products, m.productErr
}

// ── Mock UnmanagedSummaryRepository ──

type mockUnmanagedSummaryRepo struct {
	mu        sync.Mutex
	saved     []model.UnmanagedStoreSummary
	upsertErr error
}

func (m *mockUnmanagedSummaryRepo) Upsert(_ context.Context, summary *model.UnmanagedStoreSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.upsertErr != nil {
		return m.upsertErr
	}
	for i := range m.saved {
		s := &m.saved[i]
		if s.CompanyID == summary.CompanyID && s.StoreType == summary.StoreType &&
			s.ReportDate.Equal(summary.ReportDate) {
			*s = *summary
			return nil
		}
	}
	m.saved = append(m.saved, *summary)
	return nil
}

func (m *mockUnmanagedSummaryRepo) ListByCompanyDate(_ context.Context, companyID, reportDate string) ([]model.UnmanagedStoreSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.UnmanagedStoreSummary
	for _, s := range m.saved {
		if s.CompanyID == companyID && s.ReportDate.Format("2006-01-02") == reportDate {
			result = append(result, s)
		}
	}
	return result, nil
}

// ── 聚合 ──

type mockRepos struct {
	user          *mockUserRepo
	store         *mockStoreRepo
	storeAssign   *mockStoreAssignRepo
	attendance    *mockAttendanceRepo
	checklist     *mockChecklistRepo
	problemReport *mockProblemReportRepo
	lostItem      *mockLostItemRepo
	request       *mockRequestRepo
	supplyRequest *mockSupplyRequestRepo
	photo         *mockPhotoRepo
	summary       *mockUnmanagedSummaryRepo
}

func newMockRepos() *mockRepos {
	return &mockRepos{
		user:          newMockUserRepo(),
		store:         newMockStoreRepo(),
		storeAssign:   &mockStoreAssignRepo{},
		attendance:    &mockAttendanceRepo{},
		checklist:     &mockChecklistRepo{},
		problemReport: &mockProblemReportRepo{},
		lostItem:      &mockLostItemRepo{},
		request:       &mockRequestRepo{},
		supplyRequest: &mockSupplyRequestRepo{},
		photo:         &mockPhotoRepo{},
		summary:       &mockUnmanagedSummaryRepo{},
	}
}

func (m *mockRepos) repository() *repository.Repository {
	return &repository.Repository{
		User:             m.user,
		Store:            m.store,
		StoreAssign:      m.storeAssign,
		Attendance:       m.attendance,
		Checklist:        m.checklist,
		ProblemReport:    m.problemReport,
		LostItem:         m.lostItem,
		Request:          m.request,
		SupplyRequest:    m.supplyRequest,
		Photo:            m.photo,
		UnmanagedSummary: m.summary,
	}
}
