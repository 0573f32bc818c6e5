package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"store-ops/internal/model"
	"store-ops/pkg/calendar"
)

// 数据源名称（日志与降级标记使用）
const (
	sourceStoreAssign   = "store_assign"
	sourceAttendance    = "attendance"
	sourceChecklist     = "checklist"
	sourceProblemReport = "problem_reports"
	sourceLostItem      = "lost_items"
	sourceRequest       = "requests"
	sourceSupplyRequest = "supply_requests"
	sourceCleaningPhoto = "cleaning_photos"
	sourceProductPhoto  = "product_photos"
	sourceStaffNames    = "users"
)

var productPhotoTypes = []string{"receipt", "storage"}

// fetchWindow 一次批量查询覆盖的时间范围
type fetchWindow struct {
	WorkDates    []string  // 全部门店业务日在两种约定下的日期并集
	From         time.Time // 业务日范围并集，含
	To           time.Time // 不含
	ReportSince  time.Time
	ProductSince time.Time
	TemplateDate string
}

// planWindow 计算每个门店的业务日以及覆盖全部门店的查询窗口
func (s *storeStatusService) planWindow(stores []model.Store, asOf time.Time) (map[string]calendar.Day, fetchWindow) {
	days := make(map[string]calendar.Day, len(stores))
	seen := make(map[string]struct{})
	today := s.cal.Today(asOf)
	w := fetchWindow{
		From:         today.Start,
		To:           today.End,
		ReportSince:  today.Start.AddDate(0, 0, -s.cfg.ReportWindowDays),
		ProductSince: today.Start.AddDate(0, 0, -s.cfg.ProductWindowDays),
		TemplateDate: s.cfg.TemplateWorkDate,
	}

	for i := range stores {
		st := &stores[i]
		start, end := calendar.ShiftHours(st.WorkStartHour, st.WorkEndHour)
		day := s.cal.OperationalDay(st.IsNightShift, start, end, asOf)
		days[st.ID] = day

		for _, d := range day.Dates() {
			if _, ok := seen[d]; !ok {
				seen[d] = struct{}{}
				w.WorkDates = append(w.WorkDates, d)
			}
		}
		if day.Start.Before(w.From) {
			w.From = day.Start
		}
		if day.End.After(w.To) {
			w.To = day.End
		}
	}
	return days, w
}

// companySnapshot 单次计算内按门店分组的公司数据，只在本次调用内有效
type companySnapshot struct {
	assigns    map[string]map[string]struct{}
	attendance map[string][]model.Attendance
	checklists map[string][]model.Checklist
	reports    map[string][]model.ProblemReport
	lostItems  map[string][]model.LostItem
	requests   map[string][]model.Request
	supplies   map[string][]model.SupplyRequest
	cleaning   map[string][]model.CleaningPhoto
	products   map[string][]model.ProductPhoto
	staffNames map[string]string

	// 失败的数据源，对应字段为空集
	failed map[string]error
}

// partitionByStore 按 store_id 分组
func partitionByStore[T any](rows []T, storeID func(*T) string) map[string][]T {
	out := make(map[string][]T)
	for i := range rows {
		id := storeID(&rows[i])
		out[id] = append(out[id], rows[i])
	}
	return out
}

// fetchCompanySnapshot 对每个数据源发出一次 store_id IN (...) 查询。
// 各查询并发且相互独立，单个失败只记录并按空集处理，不影响其他数据源。
func (s *storeStatusService) fetchCompanySnapshot(ctx context.Context, companyID string, storeIDs []string, w fetchWindow) *companySnapshot {
	var (
		assigns    []model.StoreAssign
		attendance []model.Attendance
		checklists []model.Checklist
		reports    []model.ProblemReport
		lostItems  []model.LostItem
		requests   []model.Request
		supplies   []model.SupplyRequest
		cleaning   []model.CleaningPhoto
		products   []model.ProductPhoto
	)

	snap := &companySnapshot{failed: make(map[string]error)}
	var mu sync.Mutex
	var g errgroup.Group

	fetch := func(source string, fn func() error) {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("panic: %v", r)
				}
				if err != nil {
					mu.Lock()
					snap.failed[source] = err
					mu.Unlock()
				}
			}()
			return fn()
		})
	}

	fetch(sourceStoreAssign, func() (err error) {
		assigns, err = s.repo.StoreAssign.ListByStores(ctx, storeIDs)
		return
	})
	fetch(sourceAttendance, func() (err error) {
		attendance, err = s.repo.Attendance.ListByStoresForDays(ctx, storeIDs, w.WorkDates, w.From, w.To)
		return
	})
	fetch(sourceChecklist, func() (err error) {
		checklists, err = s.repo.Checklist.ListByStoresForDates(ctx, storeIDs, w.WorkDates, w.TemplateDate)
		return
	})
	fetch(sourceProblemReport, func() (err error) {
		reports, err = s.repo.ProblemReport.ListByStoresSince(ctx, storeIDs, w.ReportSince)
		return
	})
	fetch(sourceLostItem, func() (err error) {
		lostItems, err = s.repo.LostItem.ListByStoresSince(ctx, storeIDs, w.ReportSince)
		return
	})
	fetch(sourceRequest, func() (err error) {
		requests, err = s.repo.Request.ListByStoresSince(ctx, storeIDs, w.ReportSince)
		return
	})
	fetch(sourceSupplyRequest, func() (err error) {
		supplies, err = s.repo.SupplyRequest.ListByStoresSince(ctx, storeIDs, w.ReportSince)
		return
	})
	fetch(sourceCleaningPhoto, func() (err error) {
		cleaning, err = s.repo.Photo.ListCleaningByStores(ctx, storeIDs, w.From, w.To)
		return
	})
	fetch(sourceProductPhoto, func() (err error) {
		products, err = s.repo.Photo.ListProductByStoresSince(ctx, storeIDs, w.ProductSince, productPhotoTypes)
		return
	})

	// 所有 goroutine 都返回 nil，Wait 只用于汇合
	_ = g.Wait()

	for source, err := range snap.failed {
		s.logger.Warn("数据源查询失败，按空集降级",
			zap.String("company_id", companyID),
			zap.String("source", source),
			zap.Error(err),
		)
		switch source {
		case sourceStoreAssign:
			assigns = nil
		case sourceAttendance:
			attendance = nil
		case sourceChecklist:
			checklists = nil
		case sourceProblemReport:
			reports = nil
		case sourceLostItem:
			lostItems = nil
		case sourceRequest:
			requests = nil
		case sourceSupplyRequest:
			supplies = nil
		case sourceCleaningPhoto:
			cleaning = nil
		case sourceProductPhoto:
			products = nil
		}
	}

	snap.assigns = make(map[string]map[string]struct{})
	for _, a := range assigns {
		if snap.assigns[a.StoreID] == nil {
			snap.assigns[a.StoreID] = make(map[string]struct{})
		}
		snap.assigns[a.StoreID][a.UserID] = struct{}{}
	}
	snap.attendance = partitionByStore(attendance, func(a *model.Attendance) string { return a.StoreID })
	snap.checklists = partitionByStore(checklists, func(c *model.Checklist) string { return c.StoreID })
	snap.reports = partitionByStore(reports, func(p *model.ProblemReport) string { return p.StoreID })
	snap.lostItems = partitionByStore(lostItems, func(l *model.LostItem) string { return l.StoreID })
	snap.requests = partitionByStore(requests, func(r *model.Request) string { return r.StoreID })
	snap.supplies = partitionByStore(supplies, func(r *model.SupplyRequest) string { return r.StoreID })
	snap.cleaning = partitionByStore(cleaning, func(p *model.CleaningPhoto) string { return p.StoreID })
	snap.products = partitionByStore(products, func(p *model.ProductPhoto) string { return p.StoreID })

	snap.staffNames = s.fetchStaffNames(ctx, companyID, attendance)
	return snap
}

// fetchStaffNames 一次查询解析出勤记录中出现的全部员工名
func (s *storeStatusService) fetchStaffNames(ctx context.Context, companyID string, attendance []model.Attendance) map[string]string {
	names := make(map[string]string)
	seen := make(map[string]struct{})
	var ids []string
	for _, a := range attendance {
		if _, ok := seen[a.UserID]; ok {
			continue
		}
		seen[a.UserID] = struct{}{}
		ids = append(ids, a.UserID)
	}
	if len(ids) == 0 {
		return names
	}

	users, err := s.repo.User.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn("数据源查询失败，按空集降级",
			zap.String("company_id", companyID),
			zap.String("source", sourceStaffNames),
			zap.Error(err),
		)
		return names
	}
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names
}
