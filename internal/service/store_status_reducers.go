package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"store-ops/internal/dto"
	"store-ops/internal/model"
	"store-ops/pkg/calendar"
)

// ── 夜班状态标签 ──

// NightShiftState 夜班门店在管理日的显示状态
type NightShiftState string

const (
	NightShiftWithinActive       NightShiftState = "within-period-active"
	NightShiftWithinDone         NightShiftState = "within-period-done"
	NightShiftBeforeStart        NightShiftState = "before-start"
	NightShiftAfterEndDone       NightShiftState = "after-end-done"
	NightShiftAfterEndNotStarted NightShiftState = "after-end-not-started"
)

// EvaluateNightShiftState 仅由当前小时与出勤状态决定
func EvaluateNightShiftState(startHour, endHour, currentHour int, status AttendanceStatus) NightShiftState {
	done := status == AttendanceClockedOut
	if calendar.IsWithinManagementPeriod(true, startHour, endHour, currentHour) {
		if done {
			return NightShiftWithinDone
		}
		return NightShiftWithinActive
	}
	if done {
		return NightShiftAfterEndDone
	}
	if currentHour < startHour {
		return NightShiftBeforeStart
	}
	return NightShiftAfterEndNotStarted
}

// Label 返回状态对应的展示文案；within-period-done 不覆盖通用的下班标签
func (st NightShiftState) Label(startHour int) (string, bool) {
	switch st {
	case NightShiftWithinActive:
		return "관리일 (관리 가능)", true
	case NightShiftBeforeStart:
		return fmt.Sprintf("%d시 시작", startHour), true
	case NightShiftAfterEndDone:
		return "오늘 관리 완료", true
	case NightShiftAfterEndNotStarted:
		return fmt.Sprintf("오늘 관리일 (%d시 시작)", startHour), true
	}
	return "", false
}

// ── 单店归约 ──

// storeContext 单店归约所需的时间上下文
type storeContext struct {
	store     *model.Store
	day       calendar.Day
	asOf      time.Time
	hour      int
	startHour int
	endHour   int
	isWorkDay bool
}

// activityRange 门店业务日的活动时间范围 [from, to)。
// 跨午夜的夜班门店延长到次日收工时刻，其余门店即业务日本身。
func (sc storeContext) activityRange() (time.Time, time.Time) {
	from, to := sc.day.Start, sc.day.End
	if sc.store.IsNightShift && sc.startHour > sc.endHour {
		to = to.Add(time.Duration(sc.endHour) * time.Hour)
	}
	return from, to
}

// defaultStoreStatus 归约失败时的保守默认值
func defaultStoreStatus(store *model.Store) dto.StoreStatusResponse {
	return dto.StoreStatusResponse{
		StoreID:           store.ID,
		StoreName:         store.Name,
		StoreAddress:      store.Address,
		ManagementDays:    store.ManagementDays,
		IsNightShift:      store.IsNightShift,
		WorkStartHour:     store.WorkStartHour,
		WorkEndHour:       store.WorkEndHour,
		AttendanceStatus:  string(AttendanceNotClockedIn),
		BeforeAfterPhotos: []dto.BeforeAfterPhoto{},
	}
}

// safeReduceStore 单店归约的边界：panic 只影响本店
func (s *storeStatusService) safeReduceStore(sc storeContext, snap *companySnapshot) (status dto.StoreStatusResponse) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("门店状态计算失败，使用默认值",
				zap.String("store_id", sc.store.ID),
				zap.Any("panic", r),
			)
			status = defaultStoreStatus(sc.store)
		}
	}()
	return s.reduceStore(sc, snap)
}

func (s *storeStatusService) reduceStore(sc storeContext, snap *companySnapshot) dto.StoreStatusResponse {
	st := sc.store
	out := defaultStoreStatus(st)
	out.IsWorkDay = sc.isWorkDay

	// 出勤
	att := ResolveAttendance(sc.day, snap.assigns[st.ID], snap.attendance[st.ID])
	if sc.isWorkDay {
		out.AttendanceStatus = string(att.Status)
		out.ClockInTime = att.ClockInAt
		out.ClockOutTime = att.ClockOutAt
		if name, ok := snap.staffNames[att.UserID]; ok && att.UserID != "" {
			out.StaffName = &name
		}
	}

	// 夜班标签
	if st.IsNightShift && sc.isWorkDay {
		state := EvaluateNightShiftState(sc.startHour, sc.endHour, sc.hour, AttendanceStatus(out.AttendanceStatus))
		stateText := string(state)
		out.NightShiftState = &stateText
		if label, ok := state.Label(sc.startHour); ok {
			out.NightShiftLabel = &label
		}
	}

	// 清单
	cl, err := reduceChecklists(sc.day, s.cfg.TemplateWorkDate, snap.checklists[st.ID])
	if err != nil {
		s.logger.Error("清单数据异常，清单字段按零处理",
			zap.String("store_id", st.ID),
			zap.Error(err),
		)
		cl = checklistSummary{}
	}
	out.ChecklistTotal = cl.progress.Total
	out.ChecklistCompleted = cl.progress.Completed
	out.ChecklistPercentage = cl.progress.Percentage
	out.ChecklistCount = cl.count
	out.ChecklistStage = string(cl.progress.Stage)
	if cl.pairs != nil {
		out.BeforeAfterPhotos = cl.pairs
	}

	// 问题上报 / 失物
	pc := CountProblems(snap.reports[st.ID], snap.lostItems[st.ID])
	out.HasProblem = pc.HasProblem()
	out.StoreProblemCount = pc.StoreProblems
	out.VendingProblemCount = pc.VendingProblems
	out.LostItemCount = pc.LostItems
	out.UnprocessedStoreProblems = pc.UnprocessedStoreProblems
	out.CompletedStoreProblems = pc.CompletedStoreProblems
	out.UnconfirmedVendingProblems = pc.UnconfirmedVendingProblems
	out.ConfirmedVendingProblems = pc.ConfirmedVendingProblems
	out.UnconfirmedLostItems = pc.UnconfirmedLostItems
	out.ConfirmedLostItems = pc.ConfirmedLostItems

	// 请求 / 物资请求
	rc := CountRequests(snap.requests[st.ID], snap.supplies[st.ID])
	out.ReceivedRequestCount = rc.Received
	out.InProgressRequestCount = rc.InProgress
	out.CompletedRequestCount = rc.Completed
	out.RejectedRequestCount = rc.Rejected
	out.UnconfirmedCompletedRequestCount = rc.UnconfirmedCompleted
	out.UnconfirmedRejectedRequestCount = rc.UnconfirmedRejected
	out.ReceivedSupplyRequestCount = rc.SupplyReceived
	out.InProgressSupplyRequestCount = rc.SupplyInProgress
	out.ManagerInProgressSupplyCount = rc.SupplyManagerInProgress

	// 商品照片
	out.HasProductInflowToday, out.HasStoragePhotos = reduceProductPhotos(sc.day, snap.products[st.ID])

	// 清扫照片
	from, to := sc.activityRange()
	photos := reduceCleaningPhotos(from, to, snap.cleaning[st.ID])
	out.BeforePhotoCount = photos.beforeCount
	out.AfterPhotoCount = photos.afterCount

	out.LastUpdateTime = latestOf(att.ClockInAt, att.ClockOutAt, cl.updatedAt, photos.latest)
	return out
}

// ── 清单归约 ──

type checklistSummary struct {
	progress  ChecklistProgress
	count     int
	updatedAt *time.Time
	pairs     []dto.BeforeAfterPhoto
}

// reduceChecklists 汇总当日清单实例；没有实例时只用模板给出结构总数
func reduceChecklists(day calendar.Day, templateDate string, checklists []model.Checklist) (checklistSummary, error) {
	var instances, templates []*model.Checklist
	for i := range checklists {
		c := &checklists[i]
		switch {
		case c.IsTemplate(templateDate):
			templates = append(templates, c)
		case day.Matches(c.WorkDateString()):
			instances = append(instances, c)
		}
	}

	var sum checklistSummary
	if len(instances) == 0 {
		for _, c := range templates {
			items, err := c.ParseItems()
			if err != nil {
				return checklistSummary{}, fmt.Errorf("模板清单 %s: %w", c.ID, err)
			}
			units, err := CountChecklistUnits(items)
			if err != nil {
				return checklistSummary{}, fmt.Errorf("模板清单 %s: %w", c.ID, err)
			}
			sum.progress.Total += units
		}
		return sum, nil
	}

	// 按更新时间倒序，阶段取最近更新的实例
	sort.SliceStable(instances, func(i, j int) bool {
		return instances[i].UpdatedAt.After(instances[j].UpdatedAt)
	})
	parsed := make([][]model.ChecklistItem, len(instances))
	for idx, c := range instances {
		items, err := c.ParseItems()
		if err != nil {
			return checklistSummary{}, fmt.Errorf("清单 %s: %w", c.ID, err)
		}
		parsed[idx] = items
		p, err := CalculateChecklistProgress(items, StageUnspecified)
		if err != nil {
			return checklistSummary{}, fmt.Errorf("清单 %s: %w", c.ID, err)
		}
		sum.progress.Total += p.Total
		sum.progress.Completed += p.Completed
		if idx == 0 {
			sum.progress.Stage = p.Stage
			updated := c.UpdatedAt
			sum.updatedAt = &updated
		}
	}
	sum.count = len(instances)
	sum.progress.Percentage = completionPercentage(sum.progress.Completed, sum.progress.Total)

	// 从旧到新合并，较新的清单覆盖同区域照片
	ordered := make([][]model.ChecklistItem, 0, len(parsed))
	for i := len(parsed) - 1; i >= 0; i-- {
		ordered = append(ordered, parsed[i])
	}
	sum.pairs = collectBeforeAfterPhotos(ordered)
	return sum, nil
}

// collectBeforeAfterPhotos 按去空白后的 area 合并当日清单中的照片项。
// before_photo 只提供前侧，after_photo 只提供后侧；没有照片的项不出现。
// 输出顺序为区域首次出现的顺序。
func collectBeforeAfterPhotos(checklists [][]model.ChecklistItem) []dto.BeforeAfterPhoto {
	pairs := []dto.BeforeAfterPhoto{}
	index := make(map[string]int)

	for _, items := range checklists {
		for i := range items {
			item := &items[i]
			area := strings.TrimSpace(item.Area)
			if area == "" {
				continue
			}
			typ, ok := normalizeItemType(item.Type)
			if !ok || typ == model.ChecklistItemCheck {
				continue
			}
			var before, after *string
			if typ != model.ChecklistItemAfterPhoto && hasURL(item.BeforePhotoURL) {
				before = item.BeforePhotoURL
			}
			if typ != model.ChecklistItemBeforePhoto && hasURL(item.AfterPhotoURL) {
				after = item.AfterPhotoURL
			}
			if before == nil && after == nil {
				continue
			}

			pos, exists := index[area]
			if !exists {
				pos = len(pairs)
				index[area] = pos
				pairs = append(pairs, dto.BeforeAfterPhoto{Area: area})
			}
			if before != nil {
				u := *before
				pairs[pos].BeforePhotoURL = &u
			}
			if after != nil {
				u := *after
				pairs[pos].AfterPhotoURL = &u
			}
		}
	}
	return pairs
}

// ── 照片归约 ──

// reduceProductPhotos 今天是否有入库小票照片、窗口内是否有仓储照片
func reduceProductPhotos(day calendar.Day, photos []model.ProductPhoto) (inflowToday, storage bool) {
	for i := range photos {
		switch photos[i].Type {
		case "receipt":
			if day.Contains(photos[i].CreatedAt) {
				inflowToday = true
			}
		case "storage":
			storage = true
		}
	}
	return inflowToday, storage
}

type cleaningSummary struct {
	beforeCount int
	afterCount  int
	latest      *time.Time
}

// reduceCleaningPhotos 统计 [from, to) 内的清扫前后照片。
// 批量查询窗口是全部门店业务日的并集，这里按本店范围收窄。
func reduceCleaningPhotos(from, to time.Time, photos []model.CleaningPhoto) cleaningSummary {
	var sum cleaningSummary
	for i := range photos {
		p := &photos[i]
		if p.CreatedAt.Before(from) || !p.CreatedAt.Before(to) {
			continue
		}
		if sum.latest == nil || p.CreatedAt.After(*sum.latest) {
			created := p.CreatedAt
			sum.latest = &created
		}
		switch p.Kind {
		case "before":
			sum.beforeCount++
		case "after":
			sum.afterCount++
		}
	}
	return sum
}

// latestOf 返回非空时间中的最大值
func latestOf(times ...*time.Time) *time.Time {
	var latest *time.Time
	for _, t := range times {
		if t != nil && (latest == nil || t.After(*latest)) {
			v := *t
			latest = &v
		}
	}
	return latest
}
