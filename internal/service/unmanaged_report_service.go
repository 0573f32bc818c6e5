package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"store-ops/config"
	"store-ops/internal/dto"
	"store-ops/internal/model"
	"store-ops/internal/repository"
	"store-ops/pkg/calendar"
)

// ── 日报模块业务错误 ──

var (
	ErrInvalidReportDate = errors.New("无效的日报日期")
	ErrCompanyListFailed = errors.New("公司列表查询失败")
)

// UnmanagedReportService 未管理门店日报业务接口
type UnmanagedReportService interface {
	// RunDailyAggregation 汇总指定日期（默认昨天）各公司的未管理门店并写入日报表
	RunDailyAggregation(ctx context.Context, reportDate string) (*dto.UnmanagedRunResponse, error)
	// GetReport 读取公司某日的日报
	GetReport(ctx context.Context, companyID, reportDate string) ([]dto.UnmanagedSummaryResponse, error)
	// StartScheduler 每分钟检查一次，到达配置的时刻时执行汇总，ctx 取消后退出
	StartScheduler(ctx context.Context)
}

type unmanagedReportService struct {
	repo   *repository.Repository
	cfg    config.ReportConfig
	cal    *calendar.Resolver
	logger *zap.Logger
	now    func() time.Time
}

// NewUnmanagedReportService 创建 UnmanagedReportService 实例
func NewUnmanagedReportService(cfg *config.Config, repo *repository.Repository, cal *calendar.Resolver, logger *zap.Logger) UnmanagedReportService {
	return newUnmanagedReportService(cfg.Report, repo, cal, logger)
}

func newUnmanagedReportService(cfg config.ReportConfig, repo *repository.Repository, cal *calendar.Resolver, logger *zap.Logger) *unmanagedReportService {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &unmanagedReportService{repo: repo, cfg: cfg, cal: cal, logger: logger, now: time.Now}
}

// resolveReportDay 空日期取固定时区下的昨天
func (s *unmanagedReportService) resolveReportDay(reportDate string) (calendar.Day, error) {
	if reportDate == "" {
		reportDate = s.cal.DayOffset(s.now(), -1).Local
	}
	day, err := s.cal.ParseDay(reportDate)
	if err != nil {
		return calendar.Day{}, ErrInvalidReportDate
	}
	return day, nil
}

// ────────────────────── RunDailyAggregation ──────────────────────

func (s *unmanagedReportService) RunDailyAggregation(ctx context.Context, reportDate string) (*dto.UnmanagedRunResponse, error) {
	day, err := s.resolveReportDay(reportDate)
	if err != nil {
		return nil, err
	}

	companyIDs, err := s.repo.Store.ListCompanyIDs(ctx)
	if err != nil {
		s.logger.Error("查询公司列表失败", zap.Error(err))
		return nil, ErrCompanyListFailed
	}

	aggregatedAt := s.now()
	var failed int32
	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)
	for _, companyID := range companyIDs {
		companyID := companyID
		g.Go(func() error {
			if err := s.aggregateCompany(ctx, companyID, day, aggregatedAt); err != nil {
				atomic.AddInt32(&failed, 1)
				s.logger.Error("公司日报汇总失败",
					zap.String("company_id", companyID),
					zap.String("report_date", day.Local),
					zap.Error(err),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("未管理门店日报汇总完成",
		zap.String("report_date", day.Local),
		zap.Int("companies", len(companyIDs)),
		zap.Int32("failed", failed),
	)
	return &dto.UnmanagedRunResponse{
		ReportDate: day.Local,
		Companies:  len(companyIDs),
		Failed:     int(failed),
	}, nil
}

// aggregateCompany 一次查询公司全部门店的出勤，按门店类型分别写入。
// 没有管理日门店的类型不写记录。
func (s *unmanagedReportService) aggregateCompany(ctx context.Context, companyID string, day calendar.Day, aggregatedAt time.Time) error {
	stores, err := s.repo.Store.ListByCompany(ctx, companyID)
	if err != nil {
		return err
	}

	byType := map[string][]model.Store{}
	var storeIDs []string
	for _, st := range stores {
		if !calendar.ParseManagementDays(st.ManagementDaysText()).Has(day.Weekday) {
			continue
		}
		storeType := model.StoreTypeGeneral
		if st.IsNightShift {
			storeType = model.StoreTypeNight
		}
		byType[storeType] = append(byType[storeType], st)
		storeIDs = append(storeIDs, st.ID)
	}
	if len(storeIDs) == 0 {
		return nil
	}

	// 夜班门店的出勤可能在次日凌晨才开始，上班时刻范围延长一天
	attendance, err := s.repo.Attendance.ListByStoresForDays(ctx, storeIDs, []string{day.Local}, day.Start, day.End.AddDate(0, 0, 1))
	if err != nil {
		return err
	}
	attended := make(map[string]bool)
	for i := range attendance {
		a := &attendance[i]
		if a.WorkDateString() != day.Local {
			continue
		}
		attended[a.StoreID] = true
	}

	for _, storeType := range []string{model.StoreTypeGeneral, model.StoreTypeNight} {
		group := byType[storeType]
		if len(group) == 0 {
			continue
		}
		summary := &model.UnmanagedStoreSummary{
			CompanyID:         companyID,
			ReportDate:        day.Start,
			StoreType:         storeType,
			TotalStores:       len(group),
			UnmanagedStoreIDs: model.StringArray{},
			AggregatedAt:      aggregatedAt,
		}
		for _, st := range group {
			if attended[st.ID] {
				summary.ManagedCount++
			} else {
				summary.UnmanagedStoreIDs = append(summary.UnmanagedStoreIDs, st.ID)
			}
		}
		summary.UnmanagedCount = len(summary.UnmanagedStoreIDs)
		summary.UpdatedAt = aggregatedAt

		if err := s.repo.UnmanagedSummary.Upsert(ctx, summary); err != nil {
			return err
		}
		s.logger.Info("未管理门店日报",
			zap.String("company_id", companyID),
			zap.String("report_date", day.Local),
			zap.String("store_type", storeType),
			zap.Int("unmanaged", summary.UnmanagedCount),
			zap.Int("total", summary.TotalStores),
		)
	}
	return nil
}

// ────────────────────── GetReport ──────────────────────

func (s *unmanagedReportService) GetReport(ctx context.Context, companyID, reportDate string) ([]dto.UnmanagedSummaryResponse, error) {
	if companyID == "" {
		return nil, ErrNoCompany
	}
	day, err := s.resolveReportDay(reportDate)
	if err != nil {
		return nil, err
	}

	summaries, err := s.repo.UnmanagedSummary.ListByCompanyDate(ctx, companyID, day.Local)
	if err != nil {
		s.logger.Error("查询日报失败", zap.String("company_id", companyID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.UnmanagedSummaryResponse, 0, len(summaries))
	for _, sm := range summaries {
		ids := []string(sm.UnmanagedStoreIDs)
		if ids == nil {
			ids = []string{}
		}
		result = append(result, dto.UnmanagedSummaryResponse{
			ReportDate:        day.Local,
			StoreType:         sm.StoreType,
			TotalStores:       sm.TotalStores,
			ManagedCount:      sm.ManagedCount,
			UnmanagedCount:    sm.UnmanagedCount,
			UnmanagedStoreIDs: ids,
			AggregatedAt:      sm.AggregatedAt.In(s.cal.Location()).Format(time.RFC3339),
		})
	}
	return result, nil
}

// ────────────────────── StartScheduler ──────────────────────

func (s *unmanagedReportService) StartScheduler(ctx context.Context) {
	if !s.cfg.Enabled {
		return
	}
	s.logger.Info("日报调度已启动",
		zap.Int("run_hour", s.cfg.RunHour),
		zap.Int("run_minute", s.cfg.RunMinute),
	)

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	var lastRun string
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("日报调度已停止")
			return
		case <-ticker.C:
			lastRun = s.tick(ctx, lastRun)
		}
	}
}

// tick 到达执行时刻且当天未执行过时触发汇总，返回最近一次执行的日期
func (s *unmanagedReportService) tick(ctx context.Context, lastRun string) string {
	now := s.now().In(s.cal.Location())
	if now.Hour() != s.cfg.RunHour || now.Minute() != s.cfg.RunMinute {
		return lastRun
	}
	today := now.Format(calendar.DateLayout)
	if today == lastRun {
		return lastRun
	}
	if _, err := s.RunDailyAggregation(ctx, ""); err != nil {
		s.logger.Error("定时日报汇总失败", zap.Error(err))
	}
	return today
}
