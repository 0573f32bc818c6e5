package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"store-ops/config"
	"store-ops/internal/dto"
	"store-ops/internal/model"
	"store-ops/internal/repository"
	"store-ops/pkg/calendar"
	pkgerrors "store-ops/pkg/errors"
)

// ── 门店状态模块业务错误 ──

var (
	ErrNoCompany            = pkgerrors.ErrNoCompany
	ErrStoreListUnavailable = errors.New("门店列表查询失败")
)

// StoreStatusService 门店状态看板业务接口
type StoreStatusService interface {
	// ComputeCompanyStoreStatuses 计算公司全部门店的当前状态
	ComputeCompanyStoreStatuses(ctx context.Context, companyID string) (*dto.StoreStatusBoard, error)
	// ComputeManagerStoreStatuses 只计算分配给该店长的门店
	ComputeManagerStoreStatuses(ctx context.Context, companyID, userID string) (*dto.StoreStatusBoard, error)
	// ResolveCompany JWT 中缺少 company_id 时按用户记录解析
	ResolveCompany(ctx context.Context, userID string) (string, error)
}

type storeStatusService struct {
	repo   *repository.Repository
	cfg    config.StatusConfig
	cal    *calendar.Resolver
	logger *zap.Logger
	now    func() time.Time
}

// NewStoreStatusService 创建 StoreStatusService 实例
func NewStoreStatusService(cfg *config.Config, repo *repository.Repository, cal *calendar.Resolver, logger *zap.Logger) StoreStatusService {
	return newStoreStatusService(cfg.Status, repo, cal, logger)
}

func newStoreStatusService(cfg config.StatusConfig, repo *repository.Repository, cal *calendar.Resolver, logger *zap.Logger) *storeStatusService {
	if cfg.ReduceWorkers <= 0 {
		cfg.ReduceWorkers = 1
	}
	return &storeStatusService{
		repo:   repo,
		cfg:    cfg,
		cal:    cal,
		logger: logger,
		now:    time.Now,
	}
}

// ────────────────────── ResolveCompany ──────────────────────

func (s *storeStatusService) ResolveCompany(ctx context.Context, userID string) (string, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNoCompany
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return "", err
	}
	if user.CompanyID == nil || *user.CompanyID == "" {
		return "", ErrNoCompany
	}
	return *user.CompanyID, nil
}

// ────────────────────── ComputeCompanyStoreStatuses ──────────────────────

func (s *storeStatusService) ComputeCompanyStoreStatuses(ctx context.Context, companyID string) (*dto.StoreStatusBoard, error) {
	if companyID == "" {
		return nil, ErrNoCompany
	}

	stores, err := s.repo.Store.ListByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("查询门店列表失败", zap.String("company_id", companyID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStoreListUnavailable, err)
	}

	return s.computeBoard(ctx, companyID, stores), nil
}

// ────────────────────── ComputeManagerStoreStatuses ──────────────────────

func (s *storeStatusService) ComputeManagerStoreStatuses(ctx context.Context, companyID, userID string) (*dto.StoreStatusBoard, error) {
	if companyID == "" {
		return nil, ErrNoCompany
	}

	storeIDs, err := s.repo.StoreAssign.ListStoreIDsByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询店长门店失败", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStoreListUnavailable, err)
	}

	stores, err := s.repo.Store.ListByIDs(ctx, companyID, storeIDs)
	if err != nil {
		s.logger.Error("查询门店列表失败", zap.String("company_id", companyID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStoreListUnavailable, err)
	}

	return s.computeBoard(ctx, companyID, stores), nil
}

// ── 汇总 ──

// computeBoard 批量取数后逐店归约，输出顺序与门店列表一致
func (s *storeStatusService) computeBoard(ctx context.Context, companyID string, stores []model.Store) *dto.StoreStatusBoard {
	asOf := s.now()
	board := &dto.StoreStatusBoard{
		Success:        true,
		Data:           make([]dto.StoreStatusResponse, len(stores)),
		LastModifiedAt: asOf,
	}
	if len(stores) == 0 {
		return board
	}

	board.LastModifiedAt = stores[0].UpdatedAt
	storeIDs := make([]string, len(stores))
	for i := range stores {
		storeIDs[i] = stores[i].ID
		if stores[i].UpdatedAt.After(board.LastModifiedAt) {
			board.LastModifiedAt = stores[i].UpdatedAt
		}
	}

	days, window := s.planWindow(stores, asOf)
	snap := s.fetchCompanySnapshot(ctx, companyID, storeIDs, window)
	hour := s.cal.Hour(asOf)

	var g errgroup.Group
	g.SetLimit(s.cfg.ReduceWorkers)
	for i := range stores {
		st := &stores[i]
		start, end := calendar.ShiftHours(st.WorkStartHour, st.WorkEndHour)
		sc := storeContext{
			store:     st,
			day:       days[st.ID],
			asOf:      asOf,
			hour:      hour,
			startHour: start,
			endHour:   end,
			isWorkDay: s.cal.IsManagementDay(st.ManagementDaysText(), st.IsNightShift, start, end, asOf),
		}
		idx := i
		g.Go(func() error {
			board.Data[idx] = s.safeReduceStore(sc, snap)
			return nil
		})
	}
	_ = g.Wait()

	if len(snap.failed) > 0 {
		s.logger.Info("门店状态计算完成（部分数据源降级）",
			zap.String("company_id", companyID),
			zap.Int("stores", len(stores)),
			zap.Int("failed_sources", len(snap.failed)),
		)
	}
	return board
}
