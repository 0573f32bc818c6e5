package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"store-ops/internal/dto"
	"store-ops/internal/model"
	"store-ops/internal/repository"
	"store-ops/pkg/calendar"
)

// ── 清单模块业务错误 ──

var (
	ErrChecklistNotFound     = errors.New("清单不存在")
	ErrChecklistMalformed    = errors.New("清单数据格式错误")
	ErrInvalidChecklistStage = errors.New("无效的清单阶段")
)

// ChecklistViewer 查看清单的调用方，来自 Token
// CompanyID 可能为空
type ChecklistViewer struct {
	UserID    string
	Role      string
	CompanyID string
}

// ChecklistService 清单进度业务接口
type ChecklistService interface {
	// EvaluateChecklist 计算单个清单在指定阶段的完成度，调用方无权查看时按不存在处理
	EvaluateChecklist(ctx context.Context, checklistID, stage string, viewer ChecklistViewer) (*dto.ChecklistProgressResponse, error)
	// GetStaffProgress 员工当前出勤门店的清单与请求进度
	GetStaffProgress(ctx context.Context, userID string) ([]dto.StaffStoreProgress, error)
}

type checklistService struct {
	repo   *repository.Repository
	cal    *calendar.Resolver
	logger *zap.Logger
	now    func() time.Time
}

// NewChecklistService 创建 ChecklistService 实例
func NewChecklistService(repo *repository.Repository, cal *calendar.Resolver, logger *zap.Logger) ChecklistService {
	return &checklistService{repo: repo, cal: cal, logger: logger, now: time.Now}
}

// ────────────────────── EvaluateChecklist ──────────────────────

func (s *checklistService) EvaluateChecklist(ctx context.Context, checklistID, stage string, viewer ChecklistViewer) (*dto.ChecklistProgressResponse, error) {
	st, ok := ParseChecklistStage(stage)
	if !ok {
		return nil, ErrInvalidChecklistStage
	}

	cl, err := s.repo.Checklist.GetByID(ctx, checklistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChecklistNotFound
		}
		s.logger.Error("查询清单失败", zap.String("checklist_id", checklistID), zap.Error(err))
		return nil, err
	}

	allowed, err := s.canView(ctx, cl, viewer)
	if err != nil {
		s.logger.Error("校验清单权限失败",
			zap.String("checklist_id", checklistID),
			zap.String("user_id", viewer.UserID),
			zap.Error(err),
		)
		return nil, err
	}
	if !allowed {
		s.logger.Warn("越权查看清单",
			zap.String("checklist_id", checklistID),
			zap.String("user_id", viewer.UserID),
			zap.String("role", viewer.Role),
		)
		return nil, ErrChecklistNotFound
	}

	progress, err := evaluateChecklist(cl, st)
	if err != nil {
		s.logger.Warn("清单数据异常", zap.String("checklist_id", checklistID), zap.Error(err))
		return nil, ErrChecklistMalformed
	}

	return &dto.ChecklistProgressResponse{
		ChecklistID:   cl.ID,
		StoreID:       cl.StoreID,
		Total:         progress.Total,
		Completed:     progress.Completed,
		Percentage:    progress.Percentage,
		Stage:         string(progress.Stage),
		StageComplete: progress.StageComplete,
		NextStage:     string(progress.NextStage()),
	}, nil
}

// canView 经营者与管理员只能查看本公司门店的清单；
// 店长与员工只能查看分配给自己的门店，员工另可查看指派给自己的清单。
func (s *checklistService) canView(ctx context.Context, cl *model.Checklist, viewer ChecklistViewer) (bool, error) {
	store, err := s.repo.Store.GetByID(ctx, cl.StoreID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	switch viewer.Role {
	case model.RoleBusinessOwner, model.RoleAdmin:
		companyID := viewer.CompanyID
		if companyID == "" {
			user, err := s.repo.User.GetByID(ctx, viewer.UserID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return false, nil
				}
				return false, err
			}
			if user.CompanyID == nil {
				return false, nil
			}
			companyID = *user.CompanyID
		}
		return store.CompanyID == companyID, nil

	case model.RoleStoreManager, model.RoleStaff:
		if viewer.CompanyID != "" && store.CompanyID != viewer.CompanyID {
			return false, nil
		}
		if viewer.Role == model.RoleStaff && cl.AssignedUserID != nil && *cl.AssignedUserID == viewer.UserID {
			return true, nil
		}
		storeIDs, err := s.repo.StoreAssign.ListStoreIDsByUser(ctx, viewer.UserID)
		if err != nil {
			return false, err
		}
		for _, id := range storeIDs {
			if id == store.ID {
				return true, nil
			}
		}
	}
	return false, nil
}

func evaluateChecklist(cl *model.Checklist, stage ChecklistStage) (ChecklistProgress, error) {
	items, err := cl.ParseItems()
	if err != nil {
		return ChecklistProgress{}, err
	}
	return CalculateChecklistProgress(items, stage)
}

// ────────────────────── GetStaffProgress ──────────────────────

// GetStaffProgress 以未下班的出勤记录（今天或昨天）确定员工所在门店。
// 昨天的记录覆盖夜班跨日的情况。
func (s *checklistService) GetStaffProgress(ctx context.Context, userID string) ([]dto.StaffStoreProgress, error) {
	asOf := s.now()
	today := s.cal.Today(asOf)
	yesterday := s.cal.DayOffset(asOf, -1)
	workDates := uniqueDates(today.Dates(), yesterday.Dates())

	open, err := s.repo.Attendance.ListOpenByUser(ctx, userID, workDates)
	if err != nil {
		s.logger.Error("查询出勤记录失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	var storeIDs []string
	seen := make(map[string]struct{})
	for _, a := range open {
		if _, ok := seen[a.StoreID]; ok {
			continue
		}
		seen[a.StoreID] = struct{}{}
		storeIDs = append(storeIDs, a.StoreID)
	}
	result := make([]dto.StaffStoreProgress, 0, len(storeIDs))
	if len(storeIDs) == 0 {
		return result, nil
	}

	checklists, err := s.repo.Checklist.ListAssigned(ctx, storeIDs, userID, workDates)
	if err != nil {
		s.logger.Error("查询员工清单失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	inProgress, err := s.repo.Request.CountByStoresStatus(ctx, storeIDs, model.RequestStatusInProgress)
	if err != nil {
		// 请求数只是附加信息，失败时按 0 展示
		s.logger.Warn("统计处理中请求失败", zap.String("user_id", userID), zap.Error(err))
		inProgress = map[string]int{}
	}

	// 门店名一次取回，失败时只缺名称
	names := make(map[string]string, len(storeIDs))
	if stores, err := s.repo.Store.ListByIDs(ctx, "", storeIDs); err == nil {
		for i := range stores {
			names[stores[i].ID] = stores[i].Name
		}
	} else {
		s.logger.Warn("查询门店失败", zap.String("user_id", userID), zap.Error(err))
	}

	byStore := partitionByStore(checklists, func(c *model.Checklist) string { return c.StoreID })
	for _, storeID := range storeIDs {
		item := dto.StaffStoreProgress{
			StoreID:            storeID,
			StoreName:          names[storeID],
			IncompleteRequests: inProgress[storeID],
		}

		for i := range byStore[storeID] {
			cl := &byStore[storeID][i]
			p, err := evaluateChecklist(cl, StageUnspecified)
			if err != nil {
				s.logger.Warn("清单数据异常，跳过", zap.String("checklist_id", cl.ID), zap.Error(err))
				continue
			}
			item.Total += p.Total
			item.Completed += p.Completed
			if p.Completed < p.Total {
				item.IncompleteChecklists++
			}
		}
		item.Percentage = completionPercentage(item.Completed, item.Total)
		result = append(result, item)
	}
	return result, nil
}

// uniqueDates 合并日期列表并去重，保持首次出现的顺序
func uniqueDates(lists ...[]string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, list := range lists {
		for _, d := range list {
			if _, ok := seen[d]; ok {
				continue
			}
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	return out
}
