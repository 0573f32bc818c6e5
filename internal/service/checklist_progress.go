package service

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"store-ops/internal/model"
)

// ErrMalformedChecklistItem 清单项缺少类型或类型未知
var ErrMalformedChecklistItem = errors.New("清单项数据格式错误")

// ChecklistStage 清单阶段（清扫前/清扫后）
type ChecklistStage string

const (
	StageUnspecified ChecklistStage = ""
	StageBefore      ChecklistStage = "before"
	StageAfter       ChecklistStage = "after"
)

// ParseChecklistStage 解析外部传入的阶段参数，空串为未指定
func ParseChecklistStage(s string) (ChecklistStage, bool) {
	switch ChecklistStage(strings.ToLower(strings.TrimSpace(s))) {
	case StageUnspecified:
		return StageUnspecified, true
	case StageBefore:
		return StageBefore, true
	case StageAfter:
		return StageAfter, true
	}
	return StageUnspecified, false
}

// ChecklistProgress 清单完成度
type ChecklistProgress struct {
	Total         int
	Completed     int
	Percentage    int
	Stage         ChecklistStage
	StageComplete bool
}

// NextStage 清扫前阶段完成后进入清扫后阶段
func (p ChecklistProgress) NextStage() ChecklistStage {
	if p.Stage == StageBefore && p.StageComplete {
		return StageAfter
	}
	return p.Stage
}

func normalizeItemType(t string) (string, bool) {
	switch t {
	case model.ChecklistItemCheck, model.ChecklistItemBeforePhoto, model.ChecklistItemAfterPhoto, model.ChecklistItemBeforeAfterPhoto:
		return t, true
	case model.ChecklistItemLegacyPhoto:
		return model.ChecklistItemBeforeAfterPhoto, true
	}
	return "", false
}

func hasURL(u *string) bool {
	return u != nil && strings.TrimSpace(*u) != ""
}

// CalculateChecklistProgress 计算清单完成度。
//
// check 计 1 单位（已勾选即完成）；before_photo/after_photo 计 1 单位（对应照片已上传即完成）；
// before_after_photo 计 2 单位，前后两侧分别完成。area 为空的项不计入。
// 单位统计与阶段无关，阶段只决定 StageComplete：
// 清扫前阶段需要全部 check 项与前侧照片完成，清扫后阶段还需要全部后侧照片。
// stage 未指定时，清扫前阶段已完成则视为清扫后阶段。
func CalculateChecklistProgress(items []model.ChecklistItem, stage ChecklistStage) (ChecklistProgress, error) {
	var p ChecklistProgress
	beforeDone, afterDone := true, true

	for i := range items {
		item := &items[i]
		if strings.TrimSpace(item.Area) == "" {
			continue
		}
		typ, ok := normalizeItemType(item.Type)
		if !ok {
			return ChecklistProgress{}, fmt.Errorf("%w: 第 %d 项 type=%q", ErrMalformedChecklistItem, i, item.Type)
		}

		switch typ {
		case model.ChecklistItemCheck:
			p.Total++
			if item.Checked {
				p.Completed++
			} else {
				beforeDone = false
			}
		case model.ChecklistItemBeforePhoto:
			p.Total++
			if hasURL(item.BeforePhotoURL) {
				p.Completed++
			} else {
				beforeDone = false
			}
		case model.ChecklistItemAfterPhoto:
			p.Total++
			if hasURL(item.AfterPhotoURL) {
				p.Completed++
			} else {
				afterDone = false
			}
		case model.ChecklistItemBeforeAfterPhoto:
			p.Total += 2
			if hasURL(item.BeforePhotoURL) {
				p.Completed++
			} else {
				beforeDone = false
			}
			if hasURL(item.AfterPhotoURL) {
				p.Completed++
			} else {
				afterDone = false
			}
		}
	}

	p.Percentage = completionPercentage(p.Completed, p.Total)

	if stage == StageUnspecified {
		stage = StageBefore
		if beforeDone {
			stage = StageAfter
		}
	}
	p.Stage = stage
	if stage == StageBefore {
		p.StageComplete = beforeDone
	} else {
		p.StageComplete = beforeDone && afterDone
	}
	return p, nil
}

// CountChecklistUnits 模板清单只统计结构单位数
func CountChecklistUnits(items []model.ChecklistItem) (int, error) {
	p, err := CalculateChecklistProgress(items, StageBefore)
	if err != nil {
		return 0, err
	}
	return p.Total, nil
}

func completionPercentage(completed, total int) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(completed) / float64(total) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
