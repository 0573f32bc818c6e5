package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// 清单项类型
const (
	ChecklistItemCheck            = "check"
	ChecklistItemBeforePhoto      = "before_photo"
	ChecklistItemAfterPhoto       = "after_photo"
	ChecklistItemBeforeAfterPhoto = "before_after_photo"
	ChecklistItemLegacyPhoto      = "photo" // 旧数据，等同 before_after_photo
)

// Checklist 清扫清单表，对应 checklist
// assigned_user_id 为空且 work_date 为哨兵日期的行是模板
type Checklist struct {
	ID             string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StoreID        string         `gorm:"type:uuid;not null;index"                       json:"store_id"`
	AssignedUserID *string        `gorm:"type:uuid"                                      json:"assigned_user_id,omitempty"`
	Items          datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"               json:"items"`
	WorkDate       time.Time      `gorm:"type:date;not null"                             json:"work_date"`
	Timestamps
}

// TableName 指定表名
func (Checklist) TableName() string { return "checklist" }

// ChecklistItem 清单项（jsonb 数组元素）
type ChecklistItem struct {
	Area           string  `json:"area"`
	Type           string  `json:"type"`
	Checked        bool    `json:"checked"`
	BeforePhotoURL *string `json:"before_photo_url"`
	AfterPhotoURL  *string `json:"after_photo_url"`
}

// WorkDateString 返回 YYYY-MM-DD 形式的 work_date
func (c *Checklist) WorkDateString() string {
	return c.WorkDate.Format("2006-01-02")
}

// IsTemplate 是否为模板清单
func (c *Checklist) IsTemplate(templateDate string) bool {
	return c.AssignedUserID == nil && c.WorkDateString() == templateDate
}

// ParseItems 解析 items 字段
// 单行数据损坏只影响该清单本身
func (c *Checklist) ParseItems() ([]ChecklistItem, error) {
	if len(c.Items) == 0 {
		return nil, nil
	}
	var items []ChecklistItem
	if err := json.Unmarshal(c.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}
