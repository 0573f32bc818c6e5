package model

import "time"

// 门店类型
const (
	StoreTypeGeneral = "general"
	StoreTypeNight   = "night"
)

// UnmanagedStoreSummary 未管理门店日报，对应 unmanaged_stores_summary
// 唯一键 (company_id, report_date, store_type)
type UnmanagedStoreSummary struct {
	ID                string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID         string      `gorm:"type:uuid;not null"                             json:"company_id"`
	ReportDate        time.Time   `gorm:"type:date;not null"                             json:"report_date"`
	StoreType         string      `gorm:"type:varchar(10);not null"                      json:"store_type"`
	TotalStores       int         `gorm:"not null;default:0"                             json:"total_stores"`
	ManagedCount      int         `gorm:"not null;default:0"                             json:"managed_count"`
	UnmanagedCount    int         `gorm:"not null;default:0"                             json:"unmanaged_count"`
	UnmanagedStoreIDs StringArray `gorm:"type:uuid[];not null;default:'{}'"              json:"unmanaged_store_ids"`
	AggregatedAt      time.Time   `gorm:"not null"                                       json:"aggregated_at"`
	Timestamps
}

// TableName 指定表名
func (UnmanagedStoreSummary) TableName() string { return "unmanaged_stores_summary" }
