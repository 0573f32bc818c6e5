package model

import "time"

// Attendance 出勤记录表，对应 attendance
// work_date 由上游写入，可能是本地日期也可能是 UTC 日期
type Attendance struct {
	ID         string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StoreID    string     `gorm:"type:uuid;not null;index"                       json:"store_id"`
	UserID     string     `gorm:"type:uuid;not null;index"                       json:"user_id"`
	WorkDate   time.Time  `gorm:"type:date;not null"                             json:"work_date"`
	ClockInAt  time.Time  `gorm:"not null"                                       json:"clock_in_at"`
	ClockOutAt *time.Time `json:"clock_out_at,omitempty"`
	Timestamps
}

// TableName 指定表名
func (Attendance) TableName() string { return "attendance" }

// WorkDateString 返回 YYYY-MM-DD 形式的 work_date
func (a *Attendance) WorkDateString() string {
	return a.WorkDate.Format("2006-01-02")
}
