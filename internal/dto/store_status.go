package dto

import "time"

// ── 门店状态看板 ──

// StoreStatusResponse 单店当前状态
type StoreStatusResponse struct {
	StoreID        string  `json:"store_id"`
	StoreName      string  `json:"store_name"`
	StoreAddress   *string `json:"store_address"`
	ManagementDays *string `json:"management_days"`
	IsWorkDay      bool    `json:"is_work_day"`
	IsNightShift   bool    `json:"is_night_shift"`
	WorkStartHour  *int    `json:"work_start_hour"`
	WorkEndHour    *int    `json:"work_end_hour"`
	// 仅夜班门店在管理日给出
	NightShiftState *string `json:"night_shift_state"`
	NightShiftLabel *string `json:"night_shift_label"`

	AttendanceStatus string     `json:"attendance_status"`
	ClockInTime      *time.Time `json:"clock_in_time"`
	ClockOutTime     *time.Time `json:"clock_out_time"`
	StaffName        *string    `json:"staff_name"`

	HasProblem                 bool `json:"has_problem"`
	StoreProblemCount          int  `json:"store_problem_count"`
	VendingProblemCount        int  `json:"vending_problem_count"`
	LostItemCount              int  `json:"lost_item_count"`
	UnprocessedStoreProblems   int  `json:"unprocessed_store_problems"`
	CompletedStoreProblems     int  `json:"completed_store_problems"`
	UnconfirmedVendingProblems int  `json:"unconfirmed_vending_problems"`
	ConfirmedVendingProblems   int  `json:"confirmed_vending_problems"`
	UnconfirmedLostItems       int  `json:"unconfirmed_lost_items"`
	ConfirmedLostItems         int  `json:"confirmed_lost_items"`

	HasProductInflowToday bool `json:"has_product_inflow_today"`
	HasStoragePhotos      bool `json:"has_storage_photos"`

	ReceivedRequestCount             int `json:"received_request_count"`
	InProgressRequestCount           int `json:"in_progress_request_count"`
	CompletedRequestCount            int `json:"completed_request_count"`
	RejectedRequestCount             int `json:"rejected_request_count"`
	UnconfirmedCompletedRequestCount int `json:"unconfirmed_completed_request_count"`
	UnconfirmedRejectedRequestCount  int `json:"unconfirmed_rejected_request_count"`
	ReceivedSupplyRequestCount       int `json:"received_supply_request_count"`
	InProgressSupplyRequestCount     int `json:"in_progress_supply_request_count"`
	ManagerInProgressSupplyCount     int `json:"manager_in_progress_supply_request_count"`

	ChecklistTotal      int    `json:"checklist_total"`
	ChecklistCompleted  int    `json:"checklist_completed"`
	ChecklistPercentage int    `json:"checklist_percentage"`
	ChecklistCount      int    `json:"checklist_count"`
	ChecklistStage      string `json:"checklist_stage,omitempty"`

	BeforePhotoCount  int                `json:"before_photo_count"`
	AfterPhotoCount   int                `json:"after_photo_count"`
	BeforeAfterPhotos []BeforeAfterPhoto `json:"before_after_photos"`

	LastUpdateTime *time.Time `json:"last_update_time"`
}

// BeforeAfterPhoto 按区域合并的清扫前后照片
type BeforeAfterPhoto struct {
	Area           string  `json:"area"`
	BeforePhotoURL *string `json:"before_photo_url"`
	AfterPhotoURL  *string `json:"after_photo_url"`
}

// StoreStatusBoard 公司门店状态看板
type StoreStatusBoard struct {
	Success        bool                  `json:"success"`
	Data           []StoreStatusResponse `json:"data"`
	LastModifiedAt time.Time             `json:"lastModifiedAt"`
}

// ── 清单进度 ──

// ChecklistProgressRequest GET /checklists/:id/progress 查询参数
type ChecklistProgressRequest struct {
	Stage string `form:"stage" binding:"omitempty,oneof=before after"`
}

// ChecklistProgressResponse 单个清单的完成度
type ChecklistProgressResponse struct {
	ChecklistID   string `json:"checklist_id"`
	StoreID       string `json:"store_id"`
	Total         int    `json:"total"`
	Completed     int    `json:"completed"`
	Percentage    int    `json:"percentage"`
	Stage         string `json:"stage"`
	StageComplete bool   `json:"stage_complete"`
	NextStage     string `json:"next_stage"`
}

// StaffStoreProgress 员工在某门店的进度
type StaffStoreProgress struct {
	StoreID              string `json:"store_id"`
	StoreName            string `json:"store_name"`
	Total                int    `json:"total"`
	Completed            int    `json:"completed"`
	Percentage           int    `json:"percentage"`
	IncompleteChecklists int    `json:"incomplete_checklists"`
	IncompleteRequests   int    `json:"incomplete_requests"`
}

// ── 未管理门店日报 ──

// UnmanagedReportRequest GET /business/reports/unmanaged 查询参数
type UnmanagedReportRequest struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

// UnmanagedSummaryResponse 单个门店类型的日报
type UnmanagedSummaryResponse struct {
	ReportDate        string   `json:"report_date"`
	StoreType         string   `json:"store_type"`
	TotalStores       int      `json:"total_stores"`
	ManagedCount      int      `json:"managed_count"`
	UnmanagedCount    int      `json:"unmanaged_count"`
	UnmanagedStoreIDs []string `json:"unmanaged_store_ids"`
	AggregatedAt      string   `json:"aggregated_at"`
}

// UnmanagedRunResponse 日报聚合执行结果
type UnmanagedRunResponse struct {
	ReportDate string `json:"report_date"`
	Companies  int    `json:"companies"`
	Failed     int    `json:"failed"`
}
