package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User             UserRepository
	Store            StoreRepository
	StoreAssign      StoreAssignRepository
	Attendance       AttendanceRepository
	Checklist        ChecklistRepository
	ProblemReport    ProblemReportRepository
	LostItem         LostItemRepository
	Request          RequestRepository
	SupplyRequest    SupplyRequestRepository
	Photo            PhotoRepository
	UnmanagedSummary UnmanagedSummaryRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:             NewUserRepo(db),
		Store:            NewStoreRepo(db),
		StoreAssign:      NewStoreAssignRepo(db),
		Attendance:       NewAttendanceRepo(db),
		Checklist:        NewChecklistRepo(db),
		ProblemReport:    NewProblemReportRepo(db),
		LostItem:         NewLostItemRepo(db),
		Request:          NewRequestRepo(db),
		SupplyRequest:    NewSupplyRequestRepo(db),
		Photo:            NewPhotoRepo(db),
		UnmanagedSummary: NewUnmanagedSummaryRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
