package service

import (
	"time"

	"store-ops/internal/model"
	"store-ops/pkg/calendar"
)

// AttendanceStatus 门店出勤状态
type AttendanceStatus string

const (
	AttendanceNotClockedIn AttendanceStatus = "not_clocked_in"
	AttendanceClockedIn    AttendanceStatus = "clocked_in"
	AttendanceClockedOut   AttendanceStatus = "clocked_out"
)

// AttendanceResolution 出勤归约结果
type AttendanceResolution struct {
	Status     AttendanceStatus
	ClockInAt  *time.Time
	ClockOutAt *time.Time
	UserID     string // 决定状态的那条记录的员工
	Source     string // 命中的候选策略
}

// attendanceStrategy 候选出勤查找策略，返回空表示交给下一个策略
type attendanceStrategy struct {
	name    string
	resolve func(day calendar.Day, assigned map[string]struct{}, records []model.Attendance) []model.Attendance
}

// attendanceStrategies 按优先级排列，第一个非空结果生效
var attendanceStrategies = []attendanceStrategy{
	{name: "assigned_staff", resolve: byAssignedStaff},
	{name: "clock_in_range", resolve: byClockInRange},
	{name: "local_work_date", resolve: byLocalWorkDate},
	{name: "utc_work_date", resolve: byUTCWorkDate},
}

func filterAttendance(records []model.Attendance, keep func(a *model.Attendance) bool) []model.Attendance {
	var out []model.Attendance
	for i := range records {
		if keep(&records[i]) {
			out = append(out, records[i])
		}
	}
	return out
}

// byAssignedStaff 已分配员工且 work_date 为今天（任一约定）
func byAssignedStaff(day calendar.Day, assigned map[string]struct{}, records []model.Attendance) []model.Attendance {
	if len(assigned) == 0 {
		return nil
	}
	return filterAttendance(records, func(a *model.Attendance) bool {
		_, ok := assigned[a.UserID]
		return ok && day.Matches(a.WorkDateString())
	})
}

// byClockInRange 上班时刻落在今天范围内，不依赖上游如何写 work_date
func byClockInRange(day calendar.Day, _ map[string]struct{}, records []model.Attendance) []model.Attendance {
	return filterAttendance(records, func(a *model.Attendance) bool {
		return day.Contains(a.ClockInAt)
	})
}

func byLocalWorkDate(day calendar.Day, _ map[string]struct{}, records []model.Attendance) []model.Attendance {
	return filterAttendance(records, func(a *model.Attendance) bool {
		return a.WorkDateString() == day.Local
	})
}

func byUTCWorkDate(day calendar.Day, _ map[string]struct{}, records []model.Attendance) []model.Attendance {
	return filterAttendance(records, func(a *model.Attendance) bool {
		return a.WorkDateString() == day.UTC
	})
}

// ResolveAttendance 解析门店当天的出勤状态。
// 候选集确定后只保留 work_date 等于本地日期的记录，丢弃跨日遗留数据。
func ResolveAttendance(day calendar.Day, assigned map[string]struct{}, records []model.Attendance) AttendanceResolution {
	var candidates []model.Attendance
	var source string
	for _, s := range attendanceStrategies {
		if candidates = s.resolve(day, assigned, records); len(candidates) > 0 {
			source = s.name
			break
		}
	}

	today := filterAttendance(candidates, func(a *model.Attendance) bool {
		return a.WorkDateString() == day.Local
	})
	if len(today) == 0 {
		return AttendanceResolution{Status: AttendanceNotClockedIn, Source: source}
	}

	var open, latestOut *model.Attendance
	for i := range today {
		a := &today[i]
		if a.ClockOutAt == nil {
			if open == nil || a.ClockInAt.After(open.ClockInAt) {
				open = a
			}
			continue
		}
		if latestOut == nil || a.ClockOutAt.After(*latestOut.ClockOutAt) {
			latestOut = a
		}
	}

	if open != nil {
		clockIn := open.ClockInAt
		return AttendanceResolution{Status: AttendanceClockedIn, ClockInAt: &clockIn, UserID: open.UserID, Source: source}
	}
	clockIn := latestOut.ClockInAt
	clockOut := *latestOut.ClockOutAt
	return AttendanceResolution{
		Status:     AttendanceClockedOut,
		ClockInAt:  &clockIn,
		ClockOutAt: &clockOut,
		UserID:     latestOut.UserID,
		Source:     source,
	}
}
