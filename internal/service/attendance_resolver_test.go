package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"store-ops/internal/model"
	"store-ops/pkg/calendar"
)

var kst = calendar.KST().Location()

func workDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func kstTime(d, h, min int) time.Time {
	return time.Date(2026, 10, d, h, min, 0, 0, kst)
}

func timePtr(t time.Time) *time.Time { return &t }

func TestResolveAttendance_NoRecords(t *testing.T) {
	day := calendar.KST().Today(kstTime(15, 14, 0))
	res := ResolveAttendance(day, nil, nil)
	assert.Equal(t, AttendanceNotClockedIn, res.Status)
	assert.Nil(t, res.ClockInAt)
}

func TestResolveAttendance_AssignedStaffFirst(t *testing.T) {
	day := calendar.KST().Today(kstTime(15, 14, 0))
	assigned := map[string]struct{}{"u1": {}}
	records := []model.Attendance{
		{StoreID: "s1", UserID: "u2", WorkDate: workDate(2026, 10, 15), ClockInAt: kstTime(15, 10, 0)},
		{StoreID: "s1", UserID: "u1", WorkDate: workDate(2026, 10, 15), ClockInAt: kstTime(15, 9, 0)},
	}

	res := ResolveAttendance(day, assigned, records)
	assert.Equal(t, AttendanceClockedIn, res.Status)
	assert.Equal(t, "u1", res.UserID)
	assert.Equal(t, "assigned_staff", res.Source)
	assert.True(t, res.ClockInAt.Equal(kstTime(15, 9, 0)))
}

func TestResolveAttendance_OpenRecordWins(t *testing.T) {
	day := calendar.KST().Today(kstTime(15, 14, 0))
	records := []model.Attendance{
		{UserID: "u1", WorkDate: workDate(2026, 10, 15), ClockInAt: kstTime(15, 8, 0), ClockOutAt: timePtr(kstTime(15, 12, 0))},
		{UserID: "u2", WorkDate: workDate(2026, 10, 15), ClockInAt: kstTime(15, 9, 0)},
		{UserID: "u3", WorkDate: workDate(2026, 10, 15), ClockInAt: kstTime(15, 11, 0)},
	}

	res := ResolveAttendance(day, nil, records)
	assert.Equal(t, AttendanceClockedIn, res.Status)
	assert.Equal(t, "u3", res.UserID)
	assert.Nil(t, res.ClockOutAt)
}

func TestResolveAttendance_LatestClockOut(t *testing.T) {
	day := calendar.KST().Today(kstTime(15, 20, 0))
	records := []model.Attendance{
		{UserID: "u1", WorkDate: workDate(2026, 10, 15), ClockInAt: kstTime(15, 8, 0), ClockOutAt: timePtr(kstTime(15, 12, 0))},
		{UserID: "u2", WorkDate: workDate(2026, 10, 15), ClockInAt: kstTime(15, 13, 0), ClockOutAt: timePtr(kstTime(15, 18, 0))},
	}

	res := ResolveAttendance(day, nil, records)
	assert.Equal(t, AttendanceClockedOut, res.Status)
	assert.Equal(t, "u2", res.UserID)
	assert.True(t, res.ClockOutAt.Equal(kstTime(15, 18, 0)))
	assert.True(t, res.ClockInAt.Equal(kstTime(15, 13, 0)))
}

func TestResolveAttendance_StaleWorkDateDropped(t *testing.T) {
	day := calendar.KST().Today(kstTime(15, 14, 0))
	// 上班时刻在今天，但 work_date 是昨天的遗留记录
	records := []model.Attendance{
		{UserID: "u1", WorkDate: workDate(2026, 10, 14), ClockInAt: kstTime(15, 1, 0)},
	}

	res := ResolveAttendance(day, nil, records)
	assert.Equal(t, AttendanceNotClockedIn, res.Status)
	assert.Equal(t, "clock_in_range", res.Source)
}

func TestResolveAttendance_UTCWorkDateFallback(t *testing.T) {
	// KST 03:00 时 UTC 日期仍是前一天
	asOf := kstTime(15, 3, 0)
	day := calendar.KST().Today(asOf)
	assert.Equal(t, "2026-10-14", day.UTC)

	records := []model.Attendance{
		// 上班时刻不在今天范围内，只能靠 work_date 命中
		{UserID: "u1", WorkDate: workDate(2026, 10, 15), ClockInAt: kstTime(14, 23, 0)},
	}
	res := ResolveAttendance(day, nil, records)
	assert.Equal(t, AttendanceClockedIn, res.Status)
	assert.Equal(t, "local_work_date", res.Source)
}

func TestEvaluateNightShiftState(t *testing.T) {
	tests := []struct {
		name   string
		hour   int
		status AttendanceStatus
		want   NightShiftState
		label  string
	}{
		{"时段内未下班", 23, AttendanceClockedIn, NightShiftWithinActive, "관리일 (관리 가능)"},
		{"跨午夜时段内", 2, AttendanceNotClockedIn, NightShiftWithinActive, "관리일 (관리 가능)"},
		{"时段内已下班", 23, AttendanceClockedOut, NightShiftWithinDone, ""},
		{"开始前", 14, AttendanceNotClockedIn, NightShiftBeforeStart, "22시 시작"},
		{"开始前已完成", 14, AttendanceClockedOut, NightShiftAfterEndDone, "오늘 관리 완료"},
		{"开始前的整点边界", 6, AttendanceNotClockedIn, NightShiftBeforeStart, "22시 시작"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateNightShiftState(22, 6, tt.hour, tt.status)
			assert.Equal(t, tt.want, got)
			label, ok := got.Label(22)
			assert.Equal(t, tt.label != "", ok)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestEvaluateNightShiftState_AfterEndNotStarted(t *testing.T) {
	// 非跨日时段 [1, 5)，当前 7 点未出勤
	got := EvaluateNightShiftState(1, 5, 7, AttendanceNotClockedIn)
	assert.Equal(t, NightShiftAfterEndNotStarted, got)
	label, ok := got.Label(1)
	assert.True(t, ok)
	assert.Equal(t, "오늘 관리일 (1시 시작)", label)
}
