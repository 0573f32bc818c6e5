// Package calendar 固定民用时区下的"今天"与门店管理日判定。
//
// 所有计算都基于配置的固定时区（默认 UTC+9），与服务器本机时区无关。
package calendar

import (
	"strings"
	"time"
	"unicode"
)

// DateLayout 民用日期字符串格式
const DateLayout = "2006-01-02"

// 夜班门店缺少工作时段时的兜底值
const (
	DefaultNightStartHour = 18
	DefaultNightEndHour   = 8
)

var weekdayNames = [7]string{"일", "월", "화", "수", "목", "금", "토"}

// WeekdayName 返回星期的韩文简称（일/월/.../토）
func WeekdayName(d time.Weekday) string {
	return weekdayNames[d]
}

// ── 管理日集合 ──

// Weekdays 管理日位集合，第 n 位对应 time.Weekday(n)
type Weekdays uint8

// Has 判断集合中是否包含该星期
func (w Weekdays) Has(d time.Weekday) bool {
	return w&(1<<uint(d)) != 0
}

// Empty 集合是否为空
func (w Weekdays) Empty() bool { return w == 0 }

// ParseManagementDays 解析管理日文本。
// 按逗号、空白等分隔后逐项识别，每项可以是 "월"、"월요일" 或连写的 "월수금"。
// 含有非星期字符的项整体忽略，"요일" 中的 "일" 不会被当成周日。
func ParseManagementDays(text string) Weekdays {
	var w Weekdays
	for _, tok := range strings.FieldsFunc(text, isDaySeparator) {
		w |= parseDayToken(strings.TrimSuffix(tok, "요일"))
	}
	return w
}

func parseDayToken(tok string) Weekdays {
	var w Weekdays
	for _, r := range tok {
		i := weekdayIndex(r)
		if i < 0 {
			return 0
		}
		w |= 1 << uint(i)
	}
	return w
}

func weekdayIndex(r rune) int {
	for i, name := range weekdayNames {
		if string(r) == name {
			return i
		}
	}
	return -1
}

func isDaySeparator(r rune) bool {
	switch r {
	case ',', '，', '、', '/', '·', ';':
		return true
	}
	return unicode.IsSpace(r)
}

// ── 业务日 ──

// Day 某个业务日在两种日期约定下的表示及其时间范围
type Day struct {
	Local   string       // 固定时区下的日期
	UTC     string       // 同一时刻按 UTC 记录时的日期
	Start   time.Time    // 含
	End     time.Time    // 不含
	Weekday time.Weekday // 以 Local 为准
}

// Matches work_date 是否等于该业务日（任一约定）
func (d Day) Matches(workDate string) bool {
	return workDate == d.Local || workDate == d.UTC
}

// Contains 时刻是否落在该业务日范围内
func (d Day) Contains(t time.Time) bool {
	return !t.Before(d.Start) && t.Before(d.End)
}

// Dates 返回两种约定的去重日期列表，用于 IN 查询
func (d Day) Dates() []string {
	if d.UTC == d.Local {
		return []string{d.Local}
	}
	return []string{d.Local, d.UTC}
}

// ── Resolver ──

// Resolver 固定时区日历计算器，零值不可用
type Resolver struct {
	loc *time.Location
}

// New 按时区名与 UTC 偏移小时数创建 Resolver
func New(name string, offsetHours int) *Resolver {
	return &Resolver{loc: time.FixedZone(name, offsetHours*3600)}
}

// KST 默认的 UTC+9 Resolver
func KST() *Resolver {
	return New("KST", 9)
}

// Location 返回固定时区
func (r *Resolver) Location() *time.Location { return r.loc }

// TodayCivilDate 返回 asOf 在固定时区下的日期字符串
func (r *Resolver) TodayCivilDate(asOf time.Time) string {
	return asOf.In(r.loc).Format(DateLayout)
}

// Hour 返回 asOf 在固定时区下的小时
func (r *Resolver) Hour(asOf time.Time) int {
	return asOf.In(r.loc).Hour()
}

// Today 返回 asOf 所在的业务日
func (r *Resolver) Today(asOf time.Time) Day {
	return r.DayOffset(asOf, 0)
}

// DayOffset 返回相对 asOf 偏移 days 天的业务日。
// UTC 约定取"同一挂钟时刻在那一天"按 UTC 记录的日期。
func (r *Resolver) DayOffset(asOf time.Time, days int) Day {
	local := asOf.In(r.loc)
	y, m, d := local.Date()
	start := time.Date(y, m, d+days, 0, 0, 0, 0, r.loc)
	return Day{
		Local:   start.Format(DateLayout),
		UTC:     asOf.AddDate(0, 0, days).UTC().Format(DateLayout),
		Start:   start,
		End:     start.AddDate(0, 0, 1),
		Weekday: start.Weekday(),
	}
}

// ParseDay 将固定时区下的日期字符串解析为业务日（UTC 约定与 Local 相同）
func (r *Resolver) ParseDay(date string) (Day, error) {
	start, err := time.ParseInLocation(DateLayout, strings.TrimSpace(date), r.loc)
	if err != nil {
		return Day{}, err
	}
	return Day{
		Local:   start.Format(DateLayout),
		UTC:     start.Format(DateLayout),
		Start:   start,
		End:     start.AddDate(0, 0, 1),
		Weekday: start.Weekday(),
	}, nil
}

// ShiftHours 返回夜班门店的起止小时，缺失时使用兜底值
func ShiftHours(start, end *int) (int, int) {
	s, e := DefaultNightStartHour, DefaultNightEndHour
	if start != nil {
		s = *start
	}
	if end != nil {
		e = *end
	}
	return s, e
}

// OperationalDay 返回门店当前所属的业务日。
// 夜班门店的时段 [start, end) 跨越午夜时，凌晨 end 点之前仍归属前一天。
func (r *Resolver) OperationalDay(isNightShift bool, startHour, endHour int, asOf time.Time) Day {
	if !isNightShift || startHour == endHour || endHour > startHour {
		return r.Today(asOf)
	}
	if r.Hour(asOf) < endHour {
		return r.DayOffset(asOf, -1)
	}
	return r.Today(asOf)
}

// IsManagementDay 判断门店当前业务日是否为管理日。
// managementDays 为空时一律视为非管理日。
func (r *Resolver) IsManagementDay(managementDays string, isNightShift bool, startHour, endHour int, asOf time.Time) bool {
	days := ParseManagementDays(managementDays)
	if days.Empty() {
		return false
	}
	return days.Has(r.OperationalDay(isNightShift, startHour, endHour, asOf).Weekday)
}

// IsWithinManagementPeriod 判断 currentHour 是否处于门店工作时段内。
// 非夜班门店没有时段限制；start == end 视为全天。
func IsWithinManagementPeriod(isNightShift bool, startHour, endHour, currentHour int) bool {
	if !isNightShift || startHour == endHour {
		return true
	}
	if startHour < endHour {
		return currentHour >= startHour && currentHour < endHour
	}
	return currentHour >= startHour || currentHour < endHour
}
