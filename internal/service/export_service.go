package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"store-ops/internal/dto"
	"store-ops/pkg/calendar"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出当前门店状态看板为 Excel (.xlsx)，数据与看板接口同源
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportStoreStatus 导出公司门店状态看板
	ExportStoreStatus(ctx context.Context, companyID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	status StoreStatusService
	cal    *calendar.Resolver
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(status StoreStatusService, cal *calendar.Resolver, logger *zap.Logger) ExportService {
	return &exportService{status: status, cal: cal, logger: logger}
}

var statusSheetHeaders = []string{
	"매장명", "관리일", "오늘 관리일", "야간", "출근 상태", "직원", "출근 시간", "퇴근 시간",
	"체크리스트(%)", "체크리스트 완료/전체", "매장 문제", "자판기 문제", "분실물",
	"요청(접수)", "요청(처리중)", "제품 입고", "마지막 업데이트",
}

var attendanceLabels = map[string]string{
	string(AttendanceNotClockedIn): "미출근",
	string(AttendanceClockedIn):    "근무중",
	string(AttendanceClockedOut):   "퇴근",
}

// ═══════════════════════════════════════════════════════════
// ExportStoreStatus 导出门店状态看板
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单个 Sheet "매장 현황"
//   - 第 1 行标题（导出时间），第 2 行表头，之后每店一行
//   - 时间列按固定时区格式化
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportStoreStatus(ctx context.Context, companyID string) (*bytes.Buffer, string, error) {
	board, err := s.status.ComputeCompanyStoreStatuses(ctx, companyID)
	if err != nil {
		return nil, "", err
	}

	loc := s.cal.Location()
	exportedAt := time.Now().In(loc)

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "매장 현황"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", colName(len(statusSheetHeaders)-1), 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	problemStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F8CBAD"}, Pattern: 1},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("매장 현황 (%s 기준)", exportedAt.Format("2006-01-02 15:04")))
	f.MergeCell(sheetName, "A1", cell(colName(len(statusSheetHeaders)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	for i, h := range statusSheetHeaders {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", cell(colName(len(statusSheetHeaders)-1), 2), headerStyle)

	// 数据行
	row := 3
	for _, st := range board.Data {
		values := statusRow(st, loc)
		for i, v := range values {
			f.SetCellValue(sheetName, cell(colName(i), row), v)
		}
		if st.HasProblem {
			f.SetCellStyle(sheetName, cell("A", row), cell("A", row), problemStyle)
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("매장현황_%s.xlsx", exportedAt.Format("20060102_1504"))
	return buf, filename, nil
}

// statusRow 单店一行，顺序与 statusSheetHeaders 一致
func statusRow(st dto.StoreStatusResponse, loc *time.Location) []interface{} {
	staff := "-"
	if st.StaffName != nil {
		staff = *st.StaffName
	}
	attendance := attendanceLabels[st.AttendanceStatus]
	if st.NightShiftLabel != nil {
		attendance = *st.NightShiftLabel
	}
	return []interface{}{
		st.StoreName,
		derefOr(st.ManagementDays, "-"),
		yesNo(st.IsWorkDay),
		yesNo(st.IsNightShift),
		attendance,
		staff,
		formatClock(st.ClockInTime, loc),
		formatClock(st.ClockOutTime, loc),
		st.ChecklistPercentage,
		fmt.Sprintf("%d/%d", st.ChecklistCompleted, st.ChecklistTotal),
		st.UnprocessedStoreProblems,
		st.UnconfirmedVendingProblems,
		st.UnconfirmedLostItems,
		st.ReceivedRequestCount,
		st.InProgressRequestCount,
		yesNo(st.HasProductInflowToday),
		formatClock(st.LastUpdateTime, loc),
	}
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func yesNo(b bool) string {
	if b {
		return "O"
	}
	return "X"
}

func derefOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}

func formatClock(t *time.Time, loc *time.Location) string {
	if t == nil {
		return "-"
	}
	return t.In(loc).Format("15:04")
}
