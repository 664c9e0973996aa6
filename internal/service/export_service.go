package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"course-planner/backend/internal/dto"
	"course-planner/backend/internal/model"
	"course-planner/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportGenerateFail = errors.New("生成导出文件失败")
	ErrExportInvalidStart = errors.New("起始日期格式错误，应为 YYYY-MM-DD")
)

const (
	defaultExportWeeks = 16
	icsFloatingLayout  = "20060102T150405"
	xlsxSheetName      = "Schedule"
)

// slotClock 各时段在日历中的起止时间（时, 分）
var slotClock = map[string][2][2]int{
	model.TimeMorning:   {{9, 0}, {10, 15}},
	model.TimeAfternoon: {{13, 0}, {14, 15}},
	model.TimeEvening:   {{18, 0}, {19, 15}},
}

// ExportService 导出业务接口
//
// 设计说明：
//   - 只导出最近一次生成的课表，未生成时返回 ErrScheduleNotBuilt
//   - Excel：行为 Morning/Afternoon/Evening，列为 Mon~Fri
//   - ICS：每条排课一个按周重复的 VEVENT，时间为不带时区的本地时间
type ExportService interface {
	ExportXLSX(ctx context.Context) (*bytes.Buffer, string, error)
	ExportICS(ctx context.Context, req *dto.ExportScheduleRequest) ([]byte, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

func (s *exportService) lastSchedule(ctx context.Context) (*model.WeeklySchedule, error) {
	schedule, err := s.repo.Schedule.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScheduleNotBuilt
		}
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, err
	}
	return schedule, nil
}

// ═══════════════════════════════════════════════════════════
// ExportXLSX 导出周课表为 Excel
// ═══════════════════════════════════════════════════════════
//
// | Time      | Mon | Tue | Wed | Thu | Fri |
// | Morning   | ...                         |
// 单元格内多门课换行分隔，格式 "CODE Title"

func (s *exportService) ExportXLSX(ctx context.Context) (*bytes.Buffer, string, error) {
	schedule, err := s.lastSchedule(ctx)
	if err != nil {
		return nil, "", err
	}
	buckets := schedule.Buckets()

	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(xlsxSheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(xlsxSheetName, "A", "A", 12)
	f.SetColWidth(xlsxSheetName, "B", colName(1+len(model.Weekdays)), 28)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	bodyStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})

	// 标题行
	f.SetCellValue(xlsxSheetName, "A1", schedule.Note)
	f.MergeCell(xlsxSheetName, "A1", cell(colName(1+len(model.Weekdays)), 1))

	// 表头
	f.SetCellValue(xlsxSheetName, cell("A", 2), "Time")
	for i, day := range model.Weekdays {
		f.SetCellValue(xlsxSheetName, cell(colName(2+i), 2), day)
	}
	f.SetCellStyle(xlsxSheetName, "A2", cell(colName(1+len(model.Weekdays)), 2), headerStyle)

	// 数据行
	row := 3
	for _, slot := range model.TimesOfDay {
		f.SetCellValue(xlsxSheetName, cell("A", row), slot)
		for i, day := range model.Weekdays {
			lines := make([]string, 0, len(buckets[day][slot]))
			for _, e := range buckets[day][slot] {
				lines = append(lines, strings.TrimSpace(e.Code+" "+e.Title))
			}
			text := "-"
			if len(lines) > 0 {
				text = strings.Join(lines, "\n")
			}
			f.SetCellValue(xlsxSheetName, cell(colName(2+i), row), text)
		}
		row++
	}
	f.SetCellStyle(xlsxSheetName, "A3", cell(colName(1+len(model.Weekdays)), row-1), bodyStyle)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, "schedule.xlsx", nil
}

// ═══════════════════════════════════════════════════════════
// ExportICS 导出周课表为 iCalendar
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportICS(ctx context.Context, req *dto.ExportScheduleRequest) ([]byte, string, error) {
	if req == nil {
		req = &dto.ExportScheduleRequest{}
	}
	weeks := req.Weeks
	if weeks <= 0 {
		weeks = defaultExportWeeks
	}
	monday, err := s.firstMonday(req.Start)
	if err != nil {
		return nil, "", err
	}

	schedule, err := s.lastSchedule(ctx)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//course-planner//weekly schedule//EN")
	cal.SetXWRCalName("Course Planner")

	stamp := s.now().UTC()
	for dayIdx, day := range model.Weekdays {
		date := monday.AddDate(0, 0, dayIdx)
		for i, e := range schedule.Week[day] {
			clock, ok := slotClock[e.Time]
			if !ok {
				continue
			}
			start := time.Date(date.Year(), date.Month(), date.Day(), clock[0][0], clock[0][1], 0, 0, time.UTC)
			end := time.Date(date.Year(), date.Month(), date.Day(), clock[1][0], clock[1][1], 0, 0, time.UTC)

			ev := cal.AddEvent(fmt.Sprintf("%s-%d-%s@course-planner", strings.ToLower(day), i, icsUIDPart(e.Code)))
			ev.SetDtStampTime(stamp)
			ev.SetSummary(strings.TrimSpace(e.Code + " " + e.Title))
			ev.SetDescription(e.Time)
			ev.SetProperty(ics.ComponentPropertyDtStart, start.Format(icsFloatingLayout))
			ev.SetProperty(ics.ComponentPropertyDtEnd, end.Format(icsFloatingLayout))
			ev.AddRrule(fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", weeks))
		}
	}

	return []byte(cal.Serialize()), "schedule.ics", nil
}

// firstMonday 返回 start 所在周的周一；start 为空时取下周一
func (s *exportService) firstMonday(start string) (time.Time, error) {
	var d time.Time
	if start == "" {
		now := s.now()
		d = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 7)
	} else {
		parsed, err := time.Parse("2006-01-02", start)
		if err != nil {
			return time.Time{}, ErrExportInvalidStart
		}
		d = parsed
	}
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0
	return d.AddDate(0, 0, -offset), nil
}

func icsUIDPart(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return "untitled"
	}
	return strings.ReplaceAll(code, " ", "")
}

// ── Excel 辅助函数 ──

func colName(n int) string {
	name, _ := excelize.ColumnNumberToName(n)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
