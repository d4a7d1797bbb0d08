package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"oilsafe-hub/backend/internal/dto"
	"oilsafe-hub/backend/internal/model"
	"oilsafe-hub/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportInvalidWindow = errors.New("日期窗口无效：from 必须不晚于 to")
	ErrExportGenerateFail  = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出时间线网格为 Excel (.xlsx)：技师行 × 日列，按 ISO 周分 Sheet
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - 单元格文本复用事件标题（工单编号 — 客户），同格多事件换行拼接
type ExportService interface {
	// ExportTimeline 导出 [from, to] 窗口的时间线网格为 Excel
	ExportTimeline(ctx context.Context, from, to time.Time) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportTimeline — 导出时间线网格为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "Settimana N"（按 ISO 周分，周一起始）
//   - 行头：技师姓名（Cognome Nome）
//   - 列头：窗口内该周的日期
//   - 单元格：事件标题（工单编号 — 客户），多事件换行
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportTimeline(ctx context.Context, from, to time.Time) (*bytes.Buffer, string, error) {
	if to.Before(from) {
		return nil, "", ErrExportInvalidWindow
	}

	// 1. 查询窗口内排程记录与在职技师
	records, err := s.repo.SchedulingRecord.ListByWindow(ctx, startOfDay(from), endOfDay(to), model.CalendarStatuses)
	if err != nil {
		s.logger.Error("查询排程记录失败", zap.Error(err))
		return nil, "", err
	}
	technicians, err := s.repo.Technician.List(ctx, true)
	if err != nil {
		s.logger.Error("查询技师列表失败", zap.Error(err))
		return nil, "", err
	}

	// 2. 聚合为时间线矩阵
	events := NormalizeEvents(records, technicians, s.logger)
	days := DayRange(from, to)
	timeline := BuildTimeline(events, technicians, days)

	// 3. 按 ISO 周切分日序列
	weeks := splitByISOWeek(days)

	// 4. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	cellStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
	})

	for wi, week := range weeks {
		_, wn := week.days[0].ISOWeek()
		sheetName := fmt.Sprintf("Settimana %d", wn)
		idx, err := f.NewSheet(sheetName)
		if err != nil {
			s.logger.Error("创建 Sheet 失败", zap.String("sheet", sheetName), zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
		if wi == 0 {
			f.SetActiveSheet(idx)
		}

		// 列宽：技师列 + 日列
		f.SetColWidth(sheetName, "A", "A", 24)
		lastCol := colName(len(week.days))
		f.SetColWidth(sheetName, "B", lastCol, 26)

		// 表头
		f.SetCellValue(sheetName, "A1", "Tecnico")
		for di, d := range week.days {
			f.SetCellValue(sheetName, cell(colName(1+di), 1), d.Format(dayKeyLayout))
		}
		f.SetCellStyle(sheetName, "A1", cell(lastCol, 1), headerStyle)

		// 数据行：每位技师一行，单元格取该（技师, 日）的事件标题
		row := 2
		for _, tr := range timeline.Rows {
			f.SetCellValue(sheetName, cell("A", row), tr.TechnicianName)
			for di := range week.days {
				c := tr.Cells[week.offset+di]
				if text := cellText(c.Events); text != "" {
					f.SetCellValue(sheetName, cell(colName(1+di), row), text)
				}
			}
			f.SetCellStyle(sheetName, cell("A", row), cell(lastCol, row), cellStyle)
			row++
		}
	}

	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("planning_%s_%s.xlsx", from.Format(dayKeyLayout), to.Format(dayKeyLayout))
	return buf, filename, nil
}

// ── 辅助函数 ──

// weekChunk 一个 ISO 周在日序列中的切片（offset 为该周首日在整体日序列中的下标）
type weekChunk struct {
	days   []time.Time
	offset int
}

// splitByISOWeek 把升序日序列按 ISO 周切段
func splitByISOWeek(days []time.Time) []weekChunk {
	var chunks []weekChunk
	start := 0
	for i := 1; i <= len(days); i++ {
		if i == len(days) || !sameISOWeek(days[i], days[start]) {
			chunks = append(chunks, weekChunk{days: days[start:i], offset: start})
			start = i
		}
	}
	return chunks
}

func sameISOWeek(a, b time.Time) bool {
	ay, aw := a.ISOWeek()
	by, bw := b.ISOWeek()
	return ay == by && aw == bw
}

// cellText 单元格文本：事件标题按出现顺序换行拼接，同记录只出现一次
func cellText(events []dto.CalendarEvent) string {
	seen := make(map[string]bool)
	var lines []string
	for i := range events {
		recID := events[i].Resource.RecordID
		if seen[recID] {
			continue
		}
		seen[recID] = true
		lines = append(lines, events[i].Title)
	}
	return strings.Join(lines, "\n")
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
