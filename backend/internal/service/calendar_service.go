package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"oilsafe-hub/backend/internal/dto"
	"oilsafe-hub/backend/internal/model"
	"oilsafe-hub/backend/internal/repository"
)

// ── 日历模块业务错误 ──

var (
	ErrCalendarInvalidWindow      = errors.New("日期窗口无效：from 必须不晚于 to")
	ErrCalendarInvalidDay         = errors.New("目标日期格式无效，应为 YYYY-MM-DD")
	ErrCalendarRecordNotFound     = errors.New("排程记录不存在")
	ErrCalendarTechnicianNotFound = errors.New("目标技师不存在或已停用")
)

// 参照解析失败时的占位标签
const (
	labelUnassigned = "Non assegnato"
	labelUnknown    = "N/D"
	noJobKey        = "no-job"
)

const dayKeyLayout = "2006-01-02"

// ── CalendarService 接口 ──────────────────────────────────
//
// 设计说明：
//   - 三个视图共享同一条事件展开管线：排程记录 ×（分配技师）→ 日历事件。
//     事件为派生结构，每次请求全量重建，幂等且与记录输入顺序解耦
//     （仓储层按 start_date 升序返回，首见顺序由此确定）。
//   - 议程按 记录 ID 合并同记录多技师事件为一个时段；
//     月/周视图保留每技师一条事件，两者分组语义不同。
//   - 迁移（Relocate）不做乐观 UI：持久化成功后由调用方整体重查，
//     失败时内存结构不被修改。
// ─────────────────────────────────────────────────────────────

// CalendarService 日历聚合业务接口
type CalendarService interface {
	// Events 月/周视图的扁平事件列表
	Events(ctx context.Context, from, to time.Time, statuses []string) ([]dto.CalendarEvent, error)
	// Agenda 议程视图：日 → 工单组 → 时段
	Agenda(ctx context.Context, from, to time.Time) (*dto.AgendaResponse, error)
	// Timeline 时间线视图：技师 × 日 矩阵
	Timeline(ctx context.Context, from, to time.Time) (*dto.TimelineResponse, error)
	// Relocate 拖拽迁移：整体移动一条排程记录到（技师, 日）
	Relocate(ctx context.Context, req *dto.RelocateRequest, operatorID string) (*dto.RelocateResponse, error)
	// ListRelocations 迁移审计日志（新→旧）
	ListRelocations(ctx context.Context, page, pageSize int) ([]dto.RelocationLogResponse, int64, error)
}

type calendarService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════
// 事件展开（Normalizer）
// ════════════════════════════════════════════════════════════

// NormalizeEvents 把排程记录展开为扁平日历事件列表。
//
// 规则：
//   - 每条记录 × 每位分配技师 → 一条事件；无分配技师 → 一条未分配占位事件。
//   - 工单/客户优先取记录自身字段，缺失时回退取关联报告的字段。
//   - 参照解析失败（技师/工单/客户不在参照集合中）降级为占位标签，从不中断。
//   - 跨度日期非法（零值或 end < start）的记录跳过并记录日志，不影响其余记录。
//   - start/end 取天边界（00:00:00 / 23:59:59）：本层只建模天粒度排程。
func NormalizeEvents(records []model.SchedulingRecord, technicians []model.Technician, logger *zap.Logger) []dto.CalendarEvent {
	techByID := make(map[string]model.Technician, len(technicians))
	for _, t := range technicians {
		techByID[t.TechnicianID] = t
	}

	events := make([]dto.CalendarEvent, 0, len(records))
	for _, rec := range records {
		if rec.StartDate.IsZero() || rec.EndDate.IsZero() || rec.EndDate.Before(rec.StartDate) {
			if logger != nil {
				logger.Warn("排程记录日期跨度非法，跳过",
					zap.String("record_id", rec.RecordID),
					zap.Time("start_date", rec.StartDate),
					zap.Time("end_date", rec.EndDate),
				)
			}
			continue
		}

		base := resolveResource(&rec)
		start := startOfDay(rec.StartDate)
		end := endOfDay(rec.EndDate)
		title := eventTitle(base)

		if len(rec.TechnicianIDs) == 0 {
			res := base
			res.TechnicianID = ""
			res.TechnicianName = labelUnassigned
			events = append(events, dto.CalendarEvent{
				Title:    title,
				Start:    start,
				End:      end,
				Color:    ColorFor(""),
				Resource: res,
			})
			continue
		}

		for _, techID := range rec.TechnicianIDs {
			res := base
			res.TechnicianID = techID
			if t, ok := techByID[techID]; ok {
				res.TechnicianName = t.FullName()
			} else {
				res.TechnicianName = labelUnknown
			}
			events = append(events, dto.CalendarEvent{
				Title:    title,
				Start:    start,
				End:      end,
				Color:    ColorFor(techID),
				Resource: res,
			})
		}
	}
	return events
}

// resolveResource 解析记录的展示字段：记录自身优先，报告字段兜底
func resolveResource(rec *model.SchedulingRecord) dto.EventResource {
	res := dto.EventResource{
		RecordID: rec.RecordID,
		Status:   rec.Status,
	}

	job := rec.Job
	if job == nil && rec.Report != nil {
		job = rec.Report.Job
	}
	if job != nil {
		res.JobID = job.JobID
		res.JobCode = job.Code
		res.JobDescription = job.Description
	} else if rec.JobID != nil {
		// 参照集合中无此工单：降级为占位
		res.JobID = *rec.JobID
		res.JobCode = labelUnknown
	}

	client := rec.Client
	if client == nil && job != nil {
		client = job.Client
	}
	if client == nil && rec.Report != nil {
		client = rec.Report.Client
	}
	if client != nil {
		res.ClientName = client.Name
	} else if rec.ClientID != nil {
		res.ClientName = labelUnknown
	}

	if rec.Report != nil {
		res.ReportID = &rec.Report.ReportID
		num := rec.Report.ReportNumber
		res.ReportNumber = &num
	} else if rec.ReportID != nil {
		res.ReportID = rec.ReportID
	}

	return res
}

func eventTitle(res dto.EventResource) string {
	switch {
	case res.JobCode != "" && res.JobCode != labelUnknown && res.ClientName != "" && res.ClientName != labelUnknown:
		return res.JobCode + " — " + res.ClientName
	case res.JobCode != "" && res.JobCode != labelUnknown:
		return res.JobCode
	case res.ClientName != "" && res.ClientName != labelUnknown:
		return res.ClientName
	default:
		return "Intervento"
	}
}

// ════════════════════════════════════════════════════════════
// 日序列与相交判定
// ════════════════════════════════════════════════════════════

// DayRange 展开 [from, to] 闭区间内的天序列（天粒度，升序）
func DayRange(from, to time.Time) []time.Time {
	from = startOfDay(from)
	to = startOfDay(to)
	var days []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// eventCoversDay 事件跨度与某天相交（两端均为闭区间）：
// event.start <= dayEnd && event.end >= dayStart
func eventCoversDay(ev *dto.CalendarEvent, day time.Time) bool {
	dayStart := startOfDay(day)
	dayEnd := endOfDay(day)
	return !ev.Start.After(dayEnd) && !ev.End.Before(dayStart)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// ════════════════════════════════════════════════════════════
// 议程聚合（日 → 工单组 → 时段）
// ════════════════════════════════════════════════════════════

// BuildAgenda 把事件列表聚合为议程结构。
//
// 分组键顺序：日 → 工单（缺失时 "no-job"）→ 时段（来源记录 ID）。
// 组字段首见即定，后续同键事件不覆盖；组内时段保持首见顺序。
// 仅保留至少有一个时段的天（空天由月/周网格渲染层自行补齐）。
func BuildAgenda(events []dto.CalendarEvent, days []time.Time) *dto.AgendaResponse {
	resp := &dto.AgendaResponse{Days: make([]dto.AgendaDay, 0, len(days))}

	for _, day := range days {
		type slotAgg struct {
			slot    dto.AgendaSlot
			techSet map[string]bool
			techs   []string
		}
		type groupAgg struct {
			group dto.AgendaJobGroup
			slots map[string]*slotAgg
			order []string
		}
		groups := make(map[string]*groupAgg)
		var groupOrder []string

		for i := range events {
			ev := &events[i]
			if !eventCoversDay(ev, day) {
				continue
			}

			jobKey := ev.Resource.JobID
			if jobKey == "" {
				jobKey = noJobKey
			}

			g, ok := groups[jobKey]
			if !ok {
				g = &groupAgg{
					group: dto.AgendaJobGroup{
						JobKey:         jobKey,
						JobCode:        ev.Resource.JobCode,
						JobDescription: ev.Resource.JobDescription,
						Color:          ColorFor(ev.Resource.JobID),
					},
					slots: make(map[string]*slotAgg),
				}
				groups[jobKey] = g
				groupOrder = append(groupOrder, jobKey)
			}

			// 时段键 = 来源记录 ID：同记录的多技师事件合并回一个时段
			slotKey := ev.Resource.RecordID
			s, ok := g.slots[slotKey]
			if !ok {
				s = &slotAgg{
					slot: dto.AgendaSlot{
						RecordID:     ev.Resource.RecordID,
						StartDate:    ev.Start.Format(dayKeyLayout),
						EndDate:      ev.End.Format(dayKeyLayout),
						ReportNumber: ev.Resource.ReportNumber,
						Status:       ev.Resource.Status,
						ClientName:   ev.Resource.ClientName,
						Event:        *ev,
					},
					techSet: make(map[string]bool),
				}
				g.slots[slotKey] = s
				g.order = append(g.order, slotKey)
			}
			if !s.techSet[ev.Resource.TechnicianName] {
				s.techSet[ev.Resource.TechnicianName] = true
				s.techs = append(s.techs, ev.Resource.TechnicianName)
			}
		}

		if len(groupOrder) == 0 {
			continue // 空天不进入议程
		}

		dayOut := dto.AgendaDay{Day: day.Format(dayKeyLayout)}
		for _, jobKey := range groupOrder {
			g := groups[jobKey]
			for _, slotKey := range g.order {
				s := g.slots[slotKey]
				s.slot.Technicians = strings.Join(s.techs, ", ")
				g.group.Slots = append(g.group.Slots, s.slot)
			}
			dayOut.Groups = append(dayOut.Groups, g.group)
		}
		resp.Days = append(resp.Days, dayOut)
	}

	return resp
}

// ════════════════════════════════════════════════════════════
// 时间线矩阵（技师 × 日）
// ════════════════════════════════════════════════════════════

// BuildTimeline 把事件列表铺进技师 × 日矩阵。
//
// 每个（技师, 日）单元格先初始化为空列表（空单元格保留）；
// 每条事件追加到其技师行中所有与其跨度相交的日单元格
// （跨多天的事件出现在多个单元格中）。
// 无技师或技师不在给定技师列表中的事件不进入任何单元格。
func BuildTimeline(events []dto.CalendarEvent, technicians []model.Technician, days []time.Time) *dto.TimelineResponse {
	resp := &dto.TimelineResponse{
		Days: make([]string, len(days)),
		Rows: make([]dto.TimelineRow, 0, len(technicians)),
	}
	for i, d := range days {
		resp.Days[i] = d.Format(dayKeyLayout)
	}

	rowIndex := make(map[string]int, len(technicians))
	for _, t := range technicians {
		row := dto.TimelineRow{
			TechnicianID:   t.TechnicianID,
			TechnicianName: t.FullName(),
			Color:          ColorFor(t.TechnicianID),
			Cells:          make([]dto.TimelineCell, len(days)),
		}
		for i, d := range days {
			row.Cells[i] = dto.TimelineCell{
				Day:    d.Format(dayKeyLayout),
				Events: []dto.CalendarEvent{},
			}
		}
		rowIndex[t.TechnicianID] = len(resp.Rows)
		resp.Rows = append(resp.Rows, row)
	}

	for i := range events {
		ev := &events[i]
		idx, ok := rowIndex[ev.Resource.TechnicianID]
		if !ok {
			continue // 未分配或未知技师：不进入矩阵
		}
		for di, d := range days {
			if eventCoversDay(ev, d) {
				cell := &resp.Rows[idx].Cells[di]
				cell.Events = append(cell.Events, *ev)
			}
		}
	}

	return resp
}

// ════════════════════════════════════════════════════════════
// 视图入口
// ════════════════════════════════════════════════════════════

func (s *calendarService) loadWindow(ctx context.Context, from, to time.Time, statuses []string) ([]dto.CalendarEvent, []model.Technician, error) {
	if to.Before(from) {
		return nil, nil, ErrCalendarInvalidWindow
	}
	if len(statuses) == 0 {
		statuses = model.CalendarStatuses
	}

	records, err := s.repo.SchedulingRecord.ListByWindow(ctx, startOfDay(from), endOfDay(to), statuses)
	if err != nil {
		s.logger.Error("查询排程记录失败", zap.Error(err))
		return nil, nil, err
	}

	technicians, err := s.repo.Technician.List(ctx, false)
	if err != nil {
		s.logger.Error("查询技师列表失败", zap.Error(err))
		return nil, nil, err
	}

	return NormalizeEvents(records, technicians, s.logger), technicians, nil
}

func (s *calendarService) Events(ctx context.Context, from, to time.Time, statuses []string) ([]dto.CalendarEvent, error) {
	events, _, err := s.loadWindow(ctx, from, to, statuses)
	return events, err
}

func (s *calendarService) Agenda(ctx context.Context, from, to time.Time) (*dto.AgendaResponse, error) {
	events, _, err := s.loadWindow(ctx, from, to, nil)
	if err != nil {
		return nil, err
	}
	return BuildAgenda(events, DayRange(from, to)), nil
}

func (s *calendarService) Timeline(ctx context.Context, from, to time.Time) (*dto.TimelineResponse, error) {
	events, technicians, err := s.loadWindow(ctx, from, to, nil)
	if err != nil {
		return nil, err
	}
	// 矩阵行只保留在职技师
	active := technicians[:0:0]
	for _, t := range technicians {
		if t.IsActive {
			active = append(active, t)
		}
	}
	return BuildTimeline(events, active, DayRange(from, to)), nil
}

// ════════════════════════════════════════════════════════════
// Relocate — 拖拽迁移
// ════════════════════════════════════════════════════════════
//
// 流程：
//  1. 校验记录与目标技师存在（技师须在职）
//  2. 保持原跨度长度：newEnd = dropDay + (endDate - startDate)
//  3. 乐观锁更新记录：technician_ids = [技师]，start/end 替换
//     （多技师分配在迁移时折叠为单技师 — 既有产品行为，审计日志保留原分配）
//  4. 写迁移审计日志；失败仅告警，不回滚业务更新
//
// 持久化失败时不修改任何内存结构，错误原样上抛，调用方保持原视图并整体重查。

func (s *calendarService) Relocate(ctx context.Context, req *dto.RelocateRequest, operatorID string) (*dto.RelocateResponse, error) {
	day, err := time.Parse(dayKeyLayout, req.Day)
	if err != nil {
		return nil, ErrCalendarInvalidDay
	}

	rec, err := s.repo.SchedulingRecord.GetByID(ctx, req.RecordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCalendarRecordNotFound
		}
		s.logger.Error("查询排程记录失败", zap.Error(err))
		return nil, err
	}

	tech, err := s.repo.Technician.GetByID(ctx, req.TechnicianID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCalendarTechnicianNotFound
		}
		s.logger.Error("查询技师失败", zap.Error(err))
		return nil, err
	}
	if !tech.IsActive {
		return nil, ErrCalendarTechnicianNotFound
	}

	prevTechIDs := append(model.StringArray{}, rec.TechnicianIDs...)
	prevStart := rec.StartDate
	prevEnd := rec.EndDate

	// 原跨度长度（整天数）保持不变；
	// 库中若存在 end < start 的脏数据（绕过服务层写入），按单日处理
	spanDays := int(startOfDay(prevEnd).Sub(startOfDay(prevStart)).Hours() / 24)
	if spanDays < 0 {
		spanDays = 0
	}
	newStart := startOfDay(day)
	newEnd := newStart.AddDate(0, 0, spanDays)

	rec.TechnicianIDs = model.StringArray{req.TechnicianID}
	rec.StartDate = newStart
	rec.EndDate = newEnd
	rec.UpdatedBy = &operatorID

	if err := s.repo.SchedulingRecord.Update(ctx, rec); err != nil {
		s.logger.Error("迁移排程记录失败",
			zap.String("record_id", rec.RecordID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("迁移排程记录失败: %w", err)
	}

	if err := s.repo.RelocationLog.Create(ctx, &model.RelocationLog{
		RecordID:          rec.RecordID,
		PreviousTechIDs:   prevTechIDs,
		NewTechnicianID:   req.TechnicianID,
		PreviousStartDate: prevStart,
		PreviousEndDate:   prevEnd,
		NewStartDate:      newStart,
		NewEndDate:        newEnd,
		OperatorID:        operatorID,
	}); err != nil {
		s.logger.Warn("写入迁移审计日志失败", zap.String("record_id", rec.RecordID), zap.Error(err))
	}

	return &dto.RelocateResponse{Record: *toSchedulingRecordResponse(rec)}, nil
}

func (s *calendarService) ListRelocations(ctx context.Context, page, pageSize int) ([]dto.RelocationLogResponse, int64, error) {
	logs, total, err := s.repo.RelocationLog.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		s.logger.Error("查询迁移日志失败", zap.Error(err))
		return nil, 0, err
	}

	out := make([]dto.RelocationLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.RelocationLogResponse{
			ID:                l.RelocationLogID,
			RecordID:          l.RecordID,
			PreviousTechIDs:   []string(l.PreviousTechIDs),
			NewTechnicianID:   l.NewTechnicianID,
			PreviousStartDate: l.PreviousStartDate.Format(dayKeyLayout),
			PreviousEndDate:   l.PreviousEndDate.Format(dayKeyLayout),
			NewStartDate:      l.NewStartDate.Format(dayKeyLayout),
			NewEndDate:        l.NewEndDate.Format(dayKeyLayout),
			OperatorID:        l.OperatorID,
			CreatedAt:         l.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, total, nil
}
