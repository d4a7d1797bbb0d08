package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"oilsafe-hub/backend/internal/model"
	"oilsafe-hub/backend/internal/repository"
)

// ── ICS 订阅模块业务错误 ──

var ErrICSTechnicianNotFound = errors.New("技师不存在")

const icsProdID = "-//oilsafe-hub//planning//IT"

// ICSService 技师日历订阅业务接口
//
// 设计说明：
//   - 输出标准 iCalendar (RFC 5545)，供外部日历应用订阅
//   - 排程为天粒度：VEVENT 以全天事件表示，DTEND 按惯例取跨度末日 +1（闭开区间）
//   - UID 取 记录ID@技师ID：同一记录对不同技师的订阅互不冲突
type ICSService interface {
	// TechnicianCalendar 导出某技师 [from, to] 窗口内的排程为 ICS
	// 返回值：content（ICS 文本）, filename（建议文件名）, error
	TechnicianCalendar(ctx context.Context, technicianID string, from, to time.Time) (string, string, error)
}

type icsService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewICSService 创建 ICSService 实例
func NewICSService(repo *repository.Repository, logger *zap.Logger) ICSService {
	return &icsService{repo: repo, logger: logger}
}

func (s *icsService) TechnicianCalendar(ctx context.Context, technicianID string, from, to time.Time) (string, string, error) {
	if to.Before(from) {
		return "", "", ErrCalendarInvalidWindow
	}

	tech, err := s.repo.Technician.GetByID(ctx, technicianID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrICSTechnicianNotFound
		}
		s.logger.Error("查询技师失败", zap.String("id", technicianID), zap.Error(err))
		return "", "", err
	}

	records, err := s.repo.SchedulingRecord.ListByWindow(ctx, startOfDay(from), endOfDay(to), model.CalendarStatuses)
	if err != nil {
		s.logger.Error("查询排程记录失败", zap.Error(err))
		return "", "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProdID)
	cal.SetXWRCalName(fmt.Sprintf("Pianificazione %s", tech.FullName()))

	now := time.Now()
	for i := range records {
		rec := &records[i]
		if !assignedTo(rec, technicianID) {
			continue
		}
		if rec.StartDate.IsZero() || rec.EndDate.IsZero() || rec.EndDate.Before(rec.StartDate) {
			continue
		}

		res := resolveResource(rec)

		evt := cal.AddEvent(fmt.Sprintf("%s@%s", rec.RecordID, technicianID))
		evt.SetDtStampTime(now)
		evt.SetAllDayStartAt(startOfDay(rec.StartDate))
		// 全天事件 DTEND 为闭开区间：末日的次日
		evt.SetAllDayEndAt(startOfDay(rec.EndDate).AddDate(0, 0, 1))
		evt.SetSummary(eventTitle(res))
		if rec.Notes != "" {
			evt.SetDescription(rec.Notes)
		}
		if res.ClientName != "" && res.ClientName != labelUnknown {
			evt.SetLocation(res.ClientName)
		}
		switch rec.Status {
		case model.SchedulingStatusPlanned:
			evt.SetStatus(ics.ObjectStatusTentative)
		default:
			evt.SetStatus(ics.ObjectStatusConfirmed)
		}
	}

	filename := fmt.Sprintf("planning_%s_%s.ics", tech.Surname, tech.Name)
	return cal.Serialize(), filename, nil
}

// assignedTo 记录是否分配给指定技师
func assignedTo(rec *model.SchedulingRecord, technicianID string) bool {
	for _, id := range rec.TechnicianIDs {
		if id == technicianID {
			return true
		}
	}
	return false
}
