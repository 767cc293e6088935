package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"MazalTov/internal/model"
	"MazalTov/internal/model/dto"
	"MazalTov/internal/occurrence"
	"MazalTov/internal/repository"
	"MazalTov/pkg/errors"
	"MazalTov/pkg/hebcal"
	"MazalTov/pkg/snowflake"

	stderrors "errors"
)

// EventService 事件 CRUD 服务，事件归属校验在这里做
type EventService struct {
	events repository.EventRepository
	ledger repository.DeliveryLedger
	loc    *time.Location
	logger *zap.Logger
}

func NewEventService(
	events repository.EventRepository,
	ledger repository.DeliveryLedger,
	loc *time.Location,
	logger *zap.Logger,
) *EventService {
	return &EventService{
		events: events,
		ledger: ledger,
		loc:    loc,
		logger: logger,
	}
}

func (s *EventService) Create(ctx context.Context, owner *model.User, req *dto.CreateEventRequest) (*dto.EventItem, error) {
	if req.Title == "" {
		return nil, errors.EventTitleMissing
	}

	event := &model.Event{
		OwnerID:          owner.ID,
		Title:            req.Title,
		Notes:            req.Notes,
		UsesHebrewCal:    req.UsesHebrewCal,
		IsRecurring:      true,
		RemindersEnabled: true,
	}

	if req.IsRecurring != nil {
		event.IsRecurring = *req.IsRecurring
	}
	if req.RemindersEnabled != nil {
		event.RemindersEnabled = *req.RemindersEnabled
	}

	if req.ReferenceDate != "" {
		refDate, err := time.ParseInLocation("2006-01-02", req.ReferenceDate, s.loc)
		if err != nil {
			return nil, errors.EventDataInvalid
		}
		event.ReferenceDate = refDate
	}

	if req.UsesHebrewCal {
		hd, err := s.buildHebrewDate(req.HebrewDate)
		if err != nil {
			return nil, err
		}
		event.HebrewDate = hd
		// 公历字段保留一份派生副本，方便列表展示
		if event.ReferenceDate.IsZero() {
			event.ReferenceDate = hebcal.ToGregorian(hd.Date, s.loc)
		}
	} else if event.ReferenceDate.IsZero() {
		return nil, errors.EventDataInvalid
	}

	rules, err := parseRules(req.ReminderRules)
	if err != nil {
		return nil, err
	}
	event.ReminderRules = rules

	publicID, err := snowflake.NextID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate event id: %w", err)
	}
	event.PublicID = publicID

	if err := s.events.Create(ctx, event); err != nil {
		s.logger.Error("Failed to create event", zap.Error(err))
		return nil, err
	}

	item := s.toItem(event, time.Now().In(s.loc))
	return &item, nil
}

func (s *EventService) List(ctx context.Context, owner *model.User) (*dto.EventListData, error) {
	events, err := s.events.ListByOwner(ctx, owner.ID)
	if err != nil {
		return nil, err
	}

	now := time.Now().In(s.loc)
	items := make([]dto.EventItem, 0, len(events))
	for _, event := range events {
		items = append(items, s.toItem(event, now))
	}

	return &dto.EventListData{Events: items, Total: len(items)}, nil
}

func (s *EventService) Get(ctx context.Context, owner *model.User, eventID int64) (*dto.EventItem, error) {
	event, err := s.getOwned(ctx, owner, eventID)
	if err != nil {
		return nil, err
	}

	item := s.toItem(event, time.Now().In(s.loc))
	return &item, nil
}

func (s *EventService) Update(ctx context.Context, owner *model.User, eventID int64, req *dto.UpdateEventRequest) (*dto.EventItem, error) {
	event, err := s.getOwned(ctx, owner, eventID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		if *req.Title == "" {
			return nil, errors.EventTitleMissing
		}
		event.Title = *req.Title
	}
	if req.Notes != nil {
		event.Notes = *req.Notes
	}
	if req.ReferenceDate != nil {
		refDate, err := time.ParseInLocation("2006-01-02", *req.ReferenceDate, s.loc)
		if err != nil {
			return nil, errors.EventDataInvalid
		}
		event.ReferenceDate = refDate
	}
	if req.UsesHebrewCal != nil {
		event.UsesHebrewCal = *req.UsesHebrewCal
	}
	if req.HebrewDate != nil {
		hd, err := s.buildHebrewDate(req.HebrewDate)
		if err != nil {
			return nil, err
		}
		event.HebrewDate = hd
	}
	if event.UsesHebrewCal && event.HebrewDate == nil {
		return nil, errors.HebrewDateMissing
	}
	if req.IsRecurring != nil {
		event.IsRecurring = *req.IsRecurring
	}
	if req.RemindersEnabled != nil {
		event.RemindersEnabled = *req.RemindersEnabled
	}
	if req.ReminderRules != nil {
		rules, err := parseRules(*req.ReminderRules)
		if err != nil {
			return nil, err
		}
		event.ReminderRules = rules
	}

	if err := s.events.Update(ctx, event); err != nil {
		s.logger.Error("Failed to update event", zap.Int64("event_id", eventID), zap.Error(err))
		return nil, err
	}

	item := s.toItem(event, time.Now().In(s.loc))
	return &item, nil
}

func (s *EventService) Delete(ctx context.Context, owner *model.User, eventID int64) error {
	event, err := s.getOwned(ctx, owner, eventID)
	if err != nil {
		return err
	}

	return s.events.Delete(ctx, event.PublicID)
}

// ListDeliveries 查询事件的投递账本（审计用途）
func (s *EventService) ListDeliveries(ctx context.Context, owner *model.User, eventID int64, limit int) (*dto.DeliveryListData, error) {
	event, err := s.getOwned(ctx, owner, eventID)
	if err != nil {
		return nil, err
	}

	logs, err := s.ledger.ListByEvent(ctx, event.PublicID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.DeliveryItem, 0, len(logs))
	for _, log := range logs {
		item := dto.DeliveryItem{
			LedgerKey:  log.LedgerKey,
			OffsetDays: log.OffsetDays,
			TimeSlot:   string(log.TimeSlot),
			Channel:    string(log.Channel),
			RunDate:    log.RunDate,
			Status:     string(log.Status),
			Message:    log.Message,
			ResultID:   log.ResultID,
			ErrorText:  log.ErrorText,
		}
		if log.SentAt != nil {
			item.SentAt = log.SentAt.Format(time.RFC3339)
		}
		items = append(items, item)
	}

	return &dto.DeliveryListData{Deliveries: items, Total: len(items)}, nil
}

func (s *EventService) getOwned(ctx context.Context, owner *model.User, eventID int64) (*model.Event, error) {
	event, err := s.events.GetByPublicID(ctx, eventID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.EventNotFound
		}
		return nil, err
	}
	if event.OwnerID != owner.ID {
		return nil, errors.EventNotOwned
	}
	return event, nil
}

// buildHebrewDate 校验并构造希伯来历日期
// year 为 0 表示年度循环事件，只校验 day/month 的静态范围。
func (s *EventService) buildHebrewDate(in *dto.HebrewDateDTO) (*model.HebrewDate, error) {
	if in == nil {
		return nil, errors.HebrewDateMissing
	}

	m := hebcal.Month(in.Month)
	if m < hebcal.Nisan || m > hebcal.AdarII {
		return nil, errors.HebrewDateInvalid
	}

	if in.Year != 0 {
		if !hebcal.Valid(in.Day, m, in.Year) {
			return nil, errors.HebrewDateInvalid
		}
	} else if in.Day < 1 || in.Day > 30 {
		return nil, errors.HebrewDateInvalid
	}

	hd := &model.HebrewDate{Date: hebcal.Date{
		Day:        in.Day,
		Month:      m,
		Year:       in.Year,
		IsLeapYear: hebcal.IsLeapYear(in.Year),
	}}
	hd.Date.MonthName = hebcal.MonthName(m, in.Year)
	return hd, nil
}

func parseRules(in []dto.ReminderRuleDTO) (model.ReminderRules, error) {
	rules := make(model.ReminderRules, 0, len(in))
	for _, r := range in {
		slot := model.TimeSlot(r.TimeSlot)
		if !slot.Valid() || r.OffsetDays < 0 {
			return nil, errors.ReminderRuleInvalid
		}
		rules = append(rules, model.ReminderRule{OffsetDays: r.OffsetDays, TimeSlot: slot})
	}
	return rules, nil
}

func (s *EventService) toItem(event *model.Event, now time.Time) dto.EventItem {
	item := dto.EventItem{
		ID:               strconv.FormatInt(event.PublicID, 10),
		Title:            event.Title,
		Notes:            event.Notes,
		UsesHebrewCal:    event.UsesHebrewCal,
		IsRecurring:      event.IsRecurring,
		RemindersEnabled: event.RemindersEnabled,
		ReminderRules:    make([]dto.ReminderRuleDTO, 0, len(event.ReminderRules)),
	}

	if !event.ReferenceDate.IsZero() {
		item.ReferenceDate = event.ReferenceDate.Format("2006-01-02")
	}

	for _, rule := range event.ReminderRules {
		item.ReminderRules = append(item.ReminderRules, dto.ReminderRuleDTO{
			OffsetDays: rule.OffsetDays,
			TimeSlot:   string(rule.TimeSlot),
		})
	}

	if event.HebrewDate != nil {
		item.HebrewDate = &dto.HebrewDateView{
			Day:        event.HebrewDate.Day,
			Month:      int(event.HebrewDate.Month),
			Year:       event.HebrewDate.Year,
			MonthName:  event.HebrewDate.MonthName,
			IsLeapYear: event.HebrewDate.IsLeapYear,
		}
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	daysUntil, err := occurrence.DaysUntil(event, today)
	if err == nil {
		item.DaysUntil = daysUntil
		item.NextOccurrence = today.AddDate(0, 0, daysUntil).Format("2006-01-02")
	}

	return item
}
