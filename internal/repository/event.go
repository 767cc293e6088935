package repository

import (
	"context"

	"gorm.io/gorm"

	"MazalTov/internal/model"
)

// EventRepository 事件存取接口
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByPublicID(ctx context.Context, publicID int64) (*model.Event, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*model.Event, error)
	// ListEnabled 全表扫描启用提醒的事件，调度器每个槽位调用一次
	ListEnabled(ctx context.Context) ([]*model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, publicID int64) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) GetByPublicID(ctx context.Context, publicID int64) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*model.Event, error) {
	var events []*model.Event
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("reference_date ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepository) ListEnabled(ctx context.Context) ([]*model.Event, error) {
	var events []*model.Event
	err := r.db.WithContext(ctx).
		Where("reminders_enabled = ?", true).
		Find(&events).Error
	return events, err
}

func (r *eventRepository) Update(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *eventRepository) Delete(ctx context.Context, publicID int64) error {
	return r.db.WithContext(ctx).Where("public_id = ?", publicID).Delete(&model.Event{}).Error
}
