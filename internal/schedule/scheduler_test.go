package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"MazalTov/internal/model"
	"MazalTov/internal/repository"
	"MazalTov/internal/service"
	"MazalTov/pkg/chat"
	"MazalTov/pkg/email"
	"MazalTov/pkg/sms"
)

// ---- 内存假仓储，调度器测试不依赖数据库 ----

type fakeEventRepo struct {
	events []*model.Event
}

func (f *fakeEventRepo) Create(ctx context.Context, event *model.Event) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEventRepo) GetByPublicID(ctx context.Context, publicID int64) (*model.Event, error) {
	for _, e := range f.events {
		if e.PublicID == publicID {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEventRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*model.Event, error) {
	var out []*model.Event
	for _, e := range f.events {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) ListEnabled(ctx context.Context) ([]*model.Event, error) {
	var out []*model.Event
	for _, e := range f.events {
		if e.RemindersEnabled {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, event *model.Event) error { return nil }
func (f *fakeEventRepo) Delete(ctx context.Context, publicID int64) error     { return nil }

type fakeUserRepo struct {
	users map[int64]*model.User
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByExternalID(ctx context.Context, externalID string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetOrCreateByExternalID(ctx context.Context, externalID string, publicID int64) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, user *model.User) error { return nil }

// memLedger 内存版幂等账本，Claim 语义与数据库实现一致
type memLedger struct {
	mu      sync.Mutex
	entries map[string]*model.DeliveryLog

	failExists bool
}

func newMemLedger() *memLedger {
	return &memLedger{entries: make(map[string]*model.DeliveryLog)}
}

func (l *memLedger) Exists(ctx context.Context, key string) (bool, error) {
	if l.failExists {
		return false, errors.New("ledger store down")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.entries[key]
	return ok, nil
}

func (l *memLedger) Claim(ctx context.Context, entry *model.DeliveryLog) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[entry.LedgerKey]; ok {
		return false, nil
	}
	entry.Status = model.DeliveryStatusPending
	l.entries[entry.LedgerKey] = entry
	return true, nil
}

func (l *memLedger) Finalize(ctx context.Context, key string, status model.DeliveryStatus, resultID, errorText string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if entry, ok := l.entries[key]; ok {
		entry.Status = status
		entry.ResultID = resultID
		entry.ErrorText = errorText
	}
	return nil
}

func (l *memLedger) ListByEvent(ctx context.Context, eventID int64, limit int) ([]*model.DeliveryLog, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*model.DeliveryLog
	for _, entry := range l.entries {
		if entry.EventID == eventID {
			out = append(out, entry)
		}
	}
	return out, nil
}

// ---- 测试装配 ----

type schedulerFixture struct {
	events    *fakeEventRepo
	users     *fakeUserRepo
	ledger    *memLedger
	chatMock  *chat.MockClient
	smsMock   *sms.MockClient
	emailMock *email.MockClient
	scheduler *ReminderScheduler
}

// newFixture 用同步投递出口组装调度器：调度即发送，账本由投递服务占位
func newFixture(t *testing.T, now time.Time) *schedulerFixture {
	t.Helper()

	events := &fakeEventRepo{}
	users := &fakeUserRepo{users: make(map[int64]*model.User)}
	ledger := newMemLedger()

	chatMock := chat.NewMockClient()
	smsMock := sms.NewMockClient()
	emailMock := email.NewMockClient()

	notify := service.NewNotifyService(chatMock, smsMock, emailMock, ledger, zap.NewNop())

	scheduler := NewReminderScheduler(
		events, users, ledger, nil, notify,
		time.UTC, func() time.Time { return now }, zap.NewNop(),
	)

	return &schedulerFixture{
		events:    events,
		users:     users,
		ledger:    ledger,
		chatMock:  chatMock,
		smsMock:   smsMock,
		emailMock: emailMock,
		scheduler: scheduler,
	}
}

func (f *schedulerFixture) addUser(u *model.User) {
	f.users.users[u.ID] = u
}

func TestRunSlotDispatchesAndIsIdempotent(t *testing.T) {
	now := time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC)
	f := newFixture(t, now)

	f.addUser(&model.User{
		BaseModel:            model.BaseModel{ID: 1},
		PublicID:             101,
		NotificationChannels: model.NotificationChannels{model.ChannelChat},
		ChatHandle:           "12345",
	})
	f.events.events = append(f.events.events, &model.Event{
		PublicID:         1001,
		OwnerID:          1,
		Title:            "Mom's birthday",
		ReferenceDate:    time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
		IsRecurring:      true,
		RemindersEnabled: true,
	})

	// 2024-06-15 距今 3 天，命中早间槽默认偏移
	require.NoError(t, f.scheduler.RunSlot(context.Background(), model.TimeSlotMorning))
	require.Len(t, f.chatMock.Calls, 1)
	assert.Equal(t, "12345", f.chatMock.Calls[0].Recipient)
	assert.Contains(t, f.chatMock.Calls[0].Body, "Mom's birthday")

	key := repository.LedgerKey(1001, 3, model.TimeSlotMorning, model.ChannelChat, "2024-06-12")
	entry, ok := f.ledger.entries[key]
	require.True(t, ok, "ledger entry should exist under the five-part key")
	assert.Equal(t, model.DeliveryStatusSent, entry.Status)
	assert.Equal(t, "mock-chat-id", entry.ResultID)

	// 同一槽位再跑一次：账本命中，不再发送
	require.NoError(t, f.scheduler.RunSlot(context.Background(), model.TimeSlotMorning))
	assert.Len(t, f.chatMock.Calls, 1)
	assert.Len(t, f.ledger.entries, 1)
}

func TestRunSlotSkipsChannelsWithoutDestination(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	f := newFixture(t, now)

	// 偏好里有 chat 和 sms 两个渠道，但只配置了 chat 地址
	f.addUser(&model.User{
		BaseModel:            model.BaseModel{ID: 1},
		PublicID:             101,
		NotificationChannels: model.NotificationChannels{model.ChannelChat, model.ChannelSMS},
		ChatHandle:           "12345",
	})
	f.events.events = append(f.events.events, &model.Event{
		PublicID:         1001,
		OwnerID:          1,
		Title:            "Anniversary",
		ReferenceDate:    time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
		IsRecurring:      true,
		RemindersEnabled: true,
	})

	require.NoError(t, f.scheduler.RunSlot(context.Background(), model.TimeSlotMorning))

	assert.Len(t, f.chatMock.Calls, 1)
	assert.Empty(t, f.smsMock.Calls)

	// 没有地址的渠道不占账本
	smsKey := repository.LedgerKey(1001, 0, model.TimeSlotMorning, model.ChannelSMS, "2024-06-15")
	_, ok := f.ledger.entries[smsKey]
	assert.False(t, ok)
}

func TestRunSlotChannelFailureIsTerminal(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	f := newFixture(t, now)

	f.addUser(&model.User{
		BaseModel:            model.BaseModel{ID: 1},
		PublicID:             101,
		NotificationChannels: model.NotificationChannels{model.ChannelChat},
		ChatHandle:           "12345",
	})
	f.events.events = append(f.events.events,
		&model.Event{
			PublicID:         1001,
			OwnerID:          1,
			Title:            "Anniversary",
			ReferenceDate:    time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
			IsRecurring:      true,
			RemindersEnabled: true,
		},
		&model.Event{
			PublicID:         1002,
			OwnerID:          1,
			Title:            "Graduation",
			ReferenceDate:    time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
			IsRecurring:      true,
			RemindersEnabled: true,
		},
	)

	// 第一个事件发送失败，但不中断整次运行
	f.chatMock.FailNext = true
	require.NoError(t, f.scheduler.RunSlot(context.Background(), model.TimeSlotMorning))
	assert.Len(t, f.chatMock.Calls, 2)

	failedKey := repository.LedgerKey(1001, 0, model.TimeSlotMorning, model.ChannelChat, "2024-06-15")
	entry, ok := f.ledger.entries[failedKey]
	require.True(t, ok)
	assert.Equal(t, model.DeliveryStatusFailed, entry.Status)
	assert.NotEmpty(t, entry.ErrorText)

	sentKey := repository.LedgerKey(1002, 0, model.TimeSlotMorning, model.ChannelChat, "2024-06-15")
	entry, ok = f.ledger.entries[sentKey]
	require.True(t, ok)
	assert.Equal(t, model.DeliveryStatusSent, entry.Status)

	// failed 也是终态：再跑一次不会重发
	require.NoError(t, f.scheduler.RunSlot(context.Background(), model.TimeSlotMorning))
	assert.Len(t, f.chatMock.Calls, 2)
}

func TestRunSlotStoreErrorNeverSendsUnchecked(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	f := newFixture(t, now)

	f.addUser(&model.User{
		BaseModel:            model.BaseModel{ID: 1},
		PublicID:             101,
		NotificationChannels: model.NotificationChannels{model.ChannelChat},
		ChatHandle:           "12345",
	})
	f.events.events = append(f.events.events, &model.Event{
		PublicID:         1001,
		OwnerID:          1,
		Title:            "Anniversary",
		ReferenceDate:    time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
		IsRecurring:      true,
		RemindersEnabled: true,
	})

	// 账本不可用：跳过本次尝试，绝不在未检查的情况下发送
	f.ledger.failExists = true
	require.NoError(t, f.scheduler.RunSlot(context.Background(), model.TimeSlotMorning))
	assert.Empty(t, f.chatMock.Calls)
}

func TestRunSlotCustomRulesNoSlotMatch(t *testing.T) {
	now := time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC)
	f := newFixture(t, now)

	f.addUser(&model.User{
		BaseModel:            model.BaseModel{ID: 1},
		PublicID:             101,
		NotificationChannels: model.NotificationChannels{model.ChannelChat},
		ChatHandle:           "12345",
	})
	f.events.events = append(f.events.events, &model.Event{
		PublicID:         1001,
		OwnerID:          1,
		Title:            "Anniversary",
		ReferenceDate:    time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
		IsRecurring:      true,
		RemindersEnabled: true,
		ReminderRules: model.ReminderRules{
			{OffsetDays: 0, TimeSlot: model.TimeSlotMorning},
		},
	})

	// 自定义规则只写了早间槽：午间槽无命中且不回退默认偏移
	require.NoError(t, f.scheduler.RunSlot(context.Background(), model.TimeSlotAfternoon))
	assert.Empty(t, f.chatMock.Calls)
	assert.Empty(t, f.ledger.entries)
}

func TestRunSlotMissingOwnerIsSkipped(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	f := newFixture(t, now)

	f.events.events = append(f.events.events, &model.Event{
		PublicID:         1001,
		OwnerID:          42, // 不存在的用户
		Title:            "Orphan event",
		ReferenceDate:    time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC),
		IsRecurring:      true,
		RemindersEnabled: true,
	})

	require.NoError(t, f.scheduler.RunSlot(context.Background(), model.TimeSlotMorning))
	assert.Empty(t, f.chatMock.Calls)
	assert.Empty(t, f.ledger.entries)
}
