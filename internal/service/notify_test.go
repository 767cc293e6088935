package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"MazalTov/internal/model"
	"MazalTov/pkg/chat"
	"MazalTov/pkg/email"
	pkgerrors "MazalTov/pkg/errors"
	"MazalTov/pkg/sms"
)

// fakeLedger 内存账本，Claim 语义与数据库实现一致
type fakeLedger struct {
	mu      sync.Mutex
	entries map[string]*model.DeliveryLog

	failClaim bool
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{entries: make(map[string]*model.DeliveryLog)}
}

func (l *fakeLedger) Exists(ctx context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.entries[key]
	return ok, nil
}

func (l *fakeLedger) Claim(ctx context.Context, entry *model.DeliveryLog) (bool, error) {
	if l.failClaim {
		return false, errors.New("ledger store down")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.entries[entry.LedgerKey]; ok {
		return false, nil
	}
	entry.Status = model.DeliveryStatusPending
	l.entries[entry.LedgerKey] = entry
	return true, nil
}

func (l *fakeLedger) Finalize(ctx context.Context, key string, status model.DeliveryStatus, resultID, errorText string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if entry, ok := l.entries[key]; ok {
		entry.Status = status
		entry.ResultID = resultID
		entry.ErrorText = errorText
	}
	return nil
}

func (l *fakeLedger) ListByEvent(ctx context.Context, eventID int64, limit int) ([]*model.DeliveryLog, error) {
	return nil, nil
}

func testTask(key string, channel model.Channel) *model.DeliveryTaskMessage {
	return &model.DeliveryTaskMessage{
		MessageID:   "dlv_test",
		LedgerKey:   key,
		EventID:     1001,
		OwnerID:     101,
		EventTitle:  "Anniversary",
		Channel:     channel,
		Destination: "12345",
		Subject:     "Today: Anniversary",
		Body:        "Anniversary is today!",
		OffsetDays:  0,
		TimeSlot:    model.TimeSlotMorning,
		RunDate:     "2024-06-15",
	}
}

func TestDeliverTaskSuccess(t *testing.T) {
	ledger := newFakeLedger()
	chatMock := chat.NewMockClient()
	svc := NewNotifyService(chatMock, sms.NewMockClient(), email.NewMockClient(), ledger, zap.NewNop())

	err := svc.DeliverTask(context.Background(), testTask("k1", model.ChannelChat))
	require.NoError(t, err)
	require.Len(t, chatMock.Calls, 1)

	entry := ledger.entries["k1"]
	require.NotNil(t, entry)
	assert.Equal(t, model.DeliveryStatusSent, entry.Status)
	assert.Equal(t, "mock-chat-id", entry.ResultID)
}

func TestDeliverTaskClaimLostDropsTask(t *testing.T) {
	ledger := newFakeLedger()
	chatMock := chat.NewMockClient()
	svc := NewNotifyService(chatMock, sms.NewMockClient(), email.NewMockClient(), ledger, zap.NewNop())

	// 键已被另一次运行占位
	ledger.entries["k1"] = &model.DeliveryLog{LedgerKey: "k1", Status: model.DeliveryStatusSent}

	err := svc.DeliverTask(context.Background(), testTask("k1", model.ChannelChat))
	require.NoError(t, err)
	assert.Empty(t, chatMock.Calls)
}

func TestDeliverTaskChannelFailureIsTerminal(t *testing.T) {
	ledger := newFakeLedger()
	chatMock := chat.NewMockClient()
	chatMock.FailNext = true
	svc := NewNotifyService(chatMock, sms.NewMockClient(), email.NewMockClient(), ledger, zap.NewNop())

	// 通道失败记为 failed 终态，返回 nil 让消费者 Ack
	err := svc.DeliverTask(context.Background(), testTask("k1", model.ChannelChat))
	require.NoError(t, err)

	entry := ledger.entries["k1"]
	require.NotNil(t, entry)
	assert.Equal(t, model.DeliveryStatusFailed, entry.Status)
	assert.NotEmpty(t, entry.ErrorText)
}

func TestDeliverTaskUnconfiguredChannel(t *testing.T) {
	ledger := newFakeLedger()
	svc := NewNotifyService(nil, nil, nil, ledger, zap.NewNop())

	err := svc.DeliverTask(context.Background(), testTask("k1", model.ChannelSMS))
	require.NoError(t, err)

	entry := ledger.entries["k1"]
	require.NotNil(t, entry)
	assert.Equal(t, model.DeliveryStatusFailed, entry.Status)
	assert.Contains(t, entry.ErrorText, pkgerrors.ChannelNotConfigured.Message)
}

func TestDeliverTaskStoreErrorPropagates(t *testing.T) {
	ledger := newFakeLedger()
	ledger.failClaim = true
	chatMock := chat.NewMockClient()
	svc := NewNotifyService(chatMock, sms.NewMockClient(), email.NewMockClient(), ledger, zap.NewNop())

	// 存储错误向上返回，消费者 Nack 重新入队；绝不在未占位的情况下发送
	err := svc.DeliverTask(context.Background(), testTask("k1", model.ChannelChat))
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.StoreUnavailable))
	assert.Empty(t, chatMock.Calls)
}

func TestSendDirectInvalidChannel(t *testing.T) {
	svc := NewNotifyService(chat.NewMockClient(), sms.NewMockClient(), email.NewMockClient(), newFakeLedger(), zap.NewNop())

	_, err := svc.SendDirect(context.Background(), model.Channel("pigeon"), "dest", "", "hello")
	assert.True(t, errors.Is(err, pkgerrors.ChannelInvalid))
}

func TestSendDirectEmailUsesSubject(t *testing.T) {
	emailMock := email.NewMockClient()
	svc := NewNotifyService(nil, nil, emailMock, newFakeLedger(), zap.NewNop())

	resultID, err := svc.SendDirect(context.Background(), model.ChannelEmail, "a@b.example", "Today: Seder", "Seder is today!")
	require.NoError(t, err)
	assert.Equal(t, "mock-email-id", resultID)
	require.Len(t, emailMock.Calls, 1)
	assert.Equal(t, "Today: Seder", emailMock.Calls[0].Subject)
	assert.Equal(t, "Seder is today!", emailMock.Calls[0].TextBody)
}
