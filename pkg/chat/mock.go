package chat

import (
	"context"
	"errors"
	"sync"
)

type MockCall struct {
	Recipient string
	Body      string
}

// MockClient 可配置的聊天客户端 mock，实现 Client 接口
type MockClient struct {
	mu    sync.Mutex
	Calls []MockCall

	FailNext bool
}

func NewMockClient() *MockClient {
	return &MockClient{
		Calls: make([]MockCall, 0),
	}
}

func (m *MockClient) Send(ctx context.Context, recipient, body string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{Recipient: recipient, Body: body})

	if m.FailNext {
		m.FailNext = false
		return "", errors.New("mock chat send failure")
	}

	return "mock-chat-id", nil
}
