package email

import (
	"context"
	"errors"
	"sync"
)

type MockCall struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// MockClient 可配置的邮件客户端 mock，实现 Client 接口
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

func (m *MockClient) Send(ctx context.Context, to, subject, htmlBody, textBody string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, MockCall{To: to, Subject: subject, HTMLBody: htmlBody, TextBody: textBody})

	if m.FailNext {
		m.FailNext = false
		return "", errors.New("mock email send failure")
	}

	return "mock-email-id", nil
}
