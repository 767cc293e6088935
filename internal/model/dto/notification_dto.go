package dto

// ========== Notification 相关 DTO ==========

// TestSendRequest 手动测试发送请求
type TestSendRequest struct {
	Destination string `json:"destination" binding:"required"`
	Message     string `json:"message" binding:"required"`
	Channel     string `json:"channel"` // 默认 chat
	Subject     string `json:"subject"` // 仅 email 渠道使用
}

// TestSendData 手动测试发送响应
type TestSendData struct {
	Success  bool   `json:"success"`
	Channel  string `json:"channel"`
	ResultID string `json:"result_id"`
}
