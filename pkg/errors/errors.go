package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 认证相关错误。
var (
	Unauthorized  = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	Forbidden     = Definition{Code: "FORBIDDEN", Message: "Operation not allowed for this role"}
	InvalidUserID = Definition{Code: "INVALID_USER_ID", Message: "Invalid user ID format"}
)

// 事件模块错误。
var (
	EventNotFound     = Definition{Code: "EVENT_NOT_FOUND", Message: "Event not found"}
	EventNotOwned     = Definition{Code: "EVENT_NOT_OWNED", Message: "Event belongs to another user"}
	EventTitleMissing = Definition{Code: "EVENT_TITLE_MISSING", Message: "Event title is required"}
	// 希伯来历日期不合法：月份超出 1..13、日超出该月天数、或闰月出现在平年
	HebrewDateInvalid   = Definition{Code: "HEBREW_DATE_INVALID", Message: "Hebrew date invalid"}
	HebrewDateMissing   = Definition{Code: "HEBREW_DATE_MISSING", Message: "Hebrew date required when event uses the Hebrew calendar"}
	ReminderRuleInvalid = Definition{Code: "REMINDER_RULE_INVALID", Message: "Reminder rule invalid"}
)

// 偏好设置错误。
var (
	ChannelInvalid     = Definition{Code: "CHANNEL_INVALID", Message: "Notification channel invalid"}
	OffsetInvalid      = Definition{Code: "OFFSET_INVALID", Message: "Reminder offset must be >= 0"}
	DestinationMissing = Definition{Code: "DESTINATION_MISSING", Message: "Channel has no usable destination"}
)

// 通用请求错误。
var (
	TooManyRequests = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests, please retry later"}
)

// 投递相关错误（对应投递失败的四类语义）。
var (
	// 通道凭据/配置缺失：仅该通道的本次投递失败，记入台账
	ChannelNotConfigured = Definition{Code: "CONFIGURATION_ERROR", Message: "Channel provider not configured"}
	// 提供商拒绝或发送失败：记为 failed，当天不再重试
	ChannelSendFailed = Definition{Code: "CHANNEL_ERROR", Message: "Channel provider failed to send"}
	// 事件或用户记录数据不合法：跳过该事件并告警
	EventDataInvalid = Definition{Code: "DATA_ERROR", Message: "Event or user record malformed"}
	// 存储不可用：幂等检查失败时跳过本次尝试，绝不在未检查的情况下发送
	StoreUnavailable = Definition{Code: "STORE_ERROR", Message: "Document store unavailable"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	Unauthorized.Code:         Unauthorized,
	Forbidden.Code:            Forbidden,
	InvalidUserID.Code:        InvalidUserID,
	EventNotFound.Code:        EventNotFound,
	EventNotOwned.Code:        EventNotOwned,
	EventTitleMissing.Code:    EventTitleMissing,
	HebrewDateInvalid.Code:    HebrewDateInvalid,
	HebrewDateMissing.Code:    HebrewDateMissing,
	ReminderRuleInvalid.Code:  ReminderRuleInvalid,
	ChannelInvalid.Code:       ChannelInvalid,
	OffsetInvalid.Code:        OffsetInvalid,
	DestinationMissing.Code:   DestinationMissing,
	TooManyRequests.Code:      TooManyRequests,
	ChannelNotConfigured.Code: ChannelNotConfigured,
	ChannelSendFailed.Code:    ChannelSendFailed,
	EventDataInvalid.Code:     EventDataInvalid,
	StoreUnavailable.Code:     StoreUnavailable,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
