package cache

import (
	"context"
	"time"

	"MazalTov/storage/redis"
)

const (
	// 投递尝试标记，调度器在写账本前先查缓存快速跳过已处理的键
	deliveryAttemptPrefix  = "delivery:attempted"
	messageProcessedPrefix = "message:processed"

	attemptTTL   = 48 * time.Hour
	processedTTL = 48 * time.Hour
)

// DeliveryMarker 把缓存标记暴露成调度器需要的快查接口
type DeliveryMarker struct{}

func (DeliveryMarker) IsAttempted(ctx context.Context, ledgerKey string) (bool, error) {
	return IsDeliveryAttempted(ctx, ledgerKey)
}

func (DeliveryMarker) MarkAttempted(ctx context.Context, ledgerKey string) error {
	return MarkDeliveryAttempted(ctx, ledgerKey)
}

// IsDeliveryAttempted 检查账本键是否已有尝试标记
// 缓存未命中不代表未尝试过，最终仍以数据库账本为准。
func IsDeliveryAttempted(ctx context.Context, ledgerKey string) (bool, error) {
	key := redis.Key(deliveryAttemptPrefix, ledgerKey)
	result, err := redis.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return result > 0, nil
}

// MarkDeliveryAttempted 标记账本键已尝试
func MarkDeliveryAttempted(ctx context.Context, ledgerKey string) error {
	key := redis.Key(deliveryAttemptPrefix, ledgerKey)
	return redis.Client().Set(ctx, key, "1", attemptTTL).Err()
}

// TryMarkMessageProcessing 尝试原子性地标记消息正在处理（使用 SETNX）
// 返回 true 表示成功标记（首次处理），false 表示已被标记（重复消息或正在处理）
func TryMarkMessageProcessing(ctx context.Context, messageID string, ttl time.Duration) (bool, error) {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}

	result, err := redis.Client().SetNX(ctx, key, "processing", ttl).Result()
	if err != nil {
		return false, err
	}
	return result, nil
}

// UnmarkMessageProcessing 取消消息处理标记（处理失败时调用，允许重试）
func UnmarkMessageProcessing(ctx context.Context, messageID string) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	return redis.Client().Del(ctx, key).Err()
}

// MarkMessageProcessed 标记消息已处理（处理成功时调用，延长 TTL）
func MarkMessageProcessed(ctx context.Context, messageID string, ttl time.Duration) error {
	key := redis.Key(messageProcessedPrefix, messageID)
	if ttl <= 0 {
		ttl = processedTTL
	}
	return redis.Client().Set(ctx, key, "completed", ttl).Err()
}
