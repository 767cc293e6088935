package schedule

import (
	"MazalTov/internal/model"
)

// DueOffsets 返回当前槽位应触发的偏移集合，纯函数
// 事件配置了自定义规则时只看规则：规则里没有匹配当前槽位的条目就返回空集，
// 不回退到默认偏移。只有规则为空的事件才使用槽位默认偏移。
func DueOffsets(rules model.ReminderRules, slot model.TimeSlot, fallback []int) []int {
	if len(rules) == 0 {
		return fallback
	}

	seen := make(map[int]bool)
	due := make([]int, 0, len(rules))
	for _, rule := range rules {
		if rule.TimeSlot != slot || rule.OffsetDays < 0 {
			continue
		}
		if seen[rule.OffsetDays] {
			continue
		}
		seen[rule.OffsetDays] = true
		due = append(due, rule.OffsetDays)
	}

	return due
}

func containsOffset(offsets []int, n int) bool {
	for _, o := range offsets {
		if o == n {
			return true
		}
	}
	return false
}
