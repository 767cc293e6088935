package schedule

import (
	"time"

	"MazalTov/config"
	"MazalTov/internal/model"
)

// Slot 一个固定的每日调度槽位
type Slot struct {
	Name model.TimeSlot
	At   string // 本地时间 "15:04"
}

// DefaultSlots 按配置返回三个每日槽位
func DefaultSlots(cfg *config.Config) []Slot {
	return []Slot{
		{Name: model.TimeSlotMorning, At: cfg.SlotMorningAt},
		{Name: model.TimeSlotAfternoon, At: cfg.SlotAfternoonAt},
		{Name: model.TimeSlotEvening, At: cfg.SlotEveningAt},
	}
}

// NextRun 返回 now 之后最近的槽位及其触发时间
func NextRun(slots []Slot, now time.Time) (Slot, time.Time) {
	loc := now.Location()

	best := slots[0]
	bestAt := slotTimeOn(now.AddDate(0, 0, 1), slots[0].At, loc)

	for _, slot := range slots {
		at := slotTimeOn(now, slot.At, loc)
		if at.Before(now) || at.Equal(now) {
			at = slotTimeOn(now.AddDate(0, 0, 1), slot.At, loc)
		}
		if at.Before(bestAt) {
			best = slot
			bestAt = at
		}
	}

	return best, bestAt
}

func slotTimeOn(day time.Time, at string, loc *time.Location) time.Time {
	parsed, err := time.Parse("15:04", at)
	if err != nil {
		parsed, _ = time.Parse("15:04", "09:00")
	}
	return time.Date(day.Year(), day.Month(), day.Day(),
		parsed.Hour(), parsed.Minute(), 0, 0, loc)
}

// FallbackOffsets 事件没有自定义规则时使用的槽位默认偏移
// 早间槽默认提前 3 天、1 天、当天各提醒一次；午间与晚间只提醒当天。
// 用户偏好里的 defaultOffsetDays > 0 时替换早间槽的提前量。
func FallbackOffsets(slot model.TimeSlot, defaultOffsetDays int) []int {
	switch slot {
	case model.TimeSlotMorning:
		if defaultOffsetDays > 0 {
			return dedupOffsets([]int{defaultOffsetDays, 1, 0})
		}
		return []int{3, 1, 0}
	case model.TimeSlotAfternoon, model.TimeSlotEvening:
		return []int{0}
	}
	return nil
}

func dedupOffsets(offsets []int) []int {
	seen := make(map[int]bool, len(offsets))
	result := make([]int, 0, len(offsets))
	for _, o := range offsets {
		if seen[o] {
			continue
		}
		seen[o] = true
		result = append(result, o)
	}
	return result
}
