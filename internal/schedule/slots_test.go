package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"MazalTov/internal/model"
)

func testSlots() []Slot {
	return []Slot{
		{Name: model.TimeSlotMorning, At: "09:00"},
		{Name: model.TimeSlotAfternoon, At: "14:00"},
		{Name: model.TimeSlotEvening, At: "19:00"},
	}
}

func TestNextRun(t *testing.T) {
	loc := time.UTC
	slots := testSlots()

	// 早上 8 点，下一个槽位是当天 09:00 的早间槽
	now := time.Date(2024, 6, 12, 8, 0, 0, 0, loc)
	slot, at := NextRun(slots, now)
	assert.Equal(t, model.TimeSlotMorning, slot.Name)
	assert.Equal(t, time.Date(2024, 6, 12, 9, 0, 0, 0, loc), at)

	// 正好 09:00 不算未来，跳到 14:00
	now = time.Date(2024, 6, 12, 9, 0, 0, 0, loc)
	slot, at = NextRun(slots, now)
	assert.Equal(t, model.TimeSlotAfternoon, slot.Name)
	assert.Equal(t, time.Date(2024, 6, 12, 14, 0, 0, 0, loc), at)

	// 晚间槽之后滚动到次日早间槽
	now = time.Date(2024, 6, 12, 20, 30, 0, 0, loc)
	slot, at = NextRun(slots, now)
	assert.Equal(t, model.TimeSlotMorning, slot.Name)
	assert.Equal(t, time.Date(2024, 6, 13, 9, 0, 0, 0, loc), at)
}

func TestFallbackOffsets(t *testing.T) {
	// 早间槽默认提前 3/1/0 天
	assert.Equal(t, []int{3, 1, 0}, FallbackOffsets(model.TimeSlotMorning, 0))

	// 用户偏好替换早间槽的提前量
	assert.Equal(t, []int{7, 1, 0}, FallbackOffsets(model.TimeSlotMorning, 7))

	// 偏好值与默认值重合时去重
	assert.Equal(t, []int{1, 0}, FallbackOffsets(model.TimeSlotMorning, 1))

	// 午间和晚间槽只提醒当天
	assert.Equal(t, []int{0}, FallbackOffsets(model.TimeSlotAfternoon, 5))
	assert.Equal(t, []int{0}, FallbackOffsets(model.TimeSlotEvening, 5))
}
