package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"MazalTov/internal/model"
)

func TestDueOffsetsFallback(t *testing.T) {
	fallback := []int{3, 1, 0}

	// 没有自定义规则时使用槽位默认偏移
	got := DueOffsets(nil, model.TimeSlotMorning, fallback)
	assert.Equal(t, fallback, got)

	got = DueOffsets(model.ReminderRules{}, model.TimeSlotMorning, fallback)
	assert.Equal(t, fallback, got)
}

func TestDueOffsetsCustomRules(t *testing.T) {
	rules := model.ReminderRules{
		{OffsetDays: 0, TimeSlot: model.TimeSlotMorning},
		{OffsetDays: 1, TimeSlot: model.TimeSlotEvening},
	}
	fallback := []int{3, 1, 0}

	// 只取命中当前槽位的偏移
	assert.Equal(t, []int{0}, DueOffsets(rules, model.TimeSlotMorning, fallback))
	assert.Equal(t, []int{1}, DueOffsets(rules, model.TimeSlotEvening, fallback))

	// 有自定义规则但当前槽位无命中：返回空集，不回退默认值
	assert.Empty(t, DueOffsets(rules, model.TimeSlotAfternoon, fallback))
}

func TestDueOffsetsDeduplicates(t *testing.T) {
	rules := model.ReminderRules{
		{OffsetDays: 2, TimeSlot: model.TimeSlotMorning},
		{OffsetDays: 2, TimeSlot: model.TimeSlotMorning},
		{OffsetDays: 5, TimeSlot: model.TimeSlotMorning},
	}

	assert.Equal(t, []int{2, 5}, DueOffsets(rules, model.TimeSlotMorning, nil))
}
