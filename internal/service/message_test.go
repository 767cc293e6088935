package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"MazalTov/internal/model"
)

func TestComposeMessage(t *testing.T) {
	tests := []struct {
		name      string
		daysUntil int
		slot      model.TimeSlot
		want      string
	}{
		{
			name:      "three days ahead",
			daysUntil: 3,
			slot:      model.TimeSlotMorning,
			want:      "Heads up! Mom's birthday is coming up in 3 days.",
		},
		{
			name:      "tomorrow",
			daysUntil: 1,
			slot:      model.TimeSlotMorning,
			want:      "Reminder: Mom's birthday is tomorrow!",
		},
		{
			name:      "today morning",
			daysUntil: 0,
			slot:      model.TimeSlotMorning,
			want:      "Good morning! Mom's birthday is today. Have a wonderful celebration!",
		},
		{
			name:      "today afternoon",
			daysUntil: 0,
			slot:      model.TimeSlotAfternoon,
			want:      "Friendly afternoon reminder: Mom's birthday is today.",
		},
		{
			name:      "today evening",
			daysUntil: 0,
			slot:      model.TimeSlotEvening,
			want:      "Evening reminder: Mom's birthday is today. Don't let the day slip by!",
		},
		{
			name:      "custom offset",
			daysUntil: 7,
			slot:      model.TimeSlotMorning,
			want:      "Reminder: Mom's birthday is in 7 days.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComposeMessage("Mom's birthday", tt.daysUntil, tt.slot)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComposeSubject(t *testing.T) {
	assert.Equal(t, "Today: Seder", ComposeSubject("Seder", 0))
	assert.Equal(t, "Tomorrow: Seder", ComposeSubject("Seder", 1))
	assert.Equal(t, "Upcoming: Seder", ComposeSubject("Seder", 3))
}
