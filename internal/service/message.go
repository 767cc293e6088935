package service

import (
	"fmt"

	"MazalTov/internal/model"
)

// ComposeMessage 按提前天数和槽位生成提醒文案，纯函数
func ComposeMessage(title string, daysUntil int, slot model.TimeSlot) string {
	switch {
	case daysUntil == 3:
		return fmt.Sprintf("Heads up! %s is coming up in 3 days.", title)
	case daysUntil == 1:
		return fmt.Sprintf("Reminder: %s is tomorrow!", title)
	case daysUntil == 0:
		switch slot {
		case model.TimeSlotMorning:
			return fmt.Sprintf("Good morning! %s is today. Have a wonderful celebration!", title)
		case model.TimeSlotAfternoon:
			return fmt.Sprintf("Friendly afternoon reminder: %s is today.", title)
		case model.TimeSlotEvening:
			return fmt.Sprintf("Evening reminder: %s is today. Don't let the day slip by!", title)
		}
		return fmt.Sprintf("%s is today!", title)
	default:
		return fmt.Sprintf("Reminder: %s is in %d days.", title, daysUntil)
	}
}

// ComposeSubject 生成 email 渠道的主题行
func ComposeSubject(title string, daysUntil int) string {
	switch daysUntil {
	case 0:
		return fmt.Sprintf("Today: %s", title)
	case 1:
		return fmt.Sprintf("Tomorrow: %s", title)
	default:
		return fmt.Sprintf("Upcoming: %s", title)
	}
}
