package occurrence

import (
	"time"

	"MazalTov/internal/model"
	"MazalTov/pkg/errors"
	"MazalTov/pkg/hebcal"
)

// DaysUntil 计算事件下一次发生日距 today 的整天数
// today 取调度器时区的当天零点；0 表示今天，负数只会出现在不滚动的一次性事件上。
func DaysUntil(event *model.Event, today time.Time) (int, error) {
	if event.UsesHebrewCal {
		return daysUntilHebrew(event, today)
	}
	return daysUntilGregorian(event, today), nil
}

func daysUntilHebrew(event *model.Event, today time.Time) (int, error) {
	if event.HebrewDate == nil {
		return 0, errors.EventDataInvalid
	}

	hd := event.HebrewDate
	if hd.Day <= 0 || hd.Month < hebcal.Nisan || hd.Month > hebcal.AdarII {
		return 0, errors.EventDataInvalid
	}

	if !event.IsRecurring {
		// 一次性事件按字面日期换算，不做年度滚动
		if !hebcal.Valid(hd.Day, hd.Month, hd.Year) {
			return 0, errors.EventDataInvalid
		}
		target := hebcal.ToGregorian(hd.Date, today.Location())
		return hebcal.DaysBetween(today, target), nil
	}

	next := hebcal.NextOccurrence(hd.Day, hd.Month, today)
	return hebcal.DaysBetween(today, next), nil
}

func daysUntilGregorian(event *model.Event, today time.Time) int {
	ref := event.ReferenceDate

	if !event.IsRecurring {
		target := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, today.Location())
		return hebcal.DaysBetween(today, target)
	}

	candidate := time.Date(today.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, today.Location())
	if candidate.Before(today) {
		candidate = time.Date(today.Year()+1, ref.Month(), ref.Day(), 0, 0, 0, 0, today.Location())
	}

	return hebcal.DaysBetween(today, candidate)
}
