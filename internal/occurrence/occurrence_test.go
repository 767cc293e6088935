package occurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MazalTov/internal/model"
	"MazalTov/pkg/errors"
	"MazalTov/pkg/hebcal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDaysUntilGregorianRecurring(t *testing.T) {
	event := &model.Event{
		ReferenceDate: day(2023, time.June, 15),
		IsRecurring:   true,
	}

	// 三天后到期
	got, err := DaysUntil(event, day(2024, time.June, 12))
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	// 当天
	got, err = DaysUntil(event, day(2024, time.June, 15))
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	// 已过，滚动到下一年
	got, err = DaysUntil(event, day(2024, time.June, 16))
	require.NoError(t, err)
	assert.Equal(t, 364, got)
}

func TestDaysUntilGregorianOneOff(t *testing.T) {
	event := &model.Event{
		ReferenceDate: day(2024, time.June, 15),
		IsRecurring:   false,
	}

	got, err := DaysUntil(event, day(2024, time.June, 12))
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	// 一次性事件过期后不滚动，返回负数
	got, err = DaysUntil(event, day(2024, time.June, 20))
	require.NoError(t, err)
	assert.Equal(t, -5, got)
}

func TestDaysUntilHebrewRecurring(t *testing.T) {
	// 住棚节首日 15 Tishrei，5785 年对应 2024-10-17
	event := &model.Event{
		UsesHebrewCal: true,
		IsRecurring:   true,
		HebrewDate: &model.HebrewDate{Date: hebcal.Date{
			Day:   15,
			Month: hebcal.Tishrei,
			Year:  5783,
		}},
	}

	got, err := DaysUntil(event, day(2024, time.October, 16))
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = DaysUntil(event, day(2024, time.October, 17))
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	// 过期后滚动到 5786 年（2025-10-07）
	got, err = DaysUntil(event, day(2024, time.October, 18))
	require.NoError(t, err)
	assert.Greater(t, got, 300)
}

func TestDaysUntilHebrewMissingDate(t *testing.T) {
	event := &model.Event{
		UsesHebrewCal: true,
		IsRecurring:   true,
	}

	_, err := DaysUntil(event, day(2024, time.October, 16))
	assert.ErrorIs(t, err, errors.EventDataInvalid)
}

func TestDaysUntilHebrewInvalidMonth(t *testing.T) {
	event := &model.Event{
		UsesHebrewCal: true,
		IsRecurring:   true,
		HebrewDate: &model.HebrewDate{Date: hebcal.Date{
			Day:   10,
			Month: hebcal.Month(14),
			Year:  5785,
		}},
	}

	_, err := DaysUntil(event, day(2024, time.October, 16))
	assert.ErrorIs(t, err, errors.EventDataInvalid)
}
