package hebcal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func civil(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestIsLeapYear(t *testing.T) {
	cases := map[int]bool{
		5782: false,
		5783: false,
		5784: true,
		5785: false,
		5786: false,
		5787: true,
		5790: true,
	}
	for year, want := range cases {
		assert.Equal(t, want, IsLeapYear(year), "year %d", year)
	}
}

func TestKnownDates(t *testing.T) {
	// 以公开的节期日期为锚点（民用零点日界）
	cases := []struct {
		greg  time.Time
		day   int
		month Month
		year  int
	}{
		{civil(2022, time.October, 10), 15, Tishrei, 5783}, // Sukkot I
		{civil(2023, time.September, 16), 1, Tishrei, 5784},
		{civil(2024, time.April, 23), 15, Nisan, 5784}, // Pesach I
		{civil(2024, time.October, 3), 1, Tishrei, 5785},
		{civil(2024, time.October, 17), 15, Tishrei, 5785},
		{civil(2024, time.December, 26), 25, Kislev, 5785}, // Hanukkah I
		{civil(2025, time.April, 13), 15, Nisan, 5785},
	}

	for _, tc := range cases {
		got := FromGregorian(tc.greg)
		require.Equal(t, tc.year, got.Year, "greg %v", tc.greg)
		assert.Equal(t, tc.month, got.Month, "greg %v", tc.greg)
		assert.Equal(t, tc.day, got.Day, "greg %v", tc.greg)

		back := ToGregorian(Date{Day: tc.day, Month: tc.month, Year: tc.year}, time.UTC)
		assert.True(t, back.Equal(tc.greg), "round trip %v got %v", tc.greg, back)
	}
}

func TestRoundTripRange(t *testing.T) {
	// 连续三年逐日往返，覆盖平年和闰年（5784 为闰年）
	start := civil(2022, time.September, 1)
	for i := 0; i < 1100; i++ {
		g := start.AddDate(0, 0, i)
		h := FromGregorian(g)
		require.True(t, Valid(h.Day, h.Month, h.Year), "invalid date for %v: %+v", g, h)
		back := ToGregorian(h, time.UTC)
		require.True(t, back.Equal(g), "day %v: %+v -> %v", g, h, back)
	}
}

func TestDaysInYearShape(t *testing.T) {
	common := map[int]bool{353: true, 354: true, 355: true}
	leap := map[int]bool{383: true, 384: true, 385: true}
	for year := 5700; year < 5800; year++ {
		n := DaysInYear(year)
		if IsLeapYear(year) {
			assert.True(t, leap[n], "leap year %d has %d days", year, n)
		} else {
			assert.True(t, common[n], "common year %d has %d days", year, n)
		}
	}
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "Tishrei", MonthName(Tishrei, 5783))
	assert.Equal(t, "Adar", MonthName(AdarI, 5783))    // 平年
	assert.Equal(t, "Adar I", MonthName(AdarI, 5784))  // 闰年
	assert.Equal(t, "Adar II", MonthName(AdarII, 5784))
}

func TestResolveAdarFallback(t *testing.T) {
	// 亚达二月的日期在平年回落到亚达月
	day, m := Resolve(14, AdarII, 5785)
	assert.Equal(t, AdarI, m)
	assert.Equal(t, 14, day)

	// 闰年保持原样
	day, m = Resolve(14, AdarII, 5784)
	assert.Equal(t, AdarII, m)
	assert.Equal(t, 14, day)

	// 30 Adar I（闰年有 30 天）在平年收敛到月末 29
	day, m = Resolve(30, AdarI, 5785)
	assert.Equal(t, AdarI, m)
	assert.Equal(t, 29, day)
}

func TestResolveShortMonths(t *testing.T) {
	for year := 5700; year < 5800; year++ {
		day, m := Resolve(30, Cheshvan, year)
		assert.Equal(t, Cheshvan, m)
		assert.Equal(t, DaysInMonth(Cheshvan, year), day)
	}
}

func TestNextOccurrenceMonotonic(t *testing.T) {
	ref := civil(2023, time.January, 1)
	for i := 0; i < 800; i += 13 {
		r := ref.AddDate(0, 0, i)
		for _, tc := range []struct {
			day   int
			month Month
		}{{15, Tishrei}, {25, Kislev}, {1, Nisan}, {14, AdarII}, {30, Cheshvan}} {
			next := NextOccurrence(tc.day, tc.month, r)
			require.GreaterOrEqual(t, RD(next), RD(r),
				"next occurrence of %d/%d before ref %v: %v", tc.day, tc.month, r, next)
			// 一年内必然出现一次
			require.LessOrEqual(t, RD(next)-RD(r), 385)
		}
	}
}

func TestNextOccurrenceSameDay(t *testing.T) {
	// 当天算作“下一次出现”，不推进到下一年
	g := civil(2024, time.October, 17) // 15 Tishrei 5785
	next := NextOccurrence(15, Tishrei, g)
	assert.True(t, next.Equal(g))

	// 已过去则推进一个希伯来年
	next = NextOccurrence(15, Tishrei, g.AddDate(0, 0, 1))
	assert.Equal(t, 5786, FromGregorian(next).Year)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(29, AdarI, 5785))
	assert.False(t, Valid(30, AdarI, 5785)) // 平年亚达月 29 天
	assert.True(t, Valid(30, AdarI, 5784))  // 闰年亚达一月 30 天
	assert.False(t, Valid(1, AdarII, 5785)) // 平年没有亚达二月
	assert.True(t, Valid(1, AdarII, 5784))
	assert.False(t, Valid(0, Nisan, 5784))
	assert.False(t, Valid(31, Tishrei, 5784))
	assert.False(t, Valid(5, Month(14), 5784))
}
