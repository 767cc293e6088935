// Package hebcal 实现希伯来历（阴阳历，19 年 7 闰）与公历之间的换算。
//
// 历法日界按民用零点处理：传统上希伯来历的一天从日落开始，这里统一折算为
// 对应民用日的零点。这是一个文档化的简化，不做天文意义上的精确映射。
//
// 算法采用经典的 elapsed-days 公式（新月 molad 推算 + 四条延后规则），
// 与 Emacs calendar / hebcal 的实现同源。
package hebcal

import "time"

// Month 希伯来历月份，尼散月（Nisan）为 1，提斯利月（Tishrei）为 7。
// 闰年含第 13 个月：12 = 亚达一月（Adar I），13 = 亚达二月（Adar II）。
// 平年 12 即亚达月（Adar），13 不合法。
type Month int

const (
	Nisan Month = iota + 1
	Iyyar
	Sivan
	Tammuz
	Av
	Elul
	Tishrei
	Cheshvan
	Kislev
	Tevet
	Shvat
	AdarI
	AdarII
)

// Date 一个不可变的希伯来历日期值。
type Date struct {
	Day        int    `json:"day"`
	Month      Month  `json:"month"`
	Year       int    `json:"year"`
	MonthName  string `json:"month_name"`
	IsLeapYear bool   `json:"is_leap_year"`
}

var monthNames = [...]string{
	"Nisan", "Iyyar", "Sivan", "Tammuz", "Av", "Elul",
	"Tishrei", "Cheshvan", "Kislev", "Tevet", "Sh'vat", "Adar", "Adar II",
}

// IsLeapYear 19 年周期中第 3,6,8,11,14,17,19 年为闰年
func IsLeapYear(year int) bool {
	return (7*year+1)%19 < 7
}

func MonthsInYear(year int) int {
	if IsLeapYear(year) {
		return 13
	}
	return 12
}

// MonthName 返回月份英文名；12 月在闰年显示为 Adar I，平年为 Adar
func MonthName(m Month, year int) string {
	if m < Nisan || m > AdarII {
		return ""
	}
	if m == AdarI && IsLeapYear(year) {
		return "Adar I"
	}
	return monthNames[m-1]
}

// elapsedDays 希伯来历元至 year 年 1 Tishrei 的天数。
// 先按 molad（月朔）推算，再应用延后规则（含防止 356/382 天年的两条补充规则）。
func elapsedDays(year int) int {
	monthsElapsed := 235*((year-1)/19) + 12*((year-1)%19) + (7*((year-1)%19)+1)/19
	partsElapsed := 204 + 793*(monthsElapsed%1080)
	hoursElapsed := 5 + 12*monthsElapsed + 793*(monthsElapsed/1080) + partsElapsed/1080
	day := 1 + 29*monthsElapsed + hoursElapsed/24
	parts := 1080*(hoursElapsed%24) + partsElapsed%1080

	altDay := day
	if parts >= 19440 ||
		(day%7 == 2 && parts >= 9924 && !IsLeapYear(year)) ||
		(day%7 == 1 && parts >= 16789 && IsLeapYear(year-1)) {
		altDay = day + 1
	}

	// 新年不落在周日、周三、周五（Lo ADU Rosh）
	if altDay%7 == 0 || altDay%7 == 3 || altDay%7 == 5 {
		altDay++
	}
	return altDay
}

// newYearRD year 年 1 Tishrei 的 Rata Die 日序号（RD 1 = 公历 0001-01-01）
func newYearRD(year int) int {
	return elapsedDays(year) - 1373428
}

// DaysInYear 年长度：平年 353/354/355 天，闰年 383/384/385 天
func DaysInYear(year int) int {
	return newYearRD(year+1) - newYearRD(year)
}

func longCheshvan(year int) bool {
	return DaysInYear(year)%10 == 5
}

func shortKislev(year int) bool {
	return DaysInYear(year)%10 == 3
}

func DaysInMonth(m Month, year int) int {
	switch m {
	case Iyyar, Tammuz, Elul, Tevet, AdarII:
		return 29
	case Cheshvan:
		if longCheshvan(year) {
			return 30
		}
		return 29
	case Kislev:
		if shortKislev(year) {
			return 29
		}
		return 30
	case AdarI:
		if IsLeapYear(year) {
			return 30
		}
		return 29
	default:
		// Nisan, Sivan, Av, Tishrei, Sh'vat
		return 30
	}
}

// Valid 校验日期分量：月份 1..12（闰年 1..13），日在该月天数内
func Valid(day int, m Month, year int) bool {
	if m < Nisan || Month(MonthsInYear(year)) < m {
		return false
	}
	return day >= 1 && day <= DaysInMonth(m, year)
}

// Resolve 将一个日/月组合落到指定年份上，应用回落规则：
//   - 亚达二月（13）的日期在平年回落到亚达月（12）；
//   - 日数超过该月实际天数时收敛到月末（如 30 Cheshvan 在短年变 29 Cheshvan）。
//
// 规则在换算的两个方向上一致使用。
func Resolve(day int, m Month, year int) (int, Month) {
	if m == AdarII && !IsLeapYear(year) {
		m = AdarI
	}
	if dim := DaysInMonth(m, year); day > dim {
		day = dim
	}
	return day, m
}

// civilOrder 一个希伯来年内月份的实际顺序（年首为 Tishrei）
func civilOrder(year int) []Month {
	order := []Month{Tishrei, Cheshvan, Kislev, Tevet, Shvat, AdarI}
	if IsLeapYear(year) {
		order = append(order, AdarII)
	}
	return append(order, Nisan, Iyyar, Sivan, Tammuz, Av, Elul)
}

func hebrewToRD(year int, m Month, day int) int {
	rd := newYearRD(year)
	for _, cm := range civilOrder(year) {
		if cm == m {
			break
		}
		rd += DaysInMonth(cm, year)
	}
	return rd + day - 1
}

func rdToHebrew(rd int) (year int, m Month, day int) {
	// 先用公历年粗估希伯来年（1 Tishrei 落在公历 year-3761 年秋），再修正
	gy, _, _ := rdToGregorian(rd)
	year = gy + 3760
	for newYearRD(year+1) <= rd {
		year++
	}
	for newYearRD(year) > rd {
		year--
	}

	rest := rd - newYearRD(year)
	for _, cm := range civilOrder(year) {
		dim := DaysInMonth(cm, year)
		if rest < dim {
			return year, cm, rest + 1
		}
		rest -= dim
	}
	// 不可达：rest 必落在 12/13 个月之内
	return year, Elul, 29
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func gregorianToRD(y int, m time.Month, d int) int {
	mm := int(m)
	yy := y
	if mm <= 2 {
		yy--
	}
	era := floorDiv(yy, 400)
	yoe := yy - era*400
	var mp int
	if mm > 2 {
		mp = mm - 3
	} else {
		mp = mm + 9
	}
	doy := (153*mp+2)/5 + d - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 305
}

func rdToGregorian(rd int) (y int, m time.Month, d int) {
	z := rd + 305
	era := floorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y = yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	d = doy - (153*mp+2)/5 + 1
	mm := mp + 3
	if mp >= 10 {
		mm = mp - 9
	}
	if mm <= 2 {
		y++
	}
	return y, time.Month(mm), d
}

// RD 取民用日期对应的日序号（按 t 所在时区的日期分量）
func RD(t time.Time) int {
	y, m, d := t.Date()
	return gregorianToRD(y, m, d)
}

// DaysBetween to 与 from 之间的整民用日数（to 在后为正）
func DaysBetween(from, to time.Time) int {
	return RD(to) - RD(from)
}

// FromGregorian 公历时刻换算为当天对应的希伯来历日期
func FromGregorian(t time.Time) Date {
	year, m, day := rdToHebrew(RD(t))
	return Date{
		Day:        day,
		Month:      m,
		Year:       year,
		MonthName:  MonthName(m, year),
		IsLeapYear: IsLeapYear(year),
	}
}

// ToGregorian 希伯来历日期换算为对应民用日的零点时刻。
// 对任意合法输入是全函数：不合法的日/月组合先经 Resolve 回落。
func ToGregorian(d Date, loc *time.Location) time.Time {
	day, m := Resolve(d.Day, d.Month, d.Year)
	y, gm, gd := rdToGregorian(hebrewToRD(d.Year, m, day))
	return time.Date(y, gm, gd, 0, 0, 0, 0, loc)
}

// NextOccurrence 返回 ref 当天或之后、希伯来历日/月等于输入的下一个公历日期。
// 先在 ref 所处的希伯来年内构造候选；若已过去则推进一年。单调：结果 >= ref 当日。
func NextOccurrence(day int, m Month, ref time.Time) time.Time {
	refRD := RD(ref)
	hyear, _, _ := rdToHebrew(refRD)

	rd, rm := Resolve(day, m, hyear)
	cand := hebrewToRD(hyear, rm, rd)
	if cand < refRD {
		rd, rm = Resolve(day, m, hyear+1)
		cand = hebrewToRD(hyear+1, rm, rd)
	}

	y, gm, gd := rdToGregorian(cand)
	return time.Date(y, gm, gd, 0, 0, 0, 0, ref.Location())
}
