package markethours

import "time"

// SSE/SZSE market closures for 2026.
// Source: exchange holiday notice; lunar-calendar dates are tentative until
// the official circular lands.
var sseHolidays2026 = []struct {
	month time.Month
	day   int
}{
	{time.January, 1},  // New Year's Day
	{time.January, 2},  // New Year holiday
	{time.February, 16}, // Spring Festival (tentative)
	{time.February, 17}, // Spring Festival
	{time.February, 18}, // Spring Festival
	{time.February, 19}, // Spring Festival
	{time.February, 20}, // Spring Festival
	{time.April, 6},    // Qingming Festival (observed)
	{time.May, 1},      // Labour Day
	{time.May, 4},      // Labour Day holiday
	{time.May, 5},      // Labour Day holiday
	{time.June, 19},    // Dragon Boat Festival (tentative)
	{time.September, 25}, // Mid-Autumn Festival (tentative)
	{time.October, 1},  // National Day
	{time.October, 2},  // National Day
	{time.October, 5},  // National Day holiday
	{time.October, 6},  // National Day holiday
	{time.October, 7},  // National Day holiday
}

// pre-compute for fast lookup
var holidaySet map[string]bool

func init() {
	holidaySet = make(map[string]bool, len(sseHolidays2026))
	for _, h := range sseHolidays2026 {
		key := time.Date(2026, h.month, h.day, 0, 0, 0, 0, CST).Format("2006-01-02")
		holidaySet[key] = true
	}
}

// IsHoliday returns true if t falls on a known exchange closure.
// Years without a loaded table report false: weekday sessions rule.
func IsHoliday(t time.Time) bool {
	return holidaySet[t.In(CST).Format("2006-01-02")]
}
