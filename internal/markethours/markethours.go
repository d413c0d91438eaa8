package markethours

import (
	"fmt"
	"time"
)

// CST is China Standard Time (UTC+8), the exchange-local zone for SSE/SZSE.
var CST = time.FixedZone("CST", 8*3600)

// A-share trading sessions in CST: 09:30–11:30 and 13:00–15:00, Mon–Fri.
const (
	MorningOpenHour    = 9
	MorningOpenMinute  = 30
	MorningCloseHour   = 11
	MorningCloseMinute = 30

	AfternoonOpenHour   = 13
	AfternoonOpenMinute = 0
	AfternoonCloseHour  = 15
	AfternoonCloseMin   = 0
)

// IsTradingTime returns true if t falls within an A-share trading session
// (09:30–11:30 or 13:00–15:00 CST, Mon–Fri, excluding exchange holidays).
func IsTradingTime(t time.Time) bool {
	cst := t.In(CST)
	wd := cst.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	if IsHoliday(cst) {
		return false
	}
	sec := cst.Hour()*3600 + cst.Minute()*60 + cst.Second()
	morning := sec >= MorningOpenHour*3600+MorningOpenMinute*60 &&
		sec <= MorningCloseHour*3600+MorningCloseMinute*60
	afternoon := sec >= AfternoonOpenHour*3600+AfternoonOpenMinute*60 &&
		sec <= AfternoonCloseHour*3600+AfternoonCloseMin*60
	return morning || afternoon
}

// IsWeekday returns true if t is Mon–Fri.
func IsWeekday(t time.Time) bool {
	wd := t.In(CST).Weekday()
	return wd >= time.Monday && wd <= time.Friday
}

// IsTradingDay returns true if t is a weekday and not a holiday.
func IsTradingDay(t time.Time) bool {
	cst := t.In(CST)
	return IsWeekday(cst) && !IsHoliday(cst)
}

// NextOpen returns the next session open (09:30 CST on the next trading
// day, or today's morning open if t is before it on a trading day).
func NextOpen(t time.Time) time.Time {
	cst := t.In(CST)

	todayOpen := time.Date(cst.Year(), cst.Month(), cst.Day(), MorningOpenHour, MorningOpenMinute, 0, 0, CST)
	if cst.Before(todayOpen) && IsTradingDay(cst) {
		return todayOpen
	}

	d := cst.AddDate(0, 0, 1)
	for i := 0; i < 20; i++ { // long holiday runs (Spring Festival, National Day)
		if IsTradingDay(d) {
			return time.Date(d.Year(), d.Month(), d.Day(), MorningOpenHour, MorningOpenMinute, 0, 0, CST)
		}
		d = d.AddDate(0, 0, 1)
	}
	return time.Date(cst.Year(), cst.Month(), cst.Day()+1, MorningOpenHour, MorningOpenMinute, 0, 0, CST)
}

// StatusString returns a human-readable market status.
func StatusString(t time.Time) string {
	if IsTradingTime(t) {
		return "Market Open"
	}
	next := NextOpen(t)
	cst := next.In(CST)
	return fmt.Sprintf("Market Closed, opens %s %s", cst.Weekday().String()[:3], cst.Format("15:04"))
}
