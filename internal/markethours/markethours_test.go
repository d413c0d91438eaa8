package markethours

import (
	"testing"
	"time"
)

func cstTime(month time.Month, day, hour, min int) time.Time {
	return time.Date(2026, month, day, hour, min, 0, 0, CST)
}

func TestIsTradingTime_Sessions(t *testing.T) {
	// 2026-03-02 is a Monday.
	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"before morning open", cstTime(time.March, 2, 9, 29), false},
		{"morning open", cstTime(time.March, 2, 9, 30), true},
		{"mid morning", cstTime(time.March, 2, 10, 45), true},
		{"morning close", cstTime(time.March, 2, 11, 30), true},
		{"lunch break", cstTime(time.March, 2, 12, 15), false},
		{"afternoon open", cstTime(time.March, 2, 13, 0), true},
		{"afternoon close", cstTime(time.March, 2, 15, 0), true},
		{"after close", cstTime(time.March, 2, 15, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTradingTime(tt.t); got != tt.want {
				t.Errorf("IsTradingTime(%s) = %v, want %v", tt.t.Format("15:04"), got, tt.want)
			}
		})
	}
}

func TestIsTradingTime_Weekend(t *testing.T) {
	// 2026-03-07 is a Saturday, 03-08 a Sunday.
	if IsTradingTime(cstTime(time.March, 7, 10, 0)) {
		t.Error("Saturday must be closed")
	}
	if IsTradingTime(cstTime(time.March, 8, 10, 0)) {
		t.Error("Sunday must be closed")
	}
}

func TestIsTradingTime_Holiday(t *testing.T) {
	// National Day 2026-10-01 falls on a Thursday.
	if IsTradingTime(cstTime(time.October, 1, 10, 0)) {
		t.Error("National Day must be closed")
	}
}

func TestNextOpen_BeforeOpenSameDay(t *testing.T) {
	got := NextOpen(cstTime(time.March, 2, 8, 0))
	want := cstTime(time.March, 2, 9, 30)
	if !got.Equal(want) {
		t.Errorf("NextOpen = %s, want %s", got, want)
	}
}

func TestNextOpen_SkipsWeekend(t *testing.T) {
	// Friday 2026-03-06 after close → Monday 03-09 morning open.
	got := NextOpen(cstTime(time.March, 6, 16, 0))
	want := cstTime(time.March, 9, 9, 30)
	if !got.Equal(want) {
		t.Errorf("NextOpen = %s, want %s", got, want)
	}
}
