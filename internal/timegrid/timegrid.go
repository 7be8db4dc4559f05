// Package timegrid defines the canonical time-slot and weekday grid that
// every course must align to. The table is process-wide constant state:
// initialized once, never mutated, not user-editable.
package timegrid

import (
	"fmt"
	"strconv"
	"strings"
)

// Slot is one row of the canonical time grid.
type Slot struct {
	ID        int    `json:"id"`
	Label     string `json:"label"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// slots is the fixed table: 8 slots of 80 minutes each, 10-minute breaks,
// with a 30-minute lunch gap between slots 3 and 4.
var slots = []Slot{
	{ID: 1, Label: "1 пара", StartTime: "08:30", EndTime: "09:50"},
	{ID: 2, Label: "2 пара", StartTime: "10:00", EndTime: "11:20"},
	{ID: 3, Label: "3 пара", StartTime: "11:30", EndTime: "12:50"},
	{ID: 4, Label: "4 пара", StartTime: "13:20", EndTime: "14:40"},
	{ID: 5, Label: "5 пара", StartTime: "14:50", EndTime: "16:10"},
	{ID: 6, Label: "6 пара", StartTime: "16:20", EndTime: "17:40"},
	{ID: 7, Label: "7 пара", StartTime: "18:00", EndTime: "19:20"},
	{ID: 8, Label: "8 пара", StartTime: "19:30", EndTime: "20:50"},
}

// weekdays are the schedule days, index 0 = Monday through 5 = Saturday.
// Sunday is never a schedule day.
var weekdays = []string{
	"Понедельник",
	"Вторник",
	"Среда",
	"Четверг",
	"Пятница",
	"Суббота",
}

// Slots returns the canonical slot table in grid order.
// Callers must not modify the returned slice.
func Slots() []Slot {
	return slots
}

// Weekdays returns the 6 weekday labels, Monday first.
// Callers must not modify the returned slice.
func Weekdays() []string {
	return weekdays
}

// NumDays is the number of schedule days in a week.
const NumDays = 6

// TimeToMinutes converts an "HH:MM" or "H:MM" string to minutes since
// midnight. The input must already be validated; malformed values return an
// error rather than panicking.
func TimeToMinutes(t string) (int, error) {
	h, m, ok := strings.Cut(t, ":")
	if !ok {
		return 0, fmt.Errorf("invalid time %q", t)
	}
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", t)
	}
	minutes, err := strconv.Atoi(m)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", t)
	}
	return hours*60 + minutes, nil
}

// mustMinutes is TimeToMinutes for the canonical table, which is known-good.
func mustMinutes(t string) int {
	m, err := TimeToMinutes(t)
	if err != nil {
		panic(err)
	}
	return m
}

// SnapToSlot returns the canonical slot whose start time is numerically
// closest to startMinutes. On equal distance the earlier slot wins (the
// table is scanned in order with a strict comparison).
func SnapToSlot(startMinutes int) Slot {
	best := slots[0]
	bestDist := abs(startMinutes - mustMinutes(best.StartTime))
	for _, s := range slots[1:] {
		d := abs(startMinutes - mustMinutes(s.StartTime))
		if d < bestDist {
			best = s
			bestDist = d
		}
	}
	return best
}

// IsExact reports whether the pair (start, end) equals one of the canonical
// slot pairs.
func IsExact(start, end string) bool {
	for _, s := range slots {
		if s.StartTime == start && s.EndTime == end {
			return true
		}
	}
	return false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
