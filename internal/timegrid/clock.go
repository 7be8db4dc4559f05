package timegrid

import "time"

// Break describes a gap between two consecutive slots that contains "now".
type Break struct {
	Prev        Slot
	Next        Slot
	MinutesLeft int
}

// minuteOfDay truncates seconds: only the local hour and minute matter.
func minuteOfDay(now time.Time) int {
	return now.Hour()*60 + now.Minute()
}

// IsWithinSlot reports whether now falls inside the slot, inclusive of both
// bounds.
func IsWithinSlot(slot Slot, now time.Time) bool {
	cur := minuteOfDay(now)
	return cur >= mustMinutes(slot.StartTime) && cur <= mustMinutes(slot.EndTime)
}

// CurrentBreak scans consecutive slot pairs in order and returns the first
// pair where now is at or after the previous slot's end and strictly before
// the next slot's start. Returns nil when now is inside a slot, before the
// first slot, or after the last one.
func CurrentBreak(now time.Time) *Break {
	cur := minuteOfDay(now)
	for i := 0; i < len(slots)-1; i++ {
		end := mustMinutes(slots[i].EndTime)
		nextStart := mustMinutes(slots[i+1].StartTime)
		if cur >= end && cur < nextStart {
			return &Break{
				Prev:        slots[i],
				Next:        slots[i+1],
				MinutesLeft: nextStart - cur,
			}
		}
	}
	return nil
}

// CurrentDay maps now's weekday to the Monday-based schedule index 0..5.
// The second result is false on Sunday, which is not a schedule day.
func CurrentDay(now time.Time) (int, bool) {
	wd := now.Weekday()
	if wd == time.Sunday {
		return 0, false
	}
	return int(wd) - 1, true
}

// MinutesLabel returns the Russian plural form for a minute count.
func MinutesLabel(count int) string {
	if count == 1 {
		return "минута"
	}
	if count > 1 && count < 5 {
		return "минуты"
	}
	return "минут"
}
