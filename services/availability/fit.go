package availability

import (
	"time"

	"telecare/models"
)

// Covers reports whether one of the weekday's slots fully contains [startMin, endMin).
func Covers(week models.WeeklyAvailability, weekday time.Weekday, startMin, endMin int) bool {
	for _, day := range week {
		if day.DayOfWeek != int(weekday) {
			continue
		}
		for _, slot := range day.Slots {
			s, okStart := ToMinutes(slot.Start)
			e, okEnd := ToMinutes(slot.End)
			if okStart && okEnd && s <= startMin && endMin <= e {
				return true
			}
		}
	}
	return false
}

// FitsWindow reports whether [start, end) lies inside the published schedule when both
// instants are read as wall-clock times in loc. Intervals reaching past the start day never fit.
func FitsWindow(week models.WeeklyAvailability, start, end time.Time, loc *time.Location) bool {
	s := start.In(loc)
	e := end.In(loc)
	if s.Year() != e.Year() || s.YearDay() != e.YearDay() {
		return false
	}

	endMin := e.Hour()*60 + e.Minute()
	if e.Second() > 0 || e.Nanosecond() > 0 {
		endMin++
	}
	return Covers(week, s.Weekday(), s.Hour()*60+s.Minute(), endMin)
}
