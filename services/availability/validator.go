// Package availability checks and normalizes doctors' weekly schedules.
package availability

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"

	"telecare/models"
)

// Kind classifies a validation failure. Every kind is a caller input error.
type Kind string

const (
	NotASequence      Kind = "NotASequence"
	InvalidDayEntry   Kind = "InvalidDayEntry"
	InvalidDayOfWeek  Kind = "InvalidDayOfWeek"
	DuplicateDay      Kind = "DuplicateDay"
	InvalidSlotsType  Kind = "InvalidSlotsType"
	InvalidTimeFormat Kind = "InvalidTimeFormat"
	InvalidSlotOrder  Kind = "InvalidSlotOrder"
	OverlappingSlots  Kind = "OverlappingSlots"
)

// ValidationError reports the first violation found in a submitted schedule.
type ValidationError struct {
	Kind    Kind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func fail(kind Kind, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

type minuteSlot struct {
	start, end int
	raw        models.TimeSlot
}

// Validate checks a decoded JSON value against the weekly schedule rules and returns it
// normalized: days ordered by dayOfWeek, slots ordered by start. Checks run in order and
// the first failure is returned. The input is never modified.
func Validate(candidate any) (models.WeeklyAvailability, *ValidationError) {
	if typed, ok := candidate.(models.WeeklyAvailability); ok {
		candidate = toGeneric(typed)
	}

	days, ok := candidate.([]any)
	if !ok {
		return nil, fail(NotASequence, "Availability must be an array.")
	}

	seen := make(map[int]bool, len(days))
	out := make(models.WeeklyAvailability, 0, len(days))

	for _, entry := range days {
		day, ok := entry.(map[string]any)
		if !ok {
			return nil, fail(InvalidDayEntry, "Each item in availability must be an object.")
		}

		dayOfWeek, ok := asWeekday(day["dayOfWeek"])
		if !ok {
			return nil, fail(InvalidDayOfWeek,
				"Invalid dayOfWeek: %v. Must be a number between 0 (Sunday) and 6 (Saturday).", describe(day["dayOfWeek"]))
		}
		if seen[dayOfWeek] {
			return nil, fail(DuplicateDay,
				"Duplicate entry for dayOfWeek: %d. Each day should appear at most once.", dayOfWeek)
		}
		seen[dayOfWeek] = true

		rawSlots, ok := day["slots"].([]any)
		if !ok {
			return nil, fail(InvalidSlotsType, "Slots for day %d must be an array.", dayOfWeek)
		}

		slots := make([]minuteSlot, 0, len(rawSlots))
		for _, rs := range rawSlots {
			slot, verr := parseSlot(dayOfWeek, rs)
			if verr != nil {
				return nil, verr
			}
			slots = append(slots, slot)
		}

		sort.SliceStable(slots, func(i, j int) bool { return slots[i].start < slots[j].start })
		for i := 0; i+1 < len(slots); i++ {
			if slots[i].end > slots[i+1].start {
				return nil, fail(OverlappingSlots,
					"Overlapping slots detected for day %d between %s and %s",
					dayOfWeek, FormatMinutes(slots[i+1].start), FormatMinutes(slots[i].end))
			}
		}

		normalized := models.DaySchedule{DayOfWeek: dayOfWeek, Slots: make([]models.TimeSlot, 0, len(slots))}
		for _, s := range slots {
			normalized.Slots = append(normalized.Slots, s.raw)
		}
		out = append(out, normalized)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DayOfWeek < out[j].DayOfWeek })
	return out, nil
}

func parseSlot(dayOfWeek int, v any) (minuteSlot, *ValidationError) {
	obj, ok := v.(map[string]any)
	if !ok {
		return minuteSlot{}, fail(InvalidTimeFormat, "Each slot for day %d must be an object.", dayOfWeek)
	}
	start, startOK := obj["start"].(string)
	end, endOK := obj["end"].(string)
	if !startOK || !endOK || start == "" || end == "" {
		return minuteSlot{}, fail(InvalidTimeFormat, "Slots for day %d must have 'start' and 'end' properties.", dayOfWeek)
	}

	startMin, okStart := ToMinutes(start)
	endMin, okEnd := ToMinutes(end)
	if !okStart || !okEnd {
		return minuteSlot{}, fail(InvalidTimeFormat,
			"Invalid time format for day %d. Use HH:MM (e.g., \"09:00\", \"17:30\"). Found start: %s, end: %s.",
			dayOfWeek, start, end)
	}
	if startMin >= endMin {
		return minuteSlot{}, fail(InvalidSlotOrder,
			"Invalid slot for day %d: start time %s must be before end time %s.", dayOfWeek, start, end)
	}
	return minuteSlot{start: startMin, end: endMin, raw: models.TimeSlot{Start: start, End: end}}, nil
}

// asWeekday accepts integral numbers in [0,6]. Fractions, strings and booleans are rejected.
func asWeekday(v any) (int, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if f != math.Trunc(f) || f < 0 || f > 6 {
		return 0, false
	}
	return int(f), true
}

func describe(v any) any {
	if v == nil {
		return "undefined"
	}
	return v
}

// ToMinutes converts "HH:MM" to minutes since midnight.
func ToMinutes(hhmm string) (int, bool) {
	m := timePattern.FindStringSubmatch(hhmm)
	if m == nil {
		return 0, false
	}
	hours := int(m[1][0]-'0')*10 + int(m[1][1]-'0')
	minutes := int(m[2][0]-'0')*10 + int(m[2][1]-'0')
	return hours*60 + minutes, true
}

// FormatMinutes renders minutes since midnight as "HH:MM".
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func toGeneric(week models.WeeklyAvailability) []any {
	out := make([]any, 0, len(week))
	for _, day := range week {
		slots := make([]any, 0, len(day.Slots))
		for _, s := range day.Slots {
			slots = append(slots, map[string]any{"start": s.Start, "end": s.End})
		}
		out = append(out, map[string]any{"dayOfWeek": float64(day.DayOfWeek), "slots": slots})
	}
	return out
}
