package models

// TimeSlot is a bookable window within one day, both ends in "HH:MM" 24h form.
type TimeSlot struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

// DaySchedule lists the slots offered on one weekday.
type DaySchedule struct {
	DayOfWeek int        `bson:"dayOfWeek" json:"dayOfWeek"` // 0 = Sunday ... 6 = Saturday
	Slots     []TimeSlot `bson:"slots" json:"slots"`
}

// WeeklyAvailability is a doctor's recurring schedule, at most one entry per weekday.
type WeeklyAvailability []DaySchedule
