package models

import "time"

// TimeSlot represents one schedulable period within a week.
type TimeSlot struct {
	ID        int64     `db:"id" json:"id"`
	DayOfWeek int       `db:"day_of_week" json:"day_of_week"`
	Period    int       `db:"period" json:"period"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TimeSlotFilter captures filter criteria for listing time slots.
type TimeSlotFilter struct {
	DayOfWeek int
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
