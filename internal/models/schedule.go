package models

import "time"

// ScheduleStatus tracks the lifecycle of a generation run's owning record.
type ScheduleStatus string

const (
	ScheduleStatusDraft     ScheduleStatus = "DRAFT"
	ScheduleStatusRunning   ScheduleStatus = "RUNNING"
	ScheduleStatusCompleted ScheduleStatus = "COMPLETED"
	ScheduleStatusFailed    ScheduleStatus = "FAILED"
)

// Schedule is the top-level container for one academic year's timetable.
type Schedule struct {
	ID           int64          `db:"id" json:"id"`
	AcademicYear string         `db:"academic_year" json:"academic_year"`
	Name         string         `db:"name" json:"name"`
	Status       ScheduleStatus `db:"status" json:"status"`
	BestFitness  *float64       `db:"best_fitness" json:"best_fitness,omitempty"`
	Generations  int            `db:"generations" json:"generations"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// ScheduleFilter describes query params for listing schedules.
type ScheduleFilter struct {
	AcademicYear string
	Status       ScheduleStatus
	Page         int
	PageSize     int
	SortBy       string
	SortOrder    string
}
