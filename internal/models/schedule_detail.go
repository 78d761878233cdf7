package models

import "time"

// ScheduleDetail is a single assigned lesson: one class/subject/teacher/
// room/time-slot tuple belonging to a Schedule.
type ScheduleDetail struct {
	ID               int64     `db:"id" json:"id"`
	ScheduleID       int64     `db:"schedule_id" json:"schedule_id"`
	ClassID          int64     `db:"class_id" json:"class_id"`
	SubjectID        int64     `db:"subject_id" json:"subject_id"`
	TeacherID        int64     `db:"teacher_id" json:"teacher_id"`
	RoomID           int64     `db:"room_id" json:"room_id"`
	TimeSlotID       int64     `db:"time_slot_id" json:"time_slot_id"`
	IsManuallyEdited bool      `db:"is_manually_edited" json:"is_manually_edited"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// ScheduleDetailFilter describes query params for listing schedule details.
type ScheduleDetailFilter struct {
	ScheduleID int64
	ClassID    int64
	TeacherID  int64
	RoomID     int64
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// ScheduleDetailUpdate is a partial update applied by a manual edit or a
// resolver action. Nil fields are left unchanged.
type ScheduleDetailUpdate struct {
	TeacherID  *int64
	RoomID     *int64
	TimeSlotID *int64
}
