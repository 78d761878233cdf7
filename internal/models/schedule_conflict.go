package models

import "time"

// ConflictDimension names the resource a conflict collides on.
type ConflictDimension string

const (
	ConflictTeacher  ConflictDimension = "TEACHER"
	ConflictClass    ConflictDimension = "CLASS"
	ConflictRoom     ConflictDimension = "ROOM"
	ConflictRoomType ConflictDimension = "ROOM_TYPE"
)

// ConflictStatus tracks whether a conflict has been resolved.
type ConflictStatus string

const (
	ConflictStatusOpen     ConflictStatus = "OPEN"
	ConflictStatusResolved ConflictStatus = "RESOLVED"
)

// ScheduleConflict is a pairwise collision between two ScheduleDetail rows
// sharing a time slot and the same resource along one dimension.
// Fingerprint is a deterministic key over (sorted detail ids, dimension):
// repeated detection passes over an unchanged detail set resolve to the
// same fingerprint, which ReplaceAll uses to upsert rather than reissue ids.
type ScheduleConflict struct {
	ID          int64             `db:"id" json:"id"`
	ScheduleID  int64             `db:"schedule_id" json:"schedule_id"`
	DetailAID   int64             `db:"detail_a_id" json:"detail_a_id"`
	DetailBID   int64             `db:"detail_b_id" json:"detail_b_id"`
	Dimension   ConflictDimension `db:"dimension" json:"dimension"`
	Fingerprint string            `db:"fingerprint" json:"-"`
	Status      ConflictStatus    `db:"status" json:"status"`
	Description string            `db:"description" json:"description"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

// ScheduleConflictFilter describes query params for listing conflicts.
type ScheduleConflictFilter struct {
	ScheduleID int64
	Status     ConflictStatus
	Dimension  ConflictDimension
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
