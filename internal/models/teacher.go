package models

import "time"

// Teacher represents an instructor record. Code is the unique staff
// identifier used across imports and exports; NIP is the separate,
// optional national registration number.
type Teacher struct {
	ID        int64     `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	NIP       *string   `db:"nip" json:"nip,omitempty"`
	Email     string    `db:"email" json:"email"`
	FullName  string    `db:"full_name" json:"full_name"`
	MaxLoad   int       `db:"max_load" json:"max_load"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Search    string
	Active    *bool
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// TeacherSubject links a teacher to a subject they are qualified to teach
// for one academic year; qualifications don't carry forward automatically.
type TeacherSubject struct {
	ID           int64     `db:"id" json:"id"`
	TeacherID    int64     `db:"teacher_id" json:"teacher_id"`
	SubjectID    int64     `db:"subject_id" json:"subject_id"`
	AcademicYear string    `db:"academic_year" json:"academic_year"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// TeacherAvailability records a teacher's blocked (unavailable) time slot.
type TeacherAvailability struct {
	ID         int64     `db:"id" json:"id"`
	TeacherID  int64     `db:"teacher_id" json:"teacher_id"`
	TimeSlotID int64     `db:"time_slot_id" json:"time_slot_id"`
	Available  bool      `db:"available" json:"available"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
