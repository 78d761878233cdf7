package models

import "time"

// Subject represents a teachable subject, optionally requiring a specific
// room type. Weekly hour counts live on Curriculum, not here, since the
// same subject can require a different load per department/grade.
// DepartmentID, when set, restricts the subject to one department
// (a departmental subject); left unset it is generic and open to every
// department at the grade level curriculum assigns it to.
type Subject struct {
	ID               int64     `db:"id" json:"id"`
	Code             string    `db:"code" json:"code"`
	Name             string    `db:"name" json:"name"`
	GradeLevel       int       `db:"grade_level" json:"grade_level"`
	DepartmentID     *int64    `db:"department_id" json:"department_id,omitempty"`
	IsCompulsory     bool      `db:"is_compulsory" json:"is_compulsory"`
	RequiredRoomType *string   `db:"required_room_type" json:"required_room_type,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	RequiredRoomType string
	DepartmentID     int64
	GradeLevel       int
	Search           string
	Page             int
	PageSize         int
	SortBy           string
	SortOrder        string
}
