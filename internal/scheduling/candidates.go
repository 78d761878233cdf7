package scheduling

import "github.com/noah-isme/sma-adp-api/internal/models"

// CandidateSets precomputes, once per run, the legal teacher/room/time-slot
// choices a gene may take. Precomputing these up front keeps the hot loop
// (initialization, mutation) free of repository lookups.
type CandidateSets struct {
	teachersForSubject map[int64][]int64
	allTimeSlotIDs     []int64

	classDepartment map[int64]int64
	subjectByID     map[int64]models.Subject
	roomByID        map[int64]models.Room
	teacherByID     map[int64]models.Teacher

	qualified     map[int64]map[int64]bool // teacherID -> subjectID -> true
	unavailable   map[int64]map[int64]bool // teacherID -> timeSlotID -> true
	roomDeptAllow map[int64]map[int64]bool // roomID -> departmentID -> true (absent roomID entirely = unrestricted)
}

// BuildCandidateSets derives lookup structures from a ResourcePool. Room
// eligibility for a subject intersects room type with any department
// restriction the requesting class is subject to.
func BuildCandidateSets(pool *ResourcePool) *CandidateSets {
	cs := &CandidateSets{
		teachersForSubject: make(map[int64][]int64),
		classDepartment:    make(map[int64]int64, len(pool.Classes)),
		subjectByID:        make(map[int64]models.Subject, len(pool.Subjects)),
		roomByID:           make(map[int64]models.Room, len(pool.Rooms)),
		teacherByID:        make(map[int64]models.Teacher, len(pool.Teachers)),
		qualified:          make(map[int64]map[int64]bool),
		unavailable:        make(map[int64]map[int64]bool),
		roomDeptAllow:      make(map[int64]map[int64]bool),
	}

	for _, c := range pool.Classes {
		cs.classDepartment[c.ID] = c.DepartmentID
	}
	for _, s := range pool.Subjects {
		cs.subjectByID[s.ID] = s
	}
	for _, r := range pool.Rooms {
		cs.roomByID[r.ID] = r
	}
	for _, t := range pool.Teachers {
		cs.teacherByID[t.ID] = t
	}

	for _, ts := range pool.TeacherSubjects {
		if cs.qualified[ts.TeacherID] == nil {
			cs.qualified[ts.TeacherID] = make(map[int64]bool)
		}
		cs.qualified[ts.TeacherID][ts.SubjectID] = true

		cs.teachersForSubject[ts.SubjectID] = append(cs.teachersForSubject[ts.SubjectID], ts.TeacherID)
	}

	for _, a := range pool.TeacherAvailability {
		if a.Available {
			continue
		}
		if cs.unavailable[a.TeacherID] == nil {
			cs.unavailable[a.TeacherID] = make(map[int64]bool)
		}
		cs.unavailable[a.TeacherID][a.TimeSlotID] = true
	}

	for _, rd := range pool.RoomDepartments {
		if cs.roomDeptAllow[rd.RoomID] == nil {
			cs.roomDeptAllow[rd.RoomID] = make(map[int64]bool)
		}
		cs.roomDeptAllow[rd.RoomID][rd.DepartmentID] = true
	}

	for _, slot := range pool.TimeSlots {
		cs.allTimeSlotIDs = append(cs.allTimeSlotIDs, slot.ID)
	}

	return cs
}

// TeachersFor returns the candidate teacher ids qualified for a subject.
func (cs *CandidateSets) TeachersFor(subjectID int64) []int64 {
	return cs.teachersForSubject[subjectID]
}

// RoomsFor returns the candidate room ids for a subject, further restricted
// to rooms the requesting class's department is allowed to use.
func (cs *CandidateSets) RoomsFor(subjectID, classDepartmentID int64) []int64 {
	subject, ok := cs.subjectByID[subjectID]
	if !ok {
		return nil
	}
	var out []int64
	for _, room := range cs.roomByID {
		if subject.RequiredRoomType != nil && room.Type != *subject.RequiredRoomType {
			continue
		}
		if allowed := cs.roomDeptAllow[room.ID]; len(allowed) > 0 && !allowed[classDepartmentID] {
			continue
		}
		out = append(out, room.ID)
	}
	return out
}

// AllTimeSlotIDs returns every configured time slot id.
func (cs *CandidateSets) AllTimeSlotIDs() []int64 {
	return cs.allTimeSlotIDs
}

// ClassDepartment resolves the department a class belongs to.
func (cs *CandidateSets) ClassDepartment(classID int64) int64 {
	return cs.classDepartment[classID]
}

// IsQualified reports whether teacherID holds a qualification for subjectID.
func (cs *CandidateSets) IsQualified(teacherID, subjectID int64) bool {
	return cs.qualified[teacherID][subjectID]
}

// IsUnavailable reports whether teacherID is marked unavailable for timeSlotID.
func (cs *CandidateSets) IsUnavailable(teacherID, timeSlotID int64) bool {
	return cs.unavailable[teacherID][timeSlotID]
}

// RoomTypeMatches reports whether room's type satisfies subject's required type.
func (cs *CandidateSets) RoomTypeMatches(roomID, subjectID int64) bool {
	subject, ok := cs.subjectByID[subjectID]
	if !ok || subject.RequiredRoomType == nil {
		return true
	}
	room, ok := cs.roomByID[roomID]
	if !ok {
		return false
	}
	return room.Type == *subject.RequiredRoomType
}

// RoomAllowedForDepartment reports whether roomID carries no department
// restriction, or explicitly allows departmentID.
func (cs *CandidateSets) RoomAllowedForDepartment(roomID, departmentID int64) bool {
	allowed, restricted := cs.roomDeptAllow[roomID]
	if !restricted || len(allowed) == 0 {
		return true
	}
	return allowed[departmentID]
}
