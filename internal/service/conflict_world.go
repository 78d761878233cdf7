package service

import (
	"github.com/noah-isme/sma-adp-api/internal/models"
	"github.com/noah-isme/sma-adp-api/internal/scheduling"
)

// worldView adapts a scheduling.ResourcePool and one schedule's current
// lesson assignments to the read-only lookups conflict.Detect and
// conflict.Resolver need, so neither package talks to repositories
// directly.
type worldView struct {
	details []models.ScheduleDetail

	subjectByID map[int64]models.Subject
	roomByID    map[int64]models.Room
	roomsByType map[string][]int64
	timeSlotIDs []int64
	qualified   map[int64][]int64 // subjectID -> teacherIDs

	detailByID map[int64]models.ScheduleDetail
}

func newWorldView(pool *scheduling.ResourcePool, details []models.ScheduleDetail) *worldView {
	w := &worldView{
		details:     details,
		subjectByID: make(map[int64]models.Subject, len(pool.Subjects)),
		roomByID:    make(map[int64]models.Room, len(pool.Rooms)),
		roomsByType: make(map[string][]int64),
		qualified:   make(map[int64][]int64),
		detailByID:  make(map[int64]models.ScheduleDetail, len(details)),
	}

	for _, subj := range pool.Subjects {
		w.subjectByID[subj.ID] = subj
	}
	for _, room := range pool.Rooms {
		w.roomByID[room.ID] = room
		w.roomsByType[room.Type] = append(w.roomsByType[room.Type], room.ID)
	}
	for _, slot := range pool.TimeSlots {
		w.timeSlotIDs = append(w.timeSlotIDs, slot.ID)
	}
	for _, ts := range pool.TeacherSubjects {
		w.qualified[ts.SubjectID] = append(w.qualified[ts.SubjectID], ts.TeacherID)
	}
	for _, d := range details {
		w.detailByID[d.ID] = d
	}
	return w
}

// SubjectRoomType satisfies conflict.RoomTyper.
func (w *worldView) SubjectRoomType(subjectID int64) (string, bool) {
	subj, ok := w.subjectByID[subjectID]
	if !ok || subj.RequiredRoomType == nil {
		return "", false
	}
	return *subj.RequiredRoomType, true
}

// RoomType satisfies conflict.RoomTyper.
func (w *worldView) RoomType(roomID int64) (string, bool) {
	room, ok := w.roomByID[roomID]
	if !ok {
		return "", false
	}
	return room.Type, true
}

// RoomsOfType satisfies conflict.World.
func (w *worldView) RoomsOfType(roomType string) []int64 {
	return w.roomsByType[roomType]
}

// TimeSlotIDs satisfies conflict.World.
func (w *worldView) TimeSlotIDs() []int64 {
	return w.timeSlotIDs
}

// TeachersQualifiedFor satisfies conflict.World.
func (w *worldView) TeachersQualifiedFor(subjectID int64) []int64 {
	return w.qualified[subjectID]
}

// DetailByID satisfies conflict.World.
func (w *worldView) DetailByID(id int64) (models.ScheduleDetail, bool) {
	d, ok := w.detailByID[id]
	return d, ok
}

// DetailsAt satisfies conflict.World.
func (w *worldView) DetailsAt(scheduleID, timeSlotID int64) []models.ScheduleDetail {
	var out []models.ScheduleDetail
	for _, d := range w.details {
		if d.ScheduleID == scheduleID && d.TimeSlotID == timeSlotID {
			out = append(out, d)
		}
	}
	return out
}
