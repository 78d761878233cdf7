package conflict

import (
	"context"
	"fmt"

	"github.com/noah-isme/sma-adp-api/internal/models"
	appErrors "github.com/noah-isme/sma-adp-api/pkg/errors"
)

// ActionKind names the repair move a Resolution proposes.
type ActionKind string

const (
	ActionChangeRoom    ActionKind = "CHANGE_ROOM"
	ActionChangeTime    ActionKind = "CHANGE_TIME"
	ActionChangeTeacher ActionKind = "CHANGE_TEACHER"
	ActionRemoveLesson  ActionKind = "REMOVE_LESSON"
)

// Resolution is one candidate repair for a single conflict, targeting one
// of its two details.
type Resolution struct {
	ID        string
	DetailID  int64
	Action    ActionKind
	RoomID    int64 // set for ActionChangeRoom
	TimeSlot  int64 // set for ActionChangeTime
	TeacherID int64 // set for ActionChangeTeacher
}

// World exposes the lookups Propose needs over the current resource
// snapshot and persisted detail set, kept read-only and side-effect free.
type World interface {
	RoomTyper
	RoomsOfType(roomType string) []int64
	TimeSlotIDs() []int64
	TeachersQualifiedFor(subjectID int64) []int64
	DetailByID(id int64) (models.ScheduleDetail, bool)
	DetailsAt(scheduleID, timeSlotID int64) []models.ScheduleDetail
}

// Resolver proposes legal repair moves for conflicts and applies the one
// chosen by the caller.
type Resolver struct {
	world  World
	update func(ctx context.Context, id int64, patch models.ScheduleDetailUpdate) error
	remove func(ctx context.Context, id int64) error
}

// NewResolver constructs a Resolver bound to the given world view and
// persistence callbacks.
func NewResolver(world World, update func(ctx context.Context, id int64, patch models.ScheduleDetailUpdate) error, remove func(ctx context.Context, id int64) error) *Resolver {
	return &Resolver{world: world, update: update, remove: remove}
}

// Propose enumerates an ordered list of candidate repairs for one conflict,
// removal always last.
func (r *Resolver) Propose(c models.ScheduleConflict) []Resolution {
	var proposals []Resolution

	switch c.Dimension {
	case models.ConflictRoom:
		for _, detailID := range []int64{c.DetailAID, c.DetailBID} {
			proposals = append(proposals, r.roomMoves(c.ScheduleID, detailID)...)
		}
	case models.ConflictTeacher:
		for _, detailID := range []int64{c.DetailAID, c.DetailBID} {
			proposals = append(proposals, r.teacherMoves(c.ScheduleID, detailID)...)
			proposals = append(proposals, r.timeMoves(c.ScheduleID, detailID)...)
		}
	case models.ConflictClass:
		proposals = append(proposals, r.timeMoves(c.ScheduleID, c.DetailAID)...)
	case models.ConflictRoomType:
		proposals = append(proposals, r.roomMoves(c.ScheduleID, c.DetailAID)...)
	}

	for _, detailID := range []int64{c.DetailAID, c.DetailBID} {
		if detailID == 0 {
			continue
		}
		proposals = append(proposals, Resolution{
			ID:       resolutionID(c, ActionRemoveLesson, detailID),
			DetailID: detailID,
			Action:   ActionRemoveLesson,
		})
	}

	return proposals
}

func (r *Resolver) roomMoves(scheduleID, detailID int64) []Resolution {
	detail, ok := r.world.DetailByID(detailID)
	if !ok {
		return nil
	}
	roomType, ok := r.world.SubjectRoomType(detail.SubjectID)
	if !ok {
		return nil
	}
	var proposals []Resolution
	for _, roomID := range r.world.RoomsOfType(roomType) {
		if roomInUse(r.world.DetailsAt(scheduleID, detail.TimeSlotID), roomID, detailID) {
			continue
		}
		proposals = append(proposals, Resolution{
			ID:       fmt.Sprintf("room-%d-%d-%d", scheduleID, detailID, roomID),
			DetailID: detailID,
			Action:   ActionChangeRoom,
			RoomID:   roomID,
		})
	}
	return proposals
}

func (r *Resolver) teacherMoves(scheduleID, detailID int64) []Resolution {
	detail, ok := r.world.DetailByID(detailID)
	if !ok {
		return nil
	}
	var proposals []Resolution
	for _, teacherID := range r.world.TeachersQualifiedFor(detail.SubjectID) {
		if teacherBusy(r.world.DetailsAt(scheduleID, detail.TimeSlotID), teacherID, detailID) {
			continue
		}
		proposals = append(proposals, Resolution{
			ID:        fmt.Sprintf("teacher-%d-%d-%d", scheduleID, detailID, teacherID),
			DetailID:  detailID,
			Action:    ActionChangeTeacher,
			TeacherID: teacherID,
		})
	}
	return proposals
}

func (r *Resolver) timeMoves(scheduleID, detailID int64) []Resolution {
	detail, ok := r.world.DetailByID(detailID)
	if !ok {
		return nil
	}
	var proposals []Resolution
	for _, slotID := range r.world.TimeSlotIDs() {
		if slotID == detail.TimeSlotID {
			continue
		}
		occupants := r.world.DetailsAt(scheduleID, slotID)
		if teacherBusy(occupants, detail.TeacherID, detailID) || roomInUse(occupants, detail.RoomID, detailID) {
			continue
		}
		proposals = append(proposals, Resolution{
			ID:       fmt.Sprintf("time-%d-%d-%d", scheduleID, detailID, slotID),
			DetailID: detailID,
			Action:   ActionChangeTime,
			TimeSlot: slotID,
		})
	}
	return proposals
}

func roomInUse(occupants []models.ScheduleDetail, roomID, excludeDetailID int64) bool {
	for _, o := range occupants {
		if o.ID != excludeDetailID && o.RoomID == roomID {
			return true
		}
	}
	return false
}

func teacherBusy(occupants []models.ScheduleDetail, teacherID, excludeDetailID int64) bool {
	for _, o := range occupants {
		if o.ID != excludeDetailID && o.TeacherID == teacherID {
			return true
		}
	}
	return false
}

func resolutionID(c models.ScheduleConflict, action ActionKind, detailID int64) string {
	return fmt.Sprintf("%s-%d-%d-%d", action, c.ScheduleID, detailID, c.ID)
}

// Apply transactionally updates or removes the target detail and marks it
// manually edited. It fails with FeasibilityViolated if, by the time this
// runs, a new detail has appeared in the destination slot that would
// recreate the conflict the resolution was meant to fix.
func (r *Resolver) Apply(ctx context.Context, scheduleID int64, res Resolution) error {
	detail, ok := r.world.DetailByID(res.DetailID)
	if !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "schedule detail not found")
	}

	switch res.Action {
	case ActionRemoveLesson:
		return r.remove(ctx, res.DetailID)

	case ActionChangeRoom:
		if roomInUse(r.world.DetailsAt(scheduleID, detail.TimeSlotID), res.RoomID, res.DetailID) {
			return appErrors.Clone(appErrors.ErrFeasibilityViolated, "target room is no longer free in this time slot")
		}
		return r.update(ctx, res.DetailID, models.ScheduleDetailUpdate{RoomID: &res.RoomID})

	case ActionChangeTeacher:
		if teacherBusy(r.world.DetailsAt(scheduleID, detail.TimeSlotID), res.TeacherID, res.DetailID) {
			return appErrors.Clone(appErrors.ErrFeasibilityViolated, "target teacher is no longer free in this time slot")
		}
		return r.update(ctx, res.DetailID, models.ScheduleDetailUpdate{TeacherID: &res.TeacherID})

	case ActionChangeTime:
		occupants := r.world.DetailsAt(scheduleID, res.TimeSlot)
		if teacherBusy(occupants, detail.TeacherID, res.DetailID) || roomInUse(occupants, detail.RoomID, res.DetailID) {
			return appErrors.Clone(appErrors.ErrFeasibilityViolated, "target time slot is no longer free")
		}
		return r.update(ctx, res.DetailID, models.ScheduleDetailUpdate{TimeSlotID: &res.TimeSlot})
	}

	return appErrors.Clone(appErrors.ErrValidation, "unknown resolution action")
}
