package conflict

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

type fakeRoomTyper struct {
	subjectRoomType map[int64]string
	roomType        map[int64]string
}

func (f fakeRoomTyper) SubjectRoomType(subjectID int64) (string, bool) {
	rt, ok := f.subjectRoomType[subjectID]
	return rt, ok
}

func (f fakeRoomTyper) RoomType(roomID int64) (string, bool) {
	rt, ok := f.roomType[roomID]
	return rt, ok
}

func TestDetectTeacherDoubleBooking(t *testing.T) {
	details := []models.ScheduleDetail{
		{ID: 1, ScheduleID: 1, TeacherID: 10, ClassID: 1, RoomID: 1, TimeSlotID: 5},
		{ID: 2, ScheduleID: 1, TeacherID: 10, ClassID: 2, RoomID: 2, TimeSlotID: 5},
	}
	found := Detect(details, fakeRoomTyper{})
	assert.Len(t, found, 1)
	assert.Equal(t, models.ConflictTeacher, found[0].Dimension)
	assert.Equal(t, int64(1), found[0].DetailAID)
	assert.Equal(t, int64(2), found[0].DetailBID)
}

func TestDetectNoConflictWhenResourcesDiffer(t *testing.T) {
	details := []models.ScheduleDetail{
		{ID: 1, ScheduleID: 1, TeacherID: 10, ClassID: 1, RoomID: 1, TimeSlotID: 5},
		{ID: 2, ScheduleID: 1, TeacherID: 11, ClassID: 2, RoomID: 2, TimeSlotID: 6},
	}
	found := Detect(details, fakeRoomTyper{})
	assert.Empty(t, found)
}

func TestDetectRoomTypeMismatchIsUnary(t *testing.T) {
	details := []models.ScheduleDetail{
		{ID: 1, ScheduleID: 1, SubjectID: 100, TeacherID: 10, ClassID: 1, RoomID: 1, TimeSlotID: 5},
	}
	rt := fakeRoomTyper{
		subjectRoomType: map[int64]string{100: "LAB"},
		roomType:        map[int64]string{1: "CLASSROOM"},
	}
	found := Detect(details, rt)
	assert.Len(t, found, 1)
	assert.Equal(t, models.ConflictRoomType, found[0].Dimension)
	assert.Equal(t, int64(1), found[0].DetailAID)
	assert.Equal(t, int64(0), found[0].DetailBID)
}

func TestDetectClassDoubleBookingOnly(t *testing.T) {
	details := []models.ScheduleDetail{
		{ID: 1, ScheduleID: 1, ClassID: 1, TeacherID: 10, RoomID: 1, TimeSlotID: 5},
		{ID: 2, ScheduleID: 1, ClassID: 1, TeacherID: 11, RoomID: 2, TimeSlotID: 5},
	}
	found := Detect(details, fakeRoomTyper{})
	require := assert.New(t)
	require.Len(found, 1)
	require.Equal(models.ConflictClass, found[0].Dimension)
}

func TestDetectThreeWayBucketEmitsAllPairs(t *testing.T) {
	details := []models.ScheduleDetail{
		{ID: 1, ScheduleID: 1, RoomID: 7, ClassID: 1, TeacherID: 1, TimeSlotID: 5},
		{ID: 2, ScheduleID: 1, RoomID: 7, ClassID: 2, TeacherID: 2, TimeSlotID: 5},
		{ID: 3, ScheduleID: 1, RoomID: 7, ClassID: 3, TeacherID: 3, TimeSlotID: 5},
	}
	found := Detect(details, fakeRoomTyper{})
	roomConflicts := 0
	for _, c := range found {
		if c.Dimension == models.ConflictRoom {
			roomConflicts++
		}
	}
	assert.Equal(t, 3, roomConflicts)
}
