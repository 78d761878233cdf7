package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

func TestBuildCandidateSetsRestrictsRoomsByDepartment(t *testing.T) {
	pool := &ResourcePool{
		Classes:   []models.Class{{ID: 1, DepartmentID: 1}, {ID: 2, DepartmentID: 2}},
		Subjects:  []models.Subject{{ID: 1, RequiredRoomType: strPtr("lab")}},
		Rooms:     []models.Room{{ID: 1, Type: "lab"}, {ID: 2, Type: "lab"}},
		TimeSlots: []models.TimeSlot{{ID: 100}},
		RoomDepartments: []models.RoomDepartment{
			{RoomID: 1, DepartmentID: 1},
		},
	}

	cs := BuildCandidateSets(pool)

	dept1Rooms := cs.RoomsFor(1, 1)
	assert.ElementsMatch(t, []int64{1, 2}, dept1Rooms)

	dept2Rooms := cs.RoomsFor(1, 2)
	assert.ElementsMatch(t, []int64{2}, dept2Rooms, "room 1 is restricted to department 1")
}

func TestBuildCandidateSetsTracksQualificationsAndUnavailability(t *testing.T) {
	pool := &ResourcePool{
		Classes:   []models.Class{{ID: 1, DepartmentID: 1}},
		Teachers:  []models.Teacher{{ID: 10}, {ID: 11}},
		Subjects:  []models.Subject{{ID: 1}},
		Rooms:     []models.Room{{ID: 1}},
		TimeSlots: []models.TimeSlot{{ID: 100}, {ID: 101}},
		TeacherSubjects: []models.TeacherSubject{
			{TeacherID: 10, SubjectID: 1},
		},
		TeacherAvailability: []models.TeacherAvailability{
			{TeacherID: 10, TimeSlotID: 100, Available: false},
		},
	}

	cs := BuildCandidateSets(pool)

	assert.True(t, cs.IsQualified(10, 1))
	assert.False(t, cs.IsQualified(11, 1))
	assert.ElementsMatch(t, []int64{10}, cs.TeachersFor(1))
	assert.True(t, cs.IsUnavailable(10, 100))
	assert.False(t, cs.IsUnavailable(10, 101))
}

func TestRoomTypeMatchesNoRequirementAlwaysTrue(t *testing.T) {
	pool := &ResourcePool{
		Subjects: []models.Subject{{ID: 1}}, // no RequiredRoomType
		Rooms:    []models.Room{{ID: 1, Type: "classroom"}},
	}
	cs := BuildCandidateSets(pool)
	assert.True(t, cs.RoomTypeMatches(1, 1))
}
