package scheduling

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-api/internal/models"
	appErrors "github.com/noah-isme/sma-adp-api/pkg/errors"
)

type fakeClassReader struct{ classes []models.Class }

func (f *fakeClassReader) ListForYear(ctx context.Context, academicYear string) ([]models.Class, error) {
	return f.classes, nil
}

type fakePoolTeacherReader struct {
	teachers     []models.Teacher
	subjects     map[int64][]models.TeacherSubject
	availability map[int64][]models.TeacherAvailability
}

func (f *fakePoolTeacherReader) ListAll(ctx context.Context) ([]models.Teacher, error) {
	return f.teachers, nil
}

func (f *fakePoolTeacherReader) ListSubjects(ctx context.Context, teacherID int64, academicYear string) ([]models.TeacherSubject, error) {
	return f.subjects[teacherID], nil
}

func (f *fakePoolTeacherReader) ListAvailability(ctx context.Context, teacherID int64) ([]models.TeacherAvailability, error) {
	return f.availability[teacherID], nil
}

type fakeSubjectReader struct{ subjects []models.Subject }

func (f *fakeSubjectReader) ListAll(ctx context.Context) ([]models.Subject, error) {
	return f.subjects, nil
}

type fakePoolRoomReader struct {
	rooms       []models.Room
	departments map[int64][]models.RoomDepartment
}

func (f *fakePoolRoomReader) ListAll(ctx context.Context) ([]models.Room, error) {
	return f.rooms, nil
}

func (f *fakePoolRoomReader) ListDepartments(ctx context.Context, roomID int64) ([]models.RoomDepartment, error) {
	return f.departments[roomID], nil
}

type fakeTimeSlotReader struct{ slots []models.TimeSlot }

func (f *fakeTimeSlotReader) ListAll(ctx context.Context) ([]models.TimeSlot, error) {
	return f.slots, nil
}

type fakeCurriculumReader struct{ rows []models.Curriculum }

func (f *fakeCurriculumReader) ListForYear(ctx context.Context, academicYear string) ([]models.Curriculum, error) {
	return f.rows, nil
}

func TestLoadResourcePoolFailsWhenNoTeacherQualifiedForSubject(t *testing.T) {
	ctx := context.Background()
	classes := &fakeClassReader{classes: []models.Class{{ID: 1, DepartmentID: 1, GradeLevel: 10}}}
	teachers := &fakePoolTeacherReader{teachers: []models.Teacher{{ID: 10}}}
	subjects := &fakeSubjectReader{subjects: []models.Subject{{ID: 1, Name: "Math"}}}
	rooms := &fakePoolRoomReader{rooms: []models.Room{{ID: 1, Type: "classroom"}}}
	slots := &fakeTimeSlotReader{slots: []models.TimeSlot{{ID: 100}}}
	curricula := &fakeCurriculumReader{rows: []models.Curriculum{
		{ID: 1, DepartmentID: 1, GradeLevel: 10, SubjectID: 1, WeeklyHours: 3},
	}}

	_, err := LoadResourcePool(ctx, "2026/2027", classes, teachers, subjects, rooms, slots, curricula, zap.NewNop())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInsufficientResources.Code, appErr.Code)
}

func TestLoadResourcePoolFailsWhenNoRoomOfRequiredType(t *testing.T) {
	ctx := context.Background()
	classes := &fakeClassReader{classes: []models.Class{{ID: 1, DepartmentID: 1, GradeLevel: 10}}}
	teachers := &fakePoolTeacherReader{
		teachers: []models.Teacher{{ID: 10}},
		subjects: map[int64][]models.TeacherSubject{10: {{TeacherID: 10, SubjectID: 1}}},
	}
	subjects := &fakeSubjectReader{subjects: []models.Subject{{ID: 1, Name: "Chemistry", RequiredRoomType: strPtr("lab")}}}
	rooms := &fakePoolRoomReader{rooms: []models.Room{{ID: 1, Type: "classroom"}}}
	slots := &fakeTimeSlotReader{slots: []models.TimeSlot{{ID: 100}}}
	curricula := &fakeCurriculumReader{rows: []models.Curriculum{
		{ID: 1, DepartmentID: 1, GradeLevel: 10, SubjectID: 1, WeeklyHours: 3},
	}}

	_, err := LoadResourcePool(ctx, "2026/2027", classes, teachers, subjects, rooms, slots, curricula, zap.NewNop())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInsufficientResources.Code, appErr.Code)
}

func TestLoadResourcePoolSucceedsWithMatchingRoomType(t *testing.T) {
	ctx := context.Background()
	classes := &fakeClassReader{classes: []models.Class{{ID: 1, DepartmentID: 1, GradeLevel: 10}}}
	teachers := &fakePoolTeacherReader{
		teachers: []models.Teacher{{ID: 10}},
		subjects: map[int64][]models.TeacherSubject{10: {{TeacherID: 10, SubjectID: 1}}},
	}
	subjects := &fakeSubjectReader{subjects: []models.Subject{{ID: 1, Name: "Chemistry", RequiredRoomType: strPtr("lab")}}}
	rooms := &fakePoolRoomReader{rooms: []models.Room{{ID: 1, Type: "lab"}}}
	slots := &fakeTimeSlotReader{slots: []models.TimeSlot{{ID: 100}}}
	curricula := &fakeCurriculumReader{rows: []models.Curriculum{
		{ID: 1, DepartmentID: 1, GradeLevel: 10, SubjectID: 1, WeeklyHours: 3},
	}}

	pool, err := LoadResourcePool(ctx, "2026/2027", classes, teachers, subjects, rooms, slots, curricula, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, pool.Curricula, 1)
}

func TestLoadResourcePoolFailsWhenNoClasses(t *testing.T) {
	ctx := context.Background()
	classes := &fakeClassReader{}
	teachers := &fakePoolTeacherReader{}
	subjects := &fakeSubjectReader{}
	rooms := &fakePoolRoomReader{rooms: []models.Room{{ID: 1}}}
	slots := &fakeTimeSlotReader{slots: []models.TimeSlot{{ID: 100}}}
	curricula := &fakeCurriculumReader{}

	_, err := LoadResourcePool(ctx, "2026/2027", classes, teachers, subjects, rooms, slots, curricula, zap.NewNop())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInsufficientResources.Code, appErr.Code)
}
