package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-api/internal/conflict"
	"github.com/noah-isme/sma-adp-api/internal/models"
)

type fakeScheduleReader struct {
	schedules map[int64]*models.Schedule
}

func (f *fakeScheduleReader) FindByID(ctx context.Context, id int64) (*models.Schedule, error) {
	if s, ok := f.schedules[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

type fakeDetailReader struct {
	byID       map[int64]*models.ScheduleDetail
	bySchedule []models.ScheduleDetail
	updates    map[int64]models.ScheduleDetailUpdate
	removed    []int64
}

func (f *fakeDetailReader) ListByScheduleID(ctx context.Context, scheduleID int64) ([]models.ScheduleDetail, error) {
	return f.bySchedule, nil
}

func (f *fakeDetailReader) FindByID(ctx context.Context, id int64) (*models.ScheduleDetail, error) {
	if d, ok := f.byID[id]; ok {
		return d, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeDetailReader) Update(ctx context.Context, id int64, patch models.ScheduleDetailUpdate) error {
	if f.updates == nil {
		f.updates = make(map[int64]models.ScheduleDetailUpdate)
	}
	f.updates[id] = patch
	return nil
}

func (f *fakeDetailReader) Delete(ctx context.Context, id int64) error {
	f.removed = append(f.removed, id)
	return nil
}

type fakeConflictRepo struct {
	replaced map[int64][]models.ScheduleConflict
	byID     map[int64]*models.ScheduleConflict
	resolved []int64
}

func (f *fakeConflictRepo) List(ctx context.Context, filter models.ScheduleConflictFilter) ([]models.ScheduleConflict, int, error) {
	return nil, 0, nil
}

func (f *fakeConflictRepo) FindByID(ctx context.Context, id int64) (*models.ScheduleConflict, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeConflictRepo) ReplaceAll(ctx context.Context, scheduleID int64, conflicts []models.ScheduleConflict) error {
	if f.replaced == nil {
		f.replaced = make(map[int64][]models.ScheduleConflict)
	}
	f.replaced[scheduleID] = conflicts
	return nil
}

func (f *fakeConflictRepo) MarkResolved(ctx context.Context, id int64) error {
	f.resolved = append(f.resolved, id)
	return nil
}

type fakeClassReader struct{ rows []models.Class }

func (f fakeClassReader) ListForYear(ctx context.Context, year string) ([]models.Class, error) {
	return f.rows, nil
}

type fakeTeacherReader struct {
	rows      []models.Teacher
	subjects  map[int64][]models.TeacherSubject
	available map[int64][]models.TeacherAvailability
}

func (f fakeTeacherReader) ListAll(ctx context.Context) ([]models.Teacher, error) { return f.rows, nil }
func (f fakeTeacherReader) ListSubjects(ctx context.Context, teacherID int64, academicYear string) ([]models.TeacherSubject, error) {
	return f.subjects[teacherID], nil
}
func (f fakeTeacherReader) ListAvailability(ctx context.Context, teacherID int64) ([]models.TeacherAvailability, error) {
	return f.available[teacherID], nil
}

type fakeSubjectReader struct{ rows []models.Subject }

func (f fakeSubjectReader) ListAll(ctx context.Context) ([]models.Subject, error) { return f.rows, nil }

type fakeRoomReader struct {
	rows        []models.Room
	departments map[int64][]models.RoomDepartment
}

func (f fakeRoomReader) ListAll(ctx context.Context) ([]models.Room, error) { return f.rows, nil }
func (f fakeRoomReader) ListDepartments(ctx context.Context, roomID int64) ([]models.RoomDepartment, error) {
	return f.departments[roomID], nil
}

type fakeTimeSlotReader struct{ rows []models.TimeSlot }

func (f fakeTimeSlotReader) ListAll(ctx context.Context) ([]models.TimeSlot, error) { return f.rows, nil }

type fakeCurriculumReader struct{ rows []models.Curriculum }

func (f fakeCurriculumReader) ListForYear(ctx context.Context, year string) ([]models.Curriculum, error) {
	return f.rows, nil
}

func newFixtureService(scheduleID int64, details []models.ScheduleDetail, conflicts *fakeConflictRepo) *ConflictService {
	schedules := &fakeScheduleReader{schedules: map[int64]*models.Schedule{
		scheduleID: {ID: scheduleID, AcademicYear: "2026/2027"},
	}}
	detailByID := make(map[int64]*models.ScheduleDetail, len(details))
	for i := range details {
		detailByID[details[i].ID] = &details[i]
	}
	detailRepo := &fakeDetailReader{byID: detailByID, bySchedule: details}

	classes := fakeClassReader{rows: []models.Class{{ID: 1, AcademicYear: "2026/2027"}}}
	teachers := fakeTeacherReader{rows: []models.Teacher{{ID: 10, Active: true}, {ID: 11, Active: true}}}
	subjects := fakeSubjectReader{rows: []models.Subject{{ID: 100}}}
	rooms := fakeRoomReader{rows: []models.Room{{ID: 1, Type: "CLASSROOM"}, {ID: 2, Type: "CLASSROOM"}}}
	slots := fakeTimeSlotReader{rows: []models.TimeSlot{{ID: 5}, {ID: 6}}}
	curricula := fakeCurriculumReader{}

	return NewConflictService(schedules, detailRepo, conflicts, classes, teachers, subjects, rooms, slots, curricula, nil, zap.NewNop())
}

func TestConflictServiceDetectPersistsFoundConflicts(t *testing.T) {
	details := []models.ScheduleDetail{
		{ID: 1, ScheduleID: 1, TeacherID: 10, ClassID: 1, RoomID: 1, TimeSlotID: 5},
		{ID: 2, ScheduleID: 1, TeacherID: 10, ClassID: 2, RoomID: 2, TimeSlotID: 5},
	}
	conflicts := &fakeConflictRepo{}
	svc := newFixtureService(1, details, conflicts)

	found, cacheHit, err := svc.Detect(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, cacheHit)
	assert.Len(t, found, 1)
	assert.Equal(t, models.ConflictTeacher, found[0].Dimension)
	assert.Len(t, conflicts.replaced[1], 1)
}

func TestConflictServiceDetectScheduleNotFound(t *testing.T) {
	conflicts := &fakeConflictRepo{}
	svc := newFixtureService(1, nil, conflicts)
	_, _, err := svc.Detect(context.Background(), 99)
	require.Error(t, err)
}

func TestConflictServiceProposeOrdersRemovalLast(t *testing.T) {
	details := []models.ScheduleDetail{
		{ID: 1, ScheduleID: 1, SubjectID: 100, TeacherID: 10, ClassID: 1, RoomID: 1, TimeSlotID: 5},
		{ID: 2, ScheduleID: 1, SubjectID: 100, TeacherID: 11, ClassID: 2, RoomID: 1, TimeSlotID: 5},
	}
	existingConflict := models.ScheduleConflict{ID: 7, ScheduleID: 1, DetailAID: 1, DetailBID: 2, Dimension: models.ConflictRoom}
	conflicts := &fakeConflictRepo{byID: map[int64]*models.ScheduleConflict{7: &existingConflict}}
	svc := newFixtureService(1, details, conflicts)

	proposals, err := svc.Propose(context.Background(), 1, 7)
	require.NoError(t, err)
	require.NotEmpty(t, proposals)
	assert.Equal(t, conflict.ActionRemoveLesson, proposals[len(proposals)-1].Action)
}

func TestConflictServiceApplyMarksResolved(t *testing.T) {
	details := []models.ScheduleDetail{
		{ID: 1, ScheduleID: 1, SubjectID: 100, TeacherID: 10, ClassID: 1, RoomID: 1, TimeSlotID: 5},
	}
	existingConflict := models.ScheduleConflict{ID: 7, ScheduleID: 1, DetailAID: 1, Dimension: models.ConflictRoomType}
	conflicts := &fakeConflictRepo{byID: map[int64]*models.ScheduleConflict{7: &existingConflict}}
	svc := newFixtureService(1, details, conflicts)

	err := svc.Apply(context.Background(), 1, 7, conflict.Resolution{DetailID: 1, Action: conflict.ActionChangeRoom, RoomID: 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{7}, conflicts.resolved)
}
