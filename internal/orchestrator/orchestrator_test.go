package orchestrator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-api/internal/broker"
	"github.com/noah-isme/sma-adp-api/internal/models"
)

type fakeClasses struct{ rows []models.Class }

func (f *fakeClasses) ListForYear(ctx context.Context, academicYear string) ([]models.Class, error) {
	return f.rows, nil
}

type fakeTeachers struct {
	rows     []models.Teacher
	subjects map[int64][]models.TeacherSubject
}

func (f *fakeTeachers) ListAll(ctx context.Context) ([]models.Teacher, error) { return f.rows, nil }
func (f *fakeTeachers) ListSubjects(ctx context.Context, teacherID int64, academicYear string) ([]models.TeacherSubject, error) {
	return f.subjects[teacherID], nil
}
func (f *fakeTeachers) ListAvailability(ctx context.Context, teacherID int64) ([]models.TeacherAvailability, error) {
	return nil, nil
}

type fakeSubjects struct{ rows []models.Subject }

func (f *fakeSubjects) ListAll(ctx context.Context) ([]models.Subject, error) { return f.rows, nil }

type fakeRooms struct{ rows []models.Room }

func (f *fakeRooms) ListAll(ctx context.Context) ([]models.Room, error) { return f.rows, nil }
func (f *fakeRooms) ListDepartments(ctx context.Context, roomID int64) ([]models.RoomDepartment, error) {
	return nil, nil
}

type fakeTimeSlots struct{ rows []models.TimeSlot }

func (f *fakeTimeSlots) ListAll(ctx context.Context) ([]models.TimeSlot, error) { return f.rows, nil }

type fakeCurricula struct{ rows []models.Curriculum }

func (f *fakeCurricula) ListForYear(ctx context.Context, academicYear string) ([]models.Curriculum, error) {
	return f.rows, nil
}

type fakeSchedules struct {
	schedule   *models.Schedule
	statuses   []models.ScheduleStatus
	recorded   bool
	bestScore  float64
	generation int
	final      models.ScheduleStatus
}

func (f *fakeSchedules) FindByID(ctx context.Context, id int64) (*models.Schedule, error) {
	return f.schedule, nil
}
func (f *fakeSchedules) UpdateStatus(ctx context.Context, id int64, status models.ScheduleStatus) error {
	f.statuses = append(f.statuses, status)
	return nil
}
func (f *fakeSchedules) RecordRunResult(ctx context.Context, id int64, bestFitness float64, generations int, status models.ScheduleStatus) error {
	f.recorded = true
	f.bestScore = bestFitness
	f.generation = generations
	f.final = status
	return nil
}

type fakeDetails struct {
	replaced []models.ScheduleDetail
}

func (f *fakeDetails) ReplaceAll(ctx context.Context, scheduleID int64, details []models.ScheduleDetail) error {
	f.replaced = details
	return nil
}

func smallOrchestratorFixture() (*Orchestrator, *fakeSchedules, *fakeDetails, *broker.Broker) {
	classes := &fakeClasses{rows: []models.Class{{ID: 1, DepartmentID: 1, GradeLevel: 10}}}
	teachers := &fakeTeachers{
		rows:     []models.Teacher{{ID: 10}, {ID: 11}},
		subjects: map[int64][]models.TeacherSubject{10: {{TeacherID: 10, SubjectID: 1}}, 11: {{TeacherID: 11, SubjectID: 1}}},
	}
	subjects := &fakeSubjects{rows: []models.Subject{{ID: 1, Name: "Math"}}}
	rooms := &fakeRooms{rows: []models.Room{{ID: 1, Type: "classroom"}}}
	slots := &fakeTimeSlots{rows: []models.TimeSlot{{ID: 100}, {ID: 101}}}
	curricula := &fakeCurricula{rows: []models.Curriculum{{ID: 1, DepartmentID: 1, GradeLevel: 10, SubjectID: 1, WeeklyHours: 2}}}
	schedules := &fakeSchedules{schedule: &models.Schedule{ID: 1}}
	details := &fakeDetails{}
	progress := broker.New()

	o := New(classes, teachers, subjects, rooms, slots, curricula, schedules, details, progress, nil, zap.NewNop())
	return o, schedules, details, progress
}

func TestStateOfReturnsIdleForUnknownSchedule(t *testing.T) {
	o, _, _, _ := smallOrchestratorFixture()
	assert.Equal(t, StateIdle, o.StateOf(999))
}

func TestCancelOnUnknownScheduleIsNoop(t *testing.T) {
	o, _, _, _ := smallOrchestratorFixture()
	assert.NotPanics(t, func() { o.Cancel(999) })
}

func TestStartReturnsAlreadyRunningWhileActive(t *testing.T) {
	o, _, _, _ := smallOrchestratorFixture()
	o.runs[1] = &run{state: StateRunning, cancel: func() {}}

	err := o.Start(1, "2026/2027", models.GAParams{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already in progress")
}

func TestExecuteRunsToCompletionAndPublishesEvents(t *testing.T) {
	o, schedules, details, progress := smallOrchestratorFixture()
	events, unsubscribe := progress.Subscribe(1)
	defer unsubscribe()

	params := models.GAParams{
		PopulationSize:  10,
		GenerationCount: 3,
		ElitismCount:    1,
		CrossoverRate:   0.8,
		MutationRate:    0.2,
		TournamentSize:  2,
		HardConstraints: models.HardConstraintFlags{TeacherConflict: true, ClassConflict: true, RoomTypeMatch: true},
		SoftConstraints: models.SoftConstraintFlags{TeacherPreference: true, WorkloadDistribution: true},
	}

	require.NoError(t, o.Start(1, "2026/2027", params))

	lastGeneration := 0
	var sawComplete bool
	deadline := time.After(10 * time.Second)
	for !sawComplete {
		select {
		case evt := <-events:
			if evt.Progress != nil {
				assert.GreaterOrEqual(t, evt.Progress.CurrentGeneration, lastGeneration)
				lastGeneration = evt.Progress.CurrentGeneration
			}
			if evt.Complete != nil {
				sawComplete = true
			}
			if evt.Failed != nil {
				t.Fatalf("run failed unexpectedly: %s", evt.Failed.Reason)
			}
		case <-deadline:
			t.Fatal("timed out waiting for run completion")
		}
	}

	assert.Equal(t, StateCompleted, o.StateOf(1))
	assert.True(t, schedules.recorded)
	assert.Equal(t, models.ScheduleStatusCompleted, schedules.final)
	assert.Len(t, details.replaced, 2)
}
