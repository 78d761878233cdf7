package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

type mockScheduleRepo struct {
	items      map[int64]*models.Schedule
	listResult []models.Schedule
	listTotal  int
	deleted    []int64
	nextID     int64
}

func (m *mockScheduleRepo) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, int, error) {
	return m.listResult, m.listTotal, nil
}

func (m *mockScheduleRepo) FindByID(ctx context.Context, id int64) (*models.Schedule, error) {
	if s, ok := m.items[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockScheduleRepo) Create(ctx context.Context, schedule *models.Schedule) error {
	if m.items == nil {
		m.items = make(map[int64]*models.Schedule)
	}
	m.nextID++
	schedule.ID = m.nextID
	cp := *schedule
	m.items[schedule.ID] = &cp
	return nil
}

func (m *mockScheduleRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockScheduleDetailRepo struct {
	items  map[int64]*models.ScheduleDetail
	listed []models.ScheduleDetail
	total  int
}

func (m *mockScheduleDetailRepo) List(ctx context.Context, filter models.ScheduleDetailFilter) ([]models.ScheduleDetail, int, error) {
	return m.listed, m.total, nil
}

func (m *mockScheduleDetailRepo) FindByID(ctx context.Context, id int64) (*models.ScheduleDetail, error) {
	if d, ok := m.items[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockScheduleDetailRepo) Update(ctx context.Context, id int64, patch models.ScheduleDetailUpdate) error {
	d, ok := m.items[id]
	if !ok {
		return sql.ErrNoRows
	}
	if patch.TeacherID != nil {
		d.TeacherID = *patch.TeacherID
	}
	if patch.RoomID != nil {
		d.RoomID = *patch.RoomID
	}
	if patch.TimeSlotID != nil {
		d.TimeSlotID = *patch.TimeSlotID
	}
	d.IsManuallyEdited = true
	return nil
}

func (m *mockScheduleDetailRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.items, id)
	return nil
}

type mockRunStarter struct {
	started      map[int64]models.GAParams
	startErr     error
	cancelledIDs []int64
}

func (m *mockRunStarter) Start(scheduleID int64, academicYear string, params models.GAParams) error {
	if m.startErr != nil {
		return m.startErr
	}
	if m.started == nil {
		m.started = make(map[int64]models.GAParams)
	}
	m.started[scheduleID] = params
	return nil
}

func (m *mockRunStarter) Cancel(scheduleID int64) {
	m.cancelledIDs = append(m.cancelledIDs, scheduleID)
}

func TestScheduleServiceCreate(t *testing.T) {
	repo := &mockScheduleRepo{}
	svc := NewScheduleService(repo, &mockScheduleDetailRepo{}, &mockRunStarter{}, models.GAParams{}, nil, zap.NewNop())

	schedule, err := svc.Create(context.Background(), CreateScheduleRequest{Name: "2026/2027 Odd", AcademicYear: "2026/2027"})
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleStatusDraft, schedule.Status)
	assert.Len(t, repo.items, 1)
}

func TestScheduleServiceGenerateMergesDefaults(t *testing.T) {
	repo := &mockScheduleRepo{items: map[int64]*models.Schedule{
		1: {ID: 1, AcademicYear: "2026/2027", Status: models.ScheduleStatusDraft},
	}}
	runner := &mockRunStarter{}
	svc := NewScheduleService(repo, &mockScheduleDetailRepo{}, runner, models.GAParams{}, nil, zap.NewNop())

	err := svc.Generate(context.Background(), 1, GenerateRequest{Params: models.GAParams{PopulationSize: 50}})
	require.NoError(t, err)

	params := runner.started[1]
	assert.Equal(t, 50, params.PopulationSize)
	assert.Equal(t, models.DefaultGAParams().GenerationCount, params.GenerationCount)
}

func TestScheduleServiceGenerateUsesConfiguredDefaults(t *testing.T) {
	repo := &mockScheduleRepo{items: map[int64]*models.Schedule{
		1: {ID: 1, AcademicYear: "2026/2027", Status: models.ScheduleStatusDraft},
	}}
	runner := &mockRunStarter{}
	configured := models.GAParams{PopulationSize: 200, GenerationCount: 300, ElitismCount: 10, CrossoverRate: 0.9, MutationRate: 0.1, TournamentSize: 7}
	svc := NewScheduleService(repo, &mockScheduleDetailRepo{}, runner, configured, nil, zap.NewNop())

	err := svc.Generate(context.Background(), 1, GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, 200, runner.started[1].PopulationSize)
	assert.Equal(t, 300, runner.started[1].GenerationCount)
}

func TestScheduleServiceGenerateScheduleNotFound(t *testing.T) {
	svc := NewScheduleService(&mockScheduleRepo{}, &mockScheduleDetailRepo{}, &mockRunStarter{}, models.GAParams{}, nil, zap.NewNop())
	err := svc.Generate(context.Background(), 99, GenerateRequest{})
	require.Error(t, err)
}

func TestScheduleServiceCancelGeneration(t *testing.T) {
	runner := &mockRunStarter{}
	svc := NewScheduleService(&mockScheduleRepo{}, &mockScheduleDetailRepo{}, runner, models.GAParams{}, nil, zap.NewNop())
	svc.CancelGeneration(context.Background(), 5)
	assert.Equal(t, []int64{5}, runner.cancelledIDs)
}

func TestScheduleServiceUpdateDetail(t *testing.T) {
	details := &mockScheduleDetailRepo{items: map[int64]*models.ScheduleDetail{
		1: {ID: 1, ScheduleID: 1, TeacherID: 10, RoomID: 20, TimeSlotID: 30},
	}}
	svc := NewScheduleService(&mockScheduleRepo{}, details, &mockRunStarter{}, models.GAParams{}, nil, zap.NewNop())

	newRoom := int64(21)
	updated, err := svc.UpdateDetail(context.Background(), 1, models.ScheduleDetailUpdate{RoomID: &newRoom})
	require.NoError(t, err)
	assert.Equal(t, int64(21), updated.RoomID)
	assert.True(t, updated.IsManuallyEdited)
}

func TestScheduleServiceDeleteDetailNotFound(t *testing.T) {
	svc := NewScheduleService(&mockScheduleRepo{}, &mockScheduleDetailRepo{}, &mockRunStarter{}, models.GAParams{}, nil, zap.NewNop())
	err := svc.DeleteDetail(context.Background(), 404)
	require.Error(t, err)
}
