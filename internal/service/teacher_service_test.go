package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

type mockTeacherRepo struct {
	items         map[int64]*models.Teacher
	emailIndex    map[string]int64
	nipIndex      map[string]int64
	listResult    []models.Teacher
	listTotal     int
	listErr       error
	deactivated   []int64
	nextID        int64
	subjectsSet   map[int64][]int64
	availSet      map[int64][]int64
}

func (m *mockTeacherRepo) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return m.listResult, m.listTotal, nil
}

func (m *mockTeacherRepo) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	if teacher, ok := m.items[id]; ok {
		cp := *teacher
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeacherRepo) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	if owner, ok := m.emailIndex[email]; ok {
		if excludeID == 0 || owner != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTeacherRepo) ExistsByNIP(ctx context.Context, nip string, excludeID int64) (bool, error) {
	if owner, ok := m.nipIndex[nip]; ok {
		if excludeID == 0 || owner != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockTeacherRepo) ExistsByCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	return false, nil
}

func (m *mockTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	if m.items == nil {
		m.items = make(map[int64]*models.Teacher)
	}
	if teacher.ID == 0 {
		m.nextID++
		teacher.ID = m.nextID
	}
	now := time.Now()
	teacher.CreatedAt = now
	teacher.UpdatedAt = now
	cp := *teacher
	m.items[teacher.ID] = &cp
	return nil
}

func (m *mockTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error {
	if m.items == nil {
		m.items = make(map[int64]*models.Teacher)
	}
	cp := *teacher
	m.items[teacher.ID] = &cp
	return nil
}

func (m *mockTeacherRepo) Deactivate(ctx context.Context, id int64) error {
	m.deactivated = append(m.deactivated, id)
	if t, ok := m.items[id]; ok {
		t.Active = false
	}
	return nil
}

func (m *mockTeacherRepo) ReplaceSubjects(ctx context.Context, teacherID int64, academicYear string, subjectIDs []int64) error {
	if m.subjectsSet == nil {
		m.subjectsSet = make(map[int64][]int64)
	}
	m.subjectsSet[teacherID] = subjectIDs
	return nil
}

func (m *mockTeacherRepo) ReplaceAvailability(ctx context.Context, teacherID int64, unavailableSlotIDs []int64) error {
	if m.availSet == nil {
		m.availSet = make(map[int64][]int64)
	}
	m.availSet[teacherID] = unavailableSlotIDs
	return nil
}

func TestTeacherServiceCreate(t *testing.T) {
	repo := &mockTeacherRepo{}
	service := NewTeacherService(repo, validator.New(), zap.NewNop())

	teacher, err := service.Create(context.Background(), CreateTeacherRequest{
		Code:     "T01",
		Email:    "teach@example.com",
		FullName: "Teacher One",
		MaxLoad:  24,
	})
	require.NoError(t, err)
	assert.Equal(t, "teach@example.com", teacher.Email)
	assert.True(t, teacher.Active)
	assert.Len(t, repo.items, 1)
}

func TestTeacherServiceCreateDuplicateEmail(t *testing.T) {
	repo := &mockTeacherRepo{emailIndex: map[string]int64{"teach@example.com": 99}}
	service := NewTeacherService(repo, validator.New(), zap.NewNop())

	_, err := service.Create(context.Background(), CreateTeacherRequest{
		Code:     "T01",
		Email:    "teach@example.com",
		FullName: "Teacher One",
		MaxLoad:  24,
	})
	require.Error(t, err)
}

func TestTeacherServiceUpdate(t *testing.T) {
	repo := &mockTeacherRepo{
		items: map[int64]*models.Teacher{
			1: {ID: 1, Email: "teach@example.com", FullName: "Teacher One", MaxLoad: 20, Active: true},
		},
	}
	service := NewTeacherService(repo, validator.New(), zap.NewNop())

	active := true
	updated, err := service.Update(context.Background(), 1, UpdateTeacherRequest{
		Code:     "T01",
		Email:    "updated@example.com",
		FullName: "Teacher Updated",
		MaxLoad:  30,
		Active:   &active,
	})
	require.NoError(t, err)
	assert.Equal(t, "updated@example.com", updated.Email)
	assert.Equal(t, "Teacher Updated", updated.FullName)
	assert.Equal(t, 30, updated.MaxLoad)
}

func TestTeacherServiceDeactivate(t *testing.T) {
	repo := &mockTeacherRepo{
		items: map[int64]*models.Teacher{
			1: {ID: 1, Email: "teach@example.com", FullName: "Teacher One", MaxLoad: 20, Active: true},
		},
	}
	service := NewTeacherService(repo, validator.New(), zap.NewNop())

	err := service.Deactivate(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, repo.deactivated)
}

func TestTeacherServiceSetSubjects(t *testing.T) {
	repo := &mockTeacherRepo{
		items: map[int64]*models.Teacher{
			1: {ID: 1, Email: "teach@example.com", FullName: "Teacher One", MaxLoad: 20, Active: true},
		},
	}
	service := NewTeacherService(repo, validator.New(), zap.NewNop())

	err := service.SetSubjects(context.Background(), 1, "2026/2027", []int64{10, 11})
	require.NoError(t, err)
	assert.Equal(t, []int64{10, 11}, repo.subjectsSet[1])
}
