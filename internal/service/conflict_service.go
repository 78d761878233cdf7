package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-api/internal/conflict"
	"github.com/noah-isme/sma-adp-api/internal/models"
	"github.com/noah-isme/sma-adp-api/internal/scheduling"
	appErrors "github.com/noah-isme/sma-adp-api/pkg/errors"
)

// resourcePoolCacheTTL bounds how stale a cached ResourcePool snapshot can be
// before a conflict check re-reads the master-data tables. Short enough that
// an edit made through the CRUD handlers is visible to the next detection
// run within one request cycle in practice.
const resourcePoolCacheTTL = 30 * time.Second

type conflictDetailReader interface {
	ListByScheduleID(ctx context.Context, scheduleID int64) ([]models.ScheduleDetail, error)
	FindByID(ctx context.Context, id int64) (*models.ScheduleDetail, error)
	Update(ctx context.Context, id int64, patch models.ScheduleDetailUpdate) error
	Delete(ctx context.Context, id int64) error
}

type conflictRepository interface {
	List(ctx context.Context, filter models.ScheduleConflictFilter) ([]models.ScheduleConflict, int, error)
	FindByID(ctx context.Context, id int64) (*models.ScheduleConflict, error)
	ReplaceAll(ctx context.Context, scheduleID int64, conflicts []models.ScheduleConflict) error
	MarkResolved(ctx context.Context, id int64) error
}

type conflictScheduleReader interface {
	FindByID(ctx context.Context, id int64) (*models.Schedule, error)
}

type conflictClassReader interface {
	ListForYear(ctx context.Context, academicYear string) ([]models.Class, error)
}

type conflictTeacherReader interface {
	ListAll(ctx context.Context) ([]models.Teacher, error)
	ListSubjects(ctx context.Context, teacherID int64, academicYear string) ([]models.TeacherSubject, error)
	ListAvailability(ctx context.Context, teacherID int64) ([]models.TeacherAvailability, error)
}

type conflictSubjectReader interface {
	ListAll(ctx context.Context) ([]models.Subject, error)
}

type conflictRoomReader interface {
	ListAll(ctx context.Context) ([]models.Room, error)
	ListDepartments(ctx context.Context, roomID int64) ([]models.RoomDepartment, error)
}

type conflictTimeSlotReader interface {
	ListAll(ctx context.Context) ([]models.TimeSlot, error)
}

type conflictCurriculumReader interface {
	ListForYear(ctx context.Context, academicYear string) ([]models.Curriculum, error)
}

// ConflictService runs conflict detection over a schedule's current lesson
// assignments and applies repair resolutions chosen by the caller.
type ConflictService struct {
	schedules conflictScheduleReader
	details   conflictDetailReader
	conflicts conflictRepository

	classes   conflictClassReader
	teachers  conflictTeacherReader
	subjects  conflictSubjectReader
	rooms     conflictRoomReader
	timeSlots conflictTimeSlotReader
	curricula conflictCurriculumReader

	cache  *CacheService
	logger *zap.Logger
}

// NewConflictService instantiates ConflictService. cache may be nil or
// disabled; buildWorld falls back to a live load on every call in that case.
func NewConflictService(
	schedules conflictScheduleReader,
	details conflictDetailReader,
	conflicts conflictRepository,
	classes conflictClassReader,
	teachers conflictTeacherReader,
	subjects conflictSubjectReader,
	rooms conflictRoomReader,
	timeSlots conflictTimeSlotReader,
	curricula conflictCurriculumReader,
	cache *CacheService,
	logger *zap.Logger,
) *ConflictService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictService{
		schedules: schedules, details: details, conflicts: conflicts,
		classes: classes, teachers: teachers, subjects: subjects, rooms: rooms,
		timeSlots: timeSlots, curricula: curricula, cache: cache, logger: logger,
	}
}

// List returns previously detected conflicts with pagination metadata.
func (s *ConflictService) List(ctx context.Context, filter models.ScheduleConflictFilter) ([]models.ScheduleConflict, *models.Pagination, error) {
	rows, total, err := s.conflicts.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule conflicts")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	return rows, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Detect loads the schedule's current lesson assignments, re-runs collision
// detection against them, and persists the refreshed conflict set. The
// returned bool reports whether the underlying ResourcePool snapshot was
// served from cache.
func (s *ConflictService) Detect(ctx context.Context, scheduleID int64) ([]models.ScheduleConflict, bool, error) {
	schedule, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}

	world, cacheHit, err := s.buildWorld(ctx, schedule.AcademicYear, scheduleID)
	if err != nil {
		return nil, false, err
	}

	found := conflict.Detect(world.details, world)
	if err := s.conflicts.ReplaceAll(ctx, scheduleID, found); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist detected conflicts")
	}
	s.logger.Info("conflict detection run", zap.Int64("schedule_id", scheduleID), zap.Int("conflicts", len(found)))
	return found, cacheHit, nil
}

// Propose returns the ordered list of legal repair moves for one conflict.
func (s *ConflictService) Propose(ctx context.Context, scheduleID, conflictID int64) ([]conflict.Resolution, error) {
	c, err := s.conflicts.FindByID(ctx, conflictID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "conflict not found")
	}
	schedule, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}
	world, _, err := s.buildWorld(ctx, schedule.AcademicYear, scheduleID)
	if err != nil {
		return nil, err
	}
	resolver := conflict.NewResolver(world, s.details.Update, s.details.Delete)
	return resolver.Propose(*c), nil
}

// Apply performs the chosen resolution and, on success, marks the conflict
// resolved.
func (s *ConflictService) Apply(ctx context.Context, scheduleID, conflictID int64, res conflict.Resolution) error {
	schedule, err := s.schedules.FindByID(ctx, scheduleID)
	if err != nil {
		return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}
	world, _, err := s.buildWorld(ctx, schedule.AcademicYear, scheduleID)
	if err != nil {
		return err
	}
	resolver := conflict.NewResolver(world, s.details.Update, s.details.Delete)
	if err := resolver.Apply(ctx, scheduleID, res); err != nil {
		return err
	}
	return s.conflicts.MarkResolved(ctx, conflictID)
}

func (s *ConflictService) buildWorld(ctx context.Context, academicYear string, scheduleID int64) (*worldView, bool, error) {
	pool, cacheHit, err := s.loadResourcePool(ctx, academicYear)
	if err != nil {
		return nil, false, err
	}
	details, err := s.details.ListByScheduleID(ctx, scheduleID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule details")
	}
	return newWorldView(pool, details), cacheHit, nil
}

// loadResourcePool serves a cached ResourcePool snapshot for academicYear
// when one is fresh, falling back to a live load from the master-data
// repositories and repopulating the cache on a miss.
func (s *ConflictService) loadResourcePool(ctx context.Context, academicYear string) (*scheduling.ResourcePool, bool, error) {
	cacheKey := "resourcepool:" + academicYear
	if s.cache.Enabled() {
		var cached scheduling.ResourcePool
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil && hit {
			return &cached, true, nil
		}
	}

	pool, err := scheduling.LoadResourcePool(ctx, academicYear, s.classes, s.teachers, s.subjects, s.rooms, s.timeSlots, s.curricula, s.logger)
	if err != nil {
		return nil, false, err
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, cacheKey, pool, resourcePoolCacheTTL)
	}
	return pool, false, nil
}
