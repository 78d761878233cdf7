package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-api/internal/models"
	appErrors "github.com/noah-isme/sma-adp-api/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, int, error)
	FindByID(ctx context.Context, id int64) (*models.Schedule, error)
	Create(ctx context.Context, schedule *models.Schedule) error
	Delete(ctx context.Context, id int64) error
}

type scheduleDetailRepository interface {
	List(ctx context.Context, filter models.ScheduleDetailFilter) ([]models.ScheduleDetail, int, error)
	FindByID(ctx context.Context, id int64) (*models.ScheduleDetail, error)
	Update(ctx context.Context, id int64, patch models.ScheduleDetailUpdate) error
	Delete(ctx context.Context, id int64) error
}

// runStarter launches a generation run; the orchestrator is the only
// implementation, kept as an interface so the service doesn't import it
// directly and stays free of the GA's internal types.
type runStarter interface {
	Start(scheduleID int64, academicYear string, params models.GAParams) error
	Cancel(scheduleID int64)
}

// CreateScheduleRequest opens a new, empty schedule container.
type CreateScheduleRequest struct {
	Name         string `json:"name" validate:"required"`
	AcademicYear string `json:"academic_year" validate:"required"`
}

// GenerateRequest starts a GA run over an existing schedule's academic year.
// Params overlays models.DefaultGAParams(); omitted fields keep the default.
type GenerateRequest struct {
	Params models.GAParams `json:"params"`
}

// ScheduleService manages the top-level schedule container and the manual
// edit surface over its details; generation itself is delegated to the
// orchestrator.
type ScheduleService struct {
	repo      scheduleRepository
	details   scheduleDetailRepository
	runner    runStarter
	defaults  models.GAParams
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleService instantiates ScheduleService. defaults seeds every
// Generate call before the request's own overrides are merged in; the zero
// value falls back to models.DefaultGAParams().
func NewScheduleService(repo scheduleRepository, details scheduleDetailRepository, runner runStarter, defaults models.GAParams, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaults.PopulationSize == 0 {
		defaults = models.DefaultGAParams()
	}
	return &ScheduleService{repo: repo, details: details, runner: runner, defaults: defaults, validator: validate, logger: logger}
}

// List returns schedules with pagination metadata.
func (s *ScheduleService) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, *models.Pagination, error) {
	schedules, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return schedules, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get loads a single schedule by id.
func (s *ScheduleService) Get(ctx context.Context, id int64) (*models.Schedule, error) {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}
	return schedule, nil
}

// Create opens a new draft schedule container, empty of details.
func (s *ScheduleService) Create(ctx context.Context, req CreateScheduleRequest) (*models.Schedule, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	schedule := models.Schedule{Name: req.Name, AcademicYear: req.AcademicYear, Status: models.ScheduleStatusDraft}
	if err := s.repo.Create(ctx, &schedule); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule")
	}
	return &schedule, nil
}

// Delete removes a schedule; its details and conflicts cascade.
func (s *ScheduleService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule")
	}
	return nil
}

// Generate starts a GA run for schedule's academic year. The orchestrator
// returns immediately once the run is accepted; completion is observed via
// the progress broker.
func (s *ScheduleService) Generate(ctx context.Context, id int64, req GenerateRequest) error {
	schedule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
	}
	params := s.defaults.Merge(req.Params)
	if err := s.runner.Start(schedule.ID, schedule.AcademicYear, params); err != nil {
		return err
	}
	return nil
}

// CancelGeneration requests cooperative cancellation of an active run.
func (s *ScheduleService) CancelGeneration(ctx context.Context, id int64) {
	s.runner.Cancel(id)
}

// ListDetails returns the lesson assignments belonging to a schedule.
func (s *ScheduleService) ListDetails(ctx context.Context, filter models.ScheduleDetailFilter) ([]models.ScheduleDetail, *models.Pagination, error) {
	rows, total, err := s.details.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule details")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 100
	}
	return rows, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// UpdateDetail applies a manual edit to a single lesson assignment.
func (s *ScheduleService) UpdateDetail(ctx context.Context, detailID int64, patch models.ScheduleDetailUpdate) (*models.ScheduleDetail, error) {
	if _, err := s.details.FindByID(ctx, detailID); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule detail not found")
	}
	if err := s.details.Update(ctx, detailID, patch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule detail")
	}
	return s.details.FindByID(ctx, detailID)
}

// DeleteDetail removes a single lesson assignment.
func (s *ScheduleService) DeleteDetail(ctx context.Context, detailID int64) error {
	if _, err := s.details.FindByID(ctx, detailID); err != nil {
		return appErrors.Clone(appErrors.ErrNotFound, "schedule detail not found")
	}
	if err := s.details.Delete(ctx, detailID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule detail")
	}
	return nil
}
