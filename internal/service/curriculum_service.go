package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-api/internal/models"
	appErrors "github.com/noah-isme/sma-adp-api/pkg/errors"
)

type curriculumRepository interface {
	List(ctx context.Context, filter models.CurriculumFilter) ([]models.Curriculum, int, error)
	ListForYear(ctx context.Context, academicYear string) ([]models.Curriculum, error)
	FindByID(ctx context.Context, id int64) (*models.Curriculum, error)
	Create(ctx context.Context, curriculum *models.Curriculum) error
	Update(ctx context.Context, curriculum *models.Curriculum) error
	Delete(ctx context.Context, id int64) error
}

// CreateCurriculumRequest captures creation payload.
type CreateCurriculumRequest struct {
	DepartmentID int64  `json:"department_id" validate:"required"`
	GradeLevel   int    `json:"grade_level" validate:"required,min=1"`
	SubjectID    int64  `json:"subject_id" validate:"required"`
	AcademicYear string `json:"academic_year" validate:"required"`
	WeeklyHours  int    `json:"weekly_hours" validate:"required,min=1"`
}

// UpdateCurriculumRequest modifies curriculum fields.
type UpdateCurriculumRequest struct {
	DepartmentID int64  `json:"department_id" validate:"required"`
	GradeLevel   int    `json:"grade_level" validate:"required,min=1"`
	SubjectID    int64  `json:"subject_id" validate:"required"`
	AcademicYear string `json:"academic_year" validate:"required"`
	WeeklyHours  int    `json:"weekly_hours" validate:"required,min=1"`
}

// CurriculumService coordinates curriculum requirement operations.
type CurriculumService struct {
	repo      curriculumRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCurriculumService constructs CurriculumService.
func NewCurriculumService(repo curriculumRepository, validate *validator.Validate, logger *zap.Logger) *CurriculumService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CurriculumService{repo: repo, validator: validate, logger: logger}
}

// List returns curriculum entries with pagination metadata.
func (s *CurriculumService) List(ctx context.Context, filter models.CurriculumFilter) ([]models.Curriculum, *models.Pagination, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list curricula")
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

// Get returns a curriculum entry by id.
func (s *CurriculumService) Get(ctx context.Context, id int64) (*models.Curriculum, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "curriculum entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load curriculum entry")
	}
	return row, nil
}

// Create adds a new curriculum entry.
func (s *CurriculumService) Create(ctx context.Context, req CreateCurriculumRequest) (*models.Curriculum, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid curriculum payload")
	}
	row := &models.Curriculum{
		DepartmentID: req.DepartmentID,
		GradeLevel:   req.GradeLevel,
		SubjectID:    req.SubjectID,
		AcademicYear: req.AcademicYear,
		WeeklyHours:  req.WeeklyHours,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create curriculum entry")
	}
	return row, nil
}

// Update modifies a curriculum entry.
func (s *CurriculumService) Update(ctx context.Context, id int64, req UpdateCurriculumRequest) (*models.Curriculum, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid curriculum payload")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "curriculum entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load curriculum entry")
	}
	row.DepartmentID = req.DepartmentID
	row.GradeLevel = req.GradeLevel
	row.SubjectID = req.SubjectID
	row.AcademicYear = req.AcademicYear
	row.WeeklyHours = req.WeeklyHours
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update curriculum entry")
	}
	return row, nil
}

// Delete removes a curriculum entry.
func (s *CurriculumService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "curriculum entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load curriculum entry")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete curriculum entry")
	}
	return nil
}
