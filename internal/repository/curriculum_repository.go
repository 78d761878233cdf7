package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

// CurriculumRepository manages persistence for curriculum entries.
type CurriculumRepository struct {
	db *sqlx.DB
}

// NewCurriculumRepository constructs a CurriculumRepository.
func NewCurriculumRepository(db *sqlx.DB) *CurriculumRepository {
	return &CurriculumRepository{db: db}
}

// List returns curriculum rows matching filter criteria.
func (r *CurriculumRepository) List(ctx context.Context, filter models.CurriculumFilter) ([]models.Curriculum, int, error) {
	base := "FROM curricula WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.DepartmentID > 0 {
		conditions = append(conditions, fmt.Sprintf("department_id = $%d", len(args)+1))
		args = append(args, filter.DepartmentID)
	}
	if filter.AcademicYear != "" {
		conditions = append(conditions, fmt.Sprintf("academic_year = $%d", len(args)+1))
		args = append(args, filter.AcademicYear)
	}
	if filter.GradeLevel > 0 {
		conditions = append(conditions, fmt.Sprintf("grade_level = $%d", len(args)+1))
		args = append(args, filter.GradeLevel)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{"grade_level": true, "academic_year": true, "created_at": true}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, department_id, grade_level, subject_id, academic_year, weekly_hours, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, sortBy, order, size, offset)
	var rows []models.Curriculum
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list curricula: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count curricula: %w", err)
	}
	return rows, total, nil
}

// ListForYear returns every curriculum entry active in an academic year, used
// by the demand expander to derive one lesson-demand per required weekly hour
// of each class/subject pair.
func (r *CurriculumRepository) ListForYear(ctx context.Context, academicYear string) ([]models.Curriculum, error) {
	const query = `SELECT id, department_id, grade_level, subject_id, academic_year, weekly_hours, created_at, updated_at FROM curricula WHERE academic_year = $1`
	var rows []models.Curriculum
	if err := r.db.SelectContext(ctx, &rows, query, academicYear); err != nil {
		return nil, fmt.Errorf("list curricula for year: %w", err)
	}
	return rows, nil
}

// FindByID returns a curriculum entry by id.
func (r *CurriculumRepository) FindByID(ctx context.Context, id int64) (*models.Curriculum, error) {
	const query = `SELECT id, department_id, grade_level, subject_id, academic_year, weekly_hours, created_at, updated_at FROM curricula WHERE id = $1`
	var row models.Curriculum
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// Create persists a new curriculum entry, assigning its database id.
func (r *CurriculumRepository) Create(ctx context.Context, curriculum *models.Curriculum) error {
	now := time.Now().UTC()
	if curriculum.CreatedAt.IsZero() {
		curriculum.CreatedAt = now
	}
	curriculum.UpdatedAt = now

	const query = `INSERT INTO curricula (department_id, grade_level, subject_id, academic_year, weekly_hours, created_at, updated_at)
		VALUES (:department_id, :grade_level, :subject_id, :academic_year, :weekly_hours, :created_at, :updated_at) RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, curriculum)
	if err != nil {
		return fmt.Errorf("create curriculum: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&curriculum.ID); err != nil {
			return fmt.Errorf("scan curriculum id: %w", err)
		}
	}
	return nil
}

// Update modifies a curriculum entry.
func (r *CurriculumRepository) Update(ctx context.Context, curriculum *models.Curriculum) error {
	curriculum.UpdatedAt = time.Now().UTC()
	const query = `UPDATE curricula SET department_id = :department_id, grade_level = :grade_level, subject_id = :subject_id,
		academic_year = :academic_year, weekly_hours = :weekly_hours, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, curriculum); err != nil {
		return fmt.Errorf("update curriculum: %w", err)
	}
	return nil
}

// Delete removes a curriculum entry.
func (r *CurriculumRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM curricula WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete curriculum: %w", err)
	}
	return nil
}
