package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

// ScheduleRepository provides persistence for the top-level schedule
// container that owns one academic year's generation runs and lessons.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// List returns schedules with optional filtering and pagination.
func (r *ScheduleRepository) List(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, int, error) {
	base := "FROM schedules WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.AcademicYear != "" {
		conditions = append(conditions, fmt.Sprintf("academic_year = $%d", len(args)+1))
		args = append(args, filter.AcademicYear)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{"academic_year": true, "status": true, "created_at": true, "best_fitness": true}
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
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, academic_year, name, status, best_fitness, generations, created_at, updated_at %s ORDER BY %s %s LIMIT %d OFFSET %d", base, sortBy, order, size, offset)
	var schedules []models.Schedule
	if err := r.db.SelectContext(ctx, &schedules, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schedules: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count schedules: %w", err)
	}

	return schedules, total, nil
}

// FindByID loads a schedule by id.
func (r *ScheduleRepository) FindByID(ctx context.Context, id int64) (*models.Schedule, error) {
	const query = `SELECT id, academic_year, name, status, best_fitness, generations, created_at, updated_at FROM schedules WHERE id = $1`
	var sched models.Schedule
	if err := r.db.GetContext(ctx, &sched, query, id); err != nil {
		return nil, err
	}
	return &sched, nil
}

// Create persists a new schedule container, assigning its database id.
func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	now := time.Now().UTC()
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = now
	}
	schedule.UpdatedAt = now
	if schedule.Status == "" {
		schedule.Status = models.ScheduleStatusDraft
	}

	const query = `INSERT INTO schedules (academic_year, name, status, best_fitness, generations, created_at, updated_at)
		VALUES (:academic_year, :name, :status, :best_fitness, :generations, :created_at, :updated_at) RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, schedule)
	if err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&schedule.ID); err != nil {
			return fmt.Errorf("scan schedule id: %w", err)
		}
	}
	return nil
}

// UpdateStatus transitions a schedule's lifecycle status.
func (r *ScheduleRepository) UpdateStatus(ctx context.Context, id int64, status models.ScheduleStatus) error {
	const query = `UPDATE schedules SET status = $1, updated_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("update schedule status: %w", err)
	}
	return nil
}

// RecordRunResult stores the best fitness and generation count reached by a
// completed generation run.
func (r *ScheduleRepository) RecordRunResult(ctx context.Context, id int64, bestFitness float64, generations int, status models.ScheduleStatus) error {
	const query = `UPDATE schedules SET best_fitness = $1, generations = $2, status = $3, updated_at = $4 WHERE id = $5`
	if _, err := r.db.ExecContext(ctx, query, bestFitness, generations, status, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("record schedule run result: %w", err)
	}
	return nil
}

// Delete removes a schedule and, via ON DELETE CASCADE, its details and
// conflicts.
func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}
