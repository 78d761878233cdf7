package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

// ScheduleDetailRepository provides persistence for individual lesson
// assignments belonging to a schedule.
type ScheduleDetailRepository struct {
	db *sqlx.DB
}

// NewScheduleDetailRepository creates a new schedule detail repository.
func NewScheduleDetailRepository(db *sqlx.DB) *ScheduleDetailRepository {
	return &ScheduleDetailRepository{db: db}
}

// List returns schedule details matching filter criteria.
func (r *ScheduleDetailRepository) List(ctx context.Context, filter models.ScheduleDetailFilter) ([]models.ScheduleDetail, int, error) {
	base := "FROM schedule_details WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.ScheduleID > 0 {
		conditions = append(conditions, fmt.Sprintf("schedule_id = $%d", len(args)+1))
		args = append(args, filter.ScheduleID)
	}
	if filter.ClassID > 0 {
		conditions = append(conditions, fmt.Sprintf("class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.TeacherID > 0 {
		conditions = append(conditions, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.RoomID > 0 {
		conditions = append(conditions, fmt.Sprintf("room_id = $%d", len(args)+1))
		args = append(args, filter.RoomID)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{"created_at": true, "time_slot_id": true}
	if !allowedSorts[sortBy] {
		sortBy = "time_slot_id"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 500 {
		size = 100
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, schedule_id, class_id, subject_id, teacher_id, room_id, time_slot_id, is_manually_edited, created_at, updated_at
		%s ORDER BY %s %s LIMIT %d OFFSET %d`, base, sortBy, order, size, offset)
	var rows []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schedule details: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count schedule details: %w", err)
	}
	return rows, total, nil
}

// ListByScheduleID returns every detail belonging to a schedule, unpaginated,
// the shape the conflict detector consumes.
func (r *ScheduleDetailRepository) ListByScheduleID(ctx context.Context, scheduleID int64) ([]models.ScheduleDetail, error) {
	const query = `SELECT id, schedule_id, class_id, subject_id, teacher_id, room_id, time_slot_id, is_manually_edited, created_at, updated_at
		FROM schedule_details WHERE schedule_id = $1 ORDER BY time_slot_id ASC`
	var rows []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &rows, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list schedule details by schedule: %w", err)
	}
	return rows, nil
}

// FindByID loads a schedule detail by id.
func (r *ScheduleDetailRepository) FindByID(ctx context.Context, id int64) (*models.ScheduleDetail, error) {
	const query = `SELECT id, schedule_id, class_id, subject_id, teacher_id, room_id, time_slot_id, is_manually_edited, created_at, updated_at
		FROM schedule_details WHERE id = $1`
	var row models.ScheduleDetail
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// ReplaceAll atomically clears every detail row for a schedule and inserts
// the given replacement set, the bulk-save pattern used once per generation
// run.
func (r *ScheduleDetailRepository) ReplaceAll(ctx context.Context, scheduleID int64, details []models.ScheduleDetail) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace schedule details: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_details WHERE schedule_id = $1`, scheduleID); err != nil {
		return fmt.Errorf("clear schedule details: %w", err)
	}

	now := time.Now().UTC()
	const insert = `INSERT INTO schedule_details (schedule_id, class_id, subject_id, teacher_id, room_id, time_slot_id, is_manually_edited, created_at, updated_at)
		VALUES (:schedule_id, :class_id, :subject_id, :teacher_id, :room_id, :time_slot_id, :is_manually_edited, :created_at, :updated_at)`
	for i := range details {
		details[i].ScheduleID = scheduleID
		details[i].CreatedAt = now
		details[i].UpdatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, tx, insert, &details[i]); err != nil {
			return fmt.Errorf("insert schedule detail: %w", err)
		}
	}
	return tx.Commit()
}

// Update applies a partial manual edit to a single lesson assignment.
func (r *ScheduleDetailRepository) Update(ctx context.Context, id int64, patch models.ScheduleDetailUpdate) error {
	sets := []string{"updated_at = $1", "is_manually_edited = true"}
	args := []interface{}{time.Now().UTC()}

	if patch.TeacherID != nil {
		args = append(args, *patch.TeacherID)
		sets = append(sets, fmt.Sprintf("teacher_id = $%d", len(args)))
	}
	if patch.RoomID != nil {
		args = append(args, *patch.RoomID)
		sets = append(sets, fmt.Sprintf("room_id = $%d", len(args)))
	}
	if patch.TimeSlotID != nil {
		args = append(args, *patch.TimeSlotID)
		sets = append(sets, fmt.Sprintf("time_slot_id = $%d", len(args)))
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE schedule_details SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update schedule detail: %w", err)
	}
	return nil
}

// Delete removes a single lesson assignment.
func (r *ScheduleDetailRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM schedule_details WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete schedule detail: %w", err)
	}
	return nil
}
