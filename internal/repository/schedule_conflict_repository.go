package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-adp-api/internal/models"
)

// ScheduleConflictRepository provides persistence for pairwise conflicts
// detected between schedule details.
type ScheduleConflictRepository struct {
	db *sqlx.DB
}

// NewScheduleConflictRepository creates a new schedule conflict repository.
func NewScheduleConflictRepository(db *sqlx.DB) *ScheduleConflictRepository {
	return &ScheduleConflictRepository{db: db}
}

// List returns conflicts matching filter criteria.
func (r *ScheduleConflictRepository) List(ctx context.Context, filter models.ScheduleConflictFilter) ([]models.ScheduleConflict, int, error) {
	base := "FROM schedule_conflicts WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.ScheduleID > 0 {
		conditions = append(conditions, fmt.Sprintf("schedule_id = $%d", len(args)+1))
		args = append(args, filter.ScheduleID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Dimension != "" {
		conditions = append(conditions, fmt.Sprintf("dimension = $%d", len(args)+1))
		args = append(args, filter.Dimension)
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	allowedSorts := map[string]bool{"created_at": true, "dimension": true, "status": true}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
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
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, schedule_id, detail_a_id, detail_b_id, dimension, status, description, created_at, updated_at
		%s ORDER BY %s %s LIMIT %d OFFSET %d`, base, sortBy, order, size, offset)
	var rows []models.ScheduleConflict
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list schedule conflicts: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count schedule conflicts: %w", err)
	}
	return rows, total, nil
}

// FindByID loads a conflict by id.
func (r *ScheduleConflictRepository) FindByID(ctx context.Context, id int64) (*models.ScheduleConflict, error) {
	const query = `SELECT id, schedule_id, detail_a_id, detail_b_id, dimension, status, description, created_at, updated_at
		FROM schedule_conflicts WHERE id = $1`
	var row models.ScheduleConflict
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	return &row, nil
}

// ReplaceAll atomically upserts the freshly-detected conflict set for a
// schedule by fingerprint and deletes any open conflict whose fingerprint
// no longer appears, run once per detection pass. Upserting by fingerprint
// rather than deleting and reinserting keeps a conflict's id stable across
// detection passes as long as the pair it describes keeps colliding.
func (r *ScheduleConflictRepository) ReplaceAll(ctx context.Context, scheduleID int64, conflicts []models.ScheduleConflict) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace schedule conflicts: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	fingerprints := make([]string, 0, len(conflicts))
	const upsert = `INSERT INTO schedule_conflicts (schedule_id, detail_a_id, detail_b_id, dimension, fingerprint, status, description, created_at, updated_at)
		VALUES (:schedule_id, :detail_a_id, :detail_b_id, :dimension, :fingerprint, :status, :description, :created_at, :updated_at)
		ON CONFLICT (schedule_id, fingerprint) DO UPDATE SET
			detail_a_id = EXCLUDED.detail_a_id,
			detail_b_id = EXCLUDED.detail_b_id,
			description = EXCLUDED.description,
			updated_at = EXCLUDED.updated_at
		WHERE schedule_conflicts.status = :status`
	for i := range conflicts {
		conflicts[i].ScheduleID = scheduleID
		if conflicts[i].Status == "" {
			conflicts[i].Status = models.ConflictStatusOpen
		}
		conflicts[i].CreatedAt = now
		conflicts[i].UpdatedAt = now
		if _, err := sqlx.NamedExecContext(ctx, tx, upsert, &conflicts[i]); err != nil {
			return fmt.Errorf("upsert schedule conflict: %w", err)
		}
		fingerprints = append(fingerprints, conflicts[i].Fingerprint)
	}

	if len(fingerprints) == 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_conflicts WHERE schedule_id = $1 AND status = $2`, scheduleID, models.ConflictStatusOpen); err != nil {
			return fmt.Errorf("clear stale schedule conflicts: %w", err)
		}
		return tx.Commit()
	}

	clearQuery, args, err := sqlx.In(`DELETE FROM schedule_conflicts WHERE schedule_id = ? AND status = ? AND fingerprint NOT IN (?)`,
		scheduleID, models.ConflictStatusOpen, fingerprints)
	if err != nil {
		return fmt.Errorf("build stale conflict cleanup: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(clearQuery), args...); err != nil {
		return fmt.Errorf("clear stale schedule conflicts: %w", err)
	}
	return tx.Commit()
}

// MarkResolved flips a conflict's status once its proposed fix is applied.
func (r *ScheduleConflictRepository) MarkResolved(ctx context.Context, id int64) error {
	const query = `UPDATE schedule_conflicts SET status = $1, updated_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, models.ConflictStatusResolved, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("mark conflict resolved: %w", err)
	}
	return nil
}
