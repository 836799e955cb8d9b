package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
)

func (r *scheduleRepository) Create(ctx context.Context, s *model.Schedule) error {
	query := `
		INSERT INTO schedules (id, staff_id, date, start_time, end_time, capacity, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	s.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.StaffID,
		s.Date,
		s.StartTime,
		s.EndTime,
		s.Capacity,
		s.Notes,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

func (r *scheduleRepository) Get(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	query := `
		SELECT id, staff_id, date, start_time, end_time, capacity, notes, created_at, updated_at
		FROM schedules
		WHERE id = $1
	`
	var s model.Schedule
	err := r.db.GetContext(ctx, &s, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &s, nil
}

func (r *scheduleRepository) Update(ctx context.Context, s *model.Schedule) error {
	query := `
		UPDATE schedules
		SET start_time = $1, end_time = $2, capacity = $3, notes = $4, updated_at = $5
		WHERE id = $6
	`
	s.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		s.StartTime,
		s.EndTime,
		s.Capacity,
		s.Notes,
		s.UpdatedAt,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *scheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM schedules WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *scheduleRepository) ListForStaff(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*model.Schedule, error) {
	query := `
		SELECT id, staff_id, date, start_time, end_time, capacity, notes, created_at, updated_at
		FROM schedules
		WHERE staff_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC, start_time ASC
	`
	var schedules []*model.Schedule
	err := r.db.SelectContext(ctx, &schedules, query, staffID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

func (r *scheduleRepository) HasOverlap(ctx context.Context, staffID uuid.UUID, date time.Time, start, end string, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM schedules
			WHERE staff_id = $1
			AND date = $2
			AND (
				(start_time <= $3 AND end_time > $3)
				OR (start_time < $4 AND end_time >= $4)
				OR (start_time >= $3 AND end_time <= $4)
			)
	`
	args := []interface{}{staffID, date, start, end}

	if excludeID != nil {
		query += " AND id != $5"
		args = append(args, *excludeID)
	}

	query += ")"

	var hasOverlap bool
	err := r.db.GetContext(ctx, &hasOverlap, query, args...)
	if err != nil {
		return false, fmt.Errorf("failed to check schedule overlap: %w", err)
	}
	return hasOverlap, nil
}
