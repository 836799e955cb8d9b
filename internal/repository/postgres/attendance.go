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

func (r *attendanceRepository) Create(ctx context.Context, a *model.Attendance) error {
	query := `
		INSERT INTO attendance (id, staff_id, date, time_in, time_out, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	a.ID = uuid.New()
	a.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.StaffID,
		a.Date,
		a.TimeIn,
		a.TimeOut,
		a.Status,
		a.Notes,
		a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create attendance record: %w", err)
	}
	return nil
}

func (r *attendanceRepository) Get(ctx context.Context, id uuid.UUID) (*model.Attendance, error) {
	query := `
		SELECT id, staff_id, date, time_in, time_out, status, notes, created_at
		FROM attendance
		WHERE id = $1
	`
	var a model.Attendance
	err := r.db.GetContext(ctx, &a, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return &a, nil
}

func (r *attendanceRepository) SetTimeOut(ctx context.Context, id uuid.UUID, timeOut string) error {
	query := `
		UPDATE attendance
		SET time_out = $1
		WHERE id = $2 AND time_out IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, timeOut, id)
	if err != nil {
		return fmt.Errorf("failed to set time out: %w", err)
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

func (r *attendanceRepository) List(ctx context.Context, filters *model.AttendanceFilters) ([]*model.Attendance, error) {
	query := `
		SELECT id, staff_id, date, time_in, time_out, status, notes, created_at
		FROM attendance
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if filters != nil {
		if filters.StaffID != uuid.Nil {
			query += fmt.Sprintf(" AND staff_id = $%d", argCount)
			args = append(args, filters.StaffID)
			argCount++
		}
		if !filters.StartDate.IsZero() {
			query += fmt.Sprintf(" AND date >= $%d", argCount)
			args = append(args, filters.StartDate)
			argCount++
		}
		if !filters.EndDate.IsZero() {
			query += fmt.Sprintf(" AND date <= $%d", argCount)
			args = append(args, filters.EndDate)
			argCount++
		}
	}

	query += " ORDER BY date DESC, time_in DESC"

	var records []*model.Attendance
	err := r.db.SelectContext(ctx, &records, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	return records, nil
}

func (r *attendanceRepository) GetOpenForStaff(ctx context.Context, staffID uuid.UUID, date time.Time) (*model.Attendance, error) {
	query := `
		SELECT id, staff_id, date, time_in, time_out, status, notes, created_at
		FROM attendance
		WHERE staff_id = $1 AND date = $2 AND time_out IS NULL
		ORDER BY time_in DESC
		LIMIT 1
	`
	var a model.Attendance
	err := r.db.GetContext(ctx, &a, query, staffID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get open attendance record: %w", err)
	}
	return &a, nil
}

func (r *attendanceRepository) CountByStatusForDate(ctx context.Context, date time.Time) (map[model.AttendanceStatus]int, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM attendance
		WHERE date = $1
		GROUP BY status
	`
	rows, err := r.db.QueryxContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to count attendance records: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.AttendanceStatus]int)
	for rows.Next() {
		var status model.AttendanceStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan attendance count: %w", err)
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
