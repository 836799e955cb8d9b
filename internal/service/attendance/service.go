package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
)

var (
	ErrAlreadyClockedIn  = errors.New("staff member already clocked in today")
	ErrAlreadyClockedOut = errors.New("attendance record already closed")
)

type Service struct {
	repo repository.AttendanceRepository
	now  func() time.Time
}

func NewService(repo repository.AttendanceRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ClockIn opens today's attendance row for a staff member: today's date, the
// current time, status present. The shift note is stored as NULL when empty.
func (s *Service) ClockIn(ctx context.Context, staffID uuid.UUID, notes string) (*model.Attendance, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	existing, err := s.repo.GetOpenForStaff(ctx, staffID, today)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check open attendance: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyClockedIn
	}

	var notesPtr *string
	if notes != "" {
		notesPtr = &notes
	}

	record := &model.Attendance{
		StaffID: staffID,
		Date:    today,
		TimeIn:  now.Format(model.TimeOfDayLayout),
		Status:  model.AttendanceStatusPresent,
		Notes:   notesPtr,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to clock in: %w", err)
	}
	return record, nil
}

// ClockOut stamps the current time on an open attendance row. Time-in and
// status are left untouched.
func (s *Service) ClockOut(ctx context.Context, id uuid.UUID) (*model.Attendance, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	if record.TimeOut != nil {
		return nil, ErrAlreadyClockedOut
	}

	timeOut := s.now().Format(model.TimeOfDayLayout)
	if err := s.repo.SetTimeOut(ctx, id, timeOut); err != nil {
		return nil, fmt.Errorf("failed to clock out: %w", err)
	}

	record.TimeOut = &timeOut
	return record, nil
}

func (s *Service) GetRecord(ctx context.Context, id uuid.UUID) (*model.Attendance, error) {
	record, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance record: %w", err)
	}
	return record, nil
}

func (s *Service) ListRecords(ctx context.Context, filters *model.AttendanceFilters) ([]*model.Attendance, error) {
	records, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	return records, nil
}
