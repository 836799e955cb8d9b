package schedule

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
	ErrOverlap      = errors.New("schedule overlaps an existing shift")
	ErrInvalidTimes = errors.New("invalid shift times")
)

type Service struct {
	repo repository.ScheduleRepository
}

func NewService(repo repository.ScheduleRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateSchedule(ctx context.Context, sched *model.Schedule) error {
	if err := validateTimes(sched.StartTime, sched.EndTime); err != nil {
		return err
	}

	overlap, err := s.repo.HasOverlap(ctx, sched.StaffID, sched.Date, sched.StartTime, sched.EndTime, nil)
	if err != nil {
		return fmt.Errorf("failed to check schedule overlap: %w", err)
	}
	if overlap {
		return ErrOverlap
	}

	if sched.Capacity <= 0 {
		sched.Capacity = 1
	}

	if err := s.repo.Create(ctx, sched); err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

func (s *Service) GetSchedule(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	sched, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return sched, nil
}

func (s *Service) UpdateSchedule(ctx context.Context, sched *model.Schedule) error {
	if err := validateTimes(sched.StartTime, sched.EndTime); err != nil {
		return err
	}

	overlap, err := s.repo.HasOverlap(ctx, sched.StaffID, sched.Date, sched.StartTime, sched.EndTime, &sched.ID)
	if err != nil {
		return fmt.Errorf("failed to check schedule overlap: %w", err)
	}
	if overlap {
		return ErrOverlap
	}

	if err := s.repo.Update(ctx, sched); err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	return nil
}

func (s *Service) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	return nil
}

func (s *Service) ListForStaff(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*model.Schedule, error) {
	schedules, err := s.repo.ListForStaff(ctx, staffID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

func validateTimes(start, end string) error {
	st, err := time.Parse(model.TimeOfDayLayout, start)
	if err != nil {
		return fmt.Errorf("%w: start %q", ErrInvalidTimes, start)
	}
	et, err := time.Parse(model.TimeOfDayLayout, end)
	if err != nil {
		return fmt.Errorf("%w: end %q", ErrInvalidTimes, end)
	}
	if !et.After(st) {
		return fmt.Errorf("%w: end must be after start", ErrInvalidTimes)
	}
	return nil
}
