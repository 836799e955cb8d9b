package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
)

// Summary is the dashboard overview: appointment totals by status, today's
// attendance breakdown, and the broadcast-channel unread count.
type Summary struct {
	Appointments        map[model.AppointmentStatus]int `json:"appointments"`
	AttendanceToday     map[model.AttendanceStatus]int  `json:"attendance_today"`
	UnreadNotifications int                             `json:"unread_notifications"`
}

type Service struct {
	appointmentRepo  repository.AppointmentRepository
	attendanceRepo   repository.AttendanceRepository
	notificationRepo repository.NotificationRepository
}

func NewService(appointmentRepo repository.AppointmentRepository, attendanceRepo repository.AttendanceRepository, notificationRepo repository.NotificationRepository) *Service {
	return &Service{
		appointmentRepo:  appointmentRepo,
		attendanceRepo:   attendanceRepo,
		notificationRepo: notificationRepo,
	}
}

func (s *Service) GetSummary(ctx context.Context) (*Summary, error) {
	appointments, err := s.appointmentRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate appointments: %w", err)
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	attendance, err := s.attendanceRepo.CountByStatusForDate(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attendance: %w", err)
	}

	unread, err := s.notificationRepo.CountUnread(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return &Summary{
		Appointments:        appointments,
		AttendanceToday:     attendance,
		UnreadNotifications: unread,
	}, nil
}
