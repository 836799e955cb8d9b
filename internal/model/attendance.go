package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusLate    AttendanceStatus = "late"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
)

// StandardShiftHours is the length of a regular shift; time beyond it counts
// as overtime.
const StandardShiftHours = 8.0

type Attendance struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	StaffID   uuid.UUID        `db:"staff_id" json:"staff_id"`
	Date      time.Time        `db:"date" json:"date"`
	TimeIn    string           `db:"time_in" json:"time_in"`
	TimeOut   *string          `db:"time_out" json:"time_out,omitempty"`
	Status    AttendanceStatus `db:"status" json:"status"`
	Notes     *string          `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

// HoursWorked returns the elapsed hours between time_in and time_out. Shifts
// that cross midnight record a time_out earlier than time_in; those get a
// day added before subtracting. Returns 0 with no error for open rows.
func (a *Attendance) HoursWorked() (float64, error) {
	if a.TimeOut == nil {
		return 0, nil
	}
	in, err := time.Parse(TimeOfDayLayout, a.TimeIn)
	if err != nil {
		return 0, fmt.Errorf("invalid time_in %q: %w", a.TimeIn, err)
	}
	out, err := time.Parse(TimeOfDayLayout, *a.TimeOut)
	if err != nil {
		return 0, fmt.Errorf("invalid time_out %q: %w", *a.TimeOut, err)
	}
	if out.Before(in) {
		out = out.Add(24 * time.Hour)
	}
	return out.Sub(in).Hours(), nil
}

// Overtime returns hours worked beyond the standard shift, never negative.
func (a *Attendance) Overtime() (float64, error) {
	hours, err := a.HoursWorked()
	if err != nil {
		return 0, err
	}
	if hours <= StandardShiftHours {
		return 0, nil
	}
	return hours - StandardShiftHours, nil
}

type ClockInRequest struct {
	StaffID string `json:"staff_id" binding:"required,uuid"`
	Notes   string `json:"notes" binding:"max=500"`
}

type AttendanceFilters struct {
	StaffID   uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}
