package model

import (
	"time"

	"github.com/google/uuid"
)

// Schedule is a recurring or dated staff shift.
type Schedule struct {
	Base
	StaffID   uuid.UUID `db:"staff_id" json:"staff_id"`
	Date      time.Time `db:"date" json:"date"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	Capacity  int       `db:"capacity" json:"capacity"`
	Notes     string    `db:"notes" json:"notes,omitempty"`
}

type CreateScheduleRequest struct {
	StaffID   string `json:"staff_id" binding:"required,uuid"`
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" binding:"required,datetime=15:04"`
	EndTime   string `json:"end_time" binding:"required,datetime=15:04"`
	Capacity  int    `json:"capacity" binding:"omitempty,min=1,max=100"`
	Notes     string `json:"notes" binding:"max=500"`
}

type UpdateScheduleRequest struct {
	StartTime *string `json:"start_time" binding:"omitempty,datetime=15:04"`
	EndTime   *string `json:"end_time" binding:"omitempty,datetime=15:04"`
	Capacity  *int    `json:"capacity" binding:"omitempty,min=1,max=100"`
	Notes     *string `json:"notes"`
}
