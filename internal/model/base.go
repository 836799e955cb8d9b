package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TimeOfDayLayout is the wire format for clock times (appointment time,
// attendance time_in/time_out, schedule bounds).
const TimeOfDayLayout = "15:04"

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"
