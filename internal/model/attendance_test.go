package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestHoursWorked(t *testing.T) {
	tests := []struct {
		name    string
		timeIn  string
		timeOut *string
		want    float64
	}{
		{"regular shift", "09:00", strPtr("17:00"), 8},
		{"half day", "09:00", strPtr("13:30"), 4.5},
		{"overnight shift", "22:00", strPtr("06:00"), 8},
		{"still clocked in", "09:00", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Attendance{TimeIn: tt.timeIn, TimeOut: tt.timeOut}
			hours, err := a.HoursWorked()
			require.NoError(t, err)
			assert.InDelta(t, tt.want, hours, 0.001)
		})
	}
}

func TestHoursWorkedInvalidTime(t *testing.T) {
	a := &Attendance{TimeIn: "not-a-time", TimeOut: strPtr("17:00")}
	_, err := a.HoursWorked()
	assert.Error(t, err)
}

func TestOvertime(t *testing.T) {
	a := &Attendance{TimeIn: "08:00", TimeOut: strPtr("18:30")}
	ot, err := a.Overtime()
	require.NoError(t, err)
	assert.InDelta(t, 2.5, ot, 0.001)

	short := &Attendance{TimeIn: "09:00", TimeOut: strPtr("12:00")}
	ot, err = short.Overtime()
	require.NoError(t, err)
	assert.Zero(t, ot)
}
