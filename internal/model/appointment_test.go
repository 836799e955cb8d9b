package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		op      TransitionOp
		from    AppointmentStatus
		want    AppointmentStatus
		allowed bool
	}{
		{"approve pending", OpApprove, AppointmentStatusPending, AppointmentStatusApproved, true},
		{"approve already approved", OpApprove, AppointmentStatusApproved, "", false},
		{"accept assigned pending", OpAcceptAssigned, AppointmentStatusPending, AppointmentStatusApproved, true},
		{"reject pending", OpReject, AppointmentStatusPending, AppointmentStatusRejected, true},
		{"reject approved", OpReject, AppointmentStatusApproved, AppointmentStatusRejected, true},
		{"reject completed", OpReject, AppointmentStatusCompleted, "", false},
		{"start approved", OpStart, AppointmentStatusApproved, AppointmentStatusAccepted, true},
		{"start pending", OpStart, AppointmentStatusPending, "", false},
		{"complete accepted", OpComplete, AppointmentStatusAccepted, AppointmentStatusCompleted, true},
		{"complete cancelled", OpComplete, AppointmentStatusCancelled, "", false},
		{"cancel accepted", OpCancel, AppointmentStatusAccepted, AppointmentStatusCancelled, true},
		{"cancel completed", OpCancel, AppointmentStatusCompleted, "", false},
		{"no show approved", OpNoShow, AppointmentStatusApproved, AppointmentStatusNoShow, true},
		{"no show pending", OpNoShow, AppointmentStatusPending, "", false},
		{"reschedule approved stays approved", OpReschedule, AppointmentStatusApproved, AppointmentStatusApproved, true},
		{"reschedule rejected", OpReschedule, AppointmentStatusRejected, "", false},
		{"unknown op", TransitionOp("teleport"), AppointmentStatusPending, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CanTransition(tt.op, tt.from)
			assert.Equal(t, tt.allowed, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	terminal := []AppointmentStatus{
		AppointmentStatusCompleted,
		AppointmentStatusRejected,
		AppointmentStatusCancelled,
		AppointmentStatusNoShow,
	}
	ops := []TransitionOp{
		OpApprove, OpAcceptAssigned, OpReject, OpRejectAssigned,
		OpStart, OpComplete, OpCancel, OpNoShow, OpReschedule,
	}
	for _, status := range terminal {
		for _, op := range ops {
			_, ok := CanTransition(op, status)
			assert.False(t, ok, "op %s should not be allowed from %s", op, status)
		}
	}
}
