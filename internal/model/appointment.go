package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusApproved  AppointmentStatus = "approved"
	AppointmentStatusAccepted  AppointmentStatus = "accepted"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusRejected  AppointmentStatus = "rejected"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

// TransitionOp identifies a workflow operation on an appointment.
type TransitionOp string

const (
	OpApprove        TransitionOp = "approve"
	OpAcceptAssigned TransitionOp = "accept_assigned"
	OpReject         TransitionOp = "reject"
	OpRejectAssigned TransitionOp = "reject_assigned"
	OpStart          TransitionOp = "start"
	OpComplete       TransitionOp = "complete"
	OpCancel         TransitionOp = "cancel"
	OpNoShow         TransitionOp = "no_show"
	OpReschedule     TransitionOp = "reschedule"
)

// transitions maps each operation to the statuses it may be applied from and
// the status it produces. Reschedule keeps the appointment approved; only the
// date and time change.
var transitions = map[TransitionOp]struct {
	from []AppointmentStatus
	to   AppointmentStatus
}{
	OpApprove:        {from: []AppointmentStatus{AppointmentStatusPending}, to: AppointmentStatusApproved},
	OpAcceptAssigned: {from: []AppointmentStatus{AppointmentStatusPending}, to: AppointmentStatusApproved},
	OpReject:         {from: []AppointmentStatus{AppointmentStatusPending, AppointmentStatusApproved}, to: AppointmentStatusRejected},
	OpRejectAssigned: {from: []AppointmentStatus{AppointmentStatusPending, AppointmentStatusApproved}, to: AppointmentStatusRejected},
	OpStart:          {from: []AppointmentStatus{AppointmentStatusApproved}, to: AppointmentStatusAccepted},
	OpComplete:       {from: []AppointmentStatus{AppointmentStatusAccepted}, to: AppointmentStatusCompleted},
	OpCancel:         {from: []AppointmentStatus{AppointmentStatusPending, AppointmentStatusApproved, AppointmentStatusAccepted}, to: AppointmentStatusCancelled},
	OpNoShow:         {from: []AppointmentStatus{AppointmentStatusApproved}, to: AppointmentStatusNoShow},
	OpReschedule:     {from: []AppointmentStatus{AppointmentStatusPending, AppointmentStatusApproved}, to: AppointmentStatusApproved},
}

// CanTransition reports whether op may be applied to an appointment in the
// given status, and the status the appointment moves to.
func CanTransition(op TransitionOp, from AppointmentStatus) (AppointmentStatus, bool) {
	t, ok := transitions[op]
	if !ok {
		return "", false
	}
	for _, s := range t.from {
		if s == from {
			return t.to, true
		}
	}
	return "", false
}

type Appointment struct {
	Base
	PatientName  string            `db:"patient_name" json:"patient_name"`
	PatientPhone string            `db:"patient_phone" json:"patient_phone"`
	PatientEmail string            `db:"patient_email" json:"patient_email,omitempty"`
	DoctorID     *uuid.UUID        `db:"doctor_id" json:"doctor_id,omitempty"`
	Date         time.Time         `db:"date" json:"date"`
	Time         string            `db:"time" json:"time"`
	ServiceType  string            `db:"service_type" json:"service_type"`
	Vitals       string            `db:"vitals" json:"vitals,omitempty"`
	Status       AppointmentStatus `db:"status" json:"status"`
	RejectReason *string           `db:"reject_reason" json:"reject_reason,omitempty"`
}

type CreateAppointmentRequest struct {
	PatientName  string `json:"patient_name" binding:"required,max=200"`
	PatientPhone string `json:"patient_phone" binding:"required,max=30"`
	PatientEmail string `json:"patient_email" binding:"omitempty,email"`
	DoctorID     string `json:"doctor_id" binding:"omitempty,uuid"`
	Date         string `json:"date" binding:"required,datetime=2006-01-02"`
	Time         string `json:"time" binding:"required,datetime=15:04"`
	ServiceType  string `json:"service_type" binding:"required,max=100"`
	Vitals       string `json:"vitals" binding:"max=2000"`
}

type UpdateAppointmentRequest struct {
	PatientName  *string `json:"patient_name"`
	PatientPhone *string `json:"patient_phone"`
	PatientEmail *string `json:"patient_email" binding:"omitempty,email"`
	DoctorID     *string `json:"doctor_id" binding:"omitempty,uuid"`
	ServiceType  *string `json:"service_type"`
	Vitals       *string `json:"vitals"`
}

type RescheduleRequest struct {
	Date string `json:"date" binding:"required,datetime=2006-01-02"`
	Time string `json:"time" binding:"required,datetime=15:04"`
}

type RejectRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

type AppointmentFilters struct {
	DoctorID  uuid.UUID
	Status    AppointmentStatus
	StartDate time.Time
	EndDate   time.Time
}
