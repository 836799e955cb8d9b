package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeError   NotificationType = "error"
)

// Notification is a directed or broadcast message. A nil StaffID means the
// row belongs to the admin broadcast channel, not to every staff member.
type Notification struct {
	ID        uuid.UUID        `db:"id" json:"id"`
	StaffID   *uuid.UUID       `db:"staff_id" json:"staff_id,omitempty"`
	Title     string           `db:"title" json:"title"`
	Message   string           `db:"message" json:"message"`
	Type      NotificationType `db:"type" json:"type"`
	IsRead    bool             `db:"is_read" json:"is_read"`
	CreatedAt time.Time        `db:"created_at" json:"created_at"`
}

type CreateNotificationRequest struct {
	StaffID string `json:"staff_id" binding:"omitempty,uuid"`
	Title   string `json:"title" binding:"required,max=200"`
	Message string `json:"message" binding:"required,max=2000"`
	Type    string `json:"type" binding:"required,oneof=info success warning error"`
}

// NotificationEvent is the payload published to the in-app fanout channel
// when a notification row is created.
type NotificationEvent struct {
	ID        uuid.UUID        `json:"id"`
	StaffID   *uuid.UUID       `json:"staff_id,omitempty"`
	Title     string           `json:"title"`
	Type      NotificationType `json:"type"`
	CreatedAt time.Time        `json:"created_at"`
}
