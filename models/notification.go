package models

import "time"

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

type Notification struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Duration  time.Duration    `json:"duration"`
	CreatedAt time.Time        `json:"created_at"`
}

func (n Notification) ExpiresAt() time.Time {
	return n.CreatedAt.Add(n.Duration)
}

func (n Notification) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt())
}
