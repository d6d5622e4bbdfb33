package models

import "time"

// ProfileEventType names the mutation that produced a ProfileEvent.
type ProfileEventType string

const (
	ProfileCreated ProfileEventType = "created"
	ProfileUpdated ProfileEventType = "updated"
)

// ProfileEvent is published after every successful profile mutation.
// It feeds both the audit topic and the live table refresh.
type ProfileEvent struct {
	EventID        string           `json:"event_id"`
	Type           ProfileEventType `json:"type"`
	ProfileID      int64            `json:"profile_id"`
	Username       string           `json:"username,omitempty"`
	Status         ProfileStatus    `json:"status"`
	PreviousStatus ProfileStatus    `json:"previous_status,omitempty"`
	Notes          string           `json:"notes"`
	Actor          string           `json:"actor,omitempty"`
	OccurredAt     time.Time        `json:"occurred_at"`
}

// RecoveryMessage asks the external mailer to deliver a password recovery link.
type RecoveryMessage struct {
	Email     string    `json:"email"`
	Link      string    `json:"link"`
	ExpiresAt time.Time `json:"expires_at"`
}
