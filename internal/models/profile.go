package models

import (
	"errors"
	"regexp"
	"time"
)

// ProfileStatus is the moderation state of a tracked profile.
type ProfileStatus string

const (
	StatusActive            ProfileStatus = "active"
	StatusPendingReview     ProfileStatus = "pending_review"
	StatusFlaggedForRemoval ProfileStatus = "flagged_for_removal"
	StatusRemoved           ProfileStatus = "removed"
)

// Statuses lists every status in display order.
var Statuses = []ProfileStatus{
	StatusActive,
	StatusPendingReview,
	StatusFlaggedForRemoval,
	StatusRemoved,
}

// Validation errors for profile input. Messages are shown to the operator as-is.
var (
	ErrUsernameRequired = errors.New("Please enter a username")
	ErrUsernameInvalid  = errors.New("Username can only contain letters, numbers, dots, and underscores")
	ErrStatusRequired   = errors.New("Please select a status")
	ErrStatusInvalid    = errors.New("Unknown profile status")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._]+$`)

// Valid reports whether s is one of the known statuses.
func (s ProfileStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPendingReview, StatusFlaggedForRemoval, StatusRemoved:
		return true
	}
	return false
}

// Label returns the human readable status name.
func (s ProfileStatus) Label() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusPendingReview:
		return "Pending Review"
	case StatusFlaggedForRemoval:
		return "Flagged for Removal"
	case StatusRemoved:
		return "Removed"
	default:
		return string(s)
	}
}

// Color returns the tag colour the dashboard renders the status with.
func (s ProfileStatus) Color() string {
	switch s {
	case StatusActive:
		return "success"
	case StatusFlaggedForRemoval:
		return "error"
	case StatusPendingReview:
		return "processing"
	default:
		return "default"
	}
}

// ParseStatus validates a status coming from a form.
func ParseStatus(s string) (ProfileStatus, error) {
	if s == "" {
		return "", ErrStatusRequired
	}
	status := ProfileStatus(s)
	if !status.Valid() {
		return "", ErrStatusInvalid
	}
	return status, nil
}

// ValidateUsername checks the username the operator typed into the create form.
func ValidateUsername(username string) error {
	if username == "" {
		return ErrUsernameRequired
	}
	if !usernamePattern.MatchString(username) {
		return ErrUsernameInvalid
	}
	return nil
}

// DtcProfile is a tracked profile joined with its latest scraped details.
type DtcProfile struct {
	ID             int64         `json:"id" db:"id"`
	Username       string        `json:"username" db:"username"`
	ProfileURL     string        `json:"profile_url" db:"profile_url"`
	Status         ProfileStatus `json:"status" db:"status"`
	Notes          *string       `json:"notes,omitempty" db:"notes"`
	UpdatedAt      time.Time     `json:"updated_at" db:"updated_at"`
	FullName       *string       `json:"full_name,omitempty" db:"full_name"`
	Biography      *string       `json:"biography,omitempty" db:"biography"`
	FollowersCount *int64        `json:"followers_count,omitempty" db:"followers_count"`
	PostsCount     *int64        `json:"posts_count,omitempty" db:"posts_count"`
	ExternalURL    *string       `json:"external_url,omitempty" db:"external_url"`
	LastScrapedAt  *time.Time    `json:"last_scraped_at,omitempty" db:"last_scraped_at"`
	SearchTerm     *string       `json:"search_term,omitempty" db:"search_term"`
	SearchTermEn   *string       `json:"search_term_en,omitempty" db:"search_term_en"`
	Category       *string       `json:"category,omitempty" db:"category"`
}
