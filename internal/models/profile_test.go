package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfileStatus_LabelAndColor(t *testing.T) {
	tests := []struct {
		status ProfileStatus
		label  string
		color  string
		valid  bool
	}{
		{StatusActive, "Active", "success", true},
		{StatusPendingReview, "Pending Review", "processing", true},
		{StatusFlaggedForRemoval, "Flagged for Removal", "error", true},
		{StatusRemoved, "Removed", "default", true},
		{ProfileStatus("archived"), "archived", "default", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.label, tt.status.Label())
			assert.Equal(t, tt.color, tt.status.Color())
			assert.Equal(t, tt.valid, tt.status.Valid())
		})
	}
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("flagged_for_removal")
	assert.NoError(t, err)
	assert.Equal(t, StatusFlaggedForRemoval, status)

	_, err = ParseStatus("")
	assert.ErrorIs(t, err, ErrStatusRequired)

	_, err = ParseStatus("deleted")
	assert.ErrorIs(t, err, ErrStatusInvalid)
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  error
	}{
		{"plain", "john_doe", nil},
		{"dots and digits", "shop.2024", nil},
		{"empty", "", ErrUsernameRequired},
		{"at sign", "@john", ErrUsernameInvalid},
		{"space", "john doe", ErrUsernameInvalid},
		{"dash", "john-doe", ErrUsernameInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
