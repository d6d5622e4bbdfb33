package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sbilibin2017/dtc-admin/internal/logger"
	"github.com/sbilibin2017/dtc-admin/internal/models"
	"github.com/sbilibin2017/dtc-admin/internal/query"
	"github.com/sbilibin2017/dtc-admin/internal/repositories"
	"github.com/segmentio/kafka-go"
)

//go:generate mockgen -source=profile.go -destination=profile_mock.go -package=services

var (
	ErrProfileNotFound      = errors.New("Profile not found")
	ErrProfileAlreadyExists = errors.New("A profile with this username already exists")
)

// ProfileReader reads profiles joined with their latest details.
type ProfileReader interface {
	List(ctx context.Context, params query.Params) ([]models.DtcProfile, int, error)
	GetByID(ctx context.Context, id int64) (*models.DtcProfile, error)
}

// ProfileWriter writes the editable profile fields.
type ProfileWriter interface {
	Create(ctx context.Context, username string, status models.ProfileStatus, notes string) (int64, error)
	UpdateStatusAndNotes(ctx context.Context, id int64, status models.ProfileStatus, notes string) (models.ProfileStatus, error)
}

// ProfileEventBroadcaster fans profile events out to live dashboard sessions.
type ProfileEventBroadcaster interface {
	Publish(ctx context.Context, event models.ProfileEvent) error
}

// ProfilePage is one page of the profile table.
type ProfilePage struct {
	Profiles []models.DtcProfile
	Total    int
}

// ProfileService lists and edits tracked profiles and announces every change.
type ProfileService struct {
	reader      ProfileReader
	writer      ProfileWriter
	broadcaster ProfileEventBroadcaster
	kafkaWriter KafkaWriter
	topic       string
	afterCommit func(ctx context.Context, fn func())
}

// NewProfileService creates a new ProfileService. afterCommit defers event
// publishing until the request transaction commits; when nil, events are
// published immediately.
func NewProfileService(
	reader ProfileReader,
	writer ProfileWriter,
	broadcaster ProfileEventBroadcaster,
	kafkaWriter KafkaWriter,
	topic string,
	afterCommit func(ctx context.Context, fn func()),
) *ProfileService {
	return &ProfileService{
		reader:      reader,
		writer:      writer,
		broadcaster: broadcaster,
		kafkaWriter: kafkaWriter,
		topic:       topic,
		afterCommit: afterCommit,
	}
}

// List returns one page of profiles and the number of rows matching the filters.
func (s *ProfileService) List(ctx context.Context, params query.Params) (*ProfilePage, error) {
	profiles, total, err := s.reader.List(ctx, params)
	if err != nil {
		if !errors.Is(err, query.ErrInvalidQuery) {
			logger.Log.Errorw("failed to list profiles", "error", err)
		}
		return nil, err
	}
	if profiles == nil {
		profiles = []models.DtcProfile{}
	}
	return &ProfilePage{Profiles: profiles, Total: total}, nil
}

// Get returns a single profile.
func (s *ProfileService) Get(ctx context.Context, id int64) (*models.DtcProfile, error) {
	profile, err := s.reader.GetByID(ctx, id)
	if err != nil {
		logger.Log.Errorw("failed to get profile", "id", id, "error", err)
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// Create adds a profile to track. An empty status defaults to active.
func (s *ProfileService) Create(ctx context.Context, username string, status models.ProfileStatus, notes, actor string) (int64, error) {
	if err := models.ValidateUsername(username); err != nil {
		return 0, err
	}
	if status == "" {
		status = models.StatusActive
	}
	if _, err := models.ParseStatus(string(status)); err != nil {
		return 0, err
	}

	id, err := s.writer.Create(ctx, username, status, notes)
	if errors.Is(err, repositories.ErrUniqueViolation) {
		return 0, ErrProfileAlreadyExists
	}
	if err != nil {
		logger.Log.Errorw("failed to create profile", "username", username, "error", err)
		return 0, err
	}

	s.emit(ctx, models.ProfileEvent{
		Type:      models.ProfileCreated,
		ProfileID: id,
		Username:  username,
		Status:    status,
		Notes:     notes,
		Actor:     actor,
	})

	return id, nil
}

// Update changes the status and notes of a profile.
func (s *ProfileService) Update(ctx context.Context, id int64, status models.ProfileStatus, notes, actor string) error {
	if _, err := models.ParseStatus(string(status)); err != nil {
		return err
	}

	previous, err := s.writer.UpdateStatusAndNotes(ctx, id, status, notes)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProfileNotFound
	}
	if err != nil {
		logger.Log.Errorw("failed to update profile", "id", id, "error", err)
		return err
	}

	s.emit(ctx, models.ProfileEvent{
		Type:           models.ProfileUpdated,
		ProfileID:      id,
		Status:         status,
		PreviousStatus: previous,
		Notes:          notes,
		Actor:          actor,
	})

	return nil
}

func (s *ProfileService) emit(ctx context.Context, event models.ProfileEvent) {
	if s.afterCommit == nil {
		s.publishEvent(ctx, event)
		return
	}
	s.afterCommit(ctx, func() { s.publishEvent(ctx, event) })
}

// publishEvent stamps the event and sends it to the audit topic and the
// live feed. Failures are logged only.
func (s *ProfileService) publishEvent(ctx context.Context, event models.ProfileEvent) {
	now := time.Now().UTC()
	event.EventID = ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
	event.OccurredAt = now

	if s.broadcaster != nil {
		if err := s.broadcaster.Publish(ctx, event); err != nil {
			logger.Log.Errorw("Failed to broadcast profile event", "event_id", event.EventID, "error", err)
		}
	}

	if s.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "event_id", event.EventID)
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal profile event for Kafka", "event_id", event.EventID, "error", err)
		return
	}

	msg := kafka.Message{
		Topic: s.topic,
		Key:   []byte(event.EventID),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish profile event to Kafka", "event_id", event.EventID, "error", err)
	} else {
		logger.Log.Infow("Profile event published to Kafka", "event_id", event.EventID, "type", event.Type, "profile_id", event.ProfileID)
	}
}
