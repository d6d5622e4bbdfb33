package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/dtc-admin/internal/models"
	"github.com/sbilibin2017/dtc-admin/internal/query"
	"github.com/sbilibin2017/dtc-admin/internal/repositories"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const eventsTopic = "dtc_profiles.events"

func TestProfileService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := NewMockProfileReader(ctrl)
	svc := NewProfileService(reader, nil, nil, nil, eventsTopic, nil)

	params := query.Params{Pagination: query.Pagination{Current: 1, PageSize: 10}}

	reader.EXPECT().List(gomock.Any(), params).Return(nil, 0, nil)
	page, err := svc.List(context.Background(), params)
	require.NoError(t, err)
	assert.NotNil(t, page.Profiles)
	assert.Equal(t, 0, page.Total)

	reader.EXPECT().List(gomock.Any(), params).Return([]models.DtcProfile{{ID: 1}, {ID: 2}}, 12, nil)
	page, err = svc.List(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, page.Profiles, 2)
	assert.Equal(t, 12, page.Total)

	reader.EXPECT().List(gomock.Any(), params).Return(nil, 0, errors.New("db error"))
	_, err = svc.List(context.Background(), params)
	assert.Error(t, err)
}

func TestProfileService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reader := NewMockProfileReader(ctrl)
	svc := NewProfileService(reader, nil, nil, nil, eventsTopic, nil)

	reader.EXPECT().GetByID(gomock.Any(), int64(3)).Return(&models.DtcProfile{ID: 3, Username: "shop"}, nil)
	profile, err := svc.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "shop", profile.Username)

	reader.EXPECT().GetByID(gomock.Any(), int64(4)).Return(nil, nil)
	_, err = svc.Get(context.Background(), 4)
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestProfileService_Create(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		status    models.ProfileStatus
		wantStore models.ProfileStatus
		writerErr error
		wantErr   error
	}{
		{name: "defaults to active", username: "brand.shop", wantStore: models.StatusActive},
		{name: "explicit status", username: "brand_shop", status: models.StatusPendingReview, wantStore: models.StatusPendingReview},
		{name: "empty username", username: "", wantErr: models.ErrUsernameRequired},
		{name: "blank username is not trimmed", username: "  ", wantErr: models.ErrUsernameInvalid},
		{name: "leading space", username: " foo", wantErr: models.ErrUsernameInvalid},
		{name: "trailing space", username: "foo ", wantErr: models.ErrUsernameInvalid},
		{name: "bad characters", username: "brand shop!", wantErr: models.ErrUsernameInvalid},
		{name: "unknown status", username: "brand", status: "archived", wantErr: models.ErrStatusInvalid},
		{name: "duplicate", username: "brand", wantStore: models.StatusActive, writerErr: repositories.ErrUniqueViolation, wantErr: ErrProfileAlreadyExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			writer := NewMockProfileWriter(ctrl)
			broadcaster := NewMockProfileEventBroadcaster(ctrl)
			kw := NewMockKafkaWriter(ctrl)
			svc := NewProfileService(nil, writer, broadcaster, kw, eventsTopic, nil)

			if tt.wantStore != "" {
				writer.EXPECT().Create(gomock.Any(), tt.username, tt.wantStore, "note").Return(int64(42), tt.writerErr)
			}
			if tt.wantErr == nil {
				broadcaster.EXPECT().
					Publish(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e models.ProfileEvent) error {
						assert.Equal(t, models.ProfileCreated, e.Type)
						assert.Equal(t, int64(42), e.ProfileID)
						assert.Equal(t, tt.wantStore, e.Status)
						assert.Equal(t, "ops@example.com", e.Actor)
						assert.Len(t, e.EventID, 26)
						return nil
					})
				kw.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)
			}

			id, err := svc.Create(context.Background(), tt.username, tt.status, "note", "ops@example.com")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, int64(42), id)
		})
	}
}

func TestProfileService_Update(t *testing.T) {
	t.Run("publishes previous status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		writer := NewMockProfileWriter(ctrl)
		kw := NewMockKafkaWriter(ctrl)
		svc := NewProfileService(nil, writer, nil, kw, eventsTopic, nil)

		writer.EXPECT().
			UpdateStatusAndNotes(gomock.Any(), int64(7), models.StatusRemoved, "gone").
			Return(models.StatusFlaggedForRemoval, nil)
		kw.EXPECT().
			WriteMessages(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
				require.Len(t, msgs, 1)
				assert.Equal(t, eventsTopic, msgs[0].Topic)

				var e models.ProfileEvent
				require.NoError(t, json.Unmarshal(msgs[0].Value, &e))
				assert.Equal(t, models.ProfileUpdated, e.Type)
				assert.Equal(t, models.StatusFlaggedForRemoval, e.PreviousStatus)
				assert.Equal(t, string(msgs[0].Key), e.EventID)
				return nil
			})

		assert.NoError(t, svc.Update(context.Background(), 7, models.StatusRemoved, "gone", "ops@example.com"))
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		writer := NewMockProfileWriter(ctrl)
		svc := NewProfileService(nil, writer, nil, nil, eventsTopic, nil)

		writer.EXPECT().
			UpdateStatusAndNotes(gomock.Any(), int64(8), models.StatusActive, "").
			Return(models.ProfileStatus(""), sql.ErrNoRows)

		assert.ErrorIs(t, svc.Update(context.Background(), 8, models.StatusActive, "", ""), ErrProfileNotFound)
	})

	t.Run("status required", func(t *testing.T) {
		svc := NewProfileService(nil, nil, nil, nil, eventsTopic, nil)
		assert.ErrorIs(t, svc.Update(context.Background(), 8, "", "", ""), models.ErrStatusRequired)
	})

	t.Run("publish failures are not returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		writer := NewMockProfileWriter(ctrl)
		broadcaster := NewMockProfileEventBroadcaster(ctrl)
		kw := NewMockKafkaWriter(ctrl)
		svc := NewProfileService(nil, writer, broadcaster, kw, eventsTopic, nil)

		writer.EXPECT().UpdateStatusAndNotes(gomock.Any(), int64(9), models.StatusActive, "").Return(models.StatusActive, nil)
		broadcaster.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))
		kw.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("kafka down"))

		assert.NoError(t, svc.Update(context.Background(), 9, models.StatusActive, "", ""))
	})
}

func TestProfileService_EventsWaitForCommit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writer := NewMockProfileWriter(ctrl)
	broadcaster := NewMockProfileEventBroadcaster(ctrl)

	var deferred []func()
	afterCommit := func(_ context.Context, fn func()) { deferred = append(deferred, fn) }
	svc := NewProfileService(nil, writer, broadcaster, nil, eventsTopic, afterCommit)

	writer.EXPECT().UpdateStatusAndNotes(gomock.Any(), int64(1), models.StatusActive, "").Return(models.StatusRemoved, nil)
	require.NoError(t, svc.Update(context.Background(), 1, models.StatusActive, "", ""))
	require.Len(t, deferred, 1)

	broadcaster.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
	deferred[0]()
}

func TestProfileService_publishEvent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No Kafka writer configured
	svc := NewProfileService(nil, nil, nil, nil, eventsTopic, nil)
	svc.publishEvent(context.Background(), models.ProfileEvent{ProfileID: 1})

	mockKafka := NewMockKafkaWriter(ctrl)
	mockKafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)
	svc = NewProfileService(nil, nil, nil, mockKafka, eventsTopic, nil)
	svc.publishEvent(context.Background(), models.ProfileEvent{ProfileID: 1})
}
