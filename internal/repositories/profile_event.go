package repositories

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/dtc-admin/internal/logger"
	"github.com/sbilibin2017/dtc-admin/internal/models"
)

// ProfileEventsChannel is the Redis channel profile changes are broadcast on.
const ProfileEventsChannel = "dtc_profiles:events"

// ProfileEventRepository broadcasts profile changes to every dashboard
// instance over Redis pub/sub.
type ProfileEventRepository struct {
	client *redis.Client
}

func NewProfileEventRepository(client *redis.Client) *ProfileEventRepository {
	return &ProfileEventRepository{client: client}
}

// Publish broadcasts event to current subscribers.
func (r *ProfileEventRepository) Publish(ctx context.Context, event models.ProfileEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	receivers, err := r.client.Publish(ctx, ProfileEventsChannel, data).Result()
	logger.Log.Debugw("profile event broadcast",
		"event_id", event.EventID,
		"receivers", receivers,
		"error", err,
	)
	return err
}

// Subscribe streams profile events until ctx is cancelled. The returned
// channel is closed when the subscription ends.
func (r *ProfileEventRepository) Subscribe(ctx context.Context) (<-chan models.ProfileEvent, error) {
	sub := r.client.Subscribe(ctx, ProfileEventsChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	out := make(chan models.ProfileEvent)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event models.ProfileEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					logger.Log.Warnw("dropping malformed profile event", "error", err)
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
