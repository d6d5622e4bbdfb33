package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/dtc-admin/internal/logger"
)

// ErrRecoveryTokenNotFound is returned for unknown, expired or already used tokens.
var ErrRecoveryTokenNotFound = errors.New("recovery token not found")

// RecoveryTokenRepository keeps single-use password recovery tokens in Redis.
type RecoveryTokenRepository struct {
	client *redis.Client
}

func NewRecoveryTokenRepository(client *redis.Client) *RecoveryTokenRepository {
	return &RecoveryTokenRepository{client: client}
}

func recoveryKey(token string) string {
	return fmt.Sprintf("recovery:%s", token)
}

// Save stores token for userID until ttl elapses.
func (r *RecoveryTokenRepository) Save(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	key := recoveryKey(token)
	err := r.client.Set(ctx, key, userID.String(), ttl).Err()

	logger.Log.Debugw("recovery token saved",
		"ttl", ttl,
		"error", err,
	)
	return err
}

// Consume returns the user the token was issued for and deletes the token.
func (r *RecoveryTokenRepository) Consume(ctx context.Context, token string) (uuid.UUID, error) {
	key := recoveryKey(token)

	val, err := r.client.GetDel(ctx, key).Result()
	logger.Log.Debugw("recovery token consumed",
		"found", err == nil,
		"error", err,
	)
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrRecoveryTokenNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt recovery token value: %w", err)
	}
	return userID, nil
}
