package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/sbilibin2017/dtc-admin/internal/models"
	"github.com/sbilibin2017/dtc-admin/internal/repositories"
	"github.com/sbilibin2017/dtc-admin/internal/services"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var recoveryOpts = services.RecoveryOptions{
	BaseURL: "https://admin.example.com/",
	TTL:     time.Hour,
	Topic:   "auth.password_recovery",
}

type authMocks struct {
	reader   *services.MockUserReader
	writer   *services.MockUserWriter
	jwt      *services.MockTokenGenerator
	recovery *services.MockRecoveryTokenStore
	kafka    *services.MockKafkaWriter
}

func newAuthService(t *testing.T) (*services.AuthService, authMocks) {
	ctrl := gomock.NewController(t)
	m := authMocks{
		reader:   services.NewMockUserReader(ctrl),
		writer:   services.NewMockUserWriter(ctrl),
		jwt:      services.NewMockTokenGenerator(ctrl),
		recovery: services.NewMockRecoveryTokenStore(ctrl),
		kafka:    services.NewMockKafkaWriter(ctrl),
	}
	svc := services.NewAuthService(m.reader, m.writer, m.jwt, m.recovery, m.kafka, recoveryOpts)
	return svc, m
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name         string
		email        string
		password     string
		existingUser *models.UserDB
		readerErr    error
		writerErr    error
		wantErr      error
	}{
		{
			name:     "successful registration",
			email:    "alice@example.com",
			password: "pass123",
		},
		{
			name:         "user already exists",
			email:        "bob@example.com",
			password:     "pass123",
			existingUser: &models.UserDB{UserID: uuid.New()},
			wantErr:      services.ErrUserAlreadyExists,
		},
		{
			name:     "invalid email",
			email:    "not-an-email",
			password: "pass123",
			wantErr:  services.ErrInvalidEmail,
		},
		{
			name:     "password too short",
			email:    "carol@example.com",
			password: "12345",
			wantErr:  services.ErrPasswordTooShort,
		},
		{
			name:      "reader error",
			email:     "eve@example.com",
			password:  "pass123",
			readerErr: errors.New("db error"),
			wantErr:   errors.New("db error"),
		},
		{
			name:      "concurrent duplicate",
			email:     "dave@example.com",
			password:  "pass123",
			writerErr: repositories.ErrUniqueViolation,
			wantErr:   services.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newAuthService(t)
			validInput := tt.wantErr != services.ErrInvalidEmail && tt.wantErr != services.ErrPasswordTooShort

			if validInput {
				m.reader.EXPECT().
					GetByEmail(gomock.Any(), tt.email).
					Return(tt.existingUser, tt.readerErr)
			}
			if validInput && tt.existingUser == nil && tt.readerErr == nil {
				m.writer.EXPECT().
					Save(gomock.Any(), tt.email, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, hash string) error {
						assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(tt.password)))
						return tt.writerErr
					})
			}

			err := svc.Register(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	user := &models.UserDB{UserID: uuid.New(), Email: "ops@example.com", PasswordHash: string(hash)}

	t.Run("success", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.reader.EXPECT().GetByEmail(gomock.Any(), "ops@example.com").Return(user, nil)
		m.jwt.EXPECT().Generate(gomock.Any(), user.UserID, user.Email).Return("token123", nil)

		token, err := svc.Login(context.Background(), " ops@example.com ", "correct")
		assert.NoError(t, err)
		assert.Equal(t, "token123", token)
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.reader.EXPECT().GetByEmail(gomock.Any(), "ops@example.com").Return(user, nil)

		_, err := svc.Login(context.Background(), "ops@example.com", "wrong")
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.reader.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, nil)

		_, err := svc.Login(context.Background(), "ghost@example.com", "whatever")
		assert.ErrorIs(t, err, services.ErrUserDoesNotExist)
	})

	t.Run("token error", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.reader.EXPECT().GetByEmail(gomock.Any(), "ops@example.com").Return(user, nil)
		m.jwt.EXPECT().Generate(gomock.Any(), user.UserID, user.Email).Return("", errors.New("sign failed"))

		_, err := svc.Login(context.Background(), "ops@example.com", "correct")
		assert.EqualError(t, err, "sign failed")
	})
}

func TestAuthService_ForgotPassword(t *testing.T) {
	user := &models.UserDB{UserID: uuid.New(), Email: "ops@example.com"}

	t.Run("publishes recovery link", func(t *testing.T) {
		svc, m := newAuthService(t)
		var savedToken string

		m.reader.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
		m.recovery.EXPECT().
			Save(gomock.Any(), gomock.Any(), user.UserID, time.Hour).
			DoAndReturn(func(_ context.Context, token string, _ uuid.UUID, _ time.Duration) error {
				savedToken = token
				return nil
			})
		m.kafka.EXPECT().
			WriteMessages(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, msgs ...kafka.Message) error {
				require.Len(t, msgs, 1)
				assert.Equal(t, recoveryOpts.Topic, msgs[0].Topic)

				var msg models.RecoveryMessage
				require.NoError(t, json.Unmarshal(msgs[0].Value, &msg))
				assert.Equal(t, user.Email, msg.Email)
				assert.Equal(t, "https://admin.example.com/api/v1/auth/recover?token="+savedToken, msg.Link)
				assert.True(t, msg.ExpiresAt.After(time.Now()))
				return nil
			})

		assert.NoError(t, svc.ForgotPassword(context.Background(), user.Email))
		assert.NotEmpty(t, savedToken)
	})

	t.Run("unknown email is not an error", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.reader.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, nil)

		assert.NoError(t, svc.ForgotPassword(context.Background(), "ghost@example.com"))
	})

	t.Run("invalid email", func(t *testing.T) {
		svc, _ := newAuthService(t)
		assert.ErrorIs(t, svc.ForgotPassword(context.Background(), "nope"), services.ErrInvalidEmail)
	})

	t.Run("token store error", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.reader.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
		m.recovery.EXPECT().Save(gomock.Any(), gomock.Any(), user.UserID, time.Hour).Return(errors.New("redis down"))

		assert.EqualError(t, svc.ForgotPassword(context.Background(), user.Email), "redis down")
	})

	t.Run("kafka not configured", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		reader := services.NewMockUserReader(ctrl)
		recovery := services.NewMockRecoveryTokenStore(ctrl)
		svc := services.NewAuthService(reader, services.NewMockUserWriter(ctrl), services.NewMockTokenGenerator(ctrl), recovery, nil, recoveryOpts)

		reader.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
		recovery.EXPECT().Save(gomock.Any(), gomock.Any(), user.UserID, time.Hour).Return(nil)

		assert.NoError(t, svc.ForgotPassword(context.Background(), user.Email))
	})
}

func TestAuthService_Recover(t *testing.T) {
	user := &models.UserDB{UserID: uuid.New(), Email: "ops@example.com"}

	t.Run("success", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.recovery.EXPECT().Consume(gomock.Any(), "tok").Return(user.UserID, nil)
		m.reader.EXPECT().GetByID(gomock.Any(), user.UserID).Return(user, nil)
		m.jwt.EXPECT().GenerateRecovery(gomock.Any(), user.UserID, user.Email).Return("recovery-jwt", nil)

		token, err := svc.Recover(context.Background(), "tok")
		assert.NoError(t, err)
		assert.Equal(t, "recovery-jwt", token)
	})

	t.Run("used or expired token", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.recovery.EXPECT().Consume(gomock.Any(), "tok").Return(uuid.Nil, repositories.ErrRecoveryTokenNotFound)

		_, err := svc.Recover(context.Background(), "tok")
		assert.ErrorIs(t, err, services.ErrInvalidRecoveryToken)
	})

	t.Run("empty token", func(t *testing.T) {
		svc, _ := newAuthService(t)
		_, err := svc.Recover(context.Background(), "")
		assert.ErrorIs(t, err, services.ErrInvalidRecoveryToken)
	})

	t.Run("user deleted", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.recovery.EXPECT().Consume(gomock.Any(), "tok").Return(user.UserID, nil)
		m.reader.EXPECT().GetByID(gomock.Any(), user.UserID).Return(nil, nil)

		_, err := svc.Recover(context.Background(), "tok")
		assert.ErrorIs(t, err, services.ErrInvalidRecoveryToken)
	})
}

func TestAuthService_UpdatePassword(t *testing.T) {
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.reader.EXPECT().GetByID(gomock.Any(), userID).Return(&models.UserDB{UserID: userID}, nil)
		m.writer.EXPECT().
			UpdatePassword(gomock.Any(), userID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, hash string) error {
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpass1")))
				return nil
			})

		assert.NoError(t, svc.UpdatePassword(context.Background(), userID, "newpass1"))
	})

	t.Run("too short", func(t *testing.T) {
		svc, _ := newAuthService(t)
		assert.ErrorIs(t, svc.UpdatePassword(context.Background(), userID, "123"), services.ErrPasswordTooShort)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.reader.EXPECT().GetByID(gomock.Any(), userID).Return(nil, nil)

		assert.ErrorIs(t, svc.UpdatePassword(context.Background(), userID, "newpass1"), services.ErrUserDoesNotExist)
	})
}
