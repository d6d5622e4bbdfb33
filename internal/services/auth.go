package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/dtc-admin/internal/logger"
	"github.com/sbilibin2017/dtc-admin/internal/models"
	"github.com/sbilibin2017/dtc-admin/internal/repositories"
	"github.com/segmentio/kafka-go"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=services

// MinPasswordLength is the shortest password accepted on register and reset.
const MinPasswordLength = 6

// Error variables
var (
	ErrUserAlreadyExists    = errors.New("A user with this email already exists")
	ErrUserDoesNotExist     = errors.New("User does not exist")
	ErrInvalidCredentials   = errors.New("Invalid email or password")
	ErrInvalidEmail         = errors.New("Please enter a valid email")
	ErrPasswordTooShort     = errors.New("Password must be at least 6 characters")
	ErrInvalidRecoveryToken = errors.New("Recovery link is invalid or has expired")
)

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, email, passwordHash string) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error
}

// TokenGenerator issues session and recovery tokens.
type TokenGenerator interface {
	Generate(ctx context.Context, userID uuid.UUID, email string) (string, error)
	GenerateRecovery(ctx context.Context, userID uuid.UUID, email string) (string, error)
}

// RecoveryTokenStore keeps single-use recovery tokens.
type RecoveryTokenStore interface {
	Save(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error
	Consume(ctx context.Context, token string) (uuid.UUID, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// RecoveryOptions configures the forgot-password flow.
type RecoveryOptions struct {
	BaseURL string        // Public URL of the dashboard, used to build recovery links
	TTL     time.Duration // How long a recovery link stays valid
	Topic   string        // Kafka topic read by the mailer
}

// AuthService handles operator accounts, sessions and password recovery.
type AuthService struct {
	reader      UserReader
	writer      UserWriter
	jwt         TokenGenerator
	recovery    RecoveryTokenStore
	kafkaWriter KafkaWriter
	opts        RecoveryOptions
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(
	reader UserReader,
	writer UserWriter,
	jwt TokenGenerator,
	recovery RecoveryTokenStore,
	kafkaWriter KafkaWriter,
	opts RecoveryOptions,
) *AuthService {
	return &AuthService{
		reader:      reader,
		writer:      writer,
		jwt:         jwt,
		recovery:    recovery,
		kafkaWriter: kafkaWriter,
		opts:        opts,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Register creates a new operator account.
func (svc *AuthService) Register(ctx context.Context, email, password string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return err
	}
	if user != nil {
		logger.Log.Infow("user already exists", "email", email)
		return ErrUserAlreadyExists
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return err
	}

	if err := svc.writer.Save(ctx, email, hashed); err != nil {
		if errors.Is(err, repositories.ErrUniqueViolation) {
			return ErrUserAlreadyExists
		}
		logger.Log.Errorw("failed to save user", "err", err)
		return err
	}

	logger.Log.Infow("user registered", "email", email)
	return nil
}

// Login authenticates an operator and returns a session token.
func (svc *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := svc.reader.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		logger.Log.Infow("user does not exist", "email", email)
		return "", ErrUserDoesNotExist
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Infow("invalid credentials", "email", email)
		return "", ErrInvalidCredentials
	}

	token, err := svc.jwt.Generate(ctx, user.UserID, user.Email)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", err
	}

	return token, nil
}

// ForgotPassword issues a recovery link for email and hands it to the
// mailer. Unknown emails are ignored so the response does not reveal
// which accounts exist.
func (svc *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return err
	}
	if user == nil {
		logger.Log.Infow("recovery requested for unknown email", "email", email)
		return nil
	}

	token := uuid.NewString()
	if err := svc.recovery.Save(ctx, token, user.UserID, svc.opts.TTL); err != nil {
		logger.Log.Errorw("failed to store recovery token", "user_id", user.UserID, "err", err)
		return err
	}

	msg := models.RecoveryMessage{
		Email:     user.Email,
		Link:      svc.recoveryLink(token),
		ExpiresAt: time.Now().Add(svc.opts.TTL).UTC(),
	}
	return svc.publishRecovery(ctx, msg)
}

func (svc *AuthService) recoveryLink(token string) string {
	return strings.TrimRight(svc.opts.BaseURL, "/") + "/api/v1/auth/recover?token=" + url.QueryEscape(token)
}

// publishRecovery sends the recovery link to the mailer topic.
func (svc *AuthService) publishRecovery(ctx context.Context, msg models.RecoveryMessage) error {
	if svc.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping recovery mail", "email", msg.Email)
		logger.Log.Debugw("recovery link", "link", msg.Link)
		return nil
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	err = svc.kafkaWriter.WriteMessages(ctx, kafka.Message{
		Topic: svc.opts.Topic,
		Key:   []byte(msg.Email),
		Value: data,
	})
	if err != nil {
		logger.Log.Errorw("Failed to publish recovery mail to Kafka", "email", msg.Email, "error", err)
		return err
	}

	logger.Log.Infow("Recovery mail published to Kafka", "email", msg.Email)
	return nil
}

// Recover exchanges a recovery link token for a recovery session token.
func (svc *AuthService) Recover(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidRecoveryToken
	}

	userID, err := svc.recovery.Consume(ctx, token)
	if errors.Is(err, repositories.ErrRecoveryTokenNotFound) {
		return "", ErrInvalidRecoveryToken
	}
	if err != nil {
		logger.Log.Errorw("failed to consume recovery token", "err", err)
		return "", err
	}

	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return "", err
	}
	if user == nil {
		return "", ErrInvalidRecoveryToken
	}

	return svc.jwt.GenerateRecovery(ctx, user.UserID, user.Email)
}

// UpdatePassword sets a new password for userID.
func (svc *AuthService) UpdatePassword(ctx context.Context, userID uuid.UUID, password string) error {
	hashed, err := hashPassword(password)
	if err != nil {
		return err
	}

	user, err := svc.reader.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return err
	}
	if user == nil {
		return ErrUserDoesNotExist
	}

	if err := svc.writer.UpdatePassword(ctx, userID, hashed); err != nil {
		logger.Log.Errorw("failed to update password", "user_id", userID, "err", err)
		return err
	}

	logger.Log.Infow("password updated", "user_id", userID)
	return nil
}
