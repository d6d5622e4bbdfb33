package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/dtc-admin/internal/models"
)

const userColumns = "user_id, email, password_hash, created_at, updated_at"

type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

// GetByEmail returns the user with the given email, or nil if there is none.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	q := r.db.Rebind("SELECT " + userColumns + " FROM users WHERE LOWER(email) = LOWER(?) LIMIT 1")
	return r.get(ctx, q, email)
}

// GetByID returns the user with the given id, or nil if there is none.
func (r *UserReadRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	q := r.db.Rebind("SELECT " + userColumns + " FROM users WHERE user_id = ?")
	return r.get(ctx, q, userID)
}

func (r *UserReadRepository) get(ctx context.Context, q string, arg any) (*models.UserDB, error) {
	var user models.UserDB
	err := r.db.GetContext(ctx, &user, q, arg)
	logQuery(ctx, q, []any{arg}, user.UserID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Save inserts a new user with an already hashed password.
func (r *UserWriteRepository) Save(ctx context.Context, email, passwordHash string) error {
	q := r.db.Rebind(`
		INSERT INTO users (email, password_hash, created_at, updated_at)
		VALUES (?, ?, NOW(), NOW())
	`)
	// The hash is not logged.
	err := r.exec(ctx, q, []any{email, "***"}, email, passwordHash)
	if isUniqueViolation(err) {
		return ErrUniqueViolation
	}
	return err
}

// UpdatePassword replaces the password hash of a user.
func (r *UserWriteRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	q := r.db.Rebind(`
		UPDATE users
		SET password_hash = ?, updated_at = NOW()
		WHERE user_id = ?
	`)
	return r.exec(ctx, q, []any{"***", userID}, passwordHash, userID)
}

func (r *UserWriteRepository) exec(ctx context.Context, q string, logArgs []any, args ...any) error {
	res, err := r.db.ExecContext(ctx, q, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(ctx, q, logArgs, rowsAffected, err)
	return err
}
