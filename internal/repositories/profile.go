package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/dtc-admin/internal/models"
	"github.com/sbilibin2017/dtc-admin/internal/query"
)

const profileColumns = `id, username, profile_url, status, notes, updated_at,
	full_name, biography, followers_count, posts_count, external_url,
	last_scraped_at, search_term, search_term_en, category`

// ProfileReadRepository reads profiles joined with their latest details.
type ProfileReadRepository struct {
	db *sqlx.DB
}

func NewProfileReadRepository(db *sqlx.DB) *ProfileReadRepository {
	return &ProfileReadRepository{db: db}
}

// List returns one page of profiles matching the filters together with
// the total number of matching rows.
func (r *ProfileReadRepository) List(ctx context.Context, params query.Params) ([]models.DtcProfile, int, error) {
	where, err := query.BuildWhere(params.Filters)
	if err != nil {
		return nil, 0, err
	}
	orderBy, err := query.BuildOrderBy(params.Sorters)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := r.bind(
		"SELECT COUNT(*) FROM dtc_profiles_with_latest_details "+where.Clause,
		where.Args,
	)
	if err != nil {
		return nil, 0, err
	}

	var total int
	err = r.db.GetContext(ctx, &total, countQuery, countArgs...)
	logQuery(ctx, countQuery, countArgs, total, err)
	if err != nil {
		return nil, 0, err
	}

	listArgs := append(append([]any{}, where.Args...), params.Pagination.PageSize, params.Pagination.Offset())
	listQuery, listArgs, err := r.bind(
		fmt.Sprintf("SELECT %s FROM dtc_profiles_with_latest_details %s %s LIMIT ? OFFSET ?",
			profileColumns, where.Clause, orderBy),
		listArgs,
	)
	if err != nil {
		return nil, 0, err
	}

	profiles := make([]models.DtcProfile, 0, params.Pagination.PageSize)
	err = r.db.SelectContext(ctx, &profiles, listQuery, listArgs...)
	logQuery(ctx, listQuery, listArgs, len(profiles), err)
	if err != nil {
		return nil, 0, err
	}

	return profiles, total, nil
}

// GetByID returns the profile with the given id, or nil if there is none.
func (r *ProfileReadRepository) GetByID(ctx context.Context, id int64) (*models.DtcProfile, error) {
	q := r.db.Rebind("SELECT " + profileColumns + " FROM dtc_profiles_with_latest_details WHERE id = ?")

	var profile models.DtcProfile
	err := r.db.GetContext(ctx, &profile, q, id)
	logQuery(ctx, q, []any{id}, profile.ID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// bind expands IN lists and converts placeholders to the driver's style.
func (r *ProfileReadRepository) bind(q string, args []any) (string, []any, error) {
	q, args, err := sqlx.In(q, args...)
	if err != nil {
		return "", nil, err
	}
	return r.db.Rebind(q), args, nil
}

// ProfileWriteRepository writes to the dtc_profiles table. When the
// request carries a transaction, statements run inside it.
type ProfileWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

func NewProfileWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *ProfileWriteRepository {
	return &ProfileWriteRepository{db: db, txGetter: txGetter}
}

func (r *ProfileWriteRepository) executor(ctx context.Context) sqlx.ExtContext {
	if r.txGetter != nil {
		if tx := r.txGetter(ctx); tx != nil {
			return tx
		}
	}
	return r.db
}

// Create inserts a profile and returns its id.
func (r *ProfileWriteRepository) Create(ctx context.Context, username string, status models.ProfileStatus, notes string) (int64, error) {
	ex := r.executor(ctx)
	q := ex.Rebind(`
		INSERT INTO dtc_profiles (username, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, NOW(), NOW())
		RETURNING id
	`)
	args := []any{username, string(status), notes}

	var id int64
	err := sqlx.GetContext(ctx, ex, &id, q, args...)
	logQuery(ctx, q, args, id, err)

	if isUniqueViolation(err) {
		return 0, ErrUniqueViolation
	}
	return id, err
}

// UpdateStatusAndNotes changes the editable fields of a profile and
// returns the status it had before. Returns sql.ErrNoRows if the
// profile does not exist.
func (r *ProfileWriteRepository) UpdateStatusAndNotes(ctx context.Context, id int64, status models.ProfileStatus, notes string) (models.ProfileStatus, error) {
	ex := r.executor(ctx)

	lockQuery := ex.Rebind("SELECT status FROM dtc_profiles WHERE id = ? FOR UPDATE")
	var previous models.ProfileStatus
	err := sqlx.GetContext(ctx, ex, &previous, lockQuery, id)
	logQuery(ctx, lockQuery, []any{id}, previous, err)
	if err != nil {
		return "", err
	}

	updateQuery := ex.Rebind(`
		UPDATE dtc_profiles
		SET status = ?, notes = ?, updated_at = NOW()
		WHERE id = ?
	`)
	args := []any{string(status), notes, id}
	res, err := ex.ExecContext(ctx, updateQuery, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(ctx, updateQuery, args, rowsAffected, err)
	if err != nil {
		return "", err
	}

	return previous, nil
}
