package repositories

import (
	"context"
	_ "embed"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/dtc-admin/internal/logger"
	"github.com/sbilibin2017/dtc-admin/internal/middlewares"
)

//go:embed schema.sql
var schema string

// ErrUniqueViolation is returned when an insert hits a unique constraint.
var ErrUniqueViolation = errors.New("unique constraint violation")

// Migrate applies the embedded schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, schema)
	logger.Log.Infow("schema migration applied", "error", err)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// oneLine collapses a multi-line SQL statement for logging.
func oneLine(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

// logQuery logs a statement together with the id of the request that ran it.
func logQuery(ctx context.Context, query string, args []any, result any, err error) {
	logger.Log.Debugw("query",
		"request_id", middlewares.GetRequestIDFromContext(ctx),
		"sql", oneLine(query),
		"args", args,
		"result", result,
		"error", err,
	)
}
