package middlewares

import (
	"bytes"
	"context"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/dtc-admin/internal/logger"
)

// TxMiddleware wraps an HTTP handler with a database transaction. The
// response is buffered; the transaction is rolled back on panic or when
// the handler responds with a status of 400 or above, and committed
// otherwise. Functions registered with AfterCommit run after a
// successful commit, once the response has been flushed to the client.
func TxMiddleware(db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tx, err := db.BeginTxx(ctx, nil)
			if err != nil {
				logger.Log.Errorw("failed to begin transaction", "error", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			defer func() {
				if rec := recover(); rec != nil {
					_ = tx.Rollback()
					panic(rec)
				}
			}()

			hooks := &commitHooks{}
			ctx = setTxToContext(ctx, tx)
			ctx = context.WithValue(ctx, commitHooksKey, hooks)

			bw := &bufferedWriter{header: w.Header(), status: http.StatusOK}
			next.ServeHTTP(bw, r.WithContext(ctx))

			if bw.status >= http.StatusBadRequest {
				if err := tx.Rollback(); err != nil {
					logger.Log.Errorw("failed to rollback transaction", "error", err)
				}
				bw.flushTo(w)
				return
			}

			if err := tx.Commit(); err != nil {
				logger.Log.Errorw("failed to commit transaction", "error", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			bw.flushTo(w)
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
			for _, fn := range hooks.fns {
				fn()
			}
		})
	}
}

// contextKey is an unexported type for keys in context
type contextKey int

const (
	txKey contextKey = iota
	commitHooksKey
)

type commitHooks struct {
	fns []func()
}

// setTxToContext stores a transaction in the context
func setTxToContext(ctx context.Context, tx *sqlx.Tx) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// GetTxFromContext retrieves the transaction from the context. Returns nil if not present.
func GetTxFromContext(ctx context.Context) *sqlx.Tx {
	tx, _ := ctx.Value(txKey).(*sqlx.Tx)
	return tx
}

// AfterCommit runs fn once the request transaction commits. Without a
// request transaction fn runs immediately.
func AfterCommit(ctx context.Context, fn func()) {
	hooks, ok := ctx.Value(commitHooksKey).(*commitHooks)
	if !ok {
		fn()
		return
	}
	hooks.fns = append(hooks.fns, fn)
}

type bufferedWriter struct {
	header http.Header
	status int
	wrote  bool
	body   bytes.Buffer
}

func (bw *bufferedWriter) Header() http.Header {
	return bw.header
}

func (bw *bufferedWriter) WriteHeader(code int) {
	if bw.wrote {
		return
	}
	bw.status = code
	bw.wrote = true
}

func (bw *bufferedWriter) Write(b []byte) (int, error) {
	bw.wrote = true
	return bw.body.Write(b)
}

func (bw *bufferedWriter) flushTo(w http.ResponseWriter) {
	w.WriteHeader(bw.status)
	_, _ = w.Write(bw.body.Bytes())
}
