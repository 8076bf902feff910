package uow

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"log/slog"
	"time"

	"medrecords-gateway/internal/infra/db"
	"medrecords-gateway/internal/pkg/errs"
	"medrecords-gateway/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"

	// TenantSetting is read by the RLS policies in migrations/001_initial_schema.sql.
	TenantSetting = "app.current_tenant_id"

	// is_local = true: the value is discarded at COMMIT/ROLLBACK
	setTenantSQL = "SELECT set_config('" + TenantSetting + "', $1, true)"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errSetTenant          = errs.New("failed to set tenant context")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) *PostgresUoW {
	return &PostgresUoW{
		pool: pool,
	}
}

// ReadCommitted prevents dirty reads while allowing concurrent writes
func (u *PostgresUoW) Begin(ctx context.Context, tenantID uuid.UUID) (shared.TenantTx, error) {
	return u.begin(ctx, tenantID, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
}

// WithinTenant is the worker-side entry point for tenant scoping outside an HTTP request.
func (u *PostgresUoW) WithinTenant(ctx context.Context, tenantID uuid.UUID, fn func(ctx context.Context, db db.DBTX) error) error {
	return u.runInTxWithOptions(ctx, tenantID, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

func (u *PostgresUoW) begin(ctx context.Context, tenantID uuid.UUID, options pgx.TxOptions) (*tenantTx, error) {
	if tenantID == uuid.Nil {
		return nil, errs.Mark(errs.New("nil tenant id"), errSetTenant)
	}

	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return nil, errs.Mark(err, errTransactionBegin)
	}

	if _, err := pgxTx.Exec(ctx, setTenantSQL, tenantID.String()); err != nil {
		rollback(ctx, pgxTx)
		return nil, errs.Mark(err, errSetTenant)
	}

	return &tenantTx{tx: pgxTx, tenantID: tenantID}, nil
}

// Avoids defer accumulation in retry loops to prevent connection leaks
func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, tenantID uuid.UUID, options pgx.TxOptions, fn func(ctx context.Context, db db.DBTX) error) error {
	const maxRetries = 3
	base := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		tx, err := u.begin(ctx, tenantID, options)
		if err != nil {
			return err
		}

		err = fn(ctx, tx.DB())
		if err == nil {
			if err = tx.Commit(ctx); err == nil {
				return nil
			}
		}

		_ = tx.Rollback(ctx)

		if !shouldRetry(err, attempt, maxRetries) {
			if attempt == maxRetries && isRetryableError(err) {
				slog.Error("transaction failed after max retries",
					"attempts", attempt+1,
					"tenant_id", tenantID.String(),
					"error", err.Error())
				return errs.Mark(err, errMaxRetriesExceeded)
			}
			return err
		}

		waitTime := calculateBackoff(attempt, base)

		slog.Warn("retrying transaction due to retryable error",
			"attempt", attempt+1,
			"tenant_id", tenantID.String(),
			"wait_ms", waitTime.Milliseconds(),
			"error", err.Error())

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}

	return errMaxRetriesExceeded
}

type tenantTx struct {
	tx       pgx.Tx
	tenantID uuid.UUID
}

func (t *tenantTx) TenantID() uuid.UUID { return t.tenantID }
func (t *tenantTx) DB() db.DBTX         { return t.tx }

func (t *tenantTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return errs.Mark(err, errTransactionCommit)
	}
	return nil
}

// Rollback after Commit is a no-op.
func (t *tenantTx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.Warn("rollback failed", "tenant_id", t.tenantID.String(), "error", err.Error())
		return err
	}
	return nil
}

func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.Warn("rollback failed", "error", err.Error())
	}
}

func shouldRetry(err error, attempt, maxRetries int) bool {
	return isRetryableError(err) && attempt < maxRetries
}

func calculateBackoff(attempt int, base time.Duration) time.Duration {
	waitTime := time.Duration(1<<attempt) * base
	jitter := cryptoRandInt63n(int64(waitTime / 5))
	return waitTime + time.Duration(jitter)
}

func cryptoRandInt63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0
	}
	uval := binary.BigEndian.Uint64(buf[:]) & 0x7FFFFFFFFFFFFFFF
	// #nosec G115 -- Intentionally safe conversion after masking
	return int64(uval) % n
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case pgErrCodeSerializationFailure, pgErrCodeDeadlockDetected:
		return true
	default:
		return false
	}
}
