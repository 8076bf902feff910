package repository

import (
	"context"
	"time"

	"medrecords-gateway/internal/infra"
	"medrecords-gateway/internal/infra/db"
	"medrecords-gateway/internal/pkg/pgconv"
)

const (
	tryInsertIdempotencyKeySQL = `
INSERT INTO webhook_idempotency_keys (key, processed_at)
VALUES ($1, $2)
ON CONFLICT (key) DO NOTHING`

	existsIdempotencyKeySQL = `
SELECT EXISTS (SELECT 1 FROM webhook_idempotency_keys WHERE key = $1)`

	deleteExpiredIdempotencyKeysSQL = `
DELETE FROM webhook_idempotency_keys
WHERE processed_at < $1`
)

// IdempotencyRepository is the shared-across-instances IdempotencyStore backed by
// the primary key of webhook_idempotency_keys.
type IdempotencyRepository struct {
	db db.DBTX
}

func NewIdempotencyRepository(dbtx db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{
		db: dbtx,
	}
}

func (r *IdempotencyRepository) Has(ctx context.Context, key string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, existsIdempotencyKeySQL, key).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to look up idempotency key", err)
	}
	return exists, nil
}

// ON CONFLICT DO NOTHING makes the check-and-insert a single statement.
func (r *IdempotencyRepository) PutIfAbsent(ctx context.Context, key string, processedAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, tryInsertIdempotencyKeySQL, key, pgconv.TimeToPgtype(processedAt))
	if err != nil {
		return false, infra.WrapRepoErr("failed to try insert idempotency key", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *IdempotencyRepository) Sweep(ctx context.Context, olderThan time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, deleteExpiredIdempotencyKeysSQL, pgconv.TimeToPgtype(olderThan))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}
	return tag.RowsAffected(), nil
}
