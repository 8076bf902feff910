package readstore

import (
	"context"
	"time"

	"medrecords-gateway/internal/domain/tenant"
	"medrecords-gateway/internal/infra"
	"medrecords-gateway/internal/infra/db"
	"medrecords-gateway/internal/pkg/errs"
	"medrecords-gateway/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const findTenantByIDSQL = `
SELECT id, name, plan, is_active, created_at
FROM tenants
WHERE id = $1`

type TenantReadStore struct {
	db db.DBTX
}

func NewTenantReadStore(dbtx db.DBTX) *TenantReadStore {
	return &TenantReadStore{
		db: dbtx,
	}
}

// FindByID issues exactly one query. A missing row is marked with errs.ErrTenantNotFound.
func (r *TenantReadStore) FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	var (
		tenantID  uuid.UUID
		name      string
		plan      string
		isActive  bool
		createdAt time.Time
	)

	err := r.db.QueryRow(ctx, findTenantByIDSQL, id).Scan(&tenantID, &name, &plan, &isActive, &createdAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, errs.Mark(infra.WrapRepoErr("tenant not found", err, infra.KindNotFound), errs.ErrTenantNotFound)
		}
		return nil, errs.Mark(infra.WrapRepoErr("failed to get tenant", err), errs.ErrDatabaseOperationFailed)
	}

	return tenant.Reconstruct(tenantID, name, plan, isActive, createdAt), nil
}
