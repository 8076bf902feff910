package queries

import (
	"context"

	"medrecords-gateway/internal/domain/tenant"
	"medrecords-gateway/internal/infra/db"
	"medrecords-gateway/internal/usecase/readmodel"
	"medrecords-gateway/internal/usecase/shared"
)

const (
	DefaultDocumentLimit = 50
	MaxDocumentLimit     = 200
)

// TenantQueries serves reads for a tenant already resolved by the tenant middleware.
// tx must be the request's tenant-scoped transaction; row filtering is left to RLS.
type TenantQueries interface {
	CurrentTenant(t *tenant.Tenant) readmodel.TenantRM
	ListDocuments(ctx context.Context, tx db.DBTX, limit int) ([]readmodel.DocumentRM, error)
}

type tenantQueriesImpl struct {
	documents shared.DocumentReadStore
}

func NewTenantQueries(documents shared.DocumentReadStore) TenantQueries {
	return &tenantQueriesImpl{
		documents: documents,
	}
}

func (q *tenantQueriesImpl) CurrentTenant(t *tenant.Tenant) readmodel.TenantRM {
	return readmodel.TenantRM{
		ID:        t.ID(),
		Name:      t.Name(),
		Plan:      t.Plan(),
		IsActive:  t.IsActive(),
		CreatedAt: t.CreatedAt(),
	}
}

func (q *tenantQueriesImpl) ListDocuments(ctx context.Context, tx db.DBTX, limit int) ([]readmodel.DocumentRM, error) {
	switch {
	case limit <= 0:
		limit = DefaultDocumentLimit
	case limit > MaxDocumentLimit:
		limit = MaxDocumentLimit
	}
	return q.documents.List(ctx, tx, limit)
}
