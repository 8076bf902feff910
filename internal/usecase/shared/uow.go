package shared

import (
	"context"
	"time"

	"medrecords-gateway/internal/domain/tenant"
	"medrecords-gateway/internal/infra/db"
	"medrecords-gateway/internal/usecase/readmodel"

	"github.com/google/uuid"
)

//go:generate mockgen -source=uow.go -destination=../../../tests/mock/shared/uow_mock.go -package=sharedmock

// TenantScope hands out transactions in which app.current_tenant_id is set
// transaction-locally, so the setting can never outlive the transaction on a
// pooled connection.
type TenantScope interface {
	// Begin: one transaction per HTTP request; the caller must Commit or Rollback exactly once
	Begin(ctx context.Context, tenantID uuid.UUID) (TenantTx, error)
	// WithinTenant: background jobs and webhook side effects, with retry on serialization failures
	WithinTenant(ctx context.Context, tenantID uuid.UUID, fn func(ctx context.Context, db db.DBTX) error) error
}

type TenantTx interface {
	TenantID() uuid.UUID
	DB() db.DBTX
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TenantReadStore reads the tenant registry, which is not RLS-scoped.
type TenantReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*tenant.Tenant, error)
}

type DocumentRepository interface {
	MarkSigned(ctx context.Context, tx db.DBTX, documentID uuid.UUID, signerID string, signedAt time.Time) (bool, error)
}

type PrescriptionRepository interface {
	MarkValidated(ctx context.Context, tx db.DBTX, prescriptionID uuid.UUID, validationCode string, validatedAt time.Time) (bool, error)
}

type DocumentReadStore interface {
	List(ctx context.Context, tx db.DBTX, limit int) ([]readmodel.DocumentRM, error)
}
