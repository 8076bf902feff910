package components

import (
	"medrecords-gateway/internal/infra/db"
	"medrecords-gateway/internal/infra/readstore"
	"medrecords-gateway/internal/infra/repository"
	"medrecords-gateway/internal/infra/uow"
	"medrecords-gateway/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewDBTX,
		// TenantScope
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.TenantScope)),
		),
		// Tenant registry (not RLS-scoped)
		fx.Annotate(
			readstore.NewTenantReadStore,
			fx.As(new(shared.TenantReadStore)),
		),
		// Tenant-scoped stores; callers pass the tenant transaction
		fx.Annotate(
			readstore.NewDocumentReadStore,
			fx.As(new(shared.DocumentReadStore)),
		),
		fx.Annotate(
			repository.NewDocumentRepository,
			fx.As(new(shared.DocumentRepository)),
		),
		fx.Annotate(
			repository.NewPrescriptionRepository,
			fx.As(new(shared.PrescriptionRepository)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
