package components

import (
	"medrecords-gateway/internal/pkg/clock"
	"medrecords-gateway/internal/pkg/config"
	"medrecords-gateway/internal/usecase"
	"medrecords-gateway/internal/usecase/ingest"
	"medrecords-gateway/internal/usecase/queries"
	"medrecords-gateway/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseIngestModule,
	usecaseQueriesModule,
	usecaseValidatorsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
)

var usecaseIngestModule = fx.Module("usecase/ingest",
	fx.Provide(
		fx.Annotate(
			func(cfg config.Config, store shared.IdempotencyStore, clk clock.Clock) *ingest.Verifier {
				return ingest.NewVerifier(cfg.Webhook, store, clk)
			},
			fx.As(new(ingest.SignatureVerifier)),
		),
		fx.Annotate(
			ingest.NewDispatcher,
			fx.As(new(ingest.EventDispatcher)),
		),
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewTenantQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
