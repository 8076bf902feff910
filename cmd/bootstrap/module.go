package bootstrap

import (
	"medrecords-gateway/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	JWTModule,
	components.RepositoryModule,
	StoresModule,
	components.UseCaseModule,
	components.HandlerModule,
	WorkerModule,
)
