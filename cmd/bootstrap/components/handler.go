package components

import (
	"medrecords-gateway/internal/handler"
	"medrecords-gateway/internal/handler/api"
	"medrecords-gateway/internal/handler/middleware"
	"medrecords-gateway/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewWebhookHandler,
		api.NewTenantHandler,
		middleware.NewAuthMiddleware,
		middleware.NewWebhookRateLimiter,
		func(cfg config.Config) config.TenantConfig { return cfg.Tenant },
		middleware.NewTenantContextMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
