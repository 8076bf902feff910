package bootstrap

import (
	"medrecords-gateway/internal/pkg/config"
	"medrecords-gateway/internal/pkg/jwt"

	"go.uber.org/fx"
)

var JWTModule = fx.Module("jwt",
	fx.Provide(
		NewJWTService,
	),
)

// Tokens are issued by the login service; this process only validates them.
func NewJWTService(cfg config.Config) *jwt.Service {
	return jwt.NewService(cfg.JWT.Secret, cfg.JWT.Duration)
}
