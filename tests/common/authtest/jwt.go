//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"medrecords-gateway/internal/pkg/config"
	"medrecords-gateway/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

// GenerateToken issues a token whose tenant claim the tenant middleware falls back to.
func (h *JWTHelper) GenerateToken(t *testing.T, userID, tenantID uuid.UUID, role string) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, h.cfg.Duration)
	token, err := service.GenerateToken(userID, tenantID, role)
	require.NoError(t, err)
	return token
}

func (h *JWTHelper) CreateExpiredToken(t *testing.T, userID, tenantID uuid.UUID, role string) string {
	t.Helper()
	service := jwt.NewService(h.cfg.Secret, time.Millisecond)
	token, err := service.GenerateToken(userID, tenantID, role)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	return token
}
