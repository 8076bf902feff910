package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"medrecords-gateway/internal/domain/tenant"
	"medrecords-gateway/internal/handler/httperr"
	"medrecords-gateway/internal/infra/db"
	"medrecords-gateway/internal/pkg/config"
	"medrecords-gateway/internal/pkg/errs"
	"medrecords-gateway/internal/pkg/metrics"
	"medrecords-gateway/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	TenantHeader     = "X-Tenant-ID"
	TenantQueryParam = "tenantId"

	ctxTenantIDKey = "tenant_id"
	ctxTenantKey   = "tenant"
	ctxTenantDBKey = "tenant_db"
)

var ErrMissingTenant = errs.New("tenant ID is required")

// TenantContextMiddleware opens one transaction per request with
// app.current_tenant_id set transaction-locally, and ends it exactly once
// after the handler returns. Handlers must issue tenant-scoped queries through
// GetTenantDB only; the setting never reaches a pooled connection outside it.
type TenantContextMiddleware struct {
	tenants     shared.TenantReadStore
	scope       shared.TenantScope
	publicPaths []string
}

func NewTenantContextMiddleware(tenants shared.TenantReadStore, scope shared.TenantScope, cfg config.TenantConfig) *TenantContextMiddleware {
	return &TenantContextMiddleware{
		tenants:     tenants,
		scope:       scope,
		publicPaths: cfg.PublicPaths,
	}
}

func (m *TenantContextMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.isPublic(c.Request.URL.Path) {
			c.Next()
			return
		}

		candidate := resolveTenantCandidate(c)
		if candidate == "" {
			m.reject(c, http.StatusBadRequest, ErrMissingTenant, httperr.CodeMissingTenant, "Tenant ID is required")
			return
		}

		// malformed IDs never reach the database
		tenantID, err := tenant.ParseID(candidate)
		if err != nil {
			m.reject(c, http.StatusBadRequest, err, httperr.CodeInvalidTenantFormat, "Invalid tenant ID format")
			return
		}

		ctx := c.Request.Context()
		t, err := m.tenants.FindByID(ctx, tenantID)
		if err != nil {
			if errs.Is(err, errs.ErrTenantNotFound) {
				slog.Info("tenant not found", "tenant_id", tenantID.String(), "client_ip", c.ClientIP())
				m.reject(c, http.StatusNotFound, err, httperr.CodeTenantNotFound, "Tenant not found")
				return
			}
			m.internalError(c, tenantID, err)
			return
		}
		if !t.IsActive() {
			slog.Warn("inactive tenant access attempt", "tenant_id", tenantID.String(), "client_ip", c.ClientIP())
			m.reject(c, http.StatusForbidden, errs.ErrTenantInactive, httperr.CodeTenantInactive, "Tenant is inactive")
			return
		}

		tx, err := m.scope.Begin(ctx, tenantID)
		if err != nil {
			m.internalError(c, tenantID, err)
			return
		}
		// released on every exit path, panics included; Rollback after Commit is a no-op
		defer func() {
			_ = tx.Rollback(context.WithoutCancel(ctx))
		}()

		c.Set(ctxTenantIDKey, tenantID)
		c.Set(ctxTenantKey, t)
		c.Set(ctxTenantDBKey, tx.DB())
		metrics.TenantResolutions.WithLabelValues("resolved").Inc()

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest || len(c.Errors) > 0 {
			return
		}
		if err := tx.Commit(context.WithoutCancel(ctx)); err != nil {
			slog.Error("failed to commit tenant transaction",
				"tenant_id", tenantID.String(),
				"path", c.Request.URL.Path,
				"error", err.Error())
		}
	}
}

func (m *TenantContextMiddleware) isPublic(path string) bool {
	for _, p := range m.publicPaths {
		if path == p || strings.HasPrefix(path, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}
	return false
}

func (m *TenantContextMiddleware) reject(c *gin.Context, status int, err error, code, msg string) {
	metrics.TenantResolutions.WithLabelValues(code).Inc()
	httperr.AbortWithError(c, status, err, code, msg)
}

// The cause is logged but never echoed: callers cannot tell connectivity from other faults.
func (m *TenantContextMiddleware) internalError(c *gin.Context, tenantID uuid.UUID, err error) {
	slog.Error("tenant middleware error",
		"tenant_id", tenantID.String(),
		"path", c.Request.URL.Path,
		"error", err.Error())
	m.reject(c, http.StatusInternalServerError, err, httperr.CodeTenantMiddlewareError, "Tenant middleware error")
}

// header, then the authenticated user's tenant, then the query string
func resolveTenantCandidate(c *gin.Context) string {
	if v := strings.TrimSpace(c.GetHeader(TenantHeader)); v != "" {
		return v
	}
	if id, ok := GetUserTenantID(c); ok && id != uuid.Nil {
		return id.String()
	}
	return strings.TrimSpace(c.Query(TenantQueryParam))
}

func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxTenantIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func GetTenant(c *gin.Context) (*tenant.Tenant, bool) {
	v, exists := c.Get(ctxTenantKey)
	if !exists {
		return nil, false
	}
	t, ok := v.(*tenant.Tenant)
	return t, ok
}

// GetTenantDB returns the request's tenant-scoped transaction.
func GetTenantDB(c *gin.Context) (db.DBTX, bool) {
	v, exists := c.Get(ctxTenantDBKey)
	if !exists {
		return nil, false
	}
	tx, ok := v.(db.DBTX)
	return tx, ok
}
