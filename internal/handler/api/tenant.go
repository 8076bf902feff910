package api

import (
	"log/slog"
	"net/http"
	"strconv"

	resdto "medrecords-gateway/internal/handler/dto/response"
	"medrecords-gateway/internal/handler/httperr"
	"medrecords-gateway/internal/handler/middleware"
	"medrecords-gateway/internal/pkg/errs"
	"medrecords-gateway/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

var errTenantContextMissing = errs.New("tenant context missing")

// TenantHandler relies on the tenant middleware; it never re-validates scoping.
type TenantHandler struct {
	tenantQueries queries.TenantQueries
}

func NewTenantHandler(tenantQueries queries.TenantQueries) *TenantHandler {
	return &TenantHandler{
		tenantQueries: tenantQueries,
	}
}

// @Summary Current tenant
// @Description Returns the tenant resolved for this request
// @Tags tenant
// @Produce json
// @Param X-Tenant-ID header string false "Tenant ID (UUIDv4)"
// @Success 200 {object} resdto.TenantResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/tenant [get]
func (h *TenantHandler) GetTenant(c *gin.Context) {
	t, ok := middleware.GetTenant(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errTenantContextMissing,
			httperr.CodeInternal, "Internal server error")
		return
	}

	res, err := resdto.FromTenantRM(h.tenantQueries.CurrentTenant(t))
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err,
			httperr.CodeInternal, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, res)
}

// @Summary List documents
// @Description Lists the current tenant's documents; rows are filtered by row-level security
// @Tags documents
// @Produce json
// @Param X-Tenant-ID header string false "Tenant ID (UUIDv4)"
// @Param limit query int false "Max documents (default 50, max 200)"
// @Success 200 {object} resdto.DocumentListResponse
// @Failure 400 {object} httperr.Response
// @Failure 500 {object} httperr.Response
// @Router /api/documents [get]
func (h *TenantHandler) ListDocuments(c *gin.Context) {
	tx, ok := middleware.GetTenantDB(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errTenantContextMissing,
			httperr.CodeInternal, "Internal server error")
		return
	}

	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "INVALID_LIMIT", "limit must be an integer")
			return
		}
		limit = n
	}

	docs, err := h.tenantQueries.ListDocuments(c.Request.Context(), tx, limit)
	if err != nil {
		slog.Error("failed to list documents", "error", err.Error())
		httperr.AbortWithError(c, http.StatusInternalServerError, err,
			httperr.CodeInternal, "Internal server error")
		return
	}

	res, err := resdto.FromDocumentRMs(docs)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err,
			httperr.CodeInternal, "Internal server error")
		return
	}

	c.JSON(http.StatusOK, res)
}
