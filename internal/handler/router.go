package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"

	"medrecords-gateway/internal/handler/api"
	"medrecords-gateway/internal/handler/middleware"
	"medrecords-gateway/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type RouterParams struct {
	fx.In

	Engine         *gin.Engine
	Config         config.Config
	Logger         *middleware.Logger
	WebhookHandler *api.WebhookHandler
	TenantHandler  *api.TenantHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.WebhookRateLimiter
	TenantContext  *middleware.TenantContextMiddleware
}

func NewRouter(p RouterParams) {
	setupMiddleware(p.Engine, p.Config, p.Logger)
	setupRoutes(p)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *middleware.Logger) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(logger.LoggingMiddleware())
	engine.Use(middleware.ErrorHandler())
	engine.Use(middleware.RequestTimeout(cfg.Server.RequestTimeout))
}

func setupRoutes(p RouterParams) {
	engine := p.Engine

	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		// limiter before buffering, both before verification
		webhooks := apiGroup.Group("/webhooks")
		webhooks.Use(
			p.RateLimiter.Handler(),
			middleware.RawBodyCapture(p.Config.Webhook.MaxBodyBytes),
		)
		addRoutes(webhooks, []route{
			{Method: http.MethodPost, Path: "/clinical", Handler: p.WebhookHandler.Receive},
		})

		tenantScoped := apiGroup.Group("")
		tenantScoped.Use(
			p.AuthMiddleware.OptionalAuth(),
			p.TenantContext.Handler(),
		)
		addRoutes(tenantScoped, []route{
			{Method: http.MethodGet, Path: "/tenant", Handler: p.TenantHandler.GetTenant},
			{Method: http.MethodGet, Path: "/documents", Handler: p.TenantHandler.ListDocuments},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

// Mw entries must not call c.Next(); use group middleware for those.
func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
