// Package httpapi wires the Gin engine: middleware, the fault dispatcher,
// fallbacks and the routes of the fault translator service.
//
// Middleware order:
//  1. OpenTelemetry tracing
//  2. RequestID
//  3. Logger (access log, request-scoped logger)
//  4. Metrics and /metrics
//  5. Recovery (panics become faults; inside Logger and Metrics)
//  6. Body size limit
//  7. gzip (optional)
//  8. Rate limiter
//  9. CORS and security headers
//  10. Dispatch (translates faults recorded by handlers)
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/go-fault-translator/internal/config"
	"github.com/tbourn/go-fault-translator/internal/domain"
	"github.com/tbourn/go-fault-translator/internal/faults"
	"github.com/tbourn/go-fault-translator/internal/http/handlers"
	"github.com/tbourn/go-fault-translator/internal/http/middleware"
	"github.com/tbourn/go-fault-translator/internal/repo"
	"github.com/tbourn/go-fault-translator/internal/services"
)

// incidentRepoShim adapts the repo package functions to services.IncidentRepo.
type incidentRepoShim struct{}

func (incidentRepoShim) CreateIncident(ctx context.Context, db *gorm.DB, in *domain.Incident) error {
	return repo.CreateIncident(ctx, db, in)
}

func (incidentRepoShim) GetIncident(ctx context.Context, db *gorm.DB, id string) (*domain.Incident, error) {
	return repo.GetIncident(ctx, db, id)
}

func (incidentRepoShim) CountIncidents(ctx context.Context, db *gorm.DB, f repo.IncidentFilter) (int64, error) {
	return repo.CountIncidents(ctx, db, f)
}

func (incidentRepoShim) ListIncidentsPage(ctx context.Context, db *gorm.DB, f repo.IncidentFilter, offset, limit int) ([]domain.Incident, error) {
	return repo.ListIncidentsPage(ctx, db, f, offset, limit)
}

func (incidentRepoShim) ListIncidentsByRequest(ctx context.Context, db *gorm.DB, requestID string) ([]domain.Incident, error) {
	return repo.ListIncidentsByRequest(ctx, db, requestID)
}

func (incidentRepoShim) IncidentStats(ctx context.Context, db *gorm.DB, f repo.IncidentFilter) (int64, *time.Time, error) {
	return repo.IncidentStats(ctx, db, f)
}

// IncidentRepo returns the repository used by the journal and the incident
// endpoints.
func IncidentRepo() services.IncidentRepo { return incidentRepoShim{} }

// RegisterRoutes installs middleware, fallbacks and routes on r. db may be
// nil when the journal is disabled; the incident endpoints are then not
// mounted.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, tr *faults.Translator, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.Recovery(tr))
	r.Use(limitBody(cfg.MaxBodyBytes))
	if cfg.GzipEnabled {
		r.Use(gzip.Gzip(gzip.DefaultCompression))
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	r.Use(rl.Handler())

	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	r.Use(middleware.Dispatch(tr, middleware.DispatchOptions{
		NegotiateLocale: cfg.Faults.NegotiateLocale,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.MsgRouteNotFound)
	})
	r.NoMethod(handlers.MethodNotAllowed(r.Routes))

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	var incSvc handlers.IncidentService
	if db != nil {
		incSvc = services.NewIncidentService(db, incidentRepoShim{})
	}
	h := handlers.New(incSvc, tr)

	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		api.GET("/rules", h.ListRules)
		if incSvc != nil {
			api.GET("/incidents", h.ListIncidents)
			api.GET("/incidents/lookup", h.LookupIncidents)
			api.GET("/incidents/:id", h.GetIncident)
		}
	}

	if cfg.Faults.ProbesEnabled {
		r.Any("/debug/faults/:kind", h.Probe)
	}
}

// corsMiddleware allows every origin when none is configured, otherwise
// only the listed ones.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader, "Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		base.AllowAllOrigins = true
		// ACAO: * even without an Origin header, for simple health checks.
		star := func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		}
		return []gin.HandlerFunc{star, cors.New(base)}
	}

	base.AllowOrigins = origins
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	echo := func(c *gin.Context) {
		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
		}
		c.Next()
	}
	return []gin.HandlerFunc{echo, cors.New(base)}
}

// limitBody caps request bodies at maxBytes. Reading past the cap fails
// with *http.MaxBytesError, which translates to an I/O fault.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "" and "/" as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
