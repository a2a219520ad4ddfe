// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
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

	"github.com/linpap/safecaption/internal/billing"
	"github.com/linpap/safecaption/internal/config"
	"github.com/linpap/safecaption/internal/domain"
	"github.com/linpap/safecaption/internal/http/handlers"
	"github.com/linpap/safecaption/internal/http/middleware"
	"github.com/linpap/safecaption/internal/repo"
	"github.com/linpap/safecaption/internal/services"
	"github.com/linpap/safecaption/internal/validation"
)

// repoShim adapts the repository free functions to the service interfaces.
// This keeps services decoupled from the concrete repo package while reusing
// existing functions.
type repoShim struct{}

// GetAPIKeyBySecret proxies repo.GetAPIKeyBySecret.
func (repoShim) GetAPIKeyBySecret(ctx context.Context, db *gorm.DB, secret string) (*domain.APIKey, error) {
	return repo.GetAPIKeyBySecret(ctx, db, secret)
}

// CountUsageSince proxies repo.CountUsageSince.
func (repoShim) CountUsageSince(ctx context.Context, db *gorm.DB, apiKeyID string, since time.Time) (int64, error) {
	return repo.CountUsageSince(ctx, db, apiKeyID, since)
}

// InsertUsageLog proxies repo.InsertUsageLog.
func (repoShim) InsertUsageLog(ctx context.Context, db *gorm.DB, apiKeyID, userID, endpoint, clientIP string, status int) error {
	return repo.InsertUsageLog(ctx, db, apiKeyID, userID, endpoint, clientIP, status)
}

// TouchAPIKey proxies repo.TouchAPIKey.
func (repoShim) TouchAPIKey(ctx context.Context, db *gorm.DB, id string, now time.Time) error {
	return repo.TouchAPIKey(ctx, db, id, now)
}

// IncrementUserUsage proxies repo.IncrementUserUsage.
func (repoShim) IncrementUserUsage(ctx context.Context, db *gorm.DB, userID string) error {
	return repo.IncrementUserUsage(ctx, db, userID)
}

// CreateAPIKey proxies repo.CreateAPIKey.
func (repoShim) CreateAPIKey(ctx context.Context, db *gorm.DB, userID, name, secret string) (*domain.APIKey, error) {
	return repo.CreateAPIKey(ctx, db, userID, name, secret)
}

// GetAPIKey proxies repo.GetAPIKey.
func (repoShim) GetAPIKey(ctx context.Context, db *gorm.DB, id, userID string) (*domain.APIKey, error) {
	return repo.GetAPIKey(ctx, db, id, userID)
}

// CountAPIKeys proxies repo.CountAPIKeys.
func (repoShim) CountAPIKeys(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.CountAPIKeys(ctx, db, userID)
}

// ListAPIKeysPage proxies repo.ListAPIKeysPage.
func (repoShim) ListAPIKeysPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.APIKey, error) {
	return repo.ListAPIKeysPage(ctx, db, userID, offset, limit)
}

// DeactivateAPIKey proxies repo.DeactivateAPIKey.
func (repoShim) DeactivateAPIKey(ctx context.Context, db *gorm.DB, id, userID string) error {
	return repo.DeactivateAPIKey(ctx, db, id, userID)
}

// GetUser proxies repo.GetUser.
func (repoShim) GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	return repo.GetUser(ctx, db, id)
}

// CountUsageLogs proxies repo.CountUsageLogs.
func (repoShim) CountUsageLogs(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	return repo.CountUsageLogs(ctx, db, userID)
}

// ListUsageLogsPage proxies repo.ListUsageLogsPage.
func (repoShim) ListUsageLogsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.UsageLog, error) {
	return repo.ListUsageLogsPage(ctx, db, userID, offset, limit)
}

// CreatePaymentOrder proxies repo.CreatePaymentOrder.
func (repoShim) CreatePaymentOrder(ctx context.Context, db *gorm.DB, o *domain.PaymentOrder) error {
	return repo.CreatePaymentOrder(ctx, db, o)
}

// GetPaymentOrderByRef proxies repo.GetPaymentOrderByRef.
func (repoShim) GetPaymentOrderByRef(ctx context.Context, db *gorm.DB, orderRef string) (*domain.PaymentOrder, error) {
	return repo.GetPaymentOrderByRef(ctx, db, orderRef)
}

// MarkOrderStatus proxies repo.MarkOrderStatus.
func (repoShim) MarkOrderStatus(ctx context.Context, db *gorm.DB, orderRef, status string) error {
	return repo.MarkOrderStatus(ctx, db, orderRef, status)
}

// UpdateSubscription proxies repo.UpdateSubscription.
func (repoShim) UpdateSubscription(ctx context.Context, db *gorm.DB, userID, plan string, monthlyLimit int64, status string) error {
	return repo.UpdateSubscription(ctx, db, userID, plan, monthlyLimit, status)
}

// RecordWebhookEvent proxies repo.RecordWebhookEvent.
func (repoShim) RecordWebhookEvent(ctx context.Context, db *gorm.DB, provider, orderRef, event string) error {
	return repo.RecordWebhookEvent(ctx, db, provider, orderRef, event)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting,
// CORS and security headers, health and metrics endpoints, and then mounts the
// versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with secret/PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip compression
//  7. Metrics
//  8. Edge token-bucket limiter (per presented key/IP)
//  9. CORS and Security headers
//
// The API-key gate and the session check are route-scoped, not global: the
// webhook authenticates by signature and the plan catalog is public.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Compress responses (reports can carry long sanitized captions)
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Edge token-bucket limiter per presented key/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByAPIKeyOrIP())
	r.Use(rl.Handler())

	// 9) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-Key"},
			ExposeHeaders:    []string{"X-Request-ID", "X-Processing-Time", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-Key"},
			ExposeHeaders:    []string{"X-Request-ID", "X-Processing-Time", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (opt-in)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/providers
	shim := repoShim{}
	gateSvc := services.NewGateService(db, shim)
	keySvc := services.NewKeyService(db, shim)
	usageSvc := services.NewUsageService(db, shim)
	billSvc := billing.NewService(db, shim,
		billing.NewRazorpay(cfg.Razorpay.BaseURL, cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.WebhookSecret),
		billing.NewPayPal(cfg.PayPal.BaseURL, cfg.PayPal.ClientID, cfg.PayPal.ClientSecret, cfg.PayPal.WebhookID),
	)

	h := handlers.New(validation.New(), gateSvc, keySvc, usageSvc, billSvc)

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Validation (metered, API-key gated)
		api.POST("/validate", middleware.APIKeyGate(gateSvc), h.ValidateCaption)

		// Billing webhook (signature-authenticated)
		api.POST("/billing/webhook/:provider", h.Webhook)

		// Plan catalog (public)
		api.GET("/billing/plans", h.ListPlans)

		// Dashboard (session-authenticated)
		dash := api.Group("", middleware.SessionAuth([]byte(cfg.SessionSecret)))
		{
			dash.POST("/keys", h.CreateKey)
			dash.GET("/keys", h.ListKeys)
			dash.DELETE("/keys/:id", h.RevokeKey)

			dash.GET("/usage", h.UsageSummary)
			dash.GET("/usage/logs", h.ListUsage)

			dash.POST("/billing/orders", h.CreateOrder)
		}
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
