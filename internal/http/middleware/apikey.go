// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements APIKeyGate, the credential check in front of the
// validation endpoint. It extracts the presented key (Authorization header
// first, X-API-Key as a fallback), runs the access-gate state machine, and
// translates each denial into its stable error envelope. Allowed requests get
// the gate decision stored in the Gin context for post-request accounting and
// X-RateLimit-* headers on the response.
package middleware

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/linpap/safecaption/internal/services"
	"github.com/linpap/safecaption/internal/sysutil"
)

const (
	// ctxKeyGateDecision is the Gin context key holding the gate decision.
	ctxKeyGateDecision = "gateDecision"

	// apiKeyHeader is the fallback credential header; Authorization wins when
	// both are present.
	apiKeyHeader = "X-API-Key"
)

// gateDenials counts denied gate checks by terminal reason. Reasons are a
// small fixed set, so cardinality stays bounded.
var gateDenials = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "api_gate_denials_total",
		Help: "Total number of requests denied by the API-key gate.",
	},
	[]string{"reason"},
)

func init() {
	prometheus.MustRegister(gateDenials)
}

// DecisionFrom returns the gate decision stored by APIKeyGate, or nil when the
// request did not pass through the gate.
func DecisionFrom(c *gin.Context) *services.Decision {
	if v, ok := c.Get(ctxKeyGateDecision); ok {
		if d, ok := v.(*services.Decision); ok {
			return d
		}
	}
	return nil
}

// APIKeyGate returns a Gin middleware enforcing API-key access via the given
// gate service.
//
// Denials, in the order the gate evaluates them:
//
//	401 MISSING_API_KEY        no credential presented
//	401 INVALID_API_KEY        bad format, unknown, or inactive key
//	429 MONTHLY_LIMIT_EXCEEDED plan's monthly quota exhausted
//	429 RATE_LIMIT_EXCEEDED    trailing-minute window full (Retry-After: 60)
//
// Allowed requests proceed with X-RateLimit-Limit / X-RateLimit-Remaining set
// and the decision available via DecisionFrom for usage accounting.
func APIKeyGate(gate *services.GateService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := sysutil.FirstNonEmpty(c.GetHeader("Authorization"), c.GetHeader(apiKeyHeader))

		d, err := gate.Check(c.Request.Context(), raw)
		if err != nil {
			denyGate(c, d, err)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(d.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(d.Remaining, 10))
		c.Set(ctxKeyGateDecision, d)
		c.Next()
	}
}

// denyGate writes the error envelope for a failed gate check.
func denyGate(c *gin.Context, d *services.Decision, err error) {
	rid := c.Writer.Header().Get("X-Request-ID")

	var status int
	var code, msg, reason string
	switch {
	case errors.Is(err, services.ErrMissingKey):
		status, code, msg, reason = http.StatusUnauthorized,
			"MISSING_API_KEY", "API key required", "missing"
	case errors.Is(err, services.ErrInvalidKeyFormat), errors.Is(err, services.ErrInvalidKey):
		status, code, msg, reason = http.StatusUnauthorized,
			"INVALID_API_KEY", "invalid API key", "invalid"
	case errors.Is(err, services.ErrQuotaExceeded):
		status, code, msg, reason = http.StatusTooManyRequests,
			"MONTHLY_LIMIT_EXCEEDED", "monthly request limit exceeded", "quota"
	case errors.Is(err, services.ErrRateLimited):
		status, code, msg, reason = http.StatusTooManyRequests,
			"RATE_LIMIT_EXCEEDED", "rate limit exceeded", "rate"
		c.Header("Retry-After", "60")
		if d != nil {
			c.Header("X-RateLimit-Limit", strconv.FormatInt(d.Limit, 10))
			c.Header("X-RateLimit-Remaining", "0")
		}
	default:
		status, code, msg, reason = http.StatusInternalServerError,
			"INTERNAL_ERROR", "internal server error", "error"
	}

	gateDenials.WithLabelValues(reason).Inc()
	c.AbortWithStatusJSON(status, gin.H{
		"request_id": rid,
		"code":       code,
		"message":    msg,
	})
}
