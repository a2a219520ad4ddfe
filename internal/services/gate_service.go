// Package services – GateService
//
// This file implements the Access Gate: the per-request state machine that
// authenticates an API key, enforces the monthly quota and the per-minute
// rate window, and performs post-request usage accounting.
//
// Error policy (deliberately asymmetric, preserved from the original system):
//   - Store errors during key lookup DENY the request (fail closed).
//   - Store errors during the rate-window count ALLOW the request (fail open).
//   - Errors during usage accounting are logged and swallowed; a dropped
//     usage record is acceptable.
//
// Quota and rate counters are read-then-written without locking. Two
// concurrent requests on the same key can both pass a check that, applied
// sequentially, would have denied the second; limits are approximate under
// concurrency by design.
package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/linpap/safecaption/internal/domain"
)

// KeyPrefix is the fixed prefix every issued secret carries.
const KeyPrefix = "sk_"

// rateWindow is the trailing interval the per-minute check counts over.
const rateWindow = 60 * time.Second

// RateLimits maps a subscription tier to its per-minute request threshold.
// Unknown tiers fall back to the free limit. These thresholds are independent
// of the monthly quota caps carried on the user profile; the two tables are
// deliberately not conflated.
var RateLimits = map[string]int64{
	domain.PlanFree:       10,
	domain.PlanPro:        60,
	domain.PlanEnterprise: 1000,
}

// GateRepo defines the repository contract required by GateService.
type GateRepo interface {
	// GetAPIKeyBySecret fetches an active key with its owning user joined.
	GetAPIKeyBySecret(ctx context.Context, db *gorm.DB, secret string) (*domain.APIKey, error)

	// CountUsageSince counts usage-log rows for the key after the given time.
	CountUsageSince(ctx context.Context, db *gorm.DB, apiKeyID string, since time.Time) (int64, error)

	// InsertUsageLog appends one metering row.
	InsertUsageLog(ctx context.Context, db *gorm.DB, apiKeyID, userID, endpoint, clientIP string, status int) error

	// TouchAPIKey bumps the key usage counter and last-used timestamp.
	TouchAPIKey(ctx context.Context, db *gorm.DB, id string, now time.Time) error

	// IncrementUserUsage bumps the owning user's lifetime call counter.
	IncrementUserUsage(ctx context.Context, db *gorm.DB, userID string) error
}

// Decision is the outcome of an allowed gate check. Limit and Remaining feed
// the X-RateLimit response headers; Key carries the joined record for usage
// accounting after the request completes.
type Decision struct {
	Key       *domain.APIKey
	Limit     int64
	Remaining int64
}

// GateService evaluates API-key access for inbound validation requests.
type GateService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the key/usage repository used by this service.
	Repo GateRepo
}

// NewGateService constructs a GateService.
func NewGateService(db *gorm.DB, r GateRepo) *GateService {
	return &GateService{DB: db, Repo: r}
}

// Check runs the gate state machine over a raw credential as presented in the
// request header. Steps, in order: presence, format, store lookup, monthly
// quota, rate window. On denial the matching sentinel error is returned;
// ErrRateLimited additionally carries a Decision with Remaining=0 so the
// handler can emit limit headers.
func (s *GateService) Check(ctx context.Context, rawKey string) (*Decision, error) {
	tr := otel.Tracer("services/GateService")
	ctx, span := tr.Start(ctx, "Check")
	defer span.End()

	secret := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rawKey), "Bearer "))
	if secret == "" {
		return nil, ErrMissingKey
	}
	if !strings.HasPrefix(secret, KeyPrefix) {
		return nil, ErrInvalidKeyFormat
	}

	// Fail closed: any lookup failure (not found, inactive, store error)
	// denies with the same opaque reason.
	key, err := s.Repo.GetAPIKeyBySecret(ctx, s.DB, secret)
	if err != nil {
		return nil, ErrInvalidKey
	}
	span.SetAttributes(
		attribute.String("key.id", key.ID),
		attribute.String("user.plan", key.User.Plan),
	)

	// Monthly quota: lifetime cap on the user profile, independent of the
	// per-minute window below.
	if key.User.UsageCount >= key.User.MonthlyLimit {
		return nil, ErrQuotaExceeded
	}

	limit := TierLimit(key.User.Plan)

	// Fail open: if the window count cannot be computed, allow the request
	// rather than block traffic on a store hiccup.
	count, err := s.Repo.CountUsageSince(ctx, s.DB, key.ID, time.Now().UTC().Add(-rateWindow))
	if err != nil {
		log.Warn().Err(err).Str("key_id", key.ID).Msg("rate window count failed; allowing request")
		return &Decision{Key: key, Limit: limit, Remaining: limit}, nil
	}
	if count >= limit {
		return &Decision{Key: key, Limit: limit, Remaining: 0}, ErrRateLimited
	}

	return &Decision{Key: key, Limit: limit, Remaining: limit - count}, nil
}

// RecordUsage performs the post-request accounting for an allowed, completed
// request: one usage-log append, one key-counter bump, one user-counter bump.
// The three writes are independent and non-transactional; each failure is
// logged and swallowed.
func (s *GateService) RecordUsage(ctx context.Context, d *Decision, endpoint, clientIP string, status int) {
	tr := otel.Tracer("services/GateService")
	ctx, span := tr.Start(ctx, "RecordUsage",
		trace.WithAttributes(attribute.String("key.id", d.Key.ID)),
	)
	defer span.End()

	if err := s.Repo.InsertUsageLog(ctx, s.DB, d.Key.ID, d.Key.UserID, endpoint, clientIP, status); err != nil {
		log.Warn().Err(err).Str("key_id", d.Key.ID).Msg("usage log write failed")
	}
	if err := s.Repo.TouchAPIKey(ctx, s.DB, d.Key.ID, time.Now().UTC()); err != nil {
		log.Warn().Err(err).Str("key_id", d.Key.ID).Msg("key counter update failed")
	}
	if err := s.Repo.IncrementUserUsage(ctx, s.DB, d.Key.UserID); err != nil {
		log.Warn().Err(err).Str("user_id", d.Key.UserID).Msg("user counter update failed")
	}
}

// TierLimit resolves a plan code to its per-minute threshold, falling back to
// the free tier for unknown codes.
func TierLimit(plan string) int64 {
	if l, ok := RateLimits[plan]; ok {
		return l
	}
	return RateLimits[domain.PlanFree]
}
