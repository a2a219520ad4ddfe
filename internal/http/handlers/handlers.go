// Handler wiring shared across the API surface.
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses. Service dependencies are abstract
// interfaces so transport concerns stay separate from business logic.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linpap/safecaption/internal/billing"
	"github.com/linpap/safecaption/internal/domain"
	"github.com/linpap/safecaption/internal/http/middleware"
	"github.com/linpap/safecaption/internal/services"
	"github.com/linpap/safecaption/internal/utils"
)

//
// Service contracts (context-aware)
//

// KeyService defines API-key lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type KeyService interface {
	// Issue mints a fresh secret for userID under the given display name.
	Issue(ctx context.Context, userID, name string) (*domain.APIKey, error)
	// ListPage returns a page of the user's keys and the total count.
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.APIKey, int64, error)
	// Revoke deactivates a key owned by userID.
	Revoke(ctx context.Context, userID, keyID string) error
}

// UsageService defines usage-reporting reads consumed by HTTP handlers.
type UsageService interface {
	// Summary returns the user's current quota position.
	Summary(ctx context.Context, userID string) (*services.Summary, error)
	// ListPage returns a page of the user's usage rows and the total count.
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.UsageLog, int64, error)
}

// BillingService defines the commerce operations consumed by HTTP handlers.
type BillingService interface {
	// CreateOrder registers a checkout at the chosen payment provider.
	CreateOrder(ctx context.Context, userID string, in billing.OrderInput) (*billing.Order, error)
	// HandleWebhook authenticates and applies a provider callback.
	HandleWebhook(ctx context.Context, provider string, body []byte, header http.Header) error
}

// Handlers groups HTTP endpoints for validation, key management, usage
// reporting, and billing.
type Handlers struct {
	validator CaptionValidator
	usage     UsageRecorder
	keySvc    KeyService
	usageSvc  UsageService
	billSvc   BillingService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(v CaptionValidator, u UsageRecorder, keys KeyService, usage UsageService, bill BillingService) *Handlers {
	return &Handlers{validator: v, usage: u, keySvc: keys, usageSvc: usage, billSvc: bill}
}

// userID extracts the authenticated user id from Gin context (set by the
// session middleware).
func userID(c *gin.Context) string {
	return middleware.UserIDFrom(c)
}

//
// Shared DTOs and helpers
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// newPagination derives pagination metadata from a page fetch.
func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.ClampInt(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}
