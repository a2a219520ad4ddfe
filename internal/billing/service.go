package billing

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/linpap/safecaption/internal/domain"
	"github.com/linpap/safecaption/internal/repo"
)

// Service-level errors surfaced to handlers.
var (
	// ErrUnknownPlan is returned for plan codes outside the catalog or the
	// free tier (which cannot be ordered).
	ErrUnknownPlan = errors.New("unknown or unpurchasable plan")

	// ErrUnknownProvider is returned when the requested provider code is not
	// registered.
	ErrUnknownProvider = errors.New("unknown payment provider")

	// ErrOrderNotFound is returned when a webhook references an order this
	// system never created.
	ErrOrderNotFound = errors.New("payment order not found")
)

// BillingRepo defines the persistence contract required by Service.
type BillingRepo interface {
	// CreatePaymentOrder inserts a new order-tracking row.
	CreatePaymentOrder(ctx context.Context, db *gorm.DB, o *domain.PaymentOrder) error

	// GetPaymentOrderByRef fetches an order by its provider reference.
	GetPaymentOrderByRef(ctx context.Context, db *gorm.DB, orderRef string) (*domain.PaymentOrder, error)

	// MarkOrderStatus transitions an order's lifecycle state.
	MarkOrderStatus(ctx context.Context, db *gorm.DB, orderRef, status string) error

	// UpdateSubscription applies a paid plan to the user profile.
	UpdateSubscription(ctx context.Context, db *gorm.DB, userID, plan string, monthlyLimit int64, status string) error

	// RecordWebhookEvent dedups a delivery; repo.ErrDuplicate on replay.
	RecordWebhookEvent(ctx context.Context, db *gorm.DB, provider, orderRef, event string) error
}

// OrderInput is the checkout request from the dashboard.
type OrderInput struct {
	Plan     string `json:"plan"     validate:"required,oneof=pro enterprise"`
	Cycle    string `json:"cycle"    validate:"required,oneof=monthly yearly"`
	Provider string `json:"provider" validate:"required"`
}

// Service coordinates order creation and webhook processing across the
// registered providers.
type Service struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the billing repository used by this service.
	Repo BillingRepo
	// Providers maps provider code to its integration.
	Providers map[string]Provider

	validate *validator.Validate
}

// NewService constructs a Service over the given providers.
func NewService(db *gorm.DB, r BillingRepo, providers ...Provider) *Service {
	m := make(map[string]Provider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}
	return &Service{
		DB:        db,
		Repo:      r,
		Providers: m,
		validate:  validator.New(),
	}
}

// CreateOrder validates the input, registers a checkout at the chosen
// provider, and records the order row in the "created" state.
func (s *Service) CreateOrder(ctx context.Context, userID string, in OrderInput) (*Order, error) {
	tr := otel.Tracer("billing/Service")
	ctx, span := tr.Start(ctx, "CreateOrder")
	defer span.End()

	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	plan, ok := PlanByCode(in.Plan)
	if !ok {
		return nil, ErrUnknownPlan
	}
	price := PriceCents(plan, in.Cycle)
	if price <= 0 {
		return nil, ErrUnknownPlan
	}

	prov, ok := s.Providers[in.Provider]
	if !ok {
		return nil, ErrUnknownProvider
	}
	span.SetAttributes(
		attribute.String("billing.provider", prov.Name()),
		attribute.String("billing.plan", plan.Code),
	)

	order, err := prov.CreateOrder(ctx, price, "USD", userID)
	if err != nil {
		return nil, err
	}

	rec := &domain.PaymentOrder{
		OrderRef:     order.Ref,
		Provider:     prov.Name(),
		UserID:       userID,
		Plan:         plan.Code,
		BillingCycle: in.Cycle,
		AmountCents:  price,
		Currency:     "USD",
	}
	if err := s.Repo.CreatePaymentOrder(ctx, s.DB, rec); err != nil {
		return nil, err
	}

	log.Info().
		Str("provider", prov.Name()).
		Str("order_ref", order.Ref).
		Str("plan", plan.Code).
		Msg("payment order created")
	return order, nil
}

// HandleWebhook authenticates and applies a provider callback. Replayed
// deliveries are acknowledged without re-applying state; signature failures
// return ErrBadSignature and change nothing.
func (s *Service) HandleWebhook(ctx context.Context, providerName string, body []byte, header http.Header) error {
	tr := otel.Tracer("billing/Service")
	ctx, span := tr.Start(ctx, "HandleWebhook")
	defer span.End()

	prov, ok := s.Providers[providerName]
	if !ok {
		return ErrUnknownProvider
	}

	note, err := prov.VerifyNotification(ctx, body, header)
	if err != nil {
		return err
	}
	span.SetAttributes(
		attribute.String("billing.provider", providerName),
		attribute.String("billing.event", note.Event),
	)

	if err := s.Repo.RecordWebhookEvent(ctx, s.DB, providerName, note.OrderRef, note.Event); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			log.Info().
				Str("provider", providerName).
				Str("order_ref", note.OrderRef).
				Str("event", note.Event).
				Msg("webhook replay ignored")
			return nil
		}
		return err
	}

	order, err := s.Repo.GetPaymentOrderByRef(ctx, s.DB, note.OrderRef)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return err
	}

	if !note.Paid {
		if err := s.Repo.MarkOrderStatus(ctx, s.DB, note.OrderRef, domain.OrderFailed); err != nil {
			return err
		}
		log.Info().
			Str("provider", providerName).
			Str("order_ref", note.OrderRef).
			Str("event", note.Event).
			Msg("payment not captured; order marked failed")
		return nil
	}

	plan, ok := PlanByCode(order.Plan)
	if !ok {
		return ErrUnknownPlan
	}

	if err := s.Repo.MarkOrderStatus(ctx, s.DB, note.OrderRef, domain.OrderPaid); err != nil {
		return err
	}
	if err := s.Repo.UpdateSubscription(ctx, s.DB, order.UserID, plan.Code, plan.MonthlyLimit, "active"); err != nil {
		return err
	}

	log.Info().
		Str("provider", providerName).
		Str("order_ref", note.OrderRef).
		Str("user_id", order.UserID).
		Str("plan", plan.Code).
		Msg("subscription activated")
	return nil
}
