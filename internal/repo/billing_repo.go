// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the billing-side persistence: payment
// order tracking, subscription updates, and webhook replay detection.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/linpap/safecaption/internal/domain"
)

// ErrDuplicate indicates that a webhook event was already recorded for the
// given (provider, order_ref, event) tuple.
var ErrDuplicate = errors.New("duplicate")

// CreatePaymentOrder inserts a new order-tracking row in the "created" state.
func CreatePaymentOrder(ctx context.Context, db *gorm.DB, o *domain.PaymentOrder) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = domain.OrderCreated
	}
	o.CreatedAt = time.Now().UTC()
	return db.WithContext(ctx).Create(o).Error
}

// GetPaymentOrderByRef fetches an order by its provider-issued reference.
func GetPaymentOrderByRef(ctx context.Context, db *gorm.DB, orderRef string) (*domain.PaymentOrder, error) {
	var o domain.PaymentOrder
	if err := db.WithContext(ctx).Where("order_ref = ?", orderRef).First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// MarkOrderStatus transitions an order to the given state. Returns
// ErrNotFound when the reference is unknown.
func MarkOrderStatus(ctx context.Context, db *gorm.DB, orderRef, status string) error {
	res := db.WithContext(ctx).
		Model(&domain.PaymentOrder{}).
		Where("order_ref = ?", orderRef).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateSubscription applies a paid plan to the user's profile: tier, monthly
// limit, status, and a usage-counter reset for the new period. These are the
// same fields the Access Gate reads on every request.
func UpdateSubscription(ctx context.Context, db *gorm.DB, userID, plan string, monthlyLimit int64, status string) error {
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"plan":                plan,
			"monthly_limit":       monthlyLimit,
			"subscription_status": status,
			"usage_count":         0,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RecordWebhookEvent inserts a dedup row and returns ErrDuplicate when the
// same delivery was already processed.
func RecordWebhookEvent(ctx context.Context, db *gorm.DB, provider, orderRef, event string) error {
	rec := &domain.WebhookEvent{
		ID:       uuid.NewString(),
		Provider: provider,
		OrderRef: orderRef,
		Event:    event,
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return ErrDuplicate
		}
		return err
	}
	return nil
}
