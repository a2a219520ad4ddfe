// Package domain defines the core persistence models for the application.
package domain

import "time"

// WebhookEvent records one processed payment-provider callback, keyed by
// (provider, order_ref, event). Providers redeliver webhooks on timeouts;
// the unique index lets the billing service detect and skip replays without
// re-applying subscription changes.
type WebhookEvent struct {
	ID        string    `gorm:"type:char(36);primaryKey"`
	Provider  string    `gorm:"type:varchar(32);not null;uniqueIndex:ux_provider_order_event,priority:1"`
	OrderRef  string    `gorm:"type:varchar(128);not null;uniqueIndex:ux_provider_order_event,priority:2"`
	Event     string    `gorm:"type:varchar(64);not null;uniqueIndex:ux_provider_order_event,priority:3"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// TableName implements the GORM tabler interface.
func (WebhookEvent) TableName() string { return "webhook_events" }
