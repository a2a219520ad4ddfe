// Package domain defines the persistence models for users, API keys, usage
// logs, and payment orders. These types are mapped with GORM and form the
// read/write view the validation core has onto the external store.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Subscription plan codes. Unknown codes are treated as PlanFree wherever a
// limit has to be derived.
const (
	PlanFree       = "free"
	PlanPro        = "pro"
	PlanEnterprise = "enterprise"
)

// User is the profile row owned by the external identity provider. The
// validation core reads the plan/quota fields and increments the usage
// counter; everything else is managed elsewhere.
//
// UsageCount counts validation calls against MonthlyLimit; the billing
// webhook resets it when a subscription period renews.
type User struct {
	ID                 string         `json:"id"         gorm:"type:char(36);primaryKey"`
	Email              string         `json:"email"      gorm:"type:varchar(255);not null;uniqueIndex"`
	Plan               string         `json:"plan"       gorm:"type:varchar(16);not null;default:'free'"`
	MonthlyLimit       int64          `json:"monthly_limit" gorm:"not null;default:100"`
	UsageCount         int64          `json:"usage_count"   gorm:"not null;default:0"`
	SubscriptionStatus string         `json:"subscription_status" gorm:"type:varchar(16);not null;default:'inactive'"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// APIKey is a secret credential granting access to the validation endpoint.
// The secret always carries the "sk_" prefix. The core treats rows as a
// read-only view plus two permitted writes: UsageCount and LastUsedAt.
type APIKey struct {
	ID         string         `json:"id"          gorm:"type:char(36);primaryKey"`
	UserID     string         `json:"user_id"     gorm:"type:char(36);not null;index:idx_user_keys"`
	Name       string         `json:"name"        gorm:"type:varchar(128);not null"`
	Key        string         `json:"-"           gorm:"type:varchar(64);not null;uniqueIndex"`
	Active     bool           `json:"active"      gorm:"not null;default:true"`
	UsageCount int64          `json:"usage_count" gorm:"not null;default:0"`
	LastUsedAt *time.Time     `json:"last_used_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-"           gorm:"index"`

	// User is the key owner; the gate reads plan/quota fields through this
	// association in a single joined lookup.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for APIKey.
func (APIKey) TableName() string { return "api_keys" }

// UsageLog is one append-only metering row per allowed, completed request.
// The trailing-60s rate window is recomputed from these rows on every check,
// so the (api_key_id, created_at) index is load-bearing.
type UsageLog struct {
	ID        string    `json:"id"          gorm:"type:char(36);primaryKey"`
	APIKeyID  string    `json:"api_key_id"  gorm:"type:char(36);not null;index:idx_key_window,priority:1"`
	UserID    string    `json:"user_id"     gorm:"type:char(36);not null;index"`
	Endpoint  string    `json:"endpoint"    gorm:"type:varchar(128);not null"`
	ClientIP  string    `json:"client_ip"   gorm:"type:varchar(64)"`
	Status    int       `json:"status"      gorm:"not null"`
	CreatedAt time.Time `json:"created_at"  gorm:"index:idx_key_window,priority:2"`
}

// TableName returns the database table name for UsageLog.
func (UsageLog) TableName() string { return "usage_logs" }

// Payment order lifecycle states.
const (
	OrderCreated = "created"
	OrderPaid    = "paid"
	OrderFailed  = "failed"
)

// PaymentOrder tracks one checkout attempt at a payment provider. OrderRef is
// the provider-issued opaque identifier the webhook keys on.
type PaymentOrder struct {
	ID           string         `json:"id"            gorm:"type:char(36);primaryKey"`
	OrderRef     string         `json:"order_ref"     gorm:"type:varchar(128);not null;uniqueIndex"`
	Provider     string         `json:"provider"      gorm:"type:varchar(32);not null"`
	UserID       string         `json:"user_id"       gorm:"type:char(36);not null;index"`
	Plan         string         `json:"plan"          gorm:"type:varchar(16);not null"`
	BillingCycle string         `json:"billing_cycle" gorm:"type:varchar(16);not null"`
	AmountCents  int64          `json:"amount_cents"  gorm:"not null"`
	Currency     string         `json:"currency"      gorm:"type:varchar(8);not null;default:'USD'"`
	Status       string         `json:"status"        gorm:"type:varchar(16);not null;default:'created'"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"             gorm:"index"`
}

// TableName returns the database table name for PaymentOrder.
func (PaymentOrder) TableName() string { return "payment_orders" }
