// Package services – UsageService
//
// This file implements the usage-reporting read model for the dashboard:
// the user's quota position plus a page of recent metering rows.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/linpap/safecaption/internal/domain"
)

// ErrUserNotFound indicates that the session user has no profile row.
var ErrUserNotFound = errors.New("user not found")

// UsageRepo defines the repository contract required by UsageService.
type UsageRepo interface {
	// GetUser fetches the user's profile row.
	GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error)

	// CountUsageLogs returns the total usage rows for pagination.
	CountUsageLogs(ctx context.Context, db *gorm.DB, userID string) (int64, error)

	// ListUsageLogsPage returns a page of usage rows, newest first.
	ListUsageLogsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.UsageLog, error)
}

// Summary is the quota position reported to the dashboard.
type Summary struct {
	Plan               string    `json:"plan"`
	SubscriptionStatus string    `json:"subscription_status"`
	MonthlyLimit       int64     `json:"monthly_limit"`
	UsageCount         int64     `json:"usage_count"`
	Remaining          int64     `json:"remaining"`
	RatePerMinute      int64     `json:"rate_per_minute"`
	AsOf               time.Time `json:"as_of"`
}

// UsageService assembles usage summaries and log pages.
type UsageService struct {
	DB   *gorm.DB
	Repo UsageRepo
}

// NewUsageService constructs a UsageService.
func NewUsageService(db *gorm.DB, r UsageRepo) *UsageService {
	return &UsageService{DB: db, Repo: r}
}

// Summary returns the user's current quota position.
func (s *UsageService) Summary(ctx context.Context, userID string) (*Summary, error) {
	u, err := s.Repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	remaining := u.MonthlyLimit - u.UsageCount
	if remaining < 0 {
		remaining = 0
	}
	return &Summary{
		Plan:               u.Plan,
		SubscriptionStatus: u.SubscriptionStatus,
		MonthlyLimit:       u.MonthlyLimit,
		UsageCount:         u.UsageCount,
		Remaining:          remaining,
		RatePerMinute:      TierLimit(u.Plan),
		AsOf:               time.Now().UTC(),
	}, nil
}

// ListPage returns a page of the user's usage rows and the total count.
func (s *UsageService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.UsageLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountUsageLogs(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.UsageLog{}, 0, nil
	}

	items, err := s.Repo.ListUsageLogsPage(ctx, s.DB, userID, offset, pageSize)
	return items, total, err
}
