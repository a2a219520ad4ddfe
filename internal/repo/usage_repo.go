// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the usage-metering queries: the
// trailing-window count that backs the per-minute rate check, the append-only
// usage log, and the per-user lifetime counter.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/linpap/safecaption/internal/domain"
)

// CountUsageSince returns the number of usage-log rows for apiKeyID with
// CreatedAt after since. The rate window is derived, never persisted: it is
// recomputed from the log on every check.
func CountUsageSince(ctx context.Context, db *gorm.DB, apiKeyID string, since time.Time) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.UsageLog{}).
		Where("api_key_id = ? AND created_at > ?", apiKeyID, since).
		Count(&n).Error
	return n, err
}

// InsertUsageLog appends one metering row. CreatedAt is set to UTC here
// rather than by the driver so the window query sees a consistent clock.
func InsertUsageLog(ctx context.Context, db *gorm.DB, apiKeyID, userID, endpoint, clientIP string, status int) error {
	row := &domain.UsageLog{
		ID:        uuid.NewString(),
		APIKeyID:  apiKeyID,
		UserID:    userID,
		Endpoint:  endpoint,
		ClientIP:  clientIP,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
	return db.WithContext(ctx).Create(row).Error
}

// IncrementUserUsage bumps the owning user's lifetime call counter by one.
func IncrementUserUsage(ctx context.Context, db *gorm.DB, userID string) error {
	return db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", userID).
		Update("usage_count", gorm.Expr("usage_count + 1")).Error
}

// CountUsageLogs returns the total number of usage rows for userID.
func CountUsageLogs(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.UsageLog{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListUsageLogsPage returns a page of usage rows for userID, newest first.
func ListUsageLogsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.UsageLog, error) {
	var out []domain.UsageLog
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// GetUser fetches a user row by ID, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
