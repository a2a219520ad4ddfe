// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the APIKey
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a key is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/linpap/safecaption/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateAPIKey inserts a new key row owned by userID. The caller supplies the
// secret; the row ID is a randomly generated UUID and CreatedAt is set to UTC.
func CreateAPIKey(ctx context.Context, db *gorm.DB, userID, name, secret string) (*domain.APIKey, error) {
	k := &domain.APIKey{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Key:       secret,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(k).Error; err != nil {
		return nil, err
	}
	return k, nil
}

// GetAPIKeyBySecret fetches an active key by its secret value with the owning
// user preloaded in the same lookup. Missing or inactive keys return
// ErrNotFound; the gate treats both identically.
func GetAPIKeyBySecret(ctx context.Context, db *gorm.DB, secret string) (*domain.APIKey, error) {
	var k domain.APIKey
	err := db.WithContext(ctx).
		Preload("User").
		Where("key = ? AND active = ?", secret, true).
		First(&k).Error
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// GetAPIKey fetches a key by ID enforcing ownership. Returns ErrNotFound when
// the key does not exist or belongs to another user.
func GetAPIKey(ctx context.Context, db *gorm.DB, id, userID string) (*domain.APIKey, error) {
	var k domain.APIKey
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&k).Error
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// CountAPIKeys returns the total number of keys owned by userID.
func CountAPIKeys(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.APIKey{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListAPIKeysPage returns a paginated slice of keys for userID, newest first.
// The caller computes offset and limit (e.g., (page-1)*pageSize).
func ListAPIKeysPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.APIKey, error) {
	var out []domain.APIKey
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// DeactivateAPIKey flips the Active flag off for a key owned by userID. If no
// rows are affected (key missing or not owned), it returns ErrNotFound.
func DeactivateAPIKey(ctx context.Context, db *gorm.DB, id, userID string) error {
	res := db.WithContext(ctx).
		Model(&domain.APIKey{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TouchAPIKey increments the key's usage counter and stamps LastUsedAt.
// One of the three post-request accounting writes; not transactional with
// the others.
func TouchAPIKey(ctx context.Context, db *gorm.DB, id string, now time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.APIKey{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"usage_count":  gorm.Expr("usage_count + 1"),
			"last_used_at": now,
		}).Error
}
