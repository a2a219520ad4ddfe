// Package services – KeyService
//
// This file implements API-key lifecycle operations for the dashboard
// surface: issuing a new secret, listing keys (paginated), and revoking a
// key. The gate itself never writes through this service; issuance and
// revocation are session-authenticated user actions.
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/linpap/safecaption/internal/domain"
)

// secretBytes is the entropy of a generated secret; hex-encoded it yields 48
// characters after the "sk_" prefix.
const secretBytes = 24

// KeyRepo defines the repository contract required by KeyService.
type KeyRepo interface {
	// CreateAPIKey inserts a new key row for the given user.
	CreateAPIKey(ctx context.Context, db *gorm.DB, userID, name, secret string) (*domain.APIKey, error)

	// GetAPIKey fetches a key by ID ensuring it belongs to the user.
	GetAPIKey(ctx context.Context, db *gorm.DB, id, userID string) (*domain.APIKey, error)

	// CountAPIKeys returns the total number of keys for pagination.
	CountAPIKeys(ctx context.Context, db *gorm.DB, userID string) (int64, error)

	// ListAPIKeysPage returns a page of keys belonging to the user.
	ListAPIKeysPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.APIKey, error)

	// DeactivateAPIKey revokes a key (only if it belongs to the user).
	DeactivateAPIKey(ctx context.Context, db *gorm.DB, id, userID string) error
}

// KeyService provides API-key lifecycle operations.
type KeyService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the key repository used by this service.
	Repo KeyRepo
}

// NewKeyService constructs a KeyService.
func NewKeyService(db *gorm.DB, r KeyRepo) *KeyService {
	return &KeyService{DB: db, Repo: r}
}

// Issue mints a fresh secret for userID and persists the key row. The full
// secret is only available on the returned record; list operations redact it.
func (s *KeyService) Issue(ctx context.Context, userID, name string) (*domain.APIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyKeyName
	}

	secret, err := NewSecret()
	if err != nil {
		return nil, err
	}
	return s.Repo.CreateAPIKey(ctx, s.DB, userID, name, secret)
}

// ListPage returns a page of the user's keys and the total count.
// It applies defaults for invalid page/pageSize values.
func (s *KeyService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.APIKey, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := s.Repo.CountAPIKeys(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.APIKey{}, 0, nil
	}

	items, err := s.Repo.ListAPIKeysPage(ctx, s.DB, userID, offset, pageSize)
	return items, total, err
}

// Revoke deactivates a key owned by userID. The row is kept for usage-log
// joins; only the Active flag changes.
func (s *KeyService) Revoke(ctx context.Context, userID, keyID string) error {
	if err := s.Repo.DeactivateAPIKey(ctx, s.DB, keyID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrKeyNotFound
		}
		return err
	}
	return nil
}

// NewSecret generates a "sk_"-prefixed 48-hex-character secret from
// crypto/rand. Key creation time is not encoded in the secret.
func NewSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return KeyPrefix + hex.EncodeToString(buf), nil
}

// RedactSecret returns a display form of a secret: prefix, first four hex
// characters, an ellipsis, and the last four characters.
func RedactSecret(secret string) string {
	if len(secret) <= len(KeyPrefix)+8 {
		return KeyPrefix + "****"
	}
	return secret[:len(KeyPrefix)+4] + "..." + secret[len(secret)-4:]
}
