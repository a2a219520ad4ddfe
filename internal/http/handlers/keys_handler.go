// API-key management HTTP handlers.
//
// This file exposes the dashboard endpoints for key lifecycle:
//   - POST   /keys       (issue; the only response that ever contains the full secret)
//   - GET    /keys       (list, paginated, secrets redacted)
//   - DELETE /keys/{id}  (revoke)
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/linpap/safecaption/internal/domain"
	"github.com/linpap/safecaption/internal/services"
)

//
// DTOs
//

// CreateKeyRequest is the JSON payload for issuing an API key.
type CreateKeyRequest struct {
	// Name labels the key in the dashboard (1–128 chars).
	Name string `json:"name" binding:"required,min=1,max=128" example:"production"`
}

// CreateKeyResponse returns the freshly issued key. Secret is shown exactly
// once; subsequent listings redact it.
type CreateKeyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Secret    string    `json:"secret"`
	CreatedAt time.Time `json:"created_at"`
}

// KeyView is the redacted listing form of an API key.
type KeyView struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Secret     string     `json:"secret"`
	Active     bool       `json:"active"`
	UsageCount int64      `json:"usage_count"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ListKeysResponse wraps a page of keys and pagination information.
type ListKeysResponse struct {
	Keys       []KeyView  `json:"keys"`
	Pagination Pagination `json:"pagination"`
}

func keyView(k domain.APIKey) KeyView {
	return KeyView{
		ID:         k.ID,
		Name:       k.Name,
		Secret:     services.RedactSecret(k.Key),
		Active:     k.Active,
		UsageCount: k.UsageCount,
		LastUsedAt: k.LastUsedAt,
		CreatedAt:  k.CreatedAt,
	}
}

//
// Handlers
//

// CreateKey godoc
// @ID          createKey
// @Summary     Issue a new API key
// @Description Mints a fresh secret for the current user. The full secret appears only in this response.
// @Tags        Keys
// @Accept      json
// @Produce     json
// @Security    SessionAuth
//
// @Param       body  body  handlers.CreateKeyRequest  true  "Key name"
//
// @Success     201  {object}  handlers.CreateKeyResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse "Missing session"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /keys [post]
func (h *Handlers) CreateKey(c *gin.Context) {
	var req CreateKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "key name required (1–128 chars)")
		return
	}

	k, err := h.keySvc.Issue(c.Request.Context(), userID(c), req.Name)
	if err != nil {
		if errors.Is(err, services.ErrEmptyKeyName) {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "key name required (1–128 chars)")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	ok(c, http.StatusCreated, CreateKeyResponse{
		ID:        k.ID,
		Name:      k.Name,
		Secret:    k.Key,
		CreatedAt: k.CreatedAt,
	})
}

// ListKeys godoc
// @ID          listKeys
// @Summary     List API keys (paginated)
// @Description Returns a page of the user's keys with secrets redacted.
// @Tags        Keys
// @Produce     json
// @Security    SessionAuth
//
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListKeysResponse
// @Failure     401  {object}  handlers.ErrorResponse "Missing session"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /keys [get]
func (h *Handlers) ListKeys(c *gin.Context) {
	page, pageSize := clampPagination(c)

	items, total, err := h.keySvc.ListPage(c.Request.Context(), userID(c), page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	views := make([]KeyView, 0, len(items))
	for _, k := range items {
		views = append(views, keyView(k))
	}
	ok(c, http.StatusOK, ListKeysResponse{
		Keys:       views,
		Pagination: newPagination(page, pageSize, total),
	})
}

// RevokeKey godoc
// @ID          revokeKey
// @Summary     Revoke an API key
// @Description Deactivates a key owned by the current user. The record is kept for usage history.
// @Tags        Keys
// @Produce     json
// @Security    SessionAuth
//
// @Param       id  path  string  true  "Key ID (UUID)"  format(uuid)
//
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse "Missing session"
// @Failure     404  {object}  handlers.ErrorResponse "Key not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /keys/{id} [delete]
func (h *Handlers) RevokeKey(c *gin.Context) {
	keyID := c.Param("id")
	if _, err := uuid.Parse(keyID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "key id must be a UUID")
		return
	}

	if err := h.keySvc.Revoke(c.Request.Context(), userID(c), keyID); err != nil {
		if errors.Is(err, services.ErrKeyNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "api key not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	noContent(c)
}
