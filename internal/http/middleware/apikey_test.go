package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/linpap/safecaption/internal/domain"
	"github.com/linpap/safecaption/internal/services"
)

type stubGateRepo struct {
	key       *domain.APIKey
	lookupErr error
	count     int64
	countErr  error
}

func (s *stubGateRepo) GetAPIKeyBySecret(_ context.Context, _ *gorm.DB, _ string) (*domain.APIKey, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	return s.key, nil
}

func (s *stubGateRepo) CountUsageSince(_ context.Context, _ *gorm.DB, _ string, _ time.Time) (int64, error) {
	return s.count, s.countErr
}

func (s *stubGateRepo) InsertUsageLog(_ context.Context, _ *gorm.DB, _, _, _, _ string, _ int) error {
	return nil
}

func (s *stubGateRepo) TouchAPIKey(_ context.Context, _ *gorm.DB, _ string, _ time.Time) error {
	return nil
}

func (s *stubGateRepo) IncrementUserUsage(_ context.Context, _ *gorm.DB, _ string) error {
	return nil
}

func gateRouter(repo *stubGateRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), APIKeyGate(services.NewGateService(nil, repo)))
	r.POST("/validate", func(c *gin.Context) {
		if DecisionFrom(c) == nil {
			c.String(http.StatusInternalServerError, "no decision")
			return
		}
		c.String(http.StatusOK, "ok")
	})
	return r
}

func freeKey(used, limit int64) *domain.APIKey {
	return &domain.APIKey{
		ID:     "key-1",
		UserID: "user-1",
		Active: true,
		User: domain.User{
			ID:           "user-1",
			Plan:         domain.PlanFree,
			MonthlyLimit: limit,
			UsageCount:   used,
		},
	}
}

func gateCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json body: %v", err)
	}
	return body["code"]
}

func TestAPIKeyGate_MissingKey(t *testing.T) {
	r := gateRouter(&stubGateRepo{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/validate", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	if code := gateCode(t, w); code != "MISSING_API_KEY" {
		t.Fatalf("code = %q", code)
	}
}

func TestAPIKeyGate_InvalidKey(t *testing.T) {
	r := gateRouter(&stubGateRepo{lookupErr: gorm.ErrRecordNotFound})

	for _, hdr := range []struct{ name, val string }{
		{"X-API-Key", "not-a-key"},
		{"Authorization", "sk_unknown"},
		{"Authorization", "Bearer sk_unknown"},
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/validate", nil)
		req.Header.Set(hdr.name, hdr.val)
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s=%s: status = %d", hdr.name, hdr.val, w.Code)
		}
		if code := gateCode(t, w); code != "INVALID_API_KEY" {
			t.Fatalf("%s=%s: code = %q", hdr.name, hdr.val, code)
		}
	}
}

func TestAPIKeyGate_AuthorizationWinsOverHeader(t *testing.T) {
	// Authorization carries a malformed key; the valid X-API-Key must not be
	// consulted.
	r := gateRouter(&stubGateRepo{key: freeKey(0, 100)})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/validate", nil)
	req.Header.Set("Authorization", "bogus")
	req.Header.Set("X-API-Key", "sk_valid")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestAPIKeyGate_MonthlyQuota(t *testing.T) {
	r := gateRouter(&stubGateRepo{key: freeKey(100, 100)})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/validate", nil)
	req.Header.Set("X-API-Key", "sk_abc")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", w.Code)
	}
	if code := gateCode(t, w); code != "MONTHLY_LIMIT_EXCEEDED" {
		t.Fatalf("code = %q", code)
	}
}

func TestAPIKeyGate_RateWindow(t *testing.T) {
	r := gateRouter(&stubGateRepo{key: freeKey(0, 100), count: 10})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/validate", nil)
	req.Header.Set("X-API-Key", "sk_abc")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", w.Code)
	}
	if code := gateCode(t, w); code != "RATE_LIMIT_EXCEEDED" {
		t.Fatalf("code = %q", code)
	}
	if w.Header().Get("Retry-After") != "60" {
		t.Fatalf("Retry-After = %q", w.Header().Get("Retry-After"))
	}
	if w.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("X-RateLimit-Remaining = %q", w.Header().Get("X-RateLimit-Remaining"))
	}
	if w.Header().Get("X-RateLimit-Limit") != "10" {
		t.Fatalf("X-RateLimit-Limit = %q", w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestAPIKeyGate_AllowedSetsHeadersAndDecision(t *testing.T) {
	r := gateRouter(&stubGateRepo{key: freeKey(5, 100), count: 3})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/validate", nil)
	req.Header.Set("X-API-Key", "sk_abc")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if w.Header().Get("X-RateLimit-Limit") != "10" || w.Header().Get("X-RateLimit-Remaining") != "7" {
		t.Fatalf("limit headers = %q/%q",
			w.Header().Get("X-RateLimit-Limit"), w.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestAPIKeyGate_WindowErrorFailsOpen(t *testing.T) {
	r := gateRouter(&stubGateRepo{key: freeKey(0, 100), countErr: errors.New("db locked")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/validate", nil)
	req.Header.Set("X-API-Key", "sk_abc")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("window count failure should fail open, got %d", w.Code)
	}
}
