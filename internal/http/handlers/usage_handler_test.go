package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/linpap/safecaption/internal/domain"
	"github.com/linpap/safecaption/internal/services"
)

type fakeUsageSvc struct {
	summary    *services.Summary
	summaryErr error
	page       []domain.UsageLog
	total      int64
	listErr    error

	lastUserID string
	lastPage   int
	lastSize   int
}

func (f *fakeUsageSvc) Summary(ctx context.Context, userID string) (*services.Summary, error) {
	f.lastUserID = userID
	return f.summary, f.summaryErr
}

func (f *fakeUsageSvc) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.UsageLog, int64, error) {
	f.lastUserID, f.lastPage, f.lastSize = userID, page, pageSize
	return f.page, f.total, f.listErr
}

func TestUsageSummary_Success(t *testing.T) {
	svc := &fakeUsageSvc{summary: &services.Summary{
		Plan:               domain.PlanPro,
		SubscriptionStatus: "active",
		MonthlyLimit:       10000,
		UsageCount:         123,
		Remaining:          9877,
		RatePerMinute:      60,
		AsOf:               time.Now().UTC(),
	}}
	r := dashRouter(New(nil, nil, nil, svc, nil))

	w := doRequest(t, r, http.MethodGet, "/usage", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var got services.Summary
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Plan != domain.PlanPro || got.Remaining != 9877 || got.RatePerMinute != 60 {
		t.Fatalf("unexpected summary: %+v", got)
	}
	if svc.lastUserID != "u1" {
		t.Fatalf("service called with %q", svc.lastUserID)
	}
}

func TestUsageSummary_UserNotFound(t *testing.T) {
	svc := &fakeUsageSvc{summaryErr: services.ErrUserNotFound}
	r := dashRouter(New(nil, nil, nil, svc, nil))

	w := doRequest(t, r, http.MethodGet, "/usage", "")
	if w.Code != http.StatusNotFound || errCode(t, w) != ErrCodeNotFound {
		t.Fatalf("status=%d code=%s", w.Code, errCode(t, w))
	}
}

func TestUsageSummary_StoreError(t *testing.T) {
	svc := &fakeUsageSvc{summaryErr: errors.New("db down")}
	r := dashRouter(New(nil, nil, nil, svc, nil))

	w := doRequest(t, r, http.MethodGet, "/usage", "")
	if w.Code != http.StatusInternalServerError || errCode(t, w) != ErrCodeInternal {
		t.Fatalf("status=%d code=%s", w.Code, errCode(t, w))
	}
}

func TestListUsage_Paginates(t *testing.T) {
	svc := &fakeUsageSvc{
		page: []domain.UsageLog{
			{ID: "l1", Endpoint: "/api/v1/validate", Status: 200},
			{ID: "l2", Endpoint: "/api/v1/validate", Status: 200},
		},
		total: 2,
	}
	r := dashRouter(New(nil, nil, nil, svc, nil))

	w := doRequest(t, r, http.MethodGet, "/usage/logs?page_size=50", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp ListUsageResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Logs) != 2 || resp.Pagination.TotalPages != 1 || resp.Pagination.HasNext {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if svc.lastPage != 1 || svc.lastSize != 50 {
		t.Fatalf("page/size = %d/%d, want 1/50", svc.lastPage, svc.lastSize)
	}
}
