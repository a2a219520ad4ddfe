package repo

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/linpap/safecaption/internal/domain"
)

func TestCreatePaymentOrder_DefaultsApplied(t *testing.T) {
	db := newRepoDB(t, &domain.PaymentOrder{})

	o := &domain.PaymentOrder{
		OrderRef:     "order_abc",
		Provider:     "razorpay",
		UserID:       uuid.NewString(),
		Plan:         domain.PlanPro,
		BillingCycle: "monthly",
		AmountCents:  2900,
		Currency:     "USD",
	}
	if err := CreatePaymentOrder(context.Background(), db, o); err != nil {
		t.Fatalf("CreatePaymentOrder: %v", err)
	}
	if o.ID == "" {
		t.Fatalf("expected generated ID")
	}
	if o.Status != domain.OrderCreated {
		t.Fatalf("Status = %q, want %q", o.Status, domain.OrderCreated)
	}
	if o.CreatedAt.IsZero() {
		t.Fatalf("CreatedAt not set")
	}
}

func TestGetPaymentOrderByRef_RoundTrip(t *testing.T) {
	db := newRepoDB(t, &domain.PaymentOrder{})

	o := &domain.PaymentOrder{
		OrderRef:     "order_xyz",
		Provider:     "paypal",
		UserID:       uuid.NewString(),
		Plan:         domain.PlanEnterprise,
		BillingCycle: "yearly",
		AmountCents:  199000,
		Currency:     "USD",
	}
	if err := CreatePaymentOrder(context.Background(), db, o); err != nil {
		t.Fatalf("CreatePaymentOrder: %v", err)
	}

	got, err := GetPaymentOrderByRef(context.Background(), db, "order_xyz")
	if err != nil {
		t.Fatalf("GetPaymentOrderByRef: %v", err)
	}
	if got.ID != o.ID || got.Plan != domain.PlanEnterprise || got.AmountCents != 199000 {
		t.Fatalf("unexpected order: %+v", got)
	}

	if _, err := GetPaymentOrderByRef(context.Background(), db, "order_missing"); err != ErrNotFound {
		t.Fatalf("missing ref: want ErrNotFound, got %v", err)
	}
}

func TestMarkOrderStatus_TransitionsAndNotFound(t *testing.T) {
	db := newRepoDB(t, &domain.PaymentOrder{})

	o := &domain.PaymentOrder{
		OrderRef:     "order_mark",
		Provider:     "razorpay",
		UserID:       uuid.NewString(),
		Plan:         domain.PlanPro,
		BillingCycle: "monthly",
		AmountCents:  2900,
		Currency:     "USD",
	}
	if err := CreatePaymentOrder(context.Background(), db, o); err != nil {
		t.Fatalf("CreatePaymentOrder: %v", err)
	}

	if err := MarkOrderStatus(context.Background(), db, "order_mark", domain.OrderPaid); err != nil {
		t.Fatalf("MarkOrderStatus: %v", err)
	}
	got, err := GetPaymentOrderByRef(context.Background(), db, "order_mark")
	if err != nil || got.Status != domain.OrderPaid {
		t.Fatalf("status = %q err=%v, want paid", got.Status, err)
	}

	if err := MarkOrderStatus(context.Background(), db, "order_unknown", domain.OrderFailed); err != ErrNotFound {
		t.Fatalf("unknown ref: want ErrNotFound, got %v", err)
	}
}

func TestUpdateSubscription_AppliesPlanAndResetsUsage(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	u := seedUser(t, db, domain.PlanFree, 100, 87)

	if err := UpdateSubscription(context.Background(), db, u.ID, domain.PlanPro, 10000, "active"); err != nil {
		t.Fatalf("UpdateSubscription: %v", err)
	}

	got, err := GetUser(context.Background(), db, u.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Plan != domain.PlanPro || got.MonthlyLimit != 10000 || got.SubscriptionStatus != "active" {
		t.Fatalf("subscription not applied: %+v", got)
	}
	if got.UsageCount != 0 {
		t.Fatalf("UsageCount = %d, want reset to 0", got.UsageCount)
	}
}

func TestUpdateSubscription_UnknownUser_NotFound(t *testing.T) {
	db := newRepoDB(t, &domain.User{})
	err := UpdateSubscription(context.Background(), db, uuid.NewString(), domain.PlanPro, 10000, "active")
	if err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestRecordWebhookEvent_DedupOnReplay(t *testing.T) {
	db := newRepoDB(t, &domain.WebhookEvent{})

	if err := RecordWebhookEvent(context.Background(), db, "razorpay", "order_1", "payment.captured"); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	if err := RecordWebhookEvent(context.Background(), db, "razorpay", "order_1", "payment.captured"); err != ErrDuplicate {
		t.Fatalf("replay: want ErrDuplicate, got %v", err)
	}

	// Different event for the same order is a distinct delivery.
	if err := RecordWebhookEvent(context.Background(), db, "razorpay", "order_1", "payment.failed"); err != nil {
		t.Fatalf("distinct event: %v", err)
	}
	// Same tuple from another provider is also distinct.
	if err := RecordWebhookEvent(context.Background(), db, "paypal", "order_1", "payment.captured"); err != nil {
		t.Fatalf("distinct provider: %v", err)
	}
}
