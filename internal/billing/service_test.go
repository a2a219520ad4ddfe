package billing

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"gorm.io/gorm"

	"github.com/linpap/safecaption/internal/domain"
	"github.com/linpap/safecaption/internal/repo"
)

type fakeProvider struct {
	name      string
	order     *Order
	createErr error
	note      *Notification
	verifyErr error
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) CreateOrder(_ context.Context, _ int64, _, _ string) (*Order, error) {
	return f.order, f.createErr
}

func (f *fakeProvider) VerifyNotification(_ context.Context, _ []byte, _ http.Header) (*Notification, error) {
	return f.note, f.verifyErr
}

type fakeBillingRepo struct {
	created      *domain.PaymentOrder
	order        *domain.PaymentOrder
	orderErr     error
	statusSet    string
	statusErr    error
	subPlan      string
	subLimit     int64
	subStatus    string
	subErr       error
	eventErr     error
	eventRecords int
}

func (f *fakeBillingRepo) CreatePaymentOrder(_ context.Context, _ *gorm.DB, o *domain.PaymentOrder) error {
	f.created = o
	return nil
}

func (f *fakeBillingRepo) GetPaymentOrderByRef(_ context.Context, _ *gorm.DB, _ string) (*domain.PaymentOrder, error) {
	return f.order, f.orderErr
}

func (f *fakeBillingRepo) MarkOrderStatus(_ context.Context, _ *gorm.DB, _, status string) error {
	f.statusSet = status
	return f.statusErr
}

func (f *fakeBillingRepo) UpdateSubscription(_ context.Context, _ *gorm.DB, _, plan string, limit int64, status string) error {
	f.subPlan, f.subLimit, f.subStatus = plan, limit, status
	return f.subErr
}

func (f *fakeBillingRepo) RecordWebhookEvent(_ context.Context, _ *gorm.DB, _, _, _ string) error {
	f.eventRecords++
	return f.eventErr
}

func TestCreateOrderValidation(t *testing.T) {
	svc := NewService(nil, &fakeBillingRepo{}, &fakeProvider{name: "razorpay"})

	bad := []OrderInput{
		{},
		{Plan: "free", Cycle: CycleMonthly, Provider: "razorpay"},
		{Plan: "pro", Cycle: "weekly", Provider: "razorpay"},
		{Plan: "pro", Cycle: CycleMonthly},
	}
	for i, in := range bad {
		if _, err := svc.CreateOrder(context.Background(), "user-1", in); err == nil {
			t.Fatalf("case %d: expected validation error for %+v", i, in)
		}
	}
}

func TestCreateOrderUnknownProvider(t *testing.T) {
	svc := NewService(nil, &fakeBillingRepo{}, &fakeProvider{name: "razorpay"})

	in := OrderInput{Plan: "pro", Cycle: CycleMonthly, Provider: "stripe"}
	if _, err := svc.CreateOrder(context.Background(), "user-1", in); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}

func TestCreateOrderRecordsRow(t *testing.T) {
	r := &fakeBillingRepo{}
	prov := &fakeProvider{name: "razorpay", order: &Order{Ref: "order_1", AmountCents: 2900, Currency: "USD"}}
	svc := NewService(nil, r, prov)

	order, err := svc.CreateOrder(context.Background(), "user-1", OrderInput{
		Plan: "pro", Cycle: CycleMonthly, Provider: "razorpay",
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.Ref != "order_1" {
		t.Fatalf("order ref = %q", order.Ref)
	}
	if r.created == nil {
		t.Fatal("order row not recorded")
	}
	if r.created.Plan != "pro" || r.created.AmountCents != 2900 || r.created.Provider != "razorpay" {
		t.Fatalf("unexpected order row: %+v", r.created)
	}
}

func TestHandleWebhookActivatesSubscription(t *testing.T) {
	r := &fakeBillingRepo{
		order: &domain.PaymentOrder{OrderRef: "order_1", UserID: "user-1", Plan: "pro"},
	}
	prov := &fakeProvider{
		name: "razorpay",
		note: &Notification{Event: "payment.captured", OrderRef: "order_1", Paid: true},
	}
	svc := NewService(nil, r, prov)

	if err := svc.HandleWebhook(context.Background(), "razorpay", []byte("{}"), http.Header{}); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if r.statusSet != domain.OrderPaid {
		t.Fatalf("order status = %q", r.statusSet)
	}
	if r.subPlan != "pro" || r.subLimit != 10000 || r.subStatus != "active" {
		t.Fatalf("subscription update = %q/%d/%q", r.subPlan, r.subLimit, r.subStatus)
	}
}

func TestHandleWebhookReplayIsNoop(t *testing.T) {
	r := &fakeBillingRepo{eventErr: repo.ErrDuplicate}
	prov := &fakeProvider{
		name: "razorpay",
		note: &Notification{Event: "payment.captured", OrderRef: "order_1", Paid: true},
	}
	svc := NewService(nil, r, prov)

	if err := svc.HandleWebhook(context.Background(), "razorpay", []byte("{}"), http.Header{}); err != nil {
		t.Fatalf("replay should be acknowledged, got %v", err)
	}
	if r.statusSet != "" || r.subPlan != "" {
		t.Fatal("replay must not touch order or subscription state")
	}
}

func TestHandleWebhookBadSignature(t *testing.T) {
	r := &fakeBillingRepo{}
	prov := &fakeProvider{name: "razorpay", verifyErr: ErrBadSignature}
	svc := NewService(nil, r, prov)

	err := svc.HandleWebhook(context.Background(), "razorpay", []byte("{}"), http.Header{})
	if !errors.Is(err, ErrBadSignature) {
		t.Fatalf("expected ErrBadSignature, got %v", err)
	}
	if r.eventRecords != 0 {
		t.Fatal("unverified delivery must not be recorded")
	}
}

func TestHandleWebhookFailedPayment(t *testing.T) {
	r := &fakeBillingRepo{
		order: &domain.PaymentOrder{OrderRef: "order_1", UserID: "user-1", Plan: "pro"},
	}
	prov := &fakeProvider{
		name: "razorpay",
		note: &Notification{Event: "payment.failed", OrderRef: "order_1", Paid: false},
	}
	svc := NewService(nil, r, prov)

	if err := svc.HandleWebhook(context.Background(), "razorpay", []byte("{}"), http.Header{}); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if r.statusSet != domain.OrderFailed {
		t.Fatalf("order status = %q", r.statusSet)
	}
	if r.subPlan != "" {
		t.Fatal("failed payment must not update the subscription")
	}
}

func TestHandleWebhookUnknownOrder(t *testing.T) {
	r := &fakeBillingRepo{orderErr: gorm.ErrRecordNotFound}
	prov := &fakeProvider{
		name: "paypal",
		note: &Notification{Event: "PAYMENT.CAPTURE.COMPLETED", OrderRef: "nope", Paid: true},
	}
	svc := NewService(nil, r, prov)

	err := svc.HandleWebhook(context.Background(), "paypal", []byte("{}"), http.Header{})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestPlanCatalog(t *testing.T) {
	p, ok := PlanByCode("pro")
	if !ok || p.MonthlyLimit != 10000 {
		t.Fatalf("pro plan = %+v ok=%v", p, ok)
	}
	if _, ok := PlanByCode("platinum"); ok {
		t.Fatal("unknown plan must not resolve")
	}
	if PriceCents(p, CycleYearly) != 29000 {
		t.Fatalf("pro yearly price = %d", PriceCents(p, CycleYearly))
	}
	if PriceCents(p, "weekly") != 0 {
		t.Fatal("unknown cycle must price to zero")
	}
	free, _ := PlanByCode("free")
	if PriceCents(free, CycleMonthly) != 0 {
		t.Fatal("free tier must not be purchasable")
	}
}
