// Package billing implements subscription commerce: the plan catalog, the
// payment-provider abstraction with two interchangeable implementations, and
// the webhook processing that applies a paid plan to a user profile.
package billing

import (
	"github.com/linpap/safecaption/internal/domain"
)

// Billing cycle codes accepted on order creation.
const (
	CycleMonthly = "monthly"
	CycleYearly  = "yearly"
)

// Plan describes one purchasable tier: its monthly request cap and its price
// per billing cycle in US cents. The free tier carries zero prices and is not
// orderable.
type Plan struct {
	Code              string `json:"code"`
	Name              string `json:"name"`
	MonthlyLimit      int64  `json:"monthly_limit"`
	RatePerMinute     int64  `json:"rate_per_minute"`
	PriceMonthlyCents int64  `json:"price_monthly_cents"`
	PriceYearlyCents  int64  `json:"price_yearly_cents"`
}

// Catalog is the static plan table. Like the heuristic rule tables, it is
// initialized once and read-only afterwards.
var Catalog = []Plan{
	{
		Code:          domain.PlanFree,
		Name:          "Free",
		MonthlyLimit:  100,
		RatePerMinute: 10,
	},
	{
		Code:              domain.PlanPro,
		Name:              "Pro",
		MonthlyLimit:      10000,
		RatePerMinute:     60,
		PriceMonthlyCents: 2900,
		PriceYearlyCents:  29000,
	},
	{
		Code:              domain.PlanEnterprise,
		Name:              "Enterprise",
		MonthlyLimit:      100000,
		RatePerMinute:     1000,
		PriceMonthlyCents: 19900,
		PriceYearlyCents:  199000,
	},
}

// PlanByCode looks up a catalog entry. The second return is false for unknown
// codes.
func PlanByCode(code string) (Plan, bool) {
	for _, p := range Catalog {
		if p.Code == code {
			return p, true
		}
	}
	return Plan{}, false
}

// PriceCents returns the price of a plan for the given cycle. Zero means the
// combination is not purchasable.
func PriceCents(p Plan, cycle string) int64 {
	switch cycle {
	case CycleMonthly:
		return p.PriceMonthlyCents
	case CycleYearly:
		return p.PriceYearlyCents
	}
	return 0
}
