package metrics

import (
	"github.com/shopspring/decimal"

	"github.com/AngelCh415/lpd-dashboard/internal/ingest"
)

type KPIs struct {
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	SalesRevenue   decimal.Decimal `json:"sales_revenue"`
	WebinarRevenue decimal.Decimal `json:"webinar_revenue"`
	Orders         int             `json:"orders"`
	WebinarOrders  int             `json:"webinar_orders"`
	Customers      int             `json:"customers"`
	Posts          int             `json:"posts"`
	AvgEngagement  float64         `json:"avg_engagement"`
	MaxEngagement  float64         `json:"max_engagement"`
	AvgWeighted    float64         `json:"avg_weighted_engagement"`
	Platforms      int             `json:"platforms"`
	Emails         int             `json:"emails"`
	DroppedRows    int             `json:"dropped_rows"`
}

// ComputeKPIs tolera cualquier fuente vacía: su KPI queda en cero.
func ComputeKPIs(s ingest.Snapshot) KPIs {
	k := KPIs{
		SalesRevenue:   decimal.Zero,
		WebinarRevenue: decimal.Zero,
		Orders:         len(s.Sales.Records),
		WebinarOrders:  len(s.Webinar.Records),
		Posts:          len(s.Social.Records),
		DroppedRows:    s.Sales.DroppedCount() + s.Webinar.DroppedCount() + s.Social.DroppedCount() + s.Email.DroppedCount(),
	}
	customers := make(map[string]struct{})
	for _, r := range s.Sales.Records {
		k.SalesRevenue = k.SalesRevenue.Add(decimal.NewFromFloat(r.Amount))
		if r.Email != "" {
			customers[r.Email] = struct{}{}
		}
	}
	for _, r := range s.Webinar.Records {
		k.WebinarRevenue = k.WebinarRevenue.Add(decimal.NewFromFloat(r.TotalAmount))
		if r.Email != "" {
			customers[r.Email] = struct{}{}
		}
	}
	k.TotalRevenue = k.SalesRevenue.Add(k.WebinarRevenue).Round(2)
	k.SalesRevenue = k.SalesRevenue.Round(2)
	k.WebinarRevenue = k.WebinarRevenue.Round(2)
	k.Customers = len(customers)

	platforms := make(map[string]struct{})
	var sum, weighted float64
	for i, p := range s.Social.Records {
		sum += p.Engagement
		weighted += p.Weighted
		if i == 0 || p.Engagement > k.MaxEngagement {
			k.MaxEngagement = p.Engagement
		}
		platforms[p.Platform] = struct{}{}
	}
	if n := len(s.Social.Records); n > 0 {
		k.AvgEngagement = round2(sum / float64(n))
		k.AvgWeighted = round2(weighted / float64(n))
	}
	k.Platforms = len(platforms)

	for _, e := range s.Email.Records {
		k.Emails += e.Count
	}
	return k
}
