package metrics

import (
	"fmt"

	"github.com/AngelCh415/lpd-dashboard/internal/series"
)

type insights struct {
	revenueMonthly []series.Point
	correlations   []Correlation
	lag            LagResult
	weekdays       WeekdayRanking
	seasonal       SeasonalPeak
}

// recommendations traduce los resultados a frases para el panel.
func recommendations(in insights) []string {
	out := []string{}
	if m, ok := bestMonth(in.revenueMonthly); ok {
		out = append(out, fmt.Sprintf("Best revenue month: %s %d (%.2f).", series.MonthLabel(m.Bucket.Month), m.Bucket.Year, m.Value))
	}
	if in.weekdays.Available {
		out = append(out, fmt.Sprintf("Schedule posts on %s: highest average engagement (%.2f).", in.weekdays.Top, in.weekdays.Ranking[0].Mean))
	}
	for _, c := range in.correlations {
		if !c.Available {
			continue
		}
		switch c.Band {
		case BandStrong:
			out = append(out, fmt.Sprintf("%s and %s move together (%s, r=%.2f): keep investing in %s.", c.A, c.B, c.Description, c.Value, c.A))
		case BandModerate:
			out = append(out, fmt.Sprintf("%s and %s show a %s (r=%.2f).", c.A, c.B, c.Description, c.Value))
		default:
			out = append(out, fmt.Sprintf("%s has little visible effect on %s (r=%.2f).", c.A, c.B, c.Value))
		}
	}
	if in.lag.Available && in.lag.Band != BandWeak {
		if in.lag.Lag == 0 {
			out = append(out, fmt.Sprintf("Engagement and revenue react on the same day (%s, r=%.2f).", in.lag.Band, in.lag.Value))
		} else {
			out = append(out, fmt.Sprintf("Revenue follows engagement by %d day(s) (%s, r=%.2f): publish ahead of launches.", in.lag.Lag, in.lag.Band, in.lag.Value))
		}
	}
	if in.seasonal.Available {
		if in.seasonal.Aligned {
			out = append(out, fmt.Sprintf("Revenue and engagement both peak in %s: concentrate campaigns there.", in.seasonal.RevenuePeak))
		} else {
			out = append(out, fmt.Sprintf("Revenue peaks in %s but engagement peaks in %s: shift content toward %s.",
				in.seasonal.RevenuePeak, in.seasonal.EngagementPeak, in.seasonal.RevenuePeak))
		}
	}
	if len(out) == 0 {
		out = append(out, "Not enough data yet for recommendations.")
	}
	return out
}

func bestMonth(points []series.Point) (series.Point, bool) {
	var best series.Point
	found := false
	for _, p := range points {
		if !found || p.Value > best.Value {
			best, found = p, true
		}
	}
	return best, found
}
