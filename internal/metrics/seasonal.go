package metrics

import (
	"time"

	"github.com/AngelCh415/lpd-dashboard/internal/series"
)

type MonthMean struct {
	Month string  `json:"month"`
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
}

type SeasonalPeak struct {
	Available      bool        `json:"available"`
	RevenuePeak    string      `json:"revenue_peak,omitempty"`
	EngagementPeak string      `json:"engagement_peak,omitempty"`
	Aligned        bool        `json:"aligned"`
	Revenue        []MonthMean `json:"revenue"`
	Engagement     []MonthMean `json:"engagement"`
	Note           string      `json:"note,omitempty"`
}

// SeasonalPeaks agrupa series mensuales por mes del año (todos los años juntos).
func SeasonalPeaks(revenue, engagement []series.Point) SeasonalPeak {
	out := SeasonalPeak{Revenue: monthMeans(revenue), Engagement: monthMeans(engagement)}
	out.RevenuePeak = argmax(out.Revenue)
	out.EngagementPeak = argmax(out.Engagement)
	if out.RevenuePeak == "" || out.EngagementPeak == "" {
		out.Note = noteInsufficient
		return out
	}
	out.Available = true
	out.Aligned = out.RevenuePeak == out.EngagementPeak
	return out
}

func monthMeans(points []series.Point) []MonthMean {
	var sum [13]float64
	var cnt [13]int
	for _, p := range points {
		sum[p.Bucket.Month] += p.Value
		cnt[p.Bucket.Month]++
	}
	out := []MonthMean{}
	for m := time.January; m <= time.December; m++ {
		if cnt[m] == 0 {
			continue
		}
		out = append(out, MonthMean{Month: series.MonthLabel(m), Mean: round2(sum[m] / float64(cnt[m])), Count: cnt[m]})
	}
	return out
}

// argmax devuelve el primer mes con la media máxima.
func argmax(means []MonthMean) string {
	best := ""
	var max float64
	for _, m := range means {
		if best == "" || m.Mean > max {
			best, max = m.Month, m.Mean
		}
	}
	return best
}
