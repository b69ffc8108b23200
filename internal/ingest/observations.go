package ingest

import "github.com/AngelCh415/lpd-dashboard/internal/series"

// Medida primaria de cada fuente como observaciones fechadas.

func SalesObservations(recs []Sale) []series.Observation {
	out := make([]series.Observation, 0, len(recs))
	for _, r := range recs {
		out = append(out, series.Observation{Time: r.Date.Time, Value: r.Amount})
	}
	return out
}

func WebinarObservations(recs []WebinarSale) []series.Observation {
	out := make([]series.Observation, 0, len(recs))
	for _, r := range recs {
		out = append(out, series.Observation{Time: r.Date.Time, Value: r.TotalAmount})
	}
	return out
}

// EngagementObservations usa la suma simple o la ponderada según weighted.
func EngagementObservations(recs []Post, weighted bool) []series.Observation {
	out := make([]series.Observation, 0, len(recs))
	for _, r := range recs {
		v := r.Engagement
		if weighted {
			v = r.Weighted
		}
		out = append(out, series.Observation{Time: r.Date.Time, Value: v})
	}
	return out
}

func EmailObservations(recs []Email) []series.Observation {
	out := make([]series.Observation, 0, len(recs))
	for _, r := range recs {
		out = append(out, series.Observation{Time: r.Date.Time, Value: float64(r.Count)})
	}
	return out
}
