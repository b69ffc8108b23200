package metrics

import (
	"math"

	"github.com/AngelCh415/lpd-dashboard/internal/series"
)

const MaxLag = 7

type LagPoint struct {
	Lag   int     `json:"lag"`
	Value float64 `json:"value"`
	N     int     `json:"n"`
}

type LagResult struct {
	Available bool       `json:"available"`
	Lag       int        `json:"lag"`
	Value     float64    `json:"value"`
	Band      Band       `json:"band,omitempty"`
	N         int        `json:"n"`
	Lags      []LagPoint `json:"lags"`
	Note      string     `json:"note,omitempty"`
}

// LagSearch correlaciona a[t] con b[t+ℓ] para ℓ en [0, maxLag] sobre series diarias.
// Solo entran los días presentes en ambas tras el desfase; un desfase con menos de dos
// pares se omite. Gana el mayor |r|; ante empate, el desfase menor.
func LagSearch(a, b []series.Point, maxLag int) LagResult {
	if maxLag < 0 {
		maxLag = MaxLag
	}
	byDay := make(map[series.Bucket]float64, len(b))
	for _, p := range b {
		byDay[p.Bucket] = p.Value
	}
	res := LagResult{Lags: []LagPoint{}}
	best := -1.0
	for lag := 0; lag <= maxLag; lag++ {
		var x, y []float64
		for _, p := range a {
			if v, ok := byDay[series.DayBucket(p.Bucket.Time().AddDate(0, 0, lag))]; ok {
				x = append(x, p.Value)
				y = append(y, v)
			}
		}
		r, ok := Pearson(x, y)
		if !ok {
			continue
		}
		res.Lags = append(res.Lags, LagPoint{Lag: lag, Value: round3(r), N: len(x)})
		if math.Abs(r) > best {
			best = math.Abs(r)
			res.Available = true
			res.Lag = lag
			res.Value = r
			res.N = len(x)
		}
	}
	if !res.Available {
		res.Note = noteInsufficient
		return res
	}
	res.Band = LagBand(res.Value)
	res.Value = round3(res.Value)
	return res
}
