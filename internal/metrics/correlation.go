package metrics

import (
	"fmt"
	"math"

	"github.com/AngelCh415/lpd-dashboard/internal/series"
)

// Umbrales distintos a propósito: el análisis estático y el de desfase no comparten bandas.
const (
	StrongCorrelation   = 0.5
	ModerateCorrelation = 0.2
	LagSignificance     = 0.3
)

type Band string

const (
	BandStrong   Band = "strong"
	BandModerate Band = "moderate"
	BandWeak     Band = "weak"
	BandPositive Band = "positive"
	BandNegative Band = "negative"
)

const noteInsufficient = "insufficient data"

type Correlation struct {
	A           string  `json:"a"`
	B           string  `json:"b"`
	Available   bool    `json:"available"`
	Value       float64 `json:"value"`
	N           int     `json:"n"`
	Band        Band    `json:"band,omitempty"`
	Description string  `json:"description,omitempty"`
	Note        string  `json:"note,omitempty"`
}

// Pearson devuelve ok=false con menos de dos pares o varianza nula.
func Pearson(x, y []float64) (float64, bool) {
	n := len(x)
	if n != len(y) || n < 2 {
		return 0, false
	}
	var mx, my float64
	for i := range x {
		mx += x[i]
		my += y[i]
	}
	mx /= float64(n)
	my /= float64(n)
	var sxy, sxx, syy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, false
	}
	r := sxy / math.Sqrt(sxx*syy)
	if math.IsNaN(r) {
		return 0, false
	}
	return math.Max(-1, math.Min(1, r)), true
}

func StaticBand(r float64) Band {
	switch {
	case r > StrongCorrelation:
		return BandStrong
	case r > ModerateCorrelation:
		return BandModerate
	}
	return BandWeak
}

func LagBand(r float64) Band {
	switch {
	case r > LagSignificance:
		return BandPositive
	case r < -LagSignificance:
		return BandNegative
	}
	return BandWeak
}

// Correlate cruza dos series por bucket (unión interna) y clasifica r.
func Correlate(nameA string, a []series.Point, nameB string, b []series.Point) Correlation {
	tbl := series.Align(series.Inner, series.Named{Name: nameA, Points: a}, series.Named{Name: nameB, Points: b})
	return correlateTable(tbl, nameA, nameB)
}

func correlateTable(tbl series.Table, nameA, nameB string) Correlation {
	out := Correlation{A: nameA, B: nameB, N: len(tbl.Rows)}
	x, _ := tbl.Column(nameA)
	y, _ := tbl.Column(nameB)
	r, ok := Pearson(x, y)
	if !ok {
		out.Note = noteInsufficient
		return out
	}
	out.Available = true
	out.Value = round3(r)
	out.Band = StaticBand(r)
	direction := "positive"
	if r < 0 {
		direction = "negative"
	}
	out.Description = fmt.Sprintf("%s %s correlation", out.Band, direction)
	return out
}
