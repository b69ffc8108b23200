package series

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

type Granularity string

const (
	Day   Granularity = "day"
	Month Granularity = "month"
)

func ParseGranularity(s string) (Granularity, bool) {
	switch Granularity(strings.ToLower(strings.TrimSpace(s))) {
	case Day:
		return Day, true
	case Month, "":
		return Month, true
	}
	return "", false
}

// Observation es un valor fechado de la medida primaria de una fuente.
type Observation struct {
	Time  time.Time
	Value float64
}

// Bucket agrupa por día o por (año, mes); en buckets mensuales Day es 0.
type Bucket struct {
	Year  int
	Month time.Month
	Day   int
}

func DayBucket(t time.Time) Bucket {
	y, m, d := t.Date()
	return Bucket{Year: y, Month: m, Day: d}
}

func MonthBucket(t time.Time) Bucket {
	y, m, _ := t.Date()
	return Bucket{Year: y, Month: m}
}

func BucketOf(t time.Time, g Granularity) Bucket {
	if g == Day {
		return DayBucket(t)
	}
	return MonthBucket(t)
}

func (b Bucket) IsMonth() bool { return b.Day == 0 }

func (b Bucket) Before(o Bucket) bool {
	if b.Year != o.Year {
		return b.Year < o.Year
	}
	if b.Month != o.Month {
		return b.Month < o.Month
	}
	return b.Day < o.Day
}

// Time es el primer instante del bucket en UTC.
func (b Bucket) Time() time.Time {
	d := b.Day
	if d == 0 {
		d = 1
	}
	return time.Date(b.Year, b.Month, d, 0, 0, 0, 0, time.UTC)
}

func (b Bucket) String() string {
	if b.IsMonth() {
		return fmt.Sprintf("%04d-%02d", b.Year, int(b.Month))
	}
	return fmt.Sprintf("%04d-%02d-%02d", b.Year, int(b.Month), b.Day)
}

func (b Bucket) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText acepta "2024-01" (mes) o "2024-01-15" (día).
func (b *Bucket) UnmarshalText(text []byte) error {
	s := string(text)
	if t, err := time.Parse("2006-01", s); err == nil {
		*b = MonthBucket(t)
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("bucket %q: want YYYY-MM or YYYY-MM-DD", s)
	}
	*b = DayBucket(t)
	return nil
}

// MonthLabel es la abreviatura de tres letras del mes.
func MonthLabel(m time.Month) string { return m.String()[:3] }

type Point struct {
	Bucket Bucket  `json:"bucket"`
	Value  float64 `json:"value"`
	Count  int     `json:"count"`
	Label  string  `json:"label,omitempty"`
	Source string  `json:"source,omitempty"`
}

// Aggregate suma las observaciones por bucket y ordena ascendente.
func Aggregate(obs []Observation, g Granularity) []Point {
	return AggregateSource("", obs, g)
}

func AggregateSource(source string, obs []Observation, g Granularity) []Point {
	acc := make(map[Bucket]*Point)
	for _, o := range obs {
		if o.Time.IsZero() {
			continue
		}
		b := BucketOf(o.Time, g)
		p, ok := acc[b]
		if !ok {
			p = &Point{Bucket: b, Source: source}
			if g == Month {
				p.Label = MonthLabel(b.Month)
			}
			acc[b] = p
		}
		p.Count++
		if !math.IsNaN(o.Value) && !math.IsInf(o.Value, 0) {
			p.Value += o.Value
		}
	}
	return sorted(acc)
}

// Rollup reagrega una serie diaria a mensual.
func Rollup(daily []Point) []Point {
	acc := make(map[Bucket]*Point)
	for _, d := range daily {
		b := Bucket{Year: d.Bucket.Year, Month: d.Bucket.Month}
		p, ok := acc[b]
		if !ok {
			p = &Point{Bucket: b, Label: MonthLabel(b.Month), Source: d.Source}
			acc[b] = p
		}
		p.Value += d.Value
		p.Count += d.Count
	}
	return sorted(acc)
}

func sorted(acc map[Bucket]*Point) []Point {
	out := make([]Point, 0, len(acc))
	for _, p := range acc {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bucket.Before(out[j].Bucket) })
	return out
}

// Between filtra por rango de fechas inclusivo; un extremo cero no limita.
func Between(points []Point, from, to time.Time) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		t := p.Bucket.Time()
		if !from.IsZero() && t.Before(BucketOf(from, granularityOf(p)).Time()) {
			continue
		}
		if !to.IsZero() && t.After(to) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func granularityOf(p Point) Granularity {
	if p.Bucket.IsMonth() {
		return Month
	}
	return Day
}

func InYear(points []Point, year int) []Point {
	out := make([]Point, 0, len(points))
	for _, p := range points {
		if p.Bucket.Year == year {
			out = append(out, p)
		}
	}
	return out
}

// AvailableYears es la unión de años de todas las series; si no hay ninguno, el año actual.
func AvailableYears(today time.Time, all ...[]Point) []int {
	set := make(map[int]struct{})
	for _, s := range all {
		for _, p := range s {
			set[p.Bucket.Year] = struct{}{}
		}
	}
	if len(set) == 0 {
		return []int{today.Year()}
	}
	years := make([]int, 0, len(set))
	for y := range set {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func Values(points []Point) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}
