package metrics

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AngelCh415/lpd-dashboard/internal/apperr"
	"github.com/AngelCh415/lpd-dashboard/internal/ingest"
	"github.com/AngelCh415/lpd-dashboard/internal/models"
	"github.com/AngelCh415/lpd-dashboard/internal/series"
)

// nombres de las series expuestas
const (
	SeriesSales              = "sales"
	SeriesWebinar            = "webinar"
	SeriesRevenue            = "revenue"
	SeriesEngagement         = "engagement"
	SeriesWeightedEngagement = "engagement_weighted"
	SeriesEmail              = "email"
)

var seriesNames = []string{SeriesSales, SeriesWebinar, SeriesRevenue, SeriesEngagement, SeriesWeightedEngagement, SeriesEmail}

// Loader entrega una pasada limpia de todas las fuentes (ingest.ETL).
type Loader interface {
	Run(ctx context.Context) (ingest.Snapshot, error)
}

type Service struct {
	etl    Loader
	maxLag int
}

func NewService(etl Loader, maxLag int) *Service {
	if maxLag <= 0 {
		maxLag = MaxLag
	}
	return &Service{etl: etl, maxLag: maxLag}
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

type Dashboard struct {
	GeneratedAt     time.Time                          `json:"generated_at"`
	Year            int                                `json:"year,omitempty"`
	Years           []int                              `json:"years"`
	KPIs            KPIs                               `json:"kpis"`
	Monthly         map[string][]series.Point          `json:"monthly"`
	Daily           map[string][]series.Point          `json:"daily"`
	Combined        series.Table                       `json:"combined"`
	Correlations    []Correlation                      `json:"correlations"`
	Lag             LagResult                          `json:"lag"`
	Weekdays        WeekdayRanking                     `json:"weekdays"`
	Seasonal        SeasonalPeak                       `json:"seasonal"`
	Recommendations []string                           `json:"recommendations"`
	Diagnostics     map[models.Sheet]ingest.SourceDiag `json:"diagnostics"`
}

// Dashboard recalcula todo desde una pasada nueva; year 0 incluye todos los años.
func (s *Service) Dashboard(ctx context.Context, year int) (Dashboard, error) {
	snap, err := s.etl.Run(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return Build(snap, year, s.maxLag), nil
}

// Build es la parte pura del panel: solo depende de la instantánea.
func Build(snap ingest.Snapshot, year, maxLag int) Dashboard {
	daily := sourceSeries(snap, series.Day)
	monthly := sourceSeries(snap, series.Month)
	years := series.AvailableYears(snap.Today, monthly[SeriesRevenue], monthly[SeriesEngagement], monthly[SeriesEmail])
	if year != 0 {
		for name := range daily {
			daily[name] = series.InYear(daily[name], year)
			monthly[name] = series.InYear(monthly[name], year)
		}
	}

	d := Dashboard{
		GeneratedAt: snap.LoadedAt,
		Year:        year,
		Years:       years,
		KPIs:        ComputeKPIs(snap),
		Monthly:     monthly,
		Daily:       daily,
		Combined:    combined(monthly),
		Correlations: []Correlation{
			Correlate(SeriesEngagement, monthly[SeriesEngagement], SeriesRevenue, monthly[SeriesRevenue]),
			Correlate(SeriesWeightedEngagement, monthly[SeriesWeightedEngagement], SeriesRevenue, monthly[SeriesRevenue]),
			Correlate(SeriesEmail, monthly[SeriesEmail], SeriesRevenue, monthly[SeriesRevenue]),
		},
		Lag:         LagSearch(daily[SeriesEngagement], daily[SeriesRevenue], maxLag),
		Weekdays:    RankWeekdays(ingest.EngagementObservations(inYear(snap.Social.Records, year), true)),
		Seasonal:    SeasonalPeaks(monthly[SeriesRevenue], monthly[SeriesEngagement]),
		Diagnostics: snap.Diagnostics(),
	}
	d.Recommendations = recommendations(insights{
		revenueMonthly: monthly[SeriesRevenue],
		correlations:   d.Correlations,
		lag:            d.Lag,
		weekdays:       d.Weekdays,
		seasonal:       d.Seasonal,
	})
	return d
}

// sourceSeries agrega cada fuente directamente a la granularidad pedida; día y mes son
// series paralelas, no una derivada de la otra.
func sourceSeries(snap ingest.Snapshot, g series.Granularity) map[string][]series.Point {
	sales := ingest.SalesObservations(snap.Sales.Records)
	webinar := ingest.WebinarObservations(snap.Webinar.Records)
	return map[string][]series.Point{
		SeriesSales:              series.AggregateSource(SeriesSales, sales, g),
		SeriesWebinar:            series.AggregateSource(SeriesWebinar, webinar, g),
		SeriesRevenue:            series.AggregateSource(SeriesRevenue, append(append([]series.Observation{}, sales...), webinar...), g),
		SeriesEngagement:         series.AggregateSource(SeriesEngagement, ingest.EngagementObservations(snap.Social.Records, false), g),
		SeriesWeightedEngagement: series.AggregateSource(SeriesWeightedEngagement, ingest.EngagementObservations(snap.Social.Records, true), g),
		SeriesEmail:              series.AggregateSource(SeriesEmail, ingest.EmailObservations(snap.Email.Records), g),
	}
}

// combined es la vista conjunta para gráficos: unión con ceros.
func combined(bySource map[string][]series.Point) series.Table {
	return series.Align(series.OuterZeroFill,
		series.Named{Name: SeriesSales, Points: bySource[SeriesSales]},
		series.Named{Name: SeriesWebinar, Points: bySource[SeriesWebinar]},
		series.Named{Name: SeriesEngagement, Points: bySource[SeriesEngagement]},
		series.Named{Name: SeriesEmail, Points: bySource[SeriesEmail]},
	)
}

func inYear(posts []ingest.Post, year int) []ingest.Post {
	if year == 0 {
		return posts
	}
	out := make([]ingest.Post, 0, len(posts))
	for _, p := range posts {
		if p.Date.Time.Year() == year {
			out = append(out, p)
		}
	}
	return out
}

type SeriesPage struct {
	Source      string         `json:"source"`
	Granularity string         `json:"granularity"`
	Total       int            `json:"total"`
	Limit       int            `json:"limit"`
	Offset      int            `json:"offset"`
	Points      []series.Point `json:"points"`
}

// QuerySeries filtra una serie por rango y la pagina: source, granularity, from, to, limit, offset.
func (s *Service) QuerySeries(ctx context.Context, v url.Values) (SeriesPage, error) {
	name := norm(v.Get("source"))
	if !validSeries(name) {
		return SeriesPage{}, apperr.Validation(fmt.Sprintf("unknown source %q (want one of %s)", v.Get("source"), strings.Join(seriesNames, ", ")))
	}
	g, ok := series.ParseGranularity(v.Get("granularity"))
	if !ok {
		return SeriesPage{}, apperr.Validation("granularity must be day or month")
	}
	from, err := parseDay(v.Get("from"))
	if err != nil {
		return SeriesPage{}, err
	}
	to, err := parseDay(v.Get("to"))
	if err != nil {
		return SeriesPage{}, err
	}
	limit := atoiDef(v.Get("limit"), 100)
	offset := atoiDef(v.Get("offset"), 0)

	snap, err := s.etl.Run(ctx)
	if err != nil {
		return SeriesPage{}, err
	}
	points := series.Between(sourceSeries(snap, g)[name], from, to)

	limit, offset = clampLimitOffset(limit, offset, len(points))
	return SeriesPage{
		Source:      name,
		Granularity: string(g),
		Total:       len(points),
		Limit:       limit,
		Offset:      offset,
		Points:      paginate(points, limit, offset),
	}, nil
}

// Combined alinea todas las fuentes con relleno de ceros.
func (s *Service) Combined(ctx context.Context, g series.Granularity) (series.Table, error) {
	snap, err := s.etl.Run(ctx)
	if err != nil {
		return series.Table{}, err
	}
	return combined(sourceSeries(snap, g)), nil
}

func validSeries(name string) bool {
	for _, n := range seriesNames {
		if n == name {
			return true
		}
	}
	return false
}

func parseDay(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, apperr.Validation(fmt.Sprintf("bad date %q (YYYY-MM-DD)", s))
	}
	return t, nil
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

func clampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = n
	}
	if limit > 1000 {
		limit = 1000
	} // tope sano
	if offset > n {
		offset = n
	}
	return limit, offset
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
func round3(f float64) float64 { return math.Round(f*1000) / 1000 }
