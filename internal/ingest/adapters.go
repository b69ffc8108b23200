package ingest

import (
	"strings"

	"github.com/AngelCh415/lpd-dashboard/internal/apperr"
	"github.com/AngelCh415/lpd-dashboard/internal/dates"
	"github.com/AngelCh415/lpd-dashboard/internal/models"
)

// Dropped es una fila excluida por fecha no interpretable.
type Dropped struct {
	Row    int          `json:"row"`
	Input  string       `json:"input"`
	Reason dates.Reason `json:"reason"`
}

type Cleaned[T any] struct {
	Records []T
	Dropped []Dropped
}

func (c Cleaned[T]) DroppedCount() int { return len(c.Dropped) }

// DroppedByReason agrupa las filas excluidas para diagnóstico.
func (c Cleaned[T]) DroppedByReason() map[string]int {
	out := make(map[string]int)
	for _, d := range c.Dropped {
		out[d.Reason.String()]++
	}
	return out
}

type Sale struct {
	Date       dates.Date
	Amount     float64
	AmountOK   bool
	AmountText string
	Email      string
}

type WebinarSale struct {
	Date        dates.Date
	TotalAmount float64
	AmountOK    bool
	AmountText  string
	Email       string
}

type Post struct {
	Date        dates.Date
	Platform    string
	Text        string
	Likes       float64
	Comments    float64
	Impressions float64
	Shares      float64
	Clicks      float64
	// Engagement es la suma simple; Weighted la ponderada por plataforma.
	Engagement float64
	Weighted   float64
}

type Email struct {
	Date     dates.Date
	DateText string
	Sender   string
	Subject  string
	Count    int
}

// Adapter limpia cada fuente con el dialecto de fechas que le corresponde.
type Adapter struct {
	norm    *dates.Normalizer
	weights PlatformWeights
}

func NewAdapter(norm *dates.Normalizer, weights PlatformWeights) *Adapter {
	if weights == nil {
		weights = DefaultPlatformWeights()
	}
	return &Adapter{norm: norm, weights: weights}
}

func requireColumns(t models.Table, source models.Sheet, cols ...string) error {
	// una fuente vacía y sin cabecera no es un error estructural
	if len(t.Columns) == 0 && len(t.Rows) == 0 {
		return nil
	}
	for _, c := range cols {
		if !t.HasColumn(c) {
			return apperr.MissingColumn(string(source), c)
		}
	}
	return nil
}

// each recorre las filas y separa las que no tienen fecha válida.
func each[T any](a *Adapter, t models.Table, source models.Sheet, dateCol string, build func(models.RawRecord, dates.Date) T) Cleaned[T] {
	out := Cleaned[T]{Records: make([]T, 0, len(t.Rows))}
	for i, row := range t.Rows {
		raw := row.Get(dateCol).Text()
		res := a.norm.ParseSheet(source, raw)
		if !res.OK() {
			out.Dropped = append(out.Dropped, Dropped{Row: i, Input: raw, Reason: res.Reason})
			continue
		}
		out.Records = append(out.Records, build(row, res.Date))
	}
	return out
}

func (a *Adapter) Sales(t models.Table) (Cleaned[Sale], error) {
	if err := requireColumns(t, models.SheetSales, models.ColSalesDate, models.ColSalesAmount); err != nil {
		return Cleaned[Sale]{}, err
	}
	return each(a, t, models.SheetSales, models.ColSalesDate, func(row models.RawRecord, d dates.Date) Sale {
		amt, ok := ToFloat(row.Get(models.ColSalesAmount))
		return Sale{
			Date:       d,
			Amount:     amt,
			AmountOK:   ok,
			AmountText: row.Text(models.ColSalesAmount),
			Email:      normEmail(row.Text(models.ColSalesEmail)),
		}
	}), nil
}

func (a *Adapter) Webinar(t models.Table) (Cleaned[WebinarSale], error) {
	if err := requireColumns(t, models.SheetWebinar, models.ColWebinarDate, models.ColWebinarAmount); err != nil {
		return Cleaned[WebinarSale]{}, err
	}
	return each(a, t, models.SheetWebinar, models.ColWebinarDate, func(row models.RawRecord, d dates.Date) WebinarSale {
		amt, ok := ToFloat(row.Get(models.ColWebinarAmount))
		return WebinarSale{
			Date:        d,
			TotalAmount: amt,
			AmountOK:    ok,
			AmountText:  row.Text(models.ColWebinarAmount),
			Email:       normEmail(row.Text(models.ColWebinarEmail)),
		}
	}), nil
}

func (a *Adapter) Social(t models.Table) (Cleaned[Post], error) {
	if err := requireColumns(t, models.SheetSocial, models.ColSocialDate); err != nil {
		return Cleaned[Post]{}, err
	}
	return each(a, t, models.SheetSocial, models.ColSocialDate, func(row models.RawRecord, d dates.Date) Post {
		p := Post{
			Date:        d,
			Platform:    NormPlatform(row.Text(models.ColSocialPlatform)),
			Text:        row.Text(models.ColSocialPost),
			Likes:       engagementValue(row.Get(models.ColSocialLikes)),
			Comments:    engagementValue(row.Get(models.ColSocialComments)),
			Impressions: engagementValue(row.Get(models.ColSocialImpressions)),
			Shares:      engagementValue(row.Get(models.ColSocialShares)),
			Clicks:      engagementValue(row.Get(models.ColSocialClicks)),
		}
		p.Engagement = SimpleEngagement(p)
		p.Weighted = WeightedEngagement(p, a.weights)
		return p
	}), nil
}

func (a *Adapter) Email(t models.Table) (Cleaned[Email], error) {
	if err := requireColumns(t, models.SheetEmail, models.ColEmailDate); err != nil {
		return Cleaned[Email]{}, err
	}
	return each(a, t, models.SheetEmail, models.ColEmailDate, func(row models.RawRecord, d dates.Date) Email {
		return Email{
			Date:     d,
			DateText: row.Get(models.ColEmailDate).Text(),
			Sender:   row.Text(models.ColEmailSender),
			Subject:  row.Text(models.ColEmailSubject),
			Count:    1,
		}
	}), nil
}

func NormPlatform(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "unknown"
	}
	return s
}

func normEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
