package scrape

import (
	"strconv"

	"github.com/AngelCh415/lpd-dashboard/internal/dates"
	"github.com/AngelCh415/lpd-dashboard/internal/ingest"
	"github.com/AngelCh415/lpd-dashboard/internal/models"
)

// formato en el que los scrapers guardan las fechas
const sheetDate = "02/01/2006"

var (
	EmailColumns  = []string{models.ColEmailDate, models.ColEmailSender, models.ColEmailSubject}
	OrderColumns  = []string{models.ColWebinarOrderID, models.ColWebinarFirstName, models.ColWebinarLastName, models.ColWebinarEmail, models.ColWebinarAmount, models.ColWebinarStatus, models.ColWebinarDate, models.ColWebinarItems}
	SocialColumns = []string{models.ColSocialDate, models.ColSocialTime, models.ColSocialPlatform, models.ColSocialPost, models.ColSocialLikes, models.ColSocialComments, models.ColSocialImpressions, models.ColSocialShares, models.ColSocialClicks, models.ColSocialScore}
)

// NewEmailRows deja solo los correos posteriores a la última fecha de la hoja y cuya
// cadena de fecha no esté ya guardada.
func NewEmailRows(norm *dates.Normalizer, existing models.Table, inbox []models.RawRecord) (models.Table, int) {
	since, _ := ingest.LastEmailDate(norm, existing)
	fresh, skipped := ingest.NewEmails(norm, existing, inbox, since)
	t := models.NewTable(EmailColumns...)
	for _, r := range fresh {
		t.Add(r.Get(models.ColEmailDate).Text(), r.Text(models.ColEmailSender), r.Text(models.ColEmailSubject))
	}
	return t, skipped
}

// NewOrders corta la lista (más nueva primero) al llegar al último ID conocido y la
// devuelve en orden cronológico, para que la última fila siga siendo la más reciente.
func NewOrders(existing models.Table, page []Order) []Order {
	last := ""
	if n := existing.Len(); n > 0 {
		last = existing.Rows[n-1].Text(models.ColWebinarOrderID)
	}
	var fresh []Order
	for _, o := range page {
		if last != "" && o.ID == last {
			break
		}
		fresh = append(fresh, o)
	}
	for i, j := 0, len(fresh)-1; i < j; i, j = i+1, j-1 {
		fresh[i], fresh[j] = fresh[j], fresh[i]
	}
	return fresh
}

// OrdersTable combina la lista con los detalles por ID; sin detalle el pedido queda "N/A".
func OrdersTable(orders []Order, details map[string]OrderDetail) models.Table {
	t := models.NewTable(OrderColumns...)
	for _, o := range orders {
		items, amount := "N/A", o.Amount
		if d, ok := details[o.ID]; ok {
			items, amount = d.Items, d.Amount
		}
		t.Add(o.ID, o.FirstName, o.LastName, o.Email, amount, o.Status, o.Date, items)
	}
	return t
}

// NewPosts convierte las publicaciones posteriores a la última fecha de la hoja social.
func NewPosts(norm *dates.Normalizer, existing models.Table, posts []TimelinePost) models.Table {
	var last dates.Date
	if n := existing.Len(); n > 0 {
		if res := norm.Parse(dates.DayFirst, existing.Rows[n-1].Text(models.ColSocialDate)); res.OK() {
			last = res.Date
		}
	}
	t := models.NewTable(SocialColumns...)
	for _, p := range posts {
		res := norm.Parse(dates.RelativeDay, p.DateHeader)
		if !res.OK() {
			continue
		}
		if !last.IsZero() && !res.Date.Day().After(last.Day()) {
			continue
		}
		likes := p.LikesReactions()
		clicks := p.ClicksEngagement()
		score := 0.0
		for _, v := range []string{likes, clicks, p.Metrics["Comments"], p.Metrics["Impressions"], p.Metrics["Shares"]} {
			score += ingest.OrZero(models.Str(v))
		}
		t.Add(
			res.Date.Time.Format(sheetDate),
			p.Time,
			ingest.NormPlatform(p.Platform),
			p.Text,
			likes,
			p.Metrics["Comments"],
			p.Metrics["Impressions"],
			p.Metrics["Shares"],
			clicks,
			strconv.FormatFloat(score, 'f', -1, 64),
		)
	}
	return t
}
