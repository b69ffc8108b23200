// Package scrape lanza los scrapers externos y convierte las páginas que guardan
// (buzón, pedidos de WordPress, timeline de Buffer) en filas para el almacén.
package scrape

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/AngelCh415/lpd-dashboard/internal/models"
)

func clean(s string) string { return strings.Join(strings.Fields(s), " ") }

// ParseInbox lee la lista de mensajes de Roundcube (tr.message).
func ParseInbox(r io.Reader) ([]models.RawRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	var rows []models.RawRecord
	doc.Find("tr.message").Each(func(_ int, tr *goquery.Selection) {
		addr := tr.Find("span.adr span.rcmContactAddress").First()
		sender := strings.TrimSpace(addr.AttrOr("title", ""))
		if sender == "" {
			sender = clean(addr.Text())
		}
		date := clean(tr.Find("span.date").First().Text())
		if date == "" {
			return
		}
		rows = append(rows, models.RawRecord{
			models.ColEmailDate:    models.Str(date),
			models.ColEmailSender:  models.Str(sender),
			models.ColEmailSubject: models.Str(clean(tr.Find("span.subject a").First().Text())),
		})
	})
	return rows, nil
}

type Order struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Status    string
	Date      string
	Items     string
	Amount    string
}

// ParseOrders lee la tabla de pedidos del admin de WordPress, de la más nueva a la más vieja.
func ParseOrders(r io.Reader) ([]Order, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	var out []Order
	doc.Find("tr.iedit").Each(func(_ int, tr *goquery.Selection) {
		id := clean(tr.Find(".title").First().Text())
		if id == "" {
			return
		}
		out = append(out, Order{
			ID:        id,
			FirstName: clean(tr.Find(".wpsc_first_name").First().Text()),
			LastName:  clean(tr.Find(".wpsc_last_name").First().Text()),
			Email:     clean(tr.Find(".wpsc_email_address").First().Text()),
			Status:    clean(tr.Find(".wpsc_order_status").First().Text()),
			Date:      clean(tr.Find(".date").First().Text()),
		})
	})
	return out, nil
}

type OrderDetail struct {
	Items  string
	Amount string
}

// ParseOrderDetail lee el detalle de un pedido; los campos pueden ser inputs o texto.
func ParseOrderDetail(r io.Reader) (OrderDetail, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return OrderDetail{}, err
	}
	return OrderDetail{
		Items:  fieldValue(doc.Find("[name=wpsc_items_ordered]").First()),
		Amount: fieldValue(doc.Find("[name=wpsc_total_amount]").First()),
	}, nil
}

func fieldValue(s *goquery.Selection) string {
	if v, ok := s.Attr("value"); ok && goquery.NodeName(s) == "input" {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(s.Text())
}

// TimelinePost es una publicación enviada de Buffer con sus métricas por etiqueta.
type TimelinePost struct {
	DateHeader string
	Time       string
	Platform   string
	Text       string
	Metrics    map[string]string
}

// LikesReactions y ClicksEngagement fusionan las etiquetas que cada red usa para lo mismo.
func (p TimelinePost) LikesReactions() string { return firstMetric(p.Metrics, "Likes", "Reactions") }

func (p TimelinePost) ClicksEngagement() string { return firstMetric(p.Metrics, "Clicks", "Eng. Rate") }

func firstMetric(m map[string]string, labels ...string) string {
	for _, l := range labels {
		if v := strings.TrimSpace(m[l]); v != "" && v != "0" {
			return v
		}
	}
	return "0"
}

// Las clases de Buffer llevan un sufijo generado; se comparan por prefijo.
const (
	classTimeline  = "[class*='publish_timeline_']"
	classDate      = "publish_base_"
	classPost      = "publish_postContainer"
	classPostAlt   = "publish_wrapper_KDBT-"
	classTime      = "[class*='publish_labelContainer_']"
	classBody      = "[class*='publish_body_']"
	classChannel   = "[class*='publish_channelName_']"
	classMetric    = "[class*='publish_wrapper_6Zayg']"
	classLabel     = "[class*='publish_label_']"
	classMetricVal = "[class*='publish_metric_']"
)

// ParseTimeline recorre los hijos del timeline: las cabeceras de fecha aplican a las
// publicaciones que las siguen.
func ParseTimeline(r io.Reader) ([]TimelinePost, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	var out []TimelinePost
	current := ""
	doc.Find(classTimeline).First().Children().Each(func(_ int, block *goquery.Selection) {
		class := block.AttrOr("class", "")
		switch {
		case strings.Contains(class, classDate):
			current = clean(block.Text())
		case strings.Contains(class, classPost), strings.Contains(class, classPostAlt):
			if current == "" {
				return
			}
			p := TimelinePost{
				DateHeader: current,
				Time:       clean(block.Find(classTime).First().Text()),
				Platform:   block.Find("div[data-channel]").First().AttrOr("data-channel", ""),
				Text:       clean(block.Find(classBody).First().Text()),
				Metrics:    map[string]string{},
			}
			if p.Platform == "" {
				p.Platform = clean(block.Find(classChannel).First().Text())
			}
			block.Find(classMetric).Each(func(_ int, m *goquery.Selection) {
				label := clean(m.Find(classLabel).First().Text())
				if label != "" {
					p.Metrics[label] = clean(m.Find(classMetricVal).First().Text())
				}
			})
			out = append(out, p)
		}
	})
	return out, nil
}
