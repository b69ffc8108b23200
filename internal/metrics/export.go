package metrics

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/AngelCh415/lpd-dashboard/internal/apperr"
	"github.com/AngelCh415/lpd-dashboard/internal/series"
	"github.com/AngelCh415/lpd-dashboard/internal/store"
)

// ExportRow es una fila diaria del total combinado enviada al sink.
type ExportRow struct {
	Date   string             `json:"date"`
	Values map[string]float64 `json:"values"`
	Total  float64            `json:"total"`
}

type Exporter struct {
	c      store.HTTPClient
	url    string
	secret string
}

func NewExporter(c store.HTTPClient, url, secret string) *Exporter {
	if c == nil {
		c = store.NewHTTPClient(15 * time.Second)
	}
	return &Exporter{c: c, url: url, secret: secret}
}

// Sign es el HMAC-SHA256 hex del cuerpo; el receptor lo compara con X-Signature.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// ExportDay envía las filas del día date; devuelve cuántas se exportaron.
func (e *Exporter) ExportDay(ctx context.Context, tbl series.Table, date time.Time) (int, error) {
	if e == nil || e.url == "" || e.secret == "" {
		return 0, apperr.Configuration("sink not configured")
	}
	day := series.DayBucket(date)
	var rows []ExportRow
	for _, r := range tbl.Rows {
		if r.Bucket != day {
			continue
		}
		row := ExportRow{Date: r.Bucket.String(), Values: make(map[string]float64, len(tbl.Columns)), Total: round2(r.Total())}
		for i, c := range tbl.Columns {
			row.Values[c] = round2(r.Values[i])
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	b, err := json.Marshal(rows)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(b))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature", Sign(e.secret, b))
	resp, err := e.c.Do(req)
	if err != nil {
		return 0, apperr.Upstream("export sink", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, apperr.Upstream("export sink", fmt.Errorf("non-2xx: %d", resp.StatusCode))
	}
	return len(rows), nil
}

// ExportDay arma la serie diaria combinada y la exporta.
func (s *Service) ExportDay(ctx context.Context, e *Exporter, date time.Time) (int, error) {
	tbl, err := s.Combined(ctx, series.Day)
	if err != nil {
		return 0, err
	}
	return e.ExportDay(ctx, tbl, date)
}
