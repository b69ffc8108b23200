package ingest

import (
	"strings"
	"time"

	"github.com/AngelCh415/lpd-dashboard/internal/dates"
	"github.com/AngelCh415/lpd-dashboard/internal/models"
)

// SeenDates es el conjunto de cadenas de fecha literales ya persistidas en la hoja de correo.
// La clave es el texto original, no la fecha interpretada: "Tue 07:46" se repite entre corridas
// y es así como quedó guardado.
type SeenDates map[string]struct{}

func NewSeenDates(existing models.Table) SeenDates {
	seen := make(SeenDates, len(existing.Rows))
	for _, row := range existing.Rows {
		if k := strings.TrimSpace(row.Get(models.ColEmailDate).Text()); k != "" {
			seen[k] = struct{}{}
		}
	}
	return seen
}

// Mark devuelve false si la cadena ya estaba (idempotencia por registro).
func (s SeenDates) Mark(dateText string) bool {
	k := strings.TrimSpace(dateText)
	if _, ok := s[k]; ok {
		return false
	}
	s[k] = struct{}{}
	return true
}

// NewEmails filtra las filas entrantes: fuera las ya vistas por cadena literal y,
// si since no es cero, las que no son posteriores a since.
func NewEmails(norm *dates.Normalizer, existing models.Table, incoming []models.RawRecord, since time.Time) (fresh []models.RawRecord, skipped int) {
	seen := NewSeenDates(existing)
	for _, row := range incoming {
		raw := row.Get(models.ColEmailDate).Text()
		if !since.IsZero() {
			if res := norm.Parse(dates.WeekdayTime, raw); res.OK() && !res.Date.Time.After(since) {
				skipped++
				continue
			}
		}
		if !seen.Mark(raw) {
			skipped++
			continue
		}
		fresh = append(fresh, row)
	}
	return fresh, skipped
}

// LastEmailDate interpreta la fecha de la última fila de la hoja (D/M/Y H:M o D/M/Y).
func LastEmailDate(norm *dates.Normalizer, existing models.Table) (time.Time, bool) {
	if len(existing.Rows) == 0 {
		return time.Time{}, false
	}
	raw := existing.Rows[len(existing.Rows)-1].Get(models.ColEmailDate).Text()
	res := norm.Parse(dates.DayFirst, raw)
	if !res.OK() {
		return time.Time{}, false
	}
	return res.Date.Time, true
}
