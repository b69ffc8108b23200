package ingest

import (
	"math"
	"strconv"
	"strings"

	"github.com/AngelCh415/lpd-dashboard/internal/models"
)

const noDataAvailable = "no data available"

// ToFloat convierte una celda a número. Acepta símbolos de moneda, separadores de miles,
// porcentajes y sufijos K/M ("1.2K"). ok es false para texto no numérico o vacío.
func ToFloat(c models.Cell) (float64, bool) {
	if n, ok := c.Number(); ok {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	}
	return parseNumber(c.Text())
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.NewReplacer("£", "", "$", "", "€", "", ",", "", " ", "", " ", "").Replace(s)
	s = strings.TrimSuffix(s, "%")
	mult := 1.0
	switch {
	case strings.HasSuffix(s, "K"), strings.HasSuffix(s, "k"):
		mult, s = 1e3, s[:len(s)-1]
	case strings.HasSuffix(s, "M"), strings.HasSuffix(s, "m"):
		mult, s = 1e6, s[:len(s)-1]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f * mult, true
}

// OrZero es la coerción usada en sumas: lo no numérico cuenta como 0.
func OrZero(c models.Cell) float64 {
	f, _ := ToFloat(c)
	return f
}

// engagementValue trata "no data available" como 0 antes de convertir.
func engagementValue(c models.Cell) float64 {
	if strings.EqualFold(strings.TrimSpace(c.Text()), noDataAvailable) {
		return 0
	}
	return OrZero(c)
}
