// Package dates normaliza las fechas heterogéneas de cada fuente a fechas de calendario.
//
// Nunca se inventa una fecha: una entrada que no se puede interpretar devuelve un Result con
// Reason distinto de OK, y quien llama decide descartar la fila.
package dates

import (
	"errors"
	"strings"
	"time"

	"github.com/AngelCh415/lpd-dashboard/internal/models"
)

type Reason int

const (
	OK Reason = iota
	ReasonEmpty
	ReasonMalformed
	ReasonUnsupported
	ReasonUnknownDialect
)

func (r Reason) String() string {
	switch r {
	case OK:
		return "ok"
	case ReasonEmpty:
		return "empty"
	case ReasonMalformed:
		return "malformed"
	case ReasonUnsupported:
		return "unsupported_format"
	case ReasonUnknownDialect:
		return "unknown_dialect"
	}
	return "unknown"
}

func (r Reason) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// Date es una fecha de calendario en UTC; Time lleva la hora solo si HasTime.
type Date struct {
	Time    time.Time
	HasTime bool
}

// Day trunca a medianoche.
func (d Date) Day() time.Time { return Midnight(d.Time) }

func (d Date) IsZero() bool { return d.Time.IsZero() }

type Result struct {
	Date   Date
	Reason Reason
	Input  string
}

func (r Result) OK() bool { return r.Reason == OK }

// Err es útil en tests y logs; nil si la fecha se interpretó.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return errors.New("dates: " + r.Reason.String() + ": " + r.Input)
}

type Dialect string

const (
	RelativeDay    Dialect = "relative-day"
	LooseTimestamp Dialect = "loose-timestamp"
	DayFirst       Dialect = "day-first"
	WeekdayTime    Dialect = "weekday-time"
)

// dialecto por fuente
var sheetDialects = map[models.Sheet]Dialect{
	models.SheetSocial:  RelativeDay,
	models.SheetWebinar: LooseTimestamp,
	models.SheetSales:   DayFirst,
	models.SheetEmail:   WeekdayTime,
}

func ForSheet(s models.Sheet) (Dialect, bool) {
	d, ok := sheetDialects[s]
	return d, ok
}

// Normalizer interpreta fechas respecto a un "hoy" inyectable.
type Normalizer struct {
	now func() time.Time
}

// New usa now como reloj; nil equivale a time.Now.
func New(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now}
}

// Fixed fija el día actual, para tests y reprocesos.
func Fixed(t time.Time) *Normalizer {
	return New(func() time.Time { return t })
}

// Today es el día actual (según la zona del reloj) expresado como medianoche UTC.
func (n *Normalizer) Today() time.Time {
	y, m, d := n.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (n *Normalizer) Parse(d Dialect, s string) Result {
	chain, ok := chains[d]
	if !ok {
		return Result{Reason: ReasonUnknownDialect, Input: s}
	}
	in := strings.TrimSpace(s)
	if in == "" {
		return Result{Reason: ReasonEmpty, Input: s}
	}
	today := n.Today()
	reason := ReasonUnsupported
	for _, st := range chain {
		date, r := st(today, in)
		if r == OK {
			return Result{Date: date, Reason: OK, Input: s}
		}
		if r == ReasonMalformed {
			reason = ReasonMalformed
		}
	}
	return Result{Reason: reason, Input: s}
}

func (n *Normalizer) ParseSheet(sheet models.Sheet, s string) Result {
	d, ok := ForSheet(sheet)
	if !ok {
		return Result{Reason: ReasonUnknownDialect, Input: s}
	}
	return n.Parse(d, s)
}

func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
