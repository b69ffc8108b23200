package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/AngelCh415/lpd-dashboard/internal/dates"
	"github.com/AngelCh415/lpd-dashboard/internal/models"
	"github.com/AngelCh415/lpd-dashboard/internal/monitoring"
	"github.com/AngelCh415/lpd-dashboard/internal/store"
)

// ETL lee cada hoja del almacén y la pasa por su adaptador. No guarda estado entre corridas.
type ETL struct {
	st      store.Store
	norm    *dates.Normalizer
	adapter *Adapter
	log     *slog.Logger
	mon     *monitoring.Metrics
}

func NewETL(st store.Store, norm *dates.Normalizer, log *slog.Logger, mon *monitoring.Metrics, weights PlatformWeights) *ETL {
	if log == nil {
		log = slog.Default()
	}
	return &ETL{st: st, norm: norm, adapter: NewAdapter(norm, weights), log: log, mon: mon}
}

// Snapshot es el resultado limpio de una pasada completa.
type Snapshot struct {
	Sales   Cleaned[Sale]
	Webinar Cleaned[WebinarSale]
	Social  Cleaned[Post]
	Email   Cleaned[Email]
	// filas leídas por hoja, antes de limpiar
	Read     map[models.Sheet]int
	Errors   map[models.Sheet]error
	Today    time.Time
	LoadedAt time.Time
}

type SourceDiag struct {
	Rows    int            `json:"rows"`
	Kept    int            `json:"kept"`
	Dropped map[string]int `json:"dropped"`
	Error   string         `json:"error,omitempty"`
}

func (s Snapshot) Diagnostics() map[models.Sheet]SourceDiag {
	out := map[models.Sheet]SourceDiag{
		models.SheetSales:   diag(s.Read[models.SheetSales], len(s.Sales.Records), s.Sales.DroppedByReason()),
		models.SheetWebinar: diag(s.Read[models.SheetWebinar], len(s.Webinar.Records), s.Webinar.DroppedByReason()),
		models.SheetSocial:  diag(s.Read[models.SheetSocial], len(s.Social.Records), s.Social.DroppedByReason()),
		models.SheetEmail:   diag(s.Read[models.SheetEmail], len(s.Email.Records), s.Email.DroppedByReason()),
	}
	for sheet, err := range s.Errors {
		d := out[sheet]
		d.Error = err.Error()
		out[sheet] = d
	}
	return out
}

func diag(rows, kept int, dropped map[string]int) SourceDiag {
	return SourceDiag{Rows: rows, Kept: kept, Dropped: dropped}
}

// Run devuelve error solo si ctx se cancela; los fallos de una hoja quedan en Snapshot.Errors
// y esa fuente se trata como vacía.
func (e *ETL) Run(ctx context.Context) (Snapshot, error) {
	start := time.Now()
	defer e.mon.ObservePipeline(start)

	snap := Snapshot{
		Read:     make(map[models.Sheet]int, len(models.Sheets)),
		Errors:   make(map[models.Sheet]error),
		Today:    e.norm.Today(),
		LoadedAt: start.UTC(),
	}
	for _, sheet := range models.Sheets {
		if err := ctx.Err(); err != nil {
			return snap, err
		}
		t, err := e.st.Read(ctx, sheet)
		if err != nil {
			e.fail(&snap, sheet, err)
			continue
		}
		snap.Read[sheet] = t.Len()
		e.mon.Rows(string(sheet), t.Len())

		var kept int
		var dropped []Dropped
		switch sheet {
		case models.SheetSales:
			snap.Sales, err = e.adapter.Sales(t)
			kept, dropped = len(snap.Sales.Records), snap.Sales.Dropped
		case models.SheetWebinar:
			snap.Webinar, err = e.adapter.Webinar(t)
			kept, dropped = len(snap.Webinar.Records), snap.Webinar.Dropped
		case models.SheetSocial:
			snap.Social, err = e.adapter.Social(t)
			kept, dropped = len(snap.Social.Records), snap.Social.Dropped
		case models.SheetEmail:
			snap.Email, err = e.adapter.Email(t)
			kept, dropped = len(snap.Email.Records), snap.Email.Dropped
		}
		if err != nil {
			e.fail(&snap, sheet, err)
			continue
		}
		for _, d := range dropped {
			e.mon.Dropped(string(sheet), d.Reason.String())
			e.log.Debug("row dropped", slog.String("source", string(sheet)), slog.Int("row", d.Row),
				slog.String("input", d.Input), slog.String("reason", d.Reason.String()))
		}
		e.log.Info("source loaded", slog.String("source", string(sheet)),
			slog.Int("rows", t.Len()), slog.Int("kept", kept), slog.Int("dropped", len(dropped)))
	}
	return snap, nil
}

func (e *ETL) fail(snap *Snapshot, sheet models.Sheet, err error) {
	snap.Errors[sheet] = err
	e.mon.SourceError(string(sheet))
	e.log.Error("source failed", slog.String("source", string(sheet)), slog.String("err", err.Error()))
}
