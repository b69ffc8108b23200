package httpx

import (
	"crypto/hmac"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/lpd-dashboard/internal/apperr"
	"github.com/AngelCh415/lpd-dashboard/internal/metrics"
	"github.com/AngelCh415/lpd-dashboard/internal/monitoring"
	"github.com/AngelCh415/lpd-dashboard/internal/scrape"
	"github.com/AngelCh415/lpd-dashboard/internal/series"
	"github.com/AngelCh415/lpd-dashboard/internal/utils"
)

const secretHeader = "X-Dashboard-Secret"

type Deps struct {
	Log      *slog.Logger
	Mon      *monitoring.Metrics
	Gatherer prometheus.Gatherer
	Service  *metrics.Service
	Runner   *scrape.Runner
	Exporter *metrics.Exporter
	// Secret protege los endpoints POST; vacío los deshabilita.
	Secret string
}

func NewRouter(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(d.Log, d.Mon))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	if d.Gatherer != nil {
		mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	mux.Get("/dashboard", func(w http.ResponseWriter, r *http.Request) {
		year := 0
		if q := strings.TrimSpace(r.URL.Query().Get("year")); q != "" {
			y, err := strconv.Atoi(q)
			if err != nil || y < 1900 || y > 9999 {
				writeError(w, d.Log, apperr.Validation("year must be a four digit number"))
				return
			}
			year = y
		}
		dash, err := d.Service.Dashboard(r.Context(), year)
		if err != nil {
			writeError(w, d.Log, err)
			return
		}
		writeJSON(w, dash)
	})

	mux.Get("/series", func(w http.ResponseWriter, r *http.Request) {
		page, err := d.Service.QuerySeries(r.Context(), r.URL.Query())
		if err != nil {
			writeError(w, d.Log, err)
			return
		}
		writeJSON(w, page)
	})

	mux.Get("/combined", func(w http.ResponseWriter, r *http.Request) {
		g, ok := series.ParseGranularity(r.URL.Query().Get("granularity"))
		if !ok {
			writeError(w, d.Log, apperr.Validation("granularity must be day or month"))
			return
		}
		tbl, err := d.Service.Combined(r.Context(), g)
		if err != nil {
			writeError(w, d.Log, err)
			return
		}
		writeJSON(w, tbl)
	})

	mux.Group(func(mux chi.Router) {
		mux.Use(requireSecret(d.Secret, d.Log))

		mux.Post("/scrape/{name}", func(w http.ResponseWriter, r *http.Request) {
			if d.Runner == nil {
				writeError(w, d.Log, apperr.Configuration("no scrapers configured"))
				return
			}
			res, err := d.Runner.Run(r.Context(), chi.URLParam(r, "name"))
			if err != nil {
				writeError(w, d.Log, err)
				return
			}
			if !res.OK {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadGateway)
				json.NewEncoder(w).Encode(res)
				return
			}
			writeJSON(w, res)
		})

		mux.Post("/export/run", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query().Get("date")
			if q == "" {
				writeError(w, d.Log, apperr.Validation("date required (YYYY-MM-DD)"))
				return
			}
			t, err := time.Parse("2006-01-02", q)
			if err != nil {
				writeError(w, d.Log, apperr.Validation("bad date"))
				return
			}
			n, err := d.Service.ExportDay(r.Context(), d.Exporter, t)
			if err != nil {
				writeError(w, d.Log, err)
				return
			}
			writeJSON(w, map[string]any{"exported": n})
		})
	})

	return mux
}

// requireSecret compara el header en tiempo constante.
func requireSecret(secret string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				writeError(w, log, apperr.Configuration("DASHBOARD_SECRET is not set"))
				return
			}
			if !hmac.Equal([]byte(r.Header.Get(secretHeader)), []byte(secret)) {
				writeError(w, log, apperr.Unauthorized())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", " ")
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	status := apperr.Status(err)
	msg := err.Error()
	if status >= 500 && apperr.CategoryOf(err) == "" {
		log.Error("request failed", slog.String("err", err.Error()))
		msg = http.StatusText(status)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"error":    msg,
		"category": string(apperr.CategoryOf(err)),
	})
}
