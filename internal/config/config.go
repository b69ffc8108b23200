package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/titanous/json5"

	"github.com/AngelCh415/lpd-dashboard/internal/ingest"
	"github.com/AngelCh415/lpd-dashboard/internal/models"
)

type Config struct {
	Port            string
	HTTPTimeout     time.Duration
	LogLevel        slog.Level
	Store           string
	SQLitePath      string
	CSVDir          string
	SheetURLs       map[models.Sheet]string
	DashboardSecret string
	SinkURL         string
	SinkSecret      string
	ScraperTimeout  time.Duration
	ConfigFile      string
}

// File es la parte de la configuración que no cabe cómodamente en variables de entorno.
type File struct {
	Scrapers  map[string][]string       `json:"scrapers"`
	Weights   map[string]ingest.Weights `json:"weights"`
	LagWindow int                       `json:"lag_window"`
}

// FromEnv carga .env si existe; las variables ya definidas en el entorno tienen prioridad.
func FromEnv() Config {
	_ = godotenv.Load()

	lvl := slog.LevelInfo
	if strings.EqualFold(os.Getenv("LOG_LEVEL"), "debug") {
		lvl = slog.LevelDebug
	}
	urls := map[models.Sheet]string{}
	for sheet, key := range map[models.Sheet]string{
		models.SheetSales:   "SALES_SHEET_URL",
		models.SheetWebinar: "WEBINAR_SHEET_URL",
		models.SheetSocial:  "SOCIAL_SHEET_URL",
		models.SheetEmail:   "EMAIL_SHEET_URL",
	} {
		if v := os.Getenv(key); v != "" {
			urls[sheet] = v
		}
	}
	return Config{
		Port:            envOr("PORT", "8080"),
		HTTPTimeout:     seconds("HTTP_TIMEOUT_SECONDS", 15*time.Second),
		LogLevel:        lvl,
		Store:           envOr("STORE", "memory"),
		SQLitePath:      envOr("SQLITE_PATH", "data/dashboard.db"),
		CSVDir:          envOr("CSV_DIR", "data"),
		SheetURLs:       urls,
		DashboardSecret: os.Getenv("DASHBOARD_SECRET"),
		SinkURL:         os.Getenv("SINK_URL"),
		SinkSecret:      os.Getenv("SINK_SECRET"),
		ScraperTimeout:  seconds("SCRAPER_TIMEOUT_SECONDS", 5*time.Minute),
		ConfigFile:      envOr("CONFIG_FILE", "dashboard.json5"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func seconds(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil && d > 0 {
			return d
		}
	}
	return def
}

// LoadFile lee name y lo combina con <name>.local.<ext>; sin ninguno de los dos devuelve File vacío.
func LoadFile(name string) (File, error) {
	f, err := ReadConfig[File](name)
	if errors.Is(err, os.ErrNotExist) {
		return File{}, nil
	}
	return f, err
}

func splitExt(f string) (string, string) {
	ext := filepath.Ext(f)
	return strings.TrimSuffix(f, ext), strings.TrimPrefix(ext, ".")
}

// ReadConfig combina <name>.<ext> con <name>.local.<ext>; el local gana.
// Si no existe ninguno devuelve os.ErrNotExist.
func ReadConfig[T any](name string) (T, error) {
	var out T
	found := false

	prefix, ext := splitExt(filepath.Base(name))
	local := filepath.Join(filepath.Dir(name), fmt.Sprintf("%s.local.%s", prefix, ext))

	base, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(base) > 0 {
		if err := json5.Unmarshal(base, &out); err != nil {
			return out, fmt.Errorf("parse %s: %w", name, err)
		}
		found = true
	}

	over, err := os.ReadFile(local)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(over) > 0 {
		var override T
		if err := json5.Unmarshal(over, &override); err != nil {
			return out, fmt.Errorf("parse %s: %w", local, err)
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", local)
		found = true
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}
