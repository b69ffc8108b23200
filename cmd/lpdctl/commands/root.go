package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/AngelCh415/lpd-dashboard/internal/config"
	"github.com/AngelCh415/lpd-dashboard/internal/dates"
	"github.com/AngelCh415/lpd-dashboard/internal/store"
)

// app es el estado compartido por los subcomandos, armado en PersistentPreRunE.
type app struct {
	cfg  config.Config
	file config.File
	st   store.Store
	norm *dates.Normalizer
	log  *slog.Logger
}

var (
	env       app
	storeKind *string
	verbose   *bool
)

var rootCmd = &cobra.Command{
	Use:           "lpdctl",
	Short:         "lpdctl reads the dashboard sources, prints reports and feeds saved pages into the store.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromEnv()
		if *storeKind != "" {
			cfg.Store = *storeKind
		}
		file, err := config.LoadFile(cfg.ConfigFile)
		if err != nil {
			return fmt.Errorf("read config %s: %w", cfg.ConfigFile, err)
		}
		st, err := store.Open(cfg.Store, store.Options{
			SQLitePath: cfg.SQLitePath,
			CSVDir:     cfg.CSVDir,
			SheetURLs:  cfg.SheetURLs,
			Client:     store.NewHTTPClient(cfg.HTTPTimeout),
		})
		if err != nil {
			return err
		}
		lvl := cfg.LogLevel
		if *verbose {
			lvl = slog.LevelDebug
		}
		env = app{
			cfg:  cfg,
			file: file,
			st:   st,
			norm: dates.New(time.Now),
			log:  slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: lvl, TimeFormat: time.Kitchen})),
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if c, ok := env.st.(interface{ Close() error }); ok {
			c.Close()
		}
	},
}

func init() {
	storeKind = rootCmd.PersistentFlags().String("store", "", "Store backend (memory, sqlite, csv, http); defaults to $STORE.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log dropped rows and other debug output.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}
