package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/lpd-dashboard/internal/models"
	"github.com/AngelCh415/lpd-dashboard/internal/store"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <sales|webinar|social|email> <file.csv>",
	Short: "Appends the rows of a CSV export to a sheet in the configured store.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, ok := models.ParseSheet(args[0])
		if !ok {
			return fmt.Errorf("unknown sheet %q", args[0])
		}
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		n, err := importCSV(cmd.Context(), env.st, sheet, f)
		if err != nil {
			return err
		}
		env.log.Info("imported rows", "sheet", sheet, "rows", n, "file", args[1])
		return nil
	},
}

func importCSV(ctx context.Context, st store.Store, sheet models.Sheet, r io.Reader) (int, error) {
	t, err := store.ReadCSV(r)
	if err != nil {
		return 0, fmt.Errorf("read csv: %w", err)
	}
	if t.Len() == 0 {
		return 0, nil
	}
	return st.Append(ctx, sheet, t)
}
