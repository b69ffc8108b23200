package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/lpd-dashboard/internal/dates"
	"github.com/AngelCh415/lpd-dashboard/internal/models"
	"github.com/AngelCh415/lpd-dashboard/internal/scrape"
	"github.com/AngelCh415/lpd-dashboard/internal/store"
)

var detailsDir *string

func init() {
	detailsDir = parseCmd.Flags().String("details", "", "Directory with saved order detail pages named <order id>.html.")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:       "parse <inbox|orders|timeline> <page.html> [--details <dir>]",
	Short:     "Parses a saved page and appends the rows that are not in the store yet.",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"inbox", "orders", "timeline"},
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		details := func(id string) (io.ReadCloser, error) {
			if *detailsDir == "" {
				return nil, os.ErrNotExist
			}
			return os.Open(filepath.Join(*detailsDir, id+".html"))
		}
		n, err := parsePage(cmd.Context(), env.st, env.norm, args[0], f, details)
		if err != nil {
			return err
		}
		env.log.Info("appended new rows", "kind", args[0], "rows", n)
		return nil
	},
}

// parsePage agrega a la hoja que corresponde solo lo que no estaba; details abre la página
// de detalle de un pedido (sin ella el pedido queda "N/A").
func parsePage(ctx context.Context, st store.Store, norm *dates.Normalizer, kind string, page io.Reader, details func(id string) (io.ReadCloser, error)) (int, error) {
	var sheet models.Sheet
	var fresh models.Table
	switch kind {
	case "inbox":
		sheet = models.SheetEmail
		existing, err := st.Read(ctx, sheet)
		if err != nil {
			return 0, err
		}
		inbox, err := scrape.ParseInbox(page)
		if err != nil {
			return 0, err
		}
		fresh, _ = scrape.NewEmailRows(norm, existing, inbox)
	case "orders":
		sheet = models.SheetWebinar
		existing, err := st.Read(ctx, sheet)
		if err != nil {
			return 0, err
		}
		list, err := scrape.ParseOrders(page)
		if err != nil {
			return 0, err
		}
		orders := scrape.NewOrders(existing, list)
		found := make(map[string]scrape.OrderDetail, len(orders))
		for _, o := range orders {
			rc, err := details(o.ID)
			if err != nil {
				continue
			}
			d, err := scrape.ParseOrderDetail(rc)
			rc.Close()
			if err != nil {
				return 0, fmt.Errorf("order %s: %w", o.ID, err)
			}
			found[o.ID] = d
		}
		fresh = scrape.OrdersTable(orders, found)
	case "timeline":
		sheet = models.SheetSocial
		existing, err := st.Read(ctx, sheet)
		if err != nil {
			return 0, err
		}
		posts, err := scrape.ParseTimeline(page)
		if err != nil {
			return 0, err
		}
		fresh = scrape.NewPosts(norm, existing, posts)
	default:
		return 0, fmt.Errorf("unknown page kind %q", kind)
	}
	if fresh.Len() == 0 {
		return 0, nil
	}
	return st.Append(ctx, sheet, fresh)
}
