package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/AngelCh415/lpd-dashboard/internal/ingest"
	"github.com/AngelCh415/lpd-dashboard/internal/metrics"
	"github.com/AngelCh415/lpd-dashboard/internal/models"
)

var reportYear *int

func init() {
	reportYear = reportCmd.Flags().Int("year", 0, "Only include this calendar year (0 = all years).")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report [--year <yyyy>]",
	Short: "Reads every source and prints KPIs, correlations and recommendations.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		weights := ingest.DefaultPlatformWeights().Merge(env.file.Weights)
		etl := ingest.NewETL(env.st, env.norm, env.log, nil, weights)
		snap, err := etl.Run(cmd.Context())
		if err != nil {
			return err
		}
		renderReport(cmd.OutOrStdout(), metrics.Build(snap, *reportYear, env.file.LagWindow))
		return nil
	},
}

func renderReport(w io.Writer, d metrics.Dashboard) {
	k := newTable(w)
	k.SetTitle("KPIs")
	k.AppendHeader(table.Row{"Metric", "Value"})
	k.AppendRows([]table.Row{
		{"Total revenue", d.KPIs.TotalRevenue.StringFixed(2)},
		{"Sales revenue", d.KPIs.SalesRevenue.StringFixed(2)},
		{"Webinar revenue", d.KPIs.WebinarRevenue.StringFixed(2)},
		{"Orders", d.KPIs.Orders},
		{"Webinar orders", d.KPIs.WebinarOrders},
		{"Customers", d.KPIs.Customers},
		{"Posts", d.KPIs.Posts},
		{"Avg engagement", fmt.Sprintf("%.2f", d.KPIs.AvgEngagement)},
		{"Emails", d.KPIs.Emails},
		{"Dropped rows", d.KPIs.DroppedRows},
	})
	k.Render()

	c := newTable(w)
	c.SetTitle("Correlations")
	c.AppendHeader(table.Row{"A", "B", "r", "n", "Reading"})
	for _, x := range d.Correlations {
		if !x.Available {
			c.AppendRow(table.Row{x.A, x.B, "-", x.N, x.Note})
			continue
		}
		c.AppendRow(table.Row{x.A, x.B, fmt.Sprintf("%.3f", x.Value), x.N, x.Description})
	}
	if d.Lag.Available {
		c.AppendFooter(table.Row{"lag", "", fmt.Sprintf("%.3f", d.Lag.Value), d.Lag.N, fmt.Sprintf("best at %d days (%s)", d.Lag.Lag, d.Lag.Band)})
	}
	c.Render()

	s := newTable(w)
	s.SetTitle("Sources")
	s.AppendHeader(table.Row{"Source", "Rows", "Kept", "Dropped", "Error"})
	for _, sheet := range models.Sheets {
		diag := d.Diagnostics[sheet]
		dropped := 0
		for _, n := range diag.Dropped {
			dropped += n
		}
		s.AppendRow(table.Row{sheet, diag.Rows, diag.Kept, dropped, diag.Error})
	}
	s.Render()

	r := newTable(w)
	r.SetTitle("Recommendations")
	for i, rec := range d.Recommendations {
		r.AppendRow(table.Row{i + 1, rec})
	}
	r.Render()
}
