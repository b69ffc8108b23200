package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AngelCh415/lpd-dashboard/internal/scrape"
)

func init() {
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape <name>",
	Short: "Runs one of the scrapers configured in the config file and prints its output.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner := scrape.NewRunner(env.file.Scrapers, env.cfg.ScraperTimeout, env.log, nil)
		res, err := runner.Run(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("%w (configured: %v)", err, runner.Names())
		}
		fmt.Fprint(cmd.OutOrStdout(), res.Output)
		if !res.OK {
			return fmt.Errorf("scraper %s failed: %s", res.Name, res.Error)
		}
		return nil
	},
}
