package commands

import (
	"github.com/spf13/cobra"

	"github.com/use-agent/solvetrack/models"
)

func init() {
	rootCmd.AddCommand(fetchCmd)
}

var fetchCmd = &cobra.Command{
	Use:   "fetch <site> <url>",
	Short: "Runs a single site adapter and prints its result as JSON.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		site, err := models.ParseSite(args[0])
		if err != nil {
			return err
		}

		set := newSiteSet()
		var out any
		if site == models.SiteCodolio {
			out = set.Questions(cmd.Context(), args[1])
		} else {
			out = map[string]any{"site": site, "count": set.Count(cmd.Context(), site, args[1])}
		}
		printJSON(out)
		return nil
	},
}
