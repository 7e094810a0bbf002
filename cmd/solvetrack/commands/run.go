package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/use-agent/solvetrack/models"
)

var runDryRun bool

func init() {
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Scrape and print reports without writing counts or sending email.")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [--dry-run]",
	Short: "Checks every stored profile once, updates counts and sends reports.",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		start := time.Now()
		sum, err := newTracker(st, runDryRun).Run(cmd.Context())
		if err != nil {
			printJSON(models.NewRunFailure(err))
			return err
		}
		slog.Info("run finished",
			"profiles", sum.ProfilesProcessed,
			"queued", sum.EmailsQueued,
			"sent", sum.EmailsSent,
			"failed", sum.EmailsFailed,
			"seconds", time.Since(start).Seconds(),
		)

		if runDryRun {
			renderReports(sum.Reports)
			return nil
		}
		printJSON(models.NewRunSuccess(sum.ProfilesProcessed, sum.EmailsQueued))
		return nil
	},
}

func renderReports(reports []models.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)

	header := table.Row{"Email", "Name"}
	for _, site := range models.CountedSites {
		header = append(header, site.DisplayName())
	}
	header = append(header, "Codolio", "Total", "Due")
	t.AppendHeader(header)

	for _, r := range reports {
		row := table.Row{r.Email, r.Name}
		for _, site := range models.CountedSites {
			row = append(row, r.Counts[site])
		}
		codolio := "-"
		if r.Questions != nil {
			codolio = fmt.Sprintf("%d/%s", r.Questions.SolvedCount(), r.Questions.TotalQuestions)
		}
		row = append(row, codolio, r.Total, r.Due)
		t.AppendRow(row)
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		slog.Error("failed to write output", "error", err)
	}
}
