package commands

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/use-agent/solvetrack/models"
)

var (
	addName string
	addURLs = map[models.Site]*string{}
)

func init() {
	for _, site := range models.AllSites {
		addURLs[site] = profilesAddCmd.Flags().String(string(site), "", site.DisplayName()+" profile URL")
	}
	profilesAddCmd.Flags().StringVar(&addName, "name", "", "Student name used in greetings")

	profilesCmd.AddCommand(profilesAddCmd)
	rootCmd.AddCommand(profilesCmd)
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Prints the stored profiles and their last recorded counts.",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		profiles, err := st.List(cmd.Context())
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		header := table.Row{"Email", "Name"}
		for _, site := range models.CountedSites {
			header = append(header, site.DisplayName())
		}
		header = append(header, "Prev Record", "Prev Date")
		t.AppendHeader(header)

		for _, p := range profiles {
			row := table.Row{p.Email, p.DisplayName()}
			for _, site := range models.CountedSites {
				row = append(row, p.Counts[site])
			}
			prev := "never"
			if p.PrevDate != nil {
				prev = p.PrevDate.Format("2006-01-02")
			}
			row = append(row, p.PrevRecord, prev)
			t.AppendRow(row)
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}

var profilesAddCmd = &cobra.Command{
	Use:   "add <email> [--name <name>] [--leetcode <url>] ...",
	Short: "Adds a profile or updates its name and site URLs.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		p := models.Profile{Email: args[0], Name: addName, URLs: map[models.Site]string{}}
		for site, url := range addURLs {
			if *url != "" {
				p.URLs[site] = *url
			}
		}
		return st.Upsert(cmd.Context(), p)
	},
}
