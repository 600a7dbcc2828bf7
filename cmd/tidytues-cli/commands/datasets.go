package commands

import (
	"os"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(datasetsCmd)
}

var datasetsCmd = &cobra.Command{
	Use:   "datasets [year]",
	Short: "Lists the datasets of one year, or of every year.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Year", "Date", "Title"})

		if len(args) > 0 {
			year := args[0]
			datasets, err := service.ListDatasets(cmd.Context(), year)
			if err != nil {
				fatal("failed to list datasets", err)
			}
			for _, dataset := range datasets {
				t.AppendRow(table.Row{year, dataset.Date, dataset.Title})
			}
		} else {
			all, err := service.ListAll(cmd.Context())
			if err != nil {
				fatal("failed to list datasets", err)
			}
			years := make([]string, 0, len(all))
			for year := range all {
				years = append(years, year)
			}
			sort.Strings(years)
			for _, year := range years {
				for _, dataset := range all[year] {
					t.AppendRow(table.Row{year, dataset.Date, dataset.Title})
				}
			}
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
