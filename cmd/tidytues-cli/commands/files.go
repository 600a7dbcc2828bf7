package commands

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var filesWeek *int

func init() {
	filesWeek = filesCmd.Flags().Int("week", 0, "Interpret the argument as a year and pick its n-th week.")
	rootCmd.AddCommand(filesCmd)
}

var filesCmd = &cobra.Command{
	Use:   "files <date|year> [--week <n>]",
	Short: "Lists the data files of a dataset.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		meta := fetchMetadataArg(cmd.Context(), args[0], *filesWeek)

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"#", "Name", "Path"})
		for i, file := range meta.Files {
			t.AppendRow(table.Row{i, file.Name, file.Path})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
