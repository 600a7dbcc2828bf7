package commands

import (
	"log/slog"
	"tidytuesday-go/services/tuesdata"

	"github.com/spf13/cobra"
)

var loadWeek *int
var loadFiles *[]string
var loadRows *int

func init() {
	loadWeek = loadCmd.Flags().Int("week", 0, "Interpret the argument as a year and pick its n-th week.")
	loadFiles = loadCmd.Flags().StringSlice("files", nil, "Download only these file names instead of every file.")
	loadRows = loadCmd.Flags().Int("rows", 10, "Preview at most this many rows per table, -1 for all.")
	rootCmd.AddCommand(loadCmd)
}

var loadCmd = &cobra.Command{
	Use:   "load <date|year> [--week <n>] [--files <a.csv,b.csv>] [--rows <n>]",
	Short: "Downloads a dataset's files and previews them as tables.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sel := tuesdata.AllFiles()
		if len(*loadFiles) > 0 {
			sel = tuesdata.Files(*loadFiles...)
		}

		var data tuesdata.LoadedDataset
		var err error
		if *loadWeek > 0 {
			data, err = service.LoadWeek(cmd.Context(), args[0], *loadWeek, sel)
		} else {
			data, err = service.LoadDate(cmd.Context(), args[0], sel)
		}
		if err != nil {
			fatal("failed to load dataset", err)
		}

		slog.Info("loaded dataset", "date", data.Date, "tables", len(data.Tables))
		renderTables(data.Tables, *loadRows)
	},
}
