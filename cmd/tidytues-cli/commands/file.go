package commands

import (
	"errors"
	"tidytuesday-go/lib/tabular"

	"github.com/spf13/cobra"
)

var fileWeek *int
var fileIndex *int
var fileRows *int

func init() {
	fileWeek = fileCmd.Flags().Int("week", 0, "Interpret the argument as a year and pick its n-th week.")
	fileIndex = fileCmd.Flags().Int("index", -1, "Pick the file by 0-based position instead of by name.")
	fileRows = fileCmd.Flags().Int("rows", 10, "Preview at most this many rows, -1 for all.")
	rootCmd.AddCommand(fileCmd)
}

var fileCmd = &cobra.Command{
	Use:   "file <date|year> [name] [--week <n>] [--index <i>] [--rows <n>]",
	Short: "Downloads a single data file and previews it as a table.",
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		byIndex := *fileIndex >= 0
		if byIndex == (len(args) == 2) {
			fatal("pick the file", errors.New("pass exactly one of a file name or --index"))
		}

		meta := fetchMetadataArg(cmd.Context(), args[0], *fileWeek)

		var tbl tabular.Table
		var err error
		if byIndex {
			tbl, err = service.DownloadFileAt(cmd.Context(), meta, *fileIndex)
		} else {
			tbl, err = service.DownloadFile(cmd.Context(), meta, args[1])
		}
		if err != nil {
			fatal("failed to download file", err)
		}

		name := "table"
		if len(args) == 2 {
			name = args[1]
		} else if *fileIndex < len(meta.Files) {
			name = meta.Files[*fileIndex].Name
		}
		renderTable(name, tbl, *fileRows)
	},
}
