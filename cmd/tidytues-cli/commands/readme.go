package commands

import (
	"fmt"
	"log/slog"
	"os"
	"tidytuesday-go/lib/htmlutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var readmeWeek *int
var readmeText *bool
var readmeLinks *bool

func init() {
	readmeWeek = readmeCmd.Flags().Int("week", 0, "Interpret the argument as a year and pick its n-th week.")
	readmeText = readmeCmd.Flags().Bool("text", false, "Print the readme as plain text instead of opening a browser.")
	readmeLinks = readmeCmd.Flags().Bool("links", false, "List the readme's hyperlinks instead of opening a browser.")
	rootCmd.AddCommand(readmeCmd)
}

var readmeCmd = &cobra.Command{
	Use:   "readme <date|year> [--week <n>] [--text] [--links]",
	Short: "Opens a dataset's readme in the browser.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		meta := fetchMetadataArg(cmd.Context(), args[0], *readmeWeek)

		switch {
		case *readmeText:
			text, err := htmlutil.DocumentText(meta.ReadmeHtml)
			if err != nil {
				fatal("failed to extract readme text", err)
			}
			fmt.Println(text)

		case *readmeLinks:
			anchors, err := htmlutil.GetAnchors(cmd.Context(), meta.ReadmeHtml)
			if err != nil {
				fatal("failed to list readme links", err)
			}
			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Text", "Url"})
			for _, anchor := range anchors {
				t.AppendRow(table.Row{anchor.Name, anchor.Href})
			}
			t.SetStyle(table.StyleRounded)
			t.Render()

		default:
			err := service.ShowReadme(meta)
			if err != nil {
				fatal("failed to open readme", err)
			}
			slog.Info("readme opened in your browser", "date", meta.Date)
		}
	},
}
