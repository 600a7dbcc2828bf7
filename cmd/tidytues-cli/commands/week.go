package commands

import (
	"fmt"
	"tidytuesday-go/lib/timezone"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(weekCmd)
}

var weekCmd = &cobra.Command{
	Use:   "week [date]",
	Short: "Prints the week-start Tuesday for a date, or for today.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		date := ""
		if len(args) > 0 {
			date = args[0]
		}
		tuesday, err := timezone.LastTuesdayString(date)
		if err != nil {
			fatal("failed to resolve week start", err)
		}
		fmt.Println(tuesday)
	},
}
