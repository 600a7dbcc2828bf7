package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(ratelimitCmd)
}

var ratelimitCmd = &cobra.Command{
	Use:   "ratelimit",
	Short: "Prints the remaining GitHub api request budget.",
	Run: func(cmd *cobra.Command, args []string) {
		remaining, err := service.RateBudget(cmd.Context())
		if err != nil {
			fatal("failed to check rate limit", err)
		}
		fmt.Printf("Requests remaining: %d\n", remaining)
	},
}
