package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show platform summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			format := getOutputFormat()
			if format != "table" {
				summary := map[string]interface{}{}

				if stats, err := apiClient.Profiles().Statistics(ctx); err == nil {
					summary["profiles"] = stats
				}
				if orgs, err := apiClient.Organizations().List(ctx); err == nil {
					summary["organizations"] = len(orgs)
				}
				return printOutput(summary)
			}

			fmt.Println("CertiCredia Platform")
			fmt.Println(strings.Repeat("=", 40))

			orgs, err := apiClient.Organizations().List(ctx)
			if err != nil {
				fmt.Printf("  Organizations:  (error: %v)\n", err)
			} else {
				fmt.Printf("  Organizations:  %d registered\n", len(orgs))
			}

			stats, err := apiClient.Profiles().Statistics(ctx)
			if err != nil {
				fmt.Printf("  Profiles:       (error: %v)\n", err)
			} else {
				fmt.Printf("  Profiles:       %d active (%d trashed)\n", stats.TotalActive, stats.TotalDeleted)
				fmt.Printf("  Avg completion: %.1f%%\n", stats.AvgCompletion)
				fmt.Printf("  Recent updates: %d\n", stats.RecentUpdates)
			}

			return nil
		},
	}
}
