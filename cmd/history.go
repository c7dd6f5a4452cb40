package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View applied moves",
	Long:  `Displays the moves recorded by previous organize runs.`,
	Run: func(cmd *cobra.Command, args []string) {
		listHistoryCmd.RunE(cmd, args)
	},
}

var listHistoryCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent moves",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		moves, err := appInstance.History.List(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("error listing move history: %w", err)
		}

		if len(moves) == 0 {
			fmt.Println("No move history found.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Source", "Target", "Category", "Applied At"})
		table.SetBorder(false)
		table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
		table.SetAlignment(tablewriter.ALIGN_LEFT)

		for _, m := range moves {
			table.Append([]string{
				strconv.FormatInt(m.ID, 10),
				m.Source,
				m.Target,
				m.Category,
				m.AppliedAt.Format("2006-01-02 15:04:05"),
			})
		}
		table.Render()
		return nil
	},
}

func init() {
	listHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of history entries to show")
	historyCmd.AddCommand(listHistoryCmd)
	rootCmd.AddCommand(historyCmd)
}
