package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"curator/internal/llm"
)

var sortCmd = &cobra.Command{
	Use:   "sort <file>...",
	Short: "Assign a category to files without moving them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		var items []llm.SortItem
		for _, path := range args {
			meta := appInstance.Extractors.Extract(path)
			desc := meta.Summary
			if desc == "" {
				desc = meta.FiletypeHint
			}
			items = append(items, llm.SortItem{
				Path:        path,
				Name:        filepath.Base(path),
				Ext:         strings.ToLower(filepath.Ext(path)),
				Description: desc,
			})
		}

		result, err := appInstance.Engine.Sort(cmd.Context(), items)
		if len(result.Assignments) > 0 {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"File", "Category", "Reason"})
			table.SetBorder(false)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			for _, item := range items {
				if category, ok := result.Assignments[item.Path]; ok {
					table.Append([]string{item.Path, category, result.Reasons[item.Path]})
				}
			}
			table.Render()
		}
		if err != nil {
			return fmt.Errorf("categorization stopped early: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sortCmd)
}
