package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"curator/internal/organizer"
)

var (
	organizeApply    bool
	organizeOneByOne bool
)

var organizeCmd = &cobra.Command{
	Use:   "organize [paths...]",
	Short: "Rename and file documents into category folders",
	Long: `Scans the configured roots (or the given paths), asks the model for a
descriptive name and a category per file, and moves each file under
<target_root>/<Category>/. Without --apply only the plan is shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		roots := args
		if len(roots) == 0 {
			roots = appInstance.Config.Scan.Roots
		}
		scanner := &organizer.Scanner{Roots: roots, TargetRoot: appInstance.Config.Scan.TargetRoot}
		files, err := scanner.Scan()
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Println("No files to organize.")
			return nil
		}

		apply := organizeApply && !appInstance.Config.DryRun
		org := appInstance.NewOrganizer(os.Stdout)
		plans, err := org.ProcessOneByOne(cmd.Context(), files, apply)
		if err != nil {
			return err
		}
		if len(plans) == 0 {
			return fmt.Errorf("no files were planned successfully")
		}

		if !organizeOneByOne {
			renderPlans(plans)
		}
		if !apply {
			fmt.Println("\nDry run: nothing was moved. Re-run with --apply to execute.")
		}
		return nil
	},
}

func renderPlans(plans []organizer.Plan) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Source", "New Name", "Category", "Reason"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, p := range plans {
		table.Append([]string{p.Source, p.NewName, p.Category, p.Reason})
	}
	table.Render()
}

func init() {
	organizeCmd.Flags().BoolVar(&organizeApply, "apply", false, "Execute the plan instead of only printing it")
	organizeCmd.Flags().BoolVar(&organizeOneByOne, "one-by-one", false, "Print each file's outcome as it is processed, without the summary table")
	rootCmd.AddCommand(organizeCmd)
}
