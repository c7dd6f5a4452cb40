package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check backend reachability and other diagnostics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}

		fmt.Println("Checking configured backends...")
		prompt := "Reply with exactly: <new_name>ok.txt</new_name>"
		for _, transport := range appInstance.Engine.Transports() {
			if _, err := transport.Generate(ctx, prompt, "diagnostics", 32); err != nil {
				fmt.Printf("  %s: FAILED (%v)\n", transport.Name(), err)
			} else {
				fmt.Printf("  %s: ok\n", transport.Name())
			}
		}

		fmt.Println("Checking move history store...")
		if _, err := appInstance.History.List(ctx, 1); err != nil {
			return fmt.Errorf("history store check failed: %w", err)
		}
		fmt.Println("History store ok.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
