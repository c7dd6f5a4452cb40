package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <file>",
	Short: "Suggest a descriptive name for one file",
	Long:  `Extracts metadata from the file and prints the model's suggested name and reason. The file is not touched.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		path := args[0]
		meta := appInstance.Extractors.Extract(path)
		result, err := appInstance.Engine.Rename(cmd.Context(), filepath.Base(path), meta)
		if err != nil {
			return fmt.Errorf("rename failed: %w", err)
		}

		ext := filepath.Ext(path)
		fmt.Printf("%s %s%s\n", color.GreenString("[RENAME]"), result.NewName, ext)
		if result.Reason != "" {
			fmt.Printf("%s %s\n", color.YellowString("[WHY]"), result.Reason)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
}
