package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"vpgsync/internal/application/commands"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Restore the previous text snapshot",
	Long: `Step back through the text history. The restored text replaces its
document's buffer and linked objects are rebuilt from it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewUndoCommand(GetRuntime().Watcher).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var redoCmd = &cobra.Command{
	Use:   "redo",
	Short: "Restore the next text snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewRedoCommand(GetRuntime().Watcher).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(redoCmd)
}
