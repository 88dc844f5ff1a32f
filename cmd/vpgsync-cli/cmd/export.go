package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"vpgsync/internal/adapters/filesystem"
	"vpgsync/internal/application/commands"
)

var exportCmd = &cobra.Command{
	Use:   "export <object> [dest]",
	Short: "Write an object's VPG text to disk",
	Long: `Write an object's VPG text to disk.

Without a destination the text goes to the object's linked file. With one,
the object is linked to the new file afterwards.

Examples:
  vpgsync-cli export cube
  vpgsync-cli export cube ~/models/cube-copy.vpg`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dest := ""
		if len(args) == 2 {
			abs, err := filesystem.AbsPath(args[1])
			if err != nil {
				return err
			}
			dest = abs
		}

		result, err := commands.NewExportCommand(GetRuntime().Watcher, args[0], dest).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
