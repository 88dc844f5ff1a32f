package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"vpgsync/internal/adapters/editor"
	"vpgsync/internal/application/commands"
)

var editCmd = &cobra.Command{
	Use:   "edit <object>",
	Short: "Edit an object's VPG text in $EDITOR",
	Long: `Open an object's VPG text in an editor. When the editor exits the saved
text replaces the buffer and the geometry is rebuilt from it.

The editor is taken from the config file, then $EDITOR, then $VISUAL.

Examples:
  vpgsync-cli edit cube`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opener := editor.NewOpener(GetRuntime().Config.Editor)
		result, err := commands.NewEditCommand(GetRuntime().Watcher, opener, args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var putCmd = &cobra.Command{
	Use:   "put <object|document> [file]",
	Short: "Replace a document's text",
	Long: `Replace the buffer of a tracked document with the content of file, or of
stdin when no file is given. Linked objects are rebuilt from the new text.
The file on disk is not touched until "save".

Examples:
  vpgsync-cli put cube edited.vpg
  sed 's/^n1 .*/n1 0 0 2/' cube.vpg | vpgsync-cli put cube`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if len(args) == 2 {
			data, err = os.ReadFile(args[1])
		} else {
			data, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return err
		}

		result, err := commands.NewPutTextCommand(GetRuntime().Watcher, args[0], string(data)).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var reloadCmd = &cobra.Command{
	Use:   "reload <object|document>",
	Short: "Replace a buffer with its file on disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewReloadCommand(GetRuntime().Watcher, args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save <object|document>",
	Short: "Write a buffer to its file on disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewSaveCommand(GetRuntime().Watcher, args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(reloadCmd)
	rootCmd.AddCommand(saveCmd)
}
