package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vpgsync/internal/adapters/filesystem"
	"vpgsync/internal/application/commands"
)

var importCmd = &cobra.Command{
	Use:   "import <path>...",
	Short: "Import VPG files as geometry objects",
	Long: `Import one or more VPG files. Each file becomes a geometry object linked
to it. Directories are searched for .vpg files.

Importing a file that is already linked rebuilds its object.

Examples:
  vpgsync-cli import ~/models/cube.vpg
  vpgsync-cli import ~/models`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		paths, err := expandPaths(args)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			return fmt.Errorf("no .vpg files found")
		}

		failed := 0
		for _, path := range paths {
			result, err := commands.NewImportCommand(GetRuntime().Watcher, path).Execute(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
				failed++
				continue
			}
			fmt.Println(result.Message)
		}
		GetRuntime().Watcher.Tick()

		if failed > 0 {
			return fmt.Errorf("%d of %d files failed to import", failed, len(paths))
		}
		return nil
	},
}

// expandPaths makes args absolute and replaces directories with the .vpg
// files under them
func expandPaths(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		abs, err := filesystem.AbsPath(arg)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			paths = append(paths, abs)
			continue
		}
		found, err := filesystem.FindVPG(abs)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

func init() {
	rootCmd.AddCommand(importCmd)
}
