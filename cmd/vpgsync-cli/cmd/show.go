package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vpgsync/internal/adapters/filesystem"
	"vpgsync/internal/application/commands"
)

var showCmd = &cobra.Command{
	Use:   "show <object>",
	Short: "Print the VPG text of a linked object",
	Long: `Print the live VPG text of a linked object. Lines the parser skips are
reported on stderr.

Examples:
  vpgsync-cli show cube`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := commands.NewShowCommand(GetRuntime().Watcher, args[0]).Execute(context.Background())
		if err != nil {
			return err
		}

		fmt.Print(result.Text)
		for _, issue := range result.Issues {
			fmt.Fprintf(os.Stderr, "%s: %s\n", result.Path, issue)
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "List linked objects and tracked documents",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := commands.NewStatusCommand(GetRuntime().Watcher).Execute(context.Background())
		if err != nil {
			return err
		}

		if len(st.Objects) == 0 {
			fmt.Println("No linked objects")
		}
		for _, o := range st.Objects {
			fmt.Printf("%s %s %s %s v=%d f=%d\n", o.ObjectID, o.Object, o.Phase, o.Path, o.VertexCount, o.FaceCount)
			if o.LastError != "" {
				fmt.Printf("  error: %s\n", o.LastError)
			}
		}

		if len(st.Documents) > 0 {
			fmt.Println()
			fmt.Println("Documents:")
			for _, d := range st.Documents {
				fmt.Printf("  %s %s\n", d.ShortName, d.FullPath)
			}
		}
		fmt.Printf("\nHistory: %d/%d\n", st.HistoryCursor+1, st.HistoryLen)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <path>...",
	Short: "Parse VPG files and report skipped lines",
	Long: `Parse VPG files without importing them. Every line the parser would skip
is reported with its line number.

Examples:
  vpgsync-cli check cube.vpg
  vpgsync-cli check ~/models`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		paths, err := expandPaths(args)
		if err != nil {
			return err
		}

		files := filesystem.NewFiles()
		bad := 0
		for _, path := range paths {
			result, err := commands.NewCheckCommand(files, path).Execute(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
				bad++
				continue
			}
			fmt.Printf("%s: %s\n", result.Path, result.Message)
			for _, issue := range result.Issues {
				fmt.Printf("  %s\n", issue)
			}
			if len(result.Issues) > 0 || result.Vertices == 0 {
				bad++
			}
		}

		if bad > 0 {
			return fmt.Errorf("%d of %d files have problems", bad, len(paths))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(checkCmd)
}
