package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vpgsync/internal/application/commands"
	"vpgsync/internal/domain"
)

var showText bool

var meshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Edit the geometry of an object",
	Long: `Edit an object's geometry directly, as a modelling tool would. The VPG
text follows on the same run. Vertex indices start at 0.

Examples:
  vpgsync-cli mesh move cube 2 0 1.5 0
  vpgsync-cli mesh add cube 1 1 0 --face 1,2
  vpgsync-cli mesh delete-vertex cube 3
  vpgsync-cli mesh delete-object cube`,
}

var meshMoveCmd = &cobra.Command{
	Use:   "move <object> <index> <x> <y> <z>",
	Short: "Move a vertex",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid vertex index %q", args[1])
		}
		pos, err := parseVec3(args[2:])
		if err != nil {
			return err
		}

		rt := GetRuntime()
		result, err := commands.NewMoveVertexCommand(rt.Watcher, rt.Scene, args[0], index, pos).Execute(context.Background())
		if err != nil {
			return err
		}
		printMeshResult(result)
		return nil
	},
}

var meshAddCmd = &cobra.Command{
	Use:   "add <object> <x> <y> <z>",
	Short: "Add a vertex, optionally closing a face with two existing vertices",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := parseVec3(args[1:])
		if err != nil {
			return err
		}
		face, err := cmd.Flags().GetIntSlice("face")
		if err != nil {
			return err
		}

		rt := GetRuntime()
		result, err := commands.NewAddVertexCommand(rt.Watcher, rt.Scene, args[0], pos, face).Execute(context.Background())
		if err != nil {
			return err
		}
		printMeshResult(result)
		return nil
	},
}

var meshDeleteVertexCmd = &cobra.Command{
	Use:   "delete-vertex <object> <index>",
	Short: "Delete a vertex and the faces that use it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid vertex index %q", args[1])
		}

		rt := GetRuntime()
		result, err := commands.NewDeleteVertexCommand(rt.Watcher, rt.Scene, args[0], index).Execute(context.Background())
		if err != nil {
			return err
		}
		printMeshResult(result)
		return nil
	},
}

var meshDeleteObjectCmd = &cobra.Command{
	Use:   "delete-object <object>",
	Short: "Delete an object; its document is dropped once nothing uses it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := GetRuntime()
		result, err := commands.NewDeleteObjectCommand(rt.Watcher, rt.Scene, args[0]).Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func parseVec3(args []string) (domain.Vec3, error) {
	var xyz [3]float64
	for i, s := range args {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return domain.Vec3{}, fmt.Errorf("invalid coordinate %q", s)
		}
		xyz[i] = f
	}
	return domain.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func printMeshResult(result *commands.MeshEditResult) {
	fmt.Println(result.Message)
	if showText {
		fmt.Println()
		fmt.Print(result.Text)
	}
}

func init() {
	rootCmd.AddCommand(meshCmd)
	meshCmd.AddCommand(meshMoveCmd)
	meshCmd.AddCommand(meshAddCmd)
	meshCmd.AddCommand(meshDeleteVertexCmd)
	meshCmd.AddCommand(meshDeleteObjectCmd)

	meshCmd.PersistentFlags().BoolVar(&showText, "text", false, "print the resulting VPG text")
	meshAddCmd.Flags().IntSlice("face", nil, "two existing vertex indices to close a triangle with")
}
