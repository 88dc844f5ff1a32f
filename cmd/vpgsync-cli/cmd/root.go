package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vpgsync/internal/app"
	"vpgsync/internal/config"
)

var (
	configPath string
	dbPath     string
	logLevel   string
	rt         *app.Runtime
)

// commands that never touch the scene database
var offline = map[string]bool{
	"help":       true,
	"completion": true,
	"check":      true,
}

var rootCmd = &cobra.Command{
	Use:   "vpgsync-cli",
	Short: "Keep 3D meshes and VPG text files in sync",
	Long: `vpgsync-cli is a command-line interface to a vpgsync scene.

Geometry objects live in a SQLite scene database. Each linked object has a
VPG text file, and edits on either side are carried to the other.

It provides commands to import and export VPG files, inspect and edit the
text of linked objects, edit meshes, step through text history, and watch
the scene.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for commands that work offline
		if offline[cmd.Name()] {
			return nil
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		rt, err = app.Open(cfg, config.NewLogger(cfg.LogLevel, os.Stderr))
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if rt == nil {
			return nil
		}
		err := rt.Close()
		rt = nil
		return err
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.FilePath(), "path to the config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to the scene database (overrides the config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides the config)")
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, cfg.Validate()
}

// GetRuntime returns the opened runtime
func GetRuntime() *app.Runtime {
	return rt
}
