package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"vpgsync/internal/adapters/editor"
	"vpgsync/internal/adapters/tui"
	"vpgsync/internal/app"
	"vpgsync/internal/config"
)

func main() {
	configFlag := flag.String("config", config.FilePath(), "path to the config file")
	dbFlag := flag.String("db", "", "path to the scene database")
	flag.Parse()

	if err := run(*configFlag, *dbFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, dbPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}

	// The alternate screen owns the terminal, so logs go next to the database
	logPath := filepath.Join(filepath.Dir(cfg.DBPath), "vpgsync.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return err
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := config.NewLogger(cfg.LogLevel, logFile)

	rt, err := app.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.Close()

	if cfg.WatchDisk {
		if err := rt.WatchDisk(0); err != nil {
			logger.Warn("disk watching disabled", "err", err)
		}
	}

	// Create and run TUI app
	a := tui.NewApp(rt.Watcher, editor.NewOpener(cfg.Editor), cfg.PollInterval)

	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
