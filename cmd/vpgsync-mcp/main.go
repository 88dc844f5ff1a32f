package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "vpgsync/internal/adapters/mcp"
	"vpgsync/internal/app"
	"vpgsync/internal/config"
)

func main() {
	configFlag := flag.String("config", config.FilePath(), "path to the config file")
	dbFlag := flag.String("db", "", "path to the scene database")
	flag.Parse()

	if err := run(*configFlag, *dbFlag); err != nil {
		log.Fatalf("vpgsync-mcp: %v", err)
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

	// stdout carries the protocol
	logger := config.NewLogger(cfg.LogLevel, os.Stderr)

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go rt.Watcher.Run(ctx)

	mcpServer := server.NewMCPServer(
		"vpgsync-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	session := &mcpadapter.Session{Watcher: rt.Watcher, Host: rt.Scene, Files: rt.Files}
	mcpadapter.RegisterReadTools(mcpServer, session)
	mcpadapter.RegisterWriteTools(mcpServer, session)

	return server.ServeStdio(mcpServer)
}
