package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"vpgsync/internal/domain"
)

var (
	watchDisk     bool
	watchInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep geometry and text in sync until interrupted",
	Long: `Run the sync loop in the foreground. Every tick carries geometry edits to
the text and text edits to the geometry, and links new objects.

With --disk, writes to tracked .vpg files reload their buffers.

Examples:
  vpgsync-cli watch
  vpgsync-cli watch --disk --interval 250ms`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt := GetRuntime()
		if !cmd.Flags().Changed("disk") {
			watchDisk = rt.Config.WatchDisk
		}
		if watchDisk {
			if err := rt.WatchDisk(0); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Watching %d linked objects, %d files on disk (Ctrl+C to stop)\n", len(rt.Watcher.Status()), len(rt.Watched()))
		go reportTicks(ctx, watchInterval)

		err := rt.Watcher.Run(ctx)
		_, ticks := rt.Watcher.LastStats()
		fmt.Printf("Stopped after %d ticks\n", ticks)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

// reportTicks prints the ticks that changed something
func reportTicks(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Second
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	seen := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats, ticks := GetRuntime().Watcher.LastStats()
			if ticks == seen {
				continue
			}
			seen = ticks
			if line := formatStats(stats); line != "" {
				fmt.Printf("%s %s\n", time.Now().Format("15:04:05"), line)
			}
		}
	}
}

func formatStats(s domain.TickStats) string {
	if s.GeometryApplied+s.TextApplied+s.Linked+s.OrphansRemoved+s.Failures == 0 {
		return ""
	}
	return fmt.Sprintf("geo→txt %d  txt→geo %d  linked %d  orphans %d  failures %d",
		s.GeometryApplied, s.TextApplied, s.Linked, s.OrphansRemoved, s.Failures)
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchDisk, "disk", false, "reload buffers when tracked files change on disk (default from config)")
	watchCmd.Flags().DurationVar(&watchInterval, "report", time.Second, "how often to print tick activity")
}
