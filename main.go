package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/glimmer/config"
	"github.com/pthm-cable/glimmer/game"
	"github.com/pthm-cable/glimmer/stream"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Render into an in-memory raster instead of a window")
	unthrottled := flag.Bool("unthrottled", false, "Headless: run frames back to back instead of at target_fps")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config and snapshots")
	snapshotDir := flag.String("snapshot", "", "Directory for manual and exit snapshots (default: <output-dir>/snapshots)")
	resume := flag.String("resume", "", "Snapshot file to restore before the first frame")
	framesDir := flag.String("frames-dir", "", "Headless: write frame PNGs into this directory")
	frameEvery := flag.Int("frame-every", 0, "Headless: save every Nth frame (0 = use config)")
	serve := flag.String("serve", "", "Stream frames over websocket on this address (empty = use config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Uint64("max-frames", 0, "Stop after N frames (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *serve != "" {
		cfg.Stream.Address = *serve
	}
	if *frameEvery > 0 {
		cfg.Headless.FrameEvery = *frameEvery
	}

	opts := game.Options{
		Seed:        *seed,
		LogStats:    *logStats,
		OutputDir:   *outputDir,
		SnapshotDir: *snapshotDir,
		Resume:      *resume,
		MaxFrames:   *maxFrames,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Stream.Address != "" {
		hub := stream.NewHub(stream.Options{ClientBuffer: cfg.Stream.ClientBuf, WriteWait: cfg.Stream.WriteWait})
		srv, err := stream.Listen(cfg.Stream.Address, cfg.Stream.Path, hub)
		if err != nil {
			slog.Error("failed to start stream", "error", err)
			os.Exit(1)
		}
		slog.Info("streaming frames", "addr", srv.Addr(), "path", cfg.Stream.Path)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Error("stream shutdown", "error", err)
			}
		}()
		opts.Stream = hub
	}

	var err error
	if *headless {
		err = runHeadless(ctx, cfg, opts, *framesDir, *unthrottled)
	} else {
		err = runWindow(ctx, cfg, opts)
	}
	if err != nil {
		slog.Error("run failed", "error", err)
		stop()
		os.Exit(1)
	}
}
