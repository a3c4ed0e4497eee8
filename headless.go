package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pthm-cable/glimmer/config"
	"github.com/pthm-cable/glimmer/game"
	"github.com/pthm-cable/glimmer/loop"
	"github.com/pthm-cable/glimmer/surface"
)

// runHeadless draws into a raster driven by a ticker until ctx is cancelled
// or the game reaches its frame limit.
func runHeadless(ctx context.Context, cfg *config.Config, opts game.Options, framesDir string, unthrottled bool) error {
	raster := surface.NewRaster(cfg.Screen.Width, cfg.Screen.Height)
	ticker := loop.NewTicker(cfg.Screen.TargetFPS)

	if framesDir != "" {
		if err := os.MkdirAll(framesDir, 0755); err != nil {
			return fmt.Errorf("creating frames dir: %w", err)
		}
		every := uint64(max(cfg.Headless.FrameEvery, 1))
		opts.AfterFrame = func(fi loop.FrameInfo) {
			if fi.Frame%every != 0 {
				return
			}
			path := filepath.Join(framesDir, fmt.Sprintf("frame_%06d.png", fi.Frame))
			if err := raster.Save(path); err != nil {
				slog.Error("failed to save frame", "frame", fi.Frame, "error", err)
			}
		}
	}

	g, err := game.New(cfg, raster, ticker, nil, opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := g.Close(); err != nil {
			slog.Error("close", "error", err)
		}
	}()

	slog.Info("starting headless run",
		"seed", g.Seed(),
		"width", cfg.Screen.Width,
		"height", cfg.Screen.Height,
		"max_frames", opts.MaxFrames,
		"unthrottled", unthrottled,
	)
	g.Start()

	if unthrottled {
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-g.Done():
				return nil
			default:
				ticker.Step()
			}
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-g.Done():
			cancel()
		case <-runCtx.Done():
		}
	}()
	if err := ticker.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
