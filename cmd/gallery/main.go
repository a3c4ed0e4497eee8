// Command gallery manages the remote image gallery the particle field decorates.
//
//	gallery [-config file] list
//	gallery [-config file] upload <file>
//	gallery [-config file] delete <fileName>
//	gallery [-config file] fetch -dir <dir>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pthm-cable/glimmer/config"
	"github.com/pthm-cable/glimmer/gallery"
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: gallery [-config file] [-url base] <list|upload|delete|fetch> [args]\n")
	flag.PrintDefaults()
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	baseURL := flag.String("url", "", "Image store base URL (empty = use config)")
	flag.Usage = usage
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	gc := config.Cfg().Gallery
	if *baseURL != "" {
		gc.BaseURL = *baseURL
	}

	client := gallery.NewClient(gc.BaseURL, gc.Timeout)
	client.MaxUpload = gc.MaxUpload

	refreshed := make(chan int, 1)
	g := gallery.New(client, gallery.Options{
		KeepMinimum:  gc.KeepMinimum,
		RefreshDelay: gc.RefreshDelay,
		OnChange: func(images []gallery.Image) {
			select {
			case refreshed <- len(images):
			default:
			}
		},
	})
	defer g.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	args := flag.Args()[1:]
	switch cmd := flag.Arg(0); cmd {
	case "list":
		err = list(ctx, g)
	case "upload":
		err = upload(ctx, g, args, refreshed, gc)
	case "delete":
		err = remove(ctx, g, args)
	case "fetch":
		err = fetch(ctx, g, gc, args)
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "gallery:", err)
		stop()
		os.Exit(1)
	}
}

func list(ctx context.Context, g *gallery.Gallery) error {
	if err := g.Refresh(ctx); err != nil {
		return err
	}
	for _, im := range g.Images() {
		fmt.Printf("%s\t%s\t%d bytes\n", im.FileName, im.MimeType, len(im.Content)*3/4)
	}
	return nil
}

// upload sends one file. With a refresh delay configured it waits for the
// delayed listing, bounded by the client timeout.
func upload(ctx context.Context, g *gallery.Gallery, args []string, refreshed <-chan int, gc config.GalleryConfig) error {
	if len(args) != 1 {
		return gallery.ErrNoFile
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	u, err := g.Upload(ctx, filepath.Base(args[0]), f)
	if err != nil {
		return err
	}
	fmt.Println(u)

	if gc.RefreshDelay <= 0 {
		return nil
	}
	select {
	case n := <-refreshed:
		fmt.Printf("%d images\n", n)
	case <-time.After(gc.RefreshDelay + gc.Timeout):
		slog.Warn("gallery refresh did not complete", "delay", gc.RefreshDelay)
	case <-ctx.Done():
	}
	return nil
}

func remove(ctx context.Context, g *gallery.Gallery, args []string) error {
	if len(args) != 1 {
		return gallery.ErrNoFile
	}
	if err := g.Refresh(ctx); err != nil {
		return err
	}
	err := g.Delete(ctx, args[0])
	if errors.Is(err, gallery.ErrKeepMinimum) {
		return fmt.Errorf("%w: %d images, keeping at least %d", err, g.Len(), config.Cfg().Gallery.KeepMinimum)
	}
	if err != nil {
		return err
	}
	fmt.Printf("deleted %s, %d images left\n", args[0], g.Len())
	return nil
}

func fetch(ctx context.Context, g *gallery.Gallery, gc config.GalleryConfig, args []string) error {
	fs := flag.NewFlagSet("fetch", flag.ContinueOnError)
	dir := fs.String("dir", ".", "Directory for thumbnails")
	width := fs.Int("width", gc.ThumbWidth, "Thumbnail width")
	height := fs.Int("height", gc.ThumbHeight, "Thumbnail height")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := os.MkdirAll(*dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", *dir, err)
	}
	if err := g.Refresh(ctx); err != nil {
		return err
	}

	var failed int
	for _, im := range g.Images() {
		path, err := im.SaveThumbnail(*dir, *width, *height)
		if err != nil {
			slog.Error("thumbnail failed", "name", im.FileName, "error", err)
			failed++
			continue
		}
		fmt.Println(path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d thumbnails failed", failed, g.Len())
	}
	return nil
}
