package gallery

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Store is the remote image store. *Client implements it.
type Store interface {
	Upload(ctx context.Context, name string, r io.Reader) (string, error)
	List(ctx context.Context) ([]Image, error)
	Delete(ctx context.Context, fileName string) error
}

// Options configures a Gallery.
type Options struct {
	KeepMinimum  int           // Deletes are refused unless more than this many images exist
	RefreshDelay time.Duration // Wait after an upload before re-listing; <= 0 disables the refresh
	OnChange     func([]Image) // Called after every successful refresh
}

// Gallery holds the listed images and the upload/delete rules around them.
// It is safe for concurrent use.
type Gallery struct {
	store Store
	opts  Options

	mu         sync.Mutex
	images     []Image
	lastUpload string
	loading    bool
	timer      *time.Timer
	closed     bool
}

// New creates an empty gallery over store. Call Refresh to load it.
func New(store Store, opts Options) *Gallery {
	return &Gallery{store: store, opts: opts}
}

// Refresh re-lists the store. A listing that completes after Close is
// dropped.
func (g *Gallery) Refresh(ctx context.Context) error {
	images, err := g.store.List(ctx)
	if err != nil {
		return err
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.images = images
	g.loading = false
	onChange := g.opts.OnChange
	g.mu.Unlock()

	slog.Info("gallery refreshed", "images", len(images))
	if onChange != nil {
		onChange(cloneImages(images))
	}
	return nil
}

// Images returns a copy of the listed images.
func (g *Gallery) Images() []Image {
	g.mu.Lock()
	defer g.mu.Unlock()
	return cloneImages(g.images)
}

// Len returns the number of listed images.
func (g *Gallery) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.images)
}

// Loading reports whether an upload is waiting for its delayed refresh.
func (g *Gallery) Loading() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.loading
}

// LastUpload returns the URL of the most recent successful upload.
func (g *Gallery) LastUpload() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastUpload
}

// Upload sends r and, when RefreshDelay is positive, schedules a refresh
// after that delay.
func (g *Gallery) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	u, err := g.store.Upload(ctx, name, r)
	if err != nil {
		slog.Error("gallery upload failed", "name", name, "error", err)
		return "", err
	}
	slog.Info("gallery upload", "name", name, "url", u)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastUpload = u
	if g.closed || g.opts.RefreshDelay <= 0 {
		return u, nil
	}
	g.loading = true
	if g.timer != nil {
		g.timer.Stop()
	}
	g.timer = time.AfterFunc(g.opts.RefreshDelay, g.delayedRefresh)
	return u, nil
}

func (g *Gallery) delayedRefresh() {
	g.mu.Lock()
	closed := g.closed
	g.mu.Unlock()
	if closed {
		return
	}
	if err := g.Refresh(context.Background()); err != nil {
		slog.Error("gallery refresh failed", "error", err)
		g.mu.Lock()
		g.loading = false
		g.mu.Unlock()
	}
}

// CanDelete reports whether the gallery has more images than its minimum.
func (g *Gallery) CanDelete() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.images) > g.opts.KeepMinimum
}

// Delete removes fileName and refreshes. It returns ErrKeepMinimum
// without contacting the store when the gallery is at its minimum.
func (g *Gallery) Delete(ctx context.Context, fileName string) error {
	if !g.CanDelete() {
		return fmt.Errorf("delete %s: %w", fileName, ErrKeepMinimum)
	}
	if err := g.store.Delete(ctx, fileName); err != nil {
		slog.Error("gallery delete failed", "name", fileName, "error", err)
		return err
	}
	slog.Info("gallery delete", "name", fileName)
	return g.Refresh(ctx)
}

// Close cancels a pending delayed refresh.
func (g *Gallery) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.loading = false
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

func cloneImages(in []Image) []Image {
	out := make([]Image, len(in))
	copy(out, in)
	return out
}
