package gallery

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

// fakeStore emulates the remote image store's HTTP contract.
type fakeStore struct {
	mu      sync.Mutex
	images  map[string]Image
	lists   int
	deletes int
}

func newFakeStore(t *testing.T, names ...string) (*fakeStore, *httptest.Server) {
	t.Helper()
	fs := &fakeStore{images: make(map[string]Image)}
	for _, n := range names {
		fs.images[n] = Image{FileName: n, MimeType: "image/png", Content: pngBase64(t, 4, 4)}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /single", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("image")
		if err != nil {
			http.Error(w, "missing image", http.StatusBadRequest)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)

		fs.mu.Lock()
		fs.images[header.Filename] = Image{
			FileName: header.Filename,
			MimeType: header.Header.Get("Content-Type"),
			Content:  base64.StdEncoding.EncodeToString(data),
		}
		fs.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"url": "http://" + r.Host + "/uploads/" + header.Filename})
	})
	mux.HandleFunc("GET /public", func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.lists++
		out := make([]Image, 0, len(fs.images))
		for _, im := range fs.images {
			out = append(out, im)
		}
		fs.mu.Unlock()
		sort.Slice(out, func(i, j int) bool { return out[i].FileName < out[j].FileName })
		json.NewEncoder(w).Encode(out)
	})
	mux.HandleFunc("DELETE /single/{name}", func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		fs.mu.Lock()
		defer fs.mu.Unlock()
		if _, ok := fs.images[name]; !ok {
			http.NotFound(w, r)
			return
		}
		delete(fs.images, name)
		fs.deletes++
		w.WriteHeader(http.StatusOK)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return fs, srv
}

func (fs *fakeStore) counts() (lists, deletes int) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.lists, fs.deletes
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 255, B: 255, A: 255})
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func pngBase64(t *testing.T, w, h int) string {
	return base64.StdEncoding.EncodeToString(pngBytes(t, w, h))
}

func TestClientUploadListDelete(t *testing.T) {
	fs, srv := newFakeStore(t)
	c := NewClient(srv.URL+"/", 5*time.Second)
	ctx := context.Background()

	u, err := c.Upload(ctx, "cat.png", bytes.NewReader(pngBytes(t, 8, 8)))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if !strings.HasSuffix(u, "/uploads/cat.png") {
		t.Errorf("Upload() url = %q", u)
	}

	images, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(images) != 1 || images[0].FileName != "cat.png" || images[0].MimeType != "image/png" {
		t.Fatalf("List() = %+v", images)
	}

	if err := c.Delete(ctx, "cat.png"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, deletes := fs.counts(); deletes != 1 {
		t.Errorf("store deletes = %d, want 1", deletes)
	}
	if err := c.Delete(ctx, "cat.png"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestClientUploadValidation(t *testing.T) {
	_, srv := newFakeStore(t)
	c := NewClient(srv.URL, 5*time.Second)
	ctx := context.Background()

	if _, err := c.Upload(ctx, "", strings.NewReader("x")); !errors.Is(err, ErrNoFile) {
		t.Errorf("Upload without name error = %v, want ErrNoFile", err)
	}
	if _, err := c.UploadFile(ctx, ""); !errors.Is(err, ErrNoFile) {
		t.Errorf("UploadFile(\"\") error = %v, want ErrNoFile", err)
	}

	c.MaxUpload = 4
	if _, err := c.Upload(ctx, "big.png", strings.NewReader("12345")); !errors.Is(err, ErrTooLarge) {
		t.Errorf("oversized Upload error = %v, want ErrTooLarge", err)
	}
}

func TestClientUploadFile(t *testing.T) {
	_, srv := newFakeStore(t)
	c := NewClient(srv.URL, 5*time.Second)

	path := filepath.Join(t.TempDir(), "dog.png")
	if err := os.WriteFile(path, pngBytes(t, 2, 2), 0644); err != nil {
		t.Fatal(err)
	}
	u, err := c.UploadFile(context.Background(), path)
	if err != nil {
		t.Fatalf("UploadFile() error = %v", err)
	}
	if !strings.HasSuffix(u, "/dog.png") {
		t.Errorf("UploadFile() url = %q", u)
	}
}

func TestClientStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).List(context.Background())
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("List() error = %v, want *StatusError", err)
	}
	if se.Status != http.StatusInternalServerError || se.Body != "boom" {
		t.Errorf("StatusError = %+v", se)
	}
}

func TestImageDecodeAndThumbnail(t *testing.T) {
	im := Image{FileName: "wide.png", MimeType: "image/png", Content: pngBase64(t, 40, 20)}

	if !strings.HasPrefix(im.DataURL(), "data:image/png;base64,") {
		t.Errorf("DataURL() = %q", im.DataURL()[:30])
	}

	img, err := im.Decode()
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 40, 20) {
		t.Errorf("Decode() bounds = %v", img.Bounds())
	}

	dir := t.TempDir()
	path, err := im.SaveThumbnail(dir, 10, 10)
	if err != nil {
		t.Fatalf("SaveThumbnail() error = %v", err)
	}
	thumb, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("open thumbnail: %v", err)
	}
	if b := thumb.Bounds(); b.Dx() != 10 || b.Dy() != 10 {
		t.Errorf("thumbnail bounds = %v, want 10x10", b)
	}

	bad := Image{FileName: "bad", Content: "!!!"}
	if _, err := bad.Decode(); err == nil {
		t.Error("Decode() of invalid base64 succeeded")
	}
}

func TestGalleryDeleteKeepsMinimum(t *testing.T) {
	fs, srv := newFakeStore(t, "a.png", "b.png", "c.png", "d.png")
	g := New(NewClient(srv.URL, 5*time.Second), Options{KeepMinimum: 3})
	defer g.Close()
	ctx := context.Background()

	if err := g.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if !g.CanDelete() {
		t.Fatal("CanDelete() = false with 4 images")
	}
	if err := g.Delete(ctx, "a.png"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if g.Len() != 3 {
		t.Errorf("Len() after delete = %d, want 3", g.Len())
	}

	if g.CanDelete() {
		t.Error("CanDelete() = true at the minimum")
	}
	if err := g.Delete(ctx, "b.png"); !errors.Is(err, ErrKeepMinimum) {
		t.Errorf("Delete() at minimum error = %v, want ErrKeepMinimum", err)
	}
	if _, deletes := fs.counts(); deletes != 1 {
		t.Errorf("store deletes = %d, want 1", deletes)
	}
}

func TestGalleryUploadRefreshesAfterDelay(t *testing.T) {
	_, srv := newFakeStore(t, "a.png")
	changed := make(chan []Image, 1)
	g := New(NewClient(srv.URL, 5*time.Second), Options{
		RefreshDelay: 20 * time.Millisecond,
		OnChange:     func(images []Image) { changed <- images },
	})
	defer g.Close()

	u, err := g.Upload(context.Background(), "new.png", bytes.NewReader(pngBytes(t, 2, 2)))
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if g.LastUpload() != u {
		t.Errorf("LastUpload() = %q, want %q", g.LastUpload(), u)
	}
	if !g.Loading() {
		t.Error("Loading() = false right after upload")
	}

	select {
	case images := <-changed:
		if len(images) != 2 {
			t.Errorf("refreshed images = %d, want 2", len(images))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("delayed refresh did not run")
	}
	if g.Loading() {
		t.Error("Loading() = true after refresh")
	}
}

func TestGalleryCloseCancelsRefresh(t *testing.T) {
	fs, srv := newFakeStore(t)
	g := New(NewClient(srv.URL, 5*time.Second), Options{RefreshDelay: 50 * time.Millisecond})

	if _, err := g.Upload(context.Background(), "x.png", bytes.NewReader(pngBytes(t, 2, 2))); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	g.Close()
	time.Sleep(150 * time.Millisecond)

	if lists, _ := fs.counts(); lists != 0 {
		t.Errorf("store listed %d times after Close, want 0", lists)
	}
}

func TestGalleryUploadWithoutDelaySkipsRefresh(t *testing.T) {
	fs, srv := newFakeStore(t, "a.png")
	g := New(NewClient(srv.URL, 5*time.Second), Options{KeepMinimum: 3})
	defer g.Close()

	if _, err := g.Upload(context.Background(), "new.png", bytes.NewReader(pngBytes(t, 2, 2))); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if g.Loading() {
		t.Error("Loading() = true with no refresh delay")
	}
	time.Sleep(50 * time.Millisecond)

	if lists, _ := fs.counts(); lists != 0 {
		t.Errorf("store listed %d times after upload, want 0", lists)
	}
}

// blockingStore holds List until release is closed.
type blockingStore struct {
	listing chan struct{}
	release chan struct{}
}

func (s *blockingStore) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	return "mem://" + name, nil
}

func (s *blockingStore) List(ctx context.Context) ([]Image, error) {
	close(s.listing)
	<-s.release
	return []Image{{FileName: "late.png"}}, nil
}

func (s *blockingStore) Delete(ctx context.Context, fileName string) error { return nil }

func TestGalleryCloseDropsInFlightRefresh(t *testing.T) {
	store := &blockingStore{listing: make(chan struct{}), release: make(chan struct{})}
	var mu sync.Mutex
	changes := 0
	g := New(store, Options{
		RefreshDelay: time.Millisecond,
		OnChange: func([]Image) {
			mu.Lock()
			changes++
			mu.Unlock()
		},
	})

	if _, err := g.Upload(context.Background(), "x.png", strings.NewReader("x")); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	select {
	case <-store.listing:
	case <-time.After(2 * time.Second):
		t.Fatal("delayed refresh did not start")
	}
	g.Close()
	close(store.release)
	time.Sleep(50 * time.Millisecond)

	if n := g.Len(); n != 0 {
		t.Errorf("Len() = %d after Close, want 0", n)
	}
	mu.Lock()
	defer mu.Unlock()
	if changes != 0 {
		t.Errorf("OnChange called %d times after Close, want 0", changes)
	}
}
