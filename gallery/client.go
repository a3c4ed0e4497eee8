// Package gallery is a client for the remote image store the particle
// background decorates: single-file upload, listing and deletion.
package gallery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Errors returned by the client and Gallery.
var (
	ErrNotFound    = errors.New("image not found")
	ErrNoFile      = errors.New("no file selected")
	ErrTooLarge    = errors.New("image exceeds upload limit")
	ErrKeepMinimum = errors.New("gallery is at its minimum size")
)

// formField is the multipart field the store reads the upload from.
const formField = "image"

// StatusError is returned for an unexpected HTTP status.
type StatusError struct {
	Op     string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.Status, e.Body)
}

// Client talks to the image store at BaseURL.
type Client struct {
	BaseURL   string
	HTTP      *http.Client
	MaxUpload int64 // Bytes; 0 means unlimited
}

// NewClient creates a client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload sends r as a single-file multipart upload named name and returns the hosted URL.
func (c *Client) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if name == "" || r == nil {
		return "", ErrNoFile
	}
	if c.MaxUpload > 0 {
		r = io.LimitReader(r, c.MaxUpload+1)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, formField, filepath.Base(name)))
	h.Set("Content-Type", contentType(name))
	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	n, err := io.Copy(part, r)
	if err != nil {
		return "", fmt.Errorf("upload: read %s: %w", name, err)
	}
	if c.MaxUpload > 0 && n > c.MaxUpload {
		return "", fmt.Errorf("upload %s: %w", name, ErrTooLarge)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/single", &body)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out uploadResponse
	if err := c.do(req, "upload", &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// UploadFile uploads the file at path.
func (c *Client) UploadFile(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", ErrNoFile
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	defer f.Close()
	return c.Upload(ctx, filepath.Base(path), f)
}

// List returns every stored image.
func (c *Client) List(ctx context.Context) ([]Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/public", nil)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	var images []Image
	if err := c.do(req, "list", &images); err != nil {
		return nil, err
	}
	return images, nil
}

// Delete removes the image stored under fileName.
func (c *Client) Delete(ctx context.Context, fileName string) error {
	if fileName == "" {
		return ErrNoFile
	}
	u := c.BaseURL + "/single/" + url.PathEscape(fileName)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	if err := c.do(req, "delete", nil); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fmt.Errorf("delete %s: %w", fileName, ErrNotFound)
		}
		return err
	}
	return nil
}

// do sends req and decodes a JSON body into out when out is non-nil.
func (c *Client) do(req *http.Request, op string, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func contentType(name string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		return t
	}
	return "application/octet-stream"
}
