package gallery

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Image is one stored image as listed by the store.
type Image struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	Content  string `json:"content"` // Base64, no data: prefix
}

// DataURL returns the image as a data: URL.
func (im Image) DataURL() string {
	return "data:" + im.MimeType + ";base64," + im.Content
}

// Bytes decodes the base64 content.
func (im Image) Bytes() ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(im.Content)
	if err != nil {
		return nil, fmt.Errorf("decode %s content: %w", im.FileName, err)
	}
	return b, nil
}

// Decode decodes the image pixels.
func (im Image) Decode() (image.Image, error) {
	b, err := im.Bytes()
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", im.FileName, err)
	}
	return img, nil
}

// Thumbnail decodes the image and crops it to fill w x h.
func (im Image) Thumbnail(w, h int) (image.Image, error) {
	img, err := im.Decode()
	if err != nil {
		return nil, err
	}
	return imaging.Thumbnail(img, w, h, imaging.Lanczos), nil
}

// SaveThumbnail writes a w x h thumbnail into dir and returns its path.
// The format follows the stored file's extension, PNG when it has none imaging knows.
func (im Image) SaveThumbnail(dir string, w, h int) (string, error) {
	thumb, err := im.Thumbnail(w, h)
	if err != nil {
		return "", err
	}
	name := filepath.Base(im.FileName)
	if _, err := imaging.FormatFromFilename(name); err != nil {
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".png"
	}
	path := filepath.Join(dir, name)
	if err := imaging.Save(thumb, path); err != nil {
		return "", fmt.Errorf("save thumbnail %s: %w", name, err)
	}
	return path, nil
}
