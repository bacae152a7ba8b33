// Package storage provides blob storage for uploaded publication media.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register decoders for uploaded media
	_ "image/jpeg" //
	_ "image/png"  //
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"adotapet/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	DefaultMediaDir          = "/tmp/adotapet/media"
	DefaultMaxUploadSizeMB   = 10
	DefaultMaxImageDimension = 2048
	WebPQuality              = 75
)

// Store is the blob storage interface. Upload persists the content and
// returns a public URL for it.
type Store interface {
	Upload(ctx context.Context, filename, contentType string, content []byte) (string, error)
}

// LocalStore writes uploaded media to a local directory, re-encoding images
// as WebP and downscaling anything larger than maxDimension.
type LocalStore struct {
	dir          string
	baseURL      string
	maxSizeBytes int64
	maxDimension int
}

// NewLocalStore creates a store rooted at dir, serving blobs under baseURL.
func NewLocalStore(dir, baseURL string, maxUploadMB, maxDimension int) (*LocalStore, error) {
	if dir == "" {
		dir = DefaultMediaDir
	}
	if maxUploadMB <= 0 {
		maxUploadMB = DefaultMaxUploadSizeMB
	}
	if maxDimension <= 0 {
		maxDimension = DefaultMaxImageDimension
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalStore{
		dir:          dir,
		baseURL:      strings.TrimRight(baseURL, "/"),
		maxSizeBytes: int64(maxUploadMB) * 1024 * 1024,
		maxDimension: maxDimension,
	}, nil
}

// Dir returns the directory blobs are written to.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Upload(ctx context.Context, filename, contentType string, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if int64(len(content)) > s.maxSizeBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(content)
	if !isAllowedMediaMIME(detectedType) {
		return "", models.NewValidationError("Invalid media type")
	}
	if provided := normalizeContentType(contentType); provided != "" && strings.HasPrefix(provided, "image/") && !isMatchingContentType(provided, detectedType) {
		return "", models.NewValidationError("Media content type mismatch")
	}

	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}

	resized := resizeToFit(decoded, s.maxDimension, s.maxDimension)
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, resized, &webp.Options{Quality: WebPQuality}); err != nil {
		return "", models.NewInternalError(err)
	}

	name := fmt.Sprintf("publications/%d_%s.webp", time.Now().UnixNano(), sanitizeFilename(filename))
	abs := filepath.Join(s.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(abs), 0o750); err != nil {
		return "", models.NewInternalError(err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o600); err != nil {
		return "", models.NewInternalError(err)
	}

	return s.baseURL + "/" + name, nil
}

// sanitizeFilename keeps the base name safe for disk and URL use.
func sanitizeFilename(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		base = "upload"
	}
	var b strings.Builder
	for _, c := range base {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteRune(c)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func isAllowedMediaMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}
