package devapi

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

var ErrBadImage = apiError(fiber.StatusBadRequest, "Images must be jpg, png, webp or gif files")

// Media stores uploaded product images under Dir. Stored paths are relative
// ("uploads/<name>") so clients join them with the backend origin.
type Media struct {
	Dir string
}

func NewMedia(dir string) (*Media, error) {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Media{Dir: dir}, nil
}

// Name picks the stored file name for an upload, keeping only its
// extension.
func (m *Media) Name(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !imageExts[ext] {
		return "", ErrBadImage
	}
	return uuid.NewString() + ext, nil
}

func (m *Media) Path(name string) string { return filepath.Join(m.Dir, name) }

func (m *Media) URL(name string) string { return "uploads/" + name }

// Resolve maps a request path below /uploads/ onto Dir. Anything that could
// escape Dir reports false.
func (m *Media) Resolve(path string) (string, bool) {
	lower := strings.ToLower(path)
	if strings.Contains(lower, "..") || strings.Contains(lower, "%2e") || strings.Contains(lower, "\x00") {
		return "", false
	}
	clean := filepath.Clean(path)
	if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return "", false
	}
	return filepath.Join(m.Dir, clean), true
}
