package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// SaveFile writes an uploaded blob under the upload directory and
// returns the public URL path it will be served from. Stored names are
// uuid-prefixed so concurrent uploads of the same filename never
// collide.
func (s *Service) SaveFile(name string, src io.Reader) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	stored := uuid.New().String() + "_" + filepath.Base(name)
	dst, err := os.Create(filepath.Join(s.uploadDir, stored))
	if err != nil {
		return "", fmt.Errorf("create blob: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write blob: %w", err)
	}
	return "/media/" + stored, nil
}
