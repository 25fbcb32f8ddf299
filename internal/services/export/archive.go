package export

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// WriteArchive streams a zip containing the label file "<session_id>.txt"
// and, when imagePath is non-empty, the original uploaded image.
func WriteArchive(w io.Writer, sessionID string, lines []string, imagePath string) error {
	zw := zip.NewWriter(w)

	labels, err := zw.Create(sessionID + ".txt")
	if err != nil {
		return fmt.Errorf("failed to create label entry: %w", err)
	}
	if _, err := io.WriteString(labels, strings.Join(lines, "\n")); err != nil {
		return fmt.Errorf("failed to write labels: %w", err)
	}

	if imagePath != "" {
		img, err := os.Open(imagePath)
		if err != nil {
			return fmt.Errorf("failed to open image: %w", err)
		}
		defer img.Close()

		entry, err := zw.Create(filepath.Base(imagePath))
		if err != nil {
			return fmt.Errorf("failed to create image entry: %w", err)
		}
		if _, err := io.Copy(entry, img); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}
	}

	return zw.Close()
}
