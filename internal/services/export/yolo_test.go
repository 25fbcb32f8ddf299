package export

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"visionpulse/internal/models"
)

func TestEncodeYOLO_FullImageBox(t *testing.T) {
	boxes := []*models.GroundTruthBox{
		{X1: 0, Y1: 0, X2: 640, Y2: 480, ClassID: 3},
	}

	lines := EncodeYOLO(boxes, 640, 480)

	require.Len(t, lines, 1)
	require.Equal(t, "3 0.500000 0.500000 1.000000 1.000000", lines[0])
}

func TestEncodeYOLO_Normalization(t *testing.T) {
	boxes := []*models.GroundTruthBox{
		{X1: 100, Y1: 100, X2: 300, Y2: 200, ClassID: 0},
	}

	lines := EncodeYOLO(boxes, 400, 400)

	require.Equal(t, "0 0.500000 0.375000 0.500000 0.250000", lines[0])
}

func TestEncodeYOLO_ClampsOverflowingBoxes(t *testing.T) {
	// Detector rounding can push boxes slightly past the image bounds; each
	// normalized value is clamped independently before formatting.
	boxes := []*models.GroundTruthBox{
		{X1: -10, Y1: -5, X2: 650, Y2: 485, ClassID: 1},
	}

	lines := EncodeYOLO(boxes, 640, 480)

	require.Equal(t, "1 0.500000 0.500000 1.000000 1.000000", lines[0])
}

func TestEncodeYOLO_StableOrder(t *testing.T) {
	boxes := []*models.GroundTruthBox{
		{X1: 0, Y1: 0, X2: 100, Y2: 100, ClassID: 5},
		{X1: 0, Y1: 0, X2: 50, Y2: 50, ClassID: 1},
		{X1: 0, Y1: 0, X2: 200, Y2: 200, ClassID: 9},
	}

	lines := EncodeYOLO(boxes, 200, 200)

	require.Len(t, lines, 3)
	require.Equal(t, byte('5'), lines[0][0])
	require.Equal(t, byte('1'), lines[1][0])
	require.Equal(t, byte('9'), lines[2][0])
}

func TestEncodeYOLO_Empty(t *testing.T) {
	require.Empty(t, EncodeYOLO(nil, 640, 480))
}

func TestWriteArchive(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "abc123.jpg")
	require.NoError(t, os.WriteFile(imagePath, []byte("fake-jpeg-bytes"), 0644))

	var buf bytes.Buffer
	err := WriteArchive(&buf, "abc123", []string{"0 0.5 0.5 1.0 1.0", "2 0.1 0.1 0.2 0.2"}, imagePath)
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	require.Equal(t, "abc123.txt", zr.File[0].Name)
	require.Equal(t, "abc123.jpg", zr.File[1].Name)

	labels, err := zr.File[0].Open()
	require.NoError(t, err)
	defer labels.Close()

	content, err := io.ReadAll(labels)
	require.NoError(t, err)
	require.Equal(t, "0 0.5 0.5 1.0 1.0\n2 0.1 0.1 0.2 0.2", string(content))
}

func TestWriteArchive_LabelsOnly(t *testing.T) {
	var buf bytes.Buffer
	err := WriteArchive(&buf, "abc123", []string{"0 0.5 0.5 1.0 1.0"}, "")
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	require.Equal(t, "abc123.txt", zr.File[0].Name)
}
