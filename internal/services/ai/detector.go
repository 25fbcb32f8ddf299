package ai

import (
	"fmt"
	"image"
	"os"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"visionpulse/internal/config"
	"visionpulse/internal/logger"
)

// Detection is one raw detector output: a box in pixel coordinates with
// confidence and class.
type Detection struct {
	X1         float64
	Y1         float64
	X2         float64
	Y2         float64
	Confidence float64
	ClassID    int
	Label      string
}

// Result is everything one inference call produces.
type Result struct {
	Detections     []Detection
	ImageWidth     int
	ImageHeight    int
	ElapsedSeconds float64
}

// DetectorService runs a YOLO ONNX network over uploaded images. Input size
// and both thresholds are fixed at construction so confidence and box-count
// outputs stay comparable across images.
type DetectorService struct {
	net           gocv.Net
	modelPath     string
	inputSize     int
	confThreshold float32
	iouThreshold  float32
	logger        *logger.Logger

	// gocv.Net forward passes are not safe for concurrent use.
	mu sync.Mutex
}

// NewDetectorService loads the network from the configured model path.
func NewDetectorService(cfg *config.Config, logger *logger.Logger) (*DetectorService, error) {
	s := &DetectorService{
		modelPath:     cfg.ModelPath,
		inputSize:     cfg.InputSize,
		confThreshold: float32(cfg.ConfidenceThreshold),
		iouThreshold:  float32(cfg.IOUThreshold),
		logger:        logger,
	}

	if _, err := os.Stat(s.modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", s.modelPath)
	}

	net := gocv.ReadNetFromONNX(s.modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("failed to load network from %s", s.modelPath)
	}
	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		return nil, fmt.Errorf("failed to set network backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		return nil, fmt.Errorf("failed to set network target: %w", err)
	}

	s.net = net
	s.logger.Info("Detection network initialized from %s (input %dx%d)", s.modelPath, s.inputSize, s.inputSize)
	return s, nil
}

// Detect runs the network over the image at path and returns the raw
// detections plus the wall-clock time spent in the forward pass.
func (s *DetectorService) Detect(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	mat, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("decoded image is empty")
	}

	width := mat.Cols()
	height := mat.Rows()

	s.mu.Lock()
	start := time.Now()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(s.inputSize, s.inputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	s.net.SetInput(blob, "")
	output := s.net.Forward("")

	elapsed := time.Since(start).Seconds()
	s.mu.Unlock()

	defer blob.Close()
	defer output.Close()

	detections := s.decode(output, width, height)

	return &Result{
		Detections:     detections,
		ImageWidth:     width,
		ImageHeight:    height,
		ElapsedSeconds: elapsed,
	}, nil
}

// decode parses the YOLO output tensor [1, 4+classes, anchors] into pixel
// boxes, keeping per-anchor best classes above the confidence threshold and
// suppressing overlaps with NMS.
func (s *DetectorService) decode(output gocv.Mat, imageWidth, imageHeight int) []Detection {
	dims := output.Size()
	if len(dims) != 3 {
		s.logger.Warning("Unexpected output shape from network: %v", dims)
		return nil
	}
	numAttrs := dims[1]
	numAnchors := dims[2]

	flat := output.Reshape(1, numAttrs)
	defer flat.Close()

	scaleX := float64(imageWidth) / float64(s.inputSize)
	scaleY := float64(imageHeight) / float64(s.inputSize)

	var rects []image.Rectangle
	var scores []float32
	var classIDs []int

	for a := 0; a < numAnchors; a++ {
		bestClass := -1
		bestScore := float32(0)
		for c := 4; c < numAttrs; c++ {
			if score := flat.GetFloatAt(c, a); score > bestScore {
				bestScore = score
				bestClass = c - 4
			}
		}
		if bestClass < 0 || bestScore < s.confThreshold {
			continue
		}

		cx := float64(flat.GetFloatAt(0, a)) * scaleX
		cy := float64(flat.GetFloatAt(1, a)) * scaleY
		w := float64(flat.GetFloatAt(2, a)) * scaleX
		h := float64(flat.GetFloatAt(3, a)) * scaleY

		rects = append(rects, image.Rect(int(cx-w/2), int(cy-h/2), int(cx+w/2), int(cy+h/2)))
		scores = append(scores, bestScore)
		classIDs = append(classIDs, bestClass)
	}

	if len(rects) == 0 {
		return nil
	}

	keep := gocv.NMSBoxes(rects, scores, s.confThreshold, s.iouThreshold)

	detections := make([]Detection, 0, len(keep))
	for _, i := range keep {
		r := rects[i]
		detections = append(detections, Detection{
			X1:         clamp(float64(r.Min.X), 0, float64(imageWidth)),
			Y1:         clamp(float64(r.Min.Y), 0, float64(imageHeight)),
			X2:         clamp(float64(r.Max.X), 0, float64(imageWidth)),
			Y2:         clamp(float64(r.Max.Y), 0, float64(imageHeight)),
			Confidence: float64(scores[i]),
			ClassID:    classIDs[i],
			Label:      ClassLabel(classIDs[i]),
		})
	}
	return detections
}

// Close releases the network.
func (s *DetectorService) Close() error {
	return s.net.Close()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
