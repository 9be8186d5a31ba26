// Package onnx runs local image classifiers through onnxruntime. The
// runtime is an optional dependency: availability is resolved once at
// startup and callers fall back to heuristic detectors when it is missing.
package onnx

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"runtime"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/DhanushPillay/VisioNova/pkg/detector"
	"github.com/DhanushPillay/VisioNova/pkg/observability/logging"
)

const inputSize = 224

// ImageNet normalization constants used by the supported checkpoints.
var (
	channelMean = [3]float32{0.485, 0.456, 0.406}
	channelStd  = [3]float32{0.229, 0.224, 0.225}
)

var (
	runtimeOnce      sync.Once
	runtimeAvailable bool
)

// RuntimeAvailable reports whether the onnxruntime shared library could be
// located and initialized. Resolved once; subsequent calls are cheap.
func RuntimeAvailable() bool {
	runtimeOnce.Do(func() {
		libPath := resolveSharedLibraryPath()
		if libPath == "" {
			logging.Warnf("onnxruntime shared library not found; ONNX detectors disabled (set ONNXRUNTIME_SHARED_LIBRARY_PATH to enable)")
			return
		}
		ort.SetSharedLibraryPath(libPath)
		if !ort.IsInitialized() {
			if err := ort.InitializeEnvironment(); err != nil {
				logging.Warnf("onnxruntime initialization failed; ONNX detectors disabled: %v", err)
				return
			}
		}
		runtimeAvailable = true
	})
	return runtimeAvailable
}

func resolveSharedLibraryPath() string {
	if p := os.Getenv("ONNXRUNTIME_SHARED_LIBRARY_PATH"); p != "" {
		return p
	}
	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = []string{
			"/usr/local/lib/libonnxruntime.dylib",
			"/opt/homebrew/lib/libonnxruntime.dylib",
		}
	default:
		candidates = []string{
			"/usr/lib/libonnxruntime.so",
			"/usr/local/lib/libonnxruntime.so",
			"/usr/lib/x86_64-linux-gnu/libonnxruntime.so",
		}
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// Classifier wraps one ONNX binary image classifier (authentic vs. AI).
type Classifier struct {
	id      string
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]

	// The session reuses its input/output tensors, so runs are serialized.
	mu sync.Mutex
}

// LoadClassifier initializes an ONNX session for the model at modelPath.
// The model must take a float32 [1,3,224,224] input named "pixel_values"
// and produce [1,2] logits ordered (authentic, ai).
func LoadClassifier(id, modelPath string) (*Classifier, error) {
	if !RuntimeAvailable() {
		return nil, fmt.Errorf("onnxruntime not available")
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file missing at %s: %w", modelPath, err)
	}

	input, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 3, inputSize, inputSize))
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}
	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 2))
	if err != nil {
		input.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{"pixel_values"},
		[]string{"logits"},
		[]ort.Value{input},
		[]ort.Value{output},
		nil,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, fmt.Errorf("create session for %s: %w", id, err)
	}

	logging.Infof("loaded ONNX classifier %s from %s", id, modelPath)
	return &Classifier{id: id, session: session, input: input, output: output}, nil
}

func (c *Classifier) ID() string { return c.id }

// Analyze preprocesses the image and runs the model, returning the AI
// probability as a score in [0, 100].
func (c *Classifier) Analyze(ctx context.Context, data []byte) (detector.Score, error) {
	if err := ctx.Err(); err != nil {
		return detector.Score{}, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return detector.Score{}, fmt.Errorf("decode image: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	fillInput(c.input.GetData(), img)
	if err := c.session.Run(); err != nil {
		return detector.Score{}, fmt.Errorf("session run: %w", err)
	}

	logits := c.output.GetData()
	if len(logits) != 2 {
		return detector.Score{}, fmt.Errorf("unexpected logits shape: %d values", len(logits))
	}
	return detector.Score{Value: softmaxAI(logits[0], logits[1]) * 100}, nil
}

// Close releases the session and its tensors.
func (c *Classifier) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Destroy()
	c.input.Destroy()
	c.output.Destroy()
}

// fillInput resizes the image to 224x224 with nearest-neighbor sampling and
// writes normalized CHW pixels into the tensor buffer.
func fillInput(buf []float32, img image.Image) {
	b := img.Bounds()
	for y := 0; y < inputSize; y++ {
		srcY := b.Min.Y + y*b.Dy()/inputSize
		for x := 0; x < inputSize; x++ {
			srcX := b.Min.X + x*b.Dx()/inputSize
			r, g, bl, _ := img.At(srcX, srcY).RGBA()
			px := [3]float32{
				float32(r) / 65535.0,
				float32(g) / 65535.0,
				float32(bl) / 65535.0,
			}
			for ch := 0; ch < 3; ch++ {
				buf[ch*inputSize*inputSize+y*inputSize+x] = (px[ch] - channelMean[ch]) / channelStd[ch]
			}
		}
	}
}

// softmaxAI converts (authentic, ai) logits into the AI-class probability.
func softmaxAI(authentic, ai float32) float64 {
	a := float64(authentic)
	b := float64(ai)
	m := math.Max(a, b)
	ea := math.Exp(a - m)
	eb := math.Exp(b - m)
	return eb / (ea + eb)
}
