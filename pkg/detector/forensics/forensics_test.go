package forensics

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DhanushPillay/VisioNova/pkg/detector"
)

// encodePNG renders a width×height image through the given pixel function.
func encodePNG(t *testing.T, width, height int, pixel func(x, y int) color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, pixel(x, y))
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMetadataNoEXIFIsEvidenceNotError(t *testing.T) {
	// PNGs carry no EXIF block; the analyzer must report its absence as a
	// signal rather than fail.
	img := encodePNG(t, 32, 32, func(x, y int) color.Color {
		return color.Gray{Y: 128}
	})

	sig, err := NewMetadataAnalyzer().Inspect(context.Background(), img)
	require.NoError(t, err)

	meta, ok := sig.(detector.MetadataSignal)
	require.True(t, ok)
	assert.False(t, meta.HasEXIF)
	assert.False(t, meta.AISoftwareDetected)
}

func TestMetadataGarbageBytes(t *testing.T) {
	sig, err := NewMetadataAnalyzer().Inspect(context.Background(), []byte("not an image at all"))
	require.NoError(t, err)

	meta, ok := sig.(detector.MetadataSignal)
	require.True(t, ok)
	assert.False(t, meta.HasEXIF)
}

func TestMetadataHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMetadataAnalyzer().Inspect(ctx, []byte("irrelevant"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFrequencyCheckerboardScoresHigh(t *testing.T) {
	// Alternating columns are the idealized checkerboard artifact left by
	// transposed-convolution upsampling.
	img := encodePNG(t, 64, 64, func(x, y int) color.Color {
		if x%2 == 0 {
			return color.Gray{Y: 0}
		}
		return color.Gray{Y: 255}
	})

	score, err := NewFrequencyAnalyzer().Analyze(context.Background(), img)
	require.NoError(t, err)
	assert.Greater(t, score.Value, 80.0)
}

func TestFrequencySmoothGradientScoresLow(t *testing.T) {
	// A vertical gradient has no horizontal high-frequency content at all.
	img := encodePNG(t, 64, 64, func(x, y int) color.Color {
		return color.Gray{Y: uint8(y * 4)}
	})

	score, err := NewFrequencyAnalyzer().Analyze(context.Background(), img)
	require.NoError(t, err)
	assert.Equal(t, 0.0, score.Value)
}

func TestFrequencyRejectsTinyImages(t *testing.T) {
	img := encodePNG(t, 8, 8, func(x, y int) color.Color {
		return color.Gray{Y: 100}
	})

	_, err := NewFrequencyAnalyzer().Analyze(context.Background(), img)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too small")
}

func TestFrequencyRejectsUndecodableInput(t *testing.T) {
	_, err := NewFrequencyAnalyzer().Analyze(context.Background(), []byte("garbage"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode image")
}

func TestFrequencyHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFrequencyAnalyzer().Analyze(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
