// Package detector defines the uniform detector contract and the result
// types shared by the calibration, fusion, cascade and explanation layers.
package detector

import (
	"context"
	"time"
)

// Source identifies which path produced a score.
type Source string

const (
	// SourceModel means the score came from the primary model path.
	SourceModel Source = "model"
	// SourceFallback means the primary path was unavailable and a
	// heuristic produced the score instead.
	SourceFallback Source = "fallback"
)

// Score is a raw AI-probability in [0, 100] with provenance.
type Score struct {
	// Value is the raw AI probability, 0 = certainly authentic, 100 = certainly AI.
	Value float64

	// Source records whether the score came from the model path or a
	// heuristic fallback. Empty is treated as SourceModel.
	Source Source
}

// Detector is implemented by score-producing classifiers.
// Analyze must honor ctx cancellation; it may block until ctx expires.
type Detector interface {
	// ID returns the detector's registry key.
	ID() string

	// Analyze classifies the image and returns a raw score in [0, 100].
	Analyze(ctx context.Context, image []byte) (Score, error)
}

// Result is the outcome of one detector invocation. It is created once per
// invocation, immutable after creation, and owned by the pipeline run that
// produced it. When Success is false the score fields carry no information
// and the result must be excluded from fusion arithmetic.
type Result struct {
	DetectorID      string
	Success         bool
	RawScore        float64
	CalibratedScore float64
	Source          Source
	Latency         time.Duration
	Error           string
}

// Calibrated returns a copy of the result with the calibrated score set.
func (r Result) Calibrated(score float64) Result {
	r.CalibratedScore = score
	return r
}

// FlaggedAsAI reports whether this result leans toward AI generation.
// Only meaningful for successful results.
func (r Result) FlaggedAsAI() bool {
	return r.Success && r.CalibratedScore > 50
}
