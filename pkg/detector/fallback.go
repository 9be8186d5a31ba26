package detector

import (
	"context"

	"github.com/DhanushPillay/VisioNova/pkg/observability/logging"
)

// WithFallback combines a primary model-path detector with a heuristic
// fallback. The fallback branch is explicit: when the primary path fails,
// the heuristic runs and the returned score carries SourceFallback so
// callers can see which path produced the value.
type WithFallback struct {
	id        string
	primary   Detector
	heuristic Detector
}

// NewWithFallback wraps primary with heuristic under the given id.
// primary may be nil when the model path was resolved as unavailable at
// startup; the detector then always takes the fallback branch.
func NewWithFallback(id string, primary, heuristic Detector) *WithFallback {
	return &WithFallback{id: id, primary: primary, heuristic: heuristic}
}

func (w *WithFallback) ID() string { return w.id }

// Analyze tries the model path first, then the heuristic.
func (w *WithFallback) Analyze(ctx context.Context, image []byte) (Score, error) {
	if w.primary != nil {
		score, err := w.primary.Analyze(ctx, image)
		if err == nil {
			score.Source = SourceModel
			return score, nil
		}
		if ctx.Err() != nil {
			// Out of time; don't burn the remaining budget on the heuristic.
			return Score{}, err
		}
		logging.Warnf("detector %s: model path failed (%v), using heuristic fallback", w.id, err)
	}

	score, err := w.heuristic.Analyze(ctx, image)
	if err != nil {
		return Score{}, err
	}
	score.Source = SourceFallback
	return score, nil
}
