// Package fusion combines calibrated per-detector probabilities into one
// ensemble verdict. Forensic flags (watermark, C2PA, metadata) never enter
// the arithmetic here; they travel alongside the verdict so the numeric
// path stays auditable.
package fusion

import (
	"time"

	"github.com/DhanushPillay/VisioNova/pkg/config"
	"github.com/DhanushPillay/VisioNova/pkg/detector"
	"github.com/DhanushPillay/VisioNova/pkg/observability/metrics"
)

// Engine computes weighted-mean fusion over calibrated detector results.
type Engine struct {
	registry *config.Registry
}

// NewEngine creates a fusion engine backed by the profile registry.
func NewEngine(registry *config.Registry) *Engine {
	return &Engine{registry: registry}
}

// Fuse combines the given results into one verdict.
//
// The probability is the reliability-weighted mean of calibrated scores over
// successful results only; weights of failed or absent detectors are excluded
// from the denominator rather than zero-filled. Zero successful results is a
// defined degenerate case: probability 50, verdict UNCERTAIN.
func (e *Engine) Fuse(results []detector.Result) *EnsembleVerdict {
	start := time.Now()
	defer func() {
		metrics.RecordFusionEvaluation(time.Since(start).Seconds())
	}()

	contributing := make([]detector.Result, len(results))
	copy(contributing, results)

	var weightedSum, weightTotal float64
	var successful int
	for _, r := range results {
		if !r.Success {
			continue
		}
		w := e.registry.Weight(r.DetectorID)
		weightedSum += w * r.CalibratedScore
		weightTotal += w
		successful++
	}

	if successful == 0 || weightTotal == 0 {
		level, detail := ClassifyAgreement(results)
		return &EnsembleVerdict{
			AIProbability:   50,
			Verdict:         VerdictUncertain,
			Results:         contributing,
			Agreement:       level,
			AgreementDetail: detail,
		}
	}

	probability := weightedSum / weightTotal
	level, detail := ClassifyAgreement(results)

	return &EnsembleVerdict{
		AIProbability:   probability,
		Verdict:         labelFor(probability),
		Results:         contributing,
		Agreement:       level,
		AgreementDetail: detail,
	}
}

// labelFor maps a probability to its verdict label. Exactly 50 resolves to
// Authentic by convention.
func labelFor(probability float64) VerdictLabel {
	if probability > 50 {
		return VerdictAIGenerated
	}
	return VerdictAuthentic
}
