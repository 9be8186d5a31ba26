// Package calibration maps raw detector scores onto calibrated
// probabilities, correcting systematic over- or under-confidence of each
// detector so that a calibrated 70 means P(AI) ≈ 0.70 across the ensemble.
package calibration

import (
	"github.com/DhanushPillay/VisioNova/pkg/config"
	"github.com/DhanushPillay/VisioNova/pkg/detector"
	"github.com/DhanushPillay/VisioNova/pkg/observability/logging"
)

// Calibrator holds the per-detector calibration curves. It is built once
// from the profile registry and is safe for concurrent use.
type Calibrator struct {
	curves map[string][]config.CalibrationPoint
}

// New builds a calibrator from the registry's calibration curves.
// Detectors without a configured curve use the identity mapping — an
// explicit fallback, not an error.
func New(registry *config.Registry) *Calibrator {
	curves := make(map[string][]config.CalibrationPoint)
	for _, p := range registry.Profiles() {
		if len(p.Calibration) > 0 {
			curves[p.ID] = p.Calibration
		}
	}
	if len(curves) > 0 {
		logging.Debugf("calibrator initialized with %d curve(s)", len(curves))
	}
	return &Calibrator{curves: curves}
}

// Calibrate maps a raw score in [0, 100] to a calibrated score in [0, 100].
// The mapping is non-decreasing in the raw score. Scores of exactly 0 or
// 100 map to themselves; outside the curve's raw range the value clamps to
// the curve's boundary, never extrapolating beyond it.
func (c *Calibrator) Calibrate(detectorID string, raw float64) float64 {
	if raw <= 0 {
		return 0
	}
	if raw >= 100 {
		return 100
	}

	curve, ok := c.curves[detectorID]
	if !ok {
		return raw // identity mapping
	}
	return interpolate(curve, raw)
}

// Apply returns a copy of the result with its calibrated score populated.
// Failed results pass through untouched.
func (c *Calibrator) Apply(r detector.Result) detector.Result {
	if !r.Success {
		return r
	}
	return r.Calibrated(c.Calibrate(r.DetectorID, r.RawScore))
}

// interpolate evaluates the piecewise-linear curve at raw. Curves are
// validated at load time: strictly increasing raw knots, non-decreasing
// calibrated knots.
func interpolate(curve []config.CalibrationPoint, raw float64) float64 {
	if raw <= curve[0].Raw {
		return curve[0].Calibrated
	}
	last := curve[len(curve)-1]
	if raw >= last.Raw {
		return last.Calibrated
	}
	for i := 1; i < len(curve); i++ {
		if raw <= curve[i].Raw {
			lo, hi := curve[i-1], curve[i]
			t := (raw - lo.Raw) / (hi.Raw - lo.Raw)
			return lo.Calibrated + t*(hi.Calibrated-lo.Calibrated)
		}
	}
	return last.Calibrated
}
